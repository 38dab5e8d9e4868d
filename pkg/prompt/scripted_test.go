package prompt

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/chatsim/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScripted_ReplaysInOrder(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

	p := NewScripted().
		QueueAddress(domain.Address{City: "Pune"}).
		DismissAddress().
		QueuePick(at).
		CancelPick()

	a, ok, err := p.PromptAddress(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Pune", a.City)

	_, ok, err = p.PromptAddress(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, _ = p.PromptAddress(ctx)
	assert.False(t, ok, "exhausted queue dismisses")

	got, ok, err := p.PickDateTime(ctx, domain.PickDate)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, at, got)

	_, ok, _ = p.PickDateTime(ctx, domain.PickTime)
	assert.False(t, ok)
	assert.Equal(t, []domain.PickerMode{domain.PickDate, domain.PickTime}, p.Modes())

	require.NoError(t, p.Notify(ctx, "hello"))
	assert.Equal(t, []string{"hello"}, p.Notices())
}

func TestScripted_HonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewScripted().QueueAddress(domain.Address{City: "Pune"})
	_, _, err := p.PromptAddress(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
