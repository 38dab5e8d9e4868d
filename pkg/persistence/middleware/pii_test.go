package middleware_test

import (
	"context"
	"testing"

	"github.com/aretw0/chatsim/pkg/adapters/memory"
	"github.com/aretw0/chatsim/pkg/domain"
	"github.com/aretw0/chatsim/pkg/persistence/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPIIMiddleware_Masking(t *testing.T) {
	underlying := memory.NewStore()
	mw, err := middleware.NewPIIMiddleware([]string{"(?i)password", "^PHONE"})
	require.NoError(t, err)
	secure := mw(underlying)

	ctx := context.Background()
	state := domain.NewState("pii", "start")
	state.Variables["USERNAME"] = "jdoe"
	state.Variables["user_password"] = "secret123"
	state.Variables["PHONE_NUMBER"] = "+919999999999"
	state.Transcript = []domain.TranscriptEntry{
		{Direction: domain.DirectionBot, Text: "Your phone?"},
		{Direction: domain.DirectionUser, Text: "+919999999999"},
		{Direction: domain.DirectionUser, Text: "jdoe"},
	}

	require.NoError(t, secure.Save(ctx, "pii", state))
	assert.Equal(t, "secret123", state.Variables["user_password"], "live state must not be modified")
	assert.Equal(t, "+919999999999", state.Transcript[1].Text)

	stored, err := underlying.Load(ctx, "pii")
	require.NoError(t, err)
	assert.Equal(t, "jdoe", stored.Variables["USERNAME"])
	assert.Equal(t, middleware.Mask, stored.Variables["user_password"])
	assert.Equal(t, middleware.Mask, stored.Variables["PHONE_NUMBER"])
	assert.Equal(t, middleware.Mask, stored.Transcript[1].Text)
	assert.Equal(t, "jdoe", stored.Transcript[2].Text)
}

func TestPIIMiddleware_InvalidPattern(t *testing.T) {
	_, err := middleware.NewPIIMiddleware([]string{"("})
	assert.Error(t, err)
}

func TestChain_PIIThenEncryption(t *testing.T) {
	underlying := memory.NewStore()
	pii, err := middleware.NewPIIMiddleware([]string{"EMAIL"})
	require.NoError(t, err)
	enc, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	require.NoError(t, err)

	store := middleware.Chain(underlying, pii, enc)
	ctx := context.Background()
	state := domain.NewState("c", "start")
	state.Variables["EMAIL"] = "ana@example.com"
	require.NoError(t, store.Save(ctx, "c", state))

	raw, err := underlying.Load(ctx, "c")
	require.NoError(t, err)
	assert.Contains(t, raw.Variables, middleware.EnvelopeKey)

	loaded, err := store.Load(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, middleware.Mask, loaded.Variables["EMAIL"])
}
