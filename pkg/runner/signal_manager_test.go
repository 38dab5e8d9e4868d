package runner

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSignalManager_ResetAndStop(t *testing.T) {
	sm := NewSignalManager()
	defer sm.Stop()

	first := sm.Context()
	assert.NoError(t, first.Err())

	sm.Reset()
	second := sm.Context()
	assert.NotEqual(t, first, second)
	assert.ErrorIs(t, first.Err(), context.Canceled)
	assert.NoError(t, second.Err())

	sm.Stop()
	assert.ErrorIs(t, second.Err(), context.Canceled)
}

func TestSignalManager_InterruptedWaitsBriefly(t *testing.T) {
	sm := NewSignalManager()
	defer sm.Stop()

	start := time.Now()
	assert.False(t, sm.Interrupted())
	elapsed := time.Since(start)

	assert.GreaterOrEqual(t, elapsed, 100*time.Millisecond)
	assert.Less(t, elapsed, 500*time.Millisecond)
}

func TestSignalManager_InterruptedAfterStop(t *testing.T) {
	sm := NewSignalManager()
	sm.Stop()
	assert.True(t, sm.Interrupted())
}
