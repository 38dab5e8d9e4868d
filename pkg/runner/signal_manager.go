package runner

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// SignalManager turns SIGINT and SIGTERM into context cancellation for an
// interactive chat. It can be re-armed after an interrupt was handled.
type SignalManager struct {
	ctx    context.Context
	cancel context.CancelFunc
}

// NewSignalManager creates a manager that is already listening.
func NewSignalManager() *SignalManager {
	sm := &SignalManager{}
	sm.Reset()
	return sm
}

// Context is cancelled on the next signal.
func (sm *SignalManager) Context() context.Context {
	return sm.ctx
}

// Reset cancels the current context and listens again.
func (sm *SignalManager) Reset() {
	if sm.cancel != nil {
		sm.cancel()
	}
	sm.ctx, sm.cancel = signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// Stop cancels the context and stops listening.
func (sm *SignalManager) Stop() {
	if sm.cancel != nil {
		sm.cancel()
	}
}

// Interrupted waits up to 100ms for a signal to land after an input error.
// Some terminals deliver EOF on Ctrl+C slightly before SIGINT.
func (sm *SignalManager) Interrupted() bool {
	if sm.ctx.Err() == nil {
		select {
		case <-sm.ctx.Done():
		case <-time.After(100 * time.Millisecond):
		}
	}
	return sm.ctx.Err() != nil
}
