package domain

import (
	"context"
	"time"
)

// Outcome summarizes how a button dispatch ended.
type Outcome string

const (
	// OutcomeCompleted means the action ran and navigation to the next node was requested.
	OutcomeCompleted Outcome = "completed"
	// OutcomeAborted means validation failed, a dialog was cancelled, or a pick came back empty.
	OutcomeAborted Outcome = "aborted"
	// OutcomeIgnored means the parameter was not a button.
	OutcomeIgnored Outcome = "ignored"
	// OutcomeFailed means a collaborator returned an error.
	OutcomeFailed Outcome = "failed"
)

// DispatchEvent describes one Execute call of the button command.
type DispatchEvent struct {
	Timestamp  time.Time     `json:"timestamp"`
	SessionID  string        `json:"session_id,omitempty"`
	NodeID     string        `json:"node_id,omitempty"`
	ButtonID   string        `json:"button_id,omitempty"`
	ButtonType string        `json:"button_type"`
	NextNodeID string        `json:"next_node_id,omitempty"`
	Outcome    Outcome       `json:"outcome"`
	Duration   time.Duration `json:"duration"`
	Err        error         `json:"-"`
}

// NavigationEvent is emitted whenever a session enters a node.
type NavigationEvent struct {
	Timestamp time.Time `json:"timestamp"`
	SessionID string    `json:"session_id"`
	From      string    `json:"from,omitempty"`
	To        string    `json:"to"`
}

// DispatchHooks defines callbacks for observability of the dispatcher and engine.
type DispatchHooks struct {
	OnDispatch func(context.Context, *DispatchEvent)
	OnNavigate func(context.Context, *NavigationEvent)
}

// Merge returns hooks that invoke h first and then other.
func (h DispatchHooks) Merge(other DispatchHooks) DispatchHooks {
	return DispatchHooks{
		OnDispatch: chain(h.OnDispatch, other.OnDispatch),
		OnNavigate: chain(h.OnNavigate, other.OnNavigate),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
