package dispatch

import "github.com/aretw0/chatsim/pkg/domain"

// Result reports what an Execute call did.
type Result struct {
	Outcome  domain.Outcome `json:"outcome"`
	ButtonID string         `json:"button_id,omitempty"`
	NodeID   string         `json:"node_id,omitempty"`

	// ButtonType is the dispatched type tag. Card buttons are prefixed with "Card".
	ButtonType string `json:"button_type,omitempty"`

	// UserData holds the variables captured during this call only.
	UserData map[string]string `json:"user_data,omitempty"`

	// NextNodeID is the navigation target, empty when the command did not navigate.
	NextNodeID string `json:"next_node_id,omitempty"`
}

// Completed reports whether the command reached the navigation step.
func (r *Result) Completed() bool {
	return r != nil && r.Outcome == domain.OutcomeCompleted
}
