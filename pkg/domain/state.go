package domain

import (
	"maps"
	"slices"
)

// ExecutionStatus defines where a session stands in its flow.
type ExecutionStatus string

const (
	StatusActive     ExecutionStatus = "active"     // Waiting for the user to press a button
	StatusTerminated ExecutionStatus = "terminated" // Reached a node with no way forward
)

// State represents the runtime snapshot of a simulated chat session.
type State struct {
	// SessionID identifies the conversation.
	SessionID string `json:"session_id"`

	// CurrentNodeID is the identifier of the node the user is looking at.
	CurrentNodeID string `json:"current_node_id"`

	Status ExecutionStatus `json:"status"`

	// Variables holds every value captured by buttons during the session.
	Variables map[string]string `json:"variables"`

	// Transcript is the ordered chat log.
	Transcript []TranscriptEntry `json:"transcript"`

	// History tracks visited node ids.
	History []string `json:"history"`

	// FlowURL is set once a FetchChatFlow button swapped the flow.
	FlowURL string `json:"flow_url,omitempty"`
}

// NewState creates a clean state for sessionID pointing at startNodeID.
// The start node is recorded in the history only when it is entered.
func NewState(sessionID, startNodeID string) *State {
	return &State{
		SessionID:     sessionID,
		CurrentNodeID: startNodeID,
		Status:        StatusActive,
		Variables:     make(map[string]string),
		Transcript:    []TranscriptEntry{},
		History:       []string{},
	}
}

// Snapshot returns a deep copy, safe to hand out while the session keeps running.
func (s *State) Snapshot() *State {
	if s == nil {
		return nil
	}
	out := *s
	out.Variables = maps.Clone(s.Variables)
	if out.Variables == nil {
		out.Variables = make(map[string]string)
	}
	out.Transcript = slices.Clone(s.Transcript)
	out.History = slices.Clone(s.History)
	return &out
}

// Terminated reports whether the session reached a sink node.
func (s *State) Terminated() bool {
	return s.Status == StatusTerminated
}
