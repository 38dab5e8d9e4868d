package domain

// StateDiff represents the changes between two states.
// It is serialized to JSON for partial updates on HTTP and MCP clients.
type StateDiff struct {
	// SessionID is always present to identify the target.
	SessionID string `json:"session_id"`

	CurrentNodeID *string          `json:"current_node_id,omitempty"`
	Status        *ExecutionStatus `json:"status,omitempty"`

	// Variables contains only changed, added or deleted keys.
	// Deleted keys map to nil.
	Variables map[string]*string `json:"variables,omitempty"`

	// Transcript holds entries appended since the old state.
	Transcript []TranscriptEntry `json:"transcript,omitempty"`

	// History holds node ids appended since the old state.
	History []string `json:"history,omitempty"`

	FlowURL *string `json:"flow_url,omitempty"`
}

// Diff calculates the difference between oldState and newState.
// If oldState is nil, it returns a diff representing the entire newState.
// It returns nil when nothing changed.
func Diff(oldState, newState *State) *StateDiff {
	if newState == nil {
		return nil
	}

	diff := &StateDiff{
		SessionID: newState.SessionID,
	}

	if oldState == nil || oldState.CurrentNodeID != newState.CurrentNodeID {
		diff.CurrentNodeID = &newState.CurrentNodeID
	}
	if oldState == nil || oldState.Status != newState.Status {
		diff.Status = &newState.Status
	}
	if (oldState == nil && newState.FlowURL != "") || (oldState != nil && oldState.FlowURL != newState.FlowURL) {
		diff.FlowURL = &newState.FlowURL
	}

	diff.Variables = diffVariables(oldState, newState)
	diff.Transcript = appended(transcriptOf(oldState), newState.Transcript)
	diff.History = appended(historyOf(oldState), newState.History)

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

func diffVariables(old, new *State) map[string]*string {
	delta := make(map[string]*string)

	for k, v := range new.Variables {
		if old != nil {
			if prev, ok := old.Variables[k]; ok && prev == v {
				continue
			}
		}
		delta[k] = &v
	}

	if old != nil {
		for k := range old.Variables {
			if _, ok := new.Variables[k]; !ok {
				delta[k] = nil
			}
		}
	}

	if len(delta) == 0 {
		return nil
	}
	return delta
}

func transcriptOf(s *State) []TranscriptEntry {
	if s == nil {
		return nil
	}
	return s.Transcript
}

func historyOf(s *State) []string {
	if s == nil {
		return nil
	}
	return s.History
}

// appended assumes append-only growth. A shrunk or equal-length slice yields nothing.
func appended[T any](old, new []T) []T {
	if len(new) <= len(old) {
		return nil
	}
	return new[len(old):]
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *StateDiff) IsEmpty() bool {
	return d.CurrentNodeID == nil &&
		d.Status == nil &&
		d.FlowURL == nil &&
		len(d.Variables) == 0 &&
		len(d.Transcript) == 0 &&
		len(d.History) == 0
}
