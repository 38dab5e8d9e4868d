package runner

import (
	"context"

	"github.com/aretw0/chatsim/pkg/domain"
)

// Frame is what the runner presents after each turn.
type Frame struct {
	SessionID string                   `json:"session_id"`
	NodeID    string                   `json:"node_id"`
	Entries   []domain.TranscriptEntry `json:"entries,omitempty"`
	Buttons   []domain.Button          `json:"buttons,omitempty"`
	Cards     []domain.CarouselButton  `json:"cards,omitempty"`
	Terminal  bool                     `json:"terminal"`
}

// IOHandler defines the strategy for interacting with the user.
// This allows switching between Text (CLI/TUI) and JSON (Structured) modes.
type IOHandler interface {
	// Output presents a frame.
	Output(ctx context.Context, frame Frame) error

	// Input reads the next line from the user.
	Input(ctx context.Context) (string, error)

	// SystemOutput presents a meta-message (notices, errors, dialog questions),
	// distinct from chat content.
	SystemOutput(ctx context.Context, msg string) error
}

// ContentRenderer transforms bot text before it is printed (e.g. Markdown to ANSI).
type ContentRenderer func(string) (string, error)

func visibleButtons(node *domain.ChatNode) []domain.Button {
	if node == nil {
		return nil
	}
	out := make([]domain.Button, 0, len(node.Buttons))
	for _, b := range node.Buttons {
		if !b.Hidden {
			out = append(out, b)
		}
	}
	return out
}
