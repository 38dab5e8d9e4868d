package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a Markdown renderer for bot messages.
// Rendering falls back to the raw text when glamour cannot start.
func NewRenderer(width int) func(string) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithAutoStyle()}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return func(markdown string) (string, error) {
			return markdown, nil
		}
	}

	return func(markdown string) (string, error) {
		out, err := r.Render(markdown)
		if err != nil {
			return markdown, err
		}
		return strings.TrimSpace(out), nil
	}
}
