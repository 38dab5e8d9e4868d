package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/chatsim/pkg/domain"
)

// TextHandler implements the standard text-based interface.
type TextHandler struct {
	Reader   *bufio.Reader
	Writer   io.Writer
	Renderer ContentRenderer

	inputChan chan inputResult
	startOnce sync.Once
}

type inputResult struct {
	text string
	err  error
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithTextHandlerRenderer configures the content renderer.
func WithTextHandlerRenderer(renderer ContentRenderer) TextHandlerOption {
	return func(h *TextHandler) {
		h.Renderer = renderer
	}
}

// NewTextHandler creates a handler for standard text IO.
func NewTextHandler(r io.Reader, w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{
		Reader: bufio.NewReader(r),
		Writer: w,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *TextHandler) initPump() {
	h.startOnce.Do(func() {
		h.inputChan = make(chan inputResult)
		go h.pump()
	})
}

// pump reads lines in the background so Input can honour context cancellation.
func (h *TextHandler) pump() {
	for {
		text, err := h.Reader.ReadString('\n')
		if text != "" {
			h.inputChan <- inputResult{text: text}
		}
		if err != nil {
			if err == io.EOF {
				close(h.inputChan)
				return
			}
			h.inputChan <- inputResult{err: err}
			// Back off so a persistently failing reader does not spin.
			time.Sleep(50 * time.Millisecond)
		}
	}
}

// Output prints the new entries followed by the numbered buttons.
func (h *TextHandler) Output(ctx context.Context, frame Frame) error {
	for _, e := range frame.Entries {
		if err := h.printEntry(e); err != nil {
			return err
		}
	}
	if frame.Terminal {
		_, err := fmt.Fprintln(h.Writer, "(end of flow)")
		return err
	}
	for i, b := range frame.Buttons {
		hint := ""
		if b.ButtonType.RequiresInput() {
			hint = " <value>"
		}
		if _, err := fmt.Fprintf(h.Writer, "  [%d] %s (%s)%s\n", i+1, b.Label(), b.ButtonType, hint); err != nil {
			return err
		}
	}
	for i, c := range frame.Cards {
		if _, err := fmt.Fprintf(h.Writer, "  [c%d] %s\n", i+1, c.Text); err != nil {
			return err
		}
	}
	return nil
}

func (h *TextHandler) printEntry(e domain.TranscriptEntry) error {
	var line string
	switch {
	case e.Direction == domain.DirectionSystem:
		line = "[!] " + e.Text
	case e.Kind == domain.EntryMedia:
		line = fmt.Sprintf("[%s] %s", e.MediaKind, e.MediaURL)
		if label := strings.TrimSpace(strings.Join([]string{e.Text, e.Caption}, " ")); label != "" {
			line += " " + label
		}
	case e.Direction == domain.DirectionBot && h.Renderer != nil:
		line = e.Text
		if rendered, err := h.Renderer(e.Text); err == nil {
			line = rendered
		}
	default:
		line = e.Text
	}
	line = strings.TrimSpace(line)
	if e.Direction == domain.DirectionUser {
		line = "you: " + line
	}
	_, err := fmt.Fprintln(h.Writer, line)
	return err
}

// Input prompts and returns the next sanitized line. Oversized or malformed
// lines are reported and read again.
func (h *TextHandler) Input(ctx context.Context) (string, error) {
	h.initPump()

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
			fmt.Fprint(h.Writer, "> ")
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case res, ok := <-h.inputChan:
			if !ok {
				return "", io.EOF
			}
			if res.err != nil {
				return "", res.err
			}
			clean, err := SanitizeInput(strings.TrimSpace(res.text))
			if err != nil {
				fmt.Fprintf(h.Writer, "Error: %v. Please try again.\n", err)
				continue
			}
			return clean, nil
		}
	}
}

// SystemOutput prints msg with a [System] prefix.
func (h *TextHandler) SystemOutput(ctx context.Context, msg string) error {
	_, err := fmt.Fprintf(h.Writer, "[System] %s\n", msg)
	return err
}
