package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"
	"sync"
)

// JSONHandler implements IOHandler over JSON-Lines: one Frame or system
// message per output line, one JSON string (or raw text) per input line.
type JSONHandler struct {
	Reader *bufio.Reader

	mu      sync.Mutex
	Encoder *json.Encoder
}

// systemMessage is the line written by SystemOutput.
type systemMessage struct {
	System string `json:"system"`
}

// NewJSONHandler creates a handler for JSON IO.
func NewJSONHandler(r io.Reader, w io.Writer) *JSONHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	return &JSONHandler{
		Reader:  bufio.NewReader(r),
		Encoder: json.NewEncoder(w),
	}
}

func (h *JSONHandler) encode(v any) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.Encoder.Encode(v)
}

// Output writes the frame as a single JSON line.
func (h *JSONHandler) Output(ctx context.Context, frame Frame) error {
	return h.encode(frame)
}

// Input reads one line. A JSON string is unquoted; anything else is returned as typed.
func (h *JSONHandler) Input(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	text, err := h.Reader.ReadString('\n')
	if err != nil && (err != io.EOF || text == "") {
		return "", err
	}
	text = strings.TrimSpace(text)

	var val string
	if err := json.Unmarshal([]byte(text), &val); err == nil {
		text = val
	}
	return SanitizeInput(text)
}

// SystemOutput writes {"system": msg}.
func (h *JSONHandler) SystemOutput(ctx context.Context, msg string) error {
	return h.encode(systemMessage{System: msg})
}
