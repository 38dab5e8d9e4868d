package runner

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/aretw0/chatsim/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextHandler_Output(t *testing.T) {
	var out bytes.Buffer
	h := NewTextHandler(strings.NewReader(""), &out, WithTextHandlerRenderer(func(s string) (string, error) {
		return strings.ToUpper(s), nil
	}))

	err := h.Output(context.Background(), Frame{
		Entries: []domain.TranscriptEntry{
			{Direction: domain.DirectionBot, Kind: domain.EntryText, Text: "hello"},
			{Direction: domain.DirectionBot, Kind: domain.EntryMedia, MediaKind: domain.MediaImage, MediaURL: "https://x/y.png", Caption: "logo"},
			{Direction: domain.DirectionUser, Kind: domain.EntryText, Text: "hi"},
			{Direction: domain.DirectionSystem, Kind: domain.EntryText, Text: "Invalid format"},
		},
		Buttons: []domain.Button{{ButtonName: "Phone", ButtonType: domain.ButtonGetPhoneNumber}},
		Cards:   []domain.CarouselButton{{Text: "Buy"}},
	})
	require.NoError(t, err)

	want := "HELLO\n" +
		"[Image] https://x/y.png logo\n" +
		"you: hi\n" +
		"[!] Invalid format\n" +
		"  [1] Phone (GetPhoneNumber) <value>\n" +
		"  [c1] Buy\n"
	assert.Equal(t, want, out.String())
}

func TestTextHandler_InputSanitizes(t *testing.T) {
	var out bytes.Buffer
	h := NewTextHandler(strings.NewReader("a\x1b[31mb\n\xff\nok"), &out)
	ctx := context.Background()

	got, err := h.Input(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a[31mb", got)

	got, err = h.Input(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Contains(t, out.String(), "Error:")

	_, err = h.Input(ctx)
	assert.ErrorIs(t, err, io.EOF)
}

func TestJSONHandler(t *testing.T) {
	var out bytes.Buffer
	h := NewJSONHandler(strings.NewReader("\"1 hi\"\nplain text\n"), &out)
	ctx := context.Background()

	got, err := h.Input(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1 hi", got)

	got, err = h.Input(ctx)
	require.NoError(t, err)
	assert.Equal(t, "plain text", got)

	_, err = h.Input(ctx)
	assert.ErrorIs(t, err, io.EOF)

	require.NoError(t, h.SystemOutput(ctx, "note"))
	require.NoError(t, h.Output(ctx, Frame{SessionID: "s", NodeID: "n", Terminal: true}))
	assert.Equal(t,
		"{\"system\":\"note\"}\n{\"session_id\":\"s\",\"node_id\":\"n\",\"terminal\":true}\n",
		out.String())
}
