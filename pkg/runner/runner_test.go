package runner_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/aretw0/chatsim"
	"github.com/aretw0/chatsim/pkg/adapters/memory"
	"github.com/aretw0/chatsim/pkg/adapters/platform"
	"github.com/aretw0/chatsim/pkg/domain"
	"github.com/aretw0/chatsim/pkg/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bookingFlow() []domain.ChatNode {
	return []domain.ChatNode{
		{
			ID:       "start",
			Sections: []domain.Section{{SectionType: domain.SectionText, Text: "Welcome"}},
			Buttons: []domain.Button{
				{ID: "email", ButtonName: "Email", ButtonType: domain.ButtonGetEmail, VariableName: "EMAIL", PostToChat: true, NextNodeID: "pick"},
				{ID: "leave", ButtonText: "Leave", ButtonType: domain.ButtonNextNode, NextNodeID: "end"},
				{ID: "site", ButtonText: "Website", ButtonType: domain.ButtonOpenURL, URL: "https://example.com", NextNodeID: "start"},
			},
		},
		{
			ID: "pick",
			Sections: []domain.Section{
				{SectionType: domain.SectionText, Text: "When?"},
				{SectionType: domain.SectionCarousel, Items: []domain.CarouselItem{{
					Title:   "Skip",
					Buttons: []domain.CarouselButton{{ID: "skip", Text: "Skip", Type: domain.CardNextNode, NextNodeID: "end"}},
				}}},
			},
			Buttons: []domain.Button{
				{ID: "day", ButtonName: "Day", ButtonType: domain.ButtonGetDate, VariableName: "DAY", NextNodeID: "end"},
			},
		},
		{
			ID:       "end",
			Sections: []domain.Section{{SectionType: domain.SectionText, Text: "Bye"}},
		},
	}
}

func newEngine(t *testing.T) *chatsim.Engine {
	t.Helper()
	loader, err := memory.NewFromNodes(bookingFlow()...)
	require.NoError(t, err)
	eng, err := chatsim.New("", chatsim.WithLoader(loader))
	require.NoError(t, err)
	return eng
}

func run(t *testing.T, eng *chatsim.Engine, input string, opts ...runner.Option) string {
	t.Helper()
	var out bytes.Buffer
	h := runner.NewTextHandler(strings.NewReader(input), &out)
	base := []runner.Option{
		runner.WithEngine(eng),
		runner.WithSessionID("s1"),
		runner.WithInputHandler(h),
	}
	r := runner.New(append(base, opts...)...)
	require.NoError(t, r.Run(context.Background()))
	return out.String()
}

func TestRunner_TextSession(t *testing.T) {
	eng := newEngine(t)

	out := run(t, eng, "1 ana@example.com\nc1\n")

	assert.Contains(t, out, "Welcome")
	assert.Contains(t, out, "[1] Email (GetEmail) <value>")
	assert.Contains(t, out, "you: ana@example.com")
	assert.Contains(t, out, "When?")
	assert.Contains(t, out, "[c1] Skip")
	assert.Contains(t, out, "Bye")
	assert.Contains(t, out, "(end of flow)")

	view, err := eng.Current(context.Background(), "s1")
	require.NoError(t, err)
	assert.True(t, view.State.Terminated())
	assert.Equal(t, "ana@example.com", view.State.Variables["EMAIL"])
}

func TestRunner_InvalidInputNotifiesOnce(t *testing.T) {
	eng := newEngine(t)

	out := run(t, eng, "1 nope\n\n2\n")

	assert.Contains(t, out, "(press enter)")
	assert.NotContains(t, out, "[!]", "notices shown by the prompter are not repeated")
	assert.Contains(t, out, "Bye")
}

func TestRunner_DatePicker(t *testing.T) {
	eng := newEngine(t)

	out := run(t, eng, "email a@b.co\n1\nnot-a-date\n2025-03-01\n")

	assert.Contains(t, out, "Pick a date (2006-01-02")
	assert.Contains(t, out, `Invalid value "not-a-date"`)

	view, err := eng.Current(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-01", view.State.Variables["DAY"])
	assert.True(t, view.State.Terminated())
}

func addressEngine(t *testing.T) *chatsim.Engine {
	t.Helper()
	loader, err := memory.NewFromNodes(
		domain.ChatNode{
			ID:       "start",
			Sections: []domain.Section{{SectionType: domain.SectionText, Text: "Where to?"}},
			Buttons: []domain.Button{
				{ID: "where", ButtonText: "Address", ButtonType: domain.ButtonGetAddress, PostToChat: true, NextNodeID: "end"},
			},
		},
		domain.ChatNode{ID: "end", Sections: []domain.Section{{SectionType: domain.SectionText, Text: "Bye"}}},
	)
	require.NoError(t, err)
	eng, err := chatsim.New("", chatsim.WithLoader(loader))
	require.NoError(t, err)
	return eng
}

func TestRunner_AddressReachesNextNode(t *testing.T) {
	tests := []struct {
		name  string
		input string
		opts  []runner.Option
	}{
		{"typed coordinates", "where\n1 Main St\nSpringfield\nUS\n12345\n39.78\n-89.65\n", nil},
		{"configured position", "where\n1 Main St\nSpringfield\nUS\n12345\n\n\n", []runner.Option{
			runner.WithPosition(domain.Location{Latitude: 39.78, Longitude: -89.65}),
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng := addressEngine(t)

			out := run(t, eng, tt.input, tt.opts...)

			assert.NotContains(t, out, "All fields in address are mandatory!")
			assert.Contains(t, out, "Bye")

			view, err := eng.Current(context.Background(), "s1")
			require.NoError(t, err)
			assert.Equal(t, "end", view.State.CurrentNodeID)
			assert.True(t, view.State.Terminated())
			assert.Equal(t, "Springfield", view.State.Variables["CITY"])
			assert.Equal(t, "39.78", view.State.Variables["LAT"])
			assert.Equal(t, "-89.65", view.State.Variables["LNG"])
		})
	}
}

func TestRunner_ExitKeepsSession(t *testing.T) {
	eng := newEngine(t)

	out := run(t, eng, "exit\n")
	assert.Contains(t, out, "Session s1 saved.")

	view, err := eng.Current(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "start", view.State.CurrentNodeID)
	assert.False(t, view.State.Terminated())

	// Resuming replays the stored transcript.
	out = run(t, eng, "2\n")
	assert.Contains(t, out, "Welcome")
	assert.Contains(t, out, "Bye")
}

func TestRunner_UnknownChoiceAndEOF(t *testing.T) {
	eng := newEngine(t)

	out := run(t, eng, "9\nnothing\n")

	assert.Contains(t, out, "unknown choice: 9 of 3")
	assert.Contains(t, out, `unknown choice: "nothing"`)
}

func TestRunner_ConfirmationMiddleware(t *testing.T) {
	eng := newEngine(t)
	var out bytes.Buffer
	h := runner.NewTextHandler(strings.NewReader("3\nn\n3\ny\nexit\n"), &out)
	r := runner.New(
		runner.WithEngine(eng),
		runner.WithSessionID("s1"),
		runner.WithInputHandler(h),
		runner.WithInterceptor(runner.ConfirmationMiddleware(h)),
	)
	require.NoError(t, r.Run(context.Background()))

	assert.Contains(t, out.String(), "This button opens https://example.com. Continue? [y/N]")
	assert.Contains(t, out.String(), "Skipped.")

	sim, ok := eng.Platform().(*platform.Simulator)
	require.True(t, ok)
	assert.Equal(t, []string{"https://example.com"}, sim.Opened())
}

func TestRunner_JSONMode(t *testing.T) {
	eng := newEngine(t)
	var out bytes.Buffer
	h := runner.NewJSONHandler(strings.NewReader("\"leave\"\n"), &out)
	r := runner.New(
		runner.WithEngine(eng),
		runner.WithInputHandler(h),
	)
	require.NoError(t, r.Run(context.Background()))
	assert.NotEmpty(t, r.SessionID)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)

	var first, last runner.Frame
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &last))

	assert.Equal(t, "start", first.NodeID)
	assert.Len(t, first.Buttons, 3)
	assert.False(t, first.Terminal)

	assert.Equal(t, "end", last.NodeID)
	assert.True(t, last.Terminal)
	require.NotEmpty(t, last.Entries)
	assert.Equal(t, "Bye", last.Entries[len(last.Entries)-1].Text)
}

func TestRunner_RequiresEngine(t *testing.T) {
	r := runner.New(runner.WithInputHandler(runner.NewJSONHandler(strings.NewReader(""), &bytes.Buffer{})))
	assert.ErrorIs(t, r.Run(context.Background()), runner.ErrNoEngine)
}

func TestRunner_ContextCancelled(t *testing.T) {
	eng := newEngine(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := runner.New(
		runner.WithEngine(eng),
		runner.WithInputHandler(runner.NewTextHandler(strings.NewReader(""), &bytes.Buffer{})),
	)
	assert.ErrorIs(t, r.Run(ctx), context.Canceled)
}
