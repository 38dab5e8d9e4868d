package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/chatsim"
	"github.com/aretw0/chatsim/internal/logging"
	"github.com/aretw0/chatsim/pkg/domain"
	"github.com/aretw0/chatsim/pkg/ports"
)

// ErrNoEngine is returned by Run when no engine was configured.
var ErrNoEngine = errors.New("runner: engine is required")

// Runner drives a single chat session turn by turn.
type Runner struct {
	Handler     IOHandler
	Prompter    ports.Prompter
	Interceptor PressInterceptor
	Logger      *slog.Logger
	Renderer    ContentRenderer
	SessionID   string

	// Position pre-fills address coordinates in the default prompter.
	Position domain.Location

	engine *chatsim.Engine

	// shown counts transcript entries already presented.
	shown int
	// skipSystem hides notices that the interactive prompter already showed.
	skipSystem bool
}

// New creates a Runner. Unset collaborators fall back to a text handler on
// stdin/stdout, a HandlerPrompter on that handler and auto approval.
func New(opts ...Option) *Runner {
	r := &Runner{}
	for _, opt := range opts {
		opt(r)
	}
	if r.Handler == nil {
		r.Handler = NewTextHandler(nil, nil, WithTextHandlerRenderer(r.Renderer))
	}
	if r.Prompter == nil {
		hp := NewHandlerPrompter(r.Handler)
		hp.Position = r.Position
		r.Prompter = hp
		r.skipSystem = true
	}
	if r.Interceptor == nil {
		r.Interceptor = AutoApproveMiddleware()
	}
	if r.Logger == nil {
		r.Logger = logging.NewNop()
	}
	return r
}

// Run starts or resumes the session and loops until it terminates, the user
// exits or the input ends. The session stays stored in every case.
func (r *Runner) Run(ctx context.Context) error {
	if r.engine == nil {
		return ErrNoEngine
	}
	state, err := r.engine.Start(ctx, r.SessionID)
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	r.SessionID = state.SessionID
	r.Logger.Info("session started", "session_id", r.SessionID, "node_id", state.CurrentNodeID)

	for {
		view, err := r.engine.Current(ctx, r.SessionID)
		if err != nil {
			return err
		}
		if err := r.Handler.Output(ctx, r.frame(view)); err != nil {
			return err
		}
		if view.State.Terminated() {
			r.Logger.Info("session terminated", "session_id", r.SessionID)
			return nil
		}

		line, err := r.Handler.Input(ctx)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		cmd, err := ParseCommand(line, view.Node)
		if errors.Is(err, ErrEmptyCommand) {
			continue
		}
		if err != nil {
			if err := r.Handler.SystemOutput(ctx, err.Error()); err != nil {
				return err
			}
			continue
		}
		if cmd.Exit {
			return r.Handler.SystemOutput(ctx, fmt.Sprintf("Session %s saved.", r.SessionID))
		}

		if err := r.step(ctx, view.Node, cmd); err != nil {
			return err
		}
	}
}

func (r *Runner) step(ctx context.Context, node *domain.ChatNode, cmd Command) error {
	allowed, err := r.Interceptor(ctx, node, cmd)
	if err != nil {
		return err
	}
	if !allowed {
		return r.Handler.SystemOutput(ctx, "Skipped.")
	}

	req := chatsim.PressRequest{Button: cmd.Button, Value: cmd.Value, Prompter: r.Prompter}
	press := r.engine.Press
	if cmd.Card {
		press = r.engine.PressCard
	}
	res, err := press(ctx, r.SessionID, req)
	switch {
	case errors.Is(err, domain.ErrButtonNotFound), errors.Is(err, domain.ErrSessionTerminated):
		return r.Handler.SystemOutput(ctx, err.Error())
	case err != nil:
		return err
	}
	r.Logger.Debug("button pressed",
		"session_id", r.SessionID,
		"button", cmd.Button,
		"outcome", res.Dispatch.Outcome,
	)
	return nil
}

func (r *Runner) frame(view *chatsim.View) Frame {
	entries := view.State.Transcript
	if r.shown > len(entries) {
		r.shown = 0
	}
	fresh := make([]domain.TranscriptEntry, 0, len(entries)-r.shown)
	for _, e := range entries[r.shown:] {
		if r.skipSystem && e.Direction == domain.DirectionSystem {
			continue
		}
		fresh = append(fresh, e)
	}
	r.shown = len(entries)

	f := Frame{
		SessionID: view.State.SessionID,
		NodeID:    view.State.CurrentNodeID,
		Entries:   fresh,
		Terminal:  view.State.Terminated(),
	}
	if !f.Terminal {
		f.Buttons = visibleButtons(view.Node)
		f.Cards = view.Node.CarouselButtons()
	}
	return f
}

