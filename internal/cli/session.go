package cli

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/aretw0/chatsim"
	"github.com/aretw0/chatsim/internal/presentation/tui"
	"github.com/aretw0/chatsim/pkg/domain"
	"github.com/aretw0/chatsim/pkg/runner"
)

func (o *RunOptions) streams() (io.Reader, io.Writer) {
	in, out := o.In, o.Out
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return in, out
}

// interactive reports whether the terminal UI (glamour and huh) is used.
func (o *RunOptions) interactive(in io.Reader) bool {
	return !o.JSON && !o.Plain && isTerminal(in)
}

// newHandler picks the IO handler for the run mode.
func newHandler(opts RunOptions, in io.Reader, out io.Writer) runner.IOHandler {
	if opts.JSON {
		return runner.NewJSONHandler(in, out)
	}
	var handlerOpts []runner.TextHandlerOption
	if opts.interactive(in) {
		handlerOpts = append(handlerOpts, runner.WithTextHandlerRenderer(tui.NewRenderer(terminalWidth(out))))
	}
	return runner.NewTextHandler(in, out, handlerOpts...)
}

func newRunner(opts RunOptions, engine *chatsim.Engine, handler runner.IOHandler, in io.Reader) *runner.Runner {
	position := domain.Location{Latitude: opts.Config.Latitude, Longitude: opts.Config.Longitude}
	rOpts := []runner.Option{
		runner.WithEngine(engine),
		runner.WithSessionID(opts.SessionID),
		runner.WithInputHandler(handler),
		runner.WithLogger(NewLogger(opts.Config.LogLevel, opts.Debug)),
		runner.WithPosition(position),
	}
	if opts.interactive(in) {
		loc, _ := opts.Config.Location()
		rOpts = append(rOpts, runner.WithPrompter(tui.NewPrompter(tui.WithLocation(loc), tui.WithPosition(position))))
	}
	if opts.Confirm {
		rOpts = append(rOpts, runner.WithInterceptor(runner.ConfirmationMiddleware(handler)))
	}
	return runner.New(rOpts...)
}

// RunSession runs a single chat session until it ends or the user leaves.
func RunSession(ctx context.Context, opts RunOptions) error {
	in, out := opts.streams()
	logger := NewLogger(opts.Config.LogLevel, opts.Debug)

	stack, err := BuildEngine(EngineOptions{
		FlowPath: opts.FlowPath,
		Config:   opts.Config,
		Logger:   logger,
		Persist:  opts.SessionID != "",
	})
	if err != nil {
		return err
	}
	defer stack.Close()

	if opts.Fresh && opts.SessionID != "" {
		if err := stack.Engine.Reset(ctx, opts.SessionID); err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
			return err
		}
	}

	if opts.interactive(in) {
		tui.PrintBanner(out, stack.Engine.Name)
	}

	sigCtx := NewSignalContext(ctx)
	defer sigCtx.Cancel()

	r := newRunner(opts, stack.Engine, newHandler(opts, in, out), in)
	runErr := r.Run(sigCtx)

	if !opts.JSON {
		switch {
		case sigCtx.Signal() != nil:
			printSystemMessage(out, "Interrupted. Session '%s' kept.", r.SessionID)
		case runErr == nil && opts.SessionID != "":
			printSystemMessage(out, "Resume with --session %s.", r.SessionID)
		}
	}
	return handleExecutionError(runErr)
}
