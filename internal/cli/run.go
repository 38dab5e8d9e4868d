package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/aretw0/chatsim/internal/config"
)

// RunOptions contains all the configuration for the run command.
type RunOptions struct {
	FlowPath  string
	SessionID string
	Config    config.Config

	JSON    bool
	Watch   bool
	Fresh   bool
	Debug   bool
	Confirm bool
	// Plain disables Markdown rendering and form dialogs even on a terminal.
	Plain bool

	In  io.Reader
	Out io.Writer
}

// Execute handles the run command, dispatching to session or watch mode.
func Execute(ctx context.Context, opts RunOptions) error {
	if opts.Watch && opts.JSON {
		return fmt.Errorf("--watch and --json cannot be used together")
	}
	if opts.Watch {
		return RunWatch(ctx, opts)
	}
	return RunSession(ctx, opts)
}
