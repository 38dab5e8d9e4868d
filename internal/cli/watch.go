package cli

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aretw0/chatsim/internal/presentation/tui"
	"github.com/aretw0/chatsim/pkg/domain"
	"github.com/aretw0/chatsim/pkg/runner"
)

// reloadBackoff is how long watch mode waits before retrying a broken flow.
const reloadBackoff = 2 * time.Second

// watchSessionID scopes the default watch session to the flow path.
func watchSessionID(flowPath string) string {
	sum := sha256.Sum256([]byte(flowPath))
	return fmt.Sprintf("watch-%x", sum[:4])
}

// RunWatch runs the flow in development mode: the engine is rebuilt whenever
// a node document changes and the session resumes where it was.
func RunWatch(ctx context.Context, opts RunOptions) error {
	in, out := opts.streams()
	logger := NewLogger(opts.Config.LogLevel, opts.Debug)

	if opts.SessionID == "" {
		opts.SessionID = watchSessionID(opts.FlowPath)
	}
	if opts.interactive(in) {
		tui.PrintBanner(out, opts.FlowPath)
	}
	printSystemMessage(out, "Watching '%s' with session '%s'.", opts.FlowPath, opts.SessionID)

	sigCtx := NewSignalContext(ctx)
	defer sigCtx.Cancel()

	// One handler for every iteration so a single goroutine reads the input.
	handler := newHandler(opts, in, out)
	fresh := opts.Fresh

	for {
		reload, err := runWatchIteration(sigCtx, opts, handler, in, out, fresh)
		fresh = false
		if err != nil {
			return handleExecutionError(err)
		}
		if !reload {
			return nil
		}
		logger.Info("watcher restarting", "path", opts.FlowPath)
	}
}

// runWatchIteration runs the session until it ends or the flow changes.
// reload is true when the engine should be rebuilt.
func runWatchIteration(parent context.Context, opts RunOptions, handler runner.IOHandler, in io.Reader, out io.Writer, fresh bool) (reload bool, err error) {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	logger := NewLogger(opts.Config.LogLevel, opts.Debug)
	stack, err := BuildEngine(EngineOptions{
		FlowPath: opts.FlowPath,
		Config:   opts.Config,
		Logger:   logger,
		Persist:  true,
	})
	if err != nil {
		logger.Error("engine initialization failed", "err", err)
		select {
		case <-parent.Done():
			return false, nil
		case <-time.After(reloadBackoff):
			return true, nil
		}
	}
	defer stack.Close()

	if fresh {
		if err := stack.Engine.Reset(ctx, opts.SessionID); err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
			return false, err
		}
	}

	changes, err := stack.Engine.Watch(ctx)
	if err != nil {
		return false, fmt.Errorf("watch mode needs a flow directory: %w", err)
	}

	reloaded := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
		case id, ok := <-changes:
			if !ok {
				return
			}
			logger.Info("change detected, reloading", "node_id", id)
			close(reloaded)
			cancel()
		}
	}()

	r := newRunner(opts, stack.Engine, handler, in)
	runErr := r.Run(ctx)

	select {
	case <-reloaded:
		printSystemMessage(out, "Flow changed, reloading...")
		return true, nil
	default:
	}
	if parent.Err() != nil {
		return false, nil
	}
	return false, runErr
}
