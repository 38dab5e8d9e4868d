package runner

import (
	"log/slog"

	"github.com/aretw0/chatsim"
	"github.com/aretw0/chatsim/pkg/domain"
	"github.com/aretw0/chatsim/pkg/ports"
)

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithEngine sets the engine the runner drives. Required.
func WithEngine(engine *chatsim.Engine) Option {
	return func(r *Runner) {
		r.engine = engine
	}
}

// WithSessionID resumes or starts the given session. A blank id starts a new one.
func WithSessionID(id string) Option {
	return func(r *Runner) {
		r.SessionID = id
	}
}

// WithInputHandler configures a custom IOHandler.
func WithInputHandler(handler IOHandler) Option {
	return func(r *Runner) {
		r.Handler = handler
	}
}

// WithPrompter overrides the dialog prompter. Defaults to a HandlerPrompter.
func WithPrompter(p ports.Prompter) Option {
	return func(r *Runner) {
		r.Prompter = p
	}
}

// WithInterceptor configures the press middleware.
func WithInterceptor(interceptor PressInterceptor) Option {
	return func(r *Runner) {
		r.Interceptor = interceptor
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.Logger = logger
	}
}

// WithRenderer configures the content renderer used by the default text handler.
func WithRenderer(renderer ContentRenderer) Option {
	return func(r *Runner) {
		r.Renderer = renderer
	}
}

// WithPosition sets the coordinates offered when the default prompter asks for an address.
func WithPosition(loc domain.Location) Option {
	return func(r *Runner) {
		r.Position = loc
	}
}
