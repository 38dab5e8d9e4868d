package dispatch

import (
	"log/slog"
	"time"

	"github.com/aretw0/chatsim/internal/logging"
	"github.com/aretw0/chatsim/pkg/domain"
)

// Option defines a functional option for configuring the Command.
type Option func(*Command)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Command) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithHooks registers observability hooks invoked after every Execute.
func WithHooks(hooks domain.DispatchHooks) Option {
	return func(c *Command) {
		c.hooks = hooks
	}
}

// WithMapsAPIKey sets the key appended to static map URLs posted by GetLocation.
func WithMapsAPIKey(key string) Option {
	return func(c *Command) {
		c.mapsAPIKey = key
	}
}

// WithTimeLocation sets the zone used for "local" date-time display variants.
func WithTimeLocation(loc *time.Location) Option {
	return func(c *Command) {
		if loc != nil {
			c.loc = loc
		}
	}
}

// WithAction overrides or extends the action registered for a button type.
func WithAction(t domain.ButtonType, a Action) Option {
	return func(c *Command) {
		c.actions[t] = a
	}
}

// WithSessionID labels emitted events with the session being served.
func WithSessionID(id string) Option {
	return func(c *Command) {
		c.sessionID = id
	}
}

func defaultLogger() *slog.Logger {
	return logging.NewNop()
}
