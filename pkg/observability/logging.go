package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/chatsim/pkg/domain"
)

// LogHooks writes one log line per dispatch and navigation.
func LogHooks(logger *slog.Logger) domain.DispatchHooks {
	return domain.DispatchHooks{
		OnDispatch: func(ctx context.Context, e *domain.DispatchEvent) {
			level := slog.LevelInfo
			if e.Outcome == domain.OutcomeFailed {
				level = slog.LevelWarn
			}
			attrs := []any{
				"session_id", e.SessionID,
				"node_id", e.NodeID,
				"button_id", e.ButtonID,
				"type", e.ButtonType,
				"outcome", e.Outcome,
				"duration", e.Duration,
			}
			if e.NextNodeID != "" {
				attrs = append(attrs, "next_node_id", e.NextNodeID)
			}
			if e.Err != nil {
				attrs = append(attrs, "err", e.Err)
			}
			logger.Log(ctx, level, "button_dispatch", attrs...)
		},
		OnNavigate: func(ctx context.Context, e *domain.NavigationEvent) {
			logger.DebugContext(ctx, "node_enter", "session_id", e.SessionID, "from", e.From, "to", e.To)
		},
	}
}
