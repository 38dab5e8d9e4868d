package middleware

import (
	"context"
	"fmt"
	"regexp"

	"github.com/aretw0/chatsim/pkg/domain"
	"github.com/aretw0/chatsim/pkg/ports"
)

// Mask replaces sensitive values in stored states.
const Mask = "***"

type piiMiddleware struct {
	next     ports.StateStore
	patterns []*regexp.Regexp
}

// NewPIIMiddleware creates a middleware that masks variables whose names match
// any of the patterns. User messages in the transcript that echo a masked value
// are masked too. Loaded states keep the mask; the live session is untouched.
func NewPIIMiddleware(patternStrings []string) (Middleware, error) {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid pii pattern %q: %w", p, err)
		}
		patterns[i] = re
	}
	return func(next ports.StateStore) ports.StateStore {
		return &piiMiddleware{next: next, patterns: patterns}
	}, nil
}

func (m *piiMiddleware) Save(ctx context.Context, sessionID string, state *domain.State) error {
	masked := state.Snapshot()

	secrets := make(map[string]struct{})
	for name, value := range masked.Variables {
		if m.sensitive(name) {
			if value != "" {
				secrets[value] = struct{}{}
			}
			masked.Variables[name] = Mask
		}
	}
	for i, entry := range masked.Transcript {
		if entry.Direction != domain.DirectionUser {
			continue
		}
		if _, ok := secrets[entry.Text]; ok {
			masked.Transcript[i].Text = Mask
		}
	}

	return m.next.Save(ctx, sessionID, masked)
}

func (m *piiMiddleware) sensitive(name string) bool {
	for _, p := range m.patterns {
		if p.MatchString(name) {
			return true
		}
	}
	return false
}

func (m *piiMiddleware) Load(ctx context.Context, sessionID string) (*domain.State, error) {
	return m.next.Load(ctx, sessionID)
}

func (m *piiMiddleware) Delete(ctx context.Context, sessionID string) error {
	return m.next.Delete(ctx, sessionID)
}

func (m *piiMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}
