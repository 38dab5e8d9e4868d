// Package platform provides simulated device capabilities: a browser, a deep
// link handler, a fixed GPS position, a media picker and OTP sources.
package platform

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sync"

	"github.com/aretw0/chatsim/internal/logging"
	"github.com/aretw0/chatsim/pkg/domain"
)

// MediaSource supplies the URL of a media file picked for varName.
// Returning an empty URL means the user picked nothing.
type MediaSource func(ctx context.Context, varName string, kind domain.MediaKind) (string, error)

// Simulator implements ports.Platform without touching the host device.
// Opened URLs and deep links are recorded for inspection.
type Simulator struct {
	mu        sync.Mutex
	opened    []string
	deepLinks []string

	location domain.Location
	media    MediaSource
	logger   *slog.Logger
}

// Option configures the Simulator.
type Option func(*Simulator)

// WithLocation sets the position reported by CurrentLocation.
func WithLocation(lat, lng float64) Option {
	return func(s *Simulator) {
		s.location = domain.Location{Latitude: lat, Longitude: lng}
	}
}

// WithMediaSource sets how PickMedia resolves a pick.
func WithMediaSource(src MediaSource) Option {
	return func(s *Simulator) {
		s.media = src
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Simulator) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSimulator creates a Simulator. Without a media source every pick comes back empty.
func NewSimulator(opts ...Option) *Simulator {
	s := &Simulator{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OpenURL records the URL.
func (s *Simulator) OpenURL(ctx context.Context, raw string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := url.Parse(raw); err != nil {
		return fmt.Errorf("invalid url %q: %w", raw, err)
	}
	s.mu.Lock()
	s.opened = append(s.opened, raw)
	s.mu.Unlock()
	s.logger.Info("Opening URL", "url", raw)
	return nil
}

// HandleDeepLink records the deep link.
func (s *Simulator) HandleDeepLink(ctx context.Context, raw string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid deep link %q: %w", raw, err)
	}
	s.mu.Lock()
	s.deepLinks = append(s.deepLinks, raw)
	s.mu.Unlock()
	s.logger.Info("Handling deep link", "scheme", u.Scheme, "url", raw)
	return nil
}

// CurrentLocation returns the configured position.
func (s *Simulator) CurrentLocation(ctx context.Context) (domain.Location, error) {
	return s.location, ctx.Err()
}

// PickMedia delegates to the media source.
func (s *Simulator) PickMedia(ctx context.Context, varName string, kind domain.MediaKind) (string, error) {
	if s.media == nil {
		s.logger.Debug("No media source configured", "var", varName, "kind", kind)
		return "", ctx.Err()
	}
	return s.media(ctx, varName, kind)
}

// Opened returns the URLs opened so far.
func (s *Simulator) Opened() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.opened...)
}

// DeepLinks returns the deep links handled so far.
func (s *Simulator) DeepLinks() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.deepLinks...)
}

// StaticMedia returns a MediaSource that always yields url.
func StaticMedia(url string) MediaSource {
	return func(ctx context.Context, _ string, _ domain.MediaKind) (string, error) {
		return url, ctx.Err()
	}
}
