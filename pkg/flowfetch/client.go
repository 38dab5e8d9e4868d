// Package flowfetch downloads chat flow definitions over HTTP.
//
// Fetches go through a circuit breaker so an unreachable flow host fails fast,
// and concurrent fetches of the same URL share a single request.
package flowfetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/aretw0/chatsim/internal/compiler"
	"github.com/aretw0/chatsim/internal/logging"
	"github.com/aretw0/chatsim/pkg/domain"
	"github.com/sony/gobreaker"
	"golang.org/x/sync/singleflight"
)

const (
	// DefaultTimeout bounds a single flow download.
	DefaultTimeout = 15 * time.Second
	// DefaultMaxBytes caps the size of a flow document.
	DefaultMaxBytes = 4 << 20
)

var (
	// ErrInvalidURL is returned for URLs that are not absolute http(s) URLs.
	ErrInvalidURL = errors.New("invalid flow url")
	// ErrUnavailable is returned while the circuit breaker is open.
	ErrUnavailable = errors.New("flow host unavailable")
)

// StatusError reports a non-2xx response from the flow host.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("flow host returned %d for %s", e.Code, e.URL)
}

// Client fetches and parses remote flows.
type Client struct {
	http     *http.Client
	breaker  *gobreaker.CircuitBreaker
	group    singleflight.Group
	parser   *compiler.Parser
	logger   *slog.Logger
	maxBytes int64

	settings gobreaker.Settings
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client used for downloads.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithMaxBytes caps the accepted document size.
func WithMaxBytes(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxBytes = n
		}
	}
}

// WithBreaker tunes the circuit breaker. Name and callbacks are filled in when empty.
func WithBreaker(s gobreaker.Settings) Option {
	return func(c *Client) {
		c.settings = s
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a Client.
func New(opts ...Option) *Client {
	c := &Client{
		http:     &http.Client{Timeout: DefaultTimeout},
		parser:   compiler.NewParser(),
		logger:   logging.NewNop(),
		maxBytes: DefaultMaxBytes,
		settings: gobreaker.Settings{
			MaxRequests: 1,
			Interval:    time.Minute,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}

	s := c.settings
	if s.Name == "" {
		s.Name = "flowfetch"
	}
	if s.OnStateChange == nil {
		s.OnStateChange = func(name string, from, to gobreaker.State) {
			c.logger.Warn("Circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		}
	}
	if s.IsSuccessful == nil {
		// Client errors (bad URL, 4xx, unparsable document) do not mean the host is down.
		s.IsSuccessful = func(err error) bool {
			if err == nil {
				return true
			}
			var se *StatusError
			if errors.As(err, &se) {
				return se.Code < 500
			}
			return errors.Is(err, errUnparsable)
		}
	}
	c.breaker = gobreaker.NewCircuitBreaker(s)
	return c
}

var errUnparsable = errors.New("unparsable flow")

// Fetch downloads the flow at rawURL and returns its nodes in document order.
func (c *Client) Fetch(ctx context.Context, rawURL string) ([]domain.ChatNode, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}
	key := u.String()

	ch := c.group.DoChan(key, func() (interface{}, error) {
		return c.breaker.Execute(func() (interface{}, error) {
			return c.download(ctx, key)
		})
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			if errors.Is(res.Err, gobreaker.ErrOpenState) || errors.Is(res.Err, gobreaker.ErrTooManyRequests) {
				return nil, fmt.Errorf("%w: %v", ErrUnavailable, res.Err)
			}
			return nil, res.Err
		}
		if res.Shared {
			c.logger.Debug("Shared in-flight flow fetch", "url", key)
		}
		// Callers own their copy; the shared slice must not be mutated.
		nodes := res.Val.([]domain.ChatNode)
		return append([]domain.ChatNode(nil), nodes...), nil
	}
}

func (c *Client) download(ctx context.Context, target string) ([]domain.ChatNode, error) {
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json, application/yaml;q=0.9")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch flow: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: target, Code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read flow: %w", err)
	}
	if int64(len(body)) > c.maxBytes {
		return nil, fmt.Errorf("%w: document exceeds %d bytes", errUnparsable, c.maxBytes)
	}

	nodes, err := c.parser.ParseFlow(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errUnparsable, err)
	}

	c.logger.Info("Fetched chat flow", "url", target, "nodes", len(nodes), "duration", time.Since(start))
	return nodes, nil
}

// State reports the circuit breaker state.
func (c *Client) State() gobreaker.State {
	return c.breaker.State()
}
