package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/chatsim"
	"github.com/aretw0/chatsim/internal/config"
	"github.com/aretw0/chatsim/pkg/adapters/file"
	"github.com/aretw0/chatsim/pkg/adapters/memory"
	"github.com/aretw0/chatsim/pkg/adapters/platform"
	"github.com/aretw0/chatsim/pkg/adapters/redis"
	"github.com/aretw0/chatsim/pkg/flowfetch"
	"github.com/aretw0/chatsim/pkg/observability"
	"github.com/aretw0/chatsim/pkg/persistence/middleware"
	"github.com/aretw0/chatsim/pkg/ports"
)

// EngineOptions selects how BuildEngine wires an engine.
type EngineOptions struct {
	FlowPath string
	Config   config.Config
	Logger   *slog.Logger

	// Persist keeps sessions on disk when no Redis address is configured.
	// Otherwise sessions live in memory for the lifetime of the process.
	Persist bool

	// Metrics, when set, records every dispatch.
	Metrics *observability.Metrics

	// Prompter answers dialogs when a press carries no answers of its own.
	Prompter ports.Prompter
}

// Stack is an engine together with the resources it holds.
type Stack struct {
	Engine  *chatsim.Engine
	Store   ports.StateStore
	closers []func() error
}

// Close releases the store connections.
func (s *Stack) Close() error {
	var errs []error
	for _, c := range s.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

// BuildEngine initializes an engine with the standard CLI conventions:
// Redis when configured, PII masking and encryption at rest when configured,
// structured logging hooks always.
func BuildEngine(opts EngineOptions) (*Stack, error) {
	cfg := opts.Config
	logger := opts.Logger
	if logger == nil {
		logger = NewLogger(cfg.LogLevel, false)
	}

	stack := &Stack{}
	store, locker, err := buildStore(cfg, opts.Persist, stack)
	if err != nil {
		_ = stack.Close()
		return nil, err
	}
	stack.Store = store

	loc, err := cfg.Location()
	if err != nil {
		_ = stack.Close()
		return nil, err
	}

	engineOpts := []chatsim.Option{
		chatsim.WithLogger(logger),
		chatsim.WithStore(store),
		chatsim.WithHooks(observability.LogHooks(logger)),
		chatsim.WithMapsAPIKey(cfg.MapsAPIKey),
		chatsim.WithTimeLocation(loc),
		chatsim.WithPlatform(platform.NewSimulator(
			platform.WithLocation(cfg.Latitude, cfg.Longitude),
			platform.WithLogger(logger),
		)),
		chatsim.WithRemoteFlows(flowfetch.New(
			flowfetch.WithTimeout(cfg.FetchTimeout),
			flowfetch.WithLogger(logger),
		)),
	}
	if locker != nil {
		engineOpts = append(engineOpts, chatsim.WithLocker(locker))
	}
	if opts.Metrics != nil {
		engineOpts = append(engineOpts, chatsim.WithHooks(opts.Metrics.Hooks()))
	}
	if cfg.OTP != "" {
		engineOpts = append(engineOpts, chatsim.WithOTPSource(platform.StaticOTP(cfg.OTP)))
	}
	if cfg.EntryNode != "" {
		engineOpts = append(engineOpts, chatsim.WithEntryNode(cfg.EntryNode))
	}
	if opts.Prompter != nil {
		engineOpts = append(engineOpts, chatsim.WithPrompter(opts.Prompter))
	}

	engine, err := chatsim.New(opts.FlowPath, engineOpts...)
	if err != nil {
		_ = stack.Close()
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	stack.Engine = engine
	return stack, nil
}

// OpenStore opens the configured session store without loading a flow.
// The returned Stack has no Engine.
func OpenStore(cfg config.Config) (*Stack, error) {
	stack := &Stack{}
	store, _, err := buildStore(cfg, true, stack)
	if err != nil {
		_ = stack.Close()
		return nil, err
	}
	stack.Store = store
	return stack, nil
}

func buildStore(cfg config.Config, persist bool, stack *Stack) (ports.StateStore, ports.DistributedLocker, error) {

	var (
		store  ports.StateStore
		locker ports.DistributedLocker
	)
	switch {
	case cfg.RedisAddr != "":
		rs := redis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		stack.closers = append(stack.closers, rs.Close)
		store = rs
		locker = redis.NewLocker(rs.Client(), rs.Prefix())
	case persist || cfg.SessionDir != "":
		store = file.New(cfg.SessionDir)
	default:
		store = memory.NewStore()
	}

	var mws []middleware.Middleware
	if len(cfg.PIIPatterns) > 0 {
		pii, err := middleware.NewPIIMiddleware(cfg.PIIPatterns)
		if err != nil {
			return nil, nil, err
		}
		mws = append(mws, pii)
	}
	if cfg.EncryptionKey != "" {
		key, err := middleware.ParseKey(cfg.EncryptionKey)
		if err != nil {
			return nil, nil, err
		}
		enc, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key})
		if err != nil {
			return nil, nil, err
		}
		mws = append(mws, enc)
	}
	return middleware.Chain(store, mws...), locker, nil
}
