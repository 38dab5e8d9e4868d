package chatsim

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/chatsim/internal/compiler"
	"github.com/aretw0/chatsim/internal/logging"
	loamAdapter "github.com/aretw0/chatsim/pkg/adapters/loam"
	"github.com/aretw0/chatsim/pkg/adapters/memory"
	"github.com/aretw0/chatsim/pkg/adapters/platform"
	"github.com/aretw0/chatsim/pkg/dispatch"
	"github.com/aretw0/chatsim/pkg/domain"
	"github.com/aretw0/chatsim/pkg/flowfetch"
	"github.com/aretw0/chatsim/pkg/ports"
	"github.com/aretw0/chatsim/pkg/session"
	"github.com/google/uuid"
)

// DefaultEntryNode is the node a session starts at when the flow defines it.
const DefaultEntryNode = "start"

// RemoteFlows downloads the flows requested by FetchChatFlow buttons.
type RemoteFlows interface {
	Fetch(ctx context.Context, url string) ([]domain.ChatNode, error)
}

// Engine is the high-level entry point of the simulator. It owns the flow
// graph, the session store and the collaborators handed to the button command.
type Engine struct {
	Name string

	base     ports.NodeLoader
	parser   *compiler.Parser
	store    ports.StateStore
	locker   ports.DistributedLocker
	sessions *session.Manager

	// flows holds graphs downloaded by FetchChatFlow, keyed by URL.
	mu    sync.RWMutex
	flows map[string]ports.NodeLoader

	remote     RemoteFlows
	prompter   ports.Prompter
	platform   ports.Platform
	otp        ports.OTPSource
	hooks      domain.DispatchHooks
	actions    map[domain.ButtonType]dispatch.Action
	logger     *slog.Logger
	mapsAPIKey string
	loc        *time.Location
	entryNode  string
	now        func() time.Time
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLoader injects a custom NodeLoader, bypassing the default file based loading.
func WithLoader(l ports.NodeLoader) Option {
	return func(e *Engine) {
		e.base = l
	}
}

// WithStore sets where session state is persisted (default: in memory).
func WithStore(s ports.StateStore) Option {
	return func(e *Engine) {
		e.store = s
	}
}

// WithLocker enables distributed session locking.
func WithLocker(l ports.DistributedLocker) Option {
	return func(e *Engine) {
		e.locker = l
	}
}

// WithPrompter sets the dialog implementation used when a press brings no answers of its own.
func WithPrompter(p ports.Prompter) Option {
	return func(e *Engine) {
		e.prompter = p
	}
}

// WithPlatform replaces the simulated device.
func WithPlatform(p ports.Platform) Option {
	return func(e *Engine) {
		if p != nil {
			e.platform = p
		}
	}
}

// WithOTPSource sets the passcode printed by PrintOTP sections.
func WithOTPSource(src ports.OTPSource) Option {
	return func(e *Engine) {
		if src != nil {
			e.otp = src
		}
	}
}

// WithRemoteFlows replaces the downloader used by FetchChatFlow buttons.
func WithRemoteFlows(r RemoteFlows) Option {
	return func(e *Engine) {
		if r != nil {
			e.remote = r
		}
	}
}

// WithHooks registers observability hooks. Repeated calls accumulate.
func WithHooks(h domain.DispatchHooks) Option {
	return func(e *Engine) {
		e.hooks = e.hooks.Merge(h)
	}
}

// WithAction overrides or extends the action of a button type.
func WithAction(t domain.ButtonType, a dispatch.Action) Option {
	return func(e *Engine) {
		if e.actions == nil {
			e.actions = make(map[domain.ButtonType]dispatch.Action)
		}
		e.actions[t] = a
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMapsAPIKey sets the key used for static map images posted by GetLocation.
func WithMapsAPIKey(key string) Option {
	return func(e *Engine) {
		e.mapsAPIKey = key
	}
}

// WithTimeLocation sets the zone of "local" date-time display variables.
func WithTimeLocation(loc *time.Location) Option {
	return func(e *Engine) {
		e.loc = loc
	}
}

// WithEntryNode configures the initial node ID.
// Without it the engine uses "start" when present and the first listed node otherwise.
func WithEntryNode(nodeID string) Option {
	return func(e *Engine) {
		e.entryNode = nodeID
	}
}

// WithClock overrides the transcript timestamp source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// New initializes an Engine.
// repoPath may point to a directory of node documents (read through Loam) or
// to a single JSON/YAML flow file. With WithLoader, repoPath is only a label.
func New(repoPath string, opts ...Option) (*Engine, error) {
	eng := &Engine{
		parser: compiler.NewParser(),
		flows:  make(map[string]ports.NodeLoader),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}

	if eng.base == nil {
		if repoPath == "" {
			return nil, fmt.Errorf("repoPath is required when no custom loader is provided")
		}
		loader, err := openFlow(repoPath)
		if err != nil {
			return nil, err
		}
		eng.base = loader
	}
	if repoPath != "" {
		eng.Name = strings.TrimSuffix(filepath.Base(repoPath), filepath.Ext(repoPath))
		eng.logger = eng.logger.With("flow", eng.Name)
	}

	if eng.store == nil {
		eng.store = memory.NewStore()
	}
	sessOpts := []session.Option{session.WithLogger(eng.logger)}
	if eng.locker != nil {
		sessOpts = append(sessOpts, session.WithLocker(eng.locker))
	}
	eng.sessions = session.NewManager(eng.store, sessOpts...)

	if eng.platform == nil {
		eng.platform = platform.NewSimulator(platform.WithLogger(eng.logger))
	}
	if eng.otp == nil {
		eng.otp = platform.NewOTPGenerator(6)
	}
	if eng.remote == nil {
		eng.remote = flowfetch.New(flowfetch.WithLogger(eng.logger))
	}

	return eng, nil
}

func openFlow(path string) (ports.NodeLoader, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("invalid flow path: %w", err)
	}
	if info.IsDir() {
		return loamAdapter.Open(path)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return memory.LoadFlowFile(path)
	}
	return nil, fmt.Errorf("unsupported flow file %s: expected a directory or a .json/.yaml file", path)
}

// EntryNode resolves the node new sessions start at.
func (e *Engine) EntryNode() (string, error) {
	if e.entryNode != "" {
		return e.entryNode, nil
	}
	ids, err := e.base.ListNodes()
	if err != nil {
		return "", fmt.Errorf("failed to list nodes: %w", err)
	}
	if len(ids) == 0 {
		return "", errors.New("flow has no nodes")
	}
	for _, id := range ids {
		if id == DefaultEntryNode {
			return id, nil
		}
	}
	return ids[0], nil
}

// Start creates a session positioned at the entry node, rendering it into the transcript.
// An empty sessionID gets a random one. Starting an existing session returns it unchanged.
func (e *Engine) Start(ctx context.Context, sessionID string) (*domain.State, error) {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	entry, err := e.EntryNode()
	if err != nil {
		return nil, err
	}

	state, created, err := e.sessions.LoadOrStart(ctx, sessionID, entry, func(ctx context.Context, s *domain.State) error {
		return e.enter(ctx, s, entry)
	})
	if err != nil {
		return nil, err
	}
	if created {
		e.logger.Info("Session started", "session_id", sessionID, "node_id", state.CurrentNodeID)
	}
	return state.Snapshot(), nil
}

// View is the current position of a session.
type View struct {
	State *domain.State    `json:"state"`
	Node  *domain.ChatNode `json:"node"`
}

// Current returns the session state together with the node it is looking at.
func (e *Engine) Current(ctx context.Context, sessionID string) (*View, error) {
	state, err := e.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	node, err := e.resolve(ctx, state.FlowURL, state.CurrentNodeID)
	if err != nil {
		return nil, err
	}
	return &View{State: state.Snapshot(), Node: node}, nil
}

// Transcript returns the chat log of a session.
func (e *Engine) Transcript(ctx context.Context, sessionID string) ([]domain.TranscriptEntry, error) {
	state, err := e.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return state.Snapshot().Transcript, nil
}

// Reset deletes a session. Deleting an unknown session is not an error.
func (e *Engine) Reset(ctx context.Context, sessionID string) error {
	return e.sessions.Delete(ctx, sessionID)
}

// Sessions lists the stored session ids.
func (e *Engine) Sessions(ctx context.Context) ([]string, error) {
	return e.sessions.List(ctx)
}

// Inspect returns every node of the base flow in listing order.
func (e *Engine) Inspect() ([]domain.ChatNode, error) {
	ids, err := e.base.ListNodes()
	if err != nil {
		return nil, fmt.Errorf("failed to list nodes: %w", err)
	}
	nodes := make([]domain.ChatNode, 0, len(ids))
	for _, id := range ids {
		node, err := e.parse(e.base, id)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, *node)
	}
	return nodes, nil
}

// Watch returns a channel that signals when the underlying flow changes.
// Returns error if the loader does not support watching.
func (e *Engine) Watch(ctx context.Context) (<-chan string, error) {
	if w, ok := e.base.(ports.Watchable); ok {
		return w.Watch(ctx)
	}
	return nil, fmt.Errorf("current loader does not support watching")
}

// Loader returns the loader of the base flow.
func (e *Engine) Loader() ports.NodeLoader {
	return e.base
}

// Store returns the session state store.
func (e *Engine) Store() ports.StateStore {
	return e.store
}

// Platform returns the simulated device.
func (e *Engine) Platform() ports.Platform {
	return e.platform
}
