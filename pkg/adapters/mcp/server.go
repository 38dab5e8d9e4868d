package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/chatsim"
	"github.com/aretw0/chatsim/internal/logging"
	"github.com/aretw0/chatsim/internal/presentation/graph"
	"github.com/aretw0/chatsim/pkg/domain"
	"github.com/aretw0/chatsim/pkg/runner"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mitchellh/mapstructure"
	"golang.org/x/sync/errgroup"
)

// GraphURI is the resource holding the flow definition.
const GraphURI = "chatsim://graph"

// Engine is the part of the chat engine exposed as MCP tools.
type Engine interface {
	Start(ctx context.Context, sessionID string) (*domain.State, error)
	Current(ctx context.Context, sessionID string) (*chatsim.View, error)
	Press(ctx context.Context, sessionID string, req chatsim.PressRequest) (*chatsim.PressResult, error)
	PressCard(ctx context.Context, sessionID string, req chatsim.PressRequest) (*chatsim.PressResult, error)
	Transcript(ctx context.Context, sessionID string) ([]domain.TranscriptEntry, error)
	Inspect() ([]domain.ChatNode, error)
	EntryNode() (string, error)
}

// SessionResponse describes where a session stands.
type SessionResponse struct {
	SessionID string                   `json:"session_id" jsonschema_description:"Session identifier to pass to press_button"`
	NodeID    string                   `json:"node_id" jsonschema_description:"Node the session is looking at"`
	Status    domain.ExecutionStatus   `json:"status" jsonschema_description:"active or terminated"`
	Buttons   []domain.Button          `json:"buttons" jsonschema_description:"Buttons of the current node"`
	Cards     []domain.CarouselButton  `json:"cards,omitempty" jsonschema_description:"Carousel card buttons of the current node"`
	Messages  []domain.TranscriptEntry `json:"messages" jsonschema_description:"Transcript entries added by this call"`
	Variables map[string]string        `json:"variables" jsonschema_description:"Variables captured so far"`
}

// PressResponse is the result of press_button.
type PressResponse struct {
	SessionResponse
	Outcome domain.Outcome `json:"outcome" jsonschema_description:"completed, aborted, ignored or failed"`
	Notices []string       `json:"notices,omitempty" jsonschema_description:"Dialog messages shown during the press"`
}

// TranscriptResponse is the result of get_transcript.
type TranscriptResponse struct {
	SessionID  string                   `json:"session_id"`
	Transcript []domain.TranscriptEntry `json:"transcript"`
}

// pressArgs are the arguments of press_button.
type pressArgs struct {
	SessionID string          `mapstructure:"session_id"`
	Button    string          `mapstructure:"button"`
	Value     string          `mapstructure:"value"`
	Card      bool            `mapstructure:"card"`
	Address   *domain.Address `mapstructure:"address"`
	At        string          `mapstructure:"at"`
}

// Server exposes an engine as an MCP server.
type Server struct {
	engine    Engine
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(engine Engine, version string, opts ...Option) *Server {
	s := &Server{
		engine:    engine,
		mcpServer: server.NewMCPServer("chatsim-mcp", strings.TrimSpace(version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.NewNop()
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio serves on stdin and stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves over SSE on addr until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, addr, baseURL string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))
	httpServer := &http.Server{Addr: addr, Handler: mux}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	})
	return g.Wait()
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("start_session",
		mcp.WithDescription("Start a chat session on the entry node, or resume it when the id already exists."),
		mcp.WithString("session_id", mcp.Description("Session id. A new one is generated when omitted.")),
		mcp.WithOutputSchema[SessionResponse](),
	), mcp.NewStructuredToolHandler(s.handleStartSession))

	s.mcpServer.AddTool(mcp.NewTool("press_button",
		mcp.WithDescription("Press a button of the session's current node and return the new position."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session id")),
		mcp.WithString("button", mcp.Required(), mcp.Description("Button id, name or text")),
		mcp.WithString("value", mcp.Description("Typed value for input buttons, or media URL for media buttons")),
		mcp.WithBoolean("card", mcp.Description("Press a carousel card button instead of a node button")),
		mcp.WithObject("address", mcp.Description("Answer to the address dialog: street_address, city, country, pin_code, lat, lng")),
		mcp.WithString("at", mcp.Description("Answer to date and time pickers, RFC3339")),
		mcp.WithOutputSchema[PressResponse](),
	), mcp.NewStructuredToolHandler(s.handlePressButton))

	s.mcpServer.AddTool(mcp.NewTool("get_transcript",
		mcp.WithDescription("Get the full chat log of a session."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session id")),
		mcp.WithOutputSchema[TranscriptResponse](),
	), mcp.NewStructuredToolHandler(s.handleGetTranscript))

	s.mcpServer.AddTool(mcp.NewTool("get_graph",
		mcp.WithDescription("Get the flow definition as JSON, or as a Mermaid flowchart."),
		mcp.WithString("format", mcp.Description("json (default) or mermaid")),
	), s.handleGetGraph)
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(GraphURI, "Chat flow definition",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		nodes, err := s.engine.Inspect()
		if err != nil {
			return nil, fmt.Errorf("failed to inspect flow: %w", err)
		}
		raw, err := json.Marshal(nodes)
		if err != nil {
			return nil, err
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{URI: GraphURI, MIMEType: "application/json", Text: string(raw)},
		}, nil
	})
}

func (s *Server) handleStartSession(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (SessionResponse, error) {
	id, _ := args["session_id"].(string)
	state, err := s.engine.Start(ctx, strings.TrimSpace(id))
	if err != nil {
		return SessionResponse{}, fmt.Errorf("start failed: %w", err)
	}
	view, err := s.engine.Current(ctx, state.SessionID)
	if err != nil {
		return SessionResponse{}, err
	}
	return sessionResponse(view.State, view.Node, view.State.Transcript), nil
}

func (s *Server) handlePressButton(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (PressResponse, error) {
	var in pressArgs
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &in,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return PressResponse{}, err
	}
	if err := dec.Decode(args); err != nil {
		return PressResponse{}, fmt.Errorf("invalid arguments: %w", err)
	}

	value, err := runner.SanitizeInput(in.Value)
	if err != nil {
		s.logger.Warn("press_button input rejected", "error", err, "size", len(in.Value))
		return PressResponse{}, fmt.Errorf("input rejected: %w", err)
	}
	req := chatsim.PressRequest{Button: in.Button, Value: value, Address: in.Address}
	if in.At != "" {
		at, err := time.Parse(time.RFC3339, in.At)
		if err != nil {
			return PressResponse{}, fmt.Errorf("invalid at: %w", err)
		}
		req.At = &at
	}

	press := s.engine.Press
	if in.Card {
		press = s.engine.PressCard
	}
	res, err := press(ctx, in.SessionID, req)
	if err != nil {
		return PressResponse{}, fmt.Errorf("press failed: %w", err)
	}

	var added []domain.TranscriptEntry
	if res.Diff != nil {
		added = res.Diff.Transcript
	}
	out := PressResponse{
		SessionResponse: sessionResponse(res.State, res.Node, added),
		Notices:         res.Notices,
	}
	if res.Dispatch != nil {
		out.Outcome = res.Dispatch.Outcome
	}
	return out, nil
}

func (s *Server) handleGetTranscript(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (TranscriptResponse, error) {
	id, _ := args["session_id"].(string)
	entries, err := s.engine.Transcript(ctx, id)
	if err != nil {
		return TranscriptResponse{}, err
	}
	if entries == nil {
		entries = []domain.TranscriptEntry{}
	}
	return TranscriptResponse{SessionID: id, Transcript: entries}, nil
}

func (s *Server) handleGetGraph(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	nodes, err := s.engine.Inspect()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("inspect failed: %v", err)), nil
	}
	if request.GetString("format", "json") == "mermaid" {
		entry, _ := s.engine.EntryNode()
		return mcp.NewToolResultText(graph.GenerateMermaid(nodes, entry, nil)), nil
	}
	raw, err := json.Marshal(nodes)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(raw)), nil
}

func sessionResponse(state *domain.State, node *domain.ChatNode, added []domain.TranscriptEntry) SessionResponse {
	resp := SessionResponse{
		SessionID: state.SessionID,
		NodeID:    state.CurrentNodeID,
		Status:    state.Status,
		Buttons:   []domain.Button{},
		Messages:  added,
		Variables: state.Variables,
	}
	if resp.Messages == nil {
		resp.Messages = []domain.TranscriptEntry{}
	}
	if node != nil && !state.Terminated() {
		for _, b := range node.Buttons {
			if !b.Hidden {
				resp.Buttons = append(resp.Buttons, b)
			}
		}
		resp.Cards = node.CarouselButtons()
	}
	return resp
}
