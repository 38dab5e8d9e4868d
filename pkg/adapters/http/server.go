package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/chatsim"
	"github.com/aretw0/chatsim/internal/logging"
	"github.com/aretw0/chatsim/internal/presentation/graph"
	"github.com/aretw0/chatsim/pkg/domain"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Engine is the part of the chat engine served over HTTP.
type Engine interface {
	Start(ctx context.Context, sessionID string) (*domain.State, error)
	Current(ctx context.Context, sessionID string) (*chatsim.View, error)
	Press(ctx context.Context, sessionID string, req chatsim.PressRequest) (*chatsim.PressResult, error)
	PressCard(ctx context.Context, sessionID string, req chatsim.PressRequest) (*chatsim.PressResult, error)
	Transcript(ctx context.Context, sessionID string) ([]domain.TranscriptEntry, error)
	Reset(ctx context.Context, sessionID string) error
	Sessions(ctx context.Context) ([]string, error)
	Inspect() ([]domain.ChatNode, error)
	EntryNode() (string, error)
	Watch(ctx context.Context) (<-chan string, error)
}

// Server serves the session API.
type Server struct {
	Engine  Engine
	Streams *StreamManager

	logger   *slog.Logger
	metrics  http.Handler
	validate *validator.Validate
}

// Option configures the Server.
type Option func(*Server)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetricsHandler exposes h on GET /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// NewHandler creates the HTTP handler for the engine.
func NewHandler(engine Engine, opts ...Option) http.Handler {
	s := &Server{
		Engine:   engine,
		Streams:  NewStreamManager(),
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.NewNop()
	}
	s.Streams.logger = s.logger
	return s.Routes()
}

// Routes mounts every endpoint on a chi router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/health", s.GetHealth)
	r.Get("/graph", s.GetGraph)
	r.Get("/events", s.SubscribeReloads)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", s.ListSessions)
		r.Post("/", s.CreateSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetSession)
			r.Delete("/", s.DeleteSession)
			r.Post("/press", s.PressButton)
			r.Post("/cards/press", s.PressCard)
			r.Get("/transcript", s.GetTranscript)
			r.Get("/events", s.SubscribeSession)
		})
	})
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CreateSessionRequest is the optional body of POST /sessions.
type CreateSessionRequest struct {
	SessionID string `json:"session_id" validate:"omitempty,max=128,excludesall=/\\"`
}

// PressButtonRequest is the body of the press endpoints.
type PressButtonRequest struct {
	Button  string          `json:"button" validate:"required"`
	Value   string          `json:"value,omitempty" validate:"max=4096"`
	Address *domain.Address `json:"address,omitempty"`
	At      *time.Time      `json:"at,omitempty"`
}

// CreateSession handles POST /sessions.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	var body CreateSessionRequest
	if !s.decodeOptional(w, r, &body) {
		return
	}
	id := body.SessionID
	if id == "" {
		id = uuid.NewString()
	}
	if _, err := s.Engine.Start(r.Context(), id); err != nil {
		s.writeError(w, "CreateSession", err)
		return
	}
	view, err := s.Engine.Current(r.Context(), id)
	if err != nil {
		s.writeError(w, "CreateSession", err)
		return
	}
	s.logger.Info("session created", "session_id", id)
	writeJSON(w, http.StatusCreated, view)
}

// ListSessions handles GET /sessions.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Engine.Sessions(r.Context())
	if err != nil {
		s.writeError(w, "ListSessions", err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"sessions": ids})
}

// GetSession handles GET /sessions/{id}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	view, err := s.Engine.Current(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, "GetSession", err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// DeleteSession handles DELETE /sessions/{id}.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.Engine.Reset(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, "DeleteSession", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PressButton handles POST /sessions/{id}/press.
func (s *Server) PressButton(w http.ResponseWriter, r *http.Request) {
	s.press(w, r, "PressButton", s.Engine.Press)
}

// PressCard handles POST /sessions/{id}/cards/press.
func (s *Server) PressCard(w http.ResponseWriter, r *http.Request) {
	s.press(w, r, "PressCard", s.Engine.PressCard)
}

type pressFunc func(context.Context, string, chatsim.PressRequest) (*chatsim.PressResult, error)

func (s *Server) press(w http.ResponseWriter, r *http.Request, op string, press pressFunc) {
	var body PressButtonRequest
	if !s.decode(w, r, &body) {
		return
	}
	id := chi.URLParam(r, "id")
	res, err := press(r.Context(), id, chatsim.PressRequest{
		Button:  body.Button,
		Value:   body.Value,
		Address: body.Address,
		At:      body.At,
	})
	if err != nil {
		s.writeError(w, op, err)
		return
	}
	if res.Diff != nil {
		if payload, err := json.Marshal(res.Diff); err == nil {
			s.Streams.Broadcast(id, string(payload))
		}
	}
	writeJSON(w, http.StatusOK, res)
}

// GetTranscript handles GET /sessions/{id}/transcript.
func (s *Server) GetTranscript(w http.ResponseWriter, r *http.Request) {
	entries, err := s.Engine.Transcript(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, "GetTranscript", err)
		return
	}
	if entries == nil {
		entries = []domain.TranscriptEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"transcript": entries})
}

// GetGraph handles GET /graph. With ?format=mermaid it returns a flowchart,
// highlighting the path of ?session= when given.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	nodes, err := s.Engine.Inspect()
	if err != nil {
		s.writeError(w, "GetGraph", err)
		return
	}
	if r.URL.Query().Get("format") != "mermaid" {
		writeJSON(w, http.StatusOK, map[string]any{"nodes": nodes})
		return
	}

	entry, _ := s.Engine.EntryNode()
	var overlay *graph.GraphOverlay
	if id := r.URL.Query().Get("session"); id != "" {
		view, err := s.Engine.Current(r.Context(), id)
		if err != nil {
			s.writeError(w, "GetGraph", err)
			return
		}
		overlay = &graph.GraphOverlay{VisitedNodes: view.State.History, CurrentNode: view.State.CurrentNodeID}
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, graph.GenerateMermaid(nodes, entry, overlay))
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	return s.decodeBody(w, r, dst, false)
}

// decodeOptional accepts an empty body.
func (s *Server) decodeOptional(w http.ResponseWriter, r *http.Request, dst any) bool {
	return s.decodeBody(w, r, dst, true)
}

func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, dst any, optional bool) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	err := dec.Decode(dst)
	if optional && errors.Is(err, io.EOF) {
		err = nil
	}
	if err != nil {
		s.logger.Warn("invalid request body", "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		msg := err.Error()
		if errors.As(err, &verrs) && len(verrs) > 0 {
			msg = fmt.Sprintf("field %s failed %s", verrs[0].Field(), verrs[0].Tag())
		}
		writeJSON(w, http.StatusBadRequest, errorBody{Error: msg})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
