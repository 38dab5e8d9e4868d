package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/aretw0/chatsim/pkg/domain"
	"github.com/go-chi/chi/v5"
)

// StreamManager fans session diffs out to SSE subscribers.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan<- string]struct{}
	logger      *slog.Logger
}

// NewStreamManager creates an empty manager.
func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[string]map[chan<- string]struct{}),
		logger:      slog.New(slog.DiscardHandler),
	}
}

// Subscribe registers a buffered channel for sessionID. The returned
// function unregisters and closes it.
func (sm *StreamManager) Subscribe(sessionID string) (<-chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 10)
	if _, ok := sm.subscribers[sessionID]; !ok {
		sm.subscribers[sessionID] = make(map[chan<- string]struct{})
	}
	sm.subscribers[sessionID][ch] = struct{}{}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			sm.mu.Lock()
			defer sm.mu.Unlock()
			if subs, ok := sm.subscribers[sessionID]; ok {
				delete(subs, ch)
				if len(subs) == 0 {
					delete(sm.subscribers, sessionID)
				}
			}
			close(ch)
		})
	}
}

// Broadcast sends msg to every subscriber of sessionID. Slow clients miss it.
func (sm *StreamManager) Broadcast(sessionID string, msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers[sessionID] {
		select {
		case ch <- msg:
		default:
			sm.logger.Warn("SSE client buffer full, dropping message", "session_id", sessionID)
		}
	}
}

func startStream(w http.ResponseWriter) (http.Flusher, bool) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return nil, false
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()
	return flusher, true
}

// SubscribeReloads handles GET /events: one event per changed node document.
func (s *Server) SubscribeReloads(w http.ResponseWriter, r *http.Request) {
	events, err := s.Engine.Watch(r.Context())
	if err != nil {
		s.writeError(w, "SubscribeReloads", err)
		return
	}
	flusher, ok := startStream(w)
	if !ok {
		return
	}
	for {
		select {
		case <-r.Context().Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: reload\ndata: %s\n\n", event)
			flusher.Flush()
		}
	}
}

// SubscribeSession handles GET /sessions/{id}/events: one StateDiff per press.
// ?watch=variables,transcript,history,status keeps only diffs touching those fields.
func (s *Server) SubscribeSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	if _, err := s.Engine.Current(r.Context(), sessionID); err != nil {
		s.writeError(w, "SubscribeSession", err)
		return
	}

	ch, cancel := s.Streams.Subscribe(sessionID)
	defer cancel()

	flusher, ok := startStream(w)
	if !ok {
		return
	}

	var watch []string
	if raw := r.URL.Query().Get("watch"); raw != "" {
		watch = strings.Split(raw, ",")
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if len(watch) > 0 && !matchesWatch(msg, watch) {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func matchesWatch(msg string, fields []string) bool {
	var diff domain.StateDiff
	if err := json.Unmarshal([]byte(msg), &diff); err != nil {
		return true
	}
	for _, field := range fields {
		switch strings.TrimSpace(field) {
		case "variables":
			if len(diff.Variables) > 0 {
				return true
			}
		case "transcript":
			if len(diff.Transcript) > 0 {
				return true
			}
		case "history":
			if len(diff.History) > 0 || diff.CurrentNodeID != nil {
				return true
			}
		case "status":
			if diff.Status != nil {
				return true
			}
		}
	}
	return false
}
