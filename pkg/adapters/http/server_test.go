package http

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/chatsim"
	"github.com/aretw0/chatsim/pkg/adapters/memory"
	"github.com/aretw0/chatsim/pkg/domain"
	"github.com/aretw0/chatsim/pkg/flowfetch"
	"github.com/aretw0/chatsim/pkg/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T) *chatsim.Engine {
	t.Helper()
	loader, err := memory.NewFromNodes(
		domain.ChatNode{
			ID:       "start",
			Sections: []domain.Section{{SectionType: domain.SectionText, Text: "Hello"}},
			Buttons: []domain.Button{
				{ID: "email", ButtonName: "Email", ButtonType: domain.ButtonGetEmail, VariableName: "EMAIL", PostToChat: true, NextNodeID: "when"},
			},
		},
		domain.ChatNode{
			ID: "when",
			Sections: []domain.Section{{SectionType: domain.SectionCarousel, Items: []domain.CarouselItem{{
				Title:   "Later",
				Buttons: []domain.CarouselButton{{ID: "later", Text: "Later", Type: domain.CardNextNode, NextNodeID: "end"}},
			}}}},
			Buttons: []domain.Button{
				{ID: "day", ButtonName: "Day", ButtonType: domain.ButtonGetDate, VariableName: "DAY", NextNodeID: "end"},
			},
		},
		domain.ChatNode{ID: "end", Sections: []domain.Section{{SectionType: domain.SectionText, Text: "Bye"}}},
	)
	require.NoError(t, err)
	eng, err := chatsim.New("", chatsim.WithLoader(loader))
	require.NoError(t, err)
	return eng
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestServer_SessionLifecycle(t *testing.T) {
	h := NewHandler(newTestEngine(t))

	w := do(t, h, http.MethodPost, "/sessions", CreateSessionRequest{SessionID: "s1"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	view := decodeBody[chatsim.View](t, w)
	assert.Equal(t, "start", view.State.CurrentNodeID)
	assert.Equal(t, "start", view.Node.ID)

	w = do(t, h, http.MethodPost, "/sessions/s1/press", PressButtonRequest{Button: "email", Value: "ana@example.com"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	res := decodeBody[chatsim.PressResult](t, w)
	assert.Equal(t, domain.OutcomeCompleted, res.Dispatch.Outcome)
	assert.Equal(t, "when", res.State.CurrentNodeID)
	require.NotNil(t, res.Diff)
	assert.Equal(t, "ana@example.com", *res.Diff.Variables["EMAIL"])

	at := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	w = do(t, h, http.MethodPost, "/sessions/s1/press", PressButtonRequest{Button: "day", At: &at})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	res = decodeBody[chatsim.PressResult](t, w)
	assert.Equal(t, "2025-03-01", res.State.Variables["DAY"])
	assert.True(t, res.State.Terminated())

	w = do(t, h, http.MethodGet, "/sessions/s1/transcript", nil)
	require.Equal(t, http.StatusOK, w.Code)
	tr := decodeBody[map[string][]domain.TranscriptEntry](t, w)
	texts := make([]string, 0, len(tr["transcript"]))
	for _, e := range tr["transcript"] {
		texts = append(texts, e.Text)
	}
	assert.Equal(t, []string{"Hello", "ana@example.com", "Later", "Bye"}, texts)

	w = do(t, h, http.MethodPost, "/sessions/s1/press", PressButtonRequest{Button: "day"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(t, h, http.MethodGet, "/sessions", nil)
	assert.Equal(t, map[string][]string{"sessions": {"s1"}}, decodeBody[map[string][]string](t, w))

	w = do(t, h, http.MethodDelete, "/sessions/s1", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, h, http.MethodGet, "/sessions/s1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_CreateSessionGeneratesID(t *testing.T) {
	h := NewHandler(newTestEngine(t))

	w := do(t, h, http.MethodPost, "/sessions", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	view := decodeBody[chatsim.View](t, w)
	assert.Len(t, view.State.SessionID, 36)
}

func TestServer_PressCard(t *testing.T) {
	h := NewHandler(newTestEngine(t))
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/sessions", CreateSessionRequest{SessionID: "s1"}).Code)
	require.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/sessions/s1/press", PressButtonRequest{Button: "email", Value: "a@b.co"}).Code)

	w := do(t, h, http.MethodPost, "/sessions/s1/cards/press", PressButtonRequest{Button: "later"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	res := decodeBody[chatsim.PressResult](t, w)
	assert.Equal(t, "end", res.State.CurrentNodeID)
	assert.Equal(t, "CardNextNode", res.Dispatch.ButtonType)
}

func TestServer_Errors(t *testing.T) {
	h := NewHandler(newTestEngine(t))
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/sessions", CreateSessionRequest{SessionID: "s1"}).Code)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
	}{
		{"unknown session", http.MethodPost, "/sessions/nope/press", PressButtonRequest{Button: "email"}, http.StatusNotFound},
		{"unknown button", http.MethodPost, "/sessions/s1/press", PressButtonRequest{Button: "ghost"}, http.StatusBadRequest},
		{"missing button", http.MethodPost, "/sessions/s1/press", map[string]string{"value": "x"}, http.StatusBadRequest},
		{"unknown field", http.MethodPost, "/sessions/s1/press", map[string]string{"button": "email", "extra": "x"}, http.StatusBadRequest},
		{"bad session id", http.MethodPost, "/sessions", CreateSessionRequest{SessionID: "a/b"}, http.StatusBadRequest},
		{"transcript of unknown session", http.MethodGet, "/sessions/nope/transcript", nil, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			assert.NotEmpty(t, decodeBody[errorBody](t, w).Error)
		})
	}
}

func TestServer_InvalidInputIsAbortedNotError(t *testing.T) {
	h := NewHandler(newTestEngine(t))
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/sessions", CreateSessionRequest{SessionID: "s1"}).Code)

	w := do(t, h, http.MethodPost, "/sessions/s1/press", PressButtonRequest{Button: "email", Value: "nope"})
	require.Equal(t, http.StatusOK, w.Code)
	res := decodeBody[chatsim.PressResult](t, w)
	assert.Equal(t, domain.OutcomeAborted, res.Dispatch.Outcome)
	assert.Equal(t, "start", res.State.CurrentNodeID)
	assert.NotEmpty(t, res.Notices)
}

func TestServer_Graph(t *testing.T) {
	h := NewHandler(newTestEngine(t))

	w := do(t, h, http.MethodGet, "/graph", nil)
	require.Equal(t, http.StatusOK, w.Code)
	graph := decodeBody[map[string][]domain.ChatNode](t, w)
	assert.Len(t, graph["nodes"], 3)

	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/sessions", CreateSessionRequest{SessionID: "s1"}).Code)
	w = do(t, h, http.MethodGet, "/graph?format=mermaid&session=s1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "graph TD")
	assert.Contains(t, w.Body.String(), `start -- "Email" --> when`)
	assert.Contains(t, w.Body.String(), "class start current;")
}

func TestServer_HealthAndMetrics(t *testing.T) {
	m := observability.NewMetrics()
	h := NewHandler(newTestEngine(t), WithMetricsHandler(m.Handler()))

	w := do(t, h, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = do(t, h, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, NewHandler(newTestEngine(t)), http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_SessionEvents(t *testing.T) {
	eng := newTestEngine(t)
	h := NewHandler(eng)
	ts := httptest.NewServer(h)
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/sessions", "application/json", strings.NewReader(`{"session_id":"s1"}`))
	require.NoError(t, err)
	resp.Body.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/sessions/s1/events?watch=variables", nil)
	require.NoError(t, err)
	stream, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer stream.Body.Close()
	assert.Equal(t, "text/event-stream", stream.Header.Get("Content-Type"))

	lines := make(chan string, 16)
	go func() {
		sc := bufio.NewScanner(stream.Body)
		for sc.Scan() {
			lines <- sc.Text()
		}
		close(lines)
	}()
	require.Equal(t, "event: ping", <-lines)

	resp, err = http.Post(ts.URL+"/sessions/s1/press", "application/json", strings.NewReader(`{"button":"email","value":"a@b.co"}`))
	require.NoError(t, err)
	resp.Body.Close()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case line, ok := <-lines:
			require.True(t, ok, "stream closed early")
			if strings.HasPrefix(line, "data: {") {
				assert.Contains(t, line, `"EMAIL":"a@b.co"`)
				return
			}
		case <-deadline:
			t.Fatal("no diff received")
		}
	}
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusServiceUnavailable, StatusFor(fmt.Errorf("fetch: %w", flowfetch.ErrUnavailable)))
	assert.Equal(t, http.StatusBadGateway, StatusFor(&flowfetch.StatusError{URL: "u", Code: 404}))
	assert.Equal(t, http.StatusNotFound, StatusFor(domain.ErrNodeNotFound))
	assert.Equal(t, http.StatusBadGateway, StatusFor(fmt.Errorf("flow: %w", domain.ErrEmptyFlow)))
	assert.Equal(t, http.StatusInternalServerError, StatusFor(errors.New("boom")))
}

func TestStreamManager_DropsWhenFull(t *testing.T) {
	sm := NewStreamManager()
	ch, cancel := sm.Subscribe("s")
	for i := 0; i < 20; i++ {
		sm.Broadcast("s", "m")
	}
	assert.Len(t, ch, 10)
	cancel()
	cancel()
	sm.Broadcast("s", "after")
}
