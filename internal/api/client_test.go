package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordedRequest is what the test server saw.
type recordedRequest struct {
	Method    string
	Path      string
	Query     string
	Body      string
	RequestID string
}

type testServer struct {
	*httptest.Server
	mu       sync.Mutex
	requests []recordedRequest
}

func newTestServer(t *testing.T, handler http.HandlerFunc) *testServer {
	t.Helper()
	ts := &testServer{}
	ts.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		ts.mu.Lock()
		ts.requests = append(ts.requests, recordedRequest{
			Method:    r.Method,
			Path:      r.URL.Path,
			Query:     r.URL.RawQuery,
			Body:      string(body),
			RequestID: r.Header.Get("X-Request-ID"),
		})
		ts.mu.Unlock()
		handler(w, r)
	}))
	t.Cleanup(ts.Close)
	return ts
}

func (ts *testServer) last() recordedRequest {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.requests[len(ts.requests)-1]
}

func (ts *testServer) count() int {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return len(ts.requests)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newTestClient(t *testing.T, ts *testServer, timeout time.Duration) *Client {
	t.Helper()
	tr, err := NewHTTPTransport(ts.URL+"/api", timeout)
	require.NoError(t, err)
	return NewClient(tr)
}

func TestClientHealthUsesServerRoot(t *testing.T) {
	ts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "SeekJob Helper API is running", "version": "1.0.0", "docs": "/docs"})
	})
	c := newTestClient(t, ts, time.Second)

	h, err := c.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", h.Version)
	assert.Equal(t, "/", ts.last().Path)
}

func TestClientChat(t *testing.T) {
	ts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"ai_message": "Tell me about channels.",
			"conversation_history": []map[string]any{
				{"user": "", "ai": "Hello", "timestamp": 1740821400000.0, "greeting": true},
				{"user": "I write Go", "ai": "Tell me about channels.", "timestamp": 1740821460.25},
			},
			"is_complete": false,
		})
	})
	c := newTestClient(t, ts, time.Second)

	resp, err := c.Chat(context.Background(), ChatRequest{
		Message: "I write Go",
		Topic:   "Backend",
		History: []HistoryItem{{AI: "Hello", Timestamp: 1740821400000, Greeting: true}},
	})
	require.NoError(t, err)

	require.Len(t, resp.History, 2)
	assert.True(t, resp.History[0].Greeting)
	assert.Equal(t, int64(1740821400), resp.History[0].Time().Unix())
	assert.Equal(t, int64(1740821460), resp.History[1].Time().Unix())
	assert.False(t, resp.IsComplete)

	req := ts.last()
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/api/interview/chat", req.Path)
	assert.NotEmpty(t, req.RequestID)
	assert.JSONEq(t, `{
		"message": "I write Go",
		"interview_topic": "Backend",
		"conversation_history": [{"user": "", "ai": "Hello", "timestamp": 1740821400000, "greeting": true}]
	}`, req.Body)
}

func TestClientChatSendsEmptyHistory(t *testing.T) {
	ts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ai_message": "", "conversation_history": []any{}, "is_complete": false})
	})
	c := newTestClient(t, ts, time.Second)

	_, err := c.Chat(context.Background(), ChatRequest{Message: "hi"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"message":"hi","conversation_history":[]}`, ts.last().Body)
}

func TestClientRandomQuestionQuery(t *testing.T) {
	ts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"id": 1, "question": "q", "answer": "a", "tags": nil, "difficulty": nil})
	})
	c := newTestClient(t, ts, time.Second)

	q, err := c.RandomQuestion(context.Background(), Filter{Tags: []string{"go，redis"}, Difficulty: DifficultyEasy})
	require.NoError(t, err)
	assert.Nil(t, q.Tags)
	assert.Equal(t, DifficultyUnset, q.Difficulty)

	req := ts.last()
	assert.Equal(t, "/api/questions/random/", req.Path)
	assert.Equal(t, "difficulty=%E7%AE%80%E5%8D%95&tags=go%2Credis", req.Query)
}

func TestClientServerErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"string detail", http.StatusNotFound, `{"detail":"no matching question found"}`, "no matching question found"},
		{"validation detail", http.StatusUnprocessableEntity, `{"detail":[{"msg":"field required"},{"msg":"too short"}]}`, "field required; too short"},
		{"no detail", http.StatusBadGateway, `oops`, "Bad Gateway"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})
			c := newTestClient(t, ts, time.Second)

			_, err := c.GetQuestion(context.Background(), 3)
			require.Error(t, err)

			var apiErr *Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, KindServerError, apiErr.Kind)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.message, apiErr.Message())
		})
	}
}

func TestClientTimeoutIsNetworkFailure(t *testing.T) {
	release := make(chan struct{})
	ts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)
	c := newTestClient(t, ts, 50*time.Millisecond)

	_, err := c.Health(context.Background())
	require.Error(t, err)
	assert.Equal(t, KindNetworkFailure, KindOf(err))
	assert.Equal(t, networkFailureMessage, MessageOf(err))
}

func TestClientUnreachable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	tr, err := NewHTTPTransport(url+"/api", time.Second)
	require.NoError(t, err)
	_, err = NewClient(tr).ListQuestions(context.Background(), Filter{}, Page{})
	assert.True(t, IsKind(err, KindNetworkFailure))
}

func TestClientSchemaViolationIsUnhandled(t *testing.T) {
	ts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"question_id": 1, "score": "nine"})
	})
	c := newTestClient(t, ts, time.Second)

	_, err := c.Evaluate(context.Background(), 1, "answer")
	assert.True(t, IsKind(err, KindUnhandled))
}

func TestClientLocalValidationSendsNothing(t *testing.T) {
	ts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	c := newTestClient(t, ts, time.Second)
	ctx := context.Background()

	_, err := c.OptimizeResume(ctx, OptimizeRequest{ResumeText: "short"})
	assert.True(t, IsKind(err, KindInvalidInput))
	_, err = c.Chat(ctx, ChatRequest{Message: "  "})
	assert.True(t, IsKind(err, KindInvalidInput))
	_, err = c.CreateQuestion(ctx, QuestionDraft{Prompt: "q"})
	assert.True(t, IsKind(err, KindInvalidInput))
	_, err = c.Evaluate(ctx, 1, "")
	assert.True(t, IsKind(err, KindInvalidInput))

	assert.Equal(t, 0, ts.count())
}

func TestClientDeleteAcceptsEmptyBody(t *testing.T) {
	ts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	c := newTestClient(t, ts, time.Second)

	require.NoError(t, c.DeleteQuestion(context.Background(), 12))
	assert.Equal(t, http.MethodDelete, ts.last().Method)
	assert.Equal(t, "/api/questions/12", ts.last().Path)
}

func TestNewValidatesConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BaseURL = "ftp://example.com"
	_, err := New(cfg, nil)
	assert.Error(t, err)

	cfg = DefaultConfig()
	cfg.Timeout = 0
	_, err = New(cfg, nil)
	assert.Error(t, err)

	_, err = New(DefaultConfig(), nil)
	assert.NoError(t, err)
}
