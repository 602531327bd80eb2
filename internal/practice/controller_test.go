package practice

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RavenCaffeine/SeekJob-Helper/internal/api"
)

func questionBody(id int, difficulty string) map[string]any {
	return map[string]any{
		"id":         id,
		"question":   "What is a goroutine?",
		"answer":     "A lightweight thread managed by the Go runtime.",
		"tags":       "go,concurrency",
		"difficulty": difficulty,
		"created_at": "2025-01-02T03:04:05",
		"updated_at": nil,
	}
}

func evaluationBody(id int, score float64) map[string]any {
	return map[string]any{
		"question_id":     id,
		"user_answer":     "a green thread",
		"standard_answer": "A lightweight thread managed by the Go runtime.",
		"score":           score,
		"evaluation":      "Mostly right.",
		"suggestions":     []string{"Mention the scheduler", "Mention stack growth"},
	}
}

func newMockController(responses ...api.MockResponse) (*Controller, *api.MockTransport) {
	mock := api.NewMockTransport(responses...)
	return NewController(api.NewClient(mock), nil), mock
}

func TestFetchRandomLoadsQuestion(t *testing.T) {
	c, mock := newMockController(api.MockResponse{Body: questionBody(7, "困难")})
	assert.Equal(t, StateNoQuestion, c.State())

	q, err := c.FetchRandom(context.Background(), api.Filter{Tags: []string{"go", " concurrency", "go"}, Difficulty: api.DifficultyHard})
	require.NoError(t, err)

	assert.Equal(t, 7, q.ID)
	assert.Equal(t, api.DifficultyHard, q.Difficulty)
	assert.Equal(t, []string{"go", "concurrency"}, q.Tags)
	assert.Equal(t, StateQuestionLoaded, c.State())
	assert.Nil(t, c.Evaluation())
	assert.Equal(t, []string{"go", "concurrency"}, c.Filter().Tags)

	call := mock.LastCall()
	require.NotNil(t, call)
	assert.Equal(t, http.MethodGet, call.Method)
	assert.Equal(t, "/questions/random/", call.Path)
	assert.Equal(t, "go,concurrency", call.Query.Get("tags"))
	assert.Equal(t, "困难", call.Query.Get("difficulty"))
}

func TestSubmitBlankAnswerSendsNothing(t *testing.T) {
	c, mock := newMockController(api.MockResponse{Body: questionBody(3, "困难")})
	_, err := c.FetchRandom(context.Background(), api.Filter{Difficulty: api.DifficultyHard})
	require.NoError(t, err)
	calls := mock.CallCount()

	_, err = c.SubmitAnswer(context.Background(), "")
	require.Error(t, err)
	assert.True(t, api.IsKind(err, api.KindInvalidInput))
	assert.Equal(t, calls, mock.CallCount())
	assert.Equal(t, StateQuestionLoaded, c.State())
}

func TestSubmitWithoutQuestion(t *testing.T) {
	c, mock := newMockController()
	_, err := c.SubmitAnswer(context.Background(), "an answer")
	assert.True(t, api.IsKind(err, api.KindInvalidInput))
	assert.Equal(t, 0, mock.CallCount())
	assert.Equal(t, StateNoQuestion, c.State())
}

func TestSubmitAnswerEvaluates(t *testing.T) {
	c, mock := newMockController(
		api.MockResponse{Body: questionBody(5, "中等")},
		api.MockResponse{Body: evaluationBody(5, 8.5)},
	)
	_, err := c.FetchRandom(context.Background(), api.Filter{})
	require.NoError(t, err)

	ev, err := c.SubmitAnswer(context.Background(), "  a green thread ")
	require.NoError(t, err)

	assert.Equal(t, 8.5, ev.Score)
	assert.Equal(t, "Mostly right.", ev.Comment)
	assert.Len(t, ev.Suggestions, 2)
	assert.Equal(t, StateEvaluated, c.State())
	assert.Equal(t, ev, c.Evaluation())

	call := mock.LastCall()
	assert.Equal(t, "/questions/5/evaluate", call.Path)
}

func TestEvaluationScoreClamped(t *testing.T) {
	c, _ := newMockController(
		api.MockResponse{Body: questionBody(5, "简单")},
		api.MockResponse{Body: evaluationBody(5, 14)},
	)
	_, err := c.FetchRandom(context.Background(), api.Filter{})
	require.NoError(t, err)

	ev, err := c.SubmitAnswer(context.Background(), "answer")
	require.NoError(t, err)
	assert.Equal(t, 10.0, ev.Score)
}

func TestFetchFailureKeepsState(t *testing.T) {
	c, _ := newMockController(
		api.MockResponse{Body: questionBody(1, "简单")},
		api.MockResponse{Body: evaluationBody(1, 7)},
		api.MockResponse{Status: http.StatusNotFound, Body: map[string]any{"detail": "no matching question found"}},
	)
	_, err := c.FetchRandom(context.Background(), api.Filter{})
	require.NoError(t, err)
	_, err = c.SubmitAnswer(context.Background(), "answer")
	require.NoError(t, err)

	_, err = c.FetchRandom(context.Background(), api.Filter{Difficulty: api.DifficultyHard})
	require.Error(t, err)
	assert.True(t, api.IsKind(err, api.KindServerError))
	assert.Equal(t, "no matching question found", api.MessageOf(err))

	assert.Equal(t, StateEvaluated, c.State())
	assert.Equal(t, 1, c.Question().ID)
	require.NotNil(t, c.Evaluation())
	assert.Equal(t, api.DifficultyUnset, c.Filter().Difficulty)
}

func TestEvaluateFailureKeepsState(t *testing.T) {
	c, _ := newMockController(
		api.MockResponse{Body: questionBody(1, "简单")},
		api.MockResponse{Status: http.StatusInternalServerError},
	)
	_, err := c.FetchRandom(context.Background(), api.Filter{})
	require.NoError(t, err)

	_, err = c.SubmitAnswer(context.Background(), "answer")
	require.Error(t, err)
	assert.True(t, api.IsKind(err, api.KindServerError))
	assert.Equal(t, StateQuestionLoaded, c.State())
	assert.Nil(t, c.Evaluation())
	assert.False(t, c.Busy())
}

func TestFetchClearsEvaluation(t *testing.T) {
	c, _ := newMockController(
		api.MockResponse{Body: questionBody(1, "简单")},
		api.MockResponse{Body: evaluationBody(1, 7)},
		api.MockResponse{Body: questionBody(2, "简单")},
	)
	ctx := context.Background()
	_, err := c.FetchRandom(ctx, api.Filter{Tags: []string{"go"}})
	require.NoError(t, err)
	_, err = c.SubmitAnswer(ctx, "answer")
	require.NoError(t, err)

	q, err := c.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, q.ID)
	assert.Nil(t, c.Evaluation())
	assert.Equal(t, StateQuestionLoaded, c.State())
}

func TestInvalidSchemaIsUnhandled(t *testing.T) {
	c, _ := newMockController(api.MockResponse{Body: map[string]any{"id": "seven"}})
	_, err := c.FetchRandom(context.Background(), api.Filter{})
	assert.True(t, api.IsKind(err, api.KindUnhandled))
	assert.Equal(t, StateNoQuestion, c.State())
}

// blockingBackend parks calls until released.
type blockingBackend struct {
	entered chan struct{}
	release chan struct{}
	mu      sync.Mutex
	calls   int
}

func (b *blockingBackend) RandomQuestion(ctx context.Context, f api.Filter) (*api.Question, error) {
	b.mu.Lock()
	b.calls++
	n := b.calls
	b.mu.Unlock()
	b.entered <- struct{}{}
	<-b.release
	return &api.Question{ID: n, Prompt: "q", ReferenceAnswer: "a"}, nil
}

func (b *blockingBackend) Evaluate(ctx context.Context, id int, answer string) (*api.Evaluation, error) {
	return nil, errors.New("not used")
}

func TestBusyGuardRejectsConcurrentCalls(t *testing.T) {
	b := &blockingBackend{entered: make(chan struct{}), release: make(chan struct{})}
	c := NewController(b, nil)

	done := make(chan error, 1)
	go func() {
		_, err := c.FetchRandom(context.Background(), api.Filter{})
		done <- err
	}()
	<-b.entered

	assert.True(t, c.Busy())
	_, err := c.FetchRandom(context.Background(), api.Filter{})
	assert.True(t, api.IsKind(err, api.KindInvalidInput))

	close(b.release)
	require.NoError(t, <-done)
	assert.False(t, c.Busy())
	assert.Equal(t, 1, c.Question().ID)
}

func TestStaleResponseAfterReset(t *testing.T) {
	b := &blockingBackend{entered: make(chan struct{}), release: make(chan struct{}, 2)}
	c := NewController(b, nil)

	done := make(chan error, 1)
	go func() {
		_, err := c.FetchRandom(context.Background(), api.Filter{})
		done <- err
	}()
	<-b.entered

	c.Reset()
	assert.False(t, c.Busy())

	go func() { <-b.entered }()
	b.release <- struct{}{}
	b.release <- struct{}{}
	q, err := c.FetchRandom(context.Background(), api.Filter{})
	require.NoError(t, err)

	assert.ErrorIs(t, <-done, ErrStale)
	assert.Equal(t, q.ID, c.Question().ID)
	assert.Equal(t, StateQuestionLoaded, c.State())
}

func TestAccessorsReturnCopies(t *testing.T) {
	c, _ := newMockController(
		api.MockResponse{Body: questionBody(9, "简单")},
		api.MockResponse{Body: evaluationBody(9, 8)},
	)
	fetched, err := c.FetchRandom(context.Background(), api.Filter{})
	require.NoError(t, err)
	fetched.Tags[0] = "mutated"
	assert.Equal(t, []string{"go", "concurrency"}, c.Question().Tags)

	ev, err := c.SubmitAnswer(context.Background(), "a green thread")
	require.NoError(t, err)
	ev.Suggestions[0] = "mutated"
	assert.Equal(t, []string{"Mention the scheduler", "Mention stack growth"}, c.Evaluation().Suggestions)

	stored := c.Evaluation()
	stored.Suggestions[1] = "mutated"
	assert.Equal(t, "Mention stack growth", c.Evaluation().Suggestions[1])

	q := c.Question()
	q.Tags[0] = "mutated"
	q.Prompt = "mutated"

	again := c.Question()
	assert.Equal(t, "go", again.Tags[0])
	assert.NotEqual(t, "mutated", again.Prompt)
}
