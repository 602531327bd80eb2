// Package practice implements the question-bank practice loop (fetch a
// random question, answer it, read the evaluation) and question bank
// management.
package practice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/RavenCaffeine/SeekJob-Helper/internal/api"
)

const (
	opRandom   = "questions.random"
	opEvaluate = "questions.evaluate"
)

// ErrStale is returned when a response arrives after the controller moved
// on (Reset, or a newer question was loaded). The response is discarded.
var ErrStale = errors.New("practice: response is no longer current")

// State is the practice loop position.
type State int

const (
	StateNoQuestion State = iota
	StateQuestionLoaded
	StateEvaluated
)

func (s State) String() string {
	switch s {
	case StateNoQuestion:
		return "no question"
	case StateQuestionLoaded:
		return "question loaded"
	case StateEvaluated:
		return "evaluated"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Backend is the part of api.Backend the practice loop needs.
type Backend interface {
	RandomQuestion(ctx context.Context, f api.Filter) (*api.Question, error)
	Evaluate(ctx context.Context, questionID int, answer string) (*api.Evaluation, error)
}

// Controller runs the fetch → answer → evaluate loop. It is safe for
// concurrent use; one request runs at a time.
type Controller struct {
	backend Backend
	logger  *slog.Logger

	mu         sync.Mutex
	state      State
	question   *api.Question
	evaluation *api.Evaluation
	filter     api.Filter
	busy       bool
	generation uint64
}

// NewController creates a Controller with no question loaded.
func NewController(backend Backend, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{backend: backend, logger: logger}
}

// begin marks the controller busy and returns the generation to check the
// response against.
func (c *Controller) begin(op string) (uint64, error) {
	if c.busy {
		return 0, api.InvalidInput(op, "a request is already in progress")
	}
	c.busy = true
	return c.generation, nil
}

// end releases the busy marker and reports whether gen is still current.
func (c *Controller) end(gen uint64) bool {
	if gen != c.generation {
		return false
	}
	c.busy = false
	return true
}

// FetchRandom loads a random question matching f. On failure the current
// question and evaluation are kept.
func (c *Controller) FetchRandom(ctx context.Context, f api.Filter) (*api.Question, error) {
	f.Tags = api.NormalizeTags(f.Tags...)

	c.mu.Lock()
	gen, err := c.begin(opRandom)
	c.mu.Unlock()
	if err != nil {
		return nil, err
	}

	q, err := c.backend.RandomQuestion(ctx, f)
	if err == nil && q == nil {
		err = errors.New("empty response")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.end(gen) {
		return nil, ErrStale
	}
	if err != nil {
		err = api.Classify(opRandom, err)
		c.logger.Warn("fetch question failed", "kind", api.KindOf(err), "error", err)
		return nil, err
	}

	c.generation++
	c.filter = f
	c.question = q
	c.evaluation = nil
	c.state = StateQuestionLoaded
	return cloneQuestion(q), nil
}

// Next loads another question with the last successful filter.
func (c *Controller) Next(ctx context.Context) (*api.Question, error) {
	return c.FetchRandom(ctx, c.Filter())
}

// SubmitAnswer sends answer for evaluation. Without a loaded question or
// with a blank answer it fails with InvalidInput and sends nothing.
func (c *Controller) SubmitAnswer(ctx context.Context, answer string) (*api.Evaluation, error) {
	answer = strings.TrimSpace(answer)

	c.mu.Lock()
	if c.question == nil {
		c.mu.Unlock()
		return nil, api.InvalidInput(opEvaluate, "load a question first")
	}
	if answer == "" {
		c.mu.Unlock()
		return nil, api.InvalidInput(opEvaluate, "please enter an answer")
	}
	gen, err := c.begin(opEvaluate)
	id := c.question.ID
	c.mu.Unlock()
	if err != nil {
		return nil, err
	}

	ev, err := c.backend.Evaluate(ctx, id, answer)
	if err == nil && ev == nil {
		err = errors.New("empty response")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.end(gen) {
		return nil, ErrStale
	}
	if err != nil {
		err = api.Classify(opEvaluate, err)
		c.logger.Warn("evaluate answer failed", "question", id, "kind", api.KindOf(err), "error", err)
		return nil, err
	}

	ev.Score = api.ClampScore(ev.Score)
	c.evaluation = ev
	c.state = StateEvaluated
	return cloneEvaluation(ev), nil
}

// Reset drops the question and evaluation. Requests in flight become stale.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.busy = false
	c.question = nil
	c.evaluation = nil
	c.state = StateNoQuestion
}

// State returns the current practice state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Busy reports whether a request is outstanding.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// Question returns a copy of the loaded question, or nil.
func (c *Controller) Question() *api.Question {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.question == nil {
		return nil
	}
	return cloneQuestion(c.question)
}

// Evaluation returns a copy of the latest evaluation, or nil.
func (c *Controller) Evaluation() *api.Evaluation {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.evaluation == nil {
		return nil
	}
	return cloneEvaluation(c.evaluation)
}

func cloneQuestion(q *api.Question) *api.Question {
	out := *q
	out.Tags = append([]string(nil), q.Tags...)
	return &out
}

func cloneEvaluation(ev *api.Evaluation) *api.Evaluation {
	out := *ev
	out.Suggestions = append([]string(nil), ev.Suggestions...)
	return &out
}

// Filter returns the filter of the last successful fetch.
func (c *Controller) Filter() api.Filter {
	c.mu.Lock()
	defer c.mu.Unlock()
	f := c.filter
	f.Tags = append([]string(nil), f.Tags...)
	return f
}
