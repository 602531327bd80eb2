package interview

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/RavenCaffeine/SeekJob-Helper/internal/api"
)

const opChat = "interview.chat"

// ErrStale is returned by Turn.Await when the session was restarted while
// the turn was in flight. The response is discarded.
var ErrStale = errors.New("interview: reply belongs to a previous session")

// ErrTurnAwaited is returned when Await is called twice on one Turn.
var ErrTurnAwaited = errors.New("interview: turn already awaited")

// ChatBackend is the part of api.Backend the interview needs.
type ChatBackend interface {
	Chat(ctx context.Context, req api.ChatRequest) (*api.ChatResponse, error)
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock sets the time source used to stamp exchanges.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithGreeting replaces the greeting template.
func WithGreeting(fn func(topic string) string) Option {
	return func(c *Controller) { c.greeting = fn }
}

// WithDefaultTopic sets the topic used for blank StartSession calls.
func WithDefaultTopic(topic string) Option {
	return func(c *Controller) {
		if t := strings.TrimSpace(topic); t != "" {
			c.defaultTopic = t
		}
	}
}

// WithIDSource sets the generator for session ids.
func WithIDSource(fn func() string) Option {
	return func(c *Controller) { c.newID = fn }
}

// WithLogger sets the logger for turn outcomes.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// Controller owns the interview transcript. It is safe for concurrent use;
// at most one turn is in flight at a time.
type Controller struct {
	backend      ChatBackend
	now          func() time.Time
	greeting     func(string) string
	defaultTopic string
	newID        func() string
	logger       *slog.Logger

	mu         sync.Mutex
	state      State
	session    Session
	generation uint64
}

// New creates a Controller in StateIdle.
func New(backend ChatBackend, opts ...Option) *Controller {
	c := &Controller{
		backend:      backend,
		now:          time.Now,
		greeting:     Greeting,
		defaultTopic: DefaultTopic,
		newID:        uuid.NewString,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// StartSession discards any current session and opens a new one with the
// interviewer's greeting. A turn still in flight becomes stale.
func (c *Controller) StartSession(topic string) Session {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		topic = c.defaultTopic
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	c.session = Session{
		ID:    c.newID(),
		Topic: topic,
		Exchanges: []Exchange{{
			AIText:     c.greeting(topic),
			CreatedAt:  c.now(),
			IsGreeting: true,
		}},
	}
	c.state = StateActive
	return c.session.Clone()
}

// Reset returns the controller to StateIdle.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.session = Session{}
	c.state = StateIdle
}

// Turn is one submitted message awaiting its reply.
type Turn struct {
	c          *Controller
	message    string
	topic      string
	prior      []Exchange
	generation uint64
	awaited    atomic.Bool
}

// Message returns the trimmed user text.
func (t *Turn) Message() string { return t.message }

// Begin validates userText and optimistically appends it to the transcript.
// On rejection the controller is left untouched.
func (c *Controller) Begin(userText string) (*Turn, error) {
	text := strings.TrimSpace(userText)
	if text == "" {
		return nil, api.InvalidInput(opChat, "please enter a message")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case StateIdle:
		return nil, api.InvalidInput(opChat, "start an interview first")
	case StateWaitingForReply:
		return nil, api.InvalidInput(opChat, "please wait for the interviewer's reply")
	case StateComplete:
		return nil, api.InvalidInput(opChat, "the interview is complete")
	}

	turn := &Turn{
		c:          c,
		message:    text,
		topic:      c.session.Topic,
		prior:      cloneExchanges(c.session.Exchanges),
		generation: c.generation,
	}
	c.session.Exchanges = append(c.session.Exchanges, Exchange{
		UserText:  text,
		CreatedAt: c.now(),
	})
	c.state = StateWaitingForReply
	return turn, nil
}

// Await sends the turn and reconciles the transcript with the reply. On
// success the transcript becomes the server's; on failure it is restored
// to its value before Begin.
func (t *Turn) Await(ctx context.Context) error {
	if !t.awaited.CompareAndSwap(false, true) {
		return ErrTurnAwaited
	}

	resp, err := t.c.backend.Chat(ctx, api.ChatRequest{
		Message: t.message,
		Topic:   t.topic,
		History: toHistory(t.prior),
	})
	if err == nil && resp == nil {
		err = errors.New("empty reply")
	}
	return t.c.finish(t, resp, err)
}

func (c *Controller) finish(t *Turn, resp *api.ChatResponse, err error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if t.generation != c.generation {
		c.logger.Debug("discarding stale interview reply", "session", c.session.ID)
		return ErrStale
	}

	if err != nil {
		c.session.Exchanges = t.prior
		c.state = StateActive
		err = api.Classify(opChat, err)
		c.logger.Warn("interview turn failed", "session", c.session.ID, "kind", api.KindOf(err), "error", err)
		return err
	}

	var greeting *Exchange
	if len(t.prior) > 0 && t.prior[0].IsGreeting {
		greeting = &t.prior[0]
	}
	c.session.Exchanges = fromHistory(resp.History, greeting)
	c.session.IsTerminal = resp.IsComplete
	if resp.IsComplete {
		c.state = StateComplete
	} else {
		c.state = StateActive
	}
	c.logger.Debug("interview turn complete", "session", c.session.ID,
		"exchanges", len(c.session.Exchanges), "complete", resp.IsComplete)
	return nil
}

// Submit is Begin followed by Await.
func (c *Controller) Submit(ctx context.Context, userText string) error {
	turn, err := c.Begin(userText)
	if err != nil {
		return err
	}
	return turn.Await(ctx)
}

// IsAcceptingInput reports whether Begin would accept a message.
func (c *Controller) IsAcceptingInput() bool {
	return c.State() == StateActive
}

// State returns the session state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Session returns a copy of the current session.
func (c *Controller) Session() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.Clone()
}

// Transcript returns a copy of the current exchanges.
func (c *Controller) Transcript() []Exchange {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneExchanges(c.session.Exchanges)
}
