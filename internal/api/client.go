package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/RavenCaffeine/SeekJob-Helper/internal/store"
)

// MinResumeLength is the shortest resume text the service accepts.
const MinResumeLength = 10

// Backend is the collaborator the controllers talk to.
type Backend interface {
	Health(ctx context.Context) (*Health, error)
	OptimizeResume(ctx context.Context, req OptimizeRequest) (*OptimizeResult, error)
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
	ListQuestions(ctx context.Context, f Filter, p Page) ([]Question, error)
	RandomQuestion(ctx context.Context, f Filter) (*Question, error)
	GetQuestion(ctx context.Context, id int) (*Question, error)
	CreateQuestion(ctx context.Context, d QuestionDraft) (*Question, error)
	UpdateQuestion(ctx context.Context, id int, u QuestionUpdate) (*Question, error)
	DeleteQuestion(ctx context.Context, id int) error
	Evaluate(ctx context.Context, questionID int, answer string) (*Evaluation, error)
}

// Client implements Backend on top of a Transport.
type Client struct {
	transport Transport
}

var _ Backend = (*Client)(nil)

// NewClient creates a Client using t for all calls.
func NewClient(t Transport) *Client {
	return &Client{transport: t}
}

// New builds an HTTP-backed Client from configuration, wrapped with
// retry and journaling middleware. repo may be nil to skip journaling.
func New(cfg Config, repo store.CallRepo) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	base, err := NewHTTPTransport(cfg.BaseURL, cfg.Timeout)
	if err != nil {
		return nil, err
	}

	// caller → retry → logging → http
	var t Transport = base
	if repo != nil {
		t = WithLogging(t, repo)
	}
	t = WithRetry(t, cfg.Retry)

	return NewClient(t), nil
}

func (c *Client) Health(ctx context.Context) (*Health, error) {
	var out Health
	err := c.do(ctx, &Call{Op: "health", Method: http.MethodGet, Path: "/", Root: true, Idempotent: true}, "health", &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) OptimizeResume(ctx context.Context, req OptimizeRequest) (*OptimizeResult, error) {
	const op = "resume.optimize"
	req.ResumeText = strings.TrimSpace(req.ResumeText)
	req.Position = strings.TrimSpace(req.Position)
	if len([]rune(req.ResumeText)) < MinResumeLength {
		return nil, InvalidInput(op, fmt.Sprintf("resume text must be at least %d characters", MinResumeLength))
	}

	var out OptimizeResult
	if err := c.do(ctx, &Call{Op: op, Method: http.MethodPost, Path: "/resume/optimize", Body: req, Idempotent: true}, "resume", &out); err != nil {
		return nil, err
	}
	out.Score = ClampScore(out.Score)
	return &out, nil
}

func (c *Client) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	const op = "interview.chat"
	if strings.TrimSpace(req.Message) == "" {
		return nil, InvalidInput(op, "please enter a message")
	}
	if req.History == nil {
		req.History = []HistoryItem{}
	}

	var out ChatResponse
	// The service keeps no interview state, so a turn can be replayed.
	if err := c.do(ctx, &Call{Op: op, Method: http.MethodPost, Path: "/interview/chat", Body: req, Idempotent: true}, "chat", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListQuestions(ctx context.Context, f Filter, p Page) ([]Question, error) {
	q := filterQuery(f)
	if p.Skip > 0 {
		q.Set("skip", strconv.Itoa(p.Skip))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}

	var out []Question
	if err := c.do(ctx, &Call{Op: "questions.list", Method: http.MethodGet, Path: "/questions/", Query: q, Idempotent: true}, "question-list", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) RandomQuestion(ctx context.Context, f Filter) (*Question, error) {
	var out Question
	if err := c.do(ctx, &Call{Op: "questions.random", Method: http.MethodGet, Path: "/questions/random/", Query: filterQuery(f), Idempotent: true}, "question", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetQuestion(ctx context.Context, id int) (*Question, error) {
	var out Question
	if err := c.do(ctx, &Call{Op: "questions.get", Method: http.MethodGet, Path: questionPath(id), Idempotent: true}, "question", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateQuestion(ctx context.Context, d QuestionDraft) (*Question, error) {
	const op = "questions.create"
	if strings.TrimSpace(d.Prompt) == "" || strings.TrimSpace(d.ReferenceAnswer) == "" {
		return nil, InvalidInput(op, "question and answer are required")
	}
	d.Prompt = strings.TrimSpace(d.Prompt)
	d.ReferenceAnswer = strings.TrimSpace(d.ReferenceAnswer)

	var out Question
	if err := c.do(ctx, &Call{Op: op, Method: http.MethodPost, Path: "/questions/", Body: d}, "question", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateQuestion(ctx context.Context, id int, u QuestionUpdate) (*Question, error) {
	var out Question
	if err := c.do(ctx, &Call{Op: "questions.update", Method: http.MethodPut, Path: questionPath(id), Body: u, Idempotent: true}, "question", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteQuestion(ctx context.Context, id int) error {
	return c.do(ctx, &Call{Op: "questions.delete", Method: http.MethodDelete, Path: questionPath(id), Idempotent: true}, "", nil)
}

func (c *Client) Evaluate(ctx context.Context, questionID int, answer string) (*Evaluation, error) {
	const op = "questions.evaluate"
	if strings.TrimSpace(answer) == "" {
		return nil, InvalidInput(op, "please enter an answer")
	}

	body := struct {
		QuestionID int    `json:"question_id"`
		UserAnswer string `json:"user_answer"`
	}{questionID, answer}

	var out Evaluation
	path := questionPath(questionID) + "/evaluate"
	if err := c.do(ctx, &Call{Op: op, Method: http.MethodPost, Path: path, Body: body, Idempotent: true}, "evaluation", &out); err != nil {
		return nil, err
	}
	out.Score = ClampScore(out.Score)
	return &out, nil
}

// do runs call, validates the body against schema and decodes it into out.
// An empty schema or nil out skips the respective step.
func (c *Client) do(ctx context.Context, call *Call, schema string, out any) error {
	if call.RequestID == "" {
		call.RequestID = uuid.NewString()
	}

	res, err := c.transport.Do(ctx, call)
	if err != nil {
		return Classify(call.Op, err)
	}

	if out == nil {
		return nil
	}
	if schema != "" {
		if err := validateBody(schema, res.Body); err != nil {
			return unhandledError(call.Op, err)
		}
	}
	if err := json.Unmarshal(res.Body, out); err != nil {
		return unhandledError(call.Op, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

func filterQuery(f Filter) url.Values {
	q := url.Values{}
	if tags := NormalizeTags(f.Tags...); len(tags) > 0 {
		q.Set("tags", strings.Join(tags, ","))
	}
	if d := f.Difficulty.WireValue(); d != "" {
		q.Set("difficulty", d)
	}
	return q
}

func questionPath(id int) string {
	return "/questions/" + strconv.Itoa(id)
}
