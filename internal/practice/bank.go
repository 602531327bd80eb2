package practice

import (
	"context"
	"strings"

	"github.com/RavenCaffeine/SeekJob-Helper/internal/api"
)

// BankBackend is the part of api.Backend used to manage questions.
type BankBackend interface {
	ListQuestions(ctx context.Context, f api.Filter, p api.Page) ([]api.Question, error)
	GetQuestion(ctx context.Context, id int) (*api.Question, error)
	CreateQuestion(ctx context.Context, d api.QuestionDraft) (*api.Question, error)
	UpdateQuestion(ctx context.Context, id int, u api.QuestionUpdate) (*api.Question, error)
	DeleteQuestion(ctx context.Context, id int) error
}

// DefaultPageSize matches the service's default listing limit.
const DefaultPageSize = 10

// Bank manages the question bank.
type Bank struct {
	backend BankBackend
}

func NewBank(backend BankBackend) *Bank {
	return &Bank{backend: backend}
}

// List returns one page of questions matching f. A zero limit uses
// DefaultPageSize.
func (b *Bank) List(ctx context.Context, f api.Filter, p api.Page) ([]api.Question, error) {
	if p.Skip < 0 {
		return nil, api.InvalidInput("questions.list", "skip must not be negative")
	}
	if p.Limit < 0 {
		return nil, api.InvalidInput("questions.list", "limit must not be negative")
	}
	if p.Limit == 0 {
		p.Limit = DefaultPageSize
	}
	f.Tags = api.NormalizeTags(f.Tags...)
	return b.backend.ListQuestions(ctx, f, p)
}

func (b *Bank) Get(ctx context.Context, id int) (*api.Question, error) {
	if id <= 0 {
		return nil, api.InvalidInput("questions.get", "question id must be positive")
	}
	return b.backend.GetQuestion(ctx, id)
}

// Create adds a question. Prompt and reference answer are required.
func (b *Bank) Create(ctx context.Context, d api.QuestionDraft) (*api.Question, error) {
	d.Prompt = strings.TrimSpace(d.Prompt)
	d.ReferenceAnswer = strings.TrimSpace(d.ReferenceAnswer)
	if d.Prompt == "" || d.ReferenceAnswer == "" {
		return nil, api.InvalidInput("questions.create", "question and answer are required")
	}
	d.Tags = api.NormalizeTags(d.Tags...)
	return b.backend.CreateQuestion(ctx, d)
}

func (b *Bank) Update(ctx context.Context, id int, u api.QuestionUpdate) (*api.Question, error) {
	const op = "questions.update"
	if id <= 0 {
		return nil, api.InvalidInput(op, "question id must be positive")
	}
	if u.Prompt != nil && strings.TrimSpace(*u.Prompt) == "" {
		return nil, api.InvalidInput(op, "question must not be blank")
	}
	if u.ReferenceAnswer != nil && strings.TrimSpace(*u.ReferenceAnswer) == "" {
		return nil, api.InvalidInput(op, "answer must not be blank")
	}
	return b.backend.UpdateQuestion(ctx, id, u)
}

func (b *Bank) Delete(ctx context.Context, id int) error {
	if id <= 0 {
		return api.InvalidInput("questions.delete", "question id must be positive")
	}
	return b.backend.DeleteQuestion(ctx, id)
}
