package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a row does not exist.
var ErrNotFound = errors.New("not found")

// QueryOpts configures journal queries with filtering and pagination.
type QueryOpts struct {
	Limit int    // max results (0 = unlimited)
	Op    string // api_calls: exact op match
	Since time.Time
}

// CallRecord captures one API call made by the client.
type CallRecord struct {
	ID            int
	Sequence      int64
	Timestamp     time.Time
	Op            string
	Method        string
	Path          string
	RequestID     string
	Status        int
	LatencyMs     int64
	ResponseBytes int
	Success       bool
	ErrorKind     string
	ErrorMessage  string
}

// CallStat aggregates calls per operation.
type CallStat struct {
	Op           string
	Calls        int
	Failures     int
	AvgLatencyMs int64
	MaxLatencyMs int64
}

// CallRepo is the API call journal.
type CallRepo interface {
	// AppendCall records a call. ID, Sequence and Timestamp are assigned.
	AppendCall(ctx context.Context, rec CallRecord) error

	// RecentCalls returns calls newest first.
	RecentCalls(ctx context.Context, opts QueryOpts) ([]CallRecord, error)

	// CallStats aggregates calls by operation.
	CallStats(ctx context.Context) ([]CallStat, error)
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEvent is a stored LLM request event.
type LLMEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsage aggregates token usage for a purpose or model.
type LLMUsage struct {
	Key          string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// EventRepo records LLM requests made by the local server.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error)

	// LLMUsageByPurpose aggregates usage per purpose label.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error)
}

// QuestionRow is a stored practice question. Tags is the raw
// comma-separated column value.
type QuestionRow struct {
	ID         int
	Question   string
	Answer     string
	Tags       string
	Difficulty string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// QuestionPatch lists the columns to change; nil fields are untouched.
type QuestionPatch struct {
	Question   *string
	Answer     *string
	Tags       *string
	Difficulty *string
}

// QuestionQuery filters the question bank. Every tag must appear
// (case-insensitively) in the tags column; Difficulty is an exact match.
type QuestionQuery struct {
	Tags       []string
	Difficulty string
	Skip       int
	Limit      int
}

// QuestionRepo is the practice question bank.
type QuestionRepo interface {
	List(ctx context.Context, q QuestionQuery) ([]QuestionRow, error)
	// Random returns a uniformly chosen matching question or ErrNotFound.
	Random(ctx context.Context, q QuestionQuery) (*QuestionRow, error)
	Get(ctx context.Context, id int) (*QuestionRow, error)
	Create(ctx context.Context, row QuestionRow) (*QuestionRow, error)
	Update(ctx context.Context, id int, p QuestionPatch) (*QuestionRow, error)
	Delete(ctx context.Context, id int) error
	Count(ctx context.Context) (int, error)
}
