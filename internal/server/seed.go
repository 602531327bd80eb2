package server

import (
	"context"
	"fmt"

	"github.com/RavenCaffeine/SeekJob-Helper/internal/store"
)

var sampleQuestions = []store.QuestionRow{
	{
		Question:   "What is the difference between a process and a thread?",
		Answer:     "A process owns its own address space and resources. Threads run inside a process and share its memory, so they are cheaper to create and switch but need synchronization.",
		Tags:       "os,concurrency",
		Difficulty: "简单",
	},
	{
		Question:   "Explain how a hash map handles collisions.",
		Answer:     "Either separate chaining, where each bucket holds a list of entries, or open addressing, where colliding keys probe for another free slot. The table is resized when the load factor grows too high.",
		Tags:       "data-structures",
		Difficulty: "简单",
	},
	{
		Question:   "What does the `context` package in Go provide?",
		Answer:     "Cancellation, deadlines and request-scoped values that propagate across API boundaries and goroutines. Blocking functions take a `ctx context.Context` as the first argument and return when `ctx.Done()` is closed.",
		Tags:       "go,concurrency",
		Difficulty: "中等",
	},
	{
		Question:   "How would you find the time complexity of binary search?",
		Answer:     "Each step halves the search range, so after $k$ steps $n/2^k$ elements remain. The search ends when $n/2^k = 1$, giving $k = \\log_2 n$ and $O(\\log n)$.",
		Tags:       "algorithms",
		Difficulty: "中等",
	},
	{
		Question:   "Design a rate limiter for a public API.",
		Answer:     "Use a token bucket per client key stored in a shared cache such as Redis. Refill tokens at the allowed rate, reject requests with 429 when the bucket is empty, and return Retry-After. Shard keys to scale horizontally.",
		Tags:       "system-design",
		Difficulty: "困难",
	},
	{
		Question:   "What isolation levels does SQL define and what anomalies do they allow?",
		Answer:     "Read uncommitted allows dirty reads. Read committed prevents them but allows non-repeatable reads. Repeatable read prevents those but may allow phantoms. Serializable prevents all three.",
		Tags:       "database",
		Difficulty: "困难",
	},
}

// Seed inserts the sample questions into an empty bank. It reports how
// many rows were added.
func Seed(ctx context.Context, repo store.QuestionRepo) (int, error) {
	n, err := repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count questions: %w", err)
	}
	if n > 0 {
		return 0, nil
	}
	for i, q := range sampleQuestions {
		if _, err := repo.Create(ctx, q); err != nil {
			return i, fmt.Errorf("seed question %d: %w", i+1, err)
		}
	}
	return len(sampleQuestions), nil
}
