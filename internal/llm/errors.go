package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Error kinds reported by ErrorKind.
const (
	KindRateLimit       = "rate_limit"
	KindUnavailable     = "unavailable"
	KindInvalidResponse = "invalid_response"
	KindTruncated       = "truncated"
	KindOther           = "other"
)

// ErrRateLimit indicates the provider returned a rate limit error (429).
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("LLM rate limited (retry after %s): %v", e.RetryAfter, e.Err)
	}
	return fmt.Sprintf("LLM rate limited: %v", e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrInvalidResponse indicates the model returned content that is not
// JSON or does not conform to the requested schema.
type ErrInvalidResponse struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid LLM response: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrProviderUnavailable indicates the provider is down or unreachable.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("LLM provider unavailable: %v", e.Err)
	}
	return "LLM provider unavailable"
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrMaxTokensExceeded indicates the response was cut off at MaxTokens.
type ErrMaxTokensExceeded struct {
	Content json.RawMessage
}

func (e *ErrMaxTokensExceeded) Error() string {
	return "LLM response truncated: max tokens exceeded"
}

// ErrorKind names the class of an LLM error for logs and HTTP mapping.
func ErrorKind(err error) string {
	var (
		rl      *ErrRateLimit
		unavail *ErrProviderUnavailable
		invalid *ErrInvalidResponse
		maxTok  *ErrMaxTokensExceeded
	)
	switch {
	case errors.As(err, &maxTok):
		return KindTruncated
	case errors.As(err, &invalid):
		return KindInvalidResponse
	case errors.As(err, &rl):
		return KindRateLimit
	case errors.As(err, &unavail):
		return KindUnavailable
	}
	return KindOther
}
