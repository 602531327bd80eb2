package api

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"net/http"
	"time"
)

// RetryTransport is a decorator that retries transient failures with
// exponential backoff and jitter.
type RetryTransport struct {
	inner  Transport
	config RetryConfig
	sleep  func(ctx context.Context, d time.Duration) error
}

// WithRetry wraps a Transport with retry logic.
func WithRetry(t Transport, cfg RetryConfig) Transport {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &RetryTransport{inner: t, config: cfg, sleep: sleepCtx}
}

func (r *RetryTransport) Do(ctx context.Context, call *Call) (*Result, error) {
	var lastErr error

	for attempt := range r.config.MaxAttempts {
		res, err := r.inner.Do(ctx, call)
		if err == nil {
			return res, nil
		}
		lastErr = err

		if !call.Idempotent || !shouldRetry(ctx, err) {
			return nil, err
		}

		// Last attempt: no point sleeping.
		if attempt == r.config.MaxAttempts-1 {
			break
		}

		if err := r.sleep(ctx, r.backoff(attempt)); err != nil {
			return nil, networkError(call.Op, err)
		}
	}

	return nil, lastErr
}

// shouldRetry determines if an error is retryable.
func shouldRetry(ctx context.Context, err error) bool {
	// Cancellation by the caller is final.
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		return false
	}

	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.Kind {
	case KindNetworkFailure:
		return true
	case KindServerError:
		return apiErr.Status >= 500 || apiErr.Status == http.StatusTooManyRequests
	default:
		return false
	}
}

// backoff computes the wait duration for the given attempt.
func (r *RetryTransport) backoff(attempt int) time.Duration {
	mult := r.config.Multiplier
	if mult <= 0 {
		mult = 2
	}
	wait := float64(r.config.InitialWait) * math.Pow(mult, float64(attempt))
	if r.config.MaxWait > 0 && wait > float64(r.config.MaxWait) {
		wait = float64(r.config.MaxWait)
	}

	// ±20% jitter.
	wait += wait * 0.2 * (2*rand.Float64() - 1)

	if wait < 0 {
		wait = 0
	}
	return time.Duration(wait)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
