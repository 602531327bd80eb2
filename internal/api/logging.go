package api

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/RavenCaffeine/SeekJob-Helper/internal/store"
)

// LoggingTransport is a decorator that journals every call to the store.
type LoggingTransport struct {
	inner Transport
	repo  store.CallRepo
}

// WithLogging wraps a Transport with call journaling.
func WithLogging(t Transport, repo store.CallRepo) Transport {
	return &LoggingTransport{inner: t, repo: repo}
}

func (l *LoggingTransport) Do(ctx context.Context, call *Call) (*Result, error) {
	start := time.Now()

	res, err := l.inner.Do(ctx, call)

	rec := store.CallRecord{
		Op:        call.Op,
		Method:    call.Method,
		Path:      call.Path,
		RequestID: call.RequestID,
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
	}
	if res != nil {
		rec.Status = res.Status
		rec.ResponseBytes = len(res.Body)
	}
	if err != nil {
		rec.ErrorKind = KindOf(err).String()
		rec.ErrorMessage = err.Error()
		var apiErr *Error
		if errors.As(err, &apiErr) {
			rec.Status = apiErr.Status
		}
	}

	// Journal failures never fail the call. A cancelled caller context must
	// not prevent the record either.
	if logErr := l.repo.AppendCall(context.WithoutCancel(ctx), rec); logErr != nil {
		slog.Warn("failed to journal api call", "op", call.Op, "err", logErr)
	}

	return res, err
}
