package api

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RavenCaffeine/SeekJob-Helper/internal/store"
)

type fakeCallRepo struct {
	mu      sync.Mutex
	records []store.CallRecord
	err     error
}

func (f *fakeCallRepo) AppendCall(_ context.Context, rec store.CallRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.records = append(f.records, rec)
	return nil
}

func (f *fakeCallRepo) RecentCalls(context.Context, store.QueryOpts) ([]store.CallRecord, error) {
	return nil, nil
}

func (f *fakeCallRepo) CallStats(context.Context) ([]store.CallStat, error) {
	return nil, nil
}

func TestLoggingRecordsSuccess(t *testing.T) {
	repo := &fakeCallRepo{}
	mock := NewMockTransport(MockResponse{Body: map[string]any{"message": "ok", "version": "1.0.0"}})
	c := NewClient(WithLogging(mock, repo))

	_, err := c.Health(context.Background())
	require.NoError(t, err)

	require.Len(t, repo.records, 1)
	rec := repo.records[0]
	assert.Equal(t, "health", rec.Op)
	assert.Equal(t, http.MethodGet, rec.Method)
	assert.Equal(t, http.StatusOK, rec.Status)
	assert.True(t, rec.Success)
	assert.NotEmpty(t, rec.RequestID)
	assert.Positive(t, rec.ResponseBytes)
}

func TestLoggingRecordsFailure(t *testing.T) {
	repo := &fakeCallRepo{}
	mock := NewMockTransport(MockResponse{Status: http.StatusNotFound, Body: map[string]string{"detail": "question does not exist"}})
	c := NewClient(WithLogging(mock, repo))

	_, err := c.GetQuestion(context.Background(), 99)
	require.Error(t, err)

	require.Len(t, repo.records, 1)
	rec := repo.records[0]
	assert.False(t, rec.Success)
	assert.Equal(t, http.StatusNotFound, rec.Status)
	assert.Equal(t, "server error", rec.ErrorKind)
	assert.Contains(t, rec.ErrorMessage, "question does not exist")
}

func TestLoggingJournalFailureDoesNotFailCall(t *testing.T) {
	repo := &fakeCallRepo{err: errors.New("disk full")}
	mock := NewMockTransport(MockResponse{Body: map[string]any{"message": "ok", "version": "1.0.0"}})
	c := NewClient(WithLogging(mock, repo))

	_, err := c.Health(context.Background())
	assert.NoError(t, err)
}

func TestLoggingSeesEachRetryAttempt(t *testing.T) {
	repo := &fakeCallRepo{}
	mock := NewMockTransport(
		MockResponse{Status: http.StatusBadGateway},
		MockResponse{Body: map[string]any{"message": "ok", "version": "1.0.0"}},
	)
	retry := WithRetry(WithLogging(mock, repo), retryConfig())
	c := NewClient(retry)

	_, err := c.Health(context.Background())
	require.NoError(t, err)

	require.Len(t, repo.records, 2)
	assert.False(t, repo.records[0].Success)
	assert.True(t, repo.records[1].Success)
	assert.Equal(t, repo.records[0].RequestID, repo.records[1].RequestID)
}
