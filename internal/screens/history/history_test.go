package history

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/RavenCaffeine/SeekJob-Helper/internal/screens/screentest"
	"github.com/RavenCaffeine/SeekJob-Helper/internal/store"
)

type fakeCalls struct {
	calls    []store.CallRecord
	stats    []store.CallStat
	err      error
	statsErr error
	lastOpts store.QueryOpts
}

func (f *fakeCalls) AppendCall(_ context.Context, rec store.CallRecord) error {
	f.calls = append(f.calls, rec)
	return nil
}

func (f *fakeCalls) RecentCalls(_ context.Context, opts store.QueryOpts) ([]store.CallRecord, error) {
	f.lastOpts = opts
	return f.calls, f.err
}

func (f *fakeCalls) CallStats(_ context.Context) ([]store.CallStat, error) {
	return f.stats, f.statsErr
}

func load(t *testing.T, repo *fakeCalls) *HistoryScreen {
	t.Helper()
	s := New(repo)
	msgs := screentest.Drain(s.Init(), time.Second)
	if len(msgs) != 1 {
		t.Fatalf("Init produced %d messages, want 1", len(msgs))
	}
	s.Update(msgs[0])
	return s
}

func sampleCalls() []store.CallRecord {
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return []store.CallRecord{
		{Op: "questions.random", Method: "GET", Path: "/questions/random/", Status: 200, LatencyMs: 12, Success: true, Timestamp: ts},
		{Op: "interview.chat", Method: "POST", Path: "/interview/chat", Status: 503, LatencyMs: 900, ErrorKind: "server_error", ErrorMessage: "upstream unavailable", Timestamp: ts},
	}
}

func TestViewListsCalls(t *testing.T) {
	repo := &fakeCalls{
		calls: sampleCalls(),
		stats: []store.CallStat{
			{Op: "interview.chat", Calls: 1, Failures: 1},
			{Op: "questions.random", Calls: 1},
		},
	}
	s := load(t, repo)

	if repo.lastOpts.Limit != recentLimit {
		t.Errorf("limit = %d, want %d", repo.lastOpts.Limit, recentLimit)
	}
	view := s.View(120, 30)
	for _, want := range []string{"2 calls, 1 failed", "questions.random", "FAIL 503"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestExpandShowsFailureDetail(t *testing.T) {
	s := load(t, &fakeCalls{calls: sampleCalls()})

	s.Update(screentest.Key("down"))
	s.Update(screentest.Key("enter"))
	if !s.expanded[1] {
		t.Fatal("enter should expand the selected call")
	}
	if view := s.View(120, 30); !strings.Contains(view, "server_error: upstream unavailable") {
		t.Errorf("expanded view missing error detail:\n%s", view)
	}
}

func TestEmptyJournal(t *testing.T) {
	s := load(t, &fakeCalls{})
	if view := s.View(100, 30); !strings.Contains(view, "No API calls recorded yet") {
		t.Errorf("unexpected view:\n%s", view)
	}
}

func TestLoadError(t *testing.T) {
	s := load(t, &fakeCalls{err: errors.New("database is locked")})
	if view := s.View(100, 30); !strings.Contains(view, "database is locked") {
		t.Errorf("error not shown:\n%s", view)
	}
}

func TestStatsFailureStillShowsCalls(t *testing.T) {
	s := load(t, &fakeCalls{calls: sampleCalls(), statsErr: errors.New("boom")})
	if len(s.calls) != 2 {
		t.Fatalf("calls = %d, want 2", len(s.calls))
	}
	if s.errMsg != "" {
		t.Errorf("errMsg = %q, want none", s.errMsg)
	}
}
