package home

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/RavenCaffeine/SeekJob-Helper/internal/api"
	"github.com/RavenCaffeine/SeekJob-Helper/internal/router"
	"github.com/RavenCaffeine/SeekJob-Helper/internal/screens/interview"
	"github.com/RavenCaffeine/SeekJob-Helper/internal/screens/screentest"
)

func newHome(responses ...api.MockResponse) *HomeScreen {
	return New(Deps{
		Backend: api.NewClient(api.NewMockTransport(responses...)),
		BaseURL: "http://localhost:8000/api",
	})
}

func TestHealthOnline(t *testing.T) {
	h := newHome(api.MockResponse{Body: map[string]any{"message": "ok", "version": "1.0.0", "docs": "/docs"}})
	screentest.Run(h, h.Init(), 1)

	if !h.healthy || h.healthTx != "online · v1.0.0" {
		t.Fatalf("healthy=%v text=%q", h.healthy, h.healthTx)
	}
	view := h.View(120, 40)
	if !strings.Contains(view, "http://localhost:8000/api") {
		t.Errorf("view missing base URL")
	}
}

func TestHealthOffline(t *testing.T) {
	h := newHome()
	screentest.Run(h, h.Init(), 1)

	if h.healthy {
		t.Fatal("empty mock queue should report offline")
	}
	if !strings.HasPrefix(h.healthTx, "offline: ") {
		t.Errorf("healthTx = %q", h.healthTx)
	}
}

func TestEnterPushesInterview(t *testing.T) {
	h := newHome()
	_, cmd := h.Update(screentest.Key("enter"))
	msgs := screentest.Drain(cmd, time.Second)

	push, ok := screentest.Find[router.PushScreenMsg](msgs)
	if !ok {
		t.Fatalf("expected PushScreenMsg, got %#v", msgs)
	}
	if _, ok := push.Screen.(*interview.InterviewScreen); !ok {
		t.Errorf("pushed %T, want *interview.InterviewScreen", push.Screen)
	}
}

func TestJournalDisabledWithoutRepo(t *testing.T) {
	h := newHome()
	if !h.disabled[4] {
		t.Fatal("call journal should be disabled without a call repo")
	}

	// Navigation skips the disabled item.
	for range 4 {
		h.Update(screentest.Key("down"))
	}
	if got := h.labels[h.menu.Selected]; got != "QUIT" {
		t.Fatalf("selected %q, want QUIT", got)
	}
	_, cmd := h.Update(screentest.Key("enter"))
	if _, ok := screentest.Find[tea.QuitMsg](screentest.Drain(cmd, time.Second)); !ok {
		t.Error("QUIT should quit")
	}
}

func TestCompactTitleOnNarrowTerminal(t *testing.T) {
	if got := renderTitle(contentWidth(40), false); !strings.Contains(got, bannerCompact) {
		t.Errorf("narrow title should fall back to %q", bannerCompact)
	}
}
