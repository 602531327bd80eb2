package resume

import (
	"strings"
	"testing"

	"github.com/RavenCaffeine/SeekJob-Helper/internal/api"
	"github.com/RavenCaffeine/SeekJob-Helper/internal/screens/screentest"
)

func optimized(score float64) api.MockResponse {
	return api.MockResponse{Body: map[string]any{
		"original_resume":  "Go developer, 5 years",
		"optimized_resume": "Senior Go developer with five years of backend experience.",
		"suggestions":      []string{"Quantify impact"},
		"score":            score,
	}}
}

func TestShortResumeRejectedLocally(t *testing.T) {
	mt := api.NewMockTransport()
	s := New(api.NewClient(mt))

	screentest.Type(s, "too short")
	_, cmd := screentest.Press(s, "ctrl+s")
	if cmd != nil {
		t.Fatal("short resume should not be sent")
	}
	if !strings.Contains(s.errMsg, "at least") {
		t.Errorf("errMsg = %q", s.errMsg)
	}
	if mt.CallCount() != 0 {
		t.Errorf("calls = %d, want 0", mt.CallCount())
	}
}

func TestOptimizeShowsResult(t *testing.T) {
	mt := api.NewMockTransport(optimized(7.5))
	s := New(api.NewClient(mt))

	s.Update(screentest.Key("tab"))
	screentest.Type(s, "Backend Engineer")
	s.Update(screentest.Key("tab"))
	screentest.Type(s, "Go developer, 5 years")

	_, cmd := screentest.Press(s, "ctrl+s")
	if !s.running {
		t.Fatal("screen should be running after ctrl+s")
	}
	screentest.Run(s, cmd, 2)

	if s.result == nil {
		t.Fatalf("no result, errMsg = %q", s.errMsg)
	}
	if s.result.Position != "Backend Engineer" {
		t.Errorf("position = %q", s.result.Position)
	}
	if !s.CapturesEsc() {
		t.Error("result view should capture Esc")
	}
	view := s.View(100, 40)
	for _, want := range []string{"Backend Engineer", "7.5", "Quantify impact"} {
		if !strings.Contains(view, want) {
			t.Errorf("result view missing %q", want)
		}
	}

	s.Update(screentest.Key("u"))
	if s.result != nil {
		t.Fatal("u should return to the editor")
	}
	if got := s.text.Value(); !strings.HasPrefix(got, "Senior Go developer") {
		t.Errorf("editor text = %q, want the optimized resume", got)
	}
}

func TestOptimizeFailureKeepsText(t *testing.T) {
	mt := api.NewMockTransport(api.MockResponse{Status: 500, Body: map[string]any{"detail": "resume optimization failed: boom"}})
	s := New(api.NewClient(mt))

	screentest.Type(s, "Go developer, 5 years")
	_, cmd := screentest.Press(s, "ctrl+s")
	screentest.Run(s, cmd, 2)

	if s.running {
		t.Error("running flag not cleared")
	}
	if s.result != nil {
		t.Error("failure should not produce a result")
	}
	if s.errMsg != "resume optimization failed: boom" {
		t.Errorf("errMsg = %q", s.errMsg)
	}
	if s.text.Value() != "Go developer, 5 years" {
		t.Errorf("editor text lost: %q", s.text.Value())
	}
}
