package practice

import (
	"strings"
	"testing"

	"github.com/RavenCaffeine/SeekJob-Helper/internal/api"
	pr "github.com/RavenCaffeine/SeekJob-Helper/internal/practice"
	"github.com/RavenCaffeine/SeekJob-Helper/internal/screens/screentest"
)

func questionBody(id int, prompt string) api.MockResponse {
	return api.MockResponse{Body: map[string]any{
		"id":         id,
		"question":   prompt,
		"answer":     "Use a mutex or a channel.",
		"tags":       "go,concurrency",
		"difficulty": "中等",
		"created_at": "2026-01-01T00:00:00Z",
	}}
}

func evaluationBody(id int, score float64) api.MockResponse {
	return api.MockResponse{Body: map[string]any{
		"question_id":     id,
		"user_answer":     "lock it",
		"standard_answer": "Use a mutex or a channel.",
		"score":           score,
		"evaluation":      "Correct but brief.",
		"suggestions":     []string{"Mention channels."},
	}}
}

func newScreen(responses ...api.MockResponse) (*PracticeScreen, *api.MockTransport) {
	mt := api.NewMockTransport(responses...)
	return New(api.NewClient(mt), nil), mt
}

func TestFetchSendsFilter(t *testing.T) {
	s, mt := newScreen(questionBody(3, "How do you guard shared state?"))

	screentest.Type(s, "go, concurrency")
	s.Update(screentest.Key("tab"))
	s.Update(screentest.Key("right"))
	s.Update(screentest.Key("right"))
	_, cmd := s.Update(screentest.Key("enter"))
	screentest.Run(s, cmd, 2)

	if got := s.ctrl.State(); got != pr.StateQuestionLoaded {
		t.Fatalf("state = %v, want question loaded", got)
	}
	if s.filtering {
		t.Error("filter form should close after a successful fetch")
	}
	call := mt.LastCall()
	if call == nil {
		t.Fatal("no call recorded")
	}
	if got := call.Query.Get("tags"); got != "go,concurrency" {
		t.Errorf("tags query = %q", got)
	}
	if got := call.Query.Get("difficulty"); got != "中等" {
		t.Errorf("difficulty query = %q, want 中等", got)
	}
	if view := s.View(100, 30); !strings.Contains(view, "guard shared state") {
		t.Errorf("question not rendered:\n%s", view)
	}
}

func TestFetchFailureKeepsForm(t *testing.T) {
	s, _ := newScreen(api.MockResponse{Status: 404, Body: map[string]any{"detail": "no question matches the filter"}})

	_, cmd := s.Update(screentest.Key("enter"))
	screentest.Run(s, cmd, 2)

	if !s.filtering {
		t.Error("filter form should stay open on failure")
	}
	if s.errMsg != "no question matches the filter" {
		t.Errorf("errMsg = %q", s.errMsg)
	}
	if s.busy {
		t.Error("busy flag not cleared")
	}
}

func TestSubmitShowsEvaluation(t *testing.T) {
	s, mt := newScreen(questionBody(3, "How do you guard shared state?"), evaluationBody(3, 6.5))

	_, cmd := s.Update(screentest.Key("enter"))
	screentest.Run(s, cmd, 2)

	screentest.Type(s, "lock it")
	_, cmd = s.Update(screentest.Key("ctrl+s"))
	screentest.Run(s, cmd, 2)

	if got := s.ctrl.State(); got != pr.StateEvaluated {
		t.Fatalf("state = %v, want evaluated", got)
	}
	if got := mt.LastCall().Path; got != "/questions/3/evaluate" {
		t.Errorf("path = %q", got)
	}
	view := s.View(100, 40)
	for _, want := range []string{"6.5/10", "Correct but brief", "Reference answer"} {
		if !strings.Contains(view, want) {
			t.Errorf("evaluation view missing %q", want)
		}
	}
}

func TestSubmitBlankAnswer(t *testing.T) {
	s, mt := newScreen(questionBody(3, "Q"))
	_, cmd := s.Update(screentest.Key("enter"))
	screentest.Run(s, cmd, 2)

	_, cmd = s.Update(screentest.Key("ctrl+s"))
	if cmd != nil {
		t.Error("blank answer should not be sent")
	}
	if s.errMsg == "" {
		t.Error("expected a validation message")
	}
	if mt.CallCount() != 1 {
		t.Errorf("calls = %d, want only the fetch", mt.CallCount())
	}
}

func TestNextReusesLastFilter(t *testing.T) {
	s, mt := newScreen(questionBody(3, "first"), evaluationBody(3, 8), questionBody(4, "second"))

	screentest.Type(s, "go")
	_, cmd := s.Update(screentest.Key("enter"))
	screentest.Run(s, cmd, 2)

	screentest.Type(s, "lock it")
	_, cmd = s.Update(screentest.Key("ctrl+s"))
	screentest.Run(s, cmd, 2)

	_, cmd = s.Update(screentest.Key("n"))
	screentest.Run(s, cmd, 2)

	q := s.ctrl.Question()
	if q == nil || q.ID != 4 {
		t.Fatalf("question = %+v, want #4", q)
	}
	if s.ctrl.Evaluation() != nil {
		t.Error("evaluation should be cleared for the new question")
	}
	if got := mt.LastCall().Query.Get("tags"); got != "go" {
		t.Errorf("next used tags %q, want go", got)
	}
}

func TestEscReturnsFromFilterToQuestion(t *testing.T) {
	s, _ := newScreen(questionBody(3, "Q"))
	if s.CapturesEsc() {
		t.Fatal("with no question Esc should leave the screen")
	}

	_, cmd := s.Update(screentest.Key("enter"))
	screentest.Run(s, cmd, 2)

	s.Update(screentest.Key("ctrl+f"))
	if !s.filtering || !s.CapturesEsc() {
		t.Fatal("ctrl+f should open the filter over the question")
	}
	s.Update(screentest.Key("esc"))
	if s.filtering {
		t.Error("esc should close the filter form")
	}
}
