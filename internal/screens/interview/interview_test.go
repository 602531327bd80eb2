package interview

import (
	"strings"
	"testing"

	"github.com/RavenCaffeine/SeekJob-Helper/internal/api"
	iv "github.com/RavenCaffeine/SeekJob-Helper/internal/interview"
	"github.com/RavenCaffeine/SeekJob-Helper/internal/screens/screentest"
)

func chatReply(topic, user, ai string, complete bool) api.MockResponse {
	return api.MockResponse{Body: map[string]any{
		"ai_message": ai,
		"conversation_history": []map[string]any{
			{"user": "", "ai": iv.Greeting(topic), "timestamp": 1767225600, "greeting": true},
			{"user": user, "ai": ai, "timestamp": 1767225660},
		},
		"is_complete": complete,
	}}
}

func newScreen(responses ...api.MockResponse) (*InterviewScreen, *api.MockTransport) {
	mt := api.NewMockTransport(responses...)
	return New(api.NewClient(mt), "", nil), mt
}

func TestStartUsesDefaultTopic(t *testing.T) {
	s, _ := newScreen()
	s.Update(screentest.Key("enter"))

	if s.phase != phaseChat {
		t.Fatalf("phase = %d, want chat", s.phase)
	}
	sess := s.ctrl.Session()
	if sess.Topic != iv.DefaultTopic {
		t.Errorf("topic = %q, want %q", sess.Topic, iv.DefaultTopic)
	}
	if len(sess.Exchanges) != 1 || !sess.Exchanges[0].IsGreeting {
		t.Fatalf("expected a single greeting, got %+v", sess.Exchanges)
	}
	if view := s.View(100, 30); !strings.Contains(view, "Interviewer") {
		t.Errorf("view does not show the greeting:\n%s", view)
	}
}

func TestSendReconcilesTranscript(t *testing.T) {
	s, mt := newScreen(chatReply("Go Developer", "I build APIs", "Tell me about one.", false))
	screentest.Type(s, "Go Developer")
	s.Update(screentest.Key("enter"))

	screentest.Type(s, "I build APIs")
	_, cmd := s.Update(screentest.Key("enter"))
	if got := s.ctrl.State(); got != iv.StateWaitingForReply {
		t.Fatalf("state after send = %v, want waiting", got)
	}
	if s.input.Value() != "" {
		t.Errorf("input should be cleared while waiting, got %q", s.input.Value())
	}

	screentest.Run(s, cmd, 2)

	if got := s.ctrl.State(); got != iv.StateActive {
		t.Fatalf("state = %v, want active", got)
	}
	ex := s.ctrl.Transcript()
	if len(ex) != 2 || ex[1].AIText != "Tell me about one." {
		t.Fatalf("transcript = %+v", ex)
	}
	if mt.CallCount() != 1 {
		t.Errorf("calls = %d, want 1", mt.CallCount())
	}
	if s.errMsg != "" {
		t.Errorf("unexpected error %q", s.errMsg)
	}
}

func TestSendFailureDiscardsMessage(t *testing.T) {
	// An empty mock queue fails every call with a network error.
	s, _ := newScreen()
	s.Update(screentest.Key("enter"))

	screentest.Type(s, "hello")
	_, cmd := s.Update(screentest.Key("enter"))
	screentest.Run(s, cmd, 2)

	if got := s.ctrl.State(); got != iv.StateActive {
		t.Fatalf("state = %v, want active", got)
	}
	if n := len(s.ctrl.Transcript()); n != 1 {
		t.Errorf("transcript length = %d, want rollback to 1", n)
	}
	if s.input.Value() != "" {
		t.Errorf("input = %q, want it left empty after rollback", s.input.Value())
	}
	for _, ex := range s.ctrl.Transcript() {
		if ex.UserText == "hello" {
			t.Errorf("transcript still holds the failed message: %+v", ex)
		}
	}
	if !strings.Contains(s.errMsg, "network") {
		t.Errorf("errMsg = %q, want a network failure message", s.errMsg)
	}
}

func TestBlankMessageIsRejectedLocally(t *testing.T) {
	s, mt := newScreen()
	s.Update(screentest.Key("enter"))

	_, cmd := s.Update(screentest.Key("enter"))
	if cmd != nil {
		t.Error("blank message should not start a request")
	}
	if s.errMsg == "" {
		t.Error("expected a validation message")
	}
	if mt.CallCount() != 0 {
		t.Errorf("calls = %d, want 0", mt.CallCount())
	}
}

func TestCompletedInterviewStopsInput(t *testing.T) {
	s, _ := newScreen(chatReply(iv.DefaultTopic, "done", "Thanks, that's all.", true))
	s.Update(screentest.Key("enter"))
	screentest.Type(s, "done")
	_, cmd := s.Update(screentest.Key("enter"))
	screentest.Run(s, cmd, 2)

	if got := s.ctrl.State(); got != iv.StateComplete {
		t.Fatalf("state = %v, want complete", got)
	}
	screentest.Type(s, "more")
	if s.input.Value() != "" {
		t.Errorf("typing after completion should be ignored, got %q", s.input.Value())
	}
	if view := s.View(100, 30); !strings.Contains(view, "Interview complete") {
		t.Errorf("view missing completion notice:\n%s", view)
	}

	s.Update(screentest.Key("ctrl+n"))
	if got := s.ctrl.State(); got != iv.StateActive {
		t.Errorf("state after restart = %v, want active", got)
	}
	if n := len(s.ctrl.Transcript()); n != 1 {
		t.Errorf("restart should leave only the greeting, got %d exchanges", n)
	}
}

func TestRestartDiscardsReplyInFlight(t *testing.T) {
	s, _ := newScreen(chatReply(iv.DefaultTopic, "first", "late reply", false))
	s.Update(screentest.Key("enter"))
	screentest.Type(s, "first")
	_, cmd := s.Update(screentest.Key("enter"))

	s.Update(screentest.Key("ctrl+n"))
	screentest.Run(s, cmd, 2)

	if n := len(s.ctrl.Transcript()); n != 1 {
		t.Fatalf("stale reply leaked into the new session: %d exchanges", n)
	}
	if s.errMsg != "" {
		t.Errorf("stale reply should not surface an error, got %q", s.errMsg)
	}
}
