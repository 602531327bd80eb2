package app

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/RavenCaffeine/SeekJob-Helper/internal/api"
	"github.com/RavenCaffeine/SeekJob-Helper/internal/router"
	"github.com/RavenCaffeine/SeekJob-Helper/internal/screen"
	"github.com/RavenCaffeine/SeekJob-Helper/internal/screens/home"
	"github.com/RavenCaffeine/SeekJob-Helper/internal/ui/layout"
)

// stubScreen records the keys it receives.
type stubScreen struct {
	capture bool
	keys    []string
}

func (s *stubScreen) Init() tea.Cmd { return nil }

func (s *stubScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if k, ok := msg.(tea.KeyPressMsg); ok {
		s.keys = append(s.keys, k.String())
	}
	return s, nil
}

func (s *stubScreen) View(width, height int) string { return "stub body" }
func (s *stubScreen) Title() string                 { return "Stub" }
func (s *stubScreen) CapturesEsc() bool             { return s.capture }

func (s *stubScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{{Key: "F9", Description: "Stub action"}}
}

func escKey() tea.KeyPressMsg { return tea.KeyPressMsg{Code: tea.KeyEscape} }

func newTestModel(t *testing.T) AppModel {
	t.Helper()
	return newAppModel(Options{
		Backend:    api.NewClient(api.NewMockTransport()),
		BaseURL:    "http://localhost:8000/api",
		SkipSplash: true,
	})
}

func TestSkipSplashStartsAtHome(t *testing.T) {
	m := newTestModel(t)
	if _, ok := m.router.Active().(*home.HomeScreen); !ok {
		t.Fatalf("active = %T, want *home.HomeScreen", m.router.Active())
	}
}

func TestEscPopsScreen(t *testing.T) {
	m := newTestModel(t)
	stub := &stubScreen{}
	m.router.Push(stub)

	_, cmd := m.Update(escKey())
	if cmd == nil {
		t.Fatal("esc should return a pop command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Fatal("esc should pop the screen")
	}
	if len(stub.keys) != 0 {
		t.Errorf("screen saw keys %v, want none", stub.keys)
	}
}

func TestEscForwardedToCapturingScreen(t *testing.T) {
	m := newTestModel(t)
	stub := &stubScreen{capture: true}
	m.router.Push(stub)

	m.Update(escKey())
	if m.router.Depth() != 2 {
		t.Fatalf("depth = %d, want 2", m.router.Depth())
	}
	if len(stub.keys) != 1 || stub.keys[0] != "esc" {
		t.Errorf("screen keys = %v, want [esc]", stub.keys)
	}
}

func TestEscAtRootIsNoop(t *testing.T) {
	m := newTestModel(t)
	if _, cmd := m.Update(escKey()); cmd != nil {
		t.Error("esc on the root screen should do nothing")
	}
}

func TestCtrlCQuits(t *testing.T) {
	m := newTestModel(t)
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	if cmd == nil {
		t.Fatal("ctrl+c should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c should produce QuitMsg")
	}
}

func TestViewUsesScreenHints(t *testing.T) {
	m := newTestModel(t)
	m.router.Push(&stubScreen{})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = updated.(AppModel)

	content := m.render()
	for _, want := range []string{"Stub", "stub body", "Stub action", "localhost:8000"} {
		if !strings.Contains(content, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestViewTooSmall(t *testing.T) {
	m := newTestModel(t)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 20, Height: 5})
	m = updated.(AppModel)
	if strings.Contains(m.render(), "stub body") {
		t.Error("tiny terminal should show the size warning only")
	}
}
