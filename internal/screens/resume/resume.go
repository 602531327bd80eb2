// Package resume is the resume optimization screen.
package resume

import (
	"context"
	"fmt"
	"image/color"
	"strings"
	"time"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/RavenCaffeine/SeekJob-Helper/internal/api"
	rs "github.com/RavenCaffeine/SeekJob-Helper/internal/resume"
	"github.com/RavenCaffeine/SeekJob-Helper/internal/screen"
	"github.com/RavenCaffeine/SeekJob-Helper/internal/ui/components"
	"github.com/RavenCaffeine/SeekJob-Helper/internal/ui/layout"
	"github.com/RavenCaffeine/SeekJob-Helper/internal/ui/theme"
)

const requestTimeout = 3 * time.Minute

type optimizedMsg struct {
	result *rs.Result
	err    error
}

// ResumeScreen collects a resume and shows the optimized version.
type ResumeScreen struct {
	service *rs.Service

	position     components.TextInput
	text         components.TextArea
	editPosition bool

	result  *rs.Result
	vp      viewport.Model
	spin    spinner.Model
	running bool
	errMsg  string
}

var _ screen.Screen = (*ResumeScreen)(nil)
var _ screen.KeyHintProvider = (*ResumeScreen)(nil)
var _ screen.InputCapturer = (*ResumeScreen)(nil)

func New(backend rs.Backend) *ResumeScreen {
	pos := components.NewTextInput("Target position", "optional, e.g. Backend Engineer", 100)
	pos.Blur()
	return &ResumeScreen{
		service:  rs.NewService(backend),
		position: pos,
		text:     components.NewTextArea("Paste your resume here. Ctrl+S optimizes.", 60, 12),
		vp:       viewport.New(),
		spin:     spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

func (s *ResumeScreen) Init() tea.Cmd {
	return s.text.Init()
}

func (s *ResumeScreen) Title() string {
	return "Resume"
}

// CapturesEsc is true while a result is shown; Esc returns to the editor.
func (s *ResumeScreen) CapturesEsc() bool {
	return s.result != nil
}

func (s *ResumeScreen) KeyHints() []layout.KeyHint {
	if s.result != nil {
		return []layout.KeyHint{
			{Key: "↑↓/PgUp/PgDn", Description: "Scroll"},
			{Key: "E/Esc", Description: "Edit"},
			{Key: "U", Description: "Use optimized text"},
		}
	}
	return []layout.KeyHint{
		{Key: "Tab", Description: "Switch field"},
		{Key: "Ctrl+S", Description: "Optimize"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *ResumeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case optimizedMsg:
		s.running = false
		if msg.err != nil {
			s.errMsg = api.MessageOf(msg.err)
			return s, nil
		}
		s.errMsg = ""
		s.result = msg.result
		s.vp.GotoTop()
		return s, nil

	case spinner.TickMsg:
		if !s.running {
			return s, nil
		}
		var cmd tea.Cmd
		s.spin, cmd = s.spin.Update(msg)
		return s, cmd

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}
	return s.forward(msg)
}

func (s *ResumeScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.result != nil {
		switch key {
		case "esc", "e":
			s.result = nil
			return s, s.focusField(s.editPosition)
		case "u":
			s.text.SetValue(s.result.Optimized)
			s.result = nil
			return s, s.focusField(false)
		case "up", "k":
			s.vp.ScrollUp(1)
		case "down", "j":
			s.vp.ScrollDown(1)
		case "pgup":
			s.vp.PageUp()
		case "pgdown", "space":
			s.vp.PageDown()
		}
		return s, nil
	}

	switch key {
	case "tab", "shift+tab":
		return s, s.focusField(!s.editPosition)
	case "ctrl+s":
		return s, s.optimize()
	}
	return s.forward(msg)
}

func (s *ResumeScreen) forward(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if s.result != nil || s.running {
		return s, nil
	}
	var cmd tea.Cmd
	if s.editPosition {
		s.position, cmd = s.position.Update(msg)
	} else {
		s.text, cmd = s.text.Update(msg)
	}
	return s, cmd
}

func (s *ResumeScreen) focusField(position bool) tea.Cmd {
	s.editPosition = position
	if position {
		s.text.Blur()
		return s.position.Focus()
	}
	s.position.Blur()
	return s.text.Focus()
}

func (s *ResumeScreen) optimize() tea.Cmd {
	if s.running {
		return nil
	}
	text := strings.TrimSpace(s.text.Value())
	if n := len([]rune(text)); n < api.MinResumeLength {
		if n == 0 {
			s.errMsg = "please enter your resume"
		} else {
			s.errMsg = fmt.Sprintf("resume text must be at least %d characters", api.MinResumeLength)
		}
		return nil
	}
	s.running = true
	s.errMsg = ""

	svc, position := s.service, s.position.Value()
	return tea.Batch(s.spin.Tick, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		res, err := svc.Optimize(ctx, text, position)
		return optimizedMsg{result: res, err: err}
	})
}

func (s *ResumeScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	if s.result != nil {
		s.vp.SetWidth(cw)
		s.vp.SetHeight(max(3, height-1))
		s.vp.SetContent(components.Markdown(s.result.Markdown(), cw-2))
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, s.vp.View())
	}

	s.position.SetWidth(cw - 20)
	th := max(4, height-8)
	s.text.SetSize(cw-2, th)

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(s.position.View())
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor(!s.editPosition)).
		Render(s.text.View()))
	b.WriteString("\n")

	n := len([]rune(strings.TrimSpace(s.text.Value())))
	b.WriteString(theme.Hint.Render(fmt.Sprintf("%d characters", n)))
	switch {
	case s.running:
		b.WriteString("  " + s.spin.View() + theme.Hint.Render(" Optimizing, this can take a minute..."))
	case s.errMsg != "":
		b.WriteString("  " + theme.Bad.Render(s.errMsg))
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, b.String())
}

func borderColor(focused bool) color.Color {
	if focused {
		return theme.Primary
	}
	return theme.Border
}
