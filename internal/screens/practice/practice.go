// Package practice is the question practice screen: pick a filter, answer
// a random question, read the evaluation.
package practice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/RavenCaffeine/SeekJob-Helper/internal/api"
	pr "github.com/RavenCaffeine/SeekJob-Helper/internal/practice"
	"github.com/RavenCaffeine/SeekJob-Helper/internal/screen"
	"github.com/RavenCaffeine/SeekJob-Helper/internal/ui/components"
	"github.com/RavenCaffeine/SeekJob-Helper/internal/ui/layout"
	"github.com/RavenCaffeine/SeekJob-Helper/internal/ui/theme"
)

const requestTimeout = 2 * time.Minute

const (
	focusTags = iota
	focusDifficulty
)

type fetchDoneMsg struct{ err error }

type evalDoneMsg struct{ err error }

// PracticeScreen drives a practice.Controller.
type PracticeScreen struct {
	ctrl *pr.Controller

	filtering  bool
	focus      int
	tags       components.TextInput
	difficulty components.Choice

	answer components.TextArea
	vp     viewport.Model
	spin   spinner.Model
	busy   bool
	errMsg string
}

var _ screen.Screen = (*PracticeScreen)(nil)
var _ screen.KeyHintProvider = (*PracticeScreen)(nil)
var _ screen.InputCapturer = (*PracticeScreen)(nil)

// New creates the screen showing the filter form.
func New(backend pr.Backend, logger *slog.Logger) *PracticeScreen {
	options := []string{"Any"}
	for _, d := range api.Difficulties {
		options = append(options, d.String())
	}

	answer := components.NewTextArea("Write your answer here. Ctrl+S submits.", 60, 8)
	answer.Blur()

	return &PracticeScreen{
		ctrl:       pr.NewController(backend, logger),
		filtering:  true,
		tags:       components.NewTextInput("Tags", "e.g. go, concurrency", 200),
		difficulty: components.NewChoice("Difficulty", options),
		answer:     answer,
		vp:         viewport.New(),
		spin:       spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

func (s *PracticeScreen) Init() tea.Cmd {
	return s.tags.Init()
}

func (s *PracticeScreen) Title() string {
	return "Practice"
}

// CapturesEsc is true while the filter form is open over a loaded question.
func (s *PracticeScreen) CapturesEsc() bool {
	return s.filtering && s.ctrl.Question() != nil
}

func (s *PracticeScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.filtering:
		return []layout.KeyHint{
			{Key: "Tab", Description: "Next field"},
			{Key: "←→", Description: "Difficulty"},
			{Key: "Enter", Description: "Get question"},
			{Key: "Esc", Description: "Back"},
		}
	case s.ctrl.State() == pr.StateEvaluated:
		return []layout.KeyHint{
			{Key: "N", Description: "Next question"},
			{Key: "A", Description: "Answer again"},
			{Key: "F", Description: "Filter"},
			{Key: "PgUp/PgDn", Description: "Scroll"},
			{Key: "Esc", Description: "Back"},
		}
	default:
		return []layout.KeyHint{
			{Key: "Ctrl+S", Description: "Submit"},
			{Key: "Ctrl+N", Description: "Skip"},
			{Key: "Ctrl+F", Description: "Filter"},
			{Key: "Esc", Description: "Back"},
		}
	}
}

func (s *PracticeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case fetchDoneMsg:
		return s.handleFetched(msg)

	case evalDoneMsg:
		return s.handleEvaluated(msg)

	case spinner.TickMsg:
		if !s.busy {
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

func (s *PracticeScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.filtering {
		switch key {
		case "esc":
			s.filtering = false
			return s, s.focusAnswer()
		case "tab", "shift+tab":
			s.toggleFocus()
			return s, nil
		case "enter":
			return s, s.fetch(false)
		}
		return s.forward(msg)
	}

	switch key {
	case "pgup":
		s.vp.PageUp()
		return s, nil
	case "pgdown":
		s.vp.PageDown()
		return s, nil
	}

	if s.ctrl.State() == pr.StateEvaluated && !s.answer.Model.Focused() {
		switch key {
		case "n":
			return s, s.fetch(true)
		case "a":
			s.answer.Reset()
			return s, s.focusAnswer()
		case "f":
			return s, s.openFilter()
		}
		return s, nil
	}

	switch key {
	case "ctrl+s":
		return s, s.submit()
	case "ctrl+n":
		return s, s.fetch(true)
	case "ctrl+f":
		return s, s.openFilter()
	}
	return s.forward(msg)
}

func (s *PracticeScreen) forward(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case s.filtering && s.focus == focusTags:
		s.tags, cmd = s.tags.Update(msg)
	case s.filtering:
		s.difficulty, cmd = s.difficulty.Update(msg)
	case s.answer.Model.Focused():
		s.answer, cmd = s.answer.Update(msg)
	}
	return s, cmd
}

func (s *PracticeScreen) toggleFocus() {
	if s.focus == focusTags {
		s.focus = focusDifficulty
		s.tags.Blur()
		s.difficulty.Focused = true
		return
	}
	s.focus = focusTags
	s.difficulty.Focused = false
	s.tags.Focus()
}

func (s *PracticeScreen) openFilter() tea.Cmd {
	s.filtering = true
	s.errMsg = ""
	s.answer.Blur()
	s.focus = focusTags
	s.difficulty.Focused = false
	return s.tags.Focus()
}

func (s *PracticeScreen) focusAnswer() tea.Cmd {
	if s.ctrl.Question() == nil {
		return nil
	}
	return s.answer.Focus()
}

// Filter returns the filter described by the form.
func (s *PracticeScreen) Filter() api.Filter {
	return api.Filter{
		Tags:       api.NormalizeTags(s.tags.Value()),
		Difficulty: api.ParseDifficulty(s.difficulty.Value()),
	}
}

func (s *PracticeScreen) fetch(next bool) tea.Cmd {
	if s.busy {
		return nil
	}
	s.busy = true
	s.errMsg = ""

	ctrl, f := s.ctrl, s.Filter()
	return tea.Batch(s.spin.Tick, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		var err error
		if next {
			_, err = ctrl.Next(ctx)
		} else {
			_, err = ctrl.FetchRandom(ctx, f)
		}
		return fetchDoneMsg{err: err}
	})
}

func (s *PracticeScreen) submit() tea.Cmd {
	if s.busy {
		return nil
	}
	text := s.answer.Value()
	if strings.TrimSpace(text) == "" {
		s.errMsg = "please enter an answer"
		return nil
	}
	s.busy = true
	s.errMsg = ""

	ctrl := s.ctrl
	return tea.Batch(s.spin.Tick, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		_, err := ctrl.SubmitAnswer(ctx, text)
		return evalDoneMsg{err: err}
	})
}

func (s *PracticeScreen) handleFetched(msg fetchDoneMsg) (screen.Screen, tea.Cmd) {
	if errors.Is(msg.err, pr.ErrStale) {
		return s, nil
	}
	s.busy = false
	if msg.err != nil {
		s.errMsg = api.MessageOf(msg.err)
		return s, nil
	}
	s.filtering = false
	s.tags.Blur()
	s.difficulty.Focused = false
	s.answer.Reset()
	s.vp.GotoTop()
	return s, s.answer.Focus()
}

func (s *PracticeScreen) handleEvaluated(msg evalDoneMsg) (screen.Screen, tea.Cmd) {
	if errors.Is(msg.err, pr.ErrStale) {
		return s, nil
	}
	s.busy = false
	if msg.err != nil {
		s.errMsg = api.MessageOf(msg.err)
		return s, nil
	}
	s.answer.Blur()
	s.vp.GotoTop()
	return s, nil
}

func (s *PracticeScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	var body string
	switch {
	case s.filtering:
		body = s.viewFilter(cw)
	case s.ctrl.State() == pr.StateEvaluated && !s.answer.Model.Focused():
		body = s.viewEvaluation(cw, height)
	default:
		body = s.viewQuestion(cw, height)
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, body)
}

func (s *PracticeScreen) status() string {
	if s.busy {
		return s.spin.View() + theme.Hint.Render(" Waiting for the service...")
	}
	if s.errMsg != "" {
		return theme.Bad.Render(s.errMsg)
	}
	return ""
}

func (s *PracticeScreen) viewFilter(cw int) string {
	s.tags.SetWidth(cw - 16)
	var b strings.Builder
	b.WriteString(s.tags.View())
	b.WriteString("\n\n")
	b.WriteString(s.difficulty.View())
	b.WriteString("\n\n")
	b.WriteString(theme.Hint.Render("Every tag must match. Leave empty for any question."))

	out := "\n" + components.Card("Find a question", b.String(), cw)
	if st := s.status(); st != "" {
		out += "\n\n" + st
	}
	return out
}

func (s *PracticeScreen) header(q *api.Question) string {
	meta := []string{fmt.Sprintf("#%d", q.ID)}
	if q.Difficulty != api.DifficultyUnset {
		meta = append(meta, q.Difficulty.String())
	}
	if len(q.Tags) > 0 {
		meta = append(meta, strings.Join(q.Tags, ", "))
	}
	return theme.Subtitle.Render("Question") + theme.Hint.Render("  "+strings.Join(meta, " · "))
}

func (s *PracticeScreen) viewQuestion(cw, height int) string {
	q := s.ctrl.Question()
	if q == nil {
		return s.viewFilter(cw)
	}

	s.answer.SetSize(cw, 8)
	bottom := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Render(s.answer.View())
	if st := s.status(); st != "" {
		bottom += "\n" + st
	}

	s.vp.SetWidth(cw)
	s.vp.SetHeight(max(3, height-lipgloss.Height(bottom)-2))
	s.vp.SetContent(s.header(q) + "\n\n" + components.Markdown(q.Prompt, cw-2))

	return lipgloss.JoinVertical(lipgloss.Left, s.vp.View(), "", bottom)
}

func (s *PracticeScreen) viewEvaluation(cw, height int) string {
	q := s.ctrl.Question()
	ev := s.ctrl.Evaluation()
	if q == nil || ev == nil {
		return s.viewQuestion(cw, height)
	}

	var b strings.Builder
	b.WriteString(s.header(q))
	b.WriteString("\n\n")
	b.WriteString(components.Markdown(q.Prompt, cw-2))
	b.WriteString("\n")
	b.WriteString(components.NewScoreBar(ev.Score, cw-4).View())
	b.WriteString("\n\n")

	b.WriteString(theme.Subtitle.Render("Evaluation"))
	b.WriteString("\n")
	b.WriteString(components.Markdown(ev.Comment, cw-2))

	if len(ev.Suggestions) > 0 {
		b.WriteString("\n")
		b.WriteString(theme.Subtitle.Render("Suggestions"))
		b.WriteString("\n")
		for _, sg := range ev.Suggestions {
			b.WriteString(components.Markdown("- "+sg, cw-2))
		}
	}

	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Render("Your answer"))
	b.WriteString("\n")
	b.WriteString(components.Markdown(ev.UserAnswer, cw-2))

	ref := ev.ReferenceAnswer
	if ref == "" {
		ref = q.ReferenceAnswer
	}
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Render("Reference answer"))
	b.WriteString("\n")
	b.WriteString(components.Markdown(ref, cw-2))

	status := s.status()
	s.vp.SetWidth(cw)
	s.vp.SetHeight(max(3, height-lipgloss.Height(status)-1))
	s.vp.SetContent(b.String())

	if status == "" {
		return s.vp.View()
	}
	return lipgloss.JoinVertical(lipgloss.Left, s.vp.View(), status)
}
