// Package interview is the simulated interview chat screen.
package interview

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/RavenCaffeine/SeekJob-Helper/internal/api"
	iv "github.com/RavenCaffeine/SeekJob-Helper/internal/interview"
	"github.com/RavenCaffeine/SeekJob-Helper/internal/screen"
	"github.com/RavenCaffeine/SeekJob-Helper/internal/ui/components"
	"github.com/RavenCaffeine/SeekJob-Helper/internal/ui/layout"
	"github.com/RavenCaffeine/SeekJob-Helper/internal/ui/theme"
)

// turnTimeout bounds one interviewer reply, retries included.
const turnTimeout = 2 * time.Minute

type phase int

const (
	phaseTopic phase = iota
	phaseChat
)

// turnDoneMsg carries the outcome of one awaited turn.
type turnDoneMsg struct {
	err error
}

// InterviewScreen asks for a topic, then runs the chat.
type InterviewScreen struct {
	ctrl         *iv.Controller
	defaultTopic string
	phase        phase

	topic  components.TextInput
	input  components.TextInput
	vp     viewport.Model
	spin   spinner.Model
	follow bool
	errMsg string
}

var _ screen.Screen = (*InterviewScreen)(nil)
var _ screen.KeyHintProvider = (*InterviewScreen)(nil)

// New creates the screen. A blank defaultTopic uses iv.DefaultTopic.
func New(backend iv.ChatBackend, defaultTopic string, logger *slog.Logger) *InterviewScreen {
	if strings.TrimSpace(defaultTopic) == "" {
		defaultTopic = iv.DefaultTopic
	}
	opts := []iv.Option{iv.WithDefaultTopic(defaultTopic)}
	if logger != nil {
		opts = append(opts, iv.WithLogger(logger))
	}

	input := components.NewTextInput("", "Type your answer and press Enter...", 2000)
	input.Blur()

	return &InterviewScreen{
		ctrl:         iv.New(backend, opts...),
		defaultTopic: defaultTopic,
		topic:        components.NewTextInput("Role", defaultTopic, 80),
		input:        input,
		vp:           viewport.New(),
		spin:         spinner.New(spinner.WithSpinner(spinner.Dot)),
		follow:       true,
	}
}

func (s *InterviewScreen) Init() tea.Cmd {
	return s.topic.Init()
}

func (s *InterviewScreen) Title() string {
	return "Interview"
}

func (s *InterviewScreen) KeyHints() []layout.KeyHint {
	if s.phase == phaseTopic {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Start"},
			{Key: "Esc", Description: "Back"},
		}
	}
	hints := []layout.KeyHint{
		{Key: "Enter", Description: "Send"},
		{Key: "PgUp/PgDn", Description: "Scroll"},
		{Key: "Ctrl+N", Description: "Restart"},
		{Key: "Esc", Description: "Leave"},
	}
	if s.ctrl.State() == iv.StateComplete {
		hints = hints[1:]
	}
	return hints
}

// Controller exposes the session state, mainly for tests.
func (s *InterviewScreen) Controller() *iv.Controller {
	return s.ctrl
}

func (s *InterviewScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case turnDoneMsg:
		return s.handleTurnDone(msg)

	case spinner.TickMsg:
		if s.ctrl.State() != iv.StateWaitingForReply {
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

func (s *InterviewScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	if s.phase == phaseTopic {
		if msg.String() == "enter" {
			return s, s.start(s.topic.Value())
		}
		return s.forward(msg)
	}

	switch msg.String() {
	case "enter":
		return s, s.send()
	case "ctrl+n":
		return s, s.start(s.ctrl.Session().Topic)
	case "pgup":
		s.vp.PageUp()
		s.follow = false
		return s, nil
	case "pgdown":
		s.vp.PageDown()
		s.follow = s.vp.AtBottom()
		return s, nil
	}
	return s.forward(msg)
}

func (s *InterviewScreen) forward(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case s.phase == phaseTopic:
		s.topic, cmd = s.topic.Update(msg)
	case s.ctrl.IsAcceptingInput():
		s.input, cmd = s.input.Update(msg)
	}
	return s, cmd
}

// start opens a new session, dropping any reply still in flight.
func (s *InterviewScreen) start(topic string) tea.Cmd {
	s.ctrl.StartSession(topic)
	s.phase = phaseChat
	s.errMsg = ""
	s.follow = true
	s.topic.Blur()
	s.input.SetValue("")
	return s.input.Focus()
}

func (s *InterviewScreen) send() tea.Cmd {
	turn, err := s.ctrl.Begin(s.input.Value())
	if err != nil {
		s.errMsg = api.MessageOf(err)
		return nil
	}
	s.errMsg = ""
	s.follow = true
	s.input.SetValue("")
	return tea.Batch(s.spin.Tick, awaitTurn(turn))
}

func awaitTurn(turn *iv.Turn) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), turnTimeout)
		defer cancel()
		return turnDoneMsg{err: turn.Await(ctx)}
	}
}

func (s *InterviewScreen) handleTurnDone(msg turnDoneMsg) (screen.Screen, tea.Cmd) {
	if errors.Is(msg.err, iv.ErrStale) {
		return s, nil
	}
	if msg.err != nil {
		// The rolled-back message is discarded, not returned to the input.
		s.errMsg = api.MessageOf(msg.err)
	}
	s.follow = true
	return s, nil
}

func (s *InterviewScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	if s.phase == phaseTopic {
		return s.viewTopic(width, cw)
	}

	s.input.SetWidth(cw - 4)
	bottom := s.viewBottom(cw)

	vh := height - lipgloss.Height(bottom) - 1
	if vh < 3 {
		vh = 3
	}
	s.vp.SetWidth(cw)
	s.vp.SetHeight(vh)
	s.vp.SetContent(s.transcript(cw))
	if s.follow {
		s.vp.GotoBottom()
	}

	body := lipgloss.JoinVertical(lipgloss.Left, s.vp.View(), "", bottom)
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, body)
}

func (s *InterviewScreen) viewTopic(width, cw int) string {
	s.topic.SetWidth(cw - 12)
	var b strings.Builder
	b.WriteString(theme.Body.Render("Which role are you interviewing for?"))
	b.WriteString("\n\n")
	b.WriteString(s.topic.View())
	b.WriteString("\n\n")
	b.WriteString(theme.Hint.Render("Leave blank for " + s.defaultTopic + "."))
	return "\n" + components.Center(components.Card("New interview", b.String(), cw), width)
}

func (s *InterviewScreen) transcript(cw int) string {
	sess := s.ctrl.Session()
	var b strings.Builder

	b.WriteString(theme.Subtitle.Render("Topic: " + sess.Topic))
	b.WriteString("\n")

	for _, e := range sess.Exchanges {
		if e.UserText != "" {
			b.WriteString("\n")
			b.WriteString(theme.UserBubble.Render("You"))
			b.WriteString(theme.Hint.Render("  " + e.CreatedAt.Local().Format("15:04")))
			b.WriteString("\n")
			b.WriteString(strings.TrimRight(components.Markdown(e.UserText, cw-2), "\n"))
			b.WriteString("\n")
		}
		if e.AIText != "" {
			b.WriteString("\n")
			b.WriteString(theme.AIBubble.Render("Interviewer"))
			b.WriteString("\n")
			b.WriteString(strings.TrimRight(components.Markdown(e.AIText, cw-2), "\n"))
			b.WriteString("\n")
		}
	}

	if s.ctrl.State() == iv.StateWaitingForReply {
		b.WriteString("\n")
		b.WriteString(s.spin.View() + theme.Hint.Render(" The interviewer is thinking..."))
		b.WriteString("\n")
	}
	return b.String()
}

func (s *InterviewScreen) viewBottom(cw int) string {
	if s.ctrl.State() == iv.StateComplete {
		return theme.Good.Render("Interview complete.") +
			theme.Hint.Render(" Ctrl+N starts a new one, Esc leaves.")
	}

	var lines []string
	if s.errMsg != "" {
		lines = append(lines, theme.Bad.Render(s.errMsg))
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw).
		Render(s.input.View())
	lines = append(lines, box)
	return strings.Join(lines, "\n")
}
