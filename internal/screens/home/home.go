package home

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/RavenCaffeine/SeekJob-Helper/internal/api"
	"github.com/RavenCaffeine/SeekJob-Helper/internal/router"
	"github.com/RavenCaffeine/SeekJob-Helper/internal/screen"
	"github.com/RavenCaffeine/SeekJob-Helper/internal/screens/history"
	"github.com/RavenCaffeine/SeekJob-Helper/internal/screens/interview"
	"github.com/RavenCaffeine/SeekJob-Helper/internal/screens/practice"
	"github.com/RavenCaffeine/SeekJob-Helper/internal/screens/questions"
	"github.com/RavenCaffeine/SeekJob-Helper/internal/screens/resume"
	"github.com/RavenCaffeine/SeekJob-Helper/internal/store"
	"github.com/RavenCaffeine/SeekJob-Helper/internal/ui/components"
	"github.com/RavenCaffeine/SeekJob-Helper/internal/ui/layout"
	"github.com/RavenCaffeine/SeekJob-Helper/internal/ui/theme"
)

const healthTimeout = 5 * time.Second

// Deps are the collaborators the home screen hands to the screens it opens.
type Deps struct {
	Backend api.Backend
	// Calls is the API call journal; nil disables the journal screen.
	Calls    store.CallRepo
	Topic    string
	BaseURL  string
	PageSize int
	Logger   *slog.Logger
}

type healthMsg struct {
	health *api.Health
	err    error
}

// HomeScreen is the main menu.
type HomeScreen struct {
	deps     Deps
	menu     components.Menu
	labels   []string
	disabled map[int]bool

	checked  bool
	healthy  bool
	healthTx string
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

func push(s screen.Screen) tea.Cmd {
	return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
}

// New creates the home screen.
func New(deps Deps) *HomeScreen {
	items := []components.MenuItem{
		{Label: "INTERVIEW", Description: "Mock interview with an AI interviewer", Action: func() tea.Cmd {
			return push(interview.New(deps.Backend, deps.Topic, deps.Logger))
		}},
		{Label: "PRACTICE", Description: "Answer a random question and get scored", Action: func() tea.Cmd {
			return push(practice.New(deps.Backend, deps.Logger))
		}},
		{Label: "QUESTION BANK", Description: "Browse, add and edit practice questions", Action: func() tea.Cmd {
			return push(questions.New(deps.Backend, deps.PageSize))
		}},
		{Label: "RESUME", Description: "Optimize a resume for a target position", Action: func() tea.Cmd {
			return push(resume.New(deps.Backend))
		}},
		{Label: "CALL JOURNAL", Description: "Recent API calls and failures", Disabled: deps.Calls == nil, Action: func() tea.Cmd {
			return push(history.New(deps.Calls))
		}},
		{Label: "QUIT", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}

	labels := make([]string, len(items))
	disabled := make(map[int]bool)
	for i, it := range items {
		labels[i] = it.Label
		if it.Disabled {
			disabled[i] = true
		}
	}

	return &HomeScreen{
		deps:     deps,
		menu:     components.NewMenu(items),
		labels:   labels,
		disabled: disabled,
		healthTx: "checking service...",
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.checkHealth()
}

func (h *HomeScreen) checkHealth() tea.Cmd {
	backend := h.deps.Backend
	if backend == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), healthTimeout)
		defer cancel()
		out, err := backend.Health(ctx)
		return healthMsg{health: out, err: err}
	}
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "R", Description: "Recheck API"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case healthMsg:
		h.checked = true
		if msg.err != nil {
			h.healthy = false
			h.healthTx = "offline: " + api.MessageOf(msg.err)
			if h.deps.Logger != nil {
				h.deps.Logger.Warn("health check failed", "error", msg.err)
			}
			return h, nil
		}
		h.healthy = true
		h.healthTx = fmt.Sprintf("online · v%s", strings.TrimPrefix(msg.health.Version, "v"))
		return h, nil

	case tea.KeyPressMsg:
		if msg.String() == "r" {
			h.healthTx = "checking service..."
			return h, h.checkHealth()
		}
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	// height is the content area; add back header and footer.
	compact := height+8 < 34 || width < 90
	cw := contentWidth(width)

	sections := []string{
		renderTitle(cw, compact),
		renderStatus(h.deps.BaseURL, h.healthTx, h.healthy || !h.checked, cw),
		renderMenu(h.labels, h.menu.Selected, h.disabled, cw, compact),
	}
	if item := h.menu.Items[h.menu.Selected]; item.Description != "" {
		sections = append(sections, layout.Centered(item.Description, cw, theme.TextDim))
	}

	return renderCabinetFrame(strings.Join(sections, "\n\n"), width, height)
}
