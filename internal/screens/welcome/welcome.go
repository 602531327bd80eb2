// Package welcome is the splash screen shown before the main menu.
package welcome

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/RavenCaffeine/SeekJob-Helper/internal/router"
	"github.com/RavenCaffeine/SeekJob-Helper/internal/screen"
	"github.com/RavenCaffeine/SeekJob-Helper/internal/ui/components"
	"github.com/RavenCaffeine/SeekJob-Helper/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	phase1End    = 400 * time.Millisecond
	totalDur     = 1500 * time.Millisecond
)

// bannerMinWidth is the narrowest terminal that fits the block banner.
const bannerMinWidth = 60

// pulse frames cycle next to the tagline
var sparkleFrames = []string{"·", "•", "●", "•"}

type tickMsg time.Time

// WelcomeScreen shows the banner briefly, then replaces itself with the
// screen produced by homeFactory. Any key skips ahead.
type WelcomeScreen struct {
	homeFactory  func() screen.Screen
	endpoint     string
	elapsed      time.Duration
	tickCount    int
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen. endpoint is shown under the banner.
func New(homeFactory func() screen.Screen, endpoint string) *WelcomeScreen {
	return &WelcomeScreen{
		homeFactory: homeFactory,
		endpoint:    endpoint,
	}
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tick()
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if w.transitioned {
			return w, nil
		}
		w.elapsed += tickInterval
		w.tickCount++
		if w.elapsed >= totalDur {
			return w, w.transition()
		}
		return w, tick()

	case tea.KeyPressMsg:
		return w, w.transition()
	}

	return w, nil
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	homeScreen := w.homeFactory()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: homeScreen}
	}
}

// RenderBanner returns the block banner, or a one-line fallback when
// width is too narrow.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < bannerMinWidth {
		return style.Render("S E E K J O B")
	}
	return style.Render(components.BlockText("SEEKJOB"))
}

func (w *WelcomeScreen) View(width, height int) string {
	sections := []string{RenderBanner(width)}

	if w.elapsed >= phase1End {
		frame := sparkleFrames[w.tickCount%len(sparkleFrames)]
		dot := lipgloss.NewStyle().Foreground(theme.Accent).Render(frame)

		tagline := lipgloss.NewStyle().
			Foreground(theme.Text).
			Bold(true).
			Render("Land the job you want")
		sections = append(sections, "", dot+" "+tagline+" "+dot)

		if w.endpoint != "" {
			sections = append(sections, lipgloss.NewStyle().
				Foreground(theme.TextDim).
				Render(w.endpoint))
		}

		sections = append(sections, "", lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Italic(true).
			Render("press any key to continue"))
	}

	content := strings.Join(sections, "\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
