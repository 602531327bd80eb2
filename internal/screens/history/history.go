// Package history shows the API call journal: recent calls and per
// operation totals.
package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/RavenCaffeine/SeekJob-Helper/internal/screen"
	"github.com/RavenCaffeine/SeekJob-Helper/internal/store"
	"github.com/RavenCaffeine/SeekJob-Helper/internal/ui/layout"
	"github.com/RavenCaffeine/SeekJob-Helper/internal/ui/theme"
)

const recentLimit = 50

type historyLoadedMsg struct {
	Calls []store.CallRecord
	Stats []store.CallStat
	Err   error
}

// HistoryScreen displays recent API calls.
type HistoryScreen struct {
	callRepo store.CallRepo
	calls    []store.CallRecord
	stats    []store.CallStat
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(callRepo store.CallRepo) *HistoryScreen {
	return &HistoryScreen{
		callRepo: callRepo,
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		calls, err := s.callRepo.RecentCalls(ctx, store.QueryOpts{Limit: recentLimit})
		if err != nil {
			return historyLoadedMsg{Err: err}
		}

		// Totals are a nice-to-have; show the calls even if they fail.
		stats, err := s.callRepo.CallStats(ctx)
		if err != nil {
			return historyLoadedMsg{Calls: calls}
		}
		return historyLoadedMsg{Calls: calls, Stats: stats}
	}
}

func (s *HistoryScreen) Title() string {
	return "Call Journal"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "R", Description: "Refresh"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.errMsg = ""
			s.calls = msg.Calls
			s.stats = msg.Stats
			if s.selected >= len(s.calls) {
				s.selected = 0
			}
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.calls)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
			return s, nil
		case "r":
			s.expanded = make(map[int]bool)
			return s, s.Init()
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading call journal...")
	}
	if len(s.calls) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No API calls recorded yet.")
	}

	var b strings.Builder
	b.WriteString("\n")

	if summary := s.summary(); summary != "" {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, summary))
		b.WriteString("\n\n")
	}

	// Keep the selected row on screen when the list is long.
	rows := max(1, height-6)
	start := 0
	if s.selected >= rows {
		start = s.selected - rows + 1
	}

	for i := start; i < len(s.calls) && i < start+rows; i++ {
		c := s.calls[i]

		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		result := fmt.Sprintf("%d", c.Status)
		if !c.Success {
			result = "FAIL"
			if c.Status != 0 {
				result = fmt.Sprintf("FAIL %d", c.Status)
			}
		}

		line := fmt.Sprintf("%s%s  %-20s %-6s %-9s %5dms",
			prefix, c.Timestamp.Local().Format("Jan 02 15:04:05"), c.Op, c.Method, result, c.LatencyMs)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if !c.Success {
			style = style.Foreground(theme.Error)
		}
		if i == s.selected {
			style = style.Bold(true)
			if c.Success {
				style = style.Foreground(theme.Primary)
			}
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			for _, d := range details(c) {
				b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
					lipgloss.NewStyle().Foreground(theme.TextDim).Render("    "+d)))
				b.WriteString("\n")
			}
		}
	}

	return b.String()
}

// summary renders one line with total calls and failures across ops.
func (s *HistoryScreen) summary() string {
	if len(s.stats) == 0 {
		return ""
	}
	var calls, failures int
	parts := make([]string, 0, len(s.stats))
	for _, st := range s.stats {
		calls += st.Calls
		failures += st.Failures
		parts = append(parts, fmt.Sprintf("%s %d", st.Op, st.Calls))
	}
	head := fmt.Sprintf("%d calls, %d failed", calls, failures)
	return theme.Subtitle.Render(head) + theme.Hint.Render("  ·  "+strings.Join(parts, "  "))
}

func details(c store.CallRecord) []string {
	out := []string{fmt.Sprintf("%s %s", c.Method, c.Path)}
	if c.RequestID != "" {
		out = append(out, "request id "+c.RequestID)
	}
	if c.ResponseBytes > 0 {
		out = append(out, fmt.Sprintf("%d bytes", c.ResponseBytes))
	}
	if !c.Success {
		msg := c.ErrorKind
		if c.ErrorMessage != "" {
			msg += ": " + c.ErrorMessage
		}
		out = append(out, msg)
	}
	return out
}
