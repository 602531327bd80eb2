package home

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/RavenCaffeine/SeekJob-Helper/internal/ui/components"
	"github.com/RavenCaffeine/SeekJob-Helper/internal/ui/theme"
)

const (
	bannerWord    = "SEEKJOB"
	bannerCompact = "S · E · E · K · J · O · B"
	tagline       = "interview practice · question bank · resume review"
)

// contentWidth returns the uniform inner width used for all sections.
func contentWidth(frameWidth int) int {
	// Leave room for the frame border (2) and inner padding (4).
	w := frameWidth - 6
	if w > 64 {
		w = 64
	}
	if w < 20 {
		w = 20
	}
	return w
}

func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	art := components.BlockText(bannerWord)
	if compact || lipgloss.Width(art) > cw {
		art = bannerCompact
	}
	title := lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Render(style.Render(art))
	sub := lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Foreground(theme.TextDim).Render(tagline)
	return title + "\n" + sub
}

// renderStatus renders the API endpoint and health line in a bordered box.
func renderStatus(baseURL, health string, ok bool, cw int) string {
	healthStyle := lipgloss.NewStyle().Foreground(theme.Success).Bold(true)
	if !ok {
		healthStyle = lipgloss.NewStyle().Foreground(theme.Error)
	}
	body := lipgloss.NewStyle().Foreground(theme.Secondary).Render(baseURL) +
		"\n" + healthStyle.Render(health)

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(body)
}

// buttonWidth is the fixed width for menu buttons.
const buttonWidth = 24

// renderMenu renders each menu item as a fixed-width button, or as plain
// lines when compact.
func renderMenu(labels []string, selected int, disabled map[int]bool, cw int, compact bool) string {
	selectedBtn := lipgloss.NewStyle().
		Width(buttonWidth).
		Align(lipgloss.Center).
		Bold(true).
		Foreground(theme.Bg).
		Background(theme.Primary).
		Padding(0, 1)

	normalBtn := lipgloss.NewStyle().
		Width(buttonWidth).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Padding(0, 1)

	disabledBtn := normalBtn.Foreground(theme.TextDim)

	if !compact {
		selectedBtn = selectedBtn.Border(lipgloss.RoundedBorder()).BorderForeground(theme.Primary)
		normalBtn = normalBtn.Border(lipgloss.RoundedBorder()).BorderForeground(theme.Border)
		disabledBtn = disabledBtn.Border(lipgloss.RoundedBorder()).BorderForeground(theme.Border)
	}

	buttons := make([]string, 0, len(labels))
	for i, label := range labels {
		switch {
		case disabled[i]:
			buttons = append(buttons, disabledBtn.Render(label))
		case i == selected:
			buttons = append(buttons, selectedBtn.Render("▸ "+label))
		default:
			buttons = append(buttons, normalBtn.Render(label))
		}
	}

	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(strings.Join(buttons, "\n"))
}

// renderCabinetFrame wraps content in a double-border frame, centered
// vertically and horizontally within the given dimensions.
func renderCabinetFrame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(width - 2).
		Height(height - 2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}
