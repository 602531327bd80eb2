package components

import (
	"charm.land/lipgloss/v2"

	"github.com/RavenCaffeine/SeekJob-Helper/internal/ui/theme"
)

// ContentWidth returns the readable column width for a frame width.
func ContentWidth(frameWidth int) int {
	w := frameWidth - 6
	if w > 100 {
		w = 100
	}
	if w < 20 {
		w = 20
	}
	return w
}

// Card wraps content in a rounded border with an optional title line.
func Card(title, content string, width int) string {
	if title != "" {
		content = lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render(title) + "\n" + content
	}
	return theme.Card.
		Width(width).
		Render(content)
}

// Center places s horizontally centered in width.
func Center(s string, width int) string {
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, s)
}
