package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/RavenCaffeine/SeekJob-Helper/internal/ui/theme"
)

// Choice is a horizontal single-select, cycled with left/right.
type Choice struct {
	Label    string
	Options  []string
	Selected int
	Focused  bool
}

// NewChoice creates a Choice with the first option selected.
func NewChoice(label string, options []string) Choice {
	return Choice{Label: label, Options: options}
}

// Update cycles the selection while focused.
func (c Choice) Update(msg tea.Msg) (Choice, tea.Cmd) {
	if !c.Focused || len(c.Options) == 0 {
		return c, nil
	}
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return c, nil
	}
	switch kmsg.String() {
	case "left", "h":
		c.Selected = (c.Selected - 1 + len(c.Options)) % len(c.Options)
	case "right", "l", "space":
		c.Selected = (c.Selected + 1) % len(c.Options)
	}
	return c, nil
}

// Value returns the selected option.
func (c Choice) Value() string {
	if c.Selected < 0 || c.Selected >= len(c.Options) {
		return ""
	}
	return c.Options[c.Selected]
}

// View renders the label followed by all options.
func (c Choice) View() string {
	parts := make([]string, 0, len(c.Options))
	for i, opt := range c.Options {
		switch {
		case i == c.Selected && c.Focused:
			parts = append(parts, theme.Selected.Render("["+opt+"]"))
		case i == c.Selected:
			parts = append(parts, lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render("["+opt+"]"))
		default:
			parts = append(parts, lipgloss.NewStyle().Foreground(theme.TextDim).Render(" "+opt+" "))
		}
	}
	label := c.Label + ": "
	if c.Focused {
		label = theme.Selected.Render(label)
	}
	return label + strings.Join(parts, " ")
}
