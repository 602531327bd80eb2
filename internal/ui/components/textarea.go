package components

import (
	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
)

// TextArea wraps bubbles/textarea for multi-line answers and resumes.
// Enter inserts a newline; screens submit on ctrl+s.
type TextArea struct {
	Model textarea.Model
}

// NewTextArea creates a focused editor.
func NewTextArea(placeholder string, width, height int) TextArea {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetWidth(width)
	ta.SetHeight(height)
	ta.Focus()
	return TextArea{Model: ta}
}

// Init returns the cursor blink command.
func (t TextArea) Init() tea.Cmd {
	return t.Model.Focus()
}

// Update handles messages.
func (t TextArea) Update(msg tea.Msg) (TextArea, tea.Cmd) {
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

func (t TextArea) View() string {
	return t.Model.View()
}

// SetSize resizes the editor.
func (t *TextArea) SetSize(width, height int) {
	t.Model.SetWidth(width)
	t.Model.SetHeight(height)
}

func (t TextArea) Value() string {
	return t.Model.Value()
}

func (t *TextArea) SetValue(s string) {
	t.Model.SetValue(s)
}

func (t *TextArea) Reset() {
	t.Model.Reset()
}

func (t *TextArea) Focus() tea.Cmd {
	return t.Model.Focus()
}

func (t *TextArea) Blur() {
	t.Model.Blur()
}
