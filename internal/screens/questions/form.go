package questions

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/RavenCaffeine/SeekJob-Helper/internal/api"
	"github.com/RavenCaffeine/SeekJob-Helper/internal/screen"
	"github.com/RavenCaffeine/SeekJob-Helper/internal/ui/components"
	"github.com/RavenCaffeine/SeekJob-Helper/internal/ui/theme"
)

const (
	fieldPrompt = iota
	fieldAnswer
	fieldTags
	fieldDifficulty
	fieldCount
)

// form edits a new or existing question. editing is nil for a new one.
type form struct {
	editing    *api.Question
	focus      int
	prompt     components.TextArea
	answer     components.TextArea
	tags       components.TextInput
	difficulty components.Choice
	saving     bool
}

func newForm(q *api.Question) *form {
	options := []string{"None"}
	for _, d := range api.Difficulties {
		options = append(options, d.String())
	}

	f := &form{
		prompt:     components.NewTextArea("The question, markdown allowed", 60, 3),
		answer:     components.NewTextArea("The reference answer", 60, 6),
		tags:       components.NewTextInput("Tags", "comma separated", 200),
		difficulty: components.NewChoice("Difficulty", options),
	}
	if q != nil {
		c := *q
		f.editing = &c
		f.prompt.SetValue(q.Prompt)
		f.answer.SetValue(q.ReferenceAnswer)
		f.tags.SetValue(strings.Join(q.Tags, ", "))
		f.difficulty.Selected = int(q.Difficulty)
	}
	f.answer.Blur()
	f.tags.Blur()
	return f
}

func (f *form) focusField(i int) tea.Cmd {
	f.focus = (i + fieldCount) % fieldCount
	f.prompt.Blur()
	f.answer.Blur()
	f.tags.Blur()
	f.difficulty.Focused = false

	switch f.focus {
	case fieldPrompt:
		return f.prompt.Focus()
	case fieldAnswer:
		return f.answer.Focus()
	case fieldTags:
		return f.tags.Focus()
	default:
		f.difficulty.Focused = true
		return nil
	}
}

func (f *form) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch f.focus {
	case fieldPrompt:
		f.prompt, cmd = f.prompt.Update(msg)
	case fieldAnswer:
		f.answer, cmd = f.answer.Update(msg)
	case fieldTags:
		f.tags, cmd = f.tags.Update(msg)
	case fieldDifficulty:
		f.difficulty, cmd = f.difficulty.Update(msg)
	}
	return cmd
}

func (f *form) selectedDifficulty() api.Difficulty {
	return api.ParseDifficulty(f.difficulty.Value())
}

func (f *form) view(cw int) string {
	f.prompt.SetSize(cw-2, 3)
	f.answer.SetSize(cw-2, 6)
	f.tags.SetWidth(cw - 10)

	label := func(i int, s string) string {
		if f.focus == i {
			return theme.Selected.Render(s)
		}
		return theme.Subtitle.Render(s)
	}

	title := "New question"
	if f.editing != nil {
		title = fmt.Sprintf("Edit question #%d", f.editing.ID)
	}

	var b strings.Builder
	b.WriteString(label(fieldPrompt, "Question"))
	b.WriteString("\n")
	b.WriteString(f.prompt.View())
	b.WriteString("\n\n")
	b.WriteString(label(fieldAnswer, "Reference answer"))
	b.WriteString("\n")
	b.WriteString(f.answer.View())
	b.WriteString("\n\n")
	b.WriteString(f.tags.View())
	b.WriteString("\n\n")
	b.WriteString(f.difficulty.View())
	if f.saving {
		b.WriteString("\n\n")
		b.WriteString(theme.Hint.Render("Saving..."))
	}
	return "\n" + components.Card(title, b.String(), cw)
}

func (s *QuestionsScreen) openForm(q *api.Question) tea.Cmd {
	s.form = newForm(q)
	s.mode = modeForm
	s.errMsg = ""
	s.notice = ""
	return s.form.focusField(fieldPrompt)
}

func (s *QuestionsScreen) handleFormKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "esc":
		s.mode = modeList
		s.form = nil
		s.errMsg = ""
		return s, nil
	case "tab":
		return s, s.form.focusField(s.form.focus + 1)
	case "shift+tab":
		return s, s.form.focusField(s.form.focus - 1)
	case "ctrl+s":
		return s, s.save()
	}
	return s, s.form.update(msg)
}

func (s *QuestionsScreen) save() tea.Cmd {
	f := s.form
	if f.saving {
		return nil
	}
	prompt := strings.TrimSpace(f.prompt.Value())
	answer := strings.TrimSpace(f.answer.Value())
	if prompt == "" || answer == "" {
		s.errMsg = "question and answer are required"
		return nil
	}
	tags := api.NormalizeTags(f.tags.Value())
	diff := f.selectedDifficulty()
	f.saving = true
	s.errMsg = ""

	bank := s.bank
	if f.editing == nil {
		draft := api.QuestionDraft{Prompt: prompt, ReferenceAnswer: answer, Tags: tags, Difficulty: diff}
		return func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
			defer cancel()
			q, err := bank.Create(ctx, draft)
			return savedMsg{q: q, err: err}
		}
	}

	if tags == nil {
		tags = []string{}
	}
	id := f.editing.ID
	upd := api.QuestionUpdate{Prompt: &prompt, ReferenceAnswer: &answer, Tags: tags, Difficulty: &diff}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		q, err := bank.Update(ctx, id, upd)
		return savedMsg{q: q, err: err}
	}
}

func (s *QuestionsScreen) handleSaved(msg savedMsg) (screen.Screen, tea.Cmd) {
	if s.form != nil {
		s.form.saving = false
	}
	if msg.err != nil {
		s.errMsg = api.MessageOf(msg.err)
		return s, nil
	}
	s.mode = modeList
	s.form = nil
	if msg.q != nil {
		s.notice = fmt.Sprintf("Saved question #%d.", msg.q.ID)
	}
	return s, s.load(s.skip)
}
