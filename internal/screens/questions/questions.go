// Package questions is the question bank browser: list, inspect, add,
// edit and delete practice questions.
package questions

import (
	"context"
	"fmt"
	"strings"
	"time"

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

const requestTimeout = 30 * time.Second

type mode int

const (
	modeList mode = iota
	modeDetail
	modeConfirmDelete
	modeForm
)

type pageLoadedMsg struct {
	skip  int
	items []api.Question
	err   error
}

type savedMsg struct {
	q   *api.Question
	err error
}

type deletedMsg struct {
	id  int
	err error
}

// QuestionsScreen browses the bank one page at a time.
type QuestionsScreen struct {
	bank     *pr.Bank
	pageSize int

	mode     mode
	items    []api.Question
	skip     int
	selected int
	loaded   bool
	loading  bool

	filter     components.TextInput
	filterOpen bool
	tags       []string

	form   *form
	vp     viewport.Model
	notice string
	errMsg string
}

var _ screen.Screen = (*QuestionsScreen)(nil)
var _ screen.KeyHintProvider = (*QuestionsScreen)(nil)
var _ screen.InputCapturer = (*QuestionsScreen)(nil)

// New creates the screen. pageSize <= 0 uses practice.DefaultPageSize.
func New(backend pr.BankBackend, pageSize int) *QuestionsScreen {
	if pageSize <= 0 {
		pageSize = pr.DefaultPageSize
	}
	filter := components.NewTextInput("Tags", "comma separated, Enter to apply", 200)
	filter.Blur()
	return &QuestionsScreen{
		bank:     pr.NewBank(backend),
		pageSize: pageSize,
		filter:   filter,
		vp:       viewport.New(),
	}
}

func (s *QuestionsScreen) Init() tea.Cmd {
	return s.load(0)
}

func (s *QuestionsScreen) Title() string {
	return "Question Bank"
}

func (s *QuestionsScreen) CapturesEsc() bool {
	return s.mode != modeList || s.filterOpen
}

func (s *QuestionsScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.filterOpen:
		return []layout.KeyHint{{Key: "Enter", Description: "Apply"}, {Key: "Esc", Description: "Cancel"}}
	case s.mode == modeDetail:
		return []layout.KeyHint{
			{Key: "E", Description: "Edit"},
			{Key: "D", Description: "Delete"},
			{Key: "PgUp/PgDn", Description: "Scroll"},
			{Key: "Esc", Description: "Back"},
		}
	case s.mode == modeConfirmDelete:
		return []layout.KeyHint{{Key: "Y", Description: "Delete"}, {Key: "N", Description: "Cancel"}}
	case s.mode == modeForm:
		return []layout.KeyHint{
			{Key: "Tab", Description: "Next field"},
			{Key: "Ctrl+S", Description: "Save"},
			{Key: "Esc", Description: "Cancel"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Open"},
		{Key: "A", Description: "Add"},
		{Key: "D", Description: "Delete"},
		{Key: "←→", Description: "Page"},
		{Key: "/", Description: "Filter"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *QuestionsScreen) load(skip int) tea.Cmd {
	if skip < 0 {
		skip = 0
	}
	s.loading = true
	bank, f, p := s.bank, api.Filter{Tags: s.tags}, api.Page{Skip: skip, Limit: s.pageSize}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		items, err := bank.List(ctx, f, p)
		return pageLoadedMsg{skip: skip, items: items, err: err}
	}
}

func (s *QuestionsScreen) current() *api.Question {
	if s.selected < 0 || s.selected >= len(s.items) {
		return nil
	}
	return &s.items[s.selected]
}

func (s *QuestionsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case pageLoadedMsg:
		s.loading = false
		s.loaded = true
		if msg.err != nil {
			s.errMsg = api.MessageOf(msg.err)
			return s, nil
		}
		if len(msg.items) == 0 && msg.skip > 0 {
			// Past the last page, e.g. after deleting its only row.
			return s, s.load(msg.skip - s.pageSize)
		}
		s.errMsg = ""
		s.items = msg.items
		s.skip = msg.skip
		if s.selected >= len(s.items) {
			s.selected = max(0, len(s.items)-1)
		}
		return s, nil

	case savedMsg:
		return s.handleSaved(msg)

	case deletedMsg:
		if msg.err != nil {
			s.errMsg = api.MessageOf(msg.err)
			s.mode = modeList
			return s, nil
		}
		s.notice = fmt.Sprintf("Deleted question #%d.", msg.id)
		s.mode = modeList
		return s, s.load(s.skip)

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}

	if s.mode == modeForm {
		return s, s.form.update(msg)
	}
	return s, nil
}

func (s *QuestionsScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.filterOpen {
		switch key {
		case "esc":
			s.filterOpen = false
			s.filter.Blur()
			return s, nil
		case "enter":
			s.filterOpen = false
			s.filter.Blur()
			s.tags = api.NormalizeTags(s.filter.Value())
			s.selected = 0
			return s, s.load(0)
		}
		var cmd tea.Cmd
		s.filter, cmd = s.filter.Update(msg)
		return s, cmd
	}

	switch s.mode {
	case modeForm:
		return s.handleFormKey(msg)

	case modeConfirmDelete:
		switch key {
		case "y", "Y":
			return s, s.deleteCurrent()
		case "n", "N", "esc":
			s.mode = modeList
		}
		return s, nil

	case modeDetail:
		switch key {
		case "esc":
			s.mode = modeList
		case "e":
			return s, s.openForm(s.current())
		case "d":
			s.mode = modeConfirmDelete
		case "pgup":
			s.vp.PageUp()
		case "pgdown":
			s.vp.PageDown()
		case "up", "k":
			s.vp.ScrollUp(1)
		case "down", "j":
			s.vp.ScrollDown(1)
		}
		return s, nil
	}

	s.notice = ""
	switch key {
	case "up", "k":
		if s.selected > 0 {
			s.selected--
		}
	case "down", "j":
		if s.selected < len(s.items)-1 {
			s.selected++
		}
	case "enter":
		if s.current() != nil {
			s.mode = modeDetail
			s.vp.GotoTop()
		}
	case "a":
		return s, s.openForm(nil)
	case "e":
		if q := s.current(); q != nil {
			return s, s.openForm(q)
		}
	case "d":
		if s.current() != nil {
			s.mode = modeConfirmDelete
		}
	case "right", "n":
		if len(s.items) == s.pageSize && !s.loading {
			s.selected = 0
			return s, s.load(s.skip + s.pageSize)
		}
	case "left", "p":
		if s.skip > 0 && !s.loading {
			s.selected = 0
			return s, s.load(s.skip - s.pageSize)
		}
	case "r":
		return s, s.load(s.skip)
	case "/":
		s.filterOpen = true
		return s, s.filter.Focus()
	}
	return s, nil
}

func (s *QuestionsScreen) deleteCurrent() tea.Cmd {
	q := s.current()
	if q == nil {
		s.mode = modeList
		return nil
	}
	bank, id := s.bank, q.ID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return deletedMsg{id: id, err: bank.Delete(ctx, id)}
	}
}

func (s *QuestionsScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	var body string
	switch s.mode {
	case modeForm:
		body = s.form.view(cw)
		if s.errMsg != "" {
			body += "\n" + theme.Bad.Render(s.errMsg)
		}
	case modeDetail:
		body = s.viewDetail(cw, height)
	default:
		body = s.viewList(cw)
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, body)
}

func (s *QuestionsScreen) viewList(cw int) string {
	var b strings.Builder
	b.WriteString("\n")

	if s.filterOpen {
		s.filter.SetWidth(cw - 10)
		b.WriteString(s.filter.View())
		b.WriteString("\n\n")
	} else if len(s.tags) > 0 {
		b.WriteString(theme.Hint.Render("Filter: " + strings.Join(s.tags, ", ")))
		b.WriteString("\n\n")
	}

	switch {
	case !s.loaded:
		b.WriteString(theme.Hint.Render("Loading questions..."))
	case len(s.items) == 0 && s.errMsg == "":
		b.WriteString(theme.Hint.Italic(true).Render("No questions yet. Press A to add one."))
	}

	for i, q := range s.items {
		line := fmt.Sprintf("#%-4d %-7s %s", q.ID, difficultyLabel(q.Difficulty), oneLine(q.Prompt, cw-20))
		if i == s.selected {
			b.WriteString(theme.Selected.Render("▸ " + line))
		} else {
			b.WriteString(theme.Unselected.Render("  " + line))
		}
		b.WriteString("\n")
		if i == s.selected && len(q.Tags) > 0 {
			b.WriteString(theme.Hint.Render("        " + strings.Join(q.Tags, ", ")))
			b.WriteString("\n")
		}
	}

	if s.loaded {
		b.WriteString("\n")
		page := s.skip/s.pageSize + 1
		b.WriteString(theme.Hint.Render(fmt.Sprintf("Page %d", page)))
	}

	if s.mode == modeConfirmDelete {
		if q := s.current(); q != nil {
			b.WriteString("\n\n")
			b.WriteString(theme.Bad.Render(fmt.Sprintf("Delete question #%d? (y/n)", q.ID)))
		}
	}
	if s.notice != "" {
		b.WriteString("\n\n")
		b.WriteString(theme.Good.Render(s.notice))
	}
	if s.errMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(theme.Bad.Render(s.errMsg))
	}
	return b.String()
}

func (s *QuestionsScreen) viewDetail(cw, height int) string {
	q := s.current()
	if q == nil {
		return s.viewList(cw)
	}

	var b strings.Builder
	meta := []string{fmt.Sprintf("#%d", q.ID), difficultyLabel(q.Difficulty)}
	if len(q.Tags) > 0 {
		meta = append(meta, strings.Join(q.Tags, ", "))
	}
	if !q.CreatedAt.IsZero() {
		meta = append(meta, "added "+q.CreatedAt.Local().Format("2006-01-02"))
	}
	b.WriteString(theme.Hint.Render(strings.Join(meta, " · ")))
	b.WriteString("\n\n")
	b.WriteString(theme.Subtitle.Render("Question"))
	b.WriteString("\n")
	b.WriteString(components.Markdown(q.Prompt, cw-2))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Render("Reference answer"))
	b.WriteString("\n")
	b.WriteString(components.Markdown(q.ReferenceAnswer, cw-2))

	s.vp.SetWidth(cw)
	s.vp.SetHeight(max(3, height-1))
	s.vp.SetContent(b.String())
	return s.vp.View()
}

func difficultyLabel(d api.Difficulty) string {
	if d == api.DifficultyUnset {
		return "-"
	}
	return d.String()
}

// oneLine collapses whitespace and truncates to width runes.
func oneLine(s string, width int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if width > 1 && len(r) > width {
		return string(r[:width-1]) + "…"
	}
	return s
}
