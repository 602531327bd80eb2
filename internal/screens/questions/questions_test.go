package questions

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/RavenCaffeine/SeekJob-Helper/internal/api"
	"github.com/RavenCaffeine/SeekJob-Helper/internal/screens/screentest"
)

func row(id int, prompt string) map[string]any {
	return map[string]any{
		"id":         id,
		"question":   prompt,
		"answer":     "answer " + prompt,
		"tags":       "go",
		"difficulty": "简单",
	}
}

func page(rows ...map[string]any) api.MockResponse {
	if rows == nil {
		rows = []map[string]any{}
	}
	return api.MockResponse{Body: rows}
}

func loaded(t *testing.T, pageSize int, responses ...api.MockResponse) (*QuestionsScreen, *api.MockTransport) {
	t.Helper()
	mt := api.NewMockTransport(responses...)
	s := New(api.NewClient(mt), pageSize)
	screentest.Run(s, s.Init(), 2)
	if !s.loaded {
		t.Fatal("first page did not load")
	}
	return s, mt
}

func TestListShowsFirstPage(t *testing.T) {
	s, mt := loaded(t, 2, page(row(1, "What is a goroutine?"), row(2, "Explain defer")))

	if len(s.items) != 2 {
		t.Fatalf("items = %d, want 2", len(s.items))
	}
	if got := mt.LastCall().Query.Get("limit"); got != "2" {
		t.Errorf("limit = %q, want 2", got)
	}
	view := s.View(100, 30)
	for _, want := range []string{"What is a goroutine?", "Explain defer", "Page 1"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestPaging(t *testing.T) {
	s, mt := loaded(t, 2,
		page(row(1, "a"), row(2, "b")),
		page(row(3, "c")),
		page(row(1, "a"), row(2, "b")),
	)

	_, cmd := screentest.Press(s, "right")
	screentest.Run(s, cmd, 2)
	if s.skip != 2 || len(s.items) != 1 {
		t.Fatalf("skip=%d items=%d after next page", s.skip, len(s.items))
	}
	if got := mt.LastCall().Query.Get("skip"); got != "2" {
		t.Errorf("skip query = %q", got)
	}

	// A short page is the last one.
	_, cmd = screentest.Press(s, "right")
	if cmd != nil {
		t.Error("next page past a short page should be a no-op")
	}

	_, cmd = screentest.Press(s, "left")
	screentest.Run(s, cmd, 2)
	if s.skip != 0 || len(s.items) != 2 {
		t.Errorf("skip=%d items=%d after previous page", s.skip, len(s.items))
	}
}

func TestDetailCapturesEsc(t *testing.T) {
	s, _ := loaded(t, 10, page(row(1, "What is a goroutine?")))

	if s.CapturesEsc() {
		t.Fatal("list mode should let Esc leave the screen")
	}
	s.Update(screentest.Key("enter"))
	if s.mode != modeDetail || !s.CapturesEsc() {
		t.Fatal("enter should open the detail view")
	}
	if view := s.View(100, 30); !strings.Contains(view, "answer What is a goroutine?") {
		t.Errorf("detail view missing the reference answer:\n%s", view)
	}
	s.Update(screentest.Key("esc"))
	if s.mode != modeList {
		t.Error("esc should return to the list")
	}
}

func TestDeleteConfirm(t *testing.T) {
	s, mt := loaded(t, 10,
		page(row(1, "a"), row(2, "b")),
		api.MockResponse{Status: 204},
		page(row(1, "a")),
	)

	s.Update(screentest.Key("down"))
	s.Update(screentest.Key("d"))
	if s.mode != modeConfirmDelete {
		t.Fatal("d should ask for confirmation")
	}

	_, cmd := screentest.Press(s, "n")
	if cmd != nil || s.mode != modeList {
		t.Fatal("n should cancel the delete")
	}

	s.Update(screentest.Key("d"))
	_, cmd = screentest.Press(s, "y")
	screentest.Run(s, cmd, 3)

	deleted := false
	for _, c := range mt.Calls {
		if c.Method == "DELETE" && c.Path == "/questions/2" {
			deleted = true
		}
	}
	if !deleted {
		t.Fatal("no DELETE /questions/2 call")
	}
	if len(s.items) != 1 || s.selected != 0 {
		t.Errorf("items=%d selected=%d after delete", len(s.items), s.selected)
	}
	if !strings.Contains(s.notice, "#2") {
		t.Errorf("notice = %q", s.notice)
	}
}

func TestAddQuestion(t *testing.T) {
	s, mt := loaded(t, 10,
		page(),
		api.MockResponse{Status: 201, Body: row(7, "What is a channel?")},
		page(row(7, "What is a channel?")),
	)

	s.Update(screentest.Key("a"))
	if s.mode != modeForm || !s.CapturesEsc() {
		t.Fatal("a should open the form")
	}

	// Saving an empty form is rejected locally.
	_, cmd := screentest.Press(s, "ctrl+s")
	if cmd != nil || s.errMsg == "" {
		t.Fatal("empty form should not be sent")
	}

	screentest.Type(s, "What is a channel?")
	s.Update(screentest.Key("tab"))
	screentest.Type(s, "A typed conduit.")
	s.Update(screentest.Key("tab"))
	screentest.Type(s, "go, concurrency")
	s.Update(screentest.Key("tab"))
	s.Update(screentest.Key("right"))
	s.Update(screentest.Key("right"))

	_, cmd = screentest.Press(s, "ctrl+s")
	screentest.Run(s, cmd, 3)

	var create *api.Call
	for i := range mt.Calls {
		if mt.Calls[i].Method == "POST" {
			create = &mt.Calls[i]
		}
	}
	if create == nil {
		t.Fatal("no create call")
	}
	body, err := json.Marshal(create.Body)
	if err != nil {
		t.Fatal(err)
	}
	var sent map[string]string
	if err := json.Unmarshal(body, &sent); err != nil {
		t.Fatal(err)
	}
	if sent["question"] != "What is a channel?" || sent["answer"] != "A typed conduit." {
		t.Errorf("sent = %v", sent)
	}
	if sent["tags"] != "go,concurrency" || sent["difficulty"] != "中等" {
		t.Errorf("sent tags/difficulty = %q/%q", sent["tags"], sent["difficulty"])
	}
	if s.mode != modeList || len(s.items) != 1 {
		t.Errorf("mode=%d items=%d after save", s.mode, len(s.items))
	}
}

func TestEditPrefillsForm(t *testing.T) {
	s, _ := loaded(t, 10, page(row(4, "Explain defer")))
	s.Update(screentest.Key("e"))

	if s.form == nil || s.form.editing == nil || s.form.editing.ID != 4 {
		t.Fatal("e should open the edit form for the selected question")
	}
	if got := s.form.prompt.Value(); got != "Explain defer" {
		t.Errorf("prompt = %q", got)
	}
	if got := s.form.selectedDifficulty(); got != api.DifficultyEasy {
		t.Errorf("difficulty = %v, want Easy", got)
	}
}

func TestTagFilter(t *testing.T) {
	s, mt := loaded(t, 10, page(row(1, "a")), page())

	s.Update(screentest.Key("/"))
	if !s.CapturesEsc() {
		t.Fatal("open filter should capture Esc")
	}
	screentest.Type(s, "go，db")
	_, cmd := screentest.Press(s, "enter")
	screentest.Run(s, cmd, 2)

	if got := mt.LastCall().Query.Get("tags"); got != "go,db" {
		t.Errorf("tags query = %q, want go,db", got)
	}
	if view := s.View(100, 30); !strings.Contains(view, "No questions yet") {
		t.Errorf("empty result not shown:\n%s", view)
	}
}

func TestOneLine(t *testing.T) {
	if got := oneLine("a\n  b   c", 20); got != "a b c" {
		t.Errorf("oneLine = %q", got)
	}
	if got := oneLine("abcdefghij", 5); got != "abcd…" {
		t.Errorf("oneLine = %q", got)
	}
}
