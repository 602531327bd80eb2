package api

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"
)

// Difficulty is the difficulty level attached to a practice question.
type Difficulty int

const (
	DifficultyUnset Difficulty = iota
	DifficultyEasy
	DifficultyMedium
	DifficultyHard
)

// Difficulties lists the selectable levels in order.
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

func (d Difficulty) String() string {
	switch d {
	case DifficultyEasy:
		return "Easy"
	case DifficultyMedium:
		return "Medium"
	case DifficultyHard:
		return "Hard"
	default:
		return "Unset"
	}
}

// WireValue returns the label stored by the question bank service.
func (d Difficulty) WireValue() string {
	switch d {
	case DifficultyEasy:
		return "简单"
	case DifficultyMedium:
		return "中等"
	case DifficultyHard:
		return "困难"
	default:
		return ""
	}
}

// ParseDifficulty accepts English names (any case) and the service labels.
// Anything else yields DifficultyUnset.
func ParseDifficulty(s string) Difficulty {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy", "简单":
		return DifficultyEasy
	case "medium", "中等":
		return DifficultyMedium
	case "hard", "困难":
		return DifficultyHard
	default:
		return DifficultyUnset
	}
}

// NormalizeTags trims, drops empties and de-duplicates tags, preserving
// first-seen order. Both ASCII and full-width commas separate tags.
func NormalizeTags(tags ...string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, raw := range tags {
		for _, t := range strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == '，' }) {
			t = strings.TrimSpace(t)
			if t == "" || seen[t] {
				continue
			}
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}

// Question is a practice question from the bank.
type Question struct {
	ID              int
	Prompt          string
	ReferenceAnswer string
	Tags            []string
	Difficulty      Difficulty
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type questionWire struct {
	ID         int     `json:"id"`
	Question   string  `json:"question"`
	Answer     string  `json:"answer"`
	Tags       *string `json:"tags"`
	Difficulty *string `json:"difficulty"`
	CreatedAt  string  `json:"created_at,omitempty"`
	UpdatedAt  *string `json:"updated_at"`
}

func (q Question) MarshalJSON() ([]byte, error) {
	w := questionWire{
		ID:       q.ID,
		Question: q.Prompt,
		Answer:   q.ReferenceAnswer,
	}
	if len(q.Tags) > 0 {
		tags := strings.Join(q.Tags, ",")
		w.Tags = &tags
	}
	if d := q.Difficulty.WireValue(); d != "" {
		w.Difficulty = &d
	}
	if !q.CreatedAt.IsZero() {
		w.CreatedAt = q.CreatedAt.UTC().Format(time.RFC3339Nano)
	}
	if !q.UpdatedAt.IsZero() {
		u := q.UpdatedAt.UTC().Format(time.RFC3339Nano)
		w.UpdatedAt = &u
	}
	return json.Marshal(w)
}

func (q *Question) UnmarshalJSON(data []byte) error {
	var w questionWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*q = Question{
		ID:              w.ID,
		Prompt:          w.Question,
		ReferenceAnswer: w.Answer,
	}
	if w.Tags != nil {
		q.Tags = NormalizeTags(*w.Tags)
	}
	if w.Difficulty != nil {
		q.Difficulty = ParseDifficulty(*w.Difficulty)
	}
	if w.CreatedAt != "" {
		t, err := ParseTimestamp(w.CreatedAt)
		if err != nil {
			return fmt.Errorf("created_at: %w", err)
		}
		q.CreatedAt = t
	}
	if w.UpdatedAt != nil && *w.UpdatedAt != "" {
		t, err := ParseTimestamp(*w.UpdatedAt)
		if err != nil {
			return fmt.Errorf("updated_at: %w", err)
		}
		q.UpdatedAt = t
	}
	return nil
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// ParseTimestamp parses the timestamp formats the service emits. Values
// without a zone are taken as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// QuestionDraft is the payload for creating a question.
type QuestionDraft struct {
	Prompt          string
	ReferenceAnswer string
	Tags            []string
	Difficulty      Difficulty
}

func (d QuestionDraft) MarshalJSON() ([]byte, error) {
	w := struct {
		Question   string  `json:"question"`
		Answer     string  `json:"answer"`
		Tags       *string `json:"tags,omitempty"`
		Difficulty *string `json:"difficulty,omitempty"`
	}{Question: d.Prompt, Answer: d.ReferenceAnswer}
	if tags := NormalizeTags(d.Tags...); len(tags) > 0 {
		s := strings.Join(tags, ",")
		w.Tags = &s
	}
	if v := d.Difficulty.WireValue(); v != "" {
		w.Difficulty = &v
	}
	return json.Marshal(w)
}

// QuestionUpdate is a partial update; nil fields are left untouched.
type QuestionUpdate struct {
	Prompt          *string
	ReferenceAnswer *string
	Tags            []string
	Difficulty      *Difficulty
}

func (u QuestionUpdate) MarshalJSON() ([]byte, error) {
	m := make(map[string]any)
	if u.Prompt != nil {
		m["question"] = *u.Prompt
	}
	if u.ReferenceAnswer != nil {
		m["answer"] = *u.ReferenceAnswer
	}
	if u.Tags != nil {
		m["tags"] = strings.Join(NormalizeTags(u.Tags...), ",")
	}
	if u.Difficulty != nil {
		m["difficulty"] = u.Difficulty.WireValue()
	}
	return json.Marshal(m)
}

// Filter narrows question selection. Zero value matches everything.
type Filter struct {
	Tags       []string
	Difficulty Difficulty
}

// Page selects a window of a question listing.
type Page struct {
	Skip  int
	Limit int
}

// Evaluation is the graded result of one practice answer.
type Evaluation struct {
	QuestionID      int      `json:"question_id"`
	UserAnswer      string   `json:"user_answer"`
	ReferenceAnswer string   `json:"standard_answer"`
	Score           float64  `json:"score"`
	Comment         string   `json:"evaluation"`
	Suggestions     []string `json:"suggestions"`
}

// ClampScore bounds a score to the 0-10 scale.
func ClampScore(s float64) float64 {
	if math.IsNaN(s) {
		return 0
	}
	return math.Max(0, math.Min(10, s))
}

// HistoryItem is one exchange as it travels on the wire.
type HistoryItem struct {
	User      string  `json:"user"`
	AI        string  `json:"ai"`
	Timestamp float64 `json:"timestamp"`
	Greeting  bool    `json:"greeting,omitempty"`
}

// Time decodes the timestamp. Browser clients send milliseconds and the
// service writes seconds, so large values are read as milliseconds.
func (h HistoryItem) Time() time.Time {
	if h.Timestamp <= 0 {
		return time.Time{}
	}
	if h.Timestamp > 1e11 {
		return time.UnixMilli(int64(h.Timestamp))
	}
	sec, frac := math.Modf(h.Timestamp)
	return time.Unix(int64(sec), int64(frac*1e9))
}

// WireTimestamp encodes t in milliseconds.
func WireTimestamp(t time.Time) float64 {
	if t.IsZero() {
		return 0
	}
	return float64(t.UnixMilli())
}

// ChatRequest is one interview turn.
type ChatRequest struct {
	Message string        `json:"message"`
	Topic   string        `json:"interview_topic,omitempty"`
	History []HistoryItem `json:"conversation_history"`
}

// ChatResponse carries the authoritative transcript after a turn.
type ChatResponse struct {
	AIMessage  string        `json:"ai_message"`
	History    []HistoryItem `json:"conversation_history"`
	IsComplete bool          `json:"is_complete"`
}

// OptimizeRequest asks for a resume rewrite.
type OptimizeRequest struct {
	ResumeText string `json:"resume_text"`
	Position   string `json:"position,omitempty"`
}

// OptimizeResult is the optimized resume with suggestions and a score.
type OptimizeResult struct {
	Original    string   `json:"original_resume"`
	Optimized   string   `json:"optimized_resume"`
	Suggestions []string `json:"suggestions"`
	Score       float64  `json:"score"`
}

// Health is the service's root status document.
type Health struct {
	Message string `json:"message"`
	Version string `json:"version"`
	Docs    string `json:"docs"`
}
