package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/RavenCaffeine/SeekJob-Helper/internal/api"
	"github.com/RavenCaffeine/SeekJob-Helper/internal/llm"
	"github.com/RavenCaffeine/SeekJob-Helper/internal/store"
)

const (
	maxListLimit = 100

	detailNoQuestion = "question does not exist"
	detailNoMatch    = "no question matches the filter"
)

// questionJSON is a question as served. Tags and difficulty are the
// stored column values, null when empty.
type questionJSON struct {
	ID         int     `json:"id"`
	Question   string  `json:"question"`
	Answer     string  `json:"answer"`
	Tags       *string `json:"tags"`
	Difficulty *string `json:"difficulty"`
	CreatedAt  string  `json:"created_at"`
	UpdatedAt  *string `json:"updated_at"`
}

func toQuestionJSON(row *store.QuestionRow) questionJSON {
	q := questionJSON{
		ID:        row.ID,
		Question:  row.Question,
		Answer:    row.Answer,
		CreatedAt: row.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
	if row.Tags != "" {
		q.Tags = &row.Tags
	}
	if row.Difficulty != "" {
		q.Difficulty = &row.Difficulty
	}
	if !row.UpdatedAt.IsZero() {
		u := row.UpdatedAt.UTC().Format(time.RFC3339Nano)
		q.UpdatedAt = &u
	}
	return q
}

// questionBody is the create and update payload. Pointers distinguish
// absent fields from empty ones.
type questionBody struct {
	Question   *string `json:"question"`
	Answer     *string `json:"answer"`
	Tags       *string `json:"tags"`
	Difficulty *string `json:"difficulty"`
}

// questionQuery reads the tags and difficulty filter parameters.
func questionQuery(r *http.Request) store.QuestionQuery {
	q := r.URL.Query()
	return store.QuestionQuery{
		Tags:       api.NormalizeTags(q["tags"]...),
		Difficulty: strings.TrimSpace(q.Get("difficulty")),
	}
}

func (s *Server) listQuestions(w http.ResponseWriter, r *http.Request) {
	var verr validationErrors
	query := questionQuery(r)
	query.Skip = queryInt(r, "skip", 0, &verr)
	query.Limit = queryInt(r, "limit", store.DefaultListLimit, &verr)
	if query.Skip < 0 {
		verr.add("query", "skip", "must be greater than or equal to 0")
	}
	if query.Limit < 1 || query.Limit > maxListLimit {
		verr.add("query", "limit", fmt.Sprintf("must be between 1 and %d", maxListLimit))
	}
	if verr.write(w) {
		return
	}

	rows, err := s.questions.List(r.Context(), query)
	if err != nil {
		s.internalError(w, "list questions", err)
		return
	}
	out := make([]questionJSON, 0, len(rows))
	for i := range rows {
		out = append(out, toQuestionJSON(&rows[i]))
	}
	JSON(w, http.StatusOK, out)
}

func (s *Server) randomQuestion(w http.ResponseWriter, r *http.Request) {
	row, err := s.questions.Random(r.Context(), questionQuery(r))
	if errors.Is(err, store.ErrNotFound) {
		Error(w, http.StatusNotFound, detailNoMatch)
		return
	}
	if err != nil {
		s.internalError(w, "random question", err)
		return
	}
	JSON(w, http.StatusOK, toQuestionJSON(row))
}

func (s *Server) getQuestion(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	row, ok := s.lookupQuestion(w, r, id, "get question")
	if !ok {
		return
	}
	JSON(w, http.StatusOK, toQuestionJSON(row))
}

func (s *Server) createQuestion(w http.ResponseWriter, r *http.Request) {
	var body questionBody
	if !decodeBody(w, r, &body) {
		return
	}

	var verr validationErrors
	requireText(&verr, "question", body.Question)
	requireText(&verr, "answer", body.Answer)
	if verr.write(w) {
		return
	}

	row, err := s.questions.Create(r.Context(), store.QuestionRow{
		Question:   *body.Question,
		Answer:     *body.Answer,
		Tags:       trimmed(body.Tags),
		Difficulty: trimmed(body.Difficulty),
	})
	if err != nil {
		s.internalError(w, "create question", err)
		return
	}
	s.log.Info("question created", "id", row.ID)
	JSON(w, http.StatusCreated, toQuestionJSON(row))
}

func (s *Server) updateQuestion(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var body questionBody
	if !decodeBody(w, r, &body) {
		return
	}

	var verr validationErrors
	if body.Question != nil {
		requireText(&verr, "question", body.Question)
	}
	if body.Answer != nil {
		requireText(&verr, "answer", body.Answer)
	}
	if verr.write(w) {
		return
	}

	patch := store.QuestionPatch{Question: body.Question, Answer: body.Answer}
	if body.Tags != nil {
		t := trimmed(body.Tags)
		patch.Tags = &t
	}
	if body.Difficulty != nil {
		d := trimmed(body.Difficulty)
		patch.Difficulty = &d
	}

	row, err := s.questions.Update(r.Context(), id, patch)
	if errors.Is(err, store.ErrNotFound) {
		Error(w, http.StatusNotFound, detailNoQuestion)
		return
	}
	if err != nil {
		s.internalError(w, "update question", err)
		return
	}
	JSON(w, http.StatusOK, toQuestionJSON(row))
}

func (s *Server) deleteQuestion(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	err := s.questions.Delete(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		Error(w, http.StatusNotFound, detailNoQuestion)
		return
	}
	if err != nil {
		s.internalError(w, "delete question", err)
		return
	}
	s.log.Info("question deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

type evaluateBody struct {
	QuestionID int    `json:"question_id"`
	UserAnswer string `json:"user_answer"`
}

type answerEvaluation struct {
	Score       float64  `json:"score"`
	Evaluation  string   `json:"evaluation"`
	Suggestions []string `json:"suggestions"`
}

func (s *Server) evaluateAnswer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var body evaluateBody
	if !decodeBody(w, r, &body) {
		return
	}
	var verr validationErrors
	if strings.TrimSpace(body.UserAnswer) == "" {
		verr.add("body", "user_answer", "answer must not be empty")
	}
	if verr.write(w) {
		return
	}

	row, ok := s.lookupQuestion(w, r, id, "evaluate answer")
	if !ok {
		return
	}

	ctx, cancel := s.llmContext(r.Context(), llm.PurposeEvaluate)
	defer cancel()

	resp, err := s.provider.Generate(ctx, llm.Request{
		System:   evaluationSystemPrompt,
		Messages: []llm.Message{{Role: llm.RoleUser, Content: evaluationPrompt(row.Question, row.Answer, body.UserAnswer)}},
		Schema:   answerEvaluationSchema,
	})
	if err != nil {
		s.llmError(w, r, "evaluate answer", err)
		return
	}

	var eval answerEvaluation
	if err := json.Unmarshal(resp.Content, &eval); err != nil {
		s.llmError(w, r, "evaluate answer", &llm.ErrInvalidResponse{Content: resp.Content, Err: err})
		return
	}

	JSON(w, http.StatusOK, api.Evaluation{
		QuestionID:      row.ID,
		UserAnswer:      body.UserAnswer,
		ReferenceAnswer: row.Answer,
		Score:           api.ClampScore(eval.Score),
		Comment:         eval.Evaluation,
		Suggestions:     eval.Suggestions,
	})
}

// lookupQuestion fetches id, writing a 404 or 500 when it cannot.
func (s *Server) lookupQuestion(w http.ResponseWriter, r *http.Request, id int, op string) (*store.QuestionRow, bool) {
	row, err := s.questions.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		Error(w, http.StatusNotFound, detailNoQuestion)
		return nil, false
	}
	if err != nil {
		s.internalError(w, op, err)
		return nil, false
	}
	return row, true
}

func (s *Server) internalError(w http.ResponseWriter, op string, err error) {
	s.log.Error("request failed", "op", op, "err", err)
	Error(w, http.StatusInternalServerError, fmt.Sprintf("%s failed: %v", op, err))
}

func requireText(v *validationErrors, field string, value *string) {
	if value == nil || strings.TrimSpace(*value) == "" {
		v.add("body", field, field+" must not be empty")
	}
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
