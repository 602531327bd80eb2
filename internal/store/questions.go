package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// DefaultListLimit applies when a listing asks for no limit.
const DefaultListLimit = 10

var questionColumns = []string{"id", "question", "answer", "tags", "difficulty", "created_at", "updated_at"}

// questionRepo implements QuestionRepo on the questions table.
type questionRepo struct {
	db *sql.DB
}

func (r *questionRepo) List(ctx context.Context, q QuestionQuery) ([]QuestionRow, error) {
	b := builder()
	sel := b.Select(questionColumns...).From(b.Table(questionsTable)).OrderBy("id")
	applyQuestionFilter(sel, q)

	limit := q.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	sel.Limit(limit)
	if q.Skip > 0 {
		sel.Offset(q.Skip)
	}

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	defer rows.Close()

	out := []QuestionRow{}
	for rows.Next() {
		row, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *row)
	}
	return out, rows.Err()
}

func (r *questionRepo) Random(ctx context.Context, q QuestionQuery) (*QuestionRow, error) {
	b := builder()
	sel := b.Select("id").From(b.Table(questionsTable))
	applyQuestionFilter(sel, q)

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query question ids: %w", err)
	}
	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan question id: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return nil, ErrNotFound
	}
	return r.Get(ctx, ids[rand.IntN(len(ids))])
}

func (r *questionRepo) Get(ctx context.Context, id int) (*QuestionRow, error) {
	b := builder()
	query, args := b.Select(questionColumns...).
		From(b.Table(questionsTable)).
		Where(entsql.EQ("id", id)).
		Query()

	row, err := scanQuestion(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return row, err
}

func (r *questionRepo) Create(ctx context.Context, row QuestionRow) (*QuestionRow, error) {
	now := time.Now().UTC()
	query, args := builder().Insert(questionsTable).
		Columns("question", "answer", "tags", "difficulty", "created_at", "updated_at").
		Values(row.Question, row.Answer, nullable(row.Tags), nullable(row.Difficulty), now, now).
		Query()

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("save question: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("question id: %w", err)
	}
	return r.Get(ctx, int(id))
}

func (r *questionRepo) Update(ctx context.Context, id int, p QuestionPatch) (*QuestionRow, error) {
	upd := builder().Update(questionsTable).Set("updated_at", time.Now().UTC())
	if p.Question != nil {
		upd.Set("question", *p.Question)
	}
	if p.Answer != nil {
		upd.Set("answer", *p.Answer)
	}
	if p.Tags != nil {
		upd.Set("tags", nullable(*p.Tags))
	}
	if p.Difficulty != nil {
		upd.Set("difficulty", nullable(*p.Difficulty))
	}

	query, args := upd.Where(entsql.EQ("id", id)).Query()
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("update question %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return r.Get(ctx, id)
}

func (r *questionRepo) Delete(ctx context.Context, id int) error {
	query, args := builder().Delete(questionsTable).Where(entsql.EQ("id", id)).Query()
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete question %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *questionRepo) Count(ctx context.Context) (int, error) {
	b := builder()
	query, args := b.Select(entsql.Count("*")).From(b.Table(questionsTable)).Query()
	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count questions: %w", err)
	}
	return n, nil
}

func applyQuestionFilter(sel *entsql.Selector, q QuestionQuery) {
	for _, tag := range q.Tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		sel.Where(entsql.ContainsFold("tags", tag))
	}
	if q.Difficulty != "" {
		sel.Where(entsql.EQ("difficulty", q.Difficulty))
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuestion(s rowScanner) (*QuestionRow, error) {
	var (
		row        QuestionRow
		tags, diff sql.NullString
	)
	if err := s.Scan(&row.ID, &row.Question, &row.Answer, &tags, &diff, &row.CreatedAt, &row.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan question: %w", err)
	}
	row.Tags = tags.String
	row.Difficulty = diff.String
	return &row, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
