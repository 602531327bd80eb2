package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// callRepo implements CallRepo on the api_calls table.
type callRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *callRepo) AppendCall(ctx context.Context, rec CallRecord) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := builder().Insert(callsTable).
		Columns("sequence", "timestamp", "op", "method", "path", "request_id",
			"status", "latency_ms", "response_bytes", "success", "error_kind", "error_message").
		Values(seqNum, time.Now().UTC(), rec.Op, rec.Method, rec.Path, rec.RequestID,
			rec.Status, rec.LatencyMs, rec.ResponseBytes, rec.Success, rec.ErrorKind, rec.ErrorMessage).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save api call: %w", err)
	}
	return nil
}

func (r *callRepo) RecentCalls(ctx context.Context, opts QueryOpts) ([]CallRecord, error) {
	b := builder()
	sel := b.Select("id", "sequence", "timestamp", "op", "method", "path", "request_id",
		"status", "latency_ms", "response_bytes", "success", "error_kind", "error_message").
		From(b.Table(callsTable)).
		OrderBy(entsql.Desc("sequence"))
	if opts.Op != "" {
		sel.Where(entsql.EQ("op", opts.Op))
	}
	if !opts.Since.IsZero() {
		sel.Where(entsql.GTE("timestamp", opts.Since.UTC()))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query api calls: %w", err)
	}
	defer rows.Close()

	var out []CallRecord
	for rows.Next() {
		var c CallRecord
		if err := rows.Scan(&c.ID, &c.Sequence, &c.Timestamp, &c.Op, &c.Method, &c.Path, &c.RequestID,
			&c.Status, &c.LatencyMs, &c.ResponseBytes, &c.Success, &c.ErrorKind, &c.ErrorMessage); err != nil {
			return nil, fmt.Errorf("scan api call: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *callRepo) CallStats(ctx context.Context) ([]CallStat, error) {
	b := builder()
	query, args := b.Select(
		"op",
		entsql.As(entsql.Count("*"), "calls"),
		entsql.As("SUM(CASE WHEN success THEN 0 ELSE 1 END)", "failures"),
		entsql.As("CAST(AVG(latency_ms) AS INTEGER)", "avg_latency"),
		entsql.As(entsql.Max("latency_ms"), "max_latency"),
	).
		From(b.Table(callsTable)).
		GroupBy("op").
		OrderBy("op").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query call stats: %w", err)
	}
	defer rows.Close()

	var out []CallStat
	for rows.Next() {
		var s CallStat
		if err := rows.Scan(&s.Op, &s.Calls, &s.Failures, &s.AvgLatencyMs, &s.MaxLatencyMs); err != nil {
			return nil, fmt.Errorf("scan call stats: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
