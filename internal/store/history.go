package store

import (
	"context"
	"database/sql"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

type historyRepo struct {
	drv *entsql.Driver
}

func (r *historyRepo) Record(ctx context.Context, rec HistoryRecord) error {
	q, args := builder.Insert(LearnSessionsTable.Name).
		Columns("session_id", "category_path", "started_at", "ended_at", "passed", "failed", "skipped", "relearned").
		Values(rec.SessionID, rec.CategoryPath, rec.Start, rec.End, rec.Passed, rec.Failed, rec.Skipped, rec.Relearned).
		Query()
	var res sql.Result
	if err := r.drv.Exec(ctx, q, args, &res); err != nil {
		return fmt.Errorf("save learn session: %w", err)
	}
	return nil
}

func (r *historyRepo) List(ctx context.Context, opts QueryOpts) ([]HistoryRecord, error) {
	sel := builder.Select(
		"id", "session_id", "category_path", "started_at", "ended_at",
		"passed", "failed", "skipped", "relearned",
	).From(entsql.Table(LearnSessionsTable.Name))

	if !opts.From.IsZero() {
		sel.Where(entsql.GTE("started_at", opts.From))
	}
	if !opts.To.IsZero() {
		sel.Where(entsql.LTE("started_at", opts.To))
	}
	if opts.CategoryPath != "" {
		sel.Where(entsql.EQ("category_path", opts.CategoryPath))
	}
	sel.OrderBy(entsql.Desc("started_at"), entsql.Desc("id"))
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}

	q, args := sel.Query()
	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, q, args, rows); err != nil {
		return nil, fmt.Errorf("query learn sessions: %w", err)
	}
	defer rows.Close()

	var out []HistoryRecord
	for rows.Next() {
		var rec HistoryRecord
		if err := rows.Scan(
			&rec.ID, &rec.SessionID, &rec.CategoryPath, &rec.Start, &rec.End,
			&rec.Passed, &rec.Failed, &rec.Skipped, &rec.Relearned,
		); err != nil {
			return nil, fmt.Errorf("scan learn session: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate learn sessions: %w", err)
	}
	return out, nil
}
