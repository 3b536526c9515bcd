package storage

import (
	"context"
	"fmt"
	"time"
)

type ExpeditionRepo struct {
	c conn
}

func NewExpeditionRepo(q Querier, d Dialect) *ExpeditionRepo {
	return &ExpeditionRepo{c: conn{q: q, d: d}}
}

func (r *ExpeditionRepo) Add(ctx context.Context, name, cycle string, intervalDays int, at time.Time) (int64, error) {
	var id int64
	err := r.c.queryRow(ctx, `
		INSERT INTO expedition_tasks (task_name, is_checked, reset_cycle, interval_days, updated_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id
	`, name, false, cycle, intervalDays, at.UTC()).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("expedition insert: %w", err)
	}
	return id, nil
}

// InsertIfAbsent reports whether a row was inserted.
func (r *ExpeditionRepo) InsertIfAbsent(ctx context.Context, name, cycle string, intervalDays int, at time.Time) (bool, error) {
	res, err := r.c.exec(ctx, `
		INSERT INTO expedition_tasks (task_name, is_checked, reset_cycle, interval_days, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (task_name) DO NOTHING
	`, name, false, cycle, intervalDays, at.UTC())
	if err != nil {
		return false, fmt.Errorf("expedition insert: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("expedition insert rows affected: %w", err)
	}
	return n > 0, nil
}

func (r *ExpeditionRepo) List(ctx context.Context) ([]ExpeditionTask, error) {
	rows, err := r.c.query(ctx, `
		SELECT id, task_name, is_checked, reset_cycle, interval_days, updated_at
		FROM expedition_tasks
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("expedition list: %w", err)
	}
	defer rows.Close()

	var out []ExpeditionTask
	for rows.Next() {
		var e ExpeditionTask
		if err := rows.Scan(&e.ID, &e.Name, &e.Checked, &e.ResetCycle, &e.IntervalDays, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("expedition scan: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("expedition rows: %w", err)
	}
	return out, nil
}

func (r *ExpeditionRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.c.exec(ctx, `DELETE FROM expedition_tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("expedition delete: %w", err)
	}
	return requireRow(res, "expedition delete")
}

// SetChecked records a user toggle and stamps updated_at.
func (r *ExpeditionRepo) SetChecked(ctx context.Context, id int64, checked bool, at time.Time) error {
	res, err := r.c.exec(ctx, `UPDATE expedition_tasks SET is_checked = ?, updated_at = ? WHERE id = ?`, checked, at.UTC(), id)
	if err != nil {
		return fmt.Errorf("expedition set checked: %w", err)
	}
	return requireRow(res, "expedition set checked")
}

// Uncheck clears the flag for a scheduled reset; updated_at is left as is.
func (r *ExpeditionRepo) Uncheck(ctx context.Context, id int64) error {
	res, err := r.c.exec(ctx, `UPDATE expedition_tasks SET is_checked = ? WHERE id = ?`, false, id)
	if err != nil {
		return fmt.Errorf("expedition uncheck: %w", err)
	}
	return requireRow(res, "expedition uncheck")
}
