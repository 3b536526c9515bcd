package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type TodoRepo struct {
	c conn
}

func NewTodoRepo(q Querier, d Dialect) *TodoRepo {
	return &TodoRepo{c: conn{q: q, d: d}}
}

const todoColumns = `id, character_name, task_name, category, current_count, total_count, reset_cycle, gold_reward, updated_at`

// Get returns nil, nil when the todo does not exist.
func (r *TodoRepo) Get(ctx context.Context, id int64) (*Todo, error) {
	row := r.c.queryRow(ctx, `SELECT `+todoColumns+` FROM todos WHERE id = ?`, id)
	t, err := scanTodo(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("todo get: %w", err)
	}
	return t, nil
}

// List returns todos ordered by id, for one character when name is non-nil.
func (r *TodoRepo) List(ctx context.Context, character *string) ([]Todo, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if character != nil {
		rows, err = r.c.query(ctx, `SELECT `+todoColumns+` FROM todos WHERE character_name = ? ORDER BY id ASC`, *character)
	} else {
		rows, err = r.c.query(ctx, `SELECT `+todoColumns+` FROM todos ORDER BY id ASC`)
	}
	if err != nil {
		return nil, fmt.Errorf("todo list: %w", err)
	}
	defer rows.Close()

	var out []Todo
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("todo scan: %w", err)
		}
		out = append(out, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("todo list rows: %w", err)
	}
	return out, nil
}

// Upsert inserts the todo or, when (character, task) exists, refreshes only its reward.
// Progress of an existing todo is never touched.
func (r *TodoRepo) Upsert(ctx context.Context, t Todo) error {
	_, err := r.c.exec(ctx, `
		INSERT INTO todos (character_name, task_name, category, current_count, total_count, reset_cycle, gold_reward, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (character_name, task_name) DO UPDATE SET gold_reward = excluded.gold_reward
	`, t.CharacterName, t.TaskName, t.Category, t.Current, t.Target, t.ResetCycle, t.Reward, t.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("todo upsert: %w", err)
	}
	return nil
}

// InsertIfAbsent reports whether a row was inserted.
func (r *TodoRepo) InsertIfAbsent(ctx context.Context, t Todo) (bool, error) {
	res, err := r.c.exec(ctx, `
		INSERT INTO todos (character_name, task_name, category, current_count, total_count, reset_cycle, gold_reward, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (character_name, task_name) DO NOTHING
	`, t.CharacterName, t.TaskName, t.Category, t.Current, t.Target, t.ResetCycle, t.Reward, t.UpdatedAt.UTC())
	if err != nil {
		return false, fmt.Errorf("todo insert: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("todo insert rows affected: %w", err)
	}
	return n > 0, nil
}

// DeleteNotIn deletes the character's todos of one category whose name is not kept.
// Rows of other categories are never touched.
func (r *TodoRepo) DeleteNotIn(ctx context.Context, character, category string, keep []string) (int64, error) {
	query := `DELETE FROM todos WHERE character_name = ? AND category = ?`
	args := []any{character, category}
	if len(keep) > 0 {
		query += ` AND task_name NOT IN (` + placeholders(len(keep)) + `)`
		for _, name := range keep {
			args = append(args, name)
		}
	}
	res, err := r.c.exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("todo delete not in: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("todo delete rows affected: %w", err)
	}
	return n, nil
}

func (r *TodoRepo) SetProgress(ctx context.Context, id int64, value int, at time.Time) error {
	res, err := r.c.exec(ctx, `UPDATE todos SET current_count = ?, updated_at = ? WHERE id = ?`, value, at.UTC(), id)
	if err != nil {
		return fmt.Errorf("todo set progress: %w", err)
	}
	return requireRow(res, "todo set progress")
}

// ResetStale zeroes started todos of a category last updated before the boundary.
func (r *TodoRepo) ResetStale(ctx context.Context, category string, before time.Time) (int64, error) {
	res, err := r.c.exec(ctx, `
		UPDATE todos
		SET current_count = 0
		WHERE category = ? AND current_count > 0 AND updated_at < ?
	`, category, before.UTC())
	if err != nil {
		return 0, fmt.Errorf("todo reset %s: %w", category, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("todo reset rows affected: %w", err)
	}
	return n, nil
}

func scanTodo(row scanner) (*Todo, error) {
	var t Todo
	if err := row.Scan(&t.ID, &t.CharacterName, &t.TaskName, &t.Category, &t.Current, &t.Target, &t.ResetCycle, &t.Reward, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}
