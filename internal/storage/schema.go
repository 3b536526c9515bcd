package storage

import (
	"context"
	"fmt"
	"strings"
)

type columnTypes struct {
	id    string
	float string
	time  string
	bool  string
}

func (d Dialect) columnTypes() columnTypes {
	if d == DialectPostgres {
		return columnTypes{id: "BIGSERIAL PRIMARY KEY", float: "DOUBLE PRECISION", time: "TIMESTAMPTZ", bool: "BOOLEAN"}
	}
	return columnTypes{id: "INTEGER PRIMARY KEY AUTOINCREMENT", float: "REAL", time: "DATETIME", bool: "BOOLEAN"}
}

func (d Dialect) schema() []string {
	ct := d.columnTypes()
	r := strings.NewReplacer("{id}", ct.id, "{float}", ct.float, "{time}", ct.time, "{bool}", ct.bool)
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS characters (
			character_name TEXT PRIMARY KEY,
			server_name TEXT NOT NULL DEFAULT '',
			character_class TEXT NOT NULL DEFAULT '',
			item_avg_level {float} NOT NULL DEFAULT 0,
			combat_power {float} NOT NULL DEFAULT 0,
			memo TEXT NOT NULL DEFAULT '',
			week_gold_spent INTEGER NOT NULL DEFAULT 0,
			updated_at {time} NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS todos (
			id {id},
			character_name TEXT NOT NULL REFERENCES characters(character_name) ON DELETE CASCADE,
			task_name TEXT NOT NULL,
			category TEXT NOT NULL,
			current_count INTEGER NOT NULL DEFAULT 0 CHECK (current_count >= 0),
			total_count INTEGER NOT NULL DEFAULT 1 CHECK (total_count >= 1),
			reset_cycle TEXT NOT NULL,
			gold_reward INTEGER NOT NULL DEFAULT 0 CHECK (gold_reward >= 0),
			updated_at {time} NOT NULL,
			UNIQUE (character_name, task_name)
		);`,
		`CREATE TABLE IF NOT EXISTS expedition_tasks (
			id {id},
			task_name TEXT NOT NULL UNIQUE,
			is_checked {bool} NOT NULL DEFAULT FALSE,
			reset_cycle TEXT NOT NULL,
			interval_days INTEGER NOT NULL DEFAULT 1 CHECK (interval_days >= 1),
			updated_at {time} NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS app_settings (
			setting_key TEXT PRIMARY KEY,
			setting_value TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_todos_category_updated_at ON todos(category, updated_at);`,
		`CREATE INDEX IF NOT EXISTS idx_todos_character_name ON todos(character_name);`,
	}
	for i := range stmts {
		stmts[i] = r.Replace(stmts[i])
	}
	return stmts
}

// Migrate creates the schema. Safe to run on every start.
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range s.Dialect.schema() {
		if _, err := s.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
