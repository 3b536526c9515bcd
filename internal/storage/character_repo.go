package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// CharacterOrder selects the sort column for List. Both sort descending.
type CharacterOrder string

const (
	OrderByPower    CharacterOrder = "power"
	OrderByProgress CharacterOrder = "progress"
)

type CharacterRepo struct {
	c conn
}

func NewCharacterRepo(q Querier, d Dialect) *CharacterRepo {
	return &CharacterRepo{c: conn{q: q, d: d}}
}

const characterColumns = `character_name, server_name, character_class, item_avg_level, combat_power, memo, week_gold_spent, updated_at`

// Get returns nil, nil when the character does not exist.
func (r *CharacterRepo) Get(ctx context.Context, name string) (*Character, error) {
	row := r.c.queryRow(ctx, `SELECT `+characterColumns+` FROM characters WHERE character_name = ?`, name)
	ch, err := scanCharacter(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("character get: %w", err)
	}
	return ch, nil
}

// Upsert writes the stat columns. Memo and spent gold of an existing row are kept.
func (r *CharacterRepo) Upsert(ctx context.Context, ch Character) error {
	_, err := r.c.exec(ctx, `
		INSERT INTO characters (character_name, server_name, character_class, item_avg_level, combat_power, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (character_name) DO UPDATE SET
			server_name = excluded.server_name,
			character_class = excluded.character_class,
			item_avg_level = excluded.item_avg_level,
			combat_power = excluded.combat_power,
			updated_at = excluded.updated_at
	`, ch.Name, ch.Server, ch.Class, ch.ItemLevel, ch.CombatPower, ch.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("character upsert: %w", err)
	}
	return nil
}

func (r *CharacterRepo) List(ctx context.Context, order CharacterOrder) ([]Character, error) {
	orderBy := "combat_power DESC, item_avg_level DESC"
	if order == OrderByProgress {
		orderBy = "item_avg_level DESC, combat_power DESC"
	}
	rows, err := r.c.query(ctx, `SELECT `+characterColumns+` FROM characters ORDER BY `+orderBy+`, character_name ASC`)
	if err != nil {
		return nil, fmt.Errorf("character list: %w", err)
	}
	defer rows.Close()

	var out []Character
	for rows.Next() {
		ch, err := scanCharacter(rows)
		if err != nil {
			return nil, fmt.Errorf("character scan: %w", err)
		}
		out = append(out, *ch)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("character rows: %w", err)
	}
	return out, nil
}

// Delete removes the character and its todos.
func (r *CharacterRepo) Delete(ctx context.Context, name string) error {
	if _, err := r.c.exec(ctx, `DELETE FROM todos WHERE character_name = ?`, name); err != nil {
		return fmt.Errorf("character delete todos: %w", err)
	}
	res, err := r.c.exec(ctx, `DELETE FROM characters WHERE character_name = ?`, name)
	if err != nil {
		return fmt.Errorf("character delete: %w", err)
	}
	return requireRow(res, "character delete")
}

func (r *CharacterRepo) UpdateMemo(ctx context.Context, name, memo string, at time.Time) error {
	res, err := r.c.exec(ctx, `UPDATE characters SET memo = ?, updated_at = ? WHERE character_name = ?`, memo, at.UTC(), name)
	if err != nil {
		return fmt.Errorf("character update memo: %w", err)
	}
	return requireRow(res, "character update memo")
}

func (r *CharacterRepo) UpdateSpentGold(ctx context.Context, name string, gold int, at time.Time) error {
	res, err := r.c.exec(ctx, `UPDATE characters SET week_gold_spent = ?, updated_at = ? WHERE character_name = ?`, gold, at.UTC(), name)
	if err != nil {
		return fmt.Errorf("character update spent gold: %w", err)
	}
	return requireRow(res, "character update spent gold")
}

func scanCharacter(row scanner) (*Character, error) {
	var ch Character
	if err := row.Scan(&ch.Name, &ch.Server, &ch.Class, &ch.ItemLevel, &ch.CombatPower, &ch.Memo, &ch.SpentGold, &ch.UpdatedAt); err != nil {
		return nil, err
	}
	return &ch, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func requireRow(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}
