package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type SettingRepo struct {
	c conn
}

func NewSettingRepo(q Querier, d Dialect) *SettingRepo {
	return &SettingRepo{c: conn{q: q, d: d}}
}

// Get reports found=false when the key has never been set.
func (r *SettingRepo) Get(ctx context.Context, key string) (string, bool, error) {
	row := r.c.queryRow(ctx, `SELECT setting_value FROM app_settings WHERE setting_key = ?`, key)
	var v string
	if err := row.Scan(&v); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("setting get: %w", err)
	}
	return v, true, nil
}

func (r *SettingRepo) Set(ctx context.Context, key, value string) error {
	_, err := r.c.exec(ctx, `
		INSERT INTO app_settings (setting_key, setting_value) VALUES (?, ?)
		ON CONFLICT (setting_key) DO UPDATE SET setting_value = excluded.setting_value
	`, key, value)
	if err != nil {
		return fmt.Errorf("setting upsert: %w", err)
	}
	return nil
}
