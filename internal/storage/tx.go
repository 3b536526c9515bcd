package storage

import (
	"context"
	"fmt"
)

// WithTx runs fn inside a SQL transaction with repositories bound to it.
// It commits when fn returns nil and rolls back on error or panic.
func (s *Store) WithTx(ctx context.Context, fn func(r Repos) error) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin tx: %v", ErrUnavailable, err)
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := fn(newRepos(tx, s.Dialect)); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit tx: %v", ErrUnavailable, err)
	}
	committed = true
	return nil
}
