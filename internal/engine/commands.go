package engine

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/prk7048/LOA-AGENT/internal/storage"
)

func (s *Service) ListCharacters(ctx context.Context, order storage.CharacterOrder) ([]storage.Character, error) {
	return s.store.Repos().Characters.List(ctx, order)
}

// ListTasks returns every todo, or only one character's when name is non-empty.
func (s *Service) ListTasks(ctx context.Context, name string) ([]storage.Todo, error) {
	var filter *string
	if n := strings.TrimSpace(name); n != "" {
		filter = &n
	}
	return s.store.Repos().Todos.List(ctx, filter)
}

// SetTaskProgress sets a todo's progress, clamped to [0, target], and stamps it
// so the next reset only fires after the next boundary.
func (s *Service) SetTaskProgress(ctx context.Context, id int64, value int) (*storage.Todo, error) {
	return s.updateProgress(ctx, id, func(storage.Todo) int { return value })
}

// ToggleTask marks a todo fully done or clears it.
func (s *Service) ToggleTask(ctx context.Context, id int64, done bool) (*storage.Todo, error) {
	return s.updateProgress(ctx, id, func(t storage.Todo) int {
		if done {
			return t.Target
		}
		return 0
	})
}

func (s *Service) updateProgress(ctx context.Context, id int64, next func(storage.Todo) int) (*storage.Todo, error) {
	var out *storage.Todo
	err := s.store.WithTx(ctx, func(r storage.Repos) error {
		t, err := r.Todos.Get(ctx, id)
		if err != nil {
			return err
		}
		if t == nil {
			return fmt.Errorf("task %d: %w", id, ErrNotFound)
		}
		value := next(*t)
		if value < 0 {
			value = 0
		}
		if value > t.Target {
			value = t.Target
		}
		now := s.Now()
		if err := r.Todos.SetProgress(ctx, id, value, now); err != nil {
			return err
		}
		t.Current = value
		t.UpdatedAt = now
		out = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Debug("task progress set", zap.Int64("task", id), zap.Int("value", out.Current))
	return out, nil
}

func (s *Service) SetMemo(ctx context.Context, name, memo string) error {
	return s.store.Repos().Characters.UpdateMemo(ctx, strings.TrimSpace(name), memo, s.Now())
}

func (s *Service) SetSpentGold(ctx context.Context, name string, gold int) error {
	if gold < 0 {
		return ValidationError{Field: "spent_gold", Value: strconv.Itoa(gold), Err: errNegative}
	}
	return s.store.Repos().Characters.UpdateSpentGold(ctx, strings.TrimSpace(name), gold, s.Now())
}

// DeleteCharacter removes a character and all of its todos.
func (s *Service) DeleteCharacter(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	err := s.store.WithTx(ctx, func(r storage.Repos) error {
		return r.Characters.Delete(ctx, name)
	})
	if err != nil {
		return fmt.Errorf("delete character %s: %w", name, err)
	}
	s.log.Info("character deleted", zap.String("character", name))
	return nil
}

func (s *Service) ListExpeditions(ctx context.Context) ([]storage.ExpeditionTask, error) {
	return s.store.Repos().Expeditions.List(ctx)
}

// AddExpedition creates an account-wide task. intervalDays only matters for
// CycleInterval and is stored as 1 otherwise.
func (s *Service) AddExpedition(ctx context.Context, name string, cycle ResetCycle, intervalDays int) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, ValidationError{Field: "task_name", Value: name, Err: errEmpty}
	}
	if !cycle.IsValid() {
		return 0, ValidationError{Field: "reset_cycle", Value: string(cycle), Err: errUnknownValue}
	}
	if cycle != CycleInterval {
		intervalDays = 1
	}
	if intervalDays < 1 {
		return 0, ValidationError{Field: "interval_days", Value: strconv.Itoa(intervalDays), Err: fmt.Errorf("must be at least 1")}
	}
	return s.store.Repos().Expeditions.Add(ctx, name, string(cycle), intervalDays, s.Now())
}

func (s *Service) DeleteExpedition(ctx context.Context, id int64) error {
	return s.store.Repos().Expeditions.Delete(ctx, id)
}

func (s *Service) SetExpeditionChecked(ctx context.Context, id int64, checked bool) error {
	return s.store.Repos().Expeditions.SetChecked(ctx, id, checked, s.Now())
}

// EnsureDefaultExpeditions seeds DefaultExpeditions, leaving existing rows alone.
// It returns how many were created.
func (s *Service) EnsureDefaultExpeditions(ctx context.Context) (int, error) {
	now := s.Now()
	created := 0
	err := s.store.WithTx(ctx, func(r storage.Repos) error {
		for _, e := range DefaultExpeditions {
			ok, err := r.Expeditions.InsertIfAbsent(ctx, e.Name, string(e.Cycle), e.IntervalDays, now)
			if err != nil {
				return err
			}
			if ok {
				created++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}

// Setting reads one key. found is false when it was never set.
func (s *Service) Setting(ctx context.Context, key string) (string, bool, error) {
	return s.store.Repos().Settings.Get(ctx, strings.TrimSpace(key))
}

func (s *Service) SetSetting(ctx context.Context, key, value string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return ValidationError{Field: "setting_key", Value: key, Err: errEmpty}
	}
	value = strings.TrimSpace(value)
	if key == SettingTargetDate {
		if _, err := time.ParseInLocation(targetDateLayout, value, s.loc); err != nil {
			return ValidationError{Field: key, Value: value, Err: err}
		}
	}
	return s.store.Repos().Settings.Set(ctx, key, value)
}
