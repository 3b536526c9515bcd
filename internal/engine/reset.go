package engine

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/prk7048/LOA-AGENT/internal/storage"
)

// ApplyResets reverts every todo and expedition task whose cycle boundary has
// passed since it was last updated. It returns one line per category that had
// resets, in daily, weekly, expedition order. The whole pass runs in a single
// transaction: on error nothing is written and the log is nil.
func (s *Service) ApplyResets(ctx context.Context, now time.Time) ([]string, error) {
	b := LastResetBoundaries(now, s.loc)

	var daily, weekly, expedition int64
	err := s.store.WithTx(ctx, func(r storage.Repos) error {
		var err error
		if daily, err = r.Todos.ResetStale(ctx, string(CategoryDaily), b.Daily); err != nil {
			return err
		}
		if weekly, err = r.Todos.ResetStale(ctx, string(CategoryWeekly), b.Weekly); err != nil {
			return err
		}

		tasks, err := r.Expeditions.List(ctx)
		if err != nil {
			return err
		}
		for _, t := range tasks {
			if !t.Checked || !expeditionDue(t, b, now) {
				continue
			}
			if err := r.Expeditions.Uncheck(ctx, t.ID); err != nil {
				return err
			}
			expedition++
		}
		return nil
	})
	if err != nil {
		s.log.Error("apply resets", zap.Time("now", now), zap.Error(err))
		return nil, fmt.Errorf("apply resets: %w", err)
	}

	var out []string
	if daily > 0 {
		out = append(out, fmt.Sprintf("Daily tasks reset: %d", daily))
	}
	if weekly > 0 {
		out = append(out, fmt.Sprintf("Weekly tasks reset: %d", weekly))
	}
	if expedition > 0 {
		out = append(out, fmt.Sprintf("Expedition tasks reset: %d", expedition))
	}
	if len(out) > 0 {
		s.log.Info("resets applied",
			zap.Int64("daily", daily),
			zap.Int64("weekly", weekly),
			zap.Int64("expedition", expedition),
			zap.Time("daily_boundary", b.Daily),
			zap.Time("weekly_boundary", b.Weekly),
		)
	}
	return out, nil
}

// Tick applies resets at the service clock's current time.
func (s *Service) Tick(ctx context.Context) ([]string, error) {
	return s.ApplyResets(ctx, s.Now())
}

func expeditionDue(t storage.ExpeditionTask, b Boundaries, now time.Time) bool {
	switch ResetCycle(t.ResetCycle) {
	case CycleDaily:
		return t.UpdatedAt.Before(b.Daily)
	case CycleWeekly:
		return t.UpdatedAt.Before(b.Weekly)
	case CycleInterval:
		return IntervalElapsed(t.UpdatedAt, now, t.IntervalDays)
	default:
		return false
	}
}
