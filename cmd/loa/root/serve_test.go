package root

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/prk7048/LOA-AGENT/internal/engine"
	"github.com/prk7048/LOA-AGENT/internal/storage"
)

func TestResetSchedulerCatchesIntervalExpeditionWithinAMinute(t *testing.T) {
	ctx := context.Background()
	store, err := storage.Open(ctx, storage.DialectSQLite, filepath.Join(t.TempDir(), "serve.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	loc := engine.KST()
	checkedAt := time.Date(2025, 1, 20, 10, 0, 0, 0, loc) // Monday
	clock := engine.NewFakeClock(checkedAt)
	log := zaptest.NewLogger(t)
	svc := engine.NewService(store, engine.WithClock(clock), engine.WithLocation(loc), engine.WithLogger(log))

	id, err := svc.AddExpedition(ctx, "Chaos Gate / Field Boss", engine.CycleInterval, 2)
	require.NoError(t, err)
	require.NoError(t, svc.SetExpeditionChecked(ctx, id, true))

	sched, err := newResetScheduler(ctx, svc, log)
	require.NoError(t, err)
	entries := sched.Entries()
	require.Len(t, entries, 1)

	due := checkedAt.Add(48 * time.Hour)
	fire := entries[0].Schedule.Next(due.Add(-3 * time.Minute))
	var resetAt time.Time
	for i := 0; i < 10 && resetAt.IsZero(); i++ {
		clock.Set(fire)
		lines, err := svc.Tick(ctx)
		require.NoError(t, err)
		if len(lines) > 0 {
			assert.Equal(t, []string{"Expedition tasks reset: 1"}, lines)
			resetAt = fire
		}
		fire = entries[0].Schedule.Next(fire)
	}

	require.False(t, resetAt.IsZero(), "interval expedition never reset")
	assert.False(t, resetAt.Before(due), "reset at %s before due %s", resetAt, due)
	assert.LessOrEqual(t, resetAt.Sub(due), time.Minute)
}

func TestResetSchedulerCoversDailyBoundary(t *testing.T) {
	ctx := context.Background()
	store, err := storage.Open(ctx, storage.DialectSQLite, filepath.Join(t.TempDir(), "serve.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	loc := engine.KST()
	svc := engine.NewService(store, engine.WithLocation(loc), engine.WithLogger(zaptest.NewLogger(t)))
	sched, err := newResetScheduler(ctx, svc, zaptest.NewLogger(t))
	require.NoError(t, err)

	next := sched.Entries()[0].Schedule.Next(time.Date(2025, 1, 21, 5, 59, 30, 0, loc))
	assert.True(t, next.Equal(time.Date(2025, 1, 21, 6, 0, 0, 0, loc)), next)
}
