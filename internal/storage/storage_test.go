package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(context.Background(), DialectSQLite, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

var t0 = time.Date(2025, 1, 16, 1, 0, 0, 0, time.UTC)

func seedCharacter(t *testing.T, r Repos, name string, level, power float64) {
	t.Helper()
	require.NoError(t, r.Characters.Upsert(context.Background(), Character{
		Name: name, Server: "Luperon", Class: "Bard", ItemLevel: level, CombatPower: power, UpdatedAt: t0,
	}))
}

func todo(character, name, category string) Todo {
	return Todo{CharacterName: character, TaskName: name, Category: category, Target: 1, ResetCycle: category, Reward: 100, UpdatedAt: t0}
}

func TestRebind(t *testing.T) {
	q := `SELECT * FROM todos WHERE character_name = ? AND task_name NOT IN (?, ?)`
	assert.Equal(t, q, DialectSQLite.Rebind(q))
	assert.Equal(t,
		`SELECT * FROM todos WHERE character_name = $1 AND task_name NOT IN ($2, $3)`,
		DialectPostgres.Rebind(q))
	assert.Equal(t, "", placeholders(0))
	assert.Equal(t, "?, ?, ?", placeholders(3))
}

func TestParseDialect(t *testing.T) {
	for in, want := range map[string]Dialect{"": DialectSQLite, "SQLite3": DialectSQLite, "pgx": DialectPostgres, "postgresql": DialectPostgres} {
		got, err := ParseDialect(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseDialect("mysql")
	assert.Error(t, err)
}

func TestOpenRejectsEmptyDSN(t *testing.T) {
	_, err := Open(context.Background(), DialectPostgres, " ")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestSQLiteSourceKeepsExistingQuery(t *testing.T) {
	assert.Equal(t, "/tmp/loa.db?"+sqliteParams, sqliteSource("/tmp/loa.db"))
	assert.Equal(t, "file:/tmp/loa.db?mode=rwc&"+sqliteParams, sqliteSource("file:/tmp/loa.db?mode=rwc"))
}

func TestOpenFileURIWithQuery(t *testing.T) {
	ctx := context.Background()
	dsn := "file:" + filepath.Join(t.TempDir(), "uri.db") + "?mode=rwc"
	s, err := Open(ctx, DialectSQLite, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	var fk int
	require.NoError(t, s.DB.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&fk))
	assert.Equal(t, 1, fk)
}

func TestMigrateIsIdempotent(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Migrate(context.Background()))
}

func TestCharacterUpsertKeepsMemoAndOrders(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	r := s.Repos()

	seedCharacter(t, r, "A", 1700, 1000)
	seedCharacter(t, r, "B", 1680, 2000)
	require.NoError(t, r.Characters.UpdateMemo(ctx, "A", "memo", t0))
	require.NoError(t, r.Characters.UpdateSpentGold(ctx, "A", 500, t0))
	seedCharacter(t, r, "A", 1710, 1100)

	a, err := r.Characters.Get(ctx, "A")
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, "memo", a.Memo)
	assert.Equal(t, 500, a.SpentGold)
	assert.Equal(t, 1710.0, a.ItemLevel)
	assert.True(t, a.UpdatedAt.Equal(t0))

	missing, err := r.Characters.Get(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)

	byPower, err := r.Characters.List(ctx, OrderByPower)
	require.NoError(t, err)
	assert.Equal(t, "B", byPower[0].Name)

	byProgress, err := r.Characters.List(ctx, OrderByProgress)
	require.NoError(t, err)
	assert.Equal(t, "A", byProgress[0].Name)

	assert.ErrorIs(t, r.Characters.UpdateMemo(ctx, "nobody", "x", t0), ErrNotFound)
}

func TestTodoUpsertKeepsProgress(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	r := s.Repos()
	seedCharacter(t, r, "A", 1700, 1000)

	require.NoError(t, r.Todos.Upsert(ctx, todo("A", "Raid (Normal)", "WEEKLY")))
	list, err := r.Todos.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NoError(t, r.Todos.SetProgress(ctx, list[0].ID, 1, t0.Add(time.Hour)))

	again := todo("A", "Raid (Normal)", "WEEKLY")
	again.Reward = 999
	require.NoError(t, r.Todos.Upsert(ctx, again))

	got, err := r.Todos.Get(ctx, list[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Current)
	assert.Equal(t, 999, got.Reward)
	assert.True(t, got.Done())

	inserted, err := r.Todos.InsertIfAbsent(ctx, todo("A", "Raid (Normal)", "WEEKLY"))
	require.NoError(t, err)
	assert.False(t, inserted)

	assert.ErrorIs(t, r.Todos.SetProgress(ctx, 4242, 1, t0), ErrNotFound)
}

func TestDeleteNotInIsolatesCategory(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	r := s.Repos()
	seedCharacter(t, r, "A", 1700, 1000)
	seedCharacter(t, r, "B", 1700, 1000)

	for _, td := range []Todo{
		todo("A", "Keep", "WEEKLY"),
		todo("A", "Drop", "WEEKLY"),
		todo("A", "Chaos Dungeon", "DAILY"),
		todo("B", "Drop", "WEEKLY"),
	} {
		require.NoError(t, r.Todos.Upsert(ctx, td))
	}

	n, err := r.Todos.DeleteNotIn(ctx, "A", "WEEKLY", []string{"Keep"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	name := "A"
	left, err := r.Todos.List(ctx, &name)
	require.NoError(t, err)
	var names []string
	for _, td := range left {
		names = append(names, td.TaskName)
	}
	assert.ElementsMatch(t, []string{"Keep", "Chaos Dungeon"}, names)

	n, err = r.Todos.DeleteNotIn(ctx, "A", "WEEKLY", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	other := "B"
	bTodos, err := r.Todos.List(ctx, &other)
	require.NoError(t, err)
	assert.Len(t, bTodos, 1)
}

func TestResetStale(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	r := s.Repos()
	seedCharacter(t, r, "A", 1700, 1000)

	for _, name := range []string{"old", "fresh", "untouched"} {
		require.NoError(t, r.Todos.Upsert(ctx, todo("A", name, "DAILY")))
	}
	list, err := r.Todos.List(ctx, nil)
	require.NoError(t, err)
	boundary := t0.Add(5 * time.Hour)
	require.NoError(t, r.Todos.SetProgress(ctx, list[0].ID, 1, boundary.Add(-time.Second)))
	require.NoError(t, r.Todos.SetProgress(ctx, list[1].ID, 1, boundary))

	n, err := r.Todos.ResetStale(ctx, "DAILY", boundary)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = r.Todos.ResetStale(ctx, "WEEKLY", boundary.Add(time.Hour))
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCharacterDeleteCascades(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	r := s.Repos()
	seedCharacter(t, r, "A", 1700, 1000)
	require.NoError(t, r.Todos.Upsert(ctx, todo("A", "Keep", "WEEKLY")))

	require.NoError(t, r.Characters.Delete(ctx, "A"))
	left, err := r.Todos.List(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, left)
	assert.ErrorIs(t, r.Characters.Delete(ctx, "A"), ErrNotFound)
}

func TestExpeditionRepo(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	r := s.Repos()

	id, err := r.Expeditions.Add(ctx, "Chaos Gate", "INTERVAL", 2, t0)
	require.NoError(t, err)
	assert.Positive(t, id)

	ok, err := r.Expeditions.InsertIfAbsent(ctx, "Chaos Gate", "DAILY", 1, t0)
	require.NoError(t, err)
	assert.False(t, ok)

	later := t0.Add(3 * time.Hour)
	require.NoError(t, r.Expeditions.SetChecked(ctx, id, true, later))
	require.NoError(t, r.Expeditions.Uncheck(ctx, id))

	list, err := r.Expeditions.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.False(t, list[0].Checked)
	assert.Equal(t, 2, list[0].IntervalDays)
	assert.True(t, list[0].UpdatedAt.Equal(later), "uncheck leaves updated_at alone")

	require.NoError(t, r.Expeditions.Delete(ctx, id))
	assert.ErrorIs(t, r.Expeditions.Delete(ctx, id), ErrNotFound)
}

func TestSettingRepo(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	r := s.Repos()

	_, found, err := r.Settings.Get(ctx, "target_date")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, r.Settings.Set(ctx, "target_date", "2025-02-01"))
	require.NoError(t, r.Settings.Set(ctx, "target_date", "2025-03-01"))
	v, found, err := r.Settings.Get(ctx, "target_date")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "2025-03-01", v)
}

func TestWithTxRollsBack(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.WithTx(ctx, func(r Repos) error {
		seedCharacter(t, r, "A", 1700, 1000)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := s.Repos().Characters.Get(ctx, "A")
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.Panics(t, func() {
		_ = s.WithTx(ctx, func(r Repos) error {
			seedCharacter(t, r, "B", 1700, 1000)
			panic("boom")
		})
	})
	got, err = s.Repos().Characters.Get(ctx, "B")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}
	ctx := context.Background()
	s, err := Open(ctx, DialectPostgres, dsn)
	require.NoError(t, err)
	defer s.Close()

	name := "pg-test-" + time.Now().Format("150405.000000")
	t.Cleanup(func() { _ = s.Repos().Characters.Delete(context.Background(), name) })

	err = s.WithTx(ctx, func(r Repos) error {
		if err := r.Characters.Upsert(ctx, Character{Name: name, ItemLevel: 1680, UpdatedAt: t0}); err != nil {
			return err
		}
		return r.Todos.Upsert(ctx, todo(name, "Drop", "WEEKLY"))
	})
	require.NoError(t, err)

	n, err := s.Repos().Todos.DeleteNotIn(ctx, name, "WEEKLY", []string{"Keep"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
