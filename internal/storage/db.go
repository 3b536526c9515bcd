package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

var (
	// ErrUnavailable marks failures to reach the database: open, ping, begin and commit.
	ErrUnavailable = errors.New("storage unavailable")
	ErrNotFound    = errors.New("not found")
)

// DefaultDBPath returns the default SQLite DB location.
func DefaultDBPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(homeDir, ".loa-agent.db"), nil
}

// Store is the database handle plus the SQL dialect spoken by it.
type Store struct {
	DB      *sql.DB
	Dialect Dialect
}

// Open connects, pings and migrates. For SQLite dsn is a file path.
func Open(ctx context.Context, dialect Dialect, dsn string) (*Store, error) {
	if !dialect.IsValid() {
		return nil, fmt.Errorf("unknown storage dialect %q", dialect)
	}
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("%w: empty %s dsn", ErrUnavailable, dialect)
	}

	source := dsn
	if dialect == DialectSQLite {
		source = sqliteSource(dsn)
	}
	db, err := sql.Open(dialect.driverName(), source)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrUnavailable, dialect, err)
	}
	if dialect == DialectSQLite {
		// One writer; transactions must not wait on a second pooled connection.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: ping %s: %v", ErrUnavailable, dialect, err)
	}

	s := &Store{DB: db, Dialect: dialect}
	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

const sqliteParams = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite"

// sqliteSource appends the connection parameters to a file path or to a file:
// URI that may already carry its own query.
func sqliteSource(dsn string) string {
	if strings.Contains(dsn, "?") {
		return dsn + "&" + sqliteParams
	}
	return dsn + "?" + sqliteParams
}

func (s *Store) Close() error {
	return s.DB.Close()
}

// Repos returns repositories bound to the pool, for reads and single statements.
func (s *Store) Repos() Repos {
	return newRepos(s.DB, s.Dialect)
}

// Repos groups every repository over one Querier (pool or transaction).
type Repos struct {
	Characters  *CharacterRepo
	Todos       *TodoRepo
	Expeditions *ExpeditionRepo
	Settings    *SettingRepo
}

func newRepos(q Querier, d Dialect) Repos {
	return Repos{
		Characters:  NewCharacterRepo(q, d),
		Todos:       NewTodoRepo(q, d),
		Expeditions: NewExpeditionRepo(q, d),
		Settings:    NewSettingRepo(q, d),
	}
}
