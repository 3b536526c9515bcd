package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/prk7048/LOA-AGENT/internal/storage"
)

const (
	DefaultTimezone     = "Asia/Seoul"
	DefaultHTTPAddr     = ":8080"
	DefaultFetchWorkers = 8
)

type Config struct {
	APIKey       string
	APIBaseURL   string
	Driver       storage.Dialect
	DBPath       string
	DatabaseURL  string
	Timezone     string
	CatalogPath  string
	FetchWorkers int
	HTTPAddr     string
	// LogLevel is empty when unset; commands pick their own default.
	LogLevel string
}

// Load reads the given .env files (".env" when none are named; missing files
// are ignored) and then the environment. Variables already set in the
// environment win over .env values.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function such as os.Getenv.
func FromEnv(getenv func(string) string) (Config, error) {
	get := func(key string) string { return strings.TrimSpace(getenv(key)) }

	cfg := Config{
		APIKey:      get("LOA_API_KEY"),
		APIBaseURL:  get("LOA_API_BASE_URL"),
		DBPath:      get("LOA_DB_PATH"),
		DatabaseURL: firstNonEmpty(get("LOA_DATABASE_URL"), get("DATABASE_URL")),
		Timezone:    firstNonEmpty(get("LOA_TIMEZONE"), DefaultTimezone),
		CatalogPath: get("LOA_CATALOG"),
		HTTPAddr:    firstNonEmpty(get("LOA_HTTP_ADDR"), DefaultHTTPAddr),
		LogLevel:    strings.ToLower(get("LOA_LOG_LEVEL")),
	}

	if cfg.DatabaseURL == "" && get("POSTGRES_HOST") != "" {
		cfg.DatabaseURL = postgresURL(get)
	}

	driver := get("LOA_DB_DRIVER")
	if driver == "" && cfg.DatabaseURL != "" {
		driver = string(storage.DialectPostgres)
	}
	d, err := storage.ParseDialect(driver)
	if err != nil {
		return Config{}, fmt.Errorf("LOA_DB_DRIVER: %w", err)
	}
	cfg.Driver = d

	if cfg.Driver == storage.DialectSQLite && cfg.DBPath == "" {
		path, err := storage.DefaultDBPath()
		if err != nil {
			return Config{}, err
		}
		cfg.DBPath = path
	}
	if cfg.Driver == storage.DialectPostgres && cfg.DatabaseURL == "" {
		return Config{}, errors.New("postgres driver needs LOA_DATABASE_URL or POSTGRES_HOST")
	}

	cfg.FetchWorkers = DefaultFetchWorkers
	if raw := get("LOA_FETCH_WORKERS"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return Config{}, fmt.Errorf("LOA_FETCH_WORKERS: want a positive integer, got %q", raw)
		}
		cfg.FetchWorkers = n
	}

	if _, err := cfg.Location(); err != nil {
		return Config{}, err
	}
	if cfg.LogLevel != "" {
		if _, err := zapcore.ParseLevel(cfg.LogLevel); err != nil {
			return Config{}, fmt.Errorf("LOA_LOG_LEVEL: %w", err)
		}
	}
	return cfg, nil
}

// DSN is the data source handed to storage.Open.
func (c Config) DSN() string {
	if c.Driver == storage.DialectPostgres {
		return c.DatabaseURL
	}
	return c.DBPath
}

// Location resolves Timezone. Asia/Seoul falls back to a fixed UTC+9 zone when
// the tz database is unavailable.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err == nil {
		return loc, nil
	}
	if c.Timezone == DefaultTimezone {
		return time.FixedZone("KST", 9*60*60), nil
	}
	return nil, fmt.Errorf("LOA_TIMEZONE %q: %w", c.Timezone, err)
}

// Logger builds a zap logger at LogLevel, or at fallback when unset. Debug gets
// the development config; everything else the production one.
func (c Config) Logger(fallback string) (*zap.Logger, error) {
	level := firstNonEmpty(c.LogLevel, fallback, "info")
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	if lvl == zapcore.DebugLevel {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.OutputPaths = []string{"stderr"}
	return zc.Build()
}

func postgresURL(get func(string) string) string {
	port := firstNonEmpty(get("POSTGRES_PORT"), "5432")
	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(get("POSTGRES_HOST"), port),
		Path:   "/" + get("POSTGRES_DB"),
	}
	if user := get("POSTGRES_USER"); user != "" {
		if pw := get("POSTGRES_PASSWORD"); pw != "" {
			u.User = url.UserPassword(user, pw)
		} else {
			u.User = url.User(user)
		}
	}
	return u.String()
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
