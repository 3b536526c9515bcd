package root

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/prk7048/LOA-AGENT/internal/catalog"
	"github.com/prk7048/LOA-AGENT/internal/config"
	"github.com/prk7048/LOA-AGENT/internal/engine"
	"github.com/prk7048/LOA-AGENT/internal/lostark"
	"github.com/prk7048/LOA-AGENT/internal/storage"
	"github.com/prk7048/LOA-AGENT/internal/ui"
)

type app struct {
	cfg config.Config
	log *zap.Logger
	svc *engine.Service
}

// openApp loads configuration and wires storage, the stat source and the
// engine. defaultLevel applies when neither --log-level nor LOA_LOG_LEVEL is set.
func openApp(ctx context.Context, defaultLevel string) (*app, func(), error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, nil, err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	log, err := cfg.Logger(defaultLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("logger: %w", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, nil, err
	}
	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return nil, nil, err
	}

	store, err := storage.Open(ctx, cfg.Driver, cfg.DSN())
	if err != nil {
		return nil, nil, err
	}
	log.Debug("storage opened", zap.String("driver", string(cfg.Driver)))

	opts := []engine.Option{
		engine.WithCatalog(cat),
		engine.WithLocation(loc),
		engine.WithLogger(log),
		engine.WithFetchWorkers(cfg.FetchWorkers),
	}
	if cfg.APIKey != "" {
		clientOpts := []lostark.Option{lostark.WithLogger(log)}
		if cfg.APIBaseURL != "" {
			clientOpts = append(clientOpts, lostark.WithBaseURL(cfg.APIBaseURL))
		}
		opts = append(opts, engine.WithSource(lostark.NewClient(cfg.APIKey, clientOpts...)))
	} else {
		log.Debug("LOA_API_KEY not set, sync disabled")
	}

	cleanup := func() {
		_ = store.Close()
		_ = log.Sync()
	}
	return &app{cfg: cfg, log: log, svc: engine.NewService(store, opts...)}, cleanup, nil
}

func openService(ctx context.Context) (*engine.Service, func(), error) {
	a, cleanup, err := openApp(ctx, "warn")
	if err != nil {
		return nil, nil, err
	}
	return a.svc, cleanup, nil
}

// applyResets runs due resets and prints what was cleared.
func applyResets(ctx context.Context, svc *engine.Service, out io.Writer) error {
	lines, err := svc.Tick(ctx)
	if err != nil {
		return err
	}
	for _, l := range lines {
		fmt.Fprintln(out, ui.Muted.Render(ui.IconLoop+" "+l))
	}
	return nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("id must be a positive integer, got %q", s)
	}
	return id, nil
}

func exactArgs(n int, what string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return fmt.Errorf("%s is required", what)
		}
		return nil
	}
}
