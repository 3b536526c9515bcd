package root

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/prk7048/LOA-AGENT/internal/api"
	"github.com/prk7048/LOA-AGENT/internal/engine"
)

// resetSchedule fires every minute. Interval expeditions fall due N days after
// their last check, at any minute of the day; ticks are idempotent.
const resetSchedule = "* * * * *"

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API with scheduled resets",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, cleanup, err := openApp(ctx, "info")
			if err != nil {
				return err
			}
			defer cleanup()
			if addr == "" {
				addr = a.cfg.HTTPAddr
			}

			runTick(ctx, a.svc, a.log)

			sched, err := newResetScheduler(ctx, a.svc, a.log)
			if err != nil {
				return err
			}
			sched.Start()
			defer func() { <-sched.Stop().Done() }()

			handler := &api.API{Service: a.svc, Log: a.log}
			srv := &http.Server{
				Addr:              addr,
				Handler:           handler.Router(),
				ReadHeaderTimeout: 5 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				a.log.Info("server listening", zap.String("addr", addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				a.log.Warn("server shutdown", zap.Error(err))
			}
			a.log.Info("server stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default LOA_HTTP_ADDR or :8080)")
	return cmd
}

// newResetScheduler registers the reset tick in the service's reference zone.
func newResetScheduler(ctx context.Context, svc *engine.Service, log *zap.Logger) (*cron.Cron, error) {
	sched := cron.New(cron.WithLocation(svc.Location()))
	if _, err := sched.AddFunc(resetSchedule, func() { runTick(ctx, svc, log) }); err != nil {
		return nil, fmt.Errorf("schedule resets: %w", err)
	}
	return sched, nil
}

func runTick(ctx context.Context, svc *engine.Service, log *zap.Logger) {
	lines, err := svc.Tick(ctx)
	if err != nil {
		log.Error("scheduled reset failed", zap.Error(err))
		return
	}
	for _, l := range lines {
		log.Info("reset", zap.String("result", l))
	}
}
