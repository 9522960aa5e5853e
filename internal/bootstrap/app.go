package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/yanqian/opsdash/internal/domain/scheduler"
	"github.com/yanqian/opsdash/internal/infra/config"
)

const shutdownTimeout = 10 * time.Second

// App encapsulates the HTTP server and background job lifecycle.
type App struct {
	cfg       *config.Config
	logger    *slog.Logger
	server    *http.Server
	scheduler *scheduler.Scheduler
}

// NewApp is used by Wire to build the runnable app.
func NewApp(cfg *config.Config, logger *slog.Logger, server *http.Server, sched *scheduler.Scheduler) *App {
	return &App{cfg: cfg, logger: logger.With("component", "bootstrap"), server: server, scheduler: sched}
}

// Run starts the HTTP server and the scheduler and blocks until shutdown. Jobs never
// delay server readiness.
func (a *App) Run(ctx context.Context) error {
	jobsCtx, stopJobs := context.WithCancel(ctx)
	defer stopJobs()
	jobsDone := make(chan struct{})
	go func() {
		defer close(jobsDone)
		if err := a.scheduler.Run(jobsCtx); err != nil {
			a.logger.Error("scheduler stopped with error", "error", err)
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server starting", "address", a.cfg.HTTP.Address)
		if err := a.server.ListenAndServe(); err != nil {
			errCh <- err
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutdown signal received")
		runErr = a.server.Shutdown(shutdownCtx)
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			runErr = err
		}
	}

	stopJobs()
	<-jobsDone
	a.logger.Info("background jobs stopped")
	return runErr
}
