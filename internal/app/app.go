// Package app initializes and runs the session gateway. It wires the token
// issuer, the query cache, and the HTTP frontend together, and handles
// graceful shutdown on OS signals.
package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mkarev/surrealsession/internal/cache"
	"github.com/mkarev/surrealsession/internal/config"
	"github.com/mkarev/surrealsession/internal/logging"
	"github.com/mkarev/surrealsession/internal/metrics"
	"github.com/mkarev/surrealsession/internal/surreal"
	"github.com/mkarev/surrealsession/internal/token"
	"github.com/mkarev/surrealsession/internal/web"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	config *config.Config
	logger logging.Logger
	server *http.Server
}

func NewApp(cfg *config.Config) (*App, error) {
	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	m := metrics.New()
	issuer := token.NewIssuer(cfg, logger, m)
	queries := cache.New(cfg.AccessTokenTTL)

	handler := web.NewHandler(cfg, issuer, queries, logger, m, func() surreal.Transport {
		return surreal.NewClient(logger)
	})

	server := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: handler.Routes(),
	}

	return &App{config: cfg, logger: logger, server: server}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "addr", app.config.ListenAddr, "surreal", app.config.SurrealHost)

	app.initSignalHandler(cancelFunc)

	go func() {
		if err := app.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.logger.Error(ctx, "http server error", "err", err)
			cancelFunc()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := app.server.Shutdown(shutdownCtx); err != nil {
		app.logger.Error(shutdownCtx, "shutdown error", "err", err)
	}
	app.logger.Info(shutdownCtx, "App stopped")
}
