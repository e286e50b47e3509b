package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/aussiebroadwan/branchauth/internal/auth/http"
	"github.com/aussiebroadwan/branchauth/internal/auth/service"
	"github.com/aussiebroadwan/branchauth/internal/auth/store"
	"github.com/aussiebroadwan/branchauth/pkg/cryptox"
	"github.com/aussiebroadwan/branchauth/pkg/slogx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// BuildVersion is overridden at build time via -ldflags "-X".
var BuildVersion = "v0.1.0"

// Application encapsulates the auth service application with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db       store.Store
	registry *prometheus.Registry

	// Services
	sessions            *service.SessionManager
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "branchauth",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	app.logConfig()

	ctx := context.Background()
	db, err := OpenStore(ctx, cfg, app.logger)
	if err != nil {
		return nil, err
	}
	app.db = db

	if err := app.initServices(); err != nil {
		_ = db.Close()
		return nil, err
	}
	app.initMetrics()
	app.initHTTP()

	return app, nil
}

// Handler exposes the fully wired router, mainly for in-process tests.
func (app *Application) Handler() http.Handler {
	return app.router
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("auth service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	select {
	case err := <-serverErrors:
		app.housekeepingService.Stop()
		_ = app.db.Close()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down auth service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("auth service stopped")
	return nil
}

func (app *Application) logConfig() {
	app.logger.Info("configuration loaded",
		slog.String("database_driver", app.cfg.DatabaseDriver),
		slog.Duration("access_ttl", app.cfg.AccessTTL),
		slog.Duration("refresh_ttl", app.cfg.RefreshTTL),
		slog.Any("source", app.cfg.Source),
	)
	if names := app.cfg.DefaultSecrets(); len(names) > 0 {
		app.logger.Warn("using development default token secrets; set JWT_ACCESS_SECRET and JWT_REFRESH_SECRET",
			"secrets", names)
	}
}

// initServices initializes the session manager and background workers
func (app *Application) initServices() error {
	pepper, err := cryptox.LoadOrGeneratePepper(app.cfg.PepperFile)
	if err != nil {
		return fmt.Errorf("failed to load pepper: %w", err)
	}

	app.sessions, err = service.NewSessionManager(app.db, cryptox.NewArgon2Hasher(pepper), service.SessionConfig{
		AccessSecret:  []byte(app.cfg.AccessSecret),
		AccessTTL:     app.cfg.AccessTTL,
		RefreshSecret: []byte(app.cfg.RefreshSecret),
		RefreshTTL:    app.cfg.RefreshTTL,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize session manager: %w", err)
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
	return nil
}

// initMetrics builds a private registry so repeated New calls in one process
// never collide on registration.
func (app *Application) initMetrics() {
	app.registry = prometheus.NewRegistry()
	app.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	service.RegisterMetrics(app.registry)
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.sessions,
		app.db,
		BuildVersion,
		app.registry,
		app.logger,
	)
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
