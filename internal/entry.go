// Package internal provides the main application initialization and runtime logic.
package internal

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

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/ley/internal/api"
	"github.com/starford/ley/internal/index"
	"github.com/starford/ley/internal/mcpserver"
	"github.com/starford/ley/internal/site"
	"github.com/starford/ley/internal/sse"
	"github.com/starford/ley/internal/storage"
)

// runtime holds everything a command needs once configuration is applied.
type runtime struct {
	cfg     *Config
	logger  *slog.Logger
	db      *index.DB
	builder *site.Builder
}

func newApplication(opts []Option) (*application, error) {
	app := &application{logOutput: os.Stdout}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	return app, nil
}

// logger initializes the structured JSON logger and makes it the default.
func (a *application) logger() *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(a.logOutput, &slog.HandlerOptions{
		Level: a.config.App.LogLevel,
	}))
	slog.SetDefault(logger)
	return logger
}

// open prepares storage, the manifest and the builder. Callers must close
// rt.db.
func (a *application) open(notify site.NotifyFunc) (*runtime, error) {
	cfg := a.config
	logger := a.logger()

	logger.Info("Configuration loaded",
		slog.String("source", cfg.Build.Source),
		slog.String("destination", cfg.Build.Destination),
		slog.String("manifest_path", cfg.Manifest.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	src, err := storage.NewFS(cfg.Build.Source)
	if err != nil {
		return nil, fmt.Errorf("init source tree: %w", err)
	}

	// Ensure output directory exists.
	if err := os.MkdirAll(cfg.Build.Destination, 0o755); err != nil {
		return nil, fmt.Errorf("create destination dir: %w", err)
	}
	out, err := storage.NewFS(cfg.Build.Destination)
	if err != nil {
		return nil, fmt.Errorf("init destination tree: %w", err)
	}

	db, err := index.Open(cfg.Manifest.Path)
	if err != nil {
		return nil, fmt.Errorf("init manifest: %w", err)
	}

	notifiers := []site.NotifyFunc{a.notify, notify}
	b := site.New(src, out, db,
		site.WithStyle(cfg.Build.Style),
		site.WithIndex(cfg.Build.Index),
		site.WithWorkers(cfg.Build.Workers),
		site.WithKeepGoing(cfg.Build.KeepGoing),
		site.WithLogger(logger),
		site.WithNotify(func(kind, path string) {
			for _, fn := range notifiers {
				if fn != nil {
					fn(kind, path)
				}
			}
		}),
	)
	return &runtime{cfg: cfg, logger: logger, db: db, builder: b}, nil
}

// Build converts the configured source. A single file is rendered next to
// or into the destination; a directory is built incrementally.
func Build(ctx context.Context, opts ...Option) (*site.Report, error) {
	app, err := newApplication(opts)
	if err != nil {
		return nil, err
	}
	cfg := app.config

	info, err := os.Stat(cfg.Build.Source)
	if err != nil {
		return nil, fmt.Errorf("stat source: %w", err)
	}
	if !info.IsDir() {
		logger := app.logger()
		path, err := site.BuildFile(ctx, cfg.Build.Source, cfg.Build.Destination, cfg.Build.Style)
		if err != nil {
			return nil, err
		}
		logger.Info("Page written", slog.String("source", cfg.Build.Source), slog.String("output", path))
		return &site.Report{Built: 1}, nil
	}

	rt, err := app.open(nil)
	if err != nil {
		return nil, err
	}
	defer rt.db.Close()

	return rt.builder.BuildAll(ctx)
}

// Watch builds the source tree and keeps rebuilding it as files change until
// a shutdown signal arrives.
func Watch(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	rt, err := app.open(nil)
	if err != nil {
		return err
	}
	defer rt.db.Close()

	if _, err := rt.builder.BuildAll(ctx); err != nil {
		rt.logger.Warn("initial build failed", slog.String("error", err.Error()))
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return site.Watch(ctx, rt.builder, rt.logger)
}

// ServeMCP exposes the builder over MCP on stdin/stdout. Logs go wherever
// WithLogOutput points, which must not be stdout.
func ServeMCP(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	rt, err := app.open(nil)
	if err != nil {
		return err
	}
	defer rt.db.Close()

	if _, err := rt.builder.BuildAll(ctx); err != nil {
		rt.logger.Warn("initial build failed", slog.String("error", err.Error()))
	}

	rt.logger.Info("MCP server starting on stdio")
	return mcpserver.New(rt.builder, rt.db).ServeStdio()
}

// Run starts the preview server with the given options: an initial build,
// the file watcher, the REST API with live-reload events and the built site.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}

	// SSE broker.
	broker := sse.NewBroker(2 * time.Second)
	defer broker.Close()

	rt, err := app.open(broker.PublishSiteEvent)
	if err != nil {
		return err
	}
	defer rt.db.Close()
	cfg, logger := rt.cfg, rt.logger

	// Run initial build.
	if _, err := rt.builder.BuildAll(ctx); err != nil {
		logger.Warn("initial build failed", slog.String("error", err.Error()))
	}

	apiRouter := api.NewRouter(rt.builder, rt.db, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)
	siteHandler := api.NewSiteHandler(cfg.Build.Destination)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		if _, err := rt.db.AllChecksums(); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"manifest unavailable"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	// Built pages (unauthenticated, like any static site).
	r.Get("/site/*", siteHandler.ServeFile)
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/site/", http.StatusFound)
	})

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	// Start file watcher; builder notifications feed the SSE broker.
	g.Go(func() error {
		return site.Watch(gCtx, rt.builder, logger)
	})

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}
		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// errShutdown cancels the errgroup so the watcher stops with the server.
var errShutdown = errors.New("shutdown")
