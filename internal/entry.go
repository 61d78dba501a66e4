// Package internal provides the application wiring behind every zgraph command.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/zgraph/internal/api"
	"github.com/starford/zgraph/internal/diag"
	"github.com/starford/zgraph/internal/graph"
	"github.com/starford/zgraph/internal/identity"
	"github.com/starford/zgraph/internal/index"
	"github.com/starford/zgraph/internal/mcpserver"
	"github.com/starford/zgraph/internal/metrics"
	"github.com/starford/zgraph/internal/noteservice"
	"github.com/starford/zgraph/internal/render"
	"github.com/starford/zgraph/internal/report"
	"github.com/starford/zgraph/internal/sse"
	"github.com/starford/zgraph/internal/storage"
	"github.com/starford/zgraph/internal/watch"
)

// Export formats.
const (
	ExportSQLite = "sqlite"
	ExportJSON   = "json"
)

// App runs zgraph commands against note directories.
type App struct {
	config  *Config
	stdout  io.Writer
	stderr  io.Writer
	quiet   bool
	logger  *slog.Logger
	version string
}

// New creates an App. Without WithConfig the default configuration is used;
// without WithLogger a logger is built from it, writing to stderr.
func New(opts ...Option) (*App, error) {
	app := &App{
		stdout:  os.Stdout,
		stderr:  os.Stderr,
		version: "dev",
	}
	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		app.config = NewDefaultConfig()
	}
	if err := app.config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if app.logger == nil {
		app.logger = newLogger(app.stderr, app.config.App)
	}
	return app, nil
}

func newLogger(w io.Writer, cfg ApplicationConfig) *slog.Logger {
	hopts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.LogFormat == LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, hopts))
	}
	return slog.New(slog.NewTextHandler(w, hopts))
}

func (a *App) open(dir string) (*storage.FS, error) {
	return storage.NewFS(dir, a.config.Notes.Patterns)
}

func (a *App) builder(store storage.Provider) (*graph.Builder, error) {
	strategy, err := identity.New(a.config.Notes.Identity)
	if err != nil {
		return nil, err
	}
	opts := []graph.BuilderOption{
		graph.WithStrategy(strategy),
		graph.WithParallelEdges(a.config.Graph.CountDuplicateReferences),
		graph.WithLogger(a.logger),
	}
	if a.config.Notes.Workers > 0 {
		opts = append(opts, graph.WithWorkers(a.config.Notes.Workers))
	}
	return graph.NewBuilder(store, opts...), nil
}

// build reads dir once and reports its diagnostics to stderr.
func (a *App) build(ctx context.Context, dir string) (*storage.FS, *graph.Result, error) {
	store, err := a.open(dir)
	if err != nil {
		return nil, nil, err
	}
	b, err := a.builder(store)
	if err != nil {
		return nil, nil, err
	}
	res, err := b.Build(ctx)
	if err != nil {
		return nil, nil, err
	}
	if err := diag.NewReporter(a.stderr, a.quiet).Report(res.Diagnostics); err != nil {
		return nil, nil, err
	}
	return store, res, nil
}

// Stats prints the summary statistics of dir.
func (a *App) Stats(ctx context.Context, dir string) error {
	_, res, err := a.build(ctx, dir)
	if err != nil {
		return err
	}
	return report.WriteStats(a.stdout, graph.Analyze(res.Graph))
}

// Unconnected prints the notes of dir without any reference.
func (a *App) Unconnected(ctx context.Context, dir string) error {
	_, res, err := a.build(ctx, dir)
	if err != nil {
		return err
	}
	return report.WriteUnconnected(a.stdout, res.Graph.Isolated())
}

// Components prints the connected components of dir.
func (a *App) Components(ctx context.Context, dir string) error {
	_, res, err := a.build(ctx, dir)
	if err != nil {
		return err
	}
	return report.WriteComponents(a.stdout, res.Graph.Components())
}

// GraphPDF renders the graph of dir to name (the configured output when
// empty) and returns the written path.
func (a *App) GraphPDF(ctx context.Context, dir, name string) (string, error) {
	_, res, err := a.build(ctx, dir)
	if err != nil {
		return "", err
	}
	if name == "" {
		name = a.config.Render.Output
	}
	out, err := render.NewRenderer(a.config.Render.Engine, a.config.Render.Format).Render(ctx, res.Graph, name)
	if err != nil {
		return "", err
	}
	a.logger.Info("graph rendered", slog.String("output", out))
	return out, nil
}

// Export writes the graph snapshot of dir to out as SQLite or JSON.
func (a *App) Export(ctx context.Context, dir, out, format string) error {
	store, res, err := a.build(ctx, dir)
	if err != nil {
		return err
	}

	switch format {
	case "", ExportSQLite:
		var w index.SnapshotWriter
		w, err = index.Open(out)
		if err != nil {
			return err
		}
		defer w.Close()
		if err := w.WriteSnapshot(store.Root(), res); err != nil {
			return fmt.Errorf("export sqlite: %w", err)
		}
	case ExportJSON:
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("export json: %w", err)
		}
		if err := index.WriteJSON(f, store.Root(), res); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("export json: %w", err)
		}
	default:
		return fmt.Errorf("export: unknown format %q", format)
	}

	a.logger.Info("snapshot exported", slog.String("output", out), slog.String("format", format))
	return nil
}

// service builds the snapshot service over dir.
func (a *App) service(dir string, opts ...noteservice.Option) (*storage.FS, *noteservice.Service, error) {
	store, err := a.open(dir)
	if err != nil {
		return nil, nil, err
	}
	b, err := a.builder(store)
	if err != nil {
		return nil, nil, err
	}
	opts = append(opts, noteservice.WithLogger(a.logger))
	return store, noteservice.NewService(b, opts...), nil
}

// Handler returns the root HTTP handler of serve mode.
func (a *App) Handler(svc *noteservice.Service, broker *sse.Broker, m *metrics.Metrics) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	// Health and metrics are unauthenticated.
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if !svc.Ready() {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"building"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", m.Handler())

	var sseHandler http.Handler
	if broker != nil {
		sseHandler = broker
	}
	r.Mount("/api", api.NewRouter(svc, a.config.Auth.AuthEnabled(), a.config.Auth.Token, sseHandler))
	return r
}

// Serve builds the graph of dir, serves it over HTTP and rebuilds it whenever
// notes change, until ctx is cancelled or a termination signal arrives.
func (a *App) Serve(ctx context.Context, dir string) error {
	broker := sse.NewBroker()
	defer broker.Close()
	m := metrics.New()

	store, svc, err := a.service(dir, noteservice.WithPublisher(broker), noteservice.WithObserver(m))
	if err != nil {
		return err
	}
	if _, _, err := svc.Rebuild(ctx, nil); err != nil {
		return err
	}

	addr := a.config.HTTP.Address()
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           a.Handler(svc, broker, m),
		ReadHeaderTimeout: 10 * time.Second,
	}
	// Open event streams would otherwise hold Shutdown until its timeout.
	httpServer.RegisterOnShutdown(broker.Close)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return watch.Watch(gCtx, store.Root(), store, a.config.Watch.Debounce, a.logger, func(ctx context.Context, changed []string) {
			if _, _, err := svc.Rebuild(ctx, changed); err != nil && ctx.Err() == nil {
				a.logger.Error("rebuild failed", slog.String("error", err.Error()))
			}
		})
	})

	g.Go(func() error {
		a.logger.Info("Starting HTTP server", slog.String("address", addr), slog.String("root", store.Root()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			a.logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}
		// Stops the watcher once the server is down.
		return context.Canceled
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	a.logger.Info("Server stopped")
	return nil
}

// ServeMCP exposes the graph tools of dir over stdio.
func (a *App) ServeMCP(_ context.Context, dir string) error {
	store, svc, err := a.service(dir)
	if err != nil {
		return err
	}
	return mcpserver.New(store, svc, a.version).ServeStdio()
}
