// Package internal provides the main application initialization and runtime logic.
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

	"github.com/starford/notewise/internal/ai"
	"github.com/starford/notewise/internal/api"
	"github.com/starford/notewise/internal/chat"
	"github.com/starford/notewise/internal/importer"
	"github.com/starford/notewise/internal/index"
	"github.com/starford/notewise/internal/mcpserver"
	"github.com/starford/notewise/internal/noteservice"
	"github.com/starford/notewise/internal/sse"
	"github.com/starford/notewise/internal/storage"
	"github.com/starford/notewise/internal/store"
)

func newApplication(opts []Option) (*application, error) {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	return app, nil
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
	return logger
}

// services are the components shared by the HTTP and MCP front ends.
type services struct {
	svc *noteservice.Service
	db  *index.DB
}

// build wires store, AI client, index and attachments into a note service.
func (app *application) build(logger *slog.Logger, events noteservice.Publisher) (*services, error) {
	cfg := app.config

	provider := app.provider
	if provider == nil {
		p, err := ai.NewProvider(cfg.AI.ProviderConfig())
		if err != nil {
			return nil, fmt.Errorf("init ai provider: %w", err)
		}
		provider = p
	}
	client := ai.NewClient(provider,
		ai.WithDefaultTemperature(cfg.AI.Temperature),
		ai.WithDefaultModel(cfg.AI.Model))

	state := store.New()
	if cfg.App.Seed {
		if err := state.Seed(); err != nil {
			return nil, fmt.Errorf("seed store: %w", err)
		}
	}

	var attachments storage.Provider
	if cfg.Attachments.Path != "" {
		fs, err := storage.Ensure(cfg.Attachments.Path)
		if err != nil {
			return nil, fmt.Errorf("init attachments: %w", err)
		}
		attachments = fs
	}

	db, err := index.Open(cfg.SQLite.Path)
	if err != nil {
		return nil, fmt.Errorf("init index: %w", err)
	}

	svc := noteservice.New(noteservice.Deps{
		State:       state,
		Chat:        chat.New(client, state, logger),
		Importer:    importer.New(client, logger),
		Index:       db,
		Attachments: attachments,
		Events:      events,
		Logger:      logger,
	})

	// Run initial sync.
	stats, err := svc.Sync(context.Background())
	if err != nil {
		logger.Warn("initial sync failed", slog.String("error", err.Error()))
	} else {
		logger.Info("index synced", slog.Int("indexed", stats.Indexed), slog.Int("removed", stats.Removed))
	}
	return &services{svc: svc, db: db}, nil
}

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	// Initialize structured JSON logger.
	logger := newLogger(os.Stdout, cfg.App.LogLevel)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("ai_provider", cfg.AI.Provider),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("inbox_path", cfg.Inbox.Path),
		slog.String("attachments_path", cfg.Attachments.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// SSE broker.
	broker := sse.NewBroker(2 * time.Second)
	defer broker.Close()

	deps, err := app.build(logger, broker)
	if err != nil {
		return err
	}
	defer deps.db.Close()
	svc := deps.svc

	apiRouter := api.NewRouter(svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

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
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := deps.db.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"index unavailable"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	// Uploaded note images.
	r.Get("/attachments/{filename}", api.NewAttachmentHandler(svc).ServeFile)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Import inbox.
	if cfg.Inbox.Path != "" {
		inbox, err := storage.Ensure(cfg.Inbox.Path)
		if err != nil {
			return fmt.Errorf("init inbox: %w", err)
		}
		g.Go(func() error {
			if err := importer.Watch(gCtx, inbox, svc.InboxHandler(cfg.Inbox.Notebook), logger); err != nil {
				logger.Error("inbox watcher stopped", slog.String("error", err.Error()))
			}
			return nil
		})
	}

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

		// Let in-flight chat answers land before the broker closes.
		svc.Wait()
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// RunMCP serves the MCP tools over stdio. Logs go to stderr because stdout
// carries the protocol.
func RunMCP(_ context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	logger := newLogger(os.Stderr, app.config.App.LogLevel)

	deps, err := app.build(logger, nil)
	if err != nil {
		return err
	}
	defer deps.db.Close()

	logger.Info("Starting MCP server on stdio")
	return mcpserver.New(deps.svc).ServeStdio()
}
