// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	http_api "job-board/internal/api/http"
	"job-board/internal/config"
	"job-board/internal/domain"
	"job-board/internal/infra"
	"job-board/internal/infra/events"
	"job-board/internal/scheduler"
	"job-board/internal/tracing"
	"job-board/internal/usecase"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

// run wires the application and blocks until shutdown. Start-up failures are
// returned so deferred cleanup of earlier steps still runs.
func run() error {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// 2. Initialize logger and tracer
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return fmt.Errorf("invalid log_level %q: %w", cfg.LogLevel, err)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	tracerShutdown, err := tracing.InitTracer("job-board-api", cfg.Tracing.Enabled, os.Stderr)
	if err != nil {
		return fmt.Errorf("failed to initialize tracer: %w", err)
	}
	defer func() {
		if err := tracerShutdown(context.Background()); err != nil {
			logger.Error("failed to shutdown tracer", "error", err)
		}
	}()

	logger.Info("Starting job board API...", "store", cfg.Store.Driver)

	// 3. Create root context for lifecycle management
	rootCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	setupGracefulShutdown(cancel, logger)

	// 4. Open the record store
	repo, err := infra.OpenJobRepository(rootCtx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to open job store: %w", err)
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logger.Error("failed to close job store", "error", err)
		}
	}()

	// 5. Lifecycle events are optional
	var publisher domain.EventPublisher
	if cfg.Events.NatsURL != "" {
		publisher, err = events.NewPublisher(cfg.Events.NatsURL, cfg.Events.SubjectPrefix, cfg.Events.Timeout, logger)
		if err != nil {
			return fmt.Errorf("failed to connect event publisher: %w", err)
		}
		defer publisher.Close()
		logger.Info("Publishing job events", "nats_url", cfg.Events.NatsURL, "prefix", cfg.Events.SubjectPrefix)
	}

	// 6. Instantiate components
	jobService := usecase.NewJobService(repo, publisher, logger)
	jobHandler := http_api.NewJobHandler(jobService, logger)

	if cfg.Stats.Schedule != "" {
		refresher, err := scheduler.NewStatsRefresher(jobService, cfg.Stats.Schedule, logger)
		if err != nil {
			return fmt.Errorf("invalid stats.schedule %q: %w", cfg.Stats.Schedule, err)
		}
		go func() {
			if err := refresher.Start(rootCtx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("stats refresher stopped with error", "error", err)
			}
		}()
	}

	// 7. Register routes and metrics endpoint
	router := mux.NewRouter()
	router.Handle("/metrics", promhttp.Handler())
	router.HandleFunc("/healthz", http_api.Healthz).Methods(http.MethodGet)
	jobHandler.RegisterRoutes(router)

	// 8. Start HTTP API server with CORS middleware
	server := &http.Server{
		Addr:    cfg.HttpListenAddr,
		Handler: http_api.CORS(router),
	}
	go func() {
		logger.Info("Starting HTTP API server", "addr", cfg.HttpListenAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", "error", err)
			cancel()
		}
	}()

	// 9. Block until shutdown
	<-rootCtx.Done()
	logger.Info("Shutting down application gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}

	logger.Info("Application shut down.")
	return nil
}

func setupGracefulShutdown(cancel context.CancelFunc, logger *slog.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logger.Info("Received signal, initiating graceful shutdown", "signal", sig.String())
		cancel()
	}()
}
