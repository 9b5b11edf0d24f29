package main

import (
	"context"
	"errors"
	"log" // Use standard log only for initial fatal errors before logger is set up
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tradeJournal/config"
	"tradeJournal/internal/adapters/httpapi"
	"tradeJournal/internal/adapters/logger"
	"tradeJournal/internal/adapters/sqlite"
	"tradeJournal/internal/adapters/tracing"
	"tradeJournal/internal/app"
	"tradeJournal/internal/ports"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err) // Use standard log before logger is ready
	}

	// 2. Initialize Logger
	appLogger := logger.New(cfg.LogFormat, cfg.LogLevel, os.Stdout)
	appLogger.Info(context.Background(), "Logger initialized", map[string]interface{}{
		"level":  cfg.LogLevel.String(),
		"format": cfg.LogFormat,
	})

	if err := run(cfg, appLogger); err != nil {
		appLogger.Error(context.Background(), err, "Journal server exited with error")
		os.Exit(1)
	}
	appLogger.Info(context.Background(), "Application finished gracefully.")
}

const serviceVersion = "0.3.0"

func run(cfg *config.Config, appLogger ports.Logger) error {
	shutdownTracing, err := tracing.Setup(context.Background(), tracing.Config{
		Enabled:        cfg.TracingEnabled,
		ServiceName:    "trade-journal",
		ServiceVersion: serviceVersion,
		Writer:         os.Stderr,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			appLogger.Error(context.Background(), err, "Error flushing traces")
		}
	}()

	// 3. Initialize Repository (Database Adapter)
	repo, err := sqlite.NewRepository(sqlite.Config{
		DBPath: cfg.DBPath,
		Logger: appLogger,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := repo.Close(); err != nil {
			appLogger.Error(context.Background(), err, "Error closing database repository")
		}
	}()
	appLogger.Info(context.Background(), "Database repository initialized")

	// 4. Initialize Application Service
	journal, err := app.NewJournalService(appLogger, repo)
	if err != nil {
		return err
	}

	// 5. Initialize HTTP transport
	tokens := httpapi.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	handler := httpapi.New(journal, tokens, appLogger, cfg.MaxUploadBytes)
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler.SetupRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 6. Serve until a shutdown signal arrives
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		appLogger.Info(ctx, "HTTP server listening", map[string]interface{}{"addr": cfg.HTTPAddr})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
		appLogger.Info(context.Background(), "Received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
