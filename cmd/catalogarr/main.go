package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/avsingh/catalogarr/internal/api"
	"github.com/avsingh/catalogarr/internal/config"
	"github.com/avsingh/catalogarr/internal/ingest"
	"github.com/avsingh/catalogarr/internal/models"
	"github.com/avsingh/catalogarr/internal/scheduler"
	"github.com/avsingh/catalogarr/internal/services/auth"
	"github.com/avsingh/catalogarr/internal/services/catalog"
	"github.com/avsingh/catalogarr/internal/utils"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// 2. Setup logger
	logger := utils.NewLogger(cfg.LogLevel)
	logger.Info("Starting Catalogarr")
	logger.WithField("config_dir", filepath.Dir(cfg.DatabaseFile)).Info("Configuration loaded")

	// 3. Initialize database
	db, err := models.NewDatabase(cfg.DatabaseFile)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()
	logger.Info("Database initialized")

	// 4. Initialize services
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	authSvc := auth.NewService(db, tokens, logger)
	catalogSvc := catalog.NewService(db, logger)
	logger.Info("Services initialized")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 5. Start ingestion workers
	runner := ingest.NewRunner(db, cfg.BatchSize, cfg.WorkerCount, logger)
	runner.Start(ctx)
	defer runner.Stop()

	// 6. Start scheduler
	sched := scheduler.NewScheduler(db, cfg.StaleJobAfter, logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer sched.Stop()

	// 7. Initialize HTTP server
	server := api.NewServer(cfg, db, authSvc, catalogSvc, runner, tokens, logger)

	serverErrChan := make(chan error, 1)
	go func() {
		if err := server.Start(ctx); err != nil {
			serverErrChan <- err
		}
	}()

	// 8. Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	logger.Info("Catalogarr is running")

	select {
	case err := <-serverErrChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		logger.WithField("signal", sig).Info("Received shutdown signal")
		cancel()
		if err := server.Shutdown(context.Background()); err != nil {
			logger.WithError(err).Error("Error during server shutdown")
		}
	}

	logger.Info("Catalogarr stopped")
	return nil
}
