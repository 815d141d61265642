// Package bootstrap handles application initialization and lifecycle
// management for the odoo-mirror service.
package bootstrap

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/jonesrussell/north-cloud/odoo-mirror/internal/logger"
)

const version = "dev"

// Start initializes and runs the odoo-mirror application: the schedule
// store, the scheduler loop with its worker pool, and the HTTP API.
func Start() error {
	// Phase 1: Load config and create logger
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := CreateLogger(cfg, version)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	// Phase 2: Setup database and run migrations
	db, err := SetupDatabase(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to setup database: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			log.Error("Failed to close database", logger.Error(closeErr))
		}
	}()

	// Phase 3: Setup Redis (schedule store + event stream)
	redisClient, err := SetupRedis(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	defer func() {
		if closeErr := redisClient.Close(); closeErr != nil {
			log.Error("Failed to close redis client", logger.Error(closeErr))
		}
	}()

	// Phase 4: Setup scheduler (store, plan, dispatcher, loop)
	sched := SetupScheduler(cfg, db, redisClient, log)

	// Phase 5: Setup HTTP server
	server := SetupHTTPServer(cfg, db, sched.Store, log)

	// Run scheduler loop and worker pool until shutdown.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		sched.Dispatcher.Run(ctx)
	}()
	wg.Add(1)
	go func() {
		defer wg.Done()
		sched.Loop.Run(ctx)
	}()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err = <-errCh:
		if err != nil {
			log.Error("Server error", logger.Error(err))
		}
	case sig := <-sigCh:
		log.Info("Shutdown signal received", logger.String("signal", sig.String()))
	}

	// Stop accepting HTTP traffic first, then wind down the scheduler.
	if shutdownErr := server.Shutdown(context.Background()); shutdownErr != nil {
		log.Error("Server shutdown error", logger.Error(shutdownErr))
	}
	cancel()
	wg.Wait()

	log.Info("Service exited")
	return err
}
