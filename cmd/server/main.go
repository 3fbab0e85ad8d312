// Cinematch - Movie Recommendation Engine and API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package main is the entry point for the Cinematch server application.
//
// Cinematch is a self-hosted movie recommendation service. It trains an
// item-based collaborative filtering model from MovieLens-style CSV files
// and serves popularity, similarity, search, and per-user recommendation
// queries over a versioned REST API.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: Load settings from environment variables and config files (Koanf v2)
//  2. Snapshot Store: Open the file or BadgerDB-backed snapshot store
//  3. Engine: Create the recommendation engine and restore the latest stored snapshot
//  4. Supervisor Tree: Start the rebuild service and HTTP server under suture v4
//
// The engine serves from an immutable in-memory snapshot; training runs
// build a fresh snapshot off to the side and swap it in atomically, so
// queries never block on a rebuild.
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest priority wins):
//   - Environment variables (see internal/config)
//   - Config file (config.yaml)
//   - Built-in defaults
//
// # Snapshot Lifecycle
//
// On startup the server restores the newest stored snapshot if one exists.
// With TRAIN_ON_START=true and an empty store, it trains from the CSVs
// before serving. REBUILD_INTERVAL schedules periodic retraining; each
// successful rebuild is persisted and installed, and versions beyond
// KEEP_VERSIONS are pruned.
//
// # Signal Handling
//
// The server handles graceful shutdown on SIGINT and SIGTERM:
//   - Stops accepting new connections
//   - Waits for in-flight requests to complete (10s timeout)
//   - Closes the snapshot store
//
// # Example Usage
//
// Serve a previously trained snapshot:
//
//	export SNAPSHOT_PATH=/data/snapshots
//	./cinematch
//
// Train at startup and rebuild nightly:
//
//	export MOVIES_PATH=/data/movies.csv
//	export RATINGS_PATH=/data/ratings.csv
//	export TRAIN_ON_START=true
//	export REBUILD_INTERVAL=24h
//	./cinematch
//
// Docker:
//
//	docker run -d \
//	  -v /srv/movielens:/data \
//	  -e TRAIN_ON_START=true \
//	  -p 3860:3860 \
//	  ghcr.io/tomtom215/cinematch
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/cinematch/internal/api"
	"github.com/tomtom215/cinematch/internal/config"
	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/recommend/storage"
	"github.com/tomtom215/cinematch/internal/supervisor"
	"github.com/tomtom215/cinematch/internal/supervisor/services"
)

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		// Use default logger for config errors (config not yet available)
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize zerolog with configuration
	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().Msg("Starting Cinematch with supervisor tree")

	logging.Info().
		Str("movies_path", cfg.Data.MoviesPath).
		Str("ratings_path", cfg.Data.RatingsPath).
		Str("snapshot_store", cfg.Storage.Backend).
		Str("snapshot_path", cfg.Storage.Path).
		Msg("Configuration loaded")

	// Open the snapshot store
	store, err := storage.New(cfg.Storage.Backend, cfg.Storage.Path, logging.Logger())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open snapshot store")
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing snapshot store")
		}
	}()
	logging.Info().Msg("Snapshot store opened successfully")

	// Create the engine and restore the newest stored snapshot
	engine, err := initEngine(cfg, store)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize recommendation engine")
	}

	if !engine.Ready() && !cfg.Training.TrainOnStart {
		logging.Warn().Msg("No snapshot loaded and TRAIN_ON_START=false; API will return 503 until a model is trained")
	}

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Create structured logger for supervisor using our slog adapter
	// This bridges zerolog to slog for sutureslog compatibility
	slogLogger := logging.NewSlogLogger()

	// Create supervisor tree
	tree, err := supervisor.NewSupervisorTree(slogLogger, supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	handler := api.NewHandler(engine, api.HandlerConfig{
		DefaultPageSize: cfg.API.DefaultPageSize,
		MaxPageSize:     cfg.API.MaxPageSize,
	})

	mwCfg := api.DefaultMiddlewareConfig()
	mwCfg.CORSAllowedOrigins = cfg.Security.CORSOrigins
	mwCfg.RateLimitRequests = cfg.Security.RateLimitReqs
	mwCfg.RateLimitWindow = cfg.Security.RateLimitWindow
	mwCfg.RateLimitDisabled = cfg.Security.RateLimitDisabled

	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (RATE_LIMIT_DISABLED=true)")
		logging.Warn().Msg("This should only be used for local development and CI!")
	}

	router := api.NewRouter(handler, mwCfg)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	// === ADD SERVICES TO SUPERVISOR TREE ===

	// Training layer services
	rebuildSvc := services.NewRebuildService(engine, store, services.RebuildServiceConfig{
		TrainOnStart: cfg.Training.TrainOnStart,
		Interval:     cfg.Training.RebuildInterval,
		KeepVersions: cfg.Training.KeepVersions,
	}, logging.Logger())
	tree.AddTrainingService(rebuildSvc)
	logging.Info().
		Bool("train_on_start", cfg.Training.TrainOnStart).
		Dur("rebuild_interval", cfg.Training.RebuildInterval).
		Msg("Rebuild service added to supervisor tree")

	// API layer services
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	// === START SUPERVISOR TREE ===

	// Setup signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	// Wait for supervisor to finish (either from signal or error)
	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	// Wait for the error channel to close (supervisor finished)
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	// Report any services that failed to stop within timeout
	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}
