// Cinematch - Movie Recommendation Engine and API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package main is the Cinematch offline trainer.
//
// The trainer runs the full training pipeline exactly once: load CSVs,
// sample, build the interaction matrix, compute similarity and
// popularity, then persist the snapshot to the configured store. The
// server picks up the newest snapshot on its next start (or the rebuild
// service swaps it in on its next cycle when pointed at the same store).
//
// Configuration comes from the same environment variables and config
// file the server reads; command-line flags override individual values
// for one-off runs:
//
//	trainer -movies /tmp/movies.csv -ratings /tmp/ratings.csv -max-users 500
//
// The exit code is non-zero on any failure; nothing is persisted unless
// the whole pipeline succeeded.
package main

import (
	"context"
	"flag"
	"time"

	"github.com/tomtom215/cinematch/internal/config"
	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/recommend"
	"github.com/tomtom215/cinematch/internal/recommend/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Flag overrides for one-off runs; defaults come from config
	moviesPath := flag.String("movies", cfg.Data.MoviesPath, "movie catalog CSV path")
	ratingsPath := flag.String("ratings", cfg.Data.RatingsPath, "rating log CSV path")
	maxUsers := flag.Int("max-users", cfg.Recommend.MaxUsers, "most-active users to retain")
	maxEvents := flag.Int("max-events", cfg.Recommend.MaxEvents, "rating events to retain")
	minRatings := flag.Int("min-ratings", cfg.Recommend.MinRatings, "minimum ratings per movie and user")
	seed := flag.Int64("seed", cfg.Recommend.SampleSeed, "sampling seed")
	backend := flag.String("store", cfg.Storage.Backend, "snapshot store backend (file or badger)")
	path := flag.String("path", cfg.Storage.Path, "snapshot store path")
	keep := flag.Int("keep", cfg.Training.KeepVersions, "snapshot versions to retain (0 disables pruning)")
	timeout := flag.Duration("timeout", 30*time.Minute, "training timeout")
	flag.Parse()

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	rcfg := recommend.Config{
		Data: recommend.DataConfig{
			MoviesPath:  *moviesPath,
			RatingsPath: *ratingsPath,
		},
		Sampler: recommend.SamplerConfig{
			MaxUsers:  *maxUsers,
			MaxEvents: *maxEvents,
			Seed:      *seed,
		},
		Matrix: recommend.MatrixConfig{
			MinRatings: *minRatings,
		},
		// The trainer serves no queries; no response cache
	}

	logging.Info().
		Str("movies_path", rcfg.Data.MoviesPath).
		Str("ratings_path", rcfg.Data.RatingsPath).
		Int("max_users", rcfg.Sampler.MaxUsers).
		Int("max_events", rcfg.Sampler.MaxEvents).
		Int("min_ratings", rcfg.Matrix.MinRatings).
		Msg("Starting training run")

	engine, err := recommend.NewEngine(rcfg, logging.Logger())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create engine")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	start := time.Now()
	snap, err := engine.Train(ctx, "cli")
	if err != nil {
		logging.Fatal().Err(err).Msg("Training failed")
	}

	report(snap)

	store, err := storage.New(*backend, *path, logging.Logger())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open snapshot store")
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing snapshot store")
		}
	}()

	meta, err := store.Save(snap)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to persist snapshot")
	}
	logging.Info().
		Int64("version", meta.Version).
		Str("checksum", meta.Checksum).
		Int64("size_bytes", meta.SizeBytes).
		Msg("Snapshot persisted")

	if *keep > 0 {
		deleted, err := store.Prune(*keep)
		if err != nil {
			logging.Warn().Err(err).Msg("Failed to prune old snapshots")
		} else if deleted > 0 {
			logging.Info().Int("deleted", deleted).Int("keep", *keep).Msg("Pruned old snapshots")
		}
	}

	logging.Info().Dur("total", time.Since(start)).Msg("Training run complete")
}

// report logs the dataset statistics for the freshly built snapshot.
// This mirrors what operators need to sanity-check a build: input sizes,
// matrix shape and density, and a preview of the top-rated movies.
func report(snap *recommend.Snapshot) {
	logging.Info().
		Int("catalog_movies", snap.Info.MovieRows).
		Int("rating_rows", snap.Info.RatingRows).
		Int("sampled_events", snap.Info.SampledEvents).
		Msg("Input data")

	users := snap.Matrix.Users()
	movies := snap.Matrix.Movies()

	var filled int
	var ratingSum float64
	for _, row := range snap.Matrix.Values {
		for _, v := range row {
			if v > 0 {
				filled++
				ratingSum += v
			}
		}
	}

	density := 0.0
	meanRating := 0.0
	if users > 0 && movies > 0 && filled > 0 {
		density = float64(filled) / float64(users*movies)
		meanRating = ratingSum / float64(filled)
	}

	logging.Info().
		Int("users", users).
		Int("movies", movies).
		Int("ratings", filled).
		Float64("density", density).
		Float64("mean_rating", meanRating).
		Dur("build_time", snap.Info.Duration).
		Msg("Model statistics")

	for i, m := range snap.Popular(5) {
		logging.Info().
			Int("rank", i+1).
			Int("movie_id", m.MovieID).
			Str("title", m.Title).
			Float64("score", m.Score).
			Int("num_ratings", m.NumRatings).
			Msg("Top movie")
	}
}
