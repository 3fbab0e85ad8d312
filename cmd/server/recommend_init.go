// Cinematch - Movie Recommendation Engine and API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package main

import (
	"errors"

	"github.com/tomtom215/cinematch/internal/config"
	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/recommend"
	"github.com/tomtom215/cinematch/internal/recommend/storage"
)

// initEngine creates the recommendation engine and restores the newest
// stored snapshot into it. A missing snapshot is not an error; the engine
// starts cold and the rebuild service decides whether to train.
func initEngine(cfg *config.Config, store storage.Store) (*recommend.Engine, error) {
	engine, err := recommend.NewEngine(buildEngineConfig(cfg), logging.Logger())
	if err != nil {
		return nil, err
	}

	snap, meta, err := store.LoadLatest()
	switch {
	case err == nil:
		engine.SetSnapshot(snap, meta.Version)
		logging.Info().
			Int64("version", meta.Version).
			Int("movies", meta.Movies).
			Int("users", meta.Users).
			Time("built_at", meta.BuiltAt).
			Msg("Restored snapshot from store")

	case errors.Is(err, storage.ErrSnapshotNotFound):
		logging.Info().Msg("No stored snapshot found, engine starts cold")

	default:
		// A corrupt store should not stop the server; training can
		// produce a fresh snapshot.
		logging.Warn().Err(err).Msg("Failed to restore stored snapshot")
	}

	return engine, nil
}

// buildEngineConfig creates the engine configuration from app config.
func buildEngineConfig(cfg *config.Config) recommend.Config {
	return recommend.Config{
		Data: recommend.DataConfig{
			MoviesPath:  cfg.Data.MoviesPath,
			RatingsPath: cfg.Data.RatingsPath,
		},
		Sampler: recommend.SamplerConfig{
			MaxUsers:  cfg.Recommend.MaxUsers,
			MaxEvents: cfg.Recommend.MaxEvents,
			Seed:      cfg.Recommend.SampleSeed,
		},
		Matrix: recommend.MatrixConfig{
			MinRatings: cfg.Recommend.MinRatings,
		},
		Cache: recommend.CacheConfig{
			Enabled:    cfg.Recommend.CacheTTL > 0,
			TTL:        cfg.Recommend.CacheTTL,
			MaxEntries: cfg.Recommend.CacheSize,
		},
	}
}
