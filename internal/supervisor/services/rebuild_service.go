// Cinematch - Movie Recommendation Engine and API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinematch/internal/recommend"
	"github.com/tomtom215/cinematch/internal/recommend/storage"
)

// TrainingEngine is the subset of the recommendation engine the rebuild
// service drives. Using an interface keeps the service testable with a
// stub engine.
type TrainingEngine interface {
	// Train builds a fresh snapshot without installing it.
	Train(ctx context.Context, trigger string) (*recommend.Snapshot, error)

	// SetSnapshot atomically installs a snapshot for serving.
	SetSnapshot(snap *recommend.Snapshot, version int64)

	// Ready reports whether a snapshot is currently installed.
	Ready() bool
}

// SnapshotSink persists snapshots and prunes old versions. Satisfied by
// storage.Store.
type SnapshotSink interface {
	Save(snap *recommend.Snapshot) (storage.Metadata, error)
	Prune(keep int) (int, error)
}

// RebuildServiceConfig holds configuration for the rebuild service.
type RebuildServiceConfig struct {
	// TrainOnStart triggers a build when the service starts. The caller
	// normally sets this only when no stored snapshot could be loaded.
	TrainOnStart bool

	// Interval is how often to rebuild the model. Zero or negative
	// disables scheduled rebuilds; the service then only handles the
	// startup build.
	Interval time.Duration

	// KeepVersions is how many stored snapshot versions to retain after
	// a successful rebuild. Zero or negative disables pruning.
	KeepVersions int

	// Timeout bounds a single rebuild. Default: 30m.
	Timeout time.Duration
}

// RebuildService periodically retrains the model, persists the result,
// and swaps it into the engine. A failed rebuild is logged and the
// engine keeps serving the previous snapshot; the next tick tries again.
type RebuildService struct {
	engine TrainingEngine
	store  SnapshotSink
	config RebuildServiceConfig
	logger zerolog.Logger
	name   string
}

// NewRebuildService creates a new rebuild service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRebuildService(engine TrainingEngine, store SnapshotSink, cfg RebuildServiceConfig, logger zerolog.Logger) *RebuildService {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Minute
	}
	return &RebuildService{
		engine: engine,
		store:  store,
		config: cfg,
		logger: logger.With().Str("service", "rebuild").Logger(),
		name:   "rebuild-service",
	}
}

// Serve implements the suture.Service interface.
func (s *RebuildService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("train_on_start", s.config.TrainOnStart).
		Dur("interval", s.config.Interval).
		Int("keep_versions", s.config.KeepVersions).
		Msg("rebuild service starting")

	if s.config.TrainOnStart && !s.engine.Ready() {
		if err := s.rebuild(ctx, "startup"); err != nil {
			s.logger.Warn().Err(err).Msg("startup build failed (will retry on schedule)")
		}
	}

	if s.config.Interval <= 0 {
		s.logger.Info().Msg("scheduled rebuilds disabled")
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	s.logger.Info().Msg("rebuild service running")

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("rebuild service shutting down")
			return ctx.Err()

		case <-ticker.C:
			if err := s.rebuild(ctx, "schedule"); err != nil {
				s.logger.Warn().Err(err).Msg("scheduled rebuild failed")
			}
		}
	}
}

// rebuild performs one train-persist-swap cycle. The engine's previous
// snapshot stays installed until the new one is safely stored, so a
// crash between steps never leaves the API serving an unpersisted model.
func (s *RebuildService) rebuild(ctx context.Context, trigger string) error {
	buildCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	start := time.Now()
	s.logger.Info().Str("trigger", trigger).Msg("starting model rebuild")

	snap, err := s.engine.Train(buildCtx, trigger)
	if err != nil {
		if errors.Is(err, recommend.ErrTrainingInProgress) {
			s.logger.Warn().Msg("skipping rebuild, training already in progress")
			return nil
		}
		return err
	}

	meta, err := s.store.Save(snap)
	if err != nil {
		return err
	}

	s.engine.SetSnapshot(snap, meta.Version)

	s.logger.Info().
		Int64("version", meta.Version).
		Int("movies", snap.Info.MatrixMovies).
		Int("users", snap.Info.MatrixUsers).
		Dur("duration", time.Since(start)).
		Msg("model rebuild complete")

	if s.config.KeepVersions > 0 {
		deleted, err := s.store.Prune(s.config.KeepVersions)
		if err != nil {
			s.logger.Warn().Err(err).Msg("snapshot prune failed")
		} else if deleted > 0 {
			s.logger.Debug().Int("deleted", deleted).Msg("pruned old snapshots")
		}
	}

	return nil
}

// String returns the service name for logging.
func (s *RebuildService) String() string {
	return s.name
}
