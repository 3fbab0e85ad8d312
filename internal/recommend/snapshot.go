// Cinematch - Movie Recommendation Engine and API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// snapshotSampleSize is how many sampled events a snapshot retains for
// auditing. Enough to eyeball what training saw without bloating the
// stored blob.
const snapshotSampleSize = 100

// Snapshot is one complete, immutable trained model. Every query the
// engine serves reads exactly one snapshot, so results stay mutually
// consistent until the next swap. All fields are exported for gob.
type Snapshot struct {
	Catalog       *Catalog
	Matrix        *InteractionMatrix
	Similarity    *SimilarityModel
	Popularity    *PopularityIndex
	RatingsSample []RatingEvent
	Info          BuildInfo
}

// Builder runs the training pipeline: sample, pivot, similarity,
// popularity. Stages run strictly in sequence; the context is checked
// only at stage boundaries, so cancellation never yields a partial
// stage.
type Builder struct {
	cfg    Config
	logger zerolog.Logger
}

// NewBuilder returns a builder for the given configuration.
func NewBuilder(cfg Config, logger zerolog.Logger) *Builder {
	return &Builder{
		cfg:    cfg,
		logger: logger.With().Str("component", "trainer").Logger(),
	}
}

// Build trains a snapshot from a loaded catalog and event log. The
// trigger string ("startup", "schedule", "cli") is recorded in the
// snapshot's build info.
func (b *Builder) Build(ctx context.Context, movies []Movie, events []RatingEvent, trigger string) (*Snapshot, error) {
	start := time.Now()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sampled := SampleRatings(events, b.cfg.Sampler)
	b.logger.Debug().
		Int("events_in", len(events)).
		Int("events_sampled", len(sampled)).
		Int("max_users", b.cfg.Sampler.MaxUsers).
		Int("max_events", b.cfg.Sampler.MaxEvents).
		Msg("sampled rating events")

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	matrix := BuildMatrix(sampled, b.cfg.Matrix.MinRatings)
	b.logger.Debug().
		Int("users", matrix.Users()).
		Int("movies", matrix.Movies()).
		Int("min_ratings", b.cfg.Matrix.MinRatings).
		Msg("built interaction matrix")

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	similarity := BuildSimilarity(matrix)
	b.logger.Debug().
		Int("movies", similarity.Movies()).
		Msg("built similarity model")

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	popularity := BuildPopularity(matrix)

	sample := sampled
	if len(sample) > snapshotSampleSize {
		sample = sample[:snapshotSampleSize]
	}
	auditSample := make([]RatingEvent, len(sample))
	copy(auditSample, sample)

	snap := &Snapshot{
		Catalog:       NewCatalog(movies),
		Matrix:        matrix,
		Similarity:    similarity,
		Popularity:    popularity,
		RatingsSample: auditSample,
		Info: BuildInfo{
			BuiltAt:       time.Now().UTC(),
			Duration:      time.Since(start),
			Trigger:       trigger,
			MovieRows:     len(movies),
			RatingRows:    len(events),
			SampledEvents: len(sampled),
			MatrixUsers:   matrix.Users(),
			MatrixMovies:  matrix.Movies(),
			MaxUsers:      b.cfg.Sampler.MaxUsers,
			MaxEvents:     b.cfg.Sampler.MaxEvents,
			MinRatings:    b.cfg.Matrix.MinRatings,
			SampleSeed:    b.cfg.Sampler.Seed,
		},
	}

	b.logger.Info().
		Str("trigger", trigger).
		Int("movies", matrix.Movies()).
		Int("users", matrix.Users()).
		Int("sampled_events", len(sampled)).
		Dur("duration", snap.Info.Duration).
		Msg("training complete")
	return snap, nil
}
