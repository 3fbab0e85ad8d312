// Cinematch - Movie Recommendation Engine and API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package recommend implements an item-based collaborative filtering engine
// for movie recommendations.
//
// # Architecture
//
// Training is a strictly sequential batch pipeline over two CSV inputs
// (a movie catalog and a rating event log):
//
//   - Rating Sampler: bounds the working set to the most active users and
//     a capped event count (seeded, deterministic down-sampling)
//   - Interaction Matrix Builder: dedupes and filters low-activity rows,
//     then pivots into a dense user-by-movie matrix
//   - Similarity Model: cosine similarity between movie column vectors
//   - Popularity Scorer: Bayesian weighted rating per movie
//
// The pipeline output is an immutable Snapshot holding the catalog, the
// matrix, the similarity model, the popularity index and a small audit
// sample of the training events. Snapshots are persisted wholesale by the
// storage subpackage and served by the Engine.
//
// # Design Principles
//
//   - Deterministic: Same inputs produce identical outputs (seeded RNG)
//   - Immutable: A built snapshot is never mutated; rebuilds swap a new
//     snapshot behind an atomic pointer (copy-on-reload)
//   - Auditable: All pipeline stages are logged with structured fields
//   - Observable: Training, query and cache metrics exposed for monitoring
//   - Durable: Snapshots persisted with checksums, versioned
//
// # Usage
//
//	cfg := recommend.DefaultConfig()
//	engine, err := recommend.NewEngine(cfg, logger)
//	if err != nil { ... }
//
//	// Build a model from the configured CSVs and install it
//	snap, err := engine.Train(ctx, "startup")
//	if err != nil { ... }
//	engine.SetSnapshot(snap, 0)
//
//	movies, err := engine.Popular(ctx, 20)
//
// # Thread Safety
//
// The engine is safe for concurrent use. Queries are pure reads of the
// current snapshot and run without locking; Train builds a complete new
// snapshot before swapping it in, so in-flight queries always observe a
// consistent model.
package recommend
