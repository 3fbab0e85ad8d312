// Cinematch - Movie Recommendation Engine and API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinematch/internal/metrics"
)

var (
	// ErrNotReady is returned by query operations before the first
	// snapshot has been installed. The HTTP layer maps it to 503.
	ErrNotReady = errors.New("recommendation model not ready")

	// ErrTrainingInProgress is returned when Train is called while
	// another training run holds the lock.
	ErrTrainingInProgress = errors.New("training already in progress")
)

// cacheEntry is one cached query response with its expiry.
type cacheEntry struct {
	movies    []ScoredMovie
	fallback  bool
	expiresAt time.Time
}

// Engine serves recommendation queries from the current snapshot and
// coordinates training runs. Queries are lock-free reads of an atomic
// snapshot pointer; only the response cache takes a lock.
type Engine struct {
	cfg    Config
	logger zerolog.Logger

	snapshot atomic.Pointer[Snapshot]
	version  atomic.Int64

	cacheMu sync.RWMutex
	cache   map[string]cacheEntry

	// trainMu serializes training runs without blocking callers; a
	// second concurrent Train fails fast with ErrTrainingInProgress.
	trainMu sync.Mutex
}

// NewEngine creates an engine with no snapshot installed. Queries return
// ErrNotReady until SetSnapshot or a successful Train plus SetSnapshot.
func NewEngine(cfg Config, logger zerolog.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &Engine{
		cfg:    cfg,
		logger: logger.With().Str("component", "engine").Logger(),
		cache:  make(map[string]cacheEntry),
	}, nil
}

// Ready reports whether a snapshot is installed and queries can be
// served.
func (e *Engine) Ready() bool {
	return e.snapshot.Load() != nil
}

// Current returns the snapshot queries are being served from, or nil
// before the first install. Callers must treat it as read-only.
func (e *Engine) Current() *Snapshot {
	return e.snapshot.Load()
}

// Version returns the storage version of the installed snapshot, or 0
// before the first install.
func (e *Engine) Version() int64 {
	return e.version.Load()
}

// SetSnapshot atomically swaps in a new snapshot and flushes the
// response cache so no reply mixes old and new model state. The version
// is whatever the storage layer assigned (0 for unpersisted snapshots).
func (e *Engine) SetSnapshot(snap *Snapshot, version int64) {
	e.snapshot.Store(snap)
	e.version.Store(version)
	e.clearCache()
	metrics.UpdateSnapshotGauges(version, snap.Matrix.Movies(), snap.Matrix.Users(),
		snap.Info.SampledEvents, snap.Info.BuiltAt)
	e.logger.Info().
		Int64("version", version).
		Int("movies", snap.Matrix.Movies()).
		Int("users", snap.Matrix.Users()).
		Str("trigger", snap.Info.Trigger).
		Time("built_at", snap.Info.BuiltAt).
		Msg("snapshot installed")
}

// Train loads the configured CSVs and runs the full pipeline, returning
// the new snapshot without installing it. Callers persist and then
// SetSnapshot, so a failed save never leaves the engine serving an
// unpersisted model version.
func (e *Engine) Train(ctx context.Context, trigger string) (*Snapshot, error) {
	if !e.trainMu.TryLock() {
		return nil, ErrTrainingInProgress
	}
	defer e.trainMu.Unlock()

	start := time.Now()
	snap, err := e.train(ctx, trigger)
	metrics.RecordTraining(trigger, time.Since(start), err)
	if err != nil {
		e.logger.Error().Err(err).Str("trigger", trigger).Msg("training failed")
		return nil, err
	}
	return snap, nil
}

func (e *Engine) train(ctx context.Context, trigger string) (*Snapshot, error) {
	movies, err := LoadMovies(e.cfg.Data.MoviesPath)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	events, err := LoadRatings(e.cfg.Data.RatingsPath, e.cfg.Sampler.MaxReadRows())
	if err != nil {
		return nil, fmt.Errorf("read ratings: %w", err)
	}
	return NewBuilder(e.cfg, e.logger).Build(ctx, movies, events, trigger)
}

// Popular returns the top n movies by weighted rating.
func (e *Engine) Popular(ctx context.Context, n int) ([]ScoredMovie, error) {
	snap, err := e.ready(ctx)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	key := fmt.Sprintf("popular:%d", n)
	movies, _, hit := e.checkCache(key)
	if !hit {
		movies = snap.Popular(n)
		e.storeCache(key, movies, false)
	}
	metrics.RecordQuery("popular", listResult(len(movies)), time.Since(start))
	return movies, nil
}

// Similar returns the n movies most similar to the given one. Unknown
// IDs yield an empty slice, not an error.
func (e *Engine) Similar(ctx context.Context, movieID, n int) ([]ScoredMovie, error) {
	snap, err := e.ready(ctx)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	key := fmt.Sprintf("similar:%d:%d", movieID, n)
	movies, _, hit := e.checkCache(key)
	if !hit {
		movies = snap.Similar(movieID, n)
		e.storeCache(key, movies, false)
	}
	metrics.RecordQuery("similar", listResult(len(movies)), time.Since(start))
	return movies, nil
}

// ForUser returns personalized recommendations, or the popularity
// ranking for users the model has never seen. The boolean reports that
// fallback.
func (e *Engine) ForUser(ctx context.Context, userID, n int) ([]ScoredMovie, bool, error) {
	snap, err := e.ready(ctx)
	if err != nil {
		return nil, false, err
	}
	start := time.Now()
	key := fmt.Sprintf("user:%d:%d", userID, n)
	movies, fallback, hit := e.checkCache(key)
	if !hit {
		movies, fallback = snap.ForUser(userID, n)
		e.storeCache(key, movies, fallback)
	}
	result := listResult(len(movies))
	if fallback {
		result = "fallback"
	}
	metrics.RecordQuery("for_user", result, time.Since(start))
	return movies, fallback, nil
}

// Search matches the query against catalog titles.
func (e *Engine) Search(ctx context.Context, query string, n int) ([]ScoredMovie, error) {
	snap, err := e.ready(ctx)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	key := fmt.Sprintf("search:%s:%d", query, n)
	movies, _, hit := e.checkCache(key)
	if !hit {
		movies = snap.Search(query, n)
		e.storeCache(key, movies, false)
	}
	metrics.RecordQuery("search", listResult(len(movies)), time.Since(start))
	return movies, nil
}

// Movie looks up a single catalog entry. The boolean is false for
// unknown IDs.
func (e *Engine) Movie(ctx context.Context, movieID int) (ScoredMovie, bool, error) {
	snap, err := e.ready(ctx)
	if err != nil {
		return ScoredMovie{}, false, err
	}
	start := time.Now()
	movie, ok := snap.MovieDetail(movieID)
	result := "ok"
	if !ok {
		result = "not_found"
	}
	metrics.RecordQuery("movie", result, time.Since(start))
	return movie, ok, nil
}

// Genres returns the distinct genre tokens across the catalog.
func (e *Engine) Genres(ctx context.Context) ([]string, error) {
	snap, err := e.ready(ctx)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	genres := snap.Genres()
	metrics.RecordQuery("genres", listResult(len(genres)), time.Since(start))
	return genres, nil
}

// ByGenre returns movies matching a genre, best weighted rating first.
func (e *Engine) ByGenre(ctx context.Context, genre string, n int) ([]ScoredMovie, error) {
	snap, err := e.ready(ctx)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	key := fmt.Sprintf("genre:%s:%d", genre, n)
	movies, _, hit := e.checkCache(key)
	if !hit {
		movies = snap.ByGenre(genre, n)
		e.storeCache(key, movies, false)
	}
	metrics.RecordQuery("by_genre", listResult(len(movies)), time.Since(start))
	return movies, nil
}

func (e *Engine) ready(ctx context.Context) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	snap := e.snapshot.Load()
	if snap == nil {
		return nil, ErrNotReady
	}
	return snap, nil
}

func listResult(n int) string {
	if n == 0 {
		return "empty"
	}
	return "ok"
}

// checkCache returns a copy of the cached response for key, if present
// and fresh. The copy keeps callers from mutating cached state.
func (e *Engine) checkCache(key string) ([]ScoredMovie, bool, bool) {
	if !e.cfg.Cache.Enabled {
		return nil, false, false
	}
	e.cacheMu.RLock()
	entry, ok := e.cache[key]
	e.cacheMu.RUnlock()
	if !ok || time.Now().After(entry.expiresAt) {
		metrics.RecordCacheMiss("query")
		return nil, false, false
	}
	metrics.RecordCacheHit("query")
	movies := make([]ScoredMovie, len(entry.movies))
	copy(movies, entry.movies)
	return movies, entry.fallback, true
}

func (e *Engine) storeCache(key string, movies []ScoredMovie, fallback bool) {
	if !e.cfg.Cache.Enabled {
		return
	}
	e.cacheMu.Lock()
	defer e.cacheMu.Unlock()

	if len(e.cache) >= e.cfg.Cache.MaxEntries {
		e.evictExpiredLocked()
	}
	if len(e.cache) >= e.cfg.Cache.MaxEntries {
		return
	}

	cached := make([]ScoredMovie, len(movies))
	copy(cached, movies)
	e.cache[key] = cacheEntry{
		movies:    cached,
		fallback:  fallback,
		expiresAt: time.Now().Add(e.cfg.Cache.TTL),
	}
	metrics.CacheSize.WithLabelValues("query").Set(float64(len(e.cache)))
}

// evictExpiredLocked removes expired entries. Caller holds cacheMu.
func (e *Engine) evictExpiredLocked() {
	now := time.Now()
	evicted := 0
	for key, entry := range e.cache {
		if now.After(entry.expiresAt) {
			delete(e.cache, key)
			evicted++
		}
	}
	if evicted > 0 {
		metrics.CacheEvictions.WithLabelValues("query").Add(float64(evicted))
		metrics.CacheSize.WithLabelValues("query").Set(float64(len(e.cache)))
	}
}

func (e *Engine) clearCache() {
	e.cacheMu.Lock()
	defer e.cacheMu.Unlock()
	e.cache = make(map[string]cacheEntry)
	metrics.CacheSize.WithLabelValues("query").Set(0)
}
