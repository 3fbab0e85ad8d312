// Cinematch - Movie Recommendation Engine and API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"fmt"
	"time"
)

// Config controls the training pipeline and the engine's response cache.
// Use DefaultConfig for sensible defaults and Validate before handing a
// config to NewEngine.
type Config struct {
	// Data locates the CSV inputs.
	Data DataConfig `json:"data"`

	// Sampler bounds the event working set before matrix construction.
	Sampler SamplerConfig `json:"sampler"`

	// Matrix controls interaction matrix filtering.
	Matrix MatrixConfig `json:"matrix"`

	// Cache controls the query response cache.
	Cache CacheConfig `json:"cache"`
}

// DataConfig locates the catalog and rating event CSV files.
type DataConfig struct {
	// MoviesPath is the movie catalog CSV. Default: "./data/movies.csv".
	MoviesPath string `json:"movies_path"`

	// RatingsPath is the rating event CSV. Default: "./data/ratings.csv".
	RatingsPath string `json:"ratings_path"`
}

// SamplerConfig bounds how much of the event log a training run consumes.
type SamplerConfig struct {
	// MaxUsers caps the number of distinct users retained, keeping the
	// most active ones. Default: 800.
	MaxUsers int `json:"max_users"`

	// MaxEvents caps the number of rating events after user selection.
	// The sampler also reads at most 3*MaxEvents rows from the log.
	// Default: 15000.
	MaxEvents int `json:"max_events"`

	// Seed feeds the down-sampling RNG so runs are reproducible.
	// Default: 42.
	Seed int64 `json:"seed"`
}

// MatrixConfig controls interaction matrix filtering.
type MatrixConfig struct {
	// MinRatings drops movies with fewer ratings, then users with fewer
	// ratings among the surviving movies. Default: 3.
	MinRatings int `json:"min_ratings"`
}

// CacheConfig controls the engine's query response cache.
type CacheConfig struct {
	// Enabled turns response caching on. Default: true.
	Enabled bool `json:"enabled"`

	// TTL is how long a cached response stays fresh. Default: 60s.
	TTL time.Duration `json:"ttl"`

	// MaxEntries bounds the cache size; stale entries are evicted when
	// the cache is full. Default: 1000.
	MaxEntries int `json:"max_entries"`
}

// DefaultConfig returns a configuration with sensible defaults for a
// MovieLens-sized dataset.
func DefaultConfig() Config {
	return Config{
		Data: DataConfig{
			MoviesPath:  "./data/movies.csv",
			RatingsPath: "./data/ratings.csv",
		},
		Sampler: SamplerConfig{
			MaxUsers:  800,
			MaxEvents: 15000,
			Seed:      42,
		},
		Matrix: MatrixConfig{
			MinRatings: 3,
		},
		Cache: CacheConfig{
			Enabled:    true,
			TTL:        60 * time.Second,
			MaxEntries: 1000,
		},
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if c.Data.MoviesPath == "" {
		return fmt.Errorf("data.movies_path must not be empty")
	}
	if c.Data.RatingsPath == "" {
		return fmt.Errorf("data.ratings_path must not be empty")
	}
	if c.Sampler.MaxUsers <= 0 {
		return fmt.Errorf("sampler.max_users must be positive, got %d", c.Sampler.MaxUsers)
	}
	if c.Sampler.MaxEvents <= 0 {
		return fmt.Errorf("sampler.max_events must be positive, got %d", c.Sampler.MaxEvents)
	}
	if c.Matrix.MinRatings < 1 {
		return fmt.Errorf("matrix.min_ratings must be >= 1, got %d", c.Matrix.MinRatings)
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must not be negative, got %v", c.Cache.TTL)
	}
	if c.Cache.Enabled {
		if c.Cache.TTL == 0 {
			return fmt.Errorf("cache.ttl must be positive when cache is enabled")
		}
		if c.Cache.MaxEntries <= 0 {
			return fmt.Errorf("cache.max_entries must be positive, got %d", c.Cache.MaxEntries)
		}
	}
	return nil
}

// Clone returns a copy of the configuration. All fields are value types,
// so the copy shares no state with the original.
func (c *Config) Clone() Config {
	return *c
}
