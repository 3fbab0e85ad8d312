// Cinematch - Movie Recommendation Engine and API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package config

import (
	"time"
)

// Config holds all application configuration loaded from environment variables
// and an optional config file.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in sensible defaults for all settings
//  2. Config File: Optional YAML config file (config.yaml) for persistent settings
//  3. Environment Variables: Override any setting via environment variables
//
// Configuration Categories:
//
//  1. Data & Model:
//     - Data: MovieLens-style CSV input files (movies, ratings)
//     - Recommend: engine working-set limits and query cache
//     - Training: rebuild-at-boot and scheduled-rebuild behavior
//     - Storage: snapshot store backend and location
//
//  2. Serving:
//     - Server: HTTP server configuration (port, host, timeout)
//     - API: pagination and response limits
//     - Security: CORS and rate limiting
//
//  3. Observability:
//     - Logging: log levels and output formats
//
// Example - Load configuration:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    logging.Fatal().Err(err).Msg("Failed to load config")
//	}
//	// cfg.Data.RatingsPath, cfg.Server.Port, etc. are now populated
//
// Thread Safety:
// Config is immutable after Load() and safe for concurrent read access.
type Config struct {
	Data      DataConfig      `koanf:"data"`
	Recommend RecommendConfig `koanf:"recommend"`
	Training  TrainingConfig  `koanf:"training"`
	Storage   StorageConfig   `koanf:"storage"`
	Server    ServerConfig    `koanf:"server"`
	API       APIConfig       `koanf:"api"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// DataConfig holds the locations of the raw input files the trainer reads.
// Both files follow the MovieLens layout; header names movieId/userId are
// normalized on ingest.
//
// Environment Variables:
//   - MOVIES_PATH: catalog CSV (movie_id, title, genres)
//   - RATINGS_PATH: rating log CSV (user_id, movie_id, rating[, timestamp])
type DataConfig struct {
	// MoviesPath is the catalog CSV path.
	// Default: ./data/movies.csv
	MoviesPath string `koanf:"movies_path"`

	// RatingsPath is the rating log CSV path.
	// Default: ./data/ratings.csv
	RatingsPath string `koanf:"ratings_path"`
}

// RecommendConfig holds the engine's working-set limits and cache settings.
// The limits bound every downstream cost: the similarity matrix is quadratic
// in retained movies, so the sampler caps users and events aggressively.
//
// Environment Variables:
//   - RECOMMEND_MAX_USERS, RECOMMEND_MAX_EVENTS, RECOMMEND_MIN_RATINGS
//   - RECOMMEND_SAMPLE_SEED, RECOMMEND_CACHE_TTL, RECOMMEND_CACHE_SIZE
type RecommendConfig struct {
	// MaxUsers is the number of most-active users retained by the sampler.
	// Default: 800
	MaxUsers int `koanf:"max_users"`

	// MaxEvents is the rating event cap after user filtering. The raw log
	// prefix read is three times this value.
	// Default: 15000
	MaxEvents int `koanf:"max_events"`

	// MinRatings is the minimum ratings a movie, then a user, must have to
	// stay in the interaction matrix.
	// Default: 3
	MinRatings int `koanf:"min_ratings"`

	// SampleSeed seeds the down-sampling step so training runs are
	// reproducible.
	// Default: 42
	SampleSeed int64 `koanf:"sample_seed"`

	// CacheTTL is how long query responses stay cached. Zero disables the
	// cache.
	// Default: 60s
	CacheTTL time.Duration `koanf:"cache_ttl"`

	// CacheSize is the maximum number of cached query responses.
	// Default: 256
	CacheSize int `koanf:"cache_size"`
}

// TrainingConfig controls when the server (re)builds the model.
// The trainer CLI always builds exactly once regardless of these settings.
//
// Environment Variables:
//   - TRAIN_ON_START, REBUILD_INTERVAL, KEEP_VERSIONS
type TrainingConfig struct {
	// TrainOnStart builds a snapshot at server startup when the store has
	// none. With an existing snapshot the server loads it instead.
	// Default: false
	TrainOnStart bool `koanf:"train_on_start"`

	// RebuildInterval is how often the rebuild service retrains from the
	// configured CSVs. Zero disables scheduled rebuilds.
	// Default: 0 (disabled)
	RebuildInterval time.Duration `koanf:"rebuild_interval"`

	// KeepVersions is how many snapshot versions to retain after a rebuild;
	// older versions are pruned.
	// Default: 3
	KeepVersions int `koanf:"keep_versions"`
}

// StorageConfig selects and locates the snapshot store.
//
// Environment Variables:
//   - SNAPSHOT_STORE: file or badger
//   - SNAPSHOT_PATH: directory for the chosen backend
type StorageConfig struct {
	// Backend is the snapshot store implementation: file or badger.
	// Default: file
	Backend string `koanf:"backend"`

	// Path is the snapshot directory (file backend) or BadgerDB directory
	// (badger backend).
	// Default: /data/snapshots
	Path string `koanf:"path"`
}

// ServerConfig holds HTTP server settings.
//
// Environment Variables:
//   - HTTP_PORT, HTTP_HOST, HTTP_TIMEOUT
type ServerConfig struct {
	// Port is the HTTP listen port.
	// Default: 3860
	Port int `koanf:"port"`

	// Host is the HTTP listen address.
	// Default: 0.0.0.0
	Host string `koanf:"host"`

	// Timeout bounds request read/write and graceful shutdown.
	// Default: 30s
	Timeout time.Duration `koanf:"timeout"`
}

// APIConfig holds response shaping limits.
//
// Environment Variables:
//   - API_DEFAULT_PAGE_SIZE, API_MAX_PAGE_SIZE
type APIConfig struct {
	// DefaultPageSize is the result count when a request omits n.
	// Default: 20
	DefaultPageSize int `koanf:"default_page_size"`

	// MaxPageSize caps the n query parameter.
	// Default: 100
	MaxPageSize int `koanf:"max_page_size"`
}

// SecurityConfig holds CORS and rate limiting settings for the public API.
//
// Environment Variables:
//   - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT
//   - CORS_ORIGINS (comma-separated)
type SecurityConfig struct {
	// RateLimitReqs is the number of requests allowed per client per window.
	// Default: 100
	RateLimitReqs int `koanf:"rate_limit_reqs"`

	// RateLimitWindow is the rate limiting window.
	// Default: 1m
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`

	// RateLimitDisabled turns off rate limiting entirely.
	// Default: false
	RateLimitDisabled bool `koanf:"rate_limit_disabled"`

	// CORSOrigins lists allowed origins for browser clients.
	// Default: ["*"]
	CORSOrigins []string `koanf:"cors_origins"`
}

// LoggingConfig holds logging settings.
//
// Environment Variables:
//   - LOG_LEVEL, LOG_FORMAT, LOG_CALLER
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller includes file:line in log output.
	// Default: false
	Caller bool `koanf:"caller"`
}

// Load reads configuration from environment variables and optional config file.
// Configuration is loaded in the following order (later sources override
// earlier ones):
//  1. Built-in defaults
//  2. Config file (config.yaml if exists, or path specified in CONFIG_PATH)
//  3. Environment variables
//
// See LoadWithKoanf() for the underlying implementation.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
