// Cinematch - Movie Recommendation Engine and API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	cfg := defaultConfig()
	return cfg
}

// TestValidateDefaults verifies the default configuration passes validation
func TestValidateDefaults(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid, got: %v", err)
	}
}

// TestValidateRejections verifies invalid field values are rejected with
// error messages that name the environment variable to fix
func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		errPart string
	}{
		{
			name:    "empty movies path",
			mutate:  func(c *Config) { c.Data.MoviesPath = "" },
			errPart: "MOVIES_PATH",
		},
		{
			name:    "empty ratings path",
			mutate:  func(c *Config) { c.Data.RatingsPath = "" },
			errPart: "RATINGS_PATH",
		},
		{
			name:    "zero max users",
			mutate:  func(c *Config) { c.Recommend.MaxUsers = 0 },
			errPart: "RECOMMEND_MAX_USERS",
		},
		{
			name:    "negative max events",
			mutate:  func(c *Config) { c.Recommend.MaxEvents = -1 },
			errPart: "RECOMMEND_MAX_EVENTS",
		},
		{
			name:    "zero min ratings",
			mutate:  func(c *Config) { c.Recommend.MinRatings = 0 },
			errPart: "RECOMMEND_MIN_RATINGS",
		},
		{
			name:    "negative cache ttl",
			mutate:  func(c *Config) { c.Recommend.CacheTTL = -time.Second },
			errPart: "RECOMMEND_CACHE_TTL",
		},
		{
			name:    "negative rebuild interval",
			mutate:  func(c *Config) { c.Training.RebuildInterval = -time.Minute },
			errPart: "REBUILD_INTERVAL",
		},
		{
			name:    "zero keep versions",
			mutate:  func(c *Config) { c.Training.KeepVersions = 0 },
			errPart: "KEEP_VERSIONS",
		},
		{
			name:    "unknown storage backend",
			mutate:  func(c *Config) { c.Storage.Backend = "s3" },
			errPart: "SNAPSHOT_STORE",
		},
		{
			name:    "empty storage path",
			mutate:  func(c *Config) { c.Storage.Path = "" },
			errPart: "SNAPSHOT_PATH",
		},
		{
			name:    "port too low",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			errPart: "HTTP_PORT",
		},
		{
			name:    "port too high",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			errPart: "HTTP_PORT",
		},
		{
			name:    "empty host",
			mutate:  func(c *Config) { c.Server.Host = "" },
			errPart: "HTTP_HOST",
		},
		{
			name:    "zero timeout",
			mutate:  func(c *Config) { c.Server.Timeout = 0 },
			errPart: "HTTP_TIMEOUT",
		},
		{
			name:    "zero default page size",
			mutate:  func(c *Config) { c.API.DefaultPageSize = 0 },
			errPart: "API_DEFAULT_PAGE_SIZE",
		},
		{
			name:    "max page smaller than default",
			mutate:  func(c *Config) { c.API.MaxPageSize = 5 },
			errPart: "API_MAX_PAGE_SIZE",
		},
		{
			name:    "zero rate limit requests",
			mutate:  func(c *Config) { c.Security.RateLimitReqs = 0 },
			errPart: "RATE_LIMIT_REQUESTS",
		},
		{
			name:    "zero rate limit window",
			mutate:  func(c *Config) { c.Security.RateLimitWindow = 0 },
			errPart: "RATE_LIMIT_WINDOW",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Logging.Level = "loud" },
			errPart: "LOG_LEVEL",
		},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.Logging.Format = "csv" },
			errPart: "LOG_FORMAT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() should have failed")
			}
			if !strings.Contains(err.Error(), tt.errPart) {
				t.Errorf("error %q should mention %q", err.Error(), tt.errPart)
			}
		})
	}
}

// TestValidateRateLimitDisabled verifies rate limit fields are not checked
// when rate limiting is turned off
func TestValidateRateLimitDisabled(t *testing.T) {
	cfg := validConfig()
	cfg.Security.RateLimitDisabled = true
	cfg.Security.RateLimitReqs = 0
	cfg.Security.RateLimitWindow = 0

	if err := cfg.Validate(); err != nil {
		t.Errorf("disabled rate limiting should skip limit validation, got: %v", err)
	}
}

// TestLoadDelegatesToKoanf verifies Load is a thin wrapper over LoadWithKoanf
func TestLoadDelegatesToKoanf(t *testing.T) {
	t.Setenv("HTTP_PORT", "4455")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Server.Port != 4455 {
		t.Errorf("Server.Port = %d, want 4455", cfg.Server.Port)
	}
}
