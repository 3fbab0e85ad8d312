// Cinematch - Movie Recommendation Engine and API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	t.Run("data paths are set", func(t *testing.T) {
		if cfg.Data.MoviesPath == "" {
			t.Error("Data.MoviesPath is empty")
		}
		if cfg.Data.RatingsPath == "" {
			t.Error("Data.RatingsPath is empty")
		}
	})

	t.Run("sampler bounds are positive", func(t *testing.T) {
		if cfg.Sampler.MaxUsers <= 0 {
			t.Errorf("Sampler.MaxUsers = %d, want > 0", cfg.Sampler.MaxUsers)
		}
		if cfg.Sampler.MaxEvents <= 0 {
			t.Errorf("Sampler.MaxEvents = %d, want > 0", cfg.Sampler.MaxEvents)
		}
	})

	t.Run("seed is set for determinism", func(t *testing.T) {
		if cfg.Sampler.Seed == 0 {
			t.Error("Sampler.Seed = 0, want non-zero for determinism")
		}
	})

	t.Run("matrix filter requires at least one rating", func(t *testing.T) {
		if cfg.Matrix.MinRatings < 1 {
			t.Errorf("Matrix.MinRatings = %d, want >= 1", cfg.Matrix.MinRatings)
		}
	})

	t.Run("cache defaults are usable", func(t *testing.T) {
		if !cfg.Cache.Enabled {
			t.Error("Cache.Enabled = false, want true")
		}
		if cfg.Cache.TTL <= 0 {
			t.Errorf("Cache.TTL = %v, want > 0", cfg.Cache.TTL)
		}
		if cfg.Cache.MaxEntries <= 0 {
			t.Errorf("Cache.MaxEntries = %d, want > 0", cfg.Cache.MaxEntries)
		}
	})

	t.Run("default config validates", func(t *testing.T) {
		if err := cfg.Validate(); err != nil {
			t.Errorf("Validate() = %v, want nil", err)
		}
	})
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*Config)
		wantError bool
	}{
		{
			name:      "valid default config",
			modify:    func(c *Config) {},
			wantError: false,
		},
		{
			name:      "empty movies path",
			modify:    func(c *Config) { c.Data.MoviesPath = "" },
			wantError: true,
		},
		{
			name:      "empty ratings path",
			modify:    func(c *Config) { c.Data.RatingsPath = "" },
			wantError: true,
		},
		{
			name:      "zero max users",
			modify:    func(c *Config) { c.Sampler.MaxUsers = 0 },
			wantError: true,
		},
		{
			name:      "negative max events",
			modify:    func(c *Config) { c.Sampler.MaxEvents = -1 },
			wantError: true,
		},
		{
			name:      "zero min ratings",
			modify:    func(c *Config) { c.Matrix.MinRatings = 0 },
			wantError: true,
		},
		{
			name:      "negative cache ttl",
			modify:    func(c *Config) { c.Cache.TTL = -time.Second },
			wantError: true,
		},
		{
			name:      "enabled cache with zero ttl",
			modify:    func(c *Config) { c.Cache.TTL = 0 },
			wantError: true,
		},
		{
			name:      "enabled cache with zero capacity",
			modify:    func(c *Config) { c.Cache.MaxEntries = 0 },
			wantError: true,
		},
		{
			name:      "disabled cache ignores ttl and capacity",
			modify:    func(c *Config) { c.Cache = CacheConfig{} },
			wantError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)

			err := cfg.Validate()
			if tt.wantError && err == nil {
				t.Error("Validate() = nil, want error")
			}
			if !tt.wantError && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
		})
	}
}

func TestConfig_Clone(t *testing.T) {
	orig := DefaultConfig()
	clone := orig.Clone()

	clone.Data.MoviesPath = "/elsewhere/movies.csv"
	clone.Sampler.MaxEvents = 1
	clone.Cache.Enabled = false

	if orig.Data.MoviesPath != "./data/movies.csv" {
		t.Errorf("original MoviesPath mutated to %q", orig.Data.MoviesPath)
	}
	if orig.Sampler.MaxEvents != 15000 {
		t.Errorf("original MaxEvents mutated to %d", orig.Sampler.MaxEvents)
	}
	if !orig.Cache.Enabled {
		t.Error("original Cache.Enabled mutated to false")
	}
}
