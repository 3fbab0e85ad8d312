// Cinematch - Movie Recommendation Engine and API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package config

import (
	"fmt"
	"strings"
)

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	if err := c.validateData(); err != nil {
		return err
	}

	if err := c.validateRecommend(); err != nil {
		return err
	}

	if err := c.validateTraining(); err != nil {
		return err
	}

	if err := c.validateStorage(); err != nil {
		return err
	}

	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateAPI(); err != nil {
		return err
	}

	if err := c.validateSecurity(); err != nil {
		return err
	}

	return c.validateLogging()
}

// validateData validates input file paths.
func (c *Config) validateData() error {
	if c.Data.MoviesPath == "" {
		return fmt.Errorf("MOVIES_PATH must not be empty")
	}
	if c.Data.RatingsPath == "" {
		return fmt.Errorf("RATINGS_PATH must not be empty")
	}
	return nil
}

// validateRecommend validates engine working-set limits.
func (c *Config) validateRecommend() error {
	if c.Recommend.MaxUsers <= 0 {
		return fmt.Errorf("RECOMMEND_MAX_USERS must be positive, got %d", c.Recommend.MaxUsers)
	}
	if c.Recommend.MaxEvents <= 0 {
		return fmt.Errorf("RECOMMEND_MAX_EVENTS must be positive, got %d", c.Recommend.MaxEvents)
	}
	if c.Recommend.MinRatings < 1 {
		return fmt.Errorf("RECOMMEND_MIN_RATINGS must be at least 1, got %d", c.Recommend.MinRatings)
	}
	if c.Recommend.CacheTTL < 0 {
		return fmt.Errorf("RECOMMEND_CACHE_TTL must not be negative, got %s", c.Recommend.CacheTTL)
	}
	if c.Recommend.CacheSize < 0 {
		return fmt.Errorf("RECOMMEND_CACHE_SIZE must not be negative, got %d", c.Recommend.CacheSize)
	}
	return nil
}

// validateTraining validates rebuild scheduling.
func (c *Config) validateTraining() error {
	if c.Training.RebuildInterval < 0 {
		return fmt.Errorf("REBUILD_INTERVAL must not be negative, got %s", c.Training.RebuildInterval)
	}
	if c.Training.KeepVersions < 1 {
		return fmt.Errorf("KEEP_VERSIONS must be at least 1, got %d", c.Training.KeepVersions)
	}
	return nil
}

// validateStorage validates the snapshot store selection.
func (c *Config) validateStorage() error {
	switch strings.ToLower(c.Storage.Backend) {
	case "file", "badger":
	default:
		return fmt.Errorf("SNAPSHOT_STORE must be one of: file, badger (got %q)", c.Storage.Backend)
	}
	if c.Storage.Path == "" {
		return fmt.Errorf("SNAPSHOT_PATH must not be empty")
	}
	return nil
}

// validateServer validates HTTP server settings.
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Host == "" {
		return fmt.Errorf("HTTP_HOST must not be empty")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got %s", c.Server.Timeout)
	}
	return nil
}

// validateAPI validates pagination limits.
func (c *Config) validateAPI() error {
	if c.API.DefaultPageSize < 1 {
		return fmt.Errorf("API_DEFAULT_PAGE_SIZE must be at least 1, got %d", c.API.DefaultPageSize)
	}
	if c.API.MaxPageSize < c.API.DefaultPageSize {
		return fmt.Errorf("API_MAX_PAGE_SIZE (%d) must not be smaller than API_DEFAULT_PAGE_SIZE (%d)",
			c.API.MaxPageSize, c.API.DefaultPageSize)
	}
	return nil
}

// validateSecurity validates rate limiting and CORS settings.
func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < 1 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1, got %d", c.Security.RateLimitReqs)
	}
	if c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %s", c.Security.RateLimitWindow)
	}
	return nil
}

// validateLogging validates logging settings.
func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "disabled":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error, fatal (got %q)", c.Logging.Level)
	}

	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be one of: json, console (got %q)", c.Logging.Format)
	}

	return nil
}
