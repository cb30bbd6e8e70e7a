// Marquee - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package config

import (
	"fmt"
	"net/url"
	"time"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateServer,
		c.validateSecurity,
		c.validateLogging,
		c.validateData,
		c.validateCache,
		c.validateRecommend,
		c.validateTMDB,
		c.validateJanitor,
	}
	for _, v := range validators {
		if err := v(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive")
	}
	if !validEnvironments[c.Server.Environment] {
		return fmt.Errorf("ENVIRONMENT must be one of: development, staging, production")
	}
	return nil
}

// Rate limit constants
const (
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour
)

func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

var (
	validEnvironments = map[string]bool{"development": true, "staging": true, "production": true}
	validLogLevels    = map[string]bool{"trace": true, "debug": true, "info": true, "warn": true, "error": true}
	validLogFormats   = map[string]bool{"json": true, "console": true}
	validLoaders      = map[string]bool{"csv": true, "duckdb": true}
)

func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

func (c *Config) validateData() error {
	if c.Data.Dir == "" {
		return fmt.Errorf("DATA_DIR is required")
	}
	if !validLoaders[c.Data.Loader] {
		return fmt.Errorf("DATA_LOADER must be one of: csv, duckdb")
	}
	if c.Data.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must be non-negative")
	}
	return nil
}

func (c *Config) validateCache() error {
	if c.Cache.Dir == "" {
		return fmt.Errorf("CACHE_DIR is required")
	}
	if c.Cache.ArchiveURL == "" {
		return nil
	}
	if err := validateHTTPURL(c.Cache.ArchiveURL); err != nil {
		return fmt.Errorf("CACHE_ARCHIVE_URL is invalid: %w", err)
	}
	if c.Cache.ArchiveMaxBytes <= 0 || c.Cache.ArchiveMaxExtractBytes <= 0 {
		return fmt.Errorf("cache archive size limits must be positive")
	}
	if c.Cache.ArchiveTimeout <= 0 {
		return fmt.Errorf("CACHE_ARCHIVE_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateRecommend() error {
	if c.Recommend.Workers < 0 {
		return fmt.Errorf("RECOMMEND_WORKERS must be non-negative")
	}
	if c.Recommend.DefaultK < 1 {
		return fmt.Errorf("RECOMMEND_DEFAULT_K must be at least 1")
	}
	if c.Recommend.MaxK < c.Recommend.DefaultK {
		return fmt.Errorf("RECOMMEND_MAX_K (%d) must be >= RECOMMEND_DEFAULT_K (%d)", c.Recommend.MaxK, c.Recommend.DefaultK)
	}
	return nil
}

func (c *Config) validateTMDB() error {
	if err := validateHTTPURL(c.TMDB.BaseURL); err != nil {
		return fmt.Errorf("TMDB_BASE_URL is invalid: %w", err)
	}
	if err := validateHTTPURL(c.TMDB.ImageBaseURL); err != nil {
		return fmt.Errorf("TMDB_IMAGE_BASE_URL is invalid: %w", err)
	}
	if c.TMDB.Timeout <= 0 {
		return fmt.Errorf("TMDB_TIMEOUT must be positive")
	}
	if c.TMDB.CacheSize < 1 {
		return fmt.Errorf("TMDB_CACHE_SIZE must be at least 1")
	}
	if c.TMDB.CacheTTL <= 0 {
		return fmt.Errorf("TMDB_CACHE_TTL must be positive")
	}
	if c.TMDB.RequestsPerSecond <= 0 || c.TMDB.Burst < 1 {
		return fmt.Errorf("TMDB_REQUESTS_PER_SECOND and TMDB_BURST must be positive")
	}
	return nil
}

func (c *Config) validateJanitor() error {
	if c.Janitor.Interval < time.Second {
		return fmt.Errorf("JANITOR_INTERVAL must be at least 1s")
	}
	return nil
}

// validateHTTPURL requires an absolute http or https URL with a host.
func validateHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("host is required")
	}
	return nil
}
