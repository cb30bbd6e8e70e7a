// Marquee - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package config

import (
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
	Data      DataConfig      `koanf:"data"`
	Cache     CacheConfig     `koanf:"cache"`
	Recommend RecommendConfig `koanf:"recommend"`
	TMDB      TMDBConfig      `koanf:"tmdb"`
	Janitor   JanitorConfig   `koanf:"janitor"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // development, staging, production
}

// Addr returns host:port for net/http.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// SecurityConfig holds CORS and rate limiting settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds logging settings for zerolog.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false - include caller file:line (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// DataConfig locates the source tables.
type DataConfig struct {
	// Dir holds ratings.csv, movies.csv and links.csv.
	Dir string `koanf:"dir"`

	// Loader is csv or duckdb.
	Loader string `koanf:"loader"`

	// Threads caps DuckDB parallelism. 0 lets DuckDB decide.
	Threads int `koanf:"threads"`
}

// CacheConfig locates the persisted similarity cache.
type CacheConfig struct {
	// Dir holds item_similarity.csv and movies_cleaned.csv.
	Dir string `koanf:"dir"`

	// ArchiveURL, if set, is a zip holding both cache files, fetched when
	// the local cache is missing.
	ArchiveURL string `koanf:"archive_url"`

	ArchiveMaxBytes        int64         `koanf:"archive_max_bytes"`
	ArchiveMaxExtractBytes int64         `koanf:"archive_max_extract_bytes"`
	ArchiveTimeout         time.Duration `koanf:"archive_timeout"`
}

// RecommendConfig holds engine settings.
type RecommendConfig struct {
	// Workers computing matrix rows. 0 means one per CPU.
	Workers  int `koanf:"workers"`
	DefaultK int `koanf:"default_k"`
	MaxK     int `koanf:"max_k"`
}

// TMDBConfig configures the details client. An empty APIKey disables lookups.
type TMDBConfig struct {
	APIKey            string        `koanf:"api_key"`
	BaseURL           string        `koanf:"base_url"`
	ImageBaseURL      string        `koanf:"image_base_url"`
	Language          string        `koanf:"language"`
	Timeout           time.Duration `koanf:"timeout"`
	CacheSize         int           `koanf:"cache_size"`
	CacheTTL          time.Duration `koanf:"cache_ttl"`
	RequestsPerSecond float64       `koanf:"requests_per_second"`
	Burst             int           `koanf:"burst"`
}

// JanitorConfig schedules background cache cleanup.
type JanitorConfig struct {
	Interval time.Duration `koanf:"interval"`
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
