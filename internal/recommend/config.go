// Marquee - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package recommend

import (
	"fmt"
)

// Config contains all configuration for the recommendation engine.
type Config struct {
	// Build contains similarity matrix construction parameters.
	Build BuildConfig `json:"build"`

	// Limits contains operational limits.
	Limits LimitsConfig `json:"limits"`
}

// BuildConfig contains similarity matrix construction parameters.
type BuildConfig struct {
	// Workers is the number of goroutines computing matrix rows.
	// Zero means one per CPU.
	Workers int `json:"workers"`
}

// LimitsConfig contains operational limits.
type LimitsConfig struct {
	// DefaultK is the number of recommendations returned when the caller does not ask.
	// Default: 10.
	DefaultK int `json:"default_k"`

	// MaxK is the largest number of recommendations a caller may request.
	// Default: 100.
	MaxK int `json:"max_k"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Build: BuildConfig{
			Workers: 0,
		},
		Limits: LimitsConfig{
			DefaultK: 10,
			MaxK:     100,
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Build.Workers < 0 {
		return fmt.Errorf("build.workers must be non-negative, got %d", c.Build.Workers)
	}
	if c.Limits.DefaultK < 1 {
		return fmt.Errorf("limits.default_k must be positive, got %d", c.Limits.DefaultK)
	}
	if c.Limits.MaxK < c.Limits.DefaultK {
		return fmt.Errorf("limits.max_k must be >= limits.default_k, got %d < %d", c.Limits.MaxK, c.Limits.DefaultK)
	}
	return nil
}

// BuildOptions returns the builder options for this configuration.
func (c *Config) BuildOptions() BuildOptions {
	return BuildOptions{Workers: c.Build.Workers}
}
