// Marquee - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/marquee/internal/config"
	"github.com/tomtom215/marquee/internal/dataset"
	"github.com/tomtom215/marquee/internal/recommend"
	"github.com/tomtom215/marquee/internal/recommend/bootstrap"
	"github.com/tomtom215/marquee/internal/recommend/storage"
)

// RecommendComponents holds the recommendation stack.
type RecommendComponents struct {
	Source   dataset.Source
	Provider *bootstrap.Provider
}

// Close releases the dataset source.
func (c *RecommendComponents) Close() error {
	return c.Source.Close()
}

// initRecommend wires the dataset source, similarity cache and engine
// provider, then loads the engine. Any failure is returned and is fatal to
// the caller.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initRecommend(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*RecommendComponents, error) {
	source, err := dataset.New(dataset.Config{
		Dir:     cfg.Data.Dir,
		Loader:  cfg.Data.Loader,
		Threads: cfg.Data.Threads,
	})
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}

	provider := bootstrap.NewProvider(source, buildStore(cfg, logger), buildEngineConfig(cfg))

	logger.Info().
		Str("data_dir", cfg.Data.Dir).
		Str("loader", cfg.Data.Loader).
		Str("cache_dir", cfg.Cache.Dir).
		Bool("cache_archive", cfg.Cache.ArchiveURL != "").
		Msg("Loading recommendation engine")

	engine, err := provider.Get(ctx)
	if err != nil {
		_ = source.Close() //nolint:errcheck // already failing
		return nil, err
	}

	stats := engine.Stats()
	logger.Info().
		Int("matrix_movies", stats.MatrixMovies).
		Int("display_movies", stats.DisplayMovies).
		Int("ratings", stats.Ratings).
		Int("users", stats.Users).
		Int("genres", stats.DistinctGenres).
		Msg("Recommendation engine loaded")

	return &RecommendComponents{Source: source, Provider: provider}, nil
}

// buildStore returns the local cache directory, fronted by the archive
// fetcher when an archive URL is configured.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func buildStore(cfg *config.Config, logger zerolog.Logger) storage.Store {
	local := storage.NewDirStore(cfg.Cache.Dir)
	if cfg.Cache.ArchiveURL == "" {
		return local
	}
	logger.Debug().Str("url", cfg.Cache.ArchiveURL).Msg("Similarity cache archive configured")
	return storage.NewArchiveStore(local, storage.ArchiveConfig{
		URL:             cfg.Cache.ArchiveURL,
		MaxBytes:        cfg.Cache.ArchiveMaxBytes,
		MaxExtractBytes: cfg.Cache.ArchiveMaxExtractBytes,
		Timeout:         cfg.Cache.ArchiveTimeout,
	})
}

// buildEngineConfig maps application config onto the engine config.
func buildEngineConfig(cfg *config.Config) *recommend.Config {
	c := recommend.DefaultConfig()
	c.Build.Workers = cfg.Recommend.Workers
	if cfg.Recommend.DefaultK > 0 {
		c.Limits.DefaultK = cfg.Recommend.DefaultK
	}
	if cfg.Recommend.MaxK > 0 {
		c.Limits.MaxK = cfg.Recommend.MaxK
	}
	return c
}
