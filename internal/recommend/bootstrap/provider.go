// Marquee - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

// Package bootstrap assembles the recommendation engine exactly once per process.
//
// The first Get loads the source tables, then either loads the similarity
// cache or builds the matrix and persists it. Concurrent first calls wait on
// the same load. A successful engine is kept for the life of the Provider; a
// failure is returned to every waiter and the next Get tries again.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/tomtom215/marquee/internal/dataset"
	"github.com/tomtom215/marquee/internal/logging"
	"github.com/tomtom215/marquee/internal/metrics"
	"github.com/tomtom215/marquee/internal/recommend"
	"github.com/tomtom215/marquee/internal/recommend/storage"
)

// Provider lazily builds and memoizes the engine.
type Provider struct {
	source dataset.Source
	store  storage.Store
	cfg    *recommend.Config
	logger zerolog.Logger

	group singleflight.Group

	mu     sync.RWMutex
	engine *recommend.Engine
}

// NewProvider creates a provider. Nothing is loaded until Get.
func NewProvider(source dataset.Source, store storage.Store, cfg *recommend.Config) *Provider {
	if cfg == nil {
		cfg = recommend.DefaultConfig()
	}
	return &Provider{
		source: source,
		store:  store,
		cfg:    cfg,
		logger: logging.WithComponent("bootstrap"),
	}
}

// Get returns the engine, loading or building it on first use.
//
// Waiters share the first caller's context: if that caller is cancelled the
// shared load fails and a later Get starts over.
func (p *Provider) Get(ctx context.Context) (*recommend.Engine, error) {
	if e := p.Engine(); e != nil {
		return e, nil
	}

	v, err, shared := p.group.Do("engine", func() (any, error) {
		// Another caller may have finished between the fast path and here.
		if e := p.Engine(); e != nil {
			return e, nil
		}

		e, err := p.load(ctx)
		if err != nil {
			return nil, err
		}

		p.mu.Lock()
		p.engine = e
		p.mu.Unlock()
		return e, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		p.logger.Debug().Ctx(ctx).Msg("Joined in-flight engine load")
	}
	return v.(*recommend.Engine), nil //nolint:errcheck,forcetypeassert // only engines are returned
}

// Engine returns the engine if it has been built, or nil.
func (p *Provider) Engine() *recommend.Engine {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.engine
}

// Ready reports whether Get has succeeded.
func (p *Provider) Ready() bool {
	return p.Engine() != nil
}

func (p *Provider) load(ctx context.Context) (*recommend.Engine, error) {
	start := time.Now()

	ratings, err := p.source.Ratings(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ratings: %w", err)
	}
	links, err := p.source.Links(ctx)
	if err != nil {
		return nil, fmt.Errorf("load links: %w", err)
	}

	snap, err := p.snapshot(ctx, ratings)
	if err != nil {
		return nil, err
	}

	catalog, err := recommend.NewCatalog(snap.Catalog, links)
	if err != nil {
		return nil, fmt.Errorf("build catalog: %w", err)
	}

	engine, err := recommend.NewEngine(snap.Matrix, catalog, ratings, p.cfg, logging.WithComponent("recommend"))
	if err != nil {
		return nil, fmt.Errorf("create engine: %w", err)
	}

	p.logger.Info().Ctx(ctx).Dur("duration", time.Since(start)).Msg("Recommendation engine ready")
	return engine, nil
}

// snapshot loads the cache, or builds and saves a fresh one on a miss or an
// unreadable cache. Save failures are fatal.
func (p *Provider) snapshot(ctx context.Context, ratings []recommend.Rating) (*storage.Snapshot, error) {
	snap, err := p.store.Load(ctx)
	switch {
	case err == nil:
		metrics.RecordModelLoad("cache", nil)
		return snap, nil
	case errors.Is(err, storage.ErrCacheMiss):
		p.logger.Info().Ctx(ctx).Msg("No similarity cache found, building from ratings")
	case recommend.IsCacheError(err):
		metrics.RecordModelLoad("cache", err)
		p.logger.Warn().Ctx(ctx).Err(err).Msg("Similarity cache unreadable, rebuilding from ratings")
	default:
		metrics.RecordModelLoad("cache", err)
		return nil, fmt.Errorf("load similarity cache: %w", err)
	}

	snap, err = p.build(ctx, ratings)
	metrics.RecordModelLoad("build", err)
	if err != nil {
		return nil, err
	}
	return snap, nil
}

func (p *Provider) build(ctx context.Context, ratings []recommend.Rating) (*storage.Snapshot, error) {
	movies, err := p.source.Movies(ctx)
	if err != nil {
		return nil, fmt.Errorf("load movies: %w", err)
	}

	start := time.Now()
	matrix, err := recommend.BuildMatrix(ctx, ratings, p.cfg.BuildOptions())
	if err != nil {
		return nil, fmt.Errorf("build similarity matrix: %w", err)
	}
	metrics.RecordModelBuild(time.Since(start), matrix.Len())
	p.logger.Info().Ctx(ctx).
		Int("movies", matrix.Len()).
		Int("ratings", len(ratings)).
		Dur("duration", time.Since(start)).
		Msg("Built similarity matrix")

	snap := &storage.Snapshot{Catalog: movies, Matrix: matrix}
	if err := p.store.Save(ctx, snap); err != nil {
		return nil, fmt.Errorf("save similarity cache: %w", err)
	}
	return snap, nil
}
