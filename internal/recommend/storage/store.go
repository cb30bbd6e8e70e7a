// Marquee - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package storage

import (
	"context"
	"errors"

	"github.com/tomtom215/marquee/internal/recommend"
)

// Artifact file names inside a cache directory.
const (
	MatrixFile  = "item_similarity.csv"
	CatalogFile = "movies_cleaned.csv"
)

// ErrCacheMiss reports that no cache exists at the configured location.
var ErrCacheMiss = errors.New("similarity cache not found")

// Snapshot is the persisted build output.
type Snapshot struct {
	// Catalog is the raw catalog at build time, ascending by id.
	Catalog []recommend.Movie

	// Matrix is the item-item similarity matrix.
	Matrix *recommend.Matrix
}

// Store loads and saves snapshots.
//
// Load returns ErrCacheMiss when the cache is absent and a *recommend.CacheError
// when it exists but cannot be parsed. Save returns a *recommend.CacheError on
// any write failure.
type Store interface {
	Load(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, snap *Snapshot) error
}
