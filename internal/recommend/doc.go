// Marquee - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

// Package recommend implements item-item collaborative filtering over movie ratings.
//
// # Architecture
//
// A Rating Store of (user, movie, rating) rows is pivoted into a zero-filled
// user-item matrix and reduced to a dense, symmetric item-item cosine
// similarity Matrix by BuildMatrix. The Catalog joins the raw movie table with
// TMDB links; only linked movies are displayed, but every rated movie stays
// addressable in the matrix.
//
// The Engine answers three query strategies:
//
//   - ByItem / ByTitle: nearest neighbors by cosine similarity
//   - ByGenre: genre matches ranked by rating count
//   - Sample: uniform random picks from the display catalog
//
// # Determinism
//
// Matrix construction is parallel by rows with a fixed accumulation order, so
// the same ratings always produce a bit-identical matrix. Ranking ties are
// broken by ascending movie id. Sample is intentionally not reproducible.
//
// # Usage
//
//	matrix, err := recommend.BuildMatrix(ctx, ratings, cfg.BuildOptions())
//	catalog, err := recommend.NewCatalog(movies, links)
//	engine, err := recommend.NewEngine(matrix, catalog, ratings, cfg, logger)
//
//	res := engine.ByTitle(ctx, "Toy Story (1995)", 10)
//	if res.Empty() {
//	    // show recommend.EmptyNotice
//	}
//
// # Thread Safety
//
// Matrix, Catalog and Engine are immutable after construction and safe for
// concurrent reads without locking.
package recommend
