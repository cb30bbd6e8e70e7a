// Marquee - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

// Package storage persists the similarity matrix and the catalog snapshot it
// was built with.
//
// Building the item-item matrix is the most expensive step at startup, so the
// result is written to disk once and reloaded on subsequent runs.
//
// # Storage Format
//
// A cache directory holds two comma-separated artifacts:
//
//	item_similarity.csv   movieId,<id1>,<id2>,...
//	                      <id1>,<v11>,<v12>,...
//	movies_cleaned.csv    movieId,title,genres
//
// Similarity values use the shortest representation that round-trips to the
// same float64, so a save/load cycle reproduces the matrix exactly.
//
// A cache is valid when both files exist and parse, the matrix is square, its
// row ids repeat the header ids in order, and every value is finite. There is
// no staleness check against the rating source.
//
// # Atomicity
//
// Save writes each artifact to a temporary file in the cache directory,
// fsyncs it and renames it into place. The matrix is published last, so a
// crash mid-save leaves either no matrix (a miss) or a complete pair.
//
// # Sources
//
//   - DirStore reads and writes a local directory.
//   - ArchiveStore wraps a DirStore and, on a local miss, downloads a zip
//     archive of the two artifacts through a circuit breaker before loading.
//
// # Usage Example
//
//	store := storage.NewDirStore("/data/cache")
//	snap, err := store.Load(ctx)
//	if errors.Is(err, storage.ErrCacheMiss) {
//	    // build, then store.Save(ctx, snap)
//	}
package storage
