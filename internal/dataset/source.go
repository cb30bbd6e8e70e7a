// Marquee - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

// Package dataset reads the MovieLens source tables.
//
// Three comma-separated files are expected in one directory:
//
//	ratings.csv   userId,movieId,rating,timestamp
//	movies.csv    movieId,title,genres
//	links.csv     movieId,imdbId,tmdbId
//
// Two loaders are available. CSVSource streams the files with encoding/csv.
// DuckDBSource lets DuckDB's read_csv parse them, which is noticeably faster on
// the full MovieLens dataset. Both apply the same row rules:
//
//   - a missing header, wrong column count or non-integer id is a DataError
//   - a rating that is blank, non-numeric or non-finite is skipped
//   - a blank tmdbId marks the movie as unresolvable
//
// The timestamp and imdbId columns are ignored.
package dataset

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tomtom215/marquee/internal/recommend"
)

// Source table file names.
const (
	RatingsFile = "ratings.csv"
	MoviesFile  = "movies.csv"
	LinksFile   = "links.csv"
)

// Loader names accepted by New.
const (
	LoaderCSV    = "csv"
	LoaderDuckDB = "duckdb"
)

// Table names used in errors and metrics.
const (
	tableRatings = "ratings"
	tableMovies  = "movies"
	tableLinks   = "links"
)

var (
	ratingsHeader = []string{"userId", "movieId", "rating"}
	moviesHeader  = []string{"movieId", "title", "genres"}
	linksHeader   = []string{"movieId", "imdbId", "tmdbId"}
)

// Source provides the three source tables. Each call reads the table afresh.
type Source interface {
	Ratings(ctx context.Context) ([]recommend.Rating, error)
	Movies(ctx context.Context) ([]recommend.Movie, error)
	Links(ctx context.Context) ([]recommend.Link, error)
	Close() error
}

// Config selects and configures a loader.
type Config struct {
	// Dir holds ratings.csv, movies.csv and links.csv.
	Dir string

	// Loader is "csv" or "duckdb".
	Loader string

	// Threads caps DuckDB parallelism. 0 lets DuckDB decide.
	Threads int
}

// New returns the loader named by cfg.Loader.
//
//nolint:gocritic // hugeParam: config passed by value for immutability
func New(cfg Config) (Source, error) {
	switch cfg.Loader {
	case "", LoaderCSV:
		return NewCSVSource(cfg.Dir), nil
	case LoaderDuckDB:
		return NewDuckDBSource(cfg.Dir, cfg.Threads)
	default:
		return nil, fmt.Errorf("unknown dataset loader %q", cfg.Loader)
	}
}

func tablePath(dir, file string) string {
	return filepath.Join(dir, file)
}

// checkHeader verifies that header starts with the wanted column names.
func checkHeader(table string, header, want []string) error {
	if len(header) < len(want) {
		return recommend.NewDataError(table, fmt.Errorf("header has %d columns, want at least %d", len(header), len(want)))
	}
	for i, name := range want {
		got := strings.TrimSpace(header[i])
		if i == 0 {
			got = strings.TrimPrefix(got, "\ufeff")
		}
		if got != name {
			return recommend.NewDataError(table, fmt.Errorf("header column %d is %q, want %q", i+1, got, name))
		}
	}
	return nil
}

// parseRating converts one ratings row. ok is false when the rating value is
// unusable and the row should be skipped.
func parseRating(line int, userField, movieField, valueField string) (r recommend.Rating, ok bool, err error) {
	user, err := strconv.Atoi(strings.TrimSpace(userField))
	if err != nil {
		return r, false, recommend.NewDataError(tableRatings, fmt.Errorf("line %d userId: %w", line, err))
	}
	movie, err := strconv.Atoi(strings.TrimSpace(movieField))
	if err != nil {
		return r, false, recommend.NewDataError(tableRatings, fmt.Errorf("line %d movieId: %w", line, err))
	}

	v, perr := strconv.ParseFloat(strings.TrimSpace(valueField), 64)
	if perr != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return r, false, nil
	}
	return recommend.Rating{UserID: user, MovieID: movie, Value: v}, true, nil
}

func parseMovie(line int, idField, title, genres string) (recommend.Movie, error) {
	id, err := strconv.Atoi(strings.TrimSpace(idField))
	if err != nil {
		return recommend.Movie{}, recommend.NewDataError(tableMovies, fmt.Errorf("line %d movieId: %w", line, err))
	}
	return recommend.Movie{ID: id, Title: title, Genres: recommend.ParseGenres(genres)}, nil
}

func parseLink(line int, idField, tmdbField string) (recommend.Link, error) {
	id, err := strconv.Atoi(strings.TrimSpace(idField))
	if err != nil {
		return recommend.Link{}, recommend.NewDataError(tableLinks, fmt.Errorf("line %d movieId: %w", line, err))
	}

	link := recommend.Link{MovieID: id}
	tmdbField = strings.TrimSpace(tmdbField)
	if tmdbField == "" {
		return link, nil
	}
	tmdb, err := strconv.Atoi(tmdbField)
	if err != nil {
		return recommend.Link{}, recommend.NewDataError(tableLinks, fmt.Errorf("line %d tmdbId: %w", line, err))
	}
	link.TMDBID = tmdb
	link.HasTMDBID = true
	return link, nil
}
