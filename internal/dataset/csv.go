// Marquee - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package dataset

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/marquee/internal/logging"
	"github.com/tomtom215/marquee/internal/metrics"
	"github.com/tomtom215/marquee/internal/recommend"
)

// ctxCheckInterval is how many rows are read between context checks.
const ctxCheckInterval = 4096

// CSVSource reads the source tables with encoding/csv.
type CSVSource struct {
	dir    string
	logger zerolog.Logger
}

// NewCSVSource reads tables from dir.
func NewCSVSource(dir string) *CSVSource {
	return &CSVSource{
		dir:    dir,
		logger: logging.WithComponent("dataset").With().Str("loader", LoaderCSV).Logger(),
	}
}

// Ratings reads ratings.csv.
func (s *CSVSource) Ratings(ctx context.Context) ([]recommend.Rating, error) {
	start := time.Now()
	var (
		ratings []recommend.Rating
		skipped int
	)

	err := s.readTable(ctx, tableRatings, RatingsFile, ratingsHeader, func(line int, rec []string) error {
		r, ok, err := parseRating(line, rec[0], rec[1], rec[2])
		if err != nil {
			return err
		}
		if !ok {
			skipped++
			return nil
		}
		ratings = append(ratings, r)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.loaded(ctx, tableRatings, len(ratings), skipped, start)
	return ratings, nil
}

// Movies reads movies.csv.
func (s *CSVSource) Movies(ctx context.Context) ([]recommend.Movie, error) {
	start := time.Now()
	var movies []recommend.Movie

	err := s.readTable(ctx, tableMovies, MoviesFile, moviesHeader, func(line int, rec []string) error {
		m, err := parseMovie(line, rec[0], rec[1], rec[2])
		if err != nil {
			return err
		}
		movies = append(movies, m)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.loaded(ctx, tableMovies, len(movies), 0, start)
	return movies, nil
}

// Links reads links.csv.
func (s *CSVSource) Links(ctx context.Context) ([]recommend.Link, error) {
	start := time.Now()
	var links []recommend.Link

	err := s.readTable(ctx, tableLinks, LinksFile, linksHeader, func(line int, rec []string) error {
		l, err := parseLink(line, rec[0], rec[2])
		if err != nil {
			return err
		}
		links = append(links, l)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.loaded(ctx, tableLinks, len(links), 0, start)
	return links, nil
}

// Close is a no-op.
func (s *CSVSource) Close() error {
	return nil
}

// readTable validates the header, then calls fn for each data row.
// Every row must have as many fields as the header.
func (s *CSVSource) readTable(ctx context.Context, table, file string, header []string, fn func(line int, rec []string) error) error {
	path := tablePath(s.dir, file)
	f, err := os.Open(path) //nolint:gosec // path is built from the configured data directory
	if err != nil {
		return recommend.NewDataError(table, err)
	}
	defer func() { _ = f.Close() }() //nolint:errcheck // read-only file

	cr := csv.NewReader(bufio.NewReaderSize(f, 1<<16))
	cr.ReuseRecord = true

	first, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return recommend.NewDataError(table, errors.New("file is empty"))
		}
		return recommend.NewDataError(table, fmt.Errorf("read header: %w", err))
	}
	if err := checkHeader(table, first, header); err != nil {
		return err
	}

	for rows := 0; ; rows++ {
		if rows%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return recommend.NewDataError(table, err)
		}

		line, _ := cr.FieldPos(0)
		if err := fn(line, rec); err != nil {
			return err
		}
	}
}

func (s *CSVSource) loaded(ctx context.Context, table string, rows, skipped int, start time.Time) {
	elapsed := time.Since(start)
	metrics.RecordDatasetLoad(LoaderCSV, table, rows, elapsed)

	event := s.logger.Info().Ctx(ctx).Str("table", table).Int("rows", rows).Dur("duration", elapsed)
	if skipped > 0 {
		event = event.Int("skipped", skipped)
	}
	event.Msg("Loaded source table")
}
