// Marquee - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/rs/zerolog"

	"github.com/tomtom215/marquee/internal/logging"
	"github.com/tomtom215/marquee/internal/metrics"
	"github.com/tomtom215/marquee/internal/recommend"
)

// DuckDBSource reads the source tables through an in-memory DuckDB using read_csv.
//
// Ids are typed by DuckDB; rating and tmdbId columns are read as text and
// parsed with the same rules as CSVSource.
type DuckDBSource struct {
	dir    string
	conn   *sql.DB
	logger zerolog.Logger
}

// NewDuckDBSource opens an in-memory database for reading tables from dir.
func NewDuckDBSource(dir string, threads int) (*DuckDBSource, error) {
	if threads <= 0 {
		threads = runtime.NumCPU()
	}

	// Auto-install would reach the network; read_csv is built in.
	connStr := fmt.Sprintf(":memory:?threads=%d&autoinstall_known_extensions=false&autoload_known_extensions=false", threads)
	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open duckdb: %w", err)
	}

	return &DuckDBSource{
		dir:    dir,
		conn:   conn,
		logger: logging.WithComponent("dataset").With().Str("loader", LoaderDuckDB).Logger(),
	}, nil
}

// Close releases the database.
func (s *DuckDBSource) Close() error {
	return s.conn.Close()
}

// Ratings reads ratings.csv.
func (s *DuckDBSource) Ratings(ctx context.Context) ([]recommend.Rating, error) {
	start := time.Now()

	rows, err := s.query(ctx, tableRatings, RatingsFile, ratingsHeader,
		"SELECT userId, movieId, rating FROM read_csv(%s, header = true, all_varchar = true)")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }() //nolint:errcheck // read-only

	var (
		ratings []recommend.Rating
		skipped int
		line    = 1
	)
	for rows.Next() {
		line++
		var user, movie string
		var value sql.NullString
		if err := rows.Scan(&user, &movie, &value); err != nil {
			return nil, recommend.NewDataError(tableRatings, err)
		}
		r, ok, err := parseRating(line, user, movie, value.String)
		if err != nil {
			return nil, err
		}
		if !ok {
			skipped++
			continue
		}
		ratings = append(ratings, r)
	}
	if err := rows.Err(); err != nil {
		return nil, recommend.NewDataError(tableRatings, err)
	}

	s.loaded(ctx, tableRatings, len(ratings), skipped, start)
	return ratings, nil
}

// Movies reads movies.csv.
func (s *DuckDBSource) Movies(ctx context.Context) ([]recommend.Movie, error) {
	start := time.Now()

	rows, err := s.query(ctx, tableMovies, MoviesFile, moviesHeader,
		"SELECT movieId, title, genres FROM read_csv(%s, header = true, all_varchar = true)")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }() //nolint:errcheck // read-only

	var movies []recommend.Movie
	line := 1
	for rows.Next() {
		line++
		var id string
		var title, genres sql.NullString
		if err := rows.Scan(&id, &title, &genres); err != nil {
			return nil, recommend.NewDataError(tableMovies, err)
		}
		m, err := parseMovie(line, id, title.String, genres.String)
		if err != nil {
			return nil, err
		}
		movies = append(movies, m)
	}
	if err := rows.Err(); err != nil {
		return nil, recommend.NewDataError(tableMovies, err)
	}

	s.loaded(ctx, tableMovies, len(movies), 0, start)
	return movies, nil
}

// Links reads links.csv.
func (s *DuckDBSource) Links(ctx context.Context) ([]recommend.Link, error) {
	start := time.Now()

	rows, err := s.query(ctx, tableLinks, LinksFile, linksHeader,
		"SELECT movieId, tmdbId FROM read_csv(%s, header = true, all_varchar = true)")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }() //nolint:errcheck // read-only

	var links []recommend.Link
	line := 1
	for rows.Next() {
		line++
		var id string
		var tmdb sql.NullString
		if err := rows.Scan(&id, &tmdb); err != nil {
			return nil, recommend.NewDataError(tableLinks, err)
		}
		l, err := parseLink(line, id, tmdb.String)
		if err != nil {
			return nil, err
		}
		links = append(links, l)
	}
	if err := rows.Err(); err != nil {
		return nil, recommend.NewDataError(tableLinks, err)
	}

	s.loaded(ctx, tableLinks, len(links), 0, start)
	return links, nil
}

// query checks the file exists and its header, then runs queryFmt with the
// quoted path substituted.
func (s *DuckDBSource) query(ctx context.Context, table, file string, header []string, queryFmt string) (*sql.Rows, error) {
	path := tablePath(s.dir, file)
	if _, err := os.Stat(path); err != nil {
		return nil, recommend.NewDataError(table, err)
	}
	if err := s.checkColumns(ctx, table, path, header); err != nil {
		return nil, err
	}

	//nolint:gosec // path is quoted as a SQL string literal
	rows, err := s.conn.QueryContext(ctx, fmt.Sprintf(queryFmt, quoteLiteral(path)))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, recommend.NewDataError(table, err)
	}
	return rows, nil
}

// checkColumns verifies the header through DESCRIBE so a mislabeled file fails
// with the same DataError as CSVSource instead of a binder error.
func (s *DuckDBSource) checkColumns(ctx context.Context, table, path string, want []string) error {
	//nolint:gosec // path is quoted as a SQL string literal
	rows, err := s.conn.QueryContext(ctx,
		fmt.Sprintf("SELECT column_name FROM (DESCRIBE SELECT * FROM read_csv(%s, header = true, all_varchar = true))", quoteLiteral(path)))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return recommend.NewDataError(table, err)
	}
	defer func() { _ = rows.Close() }() //nolint:errcheck // read-only

	var columns []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return recommend.NewDataError(table, err)
		}
		columns = append(columns, name)
	}
	if err := rows.Err(); err != nil {
		return recommend.NewDataError(table, err)
	}
	return checkHeader(table, columns, want)
}

func (s *DuckDBSource) loaded(ctx context.Context, table string, rows, skipped int, start time.Time) {
	elapsed := time.Since(start)
	metrics.RecordDatasetLoad(LoaderDuckDB, table, rows, elapsed)

	event := s.logger.Info().Ctx(ctx).Str("table", table).Int("rows", rows).Dur("duration", elapsed)
	if skipped > 0 {
		event = event.Int("skipped", skipped)
	}
	event.Msg("Loaded source table")
}

// quoteLiteral renders s as a single-quoted SQL string literal.
func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
