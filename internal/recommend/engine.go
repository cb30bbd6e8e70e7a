// Marquee - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package recommend

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/marquee/internal/metrics"
)

// Engine answers recommendation queries over an immutable similarity matrix,
// display catalog and rating store.
//
// All query methods are pure reads and safe for concurrent use without locking.
// A lookup miss is never an error: the query returns an empty Result.
type Engine struct {
	config *Config
	logger zerolog.Logger

	matrix  *Matrix
	catalog *Catalog

	// Per-movie rating row counts and sums from the Rating Store.
	counts map[int]int
	sums   map[int]float64

	ratings int
	users   int

	titles []string
	genres []string
}

// NewEngine creates an engine over a built or loaded matrix.
//
// ratings are the raw Rating Store rows; they drive genre popularity and
// average ratings and are not retained.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(matrix *Matrix, catalog *Catalog, ratings []Rating, cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if matrix == nil {
		return nil, errors.New("similarity matrix is required")
	}
	if catalog == nil {
		return nil, errors.New("catalog is required")
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	e := &Engine{
		config:  cfg,
		logger:  logger.With().Str("component", "recommend").Logger(),
		matrix:  matrix,
		catalog: catalog,
		counts:  make(map[int]int),
		sums:    make(map[int]float64),
		ratings: len(ratings),
	}

	users := make(map[int]struct{})
	for _, r := range ratings {
		e.counts[r.MovieID]++
		e.sums[r.MovieID] += r.Value
		users[r.UserID] = struct{}{}
	}
	e.users = len(users)

	e.indexCatalog()

	metrics.ModelMovies.Set(float64(matrix.Len()))
	metrics.CatalogMovies.Set(float64(catalog.Len()))

	e.logger.Info().
		Int("matrix_movies", matrix.Len()).
		Int("display_movies", catalog.Len()).
		Int("ratings", e.ratings).
		Int("users", e.users).
		Msg("recommendation engine ready")

	return e, nil
}

// indexCatalog precomputes the sorted title and genre lists.
func (e *Engine) indexCatalog() {
	titleSet := make(map[string]struct{})
	genreSet := make(map[string]struct{})
	for _, m := range e.catalog.display {
		titleSet[m.Title] = struct{}{}
		for _, g := range m.Genres {
			genreSet[g] = struct{}{}
		}
	}

	e.titles = make([]string, 0, len(titleSet))
	for t := range titleSet {
		e.titles = append(e.titles, t)
	}
	sort.Strings(e.titles)

	e.genres = make([]string, 0, len(genreSet))
	for g := range genreSet {
		e.genres = append(e.genres, g)
	}
	sort.Strings(e.genres)
}

// DefaultK returns the configured default result size.
func (e *Engine) DefaultK() int {
	return e.config.Limits.DefaultK
}

// MaxK returns the configured maximum result size.
func (e *Engine) MaxK() int {
	return e.config.Limits.MaxK
}

// ByItem returns up to n movies most similar to movieID, excluding movieID itself.
//
// The top n neighbors are selected first and then joined to the display
// catalog, so neighbors without a display entry shorten the result.
func (e *Engine) ByItem(ctx context.Context, movieID, n int) Result {
	start := time.Now()
	res := e.byItem(movieID, n)
	e.observe(ctx, res, start, zerolog.Dict().Int("movie_id", movieID).Int("n", n))
	return res
}

func (e *Engine) byItem(movieID, n int) Result {
	if n <= 0 {
		return emptyResult(StrategySimilar)
	}

	neighbors, ok := e.matrix.Neighbors(movieID)
	if !ok {
		return emptyResult(StrategySimilar)
	}
	if len(neighbors) > n {
		neighbors = neighbors[:n]
	}

	res := Result{
		Strategy: StrategySimilar,
		Movies:   make([]Movie, 0, len(neighbors)),
		Scores:   make([]float64, 0, len(neighbors)),
	}
	for _, nb := range neighbors {
		m, ok := e.catalog.Lookup(nb.MovieID)
		if !ok {
			continue
		}
		res.Movies = append(res.Movies, m)
		res.Scores = append(res.Scores, nb.Similarity)
	}
	return res
}

// ByTitle resolves title against the display catalog and returns ByItem for it.
// An unknown title yields an empty result.
func (e *Engine) ByTitle(ctx context.Context, title string, n int) Result {
	start := time.Now()

	movieID, err := e.catalog.ResolveTitle(title)
	if err != nil {
		res := emptyResult(StrategySimilar)
		e.observe(ctx, res, start, zerolog.Dict().Str("title", title).Bool("resolved", false))
		return res
	}

	res := e.byItem(movieID, n)
	e.observe(ctx, res, start, zerolog.Dict().Str("title", title).Int("movie_id", movieID).Int("n", n))
	return res
}

// ByGenre returns up to n display movies whose genres contain genre as a
// case-insensitive substring, ranked by rating count descending. Movies with
// no ratings never appear. Ties are broken by ascending movie id.
func (e *Engine) ByGenre(ctx context.Context, genre string, n int) Result {
	start := time.Now()
	res := e.byGenre(genre, n)
	e.observe(ctx, res, start, zerolog.Dict().Str("genre", genre).Int("n", n))
	return res
}

func (e *Engine) byGenre(genre string, n int) Result {
	query := strings.ToLower(strings.TrimSpace(genre))
	if n <= 0 || query == "" {
		return emptyResult(StrategyGenre)
	}

	type candidate struct {
		movie Movie
		count int
	}
	var matches []candidate
	for _, m := range e.catalog.display {
		count := e.counts[m.ID]
		if count == 0 || !m.HasGenreLike(query) {
			continue
		}
		matches = append(matches, candidate{movie: m, count: count})
	}

	// display is ascending by id, so the stable sort keeps ascending-id tie order
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].count > matches[j].count
	})
	if len(matches) > n {
		matches = matches[:n]
	}

	res := Result{
		Strategy: StrategyGenre,
		Movies:   make([]Movie, len(matches)),
		Scores:   make([]float64, len(matches)),
	}
	for i, c := range matches {
		res.Movies[i] = c.movie
		res.Scores[i] = float64(c.count)
	}
	return res
}

// Sample returns n distinct movies drawn uniformly from the display catalog.
// When n exceeds the catalog size the whole catalog is returned shuffled.
func (e *Engine) Sample(ctx context.Context, n int) Result {
	start := time.Now()
	res := e.sample(n)
	e.observe(ctx, res, start, zerolog.Dict().Int("n", n))
	return res
}

func (e *Engine) sample(n int) Result {
	if n <= 0 || len(e.catalog.display) == 0 {
		return emptyResult(StrategyRandom)
	}
	if n > len(e.catalog.display) {
		n = len(e.catalog.display)
	}

	perm := rand.Perm(len(e.catalog.display)) //nolint:gosec // non-cryptographic sampling
	res := Result{Strategy: StrategyRandom, Movies: make([]Movie, n)}
	for i := 0; i < n; i++ {
		res.Movies[i] = e.catalog.display[perm[i]]
	}
	return res
}

// Titles returns the sorted unique display titles.
func (e *Engine) Titles() []string {
	out := make([]string, len(e.titles))
	copy(out, e.titles)
	return out
}

// Genres returns the sorted distinct genre tags of the display catalog.
func (e *Engine) Genres() []string {
	out := make([]string, len(e.genres))
	copy(out, e.genres)
	return out
}

// Movie returns the display catalog entry for movieID.
func (e *Engine) Movie(movieID int) (Movie, bool) {
	return e.catalog.Lookup(movieID)
}

// AverageRating returns the mean rating of movieID over the Rating Store.
// ok is false when the movie has no ratings.
func (e *Engine) AverageRating(movieID int) (avg float64, ok bool) {
	count := e.counts[movieID]
	if count == 0 {
		return 0, false
	}
	return e.sums[movieID] / float64(count), true
}

// RatingCount returns how many Rating Store rows reference movieID.
func (e *Engine) RatingCount(movieID int) int {
	return e.counts[movieID]
}

// Stats summarizes the loaded data.
func (e *Engine) Stats() Stats {
	return Stats{
		MatrixMovies:   e.matrix.Len(),
		CatalogMovies:  e.catalog.RawLen(),
		DisplayMovies:  e.catalog.Len(),
		Ratings:        e.ratings,
		Users:          e.users,
		DistinctGenres: len(e.genres),
	}
}

// observe records metrics and a debug log line for a finished query.
//
//nolint:gocritic // hugeParam: res passed by value for immutability
func (e *Engine) observe(ctx context.Context, res Result, start time.Time, fields *zerolog.Event) {
	elapsed := time.Since(start)
	metrics.RecordRecommendation(string(res.Strategy), res.Len(), elapsed)

	e.logger.Debug().
		Ctx(ctx).
		Str("strategy", string(res.Strategy)).
		Dict("query", fields).
		Int("returned", res.Len()).
		Dur("latency", elapsed).
		Msg("recommendation complete")
}
