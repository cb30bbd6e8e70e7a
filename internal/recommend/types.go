// Marquee - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package recommend

import (
	"strings"
)

// NoGenresListed is the tag MovieLens uses for movies without genre information.
const NoGenresListed = "(no genres listed)"

// GenreSeparator joins genre tags in the catalog source and cache snapshot.
const GenreSeparator = "|"

// Rating is a single observation from the Rating Store.
type Rating struct {
	// UserID identifies the rater.
	UserID int `json:"user_id"`

	// MovieID is the raw Rating Store movie identifier.
	MovieID int `json:"movie_id"`

	// Value is the star rating (0.5-5.0 in MovieLens).
	Value float64 `json:"rating"`
}

// Movie is a catalog entry with display metadata.
type Movie struct {
	// ID is the MovieLens movie identifier.
	ID int `json:"movie_id"`

	// Title is the display title, including the release year suffix.
	Title string `json:"title"`

	// Genres is the set of genre tags in source order.
	Genres []string `json:"genres"`

	// TMDBID is the external TMDB identifier. Only meaningful when HasTMDBID is set.
	TMDBID int `json:"tmdb_id,omitempty"`

	// HasTMDBID reports whether the movie resolved to an external id.
	HasTMDBID bool `json:"-"`
}

// GenreString returns the genres joined the way the catalog source stores them.
//
//nolint:gocritic // value receiver keeps Movie usable as a map value
func (m Movie) GenreString() string {
	return strings.Join(m.Genres, GenreSeparator)
}

// HasGenreLike reports whether any tag contains query as a case-insensitive substring.
// The query must already be lower-cased.
//
//nolint:gocritic // value receiver keeps Movie usable as a map value
func (m Movie) HasGenreLike(lowerQuery string) bool {
	for _, g := range m.Genres {
		if strings.Contains(strings.ToLower(g), lowerQuery) {
			return true
		}
	}
	return false
}

// ParseGenres splits a separator-joined genre string into tags.
// Empty segments are dropped.
func ParseGenres(s string) []string {
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, GenreSeparator)
	genres := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			genres = append(genres, p)
		}
	}
	return genres
}

// Strategy identifies which query strategy produced a result.
type Strategy string

const (
	// StrategySimilar ranks by item-item cosine similarity.
	StrategySimilar Strategy = "similar"
	// StrategyGenre ranks genre matches by rating count.
	StrategyGenre Strategy = "genre"
	// StrategyRandom samples the catalog uniformly.
	StrategyRandom Strategy = "random"
)

// Result is an ordered recommendation list.
type Result struct {
	// Strategy is the query strategy that produced the list.
	Strategy Strategy `json:"strategy"`

	// Movies is the ranked list. Never contains the query movie.
	Movies []Movie `json:"movies"`

	// Scores holds the ranking metric aligned with Movies:
	// cosine similarity for StrategySimilar, rating count for StrategyGenre.
	// Nil for StrategyRandom.
	Scores []float64 `json:"scores,omitempty"`
}

// Empty reports whether the strategy found nothing.
//
//nolint:gocritic // value receiver for immutability
func (r Result) Empty() bool {
	return len(r.Movies) == 0
}

// Len returns the number of recommended movies.
//
//nolint:gocritic // value receiver for immutability
func (r Result) Len() int {
	return len(r.Movies)
}

// emptyResult returns a non-nil empty result for the strategy.
func emptyResult(s Strategy) Result {
	return Result{Strategy: s, Movies: []Movie{}}
}

// EmptyNotice is the advisory text surfaced when a strategy finds nothing.
const EmptyNotice = "Sorry, no recommendations were found. Try another movie or genre."

// Stats summarizes the loaded data.
type Stats struct {
	MatrixMovies   int `json:"matrix_movies"`
	CatalogMovies  int `json:"catalog_movies"`
	DisplayMovies  int `json:"display_movies"`
	Ratings        int `json:"ratings"`
	Users          int `json:"users"`
	DistinctGenres int `json:"distinct_genres"`
}
