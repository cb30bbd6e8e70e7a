// Marquee - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/tomtom215/marquee/internal/recommend"
	"github.com/tomtom215/marquee/internal/tmdb"
)

// MovieDetails is a catalog entry with its rating and TMDB details.
type MovieDetails struct {
	recommend.Movie

	// AverageRating is the mean star rating, null for unrated movies.
	AverageRating *float64 `json:"average_rating"`
	RatingCount   int      `json:"rating_count"`

	PosterURL string `json:"poster_url"`
	Overview  string `json:"overview"`
}

// Titles handles GET /api/v1/movies/titles: the sorted unique display titles.
func (h *Handler) Titles(w http.ResponseWriter, r *http.Request) {
	e := h.engine(w, r)
	if e == nil {
		return
	}
	titles := e.Titles()
	NewResponseWriter(w, r).SuccessList(titles, len(titles))
}

// Genres handles GET /api/v1/movies/genres: the sorted distinct genre tags.
func (h *Handler) Genres(w http.ResponseWriter, r *http.Request) {
	e := h.engine(w, r)
	if e == nil {
		return
	}
	genres := e.Genres()
	NewResponseWriter(w, r).SuccessList(genres, len(genres))
}

// Movie handles GET /api/v1/movies/{movieID}.
func (h *Handler) Movie(w http.ResponseWriter, r *http.Request) {
	id, ok := movieIDParam(w, r)
	if !ok {
		return
	}
	e := h.engine(w, r)
	if e == nil {
		return
	}

	m, found := e.Movie(id)
	if !found {
		NewResponseWriter(w, r).NotFound(fmt.Sprintf("Movie %d not found", id))
		return
	}

	NewResponseWriter(w, r).Success(h.describe(r.Context(), e, m))
}

// describe joins a movie with its rating summary and TMDB details.
//
//nolint:gocritic // hugeParam: Movie passed by value like the engine returns it
func (h *Handler) describe(ctx context.Context, e *recommend.Engine, m recommend.Movie) MovieDetails {
	d := tmdb.MissingDetails
	if m.HasTMDBID {
		d = h.details.Details(ctx, m.TMDBID)
	}

	out := MovieDetails{
		Movie:     m,
		PosterURL: d.PosterURL,
		Overview:  d.Overview,
	}
	if avg, ok := e.AverageRating(m.ID); ok {
		out.AverageRating = &avg
		out.RatingCount = e.RatingCount(m.ID)
	}
	return out
}
