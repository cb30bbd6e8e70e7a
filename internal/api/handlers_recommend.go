// Marquee - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/marquee/internal/recommend"
	"github.com/tomtom215/marquee/internal/tmdb"
	"github.com/tomtom215/marquee/internal/validation"
)

// detailsConcurrency bounds parallel TMDB lookups for one response.
const detailsConcurrency = 8

// RecommendedMovie is one entry of a recommendation list.
type RecommendedMovie struct {
	recommend.Movie

	// Score is the similarity or rating count; absent for random picks.
	Score *float64 `json:"score,omitempty"`

	// PosterURL and Overview are filled when details=true.
	PosterURL string `json:"poster_url,omitempty"`
	Overview  string `json:"overview,omitempty"`
}

// Recommendation is the payload of every recommendation endpoint.
type Recommendation struct {
	Strategy recommend.Strategy `json:"strategy"`
	Movies   []RecommendedMovie `json:"movies"`

	// Notice is set when nothing was found.
	Notice string `json:"notice,omitempty"`
}

// listParams are the query parameters shared by recommendation endpoints.
type listParams struct {
	K       int  `query:"k" validate:"min=1,max=100"`
	Details bool `query:"details"`
}

type similarParams struct {
	Title string `query:"title" validate:"notblank,max=500"`
	listParams
}

type genreParams struct {
	Genre string `query:"genre" validate:"notblank,max=100"`
	listParams
}

// Similar handles GET /api/v1/recommendations/similar?title=&k=
func (h *Handler) Similar(w http.ResponseWriter, r *http.Request) {
	e := h.engine(w, r)
	if e == nil {
		return
	}

	p := similarParams{Title: r.URL.Query().Get("title")}
	if !h.bindList(w, r, e, &p.listParams, &p) {
		return
	}

	h.respond(w, r, e.ByTitle(r.Context(), p.Title, p.K), p.Details)
}

// SimilarByID handles GET /api/v1/recommendations/similar/{movieID}?k=
func (h *Handler) SimilarByID(w http.ResponseWriter, r *http.Request) {
	id, ok := movieIDParam(w, r)
	if !ok {
		return
	}
	e := h.engine(w, r)
	if e == nil {
		return
	}

	var p listParams
	if !h.bindList(w, r, e, &p, &p) {
		return
	}

	h.respond(w, r, e.ByItem(r.Context(), id, p.K), p.Details)
}

// ByGenre handles GET /api/v1/recommendations/genre/{genre}?k=
func (h *Handler) ByGenre(w http.ResponseWriter, r *http.Request) {
	e := h.engine(w, r)
	if e == nil {
		return
	}

	genre := chi.URLParam(r, "genre")
	if decoded, err := url.PathUnescape(genre); err == nil {
		genre = decoded
	}

	p := genreParams{Genre: genre}
	if !h.bindList(w, r, e, &p.listParams, &p) {
		return
	}

	h.respond(w, r, e.ByGenre(r.Context(), p.Genre, p.K), p.Details)
}

// Random handles GET /api/v1/recommendations/random?k=
func (h *Handler) Random(w http.ResponseWriter, r *http.Request) {
	e := h.engine(w, r)
	if e == nil {
		return
	}

	var p listParams
	if !h.bindList(w, r, e, &p, &p) {
		return
	}

	h.respond(w, r, e.Sample(r.Context(), p.K), p.Details)
}

// bindList parses k and details into p, validates target, and checks k
// against the engine limit. It writes a 400 and returns false on failure.
func (h *Handler) bindList(w http.ResponseWriter, r *http.Request, e *recommend.Engine, p *listParams, target interface{}) bool {
	rw := NewResponseWriter(w, r)
	q := r.URL.Query()

	p.K = e.DefaultK()
	if raw := q.Get("k"); raw != "" {
		k, err := strconv.Atoi(raw)
		if err != nil {
			rw.ErrorWithDetails(http.StatusBadRequest, ErrCodeValidationFailed,
				"k must be an integer", map[string]interface{}{"field": "k", "value": raw})
			return false
		}
		p.K = k
	}

	if raw := q.Get("details"); raw != "" {
		d, err := strconv.ParseBool(raw)
		if err != nil {
			rw.ErrorWithDetails(http.StatusBadRequest, ErrCodeValidationFailed,
				"details must be a boolean", map[string]interface{}{"field": "details", "value": raw})
			return false
		}
		p.Details = d
	}

	if verr := validation.ValidateStruct(target); verr != nil {
		rw.ValidationError(verr)
		return false
	}

	if p.K > e.MaxK() {
		rw.ErrorWithDetails(http.StatusBadRequest, ErrCodeValidationFailed,
			fmt.Sprintf("k must be at most %d", e.MaxK()), map[string]interface{}{"field": "k", "value": p.K})
		return false
	}
	return true
}

// respond writes res as a Recommendation, optionally with TMDB details.
//
//nolint:gocritic // hugeParam: Result passed by value like the engine returns it
func (h *Handler) respond(w http.ResponseWriter, r *http.Request, res recommend.Result, withDetails bool) {
	out := Recommendation{
		Strategy: res.Strategy,
		Movies:   make([]RecommendedMovie, len(res.Movies)),
	}
	for i, m := range res.Movies {
		out.Movies[i].Movie = m
		if i < len(res.Scores) {
			score := res.Scores[i]
			out.Movies[i].Score = &score
		}
	}
	if res.Empty() {
		out.Notice = recommend.EmptyNotice
	}

	if withDetails {
		h.attachDetails(r.Context(), out.Movies)
	}

	NewResponseWriter(w, r).SuccessList(out, len(out.Movies))
}

// attachDetails fills poster and overview for each movie, fetching in parallel.
// Lookups never fail; errgroup is used for its concurrency limit.
func (h *Handler) attachDetails(ctx context.Context, movies []RecommendedMovie) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(detailsConcurrency)

	for i := range movies {
		m := &movies[i]
		if !m.HasTMDBID {
			m.PosterURL, m.Overview = tmdb.MissingDetails.PosterURL, tmdb.MissingDetails.Overview
			continue
		}
		g.Go(func() error {
			d := h.details.Details(gctx, m.TMDBID)
			m.PosterURL, m.Overview = d.PosterURL, d.Overview
			return nil
		})
	}
	_ = g.Wait() //nolint:errcheck // goroutines never return errors
}
