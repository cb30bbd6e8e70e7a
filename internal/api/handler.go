// Marquee - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/marquee/internal/logging"
	"github.com/tomtom215/marquee/internal/recommend"
	"github.com/tomtom215/marquee/internal/tmdb"
)

// EngineProvider hands out the recommendation engine once it is loaded.
// *bootstrap.Provider satisfies it.
type EngineProvider interface {
	Get(ctx context.Context) (*recommend.Engine, error)
	Ready() bool
}

// DetailsFetcher looks up poster and synopsis. *tmdb.Client satisfies it.
type DetailsFetcher interface {
	Details(ctx context.Context, tmdbID int) tmdb.Details
	Enabled() bool
}

// Handler serves the movie and recommendation endpoints.
type Handler struct {
	engines   EngineProvider
	details   DetailsFetcher
	startTime time.Time
}

// NewHandler creates a handler.
func NewHandler(engines EngineProvider, details DetailsFetcher) *Handler {
	return &Handler{
		engines:   engines,
		details:   details,
		startTime: time.Now(),
	}
}

// engine returns the loaded engine, or writes 503 and returns nil.
func (h *Handler) engine(w http.ResponseWriter, r *http.Request) *recommend.Engine {
	e, err := h.engines.Get(r.Context())
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Recommendation engine unavailable")
		NewResponseWriter(w, r).ServiceUnavailable("Recommendation engine is not available")
		return nil
	}
	return e
}

// movieIDParam parses the {movieID} path segment, writing 400 on failure.
func movieIDParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := chi.URLParam(r, "movieID")
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		NewResponseWriter(w, r).ErrorWithDetails(http.StatusBadRequest, ErrCodeValidationFailed,
			"movieID must be a positive integer", map[string]interface{}{"field": "movieID", "value": raw})
		return 0, false
	}
	return id, true
}
