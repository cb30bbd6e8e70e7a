// Marquee - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/marquee/internal/middleware"
)

// Router wires handlers and middleware into a chi mux.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	slowRequest   time.Duration
}

// NewRouter creates a router. A nil config uses DefaultChiMiddlewareConfig.
func NewRouter(handler *Handler, config *ChiMiddlewareConfig) *Router {
	return &Router{
		handler:       handler,
		chiMiddleware: NewChiMiddleware(config),
		slowRequest:   middleware.DefaultSlowRequestThreshold,
	}
}

// Setup builds the HTTP handler for all routes.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware, outermost first
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.PrometheusMetrics)
	r.Use(middleware.AccessLog(router.slowRequest))
	r.Use(chimiddleware.Compress(5, "application/json"))
	r.Use(router.chiMiddleware.CORS()) // global so OPTIONS preflight is answered

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).NotFound("Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).Error(http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method not allowed")
	})

	// Probes are never rate limited.
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	r.Route("/api/v1/movies", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit("movies"))
		r.Get("/titles", router.handler.Titles)
		r.Get("/genres", router.handler.Genres)
		r.Get("/{movieID}", router.handler.Movie)
	})

	r.Route("/api/v1/recommendations", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit("recommendations"))
		r.Get("/similar", router.handler.Similar)
		r.Get("/similar/{movieID}", router.handler.SimilarByID)
		r.Get("/genre/{genre}", router.handler.ByGenre)
		r.Get("/random", router.handler.Random)
	})

	r.With(router.chiMiddleware.RateLimit("browse")).Post("/api/v1/browse", router.handler.Browse)

	r.Handle("/metrics", promhttp.Handler())

	return r
}
