// Marquee - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

/*
Package tmdb fetches poster and synopsis details from The Movie Database.

API Reference: https://developer.themoviedb.org/reference/movie-details

Lookups never fail from the caller's point of view. A movie without a poster
or overview gets a placeholder, and a failed request gets an error placeholder
that is not cached so the next lookup retries. Successful lookups are kept in
a bounded LRU with TTL.

Outbound requests are paced by a token bucket and guarded by a circuit
breaker. Concurrent lookups of the same id share one request.
*/
package tmdb

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/tomtom215/marquee/internal/breaker"
	"github.com/tomtom215/marquee/internal/cache"
	"github.com/tomtom215/marquee/internal/logging"
	"github.com/tomtom215/marquee/internal/metrics"
)

// Placeholders returned when details are missing or unavailable.
const (
	NoPosterURL    = "https://via.placeholder.com/500x750.png?text=No+Poster"
	ErrorPosterURL = "https://via.placeholder.com/500x750.png?text=Error"
	NoSynopsis     = "No synopsis available."
	ErrorSynopsis  = "Could not fetch details."
)

// Details is what the UI shows next to a movie.
type Details struct {
	PosterURL string `json:"poster_url"`
	Overview  string `json:"overview"`
}

// Placeholder details.
var (
	MissingDetails = Details{PosterURL: NoPosterURL, Overview: NoSynopsis}
	ErrorDetails   = Details{PosterURL: ErrorPosterURL, Overview: ErrorSynopsis}
)

// Config configures the client.
type Config struct {
	// APIKey is the TMDB v3 API key. Empty disables the client.
	APIKey string

	// BaseURL is the API root, e.g. https://api.themoviedb.org/3
	BaseURL string

	// ImageBaseURL prefixes poster paths, e.g. https://image.tmdb.org/t/p/w500
	ImageBaseURL string

	// Language is sent as the language query parameter.
	Language string

	// Timeout bounds a single request.
	Timeout time.Duration

	// CacheSize and CacheTTL bound the details cache.
	CacheSize int
	CacheTTL  time.Duration

	// RequestsPerSecond and Burst pace outbound requests.
	RequestsPerSecond float64
	Burst             int
}

// DefaultConfig returns settings for the public TMDB API without a key.
func DefaultConfig() Config {
	return Config{
		BaseURL:           "https://api.themoviedb.org/3",
		ImageBaseURL:      "https://image.tmdb.org/t/p/w500",
		Language:          "en-US",
		Timeout:           10 * time.Second,
		CacheSize:         5000,
		CacheTTL:          24 * time.Hour,
		RequestsPerSecond: 20,
		Burst:             20,
	}
}

// Client looks up movie details.
type Client struct {
	cfg     Config
	http    *http.Client
	cache   *cache.LRU[int, Details]
	limiter *rate.Limiter
	breaker *breaker.Breaker[Details]
	group   singleflight.Group
	logger  zerolog.Logger
}

// New creates a client. Zero fields in cfg take their DefaultConfig values.
//
//nolint:gocritic // hugeParam: config passed by value for immutability
func New(cfg Config) *Client {
	def := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.ImageBaseURL == "" {
		cfg.ImageBaseURL = def.ImageBaseURL
	}
	if cfg.Language == "" {
		cfg.Language = def.Language
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = def.RequestsPerSecond
	}
	if cfg.Burst <= 0 {
		cfg.Burst = def.Burst
	}
	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	cfg.ImageBaseURL = strings.TrimSuffix(cfg.ImageBaseURL, "/")

	return &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		cache:   cache.NewLRU[int, Details](cfg.CacheSize, cfg.CacheTTL, cache.WithMetrics("details")),
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		breaker: breaker.New[Details]("tmdb", breaker.DefaultSettings()),
		logger:  logging.WithComponent("tmdb"),
	}
}

// Enabled reports whether an API key is configured.
func (c *Client) Enabled() bool {
	return c.cfg.APIKey != ""
}

// Details returns poster and synopsis for a TMDB id.
func (c *Client) Details(ctx context.Context, tmdbID int) Details {
	start := time.Now()

	if !c.Enabled() {
		metrics.RecordDetailsRequest("disabled", time.Since(start))
		return MissingDetails
	}

	if d, ok := c.cache.Get(tmdbID); ok {
		metrics.RecordDetailsRequest("cached", time.Since(start))
		return d
	}

	v, err, _ := c.group.Do(strconv.Itoa(tmdbID), func() (any, error) {
		d, err := c.breaker.Execute(func() (Details, error) {
			return c.fetch(ctx, tmdbID)
		})
		if err != nil {
			return nil, err
		}
		c.cache.Add(tmdbID, d)
		return d, nil
	})
	if err != nil {
		metrics.RecordDetailsRequest("error", time.Since(start))
		c.logger.Warn().Ctx(ctx).Err(err).Int("tmdb_id", tmdbID).Msg("Details lookup failed")
		return ErrorDetails
	}

	metrics.RecordDetailsRequest("success", time.Since(start))
	return v.(Details) //nolint:errcheck,forcetypeassert // only Details is stored
}

// PurgeExpired drops expired cache entries and returns how many were removed.
func (c *Client) PurgeExpired() int {
	return c.cache.CleanupExpired()
}

// movieResponse holds the fields used from GET /movie/{id}.
type movieResponse struct {
	PosterPath *string `json:"poster_path"`
	Overview   *string `json:"overview"`
}

func (c *Client) fetch(ctx context.Context, tmdbID int) (Details, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return Details{}, fmt.Errorf("rate limiter: %w", err)
	}

	params := url.Values{}
	params.Set("api_key", c.cfg.APIKey)
	params.Set("language", c.cfg.Language)
	reqURL := fmt.Sprintf("%s/movie/%d?%s", c.cfg.BaseURL, tmdbID, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return Details{}, fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		// The URL carries the API key; report only the transport error.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return Details{}, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }() //nolint:errcheck // response body

	if resp.StatusCode != http.StatusOK {
		return Details{}, fmt.Errorf("tmdb returned status %d", resp.StatusCode)
	}

	var body movieResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Details{}, fmt.Errorf("failed to decode tmdb response: %w", err)
	}

	d := MissingDetails
	if body.PosterPath != nil && *body.PosterPath != "" {
		d.PosterURL = c.cfg.ImageBaseURL + "/" + strings.TrimPrefix(*body.PosterPath, "/")
	}
	if body.Overview != nil && strings.TrimSpace(*body.Overview) != "" {
		d.Overview = *body.Overview
	}
	return d, nil
}
