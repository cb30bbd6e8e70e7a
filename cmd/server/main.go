// Marquee - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/marquee/internal/api"
	"github.com/tomtom215/marquee/internal/config"
	"github.com/tomtom215/marquee/internal/logging"
	"github.com/tomtom215/marquee/internal/metrics"
	"github.com/tomtom215/marquee/internal/supervisor"
	"github.com/tomtom215/marquee/internal/supervisor/services"
	"github.com/tomtom215/marquee/internal/tmdb"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		// default logger, config is not available yet
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})
	metrics.RecordAppInfo(version)

	logging.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Str("addr", cfg.Server.Addr()).
		Msg("Starting Marquee")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	// The engine is loaded before anything serves traffic.
	rec, err := initRecommend(ctx, cfg, logging.WithComponent("startup"))
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize recommendation engine")
	}
	defer func() {
		if err := rec.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing dataset source")
		}
	}()

	details := tmdb.New(tmdb.Config{
		APIKey:            cfg.TMDB.APIKey,
		BaseURL:           cfg.TMDB.BaseURL,
		ImageBaseURL:      cfg.TMDB.ImageBaseURL,
		Language:          cfg.TMDB.Language,
		Timeout:           cfg.TMDB.Timeout,
		CacheSize:         cfg.TMDB.CacheSize,
		CacheTTL:          cfg.TMDB.CacheTTL,
		RequestsPerSecond: cfg.TMDB.RequestsPerSecond,
		Burst:             cfg.TMDB.Burst,
	})
	if !details.Enabled() {
		logging.Warn().Msg("TMDB_API_KEY not set, posters and synopses are disabled")
	}

	router := api.NewRouter(api.NewHandler(rec.Provider, details), chiConfig(cfg))
	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       2 * time.Minute,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}
	tree.AddMaintenanceService(services.NewJanitorService(
		"details-cache-janitor", details, cfg.Janitor.Interval, logging.WithComponent("janitor")))
	tree.AddAPIService(services.NewHTTPServerService(server, server.Addr, cfg.Server.ShutdownTimeout))

	errCh := tree.ServeBackground(ctx)

	// ServeBackground delivers exactly one value and never closes the channel.
	select {
	case <-ctx.Done():
		logging.Info().Msg("Waiting for supervisor to finish")
		err = <-errCh
	case err = <-errCh:
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}

	if unstopped, _ := tree.UnstoppedServiceReport(); len(unstopped) > 0 {
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Marquee stopped")
}

// chiConfig maps security settings onto the CORS and rate limit middleware.
func chiConfig(cfg *config.Config) *api.ChiMiddlewareConfig {
	c := api.DefaultChiMiddlewareConfig()
	c.CORSAllowedOrigins = cfg.Security.CORSOrigins
	c.RateLimitRequests = cfg.Security.RateLimitReqs
	c.RateLimitWindow = cfg.Security.RateLimitWindow
	c.RateLimitDisabled = cfg.Security.RateLimitDisabled
	return c
}
