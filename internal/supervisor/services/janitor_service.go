// Marquee - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// DefaultJanitorInterval is used when no purge interval is configured.
const DefaultJanitorInterval = 10 * time.Minute

// Purger drops expired cache entries and reports how many it removed.
// *tmdb.Client satisfies it.
type Purger interface {
	PurgeExpired() int
}

// JanitorService periodically purges expired entries from a TTL cache so
// stale entries do not hold capacity until they happen to be read.
type JanitorService struct {
	purger   Purger
	interval time.Duration
	logger   zerolog.Logger
	name     string
}

// NewJanitorService creates a janitor for purger. name identifies it in
// supervisor events.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewJanitorService(name string, purger Purger, interval time.Duration, logger zerolog.Logger) *JanitorService {
	if interval <= 0 {
		interval = DefaultJanitorInterval
	}
	return &JanitorService{
		purger:   purger,
		interval: interval,
		logger:   logger.With().Str("service", name).Logger(),
		name:     name,
	}
}

// Serve implements suture.Service. It purges on every tick until ctx is done.
func (s *JanitorService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Debug().Dur("interval", s.interval).Msg("cache janitor running")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.purge()
		}
	}
}

func (s *JanitorService) purge() {
	start := time.Now()
	n := s.purger.PurgeExpired()
	if n == 0 {
		return
	}
	s.logger.Debug().
		Int("purged", n).
		Dur("duration", time.Since(start)).
		Msg("purged expired cache entries")
}

// String returns the service name for logging.
func (s *JanitorService) String() string {
	return s.name
}
