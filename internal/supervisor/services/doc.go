// Marquee - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

// Package services adapts long-running components to suture.Service.
//
//   - HTTPServerService runs an *http.Server and shuts it down gracefully
//     when the supervisor stops it.
//   - JanitorService purges expired entries from a TTL cache on an interval.
//
// Every service returns ctx.Err() on a requested stop and a wrapped error on
// failure, which suture answers with a restart under its backoff policy.
package services
