// Marquee - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered on the default registry through promauto at
package initialization and exposed at /metrics by the API router.

# Available Metrics

Recommendation Metrics:
  - recommend_requests_total: Queries by strategy and outcome (counter)
    Labels: strategy (similar, genre, random), outcome (ok, empty)
  - recommend_duration_seconds: Query latency (histogram)
  - recommend_result_size: Movies returned per query (histogram)

Similarity Model Metrics:
  - similarity_build_duration_seconds: Matrix construction time (histogram)
  - similarity_model_loads_total: Initializations (counter)
    Labels: source (cache, build), result (success, failure)
  - similarity_model_movies: Movies indexed by the matrix (gauge)
  - catalog_display_movies: Movies in the display catalog (gauge)
  - dataset_rows, dataset_load_duration_seconds: Source table loads

API Metrics:
  - api_requests_total, api_request_duration_seconds, api_active_requests
  - api_rate_limit_hits_total

Details and Cache Metrics:
  - tmdb_requests_total: TMDB lookups (counter)
    Labels: result (success, error, disabled)
  - cache_hits_total, cache_misses_total, cache_entries, cache_evictions_total
    Labels: cache_type

Circuit Breaker Metrics:
  - circuit_breaker_state: 0=closed, 1=half-open, 2=open (gauge)
  - circuit_breaker_requests_total: Labels name, result
  - circuit_breaker_consecutive_failures
  - circuit_breaker_state_transitions_total

Example PromQL:

	# Share of genre queries that found nothing
	sum(rate(recommend_requests_total{strategy="genre",outcome="empty"}[5m]))
	  / sum(rate(recommend_requests_total{strategy="genre"}[5m]))

	# Details cache hit rate
	sum(rate(cache_hits_total{cache_type="details"}[5m]))
	  / (sum(rate(cache_hits_total{cache_type="details"}[5m])) + sum(rate(cache_misses_total{cache_type="details"}[5m])))

# Thread Safety

All recording functions are safe for concurrent use. The Prometheus client
library handles synchronization internally.
*/
package metrics
