// Marquee - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

/*
Package api provides the HTTP REST API for Marquee.

Routes:

	GET  /api/v1/health/live                    liveness, never touches the engine
	GET  /api/v1/health/ready                   503 until the engine is loaded
	GET  /api/v1/movies/titles                  sorted unique display titles
	GET  /api/v1/movies/genres                  sorted distinct genre tags
	GET  /api/v1/movies/{movieID}               one movie with rating and TMDB details
	GET  /api/v1/recommendations/similar        ?title=&k=&details=
	GET  /api/v1/recommendations/similar/{id}   ?k=&details=
	GET  /api/v1/recommendations/genre/{genre}  ?k=&details=
	GET  /api/v1/recommendations/random         ?k=&details=
	POST /api/v1/browse                         {state, action} navigation step
	GET  /metrics                               Prometheus exposition

Every JSON body uses the APIResponse envelope:

	{"success": true, "data": {...}, "meta": {"request_id": "...", "timestamp": "...", "duration_ms": 1, "count": 10}}
	{"success": false, "error": {"code": "VALIDATION_FAILED", "message": "...", "request_id": "..."}, "meta": {...}}

A query that finds nothing is not an error. It returns 200 with an empty
movie list and a notice.

The engine is obtained through EngineProvider on every request, so the first
request after start blocks until the similarity matrix is built or loaded.
Concurrent first requests share one load.
*/
package api
