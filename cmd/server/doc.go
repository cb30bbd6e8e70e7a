// Marquee - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

/*
Package main is the entry point for the Marquee server.

Marquee recommends movies from a MovieLens-style dataset. It builds an
item-item cosine similarity matrix from user ratings, caches it on disk, and
serves similar-title, genre and random recommendations over a JSON API, with
posters and synopses from TMDB.

# Startup

 1. Configuration: koanf layers (defaults, config.yaml, .env, environment)
 2. Logging: zerolog, JSON or console
 3. Dataset: ratings.csv, movies.csv and links.csv via encoding/csv or DuckDB
 4. Engine: similarity cache loaded from CACHE_DIR, fetched from
    CACHE_ARCHIVE_URL, or built from ratings and saved
 5. TMDB client: disabled when TMDB_API_KEY is unset
 6. Supervisor tree: details cache janitor and the HTTP server

A failure in steps 1 to 4 exits the process.

# Configuration

	HTTP_PORT=8080
	LOG_LEVEL=info            # trace, debug, info, warn, error
	LOG_FORMAT=json           # json or console
	DATA_DIR=data
	DATA_LOADER=csv           # csv or duckdb
	CACHE_DIR=data
	CACHE_ARCHIVE_URL=        # optional zip with the two cache files
	RECOMMEND_DEFAULT_K=10
	RECOMMEND_MAX_K=100
	TMDB_API_KEY=
	JANITOR_INTERVAL=10m

# Signals

SIGINT and SIGTERM cancel the root context. The HTTP server drains
in-flight requests for up to SHUTDOWN_TIMEOUT before the process exits.
*/
package main
