// Marquee - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

/*
Package config provides centralized configuration management for Marquee.

# Configuration Sources

Load layers three sources with increasing priority:

 1. Built-in defaults (defaultConfig)
 2. An optional YAML file: CONFIG_PATH, or config.yaml / config.yml in the
    working directory, or /etc/marquee/config.yaml
 3. Environment variables, mapped explicitly (HTTP_PORT -> server.port)

Before the environment is read, a .env file (or the file named by ENV_FILE)
is loaded with godotenv. Variables already set in the process environment are
never overridden by the .env file. This is the usual place for TMDB_API_KEY.

# Configuration Structure

  - Server: listen address, timeouts, environment mode
  - Security: CORS origins and per-IP rate limiting
  - Logging: zerolog level, format, caller
  - Data: directory of ratings.csv, movies.csv and links.csv plus loader choice
  - Cache: similarity cache directory and optional remote archive
  - Recommend: matrix build workers and result size limits
  - TMDB: details API key, endpoints, client cache and pacing
  - Janitor: how often expired details are purged

# Usage

	cfg, err := config.Load()
	if err != nil {
	    logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
	addr := cfg.Server.Addr()

Unknown environment variables are ignored, so unrelated process variables
never leak into the configuration.
*/
package config
