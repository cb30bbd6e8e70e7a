// Marquee - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

// Package logging provides centralized zerolog-based logging for Marquee.
//
// A single global logger is configured once at startup with Init. Components
// derive child loggers with WithComponent and pass them by value. The global
// logger carries a hook that copies request and correlation IDs from the
// event context, so any logger derived from it picks them up when an event
// is built with Ctx(ctx):
//
//	logger := logging.WithComponent("recommend")
//	logger.Debug().Ctx(ctx).Int("movie_id", id).Msg("lookup")
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//	logging.Info().Msg("Server starting")
//	logging.Ctx(ctx).Warn().Err(err).Msg("Details unavailable")
//
// Always terminate log chains with .Msg() or .Send().
package logging

import (
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Config holds logging configuration.
type Config struct {
	// Level is trace, debug, info, warn, error, fatal, panic or disabled.
	// Unknown values fall back to info.
	Level string

	// Format is json or console.
	Format string

	// Caller adds file:line to every event.
	Caller bool

	Timestamp bool

	// Output defaults to os.Stderr.
	Output io.Writer
}

// DefaultConfig is JSON at info level with timestamps, on stderr.
func DefaultConfig() Config {
	return Config{
		Level:     "info",
		Format:    "json",
		Timestamp: true,
		Output:    os.Stderr,
	}
}

var global atomic.Pointer[zerolog.Logger]

//nolint:gochecknoinits // packages may log before main calls Init
func init() {
	Init(DefaultConfig())
}

// Init replaces the global logger. Later calls reconfigure it.
func Init(cfg Config) {
	zerolog.SetGlobalLevel(parseLevel(cfg.Level))
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.TimestampFieldName = "time"
	zerolog.MessageFieldName = "message"

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	}

	ctx := zerolog.New(out).Hook(ContextHook{}).With()
	if cfg.Timestamp {
		ctx = ctx.Timestamp()
	}
	if cfg.Caller {
		ctx = ctx.Caller()
	}
	l := ctx.Logger()
	global.Store(&l)
}

func parseLevel(level string) zerolog.Level {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "warning" {
		return zerolog.WarnLevel
	}
	l, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		return zerolog.InfoLevel
	}
	return l
}

// Logger returns the global logger.
func Logger() zerolog.Logger {
	return *global.Load()
}

// SetLogger replaces the global logger, typically with a test writer.
//
//nolint:gocritic // zerolog.Logger is passed by value
func SetLogger(l zerolog.Logger) {
	global.Store(&l)
}

// Info starts an info event on the global logger.
func Info() *zerolog.Event { return global.Load().Info() }

// Warn starts a warn event on the global logger.
func Warn() *zerolog.Event { return global.Load().Warn() }

// Error starts an error event on the global logger.
func Error() *zerolog.Event { return global.Load().Error() }

// Fatal starts a fatal event. The process exits after Msg.
//
//	logging.Fatal().Err(err).Msg("Failed to initialize recommendation engine")
func Fatal() *zerolog.Event { return global.Load().Fatal() }

// NewTestLogger returns a JSON logger on w that carries the context hook.
func NewTestLogger(w io.Writer) zerolog.Logger {
	return zerolog.New(w).Hook(ContextHook{}).With().Timestamp().Logger()
}
