// Marquee - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestSlogHandler_Enabled(t *testing.T) {
	tests := []struct {
		name         string
		zerologLevel zerolog.Level
		slogLevel    slog.Level
		want         bool
	}{
		{"debug logger enables debug level", zerolog.DebugLevel, slog.LevelDebug, true},
		{"info logger disables debug level", zerolog.InfoLevel, slog.LevelDebug, false},
		{"info logger enables warn level", zerolog.InfoLevel, slog.LevelWarn, true},
		{"error logger disables warn level", zerolog.ErrorLevel, slog.LevelWarn, false},
	}

	original := zerolog.GlobalLevel()
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	defer zerolog.SetGlobalLevel(original)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewSlogHandler(zerolog.New(nil).Level(tt.zerologLevel))

			got := handler.Enabled(context.Background(), tt.slogLevel)
			if got != tt.want {
				t.Errorf("Enabled() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSlogHandler_Handle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level     slog.Level
		wantLevel string
	}{
		{slog.LevelInfo, "info"},
		{slog.LevelWarn, "warn"},
		{slog.LevelError, "error"},
	}

	for _, tt := range tests {
		t.Run(tt.wantLevel, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			handler := NewSlogHandler(zerolog.New(&buf).Level(zerolog.TraceLevel))

			record := slog.NewRecord(time.Now(), tt.level, "service restarted", 0)
			record.AddAttrs(slog.String("service", "http"), slog.Int("attempt", 2))
			if err := handler.Handle(context.Background(), record); err != nil {
				t.Fatalf("Handle() error = %v", err)
			}

			output := buf.String()
			for _, want := range []string{`"level":"` + tt.wantLevel + `"`, "service restarted", `"service":"http"`, `"attempt":2`} {
				if !strings.Contains(output, want) {
					t.Errorf("output missing %s: %s", want, output)
				}
			}
		})
	}
}

func TestSlogHandler_WithAttrsAndGroup(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	slogger := slog.New(NewSlogHandler(zerolog.New(&buf).Level(zerolog.TraceLevel)))

	slogger.With("component", "supervisor").WithGroup("event").Info("terminated", "service", "janitor")

	output := buf.String()
	if !strings.Contains(output, `"event.component":"supervisor"`) && !strings.Contains(output, `"component":"supervisor"`) {
		t.Errorf("missing component attribute: %s", output)
	}
	if !strings.Contains(output, `"event.service":"janitor"`) {
		t.Errorf("missing grouped attribute: %s", output)
	}
}

func TestSlogHandler_RequestIDFromContext(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	handler := NewSlogHandler(NewTestLogger(&buf))

	ctx := ContextWithRequestID(context.Background(), "req-slog")
	slog.New(handler).InfoContext(ctx, "handled")

	if !strings.Contains(buf.String(), `"request_id":"req-slog"`) {
		t.Errorf("expected request_id in output: %s", buf.String())
	}
}

func TestSlogToZerologLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		slogLvl  slog.Level
		wantZlog zerolog.Level
	}{
		{slog.LevelDebug - 4, zerolog.TraceLevel},
		{slog.LevelDebug, zerolog.DebugLevel},
		{slog.LevelInfo, zerolog.InfoLevel},
		{slog.LevelWarn, zerolog.WarnLevel},
		{slog.LevelError, zerolog.ErrorLevel},
		{slog.LevelError + 4, zerolog.ErrorLevel},
	}

	for _, tt := range tests {
		if got := slogToZerologLevel(tt.slogLvl); got != tt.wantZlog {
			t.Errorf("slogToZerologLevel(%v) = %v, want %v", tt.slogLvl, got, tt.wantZlog)
		}
	}
}

func TestNewSlogLogger(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(zerolog.New(&buf))
	defer Init(DefaultConfig())

	NewSlogLogger("supervisor").Warn("service failed")

	output := buf.String()
	if !strings.Contains(output, "service failed") || !strings.Contains(output, `"component":"supervisor"`) {
		t.Errorf("unexpected output: %s", output)
	}
}
