// Marquee - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"
)

type countingPurger struct {
	calls atomic.Int32
}

func (p *countingPurger) PurgeExpired() int {
	return int(p.calls.Add(1))
}

func TestJanitorService_ImplementsService(t *testing.T) {
	var _ suture.Service = (*JanitorService)(nil)
}

func TestJanitorService_String(t *testing.T) {
	svc := NewJanitorService("details-cache-janitor", &countingPurger{}, time.Minute, zerolog.Nop())
	if got := svc.String(); got != "details-cache-janitor" {
		t.Errorf("String() = %q, want %q", got, "details-cache-janitor")
	}
}

func TestJanitorService_DefaultInterval(t *testing.T) {
	svc := NewJanitorService("janitor", &countingPurger{}, 0, zerolog.Nop())
	if svc.interval != DefaultJanitorInterval {
		t.Errorf("expected default interval %v, got %v", DefaultJanitorInterval, svc.interval)
	}
}

func TestJanitorService_PurgesOnInterval(t *testing.T) {
	purger := &countingPurger{}
	svc := NewJanitorService("janitor", purger, 10*time.Millisecond, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for purger.calls.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()

	if got := purger.calls.Load(); got < 3 {
		t.Errorf("expected at least 3 purges, got %d", got)
	}
	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestJanitorService_NoPurgeBeforeFirstTick(t *testing.T) {
	purger := &countingPurger{}
	svc := NewJanitorService("janitor", purger, time.Hour, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := svc.Serve(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected context.DeadlineExceeded, got %v", err)
	}
	if got := purger.calls.Load(); got != 0 {
		t.Errorf("expected no purges, got %d", got)
	}
}
