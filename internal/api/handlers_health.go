// Marquee - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/marquee/internal/metrics"
)

// HealthLive handles liveness probes. It never touches the engine.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	metrics.RecordUptime(h.startTime)
	NewResponseWriter(w, r).Success(map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady handles readiness probes. It returns 503 until the engine has
// been built or loaded, and includes dataset sizes once it has.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	data := map[string]interface{}{
		"ready":          h.engines.Ready(),
		"details_source": h.details.Enabled(),
		"uptime":         time.Since(h.startTime).Seconds(),
	}

	if !h.engines.Ready() {
		rw.ErrorWithDetails(http.StatusServiceUnavailable, ErrCodeServiceUnavailable,
			"Recommendation engine is still loading", data)
		return
	}

	// Ready means Get returns the memoized engine without loading.
	if e, err := h.engines.Get(r.Context()); err == nil {
		data["stats"] = e.Stats()
	}
	rw.Success(data)
}
