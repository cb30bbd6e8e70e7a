// Marquee - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package api

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/tomtom215/marquee/internal/browse"
)

// maxBrowseBodyBytes caps the browse request body. A results state holds at
// most MaxK movies, so this is generous.
const maxBrowseBodyBytes = 1 << 20

// BrowseRequest is the body of POST /api/v1/browse.
type BrowseRequest struct {
	// State is the state returned by the previous call. Omit it to start at home.
	State *browse.State `json:"state,omitempty"`
	Action browse.Action `json:"action"`
}

// Browse handles POST /api/v1/browse. The client holds the navigation state
// and sends it back with each action; the server keeps no session.
func (h *Handler) Browse(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req BrowseRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBrowseBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		rw.BadRequest("Invalid request body: " + err.Error())
		return
	}
	if req.Action.Kind == "" {
		rw.ErrorWithDetails(http.StatusBadRequest, ErrCodeValidationFailed,
			"action.kind is required", map[string]interface{}{"field": "action.kind"})
		return
	}
	if req.Action.K < 0 {
		rw.ErrorWithDetails(http.StatusBadRequest, ErrCodeValidationFailed,
			"action.k must not be negative", map[string]interface{}{"field": "action.k", "value": req.Action.K})
		return
	}

	state := browse.Home()
	if req.State != nil {
		state = *req.State
	}

	e := h.engine(w, r)
	if e == nil {
		return
	}
	if req.Action.K > e.MaxK() {
		req.Action.K = e.MaxK()
	}

	out, err := browse.NewMachine(e, e.DefaultK()).Apply(r.Context(), state, req.Action)
	switch {
	case errors.Is(err, browse.ErrInvalidState):
		rw.ErrorWithDetails(http.StatusBadRequest, ErrCodeValidationFailed, err.Error(),
			map[string]interface{}{"field": "state"})
	case errors.Is(err, browse.ErrInvalidTransition):
		rw.Conflict(err.Error())
	case err != nil:
		rw.InternalError("Navigation failed")
	default:
		rw.Success(out)
	}
}
