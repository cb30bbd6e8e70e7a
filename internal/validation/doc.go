// Marquee - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

// Package validation provides struct validation using go-playground/validator v10.
//
// A single validator instance is shared process-wide so struct metadata is
// cached once. Field errors are reported by their query or json tag name and
// translated into short messages; ToAPIError turns them into the
// VALIDATION_FAILED error used by the HTTP API.
//
//	type similarRequest struct {
//	    Title string `query:"title" validate:"notblank,max=500"`
//	    K     int    `query:"k" validate:"min=1,max=100"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, verr)
//	    return
//	}
//
// Custom tags:
//   - notblank: string contains at least one non-space character
package validation
