// Marquee - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package recommend

import (
	"errors"
	"fmt"
)

// ErrLookupMiss reports a title or movie id that is not known.
// The engine never returns it from query methods; it maps to an empty result.
var ErrLookupMiss = errors.New("lookup miss")

// DataError reports a malformed or empty source table.
type DataError struct {
	// Source names the table (ratings, movies, links).
	Source string
	Err    error
}

func (e *DataError) Error() string {
	return fmt.Sprintf("data error in %s: %v", e.Source, e.Err)
}

func (e *DataError) Unwrap() error {
	return e.Err
}

// NewDataError wraps err as a DataError for the named source.
func NewDataError(source string, err error) *DataError {
	return &DataError{Source: source, Err: err}
}

// CacheError reports an unreadable persisted cache or a failed write.
type CacheError struct {
	// Op is "load" or "save".
	Op   string
	Path string
	Err  error
}

func (e *CacheError) Error() string {
	return fmt.Sprintf("cache %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *CacheError) Unwrap() error {
	return e.Err
}

// IsDataError reports whether err wraps a DataError.
func IsDataError(err error) bool {
	var de *DataError
	return errors.As(err, &de)
}

// IsCacheError reports whether err wraps a CacheError.
func IsCacheError(err error) bool {
	var ce *CacheError
	return errors.As(err, &ce)
}
