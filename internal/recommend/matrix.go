// Marquee - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package recommend

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// Matrix is a dense, square, symmetric item-item similarity matrix keyed by movie id.
//
// Values are stored row-major in a single slice. A Matrix is immutable once
// constructed and safe for concurrent reads.
type Matrix struct {
	ids    []int
	index  map[int]int
	values []float64
}

// NewMatrix creates a matrix from ascending unique ids and row-major values.
// The values slice is owned by the matrix afterwards.
func NewMatrix(ids []int, values []float64) (*Matrix, error) {
	n := len(ids)
	if len(values) != n*n {
		return nil, fmt.Errorf("matrix values: got %d, want %d for %d ids", len(values), n*n, n)
	}

	index := make(map[int]int, n)
	for i, id := range ids {
		if i > 0 && ids[i-1] >= id {
			return nil, errors.New("matrix ids must be strictly ascending")
		}
		index[id] = i
	}

	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("matrix value at row %d col %d is not finite", i/n, i%n)
		}
	}

	return &Matrix{ids: ids, index: index, values: values}, nil
}

// Len returns the number of movies indexed by the matrix.
func (m *Matrix) Len() int {
	return len(m.ids)
}

// IDs returns a copy of the indexed movie ids in ascending order.
func (m *Matrix) IDs() []int {
	out := make([]int, len(m.ids))
	copy(out, m.ids)
	return out
}

// Contains reports whether the movie id is indexed.
func (m *Matrix) Contains(movieID int) bool {
	_, ok := m.index[movieID]
	return ok
}

// At returns the similarity between two movies.
func (m *Matrix) At(a, b int) (float64, bool) {
	i, ok := m.index[a]
	if !ok {
		return 0, false
	}
	j, ok := m.index[b]
	if !ok {
		return 0, false
	}
	return m.values[i*len(m.ids)+j], true
}

// Row returns the similarity row for a movie, aligned with IDs().
// The returned slice aliases internal storage and must not be modified.
func (m *Matrix) Row(movieID int) ([]float64, bool) {
	i, ok := m.index[movieID]
	if !ok {
		return nil, false
	}
	n := len(m.ids)
	return m.values[i*n : (i+1)*n : (i+1)*n], true
}

// rowAt returns row i by position.
func (m *Matrix) rowAt(i int) []float64 {
	n := len(m.ids)
	return m.values[i*n : (i+1)*n]
}

// idAt returns the movie id at position i.
func (m *Matrix) idAt(i int) int {
	return m.ids[i]
}

// Neighbor is a movie with its similarity to a query movie.
type Neighbor struct {
	MovieID    int
	Similarity float64
}

// Neighbors returns every other indexed movie ranked by similarity to movieID.
// Ties are broken by ascending movie id. The query movie is excluded.
func (m *Matrix) Neighbors(movieID int) ([]Neighbor, bool) {
	row, ok := m.Row(movieID)
	if !ok {
		return nil, false
	}

	neighbors := make([]Neighbor, 0, len(row)-1)
	for j, sim := range row {
		id := m.ids[j]
		if id == movieID {
			continue
		}
		neighbors = append(neighbors, Neighbor{MovieID: id, Similarity: sim})
	}

	// ids are ascending, so a stable sort on similarity keeps ascending-id tie order
	sort.SliceStable(neighbors, func(a, b int) bool {
		return neighbors[a].Similarity > neighbors[b].Similarity
	})

	return neighbors, true
}

// Equal reports whether two matrices index the same ids and all values agree within tol.
func (m *Matrix) Equal(other *Matrix, tol float64) bool {
	if m == nil || other == nil {
		return m == other
	}
	if len(m.ids) != len(other.ids) {
		return false
	}
	for i := range m.ids {
		if m.ids[i] != other.ids[i] {
			return false
		}
	}
	for i := range m.values {
		if math.Abs(m.values[i]-other.values[i]) > tol {
			return false
		}
	}
	return true
}
