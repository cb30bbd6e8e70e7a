// Marquee - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package recommend

import (
	"context"
	"errors"
	"math"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"
)

// BuildOptions configures similarity matrix construction.
type BuildOptions struct {
	// Workers is the number of goroutines computing rows in parallel.
	// Zero means runtime.NumCPU().
	Workers int
}

// entry is one non-zero cell of a sparse vector.
type entry struct {
	pos   int
	value float64
}

// BuildMatrix computes the item-item cosine similarity matrix from ratings.
//
// The user-item matrix is zero-filled: an unrated (user, movie) pair counts as 0
// in both the dot product and the norms. Duplicate (user, movie) rows are
// averaged. Each row is computed by exactly one worker with a fixed
// accumulation order, so the output is bit-identical for any worker count and
// sim(i,j) == sim(j,i) exactly.
//
// Returns a *DataError if ratings is empty or contains no finite rating.
func BuildMatrix(ctx context.Context, ratings []Rating, opts BuildOptions) (*Matrix, error) {
	if len(ratings) == 0 {
		return nil, NewDataError("ratings", errors.New("rating store is empty"))
	}

	cells := aggregateRatings(ratings)
	if len(cells) == 0 {
		return nil, NewDataError("ratings", errors.New("no valid numeric ratings"))
	}

	movieIDs, userIDs := distinctAxes(cells)
	movieIdx := positions(movieIDs)
	userIdx := positions(userIDs)

	// Item vectors over users and user vectors over items, both sorted by position.
	items := make([][]entry, len(movieIDs))
	users := make([][]entry, len(userIDs))
	for key, v := range cells {
		i := movieIdx[key.movie]
		u := userIdx[key.user]
		items[i] = append(items[i], entry{pos: u, value: v})
		users[u] = append(users[u], entry{pos: i, value: v})
	}
	for i := range items {
		sortEntries(items[i])
	}
	for u := range users {
		sortEntries(users[u])
	}

	norms := make([]float64, len(items))
	for i, vec := range items {
		var sum float64
		for _, e := range vec {
			sum += e.value * e.value
		}
		norms[i] = math.Sqrt(sum)
	}

	n := len(movieIDs)
	values := make([]float64, n*n)

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > n {
		workers = n
	}

	rows := make(chan int)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(rows)
		for i := 0; i < n; i++ {
			select {
			case rows <- i:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	for w := 0; w < workers; w++ {
		g.Go(func() error {
			acc := make([]float64, n)
			for i := range rows {
				if err := gctx.Err(); err != nil {
					return err
				}
				computeRow(i, items, users, norms, acc, values[i*n:(i+1)*n])
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return NewMatrix(movieIDs, values)
}

// computeRow fills out with the cosine similarity of item i against every item.
// acc is scratch space of length n and is left zeroed on return.
func computeRow(i int, items, users [][]entry, norms, acc, out []float64) {
	for _, ui := range items[i] {
		for _, ij := range users[ui.pos] {
			acc[ij.pos] += ui.value * ij.value
		}
	}

	normI := norms[i]
	for j := range out {
		dot := acc[j]
		acc[j] = 0

		if normI == 0 || norms[j] == 0 {
			out[j] = 0
			continue
		}
		sim := dot / (normI * norms[j])
		// Floating-point error can push |sim| a hair above 1.
		if sim > 1 {
			sim = 1
		} else if sim < -1 {
			sim = -1
		}
		out[j] = sim
	}

	if normI != 0 {
		out[i] = 1
	}
}

// cellKey addresses one user-item cell.
type cellKey struct {
	user  int
	movie int
}

// aggregateRatings averages duplicate (user, movie) observations and drops non-finite values.
//
//nolint:gocritic // rangeValCopy: Rating is small
func aggregateRatings(ratings []Rating) map[cellKey]float64 {
	type acc struct {
		sum   float64
		count int
	}
	sums := make(map[cellKey]acc, len(ratings))
	for _, r := range ratings {
		if math.IsNaN(r.Value) || math.IsInf(r.Value, 0) {
			continue
		}
		k := cellKey{user: r.UserID, movie: r.MovieID}
		a := sums[k]
		a.sum += r.Value
		a.count++
		sums[k] = a
	}

	cells := make(map[cellKey]float64, len(sums))
	for k, a := range sums {
		cells[k] = a.sum / float64(a.count)
	}
	return cells
}

// distinctAxes returns the sorted movie and user ids present in cells.
func distinctAxes(cells map[cellKey]float64) (movieIDs, userIDs []int) {
	movieSet := make(map[int]struct{})
	userSet := make(map[int]struct{})
	for k := range cells {
		movieSet[k.movie] = struct{}{}
		userSet[k.user] = struct{}{}
	}
	return sortedKeys(movieSet), sortedKeys(userSet)
}

func sortedKeys(set map[int]struct{}) []int {
	keys := make([]int, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

func positions(ids []int) map[int]int {
	idx := make(map[int]int, len(ids))
	for i, id := range ids {
		idx[id] = i
	}
	return idx
}

func sortEntries(vec []entry) {
	sort.Slice(vec, func(a, b int) bool {
		return vec[a].pos < vec[b].pos
	})
}
