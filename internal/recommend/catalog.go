// Marquee - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package recommend

import (
	"errors"
	"fmt"
	"sort"
)

// Link cross-references a catalog movie to its external TMDB id.
type Link struct {
	MovieID   int
	TMDBID    int
	HasTMDBID bool
}

// Catalog holds the raw movie table and the display catalog derived from it.
//
// The display catalog contains only movies with a resolvable TMDB id. Movies
// outside it keep their ids valid for similarity lookups but are never shown.
// A Catalog is immutable once constructed.
type Catalog struct {
	movies  []Movie
	display []Movie

	displayByID map[int]int
	titleToID   map[string]int
}

// NewCatalog joins movies with links. Duplicate movie ids in either table are a
// *DataError. Links for unknown movies are ignored.
func NewCatalog(movies []Movie, links []Link) (*Catalog, error) {
	if len(movies) == 0 {
		return nil, NewDataError("movies", errors.New("catalog is empty"))
	}

	raw := make([]Movie, len(movies))
	copy(raw, movies)
	sort.SliceStable(raw, func(i, j int) bool {
		return raw[i].ID < raw[j].ID
	})
	for i := 1; i < len(raw); i++ {
		if raw[i].ID == raw[i-1].ID {
			return nil, NewDataError("movies", fmt.Errorf("duplicate movieId %d", raw[i].ID))
		}
	}

	tmdb := make(map[int]int, len(links))
	for _, l := range links {
		if _, dup := tmdb[l.MovieID]; dup {
			return nil, NewDataError("links", fmt.Errorf("duplicate movieId %d", l.MovieID))
		}
		if l.HasTMDBID {
			tmdb[l.MovieID] = l.TMDBID
		} else {
			tmdb[l.MovieID] = -1
		}
	}

	c := &Catalog{
		movies:      raw,
		display:     make([]Movie, 0, len(raw)),
		displayByID: make(map[int]int, len(raw)),
		titleToID:   make(map[string]int, len(raw)),
	}

	for _, m := range raw {
		id, ok := tmdb[m.ID]
		if !ok || id < 0 {
			continue
		}
		m.TMDBID = id
		m.HasTMDBID = true

		c.displayByID[m.ID] = len(c.display)
		c.display = append(c.display, m)

		// raw is ascending by id, so the first movie seen with a title has the lowest id
		if _, seen := c.titleToID[m.Title]; !seen {
			c.titleToID[m.Title] = m.ID
		}
	}

	return c, nil
}

// Movies returns a copy of the raw movie table in ascending id order.
func (c *Catalog) Movies() []Movie {
	out := make([]Movie, len(c.movies))
	copy(out, c.movies)
	return out
}

// Display returns a copy of the display catalog in ascending id order.
func (c *Catalog) Display() []Movie {
	out := make([]Movie, len(c.display))
	copy(out, c.display)
	return out
}

// Len returns the number of movies in the display catalog.
func (c *Catalog) Len() int {
	return len(c.display)
}

// RawLen returns the number of movies in the raw table.
func (c *Catalog) RawLen() int {
	return len(c.movies)
}

// Lookup returns the display movie with the given id.
func (c *Catalog) Lookup(movieID int) (Movie, bool) {
	i, ok := c.displayByID[movieID]
	if !ok {
		return Movie{}, false
	}
	return c.display[i], true
}

// ResolveTitle returns the id of the display movie with exactly this title.
// When several movies share the title the lowest id wins.
func (c *Catalog) ResolveTitle(title string) (int, error) {
	id, ok := c.titleToID[title]
	if !ok {
		return 0, fmt.Errorf("title %q: %w", title, ErrLookupMiss)
	}
	return id, nil
}
