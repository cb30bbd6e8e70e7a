// Marquee - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package dataset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/tomtom215/marquee/internal/recommend"
)

const (
	fixtureRatings = "userId,movieId,rating,timestamp\n" +
		"1,1,4.0,964982703\n" +
		"1,3,4.5,964981247\n" +
		"2,1,,964982224\n" +
		"2,2,abc,964983815\n" +
		"3,2,2.5,964982931\n"

	fixtureMovies = "movieId,title,genres\n" +
		"1,Toy Story (1995),Adventure|Animation|Children|Comedy|Fantasy\n" +
		"2,\"American President, The (1995)\",Comedy|Drama|Romance\n" +
		"3,Nothing Listed (2020),(no genres listed)\n"

	fixtureLinks = "movieId,imdbId,tmdbId\n" +
		"1,0114709,862\n" +
		"2,0112346,9087\n" +
		"3,0000001,\n"
)

func writeFixture(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func defaultFixture(t *testing.T) string {
	t.Helper()
	return writeFixture(t, map[string]string{
		RatingsFile: fixtureRatings,
		MoviesFile:  fixtureMovies,
		LinksFile:   fixtureLinks,
	})
}

var (
	wantRatings = []recommend.Rating{
		{UserID: 1, MovieID: 1, Value: 4.0},
		{UserID: 1, MovieID: 3, Value: 4.5},
		{UserID: 3, MovieID: 2, Value: 2.5},
	}
	wantMovies = []recommend.Movie{
		{ID: 1, Title: "Toy Story (1995)", Genres: []string{"Adventure", "Animation", "Children", "Comedy", "Fantasy"}},
		{ID: 2, Title: "American President, The (1995)", Genres: []string{"Comedy", "Drama", "Romance"}},
		{ID: 3, Title: "Nothing Listed (2020)", Genres: []string{recommend.NoGenresListed}},
	}
	wantLinks = []recommend.Link{
		{MovieID: 1, TMDBID: 862, HasTMDBID: true},
		{MovieID: 2, TMDBID: 9087, HasTMDBID: true},
		{MovieID: 3},
	}
)

// sources returns every loader reading dir.
func sources(t *testing.T, dir string) map[string]Source {
	t.Helper()

	duck, err := NewDuckDBSource(dir, 1)
	if err != nil {
		t.Fatalf("NewDuckDBSource: %v", err)
	}
	t.Cleanup(func() { _ = duck.Close() })

	return map[string]Source{
		LoaderCSV:    NewCSVSource(dir),
		LoaderDuckDB: duck,
	}
}

func TestSource_Tables(t *testing.T) {
	ctx := context.Background()

	for name, src := range sources(t, defaultFixture(t)) {
		t.Run(name, func(t *testing.T) {
			ratings, err := src.Ratings(ctx)
			if err != nil {
				t.Fatalf("Ratings: %v", err)
			}
			if !reflect.DeepEqual(ratings, wantRatings) {
				t.Errorf("Ratings() = %+v, want %+v", ratings, wantRatings)
			}

			movies, err := src.Movies(ctx)
			if err != nil {
				t.Fatalf("Movies: %v", err)
			}
			if !reflect.DeepEqual(movies, wantMovies) {
				t.Errorf("Movies() = %+v, want %+v", movies, wantMovies)
			}

			links, err := src.Links(ctx)
			if err != nil {
				t.Fatalf("Links: %v", err)
			}
			if !reflect.DeepEqual(links, wantLinks) {
				t.Errorf("Links() = %+v, want %+v", links, wantLinks)
			}
		})
	}
}

func TestSource_DataErrors(t *testing.T) {
	tests := []struct {
		name    string
		files   map[string]string
		read    func(context.Context, Source) error
		wantSrc string
	}{
		{
			name:    "missing ratings file",
			files:   map[string]string{},
			read:    func(ctx context.Context, s Source) error { _, err := s.Ratings(ctx); return err },
			wantSrc: tableRatings,
		},
		{
			name:    "wrong ratings header",
			files:   map[string]string{RatingsFile: "user,movie,score,ts\n1,1,4.0,0\n"},
			read:    func(ctx context.Context, s Source) error { _, err := s.Ratings(ctx); return err },
			wantSrc: tableRatings,
		},
		{
			name:    "non-integer user",
			files:   map[string]string{RatingsFile: "userId,movieId,rating,timestamp\nx,1,4.0,0\n"},
			read:    func(ctx context.Context, s Source) error { _, err := s.Ratings(ctx); return err },
			wantSrc: tableRatings,
		},
		{
			name:    "non-integer movie id",
			files:   map[string]string{MoviesFile: "movieId,title,genres\none,Toy Story (1995),Comedy\n"},
			read:    func(ctx context.Context, s Source) error { _, err := s.Movies(ctx); return err },
			wantSrc: tableMovies,
		},
		{
			name:    "non-integer tmdb id",
			files:   map[string]string{LinksFile: "movieId,imdbId,tmdbId\n1,0114709,abc\n"},
			read:    func(ctx context.Context, s Source) error { _, err := s.Links(ctx); return err },
			wantSrc: tableLinks,
		},
	}

	for _, tt := range tests {
		for name, src := range sources(t, writeFixture(t, tt.files)) {
			t.Run(tt.name+"/"+name, func(t *testing.T) {
				err := tt.read(context.Background(), src)
				var de *recommend.DataError
				if !errors.As(err, &de) {
					t.Fatalf("err = %v, want DataError", err)
				}
				if de.Source != tt.wantSrc {
					t.Errorf("Source = %q, want %q", de.Source, tt.wantSrc)
				}
			})
		}
	}
}

func TestCSVSource_FieldCount(t *testing.T) {
	t.Parallel()

	dir := writeFixture(t, map[string]string{
		MoviesFile: "movieId,title,genres\n1,Toy Story (1995)\n",
	})
	_, err := NewCSVSource(dir).Movies(context.Background())
	if !recommend.IsDataError(err) {
		t.Errorf("err = %v, want DataError", err)
	}
}

func TestCSVSource_ByteOrderMark(t *testing.T) {
	t.Parallel()

	dir := writeFixture(t, map[string]string{
		LinksFile: "\ufeffmovieId,imdbId,tmdbId\n1,0114709,862\n",
	})
	links, err := NewCSVSource(dir).Links(context.Background())
	if err != nil {
		t.Fatalf("Links: %v", err)
	}
	if len(links) != 1 || links[0].TMDBID != 862 {
		t.Errorf("Links() = %+v", links)
	}
}

func TestCSVSource_ContextCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewCSVSource(defaultFixture(t)).Ratings(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	src, err := New(Config{Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("New default: %v", err)
	}
	if _, ok := src.(*CSVSource); !ok {
		t.Errorf("default loader = %T, want *CSVSource", src)
	}

	src, err = New(Config{Dir: t.TempDir(), Loader: LoaderDuckDB})
	if err != nil {
		t.Fatalf("New duckdb: %v", err)
	}
	defer func() { _ = src.Close() }()
	if _, ok := src.(*DuckDBSource); !ok {
		t.Errorf("duckdb loader = %T, want *DuckDBSource", src)
	}

	if _, err := New(Config{Loader: "parquet"}); err == nil || !strings.Contains(err.Error(), "parquet") {
		t.Errorf("unknown loader err = %v", err)
	}
}

func TestQuoteLiteral(t *testing.T) {
	t.Parallel()

	if got := quoteLiteral("/data/o'brien/ratings.csv"); got != "'/data/o''brien/ratings.csv'" {
		t.Errorf("quoteLiteral = %s", got)
	}
}
