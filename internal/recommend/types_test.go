// Marquee - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package recommend

import (
	"testing"
)

func TestParseGenres(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"single genre", "Comedy", []string{"Comedy"}},
		{"multiple genres", "Adventure|Animation|Children", []string{"Adventure", "Animation", "Children"}},
		{"no genres sentinel kept", NoGenresListed, []string{NoGenresListed}},
		{"empty string", "", []string{}},
		{"empty segments dropped", "Drama||War|", []string{"Drama", "War"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ParseGenres(tt.input)
			if len(result) != len(tt.expected) {
				t.Fatalf("ParseGenres(%q) = %v, want %v", tt.input, result, tt.expected)
			}
			for i := range result {
				if result[i] != tt.expected[i] {
					t.Errorf("ParseGenres(%q)[%d] = %q, want %q", tt.input, i, result[i], tt.expected[i])
				}
			}
		})
	}
}

func TestMovie_GenreString(t *testing.T) {
	m := Movie{Genres: []string{"Action", "Sci-Fi"}}
	if got := m.GenreString(); got != "Action|Sci-Fi" {
		t.Errorf("GenreString() = %q, want %q", got, "Action|Sci-Fi")
	}
}

func TestMovie_HasGenreLike(t *testing.T) {
	m := Movie{Genres: []string{"Film-Noir", "Thriller"}}

	tests := []struct {
		query    string
		expected bool
	}{
		{"thriller", true},
		{"noir", true},
		{"fi", true},
		{"comedy", false},
	}

	for _, tt := range tests {
		if got := m.HasGenreLike(tt.query); got != tt.expected {
			t.Errorf("HasGenreLike(%q) = %v, want %v", tt.query, got, tt.expected)
		}
	}
}

func TestResult_Empty(t *testing.T) {
	r := emptyResult(StrategyGenre)
	if !r.Empty() {
		t.Error("emptyResult().Empty() = false, want true")
	}
	if r.Movies == nil {
		t.Error("emptyResult().Movies = nil, want empty slice")
	}
	if r.Strategy != StrategyGenre {
		t.Errorf("Strategy = %q, want %q", r.Strategy, StrategyGenre)
	}
}
