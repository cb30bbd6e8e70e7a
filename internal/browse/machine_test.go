// Marquee - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package browse

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/marquee/internal/recommend"
)

var (
	toyStory = recommend.Movie{ID: 1, Title: "Toy Story (1995)", Genres: []string{"Animation", "Comedy"}}
	jumanji  = recommend.Movie{ID: 2, Title: "Jumanji (1995)", Genres: []string{"Adventure"}}
	heat     = recommend.Movie{ID: 6, Title: "Heat (1995)", Genres: []string{"Action", "Crime"}}
)

// fakeRecommender records calls and returns canned results.
type fakeRecommender struct {
	calls []string
	k     int
}

func (f *fakeRecommender) ByItem(_ context.Context, movieID, n int) recommend.Result {
	f.calls = append(f.calls, "item")
	f.k = n
	if movieID == toyStory.ID {
		return recommend.Result{Strategy: recommend.StrategySimilar, Movies: []recommend.Movie{jumanji, heat}}
	}
	return recommend.Result{Strategy: recommend.StrategySimilar, Movies: []recommend.Movie{}}
}

func (f *fakeRecommender) ByTitle(_ context.Context, title string, n int) recommend.Result {
	f.calls = append(f.calls, "title")
	f.k = n
	if title == toyStory.Title {
		return recommend.Result{Strategy: recommend.StrategySimilar, Movies: []recommend.Movie{jumanji, heat}}
	}
	return recommend.Result{Strategy: recommend.StrategySimilar, Movies: []recommend.Movie{}}
}

func (f *fakeRecommender) ByGenre(_ context.Context, genre string, n int) recommend.Result {
	f.calls = append(f.calls, "genre")
	f.k = n
	if genre == "Comedy" {
		return recommend.Result{Strategy: recommend.StrategyGenre, Movies: []recommend.Movie{toyStory}}
	}
	return recommend.Result{Strategy: recommend.StrategyGenre, Movies: []recommend.Movie{}}
}

func (f *fakeRecommender) Sample(_ context.Context, n int) recommend.Result {
	f.calls = append(f.calls, "sample")
	f.k = n
	return recommend.Result{Strategy: recommend.StrategyRandom, Movies: []recommend.Movie{heat, toyStory, jumanji}}
}

func resultsState(movies ...recommend.Movie) State {
	return State{View: ViewResults, Results: &recommend.Result{Strategy: recommend.StrategySimilar, Movies: movies}}
}

func TestMachine_FullFlow(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	rec := &fakeRecommender{}
	m := NewMachine(rec, 10)

	out, err := m.Apply(ctx, Home(), Action{Kind: ActionQuery, Title: toyStory.Title})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if out.State.View != ViewResults || out.State.Results.Len() != 2 || out.Notice != "" {
		t.Fatalf("after query: %+v", out)
	}

	out, err = m.Apply(ctx, out.State, Action{Kind: ActionSelect, MovieID: heat.ID})
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if out.State.View != ViewDetails || out.State.Selected.ID != heat.ID {
		t.Fatalf("after select: %+v", out.State)
	}

	out, err = m.Apply(ctx, out.State, Action{Kind: ActionBack})
	if err != nil {
		t.Fatalf("back: %v", err)
	}
	if out.State.View != ViewResults || out.State.Results.Len() != 2 || out.State.Selected != nil {
		t.Fatalf("after back: %+v", out.State)
	}

	out, err = m.Apply(ctx, out.State, Action{Kind: ActionHome})
	if err != nil {
		t.Fatalf("home: %v", err)
	}
	if out.State.View != ViewHome || out.State.Results != nil {
		t.Fatalf("after home: %+v", out.State)
	}
}

func TestMachine_Similar(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	rec := &fakeRecommender{}
	m := NewMachine(rec, 10)

	details := State{View: ViewDetails, Results: resultsState(toyStory).Results, Selected: &toyStory}
	out, err := m.Apply(ctx, details, Action{Kind: ActionSimilar, K: 5})
	if err != nil {
		t.Fatalf("similar: %v", err)
	}
	if out.State.View != ViewResults || out.State.Results.Movies[0].ID != jumanji.ID {
		t.Errorf("after similar: %+v", out.State)
	}
	if rec.k != 5 {
		t.Errorf("k = %d, want 5", rec.k)
	}

	// No neighbours: stay on details with a notice.
	lonely := State{View: ViewDetails, Results: resultsState(heat).Results, Selected: &heat}
	out, err = m.Apply(ctx, lonely, Action{Kind: ActionSimilar})
	if err != nil {
		t.Fatalf("similar (empty): %v", err)
	}
	if out.State.View != ViewDetails || out.Notice != NoticeEmpty {
		t.Errorf("empty similar: %+v", out)
	}
}

func TestMachine_QueryFromHome(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		action     Action
		wantView   View
		wantNotice string
		wantCall   string
	}{
		{"title wins over genre", Action{Kind: ActionQuery, Title: toyStory.Title, Genre: "Comedy"}, ViewResults, "", "title"},
		{"genre", Action{Kind: ActionQuery, Genre: " Comedy "}, ViewResults, "", "genre"},
		{"random", Action{Kind: ActionRandom}, ViewResults, "", "sample"},
		{"unknown title", Action{Kind: ActionQuery, Title: "Nope (2099)"}, ViewHome, NoticeEmpty, "title"},
		{"genre without matches", Action{Kind: ActionQuery, Genre: "Western"}, ViewHome, NoticeEmpty, "genre"},
		{"nothing picked", Action{Kind: ActionQuery, Title: "  "}, ViewHome, NoticePick, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := &fakeRecommender{}
			out, err := NewMachine(rec, 7).Apply(context.Background(), Home(), tt.action)
			if err != nil {
				t.Fatalf("Apply: %v", err)
			}
			if out.State.View != tt.wantView {
				t.Errorf("view = %s, want %s", out.State.View, tt.wantView)
			}
			if out.Notice != tt.wantNotice {
				t.Errorf("notice = %q, want %q", out.Notice, tt.wantNotice)
			}

			var got string
			if len(rec.calls) > 0 {
				got = rec.calls[0]
			}
			if got != tt.wantCall {
				t.Errorf("call = %q, want %q", got, tt.wantCall)
			}
			if tt.wantCall != "" && rec.k != 7 {
				t.Errorf("default k = %d, want 7", rec.k)
			}
		})
	}
}

func TestMachine_InvalidTransitions(t *testing.T) {
	t.Parallel()

	results := resultsState(toyStory, jumanji)
	details := State{View: ViewDetails, Results: results.Results, Selected: &toyStory}

	tests := []struct {
		name   string
		state  State
		action Action
	}{
		{"select from home", Home(), Action{Kind: ActionSelect, MovieID: 1}},
		{"select unknown movie", results, Action{Kind: ActionSelect, MovieID: 99}},
		{"similar from results", results, Action{Kind: ActionSimilar}},
		{"back from home", Home(), Action{Kind: ActionBack}},
		{"query from details", details, Action{Kind: ActionQuery, Title: toyStory.Title}},
		{"random from results", results, Action{Kind: ActionRandom}},
		{"unknown action", Home(), Action{Kind: "teleport"}},
	}

	m := NewMachine(&fakeRecommender{}, 10)
	for _, tt := range tests {
		out, err := m.Apply(context.Background(), tt.state, tt.action)
		if !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("%s: err = %v, want ErrInvalidTransition", tt.name, err)
		}
		if out.State.View != tt.state.View {
			t.Errorf("%s: state changed to %s", tt.name, out.State.View)
		}
	}
}

func TestState_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		state   State
		wantErr bool
	}{
		{"home", Home(), false},
		{"results", resultsState(toyStory), false},
		{"details", State{View: ViewDetails, Selected: &toyStory}, false},
		{"results without movies", resultsState(), true},
		{"results nil", State{View: ViewResults}, true},
		{"details without movie", State{View: ViewDetails}, true},
		{"unknown view", State{View: "settings"}, true},
	}

	for _, tt := range tests {
		err := tt.state.Validate()
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: Validate() = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, ErrInvalidState) {
			t.Errorf("%s: err = %v, want ErrInvalidState", tt.name, err)
		}
	}

	// Apply refuses a malformed state before touching the recommender.
	rec := &fakeRecommender{}
	if _, err := NewMachine(rec, 10).Apply(context.Background(), State{View: ViewResults}, Action{Kind: ActionHome}); !errors.Is(err, ErrInvalidState) {
		t.Errorf("Apply on invalid state: err = %v", err)
	}
}

// The machine works against the real engine.
func TestMachine_WithEngine(t *testing.T) {
	t.Parallel()

	movies := []recommend.Movie{toyStory, jumanji, heat}
	links := []recommend.Link{
		{MovieID: 1, TMDBID: 862, HasTMDBID: true},
		{MovieID: 2, TMDBID: 8844, HasTMDBID: true},
		{MovieID: 6, TMDBID: 949, HasTMDBID: true},
	}
	ratings := []recommend.Rating{
		{UserID: 1, MovieID: 1, Value: 5}, {UserID: 1, MovieID: 2, Value: 4},
		{UserID: 2, MovieID: 1, Value: 4}, {UserID: 2, MovieID: 2, Value: 5},
		{UserID: 3, MovieID: 6, Value: 3},
	}

	ctx := context.Background()
	matrix, err := recommend.BuildMatrix(ctx, ratings, recommend.BuildOptions{})
	if err != nil {
		t.Fatal(err)
	}
	catalog, err := recommend.NewCatalog(movies, links)
	if err != nil {
		t.Fatal(err)
	}
	engine, err := recommend.NewEngine(matrix, catalog, ratings, nil, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}

	m := NewMachine(engine, engine.DefaultK())
	out, err := m.Apply(ctx, Home(), Action{Kind: ActionQuery, Title: toyStory.Title, K: 1})
	if err != nil {
		t.Fatal(err)
	}
	if out.State.View != ViewResults || out.State.Results.Movies[0].ID != jumanji.ID {
		t.Errorf("engine query: %+v", out)
	}
}
