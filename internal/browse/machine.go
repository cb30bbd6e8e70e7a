// Marquee - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

// Package browse implements the home/results/details navigation flow as an
// explicit state machine.
//
// The machine holds no session data. Callers pass the current State with an
// Action and get the next State back, so the same flow works for a stateless
// HTTP client, a CLI, or a test.
//
//	home ──query/random──▶ results ──select──▶ details
//	  ▲                       ▲                   │
//	  │                       └──similar / back───┘
//	  └────────────── home (from any view) ───────┘
//
// A query that finds nothing leaves the state unchanged and sets a notice.
package browse

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/tomtom215/marquee/internal/recommend"
)

// View names a navigation state.
type View string

const (
	ViewHome    View = "home"
	ViewResults View = "results"
	ViewDetails View = "details"
)

// Kind names a user action.
type Kind string

const (
	// ActionQuery recommends by title, or by genre when no title is given.
	ActionQuery Kind = "query"
	// ActionRandom samples the catalog.
	ActionRandom Kind = "random"
	// ActionSelect opens one movie from the current results.
	ActionSelect Kind = "select"
	// ActionSimilar recommends movies like the one being viewed.
	ActionSimilar Kind = "similar"
	// ActionBack returns from details to the last results.
	ActionBack Kind = "back"
	// ActionHome resets to the home view.
	ActionHome Kind = "home"
)

// Notices shown to the user. Navigation never fails for these.
const (
	NoticeEmpty = recommend.EmptyNotice
	NoticePick  = "Please pick a movie or a genre first."
)

var (
	// ErrInvalidTransition reports an action that is not allowed from the current view.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrInvalidState reports a state whose view does not match its contents.
	ErrInvalidState = errors.New("invalid state")
)

// State is the caller-held navigation state.
type State struct {
	View View `json:"view"`

	// Results is the last non-empty result set. Kept while viewing details so
	// ActionBack can restore it.
	Results *recommend.Result `json:"results,omitempty"`

	// Selected is the movie shown in the details view.
	Selected *recommend.Movie `json:"selected,omitempty"`
}

// Home returns the initial state.
func Home() State {
	return State{View: ViewHome}
}

// Validate checks that the view and its contents agree.
//
//nolint:gocritic // value receiver for immutability
func (s State) Validate() error {
	switch s.View {
	case ViewHome:
		return nil
	case ViewResults:
		if s.Results == nil || s.Results.Empty() {
			return fmt.Errorf("%w: results view without results", ErrInvalidState)
		}
		return nil
	case ViewDetails:
		if s.Selected == nil {
			return fmt.Errorf("%w: details view without a selected movie", ErrInvalidState)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown view %q", ErrInvalidState, s.View)
	}
}

// Action is one user step.
type Action struct {
	Kind Kind `json:"kind"`

	// Title and Genre are used by ActionQuery.
	Title string `json:"title,omitempty"`
	Genre string `json:"genre,omitempty"`

	// MovieID is used by ActionSelect.
	MovieID int `json:"movie_id,omitempty"`

	// K caps the result size. Zero uses the machine default.
	K int `json:"k,omitempty"`
}

// Outcome is the state after an action plus an optional notice.
type Outcome struct {
	State  State  `json:"state"`
	Notice string `json:"notice,omitempty"`
}

// Recommender is the query surface the machine drives. *recommend.Engine satisfies it.
type Recommender interface {
	ByItem(ctx context.Context, movieID, n int) recommend.Result
	ByTitle(ctx context.Context, title string, n int) recommend.Result
	ByGenre(ctx context.Context, genre string, n int) recommend.Result
	Sample(ctx context.Context, n int) recommend.Result
}

// Machine applies actions to states.
type Machine struct {
	rec      Recommender
	defaultK int
}

// NewMachine creates a machine issuing queries against rec.
func NewMachine(rec Recommender, defaultK int) *Machine {
	if defaultK <= 0 {
		defaultK = 10
	}
	return &Machine{rec: rec, defaultK: defaultK}
}

// Apply returns the state that follows s after a.
//
//nolint:gocritic // hugeParam: State and Action passed by value; callers keep their copy
func (m *Machine) Apply(ctx context.Context, s State, a Action) (Outcome, error) {
	if err := s.Validate(); err != nil {
		return Outcome{State: s}, err
	}

	k := a.K
	if k <= 0 {
		k = m.defaultK
	}

	switch a.Kind {
	case ActionHome:
		return Outcome{State: Home()}, nil

	case ActionQuery:
		if s.View != ViewHome {
			return m.reject(s, a)
		}
		title := strings.TrimSpace(a.Title)
		genre := strings.TrimSpace(a.Genre)
		switch {
		case title != "":
			return m.show(s, m.rec.ByTitle(ctx, title, k)), nil
		case genre != "":
			return m.show(s, m.rec.ByGenre(ctx, genre, k)), nil
		default:
			return Outcome{State: s, Notice: NoticePick}, nil
		}

	case ActionRandom:
		if s.View != ViewHome {
			return m.reject(s, a)
		}
		return m.show(s, m.rec.Sample(ctx, k)), nil

	case ActionSelect:
		if s.View != ViewResults {
			return m.reject(s, a)
		}
		i := slices.IndexFunc(s.Results.Movies, func(mv recommend.Movie) bool { return mv.ID == a.MovieID })
		if i < 0 {
			return Outcome{State: s}, fmt.Errorf("%w: movie %d is not in the current results", ErrInvalidTransition, a.MovieID)
		}
		selected := s.Results.Movies[i]
		return Outcome{State: State{View: ViewDetails, Results: s.Results, Selected: &selected}}, nil

	case ActionSimilar:
		if s.View != ViewDetails {
			return m.reject(s, a)
		}
		return m.show(s, m.rec.ByItem(ctx, s.Selected.ID, k)), nil

	case ActionBack:
		if s.View != ViewDetails || s.Results == nil || s.Results.Empty() {
			return m.reject(s, a)
		}
		return Outcome{State: State{View: ViewResults, Results: s.Results}}, nil

	default:
		return Outcome{State: s}, fmt.Errorf("%w: unknown action %q", ErrInvalidTransition, a.Kind)
	}
}

// show moves to the results view, or keeps s with a notice when res is empty.
//
//nolint:gocritic // hugeParam: see Apply
func (m *Machine) show(s State, res recommend.Result) Outcome {
	if res.Empty() {
		return Outcome{State: s, Notice: NoticeEmpty}
	}
	return Outcome{State: State{View: ViewResults, Results: &res}}
}

//nolint:gocritic // hugeParam: see Apply
func (m *Machine) reject(s State, a Action) (Outcome, error) {
	return Outcome{State: s}, fmt.Errorf("%w: %s from %s", ErrInvalidTransition, a.Kind, s.View)
}
