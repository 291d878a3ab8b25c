// Package dashboard holds the dashboard's view state and the transitions
// that change it. Transitions are pure; Dashboard serialises them and wires
// them to the dataset cache.
package dashboard

import (
	"slices"
	"time"

	"salarydash/internal/domain"
	"salarydash/internal/stats"
)

type State struct {
	// Jobs is in aggregation order and drives the chart.
	Jobs []domain.YearSummary `json:"jobs"`
	// Sorted is what the table shows.
	Sorted []domain.YearSummary `json:"sortedJobs"`
	Sort   domain.SortState     `json:"sortConfig"`
	// Resorted is set once a header has been chosen, so reloads keep the
	// user's ordering.
	Resorted bool `json:"-"`

	Selected     bool                `json:"selected"`
	SelectedYear int                 `json:"selectedYear,omitempty"`
	Titles       []domain.TitleCount `json:"jobTitles"`
	TitlesToken  uint64              `json:"titlesToken"`
	LatestToken  uint64              `json:"latestToken"`

	LoadError string          `json:"loadError,omitempty"`
	Rejected  []domain.Reject `json:"rejected,omitempty"`
	LoadedAt  time.Time       `json:"loadedAt,omitzero"`
	// FromSnapshot marks data restored from the local store rather than
	// fetched in this process.
	FromSnapshot bool `json:"fromSnapshot"`
}

func Initial() State {
	return State{Sort: domain.DefaultSort}
}

// Loaded installs a freshly fetched dataset. A dataset fetched before the
// one already shown is ignored, unless what is shown came from the local
// snapshot.
func Loaded(s State, records []domain.Record, rejected []domain.Reject, at time.Time) State {
	if !s.FromSnapshot && at.Before(s.LoadedAt) {
		return s
	}
	jobs := stats.Aggregate(records)
	s.Jobs = jobs
	if s.Resorted {
		s.Sorted = stats.Sorted(jobs, s.Sort)
	} else {
		s.Sorted = slices.Clone(jobs)
	}
	if s.Selected {
		s.Titles = stats.TitlesForYear(records, s.SelectedYear)
		s.TitlesToken = s.LatestToken
	}
	s.Rejected = rejected
	s.LoadedAt = at
	s.LoadError = ""
	s.FromSnapshot = false
	return s
}

// LoadFailed records a failed load. Whatever was shown stays shown.
func LoadFailed(s State, err error) State {
	s.LoadError = err.Error()
	return s
}

// SortedBy re-sorts the displayed rows without touching the dataset.
func SortedBy(s State, key domain.SortKey) State {
	s.Sorted, s.Sort = stats.SortBy(s.Sorted, key, s.Sort)
	s.Resorted = true
	return s
}

// Selected marks year as the drill-down target for request token.
func Selected(s State, year int, token uint64) State {
	s.Selected = true
	s.SelectedYear = year
	s.Titles = nil
	s.LatestToken = token
	return s
}

// TitlesLoaded applies a drill-down result. Results for anything but the
// latest request are dropped and ok is false.
func TitlesLoaded(s State, token uint64, titles []domain.TitleCount) (next State, ok bool) {
	if token != s.LatestToken {
		return s, false
	}
	s.Titles = titles
	s.TitlesToken = token
	return s, true
}

// Clone returns a copy that shares no slices with s.
func (s State) Clone() State {
	s.Jobs = slices.Clone(s.Jobs)
	s.Sorted = slices.Clone(s.Sorted)
	s.Titles = slices.Clone(s.Titles)
	s.Rejected = slices.Clone(s.Rejected)
	return s
}
