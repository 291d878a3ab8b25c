package domain

import (
	"errors"
	"fmt"
)

var ErrUnknownSortKey = errors.New("unknown sort key")

type SortKey string

const (
	SortYear          SortKey = "year"
	SortTotalJobs     SortKey = "totalJobs"
	SortAverageSalary SortKey = "averageSalary"
)

// SortKeys lists the sortable columns in table order.
var SortKeys = []SortKey{SortYear, SortTotalJobs, SortAverageSalary}

func ParseSortKey(s string) (SortKey, error) {
	for _, k := range SortKeys {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSortKey, s)
}

type Direction string

const (
	Ascending  Direction = "ascending"
	Descending Direction = "descending"
)

type SortState struct {
	Key       SortKey   `json:"key"`
	Direction Direction `json:"direction"`
}

// DefaultSort is the state before any header has been chosen.
var DefaultSort = SortState{Key: SortYear, Direction: Ascending}

// Next returns the state after key is chosen: a repeat of an ascending key
// flips to descending, anything else starts ascending.
func (s SortState) Next(key SortKey) SortState {
	if s.Key == key && s.Direction == Ascending {
		return SortState{Key: key, Direction: Descending}
	}
	return SortState{Key: key, Direction: Ascending}
}

// Symbol is the header indicator for key under this state.
func (s SortState) Symbol(key SortKey) string {
	if s.Key != key {
		return ""
	}
	if s.Direction == Ascending {
		return "↑"
	}
	return "↓"
}
