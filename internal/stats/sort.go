package stats

import (
	"cmp"
	"slices"
	"strconv"

	"salarydash/internal/domain"
)

// SortBy applies a header choice to the displayed rows. It returns a new
// slice ordered by key in the direction that prev.Next(key) yields, together
// with that new state. rows is not modified. Ties keep their relative order.
func SortBy(rows []domain.YearSummary, key domain.SortKey, prev domain.SortState) ([]domain.YearSummary, domain.SortState) {
	next := prev.Next(key)
	return Sorted(rows, next), next
}

// Sorted returns a stably sorted copy of rows for state.
func Sorted(rows []domain.YearSummary, state domain.SortState) []domain.YearSummary {
	out := slices.Clone(rows)
	slices.SortStableFunc(out, func(a, b domain.YearSummary) int {
		c := compareBy(state.Key, a, b)
		if state.Direction == domain.Descending {
			return -c
		}
		return c
	})
	return out
}

func compareBy(key domain.SortKey, a, b domain.YearSummary) int {
	switch key {
	case domain.SortTotalJobs:
		return cmp.Compare(a.TotalJobs, b.TotalJobs)
	case domain.SortAverageSalary:
		return cmp.Compare(parseAverage(a.AverageSalary), parseAverage(b.AverageSalary))
	default:
		return cmp.Compare(a.Year, b.Year)
	}
}

// parseAverage re-reads a formatted average. Unparseable values sort first.
func parseAverage(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
