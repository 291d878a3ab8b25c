// Package stats holds the pure computations behind the dashboard: the per-year
// summary, column sorting and the per-title drill-down.
package stats

import (
	"math"
	"strconv"
	"strings"

	"salarydash/internal/domain"
)

// ParseSalary reports the salary of a record and whether it counts towards
// the aggregate. The whole trimmed string must be a number; only finite
// values strictly above zero count.
func ParseSalary(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, v > 0
}

// FormatAverage renders an average with exactly two decimals.
func FormatAverage(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// Aggregate groups records by year and returns one summary per year in the
// order the years first appear. Records with an invalid or non-positive salary
// are left out of both the count and the average; a year made only of such
// records still gets a zero row.
func Aggregate(records []domain.Record) []domain.YearSummary {
	type acc struct {
		n   int
		sum float64
	}
	var order []int
	groups := map[int]*acc{}

	for _, r := range records {
		g, ok := groups[r.Year]
		if !ok {
			g = &acc{}
			groups[r.Year] = g
			order = append(order, r.Year)
		}
		if v, ok := ParseSalary(r.Salary); ok {
			g.n++
			g.sum += v
		}
	}

	out := make([]domain.YearSummary, 0, len(order))
	for _, y := range order {
		g := groups[y]
		avg := 0.0
		if g.n > 0 {
			avg = g.sum / float64(g.n)
		}
		out = append(out, domain.YearSummary{
			Year:          y,
			TotalJobs:     g.n,
			AverageSalary: FormatAverage(avg),
		})
	}
	return out
}
