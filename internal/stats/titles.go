package stats

import "salarydash/internal/domain"

// TitlesForYear counts job titles among the records of year, in the order
// titles first appear. The counts always add up to the number of records for
// that year; salary validity plays no part here.
func TitlesForYear(records []domain.Record, year int) []domain.TitleCount {
	idx := map[string]int{}
	var out []domain.TitleCount
	for _, r := range records {
		if r.Year != year {
			continue
		}
		if i, ok := idx[r.Title]; ok {
			out[i].Count++
			continue
		}
		idx[r.Title] = len(out)
		out = append(out, domain.TitleCount{Title: r.Title, Count: 1})
	}
	return out
}

// TotalJobs sums the job counts of the given summaries.
func TotalJobs(rows []domain.YearSummary) int {
	n := 0
	for _, r := range rows {
		n += r.TotalJobs
	}
	return n
}
