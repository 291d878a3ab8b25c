package main

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"salarydash/internal/domain"
	"salarydash/internal/stats"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Fetch the dataset once and print the per-year summary",
	RunE:  runReport,
}

var reportArgs struct {
	sort    string
	desc    bool
	offline bool
}

func init() {
	flags := reportCmd.Flags()
	flags.StringVar(&reportArgs.sort, "sort", "", "Sort by year, totalJobs or averageSalary")
	flags.BoolVar(&reportArgs.desc, "desc", false, "Sort descending")
	flags.BoolVar(&reportArgs.offline, "offline", false, "Use the stored snapshot instead of the data API")
}

func runReport(cmd *cobra.Command, _ []string) error {
	a, err := bootstrap()
	if err != nil {
		return err
	}
	recs, from, err := a.records(cmd.Context(), reportArgs.offline)
	if err != nil {
		return err
	}

	rows := stats.Aggregate(recs)
	if reportArgs.sort != "" {
		key, err := domain.ParseSortKey(reportArgs.sort)
		if err != nil {
			return err
		}
		st := domain.SortState{Key: key, Direction: domain.Ascending}
		if reportArgs.desc {
			st.Direction = domain.Descending
		}
		rows = stats.Sorted(rows, st)
	}

	pterm.DefaultSection.Println("Main Table")
	if err := pterm.DefaultTable.WithHasHeader().WithData(summaryTable(rows)).Render(); err != nil {
		return err
	}
	pterm.Info.Printf("%s jobs with a salary across %d years (%s)\n",
		humanize.Comma(int64(stats.TotalJobs(rows))), len(rows), from)
	return nil
}

func summaryTable(rows []domain.YearSummary) pterm.TableData {
	data := pterm.TableData{{"Year", "Number of Jobs", "Average Salary (USD)"}}
	for _, r := range rows {
		data = append(data, []string{
			strconv.Itoa(r.Year),
			humanize.Comma(int64(r.TotalJobs)),
			formatSalary(r.AverageSalary),
		})
	}
	return data
}

// formatSalary renders a two-decimal average as "$123,456.78".
func formatSalary(avg string) string {
	v, err := strconv.ParseFloat(avg, 64)
	if err != nil {
		return avg
	}
	return fmt.Sprintf("$%s", humanize.FormatFloat("#,###.##", v))
}
