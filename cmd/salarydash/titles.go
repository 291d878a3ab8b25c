package main

import (
	"github.com/dustin/go-humanize"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"salarydash/internal/domain"
	"salarydash/internal/stats"
)

var titlesCmd = &cobra.Command{
	Use:   "titles",
	Short: "Print job title counts for one year",
	RunE:  runTitles,
}

var titlesArgs struct {
	year    int
	offline bool
}

func init() {
	flags := titlesCmd.Flags()
	flags.IntVar(&titlesArgs.year, "year", 0, "Work year to drill into")
	flags.BoolVar(&titlesArgs.offline, "offline", false, "Use the stored snapshot instead of the data API")
	_ = titlesCmd.MarkFlagRequired("year")
}

func runTitles(cmd *cobra.Command, _ []string) error {
	a, err := bootstrap()
	if err != nil {
		return err
	}
	recs, _, err := a.records(cmd.Context(), titlesArgs.offline)
	if err != nil {
		return err
	}

	titles := stats.TitlesForYear(recs, titlesArgs.year)
	pterm.DefaultSection.Printf("Job Titles for %d\n", titlesArgs.year)
	if len(titles) == 0 {
		pterm.Warning.Printf("no records for %d\n", titlesArgs.year)
		return nil
	}
	return pterm.DefaultTable.WithHasHeader().WithData(titlesTable(titles)).Render()
}

func titlesTable(titles []domain.TitleCount) pterm.TableData {
	data := pterm.TableData{{"Job Title", "No. Of Jobs"}}
	for _, t := range titles {
		data = append(data, []string{t.Title, humanize.Comma(int64(t.Count))})
	}
	return data
}
