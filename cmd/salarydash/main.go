package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var Cmd = &cobra.Command{
	Use:   "salarydash",
	Short: "Salary-by-year dashboard over a job salary data API",
	Long: "salarydash fetches job salary records, aggregates them per year and " +
		"serves a sortable summary table, a jobs-per-year chart and a job title " +
		"drill-down.",
	SilenceUsage: true,
	RunE:         runServe,
}

var rootArgs struct {
	dataDir  string
	logLevel string
	pretty   bool
}

func main() {
	if err := Cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := Cmd.PersistentFlags()

	flags.StringVar(
		&rootArgs.dataDir,
		"data-dir",
		"",
		"Directory for config.yml and the snapshot database (default $SALARYDASH_DATA_DIR or .)",
	)
	flags.StringVar(
		&rootArgs.logLevel,
		"log-level",
		"",
		"Override app.log_level",
	)
	flags.BoolVar(
		&rootArgs.pretty,
		"pretty",
		false,
		"Human readable log output",
	)

	Cmd.AddCommand(serveCmd, reportCmd, titlesCmd, configCmd, tokenCmd)
}
