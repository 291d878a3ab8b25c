package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"salarydash/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the user config file",
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check config.yml (with environment overrides) for errors and warnings",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := bootstrapPaths()
		if err != nil {
			return err
		}
		cfg, err := config.Load(a.cfgPath)
		if err != nil {
			return err
		}
		if err := config.OverlayEnv(&cfg, os.Getenv); err != nil {
			return err
		}
		_, vr := config.NormalizeAndValidate(cfg)
		for _, w := range vr.Warnings {
			pterm.Warning.Println(w)
		}
		for _, e := range vr.Errors {
			pterm.Error.Println(e)
		}
		if !vr.OK() {
			return fmt.Errorf("%s: %d error(s)", a.cfgPath, len(vr.Errors))
		}
		pterm.Success.Printf("%s is valid\n", a.cfgPath)
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := bootstrapPaths()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), a.cfgPath)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configValidateCmd, configPathCmd)
}

// bootstrapPaths is bootstrap without loading the config, so a broken file
// can still be inspected.
func bootstrapPaths() (*app, error) {
	dataDir := rootArgs.dataDir
	if dataDir == "" {
		dataDir = config.DataDirFromEnv(".")
	}
	cfgPath, err := config.EnsureUserConfig(dataDir, filepath.Join("config", config.FileName))
	if err != nil {
		return nil, err
	}
	return &app{dataDir: dataDir, cfgPath: cfgPath}, nil
}
