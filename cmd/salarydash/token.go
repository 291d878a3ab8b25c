package main

import (
	"bufio"
	"errors"
	"os"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"salarydash/internal/secrets"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage the data API bearer token in the OS keyring",
}

var tokenSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Store a token read from stdin under source.keyring_account",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return errors.New("no token on stdin")
		}
		if err := secrets.SetAPIToken(a.cfg.Source.KeyringAccount, strings.TrimSpace(line)); err != nil {
			return err
		}
		pterm.Success.Printf("token stored for %q\n", a.cfg.Source.KeyringAccount)
		return nil
	},
}

var tokenDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Remove the stored token",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}
		if err := secrets.DeleteAPIToken(a.cfg.Source.KeyringAccount); err != nil {
			return err
		}
		pterm.Success.Printf("token removed for %q\n", a.cfg.Source.KeyringAccount)
		return nil
	},
}

func init() {
	tokenCmd.AddCommand(tokenSetCmd, tokenDeleteCmd)
}
