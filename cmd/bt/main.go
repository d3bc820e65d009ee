package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var g globalFlags

	rootCmd := &cobra.Command{
		Use:           "bt",
		Short:         "Backtime - rebuild a timesheet from files, browser history and mail",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&g.configPath, "config", "", "Config file (default ~/.config/backtime/config.toml)")
	rootCmd.PersistentFlags().StringVar(&g.dbPath, "db", "", "Timesheet database (overrides db_path)")
	rootCmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "debug, info, warn or error (overrides log_level)")

	rootCmd.AddCommand(importCmd(&g))
	rootCmd.AddCommand(sessionsCmd(&g))
	rootCmd.AddCommand(browseCmd(&g))
	rootCmd.AddCommand(exportCmd(&g))
	rootCmd.AddCommand(resetCmd(&g))
	rootCmd.AddCommand(openCmd(&g))
	rootCmd.AddCommand(doctorCmd(&g))

	return rootCmd
}
