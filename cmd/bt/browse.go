package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/backtime/internal/tui"
)

func browseCmd(g *globalFlags) *cobra.Command {
	var filters filterFlags
	var margin time.Duration

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse sessions interactively",
		Long:  `Opens a TUI with the sessions on the left and their records on the right. Type to filter by name or path; Enter copies the session summary.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(g)
			if err != nil {
				return err
			}
			defer e.Close()

			engine, err := engineFor(cmd, e, margin)
			if err != nil {
				return err
			}
			return tui.Run(e.ts, engine, filters.options(e.location))
		},
	}

	filters.register(cmd)
	cmd.Flags().DurationVar(&margin, "margin", 0, "Largest gap inside one session (default from config, 1h)")
	return cmd
}
