package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func resetCmd(g *globalFlags) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every record from the timesheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("reset deletes every record; pass --yes to confirm")
			}
			e, err := openEnv(g)
			if err != nil {
				return err
			}
			defer e.Close()

			n, err := e.ts.Count()
			if err != nil {
				return err
			}
			if err := e.ts.Reset(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Deleted %d records from %s\n", n, e.cfg.DBPath)
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm deleting every record")
	return cmd
}
