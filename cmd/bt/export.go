package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/backtime/internal/export"
	"github.com/Zuo-Peng/backtime/internal/record"
)

func exportCmd(g *globalFlags) *cobra.Command {
	var header bool

	cmd := &cobra.Command{
		Use:   "export [FILE]",
		Short: "Write every record as CSV (stdout when no file)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(g)
			if err != nil {
				return err
			}
			defer e.Close()

			rows, err := e.ts.ToTable()
			if err != nil {
				return fmt.Errorf("read timesheet: %w", err)
			}
			n := len(rows)
			if header {
				rows = append([][]string{record.Columns}, rows...)
			}

			if len(args) == 0 {
				return export.WriteCSV(cmd.OutOrStdout(), rows)
			}
			if err := export.WriteFile(args[0], rows); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d records to %s\n", n, args[0])
			return nil
		},
	}

	cmd.Flags().BoolVar(&header, "header", false, "Start with a row of column names")
	return cmd
}
