package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/backtime/internal/open"
)

func openCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "open <id>",
		Short: "Open a record's file in $EDITOR or its URL in the browser",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id: %s", args[0])
			}

			e, err := openEnv(g)
			if err != nil {
				return err
			}
			defer e.Close()

			rec, err := e.ts.Get(id)
			if err != nil {
				return fmt.Errorf("get record: %w", err)
			}
			if rec == nil {
				return fmt.Errorf("record not found: %d", id)
			}
			return open.Record(*rec)
		},
	}
}
