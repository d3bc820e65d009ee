package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/backtime/internal/ingest"
	"github.com/Zuo-Peng/backtime/internal/source"
)

func importCmd(g *globalFlags) *cobra.Command {
	kinds := make([]string, len(source.Kinds))
	for i, k := range source.Kinds {
		kinds[i] = string(k)
	}

	return &cobra.Command{
		Use:   "import <kind> <path>...",
		Short: "Import activity records into the timesheet",
		Long: `Read every path with the adapter for kind and store the records.

Kinds:
  folder   directory tree, one record per file
  firefox  places.sqlite
  chrome   History database
  iehv     IE History Viewer XML export
  mail     mail XML export
  opera    global_history.dat`,
		Args:      cobra.MinimumNArgs(2),
		ValidArgs: kinds,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := source.ParseKind(args[0])
			if err != nil {
				return fmt.Errorf("%w (want one of %s)", err, strings.Join(kinds, ", "))
			}

			e, err := openEnv(g)
			if err != nil {
				return err
			}
			defer e.Close()

			jobs := make([]ingest.Job, 0, len(args)-1)
			for _, path := range args[1:] {
				jobs = append(jobs, ingest.Job{Kind: kind, Handle: path})
			}

			all, err := ingest.RunAll(e.ts, jobs, e.sourceOptions())
			for i, stats := range all {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", jobs[i].Handle, stats)
			}
			if err != nil {
				return fmt.Errorf("import: %w", err)
			}
			return nil
		},
	}
}
