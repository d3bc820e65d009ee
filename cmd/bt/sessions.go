package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Zuo-Peng/backtime/internal/export"
	"github.com/Zuo-Peng/backtime/internal/render"
	"github.com/Zuo-Peng/backtime/internal/search"
	"github.com/Zuo-Peng/backtime/internal/session"
)

// filterFlags are shared by sessions and browse.
type filterFlags struct {
	typ, since, until, query string
	limit                    int
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.typ, "type", "", "Only records of this type or source kind (e.g. chrome, File)")
	cmd.Flags().StringVar(&f.since, "since", "", "Only records created on or after date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.until, "until", "", "Only records created on or before date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.query, "query", "", "Only records whose name or path contains text")
	cmd.Flags().IntVar(&f.limit, "limit", 0, "Max records (0 = no limit)")
}

func (f *filterFlags) options(loc *time.Location) search.Options {
	return search.Options{
		Query:    f.query,
		Type:     f.typ,
		Since:    f.since,
		Until:    f.until,
		Limit:    f.limit,
		Location: loc,
	}
}

// engineFor uses the --margin flag when it was set, else the configured margin.
func engineFor(cmd *cobra.Command, e *env, margin time.Duration) (*session.Engine, error) {
	if cmd.Flags().Changed("margin") {
		if margin < 0 {
			return nil, fmt.Errorf("--margin must not be negative, got %s", margin)
		}
		return session.NewEngine(margin), nil
	}
	m, err := e.cfg.MarginDuration()
	if err != nil {
		return nil, err
	}
	return session.NewEngine(m), nil
}

func sessionsCmd(g *globalFlags) *cobra.Command {
	var filters filterFlags
	var margin time.Duration
	var csvPath string
	var detail, plain bool

	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Summarize the timeline as sessions of activity",
		Long: `Group records into sessions (neighbours no more than --margin apart) and
print one sentence per session, e.g.

  20 minutes starting from Saturday, 01 Mar 2014 at 09:00am`,
		Args: cobra.NoArgs,
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
			recs, err := search.Search(e.ts, filters.options(e.location))
			if err != nil {
				return err
			}
			sessions := engine.Sessions(recs)
			e.logger.Debug("grouped records", "records", len(recs), "sessions", len(sessions), "margin", engine.Margin)

			if csvPath != "" {
				if err := export.WriteFile(csvPath, session.SummaryTable(sessions)); err != nil {
					return fmt.Errorf("write csv: %w", err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d sessions to %s\n", len(sessions), csvPath)
			}

			out := cmd.OutOrStdout()
			if detail {
				isTTY := term.IsTerminal(int(os.Stdout.Fd()))
				width := 0
				if isTTY {
					if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
						width = w
					}
				}
				fmt.Fprint(out, render.Sessions(sessions, render.Options{
					Width: width,
					Plain: plain || !isTTY,
					Query: filters.query,
				}))
				return nil
			}
			for _, line := range session.Summarize(sessions) {
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}

	filters.register(cmd)
	cmd.Flags().DurationVar(&margin, "margin", 0, "Largest gap inside one session (default from config, 1h)")
	cmd.Flags().StringVar(&csvPath, "csv", "", "Also write the summary table to this CSV file")
	cmd.Flags().BoolVar(&detail, "detail", false, "Print every record under its session")
	cmd.Flags().BoolVar(&plain, "plain", false, "No colour in --detail output")

	return cmd
}
