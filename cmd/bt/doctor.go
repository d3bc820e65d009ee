package main

import (
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/backtime/internal/config"
	"github.com/Zuo-Peng/backtime/internal/record"
)

func doctorCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Self-check: verify config and database, show record counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, "=== Config ===")
			cfgPath := g.configPath
			if cfgPath == "" {
				cfgPath, _ = config.DefaultPath()
			}
			if _, err := os.Stat(cfgPath); err != nil {
				fmt.Fprintf(out, "  File: %s (NOT FOUND, using defaults)\n", cfgPath)
			} else {
				fmt.Fprintf(out, "  File: %s (OK)\n", cfgPath)
			}

			cfg, err := loadConfig(g)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "  Margin:   %s\n", cfg.Margin)
			fmt.Fprintf(out, "  Timezone: %s\n", cfg.Timezone)
			fmt.Fprintf(out, "  Chunk:    %d\n", cfg.ChunkSize)

			fmt.Fprintln(out, "\n=== Database ===")
			fmt.Fprintf(out, "  Path: %s\n", cfg.DBPath)
			if _, err := os.Stat(cfg.DBPath); os.IsNotExist(err) {
				fmt.Fprintln(out, "  Status: NOT FOUND (run 'bt import' first)")
				return nil
			}

			e, err := openEnv(g)
			if err != nil {
				return err
			}
			defer e.Close()

			var sqliteVersion string
			if err := e.ts.Raw().QueryRow("SELECT sqlite_version()").Scan(&sqliteVersion); err == nil {
				fmt.Fprintf(out, "  SQLite: %s\n", sqliteVersion)
			}

			counts, err := e.ts.CountByType()
			if err != nil {
				return fmt.Errorf("count records: %w", err)
			}
			types := make([]string, 0, len(counts))
			total := 0
			for t, n := range counts {
				types = append(types, string(t))
				total += n
			}
			slices.Sort(types)
			fmt.Fprintf(out, "  Records: %d\n", total)
			for _, t := range types {
				fmt.Fprintf(out, "    %-22s %d\n", t, counts[record.SourceType(t)])
			}

			if info, err := os.Stat(cfg.DBPath); err == nil {
				sizeMB := float64(info.Size()) / 1024 / 1024
				fmt.Fprintf(out, "\n=== DB Size: %.1f MB ===\n", sizeMB)
			}
			return nil
		},
	}
}
