// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paperbuild/internal/journal"
	"github.com/pdiddy/paperbuild/internal/project"
	"github.com/pdiddy/paperbuild/pkg/types"
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show the build journal",
	Long: `Log lists recorded runs from the project's build journal, newest first.
The journal records every build and clean with timing, figure counts,
compiler passes and outcome.`,
	RunE: runLog,
}

func init() {
	logCmd.Flags().Int("limit", 20, "number of runs to show")
	logCmd.Flags().String("format", "text", "output format: text, yaml, or json")

	rootCmd.AddCommand(logCmd)
}

func runLog(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	format, _ := cmd.Flags().GetString("format")

	root, err := os.Getwd()
	if err != nil {
		return err
	}
	// The journal path needs no resolved document, so a directory without
	// a .tex file can still show its history.
	proj := &project.Project{Root: root, Config: project.FromViper(viper.GetViper())}

	path := proj.JournalPath()
	if path == "" {
		fmt.Println("journal is disabled (journal.disabled)")
		return nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Println("no builds recorded yet")
		return nil
	}

	store, err := journal.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	switch format {
	case "yaml":
		return store.ExportYAML(ctx, os.Stdout, limit)
	case "json":
		return store.ExportJSON(ctx, os.Stdout, limit)
	case "text":
		records, err := store.Recent(ctx, limit)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Println("no builds recorded yet")
			return nil
		}
		for _, r := range records {
			fmt.Println(formatRecord(r))
		}
		return nil
	default:
		return fmt.Errorf("unknown format %q: want text, yaml, or json", format)
	}
}

func formatRecord(r types.BuildRecord) string {
	ts := r.StartedAt.Local().Format("2006-01-02 15:04:05")
	dur := r.Duration.Round(10 * time.Millisecond)

	detail := r.Artifact
	switch {
	case r.Outcome == types.OutcomeFailed:
		detail = r.Error
	case r.Command == "build":
		detail = fmt.Sprintf("%s (%d passes, %d rendered, %d fresh)",
			r.Artifact, r.Passes, r.FiguresRendered, r.FiguresFresh)
	case r.Command == "clean":
		detail = ""
	}

	return fmt.Sprintf("%s  %-6s %-7s %8s  %s", ts, r.Command, r.Outcome, dur, detail)
}
