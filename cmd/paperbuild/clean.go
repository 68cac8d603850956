// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paperbuild/internal/pipeline"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove every derived artifact",
	Long: `Clean deletes rendered figures, the compiled document, and auxiliary
typesetting files (.aux, .log, .toc and friends), plus any extra globs
from clean.extra in the config. Sources are never touched; running clean
twice is a no-op. The build journal is kept.`,
	RunE: runClean,
}

func init() {
	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) error {
	proj, err := loadProject()
	if err != nil {
		return err
	}

	var rec pipeline.Recorder
	if store := openJournal(cmd, proj); store != nil {
		defer store.Close()
		rec = store
	}

	return pipeline.Clean(cmd.Context(), proj, rec, os.Stdout)
}
