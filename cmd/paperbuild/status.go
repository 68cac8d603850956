// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paperbuild/internal/pipeline"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which artifacts a build would regenerate",
	Long: `Status walks the same staleness checks a build would, without running
any external tool, and reports each artifact as fresh or stale with the
reason. It exits 0 whether or not anything is stale.`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	proj, err := loadProject()
	if err != nil {
		return err
	}

	_, err = pipeline.Status(proj, os.Stdout)
	return err
}
