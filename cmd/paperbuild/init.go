// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paperbuild/internal/project"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Scaffold a paper project in the current directory",
	Long: `Init creates the figures directory and a starter paperbuild.yaml, plus
a minimal paper.tex when the directory has no .tex file yet. Existing
files are never overwritten.`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	root, err := os.Getwd()
	if err != nil {
		return err
	}
	return project.Scaffold(root, os.Stdout)
}
