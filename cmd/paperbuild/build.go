// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/pdiddy/paperbuild/internal/pipeline"
)

var buildCmd = &cobra.Command{
	Use:     "build",
	Aliases: []string{"all"},
	Short:   "Render stale figures and compile the document",
	Long: `Build renders every figure source whose target is missing or older than
the source, then compiles the document when its output is missing or older
than anything it reads (the .tex sources, included files, and rendered
figures). Fresh artifacts are left alone.

SVG sources render through inkscape, falling back to rsvg-convert; .dia
sources require dia. The engine is pdflatex unless configured otherwise,
falling back through xelatex, lualatex and latex. Plain latex builds take
the EPS figure route and produce a .dvi.`,
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")
	jobs, _ := cmd.Flags().GetInt("jobs")

	proj, err := loadProject()
	if err != nil {
		return err
	}

	tools, err := pipeline.DetectTools(proj)
	if err != nil {
		return err
	}
	log.FromContext(cmd.Context()).Debug("tools resolved",
		"engine", tools.Engine.Name(), "document", proj.Document)

	var rec pipeline.Recorder
	if store := openJournal(cmd, proj); store != nil {
		defer store.Close()
		rec = store
	}

	opts := pipeline.Options{Force: force, Jobs: jobs}
	_, err = pipeline.Build(cmd.Context(), proj, tools, opts, rec, os.Stdout)
	return err
}
