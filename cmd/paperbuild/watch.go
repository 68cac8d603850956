// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/pdiddy/paperbuild/internal/pipeline"
	"github.com/pdiddy/paperbuild/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rebuild whenever a source file changes",
	Long: `Watch builds once, then monitors the project for changes to .tex, .svg
and .dia sources and rebuilds after a short quiet window. Build failures
are reported and watching continues. Stop with Ctrl-C.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
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

	var rec pipeline.Recorder
	if store := openJournal(cmd, proj); store != nil {
		defer store.Close()
		rec = store
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	logger := log.FromContext(ctx)

	rebuild := func(ctx context.Context, opts pipeline.Options) {
		if _, err := pipeline.Build(ctx, proj, tools, opts, rec, os.Stdout); err != nil {
			logger.Error("build failed", "error", err)
		}
	}

	// Initial build honors --force; watch-driven rebuilds rely on
	// staleness alone.
	rebuild(ctx, pipeline.Options{Force: force, Jobs: jobs})
	logger.Info("watching for changes", "root", proj.Root)

	return watch.Watch(ctx, proj, proj.Config.Watch.Debounce, func(ctx context.Context) {
		rebuild(ctx, pipeline.Options{Jobs: jobs})
	})
}
