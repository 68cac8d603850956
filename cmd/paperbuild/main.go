// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the paperbuild CLI.
// See docs/ARCHITECTURE § Pipeline Interface, § Project Structure.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paperbuild/internal/journal"
	"github.com/pdiddy/paperbuild/internal/project"
)

// version is set at build time via ldflags.
var version = "dev"

var verbose bool

// rootCmd is the base command for the paperbuild CLI. Bare `paperbuild`
// runs a build, like `make` with a default target.
var rootCmd = &cobra.Command{
	Use:   "paperbuild",
	Short: "Build LaTeX papers: render figures, compile, keep artifacts fresh",
	Long: `paperbuild drives a LaTeX paper project the way a Makefile would: vector
figure sources (.svg, .dia) are rendered through an external tool into the
format the typesetting engine consumes, and the document is compiled with
repeated passes until cross-references settle.

Artifacts are regenerated only when missing or older than the sources they
derive from, so repeated builds are cheap. Running paperbuild with no
subcommand is the same as 'paperbuild build'.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("loading .env: %w", err)
		}

		level := log.InfoLevel
		if verbose {
			level = log.DebugLevel
		}
		logger := log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		})
		cmd.SetContext(log.WithContext(cmd.Context(), logger))
		return nil
	},
	RunE: runBuild,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./paperbuild.yaml or ~/.config/paperbuild/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().Bool("force", false, "regenerate all artifacts regardless of staleness (build, watch)")
	rootCmd.PersistentFlags().Int("jobs", 0, "figures rendered concurrently (default: figures.jobs config)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("paperbuild")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "paperbuild"))
		}
	}

	project.SetDefaults(viper.GetViper())

	viper.SetEnvPrefix("PAPERBUILD")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadProject resolves the project in the current directory from the
// effective configuration.
func loadProject() (*project.Project, error) {
	root, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return project.Load(root, project.FromViper(viper.GetViper()))
}

// openJournal opens the project's build journal. It returns nil when
// journaling is disabled or the journal cannot be opened; a paper still
// builds without its history.
func openJournal(cmd *cobra.Command, proj *project.Project) *journal.Store {
	path := proj.JournalPath()
	if path == "" {
		return nil
	}
	store, err := journal.Open(path)
	if err != nil {
		log.FromContext(cmd.Context()).Warn("journal unavailable", "path", path, "error", err)
		return nil
	}
	return store
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
