// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package project loads paper project configuration and resolves the
// document and figure locations a build operates on. See
// docs/ARCHITECTURE § Project Configuration.
package project

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/paperbuild/internal/journal"
	"github.com/pdiddy/paperbuild/pkg/types"
)

// Defaults applied when the config file and environment say nothing.
const (
	DefaultFiguresDir = "figures"
	DefaultJobs       = 1
	DefaultMaxPasses  = 4
	DefaultDebounce   = 300 * time.Millisecond
)

// SetDefaults registers configuration defaults on a viper instance. A
// bare directory with a single .tex file builds with nothing but these.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("figures.dirs", []string{DefaultFiguresDir})
	v.SetDefault("figures.format", string(types.FormatAuto))
	v.SetDefault("figures.jobs", DefaultJobs)
	v.SetDefault("tex.document", "")
	v.SetDefault("tex.engine", "")
	v.SetDefault("tex.max_passes", DefaultMaxPasses)
	v.SetDefault("clean.extra", []string{})
	v.SetDefault("watch.debounce", DefaultDebounce)
	v.SetDefault("journal.path", journal.DefaultPath)
	v.SetDefault("journal.disabled", false)
}

// FromViper reads the full project configuration out of a viper instance.
// Values are read key by key so environment overrides (PAPERBUILD_*)
// apply without struct unmarshaling.
func FromViper(v *viper.Viper) types.ProjectConfig {
	return types.ProjectConfig{
		Figures: types.FiguresConfig{
			Dirs:   v.GetStringSlice("figures.dirs"),
			Format: types.FigureFormat(v.GetString("figures.format")),
			Jobs:   v.GetInt("figures.jobs"),
		},
		Tex: types.TexConfig{
			Document:  v.GetString("tex.document"),
			Engine:    v.GetString("tex.engine"),
			MaxPasses: v.GetInt("tex.max_passes"),
		},
		Clean: types.CleanConfig{
			Extra: v.GetStringSlice("clean.extra"),
		},
		Watch: types.WatchConfig{
			Debounce: v.GetDuration("watch.debounce"),
		},
		Journal: types.JournalConfig{
			Path:     v.GetString("journal.path"),
			Disabled: v.GetBool("journal.disabled"),
		},
	}
}

// Project is a resolved paper project: a root directory, its effective
// configuration, and the main document within it.
type Project struct {
	Root     string
	Config   types.ProjectConfig
	Document string
}

// Load resolves a project rooted at root. The main document comes from
// tex.document when set; otherwise it is auto-detected when exactly one
// .tex file sits at the project root.
func Load(root string, cfg types.ProjectConfig) (*Project, error) {
	doc, err := resolveDocument(root, cfg.Tex.Document)
	if err != nil {
		return nil, err
	}
	return &Project{Root: root, Config: cfg, Document: doc}, nil
}

func resolveDocument(root, configured string) (string, error) {
	if configured != "" {
		doc := configured
		if !filepath.IsAbs(doc) {
			doc = filepath.Join(root, doc)
		}
		info, err := os.Stat(doc)
		if err != nil {
			return "", fmt.Errorf("document %s: %w", configured, err)
		}
		if info.IsDir() {
			return "", fmt.Errorf("document %s is a directory", configured)
		}
		return doc, nil
	}

	matches, err := filepath.Glob(filepath.Join(root, "*.tex"))
	if err != nil {
		return "", fmt.Errorf("scanning for .tex documents: %w", err)
	}
	sort.Strings(matches)

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no .tex document found in %s; set tex.document", root)
	case 1:
		return matches[0], nil
	default:
		names := make([]string, len(matches))
		for i, m := range matches {
			names[i] = filepath.Base(m)
		}
		return "", fmt.Errorf("multiple .tex documents in %s (%s); set tex.document",
			root, strings.Join(names, ", "))
	}
}

// FigureDirs returns the configured figure directories resolved against
// the project root.
func (p *Project) FigureDirs() []string {
	dirs := make([]string, len(p.Config.Figures.Dirs))
	for i, d := range p.Config.Figures.Dirs {
		if filepath.IsAbs(d) {
			dirs[i] = d
			continue
		}
		dirs[i] = filepath.Join(p.Root, d)
	}
	return dirs
}

// JournalPath returns the journal database path resolved against the
// project root, or "" when journaling is disabled.
func (p *Project) JournalPath() string {
	if p.Config.Journal.Disabled {
		return ""
	}
	path := p.Config.Journal.Path
	if path == "" {
		path = journal.DefaultPath
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(p.Root, path)
	}
	return path
}
