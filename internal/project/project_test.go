// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package project

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paperbuild/pkg/types"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func TestDefaultsAndFromViper(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	cfg := FromViper(v)

	assert.Equal(t, []string{DefaultFiguresDir}, cfg.Figures.Dirs)
	assert.Equal(t, types.FormatAuto, cfg.Figures.Format)
	assert.Equal(t, DefaultJobs, cfg.Figures.Jobs)
	assert.Empty(t, cfg.Tex.Document)
	assert.Empty(t, cfg.Tex.Engine)
	assert.Equal(t, DefaultMaxPasses, cfg.Tex.MaxPasses)
	assert.Equal(t, DefaultDebounce, cfg.Watch.Debounce)
	assert.Equal(t, ".paperbuild/journal.db", cfg.Journal.Path)
	assert.False(t, cfg.Journal.Disabled)
}

func TestFromViperOverrides(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("figures.format", "eps")
	v.Set("figures.jobs", 8)
	v.Set("tex.engine", "xelatex")
	v.Set("tex.max_passes", 6)
	v.Set("watch.debounce", "1s")
	v.Set("clean.extra", []string{"*.bbl"})

	cfg := FromViper(v)
	assert.Equal(t, types.FormatEPS, cfg.Figures.Format)
	assert.Equal(t, 8, cfg.Figures.Jobs)
	assert.Equal(t, "xelatex", cfg.Tex.Engine)
	assert.Equal(t, 6, cfg.Tex.MaxPasses)
	assert.Equal(t, time.Second, cfg.Watch.Debounce)
	assert.Equal(t, []string{"*.bbl"}, cfg.Clean.Extra)
}

func TestLoadConfiguredDocument(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "thesis.tex"))
	touch(t, filepath.Join(root, "notes.tex"))

	cfg := types.ProjectConfig{Tex: types.TexConfig{Document: "thesis.tex"}}
	p, err := Load(root, cfg)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "thesis.tex"), p.Document)
}

func TestLoadAutoDetectsSingleDocument(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "paper.tex"))

	p, err := Load(root, types.ProjectConfig{})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "paper.tex"), p.Document)
}

func TestLoadErrors(t *testing.T) {
	t.Run("no document", func(t *testing.T) {
		_, err := Load(t.TempDir(), types.ProjectConfig{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no .tex document")
	})

	t.Run("multiple documents", func(t *testing.T) {
		root := t.TempDir()
		touch(t, filepath.Join(root, "a.tex"))
		touch(t, filepath.Join(root, "b.tex"))

		_, err := Load(root, types.ProjectConfig{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "multiple .tex documents")
		assert.Contains(t, err.Error(), "a.tex, b.tex")
	})

	t.Run("configured document missing", func(t *testing.T) {
		cfg := types.ProjectConfig{Tex: types.TexConfig{Document: "gone.tex"}}
		_, err := Load(t.TempDir(), cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "gone.tex")
	})
}

func TestFigureDirs(t *testing.T) {
	p := &Project{
		Root: filepath.Join("some", "root"),
		Config: types.ProjectConfig{
			Figures: types.FiguresConfig{Dirs: []string{"figures", "diagrams"}},
		},
	}
	assert.Equal(t, []string{
		filepath.Join("some", "root", "figures"),
		filepath.Join("some", "root", "diagrams"),
	}, p.FigureDirs())
}

func TestJournalPath(t *testing.T) {
	p := &Project{Root: "/proj", Config: types.ProjectConfig{
		Journal: types.JournalConfig{Path: ".paperbuild/journal.db"},
	}}
	assert.Equal(t, filepath.Join("/proj", ".paperbuild", "journal.db"), p.JournalPath())

	p.Config.Journal.Disabled = true
	assert.Empty(t, p.JournalPath())

	p.Config.Journal.Disabled = false
	p.Config.Journal.Path = ""
	assert.Equal(t, filepath.Join("/proj", ".paperbuild", "journal.db"), p.JournalPath())
}

func TestScaffold(t *testing.T) {
	root := t.TempDir()

	var out bytes.Buffer
	require.NoError(t, Scaffold(root, &out))

	info, err := os.Stat(filepath.Join(root, DefaultFiguresDir))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	cfgData, err := os.ReadFile(filepath.Join(root, ConfigFileName))
	require.NoError(t, err)
	assert.Contains(t, string(cfgData), "figures:")

	_, err = os.Stat(filepath.Join(root, "paper.tex"))
	require.NoError(t, err)

	assert.Contains(t, out.String(), "created: "+ConfigFileName)

	// The scaffolded config must parse and load.
	v := viper.New()
	SetDefaults(v)
	v.SetConfigFile(filepath.Join(root, ConfigFileName))
	require.NoError(t, v.ReadInConfig())
	cfg := FromViper(v)
	_, err = Load(root, cfg)
	require.NoError(t, err)
}

func TestScaffoldKeepsExistingFiles(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ConfigFileName), []byte("tex:\n  engine: xelatex\n"), 0o644))
	touch(t, filepath.Join(root, "existing.tex"))

	var out bytes.Buffer
	require.NoError(t, Scaffold(root, &out))

	data, err := os.ReadFile(filepath.Join(root, ConfigFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "xelatex", "existing config must not be overwritten")

	_, err = os.Stat(filepath.Join(root, "paper.tex"))
	assert.True(t, os.IsNotExist(err), "no starter document when a .tex already exists")

	assert.Contains(t, out.String(), "kept: "+ConfigFileName)
}
