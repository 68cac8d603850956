// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdiddy/paperbuild/internal/figures"
	"github.com/pdiddy/paperbuild/internal/project"
	"github.com/pdiddy/paperbuild/pkg/types"
)

// auxExts are the typesetting byproducts clean removes alongside the
// document, for the document's base name.
var auxExts = []string{
	".aux", ".log", ".toc", ".lof", ".lot", ".out",
	".bbl", ".blg", ".fls", ".fdb_latexmk", ".synctex.gz",
}

// Clean removes every derived artifact: rendered figures in both formats,
// the compiled document in both artifact extensions, auxiliary
// typesetting files, and any configured extra globs. Both renditions go
// so switching engine routes leaves no strays. Sources are never touched
// and a second clean is a no-op. The journal survives clean; it is
// history, not a build product.
func Clean(ctx context.Context, proj *project.Project, rec Recorder, w io.Writer) error {
	start := time.Now()
	err := clean(proj, w)

	record := types.BuildRecord{
		StartedAt: start.UTC(),
		Duration:  time.Since(start),
		Command:   "clean",
		Document:  proj.Document,
		Outcome:   types.OutcomeOK,
	}
	if err != nil {
		record.Outcome = types.OutcomeFailed
		record.Error = err.Error()
	}
	writeRecord(ctx, rec, record)

	return err
}

func clean(proj *project.Project, w io.Writer) error {
	figs, err := figures.Scan(proj.FigureDirs())
	if err != nil {
		return err
	}

	for _, format := range []types.FigureFormat{types.FormatPDF, types.FormatEPS} {
		plan, err := figures.BuildPlan(figs, format)
		if err != nil {
			return err
		}
		if err := figures.RemoveTargets(plan, w); err != nil {
			return err
		}
	}

	base := strings.TrimSuffix(proj.Document, filepath.Ext(proj.Document))
	for _, ext := range append([]string{".pdf", ".dvi"}, auxExts...) {
		if err := removePath(base+ext, w); err != nil {
			return err
		}
	}

	for _, pattern := range proj.Config.Clean.Extra {
		if !filepath.IsAbs(pattern) {
			pattern = filepath.Join(proj.Root, pattern)
		}
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return fmt.Errorf("bad clean pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			if info, err := os.Stat(m); err == nil && info.IsDir() {
				continue
			}
			if err := removePath(m, w); err != nil {
				return err
			}
		}
	}

	return nil
}

// removePath deletes one file, ignoring files already gone.
func removePath(path string, w io.Writer) error {
	err := os.Remove(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("removing %s: %w", path, err)
	}
	fmt.Fprintf(w, "removed: %s\n", path)
	return nil
}
