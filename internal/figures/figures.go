// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package figures implements discovery and batch rendering of vector
// figure sources into the formats LaTeX can include. See
// docs/ARCHITECTURE § Figure Conversion.
package figures

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/paperbuild/internal/render"
	"github.com/pdiddy/paperbuild/internal/staleness"
	"github.com/pdiddy/paperbuild/pkg/types"
)

// Toolset holds the renderers resolved for this build. A nil field means
// no figure of that source format was found, so no tool was detected.
type Toolset struct {
	SVG render.Renderer
	DIA render.Renderer
}

// For returns the renderer responsible for the given source format.
func (t Toolset) For(format types.SourceFormat) (render.Renderer, error) {
	switch format {
	case types.SourceSVG:
		if t.SVG == nil {
			return nil, fmt.Errorf("no renderer detected for %s sources", format)
		}
		return t.SVG, nil
	case types.SourceDIA:
		if t.DIA == nil {
			return nil, fmt.Errorf("no renderer detected for %s sources", format)
		}
		return t.DIA, nil
	}
	return nil, fmt.Errorf("unknown source format %q", format)
}

// BatchResult holds the outcome of a batch rendering run.
type BatchResult struct {
	Rendered int
	Fresh    int
	Failed   int
}

// Total returns the total number of figures processed.
func (r BatchResult) Total() int {
	return r.Rendered + r.Fresh + r.Failed
}

// HasFailures reports whether any figures failed to render.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Scan collects figure sources from the given directories. Each directory
// is read non-recursively; entries with .svg or .dia extensions become
// figures. A directory that does not exist contributes nothing, matching
// wildcard semantics. The result is sorted by path.
func Scan(dirs []string) ([]types.Figure, error) {
	var figs []types.Figure
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", dir, err)
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			var format types.SourceFormat
			switch strings.ToLower(filepath.Ext(e.Name())) {
			case ".svg":
				format = types.SourceSVG
			case ".dia":
				format = types.SourceDIA
			default:
				continue
			}
			figs = append(figs, types.Figure{
				Path:   filepath.Join(dir, e.Name()),
				Format: format,
			})
		}
	}
	sort.Slice(figs, func(i, j int) bool { return figs[i].Path < figs[j].Path })
	return figs, nil
}

// BuildPlan pairs each figure with its render target: the source path with
// the extension swapped for the output format. The format must already be
// resolved; auto is rejected here so the decision stays upstream.
func BuildPlan(figs []types.Figure, format types.FigureFormat) ([]types.Conversion, error) {
	if format != types.FormatPDF && format != types.FormatEPS {
		return nil, fmt.Errorf("unresolved figure format %q", format)
	}
	plan := make([]types.Conversion, len(figs))
	for i, f := range figs {
		target := strings.TrimSuffix(f.Path, filepath.Ext(f.Path)) + "." + string(format)
		plan[i] = types.Conversion{
			Figure: f,
			Target: target,
			Format: format,
		}
	}
	return plan, nil
}

// Targets returns the target paths of a plan, in plan order. The document
// build uses these as staleness inputs for the compiled PDF.
func Targets(plan []types.Conversion) []string {
	out := make([]string, len(plan))
	for i, c := range plan {
		out[i] = c.Target
	}
	return out
}

// ConvertOne renders a single figure if its target is stale, writing a
// status line to w. When force is set the staleness check is skipped. A
// failed render removes the partial target so the next run does not
// mistake it for a finished artifact.
func ConvertOne(tools Toolset, conv types.Conversion, force bool, w io.Writer) types.RenderStatus {
	if !force {
		res, err := staleness.Check(conv.Target, []string{conv.Figure.Path})
		if err != nil {
			fmt.Fprintf(w, "failed: %s (%v)\n", conv.Target, err)
			return types.RenderFailed
		}
		if !res.Stale {
			fmt.Fprintf(w, "fresh: %s (up to date)\n", conv.Target)
			return types.RenderFresh
		}
	}

	r, err := tools.For(conv.Figure.Format)
	if err != nil {
		fmt.Fprintf(w, "failed: %s (%v)\n", conv.Target, err)
		return types.RenderFailed
	}

	if err := r.Render(conv.Figure.Path, conv.Target, conv.Format); err != nil {
		os.Remove(conv.Target)
		fmt.Fprintf(w, "failed: %s (%v)\n", conv.Target, err)
		return types.RenderFailed
	}

	fmt.Fprintf(w, "rendered: %s\n", conv.Target)
	return types.RenderDone
}

// ConvertBatch renders a plan with at most jobs figures in flight,
// printing per-file status to w and returning a summary. Failures do not
// stop the batch; each figure is attempted once.
func ConvertBatch(tools Toolset, plan []types.Conversion, force bool, jobs int, w io.Writer) BatchResult {
	if jobs < 1 {
		jobs = 1
	}

	var (
		mu     sync.Mutex
		result BatchResult
	)
	lockedW := writerFunc(func(p []byte) (int, error) {
		mu.Lock()
		defer mu.Unlock()
		return w.Write(p)
	})

	var g errgroup.Group
	g.SetLimit(jobs)
	for _, conv := range plan {
		g.Go(func() error {
			status := ConvertOne(tools, conv, force, lockedW)
			mu.Lock()
			defer mu.Unlock()
			switch status {
			case types.RenderDone:
				result.Rendered++
			case types.RenderFresh:
				result.Fresh++
			case types.RenderFailed:
				result.Failed++
			}
			return nil
		})
	}
	g.Wait()

	fmt.Fprintf(w, "\nFigure summary: %d rendered, %d fresh, %d failed (total: %d)\n",
		result.Rendered, result.Fresh, result.Failed, result.Total())
	return result
}

// writerFunc adapts a function to io.Writer.
type writerFunc func(p []byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) { return f(p) }

// RemoveTargets deletes the rendered artifacts of a plan, ignoring files
// that are already gone. Used by clean.
func RemoveTargets(plan []types.Conversion, w io.Writer) error {
	for _, c := range plan {
		err := os.Remove(c.Target)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return fmt.Errorf("removing %s: %w", c.Target, err)
		}
		fmt.Fprintf(w, "removed: %s\n", c.Target)
	}
	return nil
}
