// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline orchestrates a paper build: stale figures are rendered
// first, then the document is compiled when anything it reads changed.
// See docs/ARCHITECTURE § Build Pipeline.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/pdiddy/paperbuild/internal/figures"
	"github.com/pdiddy/paperbuild/internal/project"
	"github.com/pdiddy/paperbuild/internal/render"
	"github.com/pdiddy/paperbuild/internal/staleness"
	"github.com/pdiddy/paperbuild/internal/tex"
	"github.com/pdiddy/paperbuild/pkg/types"
)

// Tools bundles the external programs a build shells out to.
type Tools struct {
	Figures figures.Toolset
	Engine  tex.Engine
}

// Options adjusts a single build run.
type Options struct {
	// Force regenerates every artifact regardless of staleness.
	Force bool
	// Jobs overrides the configured figure render concurrency when > 0.
	Jobs int
}

// Recorder persists build records. *journal.Store satisfies it; a nil
// Recorder disables journaling.
type Recorder interface {
	Record(ctx context.Context, rec types.BuildRecord) (types.BuildRecord, error)
}

// Result summarizes a finished build.
type Result struct {
	Figures  figures.BatchResult
	Compiled bool
	Passes   int
	Artifact string
}

// DetectTools resolves the engine and the renderers the project's figure
// sources need. Renderers are probed only for source kinds actually
// present, so a project without .dia figures builds without dia
// installed.
func DetectTools(proj *project.Project) (Tools, error) {
	var tools Tools

	var err error
	if proj.Config.Tex.Engine != "" {
		tools.Engine, err = tex.EngineByName(proj.Config.Tex.Engine)
	} else {
		tools.Engine, err = tex.DetectEngine()
	}
	if err != nil {
		return Tools{}, err
	}

	figs, err := figures.Scan(proj.FigureDirs())
	if err != nil {
		return Tools{}, err
	}
	for _, f := range figs {
		switch f.Format {
		case types.SourceSVG:
			if tools.Figures.SVG == nil {
				if tools.Figures.SVG, err = render.DetectSVG(); err != nil {
					return Tools{}, err
				}
			}
		case types.SourceDIA:
			if tools.Figures.DIA == nil {
				if tools.Figures.DIA, err = render.DetectDIA(); err != nil {
					return Tools{}, err
				}
			}
		}
	}

	return tools, nil
}

// Build renders stale figures and compiles the document when stale. The
// run is journaled through rec, success or failure; journal write errors
// are logged, never fatal.
func Build(ctx context.Context, proj *project.Project, tools Tools, opts Options, rec Recorder, w io.Writer) (Result, error) {
	start := time.Now()
	res, err := build(proj, tools, opts, w)

	record := types.BuildRecord{
		StartedAt:       start.UTC(),
		Duration:        time.Since(start),
		Command:         "build",
		Document:        proj.Document,
		Artifact:        res.Artifact,
		Engine:          tools.Engine.Name(),
		Passes:          res.Passes,
		FiguresRendered: res.Figures.Rendered,
		FiguresFresh:    res.Figures.Fresh,
		FiguresFailed:   res.Figures.Failed,
		Outcome:         types.OutcomeOK,
	}
	if err != nil {
		record.Outcome = types.OutcomeFailed
		record.Error = err.Error()
	}
	writeRecord(ctx, rec, record)

	return res, err
}

func build(proj *project.Project, tools Tools, opts Options, w io.Writer) (Result, error) {
	var res Result

	figs, err := figures.Scan(proj.FigureDirs())
	if err != nil {
		return res, err
	}

	format := resolveFormat(proj.Config.Figures.Format, tools.Engine)
	plan, err := figures.BuildPlan(figs, format)
	if err != nil {
		return res, err
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = proj.Config.Figures.Jobs
	}

	if len(plan) > 0 {
		res.Figures = figures.ConvertBatch(tools.Figures, plan, opts.Force, jobs, w)
		if res.Figures.HasFailures() {
			return res, fmt.Errorf("%d of %d figures failed to render",
				res.Figures.Failed, res.Figures.Total())
		}
	}

	artifact := tex.ArtifactPath(proj.Document, tools.Engine.OutputExt())
	res.Artifact = artifact

	if !opts.Force {
		stale, err := documentStale(proj.Document, artifact, plan)
		if err != nil {
			return res, err
		}
		if !stale {
			fmt.Fprintf(w, "fresh: %s (up to date)\n", artifact)
			return res, nil
		}
	}

	cres, err := tex.Compile(tools.Engine, proj.Document, proj.Config.Tex.MaxPasses, w)
	if err != nil {
		return res, err
	}
	res.Compiled = true
	res.Passes = cres.Passes
	res.Artifact = cres.Artifact

	fmt.Fprintf(w, "built: %s (%d passes)\n", cres.Artifact, cres.Passes)
	return res, nil
}

// documentStale reports whether the compiled document must be rebuilt:
// the artifact is missing, or something it reads is newer. The inputs are
// the document with its transitive includes and graphics, plus every
// planned figure target. Figure targets all exist by the time this runs;
// the figure stage precedes it.
func documentStale(doc, artifact string, plan []types.Conversion) (bool, error) {
	inputs, err := tex.Dependencies(doc)
	if err != nil {
		return false, err
	}
	inputs = append(inputs, figures.Targets(plan)...)

	res, err := staleness.Check(artifact, inputs)
	if err != nil {
		return false, err
	}
	return res.Stale, nil
}

// resolveFormat picks the rendered figure format: an explicit config
// choice wins; auto follows the engine route.
func resolveFormat(cfg types.FigureFormat, engine tex.Engine) types.FigureFormat {
	if cfg == types.FormatPDF || cfg == types.FormatEPS {
		return cfg
	}
	return engine.FigureFormat()
}

// writeRecord journals a run if a recorder is configured. Failures are
// warnings; the build outcome stands regardless.
func writeRecord(ctx context.Context, rec Recorder, record types.BuildRecord) {
	if rec == nil {
		return
	}
	if _, err := rec.Record(ctx, record); err != nil {
		log.FromContext(ctx).Warn("journal write failed", "error", err)
	}
}
