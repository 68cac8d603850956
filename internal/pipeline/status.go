// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"fmt"
	"io"
	"os"

	"github.com/pdiddy/paperbuild/internal/figures"
	"github.com/pdiddy/paperbuild/internal/project"
	"github.com/pdiddy/paperbuild/internal/staleness"
	"github.com/pdiddy/paperbuild/internal/tex"
	"github.com/pdiddy/paperbuild/pkg/types"
)

// ArtifactState describes one derived file for status reporting.
type ArtifactState struct {
	Path  string
	Stale bool
	// Reason explains staleness: "missing", "older than <input>", or
	// "figures pending" for a document waiting on figure renders.
	Reason string
}

// StatusReport lists the state of every artifact a build would produce.
type StatusReport struct {
	Figures  []ArtifactState
	Document ArtifactState
}

// StaleCount returns how many artifacts a build would regenerate.
func (r StatusReport) StaleCount() int {
	n := 0
	for _, f := range r.Figures {
		if f.Stale {
			n++
		}
	}
	if r.Document.Stale {
		n++
	}
	return n
}

// Status reports which artifacts a build would regenerate and why,
// without probing PATH or running any external tool. The figure format
// and artifact extension come from the configured engine name alone, so
// status works on machines with nothing installed.
func Status(proj *project.Project, w io.Writer) (StatusReport, error) {
	var report StatusReport

	figs, err := figures.Scan(proj.FigureDirs())
	if err != nil {
		return report, err
	}

	format := proj.Config.Figures.Format
	if format != types.FormatPDF && format != types.FormatEPS {
		format = tex.FigureFormatFor(proj.Config.Tex.Engine)
	}
	plan, err := figures.BuildPlan(figs, format)
	if err != nil {
		return report, err
	}

	figuresPending := false
	for _, conv := range plan {
		res, err := staleness.Check(conv.Target, []string{conv.Figure.Path})
		if err != nil {
			return report, err
		}
		state := ArtifactState{Path: conv.Target, Stale: res.Stale, Reason: res.Reason()}
		report.Figures = append(report.Figures, state)
		printState(w, state)
		if res.Stale {
			figuresPending = true
		}
	}

	artifact := tex.ArtifactPath(proj.Document, tex.OutputExtFor(proj.Config.Tex.Engine))
	inputs, err := tex.Dependencies(proj.Document)
	if err != nil {
		return report, err
	}
	for _, target := range figures.Targets(plan) {
		if _, err := os.Stat(target); err == nil {
			inputs = append(inputs, target)
		}
	}

	res, err := staleness.Check(artifact, inputs)
	if err != nil {
		return report, err
	}
	report.Document = ArtifactState{Path: artifact, Stale: res.Stale, Reason: res.Reason()}
	if !report.Document.Stale && figuresPending {
		report.Document.Stale = true
		report.Document.Reason = "figures pending"
	}
	printState(w, report.Document)

	if n := report.StaleCount(); n > 0 {
		fmt.Fprintf(w, "\n%d of %d artifacts stale\n", n, len(report.Figures)+1)
	} else {
		fmt.Fprintf(w, "\neverything up to date\n")
	}
	return report, nil
}

func printState(w io.Writer, s ArtifactState) {
	if s.Stale {
		fmt.Fprintf(w, "stale: %s (%s)\n", s.Path, s.Reason)
		return
	}
	fmt.Fprintf(w, "fresh: %s\n", s.Path)
}
