// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render implements figure renderer detection and execution.
// Renderers shell out to external vector-graphics tools; see
// docs/ARCHITECTURE § Figure Conversion.
package render

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"

	"github.com/pdiddy/paperbuild/pkg/types"
)

const (
	binInkscape = "inkscape"
	binRSVG     = "rsvg-convert"
	binDIA      = "dia"
)

// Renderer converts one vector source file into a PDF or EPS artifact.
type Renderer interface {
	// Name returns the tool name ("inkscape", "rsvg-convert" or "dia").
	Name() string

	// Available reports whether the tool binary exists on PATH and
	// responds to a version probe.
	Available() bool

	// Render converts src into dst in the given format (pdf or eps).
	// dst is written by the tool itself; on failure the caller must not
	// trust dst's contents.
	Render(src, dst string, format types.FigureFormat) error
}

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	RunSilent(name string, args ...string) error
	Run(name string, args ...string) error
}

// osExecutor is the production executor backed by os/exec. Run captures
// the tool's stderr and folds it into the returned error so a rendering
// failure is diagnosable from the error alone.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) RunSilent(name string, args ...string) error {
	return exec.Command(name, args...).Run()
}

func (o *osExecutor) Run(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%w: %s", err, msg)
		}
		return err
	}
	return nil
}

// renderer implements Renderer for a specific tool binary. The tools all
// follow the same lifecycle (probe, then run with source and target paths);
// they differ only in binary name and argument shape.
type renderer struct {
	bin  string
	args func(src, dst string, format types.FigureFormat) []string
	exec executor
}

func (r *renderer) Name() string { return r.bin }

func (r *renderer) Available() bool {
	if _, err := r.exec.LookPath(r.bin); err != nil {
		return false
	}
	return r.exec.RunSilent(r.bin, "--version") == nil
}

func (r *renderer) Render(src, dst string, format types.FigureFormat) error {
	if format != types.FormatPDF && format != types.FormatEPS {
		return fmt.Errorf("unsupported render format %q", format)
	}
	if err := r.exec.Run(r.bin, r.args(src, dst, format)...); err != nil {
		return fmt.Errorf("rendering %s with %s: %w", src, r.bin, err)
	}
	return nil
}

func newInkscapeRenderer(exec executor) *renderer {
	return &renderer{
		bin: binInkscape,
		args: func(src, dst string, format types.FigureFormat) []string {
			return []string{
				"--export-type=" + string(format),
				"--export-filename=" + dst,
				src,
			}
		},
		exec: exec,
	}
}

func newRSVGRenderer(exec executor) *renderer {
	return &renderer{
		bin: binRSVG,
		args: func(src, dst string, format types.FigureFormat) []string {
			return []string{"-f", string(format), "-o", dst, src}
		},
		exec: exec,
	}
}

func newDIARenderer(exec executor) *renderer {
	return &renderer{
		bin: binDIA,
		args: func(src, dst string, format types.FigureFormat) []string {
			return []string{"-t", string(format), "-e", dst, src}
		},
		exec: exec,
	}
}

var defaultExec = &osExecutor{}

// DetectSVG tries inkscape first, falls back to rsvg-convert. Returns an
// error if neither tool is available.
func DetectSVG() (Renderer, error) {
	return detectSVG(defaultExec)
}

func detectSVG(exec executor) (Renderer, error) {
	inkscape := newInkscapeRenderer(exec)
	if inkscape.Available() {
		return inkscape, nil
	}

	rsvg := newRSVGRenderer(exec)
	if rsvg.Available() {
		return rsvg, nil
	}

	return nil, fmt.Errorf(
		"no SVG renderer available: neither %s nor %s found or operational",
		binInkscape, binRSVG,
	)
}

// DetectDIA returns the dia renderer. There is no fallback tool for .dia
// sources, so an error here means those figures cannot be built.
func DetectDIA() (Renderer, error) {
	return detectDIA(defaultExec)
}

func detectDIA(exec executor) (Renderer, error) {
	dia := newDIARenderer(exec)
	if dia.Available() {
		return dia, nil
	}
	return nil, fmt.Errorf("no DIA renderer available: %s not found or operational", binDIA)
}
