// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tex implements LaTeX engine detection, multi-pass document
// compilation and dependency scanning. See docs/ARCHITECTURE § Document
// Compilation.
package tex

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/pdiddy/paperbuild/pkg/types"
)

const (
	binPDFLatex = "pdflatex"
	binXeLatex  = "xelatex"
	binLuaLatex = "lualatex"
	binLatex    = "latex"
)

// Engine is a LaTeX compiler binary. The PDF engines (pdflatex, xelatex,
// lualatex) produce .pdf and include PDF figures; plain latex produces
// .dvi and needs EPS figures.
type Engine interface {
	// Name returns the compiler binary name.
	Name() string

	// Available reports whether the binary exists on PATH and responds
	// to a version probe.
	Available() bool

	// OutputExt is the extension of the document artifact, ".pdf" or
	// ".dvi".
	OutputExt() string

	// FigureFormat is the vector format this engine can include.
	FigureFormat() types.FigureFormat

	// Pass runs one compiler pass over document, a file name relative
	// to dir, and returns the combined compiler output. The compiler
	// runs with dir as its working directory so aux files land next to
	// the document.
	Pass(dir, document string) ([]byte, error)
}

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	RunSilent(name string, args ...string) error
	RunInDir(dir, name string, args ...string) ([]byte, error)
}

type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) RunSilent(name string, args ...string) error {
	return exec.Command(name, args...).Run()
}

func (o *osExecutor) RunInDir(dir, name string, args ...string) ([]byte, error) {
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	return cmd.CombinedOutput()
}

// engine implements Engine for one compiler binary.
type engine struct {
	bin  string
	ext  string
	figs types.FigureFormat
	exec executor
}

func (e *engine) Name() string { return e.bin }

func (e *engine) OutputExt() string { return e.ext }

func (e *engine) FigureFormat() types.FigureFormat { return e.figs }

func (e *engine) Available() bool {
	if _, err := e.exec.LookPath(e.bin); err != nil {
		return false
	}
	return e.exec.RunSilent(e.bin, "--version") == nil
}

func (e *engine) Pass(dir, document string) ([]byte, error) {
	args := []string{
		"-interaction=nonstopmode",
		"-halt-on-error",
		"-file-line-error",
		document,
	}
	return e.exec.RunInDir(dir, e.bin, args...)
}

// knownEngines lists supported compilers in detection order.
var knownEngines = []struct {
	bin  string
	ext  string
	figs types.FigureFormat
}{
	{binPDFLatex, ".pdf", types.FormatPDF},
	{binXeLatex, ".pdf", types.FormatPDF},
	{binLuaLatex, ".pdf", types.FormatPDF},
	{binLatex, ".dvi", types.FormatEPS},
}

func newEngine(bin string, exec executor) (*engine, bool) {
	for _, k := range knownEngines {
		if k.bin == bin {
			return &engine{bin: k.bin, ext: k.ext, figs: k.figs, exec: exec}, true
		}
	}
	return nil, false
}

var defaultExec = &osExecutor{}

// DetectEngine probes the known compilers in order and returns the first
// one that is operational.
func DetectEngine() (Engine, error) {
	return detectEngine(defaultExec)
}

func detectEngine(exec executor) (Engine, error) {
	names := make([]string, 0, len(knownEngines))
	for _, k := range knownEngines {
		e := &engine{bin: k.bin, ext: k.ext, figs: k.figs, exec: exec}
		if e.Available() {
			return e, nil
		}
		names = append(names, k.bin)
	}
	return nil, fmt.Errorf("no LaTeX engine available: tried %s", strings.Join(names, ", "))
}

// EngineByName returns the named compiler, probing that it is operational.
// Use this when the engine is pinned in configuration.
func EngineByName(name string) (Engine, error) {
	return engineByName(name, defaultExec)
}

func engineByName(name string, exec executor) (Engine, error) {
	e, ok := newEngine(name, exec)
	if !ok {
		return nil, fmt.Errorf("unknown LaTeX engine %q", name)
	}
	if !e.Available() {
		return nil, fmt.Errorf("LaTeX engine %s not found or operational", name)
	}
	return e, nil
}

// OutputExtFor returns the artifact extension for an engine name without
// probing PATH. An empty or unknown name falls back to the pdflatex
// defaults; status reporting uses this so it works on machines without a
// TeX installation.
func OutputExtFor(name string) string {
	for _, k := range knownEngines {
		if k.bin == name {
			return k.ext
		}
	}
	return ".pdf"
}

// FigureFormatFor returns the figure format for an engine name without
// probing PATH, with the same fallback as OutputExtFor.
func FigureFormatFor(name string) types.FigureFormat {
	for _, k := range knownEngines {
		if k.bin == name {
			return k.figs
		}
	}
	return types.FormatPDF
}
