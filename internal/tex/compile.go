// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tex

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

const (
	// minPasses is the compilation floor. The first pass writes the aux
	// files, the second resolves cross-references against them, so a
	// correct document always takes at least two.
	minPasses = 2

	// defaultMaxPasses bounds rerun-driven passes when the config does
	// not say otherwise.
	defaultMaxPasses = 4

	// tailLines is how much compiler output a failure carries.
	tailLines = 20
)

// rerunMarkers are the phrases LaTeX prints when another pass is needed:
// label changes, hyperref outlines, longtable width settling.
var rerunMarkers = [][]byte{
	[]byte("Rerun to get"),
	[]byte("Rerun LaTeX"),
}

// CompileResult reports a finished compilation.
type CompileResult struct {
	// Passes is how many compiler passes ran.
	Passes int
	// Artifact is the path of the produced document.
	Artifact string
}

// ArtifactPath returns the compiled document path for a .tex source and
// an artifact extension such as ".pdf".
func ArtifactPath(docPath, outputExt string) string {
	return strings.TrimSuffix(docPath, filepath.Ext(docPath)) + outputExt
}

// Compile runs the engine over the document at docPath until
// cross-references settle: at least minPasses passes, then further passes
// while the compiler output requests a rerun, capped at maxPasses. The
// compiler runs in the document's directory. Per-pass status goes to w.
//
// On compiler failure the error carries the tail of the pass output, so
// the offending line (via -file-line-error) is visible without opening
// the log.
func Compile(e Engine, docPath string, maxPasses int, w io.Writer) (CompileResult, error) {
	if maxPasses <= 0 {
		maxPasses = defaultMaxPasses
	}
	if maxPasses < minPasses {
		maxPasses = minPasses
	}

	dir := filepath.Dir(docPath)
	document := filepath.Base(docPath)

	var out []byte
	passes := 0
	for pass := 1; pass <= maxPasses; pass++ {
		fmt.Fprintf(w, "pass %d: %s %s\n", pass, e.Name(), document)
		var err error
		out, err = e.Pass(dir, document)
		if err != nil {
			return CompileResult{}, fmt.Errorf("%s pass %d on %s: %w\n%s",
				e.Name(), pass, document, err, logTail(out, tailLines))
		}
		passes = pass
		if pass >= minPasses && !needsRerun(out) {
			break
		}
	}

	if needsRerun(out) {
		fmt.Fprintf(w, "note: %s still requests a rerun after %d passes\n", e.Name(), passes)
	}

	return CompileResult{
		Passes:   passes,
		Artifact: ArtifactPath(docPath, e.OutputExt()),
	}, nil
}

// needsRerun reports whether the compiler output asks for another pass.
func needsRerun(out []byte) bool {
	for _, m := range rerunMarkers {
		if bytes.Contains(out, m) {
			return true
		}
	}
	return false
}

// logTail returns the last n lines of compiler output.
func logTail(out []byte, n int) string {
	trimmed := strings.TrimRight(string(out), "\n")
	if trimmed == "" {
		return ""
	}
	lines := strings.Split(trimmed, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
