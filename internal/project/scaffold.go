// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package project

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ConfigFileName is the project config file paperbuild looks for.
const ConfigFileName = "paperbuild.yaml"

const configTemplate = `# paperbuild project configuration. Every key is optional; the defaults
# build a single-document project with figure sources in figures/.

figures:
  dirs: [figures]
  # pdf, eps, or auto. Auto follows the engine: EPS for plain latex,
  # PDF for the pdf engines.
  format: auto
  jobs: 1

tex:
  # Empty auto-detects a single .tex file at the project root.
  document: ""
  # pdflatex, xelatex, lualatex or latex. Empty picks the first
  # available in that order.
  engine: ""
  max_passes: 4

clean:
  # Extra glob patterns (relative to the project root) removed by clean.
  extra: []

watch:
  debounce: 300ms

journal:
  path: .paperbuild/journal.db
  disabled: false
`

const documentTemplate = `\documentclass{article}
\usepackage{graphicx}

\title{Untitled}
\author{}

\begin{document}
\maketitle

\end{document}
`

// Scaffold prepares a directory as a paper project: the figures
// directory, a starter config, and a minimal document when no .tex file
// exists yet. Existing files are kept untouched.
func Scaffold(root string, w io.Writer) error {
	figDir := filepath.Join(root, DefaultFiguresDir)
	if err := os.MkdirAll(figDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", figDir, err)
	}
	fmt.Fprintf(w, "created: %s/\n", DefaultFiguresDir)

	cfgPath := filepath.Join(root, ConfigFileName)
	created, err := writeIfAbsent(cfgPath, configTemplate)
	if err != nil {
		return err
	}
	if created {
		fmt.Fprintf(w, "created: %s\n", ConfigFileName)
	} else {
		fmt.Fprintf(w, "kept: %s (already exists)\n", ConfigFileName)
	}

	matches, err := filepath.Glob(filepath.Join(root, "*.tex"))
	if err != nil {
		return fmt.Errorf("scanning for .tex documents: %w", err)
	}
	if len(matches) == 0 {
		docPath := filepath.Join(root, "paper.tex")
		if _, err := writeIfAbsent(docPath, documentTemplate); err != nil {
			return err
		}
		fmt.Fprintf(w, "created: paper.tex\n")
	}

	return nil
}

// writeIfAbsent writes content to path unless the file already exists.
func writeIfAbsent(path, content string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("checking %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return false, fmt.Errorf("writing %s: %w", path, err)
	}
	return true, nil
}
