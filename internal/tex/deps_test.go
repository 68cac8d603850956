// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tex

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDependencies(t *testing.T) {
	dir := t.TempDir()

	writeFile(t, filepath.Join(dir, "main.tex"), `\documentclass{article}
\input{sections/intro}
\include{appendix}
% \input{ghost}
\begin{document}
\includegraphics[width=\linewidth]{figures/net}
\input{missing-section}
\end{document}
`)
	writeFile(t, filepath.Join(dir, "sections", "intro.tex"), `Intro text.
\input{main} % cycle back to the root
\includegraphics{figures/arch.eps}
`)
	writeFile(t, filepath.Join(dir, "appendix.tex"), "Appendix.\n")
	writeFile(t, filepath.Join(dir, "figures", "net.pdf"), "%PDF")
	writeFile(t, filepath.Join(dir, "figures", "arch.eps"), "%!PS")
	writeFile(t, filepath.Join(dir, "ghost.tex"), "should not appear\n")

	deps, err := Dependencies(filepath.Join(dir, "main.tex"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{
		filepath.Join(dir, "appendix.tex"),
		filepath.Join(dir, "figures", "arch.eps"),
		filepath.Join(dir, "figures", "net.pdf"),
		filepath.Join(dir, "main.tex"),
		filepath.Join(dir, "sections", "intro.tex"),
	}
	if strings.Join(deps, "\n") != strings.Join(want, "\n") {
		t.Errorf("deps:\n%s\nwant:\n%s", strings.Join(deps, "\n"), strings.Join(want, "\n"))
	}
}

func TestDependenciesMissingRoot(t *testing.T) {
	_, err := Dependencies(filepath.Join(t.TempDir(), "absent.tex"))
	if err == nil {
		t.Fatal("expected error for a missing document, got nil")
	}
}

func TestDependenciesExplicitExtension(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "main.tex"), `\input{preamble.tex}
\includegraphics{figures/plot.png}
`)
	writeFile(t, filepath.Join(dir, "preamble.tex"), "\\usepackage{graphicx}\n")
	writeFile(t, filepath.Join(dir, "figures", "plot.png"), "png")

	deps, err := Dependencies(filepath.Join(dir, "main.tex"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	joined := strings.Join(deps, "\n")
	if !strings.Contains(joined, "preamble.tex") {
		t.Errorf("missing preamble.tex in %v", deps)
	}
	if !strings.Contains(joined, filepath.Join("figures", "plot.png")) {
		t.Errorf("missing figures/plot.png in %v", deps)
	}
}

func TestStripComment(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`\input{a} % trailing comment`, `\input{a} `},
		{`% whole line`, ``},
		{`100\% sure \input{real}`, `100\% sure \input{real}`},
		{`no comment here`, `no comment here`},
	}
	for _, tt := range tests {
		if got := stripComment(tt.in); got != tt.want {
			t.Errorf("stripComment(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
