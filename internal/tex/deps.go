// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tex

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// inputPattern matches \input{...} and \include{...} directives.
var inputPattern = regexp.MustCompile(`\\(?:input|include)\{([^}]+)\}`)

// graphicsPattern matches \includegraphics{...}, with or without options.
var graphicsPattern = regexp.MustCompile(`\\includegraphics(?:\[[^\]]*\])?\{([^}]+)\}`)

// graphicsExts are the extensions graphicx resolves when the directive
// omits one, in the order we try them.
var graphicsExts = []string{".pdf", ".eps", ".png", ".jpg", ".jpeg"}

// Dependencies returns every source file a document build reads: docPath
// itself, the files it transitively pulls in via \input and \include, and
// the graphics files it references that exist on disk. Paths resolve
// against the document's directory, matching how TeX resolves them when
// run there. Referenced files that do not exist are skipped; the compiler
// reports those itself. The result is sorted and duplicate-free.
func Dependencies(docPath string) ([]string, error) {
	root := filepath.Dir(docPath)
	seen := make(map[string]bool)
	var deps []string

	var walk func(path string) error
	walk = func(path string) error {
		if seen[path] {
			return nil
		}
		seen[path] = true

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		deps = append(deps, path)

		for _, line := range strings.Split(string(data), "\n") {
			line = stripComment(line)
			for _, m := range inputPattern.FindAllStringSubmatch(line, -1) {
				if p, ok := resolveInput(root, m[1]); ok {
					if err := walk(p); err != nil {
						return err
					}
				}
			}
			for _, m := range graphicsPattern.FindAllStringSubmatch(line, -1) {
				if p, ok := resolveGraphics(root, m[1]); ok && !seen[p] {
					seen[p] = true
					deps = append(deps, p)
				}
			}
		}
		return nil
	}

	if err := walk(docPath); err != nil {
		return nil, err
	}
	sort.Strings(deps)
	return deps, nil
}

// stripComment cuts a line at the first unescaped %.
func stripComment(line string) string {
	for i := 0; i < len(line); i++ {
		if line[i] == '%' && (i == 0 || line[i-1] != '\\') {
			return line[:i]
		}
	}
	return line
}

// resolveInput maps an \input reference to an existing file. TeX appends
// .tex when the reference has no extension, so that candidate is tried
// first.
func resolveInput(root, ref string) (string, bool) {
	p := ref
	if !filepath.IsAbs(p) {
		p = filepath.Join(root, p)
	}
	candidates := []string{p}
	if filepath.Ext(p) == "" {
		candidates = []string{p + ".tex", p}
	}
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c, true
		}
	}
	return "", false
}

// resolveGraphics maps an \includegraphics reference to an existing file,
// trying the graphicx extension list when the reference has none.
func resolveGraphics(root, ref string) (string, bool) {
	p := ref
	if !filepath.IsAbs(p) {
		p = filepath.Join(root, p)
	}
	if filepath.Ext(p) != "" {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, true
		}
		return "", false
	}
	for _, ext := range graphicsExts {
		if info, err := os.Stat(p + ext); err == nil && !info.IsDir() {
			return p + ext, true
		}
	}
	return "", false
}
