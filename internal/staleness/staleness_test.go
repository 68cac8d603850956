// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package staleness

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// writeAt creates a file and pins its modification time.
func writeAt(t *testing.T, path string, mtime time.Time) {
	t.Helper()
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatal(err)
	}
}

func TestCheck(t *testing.T) {
	base := time.Now().Add(-1 * time.Hour).Truncate(time.Second)

	tests := []struct {
		name       string
		setup      func(t *testing.T, dir string) (target string, inputs []string)
		wantStale  bool
		wantReason string
	}{
		{
			name: "missing target is stale",
			setup: func(t *testing.T, dir string) (string, []string) {
				src := filepath.Join(dir, "fig.svg")
				writeAt(t, src, base)
				return filepath.Join(dir, "fig.pdf"), []string{src}
			},
			wantStale:  true,
			wantReason: "missing",
		},
		{
			name: "newer input makes target stale",
			setup: func(t *testing.T, dir string) (string, []string) {
				src := filepath.Join(dir, "fig.svg")
				dst := filepath.Join(dir, "fig.pdf")
				writeAt(t, dst, base)
				writeAt(t, src, base.Add(time.Minute))
				return dst, []string{src}
			},
			wantStale:  true,
			wantReason: "older than",
		},
		{
			name: "older input leaves target fresh",
			setup: func(t *testing.T, dir string) (string, []string) {
				src := filepath.Join(dir, "fig.svg")
				dst := filepath.Join(dir, "fig.pdf")
				writeAt(t, src, base)
				writeAt(t, dst, base.Add(time.Minute))
				return dst, []string{src}
			},
		},
		{
			name: "equal mtimes count as fresh",
			setup: func(t *testing.T, dir string) (string, []string) {
				src := filepath.Join(dir, "fig.svg")
				dst := filepath.Join(dir, "fig.pdf")
				writeAt(t, src, base)
				writeAt(t, dst, base)
				return dst, []string{src}
			},
		},
		{
			name: "any one newer input suffices",
			setup: func(t *testing.T, dir string) (string, []string) {
				a := filepath.Join(dir, "a.tex")
				b := filepath.Join(dir, "b.tex")
				dst := filepath.Join(dir, "paper.pdf")
				writeAt(t, a, base.Add(-time.Minute))
				writeAt(t, dst, base)
				writeAt(t, b, base.Add(time.Minute))
				return dst, []string{a, b}
			},
			wantStale:  true,
			wantReason: "older than",
		},
		{
			name: "no inputs means fresh once built",
			setup: func(t *testing.T, dir string) (string, []string) {
				dst := filepath.Join(dir, "paper.pdf")
				writeAt(t, dst, base)
				return dst, nil
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			target, inputs := tt.setup(t, dir)

			res, err := Check(target, inputs)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.Stale != tt.wantStale {
				t.Errorf("Stale = %v, want %v", res.Stale, tt.wantStale)
			}
			if tt.wantReason == "" && res.Reason() != "" {
				t.Errorf("Reason() = %q, want empty", res.Reason())
			}
			if tt.wantReason != "" && !strings.HasPrefix(res.Reason(), tt.wantReason) {
				t.Errorf("Reason() = %q, want prefix %q", res.Reason(), tt.wantReason)
			}
		})
	}
}

func TestCheckMissingInput(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "fig.pdf")
	writeAt(t, dst, time.Now().Add(-time.Hour))

	_, err := Check(dst, []string{filepath.Join(dir, "gone.svg")})
	if err == nil {
		t.Fatal("expected error for missing input, got nil")
	}
	if !strings.Contains(err.Error(), "gone.svg") {
		t.Errorf("error should name the missing input, got: %v", err)
	}
}

func TestCheckNewerInputReported(t *testing.T) {
	dir := t.TempDir()
	base := time.Now().Add(-1 * time.Hour).Truncate(time.Second)

	src := filepath.Join(dir, "fig.dia")
	dst := filepath.Join(dir, "fig.eps")
	writeAt(t, dst, base)
	writeAt(t, src, base.Add(time.Minute))

	res, err := Check(dst, []string{src})
	if err != nil {
		t.Fatal(err)
	}
	if res.NewerInput != src {
		t.Errorf("NewerInput = %q, want %q", res.NewerInput, src)
	}
}
