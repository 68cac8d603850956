// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pdiddy/paperbuild/internal/project"
	"github.com/pdiddy/paperbuild/pkg/types"
)

func watchTestEnv(t *testing.T) *project.Project {
	t.Helper()
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "figures"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "paper.tex"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := types.ProjectConfig{
		Figures: types.FiguresConfig{Dirs: []string{"figures"}},
	}
	p, err := project.Load(root, cfg)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

// eventually polls fn every tick until it returns true or timeout elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

func startWatch(t *testing.T, proj *project.Project, debounce time.Duration) (*atomic.Int32, context.CancelFunc, chan error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())

	var rebuilds atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, proj, debounce, func(context.Context) {
			rebuilds.Add(1)
		})
	}()

	// Give the watcher a moment to register its directories.
	time.Sleep(100 * time.Millisecond)
	return &rebuilds, cancel, done
}

func TestWatchRebuildsOnSourceChange(t *testing.T) {
	proj := watchTestEnv(t)
	rebuilds, cancel, done := startWatch(t, proj, 50*time.Millisecond)
	defer cancel()

	if err := os.WriteFile(filepath.Join(proj.Root, "figures", "net.svg"), []byte("<svg/>"), 0o644); err != nil {
		t.Fatal(err)
	}

	eventually(t, 5*time.Second, 20*time.Millisecond, func() bool {
		return rebuilds.Load() >= 1
	}, "figure change did not trigger a rebuild")

	cancel()
	if err := <-done; err != nil {
		t.Errorf("watch returned error: %v", err)
	}
}

func TestWatchSeesNestedDirectories(t *testing.T) {
	proj := watchTestEnv(t)
	if err := os.MkdirAll(filepath.Join(proj.Root, "sections"), 0o755); err != nil {
		t.Fatal(err)
	}
	rebuilds, cancel, done := startWatch(t, proj, 50*time.Millisecond)
	defer cancel()

	// Included sources below the root are watched too.
	if err := os.WriteFile(filepath.Join(proj.Root, "sections", "intro.tex"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	eventually(t, 5*time.Second, 20*time.Millisecond, func() bool {
		return rebuilds.Load() >= 1
	}, "nested source change did not trigger a rebuild")

	// A directory created while watching is registered on the fly.
	if err := os.MkdirAll(filepath.Join(proj.Root, "appendix"), 0o755); err != nil {
		t.Fatal(err)
	}
	time.Sleep(200 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(proj.Root, "appendix", "a.tex"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	eventually(t, 5*time.Second, 20*time.Millisecond, func() bool {
		return rebuilds.Load() >= 2
	}, "source in a new directory did not trigger a rebuild")

	cancel()
	<-done
}

func TestWatchCollapsesBursts(t *testing.T) {
	proj := watchTestEnv(t)
	rebuilds, cancel, done := startWatch(t, proj, 150*time.Millisecond)
	defer cancel()

	// A burst of writes well inside the debounce window.
	for _, name := range []string{"a.svg", "b.svg", "c.dia"} {
		if err := os.WriteFile(filepath.Join(proj.Root, "figures", name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	eventually(t, 5*time.Second, 20*time.Millisecond, func() bool {
		return rebuilds.Load() >= 1
	}, "burst did not trigger a rebuild")

	// Let any stray timers fire; the burst must still count as one.
	time.Sleep(400 * time.Millisecond)
	if n := rebuilds.Load(); n != 1 {
		t.Errorf("burst triggered %d rebuilds, want 1", n)
	}

	cancel()
	<-done
}

func TestWatchIgnoresDerivedArtifacts(t *testing.T) {
	proj := watchTestEnv(t)
	rebuilds, cancel, done := startWatch(t, proj, 50*time.Millisecond)
	defer cancel()

	for _, name := range []string{"paper.pdf", "paper.aux", "paper.log", filepath.Join("figures", "net.pdf")} {
		if err := os.WriteFile(filepath.Join(proj.Root, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	time.Sleep(300 * time.Millisecond)
	if n := rebuilds.Load(); n != 0 {
		t.Errorf("derived artifacts triggered %d rebuilds, want 0", n)
	}

	cancel()
	<-done
}

func TestWatchStopsOnCancel(t *testing.T) {
	proj := watchTestEnv(t)
	_, cancel, done := startWatch(t, proj, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("watch returned error on cancel: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Error("watch did not stop after cancel")
	}
}
