// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package watch triggers rebuilds when project sources change. See
// docs/ARCHITECTURE § Watch Mode.
package watch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/pdiddy/paperbuild/internal/project"
)

// sourceExts are the extensions whose changes trigger a rebuild. Derived
// artifacts (.pdf, .eps, .aux, .log, ...) are deliberately absent so a
// build never retriggers itself.
var sourceExts = map[string]bool{
	".tex": true,
	".svg": true,
	".dia": true,
}

// Rebuilder runs one build in response to changed sources. It handles
// its own failures; watch keeps running either way.
type Rebuilder func(ctx context.Context)

// Watch monitors the project until ctx is cancelled, calling rebuild
// after a quiet window of debounce. Events in a burst (editor save, mass
// touch) collapse into one rebuild. Included sources can sit anywhere
// under the root, so the whole tree is watched, minus hidden directories
// (.git, .paperbuild). Directories created while watching are picked up.
func Watch(ctx context.Context, proj *project.Project, debounce time.Duration, rebuild Rebuilder) error {
	if debounce <= 0 {
		debounce = project.DefaultDebounce
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	logger := log.FromContext(ctx)

	for _, root := range append([]string{proj.Root}, proj.FigureDirs()...) {
		if err := addDirsRecursive(w, root); err != nil {
			logger.Warn("cannot watch directory", "dir", root, "error", err)
			continue
		}
		logger.Debug("watching", "dir", root)
	}

	var timer *time.Timer
	var timerCh <-chan time.Time

	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(debounce)
			timerCh = timer.C
			return
		}
		timer.Reset(debounce)
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("watch stopped")
			return nil

		case <-timerCh:
			rebuild(ctx)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&fsnotify.Create != 0 && !strings.HasPrefix(filepath.Base(ev.Name), ".") {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := addDirsRecursive(w, ev.Name); err != nil {
						logger.Warn("cannot watch new directory", "dir", ev.Name, "error", err)
					} else {
						logger.Debug("watching new dir", "dir", ev.Name)
					}
					continue
				}
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if !sourceExts[strings.ToLower(filepath.Ext(ev.Name))] {
				continue
			}
			logger.Debug("source changed", "path", ev.Name, "op", ev.Op.String())
			schedule()

		case werr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watch error", "error", werr)
		}
	}
}

// addDirsRecursive adds root and every subdirectory to the watcher.
// Hidden directories are skipped so .git and .paperbuild churn stays out
// of the event stream.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return w.Add(path)
	})
}
