package engine

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounce is how long the watcher waits for edits to settle.
var debounce = 100 * time.Millisecond

// WatchFunc receives the result of every run in watch mode.
// A run that fails (for example a file vanished mid-read) reports err.
type WatchFunc func(summary *Summary, err error)

// Watch analyzes paths, then re-analyzes whenever a .sql file below them
// is written, created, removed or renamed. Unchanged files are served from
// the previous run. Watch blocks until ctx is cancelled.
func (e *Engine) Watch(ctx context.Context, paths []string, fn WatchFunc) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	for _, p := range paths {
		if err := watchPath(watcher, p); err != nil {
			return err
		}
	}

	e.rerun(ctx, paths, fn)

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := watchPath(watcher, event.Name); err != nil {
						e.logger.Warn("failed to watch new directory", "dir", event.Name, "error", err)
					}
					continue
				}
			}
			if !isSQLFile(event.Name) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			e.logger.Debug("file changed", "file", event.Name, "op", event.Op.String())

			// Debounce
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			e.rerun(ctx, paths, fn)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			e.logger.Error("watcher error", "error", err)
		}
	}
}

func (e *Engine) rerun(ctx context.Context, paths []string, fn WatchFunc) {
	files, err := e.Discover(paths)
	if errors.Is(err, ErrNoFiles) {
		e.prune(nil)
		fn(Summarize(nil), nil)
		return
	}
	if err != nil {
		fn(nil, err)
		return
	}
	e.prune(files)
	summary, err := e.AnalyzeFiles(ctx, files)
	if ctx.Err() != nil {
		return
	}
	fn(summary, err)
}

// watchPath watches a directory tree, or the directory holding a file.
func watchPath(watcher *fsnotify.Watcher, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}
	if !info.IsDir() {
		return watcher.Add(filepath.Dir(path))
	}
	return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != path && skipDir(d.Name()) {
			return filepath.SkipDir
		}
		return watcher.Add(p)
	})
}
