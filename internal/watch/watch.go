// Package watch rebuilds the docs when files under the schema directory change.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ziadkadry99/concrete-docs/internal/logging"
)

// DefaultDebounce is how long the watcher waits for events to settle.
const DefaultDebounce = 200 * time.Millisecond

// Options configures a Watcher.
type Options struct {
	Dir      string
	Debounce time.Duration
	// SkipDirs are left unwatched, typically the output directory.
	SkipDirs []string
	Logger   *slog.Logger
}

// ChangeFunc is called once per settled batch of changes with the sorted,
// de-duplicated paths that changed.
type ChangeFunc func(ctx context.Context, paths []string) error

// Watcher watches a directory tree for changes.
type Watcher struct {
	fsw      *fsnotify.Watcher
	root     string
	debounce time.Duration
	skip     map[string]bool
	logger   *slog.Logger
}

// New registers watches on opts.Dir and every directory below it, except
// hidden directories and opts.SkipDirs.
func New(opts Options) (*Watcher, error) {
	root, err := filepath.Abs(opts.Dir)
	if err != nil {
		return nil, fmt.Errorf("resolving watch dir: %w", err)
	}

	w := &Watcher{
		root:     root,
		debounce: opts.Debounce,
		skip:     make(map[string]bool, len(opts.SkipDirs)),
		logger:   logging.OrDiscard(opts.Logger),
	}
	if w.debounce <= 0 {
		w.debounce = DefaultDebounce
	}
	for _, d := range opts.SkipDirs {
		if abs, err := filepath.Abs(d); err == nil {
			w.skip[abs] = true
		}
	}

	w.fsw, err = fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := w.addTree(root); err != nil {
		_ = w.fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", root, err)
	}
	return w, nil
}

// Run delivers batches of changes to fn until ctx is cancelled. Errors from
// fn are logged and do not stop the watcher. Run closes the watcher on return.
func (w *Watcher) Run(ctx context.Context, fn ChangeFunc) error {
	defer func() { _ = w.fsw.Close() }()

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := make(map[string]struct{})

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			if event.Has(fsnotify.Create) {
				// New directories need their own watch.
				if err := w.addTree(event.Name); err != nil {
					w.logger.Debug("not watching new path", "path", event.Name, "error", err)
				}
			}
			pending[event.Name] = struct{}{}
			timer.Reset(w.debounce)

		case <-timer.C:
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			sort.Strings(paths)
			clear(pending)

			w.logger.Info("change detected", "files", len(paths), "first", w.rel(paths[0]))
			if err := fn(ctx, paths); err != nil {
				w.logger.Error("rebuild failed", "error", err)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", "error", err)
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	for dir := range w.skip {
		if event.Name == dir || strings.HasPrefix(event.Name, dir+string(filepath.Separator)) {
			return false
		}
	}
	return !isHidden(filepath.Base(event.Name))
}

// addTree watches dir and its subdirectories. Non-directories are ignored.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root && (isHidden(d.Name()) || w.skip[path]) {
			return filepath.SkipDir
		}
		return w.fsw.Add(path)
	})
}

func (w *Watcher) rel(path string) string {
	if rel, err := filepath.Rel(w.root, path); err == nil {
		return filepath.ToSlash(rel)
	}
	return path
}

func isHidden(name string) bool {
	return len(name) > 1 && name[0] == '.'
}
