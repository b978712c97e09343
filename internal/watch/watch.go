// Package watch reloads plot tables when their CSV files change on disk.
package watch

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"berkotech.co/plotgrid/internal/table"
)

// ReloadFunc receives the freshly loaded table for a plot.
type ReloadFunc func(name string, t *table.Table) error

// Watcher watches CSV files and calls a ReloadFunc for every plot bound to a
// changed file. Callbacks run on the goroutine calling Run, one at a time.
type Watcher struct {
	watcher  *fsnotify.Watcher
	onReload ReloadFunc
	logger   *log.Logger

	files map[string][]string // absolute path -> plot names
	dirs  map[string]bool
}

// New creates a watcher. Call Add for each plot, then Run.
func New(logger *log.Logger, fn ReloadFunc) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Watcher{
		watcher:  w,
		onReload: fn,
		logger:   logger,
		files:    make(map[string][]string),
		dirs:     make(map[string]bool),
	}, nil
}

// Add binds the plot called name to the file at path.
func (w *Watcher) Add(name, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	// Watch the directory: editors often replace the file on save.
	dir := filepath.Dir(abs)
	if !w.dirs[dir] {
		if err := w.watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch directory %s: %w", dir, err)
		}
		w.dirs[dir] = true
	}
	w.files[abs] = append(w.files[abs], name)
	return nil
}

// Close releases the underlying watcher. It is safe to call more than once and
// makes a pending or later Run return.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// Run handles file events until ctx is done, then closes the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.Close()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil {
				continue
			}
			if names, ok := w.files[abs]; ok {
				w.reload(abs, names)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("file watcher error", "err", err)

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (w *Watcher) reload(path string, names []string) {
	t, err := table.Load(path)
	if err != nil {
		w.logger.Warn("reload failed, keeping previous plot", "file", path, "err", err)
		return
	}
	for _, name := range names {
		if err := w.onReload(name, t); err != nil {
			w.logger.Warn("update failed", "plot", name, "err", err)
			continue
		}
		w.logger.Info("reloaded", "plot", name, "file", filepath.Base(path), "rows", t.Rows())
	}
}
