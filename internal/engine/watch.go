package engine

import (
	"context"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long a watcher waits for writes to settle.
const DefaultDebounce = 200 * time.Millisecond

// Watcher reports files that change under a set of roots. Directories
// created later are watched too.
type Watcher struct {
	fs       *fsnotify.Watcher
	exts     map[string]bool
	explicit map[string]bool
	ignore   []string
	debounce time.Duration
	logger   *slog.Logger
}

// NewWatcher watches roots for files with the configured extensions.
func (e *Engine) NewWatcher(roots []string) (*Watcher, error) {
	return NewWatcher(roots, e.settings.Extensions, e.settings.Ignore, e.logger)
}

// NewWatcher starts watching roots. Watches are in place when it returns,
// so no change made afterwards is missed. Release the watcher with Run or
// Close.
func NewWatcher(roots, extensions, ignore []string, logger *slog.Logger) (*Watcher, error) {
	if len(roots) == 0 {
		roots = []string{"."}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		fs:       fw,
		exts:     extensionSet(extensions),
		explicit: make(map[string]bool),
		ignore:   ignore,
		debounce: DefaultDebounce,
		logger:   logger,
	}
	for _, root := range roots {
		if err := w.add(root); err != nil {
			_ = fw.Close()
			return nil, err
		}
	}
	return w, nil
}

func (w *Watcher) add(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		w.explicit[filepath.Clean(root)] = true
		return w.fs.Add(filepath.Dir(root))
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root {
			rel, _ := filepath.Rel(root, path)
			if Ignored(filepath.ToSlash(rel), d.Name(), w.ignore) {
				return filepath.SkipDir
			}
		}
		return w.fs.Add(path)
	})
}

func (w *Watcher) wanted(path string) bool {
	return w.explicit[filepath.Clean(path)] || hasExtension(path, w.exts)
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fs.Close()
}

// Run calls onChange with the sorted paths written or created since the last
// call, once no event has arrived for the debounce interval. It returns nil
// when ctx is done, and closes the watcher.
func (w *Watcher) Run(ctx context.Context, onChange func(paths []string)) error {
	defer func() { _ = w.fs.Close() }()

	pending := make(map[string]bool)
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
				if ev.Has(fsnotify.Create) && !Ignored(info.Name(), info.Name(), w.ignore) {
					if err := w.add(ev.Name); err != nil {
						w.logger.Warn("cannot watch directory", slog.String("path", ev.Name), slog.String("error", err.Error()))
					}
				}
				continue
			}
			if !w.wanted(ev.Name) {
				continue
			}
			pending[ev.Name] = true
			timer.Reset(w.debounce)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", slog.String("error", err.Error()))

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			paths := slices.Sorted(maps.Keys(pending))
			clear(pending)
			w.logger.Debug("files changed", slog.Int("count", len(paths)))
			onChange(paths)
		}
	}
}
