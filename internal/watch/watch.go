// Package watch re-strips listed files whenever they change on disk.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Handler is called with the listed name of a file that changed.
type Handler func(name string)

// Watcher watches one directory for changes to a fixed set of file names.
type Watcher struct {
	dir      string
	names    []string
	listed   map[string]struct{}
	debounce time.Duration
	logger   *slog.Logger
}

// New creates a Watcher for names inside dir.
func New(dir string, names []string, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve dir: %w", err)
	}

	listed := make(map[string]struct{}, len(names))
	for _, n := range names {
		listed[filepath.Clean(n)] = struct{}{}
	}

	return &Watcher{
		dir:      abs,
		names:    names,
		listed:   listed,
		debounce: debounce,
		logger:   logger,
	}, nil
}

// Match maps an fsnotify event to a listed name. Only creates and writes of
// listed files inside the watched directory match.
func (w *Watcher) Match(ev fsnotify.Event) (string, bool) {
	if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		return "", false
	}

	abs, err := filepath.Abs(ev.Name)
	if err != nil {
		return "", false
	}
	rel, err := filepath.Rel(w.dir, abs)
	if err != nil {
		return "", false
	}
	if _, ok := w.listed[rel]; !ok {
		return "", false
	}
	return rel, true
}

// Run blocks until ctx is cancelled, calling fn for every listed file that
// was created or written. Bursts of events are collapsed: fn runs once per
// file after the directory has been quiet for the debounce interval, in list
// order.
func (w *Watcher) Run(ctx context.Context, fn Handler) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer fw.Close()

	// Listed names may live in subdirectories.
	dirs := map[string]struct{}{w.dir: {}}
	for name := range w.listed {
		dirs[filepath.Dir(filepath.Join(w.dir, name))] = struct{}{}
	}
	for d := range dirs {
		if err := fw.Add(d); err != nil {
			return fmt.Errorf("watch: add %s: %w", d, err)
		}
	}

	w.logger.Info("watcher: started", slog.String("dir", w.dir), slog.Int("files", len(w.names)))

	pending := make(map[string]struct{})
	var timer *time.Timer
	var timerCh <-chan time.Time

	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(w.debounce)
			timerCh = timer.C
		} else {
			timer.Reset(w.debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			w.logger.Info("watcher: stopped")
			return nil

		case <-timerCh:
			for _, name := range w.names {
				key := filepath.Clean(name)
				if _, ok := pending[key]; !ok {
					continue
				}
				delete(pending, key)
				fn(name)
			}

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			rel, ok := w.Match(ev)
			if !ok {
				continue
			}
			w.logger.Debug("watcher: change", slog.String("file", rel), slog.String("op", ev.Op.String()))
			pending[rel] = struct{}{}
			schedule()

		case watchErr, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
