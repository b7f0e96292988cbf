// Package watch re-runs an action whenever a data file changes on disk.
package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/hsiuhsiu/simfx-go/pkg/simfx/logging"
)

// DefaultDebounce is how long a file must stay quiet before the action runs.
// Editors often write a file several times per save.
const DefaultDebounce = 300 * time.Millisecond

// Action is called with the changed file. Its error is logged and the watch
// continues.
type Action func(ctx context.Context, path string) error

// Watcher watches a single file. The file's directory is watched so that
// editors which replace the file by rename are still seen.
type Watcher struct {
	path     string
	action   Action
	debounce time.Duration
	log      logging.Logger
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) Option { return func(w *Watcher) { w.debounce = d } }

// WithLogger sets the logger for change events and action failures.
func WithLogger(l logging.Logger) Option { return func(w *Watcher) { w.log = l } }

// New returns a Watcher for path.
func New(path string, action Action, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if action == nil {
		return nil, errors.New("watch: nil action")
	}
	w := &Watcher{path: abs, action: action, debounce: DefaultDebounce, log: logging.Nop()}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Run blocks until ctx is done, calling the action after each settled
// change. It returns nil when ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer fw.Close()
	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch %s: %w", w.path, err)
	}
	w.log.Info(ctx, "watching", "path", w.path)

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			w.log.Debug(ctx, "file event", "op", ev.Op.String())
			timer.Reset(w.debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn(ctx, "watch error", "err", err)

		case <-timer.C:
			if err := w.action(ctx, w.path); err != nil {
				w.log.Warn(ctx, "action failed", "path", w.path, "err", err)
			}
		}
	}
}
