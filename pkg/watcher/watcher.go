// Package watcher triggers registry reloads when definition files change on
// disk. Events are debounced so editors that write several files in a burst
// cause one reload. A rejected reload keeps the previously published snapshot
// and is only logged; the watcher keeps running.
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"

	"github.com/skillet-sh/skillet/pkg/logger"
)

// ReloadFunc performs one full re-discovery and registry load.
type ReloadFunc func(ctx context.Context) error

// Watcher watches definition roots and debounces change events into reloads.
type Watcher struct {
	fsw      *fsnotify.Watcher
	reload   ReloadFunc
	debounce time.Duration
}

// New creates a watcher invoking reload after debounce of quiet time.
func New(reload ReloadFunc, debounce time.Duration) (*Watcher, error) {
	if reload == nil {
		return nil, errors.New("reload function is required")
	}
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "creating fsnotify watcher")
	}
	return &Watcher{fsw: fsw, reload: reload, debounce: debounce}, nil
}

// Add registers a definitions root and all its subdirectories. Missing roots
// are skipped so a user-global root that does not exist yet is not an error.
func (w *Watcher) Add(root string) error {
	if _, err := os.Stat(root); os.IsNotExist(err) {
		return nil
	}
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		return errors.Wrapf(w.fsw.Add(path), "watching %s", path)
	})
}

// Run blocks processing events until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	log := logger.G(ctx)
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			// New skill directories must be watched too.
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.Add(event.Name); err != nil {
						log.WithError(err).WithField("path", event.Name).Warn("failed to watch new directory")
					}
				}
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				fire = timer.C
			} else {
				timer.Reset(w.debounce)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			log.WithError(err).Warn("filesystem watch error")
		case <-fire:
			timer = nil
			fire = nil
			if err := w.reload(ctx); err != nil {
				log.WithError(err).Error("reload rejected; previous snapshot stays published")
				continue
			}
			log.Info("definitions reloaded")
		}
	}
}
