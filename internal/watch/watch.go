// Package watch re-triggers work when any of a set of files changes.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/superelastic/nextjs-figma-playwright-wsl-template/internal/logger"
)

// DefaultDebounce coalesces the burst of events an editor or an atomic
// rename produces into one trigger.
const DefaultDebounce = 250 * time.Millisecond

// ErrNothingToWatch is returned by New when none of the paths has an
// existing parent directory.
var ErrNothingToWatch = errors.New("no watchable paths")

// Options configures a Watcher.
type Options struct {
	Debounce time.Duration
	Logger   *logger.Logger
}

// Watcher observes individual files. Parent directories are watched rather
// than the files themselves so replacements through rename are seen.
type Watcher struct {
	fs       *fsnotify.Watcher
	files    map[string]struct{}
	debounce time.Duration
	log      *logger.Logger
}

// New starts watching the parent directory of every path.
func New(paths []string, opts Options) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	w := &Watcher{
		fs:       fw,
		files:    make(map[string]struct{}),
		debounce: opts.Debounce,
		log:      opts.Logger,
	}
	if w.debounce <= 0 {
		w.debounce = DefaultDebounce
	}

	dirs := make(map[string]struct{})
	for _, p := range paths {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			_ = fw.Close()
			return nil, fmt.Errorf("resolve %s: %w", p, err)
		}
		dir := filepath.Dir(abs)
		if _, err := os.Stat(dir); err != nil {
			w.log.WithField("path", abs).Warn(err, "skipping watch path")
			continue
		}
		w.files[abs] = struct{}{}
		dirs[dir] = struct{}{}
	}

	if len(dirs) == 0 {
		_ = fw.Close()
		return nil, ErrNothingToWatch
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			_ = fw.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	return w, nil
}

// Files returns the absolute paths being watched.
func (w *Watcher) Files() []string {
	out := make([]string, 0, len(w.files))
	for f := range w.files {
		out = append(out, f)
	}
	return out
}

// Run calls onChange with the most recently changed path once events have
// been quiet for the debounce interval. It returns when ctx is done or the
// watcher is closed.
func (w *Watcher) Run(ctx context.Context, onChange func(path string)) error {
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	var pending string
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if _, watched := w.files[filepath.Clean(event.Name)]; !watched {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.log.WithFields(map[string]any{"path": event.Name, "op": event.Op.String()}).Debug("file changed")
			pending = event.Name
			timer.Reset(w.debounce)

		case <-timer.C:
			if pending != "" {
				onChange(pending)
				pending = ""
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.log.Warn(err, "watcher error")
		}
	}
}

// Close stops the underlying watcher.
func (w *Watcher) Close() error {
	return w.fs.Close()
}
