// Package fsnotify implements the ports.Watcher interface using github.com/fsnotify/fsnotify.
// It watches the parent directories of a fixed set of input files, so that
// editors which save by rename-and-replace are still seen, and fires once per
// file after a burst of events has settled.
package fsnotify

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long a file must stay quiet before onChange fires.
const DefaultDebounce = 100 * time.Millisecond

// Watcher implements ports.Watcher using fsnotify.
type Watcher struct {
	fw       *fsnotify.Watcher
	debounce time.Duration
	done     chan struct{}
	stopped  bool
	timers   map[string]*time.Timer
	mu       sync.Mutex
}

// NewWatcher creates a new file watcher with the default debounce interval.
func NewWatcher() (*Watcher, error) {
	return NewWatcherWithDebounce(DefaultDebounce)
}

// NewWatcherWithDebounce creates a watcher that waits d after the last event
// on a file before reporting it.
func NewWatcherWithDebounce(d time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		fw:       fw,
		debounce: d,
		done:     make(chan struct{}),
		timers:   make(map[string]*time.Timer),
	}, nil
}

// Watch starts monitoring paths. onChange is called with the absolute path
// of a watched file after it was written, created, removed or renamed.
func (w *Watcher) Watch(paths []string, onChange func(path string)) error {
	if len(paths) == 0 {
		return fmt.Errorf("watch: no paths")
	}

	files := make(map[string]bool, len(paths))
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := w.fw.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	go func() {
		for {
			select {
			case event, ok := <-w.fw.Events:
				if !ok {
					return
				}
				if !files[filepath.Clean(event.Name)] {
					continue
				}
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
					event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
					w.schedule(filepath.Clean(event.Name), onChange)
				}

			case _, ok := <-w.fw.Errors:
				if !ok {
					return
				}
				// Errors are swallowed; fsnotify recovers automatically

			case <-w.done:
				return
			}
		}
	}()

	return nil
}

// schedule (re)arms the debounce timer of path.
func (w *Watcher) schedule(path string, onChange func(string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	if t, ok := w.timers[path]; ok {
		t.Reset(w.debounce)
		return
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, path)
		stopped := w.stopped
		w.mu.Unlock()
		if !stopped {
			onChange(path)
		}
	})
}

// Stop ends monitoring and releases all resources.
// Safe to call multiple times.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}
	w.stopped = true
	for p, t := range w.timers {
		t.Stop()
		delete(w.timers, p)
	}
	close(w.done)
	return w.fw.Close()
}
