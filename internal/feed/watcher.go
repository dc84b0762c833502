// Package feed supplies the viewer with live twin data: an HTTP
// polling client for the simulator daemon, a JSON fixture source for
// offline work, and the debounced file watcher that fixture and
// building-config reloads run through.
package feed

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Watcher reports file changes after a debounce window, so a burst of
// editor writes triggers one reload.
type Watcher struct {
	fsw       *fsnotify.Watcher
	mu        sync.Mutex
	callbacks map[string]func(string)
	debounce  time.Duration
	timers    map[string]*time.Timer
	log       zerolog.Logger
}

// NewWatcher creates a watcher with the given debounce window
func NewWatcher(debounce time.Duration, log zerolog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	return &Watcher{
		fsw:       fsw,
		callbacks: make(map[string]func(string)),
		debounce:  debounce,
		timers:    make(map[string]*time.Timer),
		log:       log,
	}, nil
}

// Watch registers a file and the callback to run when it changes
func (w *Watcher) Watch(path string, callback func(string)) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve path %s: %w", path, err)
	}
	if err := w.fsw.Add(absPath); err != nil {
		return fmt.Errorf("watch %s: %w", absPath, err)
	}
	w.callbacks[absPath] = callback
	return nil
}

// Start begins delivering change events
func (w *Watcher) Start() {
	go func() {
		for {
			select {
			case event, ok := <-w.fsw.Events:
				if !ok {
					return
				}
				if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
					w.handleChange(event.Name)
				}

			case err, ok := <-w.fsw.Errors:
				if !ok {
					return
				}
				w.log.Warn().Err(err).Msg("file watcher error")
			}
		}
	}()
}

// handleChange schedules the callback behind the debounce window,
// replacing any pending timer for the same file.
func (w *Watcher) handleChange(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	callback, ok := w.callbacks[path]
	if !ok {
		return
	}

	if timer, ok := w.timers[path]; ok {
		timer.Stop()
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		callback(path)
	})
}

// Close stops the watcher
func (w *Watcher) Close() error {
	return w.fsw.Close()
}
