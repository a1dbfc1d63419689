// Package watch delivers file-change events to per-file subscribers.
//
// A [Watcher] wraps an fsnotify watcher for one served root directory.
// Clients subscribe to a single relative path and receive ordered events on
// a buffered channel until they cancel. Subscriptions are independent: many
// clients may watch the same or different paths, and a slow consumer only
// ever loses its own events (sends are non-blocking once the buffer fills).
package watch

import (
	"errors"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
)

// subscriptionBuffer is the per-subscription channel capacity. Change
// bursts beyond this (e.g. editors rewriting a file several times in quick
// succession) drop events for that subscriber rather than blocking the
// event loop; a reload client only needs one surviving event.
const subscriptionBuffer = 16

// Event is one observed change to a subscribed file.
type Event struct {
	// Path is the changed file, slash-separated and relative to the root.
	Path string

	// At is when the watcher observed the change.
	At time.Time
}

// Watcher fans filesystem events out to path-keyed subscriptions.
// Create with [New]; release with [Watcher.Close].
type Watcher struct {
	fsw    *fsnotify.Watcher
	root   string
	logger *slog.Logger

	mu     sync.Mutex
	subs   map[string]map[*subscription]struct{}
	dirs   map[string]int // fsnotify watch refcounts, keyed by relative dir
	closed bool
}

type subscription struct {
	id   string
	path string
	ch   chan Event
}

// New creates a [Watcher] for files under root. The returned watcher runs
// until Close is called.
func New(root string, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	w := &Watcher{
		fsw:    fsw,
		root:   abs,
		logger: logger,
		subs:   make(map[string]map[*subscription]struct{}),
		dirs:   make(map[string]int),
	}
	go w.run()
	return w, nil
}

// Subscribe registers interest in changes to the file at rel, a sanitized
// slash-separated path relative to the root. It returns the event channel
// and a cancel function releasing the subscription; the channel is closed
// on cancel and on [Watcher.Close].
//
// The file itself need not exist yet, but its directory must: fsnotify
// watches the parent directory and the watcher filters events down to the
// subscribed name.
func (w *Watcher) Subscribe(rel string) (<-chan Event, func(), error) {
	dir := path.Dir(rel)

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil, nil, errors.New("watcher is closed")
	}

	if w.dirs[dir] == 0 {
		absDir := filepath.Join(w.root, filepath.FromSlash(dir))
		if err := w.fsw.Add(absDir); err != nil {
			return nil, nil, fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	w.dirs[dir]++

	sub := &subscription{
		id:   uuid.NewString(),
		path: rel,
		ch:   make(chan Event, subscriptionBuffer),
	}
	if w.subs[rel] == nil {
		w.subs[rel] = make(map[*subscription]struct{})
	}
	w.subs[rel][sub] = struct{}{}
	w.logger.Debug("subscription added", "id", sub.id, "path", rel)

	var once sync.Once
	cancel := func() {
		once.Do(func() { w.unsubscribe(sub, dir) })
	}
	return sub.ch, cancel, nil
}

func (w *Watcher) unsubscribe(sub *subscription, dir string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return // Close already released everything
	}
	if _, ok := w.subs[sub.path][sub]; !ok {
		return
	}
	delete(w.subs[sub.path], sub)
	if len(w.subs[sub.path]) == 0 {
		delete(w.subs, sub.path)
	}
	close(sub.ch)

	w.dirs[dir]--
	if w.dirs[dir] == 0 {
		delete(w.dirs, dir)
		absDir := filepath.Join(w.root, filepath.FromSlash(dir))
		// the directory may be gone already; nothing to do about it here
		_ = w.fsw.Remove(absDir)
	}
	w.logger.Debug("subscription removed", "id", sub.id, "path", sub.path)
}

// Close stops the watcher and closes every subscription channel.
// Safe to call once; subsequent Subscribe calls fail.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	for _, subs := range w.subs {
		for sub := range subs {
			close(sub.ch)
		}
	}
	w.subs = nil
	w.dirs = nil
	w.mu.Unlock()

	return w.fsw.Close()
}

// run is the event loop: translates fsnotify events into per-path fan-out.
// Within one subscription, delivery order matches fsnotify's event order;
// no ordering holds across distinct subscriptions.
func (w *Watcher) run() {
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			rel, err := filepath.Rel(w.root, ev.Name)
			if err != nil {
				continue
			}
			w.notify(filepath.ToSlash(rel))

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("filesystem watch error", "error", err)
		}
	}
}

func (w *Watcher) notify(rel string) {
	event := Event{Path: rel, At: time.Now()}

	w.mu.Lock()
	defer w.mu.Unlock()
	for sub := range w.subs[rel] {
		select {
		case sub.ch <- event:
		default:
			// subscriber buffer full; drop rather than stall the loop
		}
	}
}
