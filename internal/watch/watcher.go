// Package watch wraps fsnotify for the two watchers spec.md §6
// describes: a recursive workspace-root watcher and reference-counted
// per-buffer watchers for externally opened files, both posting
// FileChanged/FileDeleted/FileRenamed after debouncing.
package watch

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/lite-edit/lite-edit/internal/events"
	"github.com/lite-edit/lite-edit/internal/obs"
)

// skipDirNames are never descended into by the recursive workspace
// watcher.
var skipDirNames = map[string]bool{
	".git": true, "node_modules": true, "target": true, ".build": true,
}

// Watcher recursively watches a workspace root and posts fs events
// through ch, debounced per path.
type Watcher struct {
	fsw  *fsnotify.Watcher
	root string
	ch   *events.Channel

	debounce time.Duration

	mu      sync.Mutex
	timers  map[string]*time.Timer
	stop    chan struct{}
	stopped bool
}

// NewWatcher starts watching root recursively, honoring skipDirNames.
// A failure here is a WatcherStartFailure per spec.md §7: the caller
// logs it and the feature degrades silently rather than failing the
// workspace open.
func NewWatcher(root string, debounce time.Duration, ch *events.Channel) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		fsw:      fsw,
		root:     root,
		ch:       ch,
		debounce: debounce,
		timers:   make(map[string]*time.Timer),
		stop:     make(chan struct{}),
	}
	if err := w.addDirRecursive(root); err != nil {
		obs.Logf("watch: partial watch of %s: %v", root, err)
	}
	go w.eventLoop()
	return w, nil
}

func (w *Watcher) addDirRecursive(path string) error {
	return filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			obs.Logf("watch: walk error for %s: %v", p, err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		name := d.Name()
		if skipDirNames[name] {
			return filepath.SkipDir
		}
		if p != path && len(name) > 0 && name[0] == '.' {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(p); err != nil {
			obs.Logf("watch: failed to watch %s: %v", p, err)
		}
		return nil
	})
}

func (w *Watcher) eventLoop() {
	for {
		select {
		case <-w.stop:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if w.shouldSkip(ev.Name) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					name := filepath.Base(ev.Name)
					if !skipDirNames[name] && (len(name) == 0 || name[0] != '.') {
						_ = w.addDirRecursive(ev.Name)
					}
				}
			}
			w.debouncedEmit(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			obs.Logf("watch: error: %v", err)
		}
	}
}

// debouncedEmit coalesces bursts of fsnotify events on the same path
// into a single posted event, per spec.md §5's debounce policy.
func (w *Watcher) debouncedEmit(ev fsnotify.Event) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.timers[ev.Name]; ok {
		t.Stop()
	}
	w.timers[ev.Name] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, ev.Name)
		stopped := w.stopped
		w.mu.Unlock()
		if stopped {
			return
		}
		w.post(ev)
	})
}

func (w *Watcher) post(ev fsnotify.Event) {
	switch {
	case ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create):
		w.ch.Send(events.Event{Kind: events.FileChanged, Path: ev.Name})
	case ev.Has(fsnotify.Remove):
		w.ch.Send(events.Event{Kind: events.FileDeleted, Path: ev.Name})
	case ev.Has(fsnotify.Rename):
		w.ch.Send(events.Event{Kind: events.FileRenamed, FromPath: ev.Name})
	}
}

func (w *Watcher) shouldSkip(path string) bool {
	for p := path; p != w.root && p != "/" && p != "."; p = filepath.Dir(p) {
		if skipDirNames[filepath.Base(p)] {
			return true
		}
	}
	return false
}

// Stop tears down the watcher.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	w.stopped = true
	for _, t := range w.timers {
		t.Stop()
	}
	w.mu.Unlock()
	close(w.stop)
	w.fsw.Close()
}
