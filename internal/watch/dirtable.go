package watch

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/lite-edit/lite-edit/internal/events"
	"github.com/lite-edit/lite-edit/internal/obs"
)

// DirWatchTable watches the parent directories of externally opened
// files (those outside any workspace root) individually, reference
// counted per directory so two open buffers in the same directory
// share one fsnotify watch. This supplements the workspace-root
// recursive watcher, which never sees paths outside the root.
type DirWatchTable struct {
	mu       sync.Mutex
	fsw      *fsnotify.Watcher
	ch       *events.Channel
	debounce time.Duration
	refs     map[string]int // dir -> open-buffer count
	timers   map[string]*time.Timer
	stop     chan struct{}
}

// NewDirWatchTable constructs an empty table.
func NewDirWatchTable(debounce time.Duration, ch *events.Channel) (*DirWatchTable, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	t := &DirWatchTable{
		fsw:      fsw,
		ch:       ch,
		debounce: debounce,
		refs:     make(map[string]int),
		timers:   make(map[string]*time.Timer),
		stop:     make(chan struct{}),
	}
	go t.eventLoop()
	return t, nil
}

// AddFile registers interest in path's parent directory, adding an
// fsnotify watch if this is the first reference.
func (t *DirWatchTable) AddFile(path string) {
	dir := filepath.Dir(path)
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.refs[dir] == 0 {
		if err := t.fsw.Add(dir); err != nil {
			obs.Logf("watch: dir watch start failure for %s: %v", dir, err)
			return
		}
	}
	t.refs[dir]++
}

// RemoveFile releases one reference on path's parent directory,
// removing the fsnotify watch once the count reaches zero.
func (t *DirWatchTable) RemoveFile(path string) {
	dir := filepath.Dir(path)
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.refs[dir] <= 0 {
		return
	}
	t.refs[dir]--
	if t.refs[dir] == 0 {
		delete(t.refs, dir)
		_ = t.fsw.Remove(dir)
	}
}

func (t *DirWatchTable) eventLoop() {
	for {
		select {
		case <-t.stop:
			return
		case ev, ok := <-t.fsw.Events:
			if !ok {
				return
			}
			t.debouncedEmit(ev)
		case err, ok := <-t.fsw.Errors:
			if !ok {
				return
			}
			obs.Logf("watch: dir table error: %v", err)
		}
	}
}

func (t *DirWatchTable) debouncedEmit(ev fsnotify.Event) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if timer, ok := t.timers[ev.Name]; ok {
		timer.Stop()
	}
	t.timers[ev.Name] = time.AfterFunc(t.debounce, func() {
		t.mu.Lock()
		delete(t.timers, ev.Name)
		t.mu.Unlock()
		switch {
		case ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create):
			t.ch.Send(events.Event{Kind: events.FileChanged, Path: ev.Name})
		case ev.Has(fsnotify.Remove):
			t.ch.Send(events.Event{Kind: events.FileDeleted, Path: ev.Name})
		case ev.Has(fsnotify.Rename):
			t.ch.Send(events.Event{Kind: events.FileRenamed, FromPath: ev.Name})
		}
	})
}

// Stop tears down the table's watcher.
func (t *DirWatchTable) Stop() {
	close(t.stop)
	t.fsw.Close()
}
