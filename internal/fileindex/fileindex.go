// Package fileindex walks a workspace root and maintains a fuzzy-search
// cache backing the file picker, with a version counter that advances
// once per completed build (spec.md §5: "pushes results into a shared structure
// whose cache_version is monotonic").
package fileindex

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/lite-edit/lite-edit/internal/obs"
	"github.com/sahilm/fuzzy"
)

var skipDirs = map[string]bool{
	".git": true, "node_modules": true, "target": true, ".build": true,
}

// Entry is one indexed file or directory.
type Entry struct {
	Path    string
	Name    string
	RelPath string
	IsDir   bool
}

// Match is one fuzzy-search hit.
type Match struct {
	Entry      Entry
	Score      int
	MatchedIdx []int
}

// Index maintains a flat file list for a workspace root and a
// monotonic version counter.
type Index struct {
	Root string

	ready    int32
	building int32
	version  int64

	mu    sync.RWMutex
	files []Entry

	MaxDepth int
	MaxFiles int
}

// NewIndex constructs an index rooted at root.
func NewIndex(root string) *Index {
	abs, err := filepath.Abs(root)
	if err != nil {
		abs = root
	}
	return &Index{Root: abs, MaxDepth: 10, MaxFiles: 20000}
}

// IsReady reports whether a build has completed at least once.
func (idx *Index) IsReady() bool { return atomic.LoadInt32(&idx.ready) == 1 }

// Version returns the current monotonic cache version. It advances by
// one each time a Build completes.
func (idx *Index) Version() int64 { return atomic.LoadInt64(&idx.version) }

// Build walks the root synchronously; callers run it on a background
// goroutine. Safe to call concurrently — a build already in progress
// is skipped.
func (idx *Index) Build() {
	if !atomic.CompareAndSwapInt32(&idx.building, 0, 1) {
		return
	}
	defer atomic.StoreInt32(&idx.building, 0)

	files := make([]Entry, 0, 1024)
	count := 0
	idx.walk(idx.Root, 0, &files, &count)

	idx.mu.Lock()
	idx.files = files
	idx.mu.Unlock()

	atomic.StoreInt32(&idx.ready, 1)
	atomic.AddInt64(&idx.version, 1)
	obs.Logf("fileindex: built %d entries under %s", len(files), idx.Root)
}

func (idx *Index) walk(dir string, depth int, files *[]Entry, count *int) {
	if depth > idx.MaxDepth || *count >= idx.MaxFiles {
		return
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, e := range entries {
		if *count >= idx.MaxFiles {
			return
		}
		name := e.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if e.IsDir() && skipDirs[name] {
			continue
		}
		full := filepath.Join(dir, name)
		rel, _ := filepath.Rel(idx.Root, full)
		*files = append(*files, Entry{Path: full, Name: name, RelPath: rel, IsDir: e.IsDir()})
		*count++
		if e.IsDir() {
			idx.walk(full, depth+1, files, count)
		}
	}
}

// Refresh invalidates readiness and triggers an async rebuild.
func (idx *Index) Refresh() {
	atomic.StoreInt32(&idx.ready, 0)
	go idx.Build()
}

// Count returns the number of indexed entries.
func (idx *Index) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.files)
}

// Search runs a fuzzy match over filenames, capped to limit results. An
// empty query returns the first limit entries in walk order.
func (idx *Index) Search(query string, limit int) []Match {
	if !idx.IsReady() {
		return nil
	}
	idx.mu.RLock()
	files := idx.files
	idx.mu.RUnlock()

	if query == "" {
		out := make([]Match, 0, limit)
		for i := 0; i < len(files) && i < limit; i++ {
			out = append(out, Match{Entry: files[i]})
		}
		return out
	}

	source := make([]string, len(files))
	for i, f := range files {
		source[i] = f.Name
	}
	matches := fuzzy.Find(query, source)

	out := make([]Match, 0, limit)
	for i := 0; i < len(matches) && i < limit; i++ {
		m := matches[i]
		out = append(out, Match{Entry: files[m.Index], Score: m.Score, MatchedIdx: m.MatchedIndexes})
	}
	return out
}
