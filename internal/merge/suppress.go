package merge

import "sync"

// SelfWriteSuppressor tracks paths the editor itself just saved, so the
// FileChanged event that save triggers gets ignored instead of
// re-merging against what we just wrote (spec.md §4.9).
type SelfWriteSuppressor struct {
	mu      sync.Mutex
	pending map[string]int
}

// NewSelfWriteSuppressor constructs an empty suppressor.
func NewSelfWriteSuppressor() *SelfWriteSuppressor {
	return &SelfWriteSuppressor{pending: make(map[string]int)}
}

// MarkSelfWrite registers path as about to be self-written. Call this
// immediately before the save's file write.
func (s *SelfWriteSuppressor) MarkSelfWrite(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[path]++
}

// ShouldSuppress reports whether a FileChanged for path should be
// ignored, consuming one pending mark if present.
func (s *SelfWriteSuppressor) ShouldSuppress(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending[path] > 0 {
		s.pending[path]--
		if s.pending[path] == 0 {
			delete(s.pending, path)
		}
		return true
	}
	return false
}
