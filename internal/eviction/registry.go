package eviction

import (
	"sync"
	"time"
)

// Registry remembers when each cached file was last used. It is the
// source of truth for victim selection. Entries may go stale if a file
// is deleted out-of-band; callers must tolerate paths that no longer
// exist.
type Registry struct {
	mu     sync.Mutex
	byPath map[string]time.Time
}

func NewRegistry() *Registry {
	return &Registry{byPath: make(map[string]time.Time)}
}

// RecordUse upserts the last-use time for path.
func (r *Registry) RecordUse(path string, at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byPath[path] = at
}

// Remove forgets path. No-op if it is not tracked.
func (r *Registry) Remove(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byPath, path)
}

func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byPath = make(map[string]time.Time)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byPath)
}

// Oldest returns the tracked path with the earliest last-use time, or
// false if nothing is tracked. The scan is linear under the lock; with
// several entries sharing the earliest time the winner is whichever map
// iteration yields first.
func (r *Registry) Oldest() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var (
		oldest   string
		oldestAt time.Time
		found    bool
	)
	for path, at := range r.byPath {
		if !found || at.Before(oldestAt) {
			oldest = path
			oldestAt = at
			found = true
		}
	}
	return oldest, found
}
