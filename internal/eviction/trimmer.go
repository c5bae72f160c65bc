package eviction

import (
	"log/slog"
	"os"
)

// Trimmer deletes least-recently-used entries until the tracked total
// fits a limit. Victim selection is strictly oldest-first via the
// registry.
type Trimmer struct {
	Usage *Registry
	Size  *Counter
	Sizer func(path string) int64

	// Delete removes a victim from disk. Defaults to os.Remove.
	Delete func(path string) error
}

// Trim evicts until Current() <= limit or nothing is left to evict.
//
// A victim that already vanished from disk is just dropped from the
// registry; its size contribution is assumed settled. A delete that
// fails ends the pass: retrying a file that cannot be removed would
// loop forever, and the next Trim gets another chance.
func (t *Trimmer) Trim(limit int64) {
	remove := t.Delete
	if remove == nil {
		remove = os.Remove
	}

	for t.Size.Current() > limit {
		victim, ok := t.Usage.Oldest()
		if !ok {
			return
		}

		if _, err := os.Stat(victim); os.IsNotExist(err) {
			t.Usage.Remove(victim)
			continue
		}

		size := t.Sizer(victim)
		if err := remove(victim); err != nil {
			slog.Warn("Failed to evict cache entry", "path", victim, "error", err)
			return
		}

		slog.Debug("Evicted cache entry", "path", victim, "bytes", size)
		t.Usage.Remove(victim)
		t.Size.Subtract(size)
	}
}
