package eviction

import (
	"log/slog"
	"os"
	"path/filepath"
)

// Scanner reconciles a pre-existing cache directory into the registry
// and counter: each file's size is added to the total and its mtime
// becomes its last-use time, so recency from previous runs is kept.
//
// The scan runs once, in the background, so opening a cache over a
// large directory does not block. Completion is observable through
// Done.
type Scanner struct {
	done chan struct{}
}

// StartScan launches the scan and returns immediately.
func StartScan(dir string, usage *Registry, size *Counter, sizer func(string) int64) *Scanner {
	s := &Scanner{done: make(chan struct{})}
	go s.run(dir, usage, size, sizer)
	return s
}

// Done is closed when the scan has finished.
func (s *Scanner) Done() <-chan struct{} {
	return s.done
}

// Wait blocks until the scan has finished.
func (s *Scanner) Wait() {
	<-s.done
}

func (s *Scanner) run(dir string, usage *Registry, size *Counter, sizer func(string) int64) {
	defer close(s.done)

	entries, err := os.ReadDir(dir)
	if err != nil {
		// A missing or unreadable directory is an empty starting
		// cache, not a failure.
		slog.Warn("Cache scan skipped", "dir", dir, "error", err)
		return
	}

	var count int
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			// Vanished mid-scan; nothing to track.
			continue
		}
		path := filepath.Join(dir, entry.Name())
		size.Add(sizer(path))
		usage.RecordUse(path, info.ModTime())
		count++
	}

	slog.Info("Cache scan complete", "dir", dir, "entries", count, "bytes", size.Current())
}
