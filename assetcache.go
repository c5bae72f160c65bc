// Package assetcache implements a persistent on-disk cache for binary
// assets. Entries are plain files inside a dedicated directory; the
// LimitedCache variant bounds the directory's total size by evicting the
// least recently used entries.
package assetcache

import (
	"io"
	"os"
)

// Cache is the interface shared by the disk caches in this package.
//
// The directory backing a cache must be dedicated to that one cache
// instance. Sibling files would be picked up by the startup scan and
// become eviction candidates.
type Cache interface {
	// Directory returns the directory holding the cached files.
	Directory() string

	// Get returns the on-disk path for key, if an entry exists.
	Get(key string) (path string, ok bool)

	// Save stores the contents of r as the entry for key.
	Save(key string, r io.Reader) error

	// Remove deletes the entry for key and reports whether a file was
	// actually removed.
	Remove(key string) bool

	// Clear deletes every entry.
	Clear() error
}

// SizeFunc reports how many bytes the entry at path occupies. It is
// pluggable because size semantics can differ (raw file length vs.
// decoded content size). Implementations return 0 when the size cannot
// be determined; callers treat that as "nothing to account".
type SizeFunc func(path string) int64

// FileLength is the default SizeFunc: the file's length on disk.
func FileLength(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}
