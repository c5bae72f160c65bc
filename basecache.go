package assetcache

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// BaseCache is an unbounded key->file store over a single flat
// directory. It knows nothing about sizes or recency; LimitedCache
// layers that on top.
type BaseCache struct {
	dir   string
	names NameGenerator
}

// NewBaseCache creates the cache directory if needed. A nil names falls
// back to HashCodeNames.
func NewBaseCache(dir string, names NameGenerator) (*BaseCache, error) {
	if names == nil {
		names = HashCodeNames
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache dir: %w", err)
	}
	return &BaseCache{dir: dir, names: names}, nil
}

func (c *BaseCache) Directory() string {
	return c.dir
}

// FilePath returns the path the entry for key lives at, whether or not
// it currently exists.
func (c *BaseCache) FilePath(key string) string {
	return filepath.Join(c.dir, c.names(key))
}

func (c *BaseCache) Get(key string) (string, bool) {
	path := c.FilePath(key)
	if _, err := os.Stat(path); err != nil {
		return "", false
	}
	return path, true
}

// Save writes r to a temporary file and renames it into place, so a
// failed or interrupted write never leaves a partial entry at the final
// path.
func (c *BaseCache) Save(key string, r io.Reader) error {
	tmpFile, err := os.CreateTemp(c.dir, "save-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmpFile.Name()) }()
	defer func() { _ = tmpFile.Close() }()

	if _, err := io.Copy(tmpFile, r); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpFile.Name(), c.FilePath(key)); err != nil {
		return fmt.Errorf("failed to rename to final path: %w", err)
	}
	return nil
}

func (c *BaseCache) Remove(key string) bool {
	return os.Remove(c.FilePath(key)) == nil
}

// Clear removes every entry but keeps the directory itself, so the
// cache stays usable afterwards.
func (c *BaseCache) Clear() error {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return fmt.Errorf("failed to list cache dir: %w", err)
	}
	var firstErr error
	for _, entry := range entries {
		if err := os.RemoveAll(filepath.Join(c.dir, entry.Name())); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
