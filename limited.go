package assetcache

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/assetcache/assetcache/internal/errutil"
	"github.com/assetcache/assetcache/internal/eviction"
	"golang.org/x/sync/singleflight"
)

// LimitedCache is a BaseCache bounded by a total size limit. Every
// successful read refreshes an entry's recency (both its file mtime and
// the in-memory usage registry); every successful write records usage,
// adds the new entry's size and trims the cache back under the limit,
// oldest entries first.
//
// A background scan seeds the size and usage bookkeeping from whatever
// the directory already contains, using file mtimes as last-use times,
// so recency survives process restarts. Construction does not wait for
// the scan; Ready does.
type LimitedCache struct {
	base  *BaseCache
	limit int64
	names NameGenerator
	sizer SizeFunc

	usage *eviction.Registry
	size  *eviction.Counter
	trim  *eviction.Trimmer
	scan  *eviction.Scanner

	group singleflight.Group
	now   func() time.Time
}

// Option configures a LimitedCache.
type Option func(*LimitedCache)

// WithNameGenerator sets the key->file name strategy.
func WithNameGenerator(names NameGenerator) Option {
	return func(c *LimitedCache) { c.names = names }
}

// WithSizeFunc sets how entry sizes are measured.
func WithSizeFunc(sizer SizeFunc) Option {
	return func(c *LimitedCache) { c.sizer = sizer }
}

// NewLimitedCache opens a size-bounded cache over dir. sizeLimit is the
// byte total past which eviction kicks in; it must be positive. The
// directory must be dedicated to this one cache.
func NewLimitedCache(dir string, sizeLimit int64, opts ...Option) (*LimitedCache, error) {
	if sizeLimit <= 0 {
		return nil, fmt.Errorf("size limit must be positive, got %d", sizeLimit)
	}

	c := &LimitedCache{
		limit: sizeLimit,
		names: HashCodeNames,
		sizer: FileLength,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	base, err := NewBaseCache(dir, c.names)
	if err != nil {
		return nil, err
	}
	c.base = base

	c.usage = eviction.NewRegistry()
	c.size = eviction.NewCounter()
	c.trim = &eviction.Trimmer{
		Usage: c.usage,
		Size:  c.size,
		Sizer: func(path string) int64 { return c.sizer(path) },
	}
	c.scan = eviction.StartScan(dir, c.usage, c.size, func(path string) int64 { return c.sizer(path) })

	return c, nil
}

// Ready is closed once the startup directory scan has finished seeding
// the size and usage bookkeeping. Operations are safe before that; the
// reported total is just still incomplete.
func (c *LimitedCache) Ready() <-chan struct{} {
	return c.scan.Done()
}

func (c *LimitedCache) Directory() string {
	return c.base.Directory()
}

// Size returns the tracked byte total. Best effort: under concurrent
// writes it may transiently exceed the limit until a trim catches up.
func (c *LimitedCache) Size() int64 {
	return c.size.Current()
}

// Limit returns the configured size limit.
func (c *LimitedCache) Limit() int64 {
	return c.limit
}

// Len returns the number of tracked entries.
func (c *LimitedCache) Len() int {
	return c.usage.Len()
}

// Get returns the on-disk path for key if an entry exists. A hit counts
// as a use: the file's mtime and the usage registry are both refreshed.
// A miss has no side effects.
func (c *LimitedCache) Get(key string) (string, bool) {
	path, ok := c.base.Get(key)
	if !ok {
		return "", false
	}
	now := c.now()
	errutil.LogMsg(os.Chtimes(path, now, now), "Failed to refresh entry mtime", "path", path)
	c.usage.RecordUse(path, now)
	return path, true
}

// Save stores r under key, then trims the cache back under the limit.
// Concurrent saves of the same key are collapsed into one write. On
// failure no accounting changes are made.
func (c *LimitedCache) Save(key string, r io.Reader) error {
	_, err, _ := c.group.Do(key, func() (interface{}, error) {
		path := c.base.FilePath(key)

		// Overwriting an entry replaces its size contribution, so track
		// the diff rather than double-counting.
		var prior int64
		if _, err := os.Stat(path); err == nil {
			prior = c.sizer(path)
		}

		if err := c.base.Save(key, r); err != nil {
			return nil, err
		}

		now := c.now()
		errutil.LogMsg(os.Chtimes(path, now, now), "Failed to set entry mtime", "path", path)
		c.usage.RecordUse(path, now)
		if delta := c.sizer(path) - prior; delta >= 0 {
			c.size.Add(delta)
		} else {
			c.size.Subtract(-delta)
		}

		c.trim.Trim(c.limit)
		return nil, nil
	})
	return err
}

// Remove evicts the entry for key. A second Remove of the same key is a
// no-op returning false, with no accounting change.
func (c *LimitedCache) Remove(key string) bool {
	path := c.base.FilePath(key)
	size := c.sizer(path)
	if !c.base.Remove(key) {
		return false
	}
	c.size.Subtract(size)
	c.usage.Remove(path)
	return true
}

// Clear empties the cache. The registry and counter are cleared before
// the directory wipe so a partially failed deletion cannot leave stale
// accounting behind.
func (c *LimitedCache) Clear() error {
	c.usage.Clear()
	c.size.Reset()
	return c.base.Clear()
}

// TrimToLimit forces an eviction pass, as Save does after each write.
func (c *LimitedCache) TrimToLimit() {
	c.trim.Trim(c.limit)
}
