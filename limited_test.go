package assetcache

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

var (
	_ Cache = (*BaseCache)(nil)
	_ Cache = (*LimitedCache)(nil)
)

// newTestCache opens a cache over a fresh directory, waits out the
// startup scan and installs a deterministic clock that advances one
// second per use.
func newTestCache(t *testing.T, limit int64, opts ...Option) *LimitedCache {
	t.Helper()
	cache, err := NewLimitedCache(t.TempDir(), limit, opts...)
	if err != nil {
		t.Fatalf("NewLimitedCache failed: %v", err)
	}
	<-cache.Ready()

	clock := time.Now().Add(-time.Hour)
	cache.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return cache
}

func saveBytes(t *testing.T, cache *LimitedCache, key string, n int) {
	t.Helper()
	if err := cache.Save(key, strings.NewReader(strings.Repeat("x", n))); err != nil {
		t.Fatalf("Save %q failed: %v", key, err)
	}
}

func TestLimitedCache_EvictsOldestOnSave(t *testing.T) {
	cache := newTestCache(t, 250)

	saveBytes(t, cache, "a", 100)
	saveBytes(t, cache, "b", 150)
	if got := cache.Size(); got != 250 {
		t.Fatalf("expected 250 before overflow, got %d", got)
	}

	// 300 > 250: the oldest entry (a) must go, and only it.
	saveBytes(t, cache, "c", 50)

	if _, ok := cache.Get("a"); ok {
		t.Error("expected a to be evicted")
	}
	for _, key := range []string{"b", "c"} {
		if _, ok := cache.Get(key); !ok {
			t.Errorf("expected %s to survive", key)
		}
	}
	if got := cache.Size(); got != 200 {
		t.Errorf("expected total 200, got %d", got)
	}
}

func TestLimitedCache_SizeStaysUnderLimitAcrossSaves(t *testing.T) {
	cache := newTestCache(t, 300)

	for i := 0; i < 10; i++ {
		saveBytes(t, cache, string(rune('a'+i)), 100)
		if got := cache.Size(); got > 300 {
			t.Errorf("after save %d: total %d exceeds limit", i, got)
		}
	}
}

func TestLimitedCache_GetRefreshesRecency(t *testing.T) {
	cache := newTestCache(t, 250)

	saveBytes(t, cache, "a", 100)
	saveBytes(t, cache, "b", 100)

	// Reading a makes b the oldest entry.
	if _, ok := cache.Get("a"); !ok {
		t.Fatal("expected a hit for a")
	}

	saveBytes(t, cache, "c", 100)

	if _, ok := cache.Get("b"); ok {
		t.Error("expected b to be evicted")
	}
	if _, ok := cache.Get("a"); !ok {
		t.Error("expected a to survive after being read")
	}
}

func TestLimitedCache_GetRefreshesModTime(t *testing.T) {
	cache := newTestCache(t, 1000)

	saveBytes(t, cache, "a", 10)
	path, ok := cache.Get("a")
	if !ok {
		t.Fatal("expected a hit")
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}

	// Our test clock runs in the past, so the mtime it wrote must too.
	if !info.ModTime().Before(time.Now().Add(-time.Minute)) {
		t.Errorf("expected mtime from the test clock, got %v", info.ModTime())
	}
}

func TestLimitedCache_GetMissHasNoSideEffects(t *testing.T) {
	cache := newTestCache(t, 250)
	saveBytes(t, cache, "a", 100)

	before := cache.Size()
	if _, ok := cache.Get("missing"); ok {
		t.Fatal("expected a miss")
	}
	if got := cache.Size(); got != before {
		t.Errorf("expected total unchanged at %d, got %d", before, got)
	}
	if got := cache.Len(); got != 1 {
		t.Errorf("expected 1 tracked entry, got %d", got)
	}
}

func TestLimitedCache_RemoveIsIdempotent(t *testing.T) {
	cache := newTestCache(t, 250)
	saveBytes(t, cache, "a", 100)

	if !cache.Remove("a") {
		t.Error("expected first Remove to succeed")
	}
	if got := cache.Size(); got != 0 {
		t.Errorf("expected total 0, got %d", got)
	}

	if cache.Remove("a") {
		t.Error("expected second Remove to fail")
	}
	if got := cache.Size(); got != 0 {
		t.Errorf("expected total still 0, got %d", got)
	}
}

func TestLimitedCache_Clear(t *testing.T) {
	cache := newTestCache(t, 1000)
	saveBytes(t, cache, "a", 100)
	saveBytes(t, cache, "b", 200)

	if err := cache.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	if got := cache.Size(); got != 0 {
		t.Errorf("expected total 0, got %d", got)
	}
	if got := cache.Len(); got != 0 {
		t.Errorf("expected no tracked entries, got %d", got)
	}
	if _, ok := cache.Get("a"); ok {
		t.Error("expected a miss after clear")
	}
}

func TestLimitedCache_FailedSaveChangesNothing(t *testing.T) {
	cache := newTestCache(t, 250)

	if err := cache.Save("bad", failingReader{}); err == nil {
		t.Fatal("expected Save to fail")
	}

	if got := cache.Size(); got != 0 {
		t.Errorf("expected total 0, got %d", got)
	}
	if got := cache.Len(); got != 0 {
		t.Errorf("expected no tracked entries, got %d", got)
	}
}

func TestLimitedCache_ColdStart(t *testing.T) {
	dir := t.TempDir()
	base := time.Now().Add(-time.Hour)

	// Pre-existing cache contents: 100 + 200 + 50 bytes, oldest first.
	writeFileWithMtime(t, filepath.Join(dir, "a"), 100, base)
	writeFileWithMtime(t, filepath.Join(dir, "b"), 200, base.Add(time.Minute))
	writeFileWithMtime(t, filepath.Join(dir, "c"), 50, base.Add(2*time.Minute))

	cache, err := NewLimitedCache(dir, 250)
	if err != nil {
		t.Fatalf("NewLimitedCache failed: %v", err)
	}
	<-cache.Ready()

	if got := cache.Size(); got != 350 {
		t.Fatalf("expected scanned total 350, got %d", got)
	}

	// 350 over a limit of 250: trimming removes exactly the oldest file.
	cache.TrimToLimit()

	if _, err := os.Stat(filepath.Join(dir, "a")); !os.IsNotExist(err) {
		t.Error("expected oldest file to be evicted")
	}
	for _, name := range []string{"b", "c"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected %s to survive: %v", name, err)
		}
	}
	if got := cache.Size(); got != 250 {
		t.Errorf("expected total 250, got %d", got)
	}
	if got := cache.Len(); got != 2 {
		t.Errorf("expected 2 tracked entries, got %d", got)
	}
}

func TestLimitedCache_RejectsNonPositiveLimit(t *testing.T) {
	if _, err := NewLimitedCache(t.TempDir(), 0); err == nil {
		t.Error("expected error for zero limit")
	}
	if _, err := NewLimitedCache(t.TempDir(), -5); err == nil {
		t.Error("expected error for negative limit")
	}
}

func TestLimitedCache_ConcurrentSaves(t *testing.T) {
	cache, err := NewLimitedCache(t.TempDir(), 500)
	if err != nil {
		t.Fatalf("NewLimitedCache failed: %v", err)
	}
	<-cache.Ready()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				key := fmt.Sprintf("g%d-%d", n, j)
				if err := cache.Save(key, strings.NewReader(strings.Repeat("x", 50))); err != nil {
					t.Errorf("Save failed: %v", err)
				}
				cache.Get(key)
			}
		}(i)
	}
	wg.Wait()

	// The loop above races trims against saves; once writes stop, one
	// more pass must land the cache under the limit.
	cache.TrimToLimit()
	if got := cache.Size(); got > 500 {
		t.Errorf("expected total within limit, got %d", got)
	}
}

func writeFileWithMtime(t *testing.T, path string, size int64, mtime time.Time) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := f.Truncate(size); err != nil {
		t.Fatalf("truncate failed: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatalf("chtimes failed: %v", err)
	}
}
