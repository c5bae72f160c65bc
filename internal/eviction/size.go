// Package eviction holds the bookkeeping and trimming machinery behind
// LimitedCache: a byte counter, a last-use registry, a one-shot startup
// scanner and the oldest-first trim loop.
package eviction

import "sync/atomic"

// Counter tracks the total number of bytes the cache currently
// occupies. The total is best effort: it approximates the sum of the
// tracked entries' sizes and is allowed to drift when files change
// underneath the cache.
type Counter struct {
	n atomic.Int64
}

func NewCounter() *Counter {
	return &Counter{}
}

func (c *Counter) Add(delta int64) {
	c.n.Add(delta)
}

// Subtract decreases the total, clamping at zero. Accounting drift (a
// size function observing different values at scan time and at delete
// time) must never push the total negative.
func (c *Counter) Subtract(delta int64) {
	for {
		cur := c.n.Load()
		next := cur - delta
		if next < 0 {
			next = 0
		}
		if c.n.CompareAndSwap(cur, next) {
			return
		}
	}
}

func (c *Counter) Current() int64 {
	return c.n.Load()
}

func (c *Counter) Reset() {
	c.n.Store(0)
}
