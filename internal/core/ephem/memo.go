package ephem

import (
	"context"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"aspectscan/internal/core/catalog"
)

// Key identifies one oracle call
type Key struct {
	UnixNano int64
	Frame    Frame
	Bodies   string
}

// Cache is the key/value store Memo reads through. Implementations must be
// safe for concurrent use. Callers own its lifetime.
type Cache interface {
	Get(k Key) (map[catalog.Body]Position, bool)
	Put(k Key, v map[catalog.Body]Position)
}

// MapCache is an in-memory Cache bounded by entry count
type MapCache struct {
	mu  sync.RWMutex
	m   map[Key]map[catalog.Body]Position
	max int
}

// NewMapCache returns a cache holding at most max entries (0 = unbounded).
// When full it starts over rather than tracking recency.
func NewMapCache(max int) *MapCache {
	return &MapCache{m: make(map[Key]map[catalog.Body]Position), max: max}
}

// Get implements Cache
func (c *MapCache) Get(k Key) (map[catalog.Body]Position, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.m[k]
	return v, ok
}

// Put implements Cache
func (c *MapCache) Put(k Key, v map[catalog.Body]Position) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.max > 0 && len(c.m) >= c.max {
		c.m = make(map[Key]map[catalog.Body]Position, c.max)
	}
	c.m[k] = v
}

// Len reports the number of cached entries
func (c *MapCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}

// Memoized is an Oracle that reads through a Cache
type Memoized struct {
	inner  Oracle
	cache  Cache
	hits   atomic.Int64
	misses atomic.Int64
}

// Memo wraps inner with cache. Failed calls are not cached.
func Memo(inner Oracle, cache Cache) *Memoized {
	return &Memoized{inner: inner, cache: cache}
}

// Supports implements Supporter
func (m *Memoized) Supports(b catalog.Body, frame Frame) bool { return Supports(m.inner, b, frame) }

// Positions implements Oracle
func (m *Memoized) Positions(ctx context.Context, bodies []catalog.Body, t time.Time, frame Frame) (map[catalog.Body]Position, error) {
	k := keyFor(bodies, t, frame)
	if v, ok := m.cache.Get(k); ok {
		m.hits.Add(1)
		return clone(v), nil
	}
	m.misses.Add(1)
	v, err := m.inner.Positions(ctx, bodies, t, frame)
	if err != nil {
		return nil, err
	}
	m.cache.Put(k, clone(v))
	return v, nil
}

// Stats reports cache hits and misses so far
func (m *Memoized) Stats() (hits, misses int64) { return m.hits.Load(), m.misses.Load() }

func keyFor(bodies []catalog.Body, t time.Time, frame Frame) Key {
	bs := append([]catalog.Body(nil), bodies...)
	sort.Slice(bs, func(i, j int) bool { return bs[i] < bs[j] })
	var sb strings.Builder
	for i, b := range bs {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(b.String())
	}
	return Key{UnixNano: t.UnixNano(), Frame: frame, Bodies: sb.String()}
}

func clone(m map[catalog.Body]Position) map[catalog.Body]Position {
	out := make(map[catalog.Body]Position, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
