package coords

import (
	"github.com/tbeckers/floatdeck/pkg/grid"
)

// Cache memoizes grid-to-physical conversions. It is deliberately owned by
// the caller, never hidden inside [Calculator]: the owner must call
// [Cache.Invalidate] on every grid change, because stale geometric results
// must never be served. The cache is bounded; when full, the oldest entries
// are evicted in insertion order.
//
// Cache is not safe for concurrent use. Give each goroutine its own, the
// same way each Grid value owns its own spatial index.
type Cache struct {
	calc    Calculator
	width   int
	depth   int
	maxSize int
	entries map[string]Point
	order   []string
}

// DefaultCacheSize bounds a cache when the caller passes no limit.
const DefaultCacheSize = 1024

// NewCache creates a memo cache for conversions on a grid of the given
// extents. maxSize <= 0 selects [DefaultCacheSize].
func NewCache(calc Calculator, width, depth, maxSize int) *Cache {
	if maxSize <= 0 {
		maxSize = DefaultCacheSize
	}
	return &Cache{
		calc:    calc,
		width:   width,
		depth:   depth,
		maxSize: maxSize,
		entries: make(map[string]Point),
	}
}

// GridToPhysical returns the memoized conversion for p, computing and
// storing it on a miss.
func (c *Cache) GridToPhysical(p grid.Position) Point {
	key := p.Key()
	if pt, ok := c.entries[key]; ok {
		return pt
	}
	pt := c.calc.GridToPhysical(p, c.width, c.depth)
	c.put(key, pt)
	return pt
}

// GridToView returns the memoized view-space conversion for p.
func (c *Cache) GridToView(p grid.Position) Point {
	return c.calc.PhysicalToView(c.GridToPhysical(p))
}

// Invalidate drops every entry. Callers invoke this whenever the grid they
// render changes, or when they swap in a different Grid value.
func (c *Cache) Invalidate() {
	c.entries = make(map[string]Point)
	c.order = c.order[:0]
}

// Resize repoints the cache at new grid extents and invalidates it.
func (c *Cache) Resize(width, depth int) {
	c.width = width
	c.depth = depth
	c.Invalidate()
}

// Len returns the number of memoized entries.
func (c *Cache) Len() int { return len(c.entries) }

// Cap returns the configured bound.
func (c *Cache) Cap() int { return c.maxSize }

// put stores an entry, evicting the oldest while over the bound.
func (c *Cache) put(key string, pt Point) {
	for len(c.entries) >= c.maxSize {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	c.entries[key] = pt
	c.order = append(c.order, key)
}
