package bbox

import (
	"image"
	"sync"
)

// Store is an optional persistence layer behind the in-memory cache.
// Lookups fall through to it before paying for a pixel scan, and freshly
// computed boxes are written back. Errors from a Store are swallowed by the
// cache: persistence is an optimization, never a correctness dependency.
type Store interface {
	GetBox(source string) (Box, bool, error)
	PutBox(source string, box Box) error
}

// Cache memoizes computed boxes by resolved source path. A box is computed
// at most once per distinct source for the lifetime of the cache.
type Cache struct {
	mu       sync.Mutex
	boxes    map[string]Box
	store    Store
	computes int
}

// NewCache returns an empty cache. store may be nil.
func NewCache(store Store) *Cache {
	return &Cache{
		boxes: make(map[string]Box),
		store: store,
	}
}

// Get returns the box for source, computing it from img only on the first
// call for that source. Repeat calls are map lookups.
func (c *Cache) Get(source string, img image.Image) Box {
	c.mu.Lock()
	defer c.mu.Unlock()

	if box, ok := c.boxes[source]; ok {
		return box
	}

	if c.store != nil {
		if box, ok, err := c.store.GetBox(source); err == nil && ok {
			c.boxes[source] = box
			return box
		}
	}

	box := Compute(img)
	c.computes++
	c.boxes[source] = box

	if c.store != nil {
		_ = c.store.PutBox(source, box)
	}
	return box
}

// Lookup returns the cached box for source without computing anything.
func (c *Cache) Lookup(source string) (Box, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	box, ok := c.boxes[source]
	return box, ok
}

// Computes reports how many pixel scans the cache has performed.
func (c *Cache) Computes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.computes
}
