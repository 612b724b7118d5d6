package overlay

import (
	"github.com/dasdy/softkeys/layout"
	"github.com/dasdy/softkeys/model"
	"github.com/dasdy/softkeys/tracker"
)

// Entry is a built overlay: its layout, the tracker driving it and its measured size.
type Entry struct {
	Layout      *layout.KeyLayout
	Tracker     *tracker.Tracker
	Measurement Measurement
}

type cacheKey struct {
	position model.KeyPosition
	shifted  bool
}

// Cache keeps built overlays per source key for one keyboard generation.
// Entries of older generations are never returned.
type Cache struct {
	generation uint64
	entries    map[cacheKey]*Entry
}

func NewCache() *Cache {
	return &Cache{entries: make(map[cacheKey]*Entry)}
}

func (c *Cache) Generation() uint64 {
	return c.generation
}

// Reset drops every entry and moves the cache to generation.
func (c *Cache) Reset(generation uint64) {
	c.generation = generation
	clear(c.entries)
}

func (c *Cache) Get(generation uint64, pos model.KeyPosition, shifted bool) (*Entry, bool) {
	if generation != c.generation {
		c.Reset(generation)

		return nil, false
	}

	e, ok := c.entries[cacheKey{pos, shifted}]

	return e, ok
}

func (c *Cache) Put(generation uint64, pos model.KeyPosition, shifted bool, e *Entry) {
	if generation != c.generation {
		c.Reset(generation)
	}

	c.entries[cacheKey{pos, shifted}] = e
}

func (c *Cache) Len() int {
	return len(c.entries)
}
