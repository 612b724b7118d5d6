package layout

import "sync/atomic"

// Current holds the layout in use. The event loop stores reloaded layouts
// while readers on other goroutines load them.
type Current struct {
	l atomic.Pointer[KeyLayout]
}

func NewCurrent(l *KeyLayout) *Current {
	c := &Current{}
	c.l.Store(l)

	return c
}

func (c *Current) Load() *KeyLayout {
	return c.l.Load()
}

func (c *Current) Store(l *KeyLayout) {
	c.l.Store(l)
}
