package model

// Listener receives key activations and gestures from a keyboard surface.
type Listener interface {
	OnKey(primaryCode int, codes []int)
	OnPress(primaryCode int)
	OnRelease(primaryCode int)
	SwipeLeft()
	SwipeRight()
	SwipeUp()
	SwipeDown()
}

// NopListener ignores everything. Embed it to implement only part of Listener.
type NopListener struct{}

func (NopListener) OnKey(int, []int) {}
func (NopListener) OnPress(int)      {}
func (NopListener) OnRelease(int)    {}
func (NopListener) SwipeLeft()       {}
func (NopListener) SwipeRight()      {}
func (NopListener) SwipeUp()         {}
func (NopListener) SwipeDown()       {}

// ListenerFunc adapts a function to a Listener that only cares about activations.
type ListenerFunc func(primaryCode int, codes []int)

func (f ListenerFunc) OnKey(primaryCode int, codes []int) { f(primaryCode, codes) }
func (ListenerFunc) OnPress(int)                          {}
func (ListenerFunc) OnRelease(int)                        {}
func (ListenerFunc) SwipeLeft()                           {}
func (ListenerFunc) SwipeRight()                          {}
func (ListenerFunc) SwipeUp()                             {}
func (ListenerFunc) SwipeDown()                           {}
