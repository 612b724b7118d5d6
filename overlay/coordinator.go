// Package overlay opens the alternatives keyboard over a long-pressed key and
// routes the rest of the gesture into it.
package overlay

import (
	"image"
	"log/slog"
	"strings"

	"github.com/dasdy/softkeys/detect"
	"github.com/dasdy/softkeys/layout"
	"github.com/dasdy/softkeys/logging"
	"github.com/dasdy/softkeys/model"
	"github.com/dasdy/softkeys/tracker"
)

var logCtx = logging.PackageCtx("overlay")

type Alignment int

const (
	AlignRight Alignment = iota
	AlignLeft
)

// HostGeometry describes where the primary surface sits on screen.
type HostGeometry struct {
	ScreenOffset image.Point
	Padding      Insets
	// Size bounds the overlay measurement.
	Size image.Point
}

type Options struct {
	Align Alignment
	// Columns limits the number of keys per overlay row; zero means no limit.
	Columns int
	// SlideAllowance is the hysteresis distance of the overlay detector.
	SlideAllowance float64
}

// Coordinator owns at most one open overlay at a time.
type Coordinator struct {
	provider  *layout.Provider
	measurer  Measurer
	presenter Presenter
	listener  model.Listener
	cache     *Cache
	opts      Options

	generation uint64
	shifted    bool
	observer   func(model.Activation)

	open       *Entry
	anchorKey  model.KeyPosition
	anchor     image.Point
	hostOffset image.Point
	lastPoint  image.Point
}

// New creates a closed coordinator. presenter may be nil.
func New(provider *layout.Provider, measurer Measurer, presenter Presenter, listener model.Listener, cache *Cache, opts Options) *Coordinator {
	if presenter == nil {
		presenter = nopPresenter{}
	}

	if listener == nil {
		listener = model.NopListener{}
	}

	if cache == nil {
		cache = NewCache()
	}

	return &Coordinator{
		provider:   provider,
		measurer:   measurer,
		presenter:  presenter,
		listener:   listener,
		cache:      cache,
		opts:       opts,
		generation: cache.Generation(),
		anchorKey:  model.NoKey,
	}
}

func (c *Coordinator) SetListener(l model.Listener) {
	c.listener = l
}

// SetObserver registers a callback receiving every overlay activation.
func (c *Coordinator) SetObserver(f func(model.Activation)) {
	c.observer = f
}

func (c *Coordinator) SetShifted(shifted bool) {
	c.shifted = shifted
}

// SetGeneration closes the overlay and forgets every cached overlay built for an older keyboard.
func (c *Coordinator) SetGeneration(generation uint64) {
	c.Dismiss()
	c.generation = generation
	c.cache.Reset(generation)
}

func (c *Coordinator) Cache() *Cache {
	return c.cache
}

func (c *Coordinator) IsOpen() bool {
	return c.open != nil
}

// Open returns the visible overlay, or nil.
func (c *Coordinator) Open() *Entry {
	return c.open
}

func (c *Coordinator) AnchorKey() model.KeyPosition {
	return c.anchorKey
}

// Anchor is the screen position of the overlay's top-left corner.
func (c *Coordinator) Anchor() image.Point {
	return c.anchor
}

// Trigger opens the overlay of key for the gesture of pointer id. An overlay
// already open is dismissed first. Keys without alternates are ignored.
func (c *Coordinator) Trigger(key *model.Key, id model.PointerID, host HostGeometry) bool {
	if key == nil || !key.HasAlternates() {
		return false
	}

	c.Dismiss()

	entry, ok := c.cache.Get(c.generation, key.Position, c.shifted)
	if !ok {
		var err error

		entry, err = c.build(key, host)
		if err != nil {
			slog.ErrorContext(logCtx, "could not build alternatives", "key", key.Position, "error", err)

			return false
		}

		c.cache.Put(c.generation, key.Position, c.shifted, entry)
	}

	c.anchor = c.position(key, entry.Measurement, host)
	c.hostOffset = host.ScreenOffset
	c.anchorKey = key.Position
	c.open = entry

	slog.DebugContext(logCtx, "overlay opened", "key", key.Position, "anchor", c.anchor, "cached", ok)

	c.presenter.Show(entry.Layout, c.anchor, entry.Measurement.Size)

	// The finger already rests near the source key, so preselect the first alternate.
	first := entry.Layout.Key(0)
	entry.Tracker.Down(first.Bounds.Min, id)
	c.lastPoint = first.Bounds.Min

	return true
}

func (c *Coordinator) build(key *model.Key, host HostGeometry) (*Entry, error) {
	chars := key.Alternates
	if c.shifted {
		chars = strings.ToUpper(chars)
	}

	l, err := c.provider.Alternatives(key.PopupTemplate, chars, c.opts.Columns, host.Padding.Left+host.Padding.Right)
	if err != nil {
		return nil, err
	}

	det := detect.New(c.opts.SlideAllowance, c.opts.SlideAllowance)
	det.SetLayout(l, 0, 0)

	entry := &Entry{
		Layout:      l,
		Measurement: c.measurer.Measure(l, host.Size),
	}
	entry.Tracker = tracker.New(model.SurfaceAlternatives, det, relay{c}, c.presenter)

	return entry, nil
}

// position returns the screen location of the overlay: its bottom edge on the
// top edge of key, aligned with the key's right (or left) edge, never off the left side.
func (c *Coordinator) position(key *model.Key, m Measurement, host HostGeometry) image.Point {
	if !m.valid() {
		panic("overlay: positioning before measurement")
	}

	var x int

	switch c.opts.Align {
	case AlignLeft:
		x = key.Bounds.Min.X + host.Padding.Left - m.Padding.Left
	default:
		x = key.Bounds.Min.X + host.Padding.Left + key.Bounds.Dx() - m.Size.X + m.Padding.Right
	}

	y := key.Bounds.Min.Y + host.Padding.Top - m.Size.Y + m.Padding.Bottom

	p := image.Pt(x, y).Add(host.ScreenOffset)
	p.X = max(p.X, 0)

	return p
}

// Remap converts a point of the primary surface into the overlay's key area,
// clamped to that area.
func (c *Coordinator) Remap(p image.Point) image.Point {
	if c.open == nil {
		return p
	}

	m := c.open.Measurement
	local := p.Add(c.hostOffset).Sub(c.anchor).Sub(image.Pt(m.Padding.Left, m.Padding.Top))
	content := m.Content()

	local.X = min(max(local.X, 0), max(content.X-1, 0))
	local.Y = min(max(local.Y, 0), max(content.Y-1, 0))

	return local
}

// Route forwards ev to the open overlay. It reports false when no overlay is
// open and the event belongs to the primary surface.
func (c *Coordinator) Route(ev model.PointerEvent) bool {
	if c.open == nil {
		return false
	}

	t := c.open.Tracker
	p := c.Remap(ev.Position)

	switch ev.Kind {
	case model.PointerDown:
		if !t.Tracking() {
			c.lastPoint = p
		}

		t.Down(p, ev.PointerID)
	case model.PointerMove:
		if !t.Tracking() || t.PointerID() != ev.PointerID {
			return true
		}

		if model.SquaredDistance(p, c.lastPoint) < t.Detector().HysteresisSquared(false) {
			return true
		}

		c.lastPoint = p
		t.Move(p, ev.PointerID)
	case model.PointerUp:
		if !t.Tracking() || t.PointerID() != ev.PointerID {
			return true
		}

		// Lifting the finger always closes the overlay, even if delivery fails.
		defer c.Dismiss()

		if a, ok := t.Up(p, ev.PointerID); ok && c.observer != nil {
			c.observer(a)
		}
	case model.PointerCancel:
		c.Dismiss()
	}

	return true
}

// Dismiss hides the overlay and clears its pressed keys. The cache keeps it.
func (c *Coordinator) Dismiss() {
	if c.open == nil {
		return
	}

	entry := c.open
	c.open = nil
	c.anchorKey = model.NoKey

	entry.Tracker.Cancel()
	c.presenter.Hide()

	slog.DebugContext(logCtx, "overlay dismissed")
}

// relay hands overlay activations to the coordinator's listener.
type relay struct {
	c *Coordinator
}

func (r relay) OnKey(primaryCode int, codes []int) { r.c.listener.OnKey(primaryCode, codes) }
func (relay) OnPress(int)                          {}
func (relay) OnRelease(int)                        {}
func (relay) SwipeLeft()                           {}
func (relay) SwipeRight()                          {}
func (relay) SwipeUp()                             {}
func (relay) SwipeDown()                           {}
