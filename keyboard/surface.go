// Package keyboard hosts the primary keyboard surface. It owns the primary
// tracker, decides which motion samples are significant, detects long presses
// and hands gestures over to the alternatives overlay.
package keyboard

import (
	"fmt"
	"image"
	"log/slog"
	"time"

	"github.com/dasdy/softkeys/detect"
	"github.com/dasdy/softkeys/layout"
	"github.com/dasdy/softkeys/logging"
	"github.com/dasdy/softkeys/model"
	"github.com/dasdy/softkeys/overlay"
	"github.com/dasdy/softkeys/tracker"
)

var logCtx = logging.PackageCtx("keyboard")

type Options struct {
	// Hysteresis is the distance a pointer must travel before a move is re-detected.
	Hysteresis float64
	// ModifierHysteresis replaces Hysteresis for slides starting on a modifier key.
	ModifierHysteresis float64
	LongPressDelay     time.Duration

	Padding      overlay.Insets
	ScreenOffset image.Point
	// Size of the surface; zero means the layout size plus padding.
	Size image.Point

	// SwipeMinDistance enables swipe gestures when positive.
	SwipeMinDistance int
	// SwipeMinVelocity is in pixels per second.
	SwipeMinVelocity float64

	Overlay overlay.Options
}

func DefaultOptions() Options {
	return Options{
		Hysteresis:         20,
		ModifierHysteresis: 40,
		LongPressDelay:     400 * time.Millisecond,
		SwipeMinVelocity:   500,
	}
}

// Collaborators are the host-provided pieces a Surface talks to. Visuals,
// Presenter and Listener may be nil.
type Collaborators struct {
	Provider  *layout.Provider
	Measurer  overlay.Measurer
	Presenter overlay.Presenter
	Visuals   tracker.Visuals
	Listener  model.Listener
	Cache     *overlay.Cache
}

type Surface struct {
	opts     Options
	listener model.Listener
	observer func(model.Activation)

	detector *detect.Detector
	primary  *tracker.Tracker
	overlay  *overlay.Coordinator
	provider *layout.Provider

	layout     *layout.KeyLayout
	generation uint64
	shifted    bool

	downAt      image.Point
	downTime    time.Duration
	lastPoint   image.Point
	heldSince   time.Duration
	longPressed bool
}

func New(opts Options, c Collaborators) *Surface {
	listener := c.Listener
	if listener == nil {
		listener = model.NopListener{}
	}

	measurer := c.Measurer
	if measurer == nil {
		measurer = overlay.ContentMeasurer{}
	}

	provider := c.Provider
	if provider == nil {
		provider = layout.NewProvider(layout.DefaultTemplate)
	}

	det := detect.New(opts.Hysteresis, opts.ModifierHysteresis)

	return &Surface{
		opts:     opts,
		listener: listener,
		detector: det,
		primary:  tracker.New(model.SurfacePrimary, det, listener, c.Visuals),
		overlay:  overlay.New(provider, measurer, c.Presenter, listener, c.Cache, opts.Overlay),
		provider: provider,
	}
}

// SetObserver registers a callback receiving every activation, primary or overlay.
func (s *Surface) SetObserver(f func(model.Activation)) {
	s.observer = f
	s.overlay.SetObserver(f)
}

func (s *Surface) Layout() *layout.KeyLayout {
	return s.layout
}

func (s *Surface) Generation() uint64 {
	return s.generation
}

func (s *Surface) Primary() *tracker.Tracker {
	return s.primary
}

func (s *Surface) Overlay() *overlay.Coordinator {
	return s.overlay
}

// SetLayout swaps the keyboard. Any gesture in progress is dropped and every
// cached overlay of the previous keyboard is forgotten.
func (s *Surface) SetLayout(l *layout.KeyLayout) {
	s.primary.Cancel()
	s.detector.SetLayout(l, -s.opts.Padding.Left, -s.opts.Padding.Top)
	s.layout = l
	s.generation++
	s.overlay.SetGeneration(s.generation)

	slog.InfoContext(logCtx, "layout bound", "layout", l.ID(), "keys", l.Len(), "generation", s.generation)
}

// SetLayoutFile builds the keyboard described by f, registers its popup
// templates and binds it.
func (s *Surface) SetLayoutFile(f *layout.File) error {
	l, err := f.Build()
	if err != nil {
		return fmt.Errorf("could not build layout %s: %w", f.ID, err)
	}

	for name, t := range f.Templates {
		s.provider.Register(name, t)
	}

	s.SetLayout(l)

	return nil
}

func (s *Surface) SetShifted(shifted bool) {
	s.shifted = shifted
	s.overlay.SetShifted(shifted)
}

func (s *Surface) Shifted() bool {
	return s.shifted
}

// Close ends the input session: gestures are dropped and cached overlays freed.
func (s *Surface) Close() {
	s.primary.Cancel()
	s.generation++
	s.overlay.SetGeneration(s.generation)
}

// Handle processes one pointer event. While an overlay is open every event goes to it.
func (s *Surface) Handle(ev model.PointerEvent) {
	if s.overlay.Route(ev) {
		return
	}

	switch ev.Kind {
	case model.PointerDown:
		if s.primary.Tracking() {
			return
		}

		s.primary.Down(ev.Position, ev.PointerID)
		s.downAt = ev.Position
		s.lastPoint = ev.Position
		s.downTime = ev.Time
		s.heldSince = ev.Time
		s.longPressed = false
	case model.PointerMove:
		if !s.owns(ev.PointerID) {
			return
		}

		s.move(ev)
		s.Tick(ev.Time)
	case model.PointerUp:
		if !s.owns(ev.PointerID) {
			return
		}

		s.up(ev)
	case model.PointerCancel:
		if s.owns(ev.PointerID) {
			s.primary.Cancel()
		}
	}
}

func (s *Surface) owns(id model.PointerID) bool {
	return s.primary.Tracking() && s.primary.PointerID() == id
}

func (s *Surface) slidingFromModifier() bool {
	if s.layout == nil {
		return false
	}

	k := s.layout.Key(s.primary.DownKey())

	return k != nil && k.Modifier
}

func (s *Surface) move(ev model.PointerEvent) {
	threshold := s.detector.HysteresisSquared(s.slidingFromModifier())
	if model.SquaredDistance(ev.Position, s.lastPoint) < threshold {
		return
	}

	before := s.primary.CurrentKey()
	s.primary.Move(ev.Position, ev.PointerID)
	s.lastPoint = ev.Position

	if s.primary.CurrentKey() != before {
		s.heldSince = ev.Time
	}
}

func (s *Surface) up(ev model.PointerEvent) {
	if s.swipe(ev) {
		s.primary.Cancel()

		return
	}

	if a, ok := s.primary.Up(ev.Position, ev.PointerID); ok && s.observer != nil {
		s.observer(a)
	}
}

// swipe emits a swipe gesture for fast, long strokes. It reports whether one was emitted.
func (s *Surface) swipe(ev model.PointerEvent) bool {
	if s.opts.SwipeMinDistance <= 0 {
		return false
	}

	d := ev.Position.Sub(s.downAt)
	dx, dy := abs(d.X), abs(d.Y)
	dist := max(dx, dy)

	if dist < s.opts.SwipeMinDistance {
		return false
	}

	if elapsed := (ev.Time - s.downTime).Seconds(); elapsed > 0 && float64(dist)/elapsed < s.opts.SwipeMinVelocity {
		return false
	}

	switch {
	case dx >= dy && d.X < 0:
		s.listener.SwipeLeft()
	case dx >= dy:
		s.listener.SwipeRight()
	case d.Y < 0:
		s.listener.SwipeUp()
	default:
		s.listener.SwipeDown()
	}

	return true
}

// Tick fires a long press once the pointer has rested on the same key for
// LongPressDelay. Hosts call it from their timer; moves call it too.
func (s *Surface) Tick(now time.Duration) bool {
	if s.overlay.IsOpen() || !s.primary.Tracking() || s.longPressed || s.opts.LongPressDelay <= 0 {
		return false
	}

	if s.primary.CurrentKey() == model.NoKey || now-s.heldSince < s.opts.LongPressDelay {
		return false
	}

	return s.LongPress()
}

// LongPress handles a long press on the key currently held, at most once per gesture.
func (s *Surface) LongPress() bool {
	if !s.primary.Tracking() || s.longPressed || s.layout == nil {
		return false
	}

	key := s.layout.Key(s.primary.CurrentKey())
	if key == nil {
		return false
	}

	s.longPressed = true

	if key.PrimaryCode() == model.KeyCodeCancel {
		s.primary.Cancel()
		s.listener.OnKey(model.KeyCodeOptions, []int{model.KeyCodeOptions})

		return true
	}

	if !key.HasAlternates() {
		return false
	}

	id := s.primary.PointerID()
	if !s.overlay.Trigger(key, id, s.hostGeometry()) {
		return false
	}

	// The overlay owns the pointer from now on.
	s.primary.Cancel()

	slog.DebugContext(logCtx, "long press opened alternatives", "key", key.Position, "pointer", id)

	return true
}

func (s *Surface) hostGeometry() overlay.HostGeometry {
	size := s.opts.Size
	if size == (image.Point{}) && s.layout != nil {
		size = s.layout.Size().Add(image.Pt(
			s.opts.Padding.Left+s.opts.Padding.Right,
			s.opts.Padding.Top+s.opts.Padding.Bottom,
		))
	}

	return overlay.HostGeometry{
		ScreenOffset: s.opts.ScreenOffset,
		Padding:      s.opts.Padding,
		Size:         size,
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}

	return v
}
