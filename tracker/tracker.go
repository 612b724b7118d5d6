// Package tracker follows one pointer at a time over a keyboard surface and
// turns its down/move/up sequence into key presses and activations.
package tracker

import (
	"image"
	"log/slog"

	"github.com/dasdy/softkeys/detect"
	"github.com/dasdy/softkeys/logging"
	"github.com/dasdy/softkeys/model"
)

var logCtx = logging.PackageCtx("tracker")

// Visuals is told when a key changes its pressed state, so it can be redrawn.
type Visuals interface {
	KeyPressed(pos model.KeyPosition)
	KeyReleased(pos model.KeyPosition)
}

// Tracker is either idle or tracking exactly one pointer. Events carrying any
// other pointer id are ignored.
type Tracker struct {
	kind     model.SurfaceKind
	detector *detect.Detector
	listener model.Listener
	visuals  Visuals

	tracking  bool
	pointerID model.PointerID
	current   model.KeyPosition
	downKey   model.KeyPosition
}

// New returns an idle tracker. visuals may be nil.
func New(kind model.SurfaceKind, detector *detect.Detector, listener model.Listener, visuals Visuals) *Tracker {
	if listener == nil {
		listener = model.NopListener{}
	}

	return &Tracker{
		kind:     kind,
		detector: detector,
		listener: listener,
		visuals:  visuals,
		current:  model.NoKey,
		downKey:  model.NoKey,
	}
}

func (t *Tracker) SetListener(l model.Listener) {
	t.listener = l
}

func (t *Tracker) Detector() *detect.Detector {
	return t.detector
}

func (t *Tracker) Tracking() bool {
	return t.tracking
}

func (t *Tracker) PointerID() model.PointerID {
	return t.pointerID
}

func (t *Tracker) CurrentKey() model.KeyPosition {
	return t.current
}

// DownKey is the key hit when the gesture started.
func (t *Tracker) DownKey() model.KeyPosition {
	return t.downKey
}

func (t *Tracker) owns(id model.PointerID) bool {
	return t.tracking && t.pointerID == id
}

func (t *Tracker) Down(p image.Point, id model.PointerID) {
	if t.tracking {
		slog.DebugContext(logCtx, "ignoring second pointer", "surface", t.kind, "pointer", id, "tracked", t.pointerID)

		return
	}

	t.tracking = true
	t.pointerID = id
	t.current = model.NoKey
	t.switchTo(t.detector.Detect(p))
	t.downKey = t.current

	slog.DebugContext(logCtx, "pointer down", "surface", t.kind, "pointer", id, "key", t.current)
}

func (t *Tracker) Move(p image.Point, id model.PointerID) {
	if !t.owns(id) {
		return
	}

	t.switchTo(t.detector.Detect(p))
}

// Up ends the gesture. When a key is held it is released and activated.
func (t *Tracker) Up(p image.Point, id model.PointerID) (model.Activation, bool) {
	if !t.owns(id) {
		return model.Activation{}, false
	}

	held := t.key(t.current)
	t.release(t.current)
	t.reset()

	if held == nil {
		slog.DebugContext(logCtx, "pointer up without key", "surface", t.kind, "pointer", id, "at", p)

		return model.Activation{}, false
	}

	activation := model.Activation{
		Position:    held.Position,
		PrimaryCode: held.PrimaryCode(),
		Codes:       append([]int(nil), held.Codes...),
		Surface:     t.kind,
		Layout:      t.detector.Layout().ID(),
	}

	slog.DebugContext(logCtx, "key activated", "surface", t.kind, "key", held.Position, "code", activation.PrimaryCode)
	t.listener.OnKey(activation.PrimaryCode, activation.Codes)

	return activation, true
}

// Cancel drops the gesture without an activation.
func (t *Tracker) Cancel() {
	if !t.tracking {
		return
	}

	t.release(t.current)
	t.reset()
}

func (t *Tracker) reset() {
	t.tracking = false
	t.current = model.NoKey
	t.downKey = model.NoKey
}

func (t *Tracker) switchTo(next model.KeyPosition) {
	if next == t.current {
		return
	}

	t.release(t.current)
	t.current = next

	if k := t.key(next); k != nil {
		k.Pressed = true

		if t.visuals != nil {
			t.visuals.KeyPressed(next)
		}

		t.listener.OnPress(k.PrimaryCode())
	}
}

func (t *Tracker) release(pos model.KeyPosition) {
	k := t.key(pos)
	if k == nil {
		return
	}

	k.Pressed = false

	if t.visuals != nil {
		t.visuals.KeyReleased(pos)
	}

	t.listener.OnRelease(k.PrimaryCode())
}

func (t *Tracker) key(pos model.KeyPosition) *model.Key {
	l := t.detector.Layout()
	if l == nil {
		return nil
	}

	return l.Key(pos)
}
