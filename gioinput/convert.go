// Package gioinput drives a keyboard surface from a Gio window.
package gioinput

import (
	"image"
	"math"

	"gioui.org/io/pointer"
	"github.com/dasdy/softkeys/model"
)

// Kinds are the pointer events a keyboard widget listens to.
const Kinds = pointer.Press | pointer.Drag | pointer.Release | pointer.Cancel

// Convert translates a Gio pointer event. Events other than Kinds are rejected.
func Convert(e pointer.Event) (model.PointerEvent, bool) {
	var kind model.PointerKind

	switch e.Kind {
	case pointer.Press:
		kind = model.PointerDown
	case pointer.Drag:
		kind = model.PointerMove
	case pointer.Release:
		kind = model.PointerUp
	case pointer.Cancel:
		kind = model.PointerCancel
	default:
		return model.PointerEvent{}, false
	}

	return model.PointerEvent{
		Kind:      kind,
		PointerID: model.PointerID(e.PointerID),
		Position:  image.Pt(int(math.Round(float64(e.Position.X))), int(math.Round(float64(e.Position.Y)))),
		Time:      e.Time,
	}, true
}
