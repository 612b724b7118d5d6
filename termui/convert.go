// Package termui runs a keyboard surface inside a terminal, driven by the mouse.
package termui

import (
	"image"
	"time"

	"github.com/dasdy/softkeys/model"
	"github.com/gdamore/tcell/v2"
)

// DefaultCell is the size of one terminal cell in layout pixels.
var DefaultCell = image.Pt(10, 20)

const mousePointer model.PointerID = 1

// Converter turns tcell mouse reports into pointer events. Terminals report
// button state rather than transitions, so the converter remembers whether the
// primary button was held by the previous report.
type Converter struct {
	Cell image.Point
	// Origin is the cell of the surface's top-left corner.
	Origin image.Point
	Start  time.Time

	down bool
	last image.Point
}

// Point returns the surface pixel at the centre of a terminal cell.
func (c *Converter) Point(x, y int) image.Point {
	cell := image.Pt(x, y).Sub(c.Origin)

	return image.Pt(cell.X*c.Cell.X+c.Cell.X/2, cell.Y*c.Cell.Y+c.Cell.Y/2)
}

// Convert returns false for reports that change nothing: motion without a
// held button, or a held button that stayed in the same cell.
func (c *Converter) Convert(ev *tcell.EventMouse) (model.PointerEvent, bool) {
	p := c.Point(ev.Position())
	pressed := ev.Buttons()&tcell.Button1 != 0

	var kind model.PointerKind

	switch {
	case pressed && !c.down:
		kind = model.PointerDown
	case pressed && p != c.last:
		kind = model.PointerMove
	case !pressed && c.down:
		kind = model.PointerUp
	default:
		return model.PointerEvent{}, false
	}

	c.down, c.last = pressed, p

	return model.PointerEvent{
		Kind:      kind,
		PointerID: mousePointer,
		Position:  p,
		Time:      ev.When().Sub(c.Start),
	}, true
}

// Since returns the gesture clock used for event times.
func (c *Converter) Since(now time.Time) time.Duration {
	return now.Sub(c.Start)
}
