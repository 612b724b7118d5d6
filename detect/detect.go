// Package detect maps touch points to keys of a layout.
package detect

import (
	"image"
	"math"

	"github.com/dasdy/softkeys/layout"
	"github.com/dasdy/softkeys/model"
)

// Detector finds the key hit by a touch point. It is safe to call Detect on
// every motion sample: it never mutates anything.
type Detector struct {
	hysteresisSquared         int
	modifierHysteresisSquared int

	layout     *layout.KeyLayout
	correction image.Point
}

// New creates a detector with key hysteresis distances in pixels. Movements
// shorter than hysteresis are not meaningful; modifierHysteresis is the same
// for slides that start on a modifier key such as shift.
func New(hysteresis, modifierHysteresis float64) *Detector {
	return &Detector{
		hysteresisSquared:         squared(hysteresis),
		modifierHysteresisSquared: squared(modifierHysteresis),
	}
}

func squared(d float64) int {
	return int(math.Floor(d * d))
}

// SetLayout binds l with a calibration offset added to every point before hit-testing.
func (d *Detector) SetLayout(l *layout.KeyLayout, correctionX, correctionY int) {
	if l == nil {
		panic("detect: nil layout")
	}

	d.layout = l
	d.correction = image.Pt(correctionX, correctionY)
}

func (d *Detector) Layout() *layout.KeyLayout {
	return d.layout
}

func (d *Detector) HysteresisSquared(slidingFromModifier bool) int {
	if slidingFromModifier {
		return d.modifierHysteresisSquared
	}

	return d.hysteresisSquared
}

func (d *Detector) Touch(p image.Point) image.Point {
	return p.Add(d.correction)
}

// Detect returns the key whose hitbox contains p and whose centre is nearest
// to it, or model.NoKey. Among equally near keys the first in layout order wins.
func (d *Detector) Detect(p image.Point) model.KeyPosition {
	if d.layout == nil {
		return model.NoKey
	}

	touch := d.Touch(p)
	minDistance := math.MaxInt
	found := model.NoKey

	for _, pos := range d.layout.NearestKeys(touch) {
		key := d.layout.Key(pos)
		if !key.Contains(touch) {
			continue
		}

		if dist := key.SquaredDistanceFrom(touch); dist < minDistance {
			minDistance = dist
			found = pos
		}
	}

	return found
}
