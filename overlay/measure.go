package overlay

import (
	"image"

	"github.com/dasdy/softkeys/layout"
	"github.com/dasdy/softkeys/model"
)

type Insets struct {
	Left, Top, Right, Bottom int
}

// Measurement is the rendered size of an overlay container, padding included.
type Measurement struct {
	Size    image.Point
	Padding Insets
}

func (m Measurement) valid() bool {
	return m.Size.X > 0 && m.Size.Y > 0
}

// Content is the size of the area holding the keys.
func (m Measurement) Content() image.Point {
	return image.Pt(
		m.Size.X-m.Padding.Left-m.Padding.Right,
		m.Size.Y-m.Padding.Top-m.Padding.Bottom,
	)
}

// Measurer is the rendering side's measurement pass. It must run before an
// overlay can be positioned.
type Measurer interface {
	Measure(l *layout.KeyLayout, maxSize image.Point) Measurement
}

// Presenter shows and hides the overlay surface and redraws its keys.
type Presenter interface {
	Show(l *layout.KeyLayout, at image.Point, size image.Point)
	Hide()
	KeyPressed(pos model.KeyPosition)
	KeyReleased(pos model.KeyPosition)
}

// ContentMeasurer sizes an overlay as its keys plus a fixed padding, bounded by maxSize.
type ContentMeasurer struct {
	Padding Insets
}

func (m ContentMeasurer) Measure(l *layout.KeyLayout, maxSize image.Point) Measurement {
	size := l.Size().Add(image.Pt(m.Padding.Left+m.Padding.Right, m.Padding.Top+m.Padding.Bottom))

	if maxSize.X > 0 {
		size.X = min(size.X, maxSize.X)
	}

	if maxSize.Y > 0 {
		size.Y = min(size.Y, maxSize.Y)
	}

	return Measurement{Size: size, Padding: m.Padding}
}

type nopPresenter struct{}

func (nopPresenter) Show(*layout.KeyLayout, image.Point, image.Point) {}
func (nopPresenter) Hide()                                            {}
func (nopPresenter) KeyPressed(model.KeyPosition)                     {}
func (nopPresenter) KeyReleased(model.KeyPosition)                    {}
