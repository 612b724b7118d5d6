package gioinput

import (
	"image"
	"image/color"
	"time"

	"gioui.org/io/event"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"github.com/dasdy/softkeys/keyboard"
	kl "github.com/dasdy/softkeys/layout"
	"github.com/dasdy/softkeys/model"
	"github.com/dasdy/softkeys/overlay"
)

const popupPadding = 4

var (
	keyColor     = color.NRGBA{R: 0xee, G: 0xee, B: 0xee, A: 0xff}
	pressedColor = color.NRGBA{R: 0x90, G: 0xb4, B: 0xf0, A: 0xff}
	popupColor   = color.NRGBA{R: 0x40, G: 0x40, B: 0x40, A: 0xff}
)

// Keyboard lays out a keyboard.Surface, feeds it the pointer events it
// receives and draws the alternatives overlay above it.
type Keyboard struct {
	Surface *keyboard.Surface

	lastEvent time.Duration
	lastFrame time.Time

	popup     *kl.KeyLayout
	popupAt   image.Point
	popupSize image.Point
}

// New returns a widget presenting its own overlays.
func New(opts keyboard.Options, listener model.Listener) *Keyboard {
	k := &Keyboard{}
	k.Surface = keyboard.New(opts, keyboard.Collaborators{
		Presenter: k,
		Listener:  listener,
		Measurer:  overlay.ContentMeasurer{Padding: overlay.Insets{Left: popupPadding, Top: popupPadding, Right: popupPadding, Bottom: popupPadding}},
	})

	return k
}

func (k *Keyboard) Show(l *kl.KeyLayout, at, size image.Point) {
	k.popup, k.popupAt, k.popupSize = l, at, size
}

func (k *Keyboard) Hide() {
	k.popup = nil
}

// Popup returns the overlay being shown and its top-left corner, if any.
func (k *Keyboard) Popup() (*kl.KeyLayout, image.Point) {
	return k.popup, k.popupAt
}

// Keys are redrawn from their pressed state on every frame.
func (k *Keyboard) KeyPressed(model.KeyPosition)  {}
func (k *Keyboard) KeyReleased(model.KeyPosition) {}

func (k *Keyboard) Layout(gtx layout.Context) layout.Dimensions {
	l := k.Surface.Layout()
	if l == nil {
		return layout.Dimensions{}
	}

	for {
		e, ok := gtx.Event(pointer.Filter{Target: k, Kinds: Kinds})
		if !ok {
			break
		}

		pe, ok := e.(pointer.Event)
		if !ok {
			continue
		}

		if ev, ok := Convert(pe); ok {
			k.Surface.Handle(ev)
			k.lastEvent, k.lastFrame = ev.Time, gtx.Now
		}
	}

	if k.Surface.Primary().Tracking() {
		k.Surface.Tick(k.lastEvent + gtx.Now.Sub(k.lastFrame))
		gtx.Execute(op.InvalidateCmd{At: gtx.Now.Add(50 * time.Millisecond)})
	}

	size := l.Size()
	area := clip.Rect(image.Rectangle{Max: size}).Push(gtx.Ops)
	event.Op(gtx.Ops, k)
	drawKeys(gtx, l)
	area.Pop()

	if k.popup != nil {
		off := op.Offset(k.popupAt).Push(gtx.Ops)
		paint.FillShape(gtx.Ops, popupColor, clip.Rect(image.Rectangle{Max: k.popupSize}).Op())
		inner := op.Offset(image.Pt(popupPadding, popupPadding)).Push(gtx.Ops)
		drawKeys(gtx, k.popup)
		inner.Pop()
		off.Pop()
	}

	return layout.Dimensions{Size: size}
}

func drawKeys(gtx layout.Context, l *kl.KeyLayout) {
	for _, key := range l.Keys() {
		c := keyColor
		if key.Pressed {
			c = pressedColor
		}

		paint.FillShape(gtx.Ops, c, clip.UniformRRect(key.Bounds.Inset(1), 4).Op(gtx.Ops))
	}
}
