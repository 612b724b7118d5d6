package termui_test

import (
	"image"
	"testing"
	"time"

	"github.com/dasdy/softkeys/model"
	"github.com/dasdy/softkeys/termui"
	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConverter(t *testing.T) {
	conv := termui.Converter{Cell: termui.DefaultCell, Origin: image.Pt(0, 2), Start: time.Now().Add(-time.Second)}

	steps := []struct {
		name    string
		x, y    int
		buttons tcell.ButtonMask
		kind    model.PointerKind
		pos     image.Point
		ok      bool
	}{
		{name: "hover is ignored", x: 1, y: 2, buttons: tcell.ButtonNone},
		{name: "press", x: 1, y: 2, buttons: tcell.Button1, kind: model.PointerDown, pos: image.Pt(15, 10), ok: true},
		{name: "same cell", x: 1, y: 2, buttons: tcell.Button1},
		{name: "drag", x: 3, y: 3, buttons: tcell.Button1, kind: model.PointerMove, pos: image.Pt(35, 30), ok: true},
		{name: "release", x: 4, y: 3, buttons: tcell.ButtonNone, kind: model.PointerUp, pos: image.Pt(45, 30), ok: true},
		{name: "motion after release", x: 5, y: 3, buttons: tcell.ButtonNone},
		{name: "secondary button", x: 5, y: 3, buttons: tcell.Button2},
	}

	for _, step := range steps {
		ev, ok := conv.Convert(tcell.NewEventMouse(step.x, step.y, step.buttons, tcell.ModNone))
		require.Equal(t, step.ok, ok, step.name)

		if !ok {
			continue
		}

		assert.Equal(t, step.kind, ev.Kind, step.name)
		assert.Equal(t, step.pos, ev.Position, step.name)
		assert.Equal(t, model.PointerID(1), ev.PointerID, step.name)
		assert.GreaterOrEqual(t, ev.Time, time.Second, step.name)
	}
}
