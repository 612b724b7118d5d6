package gioinput_test

import (
	"image"
	"testing"
	"time"

	"gioui.org/f32"
	"gioui.org/io/pointer"
	"github.com/dasdy/softkeys/gioinput"
	"github.com/dasdy/softkeys/model"
	"github.com/stretchr/testify/assert"
)

func TestConvert(t *testing.T) {
	tests := []struct {
		name string
		kind pointer.Kind
		want model.PointerKind
	}{
		{"press", pointer.Press, model.PointerDown},
		{"drag", pointer.Drag, model.PointerMove},
		{"release", pointer.Release, model.PointerUp},
		{"cancel", pointer.Cancel, model.PointerCancel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, ok := gioinput.Convert(pointer.Event{
				Kind:      tt.kind,
				PointerID: 3,
				Position:  f32.Pt(12.4, 7.6),
				Time:      250 * time.Millisecond,
			})

			assert.True(t, ok)
			assert.Equal(t, model.PointerEvent{
				Kind:      tt.want,
				PointerID: 3,
				Position:  image.Pt(12, 8),
				Time:      250 * time.Millisecond,
			}, ev)
		})
	}

	t.Run("ignores hover and scroll", func(t *testing.T) {
		_, ok := gioinput.Convert(pointer.Event{Kind: pointer.Move})
		assert.False(t, ok)

		_, ok = gioinput.Convert(pointer.Event{Kind: pointer.Scroll})
		assert.False(t, ok)
	})
}
