package tracker_test

import (
	"fmt"
	"image"
	"testing"

	"github.com/dasdy/softkeys/detect"
	"github.com/dasdy/softkeys/layout"
	"github.com/dasdy/softkeys/model"
	"github.com/dasdy/softkeys/tracker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder logs listener and visuals callbacks in order.
type recorder struct {
	events []string
}

func (r *recorder) OnKey(primaryCode int, _ []int) { r.add("key %c", primaryCode) }
func (r *recorder) OnPress(primaryCode int)        { r.add("press %c", primaryCode) }
func (r *recorder) OnRelease(primaryCode int)      { r.add("release %c", primaryCode) }
func (r *recorder) SwipeLeft()                     { r.add("swipe left") }
func (r *recorder) SwipeRight()                    { r.add("swipe right") }
func (r *recorder) SwipeUp()                       { r.add("swipe up") }
func (r *recorder) SwipeDown()                     { r.add("swipe down") }

func (r *recorder) add(format string, args ...any) {
	r.events = append(r.events, fmt.Sprintf(format, args...))
}

type visuals struct {
	pressed  []model.KeyPosition
	released []model.KeyPosition
}

func (v *visuals) KeyPressed(pos model.KeyPosition)  { v.pressed = append(v.pressed, pos) }
func (v *visuals) KeyReleased(pos model.KeyPosition) { v.released = append(v.released, pos) }

func setup(t *testing.T) (*tracker.Tracker, *layout.KeyLayout, *recorder, *visuals) {
	t.Helper()

	l := layout.NewKeyLayout("ab", []model.Key{
		{Bounds: image.Rect(0, 0, 40, 40), Codes: []int{'a'}},
		{Bounds: image.Rect(40, 0, 80, 40), Codes: []int{'b'}},
	})
	d := detect.New(20, 40)
	d.SetLayout(l, 0, 0)

	r := &recorder{}
	v := &visuals{}

	return tracker.New(model.SurfacePrimary, d, r, v), l, r, v
}

func TestTrackerSlide(t *testing.T) {
	tr, l, r, v := setup(t)

	tr.Down(image.Pt(38, 10), 1)
	assert.True(t, l.Key(0).Pressed)
	assert.Equal(t, model.KeyPosition(0), tr.DownKey())

	tr.Move(image.Pt(62, 10), 1)
	assert.False(t, l.Key(0).Pressed)
	assert.True(t, l.Key(1).Pressed)

	a, ok := tr.Up(image.Pt(62, 10), 1)
	require.True(t, ok)

	assert.Equal(t, model.Activation{
		Position:    1,
		PrimaryCode: 'b',
		Codes:       []int{'b'},
		Surface:     model.SurfacePrimary,
		Layout:      "ab",
	}, a)
	assert.Equal(t, []string{"press a", "release a", "press b", "release b", "key b"}, r.events)
	assert.Equal(t, []model.KeyPosition{0, 1}, v.pressed)
	assert.Equal(t, []model.KeyPosition{0, 1}, v.released)
	assert.False(t, tr.Tracking())
	assert.False(t, l.Key(1).Pressed)
}

func TestTrackerMoveWithinKey(t *testing.T) {
	tr, _, r, _ := setup(t)

	tr.Down(image.Pt(10, 10), 1)
	tr.Move(image.Pt(20, 10), 1)
	tr.Move(image.Pt(30, 30), 1)

	assert.Equal(t, []string{"press a"}, r.events)
}

func TestTrackerIgnoresOtherPointers(t *testing.T) {
	tr, l, r, _ := setup(t)

	tr.Down(image.Pt(10, 10), 1)
	tr.Down(image.Pt(50, 10), 2)
	tr.Move(image.Pt(50, 10), 2)

	_, ok := tr.Up(image.Pt(50, 10), 2)

	assert.False(t, ok)
	assert.True(t, tr.Tracking())
	assert.Equal(t, model.PointerID(1), tr.PointerID())
	assert.True(t, l.Key(0).Pressed)
	assert.False(t, l.Key(1).Pressed)
	assert.Equal(t, []string{"press a"}, r.events)
}

func TestTrackerDownOutsideKeys(t *testing.T) {
	tr, l, r, _ := setup(t)

	tr.Down(image.Pt(100, 10), 1)
	assert.True(t, tr.Tracking())
	assert.Equal(t, model.NoKey, tr.CurrentKey())
	assert.Empty(t, r.events)

	tr.Move(image.Pt(50, 10), 1)
	assert.True(t, l.Key(1).Pressed)

	a, ok := tr.Up(image.Pt(50, 10), 1)
	require.True(t, ok)
	assert.Equal(t, 'b', rune(a.PrimaryCode))
	assert.Equal(t, model.NoKey, tr.DownKey())
}

func TestTrackerUpOutsideKeys(t *testing.T) {
	tr, l, r, _ := setup(t)

	tr.Down(image.Pt(10, 10), 1)
	tr.Move(image.Pt(200, 10), 1)

	_, ok := tr.Up(image.Pt(200, 10), 1)

	assert.False(t, ok)
	assert.False(t, tr.Tracking())
	assert.False(t, l.Key(0).Pressed)
	assert.Equal(t, []string{"press a", "release a"}, r.events)
}

func TestTrackerCancel(t *testing.T) {
	tr, l, r, v := setup(t)

	tr.Down(image.Pt(50, 10), 1)
	tr.Cancel()

	assert.False(t, tr.Tracking())
	assert.False(t, l.Key(1).Pressed)
	assert.Equal(t, []string{"press b", "release b"}, r.events)
	assert.Equal(t, []model.KeyPosition{1}, v.released)

	_, ok := tr.Up(image.Pt(50, 10), 1)
	assert.False(t, ok)

	tr.Cancel()
	assert.Len(t, r.events, 2)
}

func TestTrackerWithoutLayout(t *testing.T) {
	r := &recorder{}
	tr := tracker.New(model.SurfacePrimary, detect.New(0, 0), r, nil)

	tr.Down(image.Pt(10, 10), 1)
	_, ok := tr.Up(image.Pt(10, 10), 1)

	assert.False(t, ok)
	assert.Empty(t, r.events)
}
