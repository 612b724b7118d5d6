package touchlog_test

import (
	"image"
	"testing"
	"time"

	"github.com/dasdy/softkeys/model"
	"github.com/dasdy/softkeys/touchlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLine(t *testing.T) {
	testCases := []struct {
		name     string
		line     string
		expected *model.PointerEvent
	}{
		{
			"full line",
			"Pointer: 1, action: down, x: 38, y: 10, t: 120",
			&model.PointerEvent{Kind: model.PointerDown, PointerID: 1, Position: image.Pt(38, 10), Time: 120 * time.Millisecond},
		},
		{
			"prefixed line with escape code",
			"[23:09:36.886,444] <dbg> touch: Pointer: 2, action: cancel, x: -4, y: 0, t: 7\x1b[0m",
			&model.PointerEvent{Kind: model.PointerCancel, PointerID: 2, Position: image.Pt(-4, 0), Time: 7 * time.Millisecond},
		},
		{
			"unrelated line",
			"[23:09:36.886,444] <inf> usb: configured",
			nil,
		},
		{
			"empty line",
			"",
			nil,
		},
	}

	for _, item := range testCases {
		t.Run("parses "+item.name, func(t *testing.T) {
			res, err := touchlog.ParseLine(item.line)

			require.NoError(t, err)
			assert.Equal(t, item.expected, res)
		})
	}

	errorTestCases := []struct {
		name string
		line string
	}{
		{"unknown action", "Pointer: 1, action: hover, x: 38, y: 10, t: 120"},
		{"malformed x", "Pointer: 1, action: move, x: k, y: 10, t: 120"},
		{"malformed pointer", "Pointer: :, action: move, x: 1, y: 10, t: 120"},
		{"malformed time", "Pointer: 1, action: move, x: 1, y: 10, t: 1.5"},
	}

	for _, item := range errorTestCases {
		t.Run("does not parse "+item.name, func(t *testing.T) {
			res, err := touchlog.ParseLine(item.line)

			require.Error(t, err)
			assert.Nil(t, res)
		})
	}

	t.Run("reports missing fields", func(t *testing.T) {
		res, err := touchlog.ParseLine("Pointer: 1, action: up, x: 3")

		assert.ErrorIs(t, err, touchlog.ErrIncomplete)
		assert.Nil(t, res)
	})
}

func TestFormatEvent(t *testing.T) {
	ev := model.PointerEvent{Kind: model.PointerMove, PointerID: 3, Position: image.Pt(5, 6), Time: 1500 * time.Millisecond}

	line := touchlog.FormatEvent(ev)
	assert.Equal(t, "Pointer: 3, action: move, x: 5, y: 6, t: 1500", line)

	parsed, err := touchlog.ParseLine(line)
	require.NoError(t, err)
	assert.Equal(t, &ev, parsed)
}

var result *model.PointerEvent

func BenchmarkParseLine(b *testing.B) {
	line := "[23:09:36.886,444] <dbg> touch: Pointer: 1, action: move, x: 62, y: 10, t: 40\x1b[0m"

	var r *model.PointerEvent

	for range b.N {
		r, _ = touchlog.ParseLine(line)
	}

	result = r
}
