// Package touchlog reads pointer traces, one event per line, and replays them
// into a keyboard surface.
package touchlog

import (
	"errors"
	"fmt"
	"image"
	"strconv"
	"strings"
	"time"

	"github.com/dasdy/softkeys/model"
)

// ErrIncomplete is returned for trace lines missing some of their fields.
var ErrIncomplete = errors.New("incomplete trace line")

const fieldCount = 5

// ParseLine parses lines like
//
//	Pointer: 1, action: down, x: 38, y: 10, t: 120
//
// where t is in milliseconds. Lines carrying none of the fields are not trace
// lines and yield (nil, nil).
func ParseLine(line string) (*model.PointerEvent, error) {
	splits := strings.Fields(line)

	var (
		ev         model.PointerEvent
		x, y       int
		foundCount int
		err        error
	)

	ix := 0
	limit := len(splits) - 1 // every field is followed by its value

	for ix < limit {
		curItem := splits[ix]
		nextItem := strings.TrimRight(strings.TrimSuffix(splits[ix+1], "\x1b[0m"), ",")

		switch curItem {
		case "Pointer:":
			var id int

			id, err = strconv.Atoi(nextItem)
			if err != nil {
				return nil, fmt.Errorf("could not parse pointer: %w", err)
			}

			ev.PointerID = model.PointerID(id)
		case "action:":
			ev.Kind, err = parseKind(nextItem)
			if err != nil {
				return nil, err
			}
		case "x:":
			x, err = strconv.Atoi(nextItem)
			if err != nil {
				return nil, fmt.Errorf("could not parse x: %w", err)
			}
		case "y:":
			y, err = strconv.Atoi(nextItem)
			if err != nil {
				return nil, fmt.Errorf("could not parse y: %w", err)
			}
		case "t:":
			var ms int64

			ms, err = strconv.ParseInt(nextItem, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("could not parse time: %w", err)
			}

			ev.Time = time.Duration(ms) * time.Millisecond
		default:
			ix++

			continue
		}

		foundCount++
		ix += 2
	}

	switch foundCount {
	case 0:
		return nil, nil
	case fieldCount:
		ev.Position = image.Pt(x, y)

		return &ev, nil
	default:
		return nil, fmt.Errorf("%w: found %d of %d fields in %q", ErrIncomplete, foundCount, fieldCount, line)
	}
}

func parseKind(s string) (model.PointerKind, error) {
	switch s {
	case "down":
		return model.PointerDown, nil
	case "move":
		return model.PointerMove, nil
	case "up":
		return model.PointerUp, nil
	case "cancel":
		return model.PointerCancel, nil
	default:
		return 0, fmt.Errorf("unexpected action: '%s'", s)
	}
}

// FormatEvent renders ev the way ParseLine reads it.
func FormatEvent(ev model.PointerEvent) string {
	return fmt.Sprintf("Pointer: %d, action: %s, x: %d, y: %d, t: %d",
		ev.PointerID, ev.Kind, ev.Position.X, ev.Position.Y, ev.Time.Milliseconds())
}
