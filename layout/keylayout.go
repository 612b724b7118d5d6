package layout

import (
	"image"

	"github.com/dasdy/softkeys/model"
)

const (
	defaultGridCols = 10
	defaultGridRows = 5
	// searchDistance is the proximity radius in units of the most common key width.
	searchDistance = 1.8
)

// KeyLayout is an ordered set of keys plus a proximity grid used to find
// the keys near a point without scanning the whole layout.
//
// Key geometry never changes after construction. Only the visual state of
// keys (Key.Pressed) is mutated, by the tracker bound to the layout.
type KeyLayout struct {
	id   string
	keys []*model.Key
	size image.Point

	proximity int
	gridCols  int
	gridRows  int
	cellW     int
	cellH     int
	grid      [][]model.KeyPosition
}

type Option func(*KeyLayout)

// WithProximity overrides the search radius in pixels.
func WithProximity(radius int) Option {
	return func(l *KeyLayout) {
		l.proximity = radius
	}
}

func WithGrid(cols, rows int) Option {
	return func(l *KeyLayout) {
		if cols > 0 {
			l.gridCols = cols
		}

		if rows > 0 {
			l.gridRows = rows
		}
	}
}

// NewKeyLayout copies keys, renumbers them in the given order and builds the proximity grid.
func NewKeyLayout(id string, keys []model.Key, opts ...Option) *KeyLayout {
	l := &KeyLayout{
		id:        id,
		keys:      make([]*model.Key, len(keys)),
		proximity: -1,
		gridCols:  defaultGridCols,
		gridRows:  defaultGridRows,
	}

	for i := range keys {
		k := keys[i]
		k.Position = model.KeyPosition(i)
		k.Codes = append([]int(nil), keys[i].Codes...)
		k.Pressed = false
		l.keys[i] = &k

		if k.Bounds.Max.X > l.size.X {
			l.size.X = k.Bounds.Max.X
		}

		if k.Bounds.Max.Y > l.size.Y {
			l.size.Y = k.Bounds.Max.Y
		}
	}

	for _, opt := range opts {
		opt(l)
	}

	if l.proximity < 0 {
		l.proximity = int(float64(commonKeyWidth(l.keys)) * searchDistance)
	}

	l.computeNearestNeighbors()

	return l
}

func (l *KeyLayout) ID() string {
	return l.id
}

func (l *KeyLayout) Len() int {
	return len(l.keys)
}

// Key returns the key at pos, or nil when pos is out of range.
func (l *KeyLayout) Key(pos model.KeyPosition) *model.Key {
	if pos < 0 || int(pos) >= len(l.keys) {
		return nil
	}

	return l.keys[pos]
}

func (l *KeyLayout) Keys() []*model.Key {
	return append([]*model.Key(nil), l.keys...)
}

// Size is the bounding size of all keys, measured from the surface origin.
func (l *KeyLayout) Size() image.Point {
	return l.size
}

// NearestKeys returns, in layout order, the keys whose hitbox lies within the
// proximity radius of the grid cell holding p. Points outside the layout get nothing.
func (l *KeyLayout) NearestKeys(p image.Point) []model.KeyPosition {
	if p.X < 0 || p.Y < 0 || p.X >= l.size.X || p.Y >= l.size.Y {
		return nil
	}

	idx := (p.Y/l.cellH)*l.gridCols + p.X/l.cellW
	if idx >= len(l.grid) {
		return nil
	}

	return l.grid[idx]
}

func (l *KeyLayout) computeNearestNeighbors() {
	if l.size.X <= 0 || l.size.Y <= 0 {
		l.cellW, l.cellH = 1, 1
		l.grid = nil

		return
	}

	l.cellW = (l.size.X + l.gridCols - 1) / l.gridCols
	l.cellH = (l.size.Y + l.gridRows - 1) / l.gridRows
	l.grid = make([][]model.KeyPosition, l.gridCols*l.gridRows)

	limit := l.proximity * l.proximity

	for row := range l.gridRows {
		for col := range l.gridCols {
			cell := image.Rect(col*l.cellW, row*l.cellH, (col+1)*l.cellW, (row+1)*l.cellH)
			neighbors := make([]model.KeyPosition, 0)

			for _, k := range l.keys {
				if rectSquaredDistance(cell, k.Bounds) <= limit {
					neighbors = append(neighbors, k.Position)
				}
			}

			l.grid[row*l.gridCols+col] = neighbors
		}
	}
}

// rectSquaredDistance is zero when the rectangles overlap.
func rectSquaredDistance(a, b image.Rectangle) int {
	dx := max(0, b.Min.X-a.Max.X+1, a.Min.X-b.Max.X+1)
	dy := max(0, b.Min.Y-a.Max.Y+1, a.Min.Y-b.Max.Y+1)

	return dx*dx + dy*dy
}

// commonKeyWidth returns the most frequent key width, preferring the narrower one on ties.
func commonKeyWidth(keys []*model.Key) int {
	counts := make(map[int]int)
	best, bestCount := 0, 0

	for _, k := range keys {
		w := k.Bounds.Dx()
		counts[w]++

		c := counts[w]
		if c > bestCount || (c == bestCount && w < best) {
			best, bestCount = w, c
		}
	}

	return best
}
