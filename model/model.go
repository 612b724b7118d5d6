package model

import (
	"image"
	"time"
)

// Position of the key inside its layout.
type KeyPosition int

// NoKey is returned when a point does not hit any key.
const NoKey KeyPosition = -1

// Key codes with a special meaning for the host keyboard.
const (
	KeyCodeShift          = -1
	KeyCodeModeChange     = -2
	KeyCodeCancel         = -3
	KeyCodeDone           = -4
	KeyCodeDelete         = -5
	KeyCodeOptions        = -100
	KeyCodeLanguageSwitch = -101
)

type Key struct {
	Position KeyPosition
	// Bounds is the hitbox in surface-local coordinates.
	Bounds image.Rectangle
	// Codes[0] is the primary code.
	Codes []int
	Label string
	// Alternates lists the characters offered by the long-press overlay.
	Alternates string
	// PopupTemplate names the template used to lay out the overlay keys.
	PopupTemplate string
	Modifier      bool
	Pressed       bool
}

func (k *Key) PrimaryCode() int {
	if len(k.Codes) == 0 {
		return 0
	}

	return k.Codes[0]
}

func (k *Key) HasAlternates() bool {
	return k.Alternates != ""
}

// Contains reports whether p is inside the hitbox. Right and bottom edges are exclusive.
func (k *Key) Contains(p image.Point) bool {
	return p.In(k.Bounds)
}

func (k *Key) Center() image.Point {
	return image.Pt(
		k.Bounds.Min.X+k.Bounds.Dx()/2,
		k.Bounds.Min.Y+k.Bounds.Dy()/2,
	)
}

func (k *Key) SquaredDistanceFrom(p image.Point) int {
	return SquaredDistance(k.Center(), p)
}

func SquaredDistance(a, b image.Point) int {
	d := a.Sub(b)

	return d.X*d.X + d.Y*d.Y
}

type SurfaceKind int

const (
	SurfacePrimary SurfaceKind = iota
	SurfaceAlternatives
)

func (s SurfaceKind) String() string {
	switch s {
	case SurfacePrimary:
		return "primary"
	case SurfaceAlternatives:
		return "alternatives"
	default:
		return "unknown"
	}
}

// Activation is a committed key press.
type Activation struct {
	Position    KeyPosition
	PrimaryCode int
	Codes       []int
	Surface     SurfaceKind
	Layout      string
}

type ActivationWithTimestamp struct {
	Activation
	Timestamp time.Time
}

type MinimalActivation struct {
	Position KeyPosition
	Layout   string
	Count    int
}

type PointerKind int

const (
	PointerDown PointerKind = iota
	PointerMove
	PointerUp
	PointerCancel
)

func (k PointerKind) String() string {
	switch k {
	case PointerDown:
		return "down"
	case PointerMove:
		return "move"
	case PointerUp:
		return "up"
	case PointerCancel:
		return "cancel"
	default:
		return "unknown"
	}
}

type PointerID int

type PointerEvent struct {
	Kind      PointerKind
	PointerID PointerID
	Position  image.Point
	// Time is a monotonic timestamp supplied by the host.
	Time time.Duration
}

// Sequence counts how often To was activated right after From.
type Sequence struct {
	From, To KeyPosition
	Count    int
}
