package termui

import (
	"context"
	"image"
	"log/slog"
	"time"
	"unicode"

	"github.com/dasdy/softkeys/keyboard"
	"github.com/dasdy/softkeys/layout"
	"github.com/dasdy/softkeys/logging"
	"github.com/dasdy/softkeys/model"
	"github.com/dasdy/softkeys/overlay"
	"github.com/gdamore/tcell/v2"
)

var logCtx = logging.PackageCtx("termui")

const tickInterval = 50 * time.Millisecond

// Rows above the keyboard are left free for overlays opening over the top row.
const overlayRows = 3

var (
	baseStyle    = tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite)
	keyStyle     = tcell.StyleDefault.Background(tcell.ColorDarkSlateGray).Foreground(tcell.ColorWhite)
	pressedStyle = tcell.StyleDefault.Background(tcell.ColorSteelBlue).Foreground(tcell.ColorWhite)
	popupStyle   = tcell.StyleDefault.Background(tcell.ColorDimGray).Foreground(tcell.ColorWhite)
	textStyle    = tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorLightGreen)
)

// Terminal draws a surface on a tcell screen and types into a line of text.
type Terminal struct {
	model.NopListener

	Surface *keyboard.Surface

	screen tcell.Screen
	conv   Converter

	popup   *layout.KeyLayout
	popupAt image.Point

	text []rune
}

// New binds a surface to screen. A zero opts.Size is replaced by the screen size
// so overlays may open anywhere on it.
func New(screen tcell.Screen, opts keyboard.Options, cell image.Point) *Terminal {
	if opts.Size == (image.Point{}) {
		w, h := screen.Size()
		opts.Size = image.Pt(w*cell.X, h*cell.Y)
	}

	t := &Terminal{
		screen: screen,
		conv:   Converter{Cell: cell, Origin: image.Pt(0, overlayRows), Start: time.Now()},
	}

	t.Surface = keyboard.New(opts, keyboard.Collaborators{
		Presenter: t,
		Listener:  t,
		Measurer:  overlay.ContentMeasurer{Padding: overlay.Insets{Left: cell.X, Top: cell.Y, Right: cell.X, Bottom: cell.Y}},
	})

	return t
}

func (t *Terminal) Text() string {
	return string(t.text)
}

func (t *Terminal) OnKey(primaryCode int, _ []int) {
	switch primaryCode {
	case model.KeyCodeShift:
		t.Surface.SetShifted(!t.Surface.Shifted())
	case model.KeyCodeDelete:
		if len(t.text) > 0 {
			t.text = t.text[:len(t.text)-1]
		}
	case model.KeyCodeDone:
		slog.InfoContext(logCtx, "line entered", "text", string(t.text))
		t.text = t.text[:0]
	default:
		if primaryCode <= 0 {
			slog.DebugContext(logCtx, "ignoring action key", "code", primaryCode)

			return
		}

		r := rune(primaryCode)
		if t.Surface.Shifted() {
			r = unicode.ToUpper(r)
			t.Surface.SetShifted(false)
		}

		t.text = append(t.text, r)
	}
}

func (t *Terminal) Show(l *layout.KeyLayout, at, _ image.Point) {
	t.popup, t.popupAt = l, at
}

func (t *Terminal) Hide() {
	t.popup = nil
}

// Keys are redrawn from their pressed state after every event.
func (t *Terminal) KeyPressed(model.KeyPosition)  {}
func (t *Terminal) KeyReleased(model.KeyPosition) {}

// HandleEvent feeds one terminal event to the surface. It reports whether the
// user asked to quit.
func (t *Terminal) HandleEvent(ev tcell.Event) bool {
	switch e := ev.(type) {
	case *tcell.EventResize:
		t.screen.Sync()
	case *tcell.EventKey:
		if e.Key() == tcell.KeyEscape || e.Key() == tcell.KeyCtrlC {
			return true
		}
	case *tcell.EventMouse:
		if pe, ok := t.conv.Convert(e); ok {
			t.Surface.Handle(pe)
		}
	}

	return false
}

// Run polls the screen until the user quits or ctx is done. The surface is
// only touched from the calling goroutine.
func (t *Terminal) Run(ctx context.Context) error {
	t.screen.EnableMouse(tcell.MouseButtonEvents | tcell.MouseDragEvents)
	defer t.screen.DisableMouse()

	events := make(chan tcell.Event)
	done := make(chan struct{})

	defer close(done)

	go func() {
		for {
			ev := t.screen.PollEvent()
			if ev == nil {
				return
			}

			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		t.Draw()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			if t.HandleEvent(ev) {
				t.Surface.Close()

				return nil
			}
		case now := <-ticker.C:
			if t.Surface.Primary().Tracking() {
				t.Surface.Tick(t.conv.Since(now))
			}
		}
	}
}

func (t *Terminal) Draw() {
	t.screen.Fill(' ', baseStyle)

	l := t.Surface.Layout()
	if l != nil {
		t.drawKeys(l, t.conv.Origin, keyStyle)

		if t.popup != nil {
			at := t.conv.Origin.Add(t.cellOf(t.popupAt))
			t.drawKeys(t.popup, at.Add(image.Pt(1, 1)), popupStyle)
		}

		row := t.conv.Origin.Y + t.cellOf(l.Size()).Y + 1
		drawText(t.screen, 0, row, "> "+string(t.text), textStyle)
	}

	t.screen.Show()
}

func (t *Terminal) cellOf(p image.Point) image.Point {
	return image.Pt(p.X/t.conv.Cell.X, p.Y/t.conv.Cell.Y)
}

func (t *Terminal) drawKeys(l *layout.KeyLayout, origin image.Point, style tcell.Style) {
	for _, key := range l.Keys() {
		st := style
		if key.Pressed {
			st = pressedStyle
		}

		r := image.Rectangle{Min: t.cellOf(key.Bounds.Min), Max: t.cellOf(key.Bounds.Max)}.Add(origin)
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				t.screen.SetContent(x, y, ' ', nil, st)
			}
		}

		c := t.cellOf(key.Center()).Add(origin)
		drawText(t.screen, c.X, c.Y, layout.Label(key), st)
	}
}

func drawText(s tcell.Screen, x, y int, text string, st tcell.Style) {
	for _, r := range text {
		s.SetContent(x, y, r, nil, st)
		x++
	}
}
