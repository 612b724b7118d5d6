package touchlog

import (
	"context"
	"log/slog"
	"time"

	"github.com/dasdy/softkeys/keyboard"
	"github.com/dasdy/softkeys/layout"
	"github.com/dasdy/softkeys/logging"
)

var logCtx = logging.PackageCtx("touchlog")

// Session feeds trace lines into a surface. Everything the surface sees happens
// on the goroutine running Run.
type Session struct {
	Surface *keyboard.Surface
	Verbose bool
	// TickInterval fires long presses while the pointer rests and no line
	// arrives. Zero leaves long presses to the trace timestamps.
	TickInterval time.Duration
	// OnReload, if set, receives every layout applied from reloads.
	OnReload func(*layout.KeyLayout)
}

// Run returns when lines is closed or ctx is done. reloads may be nil.
func (s *Session) Run(ctx context.Context, lines <-chan string, reloads <-chan layout.Reload) error {
	var ticks <-chan time.Time

	if s.TickInterval > 0 {
		ticker := time.NewTicker(s.TickInterval)
		defer ticker.Stop()

		ticks = ticker.C
	}

	var (
		traceTime time.Duration
		wallTime  time.Time
	)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				slog.InfoContext(logCtx, "trace input ended")

				return nil
			}

			ev, err := ParseLine(line)
			if err != nil {
				slog.WarnContext(logCtx, "could not parse trace line", "line", line, "error", err)

				continue
			}

			if ev == nil {
				continue
			}

			if s.Verbose {
				slog.InfoContext(logCtx, "pointer event", "event", FormatEvent(*ev))
			}

			// Time passed since the previous line may complete a long press.
			s.Surface.Tick(ev.Time)
			s.Surface.Handle(*ev)

			traceTime, wallTime = ev.Time, time.Now()
		case r, ok := <-reloads:
			if !ok {
				reloads = nil

				continue
			}

			if r.Err != nil {
				slog.ErrorContext(logCtx, "could not reload layout", "error", r.Err)

				continue
			}

			if err := s.Surface.SetLayoutFile(r.File); err != nil {
				slog.ErrorContext(logCtx, "could not apply reloaded layout", "error", err)

				continue
			}

			if s.OnReload != nil {
				s.OnReload(s.Surface.Layout())
			}
		case now := <-ticks:
			if !wallTime.IsZero() {
				s.Surface.Tick(traceTime + now.Sub(wallTime))
			}
		}
	}
}
