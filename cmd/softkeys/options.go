package softkeys

import (
	"fmt"
	"time"

	"github.com/dasdy/softkeys/keyboard"
	"github.com/dasdy/softkeys/layout"
	"github.com/spf13/pflag"
)

var (
	layoutPath         string
	storagePath        string
	port               int
	verbose            bool
	dev                bool
	hysteresis         float64
	modifierHysteresis float64
	longPress          time.Duration
	swipeDistance      int
)

// addKeyboardFlags registers the flags shared by every command driving a surface.
func addKeyboardFlags(flags *pflag.FlagSet) {
	defaults := keyboard.DefaultOptions()

	flags.StringVarP(&layoutPath, "layout", "l", "qwerty.toml",
		"Layout file (json, toml or yaml)")
	flags.Float64Var(&hysteresis, "hysteresis", defaults.Hysteresis,
		"Distance in pixels a pointer travels before its key is re-detected")
	flags.Float64Var(&modifierHysteresis, "modifier-hysteresis", defaults.ModifierHysteresis,
		"Hysteresis used while sliding away from a modifier key")
	flags.DurationVar(&longPress, "long-press", defaults.LongPressDelay,
		"How long a key is held before its alternatives open")
	flags.IntVar(&swipeDistance, "swipe-distance", 0,
		"Minimal stroke length in pixels recognized as a swipe, 0 disables swipes")
}

func keyboardOptions() keyboard.Options {
	opts := keyboard.DefaultOptions()
	opts.Hysteresis = hysteresis
	opts.ModifierHysteresis = modifierHysteresis
	opts.LongPressDelay = longPress
	opts.SwipeMinDistance = swipeDistance

	return opts
}

func loadLayout() (*layout.File, error) {
	file, err := layout.Load(layoutPath)
	if err != nil {
		return nil, fmt.Errorf("could not load layout: %w", err)
	}

	return file, nil
}
