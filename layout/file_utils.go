package layout

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"github.com/dasdy/softkeys/model"
)

func GetBinaryPath() string {
	//nolint:dogsled
	_, b, _, _ := runtime.Caller(0)

	// Root folder of this project
	fp := filepath.Join(filepath.Dir(b), "..")

	return fp
}

// OpenPath opens absolute paths as is. Relative paths are tried against the
// working directory first and then against the project root.
func OpenPath(path string) (*os.File, error) {
	var err error

	var file *os.File

	if filepath.IsAbs(path) {
		slog.Info("Opening absolute path", "path", path)
		file, err = os.Open(path)
	} else {
		slog.Info("Opening relative path", "path", path)

		file, err = os.Open(path)
		if errors.Is(err, os.ErrNotExist) {
			file, err = os.Open(filepath.Join(GetBinaryPath(), path))
		}
	}

	if err != nil {
		return nil, fmt.Errorf("could not open file %s: %w", path, err)
	}

	return file, nil
}

var actionCodes = map[string]int{
	"SHIFT":   model.KeyCodeShift,
	"MODE":    model.KeyCodeModeChange,
	"CANCEL":  model.KeyCodeCancel,
	"DONE":    model.KeyCodeDone,
	"RET":     model.KeyCodeDone,
	"BSPC":    model.KeyCodeDelete,
	"OPTIONS": model.KeyCodeOptions,
	"LANG":    model.KeyCodeLanguageSwitch,
	"SPACE":   ' ',
	"TAB":     '\t',
	"COMMA":   ',',
	"DOT":     '.',
	"MINUS":   '-',
	"SQT":     '\'',
}

var labels = map[string]string{
	"SHIFT":  "⇧",
	"MODE":   "?123",
	"CANCEL": "✕",
	"DONE":   "↵",
	"RET":    "↵",
	"BSPC":   "⌫",
	"SPACE":  "␣",
	"TAB":    "⇥",
	"LANG":   "🌐",
	"COMMA":  ",",
	"DOT":    ".",
	"MINUS":  "-",
	"SQT":    "'",
}

func isModifierAction(action string) bool {
	switch action {
	case "SHIFT", "MODE":
		return true
	default:
		return false
	}
}

// Label returns the display label for a key, falling back to its primary code.
func Label(k *model.Key) string {
	if k.Label != "" {
		return k.Label
	}

	code := k.PrimaryCode()
	if code > 0 {
		return string(rune(code))
	}

	return fmt.Sprintf("%d", code)
}
