package layout

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Reload is the outcome of reloading a watched layout file.
type Reload struct {
	File *File
	Err  error
}

// Watch reloads the layout file at path whenever it is written or replaced.
// Results are delivered on the returned channel; the caller applies them on
// its own event loop. The channel is closed once ctx is done.
func Watch(ctx context.Context, path string) (<-chan Reload, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("could not create file watcher: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		watcher.Close()

		return nil, fmt.Errorf("could not resolve %s: %w", path, err)
	}

	// Editors often replace files instead of writing them, so watch the directory.
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()

		return nil, fmt.Errorf("could not watch %s: %w", filepath.Dir(abs), err)
	}

	out := make(chan Reload)

	go func() {
		defer close(out)
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}

				if filepath.Clean(ev.Name) != abs || !ev.Has(fsnotify.Write|fsnotify.Create) {
					continue
				}

				slog.Info("Layout file changed", "path", abs, "op", ev.Op.String())

				f, err := Load(abs)
				select {
				case out <- Reload{File: f, Err: err}:
				case <-ctx.Done():
					return
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}

				slog.Error("Layout watcher error", "error", err)
			}
		}
	}()

	return out, nil
}
