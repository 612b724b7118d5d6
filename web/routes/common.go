package routes

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"
	"github.com/dasdy/softkeys/db"
	"github.com/dasdy/softkeys/layout"
	cs "github.com/dasdy/softkeys/web/components"
)

// ServerHandler holds all dependencies needed for the web server handlers.
type ServerHandler struct {
	Storage   db.Storage
	Sequences db.Tracker
	Layout    *layout.Current
}

// SafeRenderTemplate safely renders a templ component to an http.ResponseWriter.
func SafeRenderTemplate(component templ.Component, w http.ResponseWriter) error {
	// Do not write to w because it implies 200 status
	var buf bytes.Buffer

	err := component.Render(context.Background(), &buf)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)

		return fmt.Errorf("could not render template: %w", err)
	}

	w.Header().Set("Content-Type", "text/html; charset=UTF-8")

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Failed to write response", "error", err)

		return fmt.Errorf("could not write to response writer: %w", err)
	}

	return nil
}

// InitEmptyItems returns one zero-count item per key of l, indexed by position.
func InitEmptyItems(l *layout.KeyLayout) []cs.Item {
	items := make([]cs.Item, 0, l.Len())

	for _, k := range l.Keys() {
		items = append(items, cs.Item{
			Position: int(k.Position),
			Label:    layout.Label(k),
			Bounds:   k.Bounds,
		})
	}

	return items
}
