package web

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/dasdy/softkeys/db"
	"github.com/dasdy/softkeys/layout"
	"github.com/dasdy/softkeys/web/routes"
)

func disableCacheInDevMode(dev bool, next http.Handler) http.Handler {
	if !dev {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

// BuildServer renders whatever layout l holds at request time.
func BuildServer(storage db.Storage, sequences db.Tracker, l *layout.Current, dev bool) *http.ServeMux {
	mux := http.NewServeMux()

	handler := routes.ServerHandler{
		Storage:   storage,
		Sequences: sequences,
		Layout:    l,
	}

	mux.Handle("/sequences", disableCacheInDevMode(dev, http.HandlerFunc(handler.SequencesHandle)))
	mux.Handle("/", disableCacheInDevMode(dev, http.HandlerFunc(handler.StatsHandle)))

	slog.Info("Built server", "layout", l.Load().ID(), "keys", l.Load().Len())

	return mux
}

func StartServer(port int, storage db.Storage, sequences db.Tracker, l *layout.Current, dev bool) error {
	slog.Info("Running interface", "port", port)

	err := http.ListenAndServe(fmt.Sprintf(":%d", port), BuildServer(storage, sequences, l, dev))
	if err != nil {
		return fmt.Errorf("could not run server: %w", err)
	}

	return nil
}
