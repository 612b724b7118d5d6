package routes

import (
	"log/slog"
	"net/http"

	"github.com/dasdy/softkeys/model"
	cs "github.com/dasdy/softkeys/web/components"
)

// BuildStatsRenderContext builds the render context for the stats page.
// Counts of other layouts and of positions the layout lacks are ignored.
func (s *ServerHandler) BuildStatsRenderContext(dbStats []model.MinimalActivation) cs.RenderContext {
	l := s.Layout.Load()
	items := InitEmptyItems(l)
	maxVal := 0

	for _, stat := range dbStats {
		if stat.Layout != l.ID() {
			continue
		}

		if stat.Position < 0 || int(stat.Position) >= len(items) {
			slog.Error("Position not found in layout", "position", stat.Position, "layout", stat.Layout)

			continue
		}

		items[stat.Position].Count += stat.Count
		maxVal = max(maxVal, items[stat.Position].Count)
	}

	return cs.RenderContext{
		Layout:            l.ID(),
		Size:              l.Size(),
		Items:             items,
		MaxVal:            maxVal,
		HighlightPosition: int(model.NoKey),
		Page:              cs.PageTypeStats,
	}
}

// StatsHandle handles requests to the stats page.
func (s *ServerHandler) StatsHandle(w http.ResponseWriter, _ *http.Request) {
	slog.Info("Handling stats page request")

	curStats, err := s.Storage.GatherAll()
	if err != nil {
		slog.Error("Failed to get stats", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	renderContext := s.BuildStatsRenderContext(curStats)

	if err := SafeRenderTemplate(cs.HeatMap(&renderContext), w); err != nil {
		slog.Error("Failed to render stats page", "error", err)
	}
}
