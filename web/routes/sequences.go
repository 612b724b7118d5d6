package routes

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/dasdy/softkeys/model"
	cs "github.com/dasdy/softkeys/web/components"
)

const maxConnections = 5

// BuildSequencesRenderContext shades every key by how often it followed position
// and connects position to its most frequent successors.
func (s *ServerHandler) BuildSequencesRenderContext(sequences []model.Sequence, position model.KeyPosition) cs.RenderContext {
	l := s.Layout.Load()
	items := InitEmptyItems(l)
	maxVal := 0

	for _, seq := range sequences {
		if seq.To < 0 || int(seq.To) >= len(items) {
			slog.Error("Position not found in layout", "position", seq.To)

			continue
		}

		items[seq.To].Count += seq.Count
		maxVal = max(maxVal, items[seq.To].Count)
	}

	from := l.Key(position)
	if from != nil {
		items[position].Highlight = true
	}

	connections := make([]cs.Connection, 0, maxConnections)

	for _, seq := range sequences {
		to := l.Key(seq.To)
		if from == nil || to == nil {
			continue
		}

		connections = append(connections, cs.Connection{
			From:  from.Center(),
			To:    to.Center(),
			Count: seq.Count,
		})

		if len(connections) >= maxConnections {
			break
		}
	}

	return cs.RenderContext{
		Layout:            l.ID(),
		Size:              l.Size(),
		Items:             items,
		MaxVal:            maxVal,
		HighlightPosition: int(position),
		Connections:       connections,
		Page:              cs.PageTypeSequences,
	}
}

// SequencesHandle handles requests to the sequences page.
func (s *ServerHandler) SequencesHandle(w http.ResponseWriter, r *http.Request) {
	slog.Info("Handling sequences page request")

	positionString := r.URL.Query().Get("position")

	position, err := strconv.ParseInt(positionString, 10, 32)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)

		return
	}

	sequences := s.Sequences.GatherSequences(model.KeyPosition(position))

	renderContext := s.BuildSequencesRenderContext(sequences, model.KeyPosition(position))

	if err := SafeRenderTemplate(cs.HeatMap(&renderContext), w); err != nil {
		slog.Error("Failed to render sequences page", "error", err)
	}
}
