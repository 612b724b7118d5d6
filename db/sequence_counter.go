package db

import (
	"cmp"
	"iter"
	"log/slog"
	"slices"
	"sync"

	"github.com/dasdy/softkeys/model"
	"github.com/schollz/progressbar/v3"
)

// SequenceCounter counts keys activated directly after each other, per layout.
// An activation of another layout breaks the chain. GatherSequences reports
// the layout selected with SetLayout.
type SequenceCounter struct {
	layout     string
	lastLayout string
	lastKey    model.KeyPosition
	counts     map[string]map[model.KeyPosition]map[model.KeyPosition]int
	stateLock  sync.RWMutex
	ready      chan struct{}
}

func newSequenceCounter(layout string) *SequenceCounter {
	return &SequenceCounter{
		layout:  layout,
		lastKey: model.NoKey,
		counts:  make(map[string]map[model.KeyPosition]map[model.KeyPosition]int),
		ready:   make(chan struct{}),
	}
}

// NewSequenceCounterFromDB scans the stored history in the background.
func NewSequenceCounterFromDB(storage Storage, layout string) (*SequenceCounter, error) {
	items, err := storage.AllIterator()
	if err != nil {
		return nil, err
	}

	counter := newSequenceCounter(layout)

	go counter.initCounter(items)

	return counter, nil
}

// Ready is closed once the history has been scanned.
func (sc *SequenceCounter) Ready() <-chan struct{} {
	return sc.ready
}

func (sc *SequenceCounter) HandleActivation(activation model.Activation, verbose bool) {
	sc.stateLock.Lock()
	defer sc.stateLock.Unlock()

	sc.handle(activation, verbose)
}

// SetLayout selects the layout GatherSequences reports on.
func (sc *SequenceCounter) SetLayout(layout string) {
	sc.stateLock.Lock()
	defer sc.stateLock.Unlock()

	sc.layout = layout
}

// GatherSequences returns what followed position, most frequent first.
func (sc *SequenceCounter) GatherSequences(position model.KeyPosition) []model.Sequence {
	sc.stateLock.RLock()
	defer sc.stateLock.RUnlock()

	counts := sc.counts[sc.layout][position]
	result := make([]model.Sequence, 0, len(counts))

	for to, count := range counts {
		result = append(result, model.Sequence{From: position, To: to, Count: count})
	}

	slices.SortFunc(result, func(a, b model.Sequence) int {
		return cmp.Or(-cmp.Compare(a.Count, b.Count), cmp.Compare(a.To, b.To))
	})

	return result
}

func (sc *SequenceCounter) initCounter(items iter.Seq[model.ActivationWithTimestamp]) {
	defer close(sc.ready)

	sc.stateLock.Lock()
	defer sc.stateLock.Unlock()

	bar := progressbar.Default(-1, "Scanning history...")

	for item := range items {
		if err := bar.Add(1); err != nil {
			slog.ErrorContext(logCtx, "could not update progress bar", "error", err)
		}

		sc.handle(item.Activation, false)
	}

	if err := bar.Finish(); err != nil {
		slog.ErrorContext(logCtx, "could not finish progress bar", "error", err)
	}
}

func (sc *SequenceCounter) handle(activation model.Activation, verbose bool) {
	if activation.Layout != sc.lastLayout {
		sc.lastLayout = activation.Layout
		sc.lastKey = model.NoKey
	}

	position := activation.Position

	if sc.lastKey != model.NoKey {
		layoutCounts, exists := sc.counts[activation.Layout]
		if !exists {
			layoutCounts = make(map[model.KeyPosition]map[model.KeyPosition]int)
			sc.counts[activation.Layout] = layoutCounts
		}

		if _, exists := layoutCounts[sc.lastKey]; !exists {
			layoutCounts[sc.lastKey] = make(map[model.KeyPosition]int)
		}

		layoutCounts[sc.lastKey][position]++

		if verbose {
			slog.InfoContext(logCtx, "key sequence",
				"layout", activation.Layout,
				"current", position,
				"previous", sc.lastKey)
		}
	}

	sc.lastKey = position
}
