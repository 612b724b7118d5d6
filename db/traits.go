package db

import (
	"iter"

	"github.com/dasdy/softkeys/model"
)

// Tracker counts which key tends to follow which.
type Tracker interface {
	HandleActivation(activation model.Activation, verbose bool)
	GatherSequences(position model.KeyPosition) []model.Sequence
}

type Storage interface {
	Store(activation *model.Activation) error
	GatherAll() ([]model.MinimalActivation, error)
	AllIterator() (iter.Seq[model.ActivationWithTimestamp], error)
	Close()
}
