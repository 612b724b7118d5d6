package routes_test

import (
	"image"
	"iter"

	"github.com/dasdy/softkeys/layout"
	"github.com/dasdy/softkeys/model"
	"github.com/dasdy/softkeys/web/routes"
)

// Constants for KeyPosition to match key names
const (
	KeyA model.KeyPosition = iota
	KeyB
	KeyC
	KeyD
)

// SimpleStorageMock is a simple manual mock implementation of the Storage interface
type SimpleStorageMock struct {
	ReturnStats []model.MinimalActivation
	ReturnError error
	CallCount   int
}

func (m *SimpleStorageMock) GatherAll() ([]model.MinimalActivation, error) {
	m.CallCount++

	return m.ReturnStats, m.ReturnError
}

func (m *SimpleStorageMock) AllIterator() (iter.Seq[model.ActivationWithTimestamp], error) {
	return func(func(model.ActivationWithTimestamp) bool) {}, nil
}

func (m *SimpleStorageMock) Close() {}

func (m *SimpleStorageMock) Store(*model.Activation) error {
	return nil
}

// TrackerMock is a simple mock implementation of the Tracker interface
type TrackerMock struct {
	ReturnSequences []model.Sequence
	CallCount       int
	LastPosition    model.KeyPosition
}

func (m *TrackerMock) HandleActivation(model.Activation, bool) {}

func (m *TrackerMock) GatherSequences(position model.KeyPosition) []model.Sequence {
	m.CallCount++
	m.LastPosition = position

	return m.ReturnSequences
}

// createTestLayout creates a 2x2 keyboard with keys A, B, C and an empty corner.
func createTestLayout() *layout.KeyLayout {
	return layout.NewKeyLayout("abc", []model.Key{
		{Bounds: image.Rect(0, 0, 40, 40), Codes: []int{'a'}, Label: "A"},
		{Bounds: image.Rect(40, 0, 80, 40), Codes: []int{'b'}, Label: "B"},
		{Bounds: image.Rect(0, 40, 40, 80), Codes: []int{'c'}, Label: "C"},
	})
}

// MockServerHandler helper struct for testing
type MockServerHandler struct {
	routes.ServerHandler
	MockStorage *SimpleStorageMock
	MockTracker *TrackerMock
}

func setupMockServerHandler() MockServerHandler {
	mockStorage := &SimpleStorageMock{}
	mockTracker := &TrackerMock{}

	return MockServerHandler{
		ServerHandler: routes.ServerHandler{
			Storage:   mockStorage,
			Sequences: mockTracker,
			Layout:    layout.NewCurrent(createTestLayout()),
		},
		MockStorage: mockStorage,
		MockTracker: mockTracker,
	}
}
