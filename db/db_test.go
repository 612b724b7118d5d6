package db_test

import (
	"iter"
	"path/filepath"
	"testing"
	"time"

	"github.com/dasdy/softkeys/db"
	"github.com/dasdy/softkeys/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func activation(position model.KeyPosition, layout string) *model.Activation {
	code := 'a' + int(position)

	return &model.Activation{
		Position:    position,
		PrimaryCode: code,
		Codes:       []int{code},
		Surface:     model.SurfacePrimary,
		Layout:      layout,
	}
}

func memoryStorage(t *testing.T) *db.SQLiteStorage {
	t.Helper()

	storage, err := db.NewStorageFromPath(":memory:", false)
	require.NoError(t, err)

	t.Cleanup(storage.Close)

	return storage
}

func TestGatherAll(t *testing.T) {
	t.Run("returns nothing for empty storage", func(t *testing.T) {
		items, err := memoryStorage(t).GatherAll()

		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("counts activations per layout and key", func(t *testing.T) {
		storage := memoryStorage(t)

		for range 5 {
			require.NoError(t, storage.Store(activation(0, "qwerty")))
		}

		for i := range 3 {
			require.NoError(t, storage.Store(activation(model.KeyPosition(i+1), "qwerty")))
		}

		require.NoError(t, storage.Store(activation(0, "alternatives:àá")))

		items, err := storage.GatherAll()
		require.NoError(t, err)

		assert.Equal(t, []model.MinimalActivation{
			{Position: 0, Layout: "alternatives:àá", Count: 1},
			{Position: 0, Layout: "qwerty", Count: 5},
			{Position: 1, Layout: "qwerty", Count: 1},
			{Position: 2, Layout: "qwerty", Count: 1},
			{Position: 3, Layout: "qwerty", Count: 1},
		}, items)
	})
}

func TestAllIterator(t *testing.T) {
	storage := memoryStorage(t)
	start := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	second := activation(1, "qwerty")
	second.Surface = model.SurfaceAlternatives
	second.Codes = []int{'b', 'B'}

	require.NoError(t, storage.StoreAt(second, start.Add(time.Second)))
	require.NoError(t, storage.StoreAt(activation(0, "qwerty"), start))

	items, err := storage.AllIterator()
	require.NoError(t, err)

	var got []model.ActivationWithTimestamp
	for item := range items {
		got = append(got, item)
	}

	require.Len(t, got, 2)
	assert.Equal(t, *activation(0, "qwerty"), got[0].Activation)
	assert.True(t, start.Equal(got[0].Timestamp))
	assert.Equal(t, *second, got[1].Activation)
}

func TestMerge(t *testing.T) {
	first := memoryStorage(t)
	second := memoryStorage(t)
	output := memoryStorage(t)

	require.NoError(t, first.Store(activation(0, "qwerty")))
	require.NoError(t, second.Store(activation(0, "qwerty")))
	require.NoError(t, second.Store(activation(1, "qwerty")))

	require.NoError(t, db.Merge([]*db.SQLiteStorage{first, second}, output))

	items, err := output.GatherAll()
	require.NoError(t, err)

	assert.Equal(t, []model.MinimalActivation{
		{Position: 0, Layout: "qwerty", Count: 2},
		{Position: 1, Layout: "qwerty", Count: 1},
	}, items)
}

func TestFileStorageWritesDuringHistoryScan(t *testing.T) {
	storage, err := db.NewStorageFromPath(filepath.Join(t.TempDir(), "activations.sqlite"), false)
	require.NoError(t, err)
	t.Cleanup(storage.Close)

	for i := range 3 {
		require.NoError(t, storage.Store(activation(model.KeyPosition(i), "qwerty")))
	}

	items, err := storage.AllIterator()
	require.NoError(t, err)

	next, stop := iter.Pull(items)
	defer stop()

	_, ok := next()
	require.True(t, ok)

	done := make(chan error, 1)

	go func() {
		if err := storage.Store(activation(3, "qwerty")); err != nil {
			done <- err

			return
		}

		_, err := storage.GatherAll()
		done <- err
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("store blocked while the history scan was open")
	}

	stop()

	all, err := storage.GatherAll()
	require.NoError(t, err)
	assert.Len(t, all, 4)
}
