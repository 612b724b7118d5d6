package layout_test

import (
	"image"
	"strings"
	"testing"

	"github.com/dasdy/softkeys/layout"
	"github.com/dasdy/softkeys/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadLayoutFiles(t *testing.T) {
	for _, name := range []string{"two_keys.json", "two_keys.toml", "two_keys.yaml"} {
		t.Run("loads "+name, func(t *testing.T) {
			f, err := layout.Load("testdata/" + name)
			require.NoError(t, err)

			assert.Equal(t, "two-keys", f.ID)

			l, err := f.Build()
			require.NoError(t, err)

			require.Equal(t, 2, l.Len())

			e := l.Key(0)
			assert.Equal(t, image.Rect(0, 0, 40, 40), e.Bounds)
			assert.Equal(t, []int{'e'}, e.Codes)
			assert.Equal(t, "èéêë", e.Alternates)
			assert.Equal(t, "narrow", e.PopupTemplate)
			assert.False(t, e.Modifier)

			shift := l.Key(1)
			assert.Equal(t, image.Rect(40, 0, 80, 40), shift.Bounds)
			assert.Equal(t, model.KeyCodeShift, shift.PrimaryCode())
			assert.Equal(t, "⇧", shift.Label)
			assert.True(t, shift.Modifier)

			tpl, err := f.Provider().Template("narrow")
			require.NoError(t, err)
			assert.Equal(t, 90, tpl.MaxWidth)
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	t.Run("rejects documents not matching the schema", func(t *testing.T) {
		_, err := layout.Decode(strings.NewReader(`{"id": "x", "key_width": 40, "key_height": 40, "keys": [{"x": 0}]}`), layout.FormatJSON)

		assert.ErrorContains(t, err, "schema")
	})

	t.Run("rejects unknown actions when building", func(t *testing.T) {
		f, err := layout.Decode(strings.NewReader(`{"id": "x", "key_width": 40, "key_height": 40, "keys": [{"x": 0, "y": 0, "action": "WARP"}]}`), layout.FormatJSON)
		require.NoError(t, err)

		_, err = f.Build()

		assert.ErrorContains(t, err, "WARP")
	})

	t.Run("scales wide keys", func(t *testing.T) {
		f, err := layout.Decode(strings.NewReader(`{"id": "x", "key_width": 40, "key_height": 50, "keys": [{"x": 1.5, "y": 1, "w": 4, "action": "SPACE"}]}`), layout.FormatJSON)
		require.NoError(t, err)

		l, err := f.Build()
		require.NoError(t, err)

		assert.Equal(t, image.Rect(60, 50, 220, 100), l.Key(0).Bounds)
		assert.Equal(t, int(' '), l.Key(0).PrimaryCode())
	})
}

func TestDecodeTemplates(t *testing.T) {
	t.Run("rejects templates without key size", func(t *testing.T) {
		source := `
id = "x"
key_width = 40
key_height = 40

[[keys]]
x = 0
y = 0
label = "e"
alternates = "èé"
popup = "flat"

[templates.flat]
key_width = 30
`
		_, err := layout.Decode(strings.NewReader(source), layout.FormatTOML)

		require.Error(t, err)
		assert.ErrorContains(t, err, `template "flat"`)
	})

	t.Run("accepts sized templates", func(t *testing.T) {
		source := `
id = "x"
key_width = 40
key_height = 40

[[keys]]
x = 0
y = 0
label = "e"

[templates.flat]
key_width = 30
key_height = 40
`
		f, err := layout.Decode(strings.NewReader(source), layout.FormatTOML)

		require.NoError(t, err)
		assert.Contains(t, f.Templates, "flat")
	})
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want layout.Format
	}{
		{"a.json", layout.FormatJSON},
		{"a.TOML", layout.FormatTOML},
		{"dir/a.yml", layout.FormatYAML},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := layout.FormatFromPath(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := layout.FormatFromPath("a.keymap")
	assert.Error(t, err)
}
