package components_test

import (
	"bytes"
	"context"
	"image"
	"testing"

	"github.com/dasdy/softkeys/web/components"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeatColor(t *testing.T) {
	tests := []struct {
		name   string
		count  int
		maxVal int
		want   string
	}{
		{name: "no data", count: 0, maxVal: 0, want: "rgb(255, 255, 255)"},
		{name: "unused key", count: 0, maxVal: 10, want: "rgb(255, 255, 255)"},
		{name: "hottest key", count: 10, maxVal: 10, want: "rgb(255, 0, 0)"},
		{name: "half", count: 5, maxVal: 10, want: "rgb(255, 128, 128)"},
		{name: "above max", count: 20, maxVal: 10, want: "rgb(255, 0, 0)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, components.HeatColor(tt.count, tt.maxVal))
		})
	}
}

func TestStrokeWidth(t *testing.T) {
	assert.InDelta(t, 1.0, components.StrokeWidth(3, 0), 1e-9)
	assert.InDelta(t, 8.0, components.StrokeWidth(4, 4), 1e-9)
	assert.InDelta(t, 4.5, components.StrokeWidth(2, 4), 1e-9)
}

func TestHeatMap(t *testing.T) {
	rc := components.RenderContext{
		Layout: "qwerty",
		Size:   image.Pt(80, 40),
		Items: []components.Item{
			{Position: 0, Label: "<a>", Count: 3, Bounds: image.Rect(0, 0, 40, 40)},
			{Position: 1, Label: "b", Count: 0, Bounds: image.Rect(40, 0, 80, 40), Highlight: true},
		},
		MaxVal:      3,
		Connections: []components.Connection{{From: image.Pt(20, 20), To: image.Pt(60, 20), Count: 3}},
		Page:        components.PageTypeSequences,
	}

	var buf bytes.Buffer
	require.NoError(t, components.HeatMap(&rc).Render(context.Background(), &buf))

	html := buf.String()
	assert.Contains(t, html, `viewBox="0 0 80 40"`)
	assert.Contains(t, html, "&lt;a&gt;")
	assert.NotContains(t, html, "<a>")
	assert.Contains(t, html, `href="/sequences?position=1"`)
	assert.Contains(t, html, `fill="rgb(255, 0, 0)"`)
	assert.Contains(t, html, `stroke="royalblue"`)
	assert.Contains(t, html, `<line x1="20" y1="20" x2="60" y2="20"`)
	assert.Contains(t, html, "Back to activations")
}
