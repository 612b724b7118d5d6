package components

import (
	"fmt"
	"math"
)

// getLinkForPosition returns the page showing what follows position.
func getLinkForPosition(position int) string {
	return fmt.Sprintf("/sequences?position=%d", position)
}

func getTitle(ctx *RenderContext) string {
	switch ctx.Page {
	case PageTypeSequences:
		return fmt.Sprintf("%s: keys following #%d", ctx.Layout, ctx.HighlightPosition)
	default:
		return fmt.Sprintf("%s: activations", ctx.Layout)
	}
}

// HeatColor maps count onto a white to red scale relative to maxVal.
func HeatColor(count, maxVal int) string {
	if maxVal <= 0 || count <= 0 {
		return "rgb(255, 255, 255)"
	}

	ratio := math.Min(float64(count)/float64(maxVal), 1)
	fade := int(math.Round(255 * (1 - ratio)))

	return fmt.Sprintf("rgb(255, %d, %d)", fade, fade)
}

// StrokeWidth scales connection lines between 1 and 8 pixels.
func StrokeWidth(count, maxVal int) float64 {
	if maxVal <= 0 {
		return 1
	}

	return 1 + 7*math.Min(float64(count)/float64(maxVal), 1)
}
