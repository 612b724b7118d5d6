package components

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// HeatMap draws every key of the layout as an SVG rectangle shaded by its count.
func HeatMap(rc *RenderContext) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := page(rc).Render(ctx, w); err != nil {
			return fmt.Errorf("could not render heatmap: %w", err)
		}

		return nil
	})
}

func page(rc *RenderContext) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		title := templ.EscapeString(getTitle(rc))

		if _, err := fmt.Fprintf(w, "<!doctype html><html><head><meta charset=\"utf-8\"><title>%s</title></head><body><h1>%s</h1>", title, title); err != nil {
			return err
		}

		if rc.Page == PageTypeSequences {
			if _, err := io.WriteString(w, `<p><a href="/">Back to activations</a></p>`); err != nil {
				return err
			}
		}

		if err := keyboardSVG(rc).Render(ctx, w); err != nil {
			return err
		}

		_, err := io.WriteString(w, "</body></html>")

		return err
	})
}

func keyboardSVG(rc *RenderContext) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`,
			rc.Size.X, rc.Size.Y, rc.Size.X, rc.Size.Y); err != nil {
			return err
		}

		for i := range rc.Items {
			if err := keyItem(&rc.Items[i], rc.MaxVal).Render(ctx, w); err != nil {
				return err
			}
		}

		for _, c := range rc.Connections {
			if _, err := fmt.Fprintf(w, `<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="steelblue" stroke-opacity="0.7" stroke-width="%.2f"/>`,
				c.From.X, c.From.Y, c.To.X, c.To.Y, StrokeWidth(c.Count, rc.MaxVal)); err != nil {
				return err
			}
		}

		_, err := io.WriteString(w, "</svg>")

		return err
	})
}

func keyItem(item *Item, maxVal int) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		stroke := "black"
		if item.Highlight {
			stroke = "royalblue"
		}

		b := item.Bounds
		_, err := fmt.Fprintf(w,
			`<a href="%s"><g class="key" data-position="%d">`+
				`<rect x="%d" y="%d" width="%d" height="%d" rx="4" fill="%s" stroke="%s"/>`+
				`<text x="%d" y="%d" text-anchor="middle" font-size="12">%s</text>`+
				`<text x="%d" y="%d" text-anchor="middle" font-size="9">%d</text>`+
				`</g></a>`,
			templ.EscapeString(getLinkForPosition(item.Position)), item.Position,
			b.Min.X, b.Min.Y, b.Dx(), b.Dy(), HeatColor(item.Count, maxVal), stroke,
			b.Min.X+b.Dx()/2, b.Min.Y+b.Dy()/2, templ.EscapeString(item.Label),
			b.Min.X+b.Dx()/2, b.Max.Y-4, item.Count)

		return err
	})
}
