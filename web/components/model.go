package components

import "image"

type PageType int

const (
	PageTypeStats PageType = iota
	PageTypeSequences
)

// Item is one key of the heatmap.
type Item struct {
	Position  int
	Label     string
	Count     int
	Bounds    image.Rectangle
	Highlight bool
}

// Connection is drawn as a line between the centres of two keys.
type Connection struct {
	From  image.Point
	To    image.Point
	Count int
}

type RenderContext struct {
	Layout            string
	Size              image.Point
	Items             []Item
	MaxVal            int
	HighlightPosition int
	Connections       []Connection
	Page              PageType
}
