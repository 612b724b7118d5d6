package layout

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/dasdy/softkeys/model"
)

// Template describes the geometry of keys in an alternatives overlay.
type Template struct {
	KeyWidth      int `json:"key_width" toml:"key_width" yaml:"key_width"`
	KeyHeight     int `json:"key_height" toml:"key_height" yaml:"key_height"`
	HorizontalGap int `json:"horizontal_gap" toml:"horizontal_gap" yaml:"horizontal_gap"`
	VerticalGap   int `json:"vertical_gap" toml:"vertical_gap" yaml:"vertical_gap"`
	// MaxWidth limits a row; zero means unlimited.
	MaxWidth int `json:"max_width" toml:"max_width" yaml:"max_width"`
}

var DefaultTemplate = Template{KeyWidth: 40, KeyHeight: 50}

var ErrNoAlternates = errors.New("no alternate characters")

// Provider builds overlay layouts out of alternate characters.
type Provider struct {
	templates map[string]Template
	fallback  Template
	opts      []Option
}

func NewProvider(fallback Template, opts ...Option) *Provider {
	return &Provider{
		templates: make(map[string]Template),
		fallback:  fallback,
		opts:      opts,
	}
}

func (p *Provider) Register(name string, t Template) {
	p.templates[name] = t
}

func (p *Provider) Template(name string) (Template, error) {
	if name == "" {
		return p.fallback, nil
	}

	t, ok := p.templates[name]
	if !ok {
		return Template{}, fmt.Errorf("unknown popup template %q", name)
	}

	return t, nil
}

// Alternatives lays out one key per character of chars, row by row. A row is
// broken after columns keys, or when the next key plus horizontalPadding would
// exceed the template's MaxWidth. columns <= 0 means no column limit.
func (p *Provider) Alternatives(template, chars string, columns, horizontalPadding int) (*KeyLayout, error) {
	t, err := p.Template(template)
	if err != nil {
		return nil, err
	}

	runes := []rune(chars)
	if len(runes) == 0 {
		return nil, ErrNoAlternates
	}

	maxColumns := columns
	if maxColumns <= 0 {
		maxColumns = math.MaxInt
	}

	maxWidth := t.MaxWidth
	if maxWidth <= 0 {
		maxWidth = math.MaxInt
	}

	keys := make([]model.Key, 0, len(runes))
	x, y, column := 0, 0, 0

	for _, r := range runes {
		if column >= maxColumns || (column > 0 && x+t.KeyWidth+horizontalPadding > maxWidth) {
			x = 0
			y += t.VerticalGap + t.KeyHeight
			column = 0
		}

		keys = append(keys, model.Key{
			Bounds: image.Rect(x, y, x+t.KeyWidth, y+t.KeyHeight),
			Codes:  []int{int(r)},
			Label:  string(r),
		})

		column++
		x += t.KeyWidth + t.HorizontalGap
	}

	return NewKeyLayout(fmt.Sprintf("alternatives:%s", chars), keys, p.opts...), nil
}
