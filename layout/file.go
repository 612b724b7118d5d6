package layout

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"math"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/BurntSushi/toml"
	"github.com/dasdy/softkeys/model"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// KeyDescriptor places a key on a grid measured in key units, the same way
// ZMK info.json files describe physical layouts.
type KeyDescriptor struct {
	X          float64 `json:"x" toml:"x" yaml:"x"`
	Y          float64 `json:"y" toml:"y" yaml:"y"`
	W          float64 `json:"w" toml:"w" yaml:"w"`
	H          float64 `json:"h" toml:"h" yaml:"h"`
	Label      string  `json:"label" toml:"label" yaml:"label"`
	Action     string  `json:"action" toml:"action" yaml:"action"`
	Codes      []int   `json:"codes" toml:"codes" yaml:"codes"`
	Alternates string  `json:"alternates" toml:"alternates" yaml:"alternates"`
	Popup      string  `json:"popup" toml:"popup" yaml:"popup"`
	Modifier   bool    `json:"modifier" toml:"modifier" yaml:"modifier"`
}

type File struct {
	ID        string              `json:"id" toml:"id" yaml:"id"`
	Name      string              `json:"name" toml:"name" yaml:"name"`
	KeyWidth  int                 `json:"key_width" toml:"key_width" yaml:"key_width"`
	KeyHeight int                 `json:"key_height" toml:"key_height" yaml:"key_height"`
	Keys      []KeyDescriptor     `json:"keys" toml:"keys" yaml:"keys"`
	Templates map[string]Template `json:"templates" toml:"templates" yaml:"templates"`
}

//go:embed layout.schema.json
var layoutSchema string

var schema = jsonschema.MustCompileString("layout.schema.json", layoutSchema)

type Format int

const (
	FormatJSON Format = iota
	FormatTOML
	FormatYAML
)

func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return 0, fmt.Errorf("unsupported layout file extension %q", filepath.Ext(path))
	}
}

// Load opens and decodes a layout file, picking the decoder from its extension.
func Load(path string) (*File, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	file, err := OpenPath(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Decode(file, format)
}

func Decode(reader io.Reader, format Format) (*File, error) {
	var f File

	switch format {
	case FormatJSON:
		source, err := io.ReadAll(reader)
		if err != nil {
			return nil, fmt.Errorf("error reading layout: %w", err)
		}

		var doc any
		if err := json.Unmarshal(source, &doc); err != nil {
			return nil, fmt.Errorf("could not decode layout JSON: %w", err)
		}

		if err := schema.Validate(doc); err != nil {
			return nil, fmt.Errorf("layout does not match schema: %w", err)
		}

		if err := json.NewDecoder(bytes.NewReader(source)).Decode(&f); err != nil {
			return nil, fmt.Errorf("could not decode layout JSON: %w", err)
		}
	case FormatTOML:
		if _, err := toml.NewDecoder(reader).Decode(&f); err != nil {
			return nil, fmt.Errorf("could not decode layout TOML: %w", err)
		}
	case FormatYAML:
		if err := yaml.NewDecoder(reader).Decode(&f); err != nil {
			return nil, fmt.Errorf("could not decode layout YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown layout format %d", format)
	}

	if err := f.validate(); err != nil {
		return nil, err
	}

	return &f, nil
}

func (f *File) validate() error {
	if f.KeyWidth <= 0 || f.KeyHeight <= 0 {
		return fmt.Errorf("layout %q: key size must be positive, got %dx%d", f.ID, f.KeyWidth, f.KeyHeight)
	}

	if len(f.Keys) == 0 {
		return fmt.Errorf("layout %q: expected at least 1 key", f.ID)
	}

	for name, t := range f.Templates {
		if t.KeyWidth <= 0 || t.KeyHeight <= 0 {
			return fmt.Errorf("layout %q: template %q: key size must be positive, got %dx%d",
				f.ID, name, t.KeyWidth, t.KeyHeight)
		}
	}

	return nil
}

// Build converts key units into pixel hitboxes.
func (f *File) Build(opts ...Option) (*KeyLayout, error) {
	keys := make([]model.Key, 0, len(f.Keys))

	for i, d := range f.Keys {
		codes, err := d.codes()
		if err != nil {
			return nil, fmt.Errorf("key %d: %w", i, err)
		}

		w, h := d.W, d.H
		if w == 0 {
			w = 1
		}

		if h == 0 {
			h = 1
		}

		x0 := int(math.Round(d.X * float64(f.KeyWidth)))
		y0 := int(math.Round(d.Y * float64(f.KeyHeight)))
		x1 := int(math.Round((d.X + w) * float64(f.KeyWidth)))
		y1 := int(math.Round((d.Y + h) * float64(f.KeyHeight)))

		label := d.Label
		if v, ok := labels[d.Action]; ok && label == "" {
			label = v
		}

		keys = append(keys, model.Key{
			Bounds:        image.Rect(x0, y0, x1, y1),
			Codes:         codes,
			Label:         label,
			Alternates:    d.Alternates,
			PopupTemplate: d.Popup,
			Modifier:      d.Modifier || isModifierAction(d.Action),
		})
	}

	return NewKeyLayout(f.ID, keys, opts...), nil
}

// Provider returns an alternatives provider knowing every template of the file.
func (f *File) Provider(opts ...Option) *Provider {
	p := NewProvider(DefaultTemplate, opts...)
	for name, t := range f.Templates {
		p.Register(name, t)
	}

	return p
}

func (d KeyDescriptor) codes() ([]int, error) {
	if len(d.Codes) > 0 {
		return d.Codes, nil
	}

	if d.Action != "" {
		code, ok := actionCodes[d.Action]
		if !ok {
			return nil, fmt.Errorf("unknown action %q", d.Action)
		}

		return []int{code}, nil
	}

	if utf8.RuneCountInString(d.Label) == 1 {
		r, _ := utf8.DecodeRuneInString(d.Label)

		return []int{int(r)}, nil
	}

	return nil, fmt.Errorf("cannot derive a code from label %q", d.Label)
}
