// Package palette provides the named color gradients used to color words.
//
// Each palette is a list of stops ordered from the darkest end to the
// lightest. Colors between stops are blended in CIE-Lab space so the
// gradient stays perceptually even.
package palette

import (
	"math"
	"slices"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/wordmosaic/pkg/errors"
)

// Default is the palette used when none is configured.
const Default = "viridis"

// Palette is an ordered color gradient.
type Palette struct {
	name  string
	stops []colorful.Color
}

var builtin = map[string][]string{
	"viridis": {"#440154", "#482878", "#3e4989", "#31688e", "#26828e", "#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725"},
	"plasma":  {"#0d0887", "#46039f", "#7201a8", "#9c179e", "#bd3786", "#d8576b", "#ed7953", "#fb9f3a", "#fdca26", "#f0f921"},
	"inferno": {"#000004", "#1b0c41", "#4a0c6b", "#781c6d", "#a52c60", "#cf4446", "#ed6925", "#fb9b06", "#f7d13d", "#fcffa4"},
	"magma":   {"#000004", "#180f3d", "#440f76", "#721f81", "#9e2f7f", "#cd4071", "#f1605d", "#fd9668", "#feca8d", "#fcfdbf"},
	"cividis": {"#00224e", "#123570", "#3b496c", "#575d6d", "#707173", "#8a8678", "#a59c74", "#c3b369", "#e1cc55", "#fee838"},
	"Blues":   {"#08306b", "#08519c", "#2171b5", "#4292c6", "#6baed6", "#9ecae1", "#c6dbef", "#deebf7", "#f7fbff"},
	"Greens":  {"#00441b", "#006d2c", "#238b45", "#41ab5d", "#74c476", "#a1d99b", "#c7e9c0", "#e5f5e0", "#f7fcf5"},
	"Oranges": {"#7f2704", "#a63603", "#d94801", "#f16913", "#fd8d3c", "#fdae6b", "#fdd0a2", "#fee6ce", "#fff5eb"},
	"Purples": {"#3f007d", "#54278f", "#6a51a3", "#807dba", "#9e9ac8", "#bcbddc", "#dadaeb", "#efedf5", "#fcfbfd"},
	"Reds":    {"#67000d", "#a50f15", "#cb181d", "#ef3b2c", "#fb6a4a", "#fc9272", "#fcbba1", "#fee0d2", "#fff5f0"},
}

// Names returns the built-in palette names in a stable order.
func Names() []string {
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Get returns the built-in palette with the given name.
func Get(name string) (Palette, error) {
	stops, ok := builtin[name]
	if !ok {
		return Palette{}, errors.New(errors.ErrCodeInvalidPalette, "unknown palette %q", name)
	}
	return New(name, stops...)
}

// New builds a palette from hex color stops ordered dark to light.
func New(name string, hexStops ...string) (Palette, error) {
	if len(hexStops) == 0 {
		return Palette{}, errors.New(errors.ErrCodeInvalidPalette, "palette %q has no colors", name)
	}
	stops := make([]colorful.Color, len(hexStops))
	for i, h := range hexStops {
		c, err := colorful.Hex(h)
		if err != nil {
			return Palette{}, errors.Wrap(errors.ErrCodeInvalidPalette, err, "palette %q: bad color %q", name, h)
		}
		stops[i] = c
	}
	return Palette{name: name, stops: stops}, nil
}

// Name returns the palette's name.
func (p Palette) Name() string { return p.name }

// Len returns the number of stops.
func (p Palette) Len() int { return len(p.stops) }

// At returns the color at position t in [0, 1]; out of range values are
// clamped. The zero Palette returns black.
func (p Palette) At(t float64) colorful.Color {
	switch len(p.stops) {
	case 0:
		return colorful.Color{}
	case 1:
		return p.stops[0]
	}
	if math.IsNaN(t) || t <= 0 {
		return p.stops[0]
	}
	if t >= 1 {
		return p.stops[len(p.stops)-1]
	}
	pos := t * float64(len(p.stops)-1)
	i := int(pos)
	return p.stops[i].BlendLab(p.stops[i+1], pos-float64(i)).Clamped()
}

// Hex returns the color at position t as "#rrggbb".
func (p Palette) Hex(t float64) string {
	return p.At(t).Hex()
}

// Colors returns the palette stops as hex strings, dark to light.
func (p Palette) Colors() []string {
	out := make([]string, len(p.stops))
	for i, c := range p.stops {
		out[i] = c.Hex()
	}
	return out
}
