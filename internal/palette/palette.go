// Package palette holds the color themes of the board view. Colors are
// defined in HCL/hex space with go-colorful and converted to NRGBA for the
// surface.
package palette

import (
	"image/color"
	"sort"

	"github.com/lucasb-eyer/go-colorful"
)

// Theme is the set of colors used to draw a board.
type Theme struct {
	Name          string
	Background    color.NRGBA
	Outline       color.NRGBA
	OutlineFill   color.NRGBA
	MoveAnchor    color.NRGBA
	ResizeAnchor  color.NRGBA
	Neutral       color.NRGBA // component stroke on the overview page
	Emphasis      color.NRGBA // component stroke on a BOM page
	ComponentFill color.NRGBA
	Label         color.NRGBA
	Text          color.NRGBA // status and readout text
}

// DefaultTheme is used when no theme is configured.
const DefaultTheme = "classic"

var themes = map[string]Theme{
	"classic": {
		Name:          "classic",
		Background:    hex("#000000"),
		Outline:       hex("#008000"),
		OutlineFill:   hex("#d3d3d3"),
		MoveAnchor:    hex("#ff0000"),
		ResizeAnchor:  hex("#0000ff"),
		Neutral:       hex("#ffff00"),
		Emphasis:      hex("#ff0000"),
		ComponentFill: hex("#ffffff"),
		Label:         hex("#ffffff"),
		Text:          hex("#ffffff"),
	},
	"paper": {
		Name:          "paper",
		Background:    hex("#f7f5ef"),
		Outline:       hsv(150, 0.8, 0.45),
		OutlineFill:   hex("#e4e1d6"),
		MoveAnchor:    hsv(4, 0.85, 0.85),
		ResizeAnchor:  hsv(215, 0.8, 0.8),
		Neutral:       hsv(38, 0.9, 0.75),
		Emphasis:      hsv(350, 0.9, 0.8),
		ComponentFill: hex("#ffffff"),
		Label:         hex("#202020"),
		Text:          hex("#202020"),
	},
}

// Lookup returns the named theme.
func Lookup(name string) (Theme, bool) {
	t, ok := themes[name]
	return t, ok
}

// Default returns the classic theme.
func Default() Theme {
	return themes[DefaultTheme]
}

// Names lists the available themes, sorted.
func Names() []string {
	out := make([]string, 0, len(themes))
	for name := range themes {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Blend mixes a toward b by t in [0,1] using HCL interpolation.
func Blend(a, b color.NRGBA, t float64) color.NRGBA {
	ca := toColorful(a)
	cb := toColorful(b)
	return fromColorful(ca.BlendHcl(cb, t).Clamped(), a.A)
}

// Dim returns c blended halfway toward bg, used for hidden-page ghosts and
// disabled controls.
func Dim(c, bg color.NRGBA) color.NRGBA {
	return Blend(c, bg, 0.5)
}

// Hex formats c as #rrggbb.
func Hex(c color.NRGBA) string {
	return toColorful(c).Hex()
}

// Transparent is the zero-alpha fill that is never painted.
var Transparent = color.NRGBA{}

func hex(s string) color.NRGBA {
	c, err := colorful.Hex(s)
	if err != nil {
		panic("palette: bad color " + s)
	}
	return fromColorful(c, 0xff)
}

func hsv(h, s, v float64) color.NRGBA {
	return fromColorful(colorful.Hsv(h, s, v), 0xff)
}

func toColorful(c color.NRGBA) colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

func fromColorful(c colorful.Color, a uint8) color.NRGBA {
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: a}
}
