// Package export writes snapshots of a canvas.Surface.
package export

import (
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/OpenTraceLab/OpenTracePNP/internal/canvas"
	"github.com/OpenTraceLab/OpenTracePNP/internal/palette"
	"github.com/OpenTraceLab/OpenTracePNP/pkg/geom"
)

// Options controls an SVG snapshot.
type Options struct {
	Margin   int    // blank border around the drawing
	Caption  string // drawn in the top-left corner, e.g. the page label
	FontSize int
	Anchors  bool // include the outline anchors
}

// DefaultOptions returns the stock snapshot settings.
func DefaultOptions() Options {
	return Options{Margin: 20, FontSize: 8}
}

// SVG writes the visible primitives of surface as an SVG document. The
// view box is fitted to the drawing. Coordinates are rounded to whole
// screen units.
func SVG(w io.Writer, surface canvas.Surface, theme palette.Theme, opts Options) error {
	ew := &errWriter{w: w}
	prims := visible(surface, opts)

	var box geom.Box
	for i, p := range prims {
		if i == 0 {
			box = p.Bounds()
		} else {
			box = union(box, p.Bounds())
		}
	}
	m := opts.Margin
	x0 := int(math.Floor(box.MinX)) - m
	y0 := int(math.Floor(box.MinY)) - m
	width := int(math.Ceil(box.MaxX)) + m - x0
	height := int(math.Ceil(box.MaxY)) + m - y0

	c := svg.New(ew)
	c.Startview(width, height, x0, y0, width, height)
	c.Rect(x0, y0, width, height, "fill:"+palette.Hex(theme.Background))
	for _, p := range prims {
		draw(c, p, opts)
	}
	if opts.Caption != "" {
		c.Text(x0+m/2, y0+m/2+opts.FontSize, opts.Caption,
			fmt.Sprintf("font-size:%dpx;fill:%s", opts.FontSize+2, palette.Hex(theme.Text)))
	}
	c.End()
	return ew.err
}

func visible(surface canvas.Surface, opts Options) []canvas.Primitive {
	var out []canvas.Primitive
	surface.Each(func(p canvas.Primitive) bool {
		if p.Hidden || (p.Layer == canvas.LayerAnchor && !opts.Anchors) {
			return true
		}
		out = append(out, p)
		return true
	})
	return out
}

func draw(c *svg.SVG, p canvas.Primitive, opts Options) {
	switch p.Kind {
	case canvas.Polygon:
		xs := make([]int, len(p.Points))
		ys := make([]int, len(p.Points))
		for i, pt := range p.Points {
			xs[i], ys[i] = round(pt.X), round(pt.Y)
		}
		c.Polygon(xs, ys, style(p.Style))
	case canvas.Oval:
		c.Ellipse(round(p.Center.X), round(p.Center.Y), round(p.RX), round(p.RY), style(p.Style))
	case canvas.Text:
		x, y := round(p.Center.X), round(p.Center.Y)
		c.Gtransform(fmt.Sprintf("rotate(%g,%d,%d)", p.Angle, x, y))
		c.Text(x, y, p.Text, fmt.Sprintf("text-anchor:middle;dominant-baseline:central;font-size:%dpx;fill:%s",
			opts.FontSize, palette.Hex(p.Style.Stroke)))
		c.Gend()
	}
}

func style(s canvas.Style) string {
	fill := "none"
	if s.Fill.A != 0 {
		fill = palette.Hex(s.Fill)
	}
	return fmt.Sprintf("fill:%s;stroke:%s;stroke-width:%g", fill, palette.Hex(s.Stroke), s.Width)
}

func union(a, b geom.Box) geom.Box {
	return geom.Box{
		MinX: math.Min(a.MinX, b.MinX),
		MinY: math.Min(a.MinY, b.MinY),
		MaxX: math.Max(a.MaxX, b.MaxX),
		MaxY: math.Max(a.MaxY, b.MaxY),
	}
}

func round(v float64) int { return int(math.Round(v)) }

// errWriter keeps the first write error; svgo does not report them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}
