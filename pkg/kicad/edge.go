package kicad

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
)

// EdgeLayer is the layer that carries the board outline.
const EdgeLayer = "Edge.Cuts"

// ErrNoOutline is returned when a board has no graphics on EdgeLayer.
var ErrNoOutline = errors.New("kicad: no Edge.Cuts outline")

// Bounds is an axis-aligned extent in millimetres, KiCad coordinates
// (Y grows down).
type Bounds struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

func emptyBounds() Bounds {
	return Bounds{
		MinX: math.Inf(1), MinY: math.Inf(1),
		MaxX: math.Inf(-1), MaxY: math.Inf(-1),
	}
}

func (b Bounds) valid() bool { return b.MinX <= b.MaxX && b.MinY <= b.MaxY }

func (b *Bounds) expand(x, y float64) {
	b.MinX = math.Min(b.MinX, x)
	b.MinY = math.Min(b.MinY, y)
	b.MaxX = math.Max(b.MaxX, x)
	b.MaxY = math.Max(b.MaxY, y)
}

// Dimensions returns the board width (X extent) and length (Y extent),
// rounded to 4 decimals.
func (b Bounds) Dimensions() (widthMM, lengthMM float64) {
	return round4(b.MaxX - b.MinX), round4(b.MaxY - b.MinY)
}

func round4(v float64) float64 { return math.Round(v*1e4) / 1e4 }

// point lists whose extent bounds each outline primitive. Arcs are
// bounded by their three defining points.
var edgePoints = map[string][]string{
	"gr_line": {"start", "end"},
	"gr_rect": {"start", "end"},
	"gr_arc":  {"start", "mid", "end"},
}

// EdgeBounds returns the extent of the board-level graphics on EdgeLayer.
func EdgeBounds(root *List) (Bounds, error) {
	b := emptyBounds()
	for _, n := range root.Items {
		item := n.List
		if item == nil || !onEdge(item) {
			continue
		}
		var err error
		switch item.Head {
		case "gr_circle":
			err = expandCircle(&b, item)
		case "gr_poly", "gr_curve":
			err = expandPts(&b, item)
		default:
			names, ok := edgePoints[item.Head]
			if !ok {
				continue
			}
			for _, name := range names {
				pt, found := item.List(name)
				if !found {
					continue
				}
				x, y, perr := pt.XY()
				if perr != nil {
					err = perr
					break
				}
				b.expand(x, y)
			}
		}
		if err != nil {
			return Bounds{}, err
		}
	}
	if !b.valid() {
		return Bounds{}, ErrNoOutline
	}
	return b, nil
}

func onEdge(item *List) bool {
	layer, ok := item.List("layer")
	if !ok {
		return false
	}
	name, _ := layer.Atom(0)
	return name == EdgeLayer
}

func expandCircle(b *Bounds, item *List) error {
	c, ok := item.List("center")
	e, ok2 := item.List("end")
	if !ok || !ok2 {
		return fmt.Errorf("kicad: gr_circle needs center and end")
	}
	cx, cy, err := c.XY()
	if err != nil {
		return err
	}
	ex, ey, err := e.XY()
	if err != nil {
		return err
	}
	r := math.Hypot(ex-cx, ey-cy)
	b.expand(cx-r, cy-r)
	b.expand(cx+r, cy+r)
	return nil
}

func expandPts(b *Bounds, item *List) error {
	pts, ok := item.List("pts")
	if !ok {
		return nil
	}
	for _, xy := range pts.Lists("xy") {
		x, y, err := xy.XY()
		if err != nil {
			return err
		}
		b.expand(x, y)
	}
	return nil
}

// ReadEdgeBounds parses a .kicad_pcb stream and returns its outline extent.
func ReadEdgeBounds(r io.Reader) (Bounds, error) {
	root, err := Parse(r)
	if err != nil {
		return Bounds{}, err
	}
	if root.Head != "kicad_pcb" {
		return Bounds{}, fmt.Errorf("kicad: not a board file: (%s ...)", root.Head)
	}
	return EdgeBounds(root)
}

// LoadBoardSize returns the outline dimensions of the board file at path.
func LoadBoardSize(path string) (widthMM, lengthMM float64, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()
	b, err := ReadEdgeBounds(f)
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", path, err)
	}
	w, l := b.Dimensions()
	return w, l, nil
}
