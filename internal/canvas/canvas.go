// Package canvas is the addressable 2D surface the placement engine draws
// on. Primitives are created once, then updated in place by ID.
package canvas

import (
	"image/color"

	"github.com/OpenTraceLab/OpenTracePNP/pkg/geom"
)

// ID addresses a primitive on a Surface. The zero ID is never issued.
type ID int

// Kind tags the geometry a primitive carries.
type Kind int

const (
	Polygon Kind = iota
	Oval
	Text
)

func (k Kind) String() string {
	switch k {
	case Polygon:
		return "polygon"
	case Oval:
		return "oval"
	case Text:
		return "text"
	default:
		return "unknown"
	}
}

// Layer groups primitives for hit-testing and bulk operations.
type Layer int

const (
	LayerOutline Layer = iota
	LayerAnchor
	LayerComponent
)

// Style is the stroke and fill of a primitive. A Fill with zero alpha is
// not painted.
type Style struct {
	Stroke color.NRGBA
	Fill   color.NRGBA
	Width  float64
}

// Primitive is one drawable item.
//
// Polygon uses Points. Oval uses Center with radii RX and RY. Text uses
// Center as its anchor, Angle in degrees and Text.
type Primitive struct {
	ID     ID
	Kind   Kind
	Layer  Layer
	Tag    string
	Points []geom.Point
	Center geom.Point
	RX, RY float64
	Text   string
	Angle  float64
	Style  Style
	Hidden bool
}

// Clone returns a deep copy of p.
func (p Primitive) Clone() Primitive {
	if p.Points != nil {
		pts := make([]geom.Point, len(p.Points))
		copy(pts, p.Points)
		p.Points = pts
	}
	return p
}

// Bounds returns the axis-aligned extent of the primitive. Text has an
// empty box at its anchor.
func (p Primitive) Bounds() geom.Box {
	switch p.Kind {
	case Polygon:
		return geom.Bounds(p.Points)
	case Oval:
		return geom.CircleBox(p.Center, p.RX, p.RY)
	default:
		return geom.Box{MinX: p.Center.X, MinY: p.Center.Y, MaxX: p.Center.X, MaxY: p.Center.Y}
	}
}

// Surface is the drawing collaborator. Implementations are not safe for
// concurrent use; all calls come from the event loop.
type Surface interface {
	// Create stores p and returns its new ID. p.ID is ignored.
	Create(p Primitive) ID
	// Get returns a copy of the primitive.
	Get(id ID) (Primitive, bool)
	// Update applies fn to the stored primitive. It reports whether id
	// exists.
	Update(id ID, fn func(*Primitive)) bool
	Delete(id ID)
	SetHidden(id ID, hidden bool)
	SetStyle(id ID, s Style)
	// Each calls fn for every primitive in paint order until fn returns
	// false.
	Each(fn func(Primitive) bool)
	// HitTest returns the topmost visible primitive on layer under pt.
	HitTest(pt geom.Point, layer Layer) (ID, bool)
}
