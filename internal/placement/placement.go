// Package placement projects pick-and-place records onto a canvas.Surface
// and keeps the projected primitives in step with the outline as it is
// moved, resized and rotated.
package placement

import (
	"errors"
	"fmt"

	"github.com/OpenTraceLab/OpenTracePNP/internal/canvas"
	"github.com/OpenTraceLab/OpenTracePNP/internal/palette"
	"github.com/OpenTraceLab/OpenTracePNP/pkg/footprint"
	"github.com/OpenTraceLab/OpenTracePNP/pkg/geom"
	"github.com/OpenTraceLab/OpenTracePNP/pkg/pnp"
	"github.com/OpenTraceLab/OpenTracePNP/pkg/scale"
)

var (
	// ErrNoFrame is returned when components are placed before the outline.
	ErrNoFrame = errors.New("placement: outline not placed")
	// ErrEmptyBatch is returned for a pick-and-place batch with no rows.
	ErrEmptyBatch = errors.New("placement: empty component batch")
	// ErrEmptyFootprints is returned when the footprint table is empty.
	ErrEmptyFootprints = errors.New("placement: empty footprint table")
	// ErrDuplicateDesignator marks a row whose designator was already placed.
	ErrDuplicateDesignator = errors.New("placement: duplicate designator")
)

// Role tags the two primitives of a placed component.
type Role int

const (
	RoleShape Role = iota
	RoleLabel
)

func (r Role) String() string {
	switch r {
	case RoleShape:
		return "shape"
	case RoleLabel:
		return "label"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

// PlacedComponent is a matched record and the primitives drawn for it.
type PlacedComponent struct {
	Record    pnp.Record
	Footprint footprint.Definition
	Shape     canvas.ID
	Label     canvas.ID
	// Position is the projected pick-and-place center on screen. It moves
	// with every outline transform.
	Position geom.Point
}

// Ref returns the primitive for role.
func (p PlacedComponent) Ref(role Role) canvas.ID {
	switch role {
	case RoleShape:
		return p.Shape
	case RoleLabel:
		return p.Label
	default:
		return 0
	}
}

// Engine owns the mapping from designator to placed primitives.
type Engine struct {
	surface canvas.Surface
	theme   palette.Theme

	placed  map[string]*PlacedComponent
	order   []string
	missing []string
}

// NewEngine returns an engine drawing on surface.
func NewEngine(surface canvas.Surface, theme palette.Theme) *Engine {
	return &Engine{
		surface: surface,
		theme:   theme,
		placed:  make(map[string]*PlacedComponent),
	}
}

// Len returns the number of placed components.
func (e *Engine) Len() int { return len(e.order) }

// Designators returns the placed designators in pick-and-place order.
func (e *Engine) Designators() []string {
	out := make([]string, len(e.order))
	copy(out, e.order)
	return out
}

// Placed looks up a placed component by designator.
func (e *Engine) Placed(designator string) (PlacedComponent, bool) {
	p, ok := e.placed[designator]
	if !ok {
		return PlacedComponent{}, false
	}
	return *p, true
}

// Refs returns the shape and label primitives of designator.
func (e *Engine) Refs(designator string) (shape, label canvas.ID, ok bool) {
	p, ok := e.placed[designator]
	if !ok {
		return 0, 0, false
	}
	return p.Shape, p.Label, true
}

// Missing returns the unmatched raw footprint names of the last batch, in
// first-seen order.
func (e *Engine) Missing() []string {
	out := make([]string, len(e.missing))
	copy(out, e.missing)
	return out
}

// Clear removes every placed component from the surface.
func (e *Engine) Clear() {
	for _, d := range e.order {
		p := e.placed[d]
		e.surface.Delete(p.Shape)
		e.surface.Delete(p.Label)
	}
	e.placed = make(map[string]*PlacedComponent)
	e.order = nil
	e.missing = nil
}

// staged is a component computed but not yet on the surface.
type staged struct {
	rec   pnp.Record
	def   footprint.Definition
	shape canvas.Primitive
	label canvas.Primitive
	pos   geom.Point
}

// PlaceAll replaces the placed set with rows projected through frame.
//
// Rows that fail to parse are skipped and reported in Result.Malformed;
// rows whose footprint does not resolve are reported in Result.Missing.
// A structural failure returns an error and leaves the previous placement
// untouched.
func (e *Engine) PlaceAll(rows []pnp.Row, table *footprint.Table, frame scale.Frame) (Result, error) {
	if !frame.Valid() {
		return Result{}, ErrNoFrame
	}
	if len(rows) == 0 {
		return Result{}, ErrEmptyBatch
	}
	if table.Len() == 0 {
		return Result{}, ErrEmptyFootprints
	}

	res := Result{Total: len(rows)}
	seenMissing := make(map[string]struct{})
	seenDes := make(map[string]struct{})
	var batch []staged
	for _, row := range rows {
		rec, err := pnp.ParseRow(row)
		if err != nil {
			res.Malformed = append(res.Malformed, err)
			continue
		}
		def, ok := footprint.Resolve(rec.Footprint, table)
		if !ok {
			if _, dup := seenMissing[rec.Footprint]; !dup {
				seenMissing[rec.Footprint] = struct{}{}
				res.Missing = append(res.Missing, rec.Footprint)
			}
			continue
		}
		if _, dup := seenDes[rec.Designator]; dup {
			res.Malformed = append(res.Malformed, fmt.Errorf("%w: %s", ErrDuplicateDesignator, rec.Designator))
			continue
		}
		seenDes[rec.Designator] = struct{}{}
		shape, label, pos, err := e.project(rec, def, frame)
		if err != nil {
			res.Malformed = append(res.Malformed, err)
			continue
		}
		batch = append(batch, staged{rec: rec, def: def, shape: shape, label: label, pos: pos})
	}

	e.Clear()
	for _, s := range batch {
		p := &PlacedComponent{
			Record:    s.rec,
			Footprint: s.def,
			Shape:     e.surface.Create(s.shape),
			Label:     e.surface.Create(s.label),
			Position:  s.pos,
		}
		e.placed[s.rec.Designator] = p
		e.order = append(e.order, s.rec.Designator)
	}
	e.missing = res.Missing
	res.Placed = len(batch)
	return res, nil
}

// Reproject recomputes every placed component from its record through
// frame. Primitives keep their IDs, style and visibility.
func (e *Engine) Reproject(frame scale.Frame) {
	if !frame.Valid() {
		return
	}
	for _, d := range e.order {
		p := e.placed[d]
		shape, label, pos, err := e.project(p.Record, p.Footprint, frame)
		if err != nil {
			continue
		}
		e.surface.Update(p.Shape, func(prim *canvas.Primitive) { setGeometry(prim, shape) })
		e.surface.Update(p.Label, func(prim *canvas.Primitive) { setGeometry(prim, label) })
		p.Position = pos
	}
}

// Translate moves every placed component by (dx, dy).
func (e *Engine) Translate(dx, dy float64) {
	d := geom.Pt(dx, dy)
	f := func(p geom.Point) geom.Point { return p.Add(d) }
	e.each(func(prim *canvas.Primitive) { mapPoints(prim, f) }, f)
}

// Rescale scales every placed component about fixed.
func (e *Engine) Rescale(fixed geom.Point, sx, sy float64) {
	f := func(p geom.Point) geom.Point { return geom.ScaleAbout(p, fixed, sx, sy) }
	e.each(func(prim *canvas.Primitive) {
		mapPoints(prim, f)
		if prim.Kind == canvas.Oval {
			prim.RX *= sx
			prim.RY *= sy
		}
	}, f)
}

// Rotate90 turns every placed component a quarter turn about pivot. Oval
// radii swap, so circles stay circles; labels stay upright.
func (e *Engine) Rotate90(pivot geom.Point) {
	f := func(p geom.Point) geom.Point { return geom.Rotate(p, pivot, 90) }
	e.each(func(prim *canvas.Primitive) {
		turn90(prim, pivot)
	}, f)
}

func (e *Engine) each(prim func(*canvas.Primitive), pos func(geom.Point) geom.Point) {
	for _, d := range e.order {
		p := e.placed[d]
		e.surface.Update(p.Shape, prim)
		e.surface.Update(p.Label, prim)
		p.Position = pos(p.Position)
	}
}

func mapPoints(prim *canvas.Primitive, f func(geom.Point) geom.Point) {
	if prim.Kind == canvas.Polygon {
		for i := range prim.Points {
			prim.Points[i] = f(prim.Points[i])
		}
		return
	}
	prim.Center = f(prim.Center)
}

func turn90(prim *canvas.Primitive, pivot geom.Point) {
	switch prim.Kind {
	case canvas.Polygon:
		prim.Points = geom.RotatePoints(prim.Points, pivot, 90)
	case canvas.Oval:
		prim.Center = geom.Rotate(prim.Center, pivot, 90)
		prim.RX, prim.RY = prim.RY, prim.RX
	case canvas.Text:
		prim.Center = geom.Rotate(prim.Center, pivot, 90)
		prim.Angle = geom.UprightAngle(prim.Angle + 90)
	}
}

func setGeometry(dst *canvas.Primitive, src canvas.Primitive) {
	dst.Kind = src.Kind
	dst.Points = src.Points
	dst.Center = src.Center
	dst.RX, dst.RY = src.RX, src.RY
	dst.Angle = src.Angle
	dst.Text = src.Text
}
