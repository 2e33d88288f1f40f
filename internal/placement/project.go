package placement

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTracePNP/internal/canvas"
	"github.com/OpenTraceLab/OpenTracePNP/pkg/footprint"
	"github.com/OpenTraceLab/OpenTracePNP/pkg/geom"
	"github.com/OpenTraceLab/OpenTracePNP/pkg/pnp"
	"github.com/OpenTraceLab/OpenTracePNP/pkg/scale"
)

// project computes the shape and label of one component and its projected
// center. Geometry is built in the unturned frame and then turned with it.
func (e *Engine) project(rec pnp.Record, def footprint.Definition, f scale.Frame) (shape, label canvas.Primitive, pos geom.Point, err error) {
	pos = f.Local(rec.CenterXMM, rec.CenterYMM)

	// The footprint offset is in the component's own frame.
	center := pos
	ox, oy := scale.Project(def.CenterOffsetXMM, def.CenterOffsetYMM, f.SX, f.SY)
	if ox != 0 || oy != 0 {
		center = geom.Rotate(geom.Pt(pos.X+ox, pos.Y-oy), pos, rec.RotationDeg)
	}

	shape = canvas.Primitive{
		Layer: canvas.LayerComponent,
		Tag:   rec.Designator,
		Style: canvas.Style{Stroke: e.theme.Neutral, Width: 1},
	}
	switch def.Shape {
	case footprint.Rectangle:
		shape.Kind = canvas.Polygon
		shape.Points = geom.RotatedRect(center, def.WidthMM*f.SX, def.HeightMM*f.SY, rec.RotationDeg)
	case footprint.Circle:
		r := def.WidthMM * f.SX / 2
		shape.Kind = canvas.Oval
		shape.Center = center
		shape.RX, shape.RY = r, r
	default:
		return shape, label, pos, fmt.Errorf("placement: %s: unsupported shape %v", rec.Designator, def.Shape)
	}

	label = canvas.Primitive{
		Kind:   canvas.Text,
		Layer:  canvas.LayerComponent,
		Tag:    rec.Designator,
		Text:   rec.Designator,
		Center: center,
		Angle:  geom.UprightAngle(rec.RotationDeg),
		Style:  canvas.Style{Stroke: e.theme.Label, Width: 1},
	}

	pivot := f.Pivot()
	for i := 0; i < f.Turns; i++ {
		turn90(&shape, pivot)
		turn90(&label, pivot)
		pos = geom.Rotate(pos, pivot, 90)
	}
	return shape, label, pos, nil
}
