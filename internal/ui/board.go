package ui

import (
	"fmt"
	"image"
	"math"

	"gioui.org/f32"
	"gioui.org/font"
	"gioui.org/io/event"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget"

	"github.com/OpenTraceLab/OpenTracePNP/internal/canvas"
	"github.com/OpenTraceLab/OpenTracePNP/internal/outline"
	"github.com/OpenTraceLab/OpenTracePNP/pkg/geom"
)

const labelSize = unit.Sp(9)

// boardView paints the surface and turns pointer drags on the anchors into
// outline drag sessions. Surface units are device independent pixels.
type boardView struct {
	app  *App
	dpi  float32 // pixels per surface unit
	drag *outline.DragSession
	last geom.Point
}

func (b *boardView) Layout(gtx layout.Context) layout.Dimensions {
	size := gtx.Constraints.Max
	b.dpi = gtx.Metric.PxPerDp
	if b.dpi == 0 {
		b.dpi = 1
	}

	defer clip.Rect{Max: size}.Push(gtx.Ops).Pop()
	paint.Fill(gtx.Ops, b.app.colors.Background)
	b.handlePointer(gtx)
	event.Op(gtx.Ops, b)
	pointer.CursorCrosshair.Add(gtx.Ops)

	b.app.surface.Each(func(p canvas.Primitive) bool {
		if !p.Hidden {
			b.draw(gtx, p)
		}
		return true
	})
	return layout.Dimensions{Size: size}
}

func (b *boardView) handlePointer(gtx layout.Context) {
	ctl := b.app.session.Outline()
	for {
		ev, ok := gtx.Event(pointer.Filter{
			Target: b,
			Kinds:  pointer.Press | pointer.Drag | pointer.Release | pointer.Cancel | pointer.Move,
		})
		if !ok {
			return
		}
		pe, ok := ev.(pointer.Event)
		if !ok {
			continue
		}
		pt := b.toSurface(pe.Position)
		switch pe.Kind {
		case pointer.Press:
			if pe.Buttons != pointer.ButtonPrimary || b.drag != nil {
				continue
			}
			idx, ok := ctl.AnchorAt(pt)
			if !ok {
				continue
			}
			s, err := ctl.BeginDrag(idx)
			if err != nil {
				b.app.Logf("[WARN] %v", err)
				continue
			}
			b.drag, b.last = s, pt
		case pointer.Drag:
			if b.drag == nil {
				continue
			}
			applied, err := ctl.Drag(b.drag, pt.X-b.last.X, pt.Y-b.last.Y)
			if err != nil {
				b.app.Logf("[WARN] %v", err)
				b.drag = nil
				continue
			}
			// A rejected resize keeps the old reference point so the corner
			// catches up once the pointer is back in range.
			if applied {
				b.last = pt
			}
			b.updateReadout(pt)
		case pointer.Release, pointer.Cancel:
			if b.drag != nil {
				ctl.EndDrag(b.drag)
				b.drag = nil
			}
		case pointer.Move:
			b.updateReadout(pt)
		}
		b.app.invalidate()
	}
}

func (b *boardView) updateReadout(pt geom.Point) {
	x, y, ok := b.app.session.BoardPosition(pt)
	if !ok {
		b.app.readout = ""
		return
	}
	b.app.readout = fmt.Sprintf("X: %.2f mm  Y: %.2f mm", x, y)
}

func (b *boardView) toSurface(p f32.Point) geom.Point {
	return geom.Pt(float64(p.X/b.dpi), float64(p.Y/b.dpi))
}

func (b *boardView) toPx(p geom.Point) f32.Point {
	return f32.Pt(float32(p.X)*b.dpi, float32(p.Y)*b.dpi)
}

func (b *boardView) draw(gtx layout.Context, p canvas.Primitive) {
	width := float32(p.Style.Width) * b.dpi
	switch p.Kind {
	case canvas.Polygon:
		if len(p.Points) < 2 {
			return
		}
		if p.Style.Fill.A != 0 {
			paint.FillShape(gtx.Ops, p.Style.Fill, clip.Outline{Path: b.path(gtx.Ops, p.Points)}.Op())
		}
		paint.FillShape(gtx.Ops, p.Style.Stroke, clip.Stroke{Path: b.path(gtx.Ops, p.Points), Width: width}.Op())
	case canvas.Oval:
		lo := b.toPx(geom.Pt(p.Center.X-p.RX, p.Center.Y-p.RY))
		hi := b.toPx(geom.Pt(p.Center.X+p.RX, p.Center.Y+p.RY))
		ell := clip.Ellipse{Min: roundPt(lo), Max: roundPt(hi)}
		if p.Style.Fill.A != 0 {
			paint.FillShape(gtx.Ops, p.Style.Fill, ell.Op(gtx.Ops))
		}
		paint.FillShape(gtx.Ops, p.Style.Stroke, clip.Stroke{Path: ell.Path(gtx.Ops), Width: width}.Op())
	case canvas.Text:
		b.label(gtx, p)
	}
}

func (b *boardView) path(ops *op.Ops, pts []geom.Point) clip.PathSpec {
	var path clip.Path
	path.Begin(ops)
	path.MoveTo(b.toPx(pts[0]))
	for _, pt := range pts[1:] {
		path.LineTo(b.toPx(pt))
	}
	path.Close()
	return path.End()
}

// label draws text centered on its anchor and rotated by its angle.
func (b *boardView) label(gtx layout.Context, p canvas.Primitive) {
	m := op.Record(gtx.Ops)
	paint.ColorOp{Color: p.Style.Stroke}.Add(gtx.Ops)
	mat := m.Stop()

	macro := op.Record(gtx.Ops)
	lgtx := gtx
	lgtx.Constraints = layout.Constraints{Max: image.Pt(4096, 4096)}
	dims := widget.Label{MaxLines: 1}.Layout(lgtx, b.app.shaper, font.Font{}, labelSize, p.Text, mat)
	call := macro.Stop()

	rad := float32(p.Angle * math.Pi / 180)
	tr := f32.Affine2D{}.
		Offset(f32.Pt(-float32(dims.Size.X)/2, -float32(dims.Size.Y)/2)).
		Rotate(f32.Pt(0, 0), rad).
		Offset(b.toPx(p.Center))
	stack := op.Affine(tr).Push(gtx.Ops)
	call.Add(gtx.Ops)
	stack.Pop()
}

func roundPt(p f32.Point) image.Point {
	return image.Pt(int(math.Round(float64(p.X))), int(math.Round(float64(p.Y))))
}
