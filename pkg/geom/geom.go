// Package geom provides the 2D primitives used to lay out a board on screen:
// points, axis-aligned boxes, rotation about a pivot and rotated rectangle
// construction.
//
// All coordinates are screen units with Y increasing downward. Angles are in
// degrees and rotate in the same sense everywhere (outline and components).
package geom

import "math"

// Point represents a 2D screen position.
type Point struct {
	X float64
	Y float64
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Box is an axis-aligned rectangle given by its two extreme corners.
type Box struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// BoxFromCorners builds a box from two opposite corners in any order.
func BoxFromCorners(a, b Point) Box {
	return Box{
		MinX: math.Min(a.X, b.X),
		MinY: math.Min(a.Y, b.Y),
		MaxX: math.Max(a.X, b.X),
		MaxY: math.Max(a.Y, b.Y),
	}
}

// BoxAt returns a box with top-left corner at (x, y) and the given size.
func BoxAt(x, y, w, h float64) Box {
	return Box{MinX: x, MinY: y, MaxX: x + w, MaxY: y + h}
}

func (b Box) Width() float64  { return b.MaxX - b.MinX }
func (b Box) Height() float64 { return b.MaxY - b.MinY }

// Center returns the midpoint of the box.
func (b Box) Center() Point {
	return Point{X: (b.MinX + b.MaxX) / 2, Y: (b.MinY + b.MaxY) / 2}
}

// Translate returns the box moved by (dx, dy).
func (b Box) Translate(dx, dy float64) Box {
	return Box{MinX: b.MinX + dx, MinY: b.MinY + dy, MaxX: b.MaxX + dx, MaxY: b.MaxY + dy}
}

// Corner indexes, in the order the outline anchors are laid out.
const (
	BottomLeft = iota
	BottomRight
	TopRight
	TopLeft
)

// Corners returns the four corners ordered bottom-left, bottom-right,
// top-right, top-left.
func (b Box) Corners() [4]Point {
	return [4]Point{
		{X: b.MinX, Y: b.MaxY},
		{X: b.MaxX, Y: b.MaxY},
		{X: b.MaxX, Y: b.MinY},
		{X: b.MinX, Y: b.MinY},
	}
}

// Contains reports whether p lies inside or on the edge of the box.
func (b Box) Contains(p Point) bool {
	return p.X >= b.MinX && p.X <= b.MaxX && p.Y >= b.MinY && p.Y <= b.MaxY
}

// Rotate rotates p about pivot by deg degrees.
func Rotate(p, pivot Point, deg float64) Point {
	rad := deg * math.Pi / 180.0
	cos := math.Cos(rad)
	sin := math.Sin(rad)

	// Exact quarter turns keep repeated 90° rotations free of drift.
	switch NormalizeAngle(deg) {
	case 0:
		cos, sin = 1, 0
	case 90:
		cos, sin = 0, 1
	case 180:
		cos, sin = -1, 0
	case 270:
		cos, sin = 0, -1
	}

	dx := p.X - pivot.X
	dy := p.Y - pivot.Y
	return Point{
		X: pivot.X + dx*cos - dy*sin,
		Y: pivot.Y + dx*sin + dy*cos,
	}
}

// RotatePoints rotates every point about pivot and returns a new slice.
func RotatePoints(pts []Point, pivot Point, deg float64) []Point {
	out := make([]Point, len(pts))
	for i, p := range pts {
		out[i] = Rotate(p, pivot, deg)
	}
	return out
}

// RotatedRect returns the corners of a w×h rectangle centered on center and
// rotated about it by deg degrees.
func RotatedRect(center Point, w, h, deg float64) []Point {
	hw, hh := w/2, h/2
	corners := []Point{
		{X: center.X - hw, Y: center.Y - hh},
		{X: center.X + hw, Y: center.Y - hh},
		{X: center.X + hw, Y: center.Y + hh},
		{X: center.X - hw, Y: center.Y + hh},
	}
	if deg == 0 {
		return corners
	}
	return RotatePoints(corners, center, deg)
}

// CircleBox returns the bounding box of an ellipse with the given radii.
func CircleBox(center Point, rx, ry float64) Box {
	return Box{
		MinX: center.X - rx,
		MinY: center.Y - ry,
		MaxX: center.X + rx,
		MaxY: center.Y + ry,
	}
}

// ScaleAbout scales p away from fixed by (sx, sy).
func ScaleAbout(p, fixed Point, sx, sy float64) Point {
	return Point{
		X: fixed.X + (p.X-fixed.X)*sx,
		Y: fixed.Y + (p.Y-fixed.Y)*sy,
	}
}

// Bounds returns the smallest box containing all points.
func Bounds(pts []Point) Box {
	if len(pts) == 0 {
		return Box{}
	}
	b := Box{MinX: pts[0].X, MinY: pts[0].Y, MaxX: pts[0].X, MaxY: pts[0].Y}
	for _, p := range pts[1:] {
		b.MinX = math.Min(b.MinX, p.X)
		b.MinY = math.Min(b.MinY, p.Y)
		b.MaxX = math.Max(b.MaxX, p.X)
		b.MaxY = math.Max(b.MaxY, p.Y)
	}
	return b
}

// NormalizeAngle maps deg into [0, 360).
func NormalizeAngle(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// UprightAngle normalizes a text angle and flips it by 180° when it would
// render upside down, i.e. when it falls in (90, 270].
func UprightAngle(deg float64) float64 {
	deg = NormalizeAngle(deg)
	if deg > 90 && deg <= 270 {
		deg = NormalizeAngle(deg + 180)
	}
	return deg
}
