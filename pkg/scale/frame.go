package scale

import "github.com/OpenTraceLab/OpenTracePNP/pkg/geom"

// Frame maps board millimetres onto the screen.
//
// Base is the outline in its unrotated orientation; the board origin is its
// bottom-left corner and board Y grows upward. The whole frame is then
// turned by Turns quarter turns about the center of Base.
type Frame struct {
	Base   geom.Box
	Turns  int
	SX, SY float64
}

// NewFrame derives the factors of a frame from the physical board size.
func NewFrame(base geom.Box, turns int, widthMM, lengthMM float64) (Frame, error) {
	w, l := Dimensions(base)
	sx, sy, err := Factor(widthMM, lengthMM, w, l)
	if err != nil {
		return Frame{}, err
	}
	return Frame{Base: base, Turns: ((turns % 4) + 4) % 4, SX: sx, SY: sy}, nil
}

// Valid reports whether the frame can project positions.
func (f Frame) Valid() bool {
	return f.SX > 0 && f.SY > 0 && f.Base.Width() > 0 && f.Base.Height() > 0
}

// Origin returns the screen position of the board origin before turning.
func (f Frame) Origin() geom.Point {
	return geom.Point{X: f.Base.MinX, Y: f.Base.MaxY}
}

// Pivot returns the point the frame turns about.
func (f Frame) Pivot() geom.Point {
	return f.Base.Center()
}

// Angle returns the frame rotation in degrees.
func (f Frame) Angle() float64 {
	return float64(f.Turns) * 90
}

// Local projects a board position into the unturned frame. Board Y is
// inverted because screen Y grows downward.
func (f Frame) Local(xMM, yMM float64) geom.Point {
	px, py := Project(xMM, yMM, f.SX, f.SY)
	o := f.Origin()
	return geom.Point{X: o.X + px, Y: o.Y - py}
}

// Turn applies the frame rotation to an unturned screen point.
func (f Frame) Turn(p geom.Point) geom.Point {
	if f.Turns == 0 {
		return p
	}
	return geom.Rotate(p, f.Pivot(), f.Angle())
}

// ToScreen projects a board position to its final screen position.
func (f Frame) ToScreen(xMM, yMM float64) geom.Point {
	return f.Turn(f.Local(xMM, yMM))
}

// ToBoard maps a screen point back to board millimetres.
func (f Frame) ToBoard(p geom.Point) (xMM, yMM float64) {
	if f.Turns != 0 {
		p = geom.Rotate(p, f.Pivot(), -f.Angle())
	}
	o := f.Origin()
	return (p.X - o.X) / f.SX, (o.Y - p.Y) / f.SY
}
