// Package outline owns the on-screen board outline and its manipulation:
// placing it, dragging it by its anchors and turning it in quarter turns.
// Every change is forwarded to a Follower so placed components stay in step.
package outline

import (
	"errors"
	"fmt"

	"github.com/OpenTraceLab/OpenTracePNP/internal/canvas"
	"github.com/OpenTraceLab/OpenTracePNP/internal/palette"
	"github.com/OpenTraceLab/OpenTracePNP/pkg/geom"
	"github.com/OpenTraceLab/OpenTracePNP/pkg/scale"
)

// ErrPreconditionNotMet is returned when an operation is invoked before the
// step it depends on, or while a drag is in progress.
var ErrPreconditionNotMet = errors.New("outline: precondition not met")

// State is the lifecycle stage of the outline.
type State int

const (
	Unset State = iota
	Defined
	Placed
)

func (s State) String() string {
	switch s {
	case Unset:
		return "unset"
	case Defined:
		return "defined"
	case Placed:
		return "placed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Mode is what a placed outline is currently doing.
type Mode int

const (
	Idle Mode = iota
	Moving
	Resizing
)

func (m Mode) String() string {
	switch m {
	case Idle:
		return "idle"
	case Moving:
		return "moving"
	case Resizing:
		return "resizing"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Anchor indexes. Anchor 0 sits on the board origin and moves the outline;
// the others resize it.
const (
	AnchorOrigin = 0
	NumAnchors   = 4
)

// Follower receives every outline transform.
type Follower interface {
	Translate(dx, dy float64)
	Rescale(fixed geom.Point, sx, sy float64)
	Rotate90(pivot geom.Point)
	Reproject(frame scale.Frame)
}

// Config holds the screen constants of the outline.
type Config struct {
	DefaultAnchor geom.Point // top-left corner of a freshly placed outline
	MinSize       float64    // smallest width or height a resize may leave
	AnchorRadius  float64
	Theme         palette.Theme
}

// DefaultConfig returns the stock outline settings.
func DefaultConfig() Config {
	return Config{
		DefaultAnchor: geom.Pt(250, 100),
		MinSize:       10,
		AnchorRadius:  5,
		Theme:         palette.Default(),
	}
}

// Controller is the outline state machine. It is driven from a single
// event loop and is not safe for concurrent use.
type Controller struct {
	cfg      Config
	surface  canvas.Surface
	follower Follower

	state     State
	widthMM   float64
	lengthMM  float64
	box       geom.Box // live screen extent, axis aligned
	turns     int
	filled    bool
	outlineID canvas.ID
	anchorIDs [NumAnchors]canvas.ID
	drag      *DragSession
}

// New returns an unset controller drawing on surface. follower may be nil.
func New(surface canvas.Surface, follower Follower, cfg Config) *Controller {
	return &Controller{cfg: cfg, surface: surface, follower: follower}
}

// SetFollower replaces the follower.
func (c *Controller) SetFollower(f Follower) { c.follower = f }

// State returns the lifecycle stage.
func (c *Controller) State() State { return c.state }

// Mode returns the current drag mode.
func (c *Controller) Mode() Mode {
	if c.drag == nil {
		return Idle
	}
	return c.drag.mode
}

// Physical returns the defined board size in millimetres.
func (c *Controller) Physical() (widthMM, lengthMM float64) {
	return c.widthMM, c.lengthMM
}

// Box returns the live screen extent of the outline.
func (c *Controller) Box() geom.Box { return c.box }

// Turns returns the number of quarter turns applied, 0..3.
func (c *Controller) Turns() int { return c.turns }

// Rotated reports whether the outline is turned by an odd number of
// quarter turns.
func (c *Controller) Rotated() bool { return c.turns%2 == 1 }

// Dimensions returns the on-screen width and length of the outline. They
// swap with every quarter turn.
func (c *Controller) Dimensions() (float64, float64) {
	return scale.Dimensions(c.box)
}

// Define sets the physical board size used as the scale reference. A
// placed outline keeps its screen geometry.
func (c *Controller) Define(widthMM, lengthMM float64) error {
	if err := scale.Validate(widthMM, lengthMM); err != nil {
		return err
	}
	c.widthMM, c.lengthMM = widthMM, lengthMM
	if c.state == Unset {
		c.state = Defined
	}
	return nil
}

// Frame returns the board-to-screen mapping of the placed outline.
func (c *Controller) Frame() (scale.Frame, error) {
	if c.state != Placed {
		return scale.Frame{}, fmt.Errorf("%w: outline not placed", ErrPreconditionNotMet)
	}
	return scale.NewFrame(c.base(), c.turns, c.widthMM, c.lengthMM)
}

// Scale returns the current screen-per-millimetre factors along the board
// axes.
func (c *Controller) Scale() (sx, sy float64, err error) {
	f, err := c.Frame()
	if err != nil {
		return 0, 0, err
	}
	return f.SX, f.SY, nil
}

// base returns the outline box in its unturned orientation.
func (c *Controller) base() geom.Box {
	if c.turns%2 == 0 {
		return c.box
	}
	return swapAxes(c.box)
}

// Place draws a fresh outline at the default anchor, sized by the current
// scale (1:1 the first time), and re-projects placed components onto it.
func (c *Controller) Place() error {
	if c.state == Unset {
		return fmt.Errorf("%w: outline not defined", ErrPreconditionNotMet)
	}
	if c.drag != nil {
		return fmt.Errorf("%w: drag in progress", ErrPreconditionNotMet)
	}

	sx, sy := 1.0, 1.0
	if c.state == Placed {
		if f, err := c.Frame(); err == nil {
			sx, sy = f.SX, f.SY
		}
	}
	a := c.cfg.DefaultAnchor
	c.box = geom.BoxAt(a.X, a.Y, c.widthMM*sx, c.lengthMM*sy)
	c.turns = 0
	c.state = Placed
	c.redraw(true)

	if c.follower != nil {
		if f, err := c.Frame(); err == nil {
			c.follower.Reproject(f)
		}
	}
	return nil
}

// Rotate90 turns the outline and every component a quarter turn about the
// outline center.
func (c *Controller) Rotate90() error {
	if c.state != Placed {
		return fmt.Errorf("%w: outline not placed", ErrPreconditionNotMet)
	}
	if c.drag != nil {
		return fmt.Errorf("%w: drag in progress", ErrPreconditionNotMet)
	}
	pivot := c.box.Center()
	c.box = swapAxes(c.box)
	c.turns = (c.turns + 1) % 4
	c.redraw(false)
	if c.follower != nil {
		c.follower.Rotate90(pivot)
	}
	return nil
}

// ToggleFill switches the outline fill on or off and returns the new
// setting.
func (c *Controller) ToggleFill() bool {
	c.SetFill(!c.filled)
	return c.filled
}

// SetFill sets the outline fill.
func (c *Controller) SetFill(on bool) {
	c.filled = on
	if c.state == Placed {
		c.surface.SetStyle(c.outlineID, c.outlineStyle())
	}
}

// Filled reports whether the outline is filled.
func (c *Controller) Filled() bool { return c.filled }

// AnchorPoints returns the screen position of every anchor.
func (c *Controller) AnchorPoints() [NumAnchors]geom.Point {
	var out [NumAnchors]geom.Point
	corners := c.box.Corners()
	for i := range out {
		out[i] = corners[c.corner(i)]
	}
	return out
}

// AnchorAt returns the anchor under pt.
func (c *Controller) AnchorAt(pt geom.Point) (int, bool) {
	if c.state != Placed {
		return 0, false
	}
	id, ok := c.surface.HitTest(pt, canvas.LayerAnchor)
	if !ok {
		return 0, false
	}
	for i, aid := range c.anchorIDs {
		if aid == id {
			return i, true
		}
	}
	return 0, false
}

// corner maps an anchor to the Box.Corners index it currently sits on.
// A quarter turn moves each corner one step backwards in that order.
func (c *Controller) corner(anchor int) int {
	return ((anchor-c.turns)%NumAnchors + NumAnchors) % NumAnchors
}

func (c *Controller) outlineStyle() canvas.Style {
	s := canvas.Style{Stroke: c.cfg.Theme.Outline, Width: 2}
	if c.filled {
		s.Fill = c.cfg.Theme.OutlineFill
	}
	return s
}

func (c *Controller) anchorStyle(i int) canvas.Style {
	col := c.cfg.Theme.ResizeAnchor
	if i == AnchorOrigin {
		col = c.cfg.Theme.MoveAnchor
	}
	return canvas.Style{Stroke: col, Fill: col, Width: 1}
}

// redraw syncs the outline primitives with c.box. With fresh set, the old
// primitives are discarded and new ones created.
func (c *Controller) redraw(fresh bool) {
	corners := c.box.Corners()
	pts := corners[:]
	if fresh {
		if c.outlineID != 0 {
			c.surface.Delete(c.outlineID)
			for _, id := range c.anchorIDs {
				c.surface.Delete(id)
			}
		}
		c.outlineID = c.surface.Create(canvas.Primitive{
			Kind:   canvas.Polygon,
			Layer:  canvas.LayerOutline,
			Tag:    "outline",
			Points: pts,
			Style:  c.outlineStyle(),
		})
		for i := range c.anchorIDs {
			c.anchorIDs[i] = c.surface.Create(canvas.Primitive{
				Kind:   canvas.Oval,
				Layer:  canvas.LayerAnchor,
				Tag:    fmt.Sprintf("anchor%d", i),
				Center: corners[c.corner(i)],
				RX:     c.cfg.AnchorRadius,
				RY:     c.cfg.AnchorRadius,
				Style:  c.anchorStyle(i),
			})
		}
		return
	}
	c.surface.Update(c.outlineID, func(p *canvas.Primitive) {
		p.Points = append(p.Points[:0], pts...)
	})
	for i, id := range c.anchorIDs {
		center := corners[c.corner(i)]
		c.surface.Update(id, func(p *canvas.Primitive) { p.Center = center })
	}
}

// swapAxes exchanges the width and height of b about its center.
func swapAxes(b geom.Box) geom.Box {
	ctr := b.Center()
	hw, hh := b.Width()/2, b.Height()/2
	return geom.Box{MinX: ctr.X - hh, MinY: ctr.Y - hw, MaxX: ctr.X + hh, MaxY: ctr.Y + hw}
}
