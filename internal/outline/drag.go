package outline

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTracePNP/pkg/geom"
	"github.com/OpenTraceLab/OpenTracePNP/pkg/scale"
)

// DragSession is one press-drag-release gesture on an anchor. It is
// returned by BeginDrag and must be passed back to Drag and EndDrag.
type DragSession struct {
	anchor int
	mode   Mode
	ended  bool
}

// Anchor returns the anchor being dragged.
func (s *DragSession) Anchor() int { return s.anchor }

// Mode returns Moving or Resizing.
func (s *DragSession) Mode() Mode { return s.mode }

// BeginDrag starts dragging anchor. The origin anchor moves the outline,
// the others resize it. Only one drag may be active.
func (c *Controller) BeginDrag(anchor int) (*DragSession, error) {
	if c.state != Placed {
		return nil, fmt.Errorf("%w: outline not placed", ErrPreconditionNotMet)
	}
	if c.drag != nil {
		return nil, fmt.Errorf("%w: drag in progress", ErrPreconditionNotMet)
	}
	if anchor < 0 || anchor >= NumAnchors {
		return nil, fmt.Errorf("%w: no anchor %d", ErrPreconditionNotMet, anchor)
	}
	mode := Resizing
	if anchor == AnchorOrigin {
		mode = Moving
	}
	c.drag = &DragSession{anchor: anchor, mode: mode}
	return c.drag, nil
}

// Drag applies a pointer delta. Each accepted delta is committed at once;
// there is no rollback when the drag ends. It reports whether the delta
// was applied; a resize that would leave either extent below the minimum
// size is rejected whole.
func (c *Controller) Drag(s *DragSession, dx, dy float64) (bool, error) {
	if err := c.checkSession(s); err != nil {
		return false, err
	}
	if s.mode == Moving {
		c.move(dx, dy)
		return true, nil
	}
	return c.resize(s.anchor, dx, dy), nil
}

// EndDrag finishes s.
func (c *Controller) EndDrag(s *DragSession) error {
	if err := c.checkSession(s); err != nil {
		return err
	}
	s.ended = true
	c.drag = nil
	return nil
}

// Dragging reports whether a drag is active.
func (c *Controller) Dragging() bool { return c.drag != nil }

func (c *Controller) checkSession(s *DragSession) error {
	if s == nil || s.ended || s != c.drag {
		return fmt.Errorf("%w: stale drag session", ErrPreconditionNotMet)
	}
	return nil
}

func (c *Controller) move(dx, dy float64) {
	c.box = c.box.Translate(dx, dy)
	c.redraw(false)
	if c.follower != nil {
		c.follower.Translate(dx, dy)
	}
}

func (c *Controller) resize(anchor int, dx, dy float64) bool {
	pre := c.box
	b := pre
	corner := c.corner(anchor)
	switch corner {
	case geom.BottomLeft:
		b.MinX += dx
		b.MaxY += dy
	case geom.BottomRight:
		b.MaxX += dx
		b.MaxY += dy
	case geom.TopRight:
		b.MaxX += dx
		b.MinY += dy
	case geom.TopLeft:
		b.MinX += dx
		b.MinY += dy
	}
	if b.Width() < c.cfg.MinSize || b.Height() < c.cfg.MinSize {
		return false
	}

	// Components scale against the pre-drag extents, not the physical size.
	sx, sy, err := scale.Factor(pre.Width(), pre.Height(), b.Width(), b.Height())
	if err != nil {
		return false
	}
	fixed := pre.Corners()[(corner+2)%4]
	c.box = b
	c.redraw(false)
	if c.follower != nil {
		c.follower.Rescale(fixed, sx, sy)
	}
	return true
}
