// Package session wires the outline, placement and page highlight
// controllers into the single object the viewer and the CLI drive.
package session

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTracePNP/internal/canvas"
	"github.com/OpenTraceLab/OpenTracePNP/internal/highlight"
	"github.com/OpenTraceLab/OpenTracePNP/internal/outline"
	"github.com/OpenTraceLab/OpenTracePNP/internal/placement"
	"github.com/OpenTraceLab/OpenTracePNP/pkg/bom"
	"github.com/OpenTraceLab/OpenTracePNP/pkg/footprint"
	"github.com/OpenTraceLab/OpenTracePNP/pkg/geom"
	"github.com/OpenTraceLab/OpenTracePNP/pkg/pnp"
	"github.com/OpenTraceLab/OpenTracePNP/pkg/scale"
)

// Errors surfaced by the session, re-exported from the packages that
// raise them.
var (
	ErrPreconditionNotMet = outline.ErrPreconditionNotMet
	ErrDegenerateOutline  = scale.ErrDegenerateOutline
	ErrEmptyBatch         = placement.ErrEmptyBatch
	ErrEmptyFootprints    = placement.ErrEmptyFootprints
)

// DebugSample is how many components Debug prints.
const DebugSample = 5

// Logger receives diagnostics. *log.Logger satisfies it.
type Logger interface {
	Printf(format string, v ...any)
}

type nopLogger struct{}

func (nopLogger) Printf(string, ...any) {}

// Config configures a Session.
type Config struct {
	Outline outline.Config
	Display highlight.Options
	Logger  Logger
}

// DefaultConfig returns stock settings with logging off.
func DefaultConfig() Config {
	return Config{
		Outline: outline.DefaultConfig(),
		Display: highlight.DefaultOptions(),
	}
}

// Session is one board being aligned. Like the controllers it owns, it is
// driven from a single event loop.
type Session struct {
	log     Logger
	surface canvas.Surface
	outline *outline.Controller
	engine  *placement.Engine
	pages   *highlight.Controller

	rows   []pnp.Row
	table  *footprint.Table
	result placement.Result
	loaded bool
}

// New returns a session drawing on surface.
func New(surface canvas.Surface, cfg Config) *Session {
	s := &Session{log: cfg.Logger, surface: surface}
	if s.log == nil {
		s.log = nopLogger{}
	}
	theme := cfg.Outline.Theme
	s.engine = placement.NewEngine(surface, theme)
	s.outline = outline.New(surface, s.engine, cfg.Outline)
	s.pages = highlight.New(surface, s.engine, theme, cfg.Display)
	return s
}

// Surface returns the drawing surface.
func (s *Session) Surface() canvas.Surface { return s.surface }

// Outline returns the outline controller, for pointer-driven drags.
func (s *Session) Outline() *outline.Controller { return s.outline }

// Components returns the placement engine.
func (s *Session) Components() *placement.Engine { return s.engine }

// DefineOutline sets the physical board size in millimetres.
func (s *Session) DefineOutline(widthMM, lengthMM float64) error {
	if err := s.outline.Define(widthMM, lengthMM); err != nil {
		return err
	}
	s.log.Printf("session: outline defined %gx%g mm", widthMM, lengthMM)
	return nil
}

// PlaceOutline draws the outline at the default anchor.
func (s *Session) PlaceOutline() error {
	if err := s.outline.Place(); err != nil {
		return err
	}
	s.pages.Apply()
	b := s.outline.Box()
	s.log.Printf("session: outline placed at (%g,%g)-(%g,%g)", b.MinX, b.MinY, b.MaxX, b.MaxY)
	return nil
}

// MoveOutline translates the outline and every component as one drag of
// the origin anchor.
func (s *Session) MoveOutline(dx, dy float64) error {
	d, err := s.outline.BeginDrag(outline.AnchorOrigin)
	if err != nil {
		return err
	}
	defer s.outline.EndDrag(d)
	_, err = s.outline.Drag(d, dx, dy)
	return err
}

// ResizeOutline drags a resize anchor by (dx, dy). It reports whether the
// resize was applied.
func (s *Session) ResizeOutline(anchor int, dx, dy float64) (bool, error) {
	if anchor == outline.AnchorOrigin {
		return false, fmt.Errorf("%w: anchor %d moves the outline", ErrPreconditionNotMet, anchor)
	}
	d, err := s.outline.BeginDrag(anchor)
	if err != nil {
		return false, err
	}
	defer s.outline.EndDrag(d)
	return s.outline.Drag(d, dx, dy)
}

// RotateOutline90 turns the board a quarter turn.
func (s *Session) RotateOutline90() error {
	return s.outline.Rotate90()
}

// ToggleOutlineFill flips the outline fill.
func (s *Session) ToggleOutlineFill() bool {
	return s.outline.ToggleFill()
}

// LoadComponents places rows on the current outline, replacing any earlier
// batch. The current page is reapplied to the new components.
func (s *Session) LoadComponents(rows []pnp.Row, table *footprint.Table) (placement.Result, error) {
	frame, err := s.outline.Frame()
	if err != nil {
		return placement.Result{}, err
	}
	res, err := s.engine.PlaceAll(rows, table, frame)
	if err != nil {
		return placement.Result{}, err
	}
	s.rows, s.table, s.result, s.loaded = rows, table, res, true
	s.pages.Apply()
	s.log.Printf("session: placed %d of %d components, %d malformed, %d missing footprints",
		res.Placed, res.Total, len(res.Malformed), len(res.Missing))
	return res, nil
}

// ReloadFootprints places the last batch again against table, e.g. after a
// footprint was added.
func (s *Session) ReloadFootprints(table *footprint.Table) (placement.Result, error) {
	if !s.loaded {
		return placement.Result{}, fmt.Errorf("%w: no components loaded", ErrPreconditionNotMet)
	}
	return s.LoadComponents(s.rows, table)
}

// Rows returns the last loaded pick-and-place rows.
func (s *Session) Rows() []pnp.Row { return s.rows }

// Footprints returns the table of the last batch, or nil.
func (s *Session) Footprints() *footprint.Table { return s.table }

// LoadBOM sets the BOM pages and returns to page 0. A nil book leaves only
// page 0.
func (s *Session) LoadBOM(b *bom.Book) {
	s.pages.SetBook(b)
	s.log.Printf("session: %d BOM pages", s.pages.PageCount()-1)
}

// Pages returns the BOM pages, page 0 first.
func (s *Session) Pages() []bom.Page { return s.pages.Book().Pages() }

// SetHighlightPage shows page n. Out of range pages are ignored.
func (s *Session) SetHighlightPage(n int) bool { return s.pages.SetPage(n) }

// NextPage advances one page.
func (s *Session) NextPage() bool { return s.pages.Next() }

// PrevPage goes back one page.
func (s *Session) PrevPage() bool { return s.pages.Prev() }

// Page returns the current page index.
func (s *Session) Page() int { return s.pages.Page() }

// PageCount returns the number of pages including page 0.
func (s *Session) PageCount() int { return s.pages.PageCount() }

// PageLabel returns the caption of the current page.
func (s *Session) PageLabel() string { return s.pages.Label() }

// Options returns the component display toggles.
func (s *Session) Options() highlight.Options { return s.pages.Options() }

// SetOptions replaces the component display toggles.
func (s *Session) SetOptions(o highlight.Options) { s.pages.SetOptions(o) }

// Scale returns the current screen-per-millimetre factors.
func (s *Session) Scale() (sx, sy float64, err error) { return s.outline.Scale() }

// Missing returns the unmatched footprint names of the last batch.
func (s *Session) Missing() []string { return s.engine.Missing() }

// Result returns the outcome of the last batch.
func (s *Session) Result() placement.Result { return s.result }

// Summary describes the last batch.
func (s *Session) Summary() string {
	if !s.loaded {
		return "No components loaded"
	}
	return s.result.Summary()
}

// BoardPosition converts a screen point to board millimetres relative to
// the physical origin. ok is false until the outline is placed.
func (s *Session) BoardPosition(pt geom.Point) (xMM, yMM float64, ok bool) {
	f, err := s.outline.Frame()
	if err != nil {
		return 0, 0, false
	}
	xMM, yMM = f.ToBoard(pt)
	return xMM, yMM, true
}

// Debug logs the outline and the first few components.
func (s *Session) Debug() {
	w, l := s.outline.Physical()
	s.log.Printf("debug: outline %s, %gx%g mm, box %+v, turns %d", s.outline.State(), w, l, s.outline.Box(), s.outline.Turns())
	ds := s.engine.Designators()
	if len(ds) > DebugSample {
		ds = ds[:DebugSample]
	}
	for _, d := range ds {
		p, _ := s.engine.Placed(d)
		s.log.Printf("debug: %s %s at (%g,%g) mm rot %g -> %s %gx%g mm, screen (%.2f,%.2f)",
			d, p.Record.Footprint, p.Record.CenterXMM, p.Record.CenterYMM, p.Record.RotationDeg,
			p.Footprint.Shape, p.Footprint.WidthMM, p.Footprint.HeightMM, p.Position.X, p.Position.Y)
	}
}
