// Package highlight steps through BOM pages, showing and emphasizing the
// placed components each page lists.
package highlight

import (
	"github.com/OpenTraceLab/OpenTracePNP/internal/canvas"
	"github.com/OpenTraceLab/OpenTracePNP/internal/palette"
	"github.com/OpenTraceLab/OpenTracePNP/pkg/bom"
)

// Target is the set of placed components a page is applied to.
type Target interface {
	Designators() []string
	Refs(designator string) (shape, label canvas.ID, ok bool)
}

// Options are display toggles combined with page visibility.
type Options struct {
	ShowNames  bool
	ShowShapes bool
	FillShapes bool
}

// DefaultOptions shows names and shapes without fill.
func DefaultOptions() Options {
	return Options{ShowNames: true, ShowShapes: true}
}

// Controller tracks the current page. Page 0 shows every component.
type Controller struct {
	surface canvas.Surface
	target  Target
	theme   palette.Theme
	book    *bom.Book
	page    int
	opts    Options
}

// New returns a controller on page 0 with no BOM loaded.
func New(surface canvas.Surface, target Target, theme palette.Theme, opts Options) *Controller {
	return &Controller{surface: surface, target: target, theme: theme, opts: opts}
}

// SetBook loads a BOM and returns to page 0.
func (c *Controller) SetBook(b *bom.Book) {
	c.book = b
	c.page = 0
	c.Apply()
}

// Book returns the loaded BOM, or nil.
func (c *Controller) Book() *bom.Book { return c.book }

// PageCount returns the number of pages including page 0.
func (c *Controller) PageCount() int { return c.book.Len() }

// Page returns the current page index.
func (c *Controller) Page() int { return c.page }

// Label returns the caption of the current page.
func (c *Controller) Label() string { return bom.Label(c.page, c.PageCount()) }

// SetPage switches to page i. Out of range requests change nothing and
// return false.
func (c *Controller) SetPage(i int) bool {
	if i < 0 || i >= c.PageCount() {
		return false
	}
	c.page = i
	c.Apply()
	return true
}

// Next advances one page if possible.
func (c *Controller) Next() bool { return c.SetPage(c.page + 1) }

// Prev goes back one page if possible.
func (c *Controller) Prev() bool { return c.SetPage(c.page - 1) }

// Options returns the display toggles.
func (c *Controller) Options() Options { return c.opts }

// SetOptions replaces the display toggles and reapplies the page.
func (c *Controller) SetOptions(o Options) {
	c.opts = o
	c.Apply()
}

// Apply restyles every placed component for the current page. It is
// called after every placement so new primitives pick up the page.
func (c *Controller) Apply() {
	page, ok := c.book.Page(c.page)
	if !ok {
		c.page = 0
		page, _ = c.book.Page(0)
	}
	style := c.ShapeStyle(!page.All)
	for _, d := range c.target.Designators() {
		shape, label, ok := c.target.Refs(d)
		if !ok {
			continue
		}
		on := page.Contains(d)
		c.surface.SetHidden(shape, !on || !c.opts.ShowShapes)
		c.surface.SetHidden(label, !on || !c.opts.ShowNames)
		c.surface.SetStyle(shape, style)
	}
}

// ShapeStyle returns the component stroke style, emphasized or neutral.
func (c *Controller) ShapeStyle(emphasized bool) canvas.Style {
	s := canvas.Style{Stroke: c.theme.Neutral, Width: 1}
	if emphasized {
		s = canvas.Style{Stroke: c.theme.Emphasis, Width: 2}
	}
	if c.opts.FillShapes {
		s.Fill = c.theme.ComponentFill
	}
	return s
}
