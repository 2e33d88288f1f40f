// Package bom loads bill-of-materials pages. Each BOM row becomes one page
// of designators; page 0 is a synthetic page that shows every component.
package bom

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/OpenTraceLab/OpenTracePNP/pkg/csvio"
)

// ColDesignator is the only column a BOM file must carry.
const ColDesignator = "Designator"

// DefaultName is the BOM file looked up next to a pick-and-place file.
const DefaultName = "BOM.csv"

// Page is one step of an assembly review.
type Page struct {
	Index       int
	All         bool // synthetic page 0
	Designators []string
	Row         csvio.Row // source row, nil for page 0
}

// Contains reports whether designator is listed on the page. Page 0
// contains everything.
func (p Page) Contains(designator string) bool {
	if p.All {
		return true
	}
	for _, d := range p.Designators {
		if d == designator {
			return true
		}
	}
	return false
}

// Book is the ordered list of pages, page 0 included.
type Book struct {
	pages []Page
}

// NewBook builds a book from designator lists, one per BOM row.
func NewBook(rows ...[]string) *Book {
	b := &Book{pages: []Page{{Index: 0, All: true}}}
	for i, ds := range rows {
		b.pages = append(b.pages, Page{Index: i + 1, Designators: ds})
	}
	return b
}

// NewBookFromFields builds a book from raw Designator fields such as
// "R1, R2, C1".
func NewBookFromFields(fields ...string) (*Book, error) {
	rows := make([][]string, 0, len(fields))
	for i, f := range fields {
		ds, err := ParseDesignators(f)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", csvio.ErrParseFailure, i+1, err)
		}
		rows = append(rows, ds)
	}
	return NewBook(rows...), nil
}

// Len returns the page count including page 0.
func (b *Book) Len() int {
	if b == nil {
		return 1
	}
	return len(b.pages)
}

// Page returns page i.
func (b *Book) Page(i int) (Page, bool) {
	if b == nil {
		if i == 0 {
			return Page{All: true}, true
		}
		return Page{}, false
	}
	if i < 0 || i >= len(b.pages) {
		return Page{}, false
	}
	return b.pages[i], true
}

// Pages returns every page in order.
func (b *Book) Pages() []Page {
	if b == nil {
		return []Page{{All: true}}
	}
	out := make([]Page, len(b.pages))
	copy(out, b.pages)
	return out
}

// Label formats the one-based page caption, e.g. "Page 1 of 4".
func Label(i, count int) string {
	return fmt.Sprintf("Page %d of %d", i+1, count)
}

// ReadCSV reads a BOM stream. Row order is page order.
func ReadCSV(r io.Reader) (*Book, error) {
	_, rows, err := csvio.ReadRows(r, ColDesignator)
	if err != nil {
		return nil, err
	}
	b := NewBook()
	for i, row := range rows {
		ds, err := ParseDesignators(row.Get(ColDesignator))
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", csvio.ErrParseFailure, i+1, err)
		}
		b.pages = append(b.pages, Page{Index: i + 1, Designators: ds, Row: row})
	}
	return b, nil
}

// LoadFile reads the BOM at path.
func LoadFile(path string) (*Book, error) {
	f, err := csvio.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	b, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

// DefaultPath returns the BOM path that sits beside a pick-and-place file.
func DefaultPath(pnpPath string) string {
	return filepath.Join(filepath.Dir(pnpPath), DefaultName)
}
