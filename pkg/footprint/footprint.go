// Package footprint models the declared footprint shapes a pick-and-place
// row can be drawn with and resolves loosely named footprints against them.
package footprint

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when no declared footprint matches a raw name.
var ErrNotFound = errors.New("footprint: not found")

// Shape is the outline drawn for a footprint.
type Shape int

const (
	Rectangle Shape = iota
	Circle
)

// String returns the CSV spelling of the shape.
func (s Shape) String() string {
	switch s {
	case Rectangle:
		return "rectangle"
	case Circle:
		return "circle"
	default:
		return fmt.Sprintf("Shape(%d)", int(s))
	}
}

// ParseShape parses a shape name, case-insensitively.
func ParseShape(s string) (Shape, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rectangle", "rect":
		return Rectangle, nil
	case "circle":
		return Circle, nil
	default:
		return 0, fmt.Errorf("footprint: unknown shape %q", s)
	}
}

// Definition is a named footprint shape in millimetres.
type Definition struct {
	Name            string
	Shape           Shape
	WidthMM         float64 // diameter for circles
	HeightMM        float64 // equal to WidthMM for circles
	CenterOffsetXMM float64
	CenterOffsetYMM float64
}

// Normalize enforces the circle invariant HeightMM == WidthMM.
func (d Definition) Normalize() Definition {
	if d.Shape == Circle {
		d.HeightMM = d.WidthMM
	}
	return d
}

// Validate checks the definition has a name and positive size.
func (d Definition) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("footprint: empty name")
	}
	if !(d.WidthMM > 0) || !(d.HeightMM > 0) {
		return fmt.Errorf("footprint: %s: size must be positive, got %vx%v", d.Name, d.WidthMM, d.HeightMM)
	}
	return nil
}

// Table is an ordered collection of definitions keyed by exact name.
// Iteration order is declaration order, which decides matcher ties.
type Table struct {
	defs  []Definition
	index map[string]int
}

// NewTable builds a table from definitions. Later duplicates replace earlier
// ones in place.
func NewTable(defs ...Definition) *Table {
	t := &Table{index: make(map[string]int)}
	for _, d := range defs {
		t.Upsert(d)
	}
	return t
}

// Len returns the number of definitions.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.defs)
}

// Definitions returns the definitions in declaration order.
func (t *Table) Definitions() []Definition {
	if t == nil {
		return nil
	}
	out := make([]Definition, len(t.defs))
	copy(out, t.defs)
	return out
}

// Get looks up a definition by exact name.
func (t *Table) Get(name string) (Definition, bool) {
	if t == nil {
		return Definition{}, false
	}
	i, ok := t.index[name]
	if !ok {
		return Definition{}, false
	}
	return t.defs[i], true
}

// Upsert replaces the definition with the same name or appends it. It
// reports whether an existing entry was replaced.
func (t *Table) Upsert(d Definition) bool {
	if t.index == nil {
		t.index = make(map[string]int)
	}
	d = d.Normalize()
	if i, ok := t.index[d.Name]; ok {
		t.defs[i] = d
		return true
	}
	t.index[d.Name] = len(t.defs)
	t.defs = append(t.defs, d)
	return false
}
