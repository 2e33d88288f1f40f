// Package kicad reads the board outline of a KiCad PCB file.
package kicad

import (
	"fmt"
	"io"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// SexpLexer tokenizes KiCad s-expressions. Bare atoms cover symbols and
// numbers alike.
var SexpLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "String", Pattern: `"(?:\\.|[^"\\])*"`},
	{Name: "Punct", Pattern: `[()]`},
	{Name: "Atom", Pattern: `[^\s()"]+`},
})

// Document is a whole file: a single top-level list.
type Document struct {
	Root *List `parser:"\"(\" @@ \")\""`
}

// List is a parenthesized expression. KiCad lists always start with a
// symbol naming the node.
type List struct {
	Head  string  `parser:"@Atom"`
	Items []*Node `parser:"@@*"`
}

// Node is a list item.
type Node struct {
	List *List   `parser:"  \"(\" @@ \")\""`
	Atom *string `parser:"| @(Atom | String)"`
}

var sexpParser = participle.MustBuild[Document](
	participle.Lexer(SexpLexer),
	participle.Elide("Whitespace"),
	participle.Unquote("String"),
)

// Parse reads one KiCad document.
func Parse(r io.Reader) (*List, error) {
	doc, err := sexpParser.Parse("", r)
	if err != nil {
		return nil, fmt.Errorf("kicad: %w", err)
	}
	return doc.Root, nil
}

// Lists returns the child lists named head, in order.
func (l *List) Lists(head string) []*List {
	var out []*List
	for _, n := range l.Items {
		if n.List != nil && n.List.Head == head {
			out = append(out, n.List)
		}
	}
	return out
}

// List returns the first child list named head.
func (l *List) List(head string) (*List, bool) {
	for _, n := range l.Items {
		if n.List != nil && n.List.Head == head {
			return n.List, true
		}
	}
	return nil, false
}

// Atom returns the i-th item when it is an atom.
func (l *List) Atom(i int) (string, bool) {
	if i < 0 || i >= len(l.Items) || l.Items[i].Atom == nil {
		return "", false
	}
	return *l.Items[i].Atom, true
}

// XY parses the first two atoms as a coordinate, as in (start 10 20).
func (l *List) XY() (x, y float64, err error) {
	sx, okx := l.Atom(0)
	sy, oky := l.Atom(1)
	if !okx || !oky {
		return 0, 0, fmt.Errorf("kicad: (%s) needs two coordinates", l.Head)
	}
	if x, err = strconv.ParseFloat(sx, 64); err != nil {
		return 0, 0, fmt.Errorf("kicad: (%s): %w", l.Head, err)
	}
	if y, err = strconv.ParseFloat(sy, 64); err != nil {
		return 0, 0, fmt.Errorf("kicad: (%s): %w", l.Head, err)
	}
	return x, y, nil
}
