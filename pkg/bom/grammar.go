package bom

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// DesignatorLexer splits a BOM Designator field into words and commas.
var DesignatorLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "Comma", Pattern: `,`},
	{Name: "Ident", Pattern: `[^,\s]+`},
})

// DesignatorList is a comma separated list of designators. Empty entries
// ("R1,,R2", trailing commas) are allowed.
type DesignatorList struct {
	Entries []*DesignatorEntry `parser:"( @@ | \",\" )*"`
}

// DesignatorEntry is one list entry. Words separated by whitespace stay
// in the same entry.
type DesignatorEntry struct {
	Words []string `parser:"@Ident+"`
}

// String joins the words of the entry with single spaces.
func (e *DesignatorEntry) String() string {
	return strings.Join(e.Words, " ")
}

var designatorParser = participle.MustBuild[DesignatorList](
	participle.Lexer(DesignatorLexer),
	participle.Elide("Whitespace"),
)

// ParseDesignators parses a Designator field into trimmed designators in
// field order. Duplicates are kept.
func ParseDesignators(field string) ([]string, error) {
	list, err := designatorParser.ParseString("", field)
	if err != nil {
		return nil, fmt.Errorf("bom: designators %q: %w", field, err)
	}
	out := make([]string, 0, len(list.Entries))
	for _, e := range list.Entries {
		out = append(out, e.String())
	}
	return out, nil
}
