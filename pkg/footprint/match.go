package footprint

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// NormalizeName lower-cases s and strips every character that is not an
// ASCII letter or digit.
func NormalizeName(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Resolve finds the first definition, in table order, whose normalized name
// contains the normalized raw name. A declared name is never matched as a
// substring of the raw name, and ties go to the earliest definition. A raw
// name with no letters or digits normalizes to "" and matches the first
// definition.
func Resolve(raw string, t *Table) (Definition, bool) {
	if t == nil {
		return Definition{}, false
	}
	needle := NormalizeName(raw)
	for _, d := range t.defs {
		if strings.Contains(NormalizeName(d.Name), needle) {
			return d, true
		}
	}
	return Definition{}, false
}

// Lookup is Resolve with a miss reported as ErrNotFound.
func Lookup(raw string, t *Table) (Definition, error) {
	d, ok := Resolve(raw, t)
	if !ok {
		return Definition{}, fmt.Errorf("%w: %q", ErrNotFound, raw)
	}
	return d, nil
}

// Status describes whether a raw footprint name resolves.
type Status struct {
	Raw      string
	Matched  bool
	Resolved string // declared name, when matched
}

// Coverage reports, for every unique raw footprint name, whether it resolves
// against the table. Results are sorted by raw name.
func Coverage(raw []string, t *Table) []Status {
	seen := make(map[string]struct{}, len(raw))
	var out []Status
	for _, name := range raw {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		st := Status{Raw: name}
		if d, err := Lookup(name, t); err == nil {
			st.Matched = true
			st.Resolved = d.Name
		}
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Raw < out[j].Raw })
	return out
}
