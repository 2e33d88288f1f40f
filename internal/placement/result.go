package placement

import (
	"fmt"
	"strings"
)

// MissingSample is how many missing footprint names a summary lists.
const MissingSample = 10

// Result reports the outcome of a PlaceAll batch.
type Result struct {
	Total     int      // rows in the batch
	Placed    int      // components drawn
	Missing   []string // unmatched raw footprint names, deduplicated
	Malformed []error  // rows skipped for bad data
}

// Summary formats the result for display: counts and the first
// MissingSample missing footprints, never one line per failed row.
func (r Result) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Placed %d of %d components", r.Placed, r.Total)
	if len(r.Malformed) > 0 {
		fmt.Fprintf(&b, ", %d malformed", len(r.Malformed))
	}
	fmt.Fprintf(&b, "\nMissing footprints: %d", len(r.Missing))
	n := len(r.Missing)
	if n > MissingSample {
		n = MissingSample
	}
	if n > 0 {
		fmt.Fprintf(&b, "\nFirst %d missing footprints:", n)
		for _, name := range r.Missing[:n] {
			fmt.Fprintf(&b, "\n  %s", name)
		}
	}
	return b.String()
}
