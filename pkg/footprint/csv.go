package footprint

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/OpenTraceLab/OpenTracePNP/pkg/csvio"
)

// Header is the column layout of the footprint table file.
var Header = []string{"Name", "Shape", "Width", "Height", "CenterX", "CenterY"}

// RowError describes a footprint row that was skipped while loading.
type RowError struct {
	Line   int
	Reason string
}

func (e RowError) Error() string {
	return fmt.Sprintf("footprint: line %d: %s", e.Line, e.Reason)
}

// ReadCSV reads a footprint table. The header row is optional. Rows with
// fewer than six fields, an unknown shape or unparsable numbers are skipped
// and returned as RowErrors; they never abort the load.
func ReadCSV(r io.Reader) (*Table, []RowError, error) {
	cr := csvio.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", csvio.ErrParseFailure, err)
	}

	t := NewTable()
	var skipped []RowError
	for i, rec := range records {
		line := i + 1
		if i == 0 && isHeader(rec) {
			continue
		}
		if len(rec) < len(Header) {
			skipped = append(skipped, RowError{Line: line, Reason: fmt.Sprintf("expected %d fields, got %d", len(Header), len(rec))})
			continue
		}
		d, err := parseRecord(rec)
		if err != nil {
			skipped = append(skipped, RowError{Line: line, Reason: err.Error()})
			continue
		}
		t.Upsert(d)
	}
	return t, skipped, nil
}

// LoadFile reads a footprint table from path.
func LoadFile(path string) (*Table, []RowError, error) {
	f, err := csvio.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	return ReadCSV(f)
}

// WriteCSV writes the table with a header row.
func WriteCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, d := range t.Definitions() {
		if err := cw.Write(formatRecord(d)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveFile rewrites path with the full table.
func SaveFile(path string, t *Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("footprint: create %s: %w", path, err)
	}
	if err := WriteCSV(f, t); err != nil {
		f.Close()
		return fmt.Errorf("footprint: write %s: %w", path, err)
	}
	return f.Close()
}

func isHeader(rec []string) bool {
	if len(rec) < len(Header) {
		return false
	}
	for i, col := range Header {
		if !strings.EqualFold(strings.TrimSpace(strings.TrimPrefix(rec[i], "\uFEFF")), col) {
			return false
		}
	}
	return true
}

func parseRecord(rec []string) (Definition, error) {
	shape, err := ParseShape(rec[1])
	if err != nil {
		return Definition{}, err
	}
	nums := make([]float64, 4)
	for i, col := range Header[2:] {
		v, err := strconv.ParseFloat(csvio.NormalizeDecimal(rec[2+i]), 64)
		if err != nil {
			return Definition{}, fmt.Errorf("invalid %s %q", col, rec[2+i])
		}
		nums[i] = v
	}
	d := Definition{
		Name:            strings.TrimSpace(rec[0]),
		Shape:           shape,
		WidthMM:         nums[0],
		HeightMM:        nums[1],
		CenterOffsetXMM: nums[2],
		CenterOffsetYMM: nums[3],
	}.Normalize()
	if err := d.Validate(); err != nil {
		return Definition{}, err
	}
	return d, nil
}

func formatRecord(d Definition) []string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	return []string{d.Name, d.Shape.String(), f(d.WidthMM), f(d.HeightMM), f(d.CenterOffsetXMM), f(d.CenterOffsetYMM)}
}
