// Package csvio holds the CSV plumbing shared by the pick-and-place,
// footprint and BOM loaders.
package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
)

var (
	// ErrFileMissing is returned when an input file does not exist.
	ErrFileMissing = errors.New("csvio: file missing")
	// ErrParseFailure is returned when a file cannot be read as CSV or lacks
	// a required column.
	ErrParseFailure = errors.New("csvio: parse failure")
)

// Open opens path for reading, mapping a missing file to ErrFileMissing.
func Open(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileMissing, path)
		}
		return nil, err
	}
	return f, nil
}

// Row is one CSV record keyed by header name.
type Row map[string]string

// Get returns the trimmed value of a column, or "" when absent.
func (r Row) Get(col string) string {
	return strings.TrimSpace(r[col])
}

// NewReader returns a csv.Reader configured for the loosely formatted
// exports the tool consumes.
func NewReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	return cr
}

// ReadRows reads a headed CSV stream. Every name in required must appear in
// the header. Short rows are padded with empty values.
func ReadRows(r io.Reader, required ...string) ([]string, []Row, error) {
	cr := NewReader(r)
	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return nil, nil, fmt.Errorf("%w: empty file", ErrParseFailure)
		}
		return nil, nil, fmt.Errorf("%w: %v", ErrParseFailure, err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\uFEFF"))
	}
	for _, col := range required {
		if !contains(header, col) {
			return nil, nil, fmt.Errorf("%w: missing column %q", ErrParseFailure, col)
		}
	}

	var rows []Row
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrParseFailure, err)
		}
		if isBlank(rec) {
			continue
		}
		row := make(Row, len(header))
		for i, col := range header {
			if i < len(rec) {
				row[col] = rec[i]
			} else {
				row[col] = ""
			}
		}
		rows = append(rows, row)
	}
	return header, rows, nil
}

// NormalizeDecimal replaces a decimal comma with a period.
func NormalizeDecimal(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func isBlank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
