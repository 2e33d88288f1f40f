package pnp

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/OpenTraceLab/OpenTracePNP/pkg/csvio"
)

// RawHeaderLines is the number of preamble lines in a raw export.
const RawHeaderLines = 11

// TopLayer tags the rows of a raw export that are converted.
const TopLayer = "TopLayer"

// ConvertStats summarizes a conversion.
type ConvertStats struct {
	Rows    int // TopLayer rows written
	Skipped int // rows after the preamble that were not converted
	Decoded bool
}

// Convert turns a raw pick-and-place export into the normalized schema.
// Input that is not valid UTF-8 is decoded as Windows-1252.
func Convert(r io.Reader, w io.Writer) (ConvertStats, error) {
	var st ConvertStats
	data, err := io.ReadAll(r)
	if err != nil {
		return st, err
	}
	if !utf8.Valid(data) {
		data, err = charmap.Windows1252.NewDecoder().Bytes(data)
		if err != nil {
			return st, fmt.Errorf("%w: decode: %v", csvio.ErrParseFailure, err)
		}
		st.Decoded = true
	}

	body, err := skipLines(string(data), RawHeaderLines)
	if err != nil {
		return st, err
	}
	records, err := csvio.NewReader(strings.NewReader(body)).ReadAll()
	if err != nil {
		return st, fmt.Errorf("%w: %v", csvio.ErrParseFailure, err)
	}

	var rows []Row
	for _, rec := range records {
		if len(rec) < 8 || strings.TrimSpace(rec[0]) != TopLayer {
			st.Skipped++
			continue
		}
		rows = append(rows, Row{
			Designator:  rec[1],
			CenterY:     csvio.NormalizeDecimal(rec[2]),
			CenterX:     csvio.NormalizeDecimal(rec[3]),
			Comment:     microSign(rec[4]),
			Footprint:   rec[5],
			Rotation:    rec[6],
			Description: microSign(rec[7]),
		})
	}
	if err := WriteCSV(w, rows); err != nil {
		return st, err
	}
	st.Rows = len(rows)
	return st, nil
}

// ConvertFile converts the raw export at in and writes the result to out.
func ConvertFile(in, out string) (ConvertStats, error) {
	f, err := csvio.Open(in)
	if err != nil {
		return ConvertStats{}, err
	}
	defer f.Close()

	var b strings.Builder
	st, err := Convert(f, &b)
	if err != nil {
		return st, fmt.Errorf("%s: %w", in, err)
	}
	if err := os.WriteFile(out, []byte(b.String()), 0o644); err != nil {
		return st, fmt.Errorf("pnp: write %s: %w", out, err)
	}
	return st, nil
}

// microSign replaces GREEK SMALL LETTER MU with MICRO SIGN.
func microSign(s string) string {
	return strings.ReplaceAll(s, "\u03bc", "\u00b5")
}

// skipLines drops the first n physical lines of s.
func skipLines(s string, n int) (string, error) {
	for i := 0; i < n; i++ {
		j := strings.IndexByte(s, '\n')
		if j < 0 {
			return "", fmt.Errorf("%w: expected %d header lines, got %d", csvio.ErrParseFailure, n, i)
		}
		s = s[j+1:]
	}
	return s, nil
}
