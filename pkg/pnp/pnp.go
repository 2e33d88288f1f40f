// Package pnp reads and converts pick-and-place exports.
package pnp

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/OpenTraceLab/OpenTracePNP/pkg/csvio"
	"github.com/OpenTraceLab/OpenTracePNP/pkg/geom"
)

// ErrMalformedRecord is wrapped by every RecordError.
var ErrMalformedRecord = errors.New("pnp: malformed record")

// Column names of the normalized pick-and-place CSV.
const (
	ColDesignator  = "Designator"
	ColCenterY     = "Center-Y(mm)"
	ColCenterX     = "Center-X(mm)"
	ColComment     = "Comment"
	ColFootprint   = "Footprint"
	ColRotation    = "Rotation"
	ColDescription = "Description"
)

// Header is the column order written by WriteCSV and Convert.
var Header = []string{ColDesignator, ColCenterY, ColCenterX, ColComment, ColFootprint, ColRotation, ColDescription}

// Row is one pick-and-place line with its fields still as text.
type Row struct {
	Designator  string
	CenterX     string
	CenterY     string
	Comment     string
	Footprint   string
	Rotation    string
	Description string
}

// Record is a parsed component placement in millimetres and degrees.
type Record struct {
	Designator  string
	Footprint   string
	CenterXMM   float64
	CenterYMM   float64
	RotationDeg float64 // [0,360)
	Comment     string
	Description string
}

// RecordError reports the field of a row that could not be parsed.
type RecordError struct {
	Designator string
	Field      string
	Value      string
}

func (e *RecordError) Error() string {
	if e.Field == ColDesignator {
		return "pnp: empty designator"
	}
	return fmt.Sprintf("pnp: %s: invalid %s %q", e.Designator, e.Field, e.Value)
}

func (e *RecordError) Unwrap() error { return ErrMalformedRecord }

// ParseRow converts the numeric fields of r, accepting a decimal comma.
func ParseRow(r Row) (Record, error) {
	des := strings.TrimSpace(r.Designator)
	if des == "" {
		return Record{}, &RecordError{Field: ColDesignator}
	}
	num := func(field, v string) (float64, error) {
		f, err := strconv.ParseFloat(csvio.NormalizeDecimal(v), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, &RecordError{Designator: des, Field: field, Value: v}
		}
		return f, nil
	}
	x, err := num(ColCenterX, r.CenterX)
	if err != nil {
		return Record{}, err
	}
	y, err := num(ColCenterY, r.CenterY)
	if err != nil {
		return Record{}, err
	}
	rot, err := num(ColRotation, r.Rotation)
	if err != nil {
		return Record{}, err
	}
	return Record{
		Designator:  des,
		Footprint:   strings.TrimSpace(r.Footprint),
		CenterXMM:   x,
		CenterYMM:   y,
		RotationDeg: geom.NormalizeAngle(rot),
		Comment:     r.Comment,
		Description: r.Description,
	}, nil
}

// ReadCSV reads the normalized pick-and-place schema.
func ReadCSV(r io.Reader) ([]Row, error) {
	_, recs, err := csvio.ReadRows(r, ColDesignator, ColCenterX, ColCenterY, ColFootprint, ColRotation)
	if err != nil {
		return nil, err
	}
	rows := make([]Row, 0, len(recs))
	for _, rec := range recs {
		rows = append(rows, Row{
			Designator:  rec.Get(ColDesignator),
			CenterX:     rec.Get(ColCenterX),
			CenterY:     rec.Get(ColCenterY),
			Comment:     rec.Get(ColComment),
			Footprint:   rec.Get(ColFootprint),
			Rotation:    rec.Get(ColRotation),
			Description: rec.Get(ColDescription),
		})
	}
	return rows, nil
}

// LoadFile reads the normalized pick-and-place CSV at path.
func LoadFile(path string) ([]Row, error) {
	f, err := csvio.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	rows, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}

// WriteCSV writes rows in Header order.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{r.Designator, r.CenterY, r.CenterX, r.Comment, r.Footprint, r.Rotation, r.Description}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveFile writes rows to path.
func SaveFile(path string, rows []Row) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("pnp: create %s: %w", path, err)
	}
	if err := WriteCSV(f, rows); err != nil {
		f.Close()
		return fmt.Errorf("pnp: write %s: %w", path, err)
	}
	return f.Close()
}

// Footprints returns the raw footprint names of rows, in order.
func Footprints(rows []Row) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, strings.TrimSpace(r.Footprint))
	}
	return out
}
