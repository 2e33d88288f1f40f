package pnp

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/OpenTraceLab/OpenTracePNP/pkg/csvio"
)

func TestParseRow(t *testing.T) {
	tests := []struct {
		name    string
		row     Row
		want    Record
		wantErr string // field name, empty for success
	}{
		{
			name: "decimal comma",
			row:  Row{Designator: " R1 ", CenterX: "12,5", CenterY: "3.25", Footprint: " R0402 ", Rotation: "90"},
			want: Record{Designator: "R1", Footprint: "R0402", CenterXMM: 12.5, CenterYMM: 3.25, RotationDeg: 90},
		},
		{
			name: "negative rotation normalized",
			row:  Row{Designator: "C1", CenterX: "0", CenterY: "0", Rotation: "-90"},
			want: Record{Designator: "C1", RotationDeg: 270},
		},
		{
			name:    "bad center",
			row:     Row{Designator: "U1", CenterX: "abc", CenterY: "1", Rotation: "0"},
			wantErr: ColCenterX,
		},
		{
			name:    "bad rotation",
			row:     Row{Designator: "U2", CenterX: "1", CenterY: "1", Rotation: ""},
			wantErr: ColRotation,
		},
		{
			name:    "NaN center",
			row:     Row{Designator: "R1", CenterX: "NaN", CenterY: "1", Rotation: "0"},
			wantErr: ColCenterX,
		},
		{
			name:    "infinite center",
			row:     Row{Designator: "R1", CenterX: "1", CenterY: "-Inf", Rotation: "0"},
			wantErr: ColCenterY,
		},
		{
			name:    "infinite rotation",
			row:     Row{Designator: "R2", CenterX: "1", CenterY: "1", Rotation: "+Infinity"},
			wantErr: ColRotation,
		},
		{
			name:    "empty designator",
			row:     Row{CenterX: "1", CenterY: "1", Rotation: "0"},
			wantErr: ColDesignator,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRow(tt.row)
			if tt.wantErr != "" {
				if !errors.Is(err, ErrMalformedRecord) {
					t.Fatalf("expected ErrMalformedRecord, got %v", err)
				}
				var re *RecordError
				if !errors.As(err, &re) || re.Field != tt.wantErr {
					t.Fatalf("expected field %s, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRow failed: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestReadCSV(t *testing.T) {
	in := "Designator,Center-Y(mm),Center-X(mm),Comment,Footprint,Rotation,Description\n" +
		"R1,\"1,5\",2,10k,R0402,0,res\n" +
		"C1,3,4\n"
	rows, err := ReadCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].CenterY != "1,5" || rows[0].CenterX != "2" || rows[0].Footprint != "R0402" {
		t.Errorf("row 0 = %+v", rows[0])
	}
	if rows[1].Rotation != "" {
		t.Errorf("short row should have empty rotation, got %q", rows[1].Rotation)
	}
}

func TestReadCSVMissingColumn(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("Designator,Footprint\nR1,R0402\n"))
	if !errors.Is(err, csvio.ErrParseFailure) {
		t.Fatalf("expected ErrParseFailure, got %v", err)
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pcbdata.csv")
	rows := []Row{{Designator: "R1", CenterX: "1", CenterY: "2", Footprint: "R0402", Rotation: "45", Comment: "10k"}}
	if err := SaveFile(path, rows); err != nil {
		t.Fatalf("SaveFile failed: %v", err)
	}
	got, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if len(got) != 1 || got[0] != rows[0] {
		t.Fatalf("round trip = %+v", got)
	}
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.csv"))
	if !errors.Is(err, csvio.ErrFileMissing) {
		t.Fatalf("expected ErrFileMissing, got %v", err)
	}
}

func rawExport(body ...string) string {
	var b strings.Builder
	for i := 0; i < RawHeaderLines; i++ {
		b.WriteString("preamble line\n")
	}
	for _, l := range body {
		b.WriteString(l)
		b.WriteString("\n")
	}
	return b.String()
}

func TestConvert(t *testing.T) {
	in := rawExport(
		"Layer,Designator,Center-Y(mm),Center-X(mm),Comment,Footprint,Rotation,Description",
		"TopLayer,R1,\"10,5\",\"20,25\",10k,R0402,90,Resistor",
		"BottomLayer,R2,1,2,1k,R0402,0,Resistor",
		"TopLayer,C1,1,2,100\u03bcF,C0805,0,Cap 1\u03bcF",
		"TopLayer,short",
	)
	var out bytes.Buffer
	st, err := Convert(strings.NewReader(in), &out)
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if st.Rows != 2 || st.Skipped != 3 || st.Decoded {
		t.Fatalf("stats = %+v", st)
	}
	rows, err := ReadCSV(&out)
	if err != nil {
		t.Fatalf("reading converted output: %v", err)
	}
	if rows[0].Designator != "R1" || rows[0].CenterY != "10.5" || rows[0].CenterX != "20.25" {
		t.Errorf("row 0 = %+v", rows[0])
	}
	if rows[1].Comment != "100\u00b5F" || rows[1].Description != "Cap 1\u00b5F" {
		t.Errorf("micro sign not normalized: %+v", rows[1])
	}
}

func TestConvertWindows1252(t *testing.T) {
	in := []byte(rawExport("TopLayer,C1,1,2,10\xb5F,C0805,0,cap"))
	var out bytes.Buffer
	st, err := Convert(bytes.NewReader(in), &out)
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if !st.Decoded {
		t.Fatalf("expected Windows-1252 decoding")
	}
	rows, err := ReadCSV(&out)
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}
	if rows[0].Comment != "10\u00b5F" {
		t.Fatalf("comment = %q", rows[0].Comment)
	}
}

func TestConvertShortPreamble(t *testing.T) {
	var out bytes.Buffer
	_, err := Convert(strings.NewReader("a\nb\n"), &out)
	if !errors.Is(err, csvio.ErrParseFailure) {
		t.Fatalf("expected ErrParseFailure, got %v", err)
	}
}
