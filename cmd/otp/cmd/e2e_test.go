package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/OpenTraceLab/OpenTracePNP/pkg/footprint"
	"github.com/OpenTraceLab/OpenTracePNP/pkg/pnp"
)

const (
	componentsCSV = `Designator,Center-Y(mm),Center-X(mm),Comment,Footprint,Rotation,Description
R1,5,10,10k,RES_0402,0,Resistor
C1,20,20,100n,CAP_0603,90,Capacitor
U1,30,40,MCU,QFN-48,0,Controller
`
	footprintsCSV = `Name,Shape,Width,Height,CenterX,CenterY
RES_0402,rectangle,1,0.5,0,0
CAP_0603,rectangle,1.6,0.8,0,0
`
	bomCSV = `Designator,Comment
"R1, C1",passives
U1,controller
`
	projectYAML = `components: pcbdata.csv
footprints: footprints.csv
outline:
  width_mm: 100
  length_mm: 50
`
)

// writeBoard lays out a complete project in a temporary directory.
func writeBoard(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"pcbdata.csv":     componentsCSV,
		"footprints.csv":  footprintsCSV,
		"BOM.csv":         bomCSV,
		"board.yaml":      projectYAML,
		"board.kicad_pcb": `(kicad_pcb (gr_rect (start 0 0) (end 100 50) (layer "Edge.Cuts")))`,
	}
	for name, data := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(data), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

// run executes the root command with args and returns its output.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	// Reset flags to prevent accumulation between tests
	verbose = false
	placeFlags, footprintsFlags, addFlags, exportFlags = projectFlags{}, projectFlags{}, projectFlags{}, projectFlags{}
	placePage, exportPage = 0, 0
	missingOnly, exportAnchors = false, false
	addOffsetX, addOffsetY = 0, 0
	exportOut = "board.svg"

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestPlaceE2E(t *testing.T) {
	dir := writeBoard(t)
	project := filepath.Join(dir, "board.yaml")

	tests := []struct {
		name        string
		args        []string
		wantErr     bool
		wantContain []string
	}{
		{
			name: "project file",
			args: []string{"place", "-p", project},
			wantContain: []string{
				"Placed 2 of 3 components",
				"Missing footprints: 1",
				"QFN-48",
				"Scale: 1.000 x 1.000 px/mm",
				"Page 1 of 3",
			},
		},
		{
			name: "bom page",
			args: []string{"place", "-p", project, "--page", "1"},
			wantContain: []string{
				"Page 2 of 3",
				"Highlighted: [R1 C1]",
			},
		},
		{
			name: "flags only",
			args: []string{"place",
				"--components", filepath.Join(dir, "pcbdata.csv"),
				"--footprints", filepath.Join(dir, "footprints.csv"),
				"--width", "100", "--length", "50"},
			wantContain: []string{"Placed 2 of 3 components"},
		},
		{
			name: "kicad board size",
			args: []string{"place",
				"--components", filepath.Join(dir, "pcbdata.csv"),
				"--footprints", filepath.Join(dir, "footprints.csv"),
				"--kicad", filepath.Join(dir, "board.kicad_pcb")},
			wantContain: []string{"Placed 2 of 3 components", "Scale: 1.000 x 1.000 px/mm"},
		},
		{
			name:    "page out of range",
			args:    []string{"place", "-p", project, "--page", "3"},
			wantErr: true,
		},
		{
			name: "missing board size",
			args: []string{"place",
				"--components", filepath.Join(dir, "pcbdata.csv"),
				"--footprints", filepath.Join(dir, "footprints.csv")},
			wantErr: true,
		},
		{
			name:    "missing footprints file",
			args:    []string{"place", "-p", project, "--footprints", filepath.Join(dir, "nope.csv")},
			wantErr: true,
		},
		{
			name:    "named BOM must exist",
			args:    []string{"place", "-p", project, "--bom", filepath.Join(dir, "nope.csv")},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := run(t, tt.args...)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v\nOutput: %s", err, output)
			}
			for _, want := range tt.wantContain {
				if !strings.Contains(output, want) {
					t.Errorf("Output missing expected string: %q\nGot:\n%s", want, output)
				}
			}
		})
	}
}

func TestPlaceVerboseDebug(t *testing.T) {
	dir := writeBoard(t)
	output, err := run(t, "place", "-v", "-p", filepath.Join(dir, "board.yaml"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(output, "debug: outline") {
		t.Errorf("verbose run should log the debug snapshot, got:\n%s", output)
	}
}

func TestConvertE2E(t *testing.T) {
	dir := t.TempDir()
	var raw strings.Builder
	for i := 0; i < pnp.RawHeaderLines; i++ {
		raw.WriteString("Preamble line\n")
	}
	raw.WriteString(`"Layer","Designator","Center-Y(mm)","Center-X(mm)","Comment","Footprint","Rotation","Description"` + "\n")
	raw.WriteString(`"TopLayer","R1","5,0","10,0","10k","RES_0402","0","Resistor"` + "\n")
	raw.WriteString(`"BottomLayer","R2","5","20","10k","RES_0402","0","Resistor"` + "\n")
	in := filepath.Join(dir, "export.txt")
	if err := os.WriteFile(in, []byte(raw.String()), 0o644); err != nil {
		t.Fatal(err)
	}

	output, err := run(t, "convert", in)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	for _, want := range []string{"Converted 1 rows", "Skipped 2 rows not on TopLayer"} {
		if !strings.Contains(output, want) {
			t.Errorf("Output missing expected string: %q\nGot:\n%s", want, output)
		}
	}

	rows, err := pnp.LoadFile(filepath.Join(dir, "pcbdata.csv"))
	if err != nil {
		t.Fatalf("converted file: %v", err)
	}
	if len(rows) != 1 || rows[0].Designator != "R1" || rows[0].CenterX != "10.0" {
		t.Errorf("unexpected rows %+v", rows)
	}

	if _, err := run(t, "convert", filepath.Join(dir, "missing.txt")); err == nil {
		t.Errorf("Expected error for missing input")
	}
}

func TestFootprintsE2E(t *testing.T) {
	dir := writeBoard(t)
	project := filepath.Join(dir, "board.yaml")

	output, err := run(t, "footprints", "list", "-p", project)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	for _, want := range []string{"RES_0402", "CAP_0603", "QFN-48", "MISSING", "3 footprints, 1 missing"} {
		if !strings.Contains(output, want) {
			t.Errorf("Output missing expected string: %q\nGot:\n%s", want, output)
		}
	}

	output, err = run(t, "footprints", "list", "-p", project, "--missing")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if strings.Contains(output, "CAP_0603") {
		t.Errorf("--missing should hide resolved footprints, got:\n%s", output)
	}

	output, err = run(t, "footprints", "add", "-p", project, "QFN48_7x7", "rectangle", "7,0", "7")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(output, "Added QFN48_7x7") {
		t.Errorf("unexpected output:\n%s", output)
	}
	table, _, err := footprint.LoadFile(filepath.Join(dir, "footprints.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if d, ok := table.Get("QFN48_7x7"); !ok || d.WidthMM != 7 || d.HeightMM != 7 {
		t.Errorf("footprint not saved: %+v %v", d, ok)
	}

	output, err = run(t, "footprints", "add", "-p", project, "CAP_0603", "circle", "2")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(output, "Replaced CAP_0603 (circle 2x2 mm)") {
		t.Errorf("unexpected output:\n%s", output)
	}

	output, err = run(t, "place", "-p", project)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(output, "Placed 3 of 3 components") {
		t.Errorf("new footprint should resolve QFN-48, got:\n%s", output)
	}

	for _, args := range [][]string{
		{"footprints", "add", "-p", project, "X", "hexagon", "1"},
		{"footprints", "add", "-p", project, "X", "rectangle", "0"},
		{"footprints", "add", "-p", project, "X", "rectangle", "abc"},
	} {
		if _, err := run(t, args...); err == nil {
			t.Errorf("Expected error for %v", args)
		}
	}
}

func TestBOMPagesE2E(t *testing.T) {
	dir := writeBoard(t)
	output, err := run(t, "bom", "pages", filepath.Join(dir, "BOM.csv"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	for _, want := range []string{
		"Page 1 of 3: all components",
		"Page 2 of 3: R1, C1",
		"Page 3 of 3: U1",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("Output missing expected string: %q\nGot:\n%s", want, output)
		}
	}

	if _, err := run(t, "bom", "pages", filepath.Join(dir, "nope.csv")); err == nil {
		t.Errorf("Expected error for missing BOM")
	}
}

func TestExportSVGE2E(t *testing.T) {
	dir := writeBoard(t)
	project := filepath.Join(dir, "board.yaml")

	output, err := run(t, "export", "svg", "-p", project, "-o", "-", "--page", "2")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	for _, want := range []string{"<svg", "<polygon", "Page 3 of 3"} {
		if !strings.Contains(output, want) {
			t.Errorf("Output missing expected string: %q\nGot:\n%s", want, output)
		}
	}
	if strings.Contains(output, ">R1<") {
		t.Errorf("labels off the page should be hidden")
	}

	out := filepath.Join(dir, "board.svg")
	output, err = run(t, "export", "svg", "-p", project, "-o", out)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(output, "Wrote "+out) {
		t.Errorf("unexpected output:\n%s", output)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), ">R1<") {
		t.Errorf("page 0 export should label every placed component")
	}
}
