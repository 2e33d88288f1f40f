package bom

import (
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/OpenTraceLab/OpenTracePNP/pkg/csvio"
)

func TestParseDesignators(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"R1, C1", []string{"R1", "C1"}},
		{"R1,R2,R3", []string{"R1", "R2", "R3"}},
		{"  U1  ", []string{"U1"}},
		{"R1,,R2,", []string{"R1", "R2"}},
		{"TP 1, J2", []string{"TP 1", "J2"}},
		{"", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDesignators(tt.in)
			if err != nil {
				t.Fatalf("ParseDesignators(%q) failed: %v", tt.in, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("ParseDesignators(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestReadCSV(t *testing.T) {
	in := "Comment,Designator,Quantity\n" +
		"10k,\"R1, R2\",2\n" +
		"100n,C1,1\n"
	book, err := ReadCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}
	if book.Len() != 3 {
		t.Fatalf("expected 3 pages, got %d", book.Len())
	}
	p0, _ := book.Page(0)
	if !p0.All || !p0.Contains("anything") {
		t.Fatalf("page 0 must contain everything")
	}
	p1, ok := book.Page(1)
	if !ok || !reflect.DeepEqual(p1.Designators, []string{"R1", "R2"}) {
		t.Fatalf("page 1 = %+v", p1)
	}
	if p1.Contains("C1") {
		t.Errorf("page 1 should not contain C1")
	}
	if p1.Row.Get("Comment") != "10k" {
		t.Errorf("page 1 row = %v", p1.Row)
	}
	if _, ok := book.Page(3); ok {
		t.Errorf("page 3 should not exist")
	}
}

func TestReadCSVMissingDesignator(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("Comment\n10k\n"))
	if !errors.Is(err, csvio.ErrParseFailure) {
		t.Fatalf("expected ErrParseFailure, got %v", err)
	}
}

func TestNilBook(t *testing.T) {
	var b *Book
	if b.Len() != 1 {
		t.Fatalf("nil book Len = %d", b.Len())
	}
	if p, ok := b.Page(0); !ok || !p.All {
		t.Fatalf("nil book page 0 = %+v %v", p, ok)
	}
}

func TestLabel(t *testing.T) {
	if got := Label(0, 4); got != "Page 1 of 4" {
		t.Fatalf("Label = %q", got)
	}
}

func TestDefaultPath(t *testing.T) {
	got := DefaultPath(filepath.Join("boards", "pcbdata.csv"))
	if got != filepath.Join("boards", "BOM.csv") {
		t.Fatalf("DefaultPath = %q", got)
	}
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), DefaultName))
	if !errors.Is(err, csvio.ErrFileMissing) {
		t.Fatalf("expected ErrFileMissing, got %v", err)
	}
}
