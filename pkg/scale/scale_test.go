package scale

import (
	"errors"
	"math"
	"testing"

	"github.com/OpenTraceLab/OpenTracePNP/pkg/geom"
)

func TestFactor(t *testing.T) {
	tests := []struct {
		name           string
		ow, ol, cw, cl float64
		wantX, wantY   float64
		wantErr        bool
	}{
		{name: "identity", ow: 50, ol: 20, cw: 50, cl: 20, wantX: 1, wantY: 1},
		{name: "double width", ow: 50, ol: 20, cw: 100, cl: 20, wantX: 2, wantY: 1},
		{name: "independent axes", ow: 80, ol: 40, cw: 120, cl: 10, wantX: 1.5, wantY: 0.25},
		{name: "fractional", ow: 33.3, ol: 12.7, cw: 99.9, cl: 25.4, wantX: 3, wantY: 2},
		{name: "zero width", ow: 0, ol: 20, cw: 10, cl: 10, wantErr: true},
		{name: "negative length", ow: 10, ol: -1, cw: 10, cl: 10, wantErr: true},
		{name: "NaN", ow: math.NaN(), ol: 1, cw: 10, cl: 10, wantErr: true},
		{name: "infinite width", ow: math.Inf(1), ol: 1, cw: 10, cl: 10, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sx, sy, err := Factor(tt.ow, tt.ol, tt.cw, tt.cl)
			if tt.wantErr {
				if !errors.Is(err, ErrDegenerateOutline) {
					t.Fatalf("expected ErrDegenerateOutline, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if math.Abs(sx-tt.wantX) > 1e-4 || math.Abs(sy-tt.wantY) > 1e-4 {
				t.Fatalf("Factor = (%v, %v), want (%v, %v)", sx, sy, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestProjectRounds(t *testing.T) {
	x, y := Project(1.23456789, 2.5, 1, 3)
	if x != 1.2346 {
		t.Errorf("x = %v, want 1.2346", x)
	}
	if y != 7.5 {
		t.Errorf("y = %v, want 7.5", y)
	}
}

func TestDimensions(t *testing.T) {
	w, l := Dimensions(geom.Box{MinX: 250, MinY: 100, MaxX: 300.000049, MaxY: 133.33333})
	if w != 50 {
		t.Errorf("w = %v, want 50", w)
	}
	if l != 33.3333 {
		t.Errorf("l = %v, want 33.3333", l)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		w, l    float64
		wantErr bool
	}{
		{name: "positive", w: 10, l: 5},
		{name: "zero length", w: 10, l: 0, wantErr: true},
		{name: "negative width", w: -1, l: 5, wantErr: true},
		{name: "infinite width", w: math.Inf(1), l: 10, wantErr: true},
		{name: "infinite length", w: 10, l: math.Inf(1), wantErr: true},
		{name: "NaN length", w: 10, l: math.NaN(), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.w, tt.l)
			if tt.wantErr {
				if !errors.Is(err, ErrDegenerateOutline) {
					t.Fatalf("expected ErrDegenerateOutline, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate: %v", err)
			}
		})
	}
}
