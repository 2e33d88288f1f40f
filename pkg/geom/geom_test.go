package geom

import (
	"math"
	"testing"
)

const eps = 1e-9

func near(a, b Point) bool {
	return math.Abs(a.X-b.X) < eps && math.Abs(a.Y-b.Y) < eps
}

func TestRotate(t *testing.T) {
	pivot := Pt(10, 10)
	tests := []struct {
		name string
		in   Point
		deg  float64
		want Point
	}{
		{"zero", Pt(15, 10), 0, Pt(15, 10)},
		{"quarter", Pt(15, 10), 90, Pt(10, 15)},
		{"half", Pt(15, 10), 180, Pt(5, 10)},
		{"three quarters", Pt(15, 10), 270, Pt(10, 5)},
		{"negative quarter", Pt(15, 10), -90, Pt(10, 5)},
		{"pivot stays", pivot, 37, pivot},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Rotate(tt.in, pivot, tt.deg)
			if !near(got, tt.want) {
				t.Fatalf("Rotate(%v, %v) = %v, want %v", tt.in, tt.deg, got, tt.want)
			}
		})
	}
}

func TestRotateFourQuartersRoundTrip(t *testing.T) {
	pivot := Pt(3.3, -7.1)
	p := Pt(12.345, 6.789)
	got := p
	for i := 0; i < 4; i++ {
		got = Rotate(got, pivot, 90)
	}
	if !near(got, p) {
		t.Fatalf("four quarter turns gave %v, want %v", got, p)
	}
}

func TestRotatedRect(t *testing.T) {
	c := Pt(0, 0)
	got := RotatedRect(c, 4, 2, 0)
	want := []Point{{-2, -1}, {2, -1}, {2, 1}, {-2, 1}}
	for i := range want {
		if !near(got[i], want[i]) {
			t.Fatalf("corner %d = %v, want %v", i, got[i], want[i])
		}
	}

	rot := RotatedRect(c, 4, 2, 90)
	b := Bounds(rot)
	if math.Abs(b.Width()-2) > eps || math.Abs(b.Height()-4) > eps {
		t.Fatalf("rotated bounds = %vx%v, want 2x4", b.Width(), b.Height())
	}
}

func TestBoxCorners(t *testing.T) {
	b := BoxAt(250, 100, 50, 20)
	c := b.Corners()
	if c[BottomLeft] != Pt(250, 120) {
		t.Errorf("bottom-left = %v", c[BottomLeft])
	}
	if c[BottomRight] != Pt(300, 120) {
		t.Errorf("bottom-right = %v", c[BottomRight])
	}
	if c[TopRight] != Pt(300, 100) {
		t.Errorf("top-right = %v", c[TopRight])
	}
	if c[TopLeft] != Pt(250, 100) {
		t.Errorf("top-left = %v", c[TopLeft])
	}
	if b.Center() != Pt(275, 110) {
		t.Errorf("center = %v", b.Center())
	}
}

func TestUprightAngle(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{89, 89},
		{90, 90},
		{91, 271},
		{181, 1},
		{270, 90},
		{271, 271},
		{360, 0},
		{-90, 270},
		{450, 90},
	}
	for _, tt := range tests {
		if got := UprightAngle(tt.in); math.Abs(got-tt.want) > eps {
			t.Errorf("UprightAngle(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestScaleAbout(t *testing.T) {
	got := ScaleAbout(Pt(20, 30), Pt(10, 10), 2, 0.5)
	if !near(got, Pt(30, 20)) {
		t.Fatalf("ScaleAbout = %v", got)
	}
}
