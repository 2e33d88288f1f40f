// Package scale converts between the physical board frame (millimetres, Y up)
// and the screen frame of the placed outline. It is the single place where
// scale factors are derived; every other package calls into it.
package scale

import (
	"errors"
	"fmt"
	"math"

	"github.com/OpenTraceLab/OpenTracePNP/pkg/geom"
)

// Precision is the number of decimal places physical values are rounded to.
const Precision = 4

// ErrDegenerateOutline is returned when an outline dimension is zero,
// negative or not finite.
var ErrDegenerateOutline = errors.New("scale: degenerate outline")

// Factor returns the screen-units-per-physical-unit factors of a current
// outline against its original dimensions.
func Factor(originalW, originalL, currentW, currentL float64) (sx, sy float64, err error) {
	if !positive(originalW) || !positive(originalL) {
		return 0, 0, fmt.Errorf("%w: original %vx%v", ErrDegenerateOutline, originalW, originalL)
	}
	return currentW / originalW, currentL / originalL, nil
}

// Project scales a physical offset by the given factors.
func Project(xMM, yMM, sx, sy float64) (float64, float64) {
	return Round(xMM * sx), Round(yMM * sy)
}

// Dimensions returns the width and length of an outline box.
func Dimensions(b geom.Box) (float64, float64) {
	return Round(b.MaxX - b.MinX), Round(b.MaxY - b.MinY)
}

// Round rounds v to Precision decimal places, half away from zero.
func Round(v float64) float64 {
	const p = 1e4
	return math.Round(v*p) / p
}

// Validate checks that both physical dimensions are positive.
func Validate(widthMM, lengthMM float64) error {
	if !positive(widthMM) || !positive(lengthMM) {
		return fmt.Errorf("%w: %vx%v mm", ErrDegenerateOutline, widthMM, lengthMM)
	}
	return nil
}

// positive reports whether v is finite and greater than zero.
func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}
