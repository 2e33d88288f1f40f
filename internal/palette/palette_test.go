package palette

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassicColors(t *testing.T) {
	th := Default()
	assert.Equal(t, "classic", th.Name)
	assert.Equal(t, color.NRGBA{R: 255, G: 255, A: 255}, th.Neutral)
	assert.Equal(t, color.NRGBA{R: 255, A: 255}, th.Emphasis)
	assert.Equal(t, color.NRGBA{G: 128, A: 255}, th.Outline)
	assert.Equal(t, "#d3d3d3", Hex(th.OutlineFill))
}

func TestLookup(t *testing.T) {
	for _, name := range Names() {
		th, ok := Lookup(name)
		require.True(t, ok, name)
		assert.Equal(t, name, th.Name)
		assert.Equal(t, uint8(255), th.Background.A)
	}
	_, ok := Lookup("neon")
	assert.False(t, ok)
}

func TestBlendEndpoints(t *testing.T) {
	a := color.NRGBA{R: 255, A: 255}
	b := color.NRGBA{B: 255, A: 255}
	assertNear(t, a, Blend(a, b, 0))
	assertNear(t, b, Blend(a, b, 1))

	mid := Dim(a, b)
	assert.NotEqual(t, a, mid)
	assert.NotEqual(t, b, mid)
	assert.Equal(t, uint8(255), mid.A)
}

func assertNear(t *testing.T, want, got color.NRGBA) {
	t.Helper()
	assert.InDelta(t, want.R, got.R, 1)
	assert.InDelta(t, want.G, got.G, 1)
	assert.InDelta(t, want.B, got.B, 1)
	assert.Equal(t, want.A, got.A)
}
