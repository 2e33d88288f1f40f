package export

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/OpenTracePNP/internal/canvas"
	"github.com/OpenTraceLab/OpenTracePNP/internal/palette"
	"github.com/OpenTraceLab/OpenTracePNP/pkg/geom"
)

func board() *canvas.Memory {
	th := palette.Default()
	s := canvas.NewMemory()
	corners := geom.BoxAt(250, 100, 100, 50).Corners()
	s.Create(canvas.Primitive{
		Kind:   canvas.Polygon,
		Layer:  canvas.LayerOutline,
		Points: corners[:],
		Style:  canvas.Style{Stroke: th.Outline, Width: 2},
	})
	s.Create(canvas.Primitive{
		Kind:   canvas.Oval,
		Layer:  canvas.LayerAnchor,
		Center: geom.Pt(250, 150),
		RX:     5,
		RY:     5,
		Style:  canvas.Style{Stroke: th.MoveAnchor, Fill: th.MoveAnchor, Width: 1},
	})
	s.Create(canvas.Primitive{
		Kind:   canvas.Oval,
		Layer:  canvas.LayerComponent,
		Center: geom.Pt(300, 125),
		RX:     3,
		RY:     3,
		Style:  canvas.Style{Stroke: th.Neutral, Width: 1},
	})
	s.Create(canvas.Primitive{
		Kind:   canvas.Text,
		Layer:  canvas.LayerComponent,
		Center: geom.Pt(300, 125),
		Text:   "TP1",
		Angle:  90,
		Style:  canvas.Style{Stroke: th.Label},
	})
	hidden := s.Create(canvas.Primitive{
		Kind:  canvas.Text,
		Layer: canvas.LayerComponent,
		Text:  "R99",
	})
	s.SetHidden(hidden, true)
	return s
}

func TestSVGSnapshot(t *testing.T) {
	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Caption = "Page 1 of 1"
	require.NoError(t, SVG(&buf, board(), palette.Default(), opts))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "<?xml"))
	assert.Contains(t, out, `viewBox="230 80 140 90"`)
	assert.Contains(t, out, "<polygon")
	assert.Contains(t, out, "stroke:#008000")
	assert.Contains(t, out, "<ellipse")
	assert.Contains(t, out, "fill:none;stroke:#ffff00")
	assert.Contains(t, out, "rotate(90,300,125)")
	assert.Contains(t, out, ">TP1<")
	assert.Contains(t, out, "Page 1 of 1")
	assert.NotContains(t, out, "R99")
	assert.NotContains(t, out, "#ff0000", "anchors are left out by default")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out), "</svg>"))
}

func TestSVGAnchors(t *testing.T) {
	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Anchors = true
	require.NoError(t, SVG(&buf, board(), palette.Default(), opts))
	assert.Contains(t, buf.String(), "fill:#ff0000;stroke:#ff0000")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestSVGWriteError(t *testing.T) {
	err := SVG(failingWriter{}, board(), palette.Default(), DefaultOptions())
	assert.EqualError(t, err, "disk full")
}
