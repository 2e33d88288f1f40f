package highlight

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/OpenTracePNP/internal/canvas"
	"github.com/OpenTraceLab/OpenTracePNP/internal/palette"
	"github.com/OpenTraceLab/OpenTracePNP/pkg/bom"
	"github.com/OpenTraceLab/OpenTracePNP/pkg/geom"
)

type fakeTarget struct {
	order []string
	refs  map[string][2]canvas.ID
}

func (f *fakeTarget) Designators() []string { return f.order }

func (f *fakeTarget) Refs(d string) (canvas.ID, canvas.ID, bool) {
	r, ok := f.refs[d]
	return r[0], r[1], ok
}

func setup(t *testing.T, designators ...string) (*Controller, *canvas.Memory, *fakeTarget) {
	t.Helper()
	surface := canvas.NewMemory()
	target := &fakeTarget{refs: map[string][2]canvas.ID{}}
	for i, d := range designators {
		shape := surface.Create(canvas.Primitive{Kind: canvas.Oval, Layer: canvas.LayerComponent, Center: geom.Pt(float64(i), 0), RX: 1, RY: 1, Tag: d})
		label := surface.Create(canvas.Primitive{Kind: canvas.Text, Layer: canvas.LayerComponent, Text: d, Tag: d})
		target.order = append(target.order, d)
		target.refs[d] = [2]canvas.ID{shape, label}
	}
	return New(surface, target, palette.Default(), DefaultOptions()), surface, target
}

func state(t *testing.T, s *canvas.Memory, f *fakeTarget, d string) (shape, label canvas.Primitive) {
	t.Helper()
	ids := f.refs[d]
	shape, ok := s.Get(ids[0])
	require.True(t, ok)
	label, ok = s.Get(ids[1])
	require.True(t, ok)
	return shape, label
}

func TestPageHighlight(t *testing.T) {
	c, surface, target := setup(t, "R1", "R2", "C1")
	book, err := bom.NewBookFromFields("R1, C1")
	require.NoError(t, err)
	c.SetBook(book)
	th := palette.Default()

	require.True(t, c.SetPage(1))
	for _, d := range []string{"R1", "C1"} {
		shape, label := state(t, surface, target, d)
		assert.False(t, shape.Hidden, d)
		assert.False(t, label.Hidden, d)
		assert.Equal(t, th.Emphasis, shape.Style.Stroke, d)
		assert.Equal(t, 2.0, shape.Style.Width, d)
	}
	shape, label := state(t, surface, target, "R2")
	assert.True(t, shape.Hidden)
	assert.True(t, label.Hidden)

	require.True(t, c.SetPage(0))
	for _, d := range []string{"R1", "R2", "C1"} {
		shape, label := state(t, surface, target, d)
		assert.False(t, shape.Hidden, d)
		assert.False(t, label.Hidden, d)
		assert.Equal(t, th.Neutral, shape.Style.Stroke, d)
		assert.Equal(t, 1.0, shape.Style.Width, d)
	}
}

func TestUnknownDesignatorsIgnored(t *testing.T) {
	c, surface, target := setup(t, "R1")
	book, err := bom.NewBookFromFields("R1, U99")
	require.NoError(t, err)
	c.SetBook(book)
	require.True(t, c.SetPage(1))
	shape, _ := state(t, surface, target, "R1")
	assert.False(t, shape.Hidden)
}

func TestSetPageOutOfRange(t *testing.T) {
	c, surface, _ := setup(t, "R1", "R2")
	book, err := bom.NewBookFromFields("R1", "R2")
	require.NoError(t, err)
	c.SetBook(book)
	require.True(t, c.SetPage(2))
	before := surface.Snapshot()

	assert.False(t, c.SetPage(3))
	assert.False(t, c.SetPage(-1))
	assert.Equal(t, 2, c.Page())
	assert.Equal(t, before, surface.Snapshot())
	assert.False(t, c.Next())
}

func TestNavigationAndLabel(t *testing.T) {
	c, _, _ := setup(t, "R1")
	assert.Equal(t, 1, c.PageCount(), "page 0 exists without a BOM")
	assert.Equal(t, "Page 1 of 1", c.Label())
	assert.False(t, c.Next())

	book, err := bom.NewBookFromFields("R1", "R1", "R1")
	require.NoError(t, err)
	c.SetBook(book)
	assert.Equal(t, 4, c.PageCount())
	assert.True(t, c.Next())
	assert.True(t, c.Next())
	assert.Equal(t, "Page 3 of 4", c.Label())
	assert.True(t, c.Prev())
	assert.Equal(t, 1, c.Page())
	assert.True(t, c.Prev())
	assert.False(t, c.Prev())
}

func TestOptionsCombineWithPage(t *testing.T) {
	c, surface, target := setup(t, "R1", "R2")
	book, err := bom.NewBookFromFields("R1")
	require.NoError(t, err)
	c.SetBook(book)
	require.True(t, c.SetPage(1))

	c.SetOptions(Options{ShowNames: false, ShowShapes: true, FillShapes: true})
	shape, label := state(t, surface, target, "R1")
	assert.False(t, shape.Hidden)
	assert.True(t, label.Hidden, "names off")
	assert.Equal(t, palette.Default().ComponentFill, shape.Style.Fill)

	shape, label = state(t, surface, target, "R2")
	assert.True(t, shape.Hidden, "not on the page")
	assert.True(t, label.Hidden)

	c.SetOptions(Options{ShowNames: true, ShowShapes: false})
	shape, label = state(t, surface, target, "R1")
	assert.True(t, shape.Hidden, "shapes off")
	assert.False(t, label.Hidden)
	assert.Equal(t, palette.Transparent, shape.Style.Fill)
}

func TestSetBookResetsPage(t *testing.T) {
	c, _, _ := setup(t, "R1")
	book, err := bom.NewBookFromFields("R1", "R1")
	require.NoError(t, err)
	c.SetBook(book)
	require.True(t, c.SetPage(2))
	c.SetBook(nil)
	assert.Equal(t, 0, c.Page())
	assert.Equal(t, 1, c.PageCount())
}
