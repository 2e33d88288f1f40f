package canvas

import (
	"log"

	"github.com/rclancey/earcut"

	"github.com/OpenTraceLab/OpenTracePNP/pkg/geom"
)

// Memory is an in-memory Surface. Paint order is creation order.
type Memory struct {
	next  ID
	items map[ID]*Primitive
	order []ID
}

// NewMemory returns an empty surface.
func NewMemory() *Memory {
	return &Memory{items: make(map[ID]*Primitive)}
}

func (m *Memory) Create(p Primitive) ID {
	m.next++
	p = p.Clone()
	p.ID = m.next
	m.items[p.ID] = &p
	m.order = append(m.order, p.ID)
	return p.ID
}

func (m *Memory) Get(id ID) (Primitive, bool) {
	p, ok := m.items[id]
	if !ok {
		return Primitive{}, false
	}
	return p.Clone(), true
}

func (m *Memory) Update(id ID, fn func(*Primitive)) bool {
	p, ok := m.items[id]
	if !ok {
		return false
	}
	fn(p)
	p.ID = id
	return true
}

func (m *Memory) Delete(id ID) {
	if _, ok := m.items[id]; !ok {
		return
	}
	delete(m.items, id)
	for i, v := range m.order {
		if v == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

func (m *Memory) SetHidden(id ID, hidden bool) {
	if p, ok := m.items[id]; ok {
		p.Hidden = hidden
	}
}

func (m *Memory) SetStyle(id ID, s Style) {
	if p, ok := m.items[id]; ok {
		p.Style = s
	}
}

func (m *Memory) Each(fn func(Primitive) bool) {
	for _, id := range m.order {
		if !fn(m.items[id].Clone()) {
			return
		}
	}
}

// Len returns the number of stored primitives.
func (m *Memory) Len() int {
	return len(m.order)
}

// Snapshot returns copies of every primitive in paint order.
func (m *Memory) Snapshot() []Primitive {
	out := make([]Primitive, 0, len(m.order))
	m.Each(func(p Primitive) bool {
		out = append(out, p)
		return true
	})
	return out
}

func (m *Memory) HitTest(pt geom.Point, layer Layer) (ID, bool) {
	for i := len(m.order) - 1; i >= 0; i-- {
		p := m.items[m.order[i]]
		if p.Hidden || p.Layer != layer {
			continue
		}
		if contains(p, pt) {
			return p.ID, true
		}
	}
	return 0, false
}

func contains(p *Primitive, pt geom.Point) bool {
	switch p.Kind {
	case Oval:
		if p.RX <= 0 || p.RY <= 0 {
			return false
		}
		dx := (pt.X - p.Center.X) / p.RX
		dy := (pt.Y - p.Center.Y) / p.RY
		return dx*dx+dy*dy <= 1
	case Polygon:
		for _, tri := range triangulate(p.Points) {
			if inTriangle(pt, tri) {
				return true
			}
		}
	}
	return false
}

// triangulate splits a simple polygon into triangles with earcut.
func triangulate(pts []geom.Point) [][3]geom.Point {
	if len(pts) < 3 {
		return nil
	}
	coords := make([]float64, len(pts)*2)
	for i, p := range pts {
		coords[i*2] = p.X
		coords[i*2+1] = p.Y
	}
	idx, err := earcut.Earcut(coords, nil, 2)
	if err != nil {
		log.Printf("canvas: triangulating %d-vertex polygon: %v", len(pts), err)
		return nil
	}
	tris := make([][3]geom.Point, 0, len(idx)/3)
	for i := 0; i+2 < len(idx); i += 3 {
		tris = append(tris, [3]geom.Point{pts[idx[i]], pts[idx[i+1]], pts[idx[i+2]]})
	}
	return tris
}

func inTriangle(p geom.Point, t [3]geom.Point) bool {
	d1 := cross(p, t[0], t[1])
	d2 := cross(p, t[1], t[2])
	d3 := cross(p, t[2], t[0])
	neg := d1 < 0 || d2 < 0 || d3 < 0
	pos := d1 > 0 || d2 > 0 || d3 > 0
	return !(neg && pos)
}

func cross(p, a, b geom.Point) float64 {
	return (p.X-b.X)*(a.Y-b.Y) - (a.X-b.X)*(p.Y-b.Y)
}
