package level

import (
	"fmt"

	"github.com/gloamdev/gloam/internal/geom"
)

// LinedefSpec is the authored form of a linedef: two endpoints plus side
// data. The Builder derives the parametric line, normal, and bounds.
type LinedefSpec struct {
	From, To geom.Vec2
	Flags    LinedefFlags
	Special  int
	Tag      int
	Front    *Sidedef
	Back     *Sidedef
}

// Builder assembles a Map from authored pieces and computes all derived
// geometry in Build. Indices returned by the Add methods are stable.
type Builder struct {
	sectors  []Sector
	linedefs []LinedefSpec
	subs     []subSpec
	nodes    []nodeSpec
	things   []Thing
}

type subSpec struct {
	sector  int
	polygon []geom.Vec2
}

type nodeSpec struct {
	plane    geom.Plane2
	children [2]NodeChild
}

func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) AddSector(s Sector) int {
	b.sectors = append(b.sectors, s)
	return len(b.sectors) - 1
}

func (b *Builder) AddLinedef(spec LinedefSpec) int {
	b.linedefs = append(b.linedefs, spec)
	return len(b.linedefs) - 1
}

// AddSubsector registers a convex leaf polygon belonging to sector. Vertices
// may wind either way; derived seg intervals are computed from the polygon
// itself.
func (b *Builder) AddSubsector(sector int, polygon ...geom.Vec2) int {
	b.subs = append(b.subs, subSpec{sector, polygon})
	return len(b.subs) - 1
}

// AddNode registers a BSP split. Children[0] must be the side the plane
// normal points into. The last node added is the root.
func (b *Builder) AddNode(plane geom.Plane2, front, back NodeChild) int {
	b.nodes = append(b.nodes, nodeSpec{plane, [2]NodeChild{front, back}})
	return len(b.nodes) - 1
}

func (b *Builder) AddThing(t Thing) {
	b.things = append(b.things, t)
}

// Build validates all cross references and produces an immutable Map with
// derived data filled in: linedef normals and bounds, subsector segs with
// projection intervals, sector adjacency, and BSP child bounds.
func (b *Builder) Build() (*Map, error) {
	m := &Map{
		Sectors: append([]Sector(nil), b.sectors...),
		Things:  append([]Thing(nil), b.things...),
		Bounds:  geom.EmptyAABB2(),
	}

	if err := b.buildLinedefs(m); err != nil {
		return nil, err
	}
	if err := b.buildSubsectors(m); err != nil {
		return nil, err
	}
	if err := b.buildNodes(m); err != nil {
		return nil, err
	}

	for i := range m.Subsectors {
		m.Bounds = m.Bounds.Union(m.Subsectors[i].Bounds)
	}
	if len(m.Subsectors) == 0 {
		return nil, fmt.Errorf("level: map has no subsectors")
	}
	return m, nil
}

func (b *Builder) buildLinedefs(m *Map) error {
	m.Linedefs = make([]Linedef, len(b.linedefs))
	for i, spec := range b.linedefs {
		if spec.From == spec.To {
			return fmt.Errorf("level: linedef %d has zero length", i)
		}
		if spec.Front == nil {
			return fmt.Errorf("level: linedef %d has no front sidedef", i)
		}
		line := geom.LineFromPoints(spec.From, spec.To)
		ld := Linedef{
			Line:    line,
			Normal:  line.Normal(),
			Bounds:  geom.EmptyAABB2().AddPoint(spec.From).AddPoint(spec.To),
			Flags:   spec.Flags,
			Special: spec.Special,
			Tag:     spec.Tag,
			Sides:   [2]*Sidedef{spec.Front, spec.Back},
		}
		for s, side := range ld.Sides {
			if side == nil {
				continue
			}
			if side.Sector < 0 || side.Sector >= len(m.Sectors) {
				return fmt.Errorf("level: linedef %d side %d references sector %d of %d", i, s, side.Sector, len(m.Sectors))
			}
			sec := &m.Sectors[side.Sector]
			sec.Linedefs = appendUnique(sec.Linedefs, i)
		}
		if ld.Sides[1] != nil {
			front, back := ld.Sides[0].Sector, ld.Sides[1].Sector
			m.Sectors[front].Neighbours = appendUnique(m.Sectors[front].Neighbours, back)
			m.Sectors[back].Neighbours = appendUnique(m.Sectors[back].Neighbours, front)
		}
		m.Linedefs[i] = ld
	}
	return nil
}

func (b *Builder) buildSubsectors(m *Map) error {
	m.Subsectors = make([]Subsector, len(b.subs))
	for i, spec := range b.subs {
		if spec.sector < 0 || spec.sector >= len(m.Sectors) {
			return fmt.Errorf("level: subsector %d references sector %d of %d", i, spec.sector, len(m.Sectors))
		}
		if len(spec.polygon) < 3 {
			return fmt.Errorf("level: subsector %d polygon has %d vertices", i, len(spec.polygon))
		}

		ss := Subsector{
			Segs:   make([]Seg, 0, len(spec.polygon)),
			Bounds: geom.EmptyAABB2(),
			Sector: spec.sector,
		}
		for _, v := range spec.polygon {
			ss.Bounds = ss.Bounds.AddPoint(v)
		}
		for j := range spec.polygon {
			a := spec.polygon[j]
			c := spec.polygon[(j+1)%len(spec.polygon)]
			line := geom.LineFromPoints(a, c)
			normal := line.Normal()
			iv := geom.Interval{Min: geom.Inf(1), Max: geom.Inf(-1)}
			for _, v := range spec.polygon {
				iv = iv.ExtendTo(v.Dot(normal))
			}
			ss.Segs = append(ss.Segs, Seg{Line: line, Normal: normal, Interval: iv})
		}
		for li := range m.Linedefs {
			if m.Linedefs[li].Bounds.Overlaps(ss.Bounds) {
				ss.Linedefs = append(ss.Linedefs, li)
			}
		}
		m.Subsectors[i] = ss
		sec := &m.Sectors[spec.sector]
		sec.Subsectors = append(sec.Subsectors, i)
	}
	return nil
}

func (b *Builder) buildNodes(m *Map) error {
	m.Nodes = make([]Node, len(b.nodes))
	for i, spec := range b.nodes {
		for _, c := range spec.children {
			var limit int
			if c.Kind == ChildSubsector {
				limit = len(m.Subsectors)
			} else {
				limit = len(b.nodes)
			}
			if c.Index < 0 || c.Index >= limit {
				return fmt.Errorf("level: node %d child out of range", i)
			}
		}
		m.Nodes[i] = Node{Plane: spec.plane, Children: spec.children}
	}

	// Child bounds from the leaves up. A cycle in the node graph would
	// never terminate, so guard with a visiting set.
	bounds := make([]geom.AABB2, len(m.Nodes))
	done := make([]uint8, len(m.Nodes)) // 0 new, 1 visiting, 2 done
	var walk func(idx int) (geom.AABB2, error)
	walk = func(idx int) (geom.AABB2, error) {
		if done[idx] == 1 {
			return geom.AABB2{}, fmt.Errorf("level: node %d is part of a cycle", idx)
		}
		if done[idx] == 2 {
			return bounds[idx], nil
		}
		done[idx] = 1
		total := geom.EmptyAABB2()
		for ci, c := range m.Nodes[idx].Children {
			var cb geom.AABB2
			if c.Kind == ChildSubsector {
				cb = m.Subsectors[c.Index].Bounds
			} else {
				var err error
				cb, err = walk(c.Index)
				if err != nil {
					return geom.AABB2{}, err
				}
			}
			m.Nodes[idx].ChildBounds[ci] = cb
			total = total.Union(cb)
		}
		done[idx] = 2
		bounds[idx] = total
		return total, nil
	}
	for i := range m.Nodes {
		if _, err := walk(i); err != nil {
			return err
		}
	}
	return nil
}

func appendUnique(s []int, v int) []int {
	for _, x := range s {
		if x == v {
			return s
		}
	}
	return append(s, v)
}
