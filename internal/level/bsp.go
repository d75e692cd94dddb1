package level

import "github.com/gloamdev/gloam/internal/geom"

// FindSubsector returns the subsector containing p. Every point resolves to
// exactly one leaf: a point exactly on a splitting plane descends the back
// side, so leaves partition the plane with no gaps and no double-counting.
func (m *Map) FindSubsector(p geom.Vec2) *Subsector {
	child := m.Root()
	for child.Kind == ChildNode {
		node := &m.Nodes[child.Index]
		if node.Plane.SideOf(p) > 0 {
			child = node.Children[0]
		} else {
			child = node.Children[1]
		}
	}
	return &m.Subsectors[child.Index]
}

// FindSubsectorIndex is FindSubsector returning the leaf index.
func (m *Map) FindSubsectorIndex(p geom.Vec2) int {
	child := m.Root()
	for child.Kind == ChildNode {
		node := &m.Nodes[child.Index]
		if node.Plane.SideOf(p) > 0 {
			child = node.Children[0]
		} else {
			child = node.Children[1]
		}
	}
	return child.Index
}

// TraverseNodes visits every subsector whose BSP region may overlap box.
// Both children are descended when box corners straddle a splitting plane.
// fn returning false stops the walk early.
func (m *Map) TraverseNodes(box geom.AABB2, fn func(ss *Subsector) bool) bool {
	return m.traverse(m.Root(), box, fn)
}

func (m *Map) traverse(child NodeChild, box geom.AABB2, fn func(ss *Subsector) bool) bool {
	if child.Kind == ChildSubsector {
		return fn(&m.Subsectors[child.Index])
	}

	node := &m.Nodes[child.Index]
	front, back := false, false
	for _, c := range box.Corners() {
		d := node.Plane.SideOf(c)
		if d >= 0 {
			front = true
		}
		if d <= 0 {
			back = true
		}
	}
	if front && node.ChildBounds[0].Overlaps(box) {
		if !m.traverse(node.Children[0], box, fn) {
			return false
		}
	}
	if back && node.ChildBounds[1].Overlaps(box) {
		if !m.traverse(node.Children[1], box, fn) {
			return false
		}
	}
	return true
}
