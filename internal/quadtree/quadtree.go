// Package quadtree provides the broad-phase spatial index for entity
// collision boxes. Boxes live in the deepest node that fully contains them;
// queries visit every node overlapping the search box.
package quadtree

import (
	"github.com/gloamdev/gloam/internal/core/ecs"
	"github.com/gloamdev/gloam/internal/geom"
)

const (
	maxDepth     = 8
	splitEntries = 8 // entries before a leaf subdivides
)

type entry struct {
	id  ecs.EntityID
	box geom.AABB2
}

type node struct {
	bounds   geom.AABB2
	entries  []entry
	children *[4]node // nil for leaves
	depth    int
}

// Quadtree indexes entity bounding boxes in the horizontal plane.
type Quadtree struct {
	root  node
	where map[ecs.EntityID]*node
}

// New creates a tree covering bounds. Boxes outside bounds are kept at the
// root, so an undersized bounds degrades to a linear scan rather than losing
// entities.
func New(bounds geom.AABB2) *Quadtree {
	return &Quadtree{
		root:  node{bounds: bounds},
		where: make(map[ecs.EntityID]*node, 256),
	}
}

// Insert adds an entity's box. The entity must not already be present.
func (q *Quadtree) Insert(id ecs.EntityID, box geom.AABB2) {
	n := q.root.descend(box)
	n.entries = append(n.entries, entry{id, box})
	q.where[id] = n
	if n.children == nil && len(n.entries) > splitEntries && n.depth < maxDepth {
		q.split(n)
	}
}

// Remove deletes an entity from the index. Unknown entities are ignored.
func (q *Quadtree) Remove(id ecs.EntityID) {
	n, ok := q.where[id]
	if !ok {
		return
	}
	delete(q.where, id)
	for i := range n.entries {
		if n.entries[i].id == id {
			last := len(n.entries) - 1
			n.entries[i] = n.entries[last]
			n.entries = n.entries[:last]
			return
		}
	}
}

// Update moves an entity to its new box.
func (q *Quadtree) Update(id ecs.EntityID, box geom.AABB2) {
	q.Remove(id)
	q.Insert(id, box)
}

// Query calls fn for every entity whose box overlaps the search box. fn
// returning false stops the walk.
func (q *Quadtree) Query(box geom.AABB2, fn func(id ecs.EntityID, entBox geom.AABB2) bool) {
	q.root.query(box, fn)
}

// Len returns the number of indexed entities.
func (q *Quadtree) Len() int { return len(q.where) }

func (n *node) descend(box geom.AABB2) *node {
	for n.children != nil {
		next := n
		for i := range n.children {
			c := &n.children[i]
			if box.X.IsInside(c.bounds.X) && box.Y.IsInside(c.bounds.Y) {
				next = c
				break
			}
		}
		if next == n {
			return n
		}
		n = next
	}
	return n
}

func (q *Quadtree) split(n *node) {
	mid := n.bounds.Middle()
	n.children = &[4]node{
		{bounds: geom.AABB2{X: geom.Interval{Min: n.bounds.X.Min, Max: mid.X}, Y: geom.Interval{Min: n.bounds.Y.Min, Max: mid.Y}}, depth: n.depth + 1},
		{bounds: geom.AABB2{X: geom.Interval{Min: mid.X, Max: n.bounds.X.Max}, Y: geom.Interval{Min: n.bounds.Y.Min, Max: mid.Y}}, depth: n.depth + 1},
		{bounds: geom.AABB2{X: geom.Interval{Min: n.bounds.X.Min, Max: mid.X}, Y: geom.Interval{Min: mid.Y, Max: n.bounds.Y.Max}}, depth: n.depth + 1},
		{bounds: geom.AABB2{X: geom.Interval{Min: mid.X, Max: n.bounds.X.Max}, Y: geom.Interval{Min: mid.Y, Max: n.bounds.Y.Max}}, depth: n.depth + 1},
	}

	kept := n.entries[:0]
	for _, e := range n.entries {
		dst := n.descendOne(e.box)
		if dst == n {
			kept = append(kept, e)
		} else {
			dst.entries = append(dst.entries, e)
			q.where[e.id] = dst
		}
	}
	n.entries = kept
}

// descendOne moves at most one level down, used when redistributing after a
// split.
func (n *node) descendOne(box geom.AABB2) *node {
	for i := range n.children {
		c := &n.children[i]
		if box.X.IsInside(c.bounds.X) && box.Y.IsInside(c.bounds.Y) {
			return c
		}
	}
	return n
}

func (n *node) query(box geom.AABB2, fn func(ecs.EntityID, geom.AABB2) bool) bool {
	for i := range n.entries {
		if n.entries[i].box.Overlaps(box) {
			if !fn(n.entries[i].id, n.entries[i].box) {
				return false
			}
		}
	}
	if n.children == nil {
		return true
	}
	for i := range n.children {
		c := &n.children[i]
		if c.bounds.Overlaps(box) {
			if !c.query(box, fn) {
				return false
			}
		}
	}
	return true
}
