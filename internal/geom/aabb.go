package geom

// AABB2 is an axis-aligned box in the horizontal (plan-view) plane.
type AABB2 struct {
	X, Y Interval
}

// EmptyAABB2 returns a box that contains nothing and unions correctly.
func EmptyAABB2() AABB2 {
	return AABB2{
		X: Interval{Inf(1), Inf(-1)},
		Y: Interval{Inf(1), Inf(-1)},
	}
}

func NewAABB2(minX, maxX, minY, maxY float32) AABB2 {
	return AABB2{Interval{minX, maxX}, Interval{minY, maxY}}
}

func (b AABB2) IsEmpty() bool { return b.X.IsEmpty() || b.Y.IsEmpty() }

func (b AABB2) Offset(d Vec2) AABB2 {
	return AABB2{b.X.Offset(d.X), b.Y.Offset(d.Y)}
}

func (b AABB2) Union(o AABB2) AABB2 {
	return AABB2{b.X.Union(o.X), b.Y.Union(o.Y)}
}

func (b AABB2) Overlaps(o AABB2) bool {
	return b.X.Overlaps(o.X) && b.Y.Overlaps(o.Y)
}

func (b AABB2) Contains(p Vec2) bool {
	return b.X.Contains(p.X) && b.Y.Contains(p.Y)
}

func (b AABB2) AddPoint(p Vec2) AABB2 {
	return AABB2{b.X.ExtendTo(p.X), b.Y.ExtendTo(p.Y)}
}

func (b AABB2) Middle() Vec2 { return Vec2{b.X.Middle(), b.Y.Middle()} }

// Corners returns the four corners in counter-clockwise order starting at
// (min, min). Edge i runs from corner i to corner (i+1)%4; collision code
// indexes edge normals by the same i.
func (b AABB2) Corners() [4]Vec2 {
	return [4]Vec2{
		{b.X.Min, b.Y.Min},
		{b.X.Min, b.Y.Max},
		{b.X.Max, b.Y.Max},
		{b.X.Max, b.Y.Min},
	}
}

// AABB3 is an axis-aligned box in full 3D map space.
type AABB3 struct {
	X, Y, Z Interval
}

// AABB3FromRadiusHeight builds the collision box of a vertical cylinder
// approximation: XY spans [-radius, radius], Z spans [0, height] so the
// box origin sits on the floor.
func AABB3FromRadiusHeight(radius, height float32) AABB3 {
	return AABB3{
		X: Interval{-radius, radius},
		Y: Interval{-radius, radius},
		Z: Interval{0, height},
	}
}

func (b AABB3) Offset(d Vec3) AABB3 {
	return AABB3{b.X.Offset(d.X), b.Y.Offset(d.Y), b.Z.Offset(d.Z)}
}

func (b AABB3) XY() AABB2 { return AABB2{b.X, b.Y} }

// Axis returns the i-th axis interval (0=X, 1=Y, 2=Z).
func (b AABB3) Axis(i int) Interval {
	switch i {
	case 0:
		return b.X
	case 1:
		return b.Y
	default:
		return b.Z
	}
}
