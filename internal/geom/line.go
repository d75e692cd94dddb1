package geom

// Line2 is a parametric 2D line: Point + t*Dir. For segments, t in [0,1]
// spans the segment; callers decide which parameter range is valid.
type Line2 struct {
	Point, Dir Vec2
}

func NewLine2(point, dir Vec2) Line2 { return Line2{point, dir} }

// LineFromPoints returns the line through a toward b, with Dir = b - a.
func LineFromPoints(a, b Vec2) Line2 { return Line2{a, b.Sub(a)} }

func (l Line2) End() Vec2 { return l.Point.Add(l.Dir) }

// Normal returns the right-hand unit normal of the line direction.
// For a Doom linedef this is the front-side normal.
func (l Line2) Normal() Vec2 {
	return Vec2{l.Dir.Y, -l.Dir.X}.Normalized()
}

// Intersect solves l.Point + t*l.Dir == o.Point + u*o.Dir, returning both
// parametric fractions. ok is false for parallel (or degenerate) lines;
// a zero denominator never divides (no NaN propagation).
func (l Line2) Intersect(o Line2) (t, u float32, ok bool) {
	denom := l.Dir.Cross(o.Dir)
	if denom == 0 {
		return 0, 0, false
	}
	d := o.Point.Sub(l.Point)
	t = d.Cross(o.Dir) / denom
	u = d.Cross(l.Dir) / denom
	return t, u, true
}

// Plane2 is a 2D splitting plane (a line in normal form): the set of points
// p with p·Normal == Distance. Used by BSP nodes.
type Plane2 struct {
	Normal   Vec2
	Distance float32
}

// SideOf returns the signed distance of p from the plane; positive values
// are on the normal side.
func (pl Plane2) SideOf(p Vec2) float32 {
	return p.Dot(pl.Normal) - pl.Distance
}
