package geom

// Interval is a closed range [Min, Max]. An interval with Min > Max is empty.
type Interval struct {
	Min, Max float32
}

func NewInterval(min, max float32) Interval { return Interval{min, max} }

// IntervalFromValues returns the tightest interval containing all values.
// Returns the empty interval for no values.
func IntervalFromValues(values ...float32) Interval {
	iv := Interval{Inf(1), Inf(-1)}
	for _, v := range values {
		if v < iv.Min {
			iv.Min = v
		}
		if v > iv.Max {
			iv.Max = v
		}
	}
	return iv
}

// Normalize swaps the bounds if they are reversed, so the interval is
// well-formed regardless of the sign of the sweep direction it came from.
func (iv Interval) Normalize() Interval {
	if iv.Min > iv.Max {
		return Interval{iv.Max, iv.Min}
	}
	return iv
}

func (iv Interval) IsEmpty() bool { return iv.Min > iv.Max }

func (iv Interval) Len() float32 { return iv.Max - iv.Min }

func (iv Interval) Middle() float32 { return (iv.Min + iv.Max) / 2 }

func (iv Interval) Contains(v float32) bool { return v >= iv.Min && v <= iv.Max }

// IsInside reports whether iv lies entirely within o.
func (iv Interval) IsInside(o Interval) bool { return iv.Min >= o.Min && iv.Max <= o.Max }

func (iv Interval) Overlaps(o Interval) bool { return iv.Min <= o.Max && o.Min <= iv.Max }

func (iv Interval) Intersection(o Interval) Interval {
	r := iv
	if o.Min > r.Min {
		r.Min = o.Min
	}
	if o.Max < r.Max {
		r.Max = o.Max
	}
	return r
}

func (iv Interval) Union(o Interval) Interval {
	r := iv
	if o.Min < r.Min {
		r.Min = o.Min
	}
	if o.Max > r.Max {
		r.Max = o.Max
	}
	return r
}

func (iv Interval) Offset(d float32) Interval { return Interval{iv.Min + d, iv.Max + d} }

func (iv Interval) ExtendTo(v float32) Interval {
	r := iv
	if v < r.Min {
		r.Min = v
	}
	if v > r.Max {
		r.Max = v
	}
	return r
}
