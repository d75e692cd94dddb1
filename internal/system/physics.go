package system

import (
	"time"

	"github.com/gloamdev/gloam/internal/component"
	"github.com/gloamdev/gloam/internal/core/ecs"
	coresys "github.com/gloamdev/gloam/internal/core/system"
	"github.com/gloamdev/gloam/internal/game"
	"github.com/gloamdev/gloam/internal/geom"
	"github.com/gloamdev/gloam/internal/level"
)

// Outward normals of the four collision box edges, indexed like the corner
// list: edge i runs from corner i to corner (i+1)%4.
var boxEdgeNormals = [4]geom.Vec3{
	{X: -1}, // x min
	{Y: -1}, // y max, hit from inside
	{X: 1},  // x max
	{Y: 1},  // y min, hit from inside
}

// PhysicsSystem sweeps every moving collider through the map each tick.
// Movement is resolved in up to four passes: each collision projects the
// velocity along the contact plane and the remainder is retried, so movers
// slide along walls instead of sticking. Entities are visited in creation
// order to keep runs reproducible.
type PhysicsSystem struct {
	w *game.World

	// Broad-phase dedup scratch, keyed by generation so clearing is O(1).
	seenLinedefs []uint32
	seenSectors  []uint32
	epoch        uint32
}

func NewPhysicsSystem(w *game.World) *PhysicsSystem {
	return &PhysicsSystem{w: w}
}

func (s *PhysicsSystem) Phase() coresys.Phase { return coresys.PhasePhysics }

func (s *PhysicsSystem) Update(dt time.Duration) {
	if s.w.Map == nil {
		return
	}
	if len(s.seenLinedefs) != len(s.w.Map.Linedefs) {
		s.seenLinedefs = make([]uint32, len(s.w.Map.Linedefs))
		s.seenSectors = make([]uint32, len(s.w.Map.Sectors))
		s.epoch = 0
	}

	for _, id := range s.w.ECS.Entities() {
		tr, ok := s.w.Transforms.Get(id)
		if !ok {
			continue
		}
		vel, ok := s.w.Velocities.Get(id)
		if !ok {
			continue
		}
		col, ok := s.w.Colliders.Get(id)
		if !ok {
			continue
		}
		if vel.Linear.IsZero() {
			continue
		}
		s.moveEntity(id, tr, vel, col, dt)
	}
}

func (s *PhysicsSystem) moveEntity(id ecs.EntityID, tr *component.Transform, vel *component.Velocity, col *component.BoxCollider, dt time.Duration) {
	entityBox := col.Box()
	newPos := tr.Position
	newVel := vel.Linear
	timeLeft := float32(dt.Seconds())

	for step := 0; step < 4; step++ {
		moveStep := newVel.Scale(timeLeft)
		if moveStep.IsZero() {
			break
		}

		hit := s.trace(id, entityBox.Offset(newPos), moveStep, col.Solid)
		if hit == nil {
			newPos = newPos.Add(moveStep)
			break
		}

		// Project the velocity along the contact plane, slightly
		// overcorrected so repeated contacts do not creep through.
		newVel = newVel.Sub(hit.normal.Scale(newVel.Dot(hit.normal) * 1.01))

		// Reversing direction means a corner; stop dead instead of
		// bouncing between faces.
		if newVel.Dot(vel.Linear) <= 0 {
			newVel = geom.Vec3{}
			break
		}
	}

	if newPos != tr.Position {
		tr.Position = newPos
		s.w.Index.Update(id, entityBox.XY().Offset(newPos.XY()))
	}
	vel.Linear = newVel
}

// traceHit is the earliest obstruction found along a sweep.
type traceHit struct {
	fraction float32
	normal   geom.Vec3
	mask     component.SolidMask
}

// trace sweeps a box along moveStep and returns the earliest hit that blocks
// the given solid category, or nil for a clear path. Candidates come from
// the BSP walk over the swept region and the entity index.
func (s *PhysicsSystem) trace(self ecs.EntityID, box geom.AABB3, moveStep geom.Vec3, solid component.SolidMask) *traceHit {
	var best *traceHit
	consider := func(h *traceHit) {
		if h == nil || h.mask&solid == 0 || h.fraction >= 1 {
			return
		}
		if best == nil || h.fraction < best.fraction {
			best = h
		}
	}

	box2 := box.XY()
	moveBox2 := box2.Union(box2.Offset(moveStep.XY()))
	moveXY := moveStep.X != 0 || moveStep.Y != 0

	s.epoch++
	s.w.Map.TraverseNodes(moveBox2, func(ss *level.Subsector) bool {
		if moveXY {
			for _, li := range ss.Linedefs {
				if s.seenLinedefs[li] == s.epoch {
					continue
				}
				s.seenLinedefs[li] = s.epoch
				consider(s.traceLinedef(box, moveStep, li))
			}
		}
		if moveStep.Z != 0 && s.seenSectors[ss.Sector] != s.epoch {
			s.seenSectors[ss.Sector] = s.epoch
			consider(s.traceSector(box, moveStep, ss.Sector))
		}
		return true
	})

	s.w.Index.Query(moveBox2, func(other ecs.EntityID, _ geom.AABB2) bool {
		if other == self {
			return true
		}
		otherTr, ok := s.w.Transforms.Get(other)
		if !ok {
			return true
		}
		otherCol, ok := s.w.Colliders.Get(other)
		if !ok {
			return true
		}
		consider(traceBox(box, moveStep, otherCol.Box().Offset(otherTr.Position), otherCol.Blocks))
		return true
	})

	return best
}

// traceLinedef sweeps the box corners against the line and the line
// endpoints backwards against the box edges, keeping the earliest contact.
// Two-sided lines only block when the swept box ends outside the vertical
// opening shared by the two sectors.
func (s *PhysicsSystem) traceLinedef(box geom.AABB3, moveStep geom.Vec3, index int) *traceHit {
	ld := &s.w.Map.Linedefs[index]
	move2 := moveStep.XY()

	box2 := box.XY()
	if !box2.Union(box2.Offset(move2)).Overlaps(ld.Bounds) {
		return nil
	}

	corners := box2.Corners()
	var best *traceHit

	for i := 0; i < 4; i++ {
		// Box corner against the line.
		if t, u, ok := geom.NewLine2(corners[i], move2).Intersect(ld.Line); ok {
			if t >= 0 && u >= 0 && u <= 1 && (best == nil || t < best.fraction) {
				n := ld.Normal
				if move2.Dot(n) > 0 {
					n = n.Neg()
				}
				best = &traceHit{
					fraction: t,
					normal:   geom.Vec3{X: n.X, Y: n.Y},
					mask:     component.SolidAll,
				}
			}
		}

		// Line endpoints swept backwards against the box edge.
		edge := geom.LineFromPoints(corners[i], corners[(i+1)%4])
		for _, v := range [2]geom.Vec2{ld.Line.Point, ld.Line.End()} {
			if t, u, ok := geom.NewLine2(v, move2.Neg()).Intersect(edge); ok {
				if t >= 0 && u >= 0 && u <= 1 && (best == nil || t < best.fraction) {
					best = &traceHit{
						fraction: t,
						normal:   boxEdgeNormals[i],
						mask:     component.SolidAll,
					}
				}
			}
		}
	}

	if best != nil && ld.TwoSided() {
		front := s.w.DynamicSector(ld.Sides[0].Sector)
		back := s.w.DynamicSector(ld.Sides[1].Sector)
		opening := front.Interval.Intersection(back.Interval)
		endZ := box.Z.Offset(moveStep.Z * best.fraction)
		if endZ.IsInside(opening) {
			best.mask = linedefBlockMask(ld.Flags)
		}
	}
	return best
}

// linedefBlockMask derives what a passable two-sided line still blocks from
// its flags.
func linedefBlockMask(flags level.LinedefFlags) component.SolidMask {
	switch {
	case flags&level.FlagBlocking != 0:
		return component.SolidAll
	case flags&level.FlagBlockMonsters != 0:
		return component.SolidMonster
	default:
		return 0
	}
}

// traceSector finds the time the box meets the sector's floor or ceiling,
// then confirms the box footprint actually lies in the sector at that moment
// with a separating-axis test against each subsector polygon.
func (s *PhysicsSystem) traceSector(box geom.AABB3, moveStep geom.Vec3, sectorIndex int) *traceHit {
	dyn := s.w.DynamicSector(sectorIndex)
	sec := &s.w.Map.Sectors[sectorIndex]

	var h traceHit
	if moveStep.Z > 0 {
		h = traceHit{
			fraction: (dyn.Interval.Max - box.Z.Max) / moveStep.Z,
			normal:   geom.Vec3{Z: -1},
			mask:     component.SolidAll,
		}
	} else {
		h = traceHit{
			fraction: (dyn.Interval.Min - box.Z.Min) / moveStep.Z,
			normal:   geom.Vec3{Z: 1},
			mask:     component.SolidAll,
		}
	}
	if h.fraction < 0 || h.fraction > 1 {
		return nil
	}

	end2 := box.XY().Offset(moveStep.XY().Scale(h.fraction))
	corners := end2.Corners()

	for _, ssi := range sec.Subsectors {
		ss := &s.w.Map.Subsectors[ssi]
		if !end2.Overlaps(ss.Bounds) {
			continue
		}
		if footprintInSubsector(corners, ss) {
			return &h
		}
	}
	return nil
}

// footprintInSubsector is the separating-axis overlap test between a box
// footprint and a convex subsector polygon, using the precomputed polygon
// projection interval of each seg.
func footprintInSubsector(corners [4]geom.Vec2, ss *level.Subsector) bool {
	for i := range ss.Segs {
		seg := &ss.Segs[i]
		proj := geom.IntervalFromValues(
			corners[0].Dot(seg.Normal),
			corners[1].Dot(seg.Normal),
			corners[2].Dot(seg.Normal),
			corners[3].Dot(seg.Normal),
		)
		if !proj.Overlaps(seg.Interval) {
			return false
		}
	}
	return true
}

// traceBox sweeps one box against another with the slab method: each axis
// yields the time interval during which the boxes overlap on that axis, and
// a collision needs all three to intersect. An axis with no movement
// contributes no constraint when already overlapping and rules the
// collision out entirely when not.
func traceBox(box geom.AABB3, moveStep geom.Vec3, other geom.AABB3, blocks component.SolidMask) *traceHit {
	overlap := geom.Interval{Min: geom.Inf(-1), Max: geom.Inf(1)}
	var mins [3]float32

	for i := 0; i < 3; i++ {
		mv := moveStep.Axis(i)
		if mv == 0 {
			if !box.Axis(i).Overlaps(other.Axis(i)) {
				return nil
			}
			mins[i] = geom.Inf(-1)
			continue
		}
		iv := geom.Interval{
			Min: (other.Axis(i).Min - box.Axis(i).Max) / mv,
			Max: (other.Axis(i).Max - box.Axis(i).Min) / mv,
		}.Normalize()
		mins[i] = iv.Min
		overlap = overlap.Intersection(iv)
	}

	if overlap.IsEmpty() || overlap.Min < 0 || overlap.Min > 1 {
		return nil
	}

	h := &traceHit{fraction: overlap.Min, mask: blocks}
	for i := 0; i < 3; i++ {
		if mins[i] == overlap.Min && moveStep.Axis(i) != 0 {
			var n geom.Vec3
			if moveStep.Axis(i) > 0 {
				n = axisVec(i, -1)
			} else {
				n = axisVec(i, 1)
			}
			h.normal = n
			break
		}
	}
	return h
}

func axisVec(axis int, sign float32) geom.Vec3 {
	switch axis {
	case 0:
		return geom.Vec3{X: sign}
	case 1:
		return geom.Vec3{Y: sign}
	default:
		return geom.Vec3{Z: sign}
	}
}
