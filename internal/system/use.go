package system

import (
	"math"
	"time"

	"github.com/gloamdev/gloam/internal/core/event"
	coresys "github.com/gloamdev/gloam/internal/core/system"
	"github.com/gloamdev/gloam/internal/game"
	"github.com/gloamdev/gloam/internal/geom"
	"github.com/gloamdev/gloam/internal/level"
)

// How far in front of an entity a use press reaches, in map units.
const useRange = 64

// UseSystem resolves raw use presses into linedef activations: a short ray
// along the user's facing, tested against nearby lines through the BSP, with
// the nearest usable line winning.
type UseSystem struct {
	w      *game.World
	reader event.ReaderID
}

func NewUseSystem(w *game.World) *UseSystem {
	return &UseSystem{w: w, reader: w.UseEvents.Register()}
}

func (s *UseSystem) Phase() coresys.Phase { return coresys.PhaseMechanism }

func (s *UseSystem) Update(_ time.Duration) {
	if s.w.Map == nil {
		return
	}
	for _, ev := range s.w.UseEvents.Read(s.reader) {
		tr, ok := s.w.Transforms.Get(ev.User)
		if !ok {
			continue
		}

		yaw := float64(tr.Rotation.Z) * math.Pi / 180
		dir := geom.Vec2{
			X: float32(math.Cos(yaw)),
			Y: float32(math.Sin(yaw)),
		}.Scale(useRange)
		useLine := geom.NewLine2(tr.Position.XY(), dir)

		reach := geom.EmptyAABB2().
			AddPoint(useLine.Point).
			AddPoint(useLine.End())

		bestFraction := float32(math.Inf(1))
		bestIndex := -1
		seen := make(map[int]struct{}, 16)

		s.w.Map.TraverseNodes(reach, func(ss *level.Subsector) bool {
			for _, li := range ss.Linedefs {
				if _, dup := seen[li]; dup {
					continue
				}
				seen[li] = struct{}{}
				ld := &s.w.Map.Linedefs[li]
				// Open two-sided lines without a special let the
				// press reach through to whatever is behind.
				if ld.Special == 0 && ld.TwoSided() {
					continue
				}
				t, u, ok := useLine.Intersect(ld.Line)
				if !ok || t < 0 || t > 1 || u < 0 || u > 1 {
					continue
				}
				if t < bestFraction {
					bestFraction = t
					bestIndex = li
				}
			}
			return true
		})

		if bestIndex < 0 {
			continue
		}
		lineEnt := s.w.LinedefEntities[bestIndex]
		if !s.w.DoorUses.Has(lineEnt) && !s.w.DoorSwitches.Has(lineEnt) {
			continue
		}
		s.w.LinedefUses.Push(game.LinedefUse{
			User:  ev.User,
			Line:  lineEnt,
			Index: bestIndex,
		})
	}
}
