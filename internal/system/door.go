package system

import (
	"time"

	"go.uber.org/zap"

	"github.com/gloamdev/gloam/internal/component"
	"github.com/gloamdev/gloam/internal/core/ecs"
	"github.com/gloamdev/gloam/internal/core/event"
	coresys "github.com/gloamdev/gloam/internal/core/system"
	"github.com/gloamdev/gloam/internal/game"
	"github.com/gloamdev/gloam/internal/geom"
	"github.com/gloamdev/gloam/internal/level"
)

// Doors stop 4 units below the lowest neighbouring ceiling so the door
// lintel never pokes through it.
const doorLip = 4

// DoorSystem activates doors from resolved use presses and animates every
// active door and armed switch.
//
// A door is a sector whose ceiling animates between its floor and just
// below the lowest neighbouring ceiling. A fresh activation enters the
// transient Closed state and starts opening on the same tick; a door blocked
// while closing also returns to Closed, which makes it reopen.
type DoorSystem struct {
	w      *game.World
	reader event.ReaderID
}

func NewDoorSystem(w *game.World) *DoorSystem {
	return &DoorSystem{w: w, reader: w.LinedefUses.Register()}
}

func (s *DoorSystem) Phase() coresys.Phase { return coresys.PhaseMechanism }

func (s *DoorSystem) Update(dt time.Duration) {
	if s.w.Map == nil {
		return
	}
	for _, use := range s.w.LinedefUses.Read(s.reader) {
		if du, ok := s.w.DoorUses.Get(use.Line); ok {
			s.useDoor(use, du)
		}
		if dsw, ok := s.w.DoorSwitches.Get(use.Line); ok {
			s.useSwitch(use, dsw)
		}
	}
	s.tickDoors(dt)
	s.tickSwitches(dt)
}

// useDoor activates the sector behind the used line.
func (s *DoorSystem) useDoor(use game.LinedefUse, du *component.DoorUse) {
	ld := &s.w.Map.Linedefs[use.Index]
	if !ld.TwoSided() {
		s.w.Log.Error("used door linedef has no back sector", zap.Int("linedef", use.Index))
		return
	}
	sectorIndex := ld.Sides[1].Sector
	sectorEnt := s.w.SectorEntities[sectorIndex]

	if active, ok := s.w.DoorActives.Get(sectorEnt); ok {
		switch active.State {
		case component.DoorClosing:
			// Send it back up.
			active.State = component.DoorClosed
		case component.DoorOpening, component.DoorOpen:
			// Close early.
			active.State = component.DoorOpen
			active.TimeLeft = 0
		}
		return
	}
	s.activateDoor(sectorIndex, du.Params)
}

// useSwitch flips the switch and activates every door sector sharing the
// line's tag. An armed switch ignores the press entirely.
func (s *DoorSystem) useSwitch(use game.LinedefUse, dsw *component.DoorSwitch) {
	if s.w.SwitchActives.Has(use.Line) {
		return
	}

	ld := &s.w.Map.Linedefs[use.Index]
	used := false
	for i := range s.w.Map.Sectors {
		if s.w.Map.Sectors[i].Tag != ld.Tag {
			continue
		}
		if s.w.DoorActives.Has(s.w.SectorEntities[i]) {
			continue
		}
		if s.activateDoor(i, dsw.Door) {
			used = true
		}
	}
	if used {
		s.flipSwitch(use, dsw)
	}
}

// activateDoor arms a door cycle on the sector. Returns false when the
// sector has no neighbours to derive the open height from.
func (s *DoorSystem) activateDoor(sectorIndex int, params component.DoorParams) bool {
	sec := &s.w.Map.Sectors[sectorIndex]
	if len(sec.Neighbours) == 0 {
		s.w.Log.Error("door sector has no neighbouring sectors", zap.Int("sector", sectorIndex))
		return false
	}

	openHeight := geom.Inf(1)
	for _, n := range sec.Neighbours {
		if h := s.w.DynamicSector(n).Interval.Max; h < openHeight {
			openHeight = h
		}
	}
	dyn := s.w.DynamicSector(sectorIndex)

	s.w.DoorActives.Set(s.w.SectorEntities[sectorIndex], &component.DoorActive{
		State:       component.DoorClosed,
		Params:      params,
		TimeLeft:    params.WaitTime,
		OpenHeight:  openHeight - doorLip,
		CloseHeight: dyn.Interval.Min,
	})
	return true
}

// flipSwitch swaps the first switchable texture on the front sidedef and
// arms the reset timer.
func (s *DoorSystem) flipSwitch(use game.LinedefUse, dsw *component.DoorSwitch) {
	dyn := s.w.DynamicLinedef(use.Index)
	ld := &s.w.Map.Linedefs[use.Index]

	for _, slot := range [3]int{component.SlotTop, component.SlotMiddle, component.SlotBottom} {
		tex := &dyn.Textures[0][slot]
		if tex.Kind != level.TextureNormal {
			continue
		}
		name := s.w.Images.Name(tex.Image)
		flipped := s.w.Anims.SwitchFor(name)
		if flipped == "" {
			continue
		}

		saved := *tex
		tex.Image = s.w.Images.Intern(flipped)

		sectorEnt := s.w.SectorEntities[ld.Sides[0].Sector]
		s.w.PlayHandle(dsw.Switch.Sound, sectorEnt)
		s.w.SwitchActives.Set(use.Line, &component.SwitchActive{
			Sound:    dsw.Switch.Sound,
			TimeLeft: dsw.Switch.ResetTime,
			Slot:     slot,
			Saved:    saved,
		})
		return
	}
}

func (s *DoorSystem) tickDoors(dt time.Duration) {
	var done []ecs.EntityID

	for i, sectorEnt := range s.w.SectorEntities {
		active, ok := s.w.DoorActives.Get(sectorEnt)
		if !ok {
			continue
		}
		dyn := s.w.DynamicSector(i)

		switch active.State {
		case component.DoorClosed:
			active.State = component.DoorOpening
			s.w.PlayHandle(active.Params.OpenSound, sectorEnt)

		case component.DoorOpening:
			dyn.Interval.Max += active.Params.Speed * float32(dt.Seconds())
			if dyn.Interval.Max >= active.OpenHeight {
				dyn.Interval.Max = active.OpenHeight
				if active.Params.StayOpen {
					done = append(done, sectorEnt)
					break
				}
				active.State = component.DoorOpen
				active.TimeLeft = active.Params.WaitTime
			}

		case component.DoorOpen:
			active.TimeLeft -= dt
			if active.TimeLeft <= 0 {
				active.State = component.DoorClosing
				s.w.PlayHandle(active.Params.CloseSound, sectorEnt)
			}

		case component.DoorClosing:
			newMax := dyn.Interval.Max - active.Params.Speed*float32(dt.Seconds())
			if s.ceilingBlocked(i, newMax) {
				// Something is in the way; go back up.
				active.State = component.DoorClosed
				break
			}
			dyn.Interval.Max = newMax
			if dyn.Interval.Max <= active.CloseHeight {
				dyn.Interval.Max = active.CloseHeight
				done = append(done, sectorEnt)
			}
		}
	}

	for _, ent := range done {
		s.w.DoorActives.Remove(ent)
	}
}

// ceilingBlocked reports whether lowering the sector ceiling to newHeight
// would cut into any entity standing in the sector.
func (s *DoorSystem) ceilingBlocked(sectorIndex int, newHeight float32) bool {
	sec := &s.w.Map.Sectors[sectorIndex]
	blocked := false

	for _, ssi := range sec.Subsectors {
		ss := &s.w.Map.Subsectors[ssi]
		s.w.Index.Query(ss.Bounds, func(id ecs.EntityID, box geom.AABB2) bool {
			tr, ok := s.w.Transforms.Get(id)
			if !ok {
				return true
			}
			col, ok := s.w.Colliders.Get(id)
			if !ok {
				return true
			}
			if !footprintInSubsector(box.Corners(), ss) {
				return true
			}
			if tr.Position.Z+col.Height > newHeight {
				blocked = true
				return false
			}
			return true
		})
		if blocked {
			return true
		}
	}
	return false
}

func (s *DoorSystem) tickSwitches(dt time.Duration) {
	var done []ecs.EntityID

	for i, lineEnt := range s.w.LinedefEntities {
		active, ok := s.w.SwitchActives.Get(lineEnt)
		if !ok {
			continue
		}
		active.TimeLeft -= dt
		if active.TimeLeft > 0 {
			continue
		}

		dyn := s.w.DynamicLinedef(i)
		dyn.Textures[0][active.Slot] = active.Saved

		ld := &s.w.Map.Linedefs[i]
		s.w.PlayHandle(active.Sound, s.w.SectorEntities[ld.Sides[0].Sector])
		done = append(done, lineEnt)
	}

	for _, ent := range done {
		s.w.SwitchActives.Remove(ent)
	}
}
