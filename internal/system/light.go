package system

import (
	"math/rand"
	"time"

	"github.com/gloamdev/gloam/internal/component"
	coresys "github.com/gloamdev/gloam/internal/core/system"
	"github.com/gloamdev/gloam/internal/game"
)

// LightSystem animates sector light levels: broken-tube random flicker,
// regular strobes, and smooth glow cycles. Bright is always the authored
// sector level; dark is the darkest neighbouring sector.
type LightSystem struct {
	w *game.World
}

func NewLightSystem(w *game.World) *LightSystem {
	return &LightSystem{w: w}
}

func (s *LightSystem) Phase() coresys.Phase { return coresys.PhaseMechanism }

func (s *LightSystem) Update(dt time.Duration) {
	if s.w.Map == nil {
		return
	}
	for i, sectorEnt := range s.w.SectorEntities {
		dyn := s.w.DynamicSector(i)

		if flash, ok := s.w.LightFlashes.Get(sectorEnt); ok {
			s.tickFlash(i, flash, dyn, dt)
		}
		if glow, ok := s.w.LightGlows.Get(sectorEnt); ok {
			tickGlow(glow, dyn, dt)
		}
	}
}

func (s *LightSystem) tickFlash(index int, flash *component.LightFlash, dyn *component.SectorDynamic, dt time.Duration) {
	flash.TimeLeft -= dt
	if flash.TimeLeft > 0 {
		return
	}
	flash.State = !flash.State

	if flash.State {
		dyn.LightLevel = s.w.Map.Sectors[index].LightLevel
	} else {
		dyn.LightLevel = s.darkestNeighbour(index)
	}

	switch flash.Type {
	case component.LightFlashBroken:
		if flash.State {
			flash.TimeLeft = randDuration(s.w.RNG, flash.OnTime)
		} else {
			flash.TimeLeft = randDuration(s.w.RNG, flash.OffTime)
		}
	case component.LightFlashStrobe:
		if flash.State {
			flash.TimeLeft = flash.OnTime
		} else {
			flash.TimeLeft = flash.OffTime
		}
	}
}

func tickGlow(glow *component.LightGlow, dyn *component.SectorDynamic, dt time.Duration) {
	step := glow.Speed * float32(dt.Seconds())
	if glow.Down {
		dyn.LightLevel -= step
		if dyn.LightLevel <= glow.Interval.Min {
			dyn.LightLevel = glow.Interval.Min
			glow.Down = false
		}
	} else {
		dyn.LightLevel += step
		if dyn.LightLevel >= glow.Interval.Max {
			dyn.LightLevel = glow.Interval.Max
			glow.Down = true
		}
	}
}

func (s *LightSystem) darkestNeighbour(index int) float32 {
	sec := &s.w.Map.Sectors[index]
	dark := float32(0)
	if len(sec.Neighbours) > 0 {
		dark = s.w.Map.Sectors[sec.Neighbours[0]].LightLevel
		for _, n := range sec.Neighbours[1:] {
			if l := s.w.Map.Sectors[n].LightLevel; l < dark {
				dark = l
			}
		}
	}
	return dark
}

func randDuration(r *rand.Rand, d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	return time.Duration(r.Int63n(int64(d))) + 1
}
