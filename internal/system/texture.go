package system

import (
	"time"

	"github.com/gloamdev/gloam/internal/component"
	"github.com/gloamdev/gloam/internal/core/ecs"
	coresys "github.com/gloamdev/gloam/internal/core/system"
	"github.com/gloamdev/gloam/internal/data"
	"github.com/gloamdev/gloam/internal/game"
	"github.com/gloamdev/gloam/internal/level"
)

// TextureAnimSystem cycles animated wall and flat textures. All surfaces
// showing frames of the same animation stay in lockstep, keyed off the
// global elapsed time rather than per-surface timers.
type TextureAnimSystem struct {
	w       *game.World
	elapsed time.Duration
}

func NewTextureAnimSystem(w *game.World) *TextureAnimSystem {
	return &TextureAnimSystem{w: w}
}

func (s *TextureAnimSystem) Phase() coresys.Phase { return coresys.PhaseMechanism }

func (s *TextureAnimSystem) Update(dt time.Duration) {
	s.elapsed += dt
	if s.w.Map == nil {
		return
	}

	for i := range s.w.SectorEntities {
		dyn := s.w.DynamicSector(i)
		s.cycle(&dyn.Floor)
		s.cycle(&dyn.Ceiling)
	}
	for i := range s.w.LinedefEntities {
		dyn := s.w.DynamicLinedef(i)
		for side := range dyn.Textures {
			for slot := range dyn.Textures[side] {
				s.cycle(&dyn.Textures[side][slot])
			}
		}
	}
}

func (s *TextureAnimSystem) cycle(tex *level.Texture) {
	if tex.Kind != level.TextureNormal {
		return
	}
	anim := s.w.Anims.AnimFor(s.w.Images.Name(tex.Image))
	if anim == nil {
		return
	}
	frame := s.frameOf(anim)
	tex.Image = s.w.Images.Intern(anim.Frames[frame])
}

func (s *TextureAnimSystem) frameOf(anim *data.AnimDef) int {
	frameTime := time.Duration(anim.FrameTime * float64(time.Second))
	if frameTime <= 0 {
		return 0
	}
	return int(s.elapsed/frameTime) % len(anim.Frames)
}

// TextureScrollSystem advances the texture offset of scrolling linedefs.
type TextureScrollSystem struct {
	w *game.World
}

func NewTextureScrollSystem(w *game.World) *TextureScrollSystem {
	return &TextureScrollSystem{w: w}
}

func (s *TextureScrollSystem) Phase() coresys.Phase { return coresys.PhaseMechanism }

func (s *TextureScrollSystem) Update(dt time.Duration) {
	if s.w.Map == nil {
		return
	}
	ecs.Each2(s.w.TextureScrolls, s.w.LinedefRefs,
		func(_ ecs.EntityID, scroll *component.TextureScroll, ref *component.LinedefRef) {
			dyn := s.w.DynamicLinedef(ref.Index)
			dyn.TextureOffset = dyn.TextureOffset.Add(scroll.Speed.Scale(float32(dt.Seconds())))
		})
}
