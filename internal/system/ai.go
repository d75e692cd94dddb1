package system

import (
	"time"

	"go.uber.org/zap"

	"github.com/gloamdev/gloam/internal/core/ecs"
	coresys "github.com/gloamdev/gloam/internal/core/system"
	"github.com/gloamdev/gloam/internal/game"
	"github.com/gloamdev/gloam/internal/geom"
	"github.com/gloamdev/gloam/internal/level"
	"github.com/gloamdev/gloam/internal/scripting"
)

// MonsterAISystem runs each monster's Lua behavior and turns the returned
// commands into velocity, facing, state, and sound changes. Monsters run in
// creation order with one RNG roll each, so a fixed seed replays the same
// behavior.
type MonsterAISystem struct {
	w      *game.World
	engine *scripting.Engine
}

func NewMonsterAISystem(w *game.World, engine *scripting.Engine) *MonsterAISystem {
	return &MonsterAISystem{w: w, engine: engine}
}

func (s *MonsterAISystem) Phase() coresys.Phase { return coresys.PhaseInput }

func (s *MonsterAISystem) Update(dt time.Duration) {
	if s.w.Map == nil || s.engine == nil {
		return
	}

	for _, id := range s.w.ECS.Entities() {
		mon, ok := s.w.Monsters.Get(id)
		if !ok || mon.Script == "" {
			continue
		}
		tr, ok := s.w.Transforms.Get(id)
		if !ok {
			continue
		}

		if mon.ReactionTime > 0 {
			mon.ReactionTime -= float32(dt.Seconds())
		}

		ctx := scripting.AIContext{
			State:        mon.State,
			PosX:         tr.Position.X,
			PosY:         tr.Position.Y,
			Angle:        tr.Rotation.Z,
			ReactionTime: mon.ReactionTime,
			Random:       s.w.RNG.Float64(),
		}

		if target, ok := s.w.Transforms.Get(s.w.Player); ok && s.w.ECS.Alive(s.w.Player) {
			delta := target.Position.XY().Sub(tr.Position.XY())
			ctx.TargetX = target.Position.X
			ctx.TargetY = target.Position.Y
			ctx.TargetDist = delta.Length()
			ctx.TargetVisible = s.sightClear(tr.Position.XY(), target.Position.XY())
		}

		commands, err := s.engine.RunMobjAI(mon.Script, ctx)
		if err != nil {
			s.w.Log.Error("monster ai failed",
				zap.String("script", mon.Script), zap.Error(err))
			continue
		}
		s.apply(id, commands)
	}
}

func (s *MonsterAISystem) apply(id ecs.EntityID, commands []scripting.AICommand) {
	for _, cmd := range commands {
		switch cmd.Cmd {
		case "move":
			vel, ok := s.w.Velocities.Get(id)
			if !ok {
				continue
			}
			dir := geom.Vec2{X: cmd.X, Y: cmd.Y}.Normalized().Scale(cmd.Speed)
			vel.Linear.X = dir.X
			vel.Linear.Y = dir.Y
		case "stop":
			if vel, ok := s.w.Velocities.Get(id); ok {
				vel.Linear = geom.Vec3{}
			}
		case "face":
			if tr, ok := s.w.Transforms.Get(id); ok {
				tr.Rotation.Z = cmd.Angle
			}
		case "state":
			if mon, ok := s.w.Monsters.Get(id); ok {
				mon.State = cmd.State
			}
		case "sound":
			s.w.PlaySound(cmd.Sound, id)
		default:
			s.w.Log.Warn("unknown ai command", zap.String("cmd", cmd.Cmd))
		}
	}
}

// sightClear reports whether the straight line between two points crosses
// any sight-blocking line: one-sided walls always block, two-sided lines
// block when their sectors share no vertical opening.
func (s *MonsterAISystem) sightClear(from, to geom.Vec2) bool {
	ray := geom.LineFromPoints(from, to)
	box := geom.EmptyAABB2().AddPoint(from).AddPoint(to)
	clear := true

	s.w.Map.TraverseNodes(box, func(ss *level.Subsector) bool {
		for _, li := range ss.Linedefs {
			ld := &s.w.Map.Linedefs[li]
			t, u, ok := ray.Intersect(ld.Line)
			if !ok || t <= 0 || t >= 1 || u < 0 || u > 1 {
				continue
			}
			if !ld.TwoSided() {
				clear = false
				return false
			}
			front := s.w.DynamicSector(ld.Sides[0].Sector)
			back := s.w.DynamicSector(ld.Sides[1].Sector)
			// A degenerate opening such as a fully closed door has
			// Min == Max; that blocks sight just like an empty one.
			if front.Interval.Intersection(back.Interval).Len() <= 0 {
				clear = false
				return false
			}
		}
		return true
	})
	return clear
}
