package game

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/gloamdev/gloam/internal/asset"
	"github.com/gloamdev/gloam/internal/audio"
	"github.com/gloamdev/gloam/internal/component"
	"github.com/gloamdev/gloam/internal/core/ecs"
	"github.com/gloamdev/gloam/internal/data"
	"github.com/gloamdev/gloam/internal/geom"
	"github.com/gloamdev/gloam/internal/level"
	"github.com/gloamdev/gloam/internal/quadtree"
)

// SetMap activates a loaded map: spawns the per-sector and per-linedef
// entities, rebuilds the spatial index, and spawns all placed things.
// Templates must be built first.
func (w *World) SetMap(h asset.Handle[level.Map]) error {
	m, ok := w.Maps.Lookup(h)
	if !ok {
		return fmt.Errorf("game: map %q not loaded", w.Maps.Name(h))
	}
	w.Map = m
	w.Index = quadtree.New(m.Bounds)
	w.SectorEntities = w.SectorEntities[:0]
	w.LinedefEntities = w.LinedefEntities[:0]

	w.spawnSectorEntities(m)
	w.spawnLinedefEntities(m)
	w.SpawnThings(m)

	w.Log.Info("map spawned",
		zap.String("map", w.Maps.Name(h)),
		zap.Int("sectors", len(m.Sectors)),
		zap.Int("linedefs", len(m.Linedefs)),
		zap.Int("things", len(m.Things)))
	return nil
}

func (w *World) spawnSectorEntities(m *level.Map) {
	for i := range m.Sectors {
		sec := &m.Sectors[i]
		id := w.ECS.CreateEntity()
		w.SectorRefs.Set(id, &component.SectorRef{Index: i})
		w.SectorDynamics.Set(id, &component.SectorDynamic{
			Interval:   sec.Interval,
			LightLevel: sec.LightLevel,
			Floor:      sec.Floor,
			Ceiling:    sec.Ceiling,
		})
		w.SectorEntities = append(w.SectorEntities, id)

		if sec.Special == 0 {
			continue
		}
		spec := w.SectorSpecials.Get(sec.Special)
		if spec == nil {
			w.Log.Warn("unknown sector special",
				zap.Int("sector", i), zap.Int("special", sec.Special))
			continue
		}
		w.applySectorSpecial(id, m, i, spec)
	}
}

func (w *World) applySectorSpecial(id ecs.EntityID, m *level.Map, index int, spec *data.SectorSpecial) {
	switch spec.Kind {
	case data.SectorKindFlashBroken:
		w.LightFlashes.Set(id, &component.LightFlash{
			Type:     component.LightFlashBroken,
			OnTime:   secs(spec.OnTime),
			OffTime:  secs(spec.OffTime),
			TimeLeft: time.Duration(1+w.RNG.Intn(64)) * frameTime,
			State:    true,
		})
	case data.SectorKindStrobe:
		w.LightFlashes.Set(id, &component.LightFlash{
			Type:     component.LightFlashStrobe,
			OnTime:   secs(spec.OnTime),
			OffTime:  secs(spec.OffTime),
			TimeLeft: secs(spec.OnTime),
			State:    true,
		})
	case data.SectorKindGlow:
		low := m.Sectors[index].LightLevel
		for _, n := range m.Sectors[index].Neighbours {
			if l := m.Sectors[n].LightLevel; l < low {
				low = l
			}
		}
		w.LightGlows.Set(id, &component.LightGlow{
			Speed:    spec.Speed,
			Down:     true,
			Interval: geom.Interval{Min: low, Max: m.Sectors[index].LightLevel},
		})
	}
}

func (w *World) spawnLinedefEntities(m *level.Map) {
	for i := range m.Linedefs {
		ld := &m.Linedefs[i]
		id := w.ECS.CreateEntity()
		w.LinedefRefs.Set(id, &component.LinedefRef{Index: i})

		dyn := &component.LinedefDynamic{}
		for s, side := range ld.Sides {
			if side == nil {
				continue
			}
			dyn.TextureOffset = side.TextureOffset
			dyn.Textures[s][component.SlotTop] = side.Top
			dyn.Textures[s][component.SlotBottom] = side.Bottom
			dyn.Textures[s][component.SlotMiddle] = side.Middle
		}
		w.LinedefDynamics.Set(id, dyn)
		w.LinedefEntities = append(w.LinedefEntities, id)

		if ld.Special == 0 {
			continue
		}
		spec := w.LinedefSpecials.Get(ld.Special)
		if spec == nil {
			w.Log.Warn("unknown linedef special",
				zap.Int("linedef", i), zap.Int("special", ld.Special))
			continue
		}
		switch spec.Kind {
		case data.LinedefKindDoorUse:
			w.DoorUses.Set(id, &component.DoorUse{
				Params:    w.doorParams(spec),
				Retrigger: spec.Retrigger,
			})
		case data.LinedefKindDoorSwitch:
			w.DoorSwitches.Set(id, &component.DoorSwitch{
				Door: w.doorParams(spec),
				Switch: component.SwitchParams{
					Sound:     w.soundHandle(spec.SwitchSound),
					Retrigger: spec.Retrigger,
					ResetTime: secs(spec.SwitchReset),
				},
			})
		case data.LinedefKindScroll:
			w.TextureScrolls.Set(id, &component.TextureScroll{
				Speed: geom.Vec2{X: spec.ScrollX, Y: spec.ScrollY},
			})
		}
	}
}

func (w *World) doorParams(spec *data.LinedefSpecial) component.DoorParams {
	return component.DoorParams{
		OpenSound:  w.soundHandle(spec.OpenSound),
		CloseSound: w.soundHandle(spec.CloseSound),
		Speed:      spec.Speed,
		WaitTime:   secs(spec.WaitTime),
		StayOpen:   spec.StayOpen,
	}
}

func (w *World) soundHandle(name string) asset.Handle[audio.Sound] {
	if name == "" {
		return asset.Handle[audio.Sound]{}
	}
	return w.Sounds.Intern(name)
}

// SpawnThings spawns every placed thing that has a matching template.
// Unknown type IDs are logged and skipped; a failed template leaves no
// entity behind.
func (w *World) SpawnThings(m *level.Map) {
	for i := range m.Things {
		thing := &m.Things[i]
		if !w.skillAllows(thing.Flags) {
			continue
		}
		tmpl := w.TemplatesByType[thing.TypeID]
		if tmpl == nil {
			w.Log.Warn("no template for thing",
				zap.Int("thing", i), zap.Int("type_id", thing.TypeID))
			continue
		}
		if _, err := w.SpawnAt(tmpl, thing.Position, thing.Angle); err != nil {
			w.Log.Error("thing spawn failed",
				zap.Int("thing", i), zap.String("template", tmpl.Name), zap.Error(err))
		}
	}
}

// skillAllows reports whether a thing's flags permit spawning at the
// configured skill. Things with no skill bits always spawn; multiplayer
// things never do.
func (w *World) skillAllows(f level.ThingFlags) bool {
	if f&level.ThingMultiplayer != 0 {
		return false
	}
	skillBits := f & (level.ThingSkillEasy | level.ThingSkillMedium | level.ThingSkillHard)
	if w.Skill == 0 || skillBits == 0 {
		return true
	}
	switch {
	case w.Skill <= 2:
		return f&level.ThingSkillEasy != 0
	case w.Skill == 3:
		return f&level.ThingSkillMedium != 0
	default:
		return f&level.ThingSkillHard != 0
	}
}

// Spawn creates an entity from the named template at a horizontal position.
// The vertical position comes from the containing sector.
func (w *World) Spawn(name string, pos geom.Vec2, angle float32) (ecs.EntityID, error) {
	tmpl := w.Templates[name]
	if tmpl == nil {
		return 0, fmt.Errorf("game: no template named %q", name)
	}
	return w.SpawnAt(tmpl, pos, angle)
}

// SpawnAt creates an entity from a template. On a template error the
// half-built entity is queued for destruction and the error returned.
func (w *World) SpawnAt(tmpl *Template, pos geom.Vec2, angle float32) (ecs.EntityID, error) {
	id := w.ECS.CreateEntity()
	p := geom.Vec3{X: pos.X, Y: pos.Y}
	w.Transforms.Set(id, &component.Transform{
		Position: p,
		Rotation: geom.Vec3{Z: angle},
	})
	w.SpawnPoints.Set(id, &component.SpawnPoint{Position: p, Angle: angle})

	if err := tmpl.Apply(w, id); err != nil {
		w.ECS.MarkForDestruction(id)
		return 0, err
	}

	w.settleSpawn(id)
	return id, nil
}

// settleSpawn resolves the vertical position against the containing sector
// and registers the collider with the spatial index. Ceiling spawners hang
// their data-defined offset below the ceiling; the marker is one-shot.
func (w *World) settleSpawn(id ecs.EntityID) {
	tr, _ := w.Transforms.Get(id)
	col, hasCol := w.Colliders.Get(id)

	if w.Map != nil {
		ss := w.Map.FindSubsector(tr.Position.XY())
		if dyn := w.DynamicSector(ss.Sector); dyn != nil {
			if ceil, ok := w.CeilingSpawns.Get(id); ok {
				tr.Position.Z = dyn.Interval.Max - ceil.Offset
				w.CeilingSpawns.Remove(id)
			} else {
				tr.Position.Z = dyn.Interval.Min
			}
		}
	}

	if hasCol && w.Index != nil {
		w.Index.Insert(id, col.Box().XY().Offset(tr.Position.XY()))
	}
}

// SpawnPlayer spawns the player template at the player 1 start marker placed
// by the map and records the entity.
func (w *World) SpawnPlayer() (ecs.EntityID, error) {
	var start *component.Transform
	for _, id := range w.ECS.Entities() {
		ps, ok := w.PlayerStarts.Get(id)
		if !ok || ps.Number != 1 {
			continue
		}
		if tr, ok := w.Transforms.Get(id); ok {
			start = tr
			break
		}
	}
	if start == nil {
		return 0, fmt.Errorf("game: map has no player 1 start")
	}

	id, err := w.Spawn("player", start.Position.XY(), start.Rotation.Z)
	if err != nil {
		return 0, err
	}
	w.Player = id
	return id, nil
}

const frameTime = time.Second / 35

func secs(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
