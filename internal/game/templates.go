package game

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/gloamdev/gloam/internal/component"
	"github.com/gloamdev/gloam/internal/core/ecs"
	"github.com/gloamdev/gloam/internal/data"
	"github.com/gloamdev/gloam/internal/template"
)

// BuildTemplates turns the loaded mobj table into entity templates, indexed
// by name and by editor type ID. Must run after the data tables load and
// before any spawning.
func (w *World) BuildTemplates() {
	defs := w.Mobjs.All()
	for i := range defs {
		def := &defs[i]
		tmpl := w.buildMobjTemplate(def)
		w.Templates[def.Name] = tmpl
		if def.TypeID != 0 {
			w.TemplatesByType[def.TypeID] = tmpl
		}
	}
	w.Log.Info("entity templates built", zap.Int("count", len(w.Templates)))
}

func (w *World) buildMobjTemplate(def *data.MobjDef) *Template {
	t := template.New[World](def.Name, def.TypeID)

	if def.Sprite != "" {
		sprite := def.Sprite
		t.Set("sprite", func(w *World, id ecs.EntityID) error {
			w.Sprites.Set(id, &component.SpriteRender{Sprite: sprite})
			return nil
		})
	}

	if def.Solid || def.Shootable {
		radius, height := def.Radius, def.Height
		var solid, blocks component.SolidMask
		if def.Monster {
			solid = component.SolidMonster
		} else {
			solid = component.SolidNonMonster
		}
		if def.Solid {
			blocks = component.SolidAll
		}
		t.Set("collider", func(w *World, id ecs.EntityID) error {
			if radius <= 0 || height <= 0 {
				return fmt.Errorf("collider needs positive radius and height, got %gx%g", radius, height)
			}
			w.Colliders.Set(id, &component.BoxCollider{
				Height: height,
				Radius: radius,
				Solid:  solid,
				Blocks: blocks,
			})
			return nil
		})
	}

	if def.Monster {
		script := def.Script
		t.Set("velocity", func(w *World, id ecs.EntityID) error {
			w.Velocities.Set(id, &component.Velocity{})
			return nil
		})
		t.Set("monster", func(w *World, id ecs.EntityID) error {
			w.Monsters.Set(id, &component.Monster{Script: script, State: "spawn"})
			return nil
		})
	}

	if def.SpawnOnCeiling {
		offset := def.CeilingOffset
		t.Set("spawn_on_ceiling", func(w *World, id ecs.EntityID) error {
			w.CeilingSpawns.Set(id, &component.SpawnOnCeiling{Offset: offset})
			return nil
		})
	}

	if def.PlayerStart != 0 {
		number := def.PlayerStart
		t.Set("player_start", func(w *World, id ecs.EntityID) error {
			w.PlayerStarts.Set(id, &component.PlayerStart{Number: number})
			return nil
		})
	}

	return t
}
