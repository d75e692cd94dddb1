// Package game owns the mutable simulation state: the ECS world, every
// component store, loaded assets and data tables, and the per-map runtime
// indices. Everything here is accessed only from the game loop goroutine,
// so no locks are needed.
package game

import (
	"math/rand"

	"go.uber.org/zap"

	"github.com/gloamdev/gloam/internal/asset"
	"github.com/gloamdev/gloam/internal/audio"
	"github.com/gloamdev/gloam/internal/component"
	"github.com/gloamdev/gloam/internal/core/ecs"
	"github.com/gloamdev/gloam/internal/core/event"
	"github.com/gloamdev/gloam/internal/data"
	"github.com/gloamdev/gloam/internal/level"
	"github.com/gloamdev/gloam/internal/quadtree"
	"github.com/gloamdev/gloam/internal/template"
)

// UseEvent is pushed when an entity presses use; the mechanism phase finds
// the linedef in front of the user and activates it.
type UseEvent struct {
	User ecs.EntityID
}

// LinedefUse is a resolved use press: User activated the linedef entity
// Line (map index Index).
type LinedefUse struct {
	User  ecs.EntityID
	Line  ecs.EntityID
	Index int
}

// Template is the entity template type specialized to this world.
type Template = template.Template[World]

// World is the top-level game state container.
type World struct {
	ECS *ecs.World
	Log *zap.Logger
	RNG *rand.Rand

	// Component stores. Registered with the ECS registry so destroyed
	// entities are wiped from all of them.
	Transforms      *ecs.PtrComponentStore[component.Transform]
	Velocities      *ecs.PtrComponentStore[component.Velocity]
	Colliders       *ecs.PtrComponentStore[component.BoxCollider]
	SpawnPoints     *ecs.PtrComponentStore[component.SpawnPoint]
	CeilingSpawns   *ecs.PtrComponentStore[component.SpawnOnCeiling]
	PlayerStarts    *ecs.PtrComponentStore[component.PlayerStart]
	Sprites         *ecs.PtrComponentStore[component.SpriteRender]
	Monsters        *ecs.PtrComponentStore[component.Monster]
	SectorRefs      *ecs.PtrComponentStore[component.SectorRef]
	LinedefRefs     *ecs.PtrComponentStore[component.LinedefRef]
	SectorDynamics  *ecs.PtrComponentStore[component.SectorDynamic]
	LinedefDynamics *ecs.PtrComponentStore[component.LinedefDynamic]
	DoorUses        *ecs.PtrComponentStore[component.DoorUse]
	DoorSwitches    *ecs.PtrComponentStore[component.DoorSwitch]
	DoorActives     *ecs.PtrComponentStore[component.DoorActive]
	SwitchActives   *ecs.PtrComponentStore[component.SwitchActive]
	LightFlashes    *ecs.PtrComponentStore[component.LightFlash]
	LightGlows      *ecs.PtrComponentStore[component.LightGlow]
	TextureScrolls  *ecs.PtrComponentStore[component.TextureScroll]

	// Assets.
	Maps   *asset.Storage[level.Map]
	Images *asset.Storage[level.Image]
	Sounds *asset.Storage[audio.Sound]

	// Static data tables.
	Mobjs           *data.MobjTable
	LinedefSpecials *data.LinedefSpecialTable
	SectorSpecials  *data.SectorSpecialTable
	Anims           *data.AnimTable

	// Entity templates built from the mobj table.
	Templates       map[string]*Template
	TemplatesByType map[int]*Template

	// Current map runtime state.
	Map             *level.Map
	SectorEntities  []ecs.EntityID
	LinedefEntities []ecs.EntityID
	Index           *quadtree.Quadtree

	Player ecs.EntityID

	// Skill filters thing spawns (1-5). Zero spawns everything.
	Skill int

	// Event queues.
	UseEvents   *event.Queue[UseEvent]
	LinedefUses *event.Queue[LinedefUse]
	SoundQueue  *event.Queue[audio.Trigger]
}

// indexRemover drops destroyed entities from whichever spatial index is
// current when the destroy queue flushes.
type indexRemover struct {
	w *World
}

func (r indexRemover) Remove(id ecs.EntityID) {
	if r.w.Index != nil {
		r.w.Index.Remove(id)
	}
}

// NewWorld creates an empty world with all stores registered.
func NewWorld(log *zap.Logger, seed int64) *World {
	w := &World{
		ECS: ecs.NewWorld(),
		Log: log,
		RNG: rand.New(rand.NewSource(seed)),

		Transforms:      ecs.NewPtrComponentStore[component.Transform](),
		Velocities:      ecs.NewPtrComponentStore[component.Velocity](),
		Colliders:       ecs.NewPtrComponentStore[component.BoxCollider](),
		SpawnPoints:     ecs.NewPtrComponentStore[component.SpawnPoint](),
		CeilingSpawns:   ecs.NewPtrComponentStore[component.SpawnOnCeiling](),
		PlayerStarts:    ecs.NewPtrComponentStore[component.PlayerStart](),
		Sprites:         ecs.NewPtrComponentStore[component.SpriteRender](),
		Monsters:        ecs.NewPtrComponentStore[component.Monster](),
		SectorRefs:      ecs.NewPtrComponentStore[component.SectorRef](),
		LinedefRefs:     ecs.NewPtrComponentStore[component.LinedefRef](),
		SectorDynamics:  ecs.NewPtrComponentStore[component.SectorDynamic](),
		LinedefDynamics: ecs.NewPtrComponentStore[component.LinedefDynamic](),
		DoorUses:        ecs.NewPtrComponentStore[component.DoorUse](),
		DoorSwitches:    ecs.NewPtrComponentStore[component.DoorSwitch](),
		DoorActives:     ecs.NewPtrComponentStore[component.DoorActive](),
		SwitchActives:   ecs.NewPtrComponentStore[component.SwitchActive](),
		LightFlashes:    ecs.NewPtrComponentStore[component.LightFlash](),
		LightGlows:      ecs.NewPtrComponentStore[component.LightGlow](),
		TextureScrolls:  ecs.NewPtrComponentStore[component.TextureScroll](),

		Maps:   asset.NewStorage[level.Map](),
		Images: asset.NewStorage[level.Image](),
		Sounds: asset.NewStorage[audio.Sound](),

		Templates:       make(map[string]*Template),
		TemplatesByType: make(map[int]*Template),

		UseEvents:   event.NewQueue[UseEvent](),
		LinedefUses: event.NewQueue[LinedefUse](),
		SoundQueue:  event.NewQueue[audio.Trigger](),
	}

	reg := w.ECS.Registry()
	reg.Register(w.Transforms)
	reg.Register(w.Velocities)
	reg.Register(w.Colliders)
	reg.Register(w.SpawnPoints)
	reg.Register(w.CeilingSpawns)
	reg.Register(w.PlayerStarts)
	reg.Register(w.Sprites)
	reg.Register(w.Monsters)
	reg.Register(w.SectorRefs)
	reg.Register(w.LinedefRefs)
	reg.Register(w.SectorDynamics)
	reg.Register(w.LinedefDynamics)
	reg.Register(w.DoorUses)
	reg.Register(w.DoorSwitches)
	reg.Register(w.DoorActives)
	reg.Register(w.SwitchActives)
	reg.Register(w.LightFlashes)
	reg.Register(w.LightGlows)
	reg.Register(w.TextureScrolls)
	reg.Register(indexRemover{w})

	return w
}

// DynamicSector returns the mutable state of sector index on the current
// map, or nil if the map is not spawned.
func (w *World) DynamicSector(index int) *component.SectorDynamic {
	if index < 0 || index >= len(w.SectorEntities) {
		return nil
	}
	d, _ := w.SectorDynamics.Get(w.SectorEntities[index])
	return d
}

// DynamicLinedef returns the mutable state of linedef index on the current
// map, or nil if the map is not spawned.
func (w *World) DynamicLinedef(index int) *component.LinedefDynamic {
	if index < 0 || index >= len(w.LinedefEntities) {
		return nil
	}
	d, _ := w.LinedefDynamics.Get(w.LinedefEntities[index])
	return d
}

// PlaySound queues a named sound positioned at ent. Empty names are ignored
// so data entries may simply omit a sound.
func (w *World) PlaySound(name string, ent ecs.EntityID) {
	if name == "" {
		return
	}
	w.SoundQueue.Push(audio.Trigger{Sound: w.Sounds.Intern(name), Entity: ent})
}

// PlayHandle queues an already-interned sound. The zero handle is ignored.
func (w *World) PlayHandle(h asset.Handle[audio.Sound], ent ecs.EntityID) {
	if h.IsZero() {
		return
	}
	w.SoundQueue.Push(audio.Trigger{Sound: h, Entity: ent})
}

// Use queues a use press for the mechanism phase.
func (w *World) Use(user ecs.EntityID) {
	w.UseEvents.Push(UseEvent{User: user})
}
