package system

import (
	"testing"
	"time"

	"github.com/gloamdev/gloam/internal/component"
	"github.com/gloamdev/gloam/internal/core/ecs"
	"github.com/gloamdev/gloam/internal/geom"
	"github.com/gloamdev/gloam/internal/level"
	"github.com/gloamdev/gloam/internal/persist"
)

func TestPersistenceCapture(t *testing.T) {
	w := newTestWorld(t)
	spawnOpenMap(t, w, level.FlagTwoSided)
	sys := NewPersistenceSystem(w, nil, "test", "OPEN", time.Minute)

	id := spawnPlayer(t, w, vec(100, 120), 45)
	w.Velocities.Set(id, &component.Velocity{Linear: geom.Vec3{X: 10}})

	// Move one sector away from its authored state.
	dyn := w.DynamicSector(0)
	dyn.Interval.Max = 60
	dyn.LightLevel = 0.7

	snap := sys.capture()

	if snap.MapName != "OPEN" {
		t.Errorf("map name = %q", snap.MapName)
	}
	p := snap.Player
	if p.X != 100 || p.Y != 120 || p.Z != 0 || p.Angle != 45 || p.VelX != 10 {
		t.Errorf("player state = %+v", p)
	}

	// Only the touched sector is recorded.
	if len(snap.Sectors) != 1 {
		t.Fatalf("sectors = %+v, want just the moved one", snap.Sectors)
	}
	s := snap.Sectors[0]
	if s.Index != 0 || s.Floor != 0 || s.Ceiling != 60 || s.Light != 0.7 {
		t.Errorf("sector state = %+v", s)
	}
}

func TestPersistenceRestore(t *testing.T) {
	w := newTestWorld(t)
	spawnOpenMap(t, w, level.FlagTwoSided)
	sys := NewPersistenceSystem(w, nil, "test", "OPEN", time.Minute)

	id := spawnPlayer(t, w, vec(100, 120), 0)
	w.Velocities.Set(id, &component.Velocity{})

	sys.Restore(&persist.SessionSnapshot{
		MapName: "OPEN",
		Player:  persist.PlayerState{X: 300, Y: 130, Z: 0, Angle: 90, VelX: 5},
		Sectors: []persist.SectorState{
			{Index: 1, Floor: 0, Ceiling: 40, Light: 0.25},
			{Index: 99, Floor: 0, Ceiling: 1, Light: 1}, // out of range, skipped
		},
	})

	dyn := w.DynamicSector(1)
	if dyn.Interval != (geom.Interval{Min: 0, Max: 40}) || dyn.LightLevel != 0.25 {
		t.Errorf("restored sector = %+v", dyn)
	}

	tr, _ := w.Transforms.Get(id)
	if tr.Position.X != 300 || tr.Position.Y != 130 || tr.Rotation.Z != 90 {
		t.Errorf("restored player = %+v", tr)
	}
	vel, _ := w.Velocities.Get(id)
	if vel.Linear.X != 5 {
		t.Errorf("restored velocity = %v", vel.Linear)
	}

	// The spatial index follows the player to the new position.
	found := false
	w.Index.Query(geom.NewAABB2(280, 320, 110, 150), func(other ecs.EntityID, _ geom.AABB2) bool {
		if other == id {
			found = true
			return false
		}
		return true
	})
	if !found {
		t.Error("player not reindexed at the restored position")
	}
}
