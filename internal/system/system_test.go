package system

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/gloamdev/gloam/internal/component"
	"github.com/gloamdev/gloam/internal/core/ecs"
	"github.com/gloamdev/gloam/internal/data"
	"github.com/gloamdev/gloam/internal/game"
	"github.com/gloamdev/gloam/internal/geom"
	"github.com/gloamdev/gloam/internal/level"
)

const tick = time.Second / 35

const testMobjs = `
mobjs:
  - name: player
    radius: 16
    height: 56
    solid: true
    shootable: true
    sprite: PLAY
  - name: player1_start
    type_id: 1
    player_start: 1
  - name: zombie
    type_id: 3004
    radius: 20
    height: 56
    solid: true
    shootable: true
    monster: true
    sprite: POSS
    script: zombie_ai
`

const testLinedefSpecials = `
specials:
  - special: 1
    kind: door_use
    speed: 70.0
    wait_time: 4.0
    retrigger: true
    open_sound: dsdoropn
    close_sound: dsdorcls
  - special: 2
    kind: door_switch
    speed: 70.0
    wait_time: 4.0
    switch_reset: 1.0
    switch_sound: dsswtchn
    open_sound: dsdoropn
    close_sound: dsdorcls
  - special: 31
    kind: door_use
    speed: 70.0
    stay_open: true
    open_sound: dsdoropn
  - special: 48
    kind: scroll
    scroll_x: 35.0
`

const testSectorSpecials = `
specials:
  - special: 1
    kind: flash_broken
    on_time: 1.8
    off_time: 0.2
  - special: 2
    kind: strobe
    on_time: 0.2
    off_time: 0.6
  - special: 3
    kind: glow
    speed: 0.3
`

const testAnims = `
anims:
  - frames: [NUKAGE1, NUKAGE2, NUKAGE3]
    frame_time: 0.25
    flat: true
  - frames: [FIREWALA, FIREWALB]
    frame_time: 0.25
switches:
  - off: SW1BRCOM
    on: SW2BRCOM
`

func loadTable[T any](t *testing.T, name, content string, load func(string) (T, error)) T {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	tbl, err := load(path)
	if err != nil {
		t.Fatal(err)
	}
	return tbl
}

func newTestWorld(t *testing.T) *game.World {
	t.Helper()
	w := game.NewWorld(zap.NewNop(), 1)
	w.Mobjs = loadTable(t, "mobjs.yaml", testMobjs, data.LoadMobjTable)
	w.LinedefSpecials = loadTable(t, "linedefs.yaml", testLinedefSpecials, data.LoadLinedefSpecialTable)
	w.SectorSpecials = loadTable(t, "sectors.yaml", testSectorSpecials, data.LoadSectorSpecialTable)
	w.Anims = loadTable(t, "anims.yaml", testAnims, data.LoadAnimTable)
	w.BuildTemplates()
	return w
}

func vec(x, y float32) geom.Vec2 { return geom.Vec2{X: x, Y: y} }

// openMap is two 256-unit rooms split at x=256, joined by a two-sided
// opening spanning y 96..160. openFlags sets the opening's blocking bits.
// Sector 0 is bright with animated flats, sector 1 is darker.
func openMap(t *testing.T, w *game.World, openFlags level.LinedefFlags) *level.Map {
	t.Helper()
	tex := func(name string) level.Texture {
		return level.Texture{Kind: level.TextureNormal, Image: w.Images.Intern(name)}
	}
	side := func(sector int, middle string) *level.Sidedef {
		return &level.Sidedef{Sector: sector, Middle: tex(middle)}
	}

	b := level.NewBuilder()
	s0 := b.AddSector(level.Sector{
		Interval:   geom.Interval{Min: 0, Max: 128},
		Floor:      tex("NUKAGE1"),
		Ceiling:    tex("NUKAGE3"),
		LightLevel: 0.8,
	})
	s1 := b.AddSector(level.Sector{
		Interval:   geom.Interval{Min: 0, Max: 128},
		Floor:      tex("FLOOR4_8"),
		Ceiling:    tex("CEIL3_5"),
		LightLevel: 0.5,
	})

	wall := func(from, to geom.Vec2, sector int, middle string) {
		b.AddLinedef(level.LinedefSpec{
			From: from, To: to,
			Flags: level.FlagBlocking,
			Front: side(sector, middle),
		})
	}

	// Linedef 0 carries the animated wall texture.
	wall(vec(256, 0), vec(0, 0), s0, "FIREWALA")
	wall(vec(0, 0), vec(0, 256), s0, "STARTAN3")
	wall(vec(0, 256), vec(256, 256), s0, "STARTAN3")
	wall(vec(256, 256), vec(256, 160), s0, "STARTAN3")
	wall(vec(256, 96), vec(256, 0), s0, "STARTAN3")

	b.AddLinedef(level.LinedefSpec{
		From: vec(256, 160), To: vec(256, 96),
		Flags: openFlags,
		Front: &level.Sidedef{Sector: s0},
		Back:  &level.Sidedef{Sector: s1},
	})

	wall(vec(512, 0), vec(256, 0), s1, "STARTAN3")
	wall(vec(256, 160), vec(256, 256), s1, "STARTAN3")
	wall(vec(256, 256), vec(512, 256), s1, "STARTAN3")
	wall(vec(512, 256), vec(512, 0), s1, "STARTAN3")
	wall(vec(256, 0), vec(256, 96), s1, "STARTAN3")

	ss0 := b.AddSubsector(s0, vec(0, 0), vec(256, 0), vec(256, 256), vec(0, 256))
	ss1 := b.AddSubsector(s1, vec(256, 0), vec(512, 0), vec(512, 256), vec(256, 256))
	b.AddNode(geom.Plane2{Normal: vec(1, 0), Distance: 256},
		level.NodeChild{Kind: level.ChildSubsector, Index: ss1},
		level.NodeChild{Kind: level.ChildSubsector, Index: ss0})

	m, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return m
}

func spawnOpenMap(t *testing.T, w *game.World, openFlags level.LinedefFlags) *level.Map {
	t.Helper()
	m := openMap(t, w, openFlags)
	if err := w.SetMap(w.Maps.Insert("OPEN", m)); err != nil {
		t.Fatal(err)
	}
	return m
}

// doorMap is the three-sector door layout: a west room, a closed tagged door
// sector between the rooms, and an east room with a switch in its east wall
// that also operates the door. useSpecial is the special on the west door
// face, so tests can choose between a plain door and a stay-open one.
func doorMap(t *testing.T, w *game.World, useSpecial int) *level.Map {
	t.Helper()
	tex := func(name string) level.Texture {
		return level.Texture{Kind: level.TextureNormal, Image: w.Images.Intern(name)}
	}

	b := level.NewBuilder()
	s0 := b.AddSector(level.Sector{
		Interval:   geom.Interval{Min: 0, Max: 128},
		LightLevel: 0.8,
	})
	s1 := b.AddSector(level.Sector{
		Interval:   geom.Interval{Min: 0, Max: 0},
		LightLevel: 0.5,
		Tag:        9,
	})
	s2 := b.AddSector(level.Sector{
		Interval:   geom.Interval{Min: 0, Max: 128},
		LightLevel: 0.6,
	})

	wall := func(from, to geom.Vec2, sector int) {
		b.AddLinedef(level.LinedefSpec{
			From: from, To: to,
			Flags: level.FlagBlocking,
			Front: &level.Sidedef{Sector: sector},
		})
	}
	doorSide := func(sector int) *level.Sidedef {
		return &level.Sidedef{Sector: sector, Top: tex("BIGDOOR2")}
	}

	wall(vec(256, 0), vec(0, 0), s0)
	wall(vec(0, 0), vec(0, 256), s0)
	wall(vec(0, 256), vec(256, 256), s0)
	wall(vec(256, 256), vec(256, 160), s0)
	wall(vec(256, 96), vec(256, 0), s0)

	// West door face, usable from the west room.
	b.AddLinedef(level.LinedefSpec{
		From: vec(256, 160), To: vec(256, 96),
		Flags:   level.FlagTwoSided,
		Special: useSpecial,
		Front:   doorSide(s0),
		Back:    doorSide(s1),
	})

	wall(vec(256, 160), vec(288, 160), s1)
	wall(vec(288, 96), vec(256, 96), s1)

	// East door face.
	b.AddLinedef(level.LinedefSpec{
		From: vec(288, 96), To: vec(288, 160),
		Flags:   level.FlagTwoSided,
		Special: 1,
		Front:   doorSide(s2),
		Back:    doorSide(s1),
	})

	wall(vec(544, 0), vec(288, 0), s2)
	wall(vec(288, 0), vec(288, 96), s2)
	wall(vec(288, 160), vec(288, 256), s2)
	wall(vec(288, 256), vec(544, 256), s2)
	wall(vec(544, 256), vec(544, 144), s2)
	b.AddLinedef(level.LinedefSpec{
		From: vec(544, 144), To: vec(544, 112),
		Flags:   level.FlagBlocking,
		Special: 2,
		Tag:     9,
		Front:   &level.Sidedef{Sector: s2, Middle: tex("SW1BRCOM")},
	})
	wall(vec(544, 112), vec(544, 0), s2)

	ss0 := b.AddSubsector(s0, vec(0, 0), vec(256, 0), vec(256, 256), vec(0, 256))
	ss1 := b.AddSubsector(s1, vec(256, 96), vec(288, 96), vec(288, 160), vec(256, 160))
	ss2 := b.AddSubsector(s2, vec(288, 0), vec(544, 0), vec(544, 256), vec(288, 256))

	leaf := func(i int) level.NodeChild {
		return level.NodeChild{Kind: level.ChildSubsector, Index: i}
	}
	east := b.AddNode(geom.Plane2{Normal: vec(1, 0), Distance: 288}, leaf(ss2), leaf(ss1))
	b.AddNode(geom.Plane2{Normal: vec(1, 0), Distance: 256},
		level.NodeChild{Kind: level.ChildNode, Index: east}, leaf(ss0))

	m, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return m
}

func spawnDoorMap(t *testing.T, w *game.World, useSpecial int) *level.Map {
	t.Helper()
	m := doorMap(t, w, useSpecial)
	if err := w.SetMap(w.Maps.Insert("DOOR", m)); err != nil {
		t.Fatal(err)
	}
	return m
}

// linesWithSpecial returns the indices of every linedef carrying a special.
func linesWithSpecial(m *level.Map, special int) []int {
	var out []int
	for i := range m.Linedefs {
		if m.Linedefs[i].Special == special {
			out = append(out, i)
		}
	}
	return out
}

// spawnPlayer places a start marker and spawns the player at it.
func spawnPlayer(t *testing.T, w *game.World, pos geom.Vec2, angle float32) ecs.EntityID {
	t.Helper()
	if _, err := w.Spawn("player1_start", pos, angle); err != nil {
		t.Fatal(err)
	}
	id, err := w.SpawnPlayer()
	if err != nil {
		t.Fatal(err)
	}
	return id
}

func spawnMover(t *testing.T, w *game.World, name string, pos geom.Vec2, vel geom.Vec3) ecs.EntityID {
	t.Helper()
	id, err := w.Spawn(name, pos, 0)
	if err != nil {
		t.Fatal(err)
	}
	w.Velocities.Set(id, &component.Velocity{Linear: vel})
	return id
}

func near(a, b float32) bool { return geom.Abs(a-b) < 0.01 }
