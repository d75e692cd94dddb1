package system

import "testing"

func TestUseFindsDoor(t *testing.T) {
	w := newTestWorld(t)
	m := spawnDoorMap(t, w, 1)
	use := NewUseSystem(w)
	uses := w.LinedefUses.Register()

	id, err := w.Spawn("player", vec(200, 128), 0) // facing east
	if err != nil {
		t.Fatal(err)
	}
	w.Use(id)
	use.Update(tick)

	west := faceBySector(t, m, 1, 0)
	got := w.LinedefUses.Read(uses)
	if len(got) != 1 {
		t.Fatalf("resolved uses = %v", got)
	}
	if got[0].Index != west || got[0].Line != w.LinedefEntities[west] || got[0].User != id {
		t.Errorf("use = %+v, want door line %d", got[0], west)
	}
}

func TestUseOutOfRange(t *testing.T) {
	w := newTestWorld(t)
	spawnDoorMap(t, w, 1)
	use := NewUseSystem(w)
	uses := w.LinedefUses.Register()

	// The door face at x=256 is past the 64-unit reach.
	id, err := w.Spawn("player", vec(100, 128), 0)
	if err != nil {
		t.Fatal(err)
	}
	w.Use(id)
	use.Update(tick)

	if got := w.LinedefUses.Read(uses); len(got) != 0 {
		t.Errorf("out-of-range use resolved: %v", got)
	}
}

func TestUsePlainWallDoesNothing(t *testing.T) {
	w := newTestWorld(t)
	spawnDoorMap(t, w, 1)
	use := NewUseSystem(w)
	uses := w.LinedefUses.Register()

	// Facing the plain west wall; the wall is hit but has no mechanism.
	id, err := w.Spawn("player", vec(40, 128), 180)
	if err != nil {
		t.Fatal(err)
	}
	w.Use(id)
	use.Update(tick)

	if got := w.LinedefUses.Read(uses); len(got) != 0 {
		t.Errorf("plain wall use resolved: %v", got)
	}
}

func TestUseNearestLineWins(t *testing.T) {
	w := newTestWorld(t)
	m := spawnDoorMap(t, w, 1)
	use := NewUseSystem(w)
	uses := w.LinedefUses.Register()

	// Facing west from the east room: both door faces lie along the ray,
	// the east face is nearer.
	id, err := w.Spawn("player", vec(300, 128), 180)
	if err != nil {
		t.Fatal(err)
	}
	w.Use(id)
	use.Update(tick)

	east := faceBySector(t, m, 1, 2)
	got := w.LinedefUses.Read(uses)
	if len(got) != 1 || got[0].Index != east {
		t.Errorf("uses = %v, want east door face %d", got, east)
	}
}

func TestUseFindsSwitch(t *testing.T) {
	w := newTestWorld(t)
	m := spawnDoorMap(t, w, 1)
	use := NewUseSystem(w)
	uses := w.LinedefUses.Register()

	id, err := w.Spawn("player", vec(500, 128), 0)
	if err != nil {
		t.Fatal(err)
	}
	w.Use(id)
	use.Update(tick)

	sw := linesWithSpecial(m, 2)[0]
	got := w.LinedefUses.Read(uses)
	if len(got) != 1 || got[0].Index != sw {
		t.Errorf("uses = %v, want switch line %d", got, sw)
	}
}

func TestUseEndToEndOpensDoor(t *testing.T) {
	w := newTestWorld(t)
	m := spawnDoorMap(t, w, 1)
	use := NewUseSystem(w)
	door := NewDoorSystem(w)

	id, err := w.Spawn("player", vec(200, 128), 0)
	if err != nil {
		t.Fatal(err)
	}
	w.Use(id)
	use.Update(tick)
	door.Update(tick)

	west := faceBySector(t, m, 1, 0)
	ent := w.SectorEntities[m.Linedefs[west].Sides[1].Sector]
	if !w.DoorActives.Has(ent) {
		t.Fatal("pressing use in front of the door did not start it")
	}
}
