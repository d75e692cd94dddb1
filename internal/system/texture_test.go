package system

import (
	"testing"
	"time"

	"github.com/gloamdev/gloam/internal/component"
	"github.com/gloamdev/gloam/internal/geom"
	"github.com/gloamdev/gloam/internal/level"
)

func TestTextureAnimLockstep(t *testing.T) {
	w := newTestWorld(t)
	spawnOpenMap(t, w, level.FlagTwoSided)
	sys := NewTextureAnimSystem(w)

	name := func(tex level.Texture) string { return w.Images.Name(tex.Image) }
	floor := func() string { return name(w.DynamicSector(0).Floor) }
	ceiling := func() string { return name(w.DynamicSector(0).Ceiling) }
	wall := func() string {
		return name(w.DynamicLinedef(0).Textures[0][component.SlotMiddle])
	}

	// One frame time elapses per update. The ceiling starts on a different
	// frame of the same animation and snaps into lockstep with the floor.
	sys.Update(250 * time.Millisecond)
	if got := floor(); got != "NUKAGE2" {
		t.Errorf("floor = %q, want NUKAGE2", got)
	}
	if got := ceiling(); got != "NUKAGE2" {
		t.Errorf("ceiling = %q, want lockstep NUKAGE2", got)
	}
	if got := wall(); got != "FIREWALB" {
		t.Errorf("wall = %q, want FIREWALB", got)
	}

	sys.Update(250 * time.Millisecond)
	if got := floor(); got != "NUKAGE3" {
		t.Errorf("floor = %q, want NUKAGE3", got)
	}
	if got := wall(); got != "FIREWALA" {
		t.Errorf("wall = %q, want wrapped FIREWALA", got)
	}

	sys.Update(250 * time.Millisecond)
	if got := floor(); got != "NUKAGE1" {
		t.Errorf("floor = %q, want wrapped NUKAGE1", got)
	}

	// Unanimated surfaces never change.
	if got := name(w.DynamicSector(1).Floor); got != "FLOOR4_8" {
		t.Errorf("plain floor = %q", got)
	}
}

func TestTextureScroll(t *testing.T) {
	w := newTestWorld(t)
	spawnOpenMap(t, w, level.FlagTwoSided)
	sys := NewTextureScrollSystem(w)

	w.TextureScrolls.Set(w.LinedefEntities[0], &component.TextureScroll{
		Speed: geom.Vec2{X: 35},
	})

	sys.Update(time.Second)
	if got := w.DynamicLinedef(0).TextureOffset; !near(got.X, 35) || got.Y != 0 {
		t.Errorf("offset = %v, want (35, 0)", got)
	}

	sys.Update(500 * time.Millisecond)
	if got := w.DynamicLinedef(0).TextureOffset; !near(got.X, 52.5) {
		t.Errorf("offset = %v, want (52.5, 0)", got)
	}

	// Lines without a scroll component stay put.
	if got := w.DynamicLinedef(1).TextureOffset; got != (geom.Vec2{}) {
		t.Errorf("unscrolled offset = %v", got)
	}
}
