package system

import (
	"math/rand"
	"testing"
	"time"

	"github.com/gloamdev/gloam/internal/component"
	"github.com/gloamdev/gloam/internal/geom"
	"github.com/gloamdev/gloam/internal/level"
)

func TestStrobeTiming(t *testing.T) {
	w := newTestWorld(t)
	spawnOpenMap(t, w, level.FlagTwoSided)
	sys := NewLightSystem(w)

	// Sector 0 is authored at 0.8; its only neighbour is at 0.5.
	w.LightFlashes.Set(w.SectorEntities[0], &component.LightFlash{
		Type:     component.LightFlashStrobe,
		OnTime:   200 * time.Millisecond,
		OffTime:  600 * time.Millisecond,
		TimeLeft: 200 * time.Millisecond,
		State:    true,
	})
	step := 100 * time.Millisecond

	sys.Update(step)
	if got := w.DynamicSector(0).LightLevel; got != 0.8 {
		t.Errorf("light toggled early: %v", got)
	}

	sys.Update(step)
	if got := w.DynamicSector(0).LightLevel; got != 0.5 {
		t.Errorf("dark level = %v, want darkest neighbour 0.5", got)
	}

	for i := 0; i < 6; i++ {
		sys.Update(step)
	}
	if got := w.DynamicSector(0).LightLevel; got != 0.8 {
		t.Errorf("bright level = %v, want authored 0.8", got)
	}
}

func TestGlowBounces(t *testing.T) {
	w := newTestWorld(t)
	spawnOpenMap(t, w, level.FlagTwoSided)
	sys := NewLightSystem(w)

	glow := &component.LightGlow{
		Speed:    0.1,
		Down:     true,
		Interval: geom.Interval{Min: 0.5, Max: 0.8},
	}
	w.LightGlows.Set(w.SectorEntities[0], glow)

	for i := 0; i < 10 && glow.Down; i++ {
		sys.Update(time.Second)
	}
	if glow.Down {
		t.Fatal("glow never reached its low bound")
	}
	if got := w.DynamicSector(0).LightLevel; got != 0.5 {
		t.Errorf("low bound = %v, want clamped to 0.5", got)
	}

	sys.Update(time.Second)
	if got := w.DynamicSector(0).LightLevel; !near(got, 0.6) {
		t.Errorf("light after bounce = %v, want rising", got)
	}
}

func TestBrokenFlashLevels(t *testing.T) {
	w := newTestWorld(t)
	spawnOpenMap(t, w, level.FlagTwoSided)
	sys := NewLightSystem(w)

	w.LightFlashes.Set(w.SectorEntities[0], &component.LightFlash{
		Type:     component.LightFlashBroken,
		OnTime:   500 * time.Millisecond,
		OffTime:  200 * time.Millisecond,
		TimeLeft: 100 * time.Millisecond,
		State:    true,
	})

	seen := map[float32]bool{}
	for i := 0; i < 200; i++ {
		sys.Update(100 * time.Millisecond)
		seen[w.DynamicSector(0).LightLevel] = true
	}

	if len(seen) > 2 || !seen[0.8] || !seen[0.5] {
		t.Errorf("flash levels = %v, want only 0.8 and 0.5", seen)
	}
}

func TestRandDuration(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		d := randDuration(r, time.Second)
		if d <= 0 || d > time.Second {
			t.Fatalf("randDuration = %v, want in (0, 1s]", d)
		}
	}
	if randDuration(r, 0) != 0 {
		t.Error("zero input should yield zero")
	}
}
