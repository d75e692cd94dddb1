package quadtree

import (
	"testing"

	"github.com/gloamdev/gloam/internal/core/ecs"
	"github.com/gloamdev/gloam/internal/geom"
)

func worldBounds() geom.AABB2 {
	return geom.NewAABB2(0, 1024, 0, 1024)
}

func box(x, y, r float32) geom.AABB2 {
	return geom.NewAABB2(x-r, x+r, y-r, y+r)
}

func collect(q *Quadtree, search geom.AABB2) map[ecs.EntityID]bool {
	got := map[ecs.EntityID]bool{}
	q.Query(search, func(id ecs.EntityID, _ geom.AABB2) bool {
		got[id] = true
		return true
	})
	return got
}

func TestInsertQueryRemove(t *testing.T) {
	q := New(worldBounds())
	a := ecs.NewEntityID(1, 0)
	b := ecs.NewEntityID(2, 0)
	q.Insert(a, box(100, 100, 16))
	q.Insert(b, box(900, 900, 16))

	got := collect(q, box(100, 100, 50))
	if !got[a] || got[b] {
		t.Errorf("query near a = %v", got)
	}

	q.Remove(a)
	if q.Len() != 1 {
		t.Errorf("Len after remove = %d", q.Len())
	}
	if got := collect(q, box(100, 100, 50)); len(got) != 0 {
		t.Errorf("removed entity still found: %v", got)
	}

	// Removing twice is harmless.
	q.Remove(a)
}

func TestUpdateMoves(t *testing.T) {
	q := New(worldBounds())
	a := ecs.NewEntityID(1, 0)
	q.Insert(a, box(100, 100, 16))
	q.Update(a, box(800, 800, 16))

	if got := collect(q, box(100, 100, 50)); len(got) != 0 {
		t.Error("entity found at old position")
	}
	if got := collect(q, box(800, 800, 50)); !got[a] {
		t.Error("entity missing at new position")
	}
	if q.Len() != 1 {
		t.Errorf("Len = %d", q.Len())
	}
}

func TestQueryAfterSplit(t *testing.T) {
	q := New(worldBounds())
	// Enough clustered entries to force subdivisions; every one must still
	// be reachable through a covering query.
	n := 40
	for i := 0; i < n; i++ {
		x := float32(32 + (i%8)*24)
		y := float32(32 + (i/8)*24)
		q.Insert(ecs.NewEntityID(uint32(i), 0), box(x, y, 8))
	}
	got := collect(q, worldBounds())
	if len(got) != n {
		t.Fatalf("found %d of %d after splits", len(got), n)
	}

	// A tight query returns only overlapping boxes.
	tight := collect(q, box(32, 32, 4))
	for id := range tight {
		if !box(32, 32, 8).Overlaps(box(32, 32, 4)) {
			t.Errorf("non-overlapping entity %v returned", id)
		}
	}
	if !tight[ecs.NewEntityID(0, 0)] {
		t.Error("entity at query point missing")
	}
}

func TestOutOfBoundsKeptAtRoot(t *testing.T) {
	q := New(worldBounds())
	a := ecs.NewEntityID(1, 0)
	q.Insert(a, box(-500, -500, 16))
	if got := collect(q, box(-500, -500, 32)); !got[a] {
		t.Error("out-of-bounds entity lost")
	}
}

func TestQueryEarlyStop(t *testing.T) {
	q := New(worldBounds())
	for i := 0; i < 10; i++ {
		q.Insert(ecs.NewEntityID(uint32(i), 0), box(float32(100+i), 100, 8))
	}
	calls := 0
	q.Query(worldBounds(), func(ecs.EntityID, geom.AABB2) bool {
		calls++
		return false
	})
	if calls != 1 {
		t.Errorf("walk continued after false: %d calls", calls)
	}
}

func TestLargeBoxStaysAboveChildren(t *testing.T) {
	q := New(worldBounds())
	// Force a split, then insert a box spanning the split line.
	for i := 0; i < 12; i++ {
		q.Insert(ecs.NewEntityID(uint32(i), 0), box(float32(50+i*4), 50, 4))
	}
	wide := ecs.NewEntityID(100, 0)
	q.Insert(wide, geom.NewAABB2(400, 600, 400, 600))

	if got := collect(q, box(512, 512, 8)); !got[wide] {
		t.Error("spanning box not found at the split line")
	}
}

func BenchmarkQuery(b *testing.B) {
	q := New(worldBounds())
	for i := 0; i < 1000; i++ {
		x := float32((i * 37) % 1024)
		y := float32((i * 91) % 1024)
		q.Insert(ecs.NewEntityID(uint32(i), 0), box(x, y, 12))
	}
	search := box(512, 512, 64)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		q.Query(search, func(ecs.EntityID, geom.AABB2) bool { return true })
	}
}
