package ecs

// World is the top-level ECS container. It owns the entity pool, the component
// registry, a creation-ordered entity list, and a deferred destruction queue
// flushed at the end of each tick.
//
// The ordered list exists because map-backed component stores iterate in
// random order; simulation systems that must produce identical results on
// every run walk Entities() instead.
type World struct {
	pool         *EntityPool
	registry     *Registry
	order        []EntityID
	destroyQueue []EntityID
}

func NewWorld() *World {
	return &World{
		pool:         NewEntityPool(),
		registry:     NewRegistry(),
		order:        make([]EntityID, 0, 1024),
		destroyQueue: make([]EntityID, 0, 64),
	}
}

func (w *World) Pool() *EntityPool   { return w.pool }
func (w *World) Registry() *Registry { return w.registry }

func (w *World) CreateEntity() EntityID {
	id := w.pool.Create()
	w.order = append(w.order, id)
	return id
}

func (w *World) Alive(id EntityID) bool {
	return w.pool.Alive(id)
}

// Entities returns all live entities in creation order. The returned slice is
// owned by the world; callers must not mutate or retain it across a flush.
func (w *World) Entities() []EntityID {
	return w.order
}

// MarkForDestruction queues an entity for end-of-tick cleanup. Destroying the
// same entity twice is harmless.
func (w *World) MarkForDestruction(id EntityID) {
	w.destroyQueue = append(w.destroyQueue, id)
}

// FlushDestroyQueue destroys all queued entities, clears their components,
// and compacts the ordered list. Called by the cleanup system at the end of
// each tick.
func (w *World) FlushDestroyQueue() {
	if len(w.destroyQueue) == 0 {
		return
	}
	for _, id := range w.destroyQueue {
		if !w.pool.Alive(id) {
			continue
		}
		w.registry.RemoveAll(id)
		w.pool.Destroy(id)
	}
	w.destroyQueue = w.destroyQueue[:0]

	live := w.order[:0]
	for _, id := range w.order {
		if w.pool.Alive(id) {
			live = append(live, id)
		}
	}
	w.order = live
}
