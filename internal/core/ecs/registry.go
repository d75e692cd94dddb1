package ecs

// Registry is the list of everything that holds per-entity data, so a
// destroy can wipe an entity from all of it in one pass. Component stores
// register here, and so does anything else keyed by EntityID, like the
// spatial index.
type Registry struct {
	stores []Removable
}

func NewRegistry() *Registry {
	return &Registry{
		stores: make([]Removable, 0, 16),
	}
}

// Register adds a store. Registration order is also removal order.
func (r *Registry) Register(store Removable) {
	r.stores = append(r.stores, store)
}

// RemoveAll clears the entity from every registered store.
func (r *Registry) RemoveAll(id EntityID) {
	for _, s := range r.stores {
		s.Remove(id)
	}
}
