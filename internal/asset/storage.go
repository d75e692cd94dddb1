// Package asset provides name-interned handle storage for loaded game
// resources (maps, images, sounds). Handles may be created before the asset
// exists; the loader resolves them when the data arrives. Dereferencing an
// unresolved handle is a pipeline bug and panics with the asset name.
package asset

import "fmt"

// Handle is a stable reference to an asset of type T in a Storage.
type Handle[T any] struct {
	idx int
}

func (h Handle[T]) IsZero() bool { return h.idx == 0 }

type slot[T any] struct {
	name  string
	data  *T
	ready bool
}

// Storage holds all assets of one type, addressable by name or handle.
type Storage[T any] struct {
	slots  []slot[T] // slot 0 reserved so the zero Handle is invalid
	byName map[string]int
}

func NewStorage[T any]() *Storage[T] {
	return &Storage[T]{
		slots:  make([]slot[T], 1, 64),
		byName: make(map[string]int, 64),
	}
}

// Intern returns the handle for name, allocating an unresolved slot if the
// asset has not been loaded yet.
func (s *Storage[T]) Intern(name string) Handle[T] {
	if idx, ok := s.byName[name]; ok {
		return Handle[T]{idx}
	}
	idx := len(s.slots)
	s.slots = append(s.slots, slot[T]{name: name})
	s.byName[name] = idx
	return Handle[T]{idx}
}

// Insert stores data under name and returns its handle, resolving any
// previously interned handle for the same name.
func (s *Storage[T]) Insert(name string, data *T) Handle[T] {
	h := s.Intern(name)
	s.slots[h.idx].data = data
	s.slots[h.idx].ready = true
	return h
}

// Get dereferences a handle. Panics on the zero handle or an interned name
// whose asset never loaded.
func (s *Storage[T]) Get(h Handle[T]) *T {
	if h.idx == 0 {
		panic("asset: zero handle")
	}
	sl := &s.slots[h.idx]
	if !sl.ready {
		panic(fmt.Sprintf("asset: %q interned but never loaded", sl.name))
	}
	return sl.data
}

// Lookup returns the asset by handle, or false if unresolved.
func (s *Storage[T]) Lookup(h Handle[T]) (*T, bool) {
	if h.idx == 0 || !s.slots[h.idx].ready {
		return nil, false
	}
	return s.slots[h.idx].data, true
}

// Name returns the name a handle was interned under.
func (s *Storage[T]) Name(h Handle[T]) string {
	if h.idx == 0 {
		return ""
	}
	return s.slots[h.idx].name
}

// Loaded reports whether name has resolved data.
func (s *Storage[T]) Loaded(name string) bool {
	idx, ok := s.byName[name]
	return ok && s.slots[idx].ready
}

// Unresolved returns the names of all interned-but-unloaded assets, for
// load-time validation.
func (s *Storage[T]) Unresolved() []string {
	var missing []string
	for _, sl := range s.slots[1:] {
		if !sl.ready {
			missing = append(missing, sl.name)
		}
	}
	return missing
}

// Len returns the number of loaded assets.
func (s *Storage[T]) Len() int {
	n := 0
	for _, sl := range s.slots[1:] {
		if sl.ready {
			n++
		}
	}
	return n
}
