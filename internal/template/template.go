// Package template implements data-driven entity construction. A Template is
// an ordered list of component appliers; spawning an entity replays the list
// against a world. Appliers are keyed by component name so a template built
// up from several data sources keeps one applier per component, at the
// position it was first added.
package template

import "github.com/gloamdev/gloam/internal/core/ecs"

// Applier attaches one component to a freshly created entity.
type Applier[W any] func(w *W, id ecs.EntityID) error

type entry[W any] struct {
	key   string
	apply Applier[W]
}

// Template describes how to build one kind of entity.
type Template[W any] struct {
	Name    string
	TypeID  int // editor/thing type number, 0 when not placeable
	entries []entry[W]
}

func New[W any](name string, typeID int) *Template[W] {
	return &Template[W]{Name: name, TypeID: typeID}
}

// Set adds an applier under key. Re-setting an existing key replaces the
// applier in place, keeping its original position in the apply order.
func (t *Template[W]) Set(key string, apply Applier[W]) *Template[W] {
	for i := range t.entries {
		if t.entries[i].key == key {
			t.entries[i].apply = apply
			return t
		}
	}
	t.entries = append(t.entries, entry[W]{key, apply})
	return t
}

// Has reports whether the template carries a component under key.
func (t *Template[W]) Has(key string) bool {
	for i := range t.entries {
		if t.entries[i].key == key {
			return true
		}
	}
	return false
}

// Keys returns the component keys in apply order.
func (t *Template[W]) Keys() []string {
	keys := make([]string, len(t.entries))
	for i := range t.entries {
		keys[i] = t.entries[i].key
	}
	return keys
}

// Apply attaches the template's components to id in order. On the first
// applier error it stops and returns the error with the failing key; the
// entity keeps the components already applied, and the caller decides
// whether to destroy it.
func (t *Template[W]) Apply(w *W, id ecs.EntityID) error {
	for i := range t.entries {
		if err := t.entries[i].apply(w, id); err != nil {
			return &ApplyError{Template: t.Name, Key: t.entries[i].key, Err: err}
		}
	}
	return nil
}

// ApplyError reports which component of which template failed to apply.
type ApplyError struct {
	Template string
	Key      string
	Err      error
}

func (e *ApplyError) Error() string {
	return "template " + e.Template + ": component " + e.Key + ": " + e.Err.Error()
}

func (e *ApplyError) Unwrap() error { return e.Err }
