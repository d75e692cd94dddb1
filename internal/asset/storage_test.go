package asset

import "testing"

func TestInternIsStable(t *testing.T) {
	s := NewStorage[int]()
	a := s.Intern("wall")
	b := s.Intern("wall")
	if a != b {
		t.Error("same name interned to different handles")
	}
	if a.IsZero() {
		t.Error("interned handle is zero")
	}
}

func TestZeroHandle(t *testing.T) {
	s := NewStorage[int]()
	var h Handle[int]
	if !h.IsZero() {
		t.Error("zero value not zero")
	}
	if _, ok := s.Lookup(h); ok {
		t.Error("zero handle resolved")
	}
	if s.Name(h) != "" {
		t.Error("zero handle has a name")
	}
}

func TestInsertResolvesIntern(t *testing.T) {
	s := NewStorage[int]()
	h := s.Intern("door")
	if _, ok := s.Lookup(h); ok {
		t.Fatal("unloaded slot resolved")
	}
	if s.Loaded("door") {
		t.Fatal("unloaded name reported loaded")
	}

	v := 42
	h2 := s.Insert("door", &v)
	if h2 != h {
		t.Error("Insert allocated a new slot for an interned name")
	}
	got, ok := s.Lookup(h)
	if !ok || *got != 42 {
		t.Errorf("Lookup = %v %v", got, ok)
	}
	if *s.Get(h) != 42 {
		t.Error("Get returned wrong data")
	}
	if s.Name(h) != "door" {
		t.Errorf("Name = %q", s.Name(h))
	}
}

func TestGetPanicsOnUnloaded(t *testing.T) {
	s := NewStorage[int]()
	h := s.Intern("missing")
	defer func() {
		if recover() == nil {
			t.Error("Get on unloaded slot did not panic")
		}
	}()
	s.Get(h)
}

func TestUnresolved(t *testing.T) {
	s := NewStorage[int]()
	s.Intern("a")
	v := 1
	s.Insert("b", &v)
	s.Intern("c")

	missing := s.Unresolved()
	if len(missing) != 2 {
		t.Fatalf("Unresolved = %v", missing)
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d", s.Len())
	}
}
