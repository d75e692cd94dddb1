package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// MobjDef holds static data for one map-object type loaded from YAML. TypeID
// is the editor thing number; zero means the type is spawnable only by code.
type MobjDef struct {
	Name           string  `yaml:"name"`
	TypeID         int     `yaml:"type_id"`
	Radius         float32 `yaml:"radius"`
	Height         float32 `yaml:"height"`
	Solid          bool    `yaml:"solid"`
	Shootable      bool    `yaml:"shootable"`
	Monster        bool    `yaml:"monster"`
	SpawnOnCeiling bool    `yaml:"spawn_on_ceiling"`
	CeilingOffset  float32 `yaml:"ceiling_offset,omitempty"`
	PlayerStart    int     `yaml:"player_start,omitempty"`
	Sprite         string  `yaml:"sprite"`
	Script         string  `yaml:"script,omitempty"`
	SeeSound       string  `yaml:"see_sound,omitempty"`
	DeathSound     string  `yaml:"death_sound,omitempty"`
}

type mobjListFile struct {
	Mobjs []MobjDef `yaml:"mobjs"`
}

// MobjTable holds all map-object definitions indexed by type ID and by name.
type MobjTable struct {
	defs   []MobjDef
	byType map[int]*MobjDef
	byName map[string]*MobjDef
}

// LoadMobjTable loads map-object definitions from a YAML file.
func LoadMobjTable(path string) (*MobjTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read mobj_list: %w", err)
	}
	var f mobjListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse mobj_list: %w", err)
	}
	t := &MobjTable{
		defs:   f.Mobjs,
		byType: make(map[int]*MobjDef, len(f.Mobjs)),
		byName: make(map[string]*MobjDef, len(f.Mobjs)),
	}
	for i := range t.defs {
		d := &t.defs[i]
		if d.Name == "" {
			return nil, fmt.Errorf("parse mobj_list: entry %d has no name", i)
		}
		if _, dup := t.byName[d.Name]; dup {
			return nil, fmt.Errorf("parse mobj_list: duplicate name %q", d.Name)
		}
		t.byName[d.Name] = d
		if d.TypeID != 0 {
			if _, dup := t.byType[d.TypeID]; dup {
				return nil, fmt.Errorf("parse mobj_list: duplicate type_id %d", d.TypeID)
			}
			t.byType[d.TypeID] = d
		}
	}
	return t, nil
}

// Get returns a definition by editor type ID, or nil if not found.
func (t *MobjTable) Get(typeID int) *MobjDef {
	return t.byType[typeID]
}

// GetByName returns a definition by name, or nil if not found.
func (t *MobjTable) GetByName(name string) *MobjDef {
	return t.byName[name]
}

// All returns the definitions in file order.
func (t *MobjTable) All() []MobjDef {
	return t.defs
}

// Count returns the number of loaded definitions.
func (t *MobjTable) Count() int {
	return len(t.defs)
}
