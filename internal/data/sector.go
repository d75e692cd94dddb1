package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Sector special kinds.
const (
	SectorKindFlashBroken = "flash_broken"
	SectorKindStrobe      = "strobe"
	SectorKindGlow        = "glow"
)

// SectorSpecial maps one sector special number to its light effect. Times
// are seconds, speed is light units per second.
type SectorSpecial struct {
	Special int     `yaml:"special"`
	Kind    string  `yaml:"kind"`
	OnTime  float64 `yaml:"on_time,omitempty"`
	OffTime float64 `yaml:"off_time,omitempty"`
	Speed   float32 `yaml:"speed,omitempty"`
}

type sectorSpecialFile struct {
	Specials []SectorSpecial `yaml:"specials"`
}

// SectorSpecialTable holds sector light effects indexed by special number.
type SectorSpecialTable struct {
	specials map[int]*SectorSpecial
}

// LoadSectorSpecialTable loads sector specials from a YAML file.
func LoadSectorSpecialTable(path string) (*SectorSpecialTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sector_specials: %w", err)
	}
	var f sectorSpecialFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse sector_specials: %w", err)
	}
	t := &SectorSpecialTable{specials: make(map[int]*SectorSpecial, len(f.Specials))}
	for i := range f.Specials {
		s := &f.Specials[i]
		switch s.Kind {
		case SectorKindFlashBroken, SectorKindStrobe, SectorKindGlow:
		default:
			return nil, fmt.Errorf("parse sector_specials: special %d has unknown kind %q", s.Special, s.Kind)
		}
		t.specials[s.Special] = s
	}
	return t, nil
}

// Get returns a sector special by number, or nil if not found.
func (t *SectorSpecialTable) Get(special int) *SectorSpecial {
	return t.specials[special]
}

// Count returns the number of loaded specials.
func (t *SectorSpecialTable) Count() int {
	return len(t.specials)
}
