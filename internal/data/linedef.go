package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Linedef special kinds.
const (
	LinedefKindDoorUse    = "door_use"
	LinedefKindDoorSwitch = "door_switch"
	LinedefKindScroll     = "scroll"
)

// LinedefSpecial maps one linedef special number to its mechanism. Times are
// seconds, speeds map units per second.
type LinedefSpecial struct {
	Special     int     `yaml:"special"`
	Kind        string  `yaml:"kind"`
	Speed       float32 `yaml:"speed,omitempty"`
	WaitTime    float64 `yaml:"wait_time,omitempty"`
	StayOpen    bool    `yaml:"stay_open,omitempty"`
	Retrigger   bool    `yaml:"retrigger,omitempty"`
	SwitchReset float64 `yaml:"switch_reset,omitempty"`
	ScrollX     float32 `yaml:"scroll_x,omitempty"`
	ScrollY     float32 `yaml:"scroll_y,omitempty"`
	OpenSound   string  `yaml:"open_sound,omitempty"`
	CloseSound  string  `yaml:"close_sound,omitempty"`
	SwitchSound string  `yaml:"switch_sound,omitempty"`
}

type linedefSpecialFile struct {
	Specials []LinedefSpecial `yaml:"specials"`
}

// LinedefSpecialTable holds linedef mechanisms indexed by special number.
type LinedefSpecialTable struct {
	specials map[int]*LinedefSpecial
}

// LoadLinedefSpecialTable loads linedef specials from a YAML file.
func LoadLinedefSpecialTable(path string) (*LinedefSpecialTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read linedef_specials: %w", err)
	}
	var f linedefSpecialFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse linedef_specials: %w", err)
	}
	t := &LinedefSpecialTable{specials: make(map[int]*LinedefSpecial, len(f.Specials))}
	for i := range f.Specials {
		s := &f.Specials[i]
		switch s.Kind {
		case LinedefKindDoorUse, LinedefKindDoorSwitch, LinedefKindScroll:
		default:
			return nil, fmt.Errorf("parse linedef_specials: special %d has unknown kind %q", s.Special, s.Kind)
		}
		t.specials[s.Special] = s
	}
	return t, nil
}

// Get returns a linedef special by number, or nil if not found.
func (t *LinedefSpecialTable) Get(special int) *LinedefSpecial {
	return t.specials[special]
}

// Count returns the number of loaded specials.
func (t *LinedefSpecialTable) Count() int {
	return len(t.specials)
}
