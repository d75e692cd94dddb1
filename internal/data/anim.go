package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// AnimDef is one texture animation: the listed frames cycle in order on
// every surface that shows any of them. FrameTime is seconds per frame.
type AnimDef struct {
	Frames    []string `yaml:"frames"`
	FrameTime float64  `yaml:"frame_time"`
	Flat      bool     `yaml:"flat,omitempty"` // floor/ceiling rather than wall
}

// SwitchPair names the untriggered and triggered textures of a switch.
type SwitchPair struct {
	Off string `yaml:"off"`
	On  string `yaml:"on"`
}

type animListFile struct {
	Anims    []AnimDef    `yaml:"anims"`
	Switches []SwitchPair `yaml:"switches"`
}

// AnimTable holds texture animations and switch pairs. Switch lookup works
// in both directions so a flipped switch can be restored by name.
type AnimTable struct {
	anims     []AnimDef
	byFrame   map[string]*AnimDef
	switchFor map[string]string
}

// LoadAnimTable loads texture animations and switch pairs from a YAML file.
func LoadAnimTable(path string) (*AnimTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read anim_list: %w", err)
	}
	var f animListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse anim_list: %w", err)
	}
	t := &AnimTable{
		anims:     f.Anims,
		byFrame:   make(map[string]*AnimDef),
		switchFor: make(map[string]string, 2*len(f.Switches)),
	}
	for i := range t.anims {
		a := &t.anims[i]
		if len(a.Frames) < 2 {
			return nil, fmt.Errorf("parse anim_list: anim %d has %d frames", i, len(a.Frames))
		}
		for _, frame := range a.Frames {
			t.byFrame[frame] = a
		}
	}
	for _, sw := range f.Switches {
		t.switchFor[sw.Off] = sw.On
		t.switchFor[sw.On] = sw.Off
	}
	return t, nil
}

// AnimFor returns the animation a texture participates in, or nil.
func (t *AnimTable) AnimFor(texture string) *AnimDef {
	return t.byFrame[texture]
}

// SwitchFor returns the opposite texture of a switch pair, or "" if the
// texture is not a switch face.
func (t *AnimTable) SwitchFor(texture string) string {
	return t.switchFor[texture]
}

// Anims returns all animations in file order.
func (t *AnimTable) Anims() []AnimDef {
	return t.anims
}

// Count returns the number of loaded animations.
func (t *AnimTable) Count() int {
	return len(t.anims)
}
