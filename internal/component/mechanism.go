package component

import (
	"time"

	"github.com/gloamdev/gloam/internal/asset"
	"github.com/gloamdev/gloam/internal/audio"
	"github.com/gloamdev/gloam/internal/geom"
	"github.com/gloamdev/gloam/internal/level"
)

// SectorRef ties a map entity to its sector index.
type SectorRef struct {
	Index int
}

// LinedefRef ties a map entity to its linedef index.
type LinedefRef struct {
	Index int
}

// SectorDynamic is the mutable per-tick state of a sector: the animated
// floor-to-ceiling interval, the current light level, and the current flat
// textures. Initialized from the authored sector at map spawn; movers,
// light effects, and texture animation mutate only this copy.
type SectorDynamic struct {
	Interval   geom.Interval
	LightLevel float32
	Floor      level.Texture
	Ceiling    level.Texture
}

// Sidedef texture slots, indexing LinedefDynamic.Textures and the switch
// flip tables.
const (
	SlotTop = iota
	SlotBottom
	SlotMiddle
)

// LinedefDynamic is the mutable per-tick state of a linedef's two sidedefs:
// scrolling offsets and switch-flipped textures. Textures[side][slot]
// mirrors the authored sidedefs at map spawn.
type LinedefDynamic struct {
	TextureOffset geom.Vec2
	Textures      [2][3]level.Texture
}

// DoorParams describes how a door sector moves once activated.
type DoorParams struct {
	OpenSound  asset.Handle[audio.Sound]
	CloseSound asset.Handle[audio.Sound]
	Speed      float32 // map units per second
	WaitTime   time.Duration
	StayOpen   bool // never close again after opening
}

// DoorUse makes a linedef a directly usable door: using it animates the
// sector behind the line. Retrigger doors can be used again after the cycle
// completes.
type DoorUse struct {
	Params    DoorParams
	Retrigger bool
}

// SwitchParams describes the switch texture flip and its reset timer.
type SwitchParams struct {
	Sound     asset.Handle[audio.Sound]
	Retrigger bool
	ResetTime time.Duration
}

// DoorSwitch makes a linedef a switch that activates every door sector whose
// tag matches the line's tag.
type DoorSwitch struct {
	Door   DoorParams
	Switch SwitchParams
}

// DoorState is the phase of an active door cycle.
type DoorState uint8

const (
	DoorClosed DoorState = iota
	DoorOpening
	DoorOpen
	DoorClosing
)

// DoorActive animates a sector's ceiling between CloseHeight and OpenHeight.
// Attached to the sector entity; removed when the cycle finishes.
type DoorActive struct {
	State       DoorState
	Params      DoorParams
	TimeLeft    time.Duration // remaining wait in the open state
	OpenHeight  float32
	CloseHeight float32
}

// SwitchActive is the armed state of a flipped switch. While present the
// switch ignores further uses; when TimeLeft expires the saved front-side
// texture is restored.
type SwitchActive struct {
	Sound    asset.Handle[audio.Sound]
	TimeLeft time.Duration
	Slot     int
	Saved    level.Texture
}

// LightFlashType selects the flashing pattern.
type LightFlashType uint8

const (
	LightFlashBroken LightFlashType = iota // random on/off like a faulty tube
	LightFlashStrobe
)

// LightFlash alternates a sector between its own light level and the
// darkest neighbour level.
type LightFlash struct {
	Type     LightFlashType
	OnTime   time.Duration
	OffTime  time.Duration
	TimeLeft time.Duration
	State    bool // true while at the bright level
}

// LightGlow fades a sector's light smoothly between the bounds of Interval,
// reversing at each end. Speed is light units per second.
type LightGlow struct {
	Speed    float32
	Down     bool
	Interval geom.Interval
}

// TextureScroll advances a linedef's texture offset every tick, in map units
// per second.
type TextureScroll struct {
	Speed geom.Vec2
}
