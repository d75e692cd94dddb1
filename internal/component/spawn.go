package component

import (
	"github.com/gloamdev/gloam/internal/core/ecs"
	"github.com/gloamdev/gloam/internal/geom"
)

// SpawnPoint records where an entity entered the world, for respawns and
// for AI that returns home.
type SpawnPoint struct {
	Position geom.Vec3
	Angle    float32
}

// SpawnOnCeiling marks an entity that hangs from the ceiling: the spawn pass
// places it Offset units below the sector ceiling instead of on the floor,
// then removes the marker.
type SpawnOnCeiling struct {
	Offset float32
}

// PlayerStart is the marker component of a map-placed start position.
// Number is the player it belongs to, 1 in single player.
type PlayerStart struct {
	Number int
}

// SpriteRender names the sprite sheet and frame the renderer should draw.
type SpriteRender struct {
	Sprite     string
	Frame      int
	FullBright bool
}

// Monster is AI state for a scripted actor. Script names the behavior hook;
// Target is the zero entity when the monster has no quarry.
type Monster struct {
	Script       string
	State        string
	ReactionTime float32
	Target       ecs.EntityID
}
