// Package audio defines sound assets and the trigger events the simulation
// emits. Mixing and playback live outside the engine core; systems only push
// triggers onto a queue that an output stage drains.
package audio

import (
	"github.com/gloamdev/gloam/internal/asset"
	"github.com/gloamdev/gloam/internal/core/ecs"
)

// Sound is a loaded sound effect. Data is raw sample bytes; decoding is the
// mixer's concern.
type Sound struct {
	Priority int
	Data     []byte
}

// Trigger asks the output stage to start a sound. Entity positions the sound
// in the world when nonzero; the zero entity plays it unpositioned.
type Trigger struct {
	Sound  asset.Handle[Sound]
	Entity ecs.EntityID
}
