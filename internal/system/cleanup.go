package system

import (
	"time"

	coresys "github.com/gloamdev/gloam/internal/core/system"
	"github.com/gloamdev/gloam/internal/game"
)

// CleanupSystem runs last each tick: it discards fully consumed events and
// flushes the deferred entity destruction queue.
type CleanupSystem struct {
	w *game.World
}

func NewCleanupSystem(w *game.World) *CleanupSystem {
	return &CleanupSystem{w: w}
}

func (s *CleanupSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *CleanupSystem) Update(_ time.Duration) {
	s.w.UseEvents.Compact()
	s.w.LinedefUses.Compact()
	s.w.SoundQueue.Compact()
	s.w.ECS.FlushDestroyQueue()
}
