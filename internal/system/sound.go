package system

import (
	"time"

	"go.uber.org/zap"

	"github.com/gloamdev/gloam/internal/audio"
	"github.com/gloamdev/gloam/internal/core/event"
	coresys "github.com/gloamdev/gloam/internal/core/system"
	"github.com/gloamdev/gloam/internal/game"
)

// SoundSink receives sound triggers for actual playback. The engine core
// only queues; mixing lives behind this interface.
type SoundSink interface {
	Play(trigger audio.Trigger)
}

// SoundSystem drains the sound queue into the sink each tick. With no sink
// attached, triggers are logged and dropped.
type SoundSystem struct {
	w      *game.World
	reader event.ReaderID
	sink   SoundSink
}

func NewSoundSystem(w *game.World, sink SoundSink) *SoundSystem {
	return &SoundSystem{w: w, reader: w.SoundQueue.Register(), sink: sink}
}

func (s *SoundSystem) Phase() coresys.Phase { return coresys.PhaseOutput }

func (s *SoundSystem) Update(_ time.Duration) {
	for _, trigger := range s.w.SoundQueue.Read(s.reader) {
		if s.sink != nil {
			s.sink.Play(trigger)
			continue
		}
		s.w.Log.Debug("sound trigger",
			zap.String("sound", s.w.Sounds.Name(trigger.Sound)),
			zap.Uint64("entity", uint64(trigger.Entity)))
	}
}
