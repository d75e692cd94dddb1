package system

import (
	"context"
	"time"

	"go.uber.org/zap"

	coresys "github.com/gloamdev/gloam/internal/core/system"
	"github.com/gloamdev/gloam/internal/game"
	"github.com/gloamdev/gloam/internal/persist"
)

// PersistenceSystem snapshots the session to the database at a fixed
// interval. It records the player pose and every sector a mechanism has
// moved away from its authored state; entity positions beyond the player
// are respawned from the map on restore.
type PersistenceSystem struct {
	w        *game.World
	repo     *persist.SessionRepo
	session  string
	mapName  string
	interval time.Duration
	elapsed  time.Duration
}

func NewPersistenceSystem(w *game.World, repo *persist.SessionRepo, session, mapName string, interval time.Duration) *PersistenceSystem {
	return &PersistenceSystem{
		w:        w,
		repo:     repo,
		session:  session,
		mapName:  mapName,
		interval: interval,
	}
}

func (s *PersistenceSystem) Phase() coresys.Phase { return coresys.PhasePersist }

func (s *PersistenceSystem) Update(dt time.Duration) {
	s.elapsed += dt
	if s.elapsed < s.interval {
		return
	}
	s.elapsed = 0
	s.SaveNow()
}

// SaveNow captures and writes a snapshot immediately. Also used on
// shutdown.
func (s *PersistenceSystem) SaveNow() {
	if s.w.Map == nil {
		return
	}
	snap := s.capture()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.repo.Save(ctx, s.session, snap); err != nil {
		s.w.Log.Error("session save failed", zap.Error(err))
		return
	}
	s.w.Log.Debug("session saved",
		zap.String("session", s.session), zap.Int("sectors", len(snap.Sectors)))
}

func (s *PersistenceSystem) capture() *persist.SessionSnapshot {
	snap := &persist.SessionSnapshot{MapName: s.mapName}

	if tr, ok := s.w.Transforms.Get(s.w.Player); ok {
		snap.Player = persist.PlayerState{
			X:     tr.Position.X,
			Y:     tr.Position.Y,
			Z:     tr.Position.Z,
			Angle: tr.Rotation.Z,
		}
		if vel, ok := s.w.Velocities.Get(s.w.Player); ok {
			snap.Player.VelX = vel.Linear.X
			snap.Player.VelY = vel.Linear.Y
			snap.Player.VelZ = vel.Linear.Z
		}
	}

	for i := range s.w.SectorEntities {
		dyn := s.w.DynamicSector(i)
		sec := &s.w.Map.Sectors[i]
		if dyn.Interval == sec.Interval && dyn.LightLevel == sec.LightLevel {
			continue
		}
		snap.Sectors = append(snap.Sectors, persist.SectorState{
			Index:   i,
			Floor:   dyn.Interval.Min,
			Ceiling: dyn.Interval.Max,
			Light:   dyn.LightLevel,
		})
	}
	return snap
}

// Restore applies a loaded snapshot to the spawned world: sector states
// first, then the player pose.
func (s *PersistenceSystem) Restore(snap *persist.SessionSnapshot) {
	for _, st := range snap.Sectors {
		dyn := s.w.DynamicSector(st.Index)
		if dyn == nil {
			s.w.Log.Warn("snapshot sector out of range", zap.Int("sector", st.Index))
			continue
		}
		dyn.Interval.Min = st.Floor
		dyn.Interval.Max = st.Ceiling
		dyn.LightLevel = st.Light
	}

	if tr, ok := s.w.Transforms.Get(s.w.Player); ok {
		tr.Position.X = snap.Player.X
		tr.Position.Y = snap.Player.Y
		tr.Position.Z = snap.Player.Z
		tr.Rotation.Z = snap.Player.Angle
		if vel, ok := s.w.Velocities.Get(s.w.Player); ok {
			vel.Linear.X = snap.Player.VelX
			vel.Linear.Y = snap.Player.VelY
			vel.Linear.Z = snap.Player.VelZ
		}
		if col, ok := s.w.Colliders.Get(s.w.Player); ok {
			s.w.Index.Update(s.w.Player, col.Box().XY().Offset(tr.Position.XY()))
		}
	}
}
