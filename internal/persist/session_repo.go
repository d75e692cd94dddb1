package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// PlayerState is the saved player pose.
type PlayerState struct {
	X     float32 `json:"x"`
	Y     float32 `json:"y"`
	Z     float32 `json:"z"`
	Angle float32 `json:"angle"`
	VelX  float32 `json:"vel_x"`
	VelY  float32 `json:"vel_y"`
	VelZ  float32 `json:"vel_z"`
}

// SectorState is the saved dynamic state of one sector.
type SectorState struct {
	Index   int     `json:"index"`
	Floor   float32 `json:"floor"`
	Ceiling float32 `json:"ceiling"`
	Light   float32 `json:"light"`
}

// SessionSnapshot is everything needed to resume a session: the map name,
// the player pose, and the sector states that mechanisms have moved.
type SessionSnapshot struct {
	MapName string
	Player  PlayerState
	Sectors []SectorState
}

// SessionRepo reads and writes session snapshots keyed by session name.
type SessionRepo struct {
	db *DB
}

func NewSessionRepo(db *DB) *SessionRepo {
	return &SessionRepo{db: db}
}

// Save upserts the snapshot for a named session.
func (r *SessionRepo) Save(ctx context.Context, name string, snap *SessionSnapshot) error {
	player, err := json.Marshal(snap.Player)
	if err != nil {
		return fmt.Errorf("marshal player state: %w", err)
	}
	sectors, err := json.Marshal(snap.Sectors)
	if err != nil {
		return fmt.Errorf("marshal sector states: %w", err)
	}

	_, err = r.db.Pool.Exec(ctx, `
		INSERT INTO sessions (name, map_name, player, sectors, saved_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (name) DO UPDATE
		SET map_name = EXCLUDED.map_name,
		    player = EXCLUDED.player,
		    sectors = EXCLUDED.sectors,
		    saved_at = EXCLUDED.saved_at`,
		name, snap.MapName, player, sectors)
	if err != nil {
		return fmt.Errorf("save session %s: %w", name, err)
	}
	return nil
}

// Load returns the snapshot for a named session, or nil when none exists.
func (r *SessionRepo) Load(ctx context.Context, name string) (*SessionSnapshot, error) {
	var (
		snap    SessionSnapshot
		player  []byte
		sectors []byte
	)
	err := r.db.Pool.QueryRow(ctx,
		`SELECT map_name, player, sectors FROM sessions WHERE name = $1`,
		name).Scan(&snap.MapName, &player, &sectors)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", name, err)
	}

	if err := json.Unmarshal(player, &snap.Player); err != nil {
		return nil, fmt.Errorf("unmarshal player state: %w", err)
	}
	if err := json.Unmarshal(sectors, &snap.Sectors); err != nil {
		return nil, fmt.Errorf("unmarshal sector states: %w", err)
	}
	return &snap, nil
}

// Delete removes a named session. Missing sessions are not an error.
func (r *SessionRepo) Delete(ctx context.Context, name string) error {
	if _, err := r.db.Pool.Exec(ctx, `DELETE FROM sessions WHERE name = $1`, name); err != nil {
		return fmt.Errorf("delete session %s: %w", name, err)
	}
	return nil
}
