package system

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseInput     Phase = iota // 0: player/AI intent becomes velocity
	PhaseSpawn                  // 1: template spawning, map object setup
	PhasePhysics                // 2: swept movement and collision
	PhaseMechanism              // 3: doors, switches, lights, texture anims
	PhaseOutput                 // 4: sound queue, render state
	PhasePersist                // 5: session snapshot writes
	PhaseCleanup                // 6: destroy queued entities
)

// System is the interface every ECS system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
