package arena

import (
	"time"

	"github.com/pixil98/go-arena/internal/combat"
	"github.com/pixil98/go-arena/internal/game"
	"github.com/pixil98/go-arena/internal/loot"
	"github.com/pixil98/go-arena/internal/physics"
)

// Control magnitudes applied while a control is held.
const (
	RotateTorque = 0.04
	ThrustForce  = 0.0015
)

const (
	DefaultStepInterval        = time.Second / 60
	DefaultStateInterval       = time.Second / 30
	DefaultLeaderboardInterval = 3 * time.Second
	DefaultLeaderboardSize     = 3
)

// DefaultSpawnPoint is where new players enter.
var DefaultSpawnPoint = physics.Vector{X: 0, Y: -1000}

// Config tunes the simulation and its timers.
type Config struct {
	StepInterval        time.Duration
	StateInterval       time.Duration
	LeaderboardInterval time.Duration
	LeaderboardSize     int

	SpawnPoint   physics.Vector
	RespawnPoint physics.Vector
	RespawnDelay time.Duration
	Immunity     time.Duration

	Grace          time.Duration
	ReplenishDelay time.Duration
	Population     []game.Kind

	DeathPolicy      combat.DeathPolicy
	DropOnDisconnect bool
}

func DefaultConfig() Config {
	return Config{
		StepInterval:        DefaultStepInterval,
		StateInterval:       DefaultStateInterval,
		LeaderboardInterval: DefaultLeaderboardInterval,
		LeaderboardSize:     DefaultLeaderboardSize,
		SpawnPoint:          DefaultSpawnPoint,
		RespawnPoint:        combat.DefaultRespawnPoint,
		RespawnDelay:        combat.DefaultRespawnDelay,
		Immunity:            combat.DefaultImmunity,
		Grace:               loot.DefaultGrace,
		ReplenishDelay:      loot.DefaultReplenishDelay,
		DeathPolicy:         combat.DeathPolicyDrop,
		DropOnDisconnect:    true,
	}
}
