package loot

import (
	"math/rand/v2"
	"time"

	"github.com/pixil98/go-arena/internal/game"
)

type ManagerOpt func(*Manager)

// WithGrace sets how long a dropped bag stays out of reach.
func WithGrace(d time.Duration) ManagerOpt {
	return func(m *Manager) {
		m.grace = d
	}
}

// WithReplenishDelay sets how long a picked up item takes to come back. Zero
// disables replenishment.
func WithReplenishDelay(d time.Duration) ManagerOpt {
	return func(m *Manager) {
		m.replenishDelay = d
	}
}

func WithSpawnBand(b Band) ManagerOpt {
	return func(m *Manager) {
		m.band = b
	}
}

func WithPopulation(kinds []game.Kind) ManagerOpt {
	return func(m *Manager) {
		m.population = kinds
	}
}

func WithRand(r *rand.Rand) ManagerOpt {
	return func(m *Manager) {
		m.rand = r
	}
}
