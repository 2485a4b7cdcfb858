package command

import (
	"fmt"
	"slices"
	"time"

	"github.com/pixil98/go-errors"

	"github.com/pixil98/go-arena/internal/arena"
	"github.com/pixil98/go-arena/internal/combat"
	"github.com/pixil98/go-arena/internal/game"
	"github.com/pixil98/go-arena/internal/physics"
)

type PointConfig struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ArenaConfig holds the game tunables. Empty values keep the defaults.
type ArenaConfig struct {
	StepInterval        string       `json:"step_interval"`
	StateInterval       string       `json:"state_interval"`
	LeaderboardInterval string       `json:"leaderboard_interval"`
	LeaderboardSize     int          `json:"leaderboard_size"`
	RespawnDelay        string       `json:"respawn_delay"`
	Immunity            string       `json:"immunity"`
	Grace               string       `json:"grace"`
	ReplenishDelay      string       `json:"replenish_delay"`
	SpawnPoint          *PointConfig `json:"spawn_point,omitempty"`
	RespawnPoint        *PointConfig `json:"respawn_point,omitempty"`
	Population          []string     `json:"population"`
	DeathPolicy         string       `json:"death_policy"`
	DropOnDisconnect    *bool        `json:"drop_on_disconnect,omitempty"`
}

func (c *ArenaConfig) validate() error {
	_, err := c.BuildConfig()
	return err
}

// BuildConfig applies the configured values over arena.DefaultConfig.
func (c *ArenaConfig) BuildConfig() (arena.Config, error) {
	cfg := arena.DefaultConfig()
	el := errors.NewErrorList()

	durations := []struct {
		name     string
		value    string
		target   *time.Duration
		positive bool
	}{
		{"step_interval", c.StepInterval, &cfg.StepInterval, true},
		{"state_interval", c.StateInterval, &cfg.StateInterval, true},
		{"leaderboard_interval", c.LeaderboardInterval, &cfg.LeaderboardInterval, true},
		{"respawn_delay", c.RespawnDelay, &cfg.RespawnDelay, false},
		{"immunity", c.Immunity, &cfg.Immunity, false},
		{"grace", c.Grace, &cfg.Grace, false},
		{"replenish_delay", c.ReplenishDelay, &cfg.ReplenishDelay, false},
	}
	for _, d := range durations {
		if d.value == "" {
			continue
		}
		v, err := time.ParseDuration(d.value)
		switch {
		case err != nil:
			el.Add(fmt.Errorf("parsing %s: %w", d.name, err))
		case d.positive && v <= 0:
			el.Add(fmt.Errorf("%s must be positive", d.name))
		case v < 0:
			el.Add(fmt.Errorf("%s must not be negative", d.name))
		default:
			*d.target = v
		}
	}

	if c.LeaderboardSize < 0 {
		el.Add(fmt.Errorf("leaderboard_size must not be negative"))
	} else if c.LeaderboardSize > 0 {
		cfg.LeaderboardSize = c.LeaderboardSize
	}

	if c.SpawnPoint != nil {
		cfg.SpawnPoint = physics.Vector{X: c.SpawnPoint.X, Y: c.SpawnPoint.Y}
	}
	if c.RespawnPoint != nil {
		cfg.RespawnPoint = physics.Vector{X: c.RespawnPoint.X, Y: c.RespawnPoint.Y}
	}

	for _, name := range c.Population {
		kind := game.Kind(name)
		if !slices.Contains(game.Kinds, kind) || kind == game.KindPlayer || kind == game.KindBag {
			el.Add(fmt.Errorf("population: %q cannot be spawned", name))
			continue
		}
		cfg.Population = append(cfg.Population, kind)
	}

	if c.DeathPolicy != "" {
		policy, err := combat.ParseDeathPolicy(c.DeathPolicy)
		if err != nil {
			el.Add(fmt.Errorf("death_policy: %w", err))
		} else {
			cfg.DeathPolicy = policy
		}
	}

	if c.DropOnDisconnect != nil {
		cfg.DropOnDisconnect = *c.DropOnDisconnect
	}

	if err := el.Err(); err != nil {
		return arena.Config{}, err
	}
	return cfg, nil
}
