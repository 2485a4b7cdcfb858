package arena

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pixil98/go-arena/internal/combat"
	"github.com/pixil98/go-arena/internal/driver"
	"github.com/pixil98/go-arena/internal/game"
	"github.com/pixil98/go-arena/internal/loot"
	"github.com/pixil98/go-arena/internal/metrics"
	"github.com/pixil98/go-arena/internal/physics"
	"github.com/pixil98/go-arena/internal/protocol"
)

// Arena owns one simulated world and everything that touches it. All state
// is confined to the loop goroutine; the exported methods hand work to the
// loop and are safe to call from connection goroutines.
type Arena struct {
	cfg Config

	loop     *driver.Loop
	engine   *physics.Engine
	world    *game.World
	sessions *game.Sessions
	notify   *game.Notifier
	combat   *combat.Resolver
	loot     *loot.Manager

	shapes   game.Shapes
	codec    protocol.Codec
	recorder *metrics.Recorder
	loopOpts []driver.LoopOpt
	lootOpts []loot.ManagerOpt

	started []physics.Pair
}

// New builds the arena, lays out the terrain and spawns the starting
// population. Nothing runs until Start.
func New(ctx context.Context, cfg Config, transport game.Transport, opts ...ArenaOpt) (*Arena, error) {
	a := &Arena{
		cfg:    cfg,
		shapes: game.DefaultShapes(),
		codec:  protocol.JSON{},
	}
	for _, opt := range opts {
		opt(a)
	}

	if err := a.shapes.Validate(); err != nil {
		return nil, fmt.Errorf("validating shapes: %w", err)
	}

	a.loop = driver.NewLoop(a.loopOpts...)
	a.engine = physics.NewEngine()
	a.world = game.NewWorld(a.engine, a.shapes)
	a.sessions = game.NewSessions()
	a.notify = game.NewNotifier(a.sessions, transport, a.codec)

	lootOpts := []loot.ManagerOpt{
		loot.WithGrace(cfg.Grace),
		loot.WithReplenishDelay(cfg.ReplenishDelay),
	}
	if len(cfg.Population) > 0 {
		lootOpts = append(lootOpts, loot.WithPopulation(cfg.Population))
	}
	a.loot = loot.NewManager(a.world, a.notify, a.loop, append(lootOpts, a.lootOpts...)...)

	a.combat = combat.NewResolver(a.world, a.notify, a.loop, a.loot,
		combat.WithImmunity(cfg.Immunity),
		combat.WithRespawnDelay(cfg.RespawnDelay),
		combat.WithRespawnPoint(cfg.RespawnPoint),
		combat.WithDeathPolicy(cfg.DeathPolicy),
	)

	if err := a.buildTerrain(); err != nil {
		return nil, err
	}
	if err := a.loot.Populate(ctx); err != nil {
		return nil, err
	}

	a.engine.OnBeforeUpdate(a.applyControls)
	a.engine.OnCollisionStart(func(pairs []physics.Pair) {
		a.started = append(a.started, pairs...)
	})

	a.loop.Every("step", cfg.StepInterval, driver.TickerFunc(a.step))
	a.loop.Every("state", cfg.StateInterval, driver.TickerFunc(a.broadcastState))
	a.loop.Every("leaderboard", cfg.LeaderboardInterval, driver.TickerFunc(a.broadcastLeaderboard))

	return a, nil
}

func (a *Arena) Start(ctx context.Context) error {
	slog.InfoContext(ctx, "arena running",
		"step", a.cfg.StepInterval,
		"entities", a.world.Len(),
		"codec", a.codec.Name(),
		"death_policy", a.cfg.DeathPolicy,
	)
	return a.loop.Start(ctx)
}

// buildTerrain lays a floor under the spawn band and a wall on each side.
func (a *Arena) buildTerrain() error {
	slabs := []struct {
		at           physics.Vector
		halfW, halfH float64
	}{
		{at: physics.Vector{X: 0, Y: 300}, halfW: 1600, halfH: 50},
		{at: physics.Vector{X: -1550, Y: -700}, halfW: 50, halfH: 1000},
		{at: physics.Vector{X: 1550, Y: -700}, halfW: 50, halfH: 1000},
	}

	for _, s := range slabs {
		path := []physics.Vector{
			{X: -s.halfW, Y: -s.halfH},
			{X: s.halfW, Y: -s.halfH},
			{X: s.halfW, Y: s.halfH},
			{X: -s.halfW, Y: s.halfH},
		}
		body, err := a.engine.NewBody(s.at, path, physics.Options{Friction: 0.01, Static: true})
		if err != nil {
			return fmt.Errorf("building terrain: %w", err)
		}
		a.world.AddTerrain(body)
	}
	return nil
}

// step advances the simulation one interval and resolves the contacts that
// started during it.
func (a *Arena) step(ctx context.Context) error {
	start := time.Now()

	a.engine.Update(float64(a.cfg.StepInterval) / float64(time.Millisecond))

	pairs := a.started
	a.started = nil
	a.handleCollisions(ctx, pairs)

	a.recorder.ObserveStep(time.Since(start))
	a.recorder.SetEntities(a.world.Len())
	return nil
}

// applyControls turns held controls into torque and thrust for the coming
// step. The engine clears both after every step.
func (a *Arena) applyControls() {
	for _, e := range a.world.Players() {
		c := e.Player.Controls
		if c.RotateLeft {
			e.Body.SetTorque(-RotateTorque)
		}
		if c.RotateRight {
			e.Body.SetTorque(RotateTorque)
		}
		if c.Thrust {
			e.Body.SetForce(physics.Heading(e.Body.Angle()).Scale(ThrustForce))
		}
	}
}
