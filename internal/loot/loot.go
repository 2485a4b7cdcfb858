package loot

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/pixil98/go-arena/internal/game"
	"github.com/pixil98/go-arena/internal/physics"
	"github.com/pixil98/go-arena/internal/protocol"
)

const (
	DefaultGrace          = 500 * time.Millisecond
	DefaultReplenishDelay = 5 * time.Second
)

// DefaultPopulation is what the arena starts with.
var DefaultPopulation = []game.Kind{game.KindChest, game.KindSword, game.KindShield, game.KindWorm, game.KindToken}

// Band is the horizontal strip new items fall from.
type Band struct {
	MinX float64
	MaxX float64
	Y    float64
}

var DefaultBand = Band{MinX: -400, MaxX: 400, Y: -1000}

// MessagePublisher sends economy messages to players.
type MessagePublisher interface {
	Unicast(ctx context.Context, id game.EntityID, t string, payload any)
	Broadcast(ctx context.Context, t string, payload any)
}

// Manager owns the arena's items: the starting population, pickups,
// replenishment and the bags dead players leave behind.
type Manager struct {
	world *game.World
	pub   MessagePublisher
	sched game.Scheduler

	grace          time.Duration
	replenishDelay time.Duration
	band           Band
	population     []game.Kind
	rand           *rand.Rand
}

func NewManager(world *game.World, pub MessagePublisher, sched game.Scheduler, opts ...ManagerOpt) *Manager {
	m := &Manager{
		world:          world,
		pub:            pub,
		sched:          sched,
		grace:          DefaultGrace,
		replenishDelay: DefaultReplenishDelay,
		band:           DefaultBand,
		population:     DefaultPopulation,
		rand:           rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Populate spawns the starting population.
func (m *Manager) Populate(ctx context.Context) error {
	for _, kind := range m.population {
		if _, err := m.Spawn(ctx, kind); err != nil {
			return fmt.Errorf("populating %s: %w", kind, err)
		}
	}
	return nil
}

// Spawn drops a new entity of the given kind somewhere in the spawn band.
func (m *Manager) Spawn(ctx context.Context, kind game.Kind) (*game.Entity, error) {
	at := physics.Vector{
		X: m.band.MinX + (m.band.MaxX-m.band.MinX)*m.rand.Float64(),
		Y: m.band.Y,
	}

	e, err := m.world.NewEntity(kind, at)
	if err != nil {
		return nil, err
	}
	if err := m.world.Add(e); err != nil {
		return nil, err
	}
	m.pub.Broadcast(ctx, protocol.MsgAdd, protocol.NewAdd(e))
	return e, nil
}

// ResolvePickup grants the reward of an item to the player touching it and
// removes the item. An item is granted at most once; it returns false when
// nothing was granted.
func (m *Manager) ResolvePickup(ctx context.Context, player, item *game.Entity) bool {
	if !player.IsPlayer() || !item.IsLoot() {
		return false
	}
	if !item.Loot.Available {
		return false
	}
	if found, ok := m.world.Find(item.ID); !ok || found != item {
		return false
	}

	item.Loot.Available = false
	item.Loot.Reward.Apply(player.Player)

	p := player.Player
	m.pub.Unicast(ctx, player.ID, protocol.MsgUpgrade, protocol.Upgrade{
		Score:  p.Score,
		Sword:  p.Sword,
		Shield: p.Shield,
	})

	m.world.Remove(item.ID)
	m.pub.Broadcast(ctx, protocol.MsgRemove, item.ID)

	if item.Kind != game.KindBag && m.replenishDelay > 0 {
		kind := item.Kind
		m.sched.After(m.replenishDelay, func(ctx context.Context) {
			if _, err := m.Spawn(ctx, kind); err != nil {
				slog.ErrorContext(ctx, "replenishing loot", "kind", kind, "error", err)
			}
		})
	}

	return true
}

// OnDeath leaves the victim's stats behind as a bag.
func (m *Manager) OnDeath(ctx context.Context, victim *game.Entity) {
	if _, err := m.DropBag(ctx, victim); err != nil {
		slog.ErrorContext(ctx, "dropping bag", "victim", victim.ID, "error", err)
	}
}

// DropBag places a bag holding the player's stats where the player was. The
// bag cannot be picked up until the grace period ends.
func (m *Manager) DropBag(ctx context.Context, victim *game.Entity) (*game.Entity, error) {
	if !victim.IsPlayer() {
		return nil, fmt.Errorf("dropping bag for %s: not a player", victim)
	}

	bag, err := m.world.NewEntity(game.KindBag, victim.Body.Position())
	if err != nil {
		return nil, err
	}
	bag.Loot.Reward = game.StatsOf(victim.Player)
	bag.Loot.Available = false

	if err := m.world.Add(bag); err != nil {
		return nil, err
	}
	m.pub.Broadcast(ctx, protocol.MsgAdd, protocol.NewAdd(bag))

	id, epoch := bag.ID, bag.Epoch()
	m.sched.After(m.grace, func(context.Context) {
		e, ok := m.world.Find(id)
		if !ok || e.Epoch() != epoch {
			return
		}
		e.Loot.Available = true
	})

	return bag, nil
}
