package combat

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pixil98/go-arena/internal/game"
	"github.com/pixil98/go-arena/internal/physics"
	"github.com/pixil98/go-arena/internal/protocol"
)

const (
	DefaultImmunity     = 500 * time.Millisecond
	DefaultRespawnDelay = 3 * time.Second
)

// DefaultRespawnPoint is where dead players come back.
var DefaultRespawnPoint = physics.Vector{X: 0, Y: -500}

// DeathPolicy decides what happens to a dead player's stats.
type DeathPolicy string

const (
	// DeathPolicyDrop leaves the stats behind as a bag.
	DeathPolicyDrop DeathPolicy = "drop"
	// DeathPolicyReset discards the stats.
	DeathPolicyReset DeathPolicy = "reset"
)

func ParseDeathPolicy(s string) (DeathPolicy, error) {
	switch p := DeathPolicy(s); p {
	case DeathPolicyDrop, DeathPolicyReset:
		return p, nil
	case "":
		return DeathPolicyDrop, nil
	default:
		return "", fmt.Errorf("unknown death policy %q", s)
	}
}

// Outcome is what a stab resolved to.
type Outcome int

const (
	OutcomeIgnored Outcome = iota
	OutcomeImmune
	OutcomeInjured
	OutcomeKilled
)

func (o Outcome) String() string {
	switch o {
	case OutcomeImmune:
		return "immune"
	case OutcomeInjured:
		return "injured"
	case OutcomeKilled:
		return "killed"
	default:
		return "ignored"
	}
}

// MessagePublisher sends combat messages to players.
type MessagePublisher interface {
	Unicast(ctx context.Context, id game.EntityID, t string, payload any)
	Broadcast(ctx context.Context, t string, payload any)
}

// DeathHandler handles deaths that need game-level logic outside combat.
type DeathHandler interface {
	OnDeath(ctx context.Context, victim *game.Entity)
}

// Resolver applies stabs between players, and owns death and respawn.
type Resolver struct {
	world   *game.World
	pub     MessagePublisher
	sched   game.Scheduler
	handler DeathHandler

	immunity     time.Duration
	respawnDelay time.Duration
	respawnAt    physics.Vector
	policy       DeathPolicy
}

func NewResolver(world *game.World, pub MessagePublisher, sched game.Scheduler, handler DeathHandler, opts ...ResolverOpt) *Resolver {
	r := &Resolver{
		world:        world,
		pub:          pub,
		sched:        sched,
		handler:      handler,
		immunity:     DefaultImmunity,
		respawnDelay: DefaultRespawnDelay,
		respawnAt:    DefaultRespawnPoint,
		policy:       DeathPolicyDrop,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Resolver) Policy() DeathPolicy {
	return r.policy
}

// HandleStab resolves a contact between two entities if it qualifies as a
// stab. Only players stab and only players are stabbed.
func (r *Resolver) HandleStab(ctx context.Context, pair physics.Pair, a, b *game.Entity) Outcome {
	if !a.IsPlayer() || !b.IsPlayer() {
		return OutcomeIgnored
	}

	stab, ok := QualifyStab(pair)
	if !ok {
		return OutcomeIgnored
	}

	attacker, victim := a, b
	if stab.Attacker == b.Body {
		attacker, victim = b, a
	}
	return r.ResolveStab(ctx, attacker, victim, stab.Depth, stab.Point)
}

// ResolveStab applies one stab of the given depth, landed at point.
func (r *Resolver) ResolveStab(ctx context.Context, attacker, victim *game.Entity, depth float64, point physics.Vector) Outcome {
	if !attacker.IsPlayer() || !victim.IsPlayer() {
		return OutcomeIgnored
	}
	if !r.inPlay(attacker) || !r.inPlay(victim) {
		return OutcomeIgnored
	}

	vp := victim.Player
	if vp.StabImmune {
		return OutcomeImmune
	}
	r.grantImmunity(victim)

	damage := StabDamage(depth)
	r.pub.Unicast(ctx, attacker.ID, protocol.MsgStrike, protocol.Strike{
		Damage:    damage,
		Positions: []protocol.Point{protocol.NewPoint(point)},
	})

	if vp.Damage(damage) {
		r.kill(ctx, attacker, victim)
		return OutcomeKilled
	}

	r.pub.Unicast(ctx, victim.ID, protocol.MsgInjury, vp.Health)
	return OutcomeInjured
}

func (r *Resolver) inPlay(e *game.Entity) bool {
	found, ok := r.world.Find(e.ID)
	return ok && found == e
}

func (r *Resolver) grantImmunity(victim *game.Entity) {
	victim.Player.StabImmune = true

	id, epoch := victim.ID, victim.Epoch()
	r.sched.After(r.immunity, func(context.Context) {
		e, ok := r.world.Lookup(id)
		if !ok || e.Epoch() != epoch || !e.IsPlayer() {
			return
		}
		e.Player.StabImmune = false
	})
}

func (r *Resolver) kill(ctx context.Context, attacker, victim *game.Entity) {
	r.world.Remove(victim.ID)
	r.world.Park(victim)
	r.pub.Broadcast(ctx, protocol.MsgRemove, victim.ID)

	if r.policy == DeathPolicyDrop && r.handler != nil {
		r.handler.OnDeath(ctx, victim)
	}

	r.pub.Unicast(ctx, victim.ID, protocol.MsgDeath, attacker.Player.Nickname)
	r.pub.Unicast(ctx, attacker.ID, protocol.MsgKill, victim.Player.Nickname)

	slog.InfoContext(ctx, "player killed",
		"victim", victim.Player.Nickname,
		"attacker", attacker.Player.Nickname,
		"policy", r.policy,
	)

	id, epoch := victim.ID, victim.Epoch()
	r.sched.After(r.respawnDelay, func(ctx context.Context) {
		r.respawn(ctx, id, epoch)
	})
}

// respawn brings a dead player back with baseline stats and the same id. A
// player that left or already came back is not touched.
func (r *Resolver) respawn(ctx context.Context, id game.EntityID, epoch uint64) {
	e, ok := r.world.Parked(id)
	if !ok || e.Epoch() != epoch {
		return
	}

	e.Player.Reset()
	e.Body.SetVelocity(physics.Vector{})
	e.Body.SetAngularVelocity(0)
	e.Body.SetAngle(0)
	e.Body.SetPosition(r.respawnAt)

	if err := r.world.Add(e); err != nil {
		slog.ErrorContext(ctx, "respawning player", "id", id, "error", err)
		return
	}
	r.pub.Broadcast(ctx, protocol.MsgAdd, protocol.NewAdd(e))
}
