package arena

import (
	"context"

	"github.com/pixil98/go-arena/internal/combat"
	"github.com/pixil98/go-arena/internal/game"
	"github.com/pixil98/go-arena/internal/physics"
)

// Route is where a contact between two entities is handled.
type Route int

const (
	RouteDiscard Route = iota
	RoutePickup
	RouteStab
)

func (r Route) String() string {
	switch r {
	case RoutePickup:
		return "pickup"
	case RouteStab:
		return "stab"
	default:
		return "discard"
	}
}

// Classify routes a contact. Contacts without a player are discarded. A
// contact with loot is a pickup and returns the other side first and the
// loot second. Two entities are a stab candidate, returned in pair order.
func Classify(a, b *game.Entity) (Route, *game.Entity, *game.Entity) {
	if !a.IsPlayer() && !b.IsPlayer() {
		return RouteDiscard, nil, nil
	}
	if a.Class() == game.ClassLoot {
		return RoutePickup, b, a
	}
	if b.Class() == game.ClassLoot {
		return RoutePickup, a, b
	}
	return RouteStab, a, b
}

// handleCollisions dispatches each pair in the order the engine reported
// them. A pair whose entity left play earlier in the same batch is skipped,
// as are contacts with terrain.
func (a *Arena) handleCollisions(ctx context.Context, pairs []physics.Pair) {
	for _, p := range pairs {
		ea, ok := a.world.Find(p.BodyA.ID())
		if !ok {
			continue
		}
		eb, ok := a.world.Find(p.BodyB.ID())
		if !ok {
			continue
		}

		route, first, second := Classify(ea, eb)
		switch route {
		case RoutePickup:
			if a.loot.ResolvePickup(ctx, first, second) {
				a.recorder.Pickup()
			}
		case RouteStab:
			switch a.combat.HandleStab(ctx, p, first, second) {
			case combat.OutcomeInjured:
				a.recorder.Stab()
			case combat.OutcomeKilled:
				a.recorder.Stab()
				a.recorder.Kill()
			}
		}
	}
}
