package combat

import (
	"time"

	"github.com/pixil98/go-arena/internal/physics"
)

type ResolverOpt func(*Resolver)

// WithImmunity sets how long a stabbed player cannot be stabbed again.
func WithImmunity(d time.Duration) ResolverOpt {
	return func(r *Resolver) {
		r.immunity = d
	}
}

func WithRespawnDelay(d time.Duration) ResolverOpt {
	return func(r *Resolver) {
		r.respawnDelay = d
	}
}

func WithRespawnPoint(p physics.Vector) ResolverOpt {
	return func(r *Resolver) {
		r.respawnAt = p
	}
}

func WithDeathPolicy(p DeathPolicy) ResolverOpt {
	return func(r *Resolver) {
		r.policy = p
	}
}
