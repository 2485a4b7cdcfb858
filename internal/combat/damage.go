package combat

import (
	"math"

	"github.com/pixil98/go-arena/internal/physics"
)

// DamagePerDepth converts penetration depth into hit points.
const DamagePerDepth = 5

// StabDamage is the damage a stab of the given penetration depth deals.
func StabDamage(depth float64) int {
	return int(math.Round(depth * DamagePerDepth))
}

// StabContact is a pair that qualified as a stab.
type StabContact struct {
	Attacker *physics.Body
	Victim   *physics.Body
	Point    physics.Vector
	Depth    float64
}

// QualifyStab reports whether a pair is a stab: exactly one active contact,
// made by the nose corner (index 0) of its owning body. The body owning the
// nose is the attacker.
func QualifyStab(p physics.Pair) (StabContact, bool) {
	if len(p.Contacts) != 1 {
		return StabContact{}, false
	}
	v := p.Contacts[0].Vertex
	if v.Index != 0 || v.Body == nil {
		return StabContact{}, false
	}

	var victim *physics.Body
	switch v.Body {
	case p.BodyA:
		victim = p.BodyB
	case p.BodyB:
		victim = p.BodyA
	default:
		return StabContact{}, false
	}

	return StabContact{
		Attacker: v.Body,
		Victim:   victim,
		Point:    v.Point,
		Depth:    p.Depth,
	}, true
}
