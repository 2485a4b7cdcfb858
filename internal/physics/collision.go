package physics

import (
	"math"

	"github.com/jakecoffman/cp"
)

// bodyCollision is the chipmunk collision type given to every body shape.
const bodyCollision cp.CollisionType = 1

// cornerTolerance is how far a contact point may sit from a hull corner and
// still be attributed to it.
const cornerTolerance = 1e-6

// Contact is an active contact point of a pair. Vertex names the hull corner
// that produced it and the body that owns that corner. A contact that lies on
// an edge rather than a corner has Index -1 and no Body.
type Contact struct {
	Vertex Vertex
}

// Pair is two bodies whose hulls overlap.
type Pair struct {
	BodyA    *Body
	BodyB    *Body
	Contacts []Contact
	// Depth is the penetration depth along Normal.
	Depth float64
	// Normal points from BodyA towards BodyB.
	Normal Vector
}

// newPair reads a pair out of a chipmunk arbiter that has just begun.
func newPair(arb *cp.Arbiter) (Pair, bool) {
	sa, sb := arb.Shapes()
	a, okA := sa.UserData.(*Body)
	b, okB := sb.UserData.(*Body)
	if !okA || !okB {
		return Pair{}, false
	}

	set := arb.ContactPointSet()
	p := Pair{
		BodyA:    a,
		BodyB:    b,
		Normal:   fromCP(set.Normal),
		Contacts: make([]Contact, 0, set.Count),
	}
	for i := 0; i < set.Count; i++ {
		pt := set.Points[i]
		p.Depth = math.Max(p.Depth, -pt.Distance)
		p.Contacts = append(p.Contacts, Contact{Vertex: corner(a, b, fromCP(pt.PointA), fromCP(pt.PointB))})
	}
	return p, true
}

// corner attributes a contact to the hull corner it was generated from.
// Corners of A are tried before corners of B.
func corner(a, b *Body, onA, onB Vector) Vertex {
	for _, v := range a.Vertices() {
		if v.Point.Sub(onA).Len() <= cornerTolerance {
			return v
		}
	}
	for _, v := range b.Vertices() {
		if v.Point.Sub(onB).Len() <= cornerTolerance {
			return v
		}
	}
	return Vertex{Index: -1, Point: onA}
}
