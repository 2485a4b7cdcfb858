package physics

import (
	"slices"

	"github.com/jakecoffman/cp"
)

// Composite is an ordered group of bodies that are added to, removed from
// and iterated over together. Once registered with an engine, bodies enter
// and leave the engine's space with the composite.
type Composite struct {
	bodies []*Body
	space  *cp.Space
}

func NewComposite() *Composite {
	return &Composite{}
}

// Add appends bodies that are not already in the composite.
func (c *Composite) Add(bodies ...*Body) {
	for _, b := range bodies {
		if c.Contains(b.id) {
			continue
		}
		c.bodies = append(c.bodies, b)
		if c.space != nil {
			b.attach(c.space)
		}
	}
}

// Remove takes the body with the given id out of the composite and reports
// whether it was present.
func (c *Composite) Remove(id BodyID) bool {
	i := slices.IndexFunc(c.bodies, func(b *Body) bool { return b.id == id })
	if i < 0 {
		return false
	}
	c.bodies[i].detach()
	c.bodies = slices.Delete(c.bodies, i, i+1)
	return true
}

func (c *Composite) Contains(id BodyID) bool {
	return slices.ContainsFunc(c.bodies, func(b *Body) bool { return b.id == id })
}

// Bodies returns the bodies in insertion order. The slice must not be
// modified.
func (c *Composite) Bodies() []*Body {
	return c.bodies
}

func (c *Composite) Len() int {
	return len(c.bodies)
}
