package physics

import "github.com/jakecoffman/cp"

// DefaultGravity pulls bodies towards positive Y, in world units per
// millisecond squared.
var DefaultGravity = Vector{X: 0, Y: 0.001}

// Engine steps a chipmunk space holding every body in its composites and
// reports collisions that started during the step.
type Engine struct {
	space      *cp.Space
	composites []*Composite
	nextID     BodyID

	started []Pair

	beforeUpdate   []func()
	collisionStart []func([]Pair)
}

type EngineOpt func(*Engine)

// WithGravity replaces DefaultGravity.
func WithGravity(g Vector) EngineOpt {
	return func(e *Engine) {
		e.space.SetGravity(g.toCP())
	}
}

func NewEngine(opts ...EngineOpt) *Engine {
	e := &Engine{
		space: cp.NewSpace(),
	}
	e.space.SetGravity(DefaultGravity.toCP())

	h := e.space.NewCollisionHandler(bodyCollision, bodyCollision)
	h.BeginFunc = e.begin

	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewBody builds a body from a convex path. The path is re-centred on its
// centroid and the body is placed with that centroid at position at. The
// body is not part of any composite until added.
func (e *Engine) NewBody(at Vector, path []Vector, opts Options) (*Body, error) {
	if err := ValidatePolygon(path); err != nil {
		return nil, err
	}
	e.nextID++
	return newBody(e.nextID, at, path, opts), nil
}

// AddComposite registers a composite whose bodies take part in updates.
func (e *Engine) AddComposite(c *Composite) {
	c.space = e.space
	for _, b := range c.bodies {
		b.attach(e.space)
	}
	e.composites = append(e.composites, c)
}

// OnBeforeUpdate registers fn to run at the start of every update, before
// integration.
func (e *Engine) OnBeforeUpdate(fn func()) {
	e.beforeUpdate = append(e.beforeUpdate, fn)
}

// OnCollisionStart registers fn to receive the pairs that began touching
// during an update. Handlers run after the step, so they may add, remove and
// teleport bodies.
func (e *Engine) OnCollisionStart(fn func([]Pair)) {
	e.collisionStart = append(e.collisionStart, fn)
}

// Update advances the world by delta milliseconds.
func (e *Engine) Update(delta float64) {
	for _, fn := range e.beforeUpdate {
		fn()
	}

	e.started = e.started[:0]
	e.space.Step(delta)
	if len(e.started) == 0 {
		return
	}

	started := make([]Pair, len(e.started))
	copy(started, e.started)

	// A moving body wakes whatever it runs into.
	for _, p := range started {
		if p.BodyA.sensor || p.BodyB.sensor {
			continue
		}
		if p.BodyA.sleeping && p.BodyB.movable() {
			p.BodyA.SetSleeping(false)
		}
		if p.BodyB.sleeping && p.BodyA.movable() {
			p.BodyB.SetSleeping(false)
		}
	}

	for _, fn := range e.collisionStart {
		fn(started)
	}
}

// begin runs inside the step while the space is locked, so it only records.
func (e *Engine) begin(arb *cp.Arbiter, _ *cp.Space, _ interface{}) bool {
	p, ok := newPair(arb)
	if !ok {
		return true
	}
	if !p.BodyA.awake() && !p.BodyB.awake() {
		return true
	}
	e.started = append(e.started, p)
	return true
}
