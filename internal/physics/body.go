package physics

import "github.com/jakecoffman/cp"

// BodyID identifies a body for its whole lifetime in an engine. Ids are never
// reused, so a body removed and added again keeps its id.
type BodyID uint32

// Options are the physical properties of a body.
type Options struct {
	Mass        float64
	Friction    float64
	FrictionAir float64
	Static      bool
	Sensor      bool
}

// inertiaScale stiffens bodies against spin, matching how the arena hulls
// are tuned.
const inertiaScale = 4

// Vertex is one corner of a body's hull in world coordinates. Index is the
// position of the corner in the path the body was built from.
type Vertex struct {
	Index int
	Body  *Body
	Point Vector
}

// Body is a convex rigid polygon backed by a chipmunk body and poly shape.
type Body struct {
	id    BodyID
	body  *cp.Body
	shape *cp.Shape

	local []Vector
	verts []Vertex

	mass        float64
	moment      float64
	frictionAir float64

	static   bool
	sensor   bool
	sleeping bool

	space *cp.Space
}

func newBody(id BodyID, at Vector, path []Vector, opts Options) *Body {
	c := Centroid(path)
	local := make([]Vector, len(path))
	for i, p := range path {
		local[i] = p.Sub(c)
	}

	// chipmunk expects counter-clockwise hulls. The original order is kept in
	// local so vertex indices still refer to the caller's path.
	hull := make([]cp.Vector, len(local))
	for i, p := range local {
		hull[i] = p.toCP()
	}
	if area(local) < 0 {
		for i, j := 0, len(hull)-1; i < j; i, j = i+1, j-1 {
			hull[i], hull[j] = hull[j], hull[i]
		}
	}

	b := &Body{
		id:          id,
		local:       local,
		verts:       make([]Vertex, len(local)),
		frictionAir: opts.FrictionAir,
		static:      opts.Static,
		sensor:      opts.Sensor,
	}
	for i := range b.verts {
		b.verts[i] = Vertex{Index: i, Body: b}
	}

	switch {
	case opts.Static:
		b.body = cp.NewStaticBody()
	case opts.Mass > 0:
		b.mass = opts.Mass
		b.moment = cp.MomentForPoly(opts.Mass, len(hull), hull, cp.Vector{}, 0) * inertiaScale
		b.body = cp.NewBody(b.mass, b.moment)
	default:
		// Massless bodies move only when told to.
		b.body = cp.NewKinematicBody()
	}
	b.body.UserData = b
	b.body.SetPosition(at.toCP())
	b.body.SetVelocityUpdateFunc(b.updateVelocity)
	b.body.SetPositionUpdateFunc(b.updatePosition)

	b.shape = cp.NewPolyShapeRaw(b.body, len(hull), hull, 0)
	b.shape.UserData = b
	b.shape.SetFriction(opts.Friction)
	b.shape.SetElasticity(0)
	b.shape.SetSensor(opts.Sensor)
	b.shape.SetCollisionType(bodyCollision)

	return b
}

func (b *Body) ID() BodyID {
	return b.id
}

func (b *Body) Position() Vector {
	return fromCP(b.body.Position())
}

func (b *Body) Angle() float64 {
	return b.body.Angle()
}

func (b *Body) Velocity() Vector {
	return fromCP(b.body.Velocity())
}

func (b *Body) Mass() float64 {
	return b.mass
}

func (b *Body) IsStatic() bool {
	return b.static
}

func (b *Body) IsSensor() bool {
	return b.sensor
}

func (b *Body) IsSleeping() bool {
	return b.sleeping
}

// Vertices returns the hull in world coordinates, in the order of the path
// the body was built from. The slice is owned by the body and is rewritten on
// every call.
func (b *Body) Vertices() []Vertex {
	for i, p := range b.local {
		b.verts[i].Point = fromCP(b.body.LocalToWorld(p.toCP()))
	}
	return b.verts
}

// SetSleeping freezes or wakes the body. A sleeping body is not integrated,
// is not pushed by contacts and its pending force and torque are discarded.
// It must not be called from inside a collision callback.
func (b *Body) SetSleeping(sleeping bool) {
	if b.static || b.sleeping == sleeping {
		return
	}
	b.sleeping = sleeping

	if sleeping {
		b.body.SetType(cp.BODY_KINEMATIC)
		b.body.SetVelocity(0, 0)
		b.body.SetAngularVelocity(0)
		b.body.SetForce(cp.Vector{})
		b.body.SetTorque(0)
		return
	}
	if b.mass > 0 {
		b.body.SetType(cp.BODY_DYNAMIC)
		b.body.SetMass(b.mass)
		b.body.SetMoment(b.moment)
	}
}

// SetPosition teleports the body without changing its velocity.
func (b *Body) SetPosition(p Vector) {
	b.body.SetPosition(p.toCP())
	b.reindex()
}

func (b *Body) SetAngle(angle float64) {
	b.body.SetAngle(angle)
	b.reindex()
}

func (b *Body) SetVelocity(v Vector) {
	b.body.SetVelocityVector(v.toCP())
}

func (b *Body) SetAngularVelocity(w float64) {
	b.body.SetAngularVelocity(w)
}

// SetForce replaces the force applied during the next update.
func (b *Body) SetForce(f Vector) {
	b.body.SetForce(f.toCP())
}

// SetTorque replaces the torque applied during the next update.
func (b *Body) SetTorque(t float64) {
	b.body.SetTorque(t)
}

func (b *Body) Force() Vector {
	return fromCP(b.body.Force())
}

func (b *Body) Torque() float64 {
	return b.body.Torque()
}

// awake bodies are integrated by the engine.
func (b *Body) awake() bool {
	return !b.static && !b.sleeping
}

// movable bodies are pushed by contacts.
func (b *Body) movable() bool {
	return !b.static && !b.sleeping && b.mass > 0
}

// reindex refreshes a static shape's place in the broadphase. Dynamic shapes
// are refreshed by every step.
func (b *Body) reindex() {
	if !b.static || b.space == nil {
		return
	}
	b.space.RemoveShape(b.shape)
	b.space.AddShape(b.shape)
}

func (b *Body) updateVelocity(body *cp.Body, gravity cp.Vector, _ float64, dt float64) {
	if !b.sleeping {
		cp.BodyUpdateVelocity(body, gravity, 1-b.frictionAir, dt)
	}
	body.SetForce(cp.Vector{})
	body.SetTorque(0)
}

func (b *Body) updatePosition(body *cp.Body, dt float64) {
	if b.sleeping {
		return
	}
	cp.BodyUpdatePosition(body, dt)
}

func (b *Body) attach(space *cp.Space) {
	if b.space != nil {
		return
	}
	b.space = space
	space.AddBody(b.body)
	space.AddShape(b.shape)
}

func (b *Body) detach() {
	if b.space == nil {
		return
	}
	b.space.RemoveShape(b.shape)
	b.space.RemoveBody(b.body)
	b.space = nil
}
