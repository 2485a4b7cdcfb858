package game

import (
	"fmt"

	"github.com/pixil98/go-arena/internal/physics"
)

// World is the single source of truth for every entity in the arena. It is
// not safe for concurrent use; the arena loop is its only caller.
//
// Entities live in the engine's dynamic composite while they are in play.
// Dead players waiting to respawn are parked: out of the engine, but still
// resolvable by id.
type World struct {
	engine *physics.Engine
	shapes Shapes

	dynamic *physics.Composite
	static  *physics.Composite

	entities map[EntityID]*Entity
	parked   map[EntityID]*Entity
	epoch    uint64
}

func NewWorld(engine *physics.Engine, shapes Shapes) *World {
	w := &World{
		engine:   engine,
		shapes:   shapes,
		dynamic:  physics.NewComposite(),
		static:   physics.NewComposite(),
		entities: make(map[EntityID]*Entity),
		parked:   make(map[EntityID]*Entity),
	}
	engine.AddComposite(w.static)
	engine.AddComposite(w.dynamic)
	return w
}

// NewEntity builds an entity of the given kind centred at at. The entity is
// not in the world until added.
func (w *World) NewEntity(kind Kind, at physics.Vector) (*Entity, error) {
	shape, ok := w.shapes[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}

	body, err := w.engine.NewBody(at, shape.Vertices, shape.Options())
	if err != nil {
		return nil, fmt.Errorf("building %s body: %w", kind, err)
	}

	e := &Entity{
		ID:      body.ID(),
		Kind:    kind,
		Variant: kind.Variant(),
		Body:    body,
	}
	switch e.Variant {
	case VariantPlayer:
		e.Player = NewPlayer(DefaultNickname(e.ID))
	case VariantLoot:
		e.Loot = &Loot{Reward: RewardFor(kind), Available: true}
	}
	return e, nil
}

// Add puts an entity into play. A parked entity with the same id is
// unparked.
func (w *World) Add(e *Entity) error {
	if _, ok := w.entities[e.ID]; ok {
		return fmt.Errorf("%w: %s", ErrEntityExists, e)
	}
	delete(w.parked, e.ID)

	w.epoch++
	e.epoch = w.epoch
	w.entities[e.ID] = e
	w.dynamic.Add(e.Body)
	return nil
}

// Remove takes an entity out of play.
func (w *World) Remove(id EntityID) (*Entity, bool) {
	e, ok := w.entities[id]
	if !ok {
		return nil, false
	}
	delete(w.entities, id)
	w.dynamic.Remove(id)
	return e, true
}

// Find returns an entity that is in play.
func (w *World) Find(id EntityID) (*Entity, bool) {
	e, ok := w.entities[id]
	return e, ok
}

// Dynamic returns the entities in play in the order they were added.
func (w *World) Dynamic() []*Entity {
	bodies := w.dynamic.Bodies()
	out := make([]*Entity, 0, len(bodies))
	for _, b := range bodies {
		if e, ok := w.entities[b.ID()]; ok {
			out = append(out, e)
		}
	}
	return out
}

// Players returns the players in play in the order they were added.
func (w *World) Players() []*Entity {
	var out []*Entity
	for _, e := range w.Dynamic() {
		if e.IsPlayer() {
			out = append(out, e)
		}
	}
	return out
}

func (w *World) Len() int {
	return len(w.entities)
}

// Park holds an entity that left play but is expected back.
func (w *World) Park(e *Entity) {
	w.parked[e.ID] = e
}

func (w *World) Unpark(id EntityID) (*Entity, bool) {
	e, ok := w.parked[id]
	delete(w.parked, id)
	return e, ok
}

func (w *World) Parked(id EntityID) (*Entity, bool) {
	e, ok := w.parked[id]
	return e, ok
}

// Lookup finds an entity whether it is in play or parked.
func (w *World) Lookup(id EntityID) (*Entity, bool) {
	if e, ok := w.entities[id]; ok {
		return e, true
	}
	return w.Parked(id)
}

// AddTerrain adds static scenery. Terrain collides but is never an entity
// and never broadcast.
func (w *World) AddTerrain(b *physics.Body) {
	w.static.Add(b)
}

func (w *World) Terrain() []*physics.Body {
	return w.static.Bodies()
}
