package game

import (
	"fmt"

	"github.com/pixil98/go-errors"

	"github.com/pixil98/go-arena/internal/physics"
)

// Shape is the hull and material of one kind of entity.
type Shape struct {
	Vertices    []physics.Vector `json:"vertices"`
	Mass        float64          `json:"mass"`
	Friction    float64          `json:"friction"`
	FrictionAir float64          `json:"friction_air"`
	Static      bool             `json:"static"`
	Sensor      bool             `json:"sensor"`
}

func (s *Shape) Validate() error {
	el := errors.NewErrorList()

	if err := physics.ValidatePolygon(s.Vertices); err != nil {
		el.Add(fmt.Errorf("vertices: %w", err))
	}
	if !s.Static && s.Mass <= 0 {
		el.Add(fmt.Errorf("mass must be positive for a dynamic shape"))
	}
	if s.Friction < 0 || s.FrictionAir < 0 || s.FrictionAir >= 1 {
		el.Add(fmt.Errorf("friction out of range"))
	}

	return el.Err()
}

func (s *Shape) Options() physics.Options {
	return physics.Options{
		Mass:        s.Mass,
		Friction:    s.Friction,
		FrictionAir: s.FrictionAir,
		Static:      s.Static,
		Sensor:      s.Sensor,
	}
}

// Shapes is the hull catalog keyed by kind.
type Shapes map[Kind]*Shape

// DefaultShapes returns the built in catalog. The first corner of the player
// hull is its nose.
func DefaultShapes() Shapes {
	item := func(path ...physics.Vector) *Shape {
		return &Shape{Vertices: path, Mass: 0.1, Friction: 0.001, FrictionAir: 0.01}
	}

	return Shapes{
		KindPlayer: {
			Vertices:    []physics.Vector{{X: 0, Y: -34}, {X: 16, Y: 10}, {X: 0, Y: 18}, {X: -16, Y: 10}},
			Mass:        0.5,
			Friction:    0.01,
			FrictionAir: 0.01,
		},
		KindWorm:   item(physics.Vector{X: 145, Y: 32}, physics.Vector{X: 1, Y: 32}, physics.Vector{X: 21, Y: 1}, physics.Vector{X: 120, Y: 5}),
		KindChest:  item(physics.Vector{X: 0, Y: 0}, physics.Vector{X: 60, Y: 0}, physics.Vector{X: 60, Y: 40}, physics.Vector{X: 0, Y: 40}),
		KindToken:  item(physics.Vector{X: 0, Y: -12}, physics.Vector{X: 12, Y: 0}, physics.Vector{X: 0, Y: 12}, physics.Vector{X: -12, Y: 0}),
		KindSword:  item(physics.Vector{X: -4, Y: -30}, physics.Vector{X: 4, Y: -30}, physics.Vector{X: 4, Y: 30}, physics.Vector{X: -4, Y: 30}),
		KindShield: item(physics.Vector{X: 0, Y: -20}, physics.Vector{X: 18, Y: -8}, physics.Vector{X: 12, Y: 18}, physics.Vector{X: -12, Y: 18}, physics.Vector{X: -18, Y: -8}),
		KindBag: {
			Vertices: []physics.Vector{{X: 0, Y: 0}, {X: 40, Y: 0}, {X: 40, Y: 40}, {X: 0, Y: 40}},
			Static:   true,
			Sensor:   true,
		},
	}
}

// With returns a copy of the catalog with overrides replacing entries of the
// same kind.
func (s Shapes) With(overrides Shapes) Shapes {
	out := make(Shapes, len(s)+len(overrides))
	for k, v := range s {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}

// Validate checks every shape and that each kind has one.
func (s Shapes) Validate() error {
	el := errors.NewErrorList()
	for _, k := range Kinds {
		shape, ok := s[k]
		if !ok || shape == nil {
			el.Add(fmt.Errorf("shape %q missing", k))
			continue
		}
		if err := shape.Validate(); err != nil {
			el.Add(fmt.Errorf("shape %q: %w", k, err))
		}
	}
	return el.Err()
}
