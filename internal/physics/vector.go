package physics

import (
	"math"

	"github.com/jakecoffman/cp"
)

// Vector is a 2D point or direction in world units.
type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (v Vector) Add(o Vector) Vector {
	return Vector{v.X + o.X, v.Y + o.Y}
}

func (v Vector) Sub(o Vector) Vector {
	return Vector{v.X - o.X, v.Y - o.Y}
}

func (v Vector) Scale(s float64) Vector {
	return Vector{v.X * s, v.Y * s}
}

func (v Vector) Cross(o Vector) float64 {
	return v.X*o.Y - v.Y*o.X
}

func (v Vector) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// Heading returns the forward unit vector of a body rotated by angle. At
// angle zero it points towards negative Y.
func Heading(angle float64) Vector {
	return Vector{math.Sin(angle), -math.Cos(angle)}
}

func (v Vector) toCP() cp.Vector {
	return cp.Vector{X: v.X, Y: v.Y}
}

func fromCP(v cp.Vector) Vector {
	return Vector{X: v.X, Y: v.Y}
}

func toCPPath(path []Vector) []cp.Vector {
	out := make([]cp.Vector, len(path))
	for i, p := range path {
		out[i] = p.toCP()
	}
	return out
}
