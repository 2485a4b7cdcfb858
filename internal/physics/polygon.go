package physics

import (
	"errors"
	"math"

	"github.com/jakecoffman/cp"
)

var (
	ErrTooFewVertices = errors.New("polygon needs at least 3 vertices")
	ErrNotConvex      = errors.New("polygon must be convex")
	ErrDegenerate     = errors.New("polygon has zero area")
)

// ValidatePolygon checks that path describes a convex polygon with a
// non-zero area. Winding may be either direction.
func ValidatePolygon(path []Vector) error {
	if len(path) < 3 {
		return ErrTooFewVertices
	}
	if math.Abs(area(path)) < 1e-9 {
		return ErrDegenerate
	}
	if !IsConvex(path) {
		return ErrNotConvex
	}
	return nil
}

// IsConvex reports whether every turn along path bends the same way.
func IsConvex(path []Vector) bool {
	sign := 0
	n := len(path)
	for i := range n {
		a, b, c := path[i], path[(i+1)%n], path[(i+2)%n]
		cross := b.Sub(a).Cross(c.Sub(b))
		switch {
		case cross > 1e-9:
			if sign < 0 {
				return false
			}
			sign = 1
		case cross < -1e-9:
			if sign > 0 {
				return false
			}
			sign = -1
		}
	}
	return sign != 0
}

// Centroid returns the area centroid of a simple polygon.
func Centroid(path []Vector) Vector {
	if area(path) == 0 {
		var sum Vector
		for _, p := range path {
			sum = sum.Add(p)
		}
		return sum.Scale(1 / float64(len(path)))
	}
	return fromCP(cp.CentroidForPoly(len(path), toCPPath(path)))
}

// area is the signed polygon area, positive for counter-clockwise paths.
func area(path []Vector) float64 {
	return cp.AreaForPoly(len(path), toCPPath(path), 0)
}
