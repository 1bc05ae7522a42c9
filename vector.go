package main

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r2"
)

// fuzzEpsilon is the tolerance shared by every routing comparison.
const fuzzEpsilon = 1e-6

// Vec is a point or displacement on the routing plane.
type Vec r2.Vec

func V(x, y float64) Vec {
	return Vec{X: x, Y: y}
}

func (v Vec) Add(w Vec) Vec {
	return Vec(r2.Add(r2.Vec(v), r2.Vec(w)))
}

func (v Vec) Sub(w Vec) Vec {
	return Vec(r2.Sub(r2.Vec(v), r2.Vec(w)))
}

func (v Vec) Scale(f float64) Vec {
	return Vec(r2.Scale(f, r2.Vec(v)))
}

func (v Vec) Dot(w Vec) float64 {
	return r2.Dot(r2.Vec(v), r2.Vec(w))
}

func (v Vec) Len() float64 {
	return r2.Norm(r2.Vec(v))
}

// Normalized returns the unit vector along v, or the zero vector when v has no length.
// Callers check IsNull on the result.
func (v Vec) Normalized() Vec {
	if v.Len() < fuzzEpsilon {
		return Vec{}
	}
	return Vec(r2.Unit(r2.Vec(v)))
}

func (v Vec) IsNull() bool {
	return fuzzyEqual(v.X, 0) && fuzzyEqual(v.Y, 0)
}

// Rotate90 turns v a quarter turn: (x, y) becomes (y, -x).
func (v Vec) Rotate90() Vec {
	return Vec{X: v.Y, Y: -v.X}
}

// Project returns the component of v along the unit vector dir.
func (v Vec) Project(dir Vec) Vec {
	return dir.Scale(v.Dot(dir))
}

func (v Vec) Equal(w Vec) bool {
	return fuzzyEqual(v.X, w.X) && fuzzyEqual(v.Y, w.Y)
}

func (v Vec) String() string {
	return fmt.Sprintf("(%g,%g)", v.X, v.Y)
}

func fuzzyEqual(a, b float64) bool {
	return scalar.EqualWithinAbs(a, b, fuzzEpsilon)
}

// snapToGrid rounds both coordinates to the nearest multiple of grid.
func snapToGrid(p Vec, grid float64) Vec {
	if grid <= 0 {
		return p
	}
	return Vec{
		X: math.Round(p.X/grid) * grid,
		Y: math.Round(p.Y/grid) * grid,
	}
}

// isManhattan reports whether every segment of route runs along an axis.
func isManhattan(route []Vec) bool {
	for i := 0; i+1 < len(route); i++ {
		if !fuzzyEqual(route[i].X, route[i+1].X) && !fuzzyEqual(route[i].Y, route[i+1].Y) {
			return false
		}
	}
	return true
}

func routesEqual(a, b []Vec) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func copyRoute(route []Vec) []Vec {
	out := make([]Vec, len(route))
	copy(out, route)
	return out
}

func reverseRoute(route []Vec) []Vec {
	out := make([]Vec, len(route))
	for i, p := range route {
		out[len(route)-1-i] = p
	}
	return out
}
