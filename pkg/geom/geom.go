// Package geom holds the closed-form geometry shared by the tracer, the
// recipes and the cutter composer: the corner triangle solver, arc points,
// planar placements and the curved-core bend.
package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Eps is the tolerance used for degenerate-value checks.
const Eps = 1e-9

// Rad converts degrees to radians.
func Rad(deg float64) float64 { return deg * math.Pi / 180 }

// Deg converts radians to degrees.
func Deg(rad float64) float64 { return rad * 180 / math.Pi }

// Finite reports whether every value is neither NaN nor infinite.
func Finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// FiniteVec reports whether every component of v is finite.
func FiniteVec(v r3.Vec) bool { return Finite(v.X, v.Y, v.Z) }

// Near reports whether a and b are within tol of each other.
func Near(a, b r3.Vec, tol float64) bool {
	return r3.Norm(r3.Sub(a, b)) <= tol
}

// Lerp interpolates between a and b.
func Lerp(a, b r3.Vec, t float64) r3.Vec {
	return r3.Add(a, r3.Scale(t, r3.Sub(b, a)))
}

// ArcPoint returns the point reached after sweeping phi degrees along a
// circle of the given radius. The sweep starts at start, travelling along
// heading, and turns toward side (the unit vector from start toward the
// circle's centre).
//
// The position is computed directly from phi, so endpoints are exact for
// any discretisation.
func ArcPoint(start, heading, side r3.Vec, radius, phi float64) r3.Vec {
	a := Rad(phi)
	centre := r3.Add(start, r3.Scale(radius, side))
	rel := r3.Add(r3.Scale(-radius*math.Cos(a), side), r3.Scale(radius*math.Sin(a), heading))
	return r3.Add(centre, rel)
}

// ArcHeading returns the tangent direction after sweeping phi degrees.
func ArcHeading(heading, side r3.Vec, phi float64) r3.Vec {
	a := Rad(phi)
	return r3.Add(r3.Scale(math.Cos(a), heading), r3.Scale(math.Sin(a), side))
}
