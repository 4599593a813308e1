package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Placement is a rotation about the Z axis followed by a translation.
// Every tile transform stays in this group, which keeps kernel replay to a
// single Rotate and Translate per instance.
type Placement struct {
	RotZ float64 // degrees, counter-clockwise seen from +Z
	T    r3.Vec
}

// Identity returns the placement that leaves points unchanged.
func Identity() Placement { return Placement{} }

// Translation returns a pure translation.
func Translation(v r3.Vec) Placement { return Placement{T: v} }

// RotationZ returns a rotation about the Z axis through the origin.
func RotationZ(deg float64) Placement { return Placement{RotZ: deg} }

// RotateAbout returns a rotation about the vertical axis through centre.
func RotateAbout(centre r3.Vec, deg float64) Placement {
	return Placement{RotZ: deg, T: r3.Sub(centre, rotZ(centre, deg))}
}

// Apply transforms v.
func (p Placement) Apply(v r3.Vec) r3.Vec {
	return r3.Add(rotZ(v, p.RotZ), p.T)
}

// Then returns the placement that applies p and then next.
func (p Placement) Then(next Placement) Placement {
	return Placement{
		RotZ: normDeg(p.RotZ + next.RotZ),
		T:    r3.Add(rotZ(p.T, next.RotZ), next.T),
	}
}

// IsIdentity reports whether p leaves points unchanged.
func (p Placement) IsIdentity() bool {
	return math.Abs(p.RotZ) < Eps && r3.Norm(p.T) < Eps
}

func rotZ(v r3.Vec, deg float64) r3.Vec {
	if deg == 0 {
		return v
	}
	s, c := math.Sincos(Rad(deg))
	return r3.Vec{X: c*v.X - s*v.Y, Y: s*v.X + c*v.Y, Z: v.Z}
}

// normDeg folds an angle into (-360, 360) so composed placements stay
// readable in metadata and logs.
func normDeg(d float64) float64 {
	return math.Mod(d, 360)
}
