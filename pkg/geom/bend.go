package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Bend wraps a straight core around the vertical axis. A point at distance
// x along a core of the given Length ends up at x/Length of the way
// around an arc of Degrees, at radius y. Clockwise bends sweep from +Y
// toward +X.
type Bend struct {
	Length    float64
	Degrees   float64
	Clockwise bool
	Enabled   bool
}

// Apply maps a straight-core point onto the bent core. A disabled bend is
// the identity.
func (b Bend) Apply(v r3.Vec) r3.Vec {
	if !b.Enabled || b.Length <= 0 {
		return v
	}
	s, c := math.Sincos(Rad(v.X / b.Length * b.Degrees))
	x := v.Y * s
	if !b.Clockwise {
		x = -x
	}
	return r3.Vec{X: x, Y: v.Y * c, Z: v.Z}
}

// ArcLength returns the length of a straight core that bends into an arc
// of deg degrees at radius r.
func ArcLength(r, deg float64) float64 {
	return 2 * math.Pi * r * deg / 360
}
