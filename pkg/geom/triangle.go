package geom

import (
	"math"

	"github.com/chazu/tilesmith/pkg/tileerr"
	"gonum.org/v1/gonum/spatial/r3"
)

// Triangle is the solved corner triangle for an L-shaped tile. Leg 1 runs
// along +X from the outer corner, leg 2 runs at Angle degrees
// counter-clockwise from leg 1. The inner polyline is offset Thickness
// toward the inside of the corner.
type Triangle struct {
	Leg1      float64
	Leg2      float64
	Angle     float64 // A, between the legs
	Thickness float64

	ThirdSide float64 // a, joining the leg ends
	AngleB    float64 // opposite leg 1
	AngleC    float64 // opposite leg 2

	InsetLeg1 float64 // inner leg lengths
	InsetLeg2 float64

	Corner       r3.Vec
	Leg1End      r3.Vec
	Leg2End      r3.Vec
	InnerCorner  r3.Vec
	InnerLeg1End r3.Vec
	InnerLeg2End r3.Vec
}

// Solve solves the corner triangle with legs leg1 and leg2 meeting at
// angleDeg, and offsets it inward by thickness.
//
// Degenerate input (non-positive legs, an angle outside (0, 180), a
// negative thickness, or a thickness that consumes a leg) returns a
// GeometryError.
func Solve(leg1, leg2, angleDeg, thickness float64) (Triangle, error) {
	const step = "solve"
	switch {
	case !Finite(leg1, leg2, angleDeg, thickness):
		return Triangle{}, tileerr.Geometry(step, "", "non-finite input (%g, %g, %g, %g)", leg1, leg2, angleDeg, thickness)
	case leg1 <= Eps:
		return Triangle{}, tileerr.Geometry(step, "leg1", "leg length must be positive, got %g", leg1)
	case leg2 <= Eps:
		return Triangle{}, tileerr.Geometry(step, "leg2", "leg length must be positive, got %g", leg2)
	case angleDeg <= Eps || angleDeg >= 180-Eps:
		return Triangle{}, tileerr.Geometry(step, "angle", "corner angle must be in (0, 180), got %g", angleDeg)
	case thickness < 0:
		return Triangle{}, tileerr.Geometry(step, "thickness", "thickness must not be negative, got %g", thickness)
	}

	A := Rad(angleDeg)
	b, c := leg1, leg2
	a := math.Sqrt(b*b + c*c - 2*b*c*math.Cos(A))

	var B float64
	sinA := math.Sin(A)
	if sinA < 1e-6 || a < Eps {
		// Nearly flat corners lose precision in asin.
		B = math.Atan2(b*sinA, c-b*math.Cos(A))
	} else {
		sinB := math.Min(1, math.Max(-1, b*sinA/a))
		B = math.Asin(sinB)
		if b*b > a*a+c*c {
			B = math.Pi - B
		}
	}
	C := math.Pi - A - B

	setback := thickness / math.Tan(A/2)
	t := Triangle{
		Leg1:      leg1,
		Leg2:      leg2,
		Angle:     angleDeg,
		Thickness: thickness,
		ThirdSide: a,
		AngleB:    Deg(B),
		AngleC:    Deg(C),
		InsetLeg1: leg1 - setback,
		InsetLeg2: leg2 - setback,
	}
	if t.InsetLeg1 <= Eps || t.InsetLeg2 <= Eps {
		return Triangle{}, tileerr.Geometry(step, "thickness",
			"thickness %g leaves no inner leg (inset legs %g, %g)", thickness, t.InsetLeg1, t.InsetLeg2)
	}

	u1 := r3.Vec{X: 1}
	n1 := r3.Vec{Y: 1}
	u2 := r3.Vec{X: math.Cos(A), Y: sinA}
	n2 := r3.Vec{X: sinA, Y: -math.Cos(A)}

	t.Leg1End = r3.Scale(leg1, u1)
	t.Leg2End = r3.Scale(leg2, u2)
	t.InnerCorner = r3.Add(r3.Scale(setback, u1), r3.Scale(thickness, n1))
	t.InnerLeg1End = r3.Add(t.Leg1End, r3.Scale(thickness, n1))
	t.InnerLeg2End = r3.Add(t.Leg2End, r3.Scale(thickness, n2))
	return t, nil
}

// Leg2Dir returns the unit direction of leg 2.
func (t Triangle) Leg2Dir() r3.Vec {
	return r3.Vec{X: math.Cos(Rad(t.Angle)), Y: math.Sin(Rad(t.Angle))}
}

// Leg2Normal returns the unit normal of leg 2 pointing into the corner.
func (t Triangle) Leg2Normal() r3.Vec {
	return r3.Vec{X: math.Sin(Rad(t.Angle)), Y: -math.Cos(Rad(t.Angle))}
}

// Table flattens the solution into named values, the form recipes and
// metadata consume.
func (t Triangle) Table() map[string]float64 {
	return map[string]float64{
		"a":            t.ThirdSide,
		"b":            t.Leg1,
		"c":            t.Leg2,
		"A":            t.Angle,
		"B":            t.AngleB,
		"C":            t.AngleC,
		"thickness":    t.Thickness,
		"b_inset":      t.InsetLeg1,
		"c_inset":      t.InsetLeg2,
		"inner_x":      t.InnerCorner.X,
		"inner_y":      t.InnerCorner.Y,
		"leg2_end_x":   t.Leg2End.X,
		"leg2_end_y":   t.Leg2End.Y,
		"inner2_end_x": t.InnerLeg2End.X,
		"inner2_end_y": t.InnerLeg2End.Y,
	}
}
