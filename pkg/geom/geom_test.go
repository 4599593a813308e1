package geom

import (
	"errors"
	"math"
	"testing"

	"github.com/chazu/tilesmith/pkg/tileerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestSolveRightCorner(t *testing.T) {
	tri, err := Solve(2, 2, 90, 0.25)
	require.NoError(t, err)

	assert.InDelta(t, 2.828427, tri.ThirdSide, 1e-5)
	assert.InDelta(t, 45, tri.AngleB, 1e-9)
	assert.InDelta(t, 45, tri.AngleC, 1e-9)
	assert.InDelta(t, 0.25, tri.InnerCorner.X, 1e-12)
	assert.InDelta(t, 0.25, tri.InnerCorner.Y, 1e-12)
	assert.InDelta(t, 1.75, tri.InsetLeg1, 1e-12)
	assert.InDelta(t, 1.75, tri.InsetLeg2, 1e-12)
	assert.InDelta(t, 0.25, tri.InnerLeg2End.X, 1e-12)
	assert.InDelta(t, 2, tri.InnerLeg2End.Y, 1e-12)
}

func TestSolveLawOfCosinesAndAngleSum(t *testing.T) {
	tests := []struct {
		name        string
		b, c, angle float64
		thickness   float64
	}{
		{"acute", 2, 3, 30, 0.1},
		{"right", 1, 4, 90, 0.2},
		{"obtuse", 3, 1, 135, 0.05},
		{"obtuse opposite leg", 1, 3, 150, 0.05},
		{"near flat", 2, 2, 179, 0.001},
		{"narrow", 5, 5, 5, 0.01},
		{"obtuse opposite angle", 3, 1, 30, 0.05},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tri, err := Solve(tt.b, tt.c, tt.angle, tt.thickness)
			require.NoError(t, err)

			A := Rad(tt.angle)
			want := tt.b*tt.b + tt.c*tt.c - 2*tt.b*tt.c*math.Cos(A)
			assert.InDelta(t, want, tri.ThirdSide*tri.ThirdSide, 1e-9)
			assert.InDelta(t, 180, tri.Angle+tri.AngleB+tri.AngleC, 1e-9)

			// Law of sines holds for both recovered angles.
			ratio := tri.ThirdSide / math.Sin(A)
			assert.InDelta(t, ratio, tt.b/math.Sin(Rad(tri.AngleB)), 1e-6*ratio)
			assert.InDelta(t, ratio, tt.c/math.Sin(Rad(tri.AngleC)), 1e-6*ratio)

			// Leg ends match the solved chord.
			assert.InDelta(t, tri.ThirdSide, r3.Norm(r3.Sub(tri.Leg1End, tri.Leg2End)), 1e-9)
		})
	}
}

func TestSolveInnerCornerOnBothOffsets(t *testing.T) {
	tri, err := Solve(3, 2, 60, 0.3)
	require.NoError(t, err)

	// The inner corner sits thickness away from both legs.
	assert.InDelta(t, 0.3, tri.InnerCorner.Y, 1e-12)
	n2 := tri.Leg2Normal()
	assert.InDelta(t, 0.3, r3.Dot(tri.InnerCorner, n2), 1e-12)
	assert.InDelta(t, tri.InsetLeg2, r3.Norm(r3.Sub(tri.InnerLeg2End, tri.InnerCorner)), 1e-9)
}

func TestSolveDegenerate(t *testing.T) {
	tests := []struct {
		name                   string
		b, c, angle, thickness float64
		param                  string
	}{
		{"zero leg", 0, 2, 90, 0.1, "leg1"},
		{"negative leg", 2, -1, 90, 0.1, "leg2"},
		{"zero angle", 2, 2, 0, 0.1, "angle"},
		{"straight angle", 2, 2, 180, 0.1, "angle"},
		{"negative thickness", 2, 2, 90, -0.1, "thickness"},
		{"thickness eats leg", 0.5, 2, 90, 0.6, "thickness"},
		{"nan", math.NaN(), 2, 90, 0.1, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Solve(tt.b, tt.c, tt.angle, tt.thickness)
			var ge *tileerr.GeometryError
			require.True(t, errors.As(err, &ge), "expected GeometryError, got %v", err)
			assert.Equal(t, tt.param, ge.Param)
		})
	}
}

func TestArcPointEndpoints(t *testing.T) {
	start := r3.Vec{Y: 2}
	heading := r3.Vec{X: 1}
	side := r3.Vec{Y: -1}

	for _, deg := range []float64{1, 45, 90, 180, 270, 359.9} {
		end := ArcPoint(start, heading, side, 2, deg)
		want := r3.Vec{X: 2 * math.Sin(Rad(deg)), Y: 2 * math.Cos(Rad(deg))}
		assert.InDelta(t, 0, r3.Norm(r3.Sub(end, want)), 1e-9, "deg=%g", deg)
	}
	assert.Equal(t, start, ArcPoint(start, heading, side, 2, 0))
}

func TestPlacementCompose(t *testing.T) {
	p := RotationZ(90).Then(Translation(r3.Vec{X: 1}))
	got := p.Apply(r3.Vec{X: 1})
	assert.InDelta(t, 1, got.X, 1e-12)
	assert.InDelta(t, 1, got.Y, 1e-12)

	about := RotateAbout(r3.Vec{X: 1, Y: 1}, 180)
	got = about.Apply(r3.Vec{X: 2, Y: 1, Z: 3})
	assert.InDelta(t, 0, got.X, 1e-12)
	assert.InDelta(t, 1, got.Y, 1e-12)
	assert.InDelta(t, 3, got.Z, 1e-12)

	assert.True(t, Identity().IsIdentity())
	assert.False(t, Translation(r3.Vec{Z: 1}).IsIdentity())
}

func TestBend(t *testing.T) {
	r := 2.0
	b := Bend{Length: ArcLength(r, 90), Degrees: 90, Clockwise: true, Enabled: true}

	start := b.Apply(r3.Vec{X: 0, Y: r, Z: 0.5})
	assert.InDelta(t, 0, start.X, 1e-12)
	assert.InDelta(t, r, start.Y, 1e-12)
	assert.InDelta(t, 0.5, start.Z, 1e-12)

	end := b.Apply(r3.Vec{X: b.Length, Y: r})
	assert.InDelta(t, r, end.X, 1e-12)
	assert.InDelta(t, 0, end.Y, 1e-12)

	b.Clockwise = false
	end = b.Apply(r3.Vec{X: b.Length, Y: r})
	assert.InDelta(t, -r, end.X, 1e-12)

	b.Enabled = false
	v := r3.Vec{X: 1, Y: 2, Z: 3}
	assert.Equal(t, v, b.Apply(v))
}
