package params

import (
	"github.com/chazu/tilesmith/pkg/geom"
	"github.com/chazu/tilesmith/pkg/tileerr"
	"gonum.org/v1/gonum/spatial/r3"
)

// Validate checks the fields the archetype uses. Failures are
// ConfigErrors naming the archetype and the offending parameter.
func (p Parameters) Validate(a Archetype) error {
	err := p.validate(a)
	if err != nil {
		err.Archetype = a.String()
		return err
	}
	return nil
}

func (p Parameters) validate(a Archetype) *tileerr.ConfigError {
	const step = "validate"
	if !a.Valid() {
		return tileerr.Config(step, "archetype", "unknown archetype %d", int(a))
	}
	for _, bp := range []struct {
		name string
		b    Blueprint
	}{{"base_blueprint", p.BaseBlueprint}, {"core_blueprint", p.CoreBlueprint}} {
		if bp.b < Plain || bp.b > None {
			return tileerr.Config(step, bp.name, "unknown blueprint %d", int(bp.b))
		}
	}
	if err := nonNegative(step, "tile_size", p.TileSize); err != nil {
		return err
	}
	if err := nonNegative(step, "base_size", p.BaseSize); err != nil {
		return err
	}
	if p.BaseBlueprint != None {
		if p.BaseSize.Y <= 0 || p.BaseSize.Z <= 0 {
			return tileerr.Config(step, "base_size", "base thickness and height must be positive, got %v", p.BaseSize)
		}
	}
	if p.CoreBlueprint != None {
		if p.TileSize.Y <= 0 {
			return tileerr.Config(step, "tile_size.y", "core thickness must be positive, got %g", p.TileSize.Y)
		}
		if p.CoreHeight() <= geom.Eps {
			return tileerr.Config(step, "tile_size.z", "tile height %g leaves no core above base height %g", p.TileSize.Z, p.BaseSize.Z)
		}
		if p.Sub.Y < 1 {
			return subErr(step, "subdivisions.y", p.Sub.Y)
		}
		if p.Sub.Z < 1 {
			return subErr(step, "subdivisions.z", p.Sub.Z)
		}
	}

	switch a.Family() {
	case Straight:
		if p.BaseBlueprint != None && p.BaseSize.X <= 0 {
			return tileerr.Config(step, "base_size.x", "base length must be positive, got %g", p.BaseSize.X)
		}
		if p.CoreBlueprint != None {
			if p.TileSize.X <= 0 {
				return tileerr.Config(step, "tile_size.x", "tile length must be positive, got %g", p.TileSize.X)
			}
			if p.Sub.X < 1 {
				return subErr(step, "subdivisions.x", p.Sub.X)
			}
		}
	case Curved:
		if !geom.Finite(p.BaseRadius) || p.BaseRadius <= 0 {
			return tileerr.Config(step, "base_radius", "radius must be positive, got %g", p.BaseRadius)
		}
		if !geom.Finite(p.ArcDegrees) || p.ArcDegrees <= 0 || p.ArcDegrees >= 360 {
			return tileerr.Config(step, "degrees_of_arc", "arc angle must be in (0, 360), got %g", p.ArcDegrees)
		}
		if p.Sub.Curve < 1 {
			return subErr(step, "subdivisions.curve", p.Sub.Curve)
		}
		if p.CurveDirection != Clockwise && p.CurveDirection != CounterClockwise {
			return tileerr.Config(step, "curve_direction", "unknown curve direction %d", int(p.CurveDirection))
		}
		if p.SocketSide != Inner && p.SocketSide != Outer {
			return tileerr.Config(step, "socket_side", "unknown socket side %d", int(p.SocketSide))
		}
	case Corner:
		if !geom.Finite(p.Leg1) || p.Leg1 <= 0 {
			return tileerr.Config(step, "leg_1_len", "leg length must be positive, got %g", p.Leg1)
		}
		if !geom.Finite(p.Leg2) || p.Leg2 <= 0 {
			return tileerr.Config(step, "leg_2_len", "leg length must be positive, got %g", p.Leg2)
		}
		if !geom.Finite(p.CornerAngle) || p.CornerAngle <= 0 || p.CornerAngle >= 180 {
			return tileerr.Config(step, "angle", "corner angle must be in (0, 180), got %g", p.CornerAngle)
		}
		for _, s := range []struct {
			name string
			n    int
		}{{"subdivisions.leg_1", p.Sub.Leg1}, {"subdivisions.leg_2", p.Sub.Leg2}, {"subdivisions.width", p.Sub.Width}} {
			if s.n < 1 {
				return subErr(step, s.name, s.n)
			}
		}
		// Leg tops exclude the edge vertices, so a one-segment floor top is empty.
		if a.IsFloor() && p.CoreBlueprint != None && p.Sub.Width < 2 {
			return tileerr.Config(step, "subdivisions.width", "floor corner needs at least 2 width subdivisions, got %d", p.Sub.Width)
		}
	}
	return nil
}

func nonNegative(step, name string, v r3.Vec) *tileerr.ConfigError {
	if !geom.FiniteVec(v) {
		return tileerr.Config(step, name, "size must be finite, got %v", v)
	}
	if v.X < 0 || v.Y < 0 || v.Z < 0 {
		return tileerr.Config(step, name, "size must not be negative, got %v", v)
	}
	return nil
}

func subErr(step, name string, n int) *tileerr.ConfigError {
	return tileerr.Config(step, name, "subdivisions must be at least 1, got %d", n)
}
