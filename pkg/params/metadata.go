package params

import (
	"fmt"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/spatial/r3"
)

// Metadata is the flat key/value record stored alongside a built tile so
// its parameters can be recovered without inspecting geometry.
type Metadata map[string]string

// Metadata keys.
const (
	KeyArchetype      = "archetype"
	KeyName           = "name"
	KeyBaseBlueprint  = "base_blueprint"
	KeyCoreBlueprint  = "core_blueprint"
	KeyTileSize       = "tile_size"
	KeyBaseSize       = "base_size"
	KeySubdivisions   = "subdivisions"
	KeyBaseRadius     = "base_radius"
	KeyArcDegrees     = "degrees_of_arc"
	KeyCurveDirection = "curve_direction"
	KeyLegs           = "leg_lengths"
	KeyCornerAngle    = "angle"
	KeySocketSide     = "socket_side"
)

// Metadata flattens the parameters of a tile of archetype a.
func (p Parameters) Metadata(a Archetype) Metadata {
	s := p.Sub
	return Metadata{
		KeyArchetype:      a.String(),
		KeyName:           p.Name,
		KeyBaseBlueprint:  p.BaseBlueprint.String(),
		KeyCoreBlueprint:  p.CoreBlueprint.String(),
		KeyTileSize:       formatFloats(p.TileSize.X, p.TileSize.Y, p.TileSize.Z),
		KeyBaseSize:       formatFloats(p.BaseSize.X, p.BaseSize.Y, p.BaseSize.Z),
		KeySubdivisions:   fmt.Sprintf("%d %d %d %d %d %d %d", s.X, s.Y, s.Z, s.Curve, s.Leg1, s.Leg2, s.Width),
		KeyBaseRadius:     formatFloats(p.BaseRadius),
		KeyArcDegrees:     formatFloats(p.ArcDegrees),
		KeyCurveDirection: p.CurveDirection.String(),
		KeyLegs:           formatFloats(p.Leg1, p.Leg2),
		KeyCornerAngle:    formatFloats(p.CornerAngle),
		KeySocketSide:     p.SocketSide.String(),
	}
}

// Keys returns the record's keys in sorted order.
func (m Metadata) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// FromMetadata recovers the archetype and parameters from a record.
// Missing optional keys keep the archetype's defaults.
func FromMetadata(m Metadata) (Archetype, Parameters, error) {
	a, err := ParseArchetype(m[KeyArchetype])
	if err != nil {
		return 0, Parameters{}, err
	}
	p := Defaults(a)
	if v, ok := m[KeyName]; ok {
		p.Name = v
	}

	var errs []error
	get := func(key string, n int, fn func([]float64)) {
		v, ok := m[key]
		if !ok {
			return
		}
		fs, err := parseFloats(v, n)
		if err != nil {
			errs = append(errs, fmt.Errorf("params: metadata %s: %w", key, err))
			return
		}
		fn(fs)
	}

	if v, ok := m[KeyBaseBlueprint]; ok {
		if p.BaseBlueprint, err = ParseBlueprint(v); err != nil {
			return 0, Parameters{}, err
		}
	}
	if v, ok := m[KeyCoreBlueprint]; ok {
		if p.CoreBlueprint, err = ParseBlueprint(v); err != nil {
			return 0, Parameters{}, err
		}
	}
	if v, ok := m[KeyCurveDirection]; ok {
		if p.CurveDirection, err = ParseCurveDirection(v); err != nil {
			return 0, Parameters{}, err
		}
	}
	if v, ok := m[KeySocketSide]; ok {
		if p.SocketSide, err = ParseSocketSide(v); err != nil {
			return 0, Parameters{}, err
		}
	}
	get(KeyTileSize, 3, func(f []float64) { p.TileSize = r3.Vec{X: f[0], Y: f[1], Z: f[2]} })
	get(KeyBaseSize, 3, func(f []float64) { p.BaseSize = r3.Vec{X: f[0], Y: f[1], Z: f[2]} })
	get(KeyBaseRadius, 1, func(f []float64) { p.BaseRadius = f[0] })
	get(KeyArcDegrees, 1, func(f []float64) { p.ArcDegrees = f[0] })
	get(KeyLegs, 2, func(f []float64) { p.Leg1, p.Leg2 = f[0], f[1] })
	get(KeyCornerAngle, 1, func(f []float64) { p.CornerAngle = f[0] })
	get(KeySubdivisions, 7, func(f []float64) {
		p.Sub = Subdivisions{
			X: int(f[0]), Y: int(f[1]), Z: int(f[2]),
			Curve: int(f[3]), Leg1: int(f[4]), Leg2: int(f[5]), Width: int(f[6]),
		}
	})
	if len(errs) > 0 {
		return 0, Parameters{}, errs[0]
	}
	return a, p, nil
}

func formatFloats(fs ...float64) string {
	out := make([]byte, 0, 16*len(fs))
	for i, f := range fs {
		if i > 0 {
			out = append(out, ' ')
		}
		out = strconv.AppendFloat(out, f, 'g', -1, 64)
	}
	return string(out)
}

func parseFloats(s string, n int) ([]float64, error) {
	var out []float64
	start := -1
	for i := 0; i <= len(s); i++ {
		if i < len(s) && s[i] != ' ' {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			f, err := strconv.ParseFloat(s[start:i], 64)
			if err != nil {
				return nil, err
			}
			out = append(out, f)
			start = -1
		}
	}
	if len(out) != n {
		return nil, fmt.Errorf("want %d values, got %d", n, len(out))
	}
	return out, nil
}
