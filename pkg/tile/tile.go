// Package tile holds the planned result of a build: a base, an optional
// core and displacement core, the cutters attached to each and the
// metadata that lets a tile be rebuilt.
package tile

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/tilesmith/pkg/cutter"
	"github.com/chazu/tilesmith/pkg/displace"
	"github.com/chazu/tilesmith/pkg/geom"
	"github.com/chazu/tilesmith/pkg/mesh"
	"github.com/chazu/tilesmith/pkg/params"
	"github.com/chazu/tilesmith/pkg/zone"
)

// PartKind identifies a part of a tile.
type PartKind int

const (
	Base PartKind = iota
	Core
	DisplacementCore
)

func (k PartKind) String() string {
	switch k {
	case Base:
		return "base"
	case Core:
		return "core"
	case DisplacementCore:
		return "displacement"
	default:
		return fmt.Sprintf("PartKind(%d)", int(k))
	}
}

// ParsePartKind parses a part kind name.
func ParsePartKind(s string) (PartKind, error) {
	for k := Base; k <= DisplacementCore; k++ {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("tile: unknown part %q", s)
}

// Profile is the footprint of a part for kernel replay: a closed XY
// polygon extruded from Z0 by Height.
type Profile struct {
	Outline [][2]float64
	Z0      float64
	Height  float64
}

// Part is one planned solid.
type Part struct {
	Kind    PartKind
	Name    string
	Mesh    *mesh.Mesh
	Zones   zone.Set
	Missing []zone.Zone
	Profile *Profile
	Bend    geom.Bend
	Cutters cutter.Set
}

// IsEmpty reports whether the part carries no geometry, as a base built
// with the None blueprint does.
func (p *Part) IsEmpty() bool {
	return p == nil || p.Mesh == nil || p.Mesh.IsEmpty()
}

// Attach adds a cutter to the part.
func (p *Part) Attach(in *cutter.Instance) error {
	if err := p.Cutters.Attach(in); err != nil {
		return fmt.Errorf("tile: %s: %w", p.Name, err)
	}
	return nil
}

// SetCutter enables or disables the named cutter.
func (p *Part) SetCutter(name string, enabled bool) error {
	if err := p.Cutters.SetEnabled(name, enabled); err != nil {
		return fmt.Errorf("tile: %s: %w", p.Name, err)
	}
	return nil
}

// Bounds returns the part's bounds with its bend applied.
func (p *Part) Bounds() (min, max r3.Vec) {
	if p.IsEmpty() {
		return min, max
	}
	if p.Bend.Enabled {
		return p.Mesh.Map(p.Bend.Apply).Bounds()
	}
	return p.Mesh.Bounds()
}

// Placed returns the part's mesh with its bend applied.
func (p *Part) Placed() *mesh.Mesh {
	if p.IsEmpty() {
		return mesh.New()
	}
	if p.Bend.Enabled {
		return p.Mesh.Map(p.Bend.Apply)
	}
	return p.Mesh.Clone()
}

// Tile is a built tile. Parts are planned in the tile frame; Origin
// places that frame in the world.
type Tile struct {
	Name      string
	Archetype params.Archetype
	Params    params.Parameters
	Origin    r3.Vec
	Base      *Part
	Core      *Part
	Displaced *Part
	Bake      *displace.Result
	Corner    *geom.Triangle // solved base triangle, corner tiles only
	Metadata  params.Metadata
}

// Parts returns the tile's parts in build order, skipping absent ones.
func (t *Tile) Parts() []*Part {
	var out []*Part
	for _, p := range []*Part{t.Base, t.Core, t.Displaced} {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}

// Part returns the part of the given kind.
func (t *Tile) Part(k PartKind) (*Part, bool) {
	for _, p := range t.Parts() {
		if p.Kind == k {
			return p, true
		}
	}
	return nil, false
}

// SetCutter toggles a cutter on one part of the tile.
func (t *Tile) SetCutter(k PartKind, name string, enabled bool) error {
	p, ok := t.Part(k)
	if !ok {
		return fmt.Errorf("tile: %s has no %s part", t.Name, k)
	}
	return p.SetCutter(name, enabled)
}
