// Package displace derives the displacement core of a tile: a copy of the
// preview core with its bend disabled and materials remapped so only the
// textured zones carry the primary material into the bake.
package displace

import (
	"math"
	"sort"

	"github.com/chazu/tilesmith/pkg/geom"
	"github.com/chazu/tilesmith/pkg/mesh"
	"github.com/chazu/tilesmith/pkg/params"
	"github.com/chazu/tilesmith/pkg/tileerr"
	"github.com/chazu/tilesmith/pkg/zone"
)

// Materials names the materials applied to zones.
type Materials struct {
	Primary   string
	Secondary string
	PerZone   map[zone.Zone]string
}

// DefaultMaterials returns the stock stone/plastic pair.
func DefaultMaterials() Materials {
	return Materials{Primary: "Stone", Secondary: "Plastic"}
}

// For returns the material of zone z.
func (m Materials) For(z zone.Zone) string {
	if name, ok := m.PerZone[z]; ok && name != "" {
		return name
	}
	return m.Primary
}

// Modifier is the parameter set of the displacement modifier driven by the
// baked texture.
type Modifier struct {
	Strength     float64
	MidLevel     float64
	Subdivisions int
	Resolution   int
}

// DefaultModifier returns the bake defaults.
func DefaultModifier() Modifier {
	return Modifier{Strength: 0.1, MidLevel: 0, Subdivisions: 3, Resolution: 1024}
}

// Input is the core a displacement is derived from.
type Input struct {
	Archetype params.Archetype
	Mesh      *mesh.Mesh
	Zones     zone.Set
	Bend      geom.Bend
}

// Copy is one material-assigned copy of the core.
type Copy struct {
	Mesh          *mesh.Mesh
	Zones         zone.Set
	Bend          geom.Bend
	FaceMaterials []string
}

// Assignment maps a zone to a material.
type Assignment struct {
	Zone     zone.Zone
	Material string
}

// Result holds both copies and what the bake needs.
type Result struct {
	Archetype    params.Archetype
	Preview      Copy
	Displacement Copy
	Table        []Assignment // sorted by zone
	Textured     []int        // sorted vertex ids receiving texture
	Modifier     Modifier
}

// Build derives the preview and displacement copies. It does not modify
// in, and building from the same input always gives the same result.
func Build(in Input, mat Materials, mod Modifier) (*Result, error) {
	if err := check(in, mat, mod); err != nil {
		err.Archetype = in.Archetype.String()
		return nil, err
	}

	zones := in.Zones.Clone()
	faceZones := FaceZones(in.Mesh, zones)

	preview := Copy{
		Mesh:          in.Mesh.Clone(),
		Zones:         zones,
		Bend:          in.Bend,
		FaceMaterials: make([]string, len(faceZones)),
	}
	disp := Copy{
		Mesh:          in.Mesh.Clone(),
		Zones:         zones.Clone(),
		Bend:          in.Bend,
		FaceMaterials: make([]string, len(faceZones)),
	}
	disp.Bend.Enabled = false

	for i, z := range faceZones {
		if z < 0 {
			preview.FaceMaterials[i] = mat.Primary
			disp.FaceMaterials[i] = mat.Secondary
			continue
		}
		preview.FaceMaterials[i] = mat.For(z)
		if zone.IsTextured(in.Archetype, z) {
			disp.FaceMaterials[i] = mat.For(z)
		} else {
			disp.FaceMaterials[i] = mat.Secondary
		}
	}

	var table []Assignment
	for _, z := range zones.Zones() {
		table = append(table, Assignment{Zone: z, Material: mat.For(z)})
	}

	seen := map[int]bool{}
	var textured []int
	for _, z := range zone.Textured(in.Archetype) {
		for _, v := range zones[z] {
			if !seen[v] {
				seen[v] = true
				textured = append(textured, v)
			}
		}
	}
	sort.Ints(textured)

	return &Result{
		Archetype:    in.Archetype,
		Preview:      preview,
		Displacement: disp,
		Table:        table,
		Textured:     textured,
		Modifier:     mod,
	}, nil
}

// FaceZones returns, per face, the first zone in enumeration order that
// holds every vertex of the face, or -1.
func FaceZones(m *mesh.Mesh, zones zone.Set) []zone.Zone {
	order := zones.Zones()
	out := make([]zone.Zone, len(m.Faces))
	for i, f := range m.Faces {
		out[i] = -1
		for _, z := range order {
			if containsAll(zones, z, f) {
				out[i] = z
				break
			}
		}
	}
	return out
}

func containsAll(s zone.Set, z zone.Zone, verts []int) bool {
	for _, v := range verts {
		if !s.Has(z, v) {
			return false
		}
	}
	return true
}

// PreviewMode returns a copy of r with the displacement strength zeroed,
// the state a tile returns to after a bake is discarded.
func (r *Result) PreviewMode() *Result {
	out := *r
	out.Modifier.Strength = 0
	return &out
}

// Material returns the table entry for z.
func (r *Result) Material(z zone.Zone) (string, bool) {
	i := sort.Search(len(r.Table), func(i int) bool { return r.Table[i].Zone >= z })
	if i < len(r.Table) && r.Table[i].Zone == z {
		return r.Table[i].Material, true
	}
	return "", false
}

func check(in Input, mat Materials, mod Modifier) *tileerr.ConfigError {
	const step = "displace"
	switch {
	case in.Mesh == nil || in.Mesh.IsEmpty():
		return tileerr.Config(step, "core", "core mesh is empty")
	case mat.Primary == "":
		return tileerr.Config(step, "materials.primary", "primary material is not set")
	case mat.Secondary == "":
		return tileerr.Config(step, "materials.secondary", "secondary material is not set")
	case math.IsNaN(mod.Strength) || math.IsInf(mod.Strength, 0):
		return tileerr.Config(step, "materials.strength", "strength %v is not finite", mod.Strength)
	case !geom.Finite(mod.MidLevel):
		return tileerr.Config(step, "materials.mid_level", "mid level %v is not finite", mod.MidLevel)
	case mod.Subdivisions < 0:
		return tileerr.Config(step, "materials.subdivisions", "subdivisions %d must not be negative", mod.Subdivisions)
	case mod.Resolution < 1:
		return tileerr.Config(step, "materials.resolution", "resolution %d must be at least 1", mod.Resolution)
	}
	return nil
}
