package displace

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/tilesmith/pkg/geom"
	"github.com/chazu/tilesmith/pkg/mesh"
	"github.com/chazu/tilesmith/pkg/params"
	"github.com/chazu/tilesmith/pkg/tileerr"
	"github.com/chazu/tilesmith/pkg/turtle"
	"github.com/chazu/tilesmith/pkg/zone"
)

// wallCore builds a 2x1x1 cuboid split in two along X, classified into
// the six slab zones.
func wallCore(t *testing.T) Input {
	t.Helper()
	cur := turtle.Home()
	tu := turtle.New(&cur, mesh.New())
	require.NoError(t, tu.Cuboid(r3.Vec{X: 2, Y: 1, Z: 1}, [3]int{2, 1, 1}))
	m := tu.Mesh()
	return Input{
		Archetype: params.StraightWall,
		Mesh:      m,
		Zones:     zone.Slabs(m, 1e-3),
		Bend:      geom.Bend{Length: 2, Degrees: 90, Enabled: true},
	}
}

func count(ms []string, name string) int {
	n := 0
	for _, m := range ms {
		if m == name {
			n++
		}
	}
	return n
}

func TestBuildWallMaterials(t *testing.T) {
	in := wallCore(t)
	require.Equal(t, 10, in.Mesh.FaceCount())

	r, err := Build(in, DefaultMaterials(), DefaultModifier())
	require.NoError(t, err)

	assert.Equal(t, 10, count(r.Preview.FaceMaterials, "Stone"))
	assert.Equal(t, 4, count(r.Displacement.FaceMaterials, "Stone"))
	assert.Equal(t, 6, count(r.Displacement.FaceMaterials, "Plastic"))

	assert.True(t, r.Preview.Bend.Enabled)
	assert.False(t, r.Displacement.Bend.Enabled)
	assert.Len(t, r.Table, 6)

	// Front and back together hold every vertex of a one-deep cuboid.
	assert.Len(t, r.Textured, in.Mesh.VertexCount())
}

func TestBuildPerZoneMaterial(t *testing.T) {
	in := wallCore(t)
	mat := DefaultMaterials()
	mat.PerZone = map[zone.Zone]string{zone.Top: "Grass"}

	r, err := Build(in, mat, DefaultModifier())
	require.NoError(t, err)
	assert.Equal(t, 2, count(r.Preview.FaceMaterials, "Grass"))
	// Top is not textured on a wall, so the displacement copy drops it.
	assert.Zero(t, count(r.Displacement.FaceMaterials, "Grass"))

	got, ok := r.Material(zone.Top)
	require.True(t, ok)
	assert.Equal(t, "Grass", got)
	_, ok = r.Material(zone.Leg1End)
	assert.False(t, ok)
}

func TestBuildIsIdempotent(t *testing.T) {
	in := wallCore(t)
	before := in.Mesh.Clone()

	a, err := Build(in, DefaultMaterials(), DefaultModifier())
	require.NoError(t, err)
	b, err := Build(in, DefaultMaterials(), DefaultModifier())
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Equal(t, before, in.Mesh)

	// Deriving again from the displacement copy changes nothing.
	again, err := Build(Input{
		Archetype: in.Archetype,
		Mesh:      a.Displacement.Mesh,
		Zones:     a.Displacement.Zones,
		Bend:      a.Displacement.Bend,
	}, DefaultMaterials(), DefaultModifier())
	require.NoError(t, err)
	assert.Equal(t, a.Displacement, again.Displacement)
}

func TestPreviewMode(t *testing.T) {
	r, err := Build(wallCore(t), DefaultMaterials(), DefaultModifier())
	require.NoError(t, err)
	p := r.PreviewMode()
	assert.Zero(t, p.Modifier.Strength)
	assert.InDelta(t, 0.1, r.Modifier.Strength, 1e-12)
	assert.Equal(t, 1024, p.Modifier.Resolution)
}

func TestBuildRejectsBadInput(t *testing.T) {
	tests := []struct {
		name  string
		mut   func(*Input, *Materials, *Modifier)
		param string
	}{
		{"empty mesh", func(in *Input, _ *Materials, _ *Modifier) { in.Mesh = mesh.New() }, "core"},
		{"no primary", func(_ *Input, m *Materials, _ *Modifier) { m.Primary = "" }, "materials.primary"},
		{"no secondary", func(_ *Input, m *Materials, _ *Modifier) { m.Secondary = "" }, "materials.secondary"},
		{"zero resolution", func(_ *Input, _ *Materials, m *Modifier) { m.Resolution = 0 }, "materials.resolution"},
		{"negative subdivisions", func(_ *Input, _ *Materials, m *Modifier) { m.Subdivisions = -1 }, "materials.subdivisions"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, mat, mod := wallCore(t), DefaultMaterials(), DefaultModifier()
			tt.mut(&in, &mat, &mod)
			_, err := Build(in, mat, mod)
			var ce *tileerr.ConfigError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, tt.param, ce.Param)
			assert.Equal(t, "straight_wall", ce.Archetype)
		})
	}
}
