package zone

import (
	"testing"

	"github.com/chazu/tilesmith/pkg/mesh"
	"github.com/chazu/tilesmith/pkg/params"
	"github.com/chazu/tilesmith/pkg/turtle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

// box traces a subdivided cuboid at the origin.
func box(t *testing.T, size r3.Vec, sub [3]int) *mesh.Mesh {
	t.Helper()
	cur := turtle.Home()
	tt := turtle.New(&cur, mesh.New())
	require.NoError(t, tt.Cuboid(size, sub))
	return tt.Mesh()
}

func TestRequiredCoversEveryArchetype(t *testing.T) {
	for _, a := range params.Archetypes() {
		req := Required(a)
		assert.NotEmpty(t, req, a.String())
		for _, z := range Textured(a) {
			assert.Contains(t, req, z, "%s textured zone %s must be required", a, z)
			assert.True(t, IsTextured(a, z))
		}
	}
	assert.Len(t, Required(params.LWall), 10)
	assert.False(t, IsTextured(params.StraightWall, Top))
}

func TestZoneNames(t *testing.T) {
	for z := Zone(0); z < zoneCount; z++ {
		got, err := Parse(z.String())
		require.NoError(t, err)
		assert.Equal(t, z, got)
	}
	_, err := Parse("Leg 3 End")
	assert.Error(t, err)
}

func TestSlabsStraightWall(t *testing.T) {
	m := box(t, r3.Vec{X: 2, Y: 0.3149, Z: 1.7245}, [3]int{15, 3, 15})
	s := Slabs(m, 1e-3)

	assert.Empty(t, s.Missing(Required(params.StraightWall)))
	// A 15x15 face grid has 16x16 vertices.
	assert.Equal(t, 16*16, s.Count(Front))
	assert.Equal(t, 16*16, s.Count(Back))
	assert.Equal(t, 4*16, s.Count(Left))
	assert.Equal(t, 16*4, s.Count(Top))

	for _, v := range s[Front] {
		assert.InDelta(t, 0, m.Verts[v].Y, 1e-9)
	}
	// Seams overlap: the bottom front edge is in both zones.
	shared := 0
	for _, v := range s[Front] {
		if s.Has(Bottom, v) {
			shared++
		}
	}
	assert.Equal(t, 16, shared)
}

func TestSlabsEmptyMesh(t *testing.T) {
	s := Slabs(mesh.New(), 1e-3)
	assert.Len(t, s.Missing(boxZones), 6)
}

func TestPathsAcrossGrid(t *testing.T) {
	m := box(t, r3.Vec{X: 4, Y: 1, Z: 2}, [3]int{4, 2, 2})

	rules := []PathRule{
		{
			Zone:   Leg1Outer,
			Pairs:  [][2]r3.Vec{{{X: 0}, {X: 4}}},
			Layers: Layers(2, 2),
		},
		{
			Zone:  Leg1End,
			Pairs: [][2]r3.Vec{{{X: 4}, {X: 4, Y: 1}}},
		},
	}
	s := Paths(m, rules, 1e-4)

	// Five vertices along X on each of three layers.
	assert.Equal(t, 15, s.Count(Leg1Outer))
	for _, v := range s[Leg1Outer] {
		assert.InDelta(t, 0, m.Verts[v].Y, 1e-9)
	}
	// Across the width at x=4, bottom layer only: y = 0, 0.5, 1.
	assert.Equal(t, 3, s.Count(Leg1End))
}

func TestPathsSkipsUnmatchedLayer(t *testing.T) {
	m := box(t, r3.Vec{X: 1, Y: 1, Z: 1}, [3]int{1, 1, 1})
	rules := []PathRule{{
		Zone:   Leg2Outer,
		Pairs:  [][2]r3.Vec{{{X: 0}, {X: 1}}},
		Layers: []float64{0, 0.5, 1},
	}}
	s := Paths(m, rules, 1e-4)

	// The middle layer has no vertices and is skipped.
	assert.Equal(t, 4, s.Count(Leg2Outer))
	assert.Empty(t, s.Missing([]Zone{Leg2Outer}))
}

func TestSetOps(t *testing.T) {
	s := Set{}
	s.Add(Top, 5, 1, 3, 1)
	assert.Equal(t, []int{1, 3, 5}, s[Top])
	s.Add(Top, 2)
	assert.Equal(t, []int{1, 2, 3, 5}, s[Top])
	s.Remove(Top, 3, 9)
	assert.Equal(t, []int{1, 2, 5}, s[Top])
	assert.True(t, s.Has(Top, 2))
	assert.False(t, s.Has(Top, 3))

	s.Add(Bottom)
	assert.Equal(t, []Zone{Top, Bottom}, s.Zones())
	assert.Equal(t, []Zone{Bottom, Left}, s.Missing([]Zone{Top, Bottom, Left}))

	c := s.Clone()
	c.Add(Top, 7)
	assert.False(t, s.Has(Top, 7))
	assert.Equal(t, []string{"Top", "Bottom"}, Names(s.Zones()))
}

func TestLayers(t *testing.T) {
	got := Layers(1.5, 3)
	require.Len(t, got, 4)
	assert.InDelta(t, 0.5, got[1], 1e-12)
	assert.Equal(t, 1.5, got[3])
}
