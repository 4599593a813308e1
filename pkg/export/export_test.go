package export

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unixpickle/model3d/model3d"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/tilesmith/pkg/kernel"
	"github.com/chazu/tilesmith/pkg/kernel/sdfx"
	"github.com/chazu/tilesmith/pkg/params"
	"github.com/chazu/tilesmith/pkg/recipe"
	"github.com/chazu/tilesmith/pkg/tile"
	"github.com/chazu/tilesmith/pkg/turtle"
)

func buildTile(t *testing.T, a params.Archetype, at r3.Vec) *tile.Tile {
	t.Helper()
	p := params.Defaults(a)
	p.Sub = params.Subdivisions{X: 3, Y: 1, Z: 2, Curve: 4, Leg1: 3, Leg2: 3, Width: 2}
	if a.IsFloor() {
		p.Sub.Z = 1
		p.TileSize.Z = 0.5
	}
	cur := turtle.Home()
	cur.Pos = at
	tl, err := recipe.Build(&cur, a, p, recipe.DefaultOptions())
	require.NoError(t, err)
	return tl
}

func TestMetadataRoundTrip(t *testing.T) {
	for _, a := range params.Archetypes() {
		t.Run(a.String(), func(t *testing.T) {
			tl := buildTile(t, a, r3.Vec{X: 1, Y: 2, Z: 3})
			var buf bytes.Buffer
			require.NoError(t, WriteMetadata(&buf, tl))

			rec, err := ReadMetadata(&buf)
			require.NoError(t, err)
			assert.Equal(t, tl.Name, rec.Tile)
			assert.Equal(t, [3]float64{1, 2, 3}, rec.Origin)

			arch, p, err := rec.Parameters()
			require.NoError(t, err)
			assert.Equal(t, a, arch)
			assert.Equal(t, tl.Params, p)
		})
	}
}

func TestMetadataListsBuiltParts(t *testing.T) {
	tl := buildTile(t, params.StraightWall, r3.Vec{})
	rec := NewRecord(tl)
	assert.Equal(t, []string{"base", "core", "displacement"}, rec.Parts)
}

func TestReadMetadataRejects(t *testing.T) {
	_, err := ReadMetadata(strings.NewReader("tile: x\n"))
	assert.Error(t, err)
	_, err = ReadMetadata(strings.NewReader("tile: [\n"))
	assert.Error(t, err)
}

func TestWriteSTL(t *testing.T) {
	tl := buildTile(t, params.StraightWall, r3.Vec{})
	flat := tl.Core.Mesh.Flat("core")

	var buf bytes.Buffer
	require.NoError(t, WriteSTL(&buf, flat))
	tris, err := model3d.ReadSTL(&buf)
	require.NoError(t, err)
	assert.Equal(t, flat.TriangleCount(), len(tris))

	assert.Error(t, WriteSTL(&buf, nil))
	assert.Error(t, WriteSTL(&buf, &kernel.Mesh{}))
}

func TestTilePlanned(t *testing.T) {
	dir := t.TempDir()
	tl := buildTile(t, params.StraightWall, r3.Vec{X: 5})

	files, err := Tile(dir, tl, nil)
	require.NoError(t, err)
	stem := filepath.Join(dir, "straight_wall")
	assert.Equal(t, []string{stem + ".base.stl", stem + ".core.stl", stem + ".yaml"}, files)

	f, err := os.Open(stem + ".core.stl")
	require.NoError(t, err)
	defer f.Close()
	tris, err := model3d.ReadSTL(f)
	require.NoError(t, err)
	require.NotEmpty(t, tris)
	m := model3d.NewMeshTriangles(tris)
	assert.InDelta(t, 5, m.Min().X, 1e-4)
	assert.InDelta(t, 7, m.Max().X, 1e-4)

	rec, err := LoadMetadata(stem + ".yaml")
	require.NoError(t, err)
	assert.Equal(t, [3]float64{5, 0, 0}, rec.Origin)
}

func TestTileRealized(t *testing.T) {
	dir := t.TempDir()
	tl := buildTile(t, params.StraightFloor, r3.Vec{})
	tl.Name = "floor a"

	files, err := Tile(dir, tl, sdfx.NewWithCells(30))
	require.NoError(t, err)
	require.Len(t, files, 3)
	for _, f := range files {
		assert.True(t, strings.HasPrefix(filepath.Base(f), "floor_a."), f)
		info, err := os.Stat(f)
		require.NoError(t, err)
		assert.NotZero(t, info.Size())
	}
}

func TestTileSkipsEmptyBase(t *testing.T) {
	p := params.Defaults(params.StraightWall)
	p.Sub = params.Subdivisions{X: 2, Y: 1, Z: 2}
	p.BaseBlueprint = params.None
	cur := turtle.Home()
	tl, err := recipe.Build(&cur, params.StraightWall, p, recipe.DefaultOptions())
	require.NoError(t, err)

	files, err := Tile(t.TempDir(), tl, nil)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.True(t, strings.HasSuffix(files[0], ".core.stl"))
}
