package preview

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/colornames"

	"github.com/chazu/tilesmith/pkg/params"
	"github.com/chazu/tilesmith/pkg/recipe"
	"github.com/chazu/tilesmith/pkg/tile"
	"github.com/chazu/tilesmith/pkg/turtle"
)

func build(t *testing.T, a params.Archetype) *tile.Tile {
	t.Helper()
	p := params.Defaults(a)
	p.Sub = params.Subdivisions{X: 15, Y: 3, Z: 2, Curve: 6, Leg1: 4, Leg2: 4, Width: 2}
	cur := turtle.Home()
	tl, err := recipe.Build(&cur, a, p, recipe.DefaultOptions())
	require.NoError(t, err)
	return tl
}

func TestCoreIsFilled(t *testing.T) {
	o := DefaultOptions()
	o.Zones = false
	im, err := Image(build(t, params.StraightWall), o)
	require.NoError(t, err)
	assert.Equal(t, 512, im.Bounds().Dx())

	// (0.07, 0.25) in tile space sits inside the core, clear of cutter
	// outlines.
	r, g, b, _ := im.At(40, 430).RGBA()
	wr, wg, wb, _ := colornames.Wheat.RGBA()
	assert.Equal(t, [3]uint32{wr, wg, wb}, [3]uint32{r, g, b})

	r, g, b, _ = im.At(2, 2).RGBA()
	assert.Equal(t, [3]uint32{0xffff, 0xffff, 0xffff}, [3]uint32{r, g, b})
}

func TestEveryArchetypeRenders(t *testing.T) {
	for _, a := range params.Archetypes() {
		t.Run(a.String(), func(t *testing.T) {
			o := DefaultOptions()
			o.Size, o.Disabled = 128, true
			_, err := Image(build(t, a), o)
			assert.NoError(t, err)
		})
	}
}

func TestSavePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tile.png")
	o := DefaultOptions()
	o.Size = 200
	require.NoError(t, SavePNG(build(t, params.CurvedFloor), path, o))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 200, cfg.Width)
	assert.Equal(t, 200, cfg.Height)
}

func TestImageRejects(t *testing.T) {
	_, err := Image(nil, DefaultOptions())
	assert.Error(t, err)

	o := DefaultOptions()
	o.Size = 40
	_, err = Image(build(t, params.StraightFloor), o)
	assert.Error(t, err)
}
