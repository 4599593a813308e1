package recipe

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/tilesmith/pkg/params"
	"github.com/chazu/tilesmith/pkg/tile"
)

func init() {
	register(params.Straight, tile.Base, params.Plain, straightBase)
	register(params.Straight, tile.Base, params.SnapFit, withCutters(straightBase, straightBaseCutters))
	register(params.Straight, tile.Base, params.None, emptyPart)
	register(params.Straight, tile.Core, params.Plain, straightCore)
	register(params.Straight, tile.Core, params.SnapFit, withCutters(straightCore, straightSideCutters))
	register(params.Straight, tile.Core, params.None, emptyPart)
}

// straightBase is a single cuboid with its corner at the origin.
func straightBase(b *builder) (*tile.Part, error) {
	bs := b.p.BaseSize
	t := b.turtle()
	if err := t.Cuboid(bs, [3]int{1, 1, 1}); err != nil {
		return nil, err
	}
	return &tile.Part{
		Kind: tile.Base,
		Name: b.p.Name + ".base",
		Mesh: t.Mesh(),
		Profile: &tile.Profile{
			Outline: rect(0, 0, bs.X, bs.Y),
			Height:  bs.Z,
		},
	}, nil
}

// straightCore sits on the base, centred across the base thickness.
func straightCore(b *builder) (*tile.Part, error) {
	ts := b.p.TileSize
	inset, z0, h := b.p.CoreInset(), b.p.BaseHeight(), b.p.CoreHeight()

	t := b.turtle()
	if err := t.MoveTo(r3.Vec{Y: inset, Z: z0}); err != nil {
		return nil, err
	}
	sub := [3]int{b.p.Sub.X, b.p.Sub.Y, b.p.Sub.Z}
	if err := t.Cuboid(r3.Vec{X: ts.X, Y: ts.Y, Z: h}, sub); err != nil {
		return nil, err
	}
	return &tile.Part{
		Kind: tile.Core,
		Name: b.p.Name + ".core",
		Mesh: t.Mesh(),
		Profile: &tile.Profile{
			Outline: rect(0, inset, ts.X, inset+ts.Y),
			Z0:      z0,
			Height:  h,
		},
	}, nil
}
