package recipe

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/tilesmith/pkg/cutter"
	"github.com/chazu/tilesmith/pkg/geom"
	"github.com/chazu/tilesmith/pkg/params"
	"github.com/chazu/tilesmith/pkg/tile"
	"github.com/chazu/tilesmith/pkg/turtle"
)

func init() {
	register(params.Curved, tile.Base, params.Plain, curvedBase)
	register(params.Curved, tile.Base, params.SnapFit, withCutters(curvedBase, curvedBaseCutters))
	register(params.Curved, tile.Base, params.None, emptyPart)
	register(params.Curved, tile.Core, params.Plain, curvedCore)
	register(params.Curved, tile.Core, params.SnapFit, withCutters(curvedCore, curvedSideCutters))
	register(params.Curved, tile.Core, params.None, emptyPart)
}

func (b *builder) clockwise() bool {
	return b.p.CurveDirection == params.Clockwise
}

// arcFrom traces an arc of the given radius about the tile origin,
// starting on the +Y axis at height z.
func (b *builder) arcFrom(t *turtle.Turtle, radius, z float64) error {
	if err := t.Home(); err != nil {
		return err
	}
	if err := t.MoveTo(r3.Vec{Y: radius, Z: z}); err != nil {
		return err
	}
	turn, arc := t.TurnRight, t.Arc
	if !b.clockwise() {
		turn, arc = t.TurnLeft, t.ArcLeft
	}
	if err := turn(90); err != nil {
		return err
	}
	if err := t.PenDown(); err != nil {
		return err
	}
	if err := arc(radius, b.p.ArcDegrees, b.p.Sub.Curve); err != nil {
		return err
	}
	return t.PenUp()
}

// curvedBase is the annulus sector between the base radius and the base
// radius plus the base width, extruded to the base height.
func curvedBase(b *builder) (*tile.Part, error) {
	r, bs := b.p.BaseRadius, b.p.BaseSize
	t := b.turtle()
	if err := b.arcFrom(t, r, 0); err != nil {
		return nil, err
	}
	if err := b.arcFrom(t, r+bs.Y, 0); err != nil {
		return nil, err
	}
	if _, err := t.Bridge(0); err != nil {
		return nil, err
	}
	if _, err := t.Extrude(bs.Z, 1); err != nil {
		return nil, err
	}
	return &tile.Part{
		Kind: tile.Base,
		Name: b.p.Name + ".base",
		Mesh: t.Mesh(),
		Profile: &tile.Profile{
			Outline: b.sector(r, r+bs.Y),
			Height:  bs.Z,
		},
	}, nil
}

// coreRadius is the inner radius of the core: centred on the base for
// walls, flush with it for floors.
func (b *builder) coreRadius() float64 {
	if b.arch.IsFloor() {
		return b.p.BaseRadius
	}
	return b.p.BaseRadius + b.p.CoreInset()
}

// curvedCore is built straight, as long as the arc it bends into, and
// carries the bend as a separate transform so it can be switched off for
// the displacement bake.
func curvedCore(b *builder) (*tile.Part, error) {
	rc, ty := b.coreRadius(), b.p.TileSize.Y
	z0, h := b.p.BaseHeight(), b.p.CoreHeight()
	length := geom.ArcLength(rc, b.p.ArcDegrees)

	t := b.turtle()
	if err := t.MoveTo(r3.Vec{Y: rc, Z: z0}); err != nil {
		return nil, err
	}
	sub := [3]int{b.p.Sub.Curve, b.p.Sub.Y, b.p.Sub.Z}
	if err := t.Cuboid(r3.Vec{X: length, Y: ty, Z: h}, sub); err != nil {
		return nil, err
	}
	return &tile.Part{
		Kind: tile.Core,
		Name: b.p.Name + ".core",
		Mesh: t.Mesh(),
		Profile: &tile.Profile{
			Outline: b.sector(rc, rc+ty),
			Z0:      z0,
			Height:  h,
		},
		Bend: geom.Bend{
			Length:    length,
			Degrees:   b.p.ArcDegrees,
			Clockwise: b.clockwise(),
			Enabled:   b.opts.BendCores,
		},
	}, nil
}

// sector returns the closed outline of the annulus sector between two
// radii, with the same segmentation as the traced arcs.
func (b *builder) sector(inner, outer float64) [][2]float64 {
	n := b.p.Sub.Curve
	out := make([][2]float64, 0, 2*(n+1))
	point := func(r float64, i int) [2]float64 {
		phi := geom.Rad(b.p.ArcDegrees * float64(i) / float64(n))
		x := r * math.Sin(phi)
		if !b.clockwise() {
			x = -x
		}
		return [2]float64{x, r * math.Cos(phi)}
	}
	for i := 0; i <= n; i++ {
		out = append(out, point(inner, i))
	}
	for i := n; i >= 0; i-- {
		out = append(out, point(outer, i))
	}
	return out
}

func curvedBaseCutters(b *builder, p *tile.Part) error {
	e, err := b.entry(wallClipSingleID)
	if err != nil {
		return err
	}
	pl := geom.Translation(r3.Vec{Y: b.p.BaseRadius + b.p.BaseSize.Y/2})
	if b.p.SocketSide == params.Outer {
		pl.RotZ = 180
	}
	in := e.Place("Clip", pl)
	in.Array = cutter.CircularArray{
		Arc:       b.p.ArcDegrees,
		Margin:    clipArcMargin,
		Pitch:     clipArcPitch,
		Clockwise: b.clockwise(),
	}
	if in.Array.(cutter.CircularArray).Count() == 0 {
		in.Enabled = false
	}
	return p.Attach(in)
}

// curvedSideCutters places the side cutters on the two end faces of the
// bent core. The far pair is swung about the arc centre.
func curvedSideCutters(b *builder, p *tile.Part) error {
	if b.arch.IsFloor() {
		return nil
	}
	e, err := b.entry(sideCutterID)
	if err != nil {
		return err
	}
	at := r3.Vec{Y: b.coreRadius() + b.p.TileSize.Y/2}
	startRot, endRot, sweep := 0.0, 180.0, -b.p.ArcDegrees
	if !b.clockwise() {
		startRot, endRot, sweep = 180, 0, b.p.ArcDegrees
	}
	if err := sidePair(b, p, e, "X Neg", at, startRot, geom.Identity()); err != nil {
		return err
	}
	return sidePair(b, p, e, "X Pos", at, endRot, geom.RotateAbout(r3.Vec{}, sweep))
}
