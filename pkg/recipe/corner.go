package recipe

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/tilesmith/pkg/geom"
	"github.com/chazu/tilesmith/pkg/params"
	"github.com/chazu/tilesmith/pkg/tile"
	"github.com/chazu/tilesmith/pkg/tileerr"
	"github.com/chazu/tilesmith/pkg/turtle"
	"github.com/chazu/tilesmith/pkg/zone"
)

func init() {
	register(params.Corner, tile.Base, params.Plain, cornerBase)
	register(params.Corner, tile.Base, params.SnapFit, withCutters(cornerBase, cornerBaseCutters))
	register(params.Corner, tile.Base, params.None, emptyPart)
	register(params.Corner, tile.Core, params.Plain, cornerCore)
	register(params.Corner, tile.Core, params.SnapFit, withCutters(cornerCore, cornerSideCutters))
	register(params.Corner, tile.Core, params.None, emptyPart)
}

// legs traces one L polyline at height z: from the end of leg 1 to the
// corner and out along leg 2, in n1 and n2 equal steps.
func (b *builder) legs(t *turtle.Turtle, start r3.Vec, len1, len2 float64) error {
	if err := t.Home(); err != nil {
		return err
	}
	if err := t.MoveTo(start); err != nil {
		return err
	}
	// Home faces +Y; leg 1 is walked towards the corner along -X.
	if err := t.TurnLeft(90); err != nil {
		return err
	}
	if err := t.PenDown(); err != nil {
		return err
	}
	n1, n2 := b.p.Sub.Leg1, b.p.Sub.Leg2
	for i := 0; i < n1; i++ {
		if err := t.Forward(len1 / float64(n1)); err != nil {
			return err
		}
	}
	if err := t.TurnRight(180 - b.p.CornerAngle); err != nil {
		return err
	}
	for i := 0; i < n2; i++ {
		if err := t.Forward(len2 / float64(n2)); err != nil {
			return err
		}
	}
	return t.PenUp()
}

// cornerSolid traces the outer and inner polylines of tri, offset by
// shift and lifted to z, bridges them and extrudes by height. It returns
// the turtle and the coordinates of both polylines.
func (b *builder) cornerSolid(tri geom.Triangle, shift r3.Vec, z, height float64, steps int) (*turtle.Turtle, []r3.Vec, []r3.Vec, error) {
	t := b.turtle()
	lift := r3.Add(shift, r3.Vec{Z: z})
	if err := b.legs(t, r3.Add(tri.Leg1End, lift), tri.Leg1, tri.Leg2); err != nil {
		return nil, nil, nil, err
	}
	if err := b.legs(t, r3.Add(tri.InnerLeg1End, lift), tri.InsetLeg1, tri.InsetLeg2); err != nil {
		return nil, nil, nil, err
	}

	loops := t.Loops()
	if len(loops) != 2 {
		return nil, nil, nil, tileerr.Geometry("trace", "", "expected 2 traced polylines, got %d", len(loops))
	}
	m := t.Mesh()
	outer := coords(m.Verts, loops[0])
	inner := coords(m.Verts, loops[1])
	if len(outer) != len(inner) {
		return nil, nil, nil, tileerr.Geometry("trace", "",
			"inner and outer references differ in length: %d and %d", len(inner), len(outer))
	}

	if _, err := t.Bridge(b.p.Sub.Width - 1); err != nil {
		return nil, nil, nil, err
	}
	if _, err := t.Extrude(height, steps); err != nil {
		return nil, nil, nil, err
	}
	return t, outer, inner, nil
}

func coords(vs []r3.Vec, idx []int) []r3.Vec {
	out := make([]r3.Vec, len(idx))
	for i, v := range idx {
		out[i] = vs[v]
	}
	return out
}

func cornerBase(b *builder) (*tile.Part, error) {
	bs := b.p.BaseSize
	tri, err := geom.Solve(b.p.Leg1, b.p.Leg2, b.p.CornerAngle, bs.Y)
	if err != nil {
		return nil, err
	}
	b.corner = &tri
	t, outer, inner, err := b.cornerSolid(tri, r3.Vec{}, 0, bs.Z, 1)
	if err != nil {
		return nil, err
	}
	return &tile.Part{
		Kind: tile.Base,
		Name: b.p.Name + ".base",
		Mesh: t.Mesh(),
		Profile: &tile.Profile{
			Outline: b.cornerOutline(outer, inner),
			Height:  bs.Z,
		},
	}, nil
}

func (b *builder) cornerOutline(outer, inner []r3.Vec) [][2]float64 {
	c := b.p.Sub.Leg1
	pick := func(pts []r3.Vec, i int) [2]float64 { return [2]float64{pts[i].X, pts[i].Y} }
	last := len(outer) - 1
	return [][2]float64{
		pick(outer, 0), pick(outer, c), pick(outer, last),
		pick(inner, last), pick(inner, c), pick(inner, 0),
	}
}

// cornerCore runs the solver twice: once to inset the core from the base
// edge, then for the core's own thickness.
func cornerCore(b *builder) (*tile.Part, error) {
	inset := b.p.CoreInset()
	ty, z0, h := b.p.TileSize.Y, b.p.BaseHeight(), b.p.CoreHeight()

	offset, err := geom.Solve(b.p.Leg1, b.p.Leg2, b.p.CornerAngle, inset)
	if err != nil {
		return nil, err
	}
	tri, err := geom.Solve(offset.InsetLeg1, offset.InsetLeg2, b.p.CornerAngle, ty)
	if err != nil {
		return nil, err
	}
	if b.corner == nil {
		b.corner = &offset
	}

	t, outer, inner, err := b.cornerSolid(tri, offset.InnerCorner, z0, h, b.p.Sub.Z)
	if err != nil {
		return nil, err
	}
	b.cornerZones(outer, inner, h)

	return &tile.Part{
		Kind: tile.Core,
		Name: b.p.Name + ".core",
		Mesh: t.Mesh(),
		Profile: &tile.Profile{
			Outline: b.cornerOutline(outer, inner),
			Z0:      z0,
			Height:  h,
		},
	}, nil
}

// cornerZones records the path rules for an L core from its traced
// polylines. Index 0 is the end of leg 1, index n1 the corner and the
// last index the end of leg 2.
func (b *builder) cornerZones(outer, inner []r3.Vec, h float64) {
	n1 := b.p.Sub.Leg1
	last := len(outer) - 1
	all := zone.Layers(h, b.p.Sub.Z)
	bottom, top := []float64{0}, []float64{h}

	rungs := func(from, to int) [][2]r3.Vec {
		var out [][2]r3.Vec
		for i := from; i <= to; i++ {
			out = append(out, [2]r3.Vec{outer[i], inner[i]})
		}
		return out
	}

	b.pathRules = []zone.PathRule{
		{Zone: zone.Leg1Outer, Pairs: [][2]r3.Vec{{outer[0], outer[n1]}}, Layers: all},
		{Zone: zone.Leg1Inner, Pairs: [][2]r3.Vec{{inner[0], inner[n1]}}, Layers: all},
		{Zone: zone.Leg1End, Pairs: [][2]r3.Vec{{outer[0], inner[0]}}, Layers: all},
		{Zone: zone.Leg1Bottom, Pairs: rungs(0, n1), Layers: bottom},
		{Zone: zone.Leg1Top, Pairs: rungs(0, n1), Layers: top},
		{Zone: zone.Leg2Outer, Pairs: [][2]r3.Vec{{outer[n1], outer[last]}}, Layers: all},
		{Zone: zone.Leg2Inner, Pairs: [][2]r3.Vec{{inner[n1], inner[last]}}, Layers: all},
		{Zone: zone.Leg2End, Pairs: [][2]r3.Vec{{outer[last], inner[last]}}, Layers: all},
		{Zone: zone.Leg2Bottom, Pairs: rungs(n1, last), Layers: bottom},
		{Zone: zone.Leg2Top, Pairs: rungs(n1, last), Layers: top},
	}
	if b.arch.IsFloor() {
		b.subtract = []subtraction{
			{Zone: zone.Leg1Top, From: []zone.Zone{zone.Leg1Outer, zone.Leg1Inner, zone.Leg1End}},
			{Zone: zone.Leg2Top, From: []zone.Zone{zone.Leg2Outer, zone.Leg2Inner, zone.Leg2End}},
		}
	}
}

func cornerBaseCutters(b *builder, p *tile.Part) error {
	if b.corner == nil {
		return nil
	}
	e, err := b.entry(wallClipID)
	if err != nil {
		return err
	}
	tri := *b.corner
	half := b.p.BaseSize.Y / 2
	centreSetback := half / math.Tan(geom.Rad(b.p.CornerAngle)/2)

	u2, n2 := tri.Leg2Dir(), tri.Leg2Normal()
	runs := []struct {
		name       string
		start, dir r3.Vec
		length     float64
	}{
		{"Clip Leg 1", r3.Vec{X: tri.Leg1 - clipInset, Y: half}, r3.Vec{X: -1}, tri.Leg1 - centreSetback - 2*clipInset},
		{"Clip Leg 2", r3.Add(r3.Add(tri.Leg2End, r3.Scale(half, n2)), r3.Scale(-clipInset, u2)), r3.Scale(-1, u2), tri.Leg2 - centreSetback - 2*clipInset},
	}
	for _, r := range runs {
		if r.length < e.Width {
			continue
		}
		if err := p.Attach(clipRun(e, r.name, r.start, r.dir, r.length)); err != nil {
			return err
		}
	}
	return nil
}

// cornerSideCutters places side cutters on both leg end faces, facing
// into the core.
func cornerSideCutters(b *builder, p *tile.Part) error {
	if b.arch.IsFloor() {
		return nil
	}
	e, err := b.entry(sideCutterID)
	if err != nil {
		return err
	}
	mid := b.p.CoreInset() + b.p.TileSize.Y/2
	a := geom.Rad(b.p.CornerAngle)
	u2 := r3.Vec{X: math.Cos(a), Y: math.Sin(a)}
	n2 := r3.Vec{X: math.Sin(a), Y: -math.Cos(a)}
	end1 := r3.Vec{X: b.p.Leg1, Y: mid}
	end2 := r3.Add(r3.Scale(b.p.Leg2, u2), r3.Scale(mid, n2))
	if err := sidePair(b, p, e, "Leg 1", end1, 180, geom.Identity()); err != nil {
		return err
	}
	return sidePair(b, p, e, "Leg 2", end2, b.p.CornerAngle+180, geom.Identity())
}
