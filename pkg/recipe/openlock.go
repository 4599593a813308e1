package recipe

import (
	"math"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/tilesmith/pkg/cutter"
	"github.com/chazu/tilesmith/pkg/geom"
	"github.com/chazu/tilesmith/pkg/tile"
)

// OpenLOCK library entries.
const (
	sideCutterID     = "openlock.wall.cutter.side"
	wallClipID       = "openlock.wall.base.cutter.clip"
	wallClipSingleID = "openlock.wall.base.cutter.clip_single"
	floorClipID      = "openlock.floor.base.cutter.clip"
)

// OpenLOCK layout constants, in inches and degrees.
const (
	slotInset      = 0.236
	slotWidth      = 0.197
	slotHeight     = 0.25
	clipInset      = 0.5 // clip channels stop this far from each end
	sideBottomZ    = 0.63
	sideTopZ       = 1.38
	sidePitch      = 2
	sideBottomTrim = 1   // fit length is the tile height less this
	sideTopTrim    = 1.8 // likewise for the top row
	clipArcMargin  = 22.5
	clipArcPitch   = 22.5
)

// slotCutter is the stacking slot under a straight base.
func slotCutter(length float64) *cutter.Instance {
	return cutter.Procedural("Slot", geom.Identity(), cutter.Box(
		r3.Vec{X: length - 2*slotInset, Y: slotWidth, Z: slotHeight},
		r3.Vec{X: slotInset, Y: slotInset, Z: -0.001},
	))
}

// clipRun places a clip entry at start, running along dir for length.
func clipRun(e *cutter.Entry, name string, start, dir r3.Vec, length float64) *cutter.Instance {
	rot := geom.Deg(math.Atan2(dir.Y, dir.X))
	in := e.Place(name, geom.Placement{RotZ: rot, T: start})
	in.Array = cutter.LinearArray{Axis: dir, Pitch: e.Width, Width: e.Width, Length: length}
	return in
}

func straightBaseCutters(b *builder, p *tile.Part) error {
	bs := b.p.BaseSize
	if b.arch.IsFloor() {
		return floorClips(b, p, bs)
	}
	if bs.X > 2*slotInset {
		if err := p.Attach(slotCutter(bs.X)); err != nil {
			return err
		}
	}
	if bs.X < 1 {
		b.log.Debug("base too short for clip cutters", zap.Float64("length", bs.X))
		return nil
	}
	e, err := b.entry(wallClipID)
	if err != nil {
		return err
	}
	return p.Attach(clipRun(e, "Clip", r3.Vec{X: clipInset, Y: bs.Y / 2}, r3.Vec{X: 1}, bs.X-2*clipInset))
}

// floorClips runs a clip channel along each edge of a rectangular floor.
func floorClips(b *builder, p *tile.Part, bs r3.Vec) error {
	e, err := b.entry(floorClipID)
	if err != nil {
		return err
	}
	const edge = 0.25
	runs := []struct {
		name       string
		start, dir r3.Vec
		length     float64
	}{
		{"Clip Front", r3.Vec{X: clipInset, Y: edge}, r3.Vec{X: 1}, bs.X - 2*clipInset},
		{"Clip Back", r3.Vec{X: bs.X - clipInset, Y: bs.Y - edge}, r3.Vec{X: -1}, bs.X - 2*clipInset},
		{"Clip Left", r3.Vec{X: edge, Y: bs.Y - clipInset}, r3.Vec{Y: -1}, bs.Y - 2*clipInset},
		{"Clip Right", r3.Vec{X: bs.X - edge, Y: clipInset}, r3.Vec{Y: 1}, bs.Y - 2*clipInset},
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

// sidePair attaches the bottom and top rows of side cutters at one end of
// a wall core. at is the end face centre at floor level, rot the facing.
func sidePair(b *builder, p *tile.Part, e *cutter.Entry, prefix string, at r3.Vec, rot float64, then geom.Placement) error {
	tz := b.p.TileSize.Z
	rows := []struct {
		suffix string
		z      float64
		trim   float64
	}{
		{" Bottom", sideBottomZ, sideBottomTrim},
		{" Top", sideTopZ, sideTopTrim},
	}
	for _, r := range rows {
		if r.z+e.Width > tz {
			b.log.Debug("wall too low for side cutter", zap.String("cutter", prefix+r.suffix))
			continue
		}
		pl := geom.Placement{RotZ: rot, T: r3.Add(at, r3.Vec{Z: r.z})}.Then(then)
		in := e.Place(prefix+r.suffix, pl)
		in.Array = cutter.LinearArray{Axis: r3.Vec{Z: 1}, Pitch: sidePitch, Width: e.Width, Length: tz - r.trim}
		if err := p.Attach(in); err != nil {
			return err
		}
	}
	return nil
}

func straightSideCutters(b *builder, p *tile.Part) error {
	if b.arch.IsFloor() {
		return nil
	}
	e, err := b.entry(sideCutterID)
	if err != nil {
		return err
	}
	y := b.p.CoreInset() + b.p.TileSize.Y/2
	if err := sidePair(b, p, e, "X Neg", r3.Vec{Y: y}, 0, geom.Identity()); err != nil {
		return err
	}
	return sidePair(b, p, e, "X Pos", r3.Vec{X: b.p.TileSize.X, Y: y}, 180, geom.Identity())
}
