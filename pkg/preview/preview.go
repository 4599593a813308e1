// Package preview draws a top-down PNG of a planned tile: part profiles,
// cutter footprints and the core's zone vertices. It needs no geometry
// kernel, so it works straight after a build.
package preview

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/colornames"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/tilesmith/pkg/tile"
	"github.com/chazu/tilesmith/pkg/zone"
)

// ColourScheme defines how the parts of a tile are coloured.
type ColourScheme struct {
	Background color.Color
	Base       color.Color
	Core       color.Color
	Edge       color.Color
	Cutter     color.Color
	Disabled   color.Color
	Zones      map[zone.Zone]color.Color
}

// DefaultScheme returns a reasonable default ColourScheme.
func DefaultScheme() *ColourScheme {
	return &ColourScheme{
		Background: colornames.White,
		Base:       colornames.Lightgray,
		Core:       colornames.Wheat,
		Edge:       colornames.Dimgray,
		Cutter:     colornames.Crimson,
		Disabled:   colornames.Darkgray,
		Zones: map[zone.Zone]color.Color{
			zone.Left:       colornames.Royalblue,
			zone.Right:      colornames.Steelblue,
			zone.Front:      colornames.Forestgreen,
			zone.Back:       colornames.Olivedrab,
			zone.Top:        colornames.Gold,
			zone.Bottom:     colornames.Sienna,
			zone.Leg1End:    colornames.Indigo,
			zone.Leg1Inner:  colornames.Mediumturquoise,
			zone.Leg1Outer:  colornames.Seagreen,
			zone.Leg1Top:    colornames.Goldenrod,
			zone.Leg1Bottom: colornames.Saddlebrown,
			zone.Leg2End:    colornames.Fuchsia,
			zone.Leg2Inner:  colornames.Lightseagreen,
			zone.Leg2Outer:  colornames.Darkgreen,
			zone.Leg2Top:    colornames.Orange,
			zone.Leg2Bottom: colornames.Maroon,
		},
	}
}

// Options controls rendering.
type Options struct {
	Size     int // image width and height in pixels
	Margin   int
	Scheme   *ColourScheme
	Zones    bool // draw zone vertices
	Disabled bool // draw disabled cutters
}

// DefaultOptions renders a 512 pixel image with zones.
func DefaultOptions() Options {
	return Options{Size: 512, Margin: 24, Scheme: DefaultScheme(), Zones: true}
}

// frame maps tile XY to pixels, Y up.
type frame struct {
	min   r3.Vec
	scale float64
	size  float64
	pad   float64
}

func (f frame) pt(v r3.Vec) (float64, float64) {
	return f.pad + (v.X-f.min.X)*f.scale, f.size - f.pad - (v.Y-f.min.Y)*f.scale
}

// Image renders t from above.
func Image(t *tile.Tile, o Options) (image.Image, error) {
	if t == nil {
		return nil, fmt.Errorf("preview: nil tile")
	}
	if o.Size <= 2*o.Margin {
		return nil, fmt.Errorf("preview: image size %d leaves no room inside margin %d", o.Size, o.Margin)
	}
	if o.Scheme == nil {
		o.Scheme = DefaultScheme()
	}
	min, max, ok := extent(t)
	if !ok {
		return nil, fmt.Errorf("preview: tile %s has nothing to draw", t.Name)
	}
	span := math.Max(max.X-min.X, max.Y-min.Y)
	if span <= 0 {
		return nil, fmt.Errorf("preview: tile %s has no footprint", t.Name)
	}
	f := frame{
		min:   min,
		scale: float64(o.Size-2*o.Margin) / span,
		size:  float64(o.Size),
		pad:   float64(o.Margin),
	}

	dc := gg.NewContext(o.Size, o.Size)
	dc.SetColor(o.Scheme.Background)
	dc.Clear()

	for _, p := range []*tile.Part{t.Base, t.Core} {
		if p == nil || p.Profile == nil {
			continue
		}
		fill := o.Scheme.Base
		if p.Kind == tile.Core {
			fill = o.Scheme.Core
		}
		polygon(dc, f, outline(p.Profile.Outline))
		dc.SetColor(fill)
		dc.FillPreserve()
		dc.SetColor(o.Scheme.Edge)
		dc.SetLineWidth(1.5)
		dc.Stroke()
	}

	for _, p := range []*tile.Part{t.Base, t.Core} {
		if p == nil {
			continue
		}
		for _, in := range p.Cutters.All() {
			if !in.Enabled && !o.Disabled {
				continue
			}
			dc.SetColor(o.Scheme.Cutter)
			dc.SetDash()
			if !in.Enabled {
				dc.SetColor(o.Scheme.Disabled)
				dc.SetDash(4, 3)
			}
			for _, fp := range in.Footprints() {
				polygon(dc, f, fp)
				dc.SetLineWidth(1)
				dc.Stroke()
			}
		}
	}
	dc.SetDash()

	if o.Zones && t.Core != nil {
		core := t.Core
		for _, z := range core.Zones.Zones() {
			c, ok := o.Scheme.Zones[z]
			if !ok {
				c = o.Scheme.Edge
			}
			dc.SetColor(c)
			for _, v := range core.Zones[z] {
				x, y := f.pt(core.Bend.Apply(core.Mesh.Verts[v]))
				dc.DrawCircle(x, y, 2)
				dc.Fill()
			}
		}
	}
	return dc.Image(), nil
}

// SavePNG renders t and writes it to path.
func SavePNG(t *tile.Tile, path string, o Options) error {
	im, err := Image(t, o)
	if err != nil {
		return err
	}
	if err := gg.SavePNG(path, im); err != nil {
		return fmt.Errorf("preview: writing %s: %w", path, err)
	}
	return nil
}

func polygon(dc *gg.Context, f frame, pts []r3.Vec) {
	dc.NewSubPath()
	for _, p := range pts {
		dc.LineTo(f.pt(p))
	}
	dc.ClosePath()
}

func outline(pts [][2]float64) []r3.Vec {
	out := make([]r3.Vec, len(pts))
	for i, p := range pts {
		out[i] = r3.Vec{X: p[0], Y: p[1]}
	}
	return out
}

// extent is the XY box covering every profile and the placed core.
func extent(t *tile.Tile) (min, max r3.Vec, ok bool) {
	min = r3.Vec{X: math.Inf(1), Y: math.Inf(1)}
	max = r3.Vec{X: math.Inf(-1), Y: math.Inf(-1)}
	grow := func(v r3.Vec) {
		min.X, min.Y = math.Min(min.X, v.X), math.Min(min.Y, v.Y)
		max.X, max.Y = math.Max(max.X, v.X), math.Max(max.Y, v.Y)
		ok = true
	}
	for _, p := range []*tile.Part{t.Base, t.Core} {
		if p == nil {
			continue
		}
		if p.Profile != nil {
			for _, v := range outline(p.Profile.Outline) {
				grow(v)
			}
		}
		if !p.IsEmpty() {
			lo, hi := p.Bounds()
			grow(lo)
			grow(hi)
		}
	}
	return min, max, ok
}
