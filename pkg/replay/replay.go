// Package replay realizes a planned tile against a geometry kernel. Each
// part's profile is extruded into a prism, its enabled cutters are
// subtracted, and the result is placed at the tile's origin.
package replay

import (
	"fmt"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/tilesmith/internal/logger"
	"github.com/chazu/tilesmith/pkg/cutter"
	"github.com/chazu/tilesmith/pkg/geom"
	"github.com/chazu/tilesmith/pkg/kernel"
	"github.com/chazu/tilesmith/pkg/tile"
)

// Visible are the parts shown by default: the base and the preview core.
var Visible = []tile.PartKind{tile.Base, tile.Core}

// Realize produces one triangle mesh per non-empty part of t, in kinds
// order (Visible when kinds is empty). The tile is not modified.
func Realize(t *tile.Tile, k kernel.Kernel, kinds ...tile.PartKind) ([]*kernel.Mesh, error) {
	if t == nil {
		return nil, nil
	}
	var meshes []*kernel.Mesh
	for _, p := range parts(t, kinds) {
		s, err := Solid(k, p, t.Origin)
		if err != nil {
			return nil, err
		}
		if s == nil {
			continue
		}
		m, err := k.ToMesh(s)
		if err != nil {
			return nil, fmt.Errorf("replay: ToMesh failed for part %s: %w", p.Name, err)
		}
		m.PartName = p.Name
		meshes = append(meshes, m)
	}
	return meshes, nil
}

// Remesh merges the chosen parts into one solid and rebuilds its surface
// on a voxel grid of cells along the longest axis.
func Remesh(t *tile.Tile, k kernel.Kernel, cells int, kinds ...tile.PartKind) (*kernel.Mesh, error) {
	if t == nil {
		return nil, fmt.Errorf("replay: nil tile")
	}
	var merged kernel.Solid
	for _, p := range parts(t, kinds) {
		s, err := Solid(k, p, t.Origin)
		if err != nil {
			return nil, err
		}
		switch {
		case s == nil:
		case merged == nil:
			merged = s
		default:
			merged = k.Union(merged, s)
		}
	}
	if merged == nil {
		return nil, fmt.Errorf("replay: tile %s has nothing to remesh", t.Name)
	}
	m, err := k.Remesh(merged, cells)
	if err != nil {
		return nil, fmt.Errorf("replay: remesh %s: %w", t.Name, err)
	}
	m.PartName = t.Name
	logger.Debug("remeshed tile", zap.String("tile", t.Name), zap.Int("cells", cells),
		zap.Int("triangles", m.TriangleCount()))
	return m, nil
}

func parts(t *tile.Tile, kinds []tile.PartKind) []*tile.Part {
	if len(kinds) == 0 {
		kinds = Visible
	}
	var out []*tile.Part
	for _, kind := range kinds {
		if p, ok := t.Part(kind); ok && !p.IsEmpty() {
			out = append(out, p)
		}
	}
	return out
}

// Solid realizes one part: its profile prism minus every enabled cutter,
// translated by origin. A part without a profile yields nil.
func Solid(k kernel.Kernel, p *tile.Part, origin r3.Vec) (kernel.Solid, error) {
	if p == nil || p.Profile == nil {
		return nil, nil
	}
	pr := p.Profile
	s, err := k.Prism(counterClockwise(pr.Outline), pr.Height)
	if err != nil {
		return nil, fmt.Errorf("replay: part %s: %w", p.Name, err)
	}
	s = k.Translate(s, 0, 0, pr.Z0)

	for _, in := range p.Cutters.Enabled() {
		c, err := Cutter(k, in)
		if err != nil {
			return nil, fmt.Errorf("replay: part %s: %w", p.Name, err)
		}
		if c == nil {
			continue
		}
		s = k.Difference(s, c)
	}
	if origin != (r3.Vec{}) {
		s = k.Translate(s, origin.X, origin.Y, origin.Z)
	}
	return s, nil
}

// Cutter unions every shape of every copy of in, in the part's frame. An
// instance whose array fits no copies yields nil.
func Cutter(k kernel.Kernel, in *cutter.Instance) (kernel.Solid, error) {
	var out kernel.Solid
	for _, pl := range in.Transforms() {
		for _, sh := range in.Shapes {
			s, err := shape(k, sh)
			if err != nil {
				return nil, fmt.Errorf("cutter %s: %w", in.Name, err)
			}
			s = place(k, s, pl)
			if out == nil {
				out = s
			} else {
				out = k.Union(out, s)
			}
		}
	}
	return out, nil
}

// shape builds a library shape at its anchor. Boxes and prisms anchor at
// their minimum corner, cylinders at their centre.
func shape(k kernel.Kernel, sh cutter.Shape) (kernel.Solid, error) {
	var (
		s   kernel.Solid
		err error
	)
	switch sh.Kind {
	case cutter.KindBox:
		s, err = k.Box(sh.Size[0], sh.Size[1], sh.Size[2])
	case cutter.KindCylinder:
		n := sh.Segments
		if n < 3 {
			n = 32
		}
		s, err = k.Cylinder(sh.Height, sh.Radius, n)
	case cutter.KindPrism:
		s, err = k.Prism(counterClockwise(sh.Profile), sh.Height)
	default:
		return nil, fmt.Errorf("unknown shape kind %q", sh.Kind)
	}
	if err != nil {
		return nil, err
	}
	return k.Translate(s, sh.At[0], sh.At[1], sh.At[2]), nil
}

func place(k kernel.Kernel, s kernel.Solid, pl geom.Placement) kernel.Solid {
	if pl.RotZ != 0 {
		s = k.Rotate(s, 0, 0, pl.RotZ)
	}
	if pl.T != (r3.Vec{}) {
		s = k.Translate(s, pl.T.X, pl.T.Y, pl.T.Z)
	}
	return s
}

// counterClockwise returns the outline wound counter-clockwise, reversing
// a copy when needed.
func counterClockwise(pts [][2]float64) [][2]float64 {
	if area(pts) >= 0 {
		return pts
	}
	out := make([][2]float64, len(pts))
	for i, p := range pts {
		out[len(pts)-1-i] = p
	}
	return out
}

// area is the signed shoelace area; positive for counter-clockwise.
func area(pts [][2]float64) float64 {
	var a float64
	for i, p := range pts {
		q := pts[(i+1)%len(pts)]
		a += p[0]*q[1] - q[0]*p[1]
	}
	return a / 2
}
