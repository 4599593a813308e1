package zone

import (
	"math"

	"github.com/chazu/tilesmith/internal/logger"
	"github.com/chazu/tilesmith/pkg/mesh"
	"github.com/unixpickle/model3d/model3d"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"
)

// Slabs assigns vertices to the six bounding-box face zones. A vertex
// within tol of a face of the box belongs to that face's zone, so edge
// and corner vertices land in two or three zones.
func Slabs(m *mesh.Mesh, tol float64) Set {
	s := make(Set, len(boxZones))
	for _, z := range boxZones {
		s.Add(z)
	}
	if len(m.Verts) == 0 {
		return s
	}
	min, max := m.Bounds()
	for i, v := range m.Verts {
		if math.Abs(v.X-min.X) <= tol {
			s[Left] = append(s[Left], i)
		}
		if math.Abs(v.X-max.X) <= tol {
			s[Right] = append(s[Right], i)
		}
		if math.Abs(v.Y-min.Y) <= tol {
			s[Front] = append(s[Front], i)
		}
		if math.Abs(v.Y-max.Y) <= tol {
			s[Back] = append(s[Back], i)
		}
		if math.Abs(v.Z-min.Z) <= tol {
			s[Bottom] = append(s[Bottom], i)
		}
		if math.Abs(v.Z-max.Z) <= tol {
			s[Top] = append(s[Top], i)
		}
	}
	return s
}

// PathRule describes one path-based zone. For every layer offset and every
// reference pair, the vertices nearest the two (offset) reference points
// are joined by the shortest mesh path, and the whole path joins the
// zone.
type PathRule struct {
	Zone   Zone
	Pairs  [][2]r3.Vec
	Layers []float64 // Z offsets; nil means the pairs are used as given
}

// Locator finds mesh vertices near reference coordinates.
type Locator struct {
	m     *mesh.Mesh
	tree  *model3d.CoordTree
	index map[model3d.Coord3D]int
	tol   float64
	paths *mesh.Paths
}

// NewLocator indexes m for nearest-vertex lookups within tol.
func NewLocator(m *mesh.Mesh, tol float64) *Locator {
	coords := make([]model3d.Coord3D, 0, len(m.Verts))
	index := make(map[model3d.Coord3D]int, len(m.Verts))
	for i, v := range m.Verts {
		c := mesh.Coord(v)
		if _, dup := index[c]; dup {
			continue
		}
		index[c] = i
		coords = append(coords, c)
	}
	l := &Locator{m: m, index: index, tol: tol}
	if len(coords) > 0 {
		l.tree = model3d.NewCoordTree(coords)
	}
	return l
}

// Nearest returns the vertex closest to p if it lies within tolerance.
func (l *Locator) Nearest(p r3.Vec) (int, bool) {
	if l.tree == nil {
		return 0, false
	}
	found := l.tree.KNN(1, mesh.Coord(p))
	if len(found) == 0 || found[0].Dist(mesh.Coord(p)) > l.tol {
		return 0, false
	}
	return l.index[found[0]], true
}

// Path returns the vertices on the shortest mesh path between the
// vertices nearest a and b. ok is false when either end has no vertex
// within tolerance.
func (l *Locator) Path(a, b r3.Vec) (verts []int, ok bool) {
	ia, okA := l.Nearest(a)
	ib, okB := l.Nearest(b)
	if !okA || !okB {
		return nil, false
	}
	if l.paths == nil {
		l.paths = l.m.Paths()
	}
	p := l.paths.Between(ia, ib)
	if p == nil {
		return []int{ia, ib}, true
	}
	return p, true
}

// Paths classifies m with path rules. Reference points that match no
// vertex skip their layer rather than failing; the caller checks the
// result against the archetype's required zones.
func Paths(m *mesh.Mesh, rules []PathRule, tol float64) Set {
	loc := NewLocator(m, tol)
	s := make(Set, len(rules))
	for _, r := range rules {
		s.Add(r.Zone)
		layers := r.Layers
		if layers == nil {
			layers = []float64{0}
		}
		skipped := 0
		for _, dz := range layers {
			lift := r3.Vec{Z: dz}
			for _, pair := range r.Pairs {
				verts, ok := loc.Path(r3.Add(pair[0], lift), r3.Add(pair[1], lift))
				if !ok {
					skipped++
					continue
				}
				s.Add(r.Zone, verts...)
			}
		}
		if skipped > 0 {
			logger.Debug("zone: reference points unmatched",
				zap.String("zone", r.Zone.String()), zap.Int("skipped", skipped))
		}
	}
	return s
}

// Layers returns n+1 evenly spaced offsets from 0 to height.
func Layers(height float64, n int) []float64 {
	out := make([]float64, n+1)
	for i := range out {
		out[i] = height * float64(i) / float64(n)
	}
	out[n] = height
	return out
}
