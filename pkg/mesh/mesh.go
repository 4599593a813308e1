// Package mesh holds the planned polygon meshes a recipe traces before any
// kernel is involved. Faces are vertex index loops wound counter-clockwise
// seen from outside the solid.
package mesh

import (
	"fmt"
	"math"

	"github.com/chazu/tilesmith/pkg/geom"
	"github.com/chazu/tilesmith/pkg/tileerr"
	"gonum.org/v1/gonum/spatial/r3"
)

// Mesh is a polygon mesh with shared vertices.
type Mesh struct {
	Verts []r3.Vec
	Faces [][]int
}

// New returns an empty mesh.
func New() *Mesh {
	return &Mesh{}
}

// AddVertex appends a vertex and returns its index.
func (m *Mesh) AddVertex(v r3.Vec) int {
	m.Verts = append(m.Verts, v)
	return len(m.Verts) - 1
}

// AddFace appends a polygon and returns its index.
func (m *Mesh) AddFace(idx ...int) int {
	f := make([]int, len(idx))
	copy(f, idx)
	m.Faces = append(m.Faces, f)
	return len(m.Faces) - 1
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int { return len(m.Verts) }

// FaceCount returns the number of faces.
func (m *Mesh) FaceCount() int { return len(m.Faces) }

// IsEmpty returns true if the mesh has no faces.
func (m *Mesh) IsEmpty() bool { return len(m.Faces) == 0 }

// Clone returns a deep copy.
func (m *Mesh) Clone() *Mesh {
	out := &Mesh{
		Verts: make([]r3.Vec, len(m.Verts)),
		Faces: make([][]int, len(m.Faces)),
	}
	copy(out.Verts, m.Verts)
	for i, f := range m.Faces {
		out.Faces[i] = append([]int(nil), f...)
	}
	return out
}

// Map returns a copy with every vertex passed through fn. Vertex and face
// indices are preserved, so zones computed on m stay valid on the copy.
func (m *Mesh) Map(fn func(r3.Vec) r3.Vec) *Mesh {
	out := m.Clone()
	for i, v := range out.Verts {
		out.Verts[i] = fn(v)
	}
	return out
}

// Place returns a copy moved by p.
func (m *Mesh) Place(p geom.Placement) *Mesh {
	return m.Map(p.Apply)
}

// Bounds returns the axis-aligned bounding box. An empty mesh returns the
// zero box.
func (m *Mesh) Bounds() (min, max r3.Vec) {
	if len(m.Verts) == 0 {
		return r3.Vec{}, r3.Vec{}
	}
	min, max = m.Verts[0], m.Verts[0]
	for _, v := range m.Verts[1:] {
		min = r3.Vec{X: math.Min(min.X, v.X), Y: math.Min(min.Y, v.Y), Z: math.Min(min.Z, v.Z)}
		max = r3.Vec{X: math.Max(max.X, v.X), Y: math.Max(max.Y, v.Y), Z: math.Max(max.Z, v.Z)}
	}
	return min, max
}

// Size returns the bounding box extent.
func (m *Mesh) Size() r3.Vec {
	min, max := m.Bounds()
	return r3.Sub(max, min)
}

// FaceNormal returns the unit normal of face i using Newell's method, which
// tolerates slightly non-planar quads.
func (m *Mesh) FaceNormal(i int) r3.Vec {
	f := m.Faces[i]
	var n r3.Vec
	for j := range f {
		a := m.Verts[f[j]]
		b := m.Verts[f[(j+1)%len(f)]]
		n.X += (a.Y - b.Y) * (a.Z + b.Z)
		n.Y += (a.Z - b.Z) * (a.X + b.X)
		n.Z += (a.X - b.X) * (a.Y + b.Y)
	}
	if r3.Norm(n) < geom.Eps {
		return r3.Vec{}
	}
	return r3.Unit(n)
}

// Triangles fans every face into triangles.
func (m *Mesh) Triangles() [][3]int {
	var out [][3]int
	for _, f := range m.Faces {
		for j := 1; j+1 < len(f); j++ {
			out = append(out, [3]int{f[0], f[j], f[j+1]})
		}
	}
	return out
}

// Validate checks that the mesh has geometry and no non-finite coordinates
// or dangling indices.
func (m *Mesh) Validate() error {
	if len(m.Faces) == 0 {
		return tileerr.Geometry("validate", "", "mesh has no faces")
	}
	for i, v := range m.Verts {
		if !geom.FiniteVec(v) {
			return tileerr.Geometry("validate", "", "vertex %d is not finite: %v", i, v)
		}
	}
	for i, f := range m.Faces {
		if len(f) < 3 {
			return tileerr.Geometry("validate", "", "face %d has %d vertices", i, len(f))
		}
		for _, idx := range f {
			if idx < 0 || idx >= len(m.Verts) {
				return tileerr.Geometry("validate", "", "face %d references vertex %d of %d", i, idx, len(m.Verts))
			}
		}
	}
	return nil
}

// String summarises the mesh for logs.
func (m *Mesh) String() string {
	return fmt.Sprintf("mesh(%d verts, %d faces)", len(m.Verts), len(m.Faces))
}
