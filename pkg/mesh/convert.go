package mesh

import (
	"github.com/chazu/tilesmith/pkg/kernel"
	"github.com/unixpickle/model3d/model3d"
	"gonum.org/v1/gonum/spatial/r3"
)

// ToModel3D triangulates the mesh into a model3d mesh for repair checks and
// file export.
func (m *Mesh) ToModel3D() *model3d.Mesh {
	out := model3d.NewMesh()
	for _, t := range m.Triangles() {
		out.Add(&model3d.Triangle{
			coord(m.Verts[t[0]]),
			coord(m.Verts[t[1]]),
			coord(m.Verts[t[2]]),
		})
	}
	return out
}

// NeedsRepair reports whether the triangulated mesh has edges not shared by
// exactly two triangles.
func (m *Mesh) NeedsRepair() bool {
	return m.ToModel3D().NeedsRepair()
}

// Flat triangulates the mesh into the flat render layout used by kernel
// output, with per-face normals.
func (m *Mesh) Flat(partName string) *kernel.Mesh {
	tris := m.Triangles()
	out := &kernel.Mesh{
		Vertices: make([]float32, 0, len(tris)*9),
		Normals:  make([]float32, 0, len(tris)*9),
		Indices:  make([]uint32, 0, len(tris)*3),
		PartName: partName,
	}
	for i, t := range tris {
		a, b, c := m.Verts[t[0]], m.Verts[t[1]], m.Verts[t[2]]
		n := r3.Cross(r3.Sub(b, a), r3.Sub(c, a))
		if r3.Norm(n) > 0 {
			n = r3.Unit(n)
		}
		for j, v := range [3]r3.Vec{a, b, c} {
			out.Vertices = append(out.Vertices, float32(v.X), float32(v.Y), float32(v.Z))
			out.Normals = append(out.Normals, float32(n.X), float32(n.Y), float32(n.Z))
			out.Indices = append(out.Indices, uint32(i*3+j))
		}
	}
	return out
}

// FromFlat rebuilds a triangle mesh from flat render arrays, welding
// vertices that share exact coordinates.
func FromFlat(fm *kernel.Mesh) *Mesh {
	out := New()
	index := make(map[[3]float32]int)
	at := func(i uint32) int {
		key := [3]float32{fm.Vertices[3*i], fm.Vertices[3*i+1], fm.Vertices[3*i+2]}
		if idx, ok := index[key]; ok {
			return idx
		}
		idx := out.AddVertex(r3.Vec{X: float64(key[0]), Y: float64(key[1]), Z: float64(key[2])})
		index[key] = idx
		return idx
	}
	for i := 0; i+2 < len(fm.Indices); i += 3 {
		out.AddFace(at(fm.Indices[i]), at(fm.Indices[i+1]), at(fm.Indices[i+2]))
	}
	return out
}

func coord(v r3.Vec) model3d.Coord3D {
	return model3d.XYZ(v.X, v.Y, v.Z)
}

// Coord converts a vector to a model3d coordinate.
func Coord(v r3.Vec) model3d.Coord3D { return coord(v) }
