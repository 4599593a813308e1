//go:build manifold

// Package manifold binds the Manifold library
// (https://github.com/elalish/manifold) as a tile replay kernel. Unlike the
// sdfx kernel it produces exact polyhedral output, so cutter booleans keep
// the sharp edges of slot and clip profiles.
//
// Requires the manifoldc C library. Build with: go build -tags=manifold
package manifold

/*
#cgo CFLAGS: -I/usr/local/include
#cgo LDFLAGS: -L/usr/local/lib -lmanifoldc

#include <stdlib.h>
#include <manifold/manifoldc.h>
*/
import "C"

import (
	"fmt"
	"runtime"
	"unsafe"

	"github.com/unixpickle/model3d/model3d"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/tilesmith/pkg/kernel"
)

var (
	_ kernel.Kernel = (*ManifoldKernel)(nil)
	_ kernel.Solid  = (*solid)(nil)
)

// remeshSearch is the number of bisection steps used to snap voxel
// remesh vertices onto the surface.
const remeshSearch = 8

type solid struct {
	ptr *C.ManifoldManifold
}

// own takes ownership of a C manifold; it is freed when the Go value is
// collected.
func own(ptr *C.ManifoldManifold) *solid {
	s := &solid{ptr: ptr}
	runtime.SetFinalizer(s, func(s *solid) {
		if s.ptr != nil {
			C.manifold_delete_manifold(s.ptr)
			s.ptr = nil
		}
	})
	return s
}

func ptrOf(s kernel.Solid) *C.ManifoldManifold {
	return s.(*solid).ptr
}

// BoundingBox returns the axis-aligned bounds.
func (s *solid) BoundingBox() (min, max [3]float64) {
	box := C.manifold_bounding_box(C.manifold_alloc_box(), s.ptr)
	defer C.manifold_delete_box(box)
	min = [3]float64{
		float64(C.manifold_box_min_x(box)),
		float64(C.manifold_box_min_y(box)),
		float64(C.manifold_box_min_z(box)),
	}
	max = [3]float64{
		float64(C.manifold_box_max_x(box)),
		float64(C.manifold_box_max_y(box)),
		float64(C.manifold_box_max_z(box)),
	}
	return min, max
}

// ManifoldKernel replays tiles with Manifold.
type ManifoldKernel struct{}

// New returns a ManifoldKernel.
func New() (kernel.Kernel, error) {
	return &ManifoldKernel{}, nil
}

// Box creates a box with its minimum corner at the origin.
func (k *ManifoldKernel) Box(x, y, z float64) (kernel.Solid, error) {
	if x <= 0 || y <= 0 || z <= 0 {
		return nil, fmt.Errorf("manifold box: size %g x %g x %g must be positive", x, y, z)
	}
	return own(C.manifold_cube(C.manifold_alloc_manifold(),
		C.double(x), C.double(y), C.double(z), C.int(0))), nil
}

// Cylinder creates a Z-axis cylinder centred on the origin.
func (k *ManifoldKernel) Cylinder(height, radius float64, segments int) (kernel.Solid, error) {
	if height <= 0 || radius <= 0 {
		return nil, fmt.Errorf("manifold cylinder: height %g and radius %g must be positive", height, radius)
	}
	if segments < 3 {
		return nil, fmt.Errorf("manifold cylinder: %d segments, need at least 3", segments)
	}
	return own(C.manifold_cylinder(C.manifold_alloc_manifold(),
		C.double(height), C.double(radius), C.double(radius), C.int(segments), C.int(1))), nil
}

// Prism extrudes a closed profile from z=0 to z=height.
func (k *ManifoldKernel) Prism(profile [][2]float64, height float64) (kernel.Solid, error) {
	if len(profile) < 3 {
		return nil, fmt.Errorf("manifold prism: profile has %d points, need at least 3", len(profile))
	}
	if height <= 0 {
		return nil, fmt.Errorf("manifold prism: height %g must be positive", height)
	}

	pts := C.malloc(C.size_t(len(profile)) * C.size_t(unsafe.Sizeof(C.ManifoldVec2{})))
	defer C.free(pts)
	vs := unsafe.Slice((*C.ManifoldVec2)(pts), len(profile))
	for i, p := range profile {
		vs[i] = C.ManifoldVec2{x: C.double(p[0]), y: C.double(p[1])}
	}

	simple := C.manifold_simple_polygon(C.manifold_alloc_simple_polygon(),
		(*C.ManifoldVec2)(pts), C.size_t(len(profile)))
	defer C.manifold_delete_simple_polygon(simple)

	list := (**C.ManifoldSimplePolygon)(C.malloc(C.size_t(unsafe.Sizeof(simple))))
	defer C.free(unsafe.Pointer(list))
	*list = simple

	polys := C.manifold_polygons(C.manifold_alloc_polygons(), list, 1)
	defer C.manifold_delete_polygons(polys)

	// No slices, no twist, unit top scale.
	return own(C.manifold_extrude(C.manifold_alloc_manifold(), polys,
		C.double(height), C.int(0), C.double(0), C.double(1), C.double(1))), nil
}

// Union returns a ∪ b.
func (k *ManifoldKernel) Union(a, b kernel.Solid) kernel.Solid {
	return own(C.manifold_union(C.manifold_alloc_manifold(), ptrOf(a), ptrOf(b)))
}

// Difference returns a - b.
func (k *ManifoldKernel) Difference(a, b kernel.Solid) kernel.Solid {
	return own(C.manifold_difference(C.manifold_alloc_manifold(), ptrOf(a), ptrOf(b)))
}

// Intersection returns a ∩ b.
func (k *ManifoldKernel) Intersection(a, b kernel.Solid) kernel.Solid {
	return own(C.manifold_intersection(C.manifold_alloc_manifold(), ptrOf(a), ptrOf(b)))
}

// Translate moves s by (x, y, z).
func (k *ManifoldKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	return own(C.manifold_translate(C.manifold_alloc_manifold(), ptrOf(s),
		C.double(x), C.double(y), C.double(z)))
}

// Rotate applies Euler rotations in degrees about X, Y and Z.
func (k *ManifoldKernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	return own(C.manifold_rotate(C.manifold_alloc_manifold(), ptrOf(s),
		C.double(x), C.double(y), C.double(z)))
}

// ToMesh returns the exact triangulation in the flat per-face layout the
// sdfx kernel emits: three unshared vertices per triangle with the face
// normal repeated.
func (k *ManifoldKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	gl := C.manifold_get_meshgl(C.manifold_alloc_meshgl(), ptrOf(s))
	defer C.manifold_delete_meshgl(gl)

	nVert := int(C.manifold_meshgl_num_vert(gl))
	nTri := int(C.manifold_meshgl_num_tri(gl))
	if nVert == 0 || nTri == 0 {
		return &kernel.Mesh{}, nil
	}
	nProp := int(C.manifold_meshgl_num_prop(gl))
	if nProp < 3 {
		return nil, fmt.Errorf("manifold: mesh has %d vertex properties, need positions", nProp)
	}

	props := make([]float32, nVert*nProp)
	C.manifold_meshgl_vert_properties((*C.float)(unsafe.Pointer(&props[0])), gl)
	tris := make([]uint32, nTri*3)
	C.manifold_meshgl_tri_verts((*C.uint32_t)(unsafe.Pointer(&tris[0])), gl)

	at := func(i uint32) r3.Vec {
		p := props[int(i)*nProp:]
		return r3.Vec{X: float64(p[0]), Y: float64(p[1]), Z: float64(p[2])}
	}
	out := newFlat(nTri)
	for t := 0; t < nTri; t++ {
		if int(tris[3*t]) >= nVert || int(tris[3*t+1]) >= nVert || int(tris[3*t+2]) >= nVert {
			return nil, fmt.Errorf("manifold: triangle %d indexes past %d vertices", t, nVert)
		}
		out.add(at(tris[3*t]), at(tris[3*t+1]), at(tris[3*t+2]))
	}
	return out.Mesh, nil
}

// Remesh rebuilds the surface by marching cubes over the exact mesh, with
// cells voxels along the longest axis.
func (k *ManifoldKernel) Remesh(s kernel.Solid, cells int) (*kernel.Mesh, error) {
	if cells <= 0 {
		return nil, fmt.Errorf("manifold remesh: cells %d must be positive", cells)
	}
	exact, err := k.ToMesh(s)
	if err != nil {
		return nil, err
	}
	if exact.IsEmpty() {
		return exact, nil
	}

	m := model3d.NewMesh()
	for i := 0; i+2 < len(exact.Indices); i += 3 {
		m.Add(&model3d.Triangle{
			coord(exact, exact.Indices[i]),
			coord(exact, exact.Indices[i+1]),
			coord(exact, exact.Indices[i+2]),
		})
	}
	lo, hi := s.BoundingBox()
	longest := 0.0
	for i := range lo {
		if d := hi[i] - lo[i]; d > longest {
			longest = d
		}
	}
	vox := model3d.MarchingCubesSearch(model3d.NewColliderSolid(model3d.MeshToCollider(m)),
		longest/float64(cells), remeshSearch)

	out := newFlat(len(vox.TriangleSlice()))
	for _, t := range vox.TriangleSlice() {
		out.add(vec(t[0]), vec(t[1]), vec(t[2]))
	}
	return out.Mesh, nil
}

// flat accumulates triangles in kernel.Mesh layout.
type flat struct{ *kernel.Mesh }

func newFlat(tris int) flat {
	return flat{&kernel.Mesh{
		Vertices: make([]float32, 0, tris*9),
		Normals:  make([]float32, 0, tris*9),
		Indices:  make([]uint32, 0, tris*3),
	}}
}

func (f flat) add(a, b, c r3.Vec) {
	n := r3.Cross(r3.Sub(b, a), r3.Sub(c, a))
	if r3.Norm(n) > 0 {
		n = r3.Unit(n)
	}
	for _, v := range [3]r3.Vec{a, b, c} {
		f.Indices = append(f.Indices, uint32(len(f.Vertices)/3))
		f.Vertices = append(f.Vertices, float32(v.X), float32(v.Y), float32(v.Z))
		f.Normals = append(f.Normals, float32(n.X), float32(n.Y), float32(n.Z))
	}
}

func coord(m *kernel.Mesh, i uint32) model3d.Coord3D {
	return model3d.XYZ(float64(m.Vertices[3*i]), float64(m.Vertices[3*i+1]), float64(m.Vertices[3*i+2]))
}

func vec(c model3d.Coord3D) r3.Vec {
	return r3.Vec{X: c.X, Y: c.Y, Z: c.Z}
}
