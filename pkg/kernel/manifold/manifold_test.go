//go:build manifold

package manifold

import (
	"math"
	"testing"

	"github.com/chazu/tilesmith/pkg/kernel"
)

func mustNew(t *testing.T) kernel.Kernel {
	t.Helper()
	k, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return k
}

func box(t *testing.T, k kernel.Kernel, x, y, z float64) kernel.Solid {
	t.Helper()
	s, err := k.Box(x, y, z)
	if err != nil {
		t.Fatalf("Box(%g, %g, %g) error = %v", x, y, z, err)
	}
	return s
}

func cylinder(t *testing.T, k kernel.Kernel, height, radius float64, segments int) kernel.Solid {
	t.Helper()
	s, err := k.Cylinder(height, radius, segments)
	if err != nil {
		t.Fatalf("Cylinder(%g, %g) error = %v", height, radius, err)
	}
	return s
}

func checkBounds(t *testing.T, name string, s kernel.Solid, wantMin, wantMax [3]float64) {
	t.Helper()
	min, max := s.BoundingBox()
	for i := 0; i < 3; i++ {
		if math.Abs(min[i]-wantMin[i]) > 1e-6 {
			t.Errorf("%s min[%d] = %f, want %f", name, i, min[i], wantMin[i])
		}
		if math.Abs(max[i]-wantMax[i]) > 1e-6 {
			t.Errorf("%s max[%d] = %f, want %f", name, i, max[i], wantMax[i])
		}
	}
}

func TestBoxMinCorner(t *testing.T) {
	k := mustNew(t)
	checkBounds(t, "Box", box(t, k, 2, 0.5, 0.2755), [3]float64{0, 0, 0}, [3]float64{2, 0.5, 0.2755})
}

func TestCylinder(t *testing.T) {
	k := mustNew(t)
	min, max := cylinder(t, k, 0.4, 0.1, 32).BoundingBox()
	if math.Abs(min[2]+0.2) > 1e-6 || math.Abs(max[2]-0.2) > 1e-6 {
		t.Errorf("Cylinder Z bounds = %f..%f, want -0.2..0.2", min[2], max[2])
	}
	for i := 0; i < 2; i++ {
		if min[i] > -0.09 || max[i] < 0.09 {
			t.Errorf("Cylinder axis %d bounds = %f..%f", i, min[i], max[i])
		}
	}
}

func TestPrimitivesRejectBadSizes(t *testing.T) {
	k := mustNew(t)
	if _, err := k.Box(1, 0, 1); err == nil {
		t.Error("Box() with a zero side should fail")
	}
	if _, err := k.Cylinder(1, 0.1, 2); err == nil {
		t.Error("Cylinder() with two segments should fail")
	}
}

func TestPrism(t *testing.T) {
	k := mustNew(t)
	s, err := k.Prism([][2]float64{{0, 0}, {2, 0}, {2, 0.5}, {0, 0.5}}, 0.2755)
	if err != nil {
		t.Fatalf("Prism() error = %v", err)
	}
	checkBounds(t, "Prism", s, [3]float64{0, 0, 0}, [3]float64{2, 0.5, 0.2755})

	if _, err := k.Prism([][2]float64{{0, 0}, {1, 0}}, 1); err == nil {
		t.Error("Prism() with two points should fail")
	}
}

func TestSlotDifference(t *testing.T) {
	k := mustNew(t)
	base := box(t, k, 2, 0.5, 0.2755)
	slot := k.Translate(box(t, k, 1.528, 0.197, 0.25), 0.236, 0.236, -0.001)
	checkBounds(t, "Difference", k.Difference(base, slot), [3]float64{0, 0, 0}, [3]float64{2, 0.5, 0.2755})
}

func TestTranslate(t *testing.T) {
	k := mustNew(t)
	moved := k.Translate(box(t, k, 1, 1, 1), 10, 20, 30)
	checkBounds(t, "Translate", moved, [3]float64{10, 20, 30}, [3]float64{11, 21, 31})
}

func TestToMeshAndRemesh(t *testing.T) {
	k := mustNew(t)
	cube := box(t, k, 2, 2, 2)
	mesh, err := k.ToMesh(cube)
	if err != nil {
		t.Fatalf("ToMesh() error = %v", err)
	}
	if mesh.TriangleCount() < 12 {
		t.Errorf("ToMesh() triangle count = %d, want >= 12", mesh.TriangleCount())
	}
	if len(mesh.Normals) != len(mesh.Vertices) {
		t.Errorf("normals length = %d, vertices length = %d", len(mesh.Normals), len(mesh.Vertices))
	}

	if mesh.VertexCount() != 3*mesh.TriangleCount() {
		t.Errorf("ToMesh() should emit unshared vertices: %d for %d triangles",
			mesh.VertexCount(), mesh.TriangleCount())
	}

	re, err := k.Remesh(cube, 20)
	if err != nil {
		t.Fatalf("Remesh() error = %v", err)
	}
	if re.TriangleCount() <= mesh.TriangleCount() {
		t.Errorf("Remesh() triangles = %d, want more than the exact %d", re.TriangleCount(), mesh.TriangleCount())
	}
	min, max := re.Bounds()
	for i := 0; i < 3; i++ {
		if math.Abs(float64(min[i])) > 0.15 || math.Abs(float64(max[i])-2) > 0.15 {
			t.Errorf("Remesh() axis %d bounds = %f..%f, want about 0..2", i, min[i], max[i])
		}
	}
	if _, err := k.Remesh(cube, 0); err == nil {
		t.Error("Remesh() with zero cells should fail")
	}
}
