// Package kernel defines the geometry kernel a planned tile is replayed
// against. Backends (sdfx, manifold) provide primitive solids, booleans,
// transforms and triangulation behind this interface, so tile planning
// never depends on a particular mesh engine.
package kernel

// Solid is an opaque handle to a geometry kernel solid.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the abstract geometry kernel interface.
type Kernel interface {
	// Primitives. Boxes have their minimum corner at the origin; cylinders
	// are centred on it.
	Box(x, y, z float64) (Solid, error)
	Cylinder(height, radius float64, segments int) (Solid, error)
	// Prism extrudes a closed XY profile from z=0 to z=height.
	Prism(profile [][2]float64, height float64) (Solid, error)

	// Boolean operations
	Union(a, b Solid) Solid
	Difference(a, b Solid) Solid
	Intersection(a, b Solid) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in degrees

	// Mesh output
	ToMesh(s Solid) (*Mesh, error)
	// Remesh rebuilds the surface on a uniform voxel grid with the given
	// number of cells along the longest axis.
	Remesh(s Solid, cells int) (*Mesh, error)
}
