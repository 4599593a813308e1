package turtle

import (
	"github.com/chazu/tilesmith/pkg/geom"
	"github.com/chazu/tilesmith/pkg/tileerr"
	"gonum.org/v1/gonum/spatial/r3"
)

// Cuboid traces a closed box with its minimum corner at the cursor: X
// along the cursor's right, Y along its heading, Z along its up vector.
// sub gives the face subdivisions per axis. The cursor is left where it
// started.
func (t *Turtle) Cuboid(size r3.Vec, sub [3]int) error {
	if !geom.FiniteVec(size) || size.X <= 0 || size.Y <= 0 || size.Z <= 0 {
		return tileerr.Config("cuboid", "size", "cuboid size must be positive, got %v", size)
	}
	for i, n := range sub {
		if n < 1 {
			return tileerr.Config("cuboid", [3]string{"subdivisions.x", "subdivisions.y", "subdivisions.z"}[i],
				"subdivisions must be at least 1, got %d", n)
		}
	}
	defer Hold(t.cur)()

	t.cur.PenDown = false
	row := func() error {
		if err := t.PenDown(); err != nil {
			return err
		}
		for i := 0; i < sub[0]; i++ {
			if err := t.MoveRight(size.X / float64(sub[0])); err != nil {
				return err
			}
		}
		if err := t.PenUp(); err != nil {
			return err
		}
		return t.MoveLeft(size.X)
	}

	if err := row(); err != nil {
		return err
	}
	if err := t.Forward(size.Y); err != nil {
		return err
	}
	if err := row(); err != nil {
		return err
	}
	if _, err := t.Bridge(sub[1] - 1); err != nil {
		return err
	}
	_, err := t.Extrude(size.Z, sub[2])
	return err
}
