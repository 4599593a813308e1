// Package turtle traces tile geometry with a 3-D turtle: a cursor with a
// position, an orientation and a pen. Moves with the pen down emit
// vertices into a planned mesh; bridges and extrusions turn the traced
// rows into faces.
package turtle

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// Cursor is the turtle's state. It is a plain value owned by whoever
// drives a build; nothing in this package keeps one globally.
type Cursor struct {
	Pos     r3.Vec
	Heading r3.Vec
	Up      r3.Vec
	PenDown bool
}

// Home returns a cursor at the origin facing +Y with +Z up and the pen up.
func Home() Cursor {
	return Cursor{Heading: r3.Vec{Y: 1}, Up: r3.Vec{Z: 1}}
}

// At returns a home-oriented cursor at p.
func At(p r3.Vec) Cursor {
	c := Home()
	c.Pos = p
	return c
}

// Right returns the unit vector to the cursor's right.
func (c Cursor) Right() r3.Vec {
	return r3.Unit(r3.Cross(c.Heading, c.Up))
}

// Hold snapshots *c and returns a func that restores it. Callers defer the
// returned func so every exit path puts the cursor back:
//
//	defer turtle.Hold(&cur)()
func Hold(c *Cursor) func() {
	saved := *c
	return func() { *c = saved }
}
