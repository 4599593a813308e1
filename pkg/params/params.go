// Package params defines the immutable parameter record a tile is built
// from, the archetype and blueprint enumerations, validation, and the flat
// metadata record that lets a tile's parameters be recovered later.
package params

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// Archetype is a tile shape family member.
type Archetype int

const (
	StraightWall Archetype = iota
	StraightFloor
	CurvedWall
	CurvedFloor
	LWall
	LFloor

	// ArchetypeCount sizes archetype-indexed tables.
	ArchetypeCount
)

var archetypeNames = [ArchetypeCount]string{
	StraightWall:  "straight_wall",
	StraightFloor: "straight_floor",
	CurvedWall:    "curved_wall",
	CurvedFloor:   "curved_floor",
	LWall:         "l_wall",
	LFloor:        "l_floor",
}

func (a Archetype) String() string {
	if a < 0 || a >= ArchetypeCount {
		return fmt.Sprintf("archetype(%d)", int(a))
	}
	return archetypeNames[a]
}

// Valid reports whether a is a known archetype.
func (a Archetype) Valid() bool { return a >= 0 && a < ArchetypeCount }

// ParseArchetype maps a name such as "curved_wall" to its archetype.
func ParseArchetype(s string) (Archetype, error) {
	for i, n := range archetypeNames {
		if n == s {
			return Archetype(i), nil
		}
	}
	return 0, fmt.Errorf("params: unknown archetype %q", s)
}

// Archetypes lists every archetype in declaration order.
func Archetypes() []Archetype {
	out := make([]Archetype, ArchetypeCount)
	for i := range out {
		out[i] = Archetype(i)
	}
	return out
}

// Family groups archetypes that share base geometry.
type Family int

const (
	Straight Family = iota
	Curved
	Corner
)

func (f Family) String() string {
	return [...]string{"straight", "curved", "corner"}[f]
}

// Family returns the archetype's shape family.
func (a Archetype) Family() Family {
	switch a {
	case CurvedWall, CurvedFloor:
		return Curved
	case LWall, LFloor:
		return Corner
	}
	return Straight
}

// IsFloor reports whether the archetype is a floor tile.
func (a Archetype) IsFloor() bool {
	return a == StraightFloor || a == CurvedFloor || a == LFloor
}

// Blueprint selects the construction style of a part.
type Blueprint int

const (
	Plain Blueprint = iota
	SnapFit
	None
)

func (b Blueprint) String() string {
	switch b {
	case Plain:
		return "plain"
	case SnapFit:
		return "openlock"
	case None:
		return "none"
	}
	return fmt.Sprintf("blueprint(%d)", int(b))
}

// ParseBlueprint accepts "plain", "openlock" (or "snap-fit") and "none".
func ParseBlueprint(s string) (Blueprint, error) {
	switch s {
	case "plain":
		return Plain, nil
	case "openlock", "snap-fit", "snap_fit":
		return SnapFit, nil
	case "none":
		return None, nil
	}
	return 0, fmt.Errorf("params: unknown blueprint %q", s)
}

// CurveDirection is the sweep direction of curved tiles seen from above.
type CurveDirection int

const (
	Clockwise CurveDirection = iota
	CounterClockwise
)

func (d CurveDirection) String() string {
	if d == CounterClockwise {
		return "counter_clockwise"
	}
	return "clockwise"
}

// ParseCurveDirection accepts "clockwise" and "counter_clockwise".
func ParseCurveDirection(s string) (CurveDirection, error) {
	switch s {
	case "clockwise", "cw", "":
		return Clockwise, nil
	case "counter_clockwise", "counterclockwise", "ccw":
		return CounterClockwise, nil
	}
	return 0, fmt.Errorf("params: unknown curve direction %q", s)
}

// SocketSide picks which face of a curved base carries clip sockets.
type SocketSide int

const (
	Inner SocketSide = iota
	Outer
)

func (s SocketSide) String() string {
	if s == Outer {
		return "outer"
	}
	return "inner"
}

// ParseSocketSide accepts "inner" and "outer".
func ParseSocketSide(s string) (SocketSide, error) {
	switch s {
	case "inner", "":
		return Inner, nil
	case "outer":
		return Outer, nil
	}
	return 0, fmt.Errorf("params: unknown socket side %q", s)
}

// Subdivisions holds face subdivision counts.
type Subdivisions struct {
	X     int // along straight length
	Y     int // across thickness
	Z     int // vertical layers
	Curve int // arc segments
	Leg1  int
	Leg2  int
	Width int // across corner legs
}

// Parameters is the full input to a tile build. Lengths are in inches and
// angles in degrees. Treat values as immutable; With* helpers return
// modified copies.
type Parameters struct {
	Name          string
	BaseBlueprint Blueprint
	CoreBlueprint Blueprint

	TileSize r3.Vec
	BaseSize r3.Vec
	Sub      Subdivisions

	BaseRadius     float64
	ArcDegrees     float64
	CurveDirection CurveDirection

	Leg1        float64
	Leg2        float64
	CornerAngle float64

	SocketSide SocketSide
}

// Defaults returns the nominal parameters for an archetype.
func Defaults(a Archetype) Parameters {
	p := Parameters{
		Name:          a.String(),
		BaseBlueprint: SnapFit,
		CoreBlueprint: SnapFit,
		TileSize:      r3.Vec{X: 2, Y: 0.3149, Z: 2},
		BaseSize:      r3.Vec{X: 2, Y: 0.5, Z: 0.2755},
		Sub:           Subdivisions{X: 15, Y: 3, Z: 15, Curve: 15, Leg1: 15, Leg2: 15, Width: 3},
		BaseRadius:    2,
		ArcDegrees:    90,
		Leg1:          2,
		Leg2:          2,
		CornerAngle:   90,
	}
	if a.IsFloor() {
		p.TileSize = r3.Vec{X: 2, Y: 2, Z: 0.3}
		p.BaseSize = r3.Vec{X: 2, Y: 2, Z: 0.2755}
		p.Sub.Z = 1
		if a != StraightFloor {
			p.TileSize.Y, p.BaseSize.Y = 1, 1
		}
	}
	return p
}

// BaseHeight returns the height the core sits at. A tile without a base
// starts its core on the ground.
func (p Parameters) BaseHeight() float64 {
	if p.BaseBlueprint == None {
		return 0
	}
	return p.BaseSize.Z
}

// CoreHeight returns the height of the core above the base.
func (p Parameters) CoreHeight() float64 {
	return p.TileSize.Z - p.BaseHeight()
}

// CoreInset returns how far the core sits in from the base's outer face.
func (p Parameters) CoreInset() float64 {
	return (p.BaseSize.Y - p.TileSize.Y) / 2
}
