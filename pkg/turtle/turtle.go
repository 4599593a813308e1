package turtle

import (
	"math"

	"github.com/chazu/tilesmith/pkg/geom"
	"github.com/chazu/tilesmith/pkg/mesh"
	"github.com/chazu/tilesmith/pkg/tileerr"
	"gonum.org/v1/gonum/spatial/r3"
)

// Axis names a rotation axis in the cursor's own frame.
type Axis int

const (
	Yaw   Axis = iota // about up; positive turns left
	Pitch             // about right; positive tilts the heading up
	Roll              // about heading; positive rolls the up vector right
)

func (a Axis) String() string {
	switch a {
	case Yaw:
		return "yaw"
	case Pitch:
		return "pitch"
	case Roll:
		return "roll"
	}
	return "unknown"
}

// Option configures a Turtle.
type Option func(*Turtle)

// WithBudget caps the number of commands a turtle accepts. Zero or less
// means unlimited.
func WithBudget(n int) Option {
	return func(t *Turtle) { t.budget = n }
}

// Turtle drives a cursor over a planned mesh.
type Turtle struct {
	cur    *Cursor
	origin Cursor
	mesh   *mesh.Mesh

	loop      []int
	looping   bool
	loops     [][]int
	selection []int

	budget int
	used   int
}

// New returns a turtle steering cur and emitting into m. The cursor's
// value at this point is the turtle's home.
func New(cur *Cursor, m *mesh.Mesh, opts ...Option) *Turtle {
	t := &Turtle{cur: cur, origin: *cur, mesh: m}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Cursor returns the current cursor state.
func (t *Turtle) Cursor() Cursor { return *t.cur }

// Mesh returns the mesh under construction.
func (t *Turtle) Mesh() *mesh.Mesh { return t.mesh }

// Loops returns the finished pen-down loops, oldest first.
func (t *Turtle) Loops() [][]int {
	out := make([][]int, len(t.loops))
	for i, l := range t.loops {
		out[i] = append([]int(nil), l...)
	}
	return out
}

// Selection returns the faces made by the last bridge or extrusion.
func (t *Turtle) Selection() []int {
	return append([]int(nil), t.selection...)
}

// Commands returns how many commands have run.
func (t *Turtle) Commands() int { return t.used }

func (t *Turtle) tick(step string) error {
	t.used++
	if t.budget > 0 && t.used > t.budget {
		return tileerr.Config(step, "max_turtle_commands", "command budget of %d exceeded", t.budget)
	}
	return nil
}

func (t *Turtle) emit() {
	idx := t.mesh.AddVertex(t.cur.Pos)
	t.loop = append(t.loop, idx)
	t.looping = true
}

func (t *Turtle) closeLoop() {
	if t.looping && len(t.loop) > 0 {
		t.loops = append(t.loops, t.loop)
	}
	t.loop = nil
	t.looping = false
}

// ---------------------------------------------------------------------------
// Moves
// ---------------------------------------------------------------------------

func (t *Turtle) move(step string, dir r3.Vec, d float64) error {
	if err := t.tick(step); err != nil {
		return err
	}
	if !geom.Finite(d) {
		return tileerr.Config(step, "distance", "distance must be finite, got %g", d)
	}
	t.cur.Pos = r3.Add(t.cur.Pos, r3.Scale(d, dir))
	if t.cur.PenDown {
		t.emit()
	}
	return nil
}

// Forward moves along the heading.
func (t *Turtle) Forward(d float64) error { return t.move("forward", t.cur.Heading, d) }

// Back moves against the heading.
func (t *Turtle) Back(d float64) error { return t.move("back", t.cur.Heading, -d) }

// MoveLeft strafes to the cursor's left.
func (t *Turtle) MoveLeft(d float64) error { return t.move("left", t.cur.Right(), -d) }

// MoveRight strafes to the cursor's right.
func (t *Turtle) MoveRight(d float64) error { return t.move("right", t.cur.Right(), d) }

// Up moves along the cursor's up vector.
func (t *Turtle) Up(d float64) error { return t.move("up", t.cur.Up, d) }

// Down moves against the cursor's up vector.
func (t *Turtle) Down(d float64) error { return t.move("down", t.cur.Up, -d) }

// MoveTo jumps to p without emitting a vertex, whatever the pen state.
func (t *Turtle) MoveTo(p r3.Vec) error {
	if err := t.tick("move_to"); err != nil {
		return err
	}
	if !geom.FiniteVec(p) {
		return tileerr.Config("move_to", "position", "position must be finite, got %v", p)
	}
	t.cur.Pos = p
	return nil
}

// Home returns the cursor to where the turtle started. The pen state is
// kept and no vertex is emitted.
func (t *Turtle) Home() error {
	if err := t.tick("home"); err != nil {
		return err
	}
	pen := t.cur.PenDown
	*t.cur = t.origin
	t.cur.PenDown = pen
	return nil
}

// ---------------------------------------------------------------------------
// Turns
// ---------------------------------------------------------------------------

// Turn rotates the cursor deg degrees about one of its own axes.
func (t *Turtle) Turn(axis Axis, deg float64) error {
	if err := t.tick("turn"); err != nil {
		return err
	}
	if !geom.Finite(deg) {
		return tileerr.Config("turn", "degrees", "angle must be finite, got %g", deg)
	}
	var about r3.Vec
	switch axis {
	case Yaw:
		about = t.cur.Up
	case Pitch:
		about = t.cur.Right()
	case Roll:
		about = t.cur.Heading
	default:
		return tileerr.Config("turn", "axis", "unknown axis %d", axis)
	}
	rot := r3.NewRotation(geom.Rad(deg), about)
	t.cur.Heading = r3.Unit(rot.Rotate(t.cur.Heading))
	t.cur.Up = r3.Unit(rot.Rotate(t.cur.Up))
	return nil
}

// TurnLeft yaws counter-clockwise seen from above.
func (t *Turtle) TurnLeft(deg float64) error { return t.Turn(Yaw, deg) }

// TurnRight yaws clockwise seen from above.
func (t *Turtle) TurnRight(deg float64) error { return t.Turn(Yaw, -deg) }

// ---------------------------------------------------------------------------
// Arcs
// ---------------------------------------------------------------------------

// Arc travels deg degrees around a circle of the given radius, turning
// right, in segments equal steps. With the pen down it emits one vertex
// per segment; the vertex at the start is the one already at the cursor.
func (t *Turtle) Arc(radius, deg float64, segments int) error {
	return t.arc("arc", radius, deg, segments, t.cur.Right())
}

// ArcLeft is Arc turning left.
func (t *Turtle) ArcLeft(radius, deg float64, segments int) error {
	return t.arc("arc_left", radius, deg, segments, r3.Scale(-1, t.cur.Right()))
}

func (t *Turtle) arc(step string, radius, deg float64, segments int, side r3.Vec) error {
	if err := t.tick(step); err != nil {
		return err
	}
	switch {
	case segments < 1:
		return tileerr.Config(step, "segments", "segments must be at least 1, got %d", segments)
	case !geom.Finite(radius, deg):
		return tileerr.Config(step, "", "radius and angle must be finite, got %g, %g", radius, deg)
	case radius <= 0:
		return tileerr.Config(step, "radius", "radius must be positive, got %g", radius)
	case deg <= 0 || deg >= 360:
		return tileerr.Config(step, "degrees", "arc angle must be in (0, 360), got %g", deg)
	}

	start, heading := t.cur.Pos, t.cur.Heading
	for i := 1; i <= segments; i++ {
		phi := deg * float64(i) / float64(segments)
		if i == segments {
			phi = deg
		}
		t.cur.Pos = geom.ArcPoint(start, heading, side, radius, phi)
		if t.cur.PenDown {
			t.emit()
		}
	}
	t.cur.Heading = r3.Unit(geom.ArcHeading(heading, side, deg))
	return nil
}

// ---------------------------------------------------------------------------
// Pen and vertices
// ---------------------------------------------------------------------------

// PenDown starts a new loop at the cursor.
func (t *Turtle) PenDown() error {
	if err := t.tick("pen_down"); err != nil {
		return err
	}
	if t.cur.PenDown {
		return nil
	}
	t.closeLoop()
	t.cur.PenDown = true
	t.emit()
	return nil
}

// PenUp finishes the active loop.
func (t *Turtle) PenUp() error {
	if err := t.tick("pen_up"); err != nil {
		return err
	}
	t.cur.PenDown = false
	t.closeLoop()
	return nil
}

// AddVertex emits a vertex at the cursor into the active loop, opening a
// loop if none is active.
func (t *Turtle) AddVertex() error {
	if err := t.tick("add_vertex"); err != nil {
		return err
	}
	t.emit()
	return nil
}

// ---------------------------------------------------------------------------
// Faces
// ---------------------------------------------------------------------------

// Bridge finishes the active loop and skins the two most recent loops
// with quads, inserting cuts intermediate rows. The bridged loops are
// consumed and the new faces become the selection.
func (t *Turtle) Bridge(cuts int) ([]int, error) {
	if err := t.tick("bridge"); err != nil {
		return nil, err
	}
	t.closeLoop()
	if len(t.loops) < 2 {
		return nil, tileerr.Geometry("bridge", "", "need two traced loops, have %d", len(t.loops))
	}
	a, b := t.loops[len(t.loops)-2], t.loops[len(t.loops)-1]
	faces, err := t.mesh.Bridge(a, b, cuts)
	if err != nil {
		return nil, err
	}
	t.loops = t.loops[:len(t.loops)-2]
	t.selection = faces
	return faces, nil
}

// Extrude sweeps the selection distance along the cursor's up vector in
// steps layers. The far cap becomes the new selection.
func (t *Turtle) Extrude(distance float64, steps int) ([]int, error) {
	if err := t.tick("extrude"); err != nil {
		return nil, err
	}
	if !geom.Finite(distance) || math.Abs(distance) < geom.Eps {
		return nil, tileerr.Geometry("extrude", "distance", "extrusion distance must be non-zero, got %g", distance)
	}
	top, err := t.mesh.Extrude(t.selection, r3.Scale(distance, t.cur.Up), steps)
	if err != nil {
		return nil, err
	}
	t.selection = top
	return top, nil
}
