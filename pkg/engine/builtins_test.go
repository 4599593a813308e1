package engine

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/tilesmith/pkg/mesh"
	"github.com/chazu/tilesmith/pkg/params"
	"github.com/chazu/tilesmith/pkg/turtle"
)

// ---------------------------------------------------------------------------
// Preprocessing tests
// ---------------------------------------------------------------------------

func TestPreprocessSource(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{"keyword", `(tile :archetype :l-wall)`, `(tile "__kw_archetype" "__kw_l-wall")`},
		{"keyword in string preserved", `"a :keyword inside"`, `"a :keyword inside"`},
		{"escaped quote in string", `"say \":hi\"" :x`, `"say \":hi\"" "__kw_x"`},
		{"backtick string", "`:raw`", "`:raw`"},
		{"assignment operator preserved", `(def x := 10)`, `(def x := 10)`},
		{"kebab-case identifier", `(pen-down)`, `(pen_down)`},
		{"minus operator preserved", `(- 10 5)`, `(- 10 5)`},
		{"negative number preserved", `(forward -2)`, `(forward -2)`},
		{"comment converted", `;; trace :base`, `// trace :base`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := preprocessSource(tt.input); got != tt.expect {
				t.Errorf("preprocessSource(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

func run(t *testing.T, src string, opts ...Option) *Result {
	t.Helper()
	res, evalErrs, err := NewEngine(opts...).Evaluate(src)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	return res
}

// ---------------------------------------------------------------------------
// Turtle builtins
// ---------------------------------------------------------------------------

func TestScriptArcMatchesTurtle(t *testing.T) {
	res := run(t, `
(move-to (vec3 0 2 0))
(turn-right 90)
(pen-down)
(arc 2 90 15)
(pen-up)
`)

	cur := turtle.Home()
	want := turtle.New(&cur, mesh.New())
	steps := []error{
		want.MoveTo(r3.Vec{Y: 2}),
		want.TurnRight(90),
		want.PenDown(),
		want.Arc(2, 90, 15),
		want.PenUp(),
	}
	for _, err := range steps {
		if err != nil {
			t.Fatal(err)
		}
	}

	got := res.Mesh.Verts
	if len(got) != 16 || len(got) != len(want.Mesh().Verts) {
		t.Fatalf("got %d vertices, want 16", len(got))
	}
	for i, v := range got {
		if r3.Norm(r3.Sub(v, want.Mesh().Verts[i])) > 1e-12 {
			t.Errorf("vertex %d = %v, want %v", i, v, want.Mesh().Verts[i])
		}
	}
	last := got[len(got)-1]
	if math.Abs(last.X-2) > 1e-6 || math.Abs(last.Y) > 1e-6 {
		t.Errorf("arc should end at (2, 0), got %v", last)
	}
	if res.Cursor != cur {
		t.Errorf("cursor = %+v, want %+v", res.Cursor, cur)
	}
}

func TestBridgeAndExtrude(t *testing.T) {
	res := run(t, `
(pen-down) (forward 1) (forward 1) (pen-up)
(move-to (vec3 1 0 0))
(pen-down) (forward 1) (forward 1) (pen-up)
(def faces (bridge 1))
(extrude 0.5 2)
`)
	if res.Mesh.IsEmpty() {
		t.Fatal("expected faces")
	}
	if err := res.Mesh.CheckManifold(); err != nil {
		t.Errorf("extruded strip not closed: %v", err)
	}
	_, max := res.Mesh.Bounds()
	if math.Abs(max.Z-0.5) > 1e-12 {
		t.Errorf("top at %g, want 0.5", max.Z)
	}
}

func TestCuboid(t *testing.T) {
	res := run(t, `(cuboid (vec3 2 0.5 0.3) :x 2)`)
	if got := res.Mesh.FaceCount(); got != 10 {
		t.Errorf("faces = %d, want 10", got)
	}
	size := res.Mesh.Size()
	if r3.Norm(r3.Sub(size, r3.Vec{X: 2, Y: 0.5, Z: 0.3})) > 1e-12 {
		t.Errorf("size = %v", size)
	}
}

func TestPositionAndComponents(t *testing.T) {
	res := run(t, `
(forward 3)
(def p (position))
(cond (> (vy p) 2.5) (up 1) (down 1))
`)
	if res.Cursor.Pos != (r3.Vec{Y: 3, Z: 1}) {
		t.Errorf("cursor at %v, want (0, 3, 1)", res.Cursor.Pos)
	}
}

func TestBadArguments(t *testing.T) {
	for _, src := range []string{
		`(forward)`,
		`(forward "far")`,
		`(arc 1)`,
		`(move-to 3)`,
		`(cuboid (vec3 1 1 1) :x 1.5)`,
		`(pen-down 1)`,
		`(arc 1 90 0)`,
	} {
		t.Run(src, func(t *testing.T) {
			_, evalErrs, err := NewEngine().Evaluate(src)
			if err != nil {
				t.Fatalf("unexpected fatal error: %v", err)
			}
			if len(evalErrs) == 0 {
				t.Errorf("expected an eval error for %s", src)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Tile builtin
// ---------------------------------------------------------------------------

func TestTileBuiltin(t *testing.T) {
	start := turtle.At(r3.Vec{X: 4})
	res := run(t, `
(tile :archetype :curved-wall :name "arch" :radius 3 :arc 45
      :direction :ccw :socket :outer :curve 4 :sub-z 2)
(forward 1)
(tile :archetype :l-floor :base :plain :legs 3 :width 2 :angle 60)
`, WithStart(start))

	if len(res.Tiles) != 2 {
		t.Fatalf("got %d tiles, want 2", len(res.Tiles))
	}
	arch := res.Tiles[0]
	if arch.Name != "arch" || arch.Archetype != params.CurvedWall {
		t.Errorf("first tile = %s (%s)", arch.Name, arch.Archetype)
	}
	if arch.Params.BaseRadius != 3 || arch.Params.CurveDirection != params.CounterClockwise {
		t.Errorf("params not applied: %+v", arch.Params)
	}
	if arch.Origin != (r3.Vec{X: 4}) {
		t.Errorf("origin = %v", arch.Origin)
	}

	floor := res.Tiles[1]
	if floor.Origin != (r3.Vec{X: 4, Y: 1}) {
		t.Errorf("second origin = %v", floor.Origin)
	}
	if floor.Params.BaseBlueprint != params.Plain || floor.Params.CornerAngle != 60 {
		t.Errorf("params not applied: %+v", floor.Params)
	}
	if res.Cursor.Pos != (r3.Vec{X: 4, Y: 1}) {
		t.Errorf("tile builds moved the cursor to %v", res.Cursor.Pos)
	}
}

func TestTileBuiltinErrors(t *testing.T) {
	for _, src := range []string{
		`(tile)`,
		`(tile :archetype :hexagon)`,
		`(tile :archetype :l-wall :colour "red")`,
		`(tile :archetype :curved-floor :arc 360)`,
	} {
		t.Run(src, func(t *testing.T) {
			_, evalErrs, err := NewEngine().Evaluate(src)
			if err != nil {
				t.Fatalf("unexpected fatal error: %v", err)
			}
			if len(evalErrs) == 0 {
				t.Errorf("expected an eval error for %s", src)
			}
		})
	}
}
