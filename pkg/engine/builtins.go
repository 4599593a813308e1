package engine

import (
	"fmt"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/tilesmith/pkg/params"
	"github.com/chazu/tilesmith/pkg/recipe"
	"github.com/chazu/tilesmith/pkg/tile"
	"github.com/chazu/tilesmith/pkg/turtle"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// preprocessSource rewrites a script into something zygomys accepts:
//
//  1. :keyword becomes the string literal "__kw_keyword", so keywords never
//     collide with script variables.
//  2. kebab-case identifiers become snake_case (pen-down -> pen_down);
//     zygomys reads a bare hyphen as subtraction.
//  3. ; line comments become // comments.
//
// String literals are copied untouched.
func preprocessSource(source string) string {
	b := []byte(source)
	out := make([]byte, 0, len(b)+len(b)/4)
	for i := 0; i < len(b); {
		switch c := b[i]; {
		case c == '"' || c == '`':
			j := skipString(b, i)
			out = append(out, b[i:j]...)
			i = j
		case c == ';':
			out = append(out, '/', '/')
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				out = append(out, b[i])
				i++
			}
		case c == ':' && i+1 < len(b) && b[i+1] == '=':
			out = append(out, ':', '=')
			i += 2
		case c == ':' && i+1 < len(b) && isLetter(b[i+1]):
			j := i + 1
			for j < len(b) && isKWChar(b[j]) {
				j++
			}
			out = append(out, '"')
			out = append(out, kwPrefix...)
			out = append(out, b[i+1:j]...)
			out = append(out, '"')
			i = j
		case c == '-' && i > 0 && i+1 < len(b) && isIdentChar(b[i-1]) && isLetter(b[i+1]):
			out = append(out, '_')
			i++
		default:
			out = append(out, c)
			i++
		}
	}
	return string(out)
}

// skipString returns the index just past the string literal opening at i.
// Double-quoted strings honour backslash escapes; backtick strings do not.
func skipString(b []byte, i int) int {
	q := b[i]
	j := i + 1
	for j < len(b) && b[j] != q {
		if q == '"' && b[j] == '\\' && j+1 < len(b) {
			j++
		}
		j++
	}
	if j < len(b) {
		j++
	}
	return j
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpVec3 wraps a vector.
type sexpVec3 struct {
	vec r3.Vec
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// sexpTile refers to a tile built by the script.
type sexpTile struct {
	t *tile.Tile
}

func (s *sexpTile) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(tile %q)", s.t.Name)
}
func (s *sexpTile) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// isKW checks if a Sexp is a preprocessed keyword string and returns the
// keyword name without its prefix.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok || !strings.HasPrefix(str.S, kwPrefix) {
		return "", false
	}
	return str.S[len(kwPrefix):], true
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments. A
// trailing keyword with no value maps to SexpNull.
func parseArgs(args []zygo.Sexp) kwArgs {
	res := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		name, ok := isKW(args[i])
		switch {
		case !ok:
			res.positional = append(res.positional, args[i])
		case i+1 < len(args):
			res.kw[name] = args[i+1]
			i++
		default:
			res.kw[name] = zygo.SexpNull
		}
	}
	return res
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toInt extracts a whole number.
func toInt(s zygo.Sexp) (int, error) {
	if v, ok := s.(*zygo.SexpInt); ok {
		return int(v.Val), nil
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toName extracts a keyword or plain string in snake_case, so :l-wall,
// "l-wall" and "l_wall" all read as l_wall.
func toName(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	return strings.ReplaceAll(strings.TrimPrefix(str.S, kwPrefix), "-", "_"), nil
}

// toBool treats nil, false and 0 as false.
func toBool(s zygo.Sexp) bool {
	switch v := s.(type) {
	case *zygo.SexpBool:
		return v.Val
	case *zygo.SexpInt:
		return v.Val != 0
	case *zygo.SexpSentinel:
		return v != zygo.SexpNull
	}
	return true
}

// toVec3 extracts a vector from a sexpVec3.
func toVec3(s zygo.Sexp) (r3.Vec, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return r3.Vec{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

func intSexp(n int) zygo.Sexp { return &zygo.SexpInt{Val: int64(n)} }

// numbers reads between min and len(want) positional numbers into want.
func numbers(fn string, args []zygo.Sexp, min int, want ...*float64) error {
	if len(args) < min || len(args) > len(want) {
		if min == len(want) {
			return fmt.Errorf("%s requires %d arguments, got %d", fn, min, len(args))
		}
		return fmt.Errorf("%s requires %d to %d arguments, got %d", fn, min, len(want), len(args))
	}
	for i, a := range args {
		f, err := toFloat64(a)
		if err != nil {
			return fmt.Errorf("%s: argument %d: %w", fn, i+1, err)
		}
		*want[i] = f
	}
	return nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the turtle builtins into env, driving the
// session's turtle. Source must be preprocessed first so that :keyword
// tokens reach the builtins as recognizable strings.
func registerBuiltins(env *zygo.Zlisp, s *session) {
	t := s.t

	// (forward 1.5), (turn-left 90), ...
	single := map[string]func(float64) error{
		"forward":    t.Forward,
		"back":       t.Back,
		"move_left":  t.MoveLeft,
		"move_right": t.MoveRight,
		"up":         t.Up,
		"down":       t.Down,
		"turn_left":  t.TurnLeft,
		"turn_right": t.TurnRight,
		"pitch":      func(d float64) error { return t.Turn(turtle.Pitch, d) },
		"roll":       func(d float64) error { return t.Turn(turtle.Roll, d) },
	}
	for fn, cmd := range single {
		fn, cmd := fn, cmd
		env.AddFunction(fn, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			var v float64
			if err := numbers(fn, args, 1, &v); err != nil {
				return zygo.SexpNull, err
			}
			return zygo.SexpNull, s.fail(cmd(v))
		})
	}

	// (pen-up), (pen-down), (add-vertex), (home)
	bare := map[string]func() error{
		"pen_up":     t.PenUp,
		"pen_down":   t.PenDown,
		"add_vertex": t.AddVertex,
		"home":       t.Home,
	}
	for fn, cmd := range bare {
		fn, cmd := fn, cmd
		env.AddFunction(fn, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) != 0 {
				return zygo.SexpNull, fmt.Errorf("%s takes no arguments, got %d", fn, len(args))
			}
			return zygo.SexpNull, s.fail(cmd())
		})
	}

	// -----------------------------------------------------------------------
	// (arc 2 90 15), (arc-left 2 90 15); segments default to 16
	// -----------------------------------------------------------------------
	arc := func(fn string, cmd func(r, deg float64, n int) error) {
		env.AddFunction(fn, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			r, deg, n := 0.0, 0.0, 16.0
			if err := numbers(fn, args, 2, &r, &deg, &n); err != nil {
				return zygo.SexpNull, err
			}
			return zygo.SexpNull, s.fail(cmd(r, deg, int(n)))
		})
	}
	arc("arc", t.Arc)
	arc("arc_left", t.ArcLeft)

	// -----------------------------------------------------------------------
	// (bridge 2) -> face count; cuts default to 0
	// (extrude 1.5 4) -> far cap face count; steps default to 1
	// -----------------------------------------------------------------------
	env.AddFunction("bridge", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		cuts := 0.0
		if err := numbers("bridge", args, 0, &cuts); err != nil {
			return zygo.SexpNull, err
		}
		faces, err := t.Bridge(int(cuts))
		if err != nil {
			return zygo.SexpNull, s.fail(err)
		}
		return intSexp(len(faces)), nil
	})
	env.AddFunction("extrude", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		d, steps := 0.0, 1.0
		if err := numbers("extrude", args, 1, &d, &steps); err != nil {
			return zygo.SexpNull, err
		}
		faces, err := t.Extrude(d, int(steps))
		if err != nil {
			return zygo.SexpNull, s.fail(err)
		}
		return intSexp(len(faces)), nil
	})

	// -----------------------------------------------------------------------
	// (vec3 1 2 3), (move-to (vec3 0 1 0)), (position), (heading)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		var v r3.Vec
		if err := numbers("vec3", args, 3, &v.X, &v.Y, &v.Z); err != nil {
			return zygo.SexpNull, err
		}
		return &sexpVec3{vec: v}, nil
	})
	env.AddFunction("move_to", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("move-to requires a vec3 argument")
		}
		p, err := toVec3(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("move-to: %w", err)
		}
		return zygo.SexpNull, s.fail(t.MoveTo(p))
	})
	env.AddFunction("position", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return &sexpVec3{vec: s.cur.Pos}, nil
	})
	env.AddFunction("heading", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return &sexpVec3{vec: s.cur.Heading}, nil
	})
	env.AddFunction("vx", component(func(v r3.Vec) float64 { return v.X }))
	env.AddFunction("vy", component(func(v r3.Vec) float64 { return v.Y }))
	env.AddFunction("vz", component(func(v r3.Vec) float64 { return v.Z }))

	// -----------------------------------------------------------------------
	// (cuboid (vec3 2 0.5 0.3) :x 4 :y 1 :z 1)
	// -----------------------------------------------------------------------
	env.AddFunction("cuboid", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 1 {
			return zygo.SexpNull, fmt.Errorf("cuboid requires a size vec3")
		}
		size, err := toVec3(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cuboid: size: %w", err)
		}
		sub := [3]int{1, 1, 1}
		for i, axis := range []string{"x", "y", "z"} {
			if v, ok := pa.kw[axis]; ok {
				if sub[i], err = toInt(v); err != nil {
					return zygo.SexpNull, fmt.Errorf("cuboid: %s: %w", axis, err)
				}
			}
		}
		return zygo.SexpNull, s.fail(t.Cuboid(size, sub))
	})

	// -----------------------------------------------------------------------
	// (tile :archetype :curved-wall :radius 3 :arc 45 :direction :ccw)
	// -----------------------------------------------------------------------
	env.AddFunction("tile", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		v, ok := pa.kw["archetype"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("tile requires :archetype")
		}
		an, err := toName(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("tile: archetype: %w", err)
		}
		a, err := params.ParseArchetype(an)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("tile: %w", err)
		}
		p := s.eng.defaults(a)
		if err := tileParams(&p, pa.kw); err != nil {
			return zygo.SexpNull, fmt.Errorf("tile: %w", err)
		}
		built, err := recipe.Build(s.cur, a, p, s.eng.build)
		if err != nil {
			return zygo.SexpNull, s.fail(fmt.Errorf("tile: %w", err))
		}
		s.tiles = append(s.tiles, built)
		return &sexpTile{t: built}, nil
	})
}

func component(get func(r3.Vec) float64) zygo.ZlispUserFunction {
	return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("%s requires a vec3 argument", name)
		}
		v, err := toVec3(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: %w", name, err)
		}
		return &zygo.SexpFloat{Val: get(v)}, nil
	}
}

// tileParams applies tile keyword arguments to p.
func tileParams(p *params.Parameters, kw map[string]zygo.Sexp) error {
	var err error
	for k, v := range kw {
		switch k {
		case "archetype":
		case "name":
			p.Name, err = toString(v)
		case "base", "core":
			var n string
			if n, err = toName(v); err == nil {
				var bp params.Blueprint
				if bp, err = params.ParseBlueprint(n); err == nil {
					if k == "base" {
						p.BaseBlueprint = bp
					} else {
						p.CoreBlueprint = bp
					}
				}
			}
		case "size":
			p.TileSize, err = toVec3(v)
		case "base-size":
			p.BaseSize, err = toVec3(v)
		case "radius":
			p.BaseRadius, err = toFloat64(v)
		case "arc":
			p.ArcDegrees, err = toFloat64(v)
		case "leg1":
			p.Leg1, err = toFloat64(v)
		case "leg2":
			p.Leg2, err = toFloat64(v)
		case "angle":
			p.CornerAngle, err = toFloat64(v)
		case "direction":
			var n string
			if n, err = toName(v); err == nil {
				p.CurveDirection, err = params.ParseCurveDirection(n)
			}
		case "socket":
			var n string
			if n, err = toName(v); err == nil {
				p.SocketSide, err = params.ParseSocketSide(n)
			}
		case "sub-x":
			p.Sub.X, err = toInt(v)
		case "sub-y":
			p.Sub.Y, err = toInt(v)
		case "sub-z":
			p.Sub.Z, err = toInt(v)
		case "curve":
			p.Sub.Curve, err = toInt(v)
		case "legs":
			var n int
			if n, err = toInt(v); err == nil {
				p.Sub.Leg1, p.Sub.Leg2 = n, n
			}
		case "width":
			p.Sub.Width, err = toInt(v)
		default:
			err = fmt.Errorf("unknown keyword :%s", k)
		}
		if err != nil {
			return fmt.Errorf("%s: %w", k, err)
		}
	}
	return nil
}
