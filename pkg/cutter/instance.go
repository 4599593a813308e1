package cutter

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/tilesmith/pkg/geom"
)

// Instance is a cutter placed on a part. Copies produced by Array are
// applied after Placement, in the part's frame.
type Instance struct {
	Name      string
	Source    string // library entry id; empty for procedural cutters
	Shapes    []Shape
	Width     float64
	Placement geom.Placement
	Array     Array
	Enabled   bool
}

// Array repeats an instance.
type Array interface {
	// Steps returns one placement per copy, applied after the instance
	// placement. An empty result means the instance produces nothing.
	Steps() []geom.Placement
}

// Place creates an enabled instance of e.
func (e *Entry) Place(name string, p geom.Placement) *Instance {
	return &Instance{
		Name:      name,
		Source:    e.ID,
		Shapes:    append([]Shape(nil), e.Shapes...),
		Width:     e.Width,
		Placement: p,
		Enabled:   true,
	}
}

// Procedural creates an enabled instance that is not backed by a library.
func Procedural(name string, p geom.Placement, shapes ...Shape) *Instance {
	return &Instance{Name: name, Shapes: shapes, Placement: p, Enabled: true}
}

// Box is a box shape with its minimum corner at min.
func Box(size, min r3.Vec) Shape {
	return Shape{Kind: KindBox, Size: [3]float64{size.X, size.Y, size.Z}, At: [3]float64{min.X, min.Y, min.Z}}
}

// Clone returns a deep copy, so toggles and placements can diverge.
func (in *Instance) Clone() *Instance {
	out := *in
	out.Shapes = append([]Shape(nil), in.Shapes...)
	return &out
}

// Transforms returns the placement of every copy.
func (in *Instance) Transforms() []geom.Placement {
	if in.Array == nil {
		return []geom.Placement{in.Placement}
	}
	steps := in.Array.Steps()
	out := make([]geom.Placement, len(steps))
	for i, s := range steps {
		out[i] = in.Placement.Then(s)
	}
	return out
}

// Footprints returns the XY outline of every shape of every copy, in the
// part's frame.
func (in *Instance) Footprints() [][]r3.Vec {
	var out [][]r3.Vec
	for _, p := range in.Transforms() {
		for _, s := range in.Shapes {
			local := s.Outline()
			placed := make([]r3.Vec, len(local))
			for i, v := range local {
				placed[i] = p.Apply(v)
			}
			out = append(out, placed)
		}
	}
	return out
}

// Outline returns the shape's XY outline at its base height.
func (s Shape) Outline() []r3.Vec {
	at := r3.Vec{X: s.At[0], Y: s.At[1], Z: s.At[2]}
	switch s.Kind {
	case KindBox:
		x, y := s.Size[0], s.Size[1]
		return []r3.Vec{
			at,
			r3.Add(at, r3.Vec{X: x}),
			r3.Add(at, r3.Vec{X: x, Y: y}),
			r3.Add(at, r3.Vec{Y: y}),
		}
	case KindCylinder:
		n := s.Segments
		if n < 3 {
			n = 24
		}
		out := make([]r3.Vec, n)
		for i := range out {
			a := 2 * math.Pi * float64(i) / float64(n)
			out[i] = r3.Add(at, r3.Vec{X: s.Radius * math.Cos(a), Y: s.Radius * math.Sin(a)})
		}
		return out
	case KindPrism:
		out := make([]r3.Vec, len(s.Profile))
		for i, p := range s.Profile {
			out[i] = r3.Add(at, r3.Vec{X: p[0], Y: p[1]})
		}
		return out
	}
	return nil
}

// LinearArray repeats copies along Axis so that the first starts at the
// instance position and the last ends exactly at Length.
type LinearArray struct {
	Axis   r3.Vec // unit direction in the part frame
	Pitch  float64
	Width  float64 // extent of one copy along Axis
	Length float64
}

// FitLinear returns how many copies fit in length at the given pitch and
// the spacing that makes the last copy end at length. At least one copy is
// always produced.
func FitLinear(length, width, pitch float64) (n int, spacing float64) {
	free := length - width
	if pitch <= 0 || free <= geom.Eps {
		return 1, 0
	}
	n = int(math.Floor(free/pitch+geom.Eps)) + 1
	if n < 2 {
		return 1, 0
	}
	return n, free / float64(n-1)
}

// Count returns the number of copies.
func (a LinearArray) Count() int {
	n, _ := FitLinear(a.Length, a.Width, a.Pitch)
	return n
}

// Steps implements Array.
func (a LinearArray) Steps() []geom.Placement {
	n, spacing := FitLinear(a.Length, a.Width, a.Pitch)
	out := make([]geom.Placement, n)
	for i := range out {
		out[i] = geom.Translation(r3.Scale(float64(i)*spacing, a.Axis))
	}
	return out
}

// CircularArray spreads copies over an arc about Centre. The first copy
// sits Margin degrees into the arc and the last Margin degrees before its
// end. Clockwise arcs rotate towards -Z angles.
type CircularArray struct {
	Centre    r3.Vec
	Arc       float64 // degrees
	Margin    float64 // degrees
	Pitch     float64 // degrees
	Clockwise bool
}

// FitCircular returns the angular position, in degrees from the start of
// the arc, of every copy.
func FitCircular(arc, margin, pitch float64) []float64 {
	span := arc - 2*margin
	if pitch <= 0 || arc <= 0 {
		return nil
	}
	n := int(math.Floor(span/pitch+geom.Eps)) + 1
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return []float64{arc / 2}
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = margin + float64(i)*span/float64(n-1)
	}
	return out
}

// Count returns the number of copies.
func (a CircularArray) Count() int {
	return len(FitCircular(a.Arc, a.Margin, a.Pitch))
}

// Steps implements Array.
func (a CircularArray) Steps() []geom.Placement {
	angles := FitCircular(a.Arc, a.Margin, a.Pitch)
	out := make([]geom.Placement, len(angles))
	for i, deg := range angles {
		if a.Clockwise {
			deg = -deg
		}
		out[i] = geom.RotateAbout(a.Centre, deg)
	}
	return out
}

// Set is the ordered collection of cutters attached to one part. Each
// cutter is an independent difference that can be toggled by name.
type Set struct {
	list []*Instance
}

// Attach adds in to the set. Names are unique within a part.
func (s *Set) Attach(in *Instance) error {
	if in == nil {
		return fmt.Errorf("cutter: attach nil instance")
	}
	if _, ok := s.Get(in.Name); ok {
		return fmt.Errorf("cutter: duplicate cutter %q", in.Name)
	}
	s.list = append(s.list, in)
	return nil
}

// Get finds a cutter by name.
func (s *Set) Get(name string) (*Instance, bool) {
	for _, in := range s.list {
		if in.Name == name {
			return in, true
		}
	}
	return nil, false
}

// SetEnabled toggles the named cutter.
func (s *Set) SetEnabled(name string, enabled bool) error {
	in, ok := s.Get(name)
	if !ok {
		return fmt.Errorf("cutter: no cutter %q", name)
	}
	in.Enabled = enabled
	return nil
}

// All returns every attached cutter in attachment order.
func (s *Set) All() []*Instance { return s.list }

// Enabled returns the cutters that currently apply.
func (s *Set) Enabled() []*Instance {
	var out []*Instance
	for _, in := range s.list {
		if in.Enabled {
			out = append(out, in)
		}
	}
	return out
}

// Names returns cutter names in attachment order.
func (s *Set) Names() []string {
	out := make([]string, len(s.list))
	for i, in := range s.list {
		out[i] = in.Name
	}
	return out
}

// Len returns the number of attached cutters.
func (s *Set) Len() int { return len(s.list) }

// Clone deep-copies the set.
func (s *Set) Clone() Set {
	out := Set{list: make([]*Instance, len(s.list))}
	for i, in := range s.list {
		out.list[i] = in.Clone()
	}
	return out
}

// Trimmers returns four side slabs hugging the bounds of a part, attached
// disabled. Enabling one trims anything a displacement pushes past that
// side of the tile.
func Trimmers(min, max r3.Vec, depth float64) []*Instance {
	if depth <= 0 {
		depth = 0.5
	}
	size := r3.Sub(max, min)
	h := size.Z + 2*depth
	z := min.Z - depth
	slabs := []struct {
		name      string
		size, min r3.Vec
	}{
		{"Trim X Neg", r3.Vec{X: depth, Y: size.Y + 2*depth, Z: h}, r3.Vec{X: min.X - depth, Y: min.Y - depth, Z: z}},
		{"Trim X Pos", r3.Vec{X: depth, Y: size.Y + 2*depth, Z: h}, r3.Vec{X: max.X, Y: min.Y - depth, Z: z}},
		{"Trim Y Neg", r3.Vec{X: size.X, Y: depth, Z: h}, r3.Vec{X: min.X, Y: min.Y - depth, Z: z}},
		{"Trim Y Pos", r3.Vec{X: size.X, Y: depth, Z: h}, r3.Vec{X: min.X, Y: max.Y, Z: z}},
	}
	out := make([]*Instance, len(slabs))
	for i, s := range slabs {
		in := Procedural(s.name, geom.Identity(), Box(s.size, s.min))
		in.Enabled = false
		out[i] = in
	}
	return out
}
