// Package zone partitions a core's vertices into named regions used for
// material assignment and boolean targeting. Zones may share vertices
// along seams.
package zone

import (
	"fmt"
	"sort"

	"github.com/chazu/tilesmith/pkg/params"
)

// Zone is a named vertex region.
type Zone int

const (
	Left Zone = iota
	Right
	Front
	Back
	Top
	Bottom

	Leg1End
	Leg1Inner
	Leg1Outer
	Leg1Top
	Leg1Bottom

	Leg2End
	Leg2Inner
	Leg2Outer
	Leg2Top
	Leg2Bottom

	zoneCount
)

var zoneNames = [zoneCount]string{
	Left:       "Left",
	Right:      "Right",
	Front:      "Front",
	Back:       "Back",
	Top:        "Top",
	Bottom:     "Bottom",
	Leg1End:    "Leg 1 End",
	Leg1Inner:  "Leg 1 Inner",
	Leg1Outer:  "Leg 1 Outer",
	Leg1Top:    "Leg 1 Top",
	Leg1Bottom: "Leg 1 Bottom",
	Leg2End:    "Leg 2 End",
	Leg2Inner:  "Leg 2 Inner",
	Leg2Outer:  "Leg 2 Outer",
	Leg2Top:    "Leg 2 Top",
	Leg2Bottom: "Leg 2 Bottom",
}

func (z Zone) String() string {
	if z < 0 || z >= zoneCount {
		return fmt.Sprintf("zone(%d)", int(z))
	}
	return zoneNames[z]
}

// Parse maps a zone name such as "Leg 1 End" to its zone.
func Parse(s string) (Zone, error) {
	for i, n := range zoneNames {
		if n == s {
			return Zone(i), nil
		}
	}
	return 0, fmt.Errorf("zone: unknown zone %q", s)
}

var (
	boxZones = []Zone{Left, Right, Front, Back, Top, Bottom}
	legZones = []Zone{
		Leg1End, Leg1Inner, Leg1Outer, Leg1Top, Leg1Bottom,
		Leg2End, Leg2Inner, Leg2Outer, Leg2Top, Leg2Bottom,
	}
)

// required is the material contract: the zones each archetype's core must
// populate. Indexing by archetype makes a missing entry a compile error.
var required = [params.ArchetypeCount][]Zone{
	params.StraightWall:  boxZones,
	params.StraightFloor: boxZones,
	params.CurvedWall:    boxZones,
	params.CurvedFloor:   boxZones,
	params.LWall:         legZones,
	params.LFloor:        legZones,
}

var textured = [params.ArchetypeCount][]Zone{
	params.StraightWall:  {Front, Back},
	params.StraightFloor: {Top},
	params.CurvedWall:    {Front, Back},
	params.CurvedFloor:   {Top},
	params.LWall:         {Leg1Outer, Leg1Inner, Leg2Outer, Leg2Inner},
	params.LFloor:        {Leg1Top, Leg2Top},
}

// Required returns the zones an archetype's core must populate.
func Required(a params.Archetype) []Zone {
	return append([]Zone(nil), required[a]...)
}

// Textured returns the zones that receive the displacement texture.
func Textured(a params.Archetype) []Zone {
	return append([]Zone(nil), textured[a]...)
}

// IsTextured reports whether z is textured for archetype a.
func IsTextured(a params.Archetype, z Zone) bool {
	for _, t := range textured[a] {
		if t == z {
			return true
		}
	}
	return false
}

// Set maps zones to sorted, duplicate-free vertex indices.
type Set map[Zone][]int

// Add merges vertex indices into zone z.
func (s Set) Add(z Zone, verts ...int) {
	if len(verts) == 0 {
		if _, ok := s[z]; !ok {
			s[z] = nil
		}
		return
	}
	s[z] = union(s[z], verts)
}

// Remove drops vertex indices from zone z.
func (s Set) Remove(z Zone, verts ...int) {
	drop := make(map[int]bool, len(verts))
	for _, v := range verts {
		drop[v] = true
	}
	kept := s[z][:0:0]
	for _, v := range s[z] {
		if !drop[v] {
			kept = append(kept, v)
		}
	}
	s[z] = kept
}

// Has reports whether vertex v is in zone z.
func (s Set) Has(z Zone, v int) bool {
	vs := s[z]
	i := sort.SearchInts(vs, v)
	return i < len(vs) && vs[i] == v
}

// Count returns the number of vertices in zone z.
func (s Set) Count(z Zone) int { return len(s[z]) }

// Zones returns the zones present, in declaration order.
func (s Set) Zones() []Zone {
	out := make([]Zone, 0, len(s))
	for z := Zone(0); z < zoneCount; z++ {
		if _, ok := s[z]; ok {
			out = append(out, z)
		}
	}
	return out
}

// Missing returns the required zones that are absent or empty.
func (s Set) Missing(req []Zone) []Zone {
	var out []Zone
	for _, z := range req {
		if len(s[z]) == 0 {
			out = append(out, z)
		}
	}
	return out
}

// Clone returns a deep copy.
func (s Set) Clone() Set {
	out := make(Set, len(s))
	for z, vs := range s {
		out[z] = append([]int(nil), vs...)
	}
	return out
}

// Names renders zones as their names.
func Names(zs []Zone) []string {
	out := make([]string, len(zs))
	for i, z := range zs {
		out[i] = z.String()
	}
	return out
}

func union(a, b []int) []int {
	seen := make(map[int]bool, len(a)+len(b))
	out := make([]int, 0, len(a)+len(b))
	for _, v := range a {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	for _, v := range b {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Ints(out)
	return out
}
