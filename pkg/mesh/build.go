package mesh

import (
	"github.com/chazu/tilesmith/pkg/geom"
	"github.com/chazu/tilesmith/pkg/tileerr"
	"gonum.org/v1/gonum/spatial/r3"
)

// Bridge skins quads between two open vertex rows of equal length, adding
// cuts evenly spaced intermediate rows. It returns the new face indices.
func (m *Mesh) Bridge(a, b []int, cuts int) ([]int, error) {
	if len(a) != len(b) {
		return nil, tileerr.Geometry("bridge", "", "row lengths differ: %d and %d", len(a), len(b))
	}
	if len(a) < 2 {
		return nil, tileerr.Geometry("bridge", "", "rows need at least 2 vertices, got %d", len(a))
	}
	if cuts < 0 {
		return nil, tileerr.Geometry("bridge", "cuts", "cuts must not be negative, got %d", cuts)
	}

	rows := make([][]int, 0, cuts+2)
	rows = append(rows, a)
	for c := 1; c <= cuts; c++ {
		t := float64(c) / float64(cuts+1)
		row := make([]int, len(a))
		for i := range a {
			row[i] = m.AddVertex(geom.Lerp(m.Verts[a[i]], m.Verts[b[i]], t))
		}
		rows = append(rows, row)
	}
	rows = append(rows, b)

	var faces []int
	for r := 0; r+1 < len(rows); r++ {
		lo, hi := rows[r], rows[r+1]
		for i := 0; i+1 < len(lo); i++ {
			faces = append(faces, m.AddFace(lo[i], lo[i+1], hi[i+1], hi[i]))
		}
	}
	return faces, nil
}

// Extrude sweeps the given faces along dir in steps equal layers, capping
// the far end. The selected faces become the near cap and are rewound to
// face away from dir; side walls follow the selection's boundary. It
// returns the far cap face indices.
func (m *Mesh) Extrude(faces []int, dir r3.Vec, steps int) ([]int, error) {
	if len(faces) == 0 {
		return nil, tileerr.Geometry("extrude", "", "nothing selected")
	}
	if steps < 1 {
		return nil, tileerr.Geometry("extrude", "steps", "steps must be at least 1, got %d", steps)
	}
	if !geom.FiniteVec(dir) || r3.Norm(dir) < geom.Eps {
		return nil, tileerr.Geometry("extrude", "distance", "extrusion vector %v is degenerate", dir)
	}

	for _, fi := range faces {
		if r3.Dot(m.FaceNormal(fi), dir) > 0 {
			reverse(m.Faces[fi])
		}
	}

	directed := make(map[[2]int]bool)
	for _, fi := range faces {
		f := m.Faces[fi]
		for j := range f {
			directed[[2]int{f[j], f[(j+1)%len(f)]}] = true
		}
	}
	var boundary [][2]int
	for _, fi := range faces {
		f := m.Faces[fi]
		for j := range f {
			e := [2]int{f[j], f[(j+1)%len(f)]}
			if !directed[[2]int{e[1], e[0]}] {
				boundary = append(boundary, e)
			}
		}
	}

	var ring []int
	seen := make(map[int]bool)
	for _, fi := range faces {
		for _, v := range m.Faces[fi] {
			if !seen[v] {
				seen[v] = true
				ring = append(ring, v)
			}
		}
	}

	onBoundary := make(map[int]bool, len(boundary))
	for _, e := range boundary {
		onBoundary[e[0]] = true
		onBoundary[e[1]] = true
	}

	prev := make(map[int]int, len(ring))
	for _, v := range ring {
		prev[v] = v
	}
	for k := 1; k <= steps; k++ {
		offset := r3.Scale(float64(k)/float64(steps), dir)
		next := make(map[int]int, len(ring))
		for _, v := range ring {
			// Interior vertices only exist again on the far cap.
			if k < steps && !onBoundary[v] {
				continue
			}
			next[v] = m.AddVertex(r3.Add(m.Verts[v], offset))
		}
		for _, e := range boundary {
			a, b := e[0], e[1]
			m.AddFace(prev[b], prev[a], next[a], next[b])
		}
		prev = next
	}

	top := make([]int, 0, len(faces))
	for _, fi := range faces {
		f := m.Faces[fi]
		lid := make([]int, len(f))
		for j := range f {
			lid[len(f)-1-j] = prev[f[j]]
		}
		top = append(top, m.AddFace(lid...))
	}
	return top, nil
}

func reverse(f []int) {
	for i, j := 0, len(f)-1; i < j; i, j = i+1, j-1 {
		f[i], f[j] = f[j], f[i]
	}
}
