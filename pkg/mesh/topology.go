package mesh

import (
	"math"

	"github.com/chazu/tilesmith/pkg/tileerr"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/spatial/r3"
)

// Edge is an undirected edge with the lower index first.
type Edge [2]int

func edge(a, b int) Edge {
	if a > b {
		a, b = b, a
	}
	return Edge{a, b}
}

// Edges returns every undirected edge with the number of faces using it.
func (m *Mesh) Edges() map[Edge]int {
	out := make(map[Edge]int)
	for _, f := range m.Faces {
		for j := range f {
			out[edge(f[j], f[(j+1)%len(f)])]++
		}
	}
	return out
}

// CheckManifold verifies that the mesh is closed and consistently wound:
// every directed edge appears once and its reverse appears once.
func (m *Mesh) CheckManifold() error {
	directed := make(map[[2]int]int)
	for _, f := range m.Faces {
		for j := range f {
			directed[[2]int{f[j], f[(j+1)%len(f)]}]++
		}
	}
	bad := 0
	for e, n := range directed {
		if n != 1 || directed[[2]int{e[1], e[0]}] != 1 {
			bad++
		}
	}
	if bad > 0 {
		return tileerr.Geometry("manifold", "", "%d directed edges are open, repeated or misoriented", bad)
	}
	return nil
}

// Paths answers shortest-path queries over the mesh edge graph with
// Euclidean edge weights.
type Paths struct {
	g *simple.WeightedUndirectedGraph
}

// Paths builds the edge graph once for repeated queries.
func (m *Mesh) Paths() *Paths {
	g := simple.NewWeightedUndirectedGraph(0, math.Inf(1))
	for e := range m.Edges() {
		w := r3.Norm(r3.Sub(m.Verts[e[0]], m.Verts[e[1]]))
		g.SetWeightedEdge(g.NewWeightedEdge(simple.Node(e[0]), simple.Node(e[1]), w))
	}
	return &Paths{g: g}
}

// Between returns the vertices on the shortest path from a to b, both
// ends included. It returns nil when no path exists.
func (p *Paths) Between(a, b int) []int {
	if a == b {
		return []int{a}
	}
	if p.g.Node(int64(a)) == nil || p.g.Node(int64(b)) == nil {
		return nil
	}
	nodes, _ := path.DijkstraFrom(simple.Node(a), p.g).To(int64(b))
	return nodeIDs(nodes)
}

func nodeIDs(nodes []graph.Node) []int {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]int, len(nodes))
	for i, n := range nodes {
		out[i] = int(n.ID())
	}
	return out
}
