// Package scene evaluates a turtle script and flattens everything it built
// into coloured meshes for a viewer.
package scene

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/chazu/tilesmith/internal/logger"
	"github.com/chazu/tilesmith/pkg/engine"
	"github.com/chazu/tilesmith/pkg/geom"
	"github.com/chazu/tilesmith/pkg/kernel"
	"github.com/chazu/tilesmith/pkg/replay"
	"github.com/chazu/tilesmith/pkg/tile"
)

// colorPalette assigns distinct colors to tiles.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// traceColor is used for free-form turtle geometry.
const traceColor = "#9E9E9E"

// MeshData is the JSON form of one mesh.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	PartName string    `json:"partName"`
	Tile     string    `json:"tile,omitempty"`
	Color    string    `json:"color"`
}

// Message is a positioned diagnostic.
type Message struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// Result is everything a script produced.
type Result struct {
	Meshes   []MeshData `json:"meshes"`
	Errors   []Message  `json:"errors"`
	Warnings []Message  `json:"warnings"`
}

// Scene turns scripts into meshes. A nil kernel sends planned meshes
// without cutter booleans.
type Scene struct {
	engine *engine.Engine
	kernel kernel.Kernel
}

// New creates a Scene. A nil engine uses the stock one.
func New(e *engine.Engine, k kernel.Kernel) *Scene {
	if e == nil {
		e = engine.NewEngine()
	}
	return &Scene{engine: e, kernel: k}
}

// Evaluate runs source and returns its meshes and diagnostics. It never
// fails; problems are reported in Errors.
func (s *Scene) Evaluate(source string) Result {
	result := Result{
		Meshes:   []MeshData{},
		Errors:   []Message{},
		Warnings: []Message{},
	}

	res, evalErrs, err := s.engine.Evaluate(source)
	if err != nil {
		logger.Error("scene: evaluate failed", zap.Error(err))
		result.Errors = append(result.Errors, Message{Message: err.Error()})
		return result
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, Message{Line: e.Line, Col: e.Col, Message: e.Message})
		}
		return result
	}

	if res.Mesh != nil && !res.Mesh.IsEmpty() {
		result.Meshes = append(result.Meshes, meshData(res.Mesh.Flat("trace"), "", traceColor))
	}

	for i, t := range res.Tiles {
		color := colorPalette[i%len(colorPalette)]
		for _, p := range t.Parts() {
			if len(p.Missing) > 0 {
				result.Warnings = append(result.Warnings, Message{
					Message: fmt.Sprintf("%s: %d zones unclassified", p.Name, len(p.Missing)),
				})
			}
		}
		meshes, err := s.tileMeshes(t)
		if err != nil {
			logger.Warn("scene: tile realize failed", zap.String("tile", t.Name), zap.Error(err))
			result.Errors = append(result.Errors, Message{
				Message: fmt.Sprintf("realizing %s failed: %v", t.Name, err),
			})
			return result
		}
		for _, m := range meshes {
			result.Meshes = append(result.Meshes, meshData(m, t.Name, color))
		}
	}
	return result
}

func (s *Scene) tileMeshes(t *tile.Tile) ([]*kernel.Mesh, error) {
	if s.kernel != nil {
		return replay.Realize(t, s.kernel, replay.Visible...)
	}
	var out []*kernel.Mesh
	for _, kind := range replay.Visible {
		p, ok := t.Part(kind)
		if !ok || p.IsEmpty() {
			continue
		}
		out = append(out, p.Placed().Place(geom.Translation(t.Origin)).Flat(p.Name))
	}
	return out, nil
}

func meshData(m *kernel.Mesh, tileName, color string) MeshData {
	return MeshData{
		Vertices: m.Vertices,
		Normals:  m.Normals,
		Indices:  m.Indices,
		PartName: m.PartName,
		Tile:     tileName,
		Color:    color,
	}
}
