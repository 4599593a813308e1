// Package export writes built tiles to disk: one STL per realized part and
// a YAML metadata record from which the tile's parameters can be rebuilt.
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/unixpickle/model3d/model3d"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/chazu/tilesmith/internal/logger"
	"github.com/chazu/tilesmith/pkg/geom"
	"github.com/chazu/tilesmith/pkg/kernel"
	"github.com/chazu/tilesmith/pkg/mesh"
	"github.com/chazu/tilesmith/pkg/params"
	"github.com/chazu/tilesmith/pkg/replay"
	"github.com/chazu/tilesmith/pkg/tile"
)

// Record is the on-disk form of a tile's metadata.
type Record struct {
	Tile     string          `yaml:"tile"`
	Origin   [3]float64      `yaml:"origin"`
	Parts    []string        `yaml:"parts,omitempty"`
	Metadata params.Metadata `yaml:"metadata"`
}

// Parameters recovers the archetype and parameters stored in the record.
func (r *Record) Parameters() (params.Archetype, params.Parameters, error) {
	return params.FromMetadata(r.Metadata)
}

// WriteSTL encodes a kernel mesh as binary STL.
func WriteSTL(w io.Writer, m *kernel.Mesh) error {
	if m == nil || len(m.Indices) == 0 {
		return fmt.Errorf("export: empty mesh")
	}
	return model3d.WriteSTL(w, mesh.FromFlat(m).ToModel3D().TriangleSlice())
}

// SaveSTL writes a kernel mesh to path.
func SaveSTL(path string, m *kernel.Mesh) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := WriteSTL(f, m); err != nil {
		f.Close()
		return fmt.Errorf("export: %s: %w", path, err)
	}
	return f.Close()
}

// SavePlanned writes a part's planned mesh, bend applied and placed at
// origin, without going through a kernel.
func SavePlanned(path string, p *tile.Part, t *tile.Tile) error {
	if p.IsEmpty() {
		return fmt.Errorf("export: %s: part has no geometry", p.Name)
	}
	m := p.Placed().Place(geom.Translation(t.Origin)).ToModel3D()
	if err := m.SaveGroupedSTL(path); err != nil {
		return fmt.Errorf("export: %s: %w", path, err)
	}
	return nil
}

// NewRecord collects the metadata of t.
func NewRecord(t *tile.Tile) *Record {
	r := &Record{
		Tile:     t.Name,
		Origin:   [3]float64{t.Origin.X, t.Origin.Y, t.Origin.Z},
		Metadata: t.Metadata,
	}
	for _, p := range t.Parts() {
		if !p.IsEmpty() {
			r.Parts = append(r.Parts, p.Kind.String())
		}
	}
	if r.Metadata == nil {
		r.Metadata = t.Params.Metadata(t.Archetype)
	}
	return r
}

// WriteMetadata encodes t's metadata record as YAML.
func WriteMetadata(w io.Writer, t *tile.Tile) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(NewRecord(t)); err != nil {
		return fmt.Errorf("export: metadata: %w", err)
	}
	return enc.Close()
}

// ReadMetadata decodes a record written by WriteMetadata.
func ReadMetadata(r io.Reader) (*Record, error) {
	var rec Record
	if err := yaml.NewDecoder(r).Decode(&rec); err != nil {
		return nil, fmt.Errorf("export: metadata: %w", err)
	}
	if len(rec.Metadata) == 0 {
		return nil, fmt.Errorf("export: metadata: record for %q has no parameters", rec.Tile)
	}
	return &rec, nil
}

// LoadMetadata reads a metadata file.
func LoadMetadata(path string) (*Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	defer f.Close()
	return ReadMetadata(f)
}

// Tile realizes the tile's visible parts with k and writes them to dir as
// <tile>.<part>.stl next to <tile>.yaml. It returns the written paths in
// sorted order. A nil kernel writes the planned meshes instead.
func Tile(dir string, t *tile.Tile, k kernel.Kernel) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	var written []string
	stem := filepath.Join(dir, Stem(t.Name))
	for _, kind := range replay.Visible {
		p, ok := t.Part(kind)
		if !ok || p.IsEmpty() {
			continue
		}
		path := stem + "." + kind.String() + ".stl"
		if k == nil {
			if err := SavePlanned(path, p, t); err != nil {
				return written, err
			}
			written = append(written, path)
			continue
		}
		meshes, err := replay.Realize(t, k, kind)
		if err != nil {
			return written, fmt.Errorf("export: %s: %w", t.Name, err)
		}
		if len(meshes) == 0 {
			continue
		}
		if err := SaveSTL(path, meshes[0]); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	meta := stem + ".yaml"
	f, err := os.Create(meta)
	if err != nil {
		return written, fmt.Errorf("export: %w", err)
	}
	if err := WriteMetadata(f, t); err != nil {
		f.Close()
		return written, err
	}
	if err := f.Close(); err != nil {
		return written, fmt.Errorf("export: %w", err)
	}
	written = append(written, meta)
	sort.Strings(written)

	logger.Info("export: tile written",
		zap.String("tile", t.Name), zap.String("dir", dir), zap.Int("files", len(written)))
	return written, nil
}

// Stem returns the file name stem used for a tile's outputs.
func Stem(name string) string {
	if name == "" {
		return "tile"
	}
	out := []rune(name)
	for i, r := range out {
		if r == '/' || r == '\\' || r == ' ' {
			out[i] = '_'
		}
	}
	return string(out)
}
