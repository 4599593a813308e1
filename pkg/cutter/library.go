// Package cutter holds the boolean cutters subtracted from tile parts:
// library entries parsed from a YAML manifest, placed instances with
// fit-to-length arrays, and per-part toggleable sets.
package cutter

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"sync"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/chazu/tilesmith/internal/logger"
	"github.com/chazu/tilesmith/pkg/tileerr"
)

// Shape kinds.
const (
	KindBox      = "box"
	KindCylinder = "cylinder"
	KindPrism    = "prism"
)

// Shape is one primitive of a cutter in its own frame. Boxes are placed by
// their minimum corner, cylinders by their centre and prisms by the base
// of their profile.
type Shape struct {
	Kind     string       `yaml:"kind"`
	Size     [3]float64   `yaml:"size,omitempty"`
	Radius   float64      `yaml:"radius,omitempty"`
	Height   float64      `yaml:"height,omitempty"`
	Segments int          `yaml:"segments,omitempty"`
	Profile  [][2]float64 `yaml:"profile,omitempty"`
	At       [3]float64   `yaml:"at"`
}

func (s Shape) validate() error {
	switch s.Kind {
	case KindBox:
		if s.Size[0] <= 0 || s.Size[1] <= 0 || s.Size[2] <= 0 {
			return fmt.Errorf("box size %v must be positive", s.Size)
		}
	case KindCylinder:
		if s.Radius <= 0 || s.Height <= 0 {
			return fmt.Errorf("cylinder radius %g and height %g must be positive", s.Radius, s.Height)
		}
	case KindPrism:
		if len(s.Profile) < 3 || s.Height <= 0 {
			return fmt.Errorf("prism needs 3+ profile points and positive height")
		}
	default:
		return fmt.Errorf("unknown shape kind %q", s.Kind)
	}
	return nil
}

// Entry is one named cutter in a library.
type Entry struct {
	ID          string  `yaml:"id"`
	Description string  `yaml:"description,omitempty"`
	Width       float64 `yaml:"width"`
	Shapes      []Shape `yaml:"shapes"`
}

// Library is an immutable set of cutter entries. It is safe to share
// between builds.
type Library struct {
	Name    string
	Source  string
	entries map[string]*Entry
}

type manifest struct {
	Name    string  `yaml:"name"`
	Entries []Entry `yaml:"entries"`
}

//go:embed openlock.yaml
var openlockManifest []byte

var (
	defaultOnce sync.Once
	defaultLib  *Library
)

// Default returns the embedded OpenLOCK library.
func Default() *Library {
	defaultOnce.Do(func() {
		lib, err := Parse("embedded:openlock.yaml", openlockManifest)
		if err != nil {
			panic(fmt.Sprintf("cutter: embedded library: %v", err))
		}
		defaultLib = lib
	})
	return defaultLib
}

// Open reads a library manifest from disk. A missing or unreadable file is
// an AssetError.
func Open(path string) (*Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &tileerr.AssetError{Step: "load library", Library: path, Cause: err}
	}
	lib, err := Parse(path, data)
	if err != nil {
		return nil, &tileerr.AssetError{Step: "load library", Library: path, Cause: err}
	}
	return lib, nil
}

// Parse decodes a library manifest. source names the manifest in errors.
func Parse(source string, data []byte) (*Library, error) {
	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("cutter: parse %s: %w", source, err)
	}
	lib := &Library{Name: m.Name, Source: source, entries: make(map[string]*Entry, len(m.Entries))}
	for i := range m.Entries {
		e := m.Entries[i]
		if e.ID == "" {
			return nil, fmt.Errorf("cutter: %s: entry %d has no id", source, i)
		}
		if _, dup := lib.entries[e.ID]; dup {
			return nil, fmt.Errorf("cutter: %s: duplicate entry %q", source, e.ID)
		}
		if len(e.Shapes) == 0 {
			return nil, fmt.Errorf("cutter: %s: entry %q has no shapes", source, e.ID)
		}
		for j, s := range e.Shapes {
			if err := s.validate(); err != nil {
				return nil, fmt.Errorf("cutter: %s: entry %q shape %d: %w", source, e.ID, j, err)
			}
		}
		if e.Width < 0 {
			return nil, fmt.Errorf("cutter: %s: entry %q has negative width", source, e.ID)
		}
		lib.entries[e.ID] = &e
	}
	logger.Debug("cutter library parsed",
		zap.String("source", source),
		zap.Int("entries", len(lib.entries)))
	return lib, nil
}

// IDs returns the entry ids in sorted order.
func (l *Library) IDs() []string {
	ids := make([]string, 0, len(l.entries))
	for id := range l.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Load returns the entries for ids, in order. The first missing id is
// reported as an AssetError.
func (l *Library) Load(ids ...string) ([]*Entry, error) {
	out := make([]*Entry, 0, len(ids))
	for _, id := range ids {
		e, ok := l.entries[id]
		if !ok {
			return nil, &tileerr.AssetError{Step: "load cutter", Library: l.Source, ID: id}
		}
		out = append(out, e)
	}
	return out, nil
}

// Entry returns a single entry.
func (l *Library) Entry(id string) (*Entry, error) {
	es, err := l.Load(id)
	if err != nil {
		return nil, err
	}
	return es[0], nil
}
