// Package recipe builds tiles. Each archetype family supplies a base and a
// core strategy per blueprint; Build validates the parameters, runs the
// strategies against the caller's cursor, classifies the core, derives
// the displacement core and attaches cutters. A build either returns a
// complete tile or an error and nothing else.
package recipe

import (
	"fmt"
	"sort"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/tilesmith/internal/logger"
	"github.com/chazu/tilesmith/pkg/cutter"
	"github.com/chazu/tilesmith/pkg/displace"
	"github.com/chazu/tilesmith/pkg/geom"
	"github.com/chazu/tilesmith/pkg/mesh"
	"github.com/chazu/tilesmith/pkg/params"
	"github.com/chazu/tilesmith/pkg/tile"
	"github.com/chazu/tilesmith/pkg/tileerr"
	"github.com/chazu/tilesmith/pkg/turtle"
	"github.com/chazu/tilesmith/pkg/zone"
)

// OpenLOCK base dimensions, forced by the snap-fit blueprint.
const (
	SnapFitBaseWidth  = 0.5
	SnapFitBaseHeight = 0.2755
)

// Options tunes a build.
type Options struct {
	Library       *cutter.Library // nil uses the embedded OpenLOCK set
	ZoneTolerance float64
	SlabTolerance float64
	MaxCommands   int // turtle command budget per part; 0 is unlimited
	BendCores     bool
	Materials     displace.Materials
	Modifier      displace.Modifier
}

// DefaultOptions returns the stock build options.
func DefaultOptions() Options {
	return Options{
		ZoneTolerance: 5e-4,
		SlabTolerance: 1e-3,
		MaxCommands:   100000,
		BendCores:     true,
		Materials:     displace.DefaultMaterials(),
		Modifier:      displace.DefaultModifier(),
	}
}

// strategy builds one part. A nil part with a nil error means the part
// is absent.
type strategy func(b *builder) (*tile.Part, error)

type key struct {
	family    params.Family
	part      tile.PartKind
	blueprint params.Blueprint
}

var registry = map[key]strategy{}

func register(f params.Family, part tile.PartKind, bp params.Blueprint, s strategy) {
	k := key{f, part, bp}
	if _, dup := registry[k]; dup {
		panic(fmt.Sprintf("recipe: duplicate strategy for %v/%v/%v", f, part, bp))
	}
	registry[k] = s
}

// Strategies lists the registered (family, part, blueprint) triples.
func Strategies() []string {
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, fmt.Sprintf("%s/%s/%s", k.family, k.part, k.blueprint))
	}
	sort.Strings(out)
	return out
}

// builder carries the state of one build.
type builder struct {
	arch   params.Archetype
	p      params.Parameters
	opts   Options
	cur    *turtle.Cursor
	lib    *cutter.Library
	log    *zap.Logger
	corner *geom.Triangle

	// Filled by core strategies for classification.
	pathRules []zone.PathRule
	subtract  []subtraction
}

// subtraction removes the vertices of From zones from Zone.
type subtraction struct {
	Zone zone.Zone
	From []zone.Zone
}

// turtle returns a fresh turtle on a new mesh with the cursor at the tile
// origin in home orientation.
func (b *builder) turtle() *turtle.Turtle {
	*b.cur = turtle.Home()
	var opts []turtle.Option
	if b.opts.MaxCommands > 0 {
		opts = append(opts, turtle.WithBudget(b.opts.MaxCommands))
	}
	return turtle.New(b.cur, mesh.New(), opts...)
}

func (b *builder) entry(id string) (*cutter.Entry, error) {
	e, err := b.lib.Entry(id)
	if err != nil {
		return nil, tileerr.Annotate(err, b.arch.String(), "attach cutters")
	}
	return e, nil
}

// Normalize applies the blueprint-forced parameters.
func Normalize(a params.Archetype, p params.Parameters) params.Parameters {
	if p.BaseBlueprint == params.SnapFit {
		p.BaseSize.Z = SnapFitBaseHeight
		if !a.IsFloor() {
			p.BaseSize.Y = SnapFitBaseWidth
		}
	}
	return p
}

// Build builds a tile of archetype a at the cursor. The cursor is used as
// the turtle during the build and is restored before Build returns,
// whether or not the build succeeds.
func Build(cur *turtle.Cursor, a params.Archetype, p params.Parameters, opts Options) (*tile.Tile, error) {
	if cur == nil {
		c := turtle.Home()
		cur = &c
	}
	defer turtle.Hold(cur)()

	if !a.Valid() {
		return nil, &tileerr.ConfigError{Step: "validate", Param: "archetype", Message: fmt.Sprintf("unknown archetype %d", int(a))}
	}
	p = Normalize(a, p)
	if err := p.Validate(a); err != nil {
		return nil, err
	}
	if opts.ZoneTolerance <= 0 {
		opts.ZoneTolerance = DefaultOptions().ZoneTolerance
	}
	if opts.SlabTolerance <= 0 {
		opts.SlabTolerance = DefaultOptions().SlabTolerance
	}
	lib := opts.Library
	if lib == nil {
		lib = cutter.Default()
	}
	if p.Name == "" {
		p.Name = a.String()
	}

	b := &builder{
		arch: a,
		p:    p,
		opts: opts,
		cur:  cur,
		lib:  lib,
		log:  logger.Log.With(zap.String("archetype", a.String()), zap.String("tile", p.Name)),
	}
	t, err := b.build(cur.Pos)
	if err != nil {
		b.log.Debug("build failed", zap.Error(err))
		return nil, err
	}
	return t, nil
}

func (b *builder) build(origin r3.Vec) (*tile.Tile, error) {
	fam := b.arch.Family()

	base, err := b.run(fam, tile.Base, b.p.BaseBlueprint)
	if err != nil {
		return nil, err
	}
	if base == nil {
		base = &tile.Part{Kind: tile.Base, Name: b.p.Name + ".base", Mesh: mesh.New()}
	}
	core, err := b.run(fam, tile.Core, b.p.CoreBlueprint)
	if err != nil {
		return nil, err
	}

	t := &tile.Tile{
		Name:      b.p.Name,
		Archetype: b.arch,
		Params:    b.p,
		Origin:    origin,
		Base:      base,
		Core:      core,
		Corner:    b.corner,
		Metadata:  b.p.Metadata(b.arch),
	}

	if core != nil {
		b.classify(core)
		if err := b.displace(t); err != nil {
			return nil, err
		}
	}

	rep := tile.Validate(t)
	for _, w := range rep.Warnings {
		b.log.Warn("tile validation", zap.String("part", w.Part), zap.String("finding", w.Message))
	}
	if !rep.OK() {
		return nil, &tileerr.GeometryError{
			Archetype: b.arch.String(),
			Step:      "validate",
			Message:   fmt.Sprintf("%d validation errors", len(rep.Errors)),
			Cause:     rep.Err(),
		}
	}
	b.log.Debug("tile built",
		zap.Int("base_faces", base.Mesh.FaceCount()),
		zap.Int("parts", len(t.Parts())))
	return t, nil
}

func (b *builder) run(f params.Family, part tile.PartKind, bp params.Blueprint) (*tile.Part, error) {
	s, ok := registry[key{f, part, bp}]
	if !ok {
		return nil, &tileerr.ConfigError{
			Archetype: b.arch.String(),
			Step:      part.String(),
			Param:     part.String() + "_blueprint",
			Message:   fmt.Sprintf("no %s strategy for %s tiles with blueprint %s", part, f, bp),
		}
	}
	p, err := s(b)
	if err != nil {
		return nil, tileerr.Annotate(err, b.arch.String(), part.String())
	}
	if p != nil {
		b.log.Debug("part built",
			zap.String("step", part.String()),
			zap.String("part", p.Name),
			zap.Stringer("mesh", p.Mesh),
			zap.Int("cutters", p.Cutters.Len()))
	}
	return p, nil
}

// classify tags the core's vertices and records the required zones it
// failed to populate.
func (b *builder) classify(core *tile.Part) {
	var zs zone.Set
	if b.pathRules != nil {
		zs = zone.Paths(core.Mesh, b.pathRules, b.opts.ZoneTolerance)
	} else {
		zs = zone.Slabs(core.Mesh, b.opts.SlabTolerance)
	}
	for _, s := range b.subtract {
		for _, from := range s.From {
			zs.Remove(s.Zone, zs[from]...)
		}
	}
	core.Zones = zs
	core.Missing = zs.Missing(zone.Required(b.arch))
	if len(core.Missing) > 0 {
		b.log.Warn("classification gap",
			zap.String("step", "classify"),
			zap.String("part", core.Name),
			zap.Strings("zones", zone.Names(core.Missing)))
	}
}

// displace derives the displacement core from the preview core.
func (b *builder) displace(t *tile.Tile) error {
	core := t.Core
	res, err := displace.Build(displace.Input{
		Archetype: b.arch,
		Mesh:      core.Mesh,
		Zones:     core.Zones,
		Bend:      core.Bend,
	}, b.opts.Materials, b.opts.Modifier)
	if err != nil {
		return tileerr.Annotate(err, b.arch.String(), "displace")
	}

	d := &tile.Part{
		Kind:    tile.DisplacementCore,
		Name:    t.Name + ".displacement",
		Mesh:    res.Displacement.Mesh,
		Zones:   res.Displacement.Zones,
		Missing: append([]zone.Zone(nil), core.Missing...),
		Profile: core.Profile,
		Bend:    res.Displacement.Bend,
		Cutters: core.Cutters.Clone(),
	}
	if core.Bend.Length > 0 {
		// Side cutters sit on the bent ends; the unbent copy keeps them
		// attached but off.
		d.Profile = straightProfile(core.Mesh)
		for _, in := range d.Cutters.All() {
			in.Enabled = false
		}
	}
	min, max := d.Bounds()
	for _, trim := range cutter.Trimmers(min, max, 0.5) {
		if err := d.Attach(trim); err != nil {
			return tileerr.Annotate(&tileerr.GeometryError{Message: "attach trimmer", Cause: err}, b.arch.String(), "displace")
		}
	}
	t.Displaced = d
	t.Bake = res
	return nil
}

// straightProfile is the footprint of an unbent cuboid core.
func straightProfile(m *mesh.Mesh) *tile.Profile {
	min, max := m.Bounds()
	return &tile.Profile{
		Outline: rect(min.X, min.Y, max.X, max.Y),
		Z0:      min.Z,
		Height:  max.Z - min.Z,
	}
}

func rect(x0, y0, x1, y1 float64) [][2]float64 {
	return [][2]float64{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}}
}

// emptyPart is the None blueprint for either part.
func emptyPart(*builder) (*tile.Part, error) { return nil, nil }

// withCutters decorates a geometry strategy with a cutter layout.
func withCutters(s strategy, layout func(b *builder, p *tile.Part) error) strategy {
	return func(b *builder) (*tile.Part, error) {
		p, err := s(b)
		if err != nil || p == nil {
			return p, err
		}
		if err := layout(b, p); err != nil {
			return nil, err
		}
		return p, nil
	}
}
