package config

import (
	"fmt"

	"github.com/chazu/tilesmith/pkg/cutter"
	"github.com/chazu/tilesmith/pkg/displace"
	"github.com/chazu/tilesmith/pkg/params"
	"github.com/chazu/tilesmith/pkg/recipe"
)

// Params returns the parameters for archetype a with the configured
// defaults applied. Lengths, leg and arc settings apply to every
// archetype. Heights and wall thicknesses apply to walls only; floors keep
// their archetype's thickness and single vertical layer.
func (c *Config) Params(a params.Archetype) (params.Parameters, error) {
	p := params.Defaults(a)
	d := c.Defaults

	p.TileSize.X = d.TileSize[0]
	p.BaseSize.X = d.BaseSize[0]
	p.Sub.X = d.Subdivisions[0]
	p.Sub.Y = d.Subdivisions[1]
	if a.IsFloor() {
		if a == params.StraightFloor {
			p.TileSize.Y = d.TileSize[1]
			p.BaseSize.Y = d.TileSize[1]
		}
	} else {
		p.TileSize.Z = d.TileSize[2]
		p.BaseSize.Y = d.BaseSize[1]
		p.BaseSize.Z = d.BaseSize[2]
		p.Sub.Z = d.Subdivisions[2]
	}

	p.Sub.Curve = d.CurveSegments
	p.Sub.Leg1, p.Sub.Leg2 = d.LegSegments[0], d.LegSegments[1]
	p.Sub.Width = d.WidthSegments
	p.BaseRadius = d.BaseRadius
	p.ArcDegrees = d.ArcDegrees
	p.Leg1, p.Leg2 = d.LegLengths[0], d.LegLengths[1]
	p.CornerAngle = d.CornerAngle

	var err error
	if p.SocketSide, err = params.ParseSocketSide(d.SocketSide); err != nil {
		return params.Parameters{}, fmt.Errorf("config: defaults: %w", err)
	}
	if p.CurveDirection, err = params.ParseCurveDirection(d.CurveDirection); err != nil {
		return params.Parameters{}, fmt.Errorf("config: defaults: %w", err)
	}
	return p, nil
}

// BuildOptions returns recipe options for the configured tolerances,
// materials and cutter library. An empty library path uses the embedded
// OpenLOCK set.
func (c *Config) BuildOptions() (recipe.Options, error) {
	o := recipe.DefaultOptions()
	b := c.Build
	if b.ZoneTolerance > 0 {
		o.ZoneTolerance = b.ZoneTolerance
	}
	if b.SlabTolerance > 0 {
		o.SlabTolerance = b.SlabTolerance
	}
	o.MaxCommands = b.MaxTurtleCommands
	o.BendCores = b.BendCores

	m := c.Materials
	o.Materials = displace.Materials{Primary: m.Primary, Secondary: m.Secondary}
	o.Modifier = displace.Modifier{
		Strength:     m.Strength,
		MidLevel:     m.MidLevel,
		Subdivisions: m.Subdivisions,
		Resolution:   m.Resolution,
	}

	if c.Library.Path != "" {
		lib, err := cutter.Open(c.Library.Path)
		if err != nil {
			return o, fmt.Errorf("config: library: %w", err)
		}
		o.Library = lib
	}
	return o, nil
}
