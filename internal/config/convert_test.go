package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/chazu/tilesmith/pkg/params"
)

func TestParamsFromDefaults(t *testing.T) {
	cfg := Default()
	cfg.Defaults.TileSize = [3]float64{3, 2.5, 1.5}
	cfg.Defaults.ArcDegrees = 45
	cfg.Defaults.CurveDirection = "ccw"
	cfg.Defaults.SocketSide = "outer"

	wall, err := cfg.Params(params.CurvedWall)
	if err != nil {
		t.Fatalf("Params: %v", err)
	}
	if wall.TileSize.X != 3 || wall.TileSize.Z != 1.5 {
		t.Errorf("wall size = %v, want length 3 height 1.5", wall.TileSize)
	}
	if wall.TileSize.Y != params.Defaults(params.CurvedWall).TileSize.Y {
		t.Errorf("wall thickness changed to %g", wall.TileSize.Y)
	}
	if wall.ArcDegrees != 45 {
		t.Errorf("arc = %g, want 45", wall.ArcDegrees)
	}
	if wall.CurveDirection != params.CounterClockwise || wall.SocketSide != params.Outer {
		t.Errorf("direction/socket = %v/%v", wall.CurveDirection, wall.SocketSide)
	}
	if err := wall.Validate(params.CurvedWall); err != nil {
		t.Errorf("wall params invalid: %v", err)
	}

	floor, err := cfg.Params(params.StraightFloor)
	if err != nil {
		t.Fatalf("Params: %v", err)
	}
	if floor.TileSize.Y != 2.5 || floor.TileSize.Z != 0.3 {
		t.Errorf("floor size = %v, want width 2.5 height 0.3", floor.TileSize)
	}
	if floor.Sub.Z != 1 {
		t.Errorf("floor vertical subdivisions = %d, want 1", floor.Sub.Z)
	}
}

func TestParamsBadEnum(t *testing.T) {
	cfg := Default()
	cfg.Defaults.SocketSide = "sideways"
	if _, err := cfg.Params(params.CurvedFloor); err == nil {
		t.Fatal("expected error for unknown socket side")
	}
}

func TestBuildOptions(t *testing.T) {
	cfg := Default()
	cfg.Build.ZoneTolerance = 0.01
	cfg.Build.MaxTurtleCommands = 50
	cfg.Materials.Primary = "Brick"
	cfg.Materials.Strength = 0.25

	o, err := cfg.BuildOptions()
	if err != nil {
		t.Fatalf("BuildOptions: %v", err)
	}
	if o.ZoneTolerance != 0.01 || o.MaxCommands != 50 {
		t.Errorf("tolerance/budget = %g/%d", o.ZoneTolerance, o.MaxCommands)
	}
	if o.SlabTolerance != 1e-3 {
		t.Errorf("slab tolerance = %g, want 1e-3", o.SlabTolerance)
	}
	if o.Materials.Primary != "Brick" || o.Materials.Secondary != "Plastic" {
		t.Errorf("materials = %+v", o.Materials)
	}
	if o.Modifier.Strength != 0.25 || o.Modifier.Resolution != 1024 {
		t.Errorf("modifier = %+v", o.Modifier)
	}
	if o.Library != nil {
		t.Error("expected embedded library (nil) without a path")
	}
}

func TestBuildOptionsLibrary(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cutters.yaml")
	manifest := `
name: custom
entries:
  - id: peg
    width: 0.5
    shapes:
      - kind: box
        size: [0.5, 0.5, 0.5]
        at: [0, 0, 0]
`
	if err := os.WriteFile(path, []byte(manifest), 0644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}

	cfg := Default()
	cfg.Library.Path = path
	o, err := cfg.BuildOptions()
	if err != nil {
		t.Fatalf("BuildOptions: %v", err)
	}
	if o.Library == nil {
		t.Fatal("expected library to be loaded")
	}
	if _, err := o.Library.Entry("peg"); err != nil {
		t.Errorf("Entry(peg): %v", err)
	}

	cfg.Library.Path = filepath.Join(dir, "missing.yaml")
	if _, err := cfg.BuildOptions(); err == nil {
		t.Error("expected error for missing library")
	}
}
