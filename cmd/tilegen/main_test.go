package main

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/chazu/tilesmith/internal/config"
	"github.com/chazu/tilesmith/pkg/params"
)

func TestTileFlags(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	var tf tileFlags
	tf.register(fs)
	if err := fs.Parse([]string{"-name", "arch", "-base", "plain", "-core", "none", "-socket", "outer", "-direction", "ccw"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	p := params.Defaults(params.CurvedWall)
	if err := tf.apply(&p); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if p.Name != "arch" || p.BaseBlueprint != params.Plain || p.CoreBlueprint != params.None {
		t.Errorf("got name=%q base=%v core=%v", p.Name, p.BaseBlueprint, p.CoreBlueprint)
	}
	if p.SocketSide != params.Outer || p.CurveDirection != params.CounterClockwise {
		t.Errorf("got socket=%v direction=%v", p.SocketSide, p.CurveDirection)
	}

	bad := tileFlags{base: "wobbly"}
	if err := bad.apply(&p); err == nil {
		t.Error("expected error for unknown blueprint")
	}
}

func TestBuildTile(t *testing.T) {
	cfg := config.Default()
	cfg.Defaults.Subdivisions = [3]int{3, 1, 2}

	tl, err := buildTile(cfg, "straight_wall", &tileFlags{name: "w"})
	if err != nil {
		t.Fatalf("buildTile: %v", err)
	}
	if tl.Name != "w" || tl.Core == nil {
		t.Fatalf("got tile %q with core %v", tl.Name, tl.Core)
	}

	if _, err := buildTile(cfg, "round_wall", &tileFlags{}); err == nil {
		t.Error("expected error for unknown archetype")
	}
}

func TestWriteTilePlanned(t *testing.T) {
	cfg := config.Default()
	cfg.Defaults.Subdivisions = [3]int{3, 1, 2}
	cfg.Export.Dir = t.TempDir()

	tl, err := buildTile(cfg, "straight_wall", &tileFlags{})
	if err != nil {
		t.Fatalf("buildTile: %v", err)
	}
	if err := writeTile(cfg, tl, nil); err != nil {
		t.Fatalf("writeTile: %v", err)
	}
	for _, name := range []string{"straight_wall.core.stl", "straight_wall.yaml", "straight_wall.png"} {
		if _, err := os.Stat(filepath.Join(cfg.Export.Dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
}

func TestInitConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "config.yaml")
	got, err := initConfig(path, false)
	if err != nil {
		t.Fatalf("initConfig: %v", err)
	}
	if got != path {
		t.Errorf("wrote %s, want %s", got, path)
	}

	cfg, err := config.Load(path, config.Overrides{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Export.MeshCells != config.Default().Export.MeshCells {
		t.Errorf("mesh cells = %d, want default", cfg.Export.MeshCells)
	}

	if _, err := initConfig(path, false); err == nil {
		t.Error("expected an error for an existing file")
	}
	if _, err := initConfig(path, true); err != nil {
		t.Errorf("force overwrite: %v", err)
	}
}
