package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Defaults.TileSize != [3]float64{2, 2, 2} {
		t.Errorf("expected tile size 2x2x2, got %v", cfg.Defaults.TileSize)
	}
	if cfg.Defaults.Subdivisions != [3]int{15, 3, 15} {
		t.Errorf("expected subdivisions 15/3/15, got %v", cfg.Defaults.Subdivisions)
	}
	if cfg.Materials.Secondary != "Plastic" {
		t.Errorf("expected secondary material Plastic, got %s", cfg.Materials.Secondary)
	}
	if cfg.Materials.Resolution != 1024 {
		t.Errorf("expected resolution 1024, got %d", cfg.Materials.Resolution)
	}
	if cfg.Library.Path != "" {
		t.Errorf("expected embedded library by default, got %q", cfg.Library.Path)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tilesmith.yaml")

	content := `
build:
  zone_tolerance: 0.0001
materials:
  primary: "Brick"
defaults:
  arc_degrees: 45
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path, Overrides{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Build.ZoneTolerance != 0.0001 {
		t.Errorf("expected zone tolerance 0.0001, got %f", cfg.Build.ZoneTolerance)
	}
	if cfg.Materials.Primary != "Brick" {
		t.Errorf("expected primary Brick, got %s", cfg.Materials.Primary)
	}
	if cfg.Defaults.ArcDegrees != 45 {
		t.Errorf("expected arc 45, got %f", cfg.Defaults.ArcDegrees)
	}
	// Unset values keep their defaults.
	if cfg.Build.SlabTolerance != 1e-3 {
		t.Errorf("expected slab tolerance default, got %f", cfg.Build.SlabTolerance)
	}
	if cfg.Materials.Secondary != "Plastic" {
		t.Errorf("expected secondary default, got %s", cfg.Materials.Secondary)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), Overrides{})
	if err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestOverridesWin(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tilesmith.yaml")
	if err := os.WriteFile(path, []byte("export:\n  dir: from-file\n"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path, Overrides{OutDir: "from-flag", Debug: true})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Export.Dir != "from-flag" {
		t.Errorf("expected override dir, got %s", cfg.Export.Dir)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected debug level, got %s", cfg.Logging.Level)
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Materials.Primary = "Cobble"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded, err := Load(path, Overrides{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Materials.Primary != "Cobble" {
		t.Errorf("expected Cobble after reload, got %s", loaded.Materials.Primary)
	}
}
