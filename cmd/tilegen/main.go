// tilegen is a CLI for building parametric tabletop terrain tiles.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/chazu/tilesmith/internal/config"
	"github.com/chazu/tilesmith/internal/logger"
	"github.com/chazu/tilesmith/pkg/kernel"
	"github.com/chazu/tilesmith/pkg/kernel/manifold"
	"github.com/chazu/tilesmith/pkg/kernel/sdfx"
	"github.com/chazu/tilesmith/pkg/tileerr"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "build", "b":
		err = cmdBuild(args)
	case "rebuild":
		err = cmdRebuild(args)
	case "trace", "run":
		err = cmdTrace(args)
	case "scene":
		err = cmdScene(args)
	case "zones":
		err = cmdZones(args)
	case "library", "lib":
		err = cmdLibrary(args)
	case "remesh":
		err = cmdRemesh(args)
	case "config":
		err = cmdConfig(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
	logger.Sync()
	if err != nil {
		report(err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`tilegen - parametric terrain tile generator

Usage:
  tilegen <command> [options]

Commands:
  build <archetype>          Build a tile and write STL, metadata and preview
  rebuild <tile.yaml>        Rebuild a tile from its metadata file
  trace <script.zy>          Run a turtle script and export what it traced
  scene <script.zy>          Run a turtle script and print its meshes as JSON
  zones <archetype>          Print the core's zone vertex counts
  library [manifest.yaml]    List cutter library entries
  remesh <archetype>         Build a tile and voxel-remesh its visible parts
  config [-init [path]]      Print the effective config, or write the defaults

Archetypes:
  straight_wall straight_floor curved_wall curved_floor l_wall l_floor

Common options:
  -config <path>   Configuration file
  -out <dir>       Output directory
  -debug           Debug logging

Examples:
  tilegen build -base openlock -core plain curved_wall
  tilegen build -planned -out ./tiles l_floor
  tilegen trace -out ./tiles examples/scripts/corridor.zy
  tilegen zones l_wall`)
}

// common holds the flags every command shares.
type common struct {
	configPath string
	outDir     string
	library    string
	logFile    string
	debug      bool
	kernel     string
}

func (c *common) register(fs *flag.FlagSet) {
	fs.StringVar(&c.configPath, "config", "", "Configuration file")
	fs.StringVar(&c.outDir, "out", "", "Output directory")
	fs.StringVar(&c.library, "library", "", "Cutter library manifest")
	fs.StringVar(&c.logFile, "log", "", "Log file")
	fs.BoolVar(&c.debug, "debug", false, "Debug logging")
	fs.StringVar(&c.kernel, "kernel", "sdfx", "Replay kernel: sdfx or manifold")
}

// setup loads the configuration and starts the logger.
func (c *common) setup() (*config.Config, error) {
	cfg, err := config.Load(c.configPath, config.Overrides{
		Debug:   c.debug,
		OutDir:  c.outDir,
		Library: c.library,
		LogFile: c.logFile,
	})
	if err != nil {
		return nil, err
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	logger.Sugar.Debugf("config: %+v", cfg)
	return cfg, nil
}

// replayKernel returns the kernel named by -kernel, sized from the config.
func (c *common) replayKernel(cfg *config.Config) (kernel.Kernel, error) {
	switch c.kernel {
	case "", "sdfx":
		return sdfx.NewWithCells(cfg.Export.MeshCells), nil
	case "manifold":
		return manifold.New()
	}
	return nil, fmt.Errorf("unknown kernel %q", c.kernel)
}

// report prints err, naming the failing step when it is a tile error.
func report(err error) {
	var cfgErr *tileerr.ConfigError
	var geoErr *tileerr.GeometryError
	var assetErr *tileerr.AssetError
	switch {
	case errors.As(err, &cfgErr):
		fmt.Fprintf(os.Stderr, "Invalid parameters: %v\n", err)
	case errors.As(err, &geoErr):
		fmt.Fprintf(os.Stderr, "Geometry failure: %v\n", err)
	case errors.As(err, &assetErr):
		fmt.Fprintf(os.Stderr, "Missing asset: %v\n", err)
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
}
