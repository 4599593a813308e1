package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/chazu/tilesmith/internal/config"
	"github.com/chazu/tilesmith/internal/logger"
	"github.com/chazu/tilesmith/internal/scene"
	"github.com/chazu/tilesmith/pkg/cutter"
	"github.com/chazu/tilesmith/pkg/engine"
	"github.com/chazu/tilesmith/pkg/export"
	"github.com/chazu/tilesmith/pkg/kernel"
	"github.com/chazu/tilesmith/pkg/params"
	"github.com/chazu/tilesmith/pkg/preview"
	"github.com/chazu/tilesmith/pkg/recipe"
	"github.com/chazu/tilesmith/pkg/replay"
	"github.com/chazu/tilesmith/pkg/tile"
	"github.com/chazu/tilesmith/pkg/turtle"
	"github.com/chazu/tilesmith/pkg/zone"
)

// tileFlags are the parameter overrides accepted by commands that build
// a single tile.
type tileFlags struct {
	name      string
	base      string
	core      string
	socket    string
	direction string
}

func (f *tileFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.name, "name", "", "Tile name")
	fs.StringVar(&f.base, "base", "", "Base blueprint: plain, openlock or none")
	fs.StringVar(&f.core, "core", "", "Core blueprint: plain, openlock or none")
	fs.StringVar(&f.socket, "socket", "", "Curved base socket side: inner or outer")
	fs.StringVar(&f.direction, "direction", "", "Curve direction: clockwise or counter_clockwise")
}

func (f *tileFlags) apply(p *params.Parameters) error {
	var err error
	if f.name != "" {
		p.Name = f.name
	}
	if f.base != "" {
		if p.BaseBlueprint, err = params.ParseBlueprint(f.base); err != nil {
			return err
		}
	}
	if f.core != "" {
		if p.CoreBlueprint, err = params.ParseBlueprint(f.core); err != nil {
			return err
		}
	}
	if f.socket != "" {
		if p.SocketSide, err = params.ParseSocketSide(f.socket); err != nil {
			return err
		}
	}
	if f.direction != "" {
		if p.CurveDirection, err = params.ParseCurveDirection(f.direction); err != nil {
			return err
		}
	}
	return nil
}

// buildTile parses the archetype argument and builds it at the origin.
func buildTile(cfg *config.Config, arg string, tf *tileFlags) (*tile.Tile, error) {
	a, err := params.ParseArchetype(arg)
	if err != nil {
		return nil, err
	}
	p, err := cfg.Params(a)
	if err != nil {
		return nil, err
	}
	if err := tf.apply(&p); err != nil {
		return nil, err
	}
	opts, err := cfg.BuildOptions()
	if err != nil {
		return nil, err
	}
	cur := turtle.Home()
	return recipe.Build(&cur, a, p, opts)
}

// writeTile exports t to the configured directory, realizing it with k
// unless k is nil.
func writeTile(cfg *config.Config, t *tile.Tile, k kernel.Kernel) error {
	files, err := export.Tile(cfg.Export.Dir, t, k)
	if err != nil {
		return err
	}
	if cfg.Export.Preview {
		png := filepath.Join(cfg.Export.Dir, export.Stem(t.Name)+".png")
		if err := preview.SavePNG(t, png, preview.DefaultOptions()); err != nil {
			return err
		}
		files = append(files, png)
	}
	for _, f := range files {
		fmt.Println(f)
	}
	return nil
}

func cmdBuild(args []string) error {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	var c common
	var tf tileFlags
	c.register(fs)
	tf.register(fs)
	planned := fs.Bool("planned", false, "Write planned meshes without kernel booleans")
	fs.Parse(args)

	if fs.NArg() < 1 {
		return fmt.Errorf("usage: tilegen build [options] <archetype>")
	}
	cfg, err := c.setup()
	if err != nil {
		return err
	}
	t, err := buildTile(cfg, fs.Arg(0), &tf)
	if err != nil {
		return err
	}
	var k kernel.Kernel
	if !*planned {
		if k, err = c.replayKernel(cfg); err != nil {
			return err
		}
	}
	return writeTile(cfg, t, k)
}

func cmdRebuild(args []string) error {
	fs := flag.NewFlagSet("rebuild", flag.ExitOnError)
	var c common
	c.register(fs)
	planned := fs.Bool("planned", false, "Write planned meshes without kernel booleans")
	fs.Parse(args)

	if fs.NArg() < 1 {
		return fmt.Errorf("usage: tilegen rebuild [options] <tile.yaml>")
	}
	cfg, err := c.setup()
	if err != nil {
		return err
	}
	rec, err := export.LoadMetadata(fs.Arg(0))
	if err != nil {
		return err
	}
	a, p, err := rec.Parameters()
	if err != nil {
		return err
	}
	opts, err := cfg.BuildOptions()
	if err != nil {
		return err
	}
	cur := turtle.Home()
	cur.Pos.X, cur.Pos.Y, cur.Pos.Z = rec.Origin[0], rec.Origin[1], rec.Origin[2]
	t, err := recipe.Build(&cur, a, p, opts)
	if err != nil {
		return err
	}
	var k kernel.Kernel
	if !*planned {
		if k, err = c.replayKernel(cfg); err != nil {
			return err
		}
	}
	return writeTile(cfg, t, k)
}

func cmdTrace(args []string) error {
	fs := flag.NewFlagSet("trace", flag.ExitOnError)
	var c common
	c.register(fs)
	planned := fs.Bool("planned", true, "Write planned meshes without kernel booleans")
	fs.Parse(args)

	if fs.NArg() < 1 {
		return fmt.Errorf("usage: tilegen trace [options] <script.zy>")
	}
	cfg, err := c.setup()
	if err != nil {
		return err
	}
	src, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return err
	}
	opts, err := cfg.BuildOptions()
	if err != nil {
		return err
	}
	// Surface bad defaults before evaluating.
	if _, err := cfg.Params(params.StraightWall); err != nil {
		return err
	}
	eng := engine.NewEngine(
		engine.WithBudget(cfg.Build.MaxTurtleCommands),
		engine.WithBuildOptions(opts),
		engine.WithDefaults(func(a params.Archetype) params.Parameters {
			p, _ := cfg.Params(a)
			return p
		}),
	)
	res, evalErrs, err := eng.Evaluate(string(src))
	if err != nil {
		return err
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			fmt.Fprintf(os.Stderr, "%s: %v\n", fs.Arg(0), e)
		}
		if evalErrs[0].Cause != nil {
			return evalErrs[0].Cause
		}
		return fmt.Errorf("%d evaluation errors", len(evalErrs))
	}
	logger.Info("script evaluated",
		zap.String("script", fs.Arg(0)),
		zap.Int("commands", res.Commands),
		zap.Int("tiles", len(res.Tiles)))

	if res.Mesh != nil && !res.Mesh.IsEmpty() {
		if err := os.MkdirAll(cfg.Export.Dir, 0o755); err != nil {
			return err
		}
		name := strings.TrimSuffix(filepath.Base(fs.Arg(0)), filepath.Ext(fs.Arg(0)))
		path := filepath.Join(cfg.Export.Dir, export.Stem(name)+".stl")
		if err := export.SaveSTL(path, res.Mesh.Flat(name)); err != nil {
			return err
		}
		fmt.Println(path)
	}

	var k kernel.Kernel
	if !*planned {
		if k, err = c.replayKernel(cfg); err != nil {
			return err
		}
	}
	seen := make(map[string]int)
	for _, t := range res.Tiles {
		if n := seen[t.Name]; n > 0 {
			seen[t.Name]++
			t.Name = fmt.Sprintf("%s.%d", t.Name, n)
		} else {
			seen[t.Name] = 1
		}
		if err := writeTile(cfg, t, k); err != nil {
			return err
		}
	}
	return nil
}

func cmdZones(args []string) error {
	fs := flag.NewFlagSet("zones", flag.ExitOnError)
	var c common
	var tf tileFlags
	c.register(fs)
	tf.register(fs)
	fs.Parse(args)

	if fs.NArg() < 1 {
		return fmt.Errorf("usage: tilegen zones [options] <archetype>")
	}
	cfg, err := c.setup()
	if err != nil {
		return err
	}
	t, err := buildTile(cfg, fs.Arg(0), &tf)
	if err != nil {
		return err
	}
	if t.Core == nil {
		fmt.Printf("%s has no core\n", t.Name)
		return nil
	}

	fmt.Printf("Tile:     %s (%s)\n", t.Name, t.Archetype)
	fmt.Printf("Vertices: %d\n", t.Core.Mesh.VertexCount())
	fmt.Println()
	for _, z := range t.Core.Zones.Zones() {
		material := ""
		if t.Bake != nil {
			material, _ = t.Bake.Material(z)
		}
		mark := " "
		if zone.IsTextured(t.Archetype, z) {
			mark = "*"
		}
		fmt.Printf("  %s %-12s %5d  %s\n", mark, z, t.Core.Zones.Count(z), material)
	}
	if len(t.Core.Missing) > 0 {
		fmt.Printf("\nMissing: %s\n", strings.Join(zone.Names(t.Core.Missing), ", "))
	}
	return nil
}

func cmdLibrary(args []string) error {
	fs := flag.NewFlagSet("library", flag.ExitOnError)
	var c common
	c.register(fs)
	fs.Parse(args)

	cfg, err := c.setup()
	if err != nil {
		return err
	}
	path := cfg.Library.Path
	if fs.NArg() > 0 {
		path = fs.Arg(0)
	}
	lib := cutter.Default()
	if path != "" {
		if lib, err = cutter.Open(path); err != nil {
			return err
		}
	}

	fmt.Printf("Library: %s (%s)\n", lib.Name, lib.Source)
	fmt.Printf("Entries: %d\n", len(lib.IDs()))
	fmt.Println()
	for _, id := range lib.IDs() {
		e, err := lib.Entry(id)
		if err != nil {
			return err
		}
		fmt.Printf("  %-24s width %-6g %d shapes  %s\n", e.ID, e.Width, len(e.Shapes), e.Description)
	}
	return nil
}

func cmdRemesh(args []string) error {
	fs := flag.NewFlagSet("remesh", flag.ExitOnError)
	var c common
	var tf tileFlags
	c.register(fs)
	tf.register(fs)
	cells := fs.Int("cells", 0, "Voxel cells along the longest axis (0 = config)")
	fs.Parse(args)

	if fs.NArg() < 1 {
		return fmt.Errorf("usage: tilegen remesh [options] <archetype>")
	}
	cfg, err := c.setup()
	if err != nil {
		return err
	}
	if *cells <= 0 {
		*cells = cfg.Export.RemeshCells
	}
	t, err := buildTile(cfg, fs.Arg(0), &tf)
	if err != nil {
		return err
	}
	k, err := c.replayKernel(cfg)
	if err != nil {
		return err
	}
	m, err := replay.Remesh(t, k, *cells)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.Export.Dir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(cfg.Export.Dir, export.Stem(t.Name)+".remesh.stl")
	if err := export.SaveSTL(path, m); err != nil {
		return err
	}
	fmt.Println(path)
	return nil
}

func cmdScene(args []string) error {
	fs := flag.NewFlagSet("scene", flag.ExitOnError)
	var c common
	c.register(fs)
	planned := fs.Bool("planned", false, "Send planned meshes without kernel booleans")
	output := fs.String("o", "", "Write JSON to file instead of stdout")
	fs.Parse(args)

	if fs.NArg() < 1 {
		return fmt.Errorf("usage: tilegen scene [options] <script.zy>")
	}
	cfg, err := c.setup()
	if err != nil {
		return err
	}
	src, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return err
	}
	opts, err := cfg.BuildOptions()
	if err != nil {
		return err
	}
	var k kernel.Kernel
	if !*planned {
		if k, err = c.replayKernel(cfg); err != nil {
			return err
		}
	}
	eng := engine.NewEngine(engine.WithBudget(cfg.Build.MaxTurtleCommands), engine.WithBuildOptions(opts))
	result := scene.New(eng, k).Evaluate(string(src))

	out := os.Stdout
	if *output != "" {
		if out, err = os.Create(*output); err != nil {
			return err
		}
		defer out.Close()
	}
	enc := json.NewEncoder(out)
	if err := enc.Encode(result); err != nil {
		return err
	}
	if len(result.Errors) > 0 {
		return fmt.Errorf("%s: %s", fs.Arg(0), result.Errors[0].Message)
	}
	return nil
}

func cmdConfig(args []string) error {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	var c common
	c.register(fs)
	writeDefault := fs.Bool("init", false, "Write the default configuration")
	force := fs.Bool("force", false, "Overwrite an existing file with -init")
	fs.Parse(args)

	if *writeDefault {
		path, err := initConfig(fs.Arg(0), *force)
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	}

	cfg, err := c.setup()
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(cfg)
}

// initConfig writes the default configuration to path, or to the user
// config file when path is empty.
func initConfig(path string, force bool) (string, error) {
	if path == "" {
		path = config.DefaultPath()
	}
	if _, err := os.Stat(path); err == nil && !force {
		return "", fmt.Errorf("config: %s already exists", path)
	}
	if err := config.Default().SaveTo(path); err != nil {
		return "", fmt.Errorf("config: %w", err)
	}
	return path, nil
}
