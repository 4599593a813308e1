// Package config handles tilesmith configuration loading and management.
package config

// Config holds all generator settings.
type Config struct {
	Build     BuildConfig     `yaml:"build"`
	Library   LibraryConfig   `yaml:"library"`
	Materials MaterialsConfig `yaml:"materials"`
	Export    ExportConfig    `yaml:"export"`
	Logging   LoggingConfig   `yaml:"logging"`
	Defaults  DefaultsConfig  `yaml:"defaults"`
}

// BuildConfig holds planning tolerances and limits.
type BuildConfig struct {
	ZoneTolerance     float64 `yaml:"zone_tolerance"`      // path zone reference match distance
	SlabTolerance     float64 `yaml:"slab_tolerance"`      // bounding-box slab thickness
	MaxTurtleCommands int     `yaml:"max_turtle_commands"` // 0 disables the budget
	BendCores         bool    `yaml:"bend_cores"`          // bend curved preview cores
}

// LibraryConfig selects the cutter library.
type LibraryConfig struct {
	Path string `yaml:"path"` // empty uses the embedded OpenLOCK library
}

// MaterialsConfig holds material names and bake settings.
type MaterialsConfig struct {
	Primary      string  `yaml:"primary"`
	Secondary    string  `yaml:"secondary"`
	Resolution   int     `yaml:"resolution"`
	Strength     float64 `yaml:"strength"`
	MidLevel     float64 `yaml:"mid_level"`
	Subdivisions int     `yaml:"subdivisions"`
}

// ExportConfig holds output settings.
type ExportConfig struct {
	Dir         string `yaml:"dir"`
	MeshCells   int    `yaml:"mesh_cells"`   // marching cubes cells for replay
	RemeshCells int    `yaml:"remesh_cells"` // voxel remesh cells
	Preview     bool   `yaml:"preview"`      // also write a PNG profile preview
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// DefaultsConfig holds default tile dimensions, in inches.
type DefaultsConfig struct {
	TileSize       [3]float64 `yaml:"tile_size"`
	BaseSize       [3]float64 `yaml:"base_size"`
	Subdivisions   [3]int     `yaml:"subdivisions"`
	CurveSegments  int        `yaml:"curve_segments"`
	LegSegments    [2]int     `yaml:"leg_segments"`
	WidthSegments  int        `yaml:"width_segments"`
	BaseRadius     float64    `yaml:"base_radius"`
	ArcDegrees     float64    `yaml:"arc_degrees"`
	LegLengths     [2]float64 `yaml:"leg_lengths"`
	CornerAngle    float64    `yaml:"corner_angle"`
	SocketSide     string     `yaml:"socket_side"`
	CurveDirection string     `yaml:"curve_direction"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Build: BuildConfig{
			ZoneTolerance:     5e-4,
			SlabTolerance:     1e-3,
			MaxTurtleCommands: 100000,
			BendCores:         true,
		},
		Materials: MaterialsConfig{
			Primary:      "Stone",
			Secondary:    "Plastic",
			Resolution:   1024,
			Strength:     0.1,
			MidLevel:     0,
			Subdivisions: 3,
		},
		Export: ExportConfig{
			Dir:         "out",
			MeshCells:   200,
			RemeshCells: 300,
			Preview:     true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Defaults: DefaultsConfig{
			TileSize:       [3]float64{2, 2, 2},
			BaseSize:       [3]float64{2, 0.5, 0.3},
			Subdivisions:   [3]int{15, 3, 15},
			CurveSegments:  15,
			LegSegments:    [2]int{15, 15},
			WidthSegments:  3,
			BaseRadius:     2,
			ArcDegrees:     90,
			LegLengths:     [2]float64{2, 2},
			CornerAngle:    90,
			SocketSide:     "inner",
			CurveDirection: "clockwise",
		},
	}
}
