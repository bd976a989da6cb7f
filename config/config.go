// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Domain    DomainConfig    `yaml:"domain"`
	Walkers   WalkersConfig   `yaml:"walkers"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Nav       NavConfig       `yaml:"nav"`
	Scene     SceneConfig     `yaml:"scene"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// DomainConfig holds the simulation domain extent in domain units.
type DomainConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// WalkersConfig holds agent population parameters.
type WalkersConfig struct {
	Count     int     `yaml:"count"`
	WalkSpeed float64 `yaml:"walk_speed"` // preferred speed, domain units per second
}

// PhysicsConfig holds simulation physics parameters.
type PhysicsConfig struct {
	DT              float64 `yaml:"dt"`
	SmoothingLength float64 `yaml:"smoothing_length"` // kernel support radius and grid cell size
	SwarmGain       float64 `yaml:"swarm_gain"`       // scale on the swarm correction force
	MinDistance     float64 `yaml:"min_distance"`     // minimum separation enforced after integration
	Workers         int     `yaml:"workers"`          // 0 = GOMAXPROCS
}

// NavConfig holds navigation grid and path-following parameters.
type NavConfig struct {
	CellSize        float64 `yaml:"cell_size"`
	Inflation       float64 `yaml:"inflation"`        // obstacle clearance in domain units
	ArrivalDistance float64 `yaml:"arrival_distance"` // waypoint switch radius
}

// SceneConfig points at the scene geometry file.
type SceneConfig struct {
	File string `yaml:"file"` // empty = built-in default scene
}

// TelemetryConfig holds stats collection parameters.
type TelemetryConfig struct {
	StatsWindow int `yaml:"stats_window"` // ticks per aggregation window
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Scale   float64 // pixels per domain unit, fits the domain on screen
	OffsetX float64 // screen-space offset centering the domain
	OffsetY float64
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	// Compute derived values
	cfg.computeDerived()

	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	sx := float64(c.Screen.Width) / c.Domain.Width
	sy := float64(c.Screen.Height) / c.Domain.Height
	scale := sx
	if sy < sx {
		scale = sy
	}
	c.Derived.Scale = scale
	c.Derived.OffsetX = (float64(c.Screen.Width) - c.Domain.Width*scale) / 2
	c.Derived.OffsetY = (float64(c.Screen.Height) - c.Domain.Height*scale) / 2
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
