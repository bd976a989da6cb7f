// Package game wires the crowd simulation together: the ECS world,
// the swarm physics, navigation, telemetry, and the update loop.
package game

import (
	"log/slog"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/crowd/components"
	"github.com/pthm-cable/crowd/config"
	"github.com/pthm-cable/crowd/renderer"
	"github.com/pthm-cable/crowd/scene"
	"github.com/pthm-cable/crowd/swarm"
	"github.com/pthm-cable/crowd/systems"
	"github.com/pthm-cable/crowd/telemetry"
	"github.com/pthm-cable/crowd/ui"
)

// Options configures a new game instance.
type Options struct {
	Seed           int64
	LogStats       bool
	OutputDir      string
	Headless       bool
	StepsPerUpdate int
}

// Game holds the complete simulation state.
type Game struct {
	world *ecs.World
	rng   *rand.Rand

	walkerMapper *ecs.Map4[
		components.Position,
		components.Velocity,
		components.Walker,
		components.PathFollow,
	]
	walkerFilter *ecs.Filter4[
		components.Position,
		components.Velocity,
		components.Walker,
		components.PathFollow,
	]

	// Individual component mappers for lookups
	posMap  *ecs.Map1[components.Position]
	velMap  *ecs.Map1[components.Velocity]
	walkMap *ecs.Map1[components.Walker]
	pathMap *ecs.Map1[components.PathFollow]

	// Environment
	scene   *scene.Scene
	navGrid *systems.NavGrid
	planner *systems.AStarPlanner

	// Telemetry
	collector *telemetry.Collector
	perf      *telemetry.PerfCollector
	output    *telemetry.OutputManager

	// Rendering
	renderer *renderer.Renderer
	hud      *ui.HUD
	tuning   *ui.TuningPanel

	opts Options

	// Scratch buffers reused every tick
	entities   []ecs.Entity
	positions  []swarm.Vec
	velocities []swarm.Vec
	active     []bool
	forceMags  []float64

	// State
	tick           int32
	paused         bool
	nextID         uint32
	activeCount    int
	stepsPerUpdate int

	// Overlay toggles (graphics mode)
	showGrid  bool
	showNav   bool
	showPaths bool
}

// NewGame creates a game with default options.
func NewGame() *Game {
	return NewGameWithOptions(Options{Seed: 42, StepsPerUpdate: 1})
}

// NewGameWithOptions creates a new game instance.
func NewGameWithOptions(opts Options) *Game {
	cfg := config.Cfg()
	world := ecs.NewWorld()

	if opts.StepsPerUpdate < 1 {
		opts.StepsPerUpdate = 1
	}

	g := &Game{
		world: world,
		rng:   rand.New(rand.NewSource(opts.Seed)),
		opts:  opts,
		walkerMapper: ecs.NewMap4[
			components.Position,
			components.Velocity,
			components.Walker,
			components.PathFollow,
		](world),
		walkerFilter: ecs.NewFilter4[
			components.Position,
			components.Velocity,
			components.Walker,
			components.PathFollow,
		](world),
		posMap:         ecs.NewMap1[components.Position](world),
		velMap:         ecs.NewMap1[components.Velocity](world),
		walkMap:        ecs.NewMap1[components.Walker](world),
		pathMap:        ecs.NewMap1[components.PathFollow](world),
		stepsPerUpdate: opts.StepsPerUpdate,
	}

	// Scene: file if configured, built-in default otherwise
	if cfg.Scene.File != "" {
		s, err := scene.Load(cfg.Scene.File, cfg.Domain.Width, cfg.Domain.Height)
		if err != nil {
			slog.Error("failed to load scene, using default", "file", cfg.Scene.File, "error", err)
			s = scene.Default(cfg.Domain.Width, cfg.Domain.Height)
		}
		g.scene = s
	} else {
		g.scene = scene.Default(cfg.Domain.Width, cfg.Domain.Height)
	}

	// Navigation
	g.navGrid = systems.NewNavGridFromScene(g.scene, cfg.Nav.CellSize, cfg.Nav.Inflation)
	g.planner = systems.NewAStarPlanner(g.navGrid)

	// Telemetry
	g.collector = telemetry.NewCollector(cfg.Telemetry.StatsWindow, cfg.Physics.DT)
	g.perf = telemetry.NewPerfCollector(cfg.Telemetry.StatsWindow)

	if opts.OutputDir != "" {
		om, err := telemetry.NewOutputManager(opts.OutputDir)
		if err != nil {
			slog.Error("failed to create output manager", "dir", opts.OutputDir, "error", err)
		} else {
			g.output = om
			if err := om.WriteConfig(cfg); err != nil {
				slog.Error("failed to write config snapshot", "error", err)
			}
			slog.Info("output enabled", "dir", om.Dir())
		}
	}

	if !opts.Headless {
		g.renderer = renderer.New(g.scene)
	}

	g.spawnInitialPopulation()

	slog.Info("game created",
		"walkers", g.activeCount,
		"domain_w", cfg.Domain.Width,
		"domain_h", cfg.Domain.Height,
		"exits", len(g.scene.Exits),
		"obstacles", len(g.scene.Obstacles),
		"seed", opts.Seed,
	)

	return g
}

// Tick returns the current simulation tick.
func (g *Game) Tick() int32 {
	return g.tick
}

// ActiveCount returns the number of walkers still in the scene.
func (g *Game) ActiveCount() int {
	return g.activeCount
}

// Scene returns the loaded scene.
func (g *Game) Scene() *scene.Scene {
	return g.scene
}

// Update runs input handling and simulation steps for graphics mode.
func (g *Game) Update() {
	g.handleInput()

	if g.paused {
		return
	}
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.simulationStep()
	}
}

// UpdateHeadless runs simulation steps without any input handling.
func (g *Game) UpdateHeadless() {
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.simulationStep()
	}
}

// Unload releases output files and rendering resources.
func (g *Game) Unload() {
	if g.output != nil {
		if err := g.output.Close(); err != nil {
			slog.Error("failed to close output", "error", err)
		}
	}
}
