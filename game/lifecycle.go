package game

import (
	"log/slog"
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/crowd/components"
	"github.com/pthm-cable/crowd/config"
	"github.com/pthm-cable/crowd/scene"
)

// spawnInitialPopulation places walkers at random accessible positions
// and plans each one a route to its nearest exit.
func (g *Game) spawnInitialPopulation() {
	cfg := config.Cfg()
	for i := 0; i < cfg.Walkers.Count; i++ {
		x, y, err := g.scene.RandomAccessiblePosition(g.rng)
		if err != nil {
			slog.Error("failed to place walker", "error", err)
			break
		}
		g.spawnWalker(x, y, cfg.Walkers.WalkSpeed)
	}
}

// spawnWalker creates a walker entity with a planned route.
func (g *Game) spawnWalker(x, y, walkSpeed float64) {
	id := g.nextID
	g.nextID++

	pos := components.Position{X: x, Y: y}
	vel := components.Velocity{}
	walker := components.Walker{ID: id, Active: true, WalkSpeed: walkSpeed}
	path := components.PathFollow{Waypoints: g.planRoute(x, y)}

	g.walkerMapper.NewEntity(&pos, &vel, &walker, &path)
	g.activeCount++
}

// planRoute finds a path from (x, y) to the nearest exit center.
// A nil route leaves the walker drifting on swarm forces alone.
func (g *Game) planRoute(x, y float64) []components.Position {
	exit := g.nearestExit(x, y)
	if exit == nil {
		return nil
	}
	ex, ey := exit.Center()
	return g.planner.FindPath(x, y, ex, ey)
}

// nearestExit returns the exit whose center is closest to (x, y).
func (g *Game) nearestExit(x, y float64) *scene.Obstacle {
	var best *scene.Obstacle
	bestDist := math.Inf(1)
	for i := range g.scene.Exits {
		ex, ey := g.scene.Exits[i].Center()
		d := (ex-x)*(ex-x) + (ey-y)*(ey-y)
		if d < bestDist {
			bestDist = d
			best = &g.scene.Exits[i]
		}
	}
	return best
}

// updateExits deactivates walkers that have reached an exit. Inactive
// walkers stay in the world but no longer move or exert forces.
func (g *Game) updateExits() {
	query := g.walkerFilter.Query()
	for query.Next() {
		pos, _, walker, _ := query.Get()
		if !walker.Active {
			continue
		}
		if g.scene.InExit(pos.X, pos.Y) != nil {
			walker.Active = false
			g.activeCount--
			g.collector.RecordExit()
		}
	}
}

// Reset rebuilds the population from scratch with the same scene.
func (g *Game) Reset() {
	// First pass collects entities; removal must not race the query.
	var toRemove []ecs.Entity

	query := g.walkerFilter.Query()
	for query.Next() {
		toRemove = append(toRemove, query.Entity())
	}
	for _, e := range toRemove {
		g.walkerMapper.Remove(e)
	}

	g.activeCount = 0
	g.nextID = 0
	g.tick = 0
	g.spawnInitialPopulation()
	slog.Info("simulation reset", "walkers", g.activeCount)
}
