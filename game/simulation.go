package game

import (
	"log/slog"
	"math"

	"github.com/pthm-cable/crowd/components"
	"github.com/pthm-cable/crowd/config"
	"github.com/pthm-cable/crowd/swarm"
)

// simulationStep runs a single tick:
//
//  1. snapshot positions, velocities, and active flags
//  2. desired velocity from path following
//  3. swarm correction force from velocity differences
//  4. corrected velocity, speed-clamped, integrated
//  5. minimum distance enforcement against the tick-start grid
//  6. exit deactivation and telemetry
func (g *Game) simulationStep() {
	cfg := config.Cfg()
	g.perf.StartTick()

	n := g.snapshot()
	if n > 0 {
		g.applyDesiredVelocities()

		grid, err := swarm.BuildGrid(g.positions, g.active,
			cfg.Domain.Width, cfg.Domain.Height, cfg.Physics.SmoothingLength)
		if err != nil {
			slog.Error("grid build failed", "tick", g.tick, "error", err)
			g.perf.EndTick()
			return
		}

		// The same grid serves the force pass and the minimum distance
		// pass after integration.
		forces, counts, err := grid.Forces(g.positions, g.velocities, g.active, cfg.Physics.Workers)
		if err != nil {
			slog.Error("force computation failed", "tick", g.tick, "error", err)
			g.perf.EndTick()
			return
		}

		g.integrate(forces, cfg.Physics.DT, cfg.Physics.SwarmGain)

		pairs, err := grid.EnforceMinimumDistance(g.positions, g.active, cfg.Physics.MinDistance)
		if err != nil {
			slog.Error("minimum distance pass failed", "tick", g.tick, "error", err)
		} else {
			g.collector.RecordMDEPairs(pairs)
		}
		g.clampToScene()

		g.writeBack(forces, counts)
	}

	g.updateExits()
	g.tick++
	g.perf.EndTick()

	if g.collector.ShouldFlush(g.tick) {
		g.flushTelemetry()
	}
}

// snapshot copies walker state into the scratch slices and returns the
// walker count. Slice order matches query iteration order, which is
// stable between the snapshot and write-back within one tick.
func (g *Game) snapshot() int {
	g.entities = g.entities[:0]
	g.positions = g.positions[:0]
	g.velocities = g.velocities[:0]
	g.active = g.active[:0]

	query := g.walkerFilter.Query()
	for query.Next() {
		pos, vel, walker, _ := query.Get()
		g.entities = append(g.entities, query.Entity())
		g.positions = append(g.positions, swarm.Vec{X: pos.X, Y: pos.Y})
		g.velocities = append(g.velocities, swarm.Vec{X: vel.X, Y: vel.Y})
		g.active = append(g.active, walker.Active)
	}
	return len(g.entities)
}

// applyDesiredVelocities points each active walker at its next waypoint
// at walking speed, replacing the snapshot velocity. The swarm force
// then corrects these intents against the local crowd flow.
func (g *Game) applyDesiredVelocities() {
	cfg := config.Cfg()
	for i, e := range g.entities {
		if !g.active[i] {
			g.velocities[i] = swarm.Vec{}
			continue
		}
		walker := g.walkMap.Get(e)
		path := g.pathMap.Get(e)
		g.velocities[i] = g.desiredVelocity(i, walker.WalkSpeed, path, cfg.Nav.ArrivalDistance)
	}
}

// desiredVelocity heads for the current waypoint, re-planning when the
// route is exhausted but the walker is not yet inside an exit.
func (g *Game) desiredVelocity(i int, walkSpeed float64, path *components.PathFollow, arrive float64) swarm.Vec {
	p := g.positions[i]
	if path.Advance(p.X, p.Y, arrive) {
		if g.scene.InExit(p.X, p.Y) != nil {
			return swarm.Vec{}
		}
		// Route finished short of an exit: plan again from here.
		path.Waypoints = g.planRoute(p.X, p.Y)
		path.Index = 0
	}

	target, ok := path.Target()
	if !ok {
		return swarm.Vec{}
	}
	dx := target.X - p.X
	dy := target.Y - p.Y
	d := math.Sqrt(dx*dx + dy*dy)
	if d < 1e-9 {
		return swarm.Vec{}
	}
	return swarm.Vec{X: dx / d * walkSpeed, Y: dy / d * walkSpeed}
}

// integrate applies the swarm correction to the desired velocities and
// advances positions. Corrected speed is capped at the walking speed so
// dense crowds slow walkers down rather than launching them.
func (g *Game) integrate(forces []swarm.Vec, dt, gain float64) {
	for i := range g.entities {
		if !g.active[i] {
			continue
		}
		walker := g.walkMap.Get(g.entities[i])

		v := swarm.Vec{
			X: g.velocities[i].X + gain*forces[i].X,
			Y: g.velocities[i].Y + gain*forces[i].Y,
		}
		speed := v.Len()
		if speed > walker.WalkSpeed {
			v = v.Scale(walker.WalkSpeed / speed)
		}
		g.velocities[i] = v
		g.positions[i] = g.positions[i].Add(v.Scale(dt))
	}
}

// clampToScene keeps active walkers inside the domain and out of solid
// obstacles, reverting the offending axis of the last move.
func (g *Game) clampToScene() {
	cfg := config.Cfg()
	eps := 1e-9
	maxX := cfg.Domain.Width - eps
	maxY := cfg.Domain.Height - eps

	for i, e := range g.entities {
		if !g.active[i] {
			continue
		}
		p := &g.positions[i]
		if p.X < 0 {
			p.X = 0
		} else if p.X > maxX {
			p.X = maxX
		}
		if p.Y < 0 {
			p.Y = 0
		} else if p.Y > maxY {
			p.Y = maxY
		}

		if !g.scene.IsAccessible(p.X, p.Y) {
			prev := g.posMap.Get(e)
			// Try sliding along one axis before giving up the move.
			if g.scene.IsAccessible(p.X, prev.Y) {
				p.Y = prev.Y
			} else if g.scene.IsAccessible(prev.X, p.Y) {
				p.X = prev.X
			} else {
				p.X, p.Y = prev.X, prev.Y
			}
		}
	}
}

// writeBack copies the scratch state into the ECS components and keeps
// the per-walker force magnitudes for the telemetry window.
func (g *Game) writeBack(forces []swarm.Vec, counts []int) {
	if cap(g.forceMags) < len(g.entities) {
		g.forceMags = make([]float64, len(g.entities))
	}
	g.forceMags = g.forceMags[:len(g.entities)]

	for i, e := range g.entities {
		g.forceMags[i] = forces[i].Len()
		if !g.active[i] {
			continue
		}
		pos := g.posMap.Get(e)
		vel := g.velMap.Get(e)
		walker := g.walkMap.Get(e)

		pos.X, pos.Y = g.positions[i].X, g.positions[i].Y
		vel.X, vel.Y = g.velocities[i].X, g.velocities[i].Y
		walker.Neighbors = counts[i]
	}
}

// flushTelemetry aggregates the window and emits stats.
func (g *Game) flushTelemetry() {
	forceMags := make([]float64, 0, len(g.entities))
	neighborCounts := make([]float64, 0, len(g.entities))

	for i, e := range g.entities {
		if i >= len(g.forceMags) || !g.active[i] {
			continue
		}
		walker := g.walkMap.Get(e)
		forceMags = append(forceMags, g.forceMags[i])
		neighborCounts = append(neighborCounts, float64(walker.Neighbors))
	}

	stats := g.collector.Flush(g.tick, g.activeCount, forceMags, neighborCounts)
	perfStats := g.perf.Stats()

	if g.opts.LogStats {
		stats.LogStats()
		perfStats.LogStats()
	}
	if g.output != nil {
		if err := g.output.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.output.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}
