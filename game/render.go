package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/crowd/config"
	"github.com/pthm-cable/crowd/ui"
)

// Draw renders the scene, walkers, overlays, and HUD.
func (g *Game) Draw() {
	cfg := config.Cfg()
	g.perf.RecordFrame()

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	g.renderer.DrawScene()

	if g.showGrid {
		g.renderer.DrawGrid(cfg.Physics.SmoothingLength)
	}
	if g.showNav {
		g.renderer.DrawNavGrid(g.navGrid, cfg.Nav.CellSize)
	}

	if g.showPaths {
		g.drawRoutes()
	}

	query := g.walkerFilter.Query()
	for query.Next() {
		pos, _, walker, _ := query.Get()
		g.renderer.DrawWalker(pos.X, pos.Y, walker.Active, walker.Neighbors)
	}

	g.drawHUD()
	rl.EndDrawing()
}

// drawRoutes overlays the remaining waypoints of every active walker.
func (g *Game) drawRoutes() {
	query := g.walkerFilter.Query()
	for query.Next() {
		pos, _, walker, path := query.Get()
		if !walker.Active || path.Index >= len(path.Waypoints) {
			continue
		}
		points := make([][2]float64, 0, len(path.Waypoints)-path.Index+1)
		points = append(points, [2]float64{pos.X, pos.Y})
		for _, wp := range path.Waypoints[path.Index:] {
			points = append(points, [2]float64{wp.X, wp.Y})
		}
		g.renderer.DrawPath(points)
	}
}

func (g *Game) drawHUD() {
	cfg := config.Cfg()

	if g.hud == nil {
		g.hud = ui.NewHUD()
		g.tuning = ui.NewTuningPanel(float32(cfg.Screen.Width)-240, 10, 220)
	}

	g.hud.Draw(ui.HUDData{
		Title:        "Crowd",
		ActiveCount:  g.activeCount,
		ExitedCount:  int(g.nextID) - g.activeCount,
		Tick:         g.tick,
		Steps:        g.stepsPerUpdate,
		FPS:          rl.GetFPS(),
		Paused:       g.paused,
		ScreenHeight: int32(cfg.Screen.Height),
	})
	g.hud.DrawControls(int32(cfg.Screen.Height))

	// Live tuning writes straight back into the config.
	vals := g.tuning.Draw(ui.TuningValues{
		SmoothingLength: cfg.Physics.SmoothingLength,
		SwarmGain:       cfg.Physics.SwarmGain,
	})
	cfg.Physics.SmoothingLength = vals.SmoothingLength
	cfg.Physics.SwarmGain = vals.SwarmGain
}
