// Package renderer draws the scene and walkers with raylib.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/crowd/config"
	"github.com/pthm-cable/crowd/scene"
	"github.com/pthm-cable/crowd/systems"
)

// Renderer draws the domain scaled and centered on screen.
type Renderer struct {
	scene   *scene.Scene
	scale   float64
	offsetX float64
	offsetY float64
}

// New creates a renderer using the derived screen mapping from config.
func New(s *scene.Scene) *Renderer {
	cfg := config.Cfg()
	return &Renderer{
		scene:   s,
		scale:   cfg.Derived.Scale,
		offsetX: cfg.Derived.OffsetX,
		offsetY: cfg.Derived.OffsetY,
	}
}

// ToScreen converts domain coordinates to screen pixels.
func (r *Renderer) ToScreen(x, y float64) (int32, int32) {
	return int32(r.offsetX + x*r.scale), int32(r.offsetY + y*r.scale)
}

// DrawScene renders the domain border, obstacles, and exits.
func (r *Renderer) DrawScene() {
	x0, y0 := r.ToScreen(0, 0)
	w := int32(r.scene.Width * r.scale)
	h := int32(r.scene.Height * r.scale)
	rl.DrawRectangle(x0, y0, w, h, rl.NewColor(24, 26, 30, 255))
	rl.DrawRectangleLines(x0, y0, w, h, rl.Gray)

	for _, o := range r.scene.Obstacles {
		ox, oy := r.ToScreen(o.X, o.Y)
		rl.DrawRectangle(ox, oy, int32(o.Width*r.scale), int32(o.Height*r.scale), rl.DarkGray)
	}
	for _, e := range r.scene.Exits {
		ex, ey := r.ToScreen(e.X, e.Y)
		rl.DrawRectangle(ex, ey, int32(e.Width*r.scale), int32(e.Height*r.scale), rl.NewColor(120, 40, 40, 255))
	}
}

// DrawWalker renders one walker, colored by local crowd density.
func (r *Renderer) DrawWalker(x, y float64, active bool, neighbors int) {
	sx, sy := r.ToScreen(x, y)
	radius := float32(0.25 * r.scale)
	if radius < 2 {
		radius = 2
	}

	if !active {
		rl.DrawCircle(sx, sy, radius, rl.NewColor(70, 70, 70, 160))
		return
	}

	// Green when free, through yellow to red in dense crowds.
	t := float32(neighbors) / 12
	if t > 1 {
		t = 1
	}
	c := rl.NewColor(uint8(60+195*t), uint8(220-160*t), 60, 255)
	rl.DrawCircle(sx, sy, radius, c)
}

// DrawGrid overlays the swarm binning grid.
func (r *Renderer) DrawGrid(cellSize float64) {
	col := rl.NewColor(80, 80, 100, 90)
	for x := 0.0; x < r.scene.Width; x += cellSize {
		sx, sy0 := r.ToScreen(x, 0)
		_, sy1 := r.ToScreen(x, r.scene.Height)
		rl.DrawLine(sx, sy0, sx, sy1, col)
	}
	for y := 0.0; y < r.scene.Height; y += cellSize {
		sx0, sy := r.ToScreen(0, y)
		sx1, _ := r.ToScreen(r.scene.Width, y)
		rl.DrawLine(sx0, sy, sx1, sy, col)
	}
}

// DrawNavGrid overlays blocked navigation cells.
func (r *Renderer) DrawNavGrid(grid *systems.NavGrid, cellSize float64) {
	col := rl.NewColor(160, 60, 60, 70)
	for y := 0.0; y < r.scene.Height; y += cellSize {
		for x := 0.0; x < r.scene.Width; x += cellSize {
			if grid.IsBlockedWorld(x+cellSize/2, y+cellSize/2) {
				sx, sy := r.ToScreen(x, y)
				rl.DrawRectangle(sx, sy, int32(cellSize*r.scale), int32(cellSize*r.scale), col)
			}
		}
	}
}

// DrawPath overlays a walker's remaining waypoints.
func (r *Renderer) DrawPath(points [][2]float64) {
	for i := 1; i < len(points); i++ {
		x0, y0 := r.ToScreen(points[i-1][0], points[i-1][1])
		x1, y1 := r.ToScreen(points[i][0], points[i][1])
		rl.DrawLine(x0, y0, x1, y1, rl.NewColor(90, 140, 220, 200))
	}
}
