// Package systems holds the navigation layer: a blocked-cell grid
// derived from the scene and an A* planner that routes walkers to
// exits over it.
package systems

import (
	"math"

	"github.com/pthm-cable/crowd/scene"
)

// NavGrid stores a navigation grid for A* pathfinding.
// Cells are marked as blocked (true) or open (false).
type NavGrid struct {
	cells    []bool  // true = blocked
	cellSize float64 // domain units per cell
	width    int     // grid width in cells
	height   int     // grid height in cells
}

// NewNavGridFromScene rasterizes the scene's solid obstacles onto a
// grid, inflating each obstacle by 'inflation' units so routes keep
// body-width clearance. Exits are permeable and never block.
func NewNavGridFromScene(s *scene.Scene, cellSize, inflation float64) *NavGrid {
	w := int(math.Ceil(s.Width / cellSize))
	h := int(math.Ceil(s.Height / cellSize))

	grid := &NavGrid{
		cells:    make([]bool, w*h),
		cellSize: cellSize,
		width:    w,
		height:   h,
	}

	for gy := 0; gy < h; gy++ {
		for gx := 0; gx < w; gx++ {
			centerX := (float64(gx) + 0.5) * cellSize
			centerY := (float64(gy) + 0.5) * cellSize

			blocked := false
			for _, o := range s.Obstacles {
				if centerX >= o.X-inflation && centerX < o.X+o.Width+inflation &&
					centerY >= o.Y-inflation && centerY < o.Y+o.Height+inflation {
					blocked = true
					break
				}
			}
			grid.cells[gy*w+gx] = blocked
		}
	}

	return grid
}

// IsBlocked returns true if the given nav grid cell is blocked.
func (g *NavGrid) IsBlocked(gx, gy int) bool {
	if gx < 0 || gx >= g.width || gy < 0 || gy >= g.height {
		return true // Out of bounds is blocked
	}
	return g.cells[gy*g.width+gx]
}

// IsBlockedWorld returns true if the world position is in a blocked cell.
func (g *NavGrid) IsBlockedWorld(x, y float64) bool {
	gx := int(x / g.cellSize)
	gy := int(y / g.cellSize)
	return g.IsBlocked(gx, gy)
}

// WorldToGrid converts world coordinates to nav grid coordinates.
func (g *NavGrid) WorldToGrid(x, y float64) (gx, gy int) {
	gx = int(x / g.cellSize)
	gy = int(y / g.cellSize)
	return
}

// GridToWorld converts nav grid coordinates to world coordinates (cell center).
func (g *NavGrid) GridToWorld(gx, gy int) (x, y float64) {
	x = (float64(gx) + 0.5) * g.cellSize
	y = (float64(gy) + 0.5) * g.cellSize
	return
}
