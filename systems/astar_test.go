package systems

import (
	"math"
	"testing"

	"github.com/pthm-cable/crowd/scene"
)

func wallScene() *scene.Scene {
	// A vertical wall across the middle with a gap at the bottom.
	return &scene.Scene{
		Width:  20,
		Height: 20,
		Obstacles: []scene.Obstacle{
			{Rect: scene.Rect{X: 9, Y: 4, Width: 2, Height: 16}, Name: "wall"},
		},
		Exits: []scene.Obstacle{
			{Rect: scene.Rect{X: 19, Y: 9, Width: 1, Height: 2}, Name: "east", Permeable: true},
		},
	}
}

func TestNavGridBlocksObstacles(t *testing.T) {
	s := wallScene()
	grid := NewNavGridFromScene(s, 1, 0)

	if !grid.IsBlockedWorld(10, 10) {
		t.Error("cell inside the wall must be blocked")
	}
	if grid.IsBlockedWorld(10, 1) {
		t.Error("the gap below the wall must be open")
	}
	if grid.IsBlockedWorld(2, 2) {
		t.Error("open floor must not be blocked")
	}
	if !grid.IsBlocked(-1, 5) || !grid.IsBlocked(5, 1000) {
		t.Error("out-of-bounds cells must read as blocked")
	}
}

func TestNavGridInflation(t *testing.T) {
	s := wallScene()
	grid := NewNavGridFromScene(s, 1, 1.0)

	// (8.5, 10) sits half a unit from the wall face at x=9; with one
	// unit of inflation it must be blocked.
	if !grid.IsBlockedWorld(8.5, 10) {
		t.Error("cell within the inflation margin must be blocked")
	}
	if grid.IsBlockedWorld(6.5, 10) {
		t.Error("cell past the inflation margin must be open")
	}
}

func TestFindPathRoutesAroundWall(t *testing.T) {
	s := wallScene()
	planner := NewAStarPlanner(NewNavGridFromScene(s, 1, 0))

	path := planner.FindPath(2, 12, 18, 12)
	if path == nil {
		t.Fatal("expected a path around the wall")
	}

	// The route must pass through the gap below the wall and never
	// cross a blocked cell.
	throughGap := false
	for _, wp := range path {
		if planner.grid.IsBlockedWorld(wp.X, wp.Y) {
			t.Errorf("waypoint (%g, %g) is inside a blocked cell", wp.X, wp.Y)
		}
		if wp.X > 8 && wp.X < 12 && wp.Y < 4 {
			throughGap = true
		}
	}
	if !throughGap {
		t.Errorf("path does not use the gap below the wall: %v", path)
	}

	last := path[len(path)-1]
	if last.X != 18 || last.Y != 12 {
		t.Errorf("final waypoint = (%g, %g), want the exact goal (18, 12)", last.X, last.Y)
	}
}

func TestFindPathStraightLineIsShort(t *testing.T) {
	s := &scene.Scene{Width: 20, Height: 20,
		Exits: []scene.Obstacle{{Rect: scene.Rect{X: 19, Y: 9, Width: 1, Height: 2}, Permeable: true}}}
	planner := NewAStarPlanner(NewNavGridFromScene(s, 1, 0))

	path := planner.FindPath(2, 2, 17, 17)
	if path == nil {
		t.Fatal("expected a path across an empty scene")
	}
	// Line-of-sight simplification collapses the staircase of cells.
	if len(path) > 3 {
		t.Errorf("unobstructed path has %d waypoints, want at most 3", len(path))
	}
}

func TestFindPathUnreachableGoal(t *testing.T) {
	s := &scene.Scene{
		Width:  20,
		Height: 20,
		Obstacles: []scene.Obstacle{
			// A box fully enclosing the goal region.
			{Rect: scene.Rect{X: 12, Y: 12, Width: 6, Height: 1}, Name: "n"},
			{Rect: scene.Rect{X: 12, Y: 17, Width: 6, Height: 1}, Name: "s"},
			{Rect: scene.Rect{X: 12, Y: 12, Width: 1, Height: 6}, Name: "w"},
			{Rect: scene.Rect{X: 17, Y: 12, Width: 1, Height: 6}, Name: "e"},
		},
		Exits: []scene.Obstacle{{Rect: scene.Rect{X: 0, Y: 0, Width: 1, Height: 1}, Permeable: true}},
	}
	planner := NewAStarPlanner(NewNavGridFromScene(s, 1, 0))

	if path := planner.FindPath(2, 2, 15, 15); path != nil {
		// The planner snaps a blocked goal to the nearest open cell,
		// which for a sealed box lies outside it.
		last := path[len(path)-1]
		if last.X > 12 && last.X < 18 && last.Y > 12 && last.Y < 18 {
			t.Errorf("path ends inside the sealed box at (%g, %g)", last.X, last.Y)
		}
	}
}

func TestFindPathSameCell(t *testing.T) {
	s := wallScene()
	planner := NewAStarPlanner(NewNavGridFromScene(s, 1, 0))

	path := planner.FindPath(2.1, 2.1, 2.4, 2.6)
	if len(path) != 1 {
		t.Fatalf("same-cell path has %d waypoints, want 1", len(path))
	}
	if math.Abs(path[0].X-2.4) > 1e-12 || math.Abs(path[0].Y-2.6) > 1e-12 {
		t.Errorf("same-cell waypoint = (%g, %g), want the goal (2.4, 2.6)", path[0].X, path[0].Y)
	}
}

func TestFindPathAvoidsCornerCutting(t *testing.T) {
	// Two blocks meeting at a corner; a diagonal through the touch
	// point must be rejected.
	s := &scene.Scene{
		Width:  10,
		Height: 10,
		Obstacles: []scene.Obstacle{
			{Rect: scene.Rect{X: 0, Y: 0, Width: 5, Height: 5}, Name: "sw"},
			{Rect: scene.Rect{X: 5, Y: 5, Width: 5, Height: 5}, Name: "ne"},
		},
		Exits: []scene.Obstacle{{Rect: scene.Rect{X: 9, Y: 0, Width: 1, Height: 1}, Permeable: true}},
	}
	planner := NewAStarPlanner(NewNavGridFromScene(s, 1, 0))

	if path := planner.FindPath(7, 2, 2, 7); path != nil {
		t.Errorf("expected no path through the touching corner, got %v", path)
	}
}
