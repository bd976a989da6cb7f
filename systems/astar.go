package systems

import (
	"container/heap"
	"math"

	"github.com/pthm-cable/crowd/components"
)

// AStarPlanner provides A* pathfinding over a navigation grid.
type AStarPlanner struct {
	grid *NavGrid

	// Reusable data structures (cleared between searches)
	openHeap  *nodeHeap
	closedSet map[int]struct{}
	cameFrom  map[int]int
	gScore    map[int]float64
	fScore    map[int]float64
}

// astarNode is a node in the A* search.
type astarNode struct {
	gx, gy int     // Grid coordinates
	f      float64 // f = g + h (priority)
	index  int     // Heap index
}

// nodeHeap implements heap.Interface for A* open set.
type nodeHeap []*astarNode

func (h nodeHeap) Len() int           { return len(h) }
func (h nodeHeap) Less(i, j int) bool { return h[i].f < h[j].f }
func (h nodeHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *nodeHeap) Push(x any) {
	n := x.(*astarNode)
	n.index = len(*h)
	*h = append(*h, n)
}

func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	node := old[n-1]
	old[n-1] = nil
	node.index = -1
	*h = old[0 : n-1]
	return node
}

// NewAStarPlanner creates an A* planner over the given grid.
func NewAStarPlanner(grid *NavGrid) *AStarPlanner {
	return &AStarPlanner{
		grid:      grid,
		openHeap:  &nodeHeap{},
		closedSet: make(map[int]struct{}, 256),
		cameFrom:  make(map[int]int, 256),
		gScore:    make(map[int]float64, 256),
		fScore:    make(map[int]float64, 256),
	}
}

// FindPath computes a path from start to goal using A*.
// Returns waypoints in world coordinates, or nil if no path found.
func (a *AStarPlanner) FindPath(startX, startY, goalX, goalY float64) []components.Position {
	grid := a.grid

	startGX, startGY := grid.WorldToGrid(startX, startY)
	goalGX, goalGY := grid.WorldToGrid(goalX, goalY)

	// Blocked endpoints snap to the nearest open cell. A snapped goal
	// ends the path at that cell's center instead of the exact goal.
	if grid.IsBlocked(startGX, startGY) {
		startGX, startGY = a.findNearestOpen(startGX, startGY)
		if startGX < 0 {
			return nil
		}
	}
	if grid.IsBlocked(goalGX, goalGY) {
		goalGX, goalGY = a.findNearestOpen(goalGX, goalGY)
		if goalGX < 0 {
			return nil
		}
		goalX, goalY = grid.GridToWorld(goalGX, goalGY)
	}

	// Same cell - no path needed
	if startGX == goalGX && startGY == goalGY {
		return []components.Position{{X: goalX, Y: goalY}}
	}

	// Clear reusable data structures
	*a.openHeap = (*a.openHeap)[:0]
	for k := range a.closedSet {
		delete(a.closedSet, k)
	}
	for k := range a.cameFrom {
		delete(a.cameFrom, k)
	}
	for k := range a.gScore {
		delete(a.gScore, k)
	}
	for k := range a.fScore {
		delete(a.fScore, k)
	}

	startID := startGY*grid.width + startGX
	goalID := goalGY*grid.width + goalGX

	a.gScore[startID] = 0
	a.fScore[startID] = a.heuristic(startGX, startGY, goalGX, goalGY)

	startNode := &astarNode{gx: startGX, gy: startGY, f: a.fScore[startID]}
	heap.Push(a.openHeap, startNode)

	maxIterations := grid.width * grid.height
	iterations := 0

	for a.openHeap.Len() > 0 && iterations < maxIterations {
		iterations++

		current := heap.Pop(a.openHeap).(*astarNode)
		currentID := current.gy*grid.width + current.gx

		if currentID == goalID {
			return a.reconstructPath(startID, goalID, goalX, goalY)
		}

		a.closedSet[currentID] = struct{}{}

		// Check 8-connected neighbors
		neighbors := [][2]int{
			{current.gx - 1, current.gy},     // W
			{current.gx + 1, current.gy},     // E
			{current.gx, current.gy - 1},     // N
			{current.gx, current.gy + 1},     // S
			{current.gx - 1, current.gy - 1}, // NW
			{current.gx + 1, current.gy - 1}, // NE
			{current.gx - 1, current.gy + 1}, // SW
			{current.gx + 1, current.gy + 1}, // SE
		}

		for i, n := range neighbors {
			ngx, ngy := n[0], n[1]

			if grid.IsBlocked(ngx, ngy) {
				continue
			}

			// For diagonal moves, check that both adjacent cells are open
			// to prevent cutting corners
			if i >= 4 {
				dx := ngx - current.gx
				dy := ngy - current.gy
				if grid.IsBlocked(current.gx+dx, current.gy) || grid.IsBlocked(current.gx, current.gy+dy) {
					continue
				}
			}

			neighborID := ngy*grid.width + ngx

			if _, ok := a.closedSet[neighborID]; ok {
				continue
			}

			// sqrt(2) for diagonal, 1 for cardinal
			moveCost := 1.0
			if i >= 4 {
				moveCost = math.Sqrt2
			}

			tentativeG := a.gScore[currentID] + moveCost

			existingG, exists := a.gScore[neighborID]
			if exists && tentativeG >= existingG {
				continue
			}

			a.cameFrom[neighborID] = currentID
			a.gScore[neighborID] = tentativeG
			a.fScore[neighborID] = tentativeG + a.heuristic(ngx, ngy, goalGX, goalGY)

			if !exists {
				node := &astarNode{gx: ngx, gy: ngy, f: a.fScore[neighborID]}
				heap.Push(a.openHeap, node)
			}
		}
	}

	// No path found
	return nil
}

// heuristic computes the Euclidean distance heuristic for A*.
func (a *AStarPlanner) heuristic(gx1, gy1, gx2, gy2 int) float64 {
	dx := float64(gx2 - gx1)
	dy := float64(gy2 - gy1)
	return math.Sqrt(dx*dx + dy*dy)
}

// reconstructPath builds the path from the cameFrom map. The final
// waypoint is the exact goal position, not the goal cell's center.
func (a *AStarPlanner) reconstructPath(startID, goalID int, goalX, goalY float64) []components.Position {
	grid := a.grid

	var pathIDs []int
	current := goalID
	for current != startID {
		pathIDs = append(pathIDs, current)
		var ok bool
		current, ok = a.cameFrom[current]
		if !ok {
			break
		}
	}
	pathIDs = append(pathIDs, startID)

	path := make([]components.Position, len(pathIDs))
	for i := 0; i < len(pathIDs); i++ {
		id := pathIDs[len(pathIDs)-1-i]
		gx := id % grid.width
		gy := id / grid.width
		x, y := grid.GridToWorld(gx, gy)
		path[i] = components.Position{X: x, Y: y}
	}
	path[len(path)-1] = components.Position{X: goalX, Y: goalY}

	return a.simplifyPath(path)
}

// simplifyPath removes waypoints that are in a straight line.
func (a *AStarPlanner) simplifyPath(path []components.Position) []components.Position {
	if len(path) <= 2 {
		return path
	}

	simplified := make([]components.Position, 0, len(path))
	simplified = append(simplified, path[0])

	for i := 1; i < len(path)-1; i++ {
		prev := path[i-1]
		curr := path[i]
		next := path[i+1]

		if !a.hasLineOfSight(prev.X, prev.Y, next.X, next.Y) {
			simplified = append(simplified, curr)
		}
	}

	simplified = append(simplified, path[len(path)-1])
	return simplified
}

// hasLineOfSight checks if there's a clear line between two points on the nav grid.
func (a *AStarPlanner) hasLineOfSight(x1, y1, x2, y2 float64) bool {
	dx := x2 - x1
	dy := y2 - y1
	dist := math.Sqrt(dx*dx + dy*dy)

	if dist < 0.01 {
		return true
	}

	// Step along the line, checking each nav cell
	stepSize := a.grid.cellSize * 0.5
	steps := int(dist/stepSize) + 1

	dx /= dist
	dy /= dist

	for i := 0; i <= steps; i++ {
		checkX := x1 + dx*float64(i)*stepSize
		checkY := y1 + dy*float64(i)*stepSize
		if a.grid.IsBlockedWorld(checkX, checkY) {
			return false
		}
	}

	return true
}

// findNearestOpen finds the nearest unblocked cell to the given position.
// Returns (-1, -1) if no open cell found within the search radius.
func (a *AStarPlanner) findNearestOpen(gx, gy int) (int, int) {
	// Spiral search outward
	for radius := 1; radius < 10; radius++ {
		for dy := -radius; dy <= radius; dy++ {
			for dx := -radius; dx <= radius; dx++ {
				if abs(dx) != radius && abs(dy) != radius {
					continue
				}
				ngx := gx + dx
				ngy := gy + dy
				if !a.grid.IsBlocked(ngx, ngy) {
					return ngx, ngy
				}
			}
		}
	}
	return -1, -1
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
