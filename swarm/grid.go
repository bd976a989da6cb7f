package swarm

import (
	"fmt"
	"math"
)

// emptySlot marks an unused bucket slot. Agent indices are 0-based, so any
// negative value is distinguishable from a valid index.
const emptySlot int32 = -1

// Grid is a uniform spatial index over agent positions, rebuilt from
// scratch by every BuildGrid call and discarded afterwards. Cell side
// length equals the kernel smoothing length, so any agent within kernel
// range of another must sit in the same cell or one of its 8 neighbors.
type Grid struct {
	CellSize float64
	Cols     int
	Rows     int

	maxOcc  int
	counts  []int32 // active agents per cell, row-major
	buckets []int32 // Cols*Rows*maxOcc slots, emptySlot where unused
	cells   []int32 // per-agent flat cell index, -1 for inactive agents
	active  int     // number of active agents
}

// BuildGrid validates the inputs and bins every active agent into its
// cell. Grid dimensions are floor(extent/cellSize)+1 per axis; an agent's
// cell is floor(position/cellSize). Inactive agents are never binned.
//
// All validation happens before any bucket storage is allocated: a
// non-positive cellSize returns ErrInvalidLength, non-positive domain
// extents return ErrInvalidDomain, an active/positions length mismatch
// returns ErrSizeMismatch, and an active agent outside [0,W) x [0,H)
// returns ErrPositionOutOfBounds. Out-of-domain positions are a contract
// violation, never clamped or wrapped.
func BuildGrid(positions []Vec, active []bool, domainW, domainH, cellSize float64) (*Grid, error) {
	if cellSize <= 0 {
		return nil, fmt.Errorf("%w: got %g", ErrInvalidLength, cellSize)
	}
	if domainW <= 0 || domainH <= 0 {
		return nil, fmt.Errorf("%w: got %g x %g", ErrInvalidDomain, domainW, domainH)
	}
	if len(active) != len(positions) {
		return nil, fmt.Errorf("%w: %d positions, %d active flags",
			ErrSizeMismatch, len(positions), len(active))
	}

	g := &Grid{
		CellSize: cellSize,
		Cols:     int(math.Floor(domainW/cellSize)) + 1,
		Rows:     int(math.Floor(domainH/cellSize)) + 1,
	}

	n := len(positions)
	g.cells = make([]int32, n)
	g.counts = make([]int32, g.Cols*g.Rows)

	// First pass: resolve cells, validate bounds, count occupancy.
	// The position check is against the domain itself, not just the cell
	// range: dimensions are floor(extent/cellSize)+1, so a position at
	// exactly the domain extent would still map to a valid cell.
	for i, p := range positions {
		g.cells[i] = -1
		if !active[i] {
			continue
		}
		if p.X < 0 || p.X >= domainW || p.Y < 0 || p.Y >= domainH {
			return nil, fmt.Errorf("%w: agent %d at (%g, %g)",
				ErrPositionOutOfBounds, i, p.X, p.Y)
		}
		cx := int(math.Floor(p.X / cellSize))
		cy := int(math.Floor(p.Y / cellSize))
		cell := int32(cy*g.Cols + cx)
		g.cells[i] = cell
		g.counts[cell]++
		g.active++
	}

	for _, c := range g.counts {
		if int(c) > g.maxOcc {
			g.maxOcc = int(c)
		}
	}

	// Second pass: fill buckets back-to-front using the remaining count of
	// each cell as the write slot. A single decrement per agent replaces a
	// separate write cursor per cell; afterwards slots [0, count) hold the
	// cell's agents and every trailing slot is still the sentinel.
	g.buckets = make([]int32, g.Cols*g.Rows*g.maxOcc)
	for i := range g.buckets {
		g.buckets[i] = emptySlot
	}
	fill := make([]int32, len(g.counts))
	copy(fill, g.counts)
	for i := 0; i < n; i++ {
		cell := g.cells[i]
		if cell < 0 {
			continue
		}
		fill[cell]--
		g.buckets[int(cell)*g.maxOcc+int(fill[cell])] = int32(i)
	}

	return g, nil
}

// ActiveCount returns the number of active agents binned into the grid.
func (g *Grid) ActiveCount() int { return g.active }

// MaxOccupancy returns the largest per-cell active agent count.
func (g *Grid) MaxOccupancy() int { return g.maxOcc }

// CountAt returns the number of active agents in cell (cx, cy).
func (g *Grid) CountAt(cx, cy int) int {
	return int(g.counts[cy*g.Cols+cx])
}

// CellOf returns the cell coordinates of an agent binned during BuildGrid,
// or (-1, -1) if the agent was inactive.
func (g *Grid) CellOf(i int) (cx, cy int) {
	cell := g.cells[i]
	if cell < 0 {
		return -1, -1
	}
	return int(cell) % g.Cols, int(cell) / g.Cols
}

// bucket returns the slot slice for cell (cx, cy). Slots [0, count) hold
// agent indices; the rest are emptySlot.
func (g *Grid) bucket(cx, cy int) []int32 {
	base := (cy*g.Cols + cx) * g.maxOcc
	return g.buckets[base : base+g.maxOcc]
}
