package swarm

import (
	"fmt"
	"math"
)

// ComputeForce returns the swarm correction force for every agent: the sum
// over all other active agents in the 3x3 cell block around the agent of
// (neighborVelocity - ownVelocity) * Weight(distance, smoothingLength).
// The result is index-aligned with positions; inactive agents keep a zero
// entry. The raw weighted sum is returned without any neighbor-count
// normalization.
func ComputeForce(positions, velocities []Vec, active []bool, domainW, domainH, smoothingLength float64) ([]Vec, error) {
	forces, _, err := ComputeForceCounts(positions, velocities, active, domainW, domainH, smoothingLength)
	return forces, err
}

// ComputeForceCounts is ComputeForce plus a per-agent diagnostic count of
// neighbors that contributed to the sum (pairs visited inside the 3x3
// block, including zero-weight ones at or beyond the support radius).
func ComputeForceCounts(positions, velocities []Vec, active []bool, domainW, domainH, smoothingLength float64) ([]Vec, []int, error) {
	if len(velocities) != len(positions) {
		return nil, nil, fmt.Errorf("%w: %d positions, %d velocities",
			ErrSizeMismatch, len(positions), len(velocities))
	}
	grid, err := BuildGrid(positions, active, domainW, domainH, smoothingLength)
	if err != nil {
		return nil, nil, err
	}
	return grid.Forces(positions, velocities, active, 1)
}

// accumulate sums the weighted velocity differences for one active agent
// over its 3x3 cell neighborhood. Offsets that fall off the grid edge are
// skipped, not wrapped. The agent itself and inactive candidates are
// skipped.
func (g *Grid) accumulate(k int, positions, velocities []Vec, active []bool, length float64) (Vec, int) {
	cx, cy := g.CellOf(k)
	pos := positions[k]
	vel := velocities[k]

	var force Vec
	neighbors := 0
	for dy := -1; dy <= 1; dy++ {
		ny := cy + dy
		if ny < 0 || ny >= g.Rows {
			continue
		}
		for dx := -1; dx <= 1; dx++ {
			nx := cx + dx
			if nx < 0 || nx >= g.Cols {
				continue
			}
			bucket := g.bucket(nx, ny)
			count := g.CountAt(nx, ny)
			for s := 0; s < count; s++ {
				k2 := bucket[s]
				if k2 == emptySlot {
					break
				}
				if int(k2) == k || !active[k2] {
					continue
				}
				d := positions[k2].Sub(pos).Len()
				w := Weight(d, length)
				force.X += (velocities[k2].X - vel.X) * w
				force.Y += (velocities[k2].Y - vel.Y) * w
				neighbors++
			}
		}
	}
	return force, neighbors
}

// distance is a convenience used by tests and the MDE pass.
func distance(a, b Vec) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}
