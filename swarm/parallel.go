package swarm

import (
	"fmt"
	"runtime"
	"sync"
)

// parallelThreshold is the minimum agent count worth fanning out over
// goroutines. Below this the chunk dispatch overhead dominates.
const parallelThreshold = 64

// ComputeForceParallel is ComputeForceCounts with the per-agent
// accumulation split across workers. workers <= 0 means GOMAXPROCS.
func ComputeForceParallel(positions, velocities []Vec, active []bool, domainW, domainH, smoothingLength float64, workers int) ([]Vec, []int, error) {
	grid, err := BuildGrid(positions, active, domainW, domainH, smoothingLength)
	if err != nil {
		return nil, nil, err
	}
	return grid.Forces(positions, velocities, active, workers)
}

// Forces computes the correction forces and neighbor counts against this
// grid's binning, so one BuildGrid can serve both the force pass and a
// later EnforceMinimumDistance. The kernel support radius is the grid's
// cell size. The grid is only read and each agent's output slot is
// written by exactly one worker, so the result is identical to the
// single-worker path bit for bit. workers <= 0 means GOMAXPROCS.
func (g *Grid) Forces(positions, velocities []Vec, active []bool, workers int) ([]Vec, []int, error) {
	if len(positions) != len(g.cells) || len(velocities) != len(g.cells) || len(active) != len(g.cells) {
		return nil, nil, fmt.Errorf("%w: grid built for %d agents, got %d positions, %d velocities, %d active flags",
			ErrSizeMismatch, len(g.cells), len(positions), len(velocities), len(active))
	}

	n := len(positions)
	forces := make([]Vec, n)
	counts := make([]int, n)

	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if n < parallelThreshold || workers == 1 {
		for k := 0; k < n; k++ {
			if active[k] {
				forces[k], counts[k] = g.accumulate(k, positions, velocities, active, g.CellSize)
			}
		}
		return forces, counts, nil
	}

	chunkSize := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunkSize
		end := min(start+chunkSize, n)
		if start >= end {
			break
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for k := start; k < end; k++ {
				if active[k] {
					forces[k], counts[k] = g.accumulate(k, positions, velocities, active, g.CellSize)
				}
			}
		}(start, end)
	}
	wg.Wait()

	return forces, counts, nil
}
