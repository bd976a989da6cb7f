package swarm

import "fmt"

// mdePerturbation keeps the push-apart factor finite for coincident
// agents.
const mdePerturbation = 0.001

// EnforceMinimumDistance pushes apart pairs of active agents in the same
// cell that sit closer than minDistance, mutating positions in place.
// Each offending pair (a, b) is corrected symmetrically by
//
//	(minDistance/(d+eps) - 1) * (posA - posB) / 2
//
// added to a and subtracted from b, with all corrections accumulated
// before any position is touched so that agents in several pairs receive
// the combined shift. Pairs in different cells are ignored, even when
// they are closer than minDistance across a cell boundary; the pass is a
// cheap overlap relaxation, not an exact collision solve. Returns the
// number of corrected pairs.
//
// The grid must have been built from the same positions slice (or one of
// equal length); the caller typically runs this right after integrating
// positions, against the grid built at the start of the tick.
func (g *Grid) EnforceMinimumDistance(positions []Vec, active []bool, minDistance float64) (int, error) {
	if len(positions) != len(g.cells) || len(active) != len(g.cells) {
		return 0, fmt.Errorf("%w: grid built for %d agents, got %d positions and %d active flags",
			ErrSizeMismatch, len(g.cells), len(positions), len(active))
	}
	if minDistance <= 0 || g.maxOcc < 2 {
		return 0, nil
	}

	corrections := make([]Vec, len(positions))
	pairs := 0
	for cy := 0; cy < g.Rows; cy++ {
		for cx := 0; cx < g.Cols; cx++ {
			bucket := g.bucket(cx, cy)
			count := g.CountAt(cx, cy)
			for i := 0; i < count; i++ {
				a := int(bucket[i])
				if !active[a] {
					continue
				}
				for j := i + 1; j < count; j++ {
					b := int(bucket[j])
					if !active[b] {
						continue
					}
					d := distance(positions[a], positions[b])
					if d >= minDistance {
						continue
					}
					diff := positions[a].Sub(positions[b])
					push := diff.Scale((minDistance/(d+mdePerturbation) - 1) / 2)
					corrections[a] = corrections[a].Add(push)
					corrections[b] = corrections[b].Sub(push)
					pairs++
				}
			}
		}
	}

	for i := range positions {
		if active[i] {
			positions[i] = positions[i].Add(corrections[i])
		}
	}
	return pairs, nil
}
