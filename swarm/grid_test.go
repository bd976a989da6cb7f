package swarm

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

func randomAgents(rng *rand.Rand, n int, domainW, domainH, activeFrac float64) ([]Vec, []Vec, []bool) {
	positions := make([]Vec, n)
	velocities := make([]Vec, n)
	active := make([]bool, n)
	for i := 0; i < n; i++ {
		positions[i] = Vec{rng.Float64() * domainW, rng.Float64() * domainH}
		velocities[i] = Vec{rng.Float64()*2 - 1, rng.Float64()*2 - 1}
		active[i] = rng.Float64() < activeFrac
	}
	return positions, velocities, active
}

func TestBuildGridDimensions(t *testing.T) {
	cases := []struct {
		domainW, domainH, cellSize float64
		cols, rows                 int
	}{
		{10, 10, 1.5, 7, 7},
		{250, 150, 5, 51, 31},
		{1, 1, 1, 2, 2},
		{9.99, 9.99, 10, 1, 1},
	}
	for _, c := range cases {
		g, err := BuildGrid(nil, nil, c.domainW, c.domainH, c.cellSize)
		if err != nil {
			t.Fatalf("BuildGrid(%gx%g, %g): %v", c.domainW, c.domainH, c.cellSize, err)
		}
		if g.Cols != c.cols || g.Rows != c.rows {
			t.Errorf("BuildGrid(%gx%g, %g) = %dx%d cells, want %dx%d",
				c.domainW, c.domainH, c.cellSize, g.Cols, g.Rows, c.cols, c.rows)
		}
	}
}

func TestBuildGridCountsMatchActiveAgents(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	positions, _, active := randomAgents(rng, 500, 20, 15, 0.7)

	g, err := BuildGrid(positions, active, 20, 15, 1.5)
	if err != nil {
		t.Fatal(err)
	}

	wantActive := 0
	for _, a := range active {
		if a {
			wantActive++
		}
	}
	if g.ActiveCount() != wantActive {
		t.Errorf("ActiveCount() = %d, want %d", g.ActiveCount(), wantActive)
	}

	total := 0
	for cy := 0; cy < g.Rows; cy++ {
		for cx := 0; cx < g.Cols; cx++ {
			total += g.CountAt(cx, cy)
		}
	}
	if total != wantActive {
		t.Errorf("sum of per-cell counts = %d, want %d active agents", total, wantActive)
	}
}

func TestBuildGridEveryActiveAgentBinnedOnce(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	positions, _, active := randomAgents(rng, 300, 10, 10, 0.8)

	g, err := BuildGrid(positions, active, 10, 10, 1.5)
	if err != nil {
		t.Fatal(err)
	}

	seen := make(map[int32]int)
	for cy := 0; cy < g.Rows; cy++ {
		for cx := 0; cx < g.Cols; cx++ {
			bucket := g.bucket(cx, cy)
			count := g.CountAt(cx, cy)
			for s, idx := range bucket {
				if s < count {
					if idx == emptySlot {
						t.Fatalf("cell (%d,%d) slot %d is empty but count is %d", cx, cy, s, count)
					}
					seen[idx]++
					// The slot must correspond to the agent's own cell.
					wantX := int(math.Floor(positions[idx].X / g.CellSize))
					wantY := int(math.Floor(positions[idx].Y / g.CellSize))
					if wantX != cx || wantY != cy {
						t.Errorf("agent %d binned in cell (%d,%d), position maps to (%d,%d)",
							idx, cx, cy, wantX, wantY)
					}
				} else if idx != emptySlot {
					t.Fatalf("cell (%d,%d) slot %d past count %d holds %d, want sentinel",
						cx, cy, s, count, idx)
				}
			}
		}
	}

	for i, a := range active {
		if a {
			if seen[int32(i)] != 1 {
				t.Errorf("active agent %d appears %d times in buckets, want 1", i, seen[int32(i)])
			}
		} else {
			if seen[int32(i)] != 0 {
				t.Errorf("inactive agent %d appears in a bucket", i)
			}
			if cx, cy := g.CellOf(i); cx != -1 || cy != -1 {
				t.Errorf("CellOf(inactive %d) = (%d,%d), want (-1,-1)", i, cx, cy)
			}
		}
	}
}

func TestBuildGridEmptyInput(t *testing.T) {
	g, err := BuildGrid(nil, nil, 10, 10, 1)
	if err != nil {
		t.Fatal(err)
	}
	if g.ActiveCount() != 0 || g.MaxOccupancy() != 0 {
		t.Errorf("empty grid: ActiveCount=%d MaxOccupancy=%d, want 0, 0",
			g.ActiveCount(), g.MaxOccupancy())
	}
}

func TestBuildGridValidation(t *testing.T) {
	positions := []Vec{{1, 1}}
	active := []bool{true}

	cases := []struct {
		name    string
		run     func() error
		wantErr error
	}{
		{"zero length", func() error {
			_, err := BuildGrid(positions, active, 10, 10, 0)
			return err
		}, ErrInvalidLength},
		{"negative length", func() error {
			_, err := BuildGrid(positions, active, 10, 10, -1.5)
			return err
		}, ErrInvalidLength},
		{"zero width", func() error {
			_, err := BuildGrid(positions, active, 0, 10, 1)
			return err
		}, ErrInvalidDomain},
		{"negative height", func() error {
			_, err := BuildGrid(positions, active, 10, -5, 1)
			return err
		}, ErrInvalidDomain},
		{"flag length mismatch", func() error {
			_, err := BuildGrid(positions, []bool{true, false}, 10, 10, 1)
			return err
		}, ErrSizeMismatch},
		{"negative position", func() error {
			_, err := BuildGrid([]Vec{{-0.1, 5}}, active, 10, 10, 1)
			return err
		}, ErrPositionOutOfBounds},
		{"position past extent", func() error {
			_, err := BuildGrid([]Vec{{5, 25}}, active, 10, 10, 1)
			return err
		}, ErrPositionOutOfBounds},
		// The half-open domain excludes the extent itself, even though
		// floor(extent/cellSize) would still be a valid cell.
		{"position at exact width", func() error {
			_, err := BuildGrid([]Vec{{10, 5}}, active, 10, 10, 1.5)
			return err
		}, ErrPositionOutOfBounds},
		{"position at exact height", func() error {
			_, err := BuildGrid([]Vec{{5, 10}}, active, 10, 10, 1.5)
			return err
		}, ErrPositionOutOfBounds},
	}
	for _, c := range cases {
		if err := c.run(); !errors.Is(err, c.wantErr) {
			t.Errorf("%s: got error %v, want %v", c.name, err, c.wantErr)
		}
	}
}

// An inactive agent outside the domain is never binned, so it must not
// trip the bounds check.
func TestBuildGridIgnoresInactiveOutOfBounds(t *testing.T) {
	positions := []Vec{{2, 2}, {-50, 300}}
	active := []bool{true, false}
	g, err := BuildGrid(positions, active, 10, 10, 1)
	if err != nil {
		t.Fatalf("BuildGrid: %v", err)
	}
	if g.ActiveCount() != 1 {
		t.Errorf("ActiveCount() = %d, want 1", g.ActiveCount())
	}
}
