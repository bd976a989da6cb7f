package telemetry

// Collector accumulates events within tick windows and produces WindowStats.
type Collector struct {
	windowTicks int32
	dt          float64

	windowStartTick int32

	// Event counters for the current window
	exits       int
	mdePairs    int
	exitedTotal int
}

// NewCollector creates a stats collector flushing every windowTicks ticks.
func NewCollector(windowTicks int, dt float64) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{
		windowTicks: int32(windowTicks),
		dt:          dt,
	}
}

// RecordExit records a walker reaching an exit.
func (c *Collector) RecordExit() {
	c.exits++
	c.exitedTotal++
}

// RecordMDEPairs records the pairs corrected by the minimum distance pass.
func (c *Collector) RecordMDEPairs(pairs int) {
	c.mdePairs += pairs
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowTicks
}

// Flush produces a WindowStats and resets counters for the next window.
// forceMagnitudes and neighborCounts are samples over the active
// population at window end; both slices are sorted in place.
func (c *Collector) Flush(
	currentTick int32,
	activeWalkers int,
	forceMagnitudes, neighborCounts []float64,
) WindowStats {
	force := Summarize(forceMagnitudes)
	neigh := Summarize(neighborCounts)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * c.dt,
		ActiveWalkers:   activeWalkers,
		ExitedTotal:     c.exitedTotal,
		Exits:           c.exits,
		MDEPairs:        c.mdePairs,
		ForceMean:       force.Mean,
		ForceStd:        force.Std,
		ForceP50:        force.P50,
		ForceP90:        force.P90,
		NeighborsMean:   neigh.Mean,
		NeighborsP50:    neigh.P50,
		NeighborsP90:    neigh.P90,
	}

	c.windowStartTick = currentTick
	c.exits = 0
	c.mdePairs = 0

	return stats
}
