package telemetry

import (
	"log/slog"
	"time"
)

// PerfCollector tracks tick timing over a rolling window.
type PerfCollector struct {
	windowSize  int
	samples     []time.Duration
	writeIndex  int
	sampleCount int
	tickStart   time.Time

	// Frame timing (for graphics mode)
	lastFrameTime time.Time
	frameDuration time.Duration
}

// NewPerfCollector creates a new performance collector.
// windowSize: number of ticks to average over (e.g., 60 for 1 second at 60fps).
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		windowSize: windowSize,
		samples:    make([]time.Duration, windowSize),
	}
}

// StartTick begins timing a new simulation tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
}

// EndTick finishes timing the current tick and records the sample.
func (p *PerfCollector) EndTick() {
	p.samples[p.writeIndex] = time.Since(p.tickStart)
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
}

// RecordFrame records frame timing for graphics mode.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrameTime.IsZero() {
		p.frameDuration = now.Sub(p.lastFrameTime)
	}
	p.lastFrameTime = now
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration
	TicksPerSecond  float64

	// Frame timing (graphics mode)
	FrameDuration time.Duration
	FPS           float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	var fps float64
	if p.frameDuration > 0 {
		fps = float64(time.Second) / float64(p.frameDuration)
	}

	if p.sampleCount == 0 {
		return PerfStats{FrameDuration: p.frameDuration, FPS: fps}
	}

	var total, min, max time.Duration
	for i := 0; i < p.sampleCount; i++ {
		s := p.samples[i]
		total += s
		if i == 0 || s < min {
			min = s
		}
		if s > max {
			max = s
		}
	}
	avg := total / time.Duration(p.sampleCount)

	var ticksPerSec float64
	if avg > 0 {
		ticksPerSec = float64(time.Second) / float64(avg)
	}

	return PerfStats{
		AvgTickDuration: avg,
		MinTickDuration: min,
		MaxTickDuration: max,
		TicksPerSecond:  ticksPerSec,
		FrameDuration:   p.frameDuration,
		FPS:             fps,
	}
}

// PerfStatsCSV is the flattened CSV record for a perf window.
type PerfStatsCSV struct {
	WindowEnd   int32   `csv:"window_end"`
	AvgTickUs   int64   `csv:"avg_tick_us"`
	MinTickUs   int64   `csv:"min_tick_us"`
	MaxTickUs   int64   `csv:"max_tick_us"`
	TicksPerSec float64 `csv:"ticks_per_sec"`
}

// ToCSV converts stats to a CSV record tagged with the window end tick.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:   windowEnd,
		AvgTickUs:   s.AvgTickDuration.Microseconds(),
		MinTickUs:   s.MinTickDuration.Microseconds(),
		MaxTickUs:   s.MaxTickDuration.Microseconds(),
		TicksPerSec: s.TicksPerSecond,
	}
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	slog.Info("perf",
		"avg_tick_us", s.AvgTickDuration.Microseconds(),
		"min_tick_us", s.MinTickDuration.Microseconds(),
		"max_tick_us", s.MaxTickDuration.Microseconds(),
		"ticks_per_sec", int(s.TicksPerSecond),
	)
}
