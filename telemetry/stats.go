package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Population at window end
	ActiveWalkers int `csv:"active"`
	ExitedTotal   int `csv:"exited_total"`

	// Events during window
	Exits    int `csv:"exits"`
	MDEPairs int `csv:"mde_pairs"`

	// Swarm force magnitude distribution (sampled at window end)
	ForceMean float64 `csv:"force_mean"`
	ForceStd  float64 `csv:"force_std"`
	ForceP50  float64 `csv:"force_p50"`
	ForceP90  float64 `csv:"force_p90"`

	// Neighbor count distribution (sampled at window end)
	NeighborsMean float64 `csv:"neighbors_mean"`
	NeighborsP50  float64 `csv:"neighbors_p50"`
	NeighborsP90  float64 `csv:"neighbors_p90"`
}

// Distribution summarizes a sample of values.
type Distribution struct {
	Mean, Std, P50, P90 float64
}

// Summarize computes mean, standard deviation, and percentiles.
// The input slice is sorted in place.
func Summarize(values []float64) Distribution {
	if len(values) == 0 {
		return Distribution{}
	}
	sort.Float64s(values)
	d := Distribution{
		Mean: stat.Mean(values, nil),
		P50:  stat.Quantile(0.50, stat.Empirical, values, nil),
		P90:  stat.Quantile(0.90, stat.Empirical, values, nil),
	}
	if len(values) > 1 {
		d.Std = stat.StdDev(values, nil)
	}
	return d
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("active", s.ActiveWalkers),
		slog.Int("exited_total", s.ExitedTotal),
		slog.Int("exits", s.Exits),
		slog.Int("mde_pairs", s.MDEPairs),
		slog.Float64("force_mean", s.ForceMean),
		slog.Float64("force_std", s.ForceStd),
		slog.Float64("force_p50", s.ForceP50),
		slog.Float64("force_p90", s.ForceP90),
		slog.Float64("neighbors_mean", s.NeighborsMean),
		slog.Float64("neighbors_p50", s.NeighborsP50),
		slog.Float64("neighbors_p90", s.NeighborsP90),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"active", s.ActiveWalkers,
		"exited_total", s.ExitedTotal,
		"exits", s.Exits,
		"mde_pairs", s.MDEPairs,
		"force_mean", s.ForceMean,
		"force_std", s.ForceStd,
		"force_p50", s.ForceP50,
		"force_p90", s.ForceP90,
		"neighbors_mean", s.NeighborsMean,
		"neighbors_p50", s.NeighborsP50,
		"neighbors_p90", s.NeighborsP90,
	)
}
