package telemetry

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestSummarize(t *testing.T) {
	values := []float64{4, 1, 3, 2, 5}
	d := Summarize(values)

	if math.Abs(d.Mean-3) > 1e-12 {
		t.Errorf("mean = %g, want 3", d.Mean)
	}
	if d.P50 != 3 {
		t.Errorf("p50 = %g, want 3", d.P50)
	}
	if d.P90 != 5 {
		t.Errorf("p90 = %g, want 5", d.P90)
	}
	if d.Std <= 0 {
		t.Errorf("std = %g, want positive", d.Std)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	d := Summarize(nil)
	if d != (Distribution{}) {
		t.Errorf("empty sample summarized to %+v, want zeros", d)
	}
}

func TestSummarizeSingleValue(t *testing.T) {
	d := Summarize([]float64{2.5})
	if d.Mean != 2.5 || d.P50 != 2.5 || d.Std != 0 {
		t.Errorf("single value summarized to %+v", d)
	}
}

func TestCollectorWindowFlush(t *testing.T) {
	c := NewCollector(100, 0.05)

	if c.ShouldFlush(99) {
		t.Error("window must not flush before 100 ticks")
	}
	if !c.ShouldFlush(100) {
		t.Error("window must flush at 100 ticks")
	}

	c.RecordExit()
	c.RecordExit()
	c.RecordMDEPairs(7)

	stats := c.Flush(100, 398, []float64{0.1, 0.2}, []float64{3, 5})
	if stats.Exits != 2 || stats.MDEPairs != 7 {
		t.Errorf("window events = %d exits, %d pairs, want 2, 7", stats.Exits, stats.MDEPairs)
	}
	if stats.ExitedTotal != 2 {
		t.Errorf("exited total = %d, want 2", stats.ExitedTotal)
	}
	if stats.ActiveWalkers != 398 {
		t.Errorf("active = %d, want 398", stats.ActiveWalkers)
	}
	if math.Abs(stats.SimTimeSec-5.0) > 1e-12 {
		t.Errorf("sim time = %g, want 5.0", stats.SimTimeSec)
	}

	// Per-window counters reset, the exited total persists.
	c.RecordExit()
	next := c.Flush(200, 397, nil, nil)
	if next.Exits != 1 || next.MDEPairs != 0 {
		t.Errorf("next window events = %d exits, %d pairs, want 1, 0", next.Exits, next.MDEPairs)
	}
	if next.ExitedTotal != 3 {
		t.Errorf("exited total = %d, want 3", next.ExitedTotal)
	}
	if next.WindowStartTick != 100 {
		t.Errorf("next window starts at %d, want 100", next.WindowStartTick)
	}
}

func TestOutputManagerWritesHeadersOnce(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}
	if om.Dir() != dir {
		t.Errorf("output dir = %q, want %q", om.Dir(), dir)
	}

	if err := om.WriteTelemetry(WindowStats{WindowEndTick: 100, Exits: 3}); err != nil {
		t.Fatal(err)
	}
	if err := om.WriteTelemetry(WindowStats{WindowEndTick: 200, Exits: 5}); err != nil {
		t.Fatal(err)
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	raw, err := os.ReadFile(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	if len(lines) != 3 {
		t.Fatalf("telemetry.csv has %d lines, want header plus 2 records:\n%s", len(lines), raw)
	}
	if !strings.Contains(lines[0], "window_end") || !strings.Contains(lines[0], "exits") {
		t.Errorf("header line missing columns: %q", lines[0])
	}
	if strings.Contains(lines[1], "window_end") {
		t.Errorf("second line repeats the header: %q", lines[1])
	}
}

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil {
		t.Fatal(err)
	}
	if om != nil {
		t.Fatal("empty dir must disable output")
	}
	// All methods are nil-safe.
	if om.Dir() != "" {
		t.Errorf("disabled output dir = %q, want empty", om.Dir())
	}
	if err := om.WriteTelemetry(WindowStats{}); err != nil {
		t.Error(err)
	}
	if err := om.WritePerf(PerfStats{}, 0); err != nil {
		t.Error(err)
	}
	if err := om.Close(); err != nil {
		t.Error(err)
	}
}

func TestPerfCollectorFrameTiming(t *testing.T) {
	p := NewPerfCollector(4)

	// No frames recorded yet: frame stats stay zero.
	if s := p.Stats(); s.FrameDuration != 0 || s.FPS != 0 {
		t.Errorf("frame stats before any frame = %+v, want zeros", s)
	}

	p.RecordFrame()
	time.Sleep(time.Millisecond)
	p.RecordFrame()

	s := p.Stats()
	if s.FrameDuration <= 0 {
		t.Errorf("frame duration = %v, want positive after two frames", s.FrameDuration)
	}
	if s.FPS <= 0 {
		t.Errorf("fps = %g, want positive after two frames", s.FPS)
	}
}

func TestPerfCollectorWindow(t *testing.T) {
	p := NewPerfCollector(4)
	for i := 0; i < 6; i++ {
		p.StartTick()
		time.Sleep(time.Millisecond)
		p.EndTick()
	}
	s := p.Stats()
	if s.MinTickDuration > s.MaxTickDuration || s.AvgTickDuration < s.MinTickDuration || s.AvgTickDuration > s.MaxTickDuration {
		t.Errorf("inconsistent stats: %+v", s)
	}
	if s.TicksPerSecond <= 0 {
		t.Errorf("ticks per second = %g, want positive", s.TicksPerSecond)
	}
}
