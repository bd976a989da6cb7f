package swarm

import (
	"math"
	"testing"
)

func TestWeightAtZeroDistance(t *testing.T) {
	for _, length := range []float64{0.5, 1.0, 1.5, 10.0} {
		want := 7 / (math.Pi * length * length)
		got := Weight(0, length)
		if math.Abs(got-want) > 1e-15*want {
			t.Errorf("Weight(0, %g) = %g, want %g", length, got, want)
		}
		if got != WeightMax(length) {
			t.Errorf("Weight(0, %g) = %g, WeightMax = %g, want equal", length, got, WeightMax(length))
		}
	}
}

func TestWeightCompactSupport(t *testing.T) {
	length := 1.5
	for _, d := range []float64{length, length + 1e-12, 2 * length, 100 * length} {
		if w := Weight(d, length); w != 0 {
			t.Errorf("Weight(%g, %g) = %g, want exactly 0", d, length, w)
		}
	}
}

func TestWeightNonIncreasing(t *testing.T) {
	length := 2.0
	prev := math.Inf(1)
	for i := 0; i <= 1000; i++ {
		d := float64(i) / 1000 * length
		w := Weight(d, length)
		if w < 0 {
			t.Fatalf("Weight(%g, %g) = %g, want non-negative", d, length, w)
		}
		if w > prev {
			t.Fatalf("Weight(%g, %g) = %g exceeds previous value %g", d, length, w, prev)
		}
		prev = w
	}
}

// The kernel shape depends only on distance/length; the normalization
// carries the 1/length^2 scaling. Dividing it out gives the unit-support
// kernel exactly.
func TestWeightScaleInvariantShape(t *testing.T) {
	for _, length := range []float64{0.3, 1.0, 1.5, 7.0} {
		for i := 0; i <= 20; i++ {
			d := float64(i) / 20 * length
			scaled := Weight(d, length) * length * length
			unit := Weight(d/length, 1)
			if math.Abs(scaled-unit) > 1e-13*math.Max(1, unit) {
				t.Errorf("L^2*Weight(%g, %g) = %g, Weight(%g, 1) = %g, want equal",
					d, length, scaled, d/length, unit)
			}
		}
	}
}
