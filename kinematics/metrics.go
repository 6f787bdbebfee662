package kinematics

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"steerplot/models"
)

// TrialMetrics holds movement statistics of a single trial.
type TrialMetrics struct {
	PathLength  float64 `json:"pathLength"`
	Duration    float64 `json:"duration"` // seconds, from timestamps
	MeanSpeed   float64 `json:"meanSpeed"`
	MedianSpeed float64 `json:"medianSpeed"`
	PeakSpeed   float64 `json:"peakSpeed"`
}

// ComputeMetrics calculates path length, duration and speed statistics for a trial.
func ComputeMetrics(t models.Trial) TrialMetrics {
	var m TrialMetrics
	if st := ArcLength(t.Trajectory); len(st) > 0 {
		m.PathLength = st[len(st)-1].S
	}
	if n := len(t.Timestamps); n > 1 {
		m.Duration = (t.Timestamps[n-1] - t.Timestamps[0]) / 1000.0
	}
	speeds := TrialSpeeds(t)
	if len(speeds) == 0 {
		return m
	}
	m.MeanSpeed = stat.Mean(speeds, nil)
	m.MedianSpeed = Median(speeds)
	m.PeakSpeed = floats.Max(speeds)
	return m
}

// Median returns the median of vals without modifying it.
func Median(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	c := append([]float64(nil), vals...)
	sort.Float64s(c)
	mid := len(c) / 2
	if len(c)%2 == 0 {
		return (c[mid-1] + c[mid]) / 2
	}
	return c[mid]
}
