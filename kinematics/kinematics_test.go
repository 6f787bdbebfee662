package kinematics

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"steerplot/models"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

func line(xs ...float64) []models.Point {
	out := make([]models.Point, len(xs))
	for i, x := range xs {
		out[i] = models.Point{X: x}
	}
	return out
}

func TestSpeeds(t *testing.T) {
	pts := line(0, 0.01, 0.03, 0.03, 0.06)
	ts := []float64{0, 100, 200, 200, 300}

	got := Speeds(pts, ts)
	// the duplicate timestamp step is dropped
	want := []float64{0, 0.1, 0.2, 0.3}
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("Speeds mismatch (-want +got):\n%s", diff)
	}

	assert.Nil(t, Speeds(line(0), []float64{0}))
}

func TestTangentialAcceleration(t *testing.T) {
	pts := line(0, 0.1, 0.3, 0.6)
	ts := []float64{0, 1000, 2000, 3000}

	// speeds 0.1, 0.2, 0.3 -> accelerations 0.1, 0.1
	got := TangentialAcceleration(pts, ts)
	want := []float64{0, 0.1, 0.1, 0}
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("TangentialAcceleration mismatch (-want +got):\n%s", diff)
	}
	assert.Len(t, got, len(pts))

	t.Run("decelerating is negative", func(t *testing.T) {
		acc := TangentialAcceleration(line(0, 0.3, 0.5, 0.6), ts)
		assert.InDelta(t, -0.1, acc[1], 1e-9)
		assert.InDelta(t, -0.1, acc[2], 1e-9)
	})
	t.Run("too short", func(t *testing.T) {
		assert.Nil(t, TangentialAcceleration(line(0, 1), []float64{0, 1}))
	})
}

func TestStepAcceleration(t *testing.T) {
	got := StepAcceleration(line(0, 1, 3, 4))
	want := []float64{0, 0, 1, -1}
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("StepAcceleration mismatch (-want +got):\n%s", diff)
	}
}

func TestAccelerationsFallback(t *testing.T) {
	tr := models.Trial{Trajectory: line(0, 1, 3), Timestamps: []float64{0, 1000}}
	assert.Equal(t, StepAcceleration(tr.Trajectory), Accelerations(tr))

	tr.Timestamps = []float64{0, 1000, 2000}
	assert.Equal(t, TangentialAcceleration(tr.Trajectory, tr.Timestamps), Accelerations(tr))
}

func TestResample(t *testing.T) {
	got := Resample(line(0, 1, 4), 5)
	require.Len(t, got, 5)
	want := line(0, 1, 2, 3, 4)
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("Resample mismatch (-want +got):\n%s", diff)
	}

	assert.Nil(t, Resample(line(1, 1, 1), 5))
	assert.Nil(t, Resample(line(0, 1), 1))
}

func TestMeanPath(t *testing.T) {
	a := []models.Point{{X: 0, Y: 0}, {X: 1, Y: 0}}
	b := []models.Point{{X: 0, Y: 1}, {X: 1, Y: 1}}
	got := MeanPath([][]models.Point{a, b, line(2)}, 3)
	want := []models.Point{{X: 0, Y: 0.5}, {X: 0.5, Y: 0.5}, {X: 1, Y: 0.5}}
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("MeanPath mismatch (-want +got):\n%s", diff)
	}
	assert.Nil(t, MeanPath(nil, 3))
}

func TestComputeMetrics(t *testing.T) {
	tr := models.Trial{
		Trajectory: line(0, 0.1, 0.3),
		Timestamps: []float64{1000, 2000, 3500},
		Speeds:     []float64{0, 0.1, 0.4},
	}
	m := ComputeMetrics(tr)
	assert.InDelta(t, 0.3, m.PathLength, 1e-12)
	assert.InDelta(t, 2.5, m.Duration, 1e-12)
	assert.InDelta(t, 0.5/3, m.MeanSpeed, 1e-12)
	assert.InDelta(t, 0.1, m.MedianSpeed, 1e-12)
	assert.InDelta(t, 0.4, m.PeakSpeed, 1e-12)
}

func TestMedian(t *testing.T) {
	assert.Equal(t, 0.0, Median(nil))
	assert.Equal(t, 2.0, Median([]float64{3, 1, 2}))
	assert.Equal(t, 2.5, Median([]float64{4, 1, 3, 2}))
}
