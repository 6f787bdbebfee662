package kinematics

import (
	"math"

	"steerplot/models"
)

// Speeds derives cursor speeds (m/s) from positions and millisecond timestamps, used when
// a trial was recorded without a speed history. Steps with a non-positive time delta are
// dropped, and the series starts with 0.
func Speeds(points []models.Point, timestamps []float64) []float64 {
	if len(points) < 2 || len(timestamps) < 2 {
		return nil
	}
	n := min(len(points), len(timestamps))
	out := []float64{0}
	for i := 1; i < n; i++ {
		dt := (timestamps[i] - timestamps[i-1]) / 1000.0
		if dt <= 0 {
			continue
		}
		d := math.Hypot(points[i].X-points[i-1].X, points[i].Y-points[i-1].Y)
		out = append(out, d/dt)
	}
	return out
}

// TangentialAcceleration returns the signed change of speed per second for every
// trajectory point (positive = speeding up). The first and last entries are 0.
func TangentialAcceleration(points []models.Point, timestamps []float64) []float64 {
	if len(points) < 3 || len(timestamps) < 3 {
		return nil
	}
	n := min(len(points), len(timestamps))
	ts := make([]float64, n)
	for i := range ts {
		ts[i] = timestamps[i] / 1000.0
	}

	speeds := make([]float64, 0, n-1)
	for i := 1; i < n; i++ {
		dt := ts[i] - ts[i-1]
		if dt <= 0 {
			speeds = append(speeds, 0)
			continue
		}
		vx := (points[i].X - points[i-1].X) / dt
		vy := (points[i].Y - points[i-1].Y) / dt
		speeds = append(speeds, math.Hypot(vx, vy))
	}

	out := make([]float64, 0, n)
	out = append(out, 0)
	for i := 1; i < len(speeds); i++ {
		dt := ts[i+1] - ts[i]
		if dt <= 0 {
			out = append(out, 0)
			continue
		}
		out = append(out, (speeds[i]-speeds[i-1])/dt)
	}
	return append(out, 0)
}

// StepAcceleration approximates tangential acceleration without timestamps: the
// difference between consecutive step lengths, padded with two leading zeros.
func StepAcceleration(points []models.Point) []float64 {
	out := []float64{0, 0}
	for i := 2; i < len(points); i++ {
		s1 := math.Hypot(points[i-1].X-points[i-2].X, points[i-1].Y-points[i-2].Y)
		s2 := math.Hypot(points[i].X-points[i-1].X, points[i].Y-points[i-1].Y)
		out = append(out, s2-s1)
	}
	return out
}

// Accelerations picks TangentialAcceleration when every point has a timestamp and falls
// back to StepAcceleration otherwise.
func Accelerations(t models.Trial) []float64 {
	if len(t.Timestamps) > 0 && len(t.Timestamps) == len(t.Trajectory) {
		return TangentialAcceleration(t.Trajectory, t.Timestamps)
	}
	return StepAcceleration(t.Trajectory)
}

// TrialSpeeds returns the recorded speeds, deriving them from the trajectory when absent.
func TrialSpeeds(t models.Trial) []float64 {
	if len(t.Speeds) > 0 {
		return t.Speeds
	}
	return Speeds(t.Trajectory, t.Timestamps)
}
