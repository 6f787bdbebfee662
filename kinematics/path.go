package kinematics

import (
	"math"

	"steerplot/models"
)

// Station is a trajectory point with its cumulative arc length S.
type Station struct {
	S float64
	models.Point
}

// ArcLength accumulates the distance travelled along points.
func ArcLength(points []models.Point) []Station {
	if len(points) == 0 {
		return nil
	}
	out := make([]Station, len(points))
	out[0] = Station{S: 0, Point: points[0]}
	for i := 1; i < len(points); i++ {
		step := math.Hypot(points[i].X-points[i-1].X, points[i].Y-points[i-1].Y)
		out[i] = Station{S: out[i-1].S + step, Point: points[i]}
	}
	return out
}

// Resample returns samples points evenly spaced by arc length along the trajectory.
// Trajectories with no length or fewer than two points yield nil.
func Resample(points []models.Point, samples int) []models.Point {
	if len(points) < 2 || samples < 2 {
		return nil
	}
	st := ArcLength(points)
	total := st[len(st)-1].S
	if total <= 0 {
		return nil
	}

	out := make([]models.Point, samples)
	j := 0
	for i := 0; i < samples; i++ {
		target := float64(i) * total / float64(samples-1)
		for j < len(st)-1 && st[j+1].S < target {
			j++
		}
		if j == len(st)-1 {
			out[i] = st[len(st)-1].Point
			continue
		}
		p1, p2 := st[j], st[j+1]
		t := 0.0
		if d := p2.S - p1.S; d > 0 {
			t = (target - p1.S) / d
		}
		out[i] = models.Point{
			X: p1.X + t*(p2.X-p1.X),
			Y: p1.Y + t*(p2.Y-p1.Y),
		}
	}
	return out
}

// MeanPath resamples each trajectory by arc length and averages them point by point.
// Trajectories that cannot be resampled are left out.
func MeanPath(trajs [][]models.Point, samples int) []models.Point {
	var resampled [][]models.Point
	for _, tr := range trajs {
		if r := Resample(tr, samples); r != nil {
			resampled = append(resampled, r)
		}
	}
	if len(resampled) == 0 {
		return nil
	}

	out := make([]models.Point, samples)
	n := float64(len(resampled))
	for i := range out {
		var sx, sy float64
		for _, r := range resampled {
			sx += r[i].X
			sy += r[i].Y
		}
		out[i] = models.Point{X: sx / n, Y: sy / n}
	}
	return out
}
