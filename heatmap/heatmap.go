package heatmap

import (
	"image/color"
	"math"

	"gonum.org/v1/gonum/mat"

	"steerplot/config"
	"steerplot/models"
	"steerplot/tunnel"
)

// Overlap builds the trajectory overlap density: every participant marks the cells their
// trajectory visits, the binary grid is blurred, and the grids are averaged. The result is
// clipped to [0, cfg.OverlapClip]. It also returns how many trajectories contributed.
func Overlap(trajs [][]models.Point, env config.EnvironmentConfig, cfg config.HeatmapConfig) (Grid, int) {
	res := cfg.OverlapResolution
	out := newGrid(res, res, env.WindowWidth, env.WindowHeight)
	n := 0
	for _, traj := range trajs {
		if len(traj) == 0 {
			continue
		}
		g := mat.NewDense(res, res, nil)
		for _, p := range traj {
			xi := cellIndex(p.X/env.WindowWidth*float64(res), res)
			yi := cellIndex(p.Y/env.WindowHeight*float64(res), res)
			g.Set(yi, xi, 1)
		}
		smooth(g, cfg.OverlapSigma)
		out.Values.Add(out.Values, g)
		n++
	}
	if n == 0 {
		return out, 0
	}
	out.Values.Scale(1/float64(n), out.Values)
	out.clip(0, cfg.OverlapClip)
	return out, n
}

func cellIndex(v float64, res int) int {
	return int(min(max(v, 0), float64(res-1)))
}

// SegmentStat counts trajectory samples that fell into one tunnel segment.
type SegmentStat struct {
	tunnel.Segment
	Accelerating int
	Decelerating int
	Total        int
	AccelFreq    float64 // Accelerating / participants
	DecelFreq    float64 // Decelerating / participants
}

// Frequency bins every trajectory sample to the nearest segment center lying within half the
// tunnel width and counts positive and negative accelerations per segment. Frequencies are
// normalized by the number of trajectories.
func Frequency(trajs [][]models.Point, accs [][]float64, path tunnel.Path, cfg config.HeatmapConfig) []SegmentStat {
	segs := path.Segments(cfg.Segments)
	stats := make([]SegmentStat, len(segs))
	for i, s := range segs {
		stats[i].Segment = s
	}
	half := path.Width / 2

	for i := 0; i < len(trajs) && i < len(accs); i++ {
		traj, acc := truncate(trajs[i], accs[i])
		for j, p := range traj {
			best, bestDist := -1, math.Inf(1)
			for k, s := range segs {
				d := math.Hypot(p.X-s.Center.X, p.Y-s.Center.Y)
				if d <= half && d < bestDist {
					best, bestDist = k, d
				}
			}
			if best < 0 {
				continue
			}
			stats[best].Total++
			switch {
			case acc[j] > 0:
				stats[best].Accelerating++
			case acc[j] < 0:
				stats[best].Decelerating++
			}
		}
	}

	n := float64(len(trajs))
	for i := range stats {
		if stats[i].Total > 0 {
			stats[i].AccelFreq = float64(stats[i].Accelerating) / n
			stats[i].DecelFreq = float64(stats[i].Decelerating) / n
		}
	}
	return stats
}

// Color shades a segment red when accelerations dominate, blue when decelerations dominate,
// and white when neither reaches threshold.
func (s SegmentStat) Color(threshold float64) color.NRGBA {
	shade := func(f float64) uint8 {
		return uint8(math.Round(255 * max(0, 1-min(f, 1)*0.8)))
	}
	switch {
	case s.AccelFreq > s.DecelFreq && s.AccelFreq > threshold:
		c := shade(s.AccelFreq)
		return color.NRGBA{R: 255, G: c, B: c, A: 255}
	case s.DecelFreq > s.AccelFreq && s.DecelFreq > threshold:
		c := shade(s.DecelFreq)
		return color.NRGBA{R: c, G: c, B: 255, A: 255}
	default:
		return color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	}
}

// Magnitude sums acceleration magnitudes of in-tunnel samples on a grid of
// cfg.MagnitudeResolution points per axis. Positive and negative accelerations are
// accumulated and blurred separately; the result is their difference clipped to
// ±cfg.MagnitudeClip.
func Magnitude(trajs [][]models.Point, accs [][]float64, path tunnel.Path, env config.EnvironmentConfig, cfg config.HeatmapConfig) Grid {
	res := cfg.MagnitudeResolution
	accel := mat.NewDense(res, res, nil)
	decel := mat.NewDense(res, res, nil)

	for i := 0; i < len(trajs) && i < len(accs); i++ {
		traj, acc := truncate(trajs[i], accs[i])
		for j, p := range traj {
			if !path.Contains(p) {
				continue
			}
			xi := nearestLinspace(p.X, env.WindowWidth, res)
			yi := nearestLinspace(p.Y, env.WindowHeight, res)
			switch {
			case acc[j] > 0:
				accel.Set(yi, xi, accel.At(yi, xi)+acc[j])
			case acc[j] < 0:
				decel.Set(yi, xi, decel.At(yi, xi)-acc[j])
			}
		}
	}

	smooth(accel, cfg.MagnitudeSigma)
	smooth(decel, cfg.MagnitudeSigma)

	out := newGrid(res, res, env.WindowWidth, env.WindowHeight)
	out.Values.Sub(accel, decel)
	out.clip(-cfg.MagnitudeClip, cfg.MagnitudeClip)
	return out
}

// nearestLinspace returns the index of the closest of n evenly spaced points over [0, span].
// Ties go to the lower index.
func nearestLinspace(v, span float64, n int) int {
	if n < 2 {
		return 0
	}
	f := v / (span / float64(n-1))
	i := math.Floor(f)
	if f-i > 0.5 {
		i++
	}
	return int(min(max(i, 0), float64(n-1)))
}

func truncate(traj []models.Point, acc []float64) ([]models.Point, []float64) {
	n := min(len(traj), len(acc))
	return traj[:n], acc[:n]
}
