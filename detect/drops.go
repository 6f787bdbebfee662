package detect

import (
	"go.uber.org/zap"

	"steerplot/config"
	"steerplot/logging"
)

// Thresholds decide which peak-to-valley pairs count as speed drops.
type Thresholds struct {
	MinRatio    float64 // (peak-valley)/peak required
	MinDuration int     // samples between peak and valley; also the peak spacing
	Prominence  float64 // minimum prominence of peaks and valleys
}

// ThresholdsFrom reads the detection thresholds from the config.
func ThresholdsFrom(cfg config.DropConfig) Thresholds {
	return Thresholds{MinRatio: cfg.MinRatio, MinDuration: cfg.MinDuration, Prominence: cfg.Prominence}
}

func defaultThresholds() Thresholds {
	return ThresholdsFrom(config.DefaultConfig().Drops)
}

// Drop pairs a speed peak with the first valley after it.
type Drop struct {
	Peak     int
	Valley   int
	Duration int
	Ratio    float64
}

// Drops is the result of DetectSpeedDrops.
type Drops struct {
	Accepted []Drop
	Peaks    []int // every candidate peak, accepted or not
}

// Valleys returns the valley index of each accepted drop.
func (d Drops) Valleys() []int {
	out := make([]int, len(d.Accepted))
	for i, dr := range d.Accepted {
		out[i] = dr.Valley
	}
	return out
}

// PeakIndices returns the peak index of each accepted drop.
func (d Drops) PeakIndices() []int {
	out := make([]int, len(d.Accepted))
	for i, dr := range d.Accepted {
		out[i] = dr.Peak
	}
	return out
}

// DetectSpeedDrops finds significant speed drops: for every peak, the first valley after it
// is paired with it, and the pair is kept when it lasts long enough and falls far enough.
// Decisions are traced at debug level on log.
func DetectSpeedDrops(speeds []float64, th Thresholds, log *zap.Logger) Drops {
	log = logging.OrNop(log)
	var res Drops
	if len(speeds) < 3 {
		return res
	}
	log.Debug("analyzing speed profile",
		zap.Int("points", len(speeds)),
		zap.Float64("min_ratio", th.MinRatio),
		zap.Int("min_duration", th.MinDuration))

	res.Peaks = FindPeaks(speeds, PeakOptions{Distance: th.MinDuration, Prominence: th.Prominence})
	log.Debug("candidate peaks", zap.Ints("indices", res.Peaks))

	for _, p := range res.Peaks {
		if p >= len(speeds)-1 {
			log.Debug("skipping peak at end", zap.Int("peak", p))
			continue
		}
		tail := speeds[p+1:]
		neg := make([]float64, len(tail))
		for i, v := range tail {
			neg[i] = -v
		}
		valleys := FindPeaks(neg, PeakOptions{Prominence: th.Prominence})
		if len(valleys) == 0 {
			log.Debug("no valley after peak", zap.Int("peak", p))
			continue
		}

		valley := p + 1 + valleys[0]
		d := Drop{Peak: p, Valley: valley, Duration: valley - p}
		if speeds[p] > 0 {
			d.Ratio = (speeds[p] - speeds[valley]) / speeds[p]
		}

		if d.Duration >= th.MinDuration && d.Ratio >= th.MinRatio {
			res.Accepted = append(res.Accepted, d)
			log.Debug("drop accepted",
				zap.Int("peak", p), zap.Int("valley", valley),
				zap.Int("duration", d.Duration), zap.Float64("ratio", d.Ratio))
		} else {
			log.Debug("drop rejected",
				zap.Int("peak", p), zap.Int("valley", valley),
				zap.Int("duration", d.Duration), zap.Float64("ratio", d.Ratio))
		}
	}
	return res
}

// NonZero keeps the strictly positive speeds together with their original indices.
func NonZero(speeds []float64) (values []float64, indices []int) {
	for i, v := range speeds {
		if v > 0 {
			values = append(values, v)
			indices = append(indices, i)
		}
	}
	return values, indices
}

// MapIndices translates positions in a NonZero series back to original indices.
func MapIndices(positions, indices []int) []int {
	out := make([]int, 0, len(positions))
	for _, p := range positions {
		if p >= 0 && p < len(indices) {
			out = append(out, indices[p])
		}
	}
	return out
}
