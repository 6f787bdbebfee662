package tunnel

import (
	"math"

	"steerplot/models"
)

// Distance returns the distance from pt to the closest centerline segment. Degenerate
// segments are skipped; a path without segments yields +Inf.
func (p Path) Distance(pt models.Point) float64 {
	minDist := math.Inf(1)
	for i := 0; i+1 < len(p.Points); i++ {
		a := p.Points[i]
		seg := p.Points[i+1].Sub(a)
		segLen2 := seg.Dot(seg)
		if segLen2 == 0 {
			continue
		}
		t := clamp(pt.Sub(a).Dot(seg)/segLen2, 0, 1)
		dx := pt.X - (a.X + t*seg.X)
		dy := pt.Y - (a.Y + t*seg.Y)
		if d := math.Hypot(dx, dy); d < minDist {
			minDist = d
		}
	}
	return minDist
}

// Contains reports whether pt lies within half the mean tunnel width of the centerline.
func (p Path) Contains(pt models.Point) bool {
	return p.Distance(pt) <= p.Width/2
}

// Nearest returns the index of the closest centerline vertex and its distance.
func (p Path) Nearest(pt models.Point) (int, float64) {
	best := -1
	bestDist := math.Inf(1)
	for i, c := range p.Points {
		if d := math.Hypot(pt.X-c.X, pt.Y-c.Y); d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best, bestDist
}

// Excursion describes a point found outside the tunnel.
type Excursion struct {
	Outside         bool
	Boundary        models.Point // point on the boundary towards pt
	DistanceOutside float64
}

// CheckExcursion tests pt against the width at its nearest centerline vertex. Sequential
// tunnels use the width of the segment that vertex belongs to.
func (p Path) CheckExcursion(pt models.Point) Excursion {
	idx, dist := p.Nearest(pt)
	if idx < 0 {
		return Excursion{}
	}
	hw := p.Width / 2
	if len(p.Widths) > 0 {
		segLen := float64(len(p.Points)) / 2
		if int(math.Floor(float64(idx)/segLen)) == 0 {
			hw = p.Widths[0] / 2
		} else {
			hw = p.Widths[len(p.Widths)-1] / 2
		}
	}
	if dist <= hw {
		return Excursion{}
	}
	c := p.Points[idx]
	return Excursion{
		Outside: true,
		Boundary: models.Point{
			X: c.X + (pt.X-c.X)/dist*hw,
			Y: c.Y + (pt.Y-c.Y)/dist*hw,
		},
		DistanceOutside: dist - hw,
	}
}

// ViolationRate is the fraction of trajectory points outside the tunnel.
func (p Path) ViolationRate(points []models.Point) float64 {
	if len(points) == 0 || len(p.Points) == 0 {
		return 0
	}
	var outside int
	for _, pt := range points {
		if p.CheckExcursion(pt).Outside {
			outside++
		}
	}
	return float64(outside) / float64(len(points))
}

// Segment is an index range of the centerline used to bin trajectory points.
type Segment struct {
	Start, End int // inclusive
	Center     models.Point
}

// Segments splits the centerline into n index ranges of equal length.
func (p Path) Segments(n int) []Segment {
	if n < 1 || len(p.Points) == 0 {
		return nil
	}
	size := float64(len(p.Points)) / float64(n)
	out := make([]Segment, n)
	for i := range out {
		start := int(float64(i) * size)
		end := int(float64(i+1) * size)
		if end >= len(p.Points) {
			end = len(p.Points) - 1
		}
		if start > end {
			start = end
		}
		var cx, cy float64
		for _, pt := range p.Points[start : end+1] {
			cx += pt.X
			cy += pt.Y
		}
		cnt := float64(end - start + 1)
		out[i] = Segment{Start: start, End: end, Center: models.Point{X: cx / cnt, Y: cy / cnt}}
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
