package tunnel

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"steerplot/config"
	"steerplot/models"
)

// Path is a tunnel centerline with its width. Widths is set only for sequential tunnels,
// where each point carries the width of the segment it belongs to; Width is then the mean.
type Path struct {
	Kind   string
	Points []models.Point
	Width  float64
	Widths []float64
}

// Build generates the tunnel a trial was run in from its condition.
func Build(cond models.Condition, cfg config.TunnelConfig) Path {
	switch cond.Kind() {
	case models.TunnelSequential:
		pts, widths := Sequential(cond, cfg)
		return Path{Kind: models.TunnelSequential, Points: pts, Widths: widths, Width: mean(widths)}
	case models.TunnelCorner:
		corners := cond.NumCorners
		if corners <= 0 {
			corners = cfg.CornerCount
		}
		offset := cond.CornerOffset
		if offset <= 0 {
			offset = cfg.CornerOffset
		}
		return Path{Kind: models.TunnelCorner, Points: Corner(corners, offset, cfg), Width: widthOrDefault(cond, cfg)}
	default:
		curvature := cfg.DefaultCurvature
		if cond.Curvature != nil {
			curvature = *cond.Curvature
		}
		return Path{Kind: models.TunnelCurved, Points: Curved(curvature, cfg), Width: widthOrDefault(cond, cfg)}
	}
}

func widthOrDefault(cond models.Condition, cfg config.TunnelConfig) float64 {
	if cond.TunnelWidth != nil {
		return *cond.TunnelWidth
	}
	return cfg.DefaultWidth
}

// Curved generates a sine-wave centerline; curvature is the wave amplitude.
func Curved(curvature float64, cfg config.TunnelConfig) []models.Point {
	var path []models.Point
	for x := cfg.StartX; x < cfg.EndX; x += cfg.Step {
		y := cfg.YBase + curvature*math.Sin(2*math.Pi*x/cfg.Wavelength)
		path = append(path, models.Point{X: x, Y: y})
	}
	return path
}

// Sequential generates a two-segment centerline and the per-point segment widths. For
// segmentType "curvature" the second segment is a single quadratic bump; otherwise the
// centerline stays flat and only the width changes.
func Sequential(cond models.Condition, cfg config.TunnelConfig) ([]models.Point, []float64) {
	segLen := (cfg.EndX - cfg.StartX) / 2
	mid := cfg.StartX + segLen

	var (
		path   []models.Point
		widths []float64
	)
	for x := cfg.StartX; x < cfg.EndX; x += cfg.Step {
		y := cfg.YBase
		if cond.SegmentType == "curvature" && x >= mid {
			u := (x - mid) / segLen
			d := 2*u - 1
			y = cfg.YBase + cond.Segment2Curvature*(1-d*d)
		}
		path = append(path, models.Point{X: x, Y: y})
		if x < mid {
			widths = append(widths, cond.Segment1Width)
		} else {
			widths = append(widths, cond.Segment2Width)
		}
	}
	return path, widths
}

// Corner generates a centerline of alternating horizontal runs and vertical rises forming
// numCorners right angles. All horizontal runs have equal length and the path ends at EndX.
func Corner(numCorners int, cornerOffset float64, cfg config.TunnelConfig) []models.Point {
	step := cfg.Step
	runLen := (cfg.EndX - cfg.StartX) / float64(numCorners+1)

	var path []models.Point
	snapLast := func(p models.Point) {
		if len(path) > 0 && math.Abs(path[len(path)-1].X-p.X) <= 1e-6 {
			path[len(path)-1] = p
			return
		}
		path = append(path, p)
	}

	curX, curY := cfg.StartX, cfg.YBase
	for c := 0; c < numCorners; c++ {
		xEnd := curX + runLen
		for x := curX; x < xEnd+step*0.5; x += step {
			if x <= xEnd {
				path = append(path, models.Point{X: x, Y: curY})
			}
		}
		snapLast(models.Point{X: xEnd, Y: curY})
		curX = xEnd

		dir := 1.0
		if c%2 == 1 {
			dir = -1.0
		}
		yEnd := curY + dir*cornerOffset
		if dir > 0 {
			for y := curY + step; y < yEnd+step*0.5; y += step {
				path = append(path, models.Point{X: curX, Y: y})
			}
		} else {
			for y := curY - step; y > yEnd-step*0.5; y -= step {
				path = append(path, models.Point{X: curX, Y: y})
			}
		}
		if len(path) == 0 || math.Abs(path[len(path)-1].Y-yEnd) > step*0.5 {
			path = append(path, models.Point{X: curX, Y: yEnd})
		}
		curY = yEnd
	}

	finalEnd := math.Min(curX+runLen, cfg.EndX)
	for x := curX + step; x < finalEnd+step*0.5; x += step {
		if x <= finalEnd {
			path = append(path, models.Point{X: x, Y: curY})
		}
	}
	snapLast(models.Point{X: cfg.EndX, Y: curY})
	return path
}

// Target returns the target position: the last centerline point.
func (p Path) Target() models.Point {
	if len(p.Points) == 0 {
		return models.Point{}
	}
	return p.Points[len(p.Points)-1]
}

// HalfWidthAt returns half the tunnel width at centerline index i.
func (p Path) HalfWidthAt(i int) float64 {
	if len(p.Widths) == 0 {
		return p.Width / 2
	}
	if i < 0 {
		i = 0
	}
	if i >= len(p.Widths) {
		i = len(p.Widths) - 1
	}
	return p.Widths[i] / 2
}

// Boundaries returns the upper and lower boundary y values for every centerline point.
func (p Path) Boundaries() (upper, lower []float64) {
	upper = make([]float64, len(p.Points))
	lower = make([]float64, len(p.Points))
	for i, pt := range p.Points {
		hw := p.HalfWidthAt(i)
		upper[i] = pt.Y + hw
		lower[i] = pt.Y - hw
	}
	return upper, lower
}

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	return stat.Mean(vals, nil)
}
