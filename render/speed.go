package render

import (
	"fmt"

	"golang.org/x/image/colornames"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// SpeedPlot is the content of one speed profile figure. Values and Indices come from
// detect.NonZero; Filtered, when set, is the smoothed version of Values.
type SpeedPlot struct {
	Title    string
	Values   []float64
	Indices  []int
	Filtered []float64
	Drops    []int // original sample indices
	Peaks    []int
}

// Speed draws the speed profile against the original sample index. When a filter was
// applied the raw series is drawn faintly beneath the filtered one.
func (r *Renderer) Speed(path string, s SpeedPlot) error {
	p := plot.New()
	p.Title.Text = s.Title
	p.X.Label.Text = "Time Step"
	p.Y.Label.Text = "Speed (m/s)"
	p.Add(plotter.NewGrid())

	shown := s.Values
	if s.Filtered != nil {
		shown = s.Filtered
	}
	if len(shown) != len(s.Indices) {
		return fmt.Errorf("speed series has %d values for %d indices", len(shown), len(s.Indices))
	}

	if len(shown) > 0 {
		if s.Filtered != nil {
			raw, err := plotter.NewLine(indexed(s.Indices, s.Values))
			if err != nil {
				return fmt.Errorf("raw speed: %w", err)
			}
			raw.Color = fade(colornames.Lightgray, 0.7)
			raw.Width = vg.Points(0.5)
			p.Add(raw)
			p.Legend.Add("Raw Speed", raw)
		}

		pts := indexed(s.Indices, shown)
		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("speed: %w", err)
		}
		line.Color = colornames.Black
		line.Width = vg.Points(1)
		name := "Speed"
		if s.Filtered != nil {
			line.Width = vg.Points(2)
			name = "Filtered Speed"
		}
		p.Add(line)
		p.Legend.Add(name, line)

		steps, err := plotter.NewScatter(pts)
		if err != nil {
			return err
		}
		steps.GlyphStyle = draw.GlyphStyle{Color: colornames.Black, Radius: vg.Points(1.5), Shape: draw.CircleGlyph{}}
		p.Add(steps)
		p.Legend.Add("Time Steps", steps)

		pos := make(map[int]int, len(s.Indices))
		for i, idx := range s.Indices {
			pos[idx] = i
		}
		if err := addMarkerXYs(p, pick(s.Drops, pos, pts), labelsFor("Drop", s.Drops, pos), "Speed Drops", colornames.Blue, vg.Points(5)); err != nil {
			return err
		}
		if err := addMarkerXYs(p, pick(s.Peaks, pos, pts), labelsFor("Peak", s.Peaks, pos), "Speed Peaks", colornames.Red, vg.Points(-15)); err != nil {
			return err
		}
	}

	return r.save(path, plotWidth, plotHeight, func(dc draw.Canvas) { p.Draw(dc) })
}

func indexed(indices []int, values []float64) plotter.XYs {
	out := make(plotter.XYs, len(values))
	for i, v := range values {
		out[i] = plotter.XY{X: float64(indices[i]), Y: v}
	}
	return out
}

// pick returns the plotted points at the given original indices, skipping indices that
// were not plotted.
func pick(indices []int, pos map[int]int, pts plotter.XYs) plotter.XYs {
	var out plotter.XYs
	for _, idx := range indices {
		if i, ok := pos[idx]; ok {
			out = append(out, pts[i])
		}
	}
	return out
}

func labelsFor(prefix string, indices []int, pos map[int]int) []string {
	var out []string
	for _, idx := range indices {
		if _, ok := pos[idx]; ok {
			out = append(out, fmt.Sprintf("%s %d", prefix, len(out)+1))
		}
	}
	return out
}
