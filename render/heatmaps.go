package render

import (
	"fmt"

	"golang.org/x/image/colornames"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"steerplot/heatmap"
	"steerplot/models"
	"steerplot/tunnel"
)

const heatmapAlpha = 0.8

// Overlap draws the trajectory overlap density with the tunnel outline and, when given,
// the mean trajectory.
func (r *Renderer) Overlap(path, title string, g heatmap.Grid, participants int, tn tunnel.Path, mean []models.Point) error {
	cm, err := Reds()
	if err != nil {
		return err
	}
	cm.SetMin(0)
	cm.SetMax(r.Heatmap.OverlapClip)
	cm.SetAlpha(heatmapAlpha)

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s\n(%d participants)", title, participants)
	p.Legend.Top = true

	hm := plotter.NewHeatMap(g, cm.Palette(255))
	hm.Min, hm.Max = 0, r.Heatmap.OverlapClip
	p.Add(hm)

	if err := outline(p, tn); err != nil {
		return err
	}
	if len(mean) > 1 {
		l, err := plotter.NewLine(xys(mean))
		if err != nil {
			return fmt.Errorf("mean path: %w", err)
		}
		dashed(l, colornames.Darkblue, vg.Points(1.2))
		p.Add(l)
		p.Legend.Add("Mean Trajectory", l)
	}
	if err := r.infoLabel(p, fmt.Sprintf("Participants: %d", participants), false); err != nil {
		return err
	}
	r.setEnvironment(p, false)

	var ticks []plot.Tick
	for i := 0; i <= 5; i++ {
		v := r.Heatmap.OverlapClip * float64(i) / 5
		label := fmt.Sprintf("%.0f%%", v*100)
		if i == 5 {
			label += "+"
		}
		ticks = append(ticks, plot.Tick{Value: v, Label: label})
	}
	bar := colorBar(cm, "Trajectory Overlap Percentage", ticks)
	return r.save(path, heatmapWidth, heatmapHeight, func(dc draw.Canvas) { withColorBar(dc, p, bar) })
}

// Frequency shades each tunnel segment by whether accelerating or decelerating samples
// dominate it.
func (r *Renderer) Frequency(path, title string, stats []heatmap.SegmentStat, participants int, tn tunnel.Path) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s\n(%d participants, %d segments)", title, participants, len(stats))
	p.Legend.Top = true

	tn.Widths = nil
	upper, lower := tn.Boundaries()
	for _, s := range stats {
		band := make(plotter.XYs, 0, 2*(s.End-s.Start+1))
		for i := s.Start; i <= s.End; i++ {
			band = append(band, plotter.XY{X: tn.Points[i].X, Y: upper[i]})
		}
		for i := s.End; i >= s.Start; i-- {
			band = append(band, plotter.XY{X: tn.Points[i].X, Y: lower[i]})
		}
		poly, err := plotter.NewPolygon(band)
		if err != nil {
			return fmt.Errorf("segment %d-%d: %w", s.Start, s.End, err)
		}
		c := s.Color(r.Heatmap.FrequencyThreshold)
		c.A = uint8(255 * heatmapAlpha)
		poly.Color = c
		poly.LineStyle.Width = 0
		p.Add(poly)
	}

	if err := outline(p, tn); err != nil {
		return err
	}
	if err := r.infoLabel(p, fmt.Sprintf("Participants: %d, Segments: %d", participants, len(stats)), false); err != nil {
		return err
	}
	r.setEnvironment(p, false)

	cm := DecelAccel()
	cm.SetMin(-1)
	cm.SetMax(1)
	bar := colorBar(cm, "Acceleration/Deceleration Frequency", []plot.Tick{
		{Value: -1, Label: "100% Decel"},
		{Value: -0.5, Label: "50% Decel"},
		{Value: 0, Label: "Constant"},
		{Value: 0.5, Label: "50% Accel"},
		{Value: 1, Label: "100% Accel"},
	})
	return r.save(path, heatmapWidth, heatmapHeight, func(dc draw.Canvas) { withColorBar(dc, p, bar) })
}

// Magnitude draws the net acceleration magnitude grid on a diverging blue-red scale.
func (r *Renderer) Magnitude(path, title string, g heatmap.Grid, participants int, tn tunnel.Path) error {
	lim := r.Heatmap.MagnitudeClip
	cm := moreland.SmoothBlueRed()
	cm.SetMin(-lim)
	cm.SetMax(lim)
	cm.SetAlpha(heatmapAlpha)

	p := plot.New()
	p.Title.Text = title
	p.Legend.Top = true

	hm := plotter.NewHeatMap(g, cm.Palette(255))
	hm.Min, hm.Max = -lim, lim
	p.Add(hm)

	if err := outline(p, tn); err != nil {
		return err
	}
	if err := r.infoLabel(p, fmt.Sprintf("Participants: %d", participants), false); err != nil {
		return err
	}
	r.setEnvironment(p, false)

	bar := colorBar(cm, "Acceleration/Deceleration Magnitude (m/s²)", []plot.Tick{
		{Value: -lim, Label: fmt.Sprintf("-%g m/s²", lim)},
		{Value: 0, Label: "0 m/s²"},
		{Value: lim, Label: fmt.Sprintf("+%g m/s²", lim)},
	})
	return r.save(path, heatmapWidth, heatmapHeight, func(dc draw.Canvas) { withColorBar(dc, p, bar) })
}

// outline draws solid tunnel boundaries at the mean tunnel width.
func outline(p *plot.Plot, tn tunnel.Path) error {
	if len(tn.Points) == 0 {
		return nil
	}
	tn.Widths = nil
	upper, lower := tn.Boundaries()
	for i, ys := range [][]float64{upper, lower} {
		b := make(plotter.XYs, len(tn.Points))
		for j, pt := range tn.Points {
			b[j] = plotter.XY{X: pt.X, Y: ys[j]}
		}
		l, err := plotter.NewLine(b)
		if err != nil {
			return fmt.Errorf("tunnel boundary: %w", err)
		}
		l.Color = colornames.Black
		l.Width = vg.Points(2)
		p.Add(l)
		if i == 0 {
			p.Legend.Add("Tunnel Boundary", l)
		}
	}
	return nil
}
