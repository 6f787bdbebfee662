package render

import (
	"fmt"
	"image/color"
	"math"

	"golang.org/x/image/colornames"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"steerplot/models"
	"steerplot/tunnel"
)

// TrajectoryPlot is the content of one trajectory figure.
type TrajectoryPlot struct {
	Title      string
	Points     []models.Point
	Tunnel     *tunnel.Path
	Excursions []models.Point
	Drops      []int // trajectory indices marked "Drop n"
	Peaks      []int // trajectory indices marked "Peak n"
}

// Trajectory draws the cursor path inside its tunnel with the target, excursion rings and
// optional speed drop/peak markers, and writes it to path.
func (r *Renderer) Trajectory(path string, t TrajectoryPlot) error {
	if len(t.Points) == 0 {
		return fmt.Errorf("trajectory is empty")
	}
	p := plot.New()
	p.Title.Text = t.Title
	p.Legend.Top = true

	if t.Tunnel != nil && len(t.Tunnel.Points) > 0 {
		if err := r.addTunnel(p, *t.Tunnel); err != nil {
			return err
		}
	}

	line, err := plotter.NewLine(xys(t.Points))
	if err != nil {
		return fmt.Errorf("trajectory line: %w", err)
	}
	line.Color = colornames.Black
	line.Width = vg.Points(0.5)
	p.Add(line)
	p.Legend.Add("Cursor Trajectory", line)

	target := t.Points[len(t.Points)-1]
	if t.Tunnel != nil && len(t.Tunnel.Points) > 0 {
		target = t.Tunnel.Target()
	}
	disc, err := plotter.NewPolygon(circle(target, r.Env.TargetRadius))
	if err != nil {
		return fmt.Errorf("target: %w", err)
	}
	disc.Color = fade(colornames.Red, 0.5)
	disc.LineStyle.Width = 0
	p.Add(disc)
	p.Legend.Add("Target", disc)

	for _, m := range []struct {
		name string
		pt   models.Point
		c    color.RGBA
	}{
		{"Start", t.Points[0], colornames.Green},
		{"End", t.Points[len(t.Points)-1], colornames.Blue},
		{"", target, colornames.Red},
	} {
		s, err := plotter.NewScatter(plotter.XYs{{X: m.pt.X, Y: m.pt.Y}})
		if err != nil {
			return err
		}
		s.GlyphStyle = draw.GlyphStyle{Color: m.c, Radius: vg.Points(3), Shape: draw.CircleGlyph{}}
		p.Add(s)
		if m.name != "" {
			p.Legend.Add(m.name, s)
		}
	}

	ringRadius := 0.008 * math.Max(r.Env.WindowWidth, r.Env.WindowHeight)
	for _, e := range t.Excursions {
		ring, err := plotter.NewLine(circle(e, ringRadius))
		if err != nil {
			return err
		}
		ring.Color = colornames.Orange
		ring.Width = vg.Points(1)
		p.Add(ring)
	}

	if err := addMarkers(p, t.Points, t.Drops, "Drop", "Speed Drop", colornames.Blue, vg.Points(7)); err != nil {
		return err
	}
	if err := addMarkers(p, t.Points, t.Peaks, "Peak", "Speed Peak", colornames.Red, vg.Points(-12)); err != nil {
		return err
	}

	r.setEnvironment(p, r.InvertY)
	return r.save(path, plotWidth, plotHeight, func(dc draw.Canvas) { p.Draw(dc) })
}

// addTunnel draws the dashed tunnel boundaries over a light fill. Sequential tunnels get
// short connectors where the width changes at the midpoint.
func (r *Renderer) addTunnel(p *plot.Plot, tn tunnel.Path) error {
	upper, lower := tn.Boundaries()
	up := make(plotter.XYs, len(tn.Points))
	lo := make(plotter.XYs, len(tn.Points))
	band := make(plotter.XYs, 0, 2*len(tn.Points))
	for i, pt := range tn.Points {
		up[i] = plotter.XY{X: pt.X, Y: upper[i]}
		lo[i] = plotter.XY{X: pt.X, Y: lower[i]}
		band = append(band, up[i])
	}
	for i := len(lo) - 1; i >= 0; i-- {
		band = append(band, lo[i])
	}

	fill, err := plotter.NewPolygon(band)
	if err != nil {
		return fmt.Errorf("tunnel fill: %w", err)
	}
	fill.Color = fade(colornames.Lightgray, 0.3)
	fill.LineStyle.Width = 0
	p.Add(fill)

	for i, b := range []plotter.XYs{up, lo} {
		l, err := plotter.NewLine(b)
		if err != nil {
			return fmt.Errorf("tunnel boundary: %w", err)
		}
		dashed(l, colornames.Gray, vg.Points(0.7))
		p.Add(l)
		if i == 0 {
			p.Legend.Add("Tunnel Boundary", l)
		}
	}

	if len(tn.Widths) == len(tn.Points) && len(tn.Points) > 1 {
		xs, ys := models.Split(tn.Points)
		mid := xs[0] + (xs[len(xs)-1]-xs[0])/2
		idx := 0
		for i, x := range xs {
			if math.Abs(x-mid) < math.Abs(xs[idx]-mid) {
				idx = i
			}
		}
		if idx > 0 {
			prev, cur := tn.Widths[idx-1]/2, tn.Widths[idx]/2
			if math.Abs(prev-cur) > 0.001 {
				yc := ys[idx]
				for _, seg := range []plotter.XYs{
					{{X: mid, Y: yc - prev}, {X: mid, Y: yc - cur}},
					{{X: mid, Y: yc + prev}, {X: mid, Y: yc + cur}},
				} {
					l, err := plotter.NewLine(seg)
					if err != nil {
						return err
					}
					l.Color = colornames.Gray
					l.Width = vg.Points(1)
					p.Add(l)
				}
			}
		}
	}
	return nil
}

// addMarkers draws an X at each index of pts with a numbered label. Indices outside pts
// are skipped.
func addMarkers(p *plot.Plot, pts []models.Point, indices []int, prefix, legend string, c color.RGBA, dy vg.Length) error {
	var at plotter.XYs
	var names []string
	for i, idx := range indices {
		if idx < 0 || idx >= len(pts) {
			continue
		}
		at = append(at, plotter.XY{X: pts[idx].X, Y: pts[idx].Y})
		names = append(names, fmt.Sprintf("%s %d", prefix, i+1))
	}
	return addMarkerXYs(p, at, names, legend, c, dy)
}

func addMarkerXYs(p *plot.Plot, at plotter.XYs, names []string, legend string, c color.RGBA, dy vg.Length) error {
	if len(at) == 0 {
		return nil
	}
	s, err := plotter.NewScatter(at)
	if err != nil {
		return err
	}
	s.GlyphStyle = draw.GlyphStyle{Color: fade(c, 0.6), Radius: vg.Points(5), Shape: draw.CrossGlyph{}}
	p.Add(s)
	p.Legend.Add(legend, s)

	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: at, Labels: names})
	if err != nil {
		return err
	}
	labels.Offset = vg.Point{X: vg.Points(7), Y: dy}
	for i := range labels.TextStyle {
		labels.TextStyle[i].Color = c
		labels.TextStyle[i].Font.Size = vg.Points(8)
	}
	p.Add(labels)
	return nil
}
