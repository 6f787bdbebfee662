package render

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"golang.org/x/image/colornames"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"steerplot/config"
	"steerplot/models"
)

// Figure sizes.
var (
	plotWidth     = 8 * vg.Inch
	plotHeight    = 4.5 * vg.Inch
	heatmapWidth  = 12 * vg.Inch
	heatmapHeight = 8 * vg.Inch
	colorBarWidth = 1.4 * vg.Inch
)

// Renderer writes PNG figures for one run.
type Renderer struct {
	Env     config.EnvironmentConfig
	Heatmap config.HeatmapConfig
	DPI     int
	InvertY bool // draw y growing downwards, as on screen
}

// New builds a renderer from the run configuration.
func New(cfg *config.Config) *Renderer {
	return &Renderer{
		Env:     cfg.Environment,
		Heatmap: cfg.Heatmap,
		DPI:     cfg.Render.DPI,
		InvertY: cfg.Render.InvertY,
	}
}

// save draws onto a w x h image at the renderer DPI and writes it as PNG to path, creating
// parent directories.
func (r *Renderer) save(path string, w, h vg.Length, fn func(dc draw.Canvas)) error {
	img := vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(r.DPI))
	dc := draw.New(img)
	dc.SetColor(color.White)
	dc.Fill(dc.Rectangle.Path())
	fn(dc)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// withColorBar draws p on the left of dc and a vertical color bar plot on the right.
func withColorBar(dc draw.Canvas, p, bar *plot.Plot) {
	width := dc.Max.X - dc.Min.X
	p.Draw(draw.Crop(dc, 0, -colorBarWidth, 0, 0))
	bar.Draw(draw.Crop(dc, width-colorBarWidth, 0, 0, 0))
}

// colorBar builds the side plot showing cm with the given ticks.
func colorBar(cm palette.ColorMap, label string, ticks []plot.Tick) *plot.Plot {
	bar := plot.New()
	bar.Add(&plotter.ColorBar{ColorMap: cm, Vertical: true})
	bar.HideX()
	bar.Y.Padding = 0
	bar.Y.Label.Text = label
	if len(ticks) > 0 {
		bar.Y.Tick.Marker = plot.ConstantTicks(ticks)
	}
	return bar
}

// setEnvironment fixes the axes to the experiment canvas.
func (r *Renderer) setEnvironment(p *plot.Plot, invert bool) {
	p.X.Min, p.X.Max = 0, r.Env.WindowWidth
	p.Y.Min, p.Y.Max = 0, r.Env.WindowHeight
	p.X.Label.Text = "X position (m)"
	p.Y.Label.Text = "Y position (m)"
	if invert {
		p.Y.Scale = plot.InvertedScale{Normalizer: plot.LinearScale{}}
	}
}

func xys(points []models.Point) plotter.XYs {
	out := make(plotter.XYs, len(points))
	for i, p := range points {
		out[i].X, out[i].Y = p.X, p.Y
	}
	return out
}

// circle approximates a circle in data coordinates.
func circle(c models.Point, radius float64) plotter.XYs {
	const n = 48
	out := make(plotter.XYs, n+1)
	for i := 0; i <= n; i++ {
		a := 2 * math.Pi * float64(i) / n
		out[i].X = c.X + radius*math.Cos(a)
		out[i].Y = c.Y + radius*math.Sin(a)
	}
	return out
}

// fade returns c with the given opacity.
func fade(c color.RGBA, alpha float64) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(math.Round(255 * alpha))}
}

func dashed(l *plotter.Line, c color.Color, width vg.Length) {
	l.Color = c
	l.Width = width
	l.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
}

// infoLabel places text in the top-left corner of the environment.
func (r *Renderer) infoLabel(p *plot.Plot, text string, invert bool) error {
	y := 0.98 * r.Env.WindowHeight
	if invert {
		y = 0.02 * r.Env.WindowHeight
	}
	l, err := plotter.NewLabels(plotter.XYLabels{
		XYs:    []plotter.XY{{X: 0.02 * r.Env.WindowWidth, Y: y}},
		Labels: []string{text},
	})
	if err != nil {
		return err
	}
	l.TextStyle[0].Color = colornames.Black
	l.TextStyle[0].YAlign = draw.YTop
	p.Add(l)
	return nil
}
