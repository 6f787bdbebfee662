package render

import (
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/palette"

	"steerplot/config"
	"steerplot/heatmap"
	"steerplot/models"
	"steerplot/tunnel"
)

func testRenderer() *Renderer {
	cfg := config.DefaultConfig()
	cfg.Render.DPI = 20
	return New(cfg)
}

// pngSize decodes the header of a written PNG.
func pngSize(t *testing.T, path string) (int, int) {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	c, err := png.DecodeConfig(f)
	require.NoError(t, err)
	return c.Width, c.Height
}

func sampleTunnel() tunnel.Path {
	cond := models.Condition{TunnelType: "sequential", Segment1Width: 0.02, Segment2Width: 0.04}
	return tunnel.Build(cond, config.DefaultConfig().Tunnel)
}

func sampleTrajectory(tn tunnel.Path) []models.Point {
	var pts []models.Point
	for i := 0; i < len(tn.Points); i += 10 {
		pts = append(pts, models.Point{X: tn.Points[i].X, Y: tn.Points[i].Y + 0.002})
	}
	return pts
}

func TestTrajectory(t *testing.T) {
	r := testRenderer()
	tn := sampleTunnel()
	pts := sampleTrajectory(tn)
	out := filepath.Join(t.TempDir(), "nested", "trajectory.png")

	err := r.Trajectory(out, TrajectoryPlot{
		Title:      "Trial 1: test",
		Points:     pts,
		Tunnel:     &tn,
		Excursions: []models.Point{pts[3]},
		Drops:      []int{5, 999},
		Peaks:      []int{2},
	})
	require.NoError(t, err)
	w, h := pngSize(t, out)
	assert.Equal(t, 160, w)
	assert.Equal(t, 90, h)

	assert.Error(t, r.Trajectory(out, TrajectoryPlot{}))
}

func TestSpeed(t *testing.T) {
	r := testRenderer()
	dir := t.TempDir()

	plain := SpeedPlot{Title: "Speed Profile - Trial 1", Values: []float64{0.1, 0.3, 0.2}, Indices: []int{1, 2, 4}}
	require.NoError(t, r.Speed(filepath.Join(dir, "plain.png"), plain))

	filtered := plain
	filtered.Filtered = []float64{0.15, 0.25, 0.2}
	filtered.Drops = []int{4, 3}
	filtered.Peaks = []int{2}
	require.NoError(t, r.Speed(filepath.Join(dir, "filtered.png"), filtered))

	require.NoError(t, r.Speed(filepath.Join(dir, "empty.png"), SpeedPlot{Title: "empty"}))

	bad := plain
	bad.Filtered = []float64{1}
	assert.Error(t, r.Speed(filepath.Join(dir, "bad.png"), bad))
}

func TestHeatmaps(t *testing.T) {
	r := testRenderer()
	dir := t.TempDir()
	tn := sampleTunnel()
	trajs := [][]models.Point{sampleTrajectory(tn), sampleTrajectory(tn)}
	accs := [][]float64{make([]float64, len(trajs[0])), make([]float64, len(trajs[1]))}
	accs[0][3], accs[1][4] = 5, -5

	g, n := heatmap.Overlap(trajs, r.Env, r.Heatmap)
	path := filepath.Join(dir, "overlap.png")
	require.NoError(t, r.Overlap(path, "Trial 1", g, n, tn, trajs[0]))
	w, h := pngSize(t, path)
	assert.Equal(t, 240, w)
	assert.Equal(t, 160, h)

	stats := heatmap.Frequency(trajs, accs, tn, r.Heatmap)
	require.NoError(t, r.Frequency(filepath.Join(dir, "frequency.png"), "Trial 1", stats, len(trajs), tn))

	mg := heatmap.Magnitude(trajs, accs, tn, r.Env, r.Heatmap)
	require.NoError(t, r.Magnitude(filepath.Join(dir, "magnitude.png"), "Trial 1", mg, len(trajs), tn))
}

func nrgba(t *testing.T, cm palette.ColorMap, v float64) color.NRGBA {
	t.Helper()
	c, err := cm.At(v)
	require.NoError(t, err)
	return color.NRGBAModel.Convert(c).(color.NRGBA)
}

func TestColorMaps(t *testing.T) {
	cm, err := Reds()
	require.NoError(t, err)
	cm.SetMin(0)
	cm.SetMax(0.5)

	light := nrgba(t, cm, 0)
	assert.InDelta(t, 0xff, int(light.R), 3)
	assert.InDelta(t, 0xf5, int(light.G), 3)
	assert.InDelta(t, 0xf0, int(light.B), 3)

	dark := nrgba(t, cm, 0.5)
	assert.InDelta(t, 0x67, int(dark.R), 3)
	assert.InDelta(t, 0x00, int(dark.G), 3)
	assert.InDelta(t, 0x0d, int(dark.B), 3)

	mid := nrgba(t, cm, 0.25)
	assert.Greater(t, mid.R, mid.G, "reds stay red in the middle")

	div := DecelAccel()
	div.SetMin(-1)
	div.SetMax(1)
	decel, accel := nrgba(t, div, -1), nrgba(t, div, 1)
	assert.Greater(t, decel.B, decel.R)
	assert.Greater(t, accel.R, accel.B)
	center := nrgba(t, div, 0)
	assert.Greater(t, int(center.G), 200, "neutral is near white")
}
