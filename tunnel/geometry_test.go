package tunnel

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"steerplot/models"
)

func straight(n int, width float64) Path {
	pts := make([]models.Point, n)
	for i := range pts {
		pts[i] = models.Point{X: float64(i), Y: 0}
	}
	return Path{Points: pts, Width: width}
}

func TestDistance(t *testing.T) {
	p := straight(3, 1)
	assert.InDelta(t, 0.5, p.Distance(models.Point{X: 1.5, Y: 0.5}), 1e-12)
	assert.InDelta(t, 0.3, p.Distance(models.Point{X: 0.7, Y: -0.3}), 1e-12)
	// beyond the end: clamped to the last vertex
	assert.InDelta(t, math.Hypot(1, 1), p.Distance(models.Point{X: 3, Y: 1}), 1e-12)

	t.Run("degenerate segments are skipped", func(t *testing.T) {
		d := Path{Points: []models.Point{{X: 0, Y: 0}, {X: 0, Y: 0}, {X: 1, Y: 0}}}
		assert.InDelta(t, 0.2, d.Distance(models.Point{X: 0.5, Y: 0.2}), 1e-12)
	})
	t.Run("no segments", func(t *testing.T) {
		d := Path{Points: []models.Point{{X: 0, Y: 0}}}
		assert.True(t, math.IsInf(d.Distance(models.Point{}), 1))
	})
}

func TestContains(t *testing.T) {
	p := straight(3, 1)
	assert.True(t, p.Contains(models.Point{X: 1, Y: 0.5}))
	assert.False(t, p.Contains(models.Point{X: 1, Y: 0.51}))
}

func TestNearest(t *testing.T) {
	p := straight(5, 1)
	idx, d := p.Nearest(models.Point{X: 2.2, Y: 1})
	assert.Equal(t, 2, idx)
	assert.InDelta(t, math.Hypot(0.2, 1), d, 1e-12)

	idx, _ = Path{}.Nearest(models.Point{})
	assert.Equal(t, -1, idx)
}

func TestCheckExcursion(t *testing.T) {
	p := straight(5, 1)

	assert.False(t, p.CheckExcursion(models.Point{X: 2, Y: 0.4}).Outside)

	ex := p.CheckExcursion(models.Point{X: 2, Y: 1})
	require.True(t, ex.Outside)
	assert.InDelta(t, 0.5, ex.DistanceOutside, 1e-12)
	assert.InDelta(t, 2, ex.Boundary.X, 1e-12)
	assert.InDelta(t, 0.5, ex.Boundary.Y, 1e-12)

	t.Run("sequential uses segment width", func(t *testing.T) {
		s := straight(4, 0)
		s.Widths = []float64{2, 2, 0.2, 0.2}
		assert.False(t, s.CheckExcursion(models.Point{X: 0, Y: 0.9}).Outside)
		assert.True(t, s.CheckExcursion(models.Point{X: 3, Y: 0.2}).Outside)
	})
}

func TestViolationRate(t *testing.T) {
	p := straight(5, 1)
	pts := []models.Point{{X: 0, Y: 0}, {X: 1, Y: 0.1}, {X: 2, Y: 2}, {X: 3, Y: -3}}
	assert.InDelta(t, 0.5, p.ViolationRate(pts), 1e-12)
	assert.Zero(t, p.ViolationRate(nil))
}

func TestSegments(t *testing.T) {
	p := straight(10, 1)
	segs := p.Segments(4)
	require.Len(t, segs, 4)

	// size 2.5: [0,2] [2,5] [5,7] [7,9]
	assert.Equal(t, Segment{Start: 0, End: 2, Center: models.Point{X: 1}}, segs[0])
	assert.Equal(t, 2, segs[1].Start)
	assert.Equal(t, 5, segs[1].End)
	assert.InDelta(t, 3.5, segs[1].Center.X, 1e-12)
	assert.Equal(t, 9, segs[3].End)

	assert.Nil(t, p.Segments(0))
}
