package heatmap

import (
	"gonum.org/v1/gonum/mat"

	"steerplot/filter"
)

// Grid is a row-major (y, x) raster covering [0, Width] x [0, Height]. It satisfies
// plotter.GridXYZ with cell centers as coordinates.
type Grid struct {
	Values        *mat.Dense
	Width, Height float64
}

func newGrid(rows, cols int, width, height float64) Grid {
	return Grid{Values: mat.NewDense(rows, cols, nil), Width: width, Height: height}
}

// Dims returns the number of columns and rows.
func (g Grid) Dims() (c, r int) {
	r, c = g.Values.Dims()
	return c, r
}

func (g Grid) Z(c, r int) float64 { return g.Values.At(r, c) }

func (g Grid) X(c int) float64 {
	_, cols := g.Values.Dims()
	return (float64(c) + 0.5) * g.Width / float64(cols)
}

func (g Grid) Y(r int) float64 {
	rows, _ := g.Values.Dims()
	return (float64(r) + 0.5) * g.Height / float64(rows)
}

// Max returns the largest cell value.
func (g Grid) Max() float64 { return mat.Max(g.Values) }

// Min returns the smallest cell value.
func (g Grid) Min() float64 { return mat.Min(g.Values) }

// clip limits every cell to [lo, hi].
func (g Grid) clip(lo, hi float64) {
	g.Values.Apply(func(_, _ int, v float64) float64 {
		return min(max(v, lo), hi)
	}, g.Values)
}

// smooth applies a separable Gaussian (reflected edges) along both axes in place.
func smooth(m *mat.Dense, sigma float64) {
	if sigma <= 0 {
		return
	}
	rows, cols := m.Dims()
	for r := 0; r < rows; r++ {
		row := m.RawRowView(r)
		copy(row, filter.Gaussian1D(row, sigma))
	}
	col := make([]float64, rows)
	for c := 0; c < cols; c++ {
		mat.Col(col, c, m)
		m.SetCol(c, filter.Gaussian1D(col, sigma))
	}
}
