package filter

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/pconstantinou/savitzkygolay"
	"gonum.org/v1/gonum/mat"
)

// SavitzkyGolay fits a local polynomial of the given order over an odd window and returns
// the smoothed series. The first and last window/2 samples are taken from a single
// polynomial fitted to the first and last full window.
func SavitzkyGolay(values []float64, window, order int) ([]float64, error) {
	if order >= window {
		return nil, fmt.Errorf("savgol polyorder %d must be less than window %d", order, window)
	}
	if window > len(values) {
		return nil, fmt.Errorf("savgol window %d longer than series of %d", window, len(values))
	}
	f, err := savitzkygolay.NewFilter(window, 0, order)
	if err != nil {
		return nil, fmt.Errorf("savgol filter: %w", err)
	}
	xs := make([]float64, len(values))
	for i := range xs {
		xs[i] = float64(i)
	}
	out, err := f.Process(values, xs)
	if err != nil {
		return nil, fmt.Errorf("savgol process: %w", err)
	}
	if len(out) != len(values) {
		return nil, fmt.Errorf("savgol returned %d values for %d", len(out), len(values))
	}

	half := window / 2
	n := len(values)
	head, err := polyFit(values[:window], order)
	if err != nil {
		return nil, err
	}
	tail, err := polyFit(values[n-window:], order)
	if err != nil {
		return nil, err
	}
	for i := 0; i < half; i++ {
		out[i] = polyEval(head, float64(i))
		out[n-half+i] = polyEval(tail, float64(window-half+i))
	}
	return out, nil
}

// polyFit returns the least-squares coefficients, lowest power first, of a polynomial
// through (i, ys[i]).
func polyFit(ys []float64, order int) ([]float64, error) {
	a := mat.NewDense(len(ys), order+1, nil)
	for i := range ys {
		p := 1.0
		for j := 0; j <= order; j++ {
			a.Set(i, j, p)
			p *= float64(i)
		}
	}
	var c mat.VecDense
	err := c.SolveVec(a, mat.NewVecDense(len(ys), append([]float64(nil), ys...)))
	var cond mat.Condition
	if err != nil && !errors.As(err, &cond) {
		return nil, fmt.Errorf("savgol edge fit: %w", err)
	}
	return c.RawVector().Data, nil
}

func polyEval(c []float64, x float64) float64 {
	var y float64
	for i := len(c) - 1; i >= 0; i-- {
		y = y*x + c[i]
	}
	return y
}

// GaussianKernel returns normalized Gaussian weights covering truncate*sigma either side.
func GaussianKernel(sigma, truncate float64) []float64 {
	radius := int(truncate*sigma + 0.5)
	w := make([]float64, 2*radius+1)
	var sum float64
	for i := range w {
		x := float64(i - radius)
		w[i] = math.Exp(-0.5 * x * x / (sigma * sigma))
		sum += w[i]
	}
	for i := range w {
		w[i] /= sum
	}
	return w
}

// Gaussian1D smooths values with a Gaussian kernel truncated at four sigma; edges are
// extended by reflection.
func Gaussian1D(values []float64, sigma float64) []float64 {
	if sigma <= 0 {
		return append([]float64(nil), values...)
	}
	return Correlate(values, GaussianKernel(sigma, 4.0))
}

// Correlate applies a centered odd-length kernel with reflected edges.
func Correlate(values, kernel []float64) []float64 {
	n := len(values)
	r := len(kernel) / 2
	out := make([]float64, n)
	for i := range out {
		var acc float64
		for k, w := range kernel {
			acc += w * values[Reflect(i+k-r, n)]
		}
		out[i] = acc
	}
	return out
}

// Reflect maps an out-of-range index back into [0, n) mirroring about the edges
// (d c b a | a b c d | d c b a).
func Reflect(i, n int) int {
	if n == 1 {
		return 0
	}
	period := 2 * n
	i %= period
	if i < 0 {
		i += period
	}
	if i >= n {
		i = period - 1 - i
	}
	return i
}

// MovingAverageSame convolves values with a box of the given width and returns a series of
// the same length, centered on the full convolution. Positions past the edges count as 0.
func MovingAverageSame(values []float64, window int) []float64 {
	n := len(values)
	if window <= 1 || n == 0 {
		return append([]float64(nil), values...)
	}
	out := make([]float64, n)
	shift := (window - 1) / 2
	for i := range out {
		m := i + shift
		var sum float64
		for j := m - window + 1; j <= m; j++ {
			if j >= 0 && j < n {
				sum += values[j]
			}
		}
		out[i] = sum / float64(window)
	}
	return out
}

// MedianFilter replaces each value with the median of its window (edges reflected). For
// even sizes the upper middle element is taken.
func MedianFilter(values []float64, size int) []float64 {
	n := len(values)
	if size <= 1 || n == 0 {
		return append([]float64(nil), values...)
	}
	out := make([]float64, n)
	win := make([]float64, size)
	for i := range out {
		start := i - size/2
		for k := range win {
			win[k] = values[Reflect(start+k, n)]
		}
		sort.Float64s(win)
		out[i] = win[size/2]
	}
	return out
}
