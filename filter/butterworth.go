package filter

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"
)

// ButterLowPass designs a digital Butterworth low-pass filter. cutoff is normalized to the
// Nyquist frequency (0 < cutoff < 1). Returns numerator b and denominator a.
func ButterLowPass(order int, cutoff float64) (b, a []float64, err error) {
	if order < 1 {
		return nil, nil, fmt.Errorf("butterworth order must be positive, got %d", order)
	}
	if cutoff <= 0 || cutoff >= 1 {
		return nil, nil, fmt.Errorf("butterworth cutoff must be within (0, 1), got %g", cutoff)
	}

	// Analog prototype poles on the left half of the unit circle, pre-warped and mapped
	// through the bilinear transform (fs = 2).
	const fs2 = 4.0
	warped := fs2 * math.Tan(math.Pi*cutoff/2)
	poles := make([]complex128, order)
	gain := complex(math.Pow(warped, float64(order)), 0)
	denom := complex(1, 0)
	for i := range poles {
		m := float64(-order + 1 + 2*i)
		p := -cmplx.Exp(complex(0, math.Pi*m/float64(2*order))) * complex(warped, 0)
		denom *= complex(fs2, 0) - p
		poles[i] = (complex(fs2, 0) + p) / (complex(fs2, 0) - p)
	}
	k := real(gain / denom)

	zeros := make([]complex128, order)
	for i := range zeros {
		zeros[i] = -1
	}
	bc := poly(zeros)
	ac := poly(poles)
	b = make([]float64, len(bc))
	a = make([]float64, len(ac))
	for i := range bc {
		b[i] = k * real(bc[i])
		a[i] = real(ac[i])
	}
	return b, a, nil
}

// poly expands the monic polynomial with the given roots, highest power first.
func poly(roots []complex128) []complex128 {
	c := []complex128{1}
	for _, r := range roots {
		next := make([]complex128, len(c)+1)
		for i, v := range c {
			next[i] += v
			next[i+1] -= v * r
		}
		c = next
	}
	return c
}

// initialState returns the steady-state of the transposed direct form II filter for a
// unit step input.
func initialState(b, a []float64) ([]float64, error) {
	n := len(a)
	if n < 2 {
		return nil, nil
	}
	m := mat.NewDense(n-1, n-1, nil)
	for i := 0; i < n-1; i++ {
		m.Set(i, i, 1)
		m.Set(i, 0, m.At(i, 0)+a[i+1])
		if i+1 < n-1 {
			m.Set(i, i+1, -1)
		}
	}
	rhs := mat.NewVecDense(n-1, nil)
	for i := 0; i < n-1; i++ {
		rhs.SetVec(i, b[i+1]-a[i+1]*b[0])
	}
	var zi mat.VecDense
	if err := zi.SolveVec(m, rhs); err != nil {
		return nil, fmt.Errorf("butterworth initial state: %w", err)
	}
	out := make([]float64, n-1)
	for i := range out {
		out[i] = zi.AtVec(i)
	}
	return out, nil
}

// lfilter runs the filter over x starting from state zi (which is not modified).
func lfilter(b, a, x, zi []float64) []float64 {
	z := append([]float64(nil), zi...)
	n := len(a)
	y := make([]float64, len(x))
	for i, xv := range x {
		yv := b[0]*xv + z[0]
		for j := 0; j < n-2; j++ {
			z[j] = b[j+1]*xv + z[j+1] - a[j+1]*yv
		}
		z[n-2] = b[n-1]*xv - a[n-1]*yv
		y[i] = yv
	}
	return y
}

// FiltFilt applies b/a forward and backward for zero phase distortion. The signal is
// extended at both ends by odd reflection of 3*len(a) samples.
func FiltFilt(b, a, x []float64) ([]float64, error) {
	padlen := 3 * max(len(a), len(b))
	if len(x) <= padlen {
		return nil, fmt.Errorf("filtfilt needs more than %d samples, got %d", padlen, len(x))
	}
	zi, err := initialState(b, a)
	if err != nil {
		return nil, err
	}

	n := len(x)
	ext := make([]float64, 0, n+2*padlen)
	for i := padlen; i >= 1; i-- {
		ext = append(ext, 2*x[0]-x[i])
	}
	ext = append(ext, x...)
	for i := n - 2; i >= n-1-padlen; i-- {
		ext = append(ext, 2*x[n-1]-x[i])
	}

	y := lfilter(b, a, ext, scaled(zi, ext[0]))
	reverse(y)
	y = lfilter(b, a, y, scaled(zi, y[0]))
	reverse(y)
	return y[padlen : len(y)-padlen], nil
}

// LowPass smooths values with a zero-phase Butterworth low-pass filter.
func LowPass(values []float64, cutoff float64, order int) ([]float64, error) {
	b, a, err := ButterLowPass(order, cutoff)
	if err != nil {
		return nil, err
	}
	return FiltFilt(b, a, values)
}

func scaled(v []float64, s float64) []float64 {
	out := make([]float64, len(v))
	for i := range v {
		out[i] = v[i] * s
	}
	return out
}

func reverse(v []float64) {
	for i, j := 0, len(v)-1; i < j; i, j = i+1, j-1 {
		v[i], v[j] = v[j], v[i]
	}
}
