package detect

import "sort"

// PeakOptions filters local maxima. Zero values disable the corresponding filter.
type PeakOptions struct {
	Distance   int     // minimum index spacing between kept peaks, tallest wins
	Prominence float64 // minimum height above the higher of the two surrounding bases
}

// FindPeaks returns the indices of local maxima of x, in increasing order. A flat top counts
// once, at its (left-biased) middle; the first and last samples are never peaks.
func FindPeaks(x []float64, opts PeakOptions) []int {
	peaks := localMaxima(x)
	if opts.Distance > 1 && len(peaks) > 1 {
		peaks = selectByDistance(x, peaks, opts.Distance)
	}
	if opts.Prominence > 0 {
		kept := peaks[:0]
		for _, p := range peaks {
			if Prominence(x, p) >= opts.Prominence {
				kept = append(kept, p)
			}
		}
		peaks = kept
	}
	return peaks
}

func localMaxima(x []float64) []int {
	var peaks []int
	last := len(x) - 1
	for i := 1; i < last; i++ {
		if x[i-1] >= x[i] {
			continue
		}
		ahead := i + 1
		for ahead < last && x[ahead] == x[i] {
			ahead++
		}
		if x[ahead] < x[i] {
			peaks = append(peaks, (i+ahead-1)/2)
			i = ahead
		}
	}
	return peaks
}

// selectByDistance drops peaks closer than distance to a taller peak. Ties keep the later
// peak in order of evaluation.
func selectByDistance(x []float64, peaks []int, distance int) []int {
	order := make([]int, len(peaks))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return x[peaks[order[a]]] < x[peaks[order[b]]] })

	keep := make([]bool, len(peaks))
	for i := range keep {
		keep[i] = true
	}
	for i := len(order) - 1; i >= 0; i-- {
		j := order[i]
		if !keep[j] {
			continue
		}
		for k := j - 1; k >= 0 && peaks[j]-peaks[k] < distance; k-- {
			keep[k] = false
		}
		for k := j + 1; k < len(peaks) && peaks[k]-peaks[j] < distance; k++ {
			keep[k] = false
		}
	}

	out := make([]int, 0, len(peaks))
	for i, p := range peaks {
		if keep[i] {
			out = append(out, p)
		}
	}
	return out
}

// Prominence measures how far peak rises above the higher of its two bases. Each base is
// the lowest value reached before the signal climbs above the peak or the series ends.
func Prominence(x []float64, peak int) float64 {
	h := x[peak]
	leftMin := h
	for i := peak; i >= 0 && x[i] <= h; i-- {
		if x[i] < leftMin {
			leftMin = x[i]
		}
	}
	rightMin := h
	for i := peak; i < len(x) && x[i] <= h; i++ {
		if x[i] < rightMin {
			rightMin = x[i]
		}
	}
	return h - max(leftMin, rightMin)
}
