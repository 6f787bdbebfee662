package filter

import (
	"fmt"
	"strconv"
	"strings"
)

// Filter kinds accepted by Apply.
const (
	None          = "none"
	SavGol        = "savgol"
	Gaussian      = "gaussian"
	Butterworth   = "butterworth"
	MovingAverage = "moving_average"
	Median        = "median"
	Adaptive      = "adaptive"
)

// Kinds lists every accepted filter kind.
var Kinds = []string{None, SavGol, Gaussian, Butterworth, MovingAverage, Median, Adaptive}

// Params holds filter parameters by name (window_length, polyorder, sigma, cutoff, order,
// window_size, kernel_size). Values are int, float64 or string.
type Params map[string]any

// Valid reports whether kind names a known filter.
func Valid(kind string) bool {
	for _, k := range Kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// Apply smooths values with the named filter. Series shorter than 3 values and unknown
// kinds are returned unchanged.
func Apply(kind string, values []float64, params Params) ([]float64, error) {
	if len(values) < 3 {
		return values, nil
	}
	switch kind {
	case SavGol:
		window := params.Int("window_length", min(11, len(values)/3*2+1))
		if window%2 == 0 {
			window++
		}
		window = min(window, len(values))
		if window%2 == 0 {
			window--
		}
		if window < 3 {
			return values, nil
		}
		return SavitzkyGolay(values, window, params.Int("polyorder", min(3, window-1)))
	case Gaussian:
		return Gaussian1D(values, params.Float("sigma", 1.0)), nil
	case Butterworth:
		return LowPass(values, params.Float("cutoff", 0.1), params.Int("order", 3))
	case MovingAverage:
		return MovingAverageSame(values, params.Int("window_size", 5)), nil
	case Median:
		return MedianFilter(values, params.Int("kernel_size", 5)), nil
	case Adaptive:
		cleaned := MedianFilter(values, 3)
		window := min(11, len(cleaned)/3*2+1)
		if window%2 == 0 {
			window++
		}
		if window <= 3 {
			return cleaned, nil
		}
		return SavitzkyGolay(cleaned, window, 3)
	default:
		return values, nil
	}
}

// ParseParams parses "key=value,key=value". Values containing a '.' become float64, other
// numbers int, everything else stays a string. Pairs without '=' are ignored.
func ParseParams(s string) Params {
	params := Params{}
	if strings.TrimSpace(s) == "" {
		return params
	}
	for _, pair := range strings.Split(s, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok {
			continue
		}
		if strings.Contains(value, ".") {
			if f, err := strconv.ParseFloat(value, 64); err == nil {
				params[key] = f
				continue
			}
		} else if i, err := strconv.Atoi(value); err == nil {
			params[key] = i
			continue
		}
		params[key] = value
	}
	return params
}

// Int returns the named parameter as an int, or def when absent or not numeric.
func (p Params) Int(key string, def int) int {
	switch v := p[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return def
	}
}

// Float returns the named parameter as a float64, or def when absent or not numeric.
func (p Params) Float(key string, def float64) float64 {
	switch v := p[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return def
	}
}

// String formats the parameters for logging.
func (p Params) String() string {
	parts := make([]string, 0, len(p))
	for k, v := range p {
		parts = append(parts, fmt.Sprintf("%s=%v", k, v))
	}
	return strings.Join(parts, ",")
}
