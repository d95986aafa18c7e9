package axis

import (
	"math"
	"strconv"
)

// PointsPerInch is the typographic point size used for all text and marker sizes.
const PointsPerInch = 72.0

// ComputeFigurePixels converts a figure size in inches to pixels at dpi.
// Width and height are clamped to at least 200px so tiny figures still render axes.
func ComputeFigurePixels(wInch, hInch, dpi float64) (int, int) {
	if dpi <= 0 {
		dpi = 100
	}
	w := int(math.Round(wInch * dpi))
	h := int(math.Round(hInch * dpi))
	if w < 200 {
		w = 200
	}
	if h < 200 {
		h = 200
	}
	return w, h
}

// PointsToPixels converts a length in points to pixels at dpi.
func PointsToPixels(pt, dpi float64) float64 { return pt * dpi / PointsPerInch }

// pow10Floor returns 10^floor(log10(x)) safeguarding tiny values.
func pow10Floor(x float64) float64 {
	if x <= 0 {
		return 1
	}
	return math.Pow(10, math.Floor(math.Log10(x)))
}

// round6 rounds to 6 decimal places to stabilize test comparisons / labels prep.
func round6(v float64) float64 { return math.Round(v*1e6) / 1e6 }

// BuildNumericTicks generates up to n tick marks spanning [min,max] using a 1,2,2.5,5 pattern.
// Returns raw numeric positions; label formatting is left to the caller.
func BuildNumericTicks(min, max float64, n int) []float64 {
	if n < 2 || math.IsNaN(min) || math.IsNaN(max) {
		return nil
	}
	if max <= min {
		max = min + 1
	}
	span := max - min
	mag := pow10Floor(span / float64(n-1))
	candidates := []float64{1, 2, 2.5, 5, 10}
	bestStep := mag
	bestScore := math.MaxFloat64
	for _, c := range candidates {
		step := c * mag
		count := math.Ceil(span/step) + 1
		if count < 2 {
			count = 2
		}
		diff := math.Abs(count - float64(n))
		if diff < bestScore {
			bestScore = diff
			bestStep = step
		}
	}
	start := math.Floor(min/bestStep) * bestStep
	end := math.Ceil(max/bestStep) * bestStep
	var out []float64
	for v := start; v <= end+bestStep*0.5; v += bestStep {
		out = append(out, round6(v))
	}
	if len(out) < 2 {
		out = []float64{min, max}
	}
	return out
}

// BuildTicksWithin is BuildNumericTicks restricted to [min,max].
func BuildTicksWithin(min, max float64, n int) []float64 {
	var out []float64
	for _, v := range BuildNumericTicks(min, max, n) {
		if v >= min-1e-9 && v <= max+1e-9 {
			out = append(out, v)
		}
	}
	return out
}

// BuildLogTicks returns the powers of ten inside [min,max]. min must be positive.
func BuildLogTicks(min, max float64) []float64 {
	if min <= 0 || max <= min || math.IsNaN(min) || math.IsNaN(max) {
		return nil
	}
	var out []float64
	for e := math.Ceil(math.Log10(min)); e <= math.Floor(math.Log10(max)); e++ {
		out = append(out, math.Pow(10, e))
	}
	return out
}

// FormatPlain renders a tick as a plain integer ("1000", never "1e+03" or "10^3").
func FormatPlain(v float64) string {
	return strconv.FormatFloat(math.Round(v), 'f', 0, 64)
}

// FormatCount labels a linear count tick: whole numbers without decimals,
// half steps such as 2.5 with the shortest exact form.
func FormatCount(v float64) string {
	if v == math.Trunc(v) {
		return FormatPlain(v)
	}
	return strconv.FormatFloat(round6(v), 'f', -1, 64)
}
