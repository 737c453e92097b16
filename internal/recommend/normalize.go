package recommend

import (
	"math"
)

// minMaxRange returns the min and max of the finite, non-nil values. ok is
// false when there are none or when they have no spread.
func minMaxRange(values []*float64) (lo, hi float64, ok bool) {
	seen := false
	for _, v := range values {
		if v == nil || math.IsInf(*v, 0) || math.IsNaN(*v) {
			continue
		}
		if !seen {
			lo, hi, seen = *v, *v, true
			continue
		}
		lo = math.Min(lo, *v)
		hi = math.Max(hi, *v)
	}
	if !seen || hi == lo {
		return 0, 0, false
	}
	return lo, hi, true
}

// normalizeMinMax rescales values onto [0,1] across the set. Degenerate sets
// (empty or constant) normalize to 0 everywhere, as do nil and non-finite
// values.
func normalizeMinMax(values []*float64) []float64 {
	out := make([]float64, len(values))
	lo, hi, ok := minMaxRange(values)
	if !ok {
		return out
	}
	for i, v := range values {
		if v == nil || math.IsInf(*v, 0) || math.IsNaN(*v) {
			continue
		}
		out[i] = (*v - lo) / (hi - lo)
	}
	return out
}

// normalizeIRR maps an IRR percentage onto [0,1] using the fixed scale
// [scaleMin, scaleMax]. A missing IRR takes scaleMin and so scores 0.
func normalizeIRR(pct *float64, scaleMin, scaleMax float64) float64 {
	if scaleMax <= scaleMin {
		return 0
	}
	x := scaleMin
	if pct != nil && !math.IsNaN(*pct) {
		x = *pct
	}
	x = math.Max(scaleMin, math.Min(scaleMax, x))
	return (x - scaleMin) / (scaleMax - scaleMin)
}
