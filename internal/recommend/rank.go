package recommend

import (
	"cmp"
	"math"
	"slices"

	"github.com/sells-group/policy-cli/internal/model"
)

// scoreRecord combines the normalized metrics with the raw 0-100 weights and
// rounds to two decimals, half to even.
func scoreRecord(r model.WorkingRecord, w model.Weights) float64 {
	s := r.FitNorm*float64(w.Fit) +
		r.RatioNorm*float64(w.Ratio) +
		r.CashNorm*float64(w.Cash) +
		r.IRRNorm*float64(w.IRR)
	return math.RoundToEven(s*100) / 100
}

// rankRecords orders records by score, then scenario cash value, then
// coverage ratio, all descending. Missing values sort after present ones and
// full ties keep catalog order.
func rankRecords(recs []model.WorkingRecord) {
	slices.SortStableFunc(recs, func(a, b model.WorkingRecord) int {
		if c := descending(&a.Score, &b.Score); c != 0 {
			return c
		}
		if c := descending(a.CashValue90, b.CashValue90); c != 0 {
			return c
		}
		return descending(a.CoveragePremiumRatio, b.CoveragePremiumRatio)
	})
}

// descending compares two optional values for a descending sort with nil and
// NaN placed last.
func descending(a, b *float64) int {
	aMissing := a == nil || math.IsNaN(*a)
	bMissing := b == nil || math.IsNaN(*b)
	switch {
	case aMissing && bMissing:
		return 0
	case aMissing:
		return 1
	case bMissing:
		return -1
	}
	return cmp.Compare(*b, *a)
}
