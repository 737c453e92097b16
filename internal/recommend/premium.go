package recommend

import (
	"github.com/shopspring/decimal"

	"github.com/sells-group/policy-cli/internal/model"
)

// applyPremium prices every record for the client. Both premiums are rounded
// to whole currency units half-to-even.
func applyPremium(recs []model.WorkingRecord, q model.ClientQuery) {
	for i := range recs {
		r := &recs[i]
		annual := decimal.NewFromFloat(r.AnnualPremiumBase).
			Mul(decimal.NewFromFloat(r.GenderMultiplier(q.Gender))).
			Mul(decimal.NewFromFloat(r.AgeFactor(q.Age))).
			RoundBank(0)
		if annual.IsNegative() {
			annual = decimal.Zero
		}
		total := annual.Mul(decimal.NewFromInt(int64(r.PayTermYears))).RoundBank(0)

		r.AnnualPremium = annual.InexactFloat64()
		r.TotalPremium = total.InexactFloat64()
	}
}

// filterBudget keeps records whose annual premium is within tolerance times
// the yearly budget.
func filterBudget(recs []model.WorkingRecord, budgetYearly, tolerance float64) []model.WorkingRecord {
	limit := decimal.NewFromFloat(budgetYearly).Mul(decimal.NewFromFloat(tolerance))
	out := recs[:0:0]
	for _, r := range recs {
		if decimal.NewFromFloat(r.AnnualPremium).LessThanOrEqual(limit) {
			out = append(out, r)
		}
	}
	return out
}
