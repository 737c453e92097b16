package recommend

import (
	"github.com/sells-group/policy-cli/internal/model"
)

// ScenarioColumns names the catalog columns a scenario reads its metrics from.
type ScenarioColumns struct {
	CashValue    string `json:"cash_value"`
	DeathBenefit string `json:"death_benefit"`
	IRR          string `json:"irr"`
}

// SelectColumns returns the metric columns for scenario s.
func SelectColumns(s model.Scenario) ScenarioColumns {
	if s == model.ScenarioDeclared {
		return ScenarioColumns{
			CashValue:    "cash_value_90_declared",
			DeathBenefit: "death_benefit_90_declared",
			IRR:          "irr_to_90_declared",
		}
	}
	return ScenarioColumns{
		CashValue:    "cash_value_90_predicted",
		DeathBenefit: "death_benefit_90_predicted",
		IRR:          "irr_to_90_predicted",
	}
}

// deriveMetrics copies the scenario's metrics onto each record and computes
// the coverage-premium ratio and IRR percentage. The ratio stays nil when
// either input is missing or the total premium is not positive.
func deriveMetrics(recs []model.WorkingRecord, s model.Scenario) {
	for i := range recs {
		r := &recs[i]
		m := r.Metrics(s)
		r.CashValue90 = m.CashValue90
		r.DeathBenefit90 = m.DeathBenefit90
		r.IRRTo90 = m.IRRTo90

		r.CoveragePremiumRatio = nil
		if r.DeathBenefit90 != nil && r.TotalPremium > 0 {
			ratio := *r.DeathBenefit90 / r.TotalPremium
			r.CoveragePremiumRatio = &ratio
		}

		r.IRRPct = nil
		if r.IRRTo90 != nil {
			pct := *r.IRRTo90 * 100
			r.IRRPct = &pct
		}
	}
}

// filterAdvanced applies the optional IRR floor and coverage ceiling. A zero
// value disables either filter. A missing IRR fails any floor; a missing
// ratio counts as 0 and never fails the ceiling.
func filterAdvanced(recs []model.WorkingRecord, irrFloor, ceiling float64) []model.WorkingRecord {
	if irrFloor == 0 && ceiling <= 0 {
		return recs
	}
	out := recs[:0:0]
	for _, r := range recs {
		if irrFloor != 0 && (r.IRRPct == nil || *r.IRRPct < irrFloor) {
			continue
		}
		if ceiling > 0 && r.CoveragePremiumRatio != nil && *r.CoveragePremiumRatio > ceiling {
			continue
		}
		out = append(out, r)
	}
	return out
}
