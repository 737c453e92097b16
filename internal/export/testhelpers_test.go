package export

import (
	"github.com/sells-group/policy-cli/internal/model"
	"github.com/sells-group/policy-cli/internal/recommend"
)

func ptr(v float64) *float64 { return &v }

func sampleResult() *recommend.Result {
	return &recommend.Result{
		Query: model.ClientQuery{
			Gender:       model.GenderFemale,
			Age:          45,
			Currency:     "USD",
			PayTerm:      6,
			BudgetMode:   model.BudgetMonthly,
			BudgetAmount: 40000,
			Scenario:     model.ScenarioOptimistic,
		},
		Columns: recommend.SelectColumns(model.ScenarioOptimistic),
		Outcome: recommend.OutcomeRanked,
		Stages:  []recommend.StageCount{{Stage: recommend.StageEligibility, Remaining: 2}},
		Records: []model.WorkingRecord{
			{
				ProductRecord: model.ProductRecord{
					Company:      "Alpha Life",
					ProductName:  "Legacy Plus",
					Currency:     "USD",
					PayTermYears: 6,
					GenderLimit:  "ANY",
					Highlight:    "flagship product",
					Predicted:    model.ScenarioMetrics{CashValue90: ptr(250000.9)},
				},
				AnnualPremium:        11550,
				TotalPremium:         69300,
				CashValue90:          ptr(250000.9),
				DeathBenefit90:       ptr(1400000),
				CoveragePremiumRatio: ptr(20.2020202),
				IRRPct:               ptr(2.5),
				FitNorm:              0.8,
				Score:                74,
			},
			{
				ProductRecord: model.ProductRecord{
					Company:      "Beta Life",
					ProductName:  "Shield",
					Currency:     "USD",
					PayTermYears: 6,
				},
				AnnualPremium: 9500,
				TotalPremium:  57000,
				Score:         12.5,
			},
		},
	}
}
