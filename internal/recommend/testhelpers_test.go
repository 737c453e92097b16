package recommend

import (
	"go.uber.org/zap"

	"github.com/sells-group/policy-cli/internal/model"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func ptr(v float64) *float64 { return &v }

// product returns a USD, 6-year, unrestricted product priced at 10,000 a
// year, adjusted by the given options.
func product(name string, opts ...func(*model.ProductRecord)) model.ProductRecord {
	p := model.ProductRecord{
		Company:                 "Co",
		ProductName:             name,
		Currency:                "USD",
		PayTermYears:            6,
		GenderLimit:             "ANY",
		AnnualPremiumBase:       10000,
		PremiumMultiplierMale:   1.0,
		PremiumMultiplierFemale: 1.0,
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

func withDeath(v float64) func(*model.ProductRecord) {
	return func(p *model.ProductRecord) { p.Predicted.DeathBenefit90 = ptr(v) }
}

func withCash(v float64) func(*model.ProductRecord) {
	return func(p *model.ProductRecord) { p.Predicted.CashValue90 = ptr(v) }
}

func withIRR(v float64) func(*model.ProductRecord) {
	return func(p *model.ProductRecord) { p.Predicted.IRRTo90 = ptr(v) }
}

func baseQuery() model.ClientQuery {
	return model.ClientQuery{
		Gender:       model.GenderMale,
		Age:          45,
		Currency:     "USD",
		PayTerm:      6,
		BudgetMode:   model.BudgetAnnual,
		BudgetAmount: 50000,
		Scenario:     model.ScenarioOptimistic,
		Weights:      model.Weights{Fit: 30, Ratio: 25, Cash: 25, IRR: 20},
	}
}

func names(recs []model.WorkingRecord) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.ProductName
	}
	return out
}

type recordingObserver struct {
	runs []RunStats
}

func (o *recordingObserver) ObserveRun(s RunStats) { o.runs = append(o.runs, s) }
