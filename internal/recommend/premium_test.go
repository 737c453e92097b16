package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/policy-cli/internal/model"
)

func TestApplyPremium(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		p          model.ProductRecord
		gender     model.Gender
		wantAnnual float64
		wantTotal  float64
	}{
		{
			name: "gender and age factor",
			p: product("a", func(p *model.ProductRecord) {
				p.PremiumMultiplierMale = 1.05
				p.AgeFactors = []model.AgeBand{{Low: 40, High: 49, Factor: 1.1}, {Low: 50, High: 59, Factor: 1.2}}
			}),
			gender:     model.GenderMale,
			wantAnnual: 11550,
			wantTotal:  69300,
		},
		{
			name:       "female multiplier",
			p:          product("a", func(p *model.ProductRecord) { p.PremiumMultiplierFemale = 0.95 }),
			gender:     model.GenderFemale,
			wantAnnual: 9500,
			wantTotal:  57000,
		},
		{
			name:       "half rounds to even down",
			p:          product("a", func(p *model.ProductRecord) { p.AnnualPremiumBase = 2.5 }),
			gender:     model.GenderMale,
			wantAnnual: 2,
			wantTotal:  12,
		},
		{
			name:       "half rounds to even up",
			p:          product("a", func(p *model.ProductRecord) { p.AnnualPremiumBase = 3.5 }),
			gender:     model.GenderMale,
			wantAnnual: 4,
			wantTotal:  24,
		},
		{
			name: "negative factor floors at zero",
			p: product("a", func(p *model.ProductRecord) {
				p.AgeFactors = []model.AgeBand{{Low: 0, High: 100, Factor: -1}}
			}),
			gender: model.GenderMale,
		},
		{
			name:   "zero base",
			p:      product("a", func(p *model.ProductRecord) { p.AnnualPremiumBase = 0 }),
			gender: model.GenderMale,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			q := baseQuery()
			q.Gender = tt.gender
			recs := []model.WorkingRecord{model.NewWorkingRecord(tt.p)}

			applyPremium(recs, q)

			assert.InDelta(t, tt.wantAnnual, recs[0].AnnualPremium, 1e-9)
			assert.InDelta(t, tt.wantTotal, recs[0].TotalPremium, 1e-9)
			assert.GreaterOrEqual(t, recs[0].AnnualPremium, 0.0)
			assert.Equal(t, recs[0].AnnualPremium*float64(recs[0].PayTermYears), recs[0].TotalPremium)
		})
	}
}

func TestFilterBudget(t *testing.T) {
	t.Parallel()

	recs := []model.WorkingRecord{
		{ProductRecord: model.ProductRecord{ProductName: "within"}, AnnualPremium: 50000},
		{ProductRecord: model.ProductRecord{ProductName: "at tolerance"}, AnnualPremium: 55000},
		{ProductRecord: model.ProductRecord{ProductName: "over"}, AnnualPremium: 55001},
	}

	got := filterBudget(recs, 50000, 1.10)
	assert.Equal(t, []string{"within", "at tolerance"}, names(got))
	assert.Len(t, recs, 3, "input slice is not modified")
}
