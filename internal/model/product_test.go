package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr(v float64) *float64 { return &v }

func TestAgeFactor(t *testing.T) {
	t.Parallel()

	p := ProductRecord{AgeFactors: []AgeBand{
		{Low: 40, High: 49, Factor: 1.1},
		{Low: 50, High: 59, Factor: 1.2},
		{Low: 45, High: 55, Factor: 9.9},
	}}

	tests := []struct {
		name string
		age  int
		want float64
	}{
		{"inside first band", 45, 1.1},
		{"lower bound inclusive", 40, 1.1},
		{"upper bound inclusive", 59, 1.2},
		{"first matching band wins", 50, 1.2},
		{"no band", 30, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, p.AgeFactor(tt.age), 1e-9)
		})
	}
}

func TestAgeFactor_NoBands(t *testing.T) {
	t.Parallel()
	assert.InDelta(t, 1.0, (&ProductRecord{}).AgeFactor(45), 1e-9)
}

func TestGenderMultiplier(t *testing.T) {
	t.Parallel()

	p := ProductRecord{PremiumMultiplierMale: 1.05, PremiumMultiplierFemale: 0.95}
	assert.InDelta(t, 1.05, p.GenderMultiplier(GenderMale), 1e-9)
	assert.InDelta(t, 0.95, p.GenderMultiplier(GenderFemale), 1e-9)
}

func TestMetrics_ByScenario(t *testing.T) {
	t.Parallel()

	p := ProductRecord{
		Predicted: ScenarioMetrics{CashValue90: ptr(100)},
		Declared:  ScenarioMetrics{CashValue90: ptr(200)},
	}
	assert.InDelta(t, 100, *p.Metrics(ScenarioOptimistic).CashValue90, 1e-9)
	assert.InDelta(t, 200, *p.Metrics(ScenarioDeclared).CashValue90, 1e-9)
}

func TestGenderToken(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "M", GenderMale.Token())
	assert.Equal(t, "F", GenderFemale.Token())
}

func TestBudgetYearly(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		q    ClientQuery
		want float64
	}{
		{"annual", ClientQuery{BudgetMode: BudgetAnnual, BudgetAmount: 500000}, 500000},
		{"monthly annualised", ClientQuery{BudgetMode: BudgetMonthly, BudgetAmount: 40000}, 480000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, tt.q.BudgetYearly(), 1e-9)
		})
	}
}

func TestWeightsSum(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 100, Weights{Fit: 30, Ratio: 25, Cash: 25, IRR: 20}.Sum())
	assert.Equal(t, 90, Weights{Fit: 30, Ratio: 25, Cash: 25, IRR: 10}.Sum())
}
