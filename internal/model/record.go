package model

// WorkingRecord is a ProductRecord plus the fields derived during one
// pipeline run. It is owned by that run and never shared.
type WorkingRecord struct {
	ProductRecord

	AnnualPremium float64 `json:"annual_premium"`
	TotalPremium  float64 `json:"total_premium"`

	// Scenario-selected metrics.
	CashValue90    *float64 `json:"cash_value_90"`
	DeathBenefit90 *float64 `json:"death_benefit_90"`
	IRRTo90        *float64 `json:"irr_to_90"`

	CoveragePremiumRatio *float64 `json:"coverage_premium_ratio"`
	IRRPct               *float64 `json:"irr_pct"`

	FitNorm   float64 `json:"fit_norm"`
	CashNorm  float64 `json:"cash_norm"`
	RatioNorm float64 `json:"ratio_norm"`
	IRRNorm   float64 `json:"irr_norm"`
	Score     float64 `json:"score"`
}

// NewWorkingRecord starts a working record from a catalog product. The age
// band slice is shared read-only with the catalog.
func NewWorkingRecord(p ProductRecord) WorkingRecord {
	return WorkingRecord{ProductRecord: p}
}
