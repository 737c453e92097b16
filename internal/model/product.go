// Package model defines the catalog, query, and pipeline record types shared across the CLI.
package model

// AgeBand is one parsed entry of a product's age-factor table: the premium
// multiplier applied when the client's age falls within [Low, High].
type AgeBand struct {
	Low    int     `json:"low"`
	High   int     `json:"high"`
	Factor float64 `json:"factor"`
}

// Contains reports whether age lies inside the band, bounds inclusive.
func (b AgeBand) Contains(age int) bool {
	return b.Low <= age && age <= b.High
}

// ScenarioMetrics holds one interest-rate basis of the reference-age metrics.
// A nil field means the value is missing for the product (or the column is
// absent from the catalog entirely).
type ScenarioMetrics struct {
	CashValue90    *float64 `json:"cash_value_90"`
	DeathBenefit90 *float64 `json:"death_benefit_90"`
	IRRTo90        *float64 `json:"irr_to_90"`
}

// ProductRecord is one catalog row after loading. Optional columns are
// populated with their defaults at load time, so the pipeline never has to
// check whether a column exists.
type ProductRecord struct {
	Company     string `json:"company"`
	ProductName string `json:"product_name"`

	Currency     string   `json:"currency"`
	PayTermYears int      `json:"pay_term_years"`
	MinAge       *float64 `json:"min_age"`
	MaxAge       *float64 `json:"max_age"`
	GenderLimit  string   `json:"gender_limit"`

	AnnualPremiumBase       float64   `json:"annual_premium_base"`
	PremiumMultiplierMale   float64   `json:"premium_multiplier_male"`
	PremiumMultiplierFemale float64   `json:"premium_multiplier_female"`
	AgeFactorJSON           string    `json:"age_factor_json"`
	AgeFactors              []AgeBand `json:"-"`

	Predicted ScenarioMetrics `json:"predicted"`
	Declared  ScenarioMetrics `json:"declared"`

	Tags      string `json:"tags"`
	Highlight string `json:"highlight"`
}

// GenderMultiplier returns the premium multiplier column matching g.
func (p *ProductRecord) GenderMultiplier(g Gender) float64 {
	if g == GenderFemale {
		return p.PremiumMultiplierFemale
	}
	return p.PremiumMultiplierMale
}

// AgeFactor returns the factor of the first band containing age, or 1.0.
func (p *ProductRecord) AgeFactor(age int) float64 {
	for _, b := range p.AgeFactors {
		if b.Contains(age) {
			return b.Factor
		}
	}
	return 1.0
}

// Metrics returns the metric set for the given scenario.
func (p *ProductRecord) Metrics(s Scenario) ScenarioMetrics {
	if s == ScenarioDeclared {
		return p.Declared
	}
	return p.Predicted
}
