package model

// Gender is the client's gender as entered on the form.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Token returns the gender_limit token ("M" or "F") for g.
func (g Gender) Token() string {
	if g == GenderFemale {
		return "F"
	}
	return "M"
}

// Scenario selects the interest-rate basis of the scenario metric columns.
type Scenario string

const (
	// ScenarioOptimistic selects the "predicted" columns.
	ScenarioOptimistic Scenario = "optimistic"
	// ScenarioDeclared selects the currently announced rate columns.
	ScenarioDeclared Scenario = "declared"
)

// BudgetMode describes how the budget amount was entered.
type BudgetMode string

const (
	BudgetAnnual  BudgetMode = "annual"
	BudgetMonthly BudgetMode = "monthly"
)

// Weights are the raw 0-100 scoring weights. They are expected, not
// required, to sum to 100.
type Weights struct {
	Fit   int `json:"fit" validate:"gte=0,lte=100"`
	Ratio int `json:"ratio" validate:"gte=0,lte=100"`
	Cash  int `json:"cash" validate:"gte=0,lte=100"`
	IRR   int `json:"irr" validate:"gte=0,lte=100"`
}

// Sum returns the total of all four weights.
func (w Weights) Sum() int {
	return w.Fit + w.Ratio + w.Cash + w.IRR
}

// ClientQuery is the full set of user-supplied recommendation parameters.
type ClientQuery struct {
	Gender       Gender     `json:"gender" validate:"required,oneof=male female"`
	Age          int        `json:"age" validate:"gte=0,lte=100"`
	Currency     string     `json:"currency" validate:"required"`
	PayTerm      int        `json:"pay_term" validate:"gt=0"`
	BudgetMode   BudgetMode `json:"budget_mode" validate:"required,oneof=annual monthly"`
	BudgetAmount float64    `json:"budget_amount" validate:"gte=0"`

	Purposes       []string `json:"purposes"`
	PreferBigBrand bool     `json:"prefer_big_brand"`
	NeedHighCash   bool     `json:"need_high_cash"`
	Scenario       Scenario `json:"scenario" validate:"required,oneof=optimistic declared"`

	// IRRFloor is a percentage; 0 disables the floor.
	IRRFloor float64 `json:"irr_floor" validate:"gte=-5,lte=15"`
	// CoverageCeiling caps coverage_premium_ratio; 0 disables the ceiling.
	CoverageCeiling float64 `json:"coverage_ceiling" validate:"gte=0"`

	Weights Weights `json:"weights"`
}

// BudgetYearly returns the budget annualised: monthly amounts are multiplied by 12.
func (q ClientQuery) BudgetYearly() float64 {
	if q.BudgetMode == BudgetMonthly {
		return q.BudgetAmount * 12
	}
	return q.BudgetAmount
}
