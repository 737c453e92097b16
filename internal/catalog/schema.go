package catalog

import (
	"math"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/policy-cli/internal/model"
)

// Catalog column names.
const (
	ColCompany                 = "company"
	ColProductName             = "product_name"
	ColCurrency                = "currency"
	ColPayTermYears            = "pay_term_years"
	ColMinAge                  = "min_age"
	ColMaxAge                  = "max_age"
	ColGenderLimit             = "gender_limit"
	ColAnnualPremiumBase       = "annual_premium_base"
	ColPremiumMultiplierMale   = "premium_multiplier_male"
	ColPremiumMultiplierFemale = "premium_multiplier_female"
	ColAgeFactorJSON           = "age_factor_json"
	ColCashValuePredicted      = "cash_value_90_predicted"
	ColDeathBenefitPredicted   = "death_benefit_90_predicted"
	ColIRRPredicted            = "irr_to_90_predicted"
	ColCashValueDeclared       = "cash_value_90_declared"
	ColDeathBenefitDeclared    = "death_benefit_90_declared"
	ColIRRDeclared             = "irr_to_90_declared"
	ColTags                    = "tags"
	ColHighlight               = "highlight"
)

// RequiredColumns must all be present for a catalog to be usable.
var RequiredColumns = []string{ColCompany, ColProductName, ColCurrency, ColPayTermYears}

// ErrMissingColumns is returned when a catalog lacks a required column.
var ErrMissingColumns = eris.New("catalog: missing required columns")

// Table is a raw tabular catalog: a header row plus string cells.
type Table struct {
	Header []string
	Rows   [][]string
}

// row gives named access to one table row; absent columns read as "".
type row struct {
	index  map[string]int
	values []string
}

func (r row) get(col string) string {
	i, ok := r.index[col]
	if !ok || i >= len(r.values) {
		return ""
	}
	return strings.TrimSpace(r.values[i])
}

// Decode converts a raw table into product records using the fixed schema.
// Optional columns default as follows: ages unbounded, gender_limit "ANY",
// base premium 0, multipliers 1.0, scenario metrics missing, text "".
// Rows whose pay term is not a positive integer are dropped with a warning
// and counted in the second return value.
func Decode(t *Table) ([]model.ProductRecord, int, error) {
	index := make(map[string]int, len(t.Header))
	for i, h := range t.Header {
		name := strings.ToLower(strings.TrimSpace(h))
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}

	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, 0, eris.Wrapf(ErrMissingColumns, "absent: %s", strings.Join(missing, ", "))
	}

	products := make([]model.ProductRecord, 0, len(t.Rows))
	dropped := 0
	for i, values := range t.Rows {
		r := row{index: index, values: values}

		payTerm, ok := parsePayTerm(r.get(ColPayTermYears))
		if !ok {
			dropped++
			zap.L().Warn("catalog: dropping row with invalid pay term",
				zap.Int("row", i+1),
				zap.String("product", r.get(ColProductName)),
				zap.String("pay_term_years", r.get(ColPayTermYears)),
			)
			continue
		}

		genderLimit := r.get(ColGenderLimit)
		if genderLimit == "" {
			genderLimit = "ANY"
		}

		ageJSON := r.get(ColAgeFactorJSON)
		products = append(products, model.ProductRecord{
			Company:                 r.get(ColCompany),
			ProductName:             r.get(ColProductName),
			Currency:                r.get(ColCurrency),
			PayTermYears:            payTerm,
			MinAge:                  parseOptional(r.get(ColMinAge)),
			MaxAge:                  parseOptional(r.get(ColMaxAge)),
			GenderLimit:             genderLimit,
			AnnualPremiumBase:       parseBase(r.get(ColAnnualPremiumBase)),
			PremiumMultiplierMale:   parseMultiplier(r.get(ColPremiumMultiplierMale)),
			PremiumMultiplierFemale: parseMultiplier(r.get(ColPremiumMultiplierFemale)),
			AgeFactorJSON:           ageJSON,
			AgeFactors:              ParseAgeFactors(ageJSON),
			Predicted: model.ScenarioMetrics{
				CashValue90:    parseOptional(r.get(ColCashValuePredicted)),
				DeathBenefit90: parseOptional(r.get(ColDeathBenefitPredicted)),
				IRRTo90:        parseOptional(r.get(ColIRRPredicted)),
			},
			Declared: model.ScenarioMetrics{
				CashValue90:    parseOptional(r.get(ColCashValueDeclared)),
				DeathBenefit90: parseOptional(r.get(ColDeathBenefitDeclared)),
				IRRTo90:        parseOptional(r.get(ColIRRDeclared)),
			},
			Tags:      r.get(ColTags),
			Highlight: r.get(ColHighlight),
		})
	}

	return products, dropped, nil
}

// parseOptional returns nil for empty, non-numeric, or non-finite cells
// ("NaN", "Inf", "Infinity" all parse but read as missing).
func parseOptional(s string) *float64 {
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || !finite(f) {
		return nil
	}
	return &f
}

func parsePayTerm(s string) (int, bool) {
	f := parseOptional(s)
	if f == nil || *f <= 0 || *f != math.Trunc(*f) {
		return 0, false
	}
	return int(*f), true
}

// parseBase treats missing, non-numeric, and negative base premiums as 0.
func parseBase(s string) float64 {
	f := parseOptional(s)
	if f == nil || *f < 0 {
		return 0
	}
	return *f
}

// parseMultiplier falls back to the neutral 1.0 for anything that is not a
// positive finite number.
func parseMultiplier(s string) float64 {
	f := parseOptional(s)
	if f == nil || *f <= 0 {
		return 1.0
	}
	return *f
}
