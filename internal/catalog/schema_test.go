package catalog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_FullRow(t *testing.T) {
	t.Parallel()

	table := &Table{
		Header: []string{"company", "product_name", "currency", "pay_term_years", "min_age", "max_age",
			"gender_limit", "annual_premium_base", "premium_multiplier_male", "premium_multiplier_female",
			"age_factor_json", "cash_value_90_declared", "irr_to_90_declared", "tags", "highlight"},
		Rows: [][]string{{"Alpha", "Legacy", "USD", "6", "20", "70", "M", "12000", "1.1", "0.9",
			`{"40-49": 1.1}`, "300000", "0.03", "legacy", "flagship"}},
	}

	products, dropped, err := Decode(table)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Zero(t, dropped)

	p := products[0]
	assert.Equal(t, "Alpha", p.Company)
	assert.Equal(t, "Legacy", p.ProductName)
	assert.Equal(t, 6, p.PayTermYears)
	require.NotNil(t, p.MinAge)
	assert.InDelta(t, 20, *p.MinAge, 1e-9)
	require.NotNil(t, p.MaxAge)
	assert.InDelta(t, 70, *p.MaxAge, 1e-9)
	assert.Equal(t, "M", p.GenderLimit)
	assert.InDelta(t, 12000, p.AnnualPremiumBase, 1e-9)
	assert.InDelta(t, 1.1, p.PremiumMultiplierMale, 1e-9)
	assert.InDelta(t, 0.9, p.PremiumMultiplierFemale, 1e-9)
	require.Len(t, p.AgeFactors, 1)
	require.NotNil(t, p.Declared.CashValue90)
	assert.InDelta(t, 300000, *p.Declared.CashValue90, 1e-9)
	assert.Nil(t, p.Declared.DeathBenefit90, "absent column reads as missing")
	assert.Nil(t, p.Predicted.CashValue90)
	assert.Equal(t, "legacy", p.Tags)
	assert.Equal(t, "flagship", p.Highlight)
}

func TestDecode_Defaults(t *testing.T) {
	t.Parallel()

	table := &Table{
		Header: []string{"company", "product_name", "currency", "pay_term_years"},
		Rows:   [][]string{{"Alpha", "Basic", "TWD", "10"}},
	}

	products, _, err := Decode(table)
	require.NoError(t, err)
	require.Len(t, products, 1)

	p := products[0]
	assert.Nil(t, p.MinAge)
	assert.Nil(t, p.MaxAge)
	assert.Equal(t, "ANY", p.GenderLimit)
	assert.Zero(t, p.AnnualPremiumBase)
	assert.InDelta(t, 1.0, p.PremiumMultiplierMale, 1e-9)
	assert.InDelta(t, 1.0, p.PremiumMultiplierFemale, 1e-9)
	assert.Empty(t, p.AgeFactorJSON)
	assert.Nil(t, p.AgeFactors)
	assert.Empty(t, p.Tags)
}

func TestDecode_MalformedCellsFallBack(t *testing.T) {
	t.Parallel()

	table := &Table{
		Header: []string{"company", "product_name", "currency", "pay_term_years",
			"annual_premium_base", "premium_multiplier_male", "premium_multiplier_female", "age_factor_json", "min_age"},
		Rows: [][]string{{"A", "B", "USD", "6", "-50", "n/a", "0", "{bad json", "old"}},
	}

	products, _, err := Decode(table)
	require.NoError(t, err)
	require.Len(t, products, 1)

	p := products[0]
	assert.Zero(t, p.AnnualPremiumBase)
	assert.InDelta(t, 1.0, p.PremiumMultiplierMale, 1e-9)
	assert.InDelta(t, 1.0, p.PremiumMultiplierFemale, 1e-9)
	assert.Nil(t, p.AgeFactors)
	assert.Equal(t, "{bad json", p.AgeFactorJSON)
	assert.Nil(t, p.MinAge)
}

func TestDecode_DropsInvalidPayTerm(t *testing.T) {
	t.Parallel()

	table := &Table{
		Header: []string{"company", "product_name", "currency", "pay_term_years"},
		Rows: [][]string{
			{"A", "ok", "USD", "6"},
			{"A", "zero", "USD", "0"},
			{"A", "fraction", "USD", "6.5"},
			{"A", "text", "USD", "six"},
			{"A", "blank", "USD", ""},
			{"A", "float int", "USD", "20.0"},
		},
	}

	products, dropped, err := Decode(table)
	require.NoError(t, err)
	assert.Equal(t, 4, dropped)
	require.Len(t, products, 2)
	assert.Equal(t, "ok", products[0].ProductName)
	assert.Equal(t, 20, products[1].PayTermYears)
}

func TestDecode_NonFiniteCellsReadAsMissing(t *testing.T) {
	t.Parallel()

	table := &Table{
		Header: []string{"company", "product_name", "currency", "pay_term_years", "annual_premium_base",
			"premium_multiplier_male", "max_age", "cash_value_90_predicted", "death_benefit_90_predicted", "irr_to_90_predicted"},
		Rows: [][]string{
			{"A", "P1", "USD", "6", "Inf", "+Inf", "Infinity", "Inf", "-Inf", "NaN"},
			{"A", "P2", "USD", "Inf", "10000", "1", "", "1", "2", "0.01"},
		},
	}

	products, dropped, err := Decode(table)
	require.NoError(t, err)
	assert.Equal(t, 1, dropped, "infinite pay term is not a valid term")
	require.Len(t, products, 1)

	p := products[0]
	assert.Equal(t, "P1", p.ProductName)
	assert.Zero(t, p.AnnualPremiumBase)
	assert.InDelta(t, 1.0, p.PremiumMultiplierMale, 1e-9)
	assert.Nil(t, p.MaxAge)
	assert.Nil(t, p.Predicted.CashValue90)
	assert.Nil(t, p.Predicted.DeathBenefit90)
	assert.Nil(t, p.Predicted.IRRTo90)
}

func TestDecode_MissingRequiredColumns(t *testing.T) {
	t.Parallel()

	table := &Table{Header: []string{"company", "currency"}}

	_, _, err := Decode(table)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingColumns))
	assert.Contains(t, err.Error(), "product_name")
	assert.Contains(t, err.Error(), "pay_term_years")
}

func TestDecode_HeaderNormalisation(t *testing.T) {
	t.Parallel()

	table := &Table{
		Header: []string{" Company ", "PRODUCT_NAME", "currency", "pay_term_years"},
		Rows:   [][]string{{"A", "B", "USD", "6"}, {"C", "D"}},
	}

	products, dropped, err := Decode(table)
	require.NoError(t, err)
	assert.Len(t, products, 1, "short row has no pay term and is dropped")
	assert.Equal(t, 1, dropped)
	assert.Equal(t, "A", products[0].Company)
}
