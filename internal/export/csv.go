// Package export renders recommendation results for people: a console
// comparison table, a BOM-prefixed CSV download, JSON, and an XLSX report.
package export

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/sells-group/policy-cli/internal/model"
)

// DefaultCSVName is the suggested filename for CSV downloads.
const DefaultCSVName = "recommendations.csv"

// csvColumns is the column order of the full working-table export.
var csvColumns = []string{
	"company",
	"product_name",
	"currency",
	"pay_term_years",
	"min_age",
	"max_age",
	"gender_limit",
	"annual_premium_base",
	"premium_multiplier_male",
	"premium_multiplier_female",
	"age_factor_json",
	"cash_value_90_predicted",
	"death_benefit_90_predicted",
	"irr_to_90_predicted",
	"cash_value_90_declared",
	"death_benefit_90_declared",
	"irr_to_90_declared",
	"tags",
	"highlight",
	"annual_premium",
	"total_premium",
	"coverage_premium_ratio",
	"irr_pct",
	"fit_norm",
	"cash_norm",
	"ratio_norm",
	"irr_norm",
	"score",
}

// WriteCSV writes the ranked working table as UTF-8 CSV with a leading
// byte-order mark so spreadsheet tools detect the encoding.
func WriteCSV(w io.Writer, recs []model.WorkingRecord) error {
	bw := transform.NewWriter(w, unicode.UTF8BOM.NewEncoder())
	cw := csv.NewWriter(bw)

	if err := cw.Write(csvColumns); err != nil {
		return eris.Wrap(err, "export: write CSV header")
	}
	for _, r := range recs {
		if err := cw.Write(csvRow(r)); err != nil {
			return eris.Wrap(err, "export: write CSV row")
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return eris.Wrap(err, "export: flush CSV")
	}
	if err := bw.Close(); err != nil {
		return eris.Wrap(err, "export: flush CSV encoder")
	}
	return nil
}

// ExportCSV writes the ranked working table to path.
func ExportCSV(recs []model.WorkingRecord, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "export: create file %s", path)
	}
	if err := WriteCSV(f, recs); err != nil {
		f.Close() //nolint:errcheck
		return err
	}
	return eris.Wrap(f.Close(), "export: close file")
}

func csvRow(r model.WorkingRecord) []string {
	return []string{
		r.Company,
		r.ProductName,
		r.Currency,
		strconv.Itoa(r.PayTermYears),
		optFloat(r.MinAge),
		optFloat(r.MaxAge),
		r.GenderLimit,
		plainFloat(r.AnnualPremiumBase),
		plainFloat(r.PremiumMultiplierMale),
		plainFloat(r.PremiumMultiplierFemale),
		r.AgeFactorJSON,
		optFloat(r.Predicted.CashValue90),
		optFloat(r.Predicted.DeathBenefit90),
		optFloat(r.Predicted.IRRTo90),
		optFloat(r.Declared.CashValue90),
		optFloat(r.Declared.DeathBenefit90),
		optFloat(r.Declared.IRRTo90),
		r.Tags,
		r.Highlight,
		plainFloat(r.AnnualPremium),
		plainFloat(r.TotalPremium),
		optFloat(r.CoveragePremiumRatio),
		optFloat(r.IRRPct),
		plainFloat(r.FitNorm),
		plainFloat(r.CashNorm),
		plainFloat(r.RatioNorm),
		plainFloat(r.IRRNorm),
		plainFloat(r.Score),
	}
}

func plainFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// optFloat renders a missing value as an empty cell.
func optFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return plainFloat(*v)
}
