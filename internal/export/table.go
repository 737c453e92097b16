package export

import (
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sells-group/policy-cli/internal/model"
	"github.com/sells-group/policy-cli/internal/recommend"
)

const missing = "-"

var printer = message.NewPrinter(language.English)

// ComparisonRow is one display row of the product comparison table.
type ComparisonRow struct {
	Company       string `json:"company"`
	Product       string `json:"product"`
	Currency      string `json:"currency"`
	Term          int    `json:"term"`
	AnnualPremium string `json:"annual_premium"`
	TotalPremium  string `json:"total_premium"`
	CashValue90   string `json:"cash_value_90"`
	DeathBenefit  string `json:"death_benefit_90"`
	CoverageRatio string `json:"coverage_ratio"`
	IRRPct        string `json:"irr_pct"`
	Highlight     string `json:"highlight"`
}

// Comparison formats ranked records for display. Money is truncated to whole
// units with thousands separators; ratio and IRR show two decimals.
func Comparison(recs []model.WorkingRecord) []ComparisonRow {
	rows := make([]ComparisonRow, len(recs))
	for i, r := range recs {
		rows[i] = ComparisonRow{
			Company:       r.Company,
			Product:       r.ProductName,
			Currency:      r.Currency,
			Term:          r.PayTermYears,
			AnnualPremium: FormatAmount(&recs[i].AnnualPremium),
			TotalPremium:  FormatAmount(&recs[i].TotalPremium),
			CashValue90:   FormatAmount(r.CashValue90),
			DeathBenefit:  FormatAmount(r.DeathBenefit90),
			CoverageRatio: FormatDecimal(r.CoveragePremiumRatio),
			IRRPct:        FormatPercent(r.IRRPct),
			Highlight:     r.Highlight,
		}
	}
	return rows
}

// FormatAmount renders a whole-unit amount with thousands separators.
func FormatAmount(v *float64) string {
	if !present(v) {
		return missing
	}
	return printer.Sprintf("%d", int64(*v))
}

// FormatDecimal renders a value with two decimals and thousands separators.
func FormatDecimal(v *float64) string {
	if !present(v) {
		return missing
	}
	return printer.Sprintf("%.2f", *v)
}

// FormatPercent renders a percentage with two decimals.
func FormatPercent(v *float64) string {
	if !present(v) {
		return missing
	}
	return fmt.Sprintf("%.2f", *v)
}

func present(v *float64) bool {
	return v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0)
}

// WriteTable prints the top recommendations with their reasons followed by
// the full comparison table.
func WriteTable(w io.Writer, res *recommend.Result, topN int) error {
	if res.Outcome == recommend.OutcomeNoMatch {
		_, err := fmt.Fprintf(w, "No matches (emptied at %s). %s\n", res.EmptiedAt, res.Message)
		return err
	}

	top := res.Top(topN)
	if _, err := fmt.Fprintf(w, "Top %d recommendations\n", len(top)); err != nil {
		return err
	}
	for i, rec := range top {
		_, err := fmt.Fprintf(w, "%d. %s | %s  score %.2f\n   %s\n",
			i+1, rec.Record.Company, rec.Record.ProductName, rec.Record.Score,
			strings.Join(rec.Reasons, "; "))
		if err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "COMPANY\tPRODUCT\tCURRENCY\tTERM\tANNUAL PREMIUM\tTOTAL PREMIUM\tCASH VALUE 90\tDEATH BENEFIT 90\tCOVERAGE RATIO\tIRR %\tHIGHLIGHT")
	for _, row := range Comparison(res.Records) {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			row.Company, row.Product, row.Currency, row.Term,
			row.AnnualPremium, row.TotalPremium, row.CashValue90, row.DeathBenefit,
			row.CoverageRatio, row.IRRPct, row.Highlight)
	}
	return tw.Flush()
}
