package export

import (
	"fmt"
	"io"
	"time"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/policy-cli/internal/recommend"
)

// Report sheet names.
const (
	SummarySheet    = "Summary"
	ComparisonSheet = "Comparison"
)

const highlightWidth = 40

// ReportOptions controls the condensed report document.
type ReportOptions struct {
	TopN        int
	Rows        int
	GeneratedAt time.Time
}

// ReportName returns the download filename for a report generated at t.
func ReportName(t time.Time) string {
	return "Insurance_Recommendation_" + t.Format("20060102_1504") + ".xlsx"
}

// BuildReport lays out the condensed report workbook: a summary sheet with
// the client conditions and top picks, and a comparison sheet of the first
// opts.Rows ranked records.
func BuildReport(res *recommend.Result, opts ReportOptions) (*xlsx.File, error) {
	f := xlsx.NewFile()

	summary, err := f.AddSheet(SummarySheet)
	if err != nil {
		return nil, eris.Wrap(err, "report: add summary sheet")
	}
	addRow(summary, "Insurance Recommendation Report")
	addRow(summary, "Generated", opts.GeneratedAt.Format("2006-01-02 15:04"))
	addRow(summary, "Conditions", conditionLine(res))
	addRow(summary)
	addRow(summary, fmt.Sprintf("Top %d", opts.TopN))
	for _, rec := range res.Top(opts.TopN) {
		addRow(summary, fmt.Sprintf("%s | %s | score %.2f | %s",
			rec.Record.Company, rec.Record.ProductName, rec.Record.Score,
			truncateRunes(rec.Record.Highlight, highlightWidth)))
	}

	cmp, err := f.AddSheet(ComparisonSheet)
	if err != nil {
		return nil, eris.Wrap(err, "report: add comparison sheet")
	}
	addRow(cmp, "Company", "Product", "Term", "Annual", "Total", "Cash 90", "Death 90", "IRR%")
	recs := res.Records
	if opts.Rows >= 0 && len(recs) > opts.Rows {
		recs = recs[:opts.Rows]
	}
	for _, r := range recs {
		row := cmp.AddRow()
		row.AddCell().SetString(r.Company)
		row.AddCell().SetString(r.ProductName)
		row.AddCell().SetInt(r.PayTermYears)
		row.AddCell().SetString(FormatAmount(&r.AnnualPremium))
		row.AddCell().SetString(FormatAmount(&r.TotalPremium))
		row.AddCell().SetString(amountOrZero(r.CashValue90))
		row.AddCell().SetString(amountOrZero(r.DeathBenefit90))
		row.AddCell().SetString(FormatPercent(r.IRRPct))
	}

	return f, nil
}

// WriteReport renders the report workbook to w. Failures carry the
// "report:" prefix so callers can tell them apart from pipeline errors.
func WriteReport(w io.Writer, res *recommend.Result, opts ReportOptions) error {
	f, err := BuildReport(res, opts)
	if err != nil {
		return err
	}
	if err := f.Write(w); err != nil {
		return eris.Wrap(err, "report: write workbook")
	}
	return nil
}

func conditionLine(res *recommend.Result) string {
	q := res.Query
	budget := q.BudgetYearly()
	return fmt.Sprintf("%s / %d / %s / %d years / annual budget <= %s",
		q.Gender, q.Age, q.Currency, q.PayTerm, FormatAmount(&budget))
}

func amountOrZero(v *float64) string {
	if !present(v) {
		return "0"
	}
	return FormatAmount(v)
}

func addRow(sheet *xlsx.Sheet, values ...string) {
	row := sheet.AddRow()
	for _, v := range values {
		row.AddCell().SetString(v)
	}
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
