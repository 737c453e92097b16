package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

func sheetStrings(t *testing.T, sheet *xlsx.Sheet) [][]string {
	t.Helper()
	var out [][]string
	for _, row := range sheet.Rows {
		var cells []string
		for _, c := range row.Cells {
			cells = append(cells, c.String())
		}
		out = append(out, cells)
	}
	return out
}

func TestBuildReport(t *testing.T) {
	at := time.Date(2026, 3, 14, 9, 26, 0, 0, time.UTC)
	f, err := BuildReport(sampleResult(), ReportOptions{TopN: 3, Rows: 6, GeneratedAt: at})
	require.NoError(t, err)

	summary := sheetStrings(t, f.Sheet[SummarySheet])
	assert.Equal(t, []string{"Generated", "2026-03-14 09:26"}, summary[1])
	assert.Equal(t, []string{"Conditions", "female / 45 / USD / 6 years / annual budget <= 480,000"}, summary[2])
	assert.Equal(t, []string{"Top 3"}, summary[4])
	assert.Equal(t, []string{"Alpha Life | Legacy Plus | score 74.00 | flagship product"}, summary[5])
	assert.Equal(t, []string{"Beta Life | Shield | score 12.50 | "}, summary[6])

	cmp := sheetStrings(t, f.Sheet[ComparisonSheet])
	require.Len(t, cmp, 3)
	assert.Equal(t, []string{"Company", "Product", "Term", "Annual", "Total", "Cash 90", "Death 90", "IRR%"}, cmp[0])
	assert.Equal(t, []string{"Alpha Life", "Legacy Plus", "6", "11,550", "69,300", "250,000", "1,400,000", "2.50"}, cmp[1])
	assert.Equal(t, []string{"Beta Life", "Shield", "6", "9,500", "57,000", "0", "0", "-"}, cmp[2])
}

func TestBuildReport_RowLimit(t *testing.T) {
	f, err := BuildReport(sampleResult(), ReportOptions{TopN: 1, Rows: 1})
	require.NoError(t, err)

	assert.Len(t, f.Sheet[ComparisonSheet].Rows, 2, "header plus one row")
}

func TestBuildReport_LongHighlightTruncated(t *testing.T) {
	res := sampleResult()
	res.Records[0].Highlight = "a highlight that runs well past the forty character limit"

	f, err := BuildReport(res, ReportOptions{TopN: 1, Rows: 6})
	require.NoError(t, err)

	line := f.Sheet[SummarySheet].Rows[5].Cells[0].String()
	assert.Equal(t, "Alpha Life | Legacy Plus | score 74.00 | a highlight that runs well past the fort", line)
}

func TestWriteReport_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, sampleResult(), ReportOptions{TopN: 3, Rows: 6, GeneratedAt: time.Now()}))

	f, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, f.Sheets, 2)
	assert.Equal(t, SummarySheet, f.Sheets[0].Name)
	assert.Equal(t, ComparisonSheet, f.Sheets[1].Name)
}

func TestReportName(t *testing.T) {
	at := time.Date(2026, 10, 16, 8, 5, 0, 0, time.UTC)
	assert.Equal(t, "Insurance_Recommendation_20261016_0805.xlsx", ReportName(at))
}
