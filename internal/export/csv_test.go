package export

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bom = "\ufeff"

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleResult().Records))

	out := buf.String()
	require.True(t, strings.HasPrefix(out, bom), "output starts with a byte-order mark")

	rows, err := csv.NewReader(strings.NewReader(strings.TrimPrefix(out, bom))).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, csvColumns, rows[0])

	col := func(name string) int {
		for i, c := range csvColumns {
			if c == name {
				return i
			}
		}
		t.Fatalf("unknown column %s", name)
		return -1
	}

	assert.Equal(t, "Alpha Life", rows[1][col("company")])
	assert.Equal(t, "11550", rows[1][col("annual_premium")])
	assert.Equal(t, "2.5", rows[1][col("irr_pct")])
	assert.Equal(t, "74", rows[1][col("score")])
	assert.Equal(t, "", rows[2][col("coverage_premium_ratio")], "missing values are empty cells")
	assert.Equal(t, "12.5", rows[2][col("score")])
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))

	rows, err := csv.NewReader(strings.NewReader(strings.TrimPrefix(buf.String(), bom))).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestExportCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultCSVName)
	require.NoError(t, ExportCSV(sampleResult().Records, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}))
	assert.Contains(t, string(data), "Legacy Plus")
}

func TestExportCSV_BadPath(t *testing.T) {
	err := ExportCSV(nil, filepath.Join(t.TempDir(), "missing", "out.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "export: create file")
}
