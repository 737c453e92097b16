package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

const sampleCSV = `company,product_name,currency,pay_term_years,min_age,max_age,gender_limit,annual_premium_base,premium_multiplier_male,premium_multiplier_female,age_factor_json,cash_value_90_predicted,death_benefit_90_predicted,irr_to_90_predicted,tags,highlight
Alpha Life,Legacy Plus,USD,6,0,75,ANY,10000,1.05,0.95,"{""40-49"": 1.1, ""50-59"": 1.2}",250000,400000,0.025,"legacy,high cash value",flagship product
Beta Life,Shield,TWD,10,,,F,,abc,,,,,,protection,
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
