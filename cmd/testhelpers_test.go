package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sells-group/policy-cli/internal/config"
	"github.com/sells-group/policy-cli/internal/recommend"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

const testCatalogCSV = `company,product_name,currency,pay_term_years,min_age,max_age,gender_limit,annual_premium_base,premium_multiplier_male,premium_multiplier_female,age_factor_json,cash_value_90_predicted,death_benefit_90_predicted,irr_to_90_predicted,tags,highlight
Alpha Life,Legacy Plus,USD,6,0,75,ANY,10000,1.0,1.0,"{""40-49"": 1.1}",250000,400000,0.025,"legacy,high cash value",flagship product
Beta Life,Shield,USD,6,0,80,ANY,9000,1.0,1.0,,150000,600000,0.015,protection,
Gamma Life,Saver,TWD,10,0,70,F,300000,1.0,1.0,,9000000,12000000,0.02,retirement,
`

// setTestConfig points the global config at a temporary CSV catalog and
// restores the previous config when the test ends.
func setTestConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "products.csv")
	require.NoError(t, os.WriteFile(path, []byte(testCatalogCSV), 0o644))

	prev := cfg
	cfg = &config.Config{
		Catalog: config.CatalogConfig{Source: config.SourceCSV, Path: path},
		Scoring: recommend.DefaultScoringConfig(),
		Server:  config.ServerConfig{Port: 8080, CORSOrigins: []string{"*"}},
		Log:     config.LogConfig{Level: "info", Format: "json"},
	}
	t.Cleanup(func() { cfg = prev })
	return path
}
