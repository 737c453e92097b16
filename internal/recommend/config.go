// Package recommend implements the product recommendation pipeline: hard
// eligibility filters, premium pricing, scenario metric derivation, purpose
// fit scoring, normalization, and weighted ranking.
package recommend

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/policy-cli/internal/config"
	"github.com/sells-group/policy-cli/internal/model"
)

// DefaultScoringConfig returns a config.ScoringConfig with the standard
// weights and scales. Weights sum to 100.
func DefaultScoringConfig() config.ScoringConfig {
	return config.ScoringConfig{
		Weights: config.WeightsConfig{Fit: 30, Ratio: 25, Cash: 25, IRR: 20},

		// 10% allowance above the yearly budget.
		BudgetTolerance: 1.10,

		// Fixed IRR percentage scale: -5% scores 0, 15% scores 1.
		IRRScaleMin: -5,
		IRRScaleMax: 15,

		FitCap:     5,
		TopN:       3,
		ReportRows: 6,
	}
}

// DefaultWeights converts the configured weights to query weights.
func DefaultWeights(c config.ScoringConfig) model.Weights {
	return model.Weights{
		Fit:   c.Weights.Fit,
		Ratio: c.Weights.Ratio,
		Cash:  c.Weights.Cash,
		IRR:   c.Weights.IRR,
	}
}

// ValidateConfig checks that a ScoringConfig is internally consistent.
// Unlike query weights, configured defaults must sum to 100.
func ValidateConfig(c config.ScoringConfig) error {
	var errs []string

	weights := []struct {
		name string
		w    int
	}{
		{"scoring.weights.fit", c.Weights.Fit},
		{"scoring.weights.ratio", c.Weights.Ratio},
		{"scoring.weights.cash", c.Weights.Cash},
		{"scoring.weights.irr", c.Weights.IRR},
	}
	for _, w := range weights {
		if w.w < 0 || w.w > 100 {
			errs = append(errs, fmt.Sprintf("%s must be between 0 and 100", w.name))
		}
	}
	if sum := DefaultWeights(c).Sum(); sum != 100 {
		errs = append(errs, fmt.Sprintf("scoring weights should sum to 100, got %d", sum))
	}

	if c.BudgetTolerance < 1 {
		errs = append(errs, "scoring.budget_tolerance must be >= 1")
	}
	if c.IRRScaleMax <= c.IRRScaleMin {
		errs = append(errs, "scoring.irr_scale_max must be > scoring.irr_scale_min")
	}
	if c.FitCap <= 0 {
		errs = append(errs, "scoring.fit_cap must be > 0")
	}
	if c.TopN < 0 {
		errs = append(errs, "scoring.top_n must be >= 0")
	}
	if c.ReportRows < 0 {
		errs = append(errs, "scoring.report_rows must be >= 0")
	}

	if len(errs) > 0 {
		return eris.Errorf("recommend: config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
