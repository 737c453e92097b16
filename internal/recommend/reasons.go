package recommend

import (
	"strings"

	"github.com/sells-group/policy-cli/internal/model"
)

// Reason thresholds on the normalized metrics.
const (
	strongFit   = 0.8
	strongRatio = 0.7
	strongCash  = 0.7
	maxReasons  = 3
)

// BalancedReason is given when no individual strength stands out.
const BalancedReason = "balanced overall performance"

// Reasons explains why a ranked record was recommended, strongest signals
// first, with at most three entries.
func Reasons(r model.WorkingRecord) []string {
	var out []string
	if r.FitNorm >= strongFit {
		out = append(out, "strong match with selected goals")
	}
	if r.RatioNorm >= strongRatio {
		out = append(out, "strong coverage-to-premium ratio")
	}
	if r.CashNorm >= strongCash {
		out = append(out, "high long-term cash value")
	}
	if h := strings.TrimSpace(r.Highlight); h != "" {
		out = append(out, h)
	}

	if len(out) == 0 {
		return []string{BalancedReason}
	}
	if len(out) > maxReasons {
		out = out[:maxReasons]
	}
	return out
}
