package recommend

import (
	"strings"

	"github.com/sells-group/policy-cli/internal/model"
)

// fitText joins a product's comma-separated tags and its highlight into the
// blob the markers are searched in.
func fitText(p model.ProductRecord) string {
	tags := strings.Split(p.Tags, ",")
	return strings.Join(tags, " ") + " " + p.Highlight
}

// fitScore counts the purpose and preference markers found in a product's
// text, caps the count at fitCap, and scales it to [0,1].
func fitScore(p model.ProductRecord, q model.ClientQuery, vocab Vocabulary, fitCap int) float64 {
	if fitCap <= 0 {
		return 0
	}
	text := fitText(p)

	score := 0
	for _, purpose := range q.Purposes {
		if purpose != "" && strings.Contains(text, purpose) {
			score++
		}
	}
	if q.NeedHighCash && vocab.HighCashMarker != "" && strings.Contains(text, vocab.HighCashMarker) {
		score++
	}
	if q.PreferBigBrand && containsAny(text, vocab.BrandMarkers) {
		score++
	}

	return float64(min(score, fitCap)) / float64(fitCap)
}

func containsAny(text string, markers []string) bool {
	for _, m := range markers {
		if m != "" && strings.Contains(text, m) {
			return true
		}
	}
	return false
}
