package catalog

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/sells-group/policy-cli/internal/model"
)

// ParseAgeFactors parses an age_factor_json cell such as
// {"40-49": 1.1, "50-59": 1.2} into bands, preserving key order so that the
// first matching band wins at lookup. Malformed entries are skipped one by
// one; a cell that is not a JSON object yields no bands at all.
func ParseAgeFactors(raw string) []model.AgeBand {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil
	}

	var bands []model.AgeBand
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return bands
		}
		key, _ := keyTok.(string)

		var value any
		if err := dec.Decode(&value); err != nil {
			return bands
		}

		low, high, ok := parseAgeRange(key)
		if !ok {
			continue
		}
		factor, ok := factorValue(value)
		if !ok {
			continue
		}
		bands = append(bands, model.AgeBand{Low: low, High: high, Factor: factor})
	}
	return bands
}

// parseAgeRange splits a "<int>-<int>" key.
func parseAgeRange(key string) (int, int, bool) {
	lo, hi, found := strings.Cut(key, "-")
	if !found || strings.Contains(hi, "-") {
		return 0, 0, false
	}
	low, err := strconv.Atoi(strings.TrimSpace(lo))
	if err != nil {
		return 0, 0, false
	}
	high, err := strconv.Atoi(strings.TrimSpace(hi))
	if err != nil {
		return 0, 0, false
	}
	return low, high, true
}

// factorValue accepts JSON numbers and numeric strings.
func factorValue(v any) (float64, bool) {
	switch t := v.(type) {
	case json.Number:
		f, err := t.Float64()
		return f, err == nil && finite(f)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil && finite(f)
	default:
		return 0, false
	}
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
