package recommend

import (
	"strings"

	"github.com/sells-group/policy-cli/internal/model"
)

// Age bounds used when a product leaves min_age or max_age blank.
const (
	defaultMinAge = 0
	defaultMaxAge = 200
)

// filterEligibility keeps the products matching the query's currency, pay
// term, and age. It returns fresh working records; the catalog is untouched.
func filterEligibility(products []model.ProductRecord, q model.ClientQuery) []model.WorkingRecord {
	out := make([]model.WorkingRecord, 0, len(products))
	for _, p := range products {
		if !strings.EqualFold(p.Currency, q.Currency) {
			continue
		}
		if p.PayTermYears != q.PayTerm {
			continue
		}
		if !ageEligible(p, q.Age) {
			continue
		}
		out = append(out, model.NewWorkingRecord(p))
	}
	return out
}

func ageEligible(p model.ProductRecord, age int) bool {
	lo, hi := float64(defaultMinAge), float64(defaultMaxAge)
	if p.MinAge != nil {
		lo = *p.MinAge
	}
	if p.MaxAge != nil {
		hi = *p.MaxAge
	}
	a := float64(age)
	return lo <= a && a <= hi
}

// genderEligible passes "ANY", blank limits, and limits containing the
// client's token, ignoring case. A combined limit such as "M/F" passes both
// genders.
func genderEligible(limit string, g model.Gender) bool {
	limit = strings.ToUpper(strings.TrimSpace(limit))
	if limit == "" || limit == "ANY" {
		return true
	}
	return strings.Contains(limit, g.Token())
}

func filterGender(recs []model.WorkingRecord, g model.Gender) []model.WorkingRecord {
	out := recs[:0:0]
	for _, r := range recs {
		if genderEligible(r.GenderLimit, g) {
			out = append(out, r)
		}
	}
	return out
}
