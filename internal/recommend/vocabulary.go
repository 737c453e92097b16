package recommend

import (
	"os"
	"slices"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Vocabulary holds the literal marker strings the fit scorer searches for in
// product tags and highlights. Matching is case-sensitive substring search.
type Vocabulary struct {
	// Purposes is the fixed multi-select list offered to clients.
	Purposes []string `yaml:"purposes" json:"purposes"`
	// HighCashMarker earns a point when the client needs high cash value.
	HighCashMarker string `yaml:"high_cash_marker" json:"high_cash_marker"`
	// BrandMarkers earn a point when the client prefers large brands.
	BrandMarkers []string `yaml:"brand_markers" json:"brand_markers"`
}

// DefaultVocabulary returns the built-in marker vocabulary.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Purposes: []string{
			"retirement",
			"protection",
			"legacy",
			"asset allocation",
			"high cash value",
		},
		HighCashMarker: "high cash value",
		BrandMarkers:   []string{"brand", "flagship", "large"},
	}
}

// LoadVocabulary reads a YAML vocabulary file. An empty path returns the
// built-in vocabulary; fields missing from the file keep their defaults.
func LoadVocabulary(path string) (Vocabulary, error) {
	v := DefaultVocabulary()
	if path == "" {
		return v, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Vocabulary{}, eris.Wrapf(err, "recommend: read vocabulary %s", path)
	}

	var file Vocabulary
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Vocabulary{}, eris.Wrapf(err, "recommend: parse vocabulary %s", path)
	}

	if len(file.Purposes) > 0 {
		v.Purposes = file.Purposes
	}
	if file.HighCashMarker != "" {
		v.HighCashMarker = file.HighCashMarker
	}
	if len(file.BrandMarkers) > 0 {
		v.BrandMarkers = file.BrandMarkers
	}
	return v, nil
}

// Known reports whether purpose is one of the vocabulary's purposes.
func (v Vocabulary) Known(purpose string) bool {
	return slices.Contains(v.Purposes, purpose)
}
