package recommend

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeMinMax(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		values []*float64
		want   []float64
	}{
		{"spread", []*float64{ptr(2), ptr(4), ptr(6)}, []float64{0, 0.5, 1}},
		{"constant", []*float64{ptr(3), ptr(3)}, []float64{0, 0}},
		{"single value", []*float64{ptr(7)}, []float64{0}},
		{"all missing", []*float64{nil, nil}, []float64{0, 0}},
		{"empty", []*float64{}, []float64{}},
		{"missing reads zero", []*float64{ptr(10), nil, ptr(20)}, []float64{0, 0, 1}},
		{"infinite excluded", []*float64{ptr(math.Inf(1)), ptr(1), ptr(3)}, []float64{0, 0, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := normalizeMinMax(tt.values)
			assert.InDeltaSlice(t, tt.want, got, 1e-9)
		})
	}
}

func TestNormalizeIRR(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		pct  *float64
		want float64
	}{
		{"floor", ptr(-5), 0},
		{"ceiling", ptr(15), 1},
		{"midpoint", ptr(5), 0.5},
		{"clamped above", ptr(22), 1},
		{"clamped below", ptr(-12), 0},
		{"missing", nil, 0},
		{"nan", ptr(math.NaN()), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, normalizeIRR(tt.pct, -5, 15), 1e-9)
		})
	}
}

func TestNormalizeIRR_Monotonic(t *testing.T) {
	t.Parallel()

	prev := -1.0
	for pct := -10.0; pct <= 20; pct += 0.5 {
		got := normalizeIRR(ptr(pct), -5, 15)
		assert.GreaterOrEqual(t, got, prev)
		prev = got
	}
}
