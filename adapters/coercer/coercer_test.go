package coercer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in     string
		want   float64
		wantOK bool
	}{
		{"42", 42, true},
		{"  42.5 ", 42.5, true},
		{"-3", -3, true},
		{"(123)", -123, true},
		{"1,234.56", 1234.56, true},
		{"1.234,56", 1234.56, true},
		{"1 234,5", 1234.5, true},
		{"1,5", 1.5, true},
		{"1,234,567", 1234567, true},
		{"1.234.567", 1234567, true},
		{"R$ 1.500,00", 1500, true},
		{"12%", 12, true},
		{"1e3", 1000, true},
		{"", 0, false},
		{"abc", 0, false},
		{"12abc", 0, false},
		{"Inf", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseNumber(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.InDelta(t, tt.want, got, 1e-9)
			}
		})
	}
}

func TestTypeCoercer_Float(t *testing.T) {
	c := Default()

	for _, marker := range []string{"", " ", "-", "...", "..", "X", "x", "NA", "nan", "N/A"} {
		v, ok := c.Float(marker)
		assert.False(t, ok, "marker %q", marker)
		assert.True(t, math.IsNaN(v), "marker %q", marker)
	}

	v, ok := c.Float("2000")
	assert.True(t, ok)
	assert.Equal(t, 2000.0, v)

	v, ok = c.Float("n.d.")
	assert.False(t, ok)
	assert.True(t, math.IsNaN(v))
}

func TestTypeCoercer_AnalyzeColumn(t *testing.T) {
	c := Default()

	numeric := c.AnalyzeColumn([]string{"1", "2", "-", "3,5", "..."})
	assert.Equal(t, 5, numeric.TotalCount)
	assert.Equal(t, 2, numeric.MissingCount)
	assert.Equal(t, 3, numeric.NumericCount)
	assert.True(t, numeric.Numeric)

	text := c.AnalyzeColumn([]string{"Recife", "Olinda", "3"})
	assert.False(t, text.Numeric)

	empty := c.AnalyzeColumn([]string{"", "-"})
	assert.False(t, empty.Numeric)
}
