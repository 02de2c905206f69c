// Package coercer turns spreadsheet cell text into numbers.
package coercer

import (
	"math"
	"strconv"
	"strings"
)

// TypeCoercer handles deterministic numeric coercion of raw cell text
type TypeCoercer struct {
	config CoercionConfig
}

// CoercionConfig defines the coercion thresholds and rules
type CoercionConfig struct {
	NumericThreshold float64  `json:"numeric_threshold"` // share of non-missing values that must parse as numbers
	MissingMarkers   []string `json:"missing_markers"`   // cell texts that mean "no data", compared case-insensitively
}

// DefaultCoercionConfig returns the defaults used for production tables.
// The markers cover the conventions of Brazilian statistical tables
// ("-" for zero/absent, "..." and ".." for not available, "X" for withheld).
func DefaultCoercionConfig() CoercionConfig {
	return CoercionConfig{
		NumericThreshold: 0.8,
		MissingMarkers:   []string{"", "-", "...", "..", "x", "na", "n/a", "nan"},
	}
}

// NewTypeCoercer creates a coercer with the given config
func NewTypeCoercer(config CoercionConfig) *TypeCoercer {
	return &TypeCoercer{config: config}
}

// Default returns a coercer using DefaultCoercionConfig.
func Default() *TypeCoercer {
	return NewTypeCoercer(DefaultCoercionConfig())
}

// IsMissing reports whether the cell is one of the missing markers.
func (c *TypeCoercer) IsMissing(raw string) bool {
	s := strings.ToLower(strings.TrimSpace(raw))
	for _, m := range c.config.MissingMarkers {
		if s == m {
			return true
		}
	}
	return false
}

// Float parses raw as a number. Missing markers and unparseable text yield
// NaN; ok is false in both cases.
func (c *TypeCoercer) Float(raw string) (v float64, ok bool) {
	if c.IsMissing(raw) {
		return math.NaN(), false
	}
	if v, ok := ParseNumber(raw); ok {
		return v, true
	}
	return math.NaN(), false
}

// ParseNumber parses a number written in either international or Brazilian
// notation: parentheses for negatives, "." or "," as thousands separators,
// "," as decimal separator, optional currency prefix and percent sign.
func ParseNumber(strVal string) (float64, bool) {
	cleanVal := strings.TrimSpace(strVal)
	if cleanVal == "" {
		return 0, false
	}

	// Handle parentheses for negative numbers: (123) -> -123
	isNegative := false
	if strings.HasPrefix(cleanVal, "(") && strings.HasSuffix(cleanVal, ")") {
		cleanVal = strings.TrimSuffix(strings.TrimPrefix(cleanVal, "("), ")")
		isNegative = true
	}

	for _, symbol := range []string{"R$", "$", "€", "%"} {
		cleanVal = strings.ReplaceAll(cleanVal, symbol, "")
	}
	cleanVal = strings.TrimSpace(cleanVal)
	// non-breaking spaces show up as thousands separators in exported sheets
	cleanVal = strings.ReplaceAll(cleanVal, "\u00a0", " ")

	hasComma := strings.Contains(cleanVal, ",")
	hasPeriod := strings.Contains(cleanVal, ".")
	hasSpace := strings.Contains(cleanVal, " ")

	switch {
	case hasComma && (hasPeriod || hasSpace):
		commaIdx := strings.LastIndex(cleanVal, ",")
		periodIdx := strings.LastIndex(cleanVal, ".")
		if commaIdx > periodIdx && allDigits(cleanVal[commaIdx+1:]) {
			// 1.234,56 or 1 234,56
			cleanVal = strings.ReplaceAll(cleanVal, ".", "")
			cleanVal = strings.ReplaceAll(cleanVal, " ", "")
			cleanVal = strings.ReplaceAll(cleanVal, ",", ".")
		} else {
			// 1,234.56
			cleanVal = strings.ReplaceAll(cleanVal, ",", "")
			cleanVal = strings.ReplaceAll(cleanVal, " ", "")
		}
	case hasComma:
		if strings.Count(cleanVal, ",") > 1 {
			cleanVal = strings.ReplaceAll(cleanVal, ",", "")
		} else {
			cleanVal = strings.ReplaceAll(cleanVal, ",", ".")
		}
	case strings.Count(cleanVal, ".") > 1:
		// 1.234.567
		cleanVal = strings.ReplaceAll(cleanVal, ".", "")
		cleanVal = strings.ReplaceAll(cleanVal, " ", "")
	default:
		cleanVal = strings.ReplaceAll(cleanVal, " ", "")
	}

	if isNegative {
		cleanVal = "-" + cleanVal
	}

	val, err := strconv.ParseFloat(cleanVal, 64)
	if err != nil || math.IsInf(val, 0) || math.IsNaN(val) {
		return 0, false
	}
	return val, true
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// AnalyzeColumn counts how many cells of a column parse as numbers.
func (c *TypeCoercer) AnalyzeColumn(values []string) TypeAnalysis {
	analysis := TypeAnalysis{TotalCount: len(values)}
	for _, v := range values {
		if c.IsMissing(v) {
			analysis.MissingCount++
			continue
		}
		if _, ok := ParseNumber(v); ok {
			analysis.NumericCount++
		}
	}

	valid := analysis.TotalCount - analysis.MissingCount
	if valid > 0 {
		analysis.NumericRatio = float64(analysis.NumericCount) / float64(valid)
	}
	analysis.Numeric = valid > 0 && analysis.NumericRatio >= c.config.NumericThreshold
	return analysis
}

// TypeAnalysis contains the results of a column type analysis
type TypeAnalysis struct {
	TotalCount   int     `json:"total_count"`
	MissingCount int     `json:"missing_count"`
	NumericCount int     `json:"numeric_count"`
	NumericRatio float64 `json:"numeric_ratio"`
	Numeric      bool    `json:"numeric"`
}
