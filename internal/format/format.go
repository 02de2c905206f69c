// Package format renders numbers the way the dashboard shows them: Brazilian
// Portuguese separators and an explicit label for undefined metrics.
package format

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"agroprod/domain/production"
)

// Undefined labels a metric that could not be computed.
const Undefined = "indefinido"

var printer = message.NewPrinter(language.BrazilianPortuguese)

// Number formats v with the given number of decimals, e.g. 1234.5 → "1.234,50".
// NaN renders as Undefined.
func Number(v float64, decimals int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Undefined
	}
	return printer.Sprint(number.Decimal(v, number.Scale(decimals)))
}

// Metric formats a metric, rendering undefined ones as Undefined.
func Metric(m production.Metric, decimals int) string {
	if !m.Defined {
		return Undefined
	}
	return Number(m.Value, decimals)
}

// Integer formats v with thousands separators and no decimals.
func Integer(v int) string {
	return printer.Sprint(number.Decimal(v))
}
