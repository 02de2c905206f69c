package production

import (
	"encoding/json"
	"math"
)

// Metric is a derived number that may be undefined, e.g. a ratio whose
// denominator is zero or a mean over no observations. An undefined Metric
// never carries a usable Value and must be labelled distinctly from zero.
type Metric struct {
	Value   float64
	Defined bool
}

// UndefinedMetric is the sentinel for a value that cannot be computed.
var UndefinedMetric = Metric{Value: math.NaN()}

// NewMetric wraps a computed value.
func NewMetric(v float64) Metric {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return UndefinedMetric
	}
	return Metric{Value: v, Defined: true}
}

// Ratio divides num by den, returning UndefinedMetric when den is zero.
func Ratio(num, den float64) Metric {
	if den == 0 {
		return UndefinedMetric
	}
	return NewMetric(num / den)
}

// MarshalJSON encodes an undefined metric as null.
func (m Metric) MarshalJSON() ([]byte, error) {
	if !m.Defined {
		return []byte("null"), nil
	}
	return json.Marshal(m.Value)
}

// UnmarshalJSON accepts a number or null.
func (m *Metric) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*m = UndefinedMetric
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*m = NewMetric(v)
	return nil
}
