// Package profiling describes the numeric columns of an uploaded table.
package profiling

import (
	"agroprod/adapters/coercer"
)

// Columnar is a table addressable by column name.
type Columnar interface {
	ColumnNames() []string
	Column(name string) []string
}

// ColumnProfile describes one numeric column. Summary is nil when no cell of
// the column holds a number.
type ColumnProfile struct {
	Name    string   `json:"name"`
	Count   int      `json:"count"`
	Missing int      `json:"missing"`
	Summary *Summary `json:"summary,omitempty"`
}

// DataProfiler profiles every column that is predominantly numeric
type DataProfiler struct {
	coercer  *coercer.TypeCoercer
	analyzer *DistributionAnalyzer
}

// NewDataProfiler creates a new data profiler
func NewDataProfiler(c *coercer.TypeCoercer) *DataProfiler {
	if c == nil {
		c = coercer.Default()
	}
	return &DataProfiler{
		coercer:  c,
		analyzer: NewDistributionAnalyzer(),
	}
}

// ProfileColumn summarizes the numeric cells of one column. Cells that are
// missing or not numeric count as missing.
func (dp *DataProfiler) ProfileColumn(name string, cells []string) ColumnProfile {
	profile := ColumnProfile{Name: name}

	values := make([]float64, 0, len(cells))
	for _, cell := range cells {
		if v, ok := dp.coercer.Float(cell); ok {
			values = append(values, v)
		} else {
			profile.Missing++
		}
	}
	profile.Count = len(values)

	if len(values) > 0 {
		if summary, err := dp.analyzer.AnalyzeDistribution(values); err == nil {
			profile.Summary = &summary
		}
	}
	return profile
}

// ProfileDataset profiles the numeric columns of t in header order. A name
// repeated in the header is profiled once.
func (dp *DataProfiler) ProfileDataset(t Columnar) []ColumnProfile {
	var profiles []ColumnProfile
	for _, name := range dp.numericColumns(t) {
		profiles = append(profiles, dp.ProfileColumn(name, t.Column(name)))
	}
	return profiles
}

// numericColumns lists the distinct predominantly numeric columns of t in
// header order
func (dp *DataProfiler) numericColumns(t Columnar) []string {
	var names []string
	seen := make(map[string]bool)
	for _, name := range t.ColumnNames() {
		if seen[name] {
			continue
		}
		seen[name] = true
		if dp.coercer.AnalyzeColumn(t.Column(name)).Numeric {
			names = append(names, name)
		}
	}
	return names
}
