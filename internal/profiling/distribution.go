package profiling

import (
	"github.com/montanaflynn/stats"
)

// Summary holds the descriptive statistics of one numeric column
type Summary struct {
	Mean     float64 `json:"mean"`
	StdDev   float64 `json:"std_dev"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Median   float64 `json:"median"`
	Q1       float64 `json:"q1"`
	Q3       float64 `json:"q3"`
	Outliers int     `json:"outliers"`
}

// DistributionAnalyzer summarizes numeric samples
type DistributionAnalyzer struct{}

// NewDistributionAnalyzer creates a new distribution analyzer
func NewDistributionAnalyzer() *DistributionAnalyzer {
	return &DistributionAnalyzer{}
}

// AnalyzeDistribution computes the summary of data, which must be non-empty
// and free of NaN. Any sample size from one value up is summarized.
func (da *DistributionAnalyzer) AnalyzeDistribution(data []float64) (Summary, error) {
	var s Summary
	var err error

	if s.Mean, err = stats.Mean(data); err != nil {
		return s, err
	}
	// population standard deviation
	if s.StdDev, err = stats.StandardDeviation(data); err != nil {
		return s, err
	}
	if s.Min, err = stats.Min(data); err != nil {
		return s, err
	}
	if s.Max, err = stats.Max(data); err != nil {
		return s, err
	}

	// Tukey hinges: medians of the lower and upper halves
	q, err := stats.Quartile(data)
	if err != nil {
		return s, err
	}
	s.Median = q.Q2
	if len(data) == 1 {
		s.Q1, s.Q3 = data[0], data[0]
	} else {
		s.Q1, s.Q3 = q.Q1, q.Q3
	}
	s.Outliers = countOutliers(data, s.Q1, s.Q3)
	return s, nil
}

// countOutliers counts values beyond 1.5 IQR outside the quartiles
func countOutliers(data []float64, q1, q3 float64) int {
	fence := 1.5 * (q3 - q1)
	n := 0
	for _, x := range data {
		if x < q1-fence || x > q3+fence {
			n++
		}
	}
	return n
}
