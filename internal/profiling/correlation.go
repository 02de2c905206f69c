package profiling

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// minCorrelationPairs is the smallest sample a correlation is reported for
const minCorrelationPairs = 3

// Correlation is the Spearman rank correlation between two numeric columns,
// computed over the rows where both cells are numbers.
type Correlation struct {
	X      string  `json:"x"`
	Y      string  `json:"y"`
	Rho    float64 `json:"rho"`
	PValue float64 `json:"p_value"`
	N      int     `json:"n"`
}

// Correlations returns the rank correlation of every pair of numeric columns
// of t, in header order. Pairs with fewer than three complete rows or with a
// constant column are left out.
func (dp *DataProfiler) Correlations(t Columnar) []Correlation {
	type column struct {
		name   string
		values []float64
	}

	var cols []column
	for _, name := range dp.numericColumns(t) {
		cells := t.Column(name)
		values := make([]float64, len(cells))
		for i, cell := range cells {
			if v, ok := dp.coercer.Float(cell); ok {
				values[i] = v
			} else {
				values[i] = math.NaN()
			}
		}
		cols = append(cols, column{name: name, values: values})
	}

	var out []Correlation
	for i := 0; i < len(cols); i++ {
		for j := i + 1; j < len(cols); j++ {
			if c, ok := spearman(cols[i].values, cols[j].values); ok {
				c.X, c.Y = cols[i].name, cols[j].name
				out = append(out, c)
			}
		}
	}
	return out
}

// spearman computes rho as the Pearson correlation of average ranks and a
// two-sided p-value from Student's t.
func spearman(x, y []float64) (Correlation, bool) {
	var xs, ys []float64
	for i := range x {
		if i < len(y) && !math.IsNaN(x[i]) && !math.IsNaN(y[i]) {
			xs = append(xs, x[i])
			ys = append(ys, y[i])
		}
	}
	n := len(xs)
	if n < minCorrelationPairs {
		return Correlation{}, false
	}

	rho := stat.Correlation(ranks(xs), ranks(ys), nil)
	if math.IsNaN(rho) {
		return Correlation{}, false
	}
	rho = math.Max(-1, math.Min(1, rho))

	c := Correlation{Rho: rho, N: n}
	if math.Abs(rho) == 1 {
		return c, true
	}
	df := float64(n - 2)
	t := rho * math.Sqrt(df/(1-rho*rho))
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	c.PValue = 2 * (1 - dist.CDF(math.Abs(t)))
	return c, true
}

// ranks converts values to 1-based ranks, averaging tied groups
func ranks(data []float64) []float64 {
	idx := make([]int, len(data))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return data[idx[a]] < data[idx[b]] })

	out := make([]float64, len(data))
	for i := 0; i < len(idx); {
		j := i + 1
		for j < len(idx) && data[idx[j]] == data[idx[i]] {
			j++
		}
		avg := float64(i+1) + float64(j-i-1)/2
		for k := i; k < j; k++ {
			out[idx[k]] = avg
		}
		i = j
	}
	return out
}
