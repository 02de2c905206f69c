package production

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"

	"agroprod/domain/core"
)

// ComputeSummaries derives every view of the dataset in one pass over its
// groups. It is pure: the same input sequence always yields the same output,
// including tie-breaks, which go to the key seen first in records.
//
// Pipeline: group → aggregate → join → rank.
func ComputeSummaries(records []Record, opts ...Option) (*Summaries, error) {
	if len(records) == 0 {
		return nil, core.ErrEmptyDataset
	}
	cfg := applyOptions(opts)

	municipalities, err := summarizeMunicipalities(records)
	if err != nil {
		return nil, err
	}
	products, err := summarizeProducts(records)
	if err != nil {
		return nil, err
	}

	return &Summaries{
		Municipalities:     municipalities,
		Products:           products,
		TopByQuantity:      topMunicipality(municipalities, func(m MunicipalitySummary) float64 { return m.TotalQuantity }),
		TopByValue:         topMunicipality(municipalities, func(m MunicipalitySummary) float64 { return m.TotalValue }),
		TopProductsByValue: TopProductsByValue(products, cfg.TopN),
		RecordCount:        len(records),
	}, nil
}

// ============================================================================
// GROUPING
// ============================================================================

// groups is an insertion-ordered partition of records by key.
type groups struct {
	order   []string
	members map[string][]Record
}

func groupBy(records []Record, key func(Record) string) groups {
	g := groups{members: make(map[string][]Record)}
	for _, r := range records {
		k := key(r)
		if _, exists := g.members[k]; !exists {
			g.order = append(g.order, k)
		}
		g.members[k] = append(g.members[k], r)
	}
	return g
}

// keyed is one aggregate column: a value per group key, in group order.
type keyed[T any] struct {
	name   string
	order  []string
	values map[string]T
}

func aggregate[T any](name string, g groups, fn func([]Record) T) keyed[T] {
	k := keyed[T]{name: name, order: g.order, values: make(map[string]T, len(g.order))}
	for _, key := range g.order {
		k.values[key] = fn(g.members[key])
	}
	return k
}

// ============================================================================
// AGGREGATION
// ============================================================================

func field(records []Record, get func(Record) float64) []float64 {
	vals := make([]float64, 0, len(records))
	for _, r := range records {
		if v := get(r); !math.IsNaN(v) {
			vals = append(vals, v)
		}
	}
	return vals
}

func sumOf(get func(Record) float64) func([]Record) float64 {
	return func(records []Record) float64 {
		return floats.Sum(field(records, get))
	}
}

func meanOf(get func(Record) float64) func([]Record) Metric {
	return func(records []Record) Metric {
		vals := field(records, get)
		if len(vals) == 0 {
			return UndefinedMetric
		}
		mean, err := stats.Mean(vals)
		if err != nil {
			return UndefinedMetric
		}
		return NewMetric(mean)
	}
}

func quantityOf(r Record) float64 { return r.Quantity }
func areaOf(r Record) float64     { return r.Area }
func yieldOf(r Record) float64    { return r.AverageYield }
func valueOf(r Record) float64    { return r.Value }

// ============================================================================
// JOIN
// ============================================================================

// keySet is the minimal view of an aggregate column needed to check a join.
type keySet interface {
	columnName() string
	has(key string) bool
	keys() []string
}

func (k keyed[T]) columnName() string { return k.name }
func (k keyed[T]) keys() []string     { return k.order }
func (k keyed[T]) has(key string) bool {
	_, ok := k.values[key]
	return ok
}

// checkJoin verifies that every column carries exactly the keys of base.
// Keys compare by exact string equality.
func checkJoin(base keySet, others ...keySet) error {
	for _, other := range others {
		for _, key := range base.keys() {
			if !other.has(key) {
				return core.NewJoinIntegrityError(key, other.columnName())
			}
		}
		for _, key := range other.keys() {
			if !base.has(key) {
				return core.NewJoinIntegrityError(key, base.columnName())
			}
		}
	}
	return nil
}

func summarizeMunicipalities(records []Record) ([]MunicipalitySummary, error) {
	g := groupBy(records, func(r Record) string { return r.Municipality })

	totalQuantity := aggregate("total quantity", g, sumOf(quantityOf))
	meanArea := aggregate("mean area", g, meanOf(areaOf))
	meanYield := aggregate("mean yield", g, meanOf(yieldOf))
	totalValue := aggregate("total value", g, sumOf(valueOf))

	if err := checkJoin(totalQuantity, meanArea, meanYield, totalValue); err != nil {
		return nil, err
	}

	out := make([]MunicipalitySummary, 0, len(totalQuantity.order))
	for _, key := range totalQuantity.order {
		out = append(out, MunicipalitySummary{
			Municipality:  key,
			TotalQuantity: totalQuantity.values[key],
			MeanArea:      meanArea.values[key],
			MeanYield:     meanYield.values[key],
			TotalValue:    totalValue.values[key],
			Records:       len(g.members[key]),
		})
	}
	return out, nil
}

func summarizeProducts(records []Record) ([]ProductSummary, error) {
	g := groupBy(records, func(r Record) string { return r.Product })

	totalQuantity := aggregate("total quantity", g, sumOf(quantityOf))
	totalValue := aggregate("total value", g, sumOf(valueOf))
	totalArea := aggregate("total area", g, sumOf(areaOf))

	if err := checkJoin(totalQuantity, totalValue, totalArea); err != nil {
		return nil, err
	}

	out := make([]ProductSummary, 0, len(totalQuantity.order))
	for _, key := range totalQuantity.order {
		qty, val, area := totalQuantity.values[key], totalValue.values[key], totalArea.values[key]
		out = append(out, ProductSummary{
			Product:       key,
			TotalQuantity: qty,
			TotalValue:    val,
			TotalArea:     area,
			Productivity:  Ratio(qty, area),
			Efficiency:    Ratio(val, area),
			Records:       len(g.members[key]),
		})
	}
	return out, nil
}

// ============================================================================
// RANKING
// ============================================================================

// topMunicipality returns the first municipality holding the maximum metric.
func topMunicipality(ms []MunicipalitySummary, metric func(MunicipalitySummary) float64) MunicipalitySummary {
	if len(ms) == 0 {
		return MunicipalitySummary{}
	}
	best := 0
	for i := 1; i < len(ms); i++ {
		if metric(ms[i]) > metric(ms[best]) {
			best = i
		}
	}
	return ms[best]
}

// TopProductsByValue returns up to n products with the highest total value,
// descending. Ties keep first-occurrence order. The input is not modified.
func TopProductsByValue(products []ProductSummary, n int) []ProductSummary {
	ranked := make([]ProductSummary, len(products))
	copy(ranked, products)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalValue > ranked[j].TotalValue
	})
	if n >= 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
