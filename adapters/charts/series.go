// Package charts renders the dashboard bar charts with gonum/plot.
package charts

import (
	"errors"
	"fmt"

	"agroprod/domain/production"
)

// Kind names one of the dashboard charts. The value doubles as URL segment.
type Kind string

const (
	KindMeanArea     Kind = "area-media"
	KindMeanYield    Kind = "rendimento-medio"
	KindTopValue     Kind = "top-valor"
	KindProductivity Kind = "produtividade"
	KindEfficiency   Kind = "eficiencia"
)

// Kinds lists every chart in dashboard order.
func Kinds() []Kind {
	return []Kind{KindMeanArea, KindMeanYield, KindTopValue, KindProductivity, KindEfficiency}
}

// ParseKind validates a chart name.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds() {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownChart, s)
}

// ErrUnknownChart is returned for chart names outside Kinds.
var ErrUnknownChart = errors.New("unknown chart")

// Series is the data of one bar chart. Bars are sorted descending. Keys
// whose metric is undefined are not plotted and are listed in Excluded.
type Series struct {
	Kind     Kind      `json:"kind"`
	Title    string    `json:"title"`
	XLabel   string    `json:"x_label"`
	YLabel   string    `json:"y_label"`
	Labels   []string  `json:"labels"`
	Values   []float64 `json:"values"`
	Excluded []string  `json:"excluded,omitempty"`
}

// BuildSeries extracts the series of kind from s.
func BuildSeries(s *production.Summaries, kind Kind) (Series, error) {
	switch kind {
	case KindMeanArea:
		series := Series{Kind: kind, Title: "Área Média Colhida por Município", XLabel: "Município", YLabel: "Área Média Colhida (ha)"}
		for _, m := range production.SortMunicipalities(s.Municipalities, production.ByMeanArea) {
			series.add(m.Municipality, m.MeanArea)
		}
		return series, nil

	case KindMeanYield:
		series := Series{Kind: kind, Title: "Rendimento Médio por Município", XLabel: "Município", YLabel: "Rendimento Médio (kg/ha)"}
		for _, m := range production.SortMunicipalities(s.Municipalities, production.ByMeanYield) {
			series.add(m.Municipality, m.MeanYield)
		}
		return series, nil

	case KindTopValue:
		series := Series{Kind: kind, Title: fmt.Sprintf("Top %d Produtos por Valor de Produção", len(s.TopProductsByValue)), XLabel: "Produto", YLabel: "Valor Total da Produção (R$ 1.000)"}
		for _, p := range s.TopProductsByValue {
			series.add(p.Product, production.NewMetric(p.TotalValue))
		}
		return series, nil

	case KindProductivity:
		series := Series{Kind: kind, Title: "Produtividade Média por Produto", XLabel: "Produto", YLabel: "Produtividade Média (t/ha)"}
		for _, p := range production.SortProducts(s.Products, production.ByProductivity) {
			series.add(p.Product, p.Productivity)
		}
		return series, nil

	case KindEfficiency:
		series := Series{Kind: kind, Title: "Eficiência Econômica por Produto", XLabel: "Produto", YLabel: "Valor por Hectare (R$ 1.000/ha)"}
		for _, p := range production.SortProducts(s.Products, production.ByEfficiency) {
			series.add(p.Product, p.Efficiency)
		}
		return series, nil

	default:
		return Series{}, fmt.Errorf("%w: %q", ErrUnknownChart, kind)
	}
}

func (s *Series) add(label string, m production.Metric) {
	if !m.Defined {
		s.Excluded = append(s.Excluded, label)
		return
	}
	s.Labels = append(s.Labels, label)
	s.Values = append(s.Values, m.Value)
}
