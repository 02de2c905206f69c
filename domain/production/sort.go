package production

import "sort"

// MunicipalitySort selects the column a municipality table is ordered by.
type MunicipalitySort string

const (
	ByTotalQuantity MunicipalitySort = "quantidade"
	ByMeanArea      MunicipalitySort = "area"
	ByMeanYield     MunicipalitySort = "rendimento"
	ByTotalValue    MunicipalitySort = "valor"
)

// ParseMunicipalitySort maps a query parameter to a sort key, defaulting to
// total quantity.
func ParseMunicipalitySort(s string) MunicipalitySort {
	switch MunicipalitySort(s) {
	case ByMeanArea, ByMeanYield, ByTotalValue:
		return MunicipalitySort(s)
	default:
		return ByTotalQuantity
	}
}

// ProductSort selects the column a product table is ordered by.
type ProductSort string

const (
	ByProductValue ProductSort = "valor"
	ByProductivity ProductSort = "produtividade"
	ByEfficiency   ProductSort = "eficiencia"
)

// SortMunicipalities returns a copy ordered descending by the given column.
// Undefined metrics sort last; ties keep their original order.
func SortMunicipalities(ms []MunicipalitySummary, by MunicipalitySort) []MunicipalitySummary {
	out := make([]MunicipalitySummary, len(ms))
	copy(out, ms)

	var less func(a, b MunicipalitySummary) bool
	switch by {
	case ByMeanArea:
		less = func(a, b MunicipalitySummary) bool { return metricDesc(a.MeanArea, b.MeanArea) }
	case ByMeanYield:
		less = func(a, b MunicipalitySummary) bool { return metricDesc(a.MeanYield, b.MeanYield) }
	case ByTotalValue:
		less = func(a, b MunicipalitySummary) bool { return a.TotalValue > b.TotalValue }
	default:
		less = func(a, b MunicipalitySummary) bool { return a.TotalQuantity > b.TotalQuantity }
	}

	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// SortProducts returns a copy ordered descending by the given column.
// Undefined metrics sort last; ties keep their original order.
func SortProducts(ps []ProductSummary, by ProductSort) []ProductSummary {
	out := make([]ProductSummary, len(ps))
	copy(out, ps)

	var less func(a, b ProductSummary) bool
	switch by {
	case ByProductivity:
		less = func(a, b ProductSummary) bool { return metricDesc(a.Productivity, b.Productivity) }
	case ByEfficiency:
		less = func(a, b ProductSummary) bool { return metricDesc(a.Efficiency, b.Efficiency) }
	default:
		less = func(a, b ProductSummary) bool { return a.TotalValue > b.TotalValue }
	}

	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

func metricDesc(a, b Metric) bool {
	switch {
	case a.Defined && b.Defined:
		return a.Value > b.Value
	case a.Defined:
		return true
	default:
		return false
	}
}
