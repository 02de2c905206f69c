package ui

import (
	"net/url"

	"agroprod/adapters/charts"
	"agroprod/app"
	"agroprod/domain/production"
	"agroprod/internal/profiling"
)

// rawRowLimit caps the raw data table; the workbook export carries every row.
const rawRowLimit = 500

type sortOption struct {
	Key    production.MunicipalitySort
	Label  string
	Active bool
}

type chartView struct {
	Kind     charts.Kind
	Title    string
	URL      string
	Excluded []string
}

type municipalityView struct {
	Loaded  bool
	Name    string
	Records []production.Record
}

type dashboardView struct {
	Title       string
	Error       string
	MaxUploadMB int64

	Dataset        *app.Dataset
	Summaries      *production.Summaries
	Sort           production.MunicipalitySort
	SortOptions    []sortOption
	Municipalities []production.MunicipalitySummary
	Products       []production.ProductSummary
	Productivity   []production.ProductSummary
	Efficiency     []production.ProductSummary
	Charts         []chartView

	Picker    []string
	Selection municipalityView

	Headers      []string
	Rows         [][]string
	TotalRows    int
	Truncated    bool
	Profiles     []profiling.ColumnProfile
	Correlations []profiling.Correlation
}

func (s *Server) newDashboardView(ds *app.Dataset, sortParam, selected string) dashboardView {
	view := dashboardView{
		Title:       "Análise de Produção Agrícola",
		MaxUploadMB: s.maxUploadBytes >> 20,
	}
	if ds == nil {
		return view
	}

	sum := ds.Summaries
	view.Dataset = ds
	view.Summaries = sum
	view.Sort = production.ParseMunicipalitySort(sortParam)
	for _, key := range []production.MunicipalitySort{
		production.ByTotalQuantity, production.ByMeanArea, production.ByMeanYield, production.ByTotalValue,
	} {
		view.SortOptions = append(view.SortOptions, sortOption{Key: key, Label: sortLabel(key), Active: key == view.Sort})
	}
	view.Municipalities = production.SortMunicipalities(sum.Municipalities, view.Sort)
	view.Products = production.SortProducts(sum.Products, production.ByProductValue)
	view.Productivity = production.SortProducts(sum.Products, production.ByProductivity)
	view.Efficiency = production.SortProducts(sum.Products, production.ByEfficiency)

	for _, kind := range charts.Kinds() {
		series, err := charts.BuildSeries(sum, kind)
		if err != nil {
			continue
		}
		view.Charts = append(view.Charts, chartView{
			Kind:     kind,
			Title:    series.Title,
			URL:      "/charts/" + string(kind) + "?v=" + url.QueryEscape(ds.Fingerprint.Short()),
			Excluded: series.Excluded,
		})
	}

	view.Picker = ds.Municipalities()
	if selected == "" && len(view.Picker) > 0 {
		selected = view.Picker[0]
	}
	view.Selection = municipalityView{Loaded: true, Name: selected, Records: ds.RecordsFor(selected)}

	if ds.Table != nil {
		view.Headers = ds.Table.Headers
		view.TotalRows = len(ds.Table.Rows)
		view.Rows = ds.Table.Rows
		if len(view.Rows) > rawRowLimit {
			view.Rows = view.Rows[:rawRowLimit]
			view.Truncated = true
		}
	}
	view.Profiles = ds.Profiles
	view.Correlations = ds.Correlations
	return view
}
