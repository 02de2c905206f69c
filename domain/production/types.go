// Package production holds the agricultural production records and the
// aggregation engine that derives per-municipality and per-product views.
package production

import (
	"encoding/json"
	"math"
)

// Required source columns, matched literally after header trimming.
const (
	ColumnMunicipality = "nome"
	ColumnProduct      = "prod"
	ColumnQuantity     = "quant"
	ColumnArea         = "area"
	ColumnAverageYield = "rend_med"
	ColumnValue        = "valor"
)

// RequiredColumns lists the columns every dataset must carry, in display order.
var RequiredColumns = []string{
	ColumnMunicipality,
	ColumnProduct,
	ColumnQuantity,
	ColumnArea,
	ColumnAverageYield,
	ColumnValue,
}

// DefaultTopN is the size of the top products by value ranking.
const DefaultTopN = 5

// Record is one row of the source table.
//
// Numeric fields are NaN when the source cell was blank or not numeric.
// Aggregations skip NaN values.
type Record struct {
	Municipality string  `json:"nome"`
	Product      string  `json:"prod"`
	Quantity     float64 `json:"quant"`    // tonnes
	Area         float64 `json:"area"`     // hectares
	AverageYield float64 `json:"rend_med"` // kg/ha, as reported
	Value        float64 `json:"valor"`    // R$ thousands
}

// MarshalJSON encodes missing numeric cells as null.
func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Municipality string   `json:"nome"`
		Product      string   `json:"prod"`
		Quantity     *float64 `json:"quant"`
		Area         *float64 `json:"area"`
		AverageYield *float64 `json:"rend_med"`
		Value        *float64 `json:"valor"`
	}{
		Municipality: r.Municipality,
		Product:      r.Product,
		Quantity:     finiteOrNil(r.Quantity),
		Area:         finiteOrNil(r.Area),
		AverageYield: finiteOrNil(r.AverageYield),
		Value:        finiteOrNil(r.Value),
	})
}

func finiteOrNil(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// MunicipalitySummary is the joined per-municipality aggregate.
type MunicipalitySummary struct {
	Municipality  string  `json:"municipio"`
	TotalQuantity float64 `json:"producao_total"`
	MeanArea      Metric  `json:"area_media"`
	MeanYield     Metric  `json:"rendimento_medio"`
	TotalValue    float64 `json:"valor_total"`
	Records       int     `json:"registros"`
}

// ProductSummary is the joined per-product aggregate.
type ProductSummary struct {
	Product       string  `json:"produto"`
	TotalQuantity float64 `json:"producao_total"`
	TotalValue    float64 `json:"valor_total"`
	TotalArea     float64 `json:"area_total"`
	Productivity  Metric  `json:"produtividade"`
	Efficiency    Metric  `json:"eficiencia"`
	Records       int     `json:"registros"`
}

// Summaries bundles every derived view of one dataset.
// Municipalities and Products keep first-occurrence order of their keys.
type Summaries struct {
	Municipalities     []MunicipalitySummary `json:"municipios"`
	Products           []ProductSummary      `json:"produtos"`
	TopByQuantity      MunicipalitySummary   `json:"municipio_maior_producao"`
	TopByValue         MunicipalitySummary   `json:"municipio_maior_valor"`
	TopProductsByValue []ProductSummary      `json:"top_produtos_valor"`
	RecordCount        int                   `json:"registros"`
}
