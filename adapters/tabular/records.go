package tabular

import (
	"agroprod/adapters/coercer"
	"agroprod/domain/core"
	"agroprod/domain/dataset"
	"agroprod/domain/production"
)

// RequireColumns reports every required column absent from the table header.
func RequireColumns(t *dataset.Table) error {
	var missing []string
	for _, col := range production.RequiredColumns {
		if t.ColumnIndex(col) < 0 {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return &core.MissingColumnError{Columns: missing}
	}
	return nil
}

// ToRecords projects the required columns of t into production records.
// Numeric cells that are blank, marked missing or not numeric become NaN and
// are counted per column in the report.
func ToRecords(t *dataset.Table, c *coercer.TypeCoercer) ([]production.Record, dataset.LoadReport, error) {
	report := dataset.LoadReport{
		Rows:            len(t.Rows),
		Columns:         append([]string(nil), t.Headers...),
		MissingByColumn: make(map[string]int),
	}
	if err := RequireColumns(t); err != nil {
		return nil, report, err
	}
	if c == nil {
		c = coercer.Default()
	}

	idx := func(name string) int { return t.ColumnIndex(name) }
	nome, prod := idx(production.ColumnMunicipality), idx(production.ColumnProduct)
	quant, area := idx(production.ColumnQuantity), idx(production.ColumnArea)
	rend, valor := idx(production.ColumnAverageYield), idx(production.ColumnValue)

	number := func(row []string, col int, name string) float64 {
		v, ok := c.Float(row[col])
		if !ok {
			report.MissingByColumn[name]++
		}
		return v
	}

	records := make([]production.Record, 0, len(t.Rows))
	for _, row := range t.Rows {
		records = append(records, production.Record{
			Municipality: row[nome],
			Product:      row[prod],
			Quantity:     number(row, quant, production.ColumnQuantity),
			Area:         number(row, area, production.ColumnArea),
			AverageYield: number(row, rend, production.ColumnAverageYield),
			Value:        number(row, valor, production.ColumnValue),
		})
	}
	return records, report, nil
}
