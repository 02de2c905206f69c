// Package export writes analysis results as an Excel workbook and as a
// markdown or HTML report.
package export

import (
	"fmt"
	"io"
	"math"

	"github.com/xuri/excelize/v2"

	"agroprod/domain/production"
	"agroprod/internal/format"
)

// Sheet names of the summary workbook, in tab order.
const (
	SheetMunicipalities = "Municipios"
	SheetProducts       = "Produtos"
	SheetTopProducts    = "Top5"
	SheetProductivity   = "Produtividade"
	SheetEfficiency     = "Eficiencia"
	SheetRecords        = "Dados"
)

// XLSXContentType is the MIME type of the workbook.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type sheet struct {
	name    string
	headers []string
	rows    [][]any
}

// Workbook builds the summary workbook. Undefined metrics are written as the
// text "indefinido"; missing source cells are left blank.
func Workbook(s *production.Summaries, records []production.Record) (*excelize.File, error) {
	sheets := []sheet{
		municipalitySheet(s),
		productSheet(s),
		topSheet(s),
		ratioSheet(SheetProductivity, "Produtividade Média (t/ha)", production.SortProducts(s.Products, production.ByProductivity),
			func(p production.ProductSummary) production.Metric { return p.Productivity }),
		ratioSheet(SheetEfficiency, "Valor por Hectare (R$ 1.000/ha)", production.SortProducts(s.Products, production.ByEfficiency),
			func(p production.ProductSummary) production.Metric { return p.Efficiency }),
		recordSheet(records),
	}

	f := excelize.NewFile()
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		f.Close()
		return nil, err
	}

	for i, sh := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sh.name); err != nil {
				f.Close()
				return nil, err
			}
		} else if _, err := f.NewSheet(sh.name); err != nil {
			f.Close()
			return nil, err
		}
		if err := writeSheet(f, sh, headerStyle); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write sheet %s: %w", sh.name, err)
		}
	}
	f.SetActiveSheet(0)
	return f, nil
}

// WriteWorkbook streams the summary workbook to w.
func WriteWorkbook(w io.Writer, s *production.Summaries, records []production.Record) error {
	f, err := Workbook(s, records)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

func writeSheet(f *excelize.File, sh sheet, headerStyle int) error {
	head := make([]any, len(sh.headers))
	for i, h := range sh.headers {
		head[i] = h
	}
	if err := f.SetSheetRow(sh.name, "A1", &head); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(sh.headers), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sh.name, "A1", last, headerStyle); err != nil {
		return err
	}
	lastCol, _ := excelize.ColumnNumberToName(len(sh.headers))
	if err := f.SetColWidth(sh.name, "A", lastCol, 22); err != nil {
		return err
	}

	for i, row := range sh.rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := row
		if err := f.SetSheetRow(sh.name, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func metricCell(m production.Metric) any {
	if !m.Defined {
		return format.Undefined
	}
	return m.Value
}

func numberCell(v float64) any {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}

func municipalitySheet(s *production.Summaries) sheet {
	sh := sheet{
		name: SheetMunicipalities,
		headers: []string{"Município", "Produção Total (t)", "Área Média Colhida (ha)",
			"Rendimento Médio (kg/ha)", "Valor Total da Produção (R$ 1.000)", "Registros"},
	}
	for _, m := range production.SortMunicipalities(s.Municipalities, production.ByTotalQuantity) {
		sh.rows = append(sh.rows, []any{m.Municipality, m.TotalQuantity, metricCell(m.MeanArea),
			metricCell(m.MeanYield), m.TotalValue, m.Records})
	}
	return sh
}

func productSheet(s *production.Summaries) sheet {
	sh := sheet{
		name: SheetProducts,
		headers: []string{"Produto", "Produção Total (t)", "Valor Total da Produção (R$ 1.000)",
			"Área Total (ha)", "Registros"},
	}
	for _, p := range production.SortProducts(s.Products, production.ByProductValue) {
		sh.rows = append(sh.rows, []any{p.Product, p.TotalQuantity, p.TotalValue, p.TotalArea, p.Records})
	}
	return sh
}

func topSheet(s *production.Summaries) sheet {
	sh := sheet{
		name:    SheetTopProducts,
		headers: []string{"Posição", "Produto", "Valor Total da Produção (R$ 1.000)"},
	}
	for i, p := range s.TopProductsByValue {
		sh.rows = append(sh.rows, []any{i + 1, p.Product, p.TotalValue})
	}
	return sh
}

func ratioSheet(name, header string, products []production.ProductSummary, metric func(production.ProductSummary) production.Metric) sheet {
	sh := sheet{name: name, headers: []string{"Produto", header}}
	for _, p := range products {
		sh.rows = append(sh.rows, []any{p.Product, metricCell(metric(p))})
	}
	return sh
}

func recordSheet(records []production.Record) sheet {
	sh := sheet{name: SheetRecords, headers: production.RequiredColumns}
	for _, r := range records {
		sh.rows = append(sh.rows, []any{r.Municipality, r.Product, numberCell(r.Quantity),
			numberCell(r.Area), numberCell(r.AverageYield), numberCell(r.Value)})
	}
	return sh
}
