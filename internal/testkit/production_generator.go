// Package testkit generates synthetic production datasets for tests.
package testkit

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"math/rand"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"agroprod/domain/production"
)

// ProductionGeneratorConfig configures the production data generator
type ProductionGeneratorConfig struct {
	MunicipalityCount int     `json:"municipality_count"`
	ProductCount      int     `json:"product_count"`
	CoverageRate      float64 `json:"coverage_rate"`   // chance a municipality grows a given product
	DuplicateRate     float64 `json:"duplicate_rate"`  // chance of a second record for the same pair
	ZeroAreaRate      float64 `json:"zero_area_rate"`  // chance a record reports no harvested area
	MissingRate       float64 `json:"missing_rate"`    // chance a numeric cell is left blank
	DecimalComma      bool    `json:"decimal_comma"`   // format cells as 1.234,56 with ';' delimiters
	Seed              int64   `json:"seed"`
}

// DefaultProductionConfig returns defaults resembling a state-level survey
func DefaultProductionConfig() ProductionGeneratorConfig {
	return ProductionGeneratorConfig{
		MunicipalityCount: 40,
		ProductCount:      12,
		CoverageRate:      0.6,
		DuplicateRate:     0.05,
		ZeroAreaRate:      0.02,
		Seed:              42,
	}
}

var cropNames = []string{
	"Soja (em grão)", "Milho (em grão)", "Cana-de-açúcar", "Feijão (em grão)", "Mandioca",
	"Arroz (em casca)", "Café (em grão) Total", "Trigo (em grão)", "Algodão herbáceo (em caroço)",
	"Laranja", "Banana (cacho)", "Tomate", "Batata-inglesa", "Sorgo (em grão)", "Cebola",
}

// typical yield (kg/ha) and price (R$ thousands per tonne) per crop, by index
var cropYield = []float64{3500, 5800, 75000, 1100, 16000, 6500, 1700, 3000, 4200, 25000, 14000, 70000, 30000, 3200, 35000}
var cropPrice = []float64{2.6, 1.1, 0.15, 5.5, 0.9, 1.5, 18.0, 1.6, 3.8, 0.7, 1.2, 2.0, 1.8, 0.9, 1.4}

// ProductionDataGenerator generates realistic municipality by crop records
type ProductionDataGenerator struct {
	config ProductionGeneratorConfig
	rng    *rand.Rand
}

// NewProductionDataGenerator creates a new production data generator
func NewProductionDataGenerator(config ProductionGeneratorConfig) *ProductionDataGenerator {
	if config.MunicipalityCount < 1 {
		config.MunicipalityCount = 1
	}
	if config.ProductCount < 1 {
		config.ProductCount = 1
	}
	if config.ProductCount > len(cropNames) {
		config.ProductCount = len(cropNames)
	}
	return &ProductionDataGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// GenerateRecords generates the records. Every municipality grows at least
// one crop, so each appears in the output.
func (g *ProductionDataGenerator) GenerateRecords() []production.Record {
	var records []production.Record
	for m := 0; m < g.config.MunicipalityCount; m++ {
		name := fmt.Sprintf("Município %03d", m+1)
		grown := 0
		for p := 0; p < g.config.ProductCount; p++ {
			if g.rng.Float64() >= g.config.CoverageRate && !(p == g.config.ProductCount-1 && grown == 0) {
				continue
			}
			grown++
			records = append(records, g.record(name, p))
			if g.rng.Float64() < g.config.DuplicateRate {
				records = append(records, g.record(name, p))
			}
		}
	}
	return records
}

func (g *ProductionDataGenerator) record(municipality string, crop int) production.Record {
	area := math.Round(g.rng.ExpFloat64()*800) + 1
	yield := math.Round(cropYield[crop] * (0.7 + 0.6*g.rng.Float64()))
	if g.rng.Float64() < g.config.ZeroAreaRate {
		area = 0
	}
	quantity := math.Round(area * yield / 1000)
	value := math.Round(quantity*cropPrice[crop]*(0.9+0.2*g.rng.Float64())*100) / 100

	r := production.Record{
		Municipality: municipality,
		Product:      cropNames[crop],
		Quantity:     quantity,
		Area:         area,
		AverageYield: yield,
		Value:        value,
	}
	if g.config.MissingRate > 0 {
		for _, f := range []*float64{&r.Quantity, &r.Area, &r.AverageYield, &r.Value} {
			if g.rng.Float64() < g.config.MissingRate {
				*f = math.NaN()
			}
		}
	}
	return r
}

// Rows renders records as a header row plus string cells, the way a
// spreadsheet export would carry them. Missing values become blank cells.
func (g *ProductionDataGenerator) Rows(records []production.Record) [][]string {
	rows := make([][]string, 0, len(records)+1)
	rows = append(rows, append([]string(nil), production.RequiredColumns...))
	for _, r := range records {
		rows = append(rows, []string{
			r.Municipality,
			r.Product,
			g.cell(r.Quantity),
			g.cell(r.Area),
			g.cell(r.AverageYield),
			g.cell(r.Value),
		})
	}
	return rows
}

func (g *ProductionDataGenerator) cell(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	if !g.config.DecimalComma {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	// two decimals always; "1.234" alone parses as 1.234
	intPart, frac, _ := strings.Cut(strconv.FormatFloat(v, 'f', 2, 64), ".")
	var b strings.Builder
	for i, d := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(d)
	}
	if frac != "" {
		b.WriteByte(',')
		b.WriteString(frac)
	}
	return b.String()
}

// WriteCSV writes records as CSV. A decimal-comma config uses ';' as the
// field delimiter.
func (g *ProductionDataGenerator) WriteCSV(w io.Writer, records []production.Record) error {
	cw := csv.NewWriter(w)
	if g.config.DecimalComma {
		cw.Comma = ';'
	}
	if err := cw.WriteAll(g.Rows(records)); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}

// WriteXLSX writes records as a single-sheet workbook with numeric cells.
func (g *ProductionDataGenerator) WriteXLSX(w io.Writer, records []production.Record) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	header := make([]any, len(production.RequiredColumns))
	for i, c := range production.RequiredColumns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, r := range records {
		row := []any{r.Municipality, r.Product, xlsxCell(r.Quantity), xlsxCell(r.Area), xlsxCell(r.AverageYield), xlsxCell(r.Value)}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	_, err := f.WriteTo(w)
	return err
}

func xlsxCell(v float64) any {
	if math.IsNaN(v) {
		return nil
	}
	return v
}
