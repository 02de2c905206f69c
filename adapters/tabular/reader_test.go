package tabular

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	"agroprod/adapters/coercer"
	"agroprod/domain/core"
	"agroprod/domain/dataset"
)

const scenarioCSV = `nome,prod,quant,area,rend_med,valor
A,soy,10,5,2000,100
A,corn,20,5,4000,50
B,soy,5,1,5000,80
`

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		filename string
		want     dataset.Format
		wantErr  bool
	}{
		{"dados.csv", dataset.FormatCSV, false},
		{"DADOS.CSV", dataset.FormatCSV, false},
		{"pam.xlsx", dataset.FormatXLSX, false},
		{"pam.xls", dataset.FormatXLS, false},
		{"tabela.html", dataset.FormatHTML, false},
		{"tabela.htm", dataset.FormatHTML, false},
		{"dados.json", dataset.FormatJSON, false},
		{"dados.txt", "", true},
		{"semextensao", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			got, err := DetectFormat(tt.filename)
			if tt.wantErr {
				assert.True(t, errors.Is(err, core.ErrUnsupportedFormat))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRead_UnsupportedFormatDoesNotConsume(t *testing.T) {
	src := strings.NewReader("payload")
	_, _, err := NewDataReader(nil).Read("dados.txt", src)
	assert.True(t, errors.Is(err, core.ErrUnsupportedFormat))
	assert.Equal(t, 7, src.Len())
}

func TestRead_CSV(t *testing.T) {
	table, format, err := NewDataReader(nil).Read("dados.csv", strings.NewReader(scenarioCSV))
	require.NoError(t, err)
	assert.Equal(t, dataset.FormatCSV, format)
	assert.Equal(t, []string{"nome", "prod", "quant", "area", "rend_med", "valor"}, table.Headers)
	require.Len(t, table.Rows, 3)
	assert.Equal(t, []string{"A", "corn", "20", "5", "4000", "50"}, table.Rows[1])
}

func TestRead_CSVSemicolonAndDecimalComma(t *testing.T) {
	data := "\ufeff nome ; prod;quant;area;rend_med;valor\n" +
		"Petrolina;Uva;\"1.234,5\";10;12345;900,25\n" +
		"Recife;Cana;-;...;X;\n"

	table, _, err := NewDataReader(nil).Read("pam.csv", strings.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "nome", table.Headers[0])
	assert.Equal(t, "prod", table.Headers[1])

	records, report, err := ToRecords(table, coercer.Default())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 1234.5, records[0].Quantity)
	assert.Equal(t, 900.25, records[0].Value)
	assert.True(t, math.IsNaN(records[1].Quantity))
	assert.True(t, math.IsNaN(records[1].Value))
	assert.Equal(t, 4, report.MissingCells())
	assert.Equal(t, 1, report.MissingByColumn["area"])
}

func TestRead_CSVWindows1252(t *testing.T) {
	utf := "nome,prod,quant,area,rend_med,valor\nSão José,Feijão,1,1,1,1\n"
	encoded, err := charmap.Windows1252.NewEncoder().String(utf)
	require.NoError(t, err)

	table, _, err := NewDataReader(nil).Read("pam.csv", strings.NewReader(encoded))
	require.NoError(t, err)
	assert.Equal(t, "São José", table.Rows[0][0])
	assert.Equal(t, "Feijão", table.Rows[0][1])
}

func TestRead_CSVRaggedAndBlankRows(t *testing.T) {
	data := "nome,prod,quant,area,rend_med,valor\nA,soy,1\n,,,,,\nB,corn,2,3,4,5,extra\n"
	table, _, err := NewDataReader(nil).Read("x.csv", strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"A", "soy", "1", "", "", ""}, table.Rows[0])
	assert.Equal(t, []string{"B", "corn", "2", "3", "4", "5"}, table.Rows[1])
}

func TestRead_EmptyFile(t *testing.T) {
	_, _, err := NewDataReader(nil).Read("vazio.csv", strings.NewReader(""))
	assert.True(t, errors.Is(err, core.ErrParseFailure))
	assert.True(t, errors.Is(err, core.ErrNoHeader))
}

func TestRead_XLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName("Sheet1", "PAM"))
	rows := [][]interface{}{
		{" nome", "prod ", "quant", "area", "rend_med", "valor"},
		{"A", "soy", 10, 5, 2000, 100},
		{"A", "corn", 20, 5, 4000, 50.5},
		{"B", "soy", 5, 1, 5000, 80},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("PAM", cell, &row))
	}
	// a second sheet must be ignored
	_, err := f.NewSheet("Outra")
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("Outra", "A1", "ignorado"))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	table, format, err := NewDataReader(nil).Read("pam.xlsx", bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, dataset.FormatXLSX, format)
	assert.Equal(t, "nome", table.Headers[0])
	assert.Equal(t, "prod", table.Headers[1])
	require.Len(t, table.Rows, 3)

	records, _, err := ToRecords(table, nil)
	require.NoError(t, err)
	assert.Equal(t, 50.5, records[1].Value)
	assert.Equal(t, "B", records[2].Municipality)
}

func TestRead_XLSXCorrupt(t *testing.T) {
	_, _, err := NewDataReader(nil).Read("pam.xlsx", strings.NewReader("not a zip"))
	assert.True(t, errors.Is(err, core.ErrParseFailure))
}

func TestRead_XLSCorrupt(t *testing.T) {
	_, _, err := NewDataReader(nil).Read("pam.xls", strings.NewReader("not a compound document"))
	assert.True(t, errors.Is(err, core.ErrParseFailure))
}

func TestRead_HTMLFirstTable(t *testing.T) {
	doc := `<html><body>
<p>Produção agrícola municipal</p>
<table>
  <thead><tr><th> nome </th><th>prod</th><th>quant</th><th>area</th><th>rend_med</th><th>valor</th></tr></thead>
  <tbody>
    <tr><td>A</td><td>soy</td><td>10</td><td>5</td><td>2000</td><td>100</td></tr>
    <tr><td>B</td><td>soy</td><td colspan="2">5</td><td>5000</td><td><b>80</b></td></tr>
  </tbody>
</table>
<table><tr><th>outra</th></tr><tr><td>ignorada</td></tr></table>
</body></html>`

	table, format, err := NewDataReader(nil).Read("pam.html", strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, dataset.FormatHTML, format)
	assert.Equal(t, []string{"nome", "prod", "quant", "area", "rend_med", "valor"}, table.Headers)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"B", "soy", "5", "5", "5000", "80"}, table.Rows[1])
}

func TestRead_HTMLNoTable(t *testing.T) {
	_, _, err := NewDataReader(nil).Read("pam.htm", strings.NewReader("<html><body><p>nada</p></body></html>"))
	assert.True(t, errors.Is(err, core.ErrNoTable))
	assert.True(t, errors.Is(err, core.ErrParseFailure))
}

func TestToRecords_MissingColumns(t *testing.T) {
	table := dataset.NewTable([][]string{
		{"nome", "prod", "area"},
		{"A", "soy", "1"},
	})

	records, _, err := ToRecords(table, nil)
	assert.Nil(t, records)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrMissingColumn))
	assert.Equal(t, []string{"quant", "rend_med", "valor"}, core.MissingColumns(err))
}

func TestToRecords_HeaderOnly(t *testing.T) {
	table := dataset.NewTable([][]string{{"nome", "prod", "quant", "area", "rend_med", "valor"}})
	records, report, err := ToRecords(table, nil)
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Equal(t, 0, report.Rows)
}

func TestToRecords_ExtraColumnsKept(t *testing.T) {
	table := dataset.NewTable([][]string{
		{"ano", "nome", "prod", "quant", "area", "rend_med", "valor"},
		{"2022", "A", "soy", "1", "2", "3", "4"},
	})
	records, report, err := ToRecords(table, nil)
	require.NoError(t, err)
	assert.Equal(t, "A", records[0].Municipality)
	assert.Equal(t, 4.0, records[0].Value)
	assert.Equal(t, "ano", report.Columns[0])
	assert.Equal(t, []string{"2022"}, table.Column("ano"))
	assert.Nil(t, table.Column("inexistente"))
}

func TestSniffDelimiter(t *testing.T) {
	assert.Equal(t, ';', sniffDelimiter([]byte("a;b;c\n1;2;3")))
	assert.Equal(t, '\t', sniffDelimiter([]byte("a\tb\tc")))
	assert.Equal(t, ',', sniffDelimiter([]byte(`"a;b",c,d`)))
	assert.Equal(t, ',', sniffDelimiter([]byte("single")))
}

func TestRead_JSON(t *testing.T) {
	doc := `[
		{"nome": "A", "prod": "soy", "quant": 10, "area": 5, "rend_med": 2000, "valor": 100},
		{"nome": "A", "prod": "corn", "quant": 20, "area": 5, "rend_med": 4000, "valor": 50, "obs": "safra"},
		{"nome": "B", "prod": "soy", "quant": 5, "area": null, "rend_med": "5000", "valor": 80}
	]`
	table, format, err := NewDataReader(nil).Read("dados.json", strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, dataset.FormatJSON, format)
	assert.Equal(t, []string{"nome", "prod", "quant", "area", "rend_med", "valor", "obs"}, table.Headers)
	require.Len(t, table.Rows, 3)
	assert.Equal(t, "", table.Rows[0][6], "keys absent from a record are blank")
	assert.Equal(t, "safra", table.Rows[1][6])
	assert.Equal(t, "", table.Rows[2][3], "null becomes a blank cell")
	assert.Equal(t, "5000", table.Rows[2][4])

	records, report, err := ToRecords(table, nil)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.True(t, math.IsNaN(records[2].Area))
	assert.Equal(t, 1, report.MissingByColumn["area"])
}

func TestRead_JSONWrapped(t *testing.T) {
	doc := `{"fonte": "PAM", "registros": [{"nome": "A", "prod": "soy", "quant": 1, "area": 1, "rend_med": 1, "valor": 1}]}`
	table, _, err := NewDataReader(nil).Read("dados.json", strings.NewReader(doc))
	require.NoError(t, err)
	assert.Len(t, table.Rows, 1)
	assert.Equal(t, "nome", table.Headers[0])
}

func TestRead_JSONInvalid(t *testing.T) {
	for _, doc := range []string{`{"nome": `, `{"fonte": "PAM"}`, `[1, 2, 3]`, `[]`} {
		_, _, err := NewDataReader(nil).Read("dados.json", strings.NewReader(doc))
		assert.ErrorIs(t, err, core.ErrParseFailure, doc)
	}
}
