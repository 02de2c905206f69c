// Package dataset defines the raw uploaded table shared by the loaders and
// the presentation layer.
package dataset

import "strings"

// Format identifies the encoding of an uploaded dataset.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatXLS  Format = "xls"
	FormatHTML Format = "html"
	FormatJSON Format = "json"
)

// Table is a parsed dataset: trimmed headers plus string cells. Every row has
// exactly len(Headers) cells.
type Table struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// ColumnIndex returns the position of the first header equal to name, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, h := range t.Headers {
		if h == name {
			return i
		}
	}
	return -1
}

// Column returns every cell of the named column, or nil if absent.
func (t *Table) Column(name string) []string {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil
	}
	out := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[idx]
	}
	return out
}

// NewTable trims headers and cells, pads or cuts ragged rows to the header
// width, and drops rows whose cells are all blank.
func NewTable(rows [][]string) *Table {
	if len(rows) == 0 {
		return &Table{}
	}

	headers := make([]string, len(rows[0]))
	for i, header := range rows[0] {
		headers[i] = strings.TrimSpace(header)
	}

	dataRows := make([][]string, 0, len(rows)-1)
	for _, raw := range rows[1:] {
		row := make([]string, len(headers))
		blank := true
		for j := range headers {
			if j < len(raw) {
				row[j] = strings.TrimSpace(raw[j])
				if row[j] != "" {
					blank = false
				}
			}
		}
		if !blank {
			dataRows = append(dataRows, row)
		}
	}

	return &Table{Headers: headers, Rows: dataRows}
}

// LoadReport describes how cells were interpreted while building records.
type LoadReport struct {
	Rows            int            `json:"rows"`
	Columns         []string       `json:"columns"`
	MissingByColumn map[string]int `json:"missing_by_column"`
}

// MissingCells sums missing or non-numeric cells across required numeric columns.
func (r LoadReport) MissingCells() int {
	total := 0
	for _, n := range r.MissingByColumn {
		total += n
	}
	return total
}

// ColumnNames returns the headers.
func (t *Table) ColumnNames() []string {
	return t.Headers
}
