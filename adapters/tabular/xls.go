package tabular

import (
	"fmt"
	"io"

	"github.com/extrame/xls"
)

// readXLS reads the first worksheet of a legacy BIFF workbook.
func readXLS(r io.ReadSeeker) (rows [][]string, err error) {
	// the BIFF decoder panics on some truncated files
	defer func() {
		if p := recover(); p != nil {
			rows, err = nil, fmt.Errorf("corrupt xls workbook: %v", p)
		}
	}()

	wb, err := xls.OpenReader(r, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("failed to open xls file: %w", err)
	}
	if wb.NumSheets() == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, fmt.Errorf("workbook has no readable sheet")
	}

	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cells := make([]string, 0, row.LastCol()+1)
		for j := 0; j <= row.LastCol(); j++ {
			cells = append(cells, row.Col(j))
		}
		rows = append(rows, cells)
	}

	// leading empty rows come before the header
	for len(rows) > 0 && len(rows[0]) == 0 {
		rows = rows[1:]
	}
	return rows, nil
}
