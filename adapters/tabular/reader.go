// Package tabular reads uploaded datasets (CSV, XLSX, XLS, HTML, JSON) into a
// uniform dataset.Table and converts tables into production records.
package tabular

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"agroprod/domain/core"
	"agroprod/domain/dataset"
)

// DetectFormat maps a filename extension to a dataset format.
func DetectFormat(filename string) (dataset.Format, error) {
	switch strings.ToLower(filepath.Ext(strings.TrimSpace(filename))) {
	case ".csv":
		return dataset.FormatCSV, nil
	case ".xlsx":
		return dataset.FormatXLSX, nil
	case ".xls":
		return dataset.FormatXLS, nil
	case ".html", ".htm":
		return dataset.FormatHTML, nil
	case ".json":
		return dataset.FormatJSON, nil
	default:
		return "", core.NewUnsupportedFormatError(filename)
	}
}

// DataReader handles reading uploaded datasets of every supported format
type DataReader struct {
	logger *zap.Logger
}

// NewDataReader creates a reader that logs through logger (nil for none).
func NewDataReader(logger *zap.Logger) *DataReader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DataReader{logger: logger.Named("tabular")}
}

// Read decodes src according to the extension of filename. Unknown
// extensions fail with core.ErrUnsupportedFormat before src is consumed;
// malformed content fails with core.ErrParseFailure.
func (r *DataReader) Read(filename string, src io.Reader) (*dataset.Table, dataset.Format, error) {
	format, err := DetectFormat(filename)
	if err != nil {
		return nil, "", err
	}

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, format, core.NewParseError(string(format), err)
	}

	start := time.Now()
	table, err := r.ReadBytes(format, data)
	if err != nil {
		r.logger.Warn("dataset parse failed",
			zap.String("file", filename),
			zap.String("format", string(format)),
			zap.Error(err))
		return nil, format, err
	}

	r.logger.Info("dataset read",
		zap.String("file", filename),
		zap.String("format", string(format)),
		zap.Int("columns", len(table.Headers)),
		zap.Int("rows", len(table.Rows)),
		zap.Duration("elapsed", time.Since(start)))
	return table, format, nil
}

// ReadBytes decodes data in the given format.
func (r *DataReader) ReadBytes(format dataset.Format, data []byte) (*dataset.Table, error) {
	var (
		rows [][]string
		err  error
	)
	switch format {
	case dataset.FormatCSV:
		rows, err = readCSV(data)
	case dataset.FormatXLSX:
		rows, err = readXLSX(bytes.NewReader(data))
	case dataset.FormatXLS:
		rows, err = readXLS(bytes.NewReader(data))
	case dataset.FormatHTML:
		rows, err = readHTML(bytes.NewReader(data))
	case dataset.FormatJSON:
		rows, err = readJSON(data)
	default:
		return nil, fmt.Errorf("%w: %s", core.ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, core.NewParseError(string(format), err)
	}
	if len(rows) == 0 {
		return nil, core.NewParseError(string(format), core.ErrNoHeader)
	}
	return dataset.NewTable(rows), nil
}
