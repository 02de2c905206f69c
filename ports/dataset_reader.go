package ports

import (
	"io"

	"agroprod/domain/dataset"
)

// DatasetReader decodes an uploaded file into a table. The filename selects
// the format.
type DatasetReader interface {
	Read(filename string, src io.Reader) (*dataset.Table, dataset.Format, error)
}
