package ports

import (
	"io"

	"scrub/domain/table"
)

// Format identifies a flat-file dataset format.
type Format string

const (
	FormatCSV   Format = "csv"
	FormatExcel Format = "xlsx"
)

// DatasetReader loads a tabular dataset into a table, inferring each
// column's kind.
type DatasetReader interface {
	// ReadFile loads a dataset from disk, dispatching on the extension.
	ReadFile(path string) (*table.Table, error)
	// Read loads a dataset from a stream in the given format.
	Read(r io.Reader, format Format) (*table.Table, error)
}

// DatasetWriter exports a table as a flat file.
type DatasetWriter interface {
	// Write exports the table to a stream in the given format.
	Write(w io.Writer, t *table.Table, format Format) error
	// SaveFile exports the table to disk, dispatching on the extension.
	SaveFile(path string, t *table.Table) error
}
