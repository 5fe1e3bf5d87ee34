// Package fileio loads and saves tabular datasets as CSV or Excel
// files. Loading infers each column's kind: a column whose non-missing
// cells all parse as numbers is numeric, everything else is
// categorical.
package fileio

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"scrub/domain/core"
	"scrub/domain/table"
	"scrub/ports"
)

// missingTokens are cell values treated as missing, case-insensitive.
var missingTokens = map[string]bool{
	"":     true,
	"na":   true,
	"n/a":  true,
	"nan":  true,
	"null": true,
	"none": true,
}

func isMissingToken(cell string) bool {
	return missingTokens[strings.ToLower(strings.TrimSpace(cell))]
}

// Reader loads CSV and Excel datasets. Implements ports.DatasetReader.
type Reader struct{}

// NewReader creates a dataset reader.
func NewReader() *Reader {
	return &Reader{}
}

// ReadFile loads a dataset from disk, dispatching on the file
// extension (.csv, .xlsx, .xls).
func (r *Reader) ReadFile(path string) (*table.Table, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, core.NewInvalidInputError(fmt.Sprintf("file '%s' does not exist", path))
	}

	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open '%s': %w", path, err)
	}
	defer f.Close()

	log.Printf("[fileio] reading %s file: %s", format, path)
	return r.Read(f, format)
}

// Read loads a dataset from a stream in the given format. The first
// row is the header.
func (r *Reader) Read(src io.Reader, format ports.Format) (*table.Table, error) {
	var records [][]string
	var err error

	switch format {
	case ports.FormatCSV:
		records, err = readCSVRecords(src)
	case ports.FormatExcel:
		records, err = readExcelRecords(src)
	default:
		return nil, core.NewInvalidInputError(fmt.Sprintf(
			"unsupported file type '%s', provide a CSV or Excel file", format))
	}
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, core.NewInvalidInputError("file has no header row")
	}

	tbl, err := buildTable(records[0], records[1:])
	if err != nil {
		return nil, err
	}
	log.Printf("[fileio] loaded %d rows, %d columns", tbl.RowCount(), tbl.ColumnCount())
	return tbl, nil
}

// FormatForPath maps a file name to its dataset format by extension.
func FormatForPath(path string) (ports.Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ports.FormatCSV, nil
	case ".xlsx", ".xls":
		return ports.FormatExcel, nil
	default:
		return "", core.NewInvalidInputError(fmt.Sprintf(
			"unsupported file type '%s', provide a CSV or Excel file", filepath.Ext(path)))
	}
}

func readCSVRecords(src io.Reader) ([][]string, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1 // ragged rows padded below
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	return records, nil
}

func readExcelRecords(src io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, core.NewInvalidInputError("Excel file has no sheets")
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet '%s': %w", sheet, err)
	}
	return rows, nil
}

// buildTable infers a kind per header column and assembles the table.
func buildTable(headers []string, rows [][]string) (*table.Table, error) {
	tbl := table.New()
	for col, header := range headers {
		name := strings.TrimSpace(header)
		if name == "" {
			name = fmt.Sprintf("column_%d", col+1)
		}

		cells := make([]string, len(rows))
		missing := make([]bool, len(rows))
		for i, row := range rows {
			if col >= len(row) {
				missing[i] = true // short row
				continue
			}
			cells[i] = row[col]
			missing[i] = isMissingToken(row[col])
		}

		if c, ok := numericColumn(name, cells, missing); ok {
			if err := tbl.AppendColumn(c); err != nil {
				return nil, err
			}
			continue
		}
		if err := tbl.AppendColumn(table.NewCategoricalColumn(name, cells, missing)); err != nil {
			return nil, err
		}
	}
	return tbl, nil
}

// numericColumn attempts numeric inference: every non-missing cell must
// parse, and at least one value must be present.
func numericColumn(name string, cells []string, missing []bool) (table.Column, bool) {
	values := make([]float64, len(cells))
	present := 0
	for i, cell := range cells {
		if missing[i] {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
		if err != nil {
			return table.Column{}, false
		}
		values[i] = v
		present++
	}
	if present == 0 {
		return table.Column{}, false
	}
	return table.NewNumericColumn(name, values, missing), true
}
