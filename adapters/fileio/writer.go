package fileio

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/xuri/excelize/v2"

	"scrub/domain/table"
	"scrub/ports"
)

// Writer exports tables as CSV or Excel files. Implements
// ports.DatasetWriter. Missing values export as empty cells.
type Writer struct{}

// NewWriter creates a dataset writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Write exports the table to a stream in the given format.
func (w *Writer) Write(dst io.Writer, t *table.Table, format ports.Format) error {
	switch format {
	case ports.FormatCSV:
		return writeCSV(dst, t)
	case ports.FormatExcel:
		return writeExcel(dst, t)
	default:
		return fmt.Errorf("unsupported export format '%s'", format)
	}
}

// SaveFile exports the table to disk, dispatching on the extension.
func (w *Writer) SaveFile(path string, t *table.Table) error {
	format, err := FormatForPath(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create '%s': %w", path, err)
	}
	defer f.Close()

	if err := w.Write(f, t, format); err != nil {
		return err
	}
	log.Printf("[fileio] saved cleaned dataset to %s", path)
	return nil
}

func writeCSV(dst io.Writer, t *table.Table) error {
	writer := csv.NewWriter(dst)
	if err := writer.Write(t.ColumnNames()); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	record := make([]string, t.ColumnCount())
	for i := 0; i < t.RowCount(); i++ {
		for j := 0; j < t.ColumnCount(); j++ {
			record[j] = t.ColumnAt(j).CellString(i)
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func writeExcel(dst io.Writer, t *table.Table) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	for j, name := range t.ColumnNames() {
		cell, err := excelize.CoordinatesToCellName(j+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return err
		}
	}

	for i := 0; i < t.RowCount(); i++ {
		for j := 0; j < t.ColumnCount(); j++ {
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return err
			}
			col := t.ColumnAt(j)
			if col.IsMissing(i) {
				continue
			}
			var value interface{}
			if col.Kind == table.KindNumeric {
				value = col.Floats[i]
			} else {
				value = col.Strings[i]
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return err
			}
		}
	}

	_, err := f.WriteTo(dst)
	return err
}
