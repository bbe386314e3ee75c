package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/BipinP21/fda-submission-tracker/internal/dataprocessing"
)

// DefaultSheetName is the single sheet the merged workbook carries.
const DefaultSheetName = "Sheet1"

// WriteWorkbook writes a table to a single-sheet xlsx file: one header row,
// one row per table row. The workbook is staged in a temp file and renamed
// into place only after a successful save, so a failed run never clobbers a
// previous output file with partial data.
func WriteWorkbook(path string, table *dataprocessing.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		sheet = DefaultSheetName
	}

	header := make([]interface{}, len(table.Columns))
	for i, col := range table.Columns {
		header[i] = col
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	for r, row := range table.Rows {
		cells := make([]interface{}, len(table.Columns))
		for i := range table.Columns {
			if i < len(row) {
				cells[i] = row[i]
			} else {
				cells[i] = ""
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return fmt.Errorf("failed to compute cell name for row %d: %w", r, err)
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return fmt.Errorf("failed to write row %d: %w", r, err)
		}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".merged-*.xlsx")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()

	if err := f.SaveAs(tmpPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to move workbook into place: %w", err)
	}

	slog.Info("wrote merged workbook",
		slog.String("path", path),
		slog.Int("rows", table.RowCount()),
		slog.Int("columns", len(table.Columns)))

	return nil
}

// ReadWorkbook reads the first sheet of an xlsx file back into a table. The
// first row is the header; data rows shorter than the header read as empty
// cells.
func ReadWorkbook(path string) (*dataprocessing.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("workbook %s has no header row", filepath.Base(path))
	}

	return dataprocessing.NewTable(filepath.Base(path), rows[0], rows[1:]), nil
}
