package export

import (
	"fmt"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"rosterscraper/internal/models"
)

// WriteXLSX writes a single-sheet workbook: header row first, then one row per
// record. Each column is as wide as its longest cell plus ColumnPadding.
func WriteXLSX(path string, columns []string, records []models.Record) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	if err := writeRow(f, 1, columns); err != nil {
		return err
	}
	for i, r := range records {
		if err := writeRow(f, i+2, cells(r, len(columns))); err != nil {
			return err
		}
	}

	for i, w := range ColumnWidths(columns, records) {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(SheetName, name, name, w); err != nil {
			return fmt.Errorf("set width of column %s: %w", name, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}

	line := make([]interface{}, len(values))
	for i, v := range values {
		line[i] = v
	}
	if err := f.SetSheetRow(SheetName, cell, &line); err != nil {
		return fmt.Errorf("write row %d: %w", row, err)
	}
	return nil
}

// ColumnWidths returns the width WriteXLSX assigns to each column.
func ColumnWidths(columns []string, records []models.Record) []float64 {
	widths := make([]float64, len(columns))
	for i, c := range columns {
		widths[i] = float64(utf8.RuneCountInString(c))
	}
	for _, r := range records {
		for i, v := range cells(r, len(columns)) {
			if n := float64(utf8.RuneCountInString(v)); n > widths[i] {
				widths[i] = n
			}
		}
	}
	for i := range widths {
		widths[i] += ColumnPadding
	}
	return widths
}
