// Package export serializes a run's records to Excel, pipe-delimited text and
// JSON. All three files share one column list and one row order.
package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"rosterscraper/internal/models"
)

const (
	// SheetName is the worksheet holding the records.
	SheetName = "Players"
	// ColumnPadding is added to the longest cell of each Excel column.
	ColumnPadding = 2
	// Delimiter separates fields in the text output.
	Delimiter = '|'
)

// Paths lists the files an export produced.
type Paths struct {
	XLSX string
	Text string
	JSON string
}

// All returns the three paths in write order.
func (p Paths) All() []string {
	return []string{p.XLSX, p.Text, p.JSON}
}

// PathsFor derives the three sibling file names from a base path without extension.
func PathsFor(basePath string) Paths {
	return Paths{
		XLSX: basePath + ".xlsx",
		Text: basePath + ".txt",
		JSON: basePath + ".json",
	}
}

// Export writes records to <basePath>.xlsx, .txt and .json. Every format is
// attempted even if another fails, and an empty record set still produces
// three files carrying only the header. Errors are joined.
func Export(records []models.Record, columns []string, basePath string) (Paths, error) {
	paths := PathsFor(basePath)
	if len(columns) == 0 {
		return paths, errors.New("export: no columns")
	}
	if err := os.MkdirAll(filepath.Dir(basePath), 0o755); err != nil {
		return paths, fmt.Errorf("failed to create output directory: %w", err)
	}

	var errs []error
	if err := WriteXLSX(paths.XLSX, columns, records); err != nil {
		errs = append(errs, fmt.Errorf("xlsx: %w", err))
	}
	if err := WriteText(paths.Text, columns, records); err != nil {
		errs = append(errs, fmt.Errorf("txt: %w", err))
	}
	if err := WriteJSON(paths.JSON, columns, records); err != nil {
		errs = append(errs, fmt.Errorf("json: %w", err))
	}

	if len(errs) > 0 {
		return paths, errors.Join(errs...)
	}

	log.Info().Int("records", len(records)).Str("base", basePath).Msg("Data saved as xlsx, txt and json")
	return paths, nil
}

// cells returns the record's values padded or cut to the column count.
func cells(r models.Record, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = r.Get(i)
	}
	return out
}
