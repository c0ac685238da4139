package export

import (
	"encoding/csv"
	"fmt"
	"os"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"rosterscraper/internal/models"
)

// WriteText writes a pipe-delimited file with a header line, encoded as UTF-8
// with a byte-order mark so spreadsheet tools detect the encoding.
func WriteText(path string, columns []string, records []models.Record) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()

	bom := transform.NewWriter(file, unicode.UTF8BOM.NewEncoder())
	w := csv.NewWriter(bom)
	w.Comma = Delimiter

	if err := w.Write(columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range records {
		if err := w.Write(cells(r, len(columns))); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return bom.Close()
}
