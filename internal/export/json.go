package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"rosterscraper/internal/models"
)

// row marshals a record as an object whose keys follow the column order.
type row struct {
	columns []string
	values  []string
}

func (r row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range r.columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := encodeString(&buf, c); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := encodeString(&buf, r.values[i]); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func encodeString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	// Encode terminates with a newline.
	buf.Truncate(buf.Len() - 1)
	return nil
}

// WriteJSON writes records as an indented array of objects. Non-ASCII text and
// HTML-significant characters are written literally.
func WriteJSON(path string, columns []string, records []models.Record) error {
	rows := make([]row, len(records))
	for i, r := range records {
		rows[i] = row{columns: columns, values: cells(r, len(columns))}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rows); err != nil {
		return fmt.Errorf("encode records: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// ReadJSON loads a file written by WriteJSON back into records ordered by columns.
func ReadJSON(path string, columns []string) ([]models.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var objects []map[string]string
	if err := json.Unmarshal(data, &objects); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	records := make([]models.Record, 0, len(objects))
	for i, obj := range objects {
		values := make([]string, len(columns))
		for j, c := range columns {
			v, ok := obj[c]
			if !ok {
				return nil, fmt.Errorf("record %d: missing column %q", i, c)
			}
			values[j] = v
		}
		records = append(records, models.Record{Values: values})
	}
	return records, nil
}
