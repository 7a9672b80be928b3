package csvexport

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strings"

	"coldoutreach/internal/record"
)

var ErrNoRows = errors.New("rows must be a non-empty list")

var lineBreaks = strings.NewReplacer("\n", " ", "\r", " ")

// Headers returns the column order: the keys of the first row.
func Headers(rows []*record.Record) []string {
	if len(rows) == 0 {
		return nil
	}
	return rows[0].Keys()
}

// Encode renders rows as CSV with CRLF line endings. Every cell is flattened
// to a single physical line.
func Encode(rows []*record.Record) ([]byte, error) {
	if len(rows) == 0 {
		return nil, ErrNoRows
	}
	if rows[0] == nil {
		return nil, fmt.Errorf("row 0 is empty")
	}
	headers := Headers(rows)
	header := make([]string, len(headers))
	for i, h := range headers {
		header[i] = lineBreaks.Replace(h)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.UseCRLF = true

	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	line := make([]string, len(headers))
	for i, row := range rows {
		if row == nil {
			return nil, fmt.Errorf("row %d is empty", i)
		}
		for j, key := range headers {
			line[j] = Cell(row, key)
		}
		if err := w.Write(line); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// Cell reads key from row as text, empty when missing, newlines replaced.
func Cell(row *record.Record, key string) string {
	return lineBreaks.Replace(row.Text(key))
}
