package export

import (
	"encoding/csv"
	"fmt"
	"io"
)

// Column maps one CSV column to a value taken from a row.
type Column[T any] struct {
	Header string
	Value  func(T) string
}

// WriteCSV writes a header line followed by one record per row. Values a spreadsheet would
// evaluate as formulas are prefixed with a quote.
func WriteCSV[T any](w io.Writer, columns []Column[T], rows []T) error {
	if len(columns) == 0 {
		return fmt.Errorf("csv requires at least one column")
	}
	writer := csv.NewWriter(w)

	record := make([]string, len(columns))
	for i, col := range columns {
		record[i] = col.Header
	}
	if err := writer.Write(record); err != nil {
		return fmt.Errorf("write csv headers: %w", err)
	}

	for _, row := range rows {
		for i, col := range columns {
			record[i] = neutralize(col.Value(row))
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

func neutralize(value string) string {
	if value == "" {
		return value
	}
	switch value[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + value
	}
	return value
}
