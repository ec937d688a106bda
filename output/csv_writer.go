package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

type CSVWriter struct{}

func (w *CSVWriter) Write(dst io.Writer, table Table) error {
	writer := csv.NewWriter(dst)

	if err := writer.Write(table.Headers); err != nil {
		return fmt.Errorf("write csv headers: %w", err)
	}
	for _, row := range table.Rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv output: %w", err)
	}

	return nil
}

// CSVString renders table as CSV text.
func CSVString(table Table) (string, error) {
	var b strings.Builder
	if err := (&CSVWriter{}).Write(&b, table); err != nil {
		return "", err
	}
	return b.String(), nil
}
