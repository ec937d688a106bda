package output

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Table is a header row plus data rows, already rendered to strings.
type Table struct {
	Headers []string
	Rows    [][]string
}

type Writer interface {
	Write(w io.Writer, table Table) error
}

func WriterForFormat(format string) (Writer, error) {
	switch normalizeFormat(format) {
	case "csv":
		return &CSVWriter{}, nil
	case "excel", "xlsx":
		return &ExcelWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// InferFormat picks the output format from an explicit value or the file
// extension of path.
func InferFormat(path, format string) string {
	if value := normalizeFormat(format); value != "" {
		return value
	}
	if strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		return "excel"
	}
	return "csv"
}

func WriteFile(path, format string, table Table) error {
	writer, err := WriterForFormat(InferFormat(path, format))
	if err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output %s: %w", path, err)
	}

	if err := writer.Write(file, table); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close output %s: %w", path, err)
	}

	return nil
}

func normalizeFormat(value string) string {
	return strings.TrimSpace(strings.ToLower(value))
}
