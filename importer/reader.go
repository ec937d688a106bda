package importer

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var errLegacyExcel = errors.New("legacy .xls workbooks are not supported, save the file as .xlsx or .csv")

type Reader interface {
	Read(path string) (Sheet, error)
}

func ReaderForFormat(format string) (Reader, error) {
	switch normalizeHeader(format) {
	case "csv":
		return &CSVReader{}, nil
	case "excel", "xlsx", "xlsm":
		return &ExcelReader{}, nil
	case "xls":
		return nil, errLegacyExcel
	default:
		return nil, fmt.Errorf("unsupported input format: %s", format)
	}
}

// InferFormat returns format when set, otherwise derives it from the file extension.
func InferFormat(path string, format string) (string, error) {
	if strings.TrimSpace(format) != "" {
		return format, nil
	}

	extension := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch extension {
	case "csv", "txt":
		return "csv", nil
	case "xlsx", "xlsm":
		return "excel", nil
	case "xls":
		return "", fmt.Errorf("%s: %w", path, errLegacyExcel)
	default:
		return "", fmt.Errorf("unsupported file extension for %s", path)
	}
}

// ReadFile reads the first sheet of a CSV or Excel file. An empty format is
// inferred from the extension.
func ReadFile(path, format string) (Sheet, error) {
	resolved, err := InferFormat(path, format)
	if err != nil {
		return Sheet{}, err
	}
	reader, err := ReaderForFormat(resolved)
	if err != nil {
		return Sheet{}, err
	}
	return reader.Read(path)
}
