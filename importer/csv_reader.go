package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrMalformedCSV is returned when the CSV row structure cannot be parsed.
var ErrMalformedCSV = errors.New("malformed csv")

type CSVReader struct{}

func (r *CSVReader) Read(path string) (Sheet, error) {
	file, err := os.Open(path)
	if err != nil {
		return Sheet{}, fmt.Errorf("open csv file %s: %w", path, err)
	}
	defer file.Close()

	return ReadCSV(file)
}

// ParseCSV reads CSV text handed over by a caller that already holds the file content.
func ParseCSV(text string) (Sheet, error) {
	return ReadCSV(strings.NewReader(text))
}

// ReadCSV parses comma-separated input whose first row is the header row.
// A UTF-8 or UTF-16 byte order mark is honored and removed. Empty input
// yields an empty sheet. Bare quotes inside a cell, or after leading spaces,
// are kept literally; an unterminated quoted cell is malformed.
func ReadCSV(input io.Reader) (Sheet, error) {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	content, err := io.ReadAll(transform.NewReader(input, decoder))
	if err != nil {
		return Sheet{}, fmt.Errorf("%w: decode csv: %w", ErrMalformedCSV, err)
	}

	sheet, err := parseCSV(content, false)
	if errors.Is(err, csv.ErrBareQuote) {
		return parseCSV(content, true)
	}
	return sheet, err
}

func parseCSV(content []byte, lazyQuotes bool) (Sheet, error) {
	reader := csv.NewReader(bytes.NewReader(content))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = lazyQuotes

	headers, err := reader.Read()
	if err == io.EOF {
		return Sheet{}, nil
	}
	if err != nil {
		return Sheet{}, fmt.Errorf("%w: read csv header: %w", ErrMalformedCSV, err)
	}

	sheet := Sheet{Headers: headers, Rows: make([][]string, 0, 128)}
	rowNumber := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Sheet{}, fmt.Errorf("%w: read csv row %d: %w", ErrMalformedCSV, rowNumber+1, err)
		}

		sheet.Rows = append(sheet.Rows, row)
		rowNumber++
	}

	return sheet, nil
}
