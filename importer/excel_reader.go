package importer

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

type ExcelReader struct{}

// Read loads the first worksheet; its first row is the header row.
func (r *ExcelReader) Read(path string) (Sheet, error) {
	file, err := excelize.OpenFile(path)
	if err != nil {
		return Sheet{}, fmt.Errorf("open excel file %s: %w", path, err)
	}
	defer file.Close()

	sheetName := file.GetSheetName(0)
	if sheetName == "" {
		return Sheet{}, fmt.Errorf("excel file has no sheets: %s", path)
	}

	rows, err := file.GetRows(sheetName)
	if err != nil {
		return Sheet{}, fmt.Errorf("read rows from sheet %s: %w", sheetName, err)
	}
	if len(rows) == 0 {
		return Sheet{}, fmt.Errorf("sheet %s is empty", sheetName)
	}

	return Sheet{Headers: rows[0], Rows: rows[1:]}, nil
}
