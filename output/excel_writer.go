package output

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

type ExcelWriter struct{}

func (w *ExcelWriter) Write(dst io.Writer, table Table) error {
	file := excelize.NewFile()
	defer file.Close()

	sheet := file.GetSheetName(0)

	if err := setExcelRow(file, sheet, 1, table.Headers); err != nil {
		return err
	}
	for i, row := range table.Rows {
		if err := setExcelRow(file, sheet, i+2, row); err != nil {
			return err
		}
	}

	if _, err := file.WriteTo(dst); err != nil {
		return fmt.Errorf("write excel output: %w", err)
	}

	return nil
}

func setExcelRow(file *excelize.File, sheet string, row int, values []string) error {
	for col, value := range values {
		cell, _ := excelize.CoordinatesToCellName(col+1, row)
		if err := file.SetCellValue(sheet, cell, value); err != nil {
			return fmt.Errorf("set excel value %s: %w", cell, err)
		}
	}
	return nil
}
