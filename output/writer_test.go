package output

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"salereport/ledger"

	"github.com/xuri/excelize/v2"
)

func TestCustomerTable_CSV(t *testing.T) {
	t.Parallel()

	gst := "27ABCDE1234F1Z5"
	category := "Retail"
	table := CustomerTable([]ledger.Customer{
		{CustomerName: "Acme, Inc", TallyName: "ACME", GSTNo: &gst, CategoryName: &category, CreatedAt: "2024-03-05 10:00:00"},
		{CustomerName: "Beta", TallyName: "BETA", CreatedAt: "2024-03-06 10:00:00"},
	})

	got, err := CSVString(table)
	if err != nil {
		t.Fatalf("render csv: %v", err)
	}

	want := "Customer Name,Tally Name,GST No,Category,Created At\n" +
		"\"Acme, Inc\",ACME,27ABCDE1234F1Z5,Retail,2024-03-05 10:00:00\n" +
		"Beta,BETA,,,2024-03-06 10:00:00\n"
	if got != want {
		t.Fatalf("unexpected csv:\n%s", got)
	}
}

func TestSalesReportTable_FormatsAmounts(t *testing.T) {
	t.Parallel()

	table := SalesReportTable([]ledger.SalesReport{{
		CustName:   "Acme",
		InvDate:    "2024-03-05",
		RECode:     "QC",
		InvNo:      "INV-1",
		Qty:        2.5,
		AssVal:     1000,
		CGST:       90,
		SGST:       90,
		InvVal:     1180.1,
		IGSTYesNo:  "no",
		Percentage: 18,
	}})

	if len(table.Rows) != 1 || len(table.Rows[0]) != len(table.Headers) {
		t.Fatalf("row width does not match headers: %+v", table)
	}
	row := table.Rows[0]
	checks := map[string]string{
		"Qty":        "2.5",
		"Ass Val":    "1000.00",
		"Inv Val":    "1180.10",
		"Percentage": "18.00",
		"Part Code":  "",
	}
	for header, want := range checks {
		idx := indexOf(table.Headers, header)
		if idx < 0 {
			t.Fatalf("missing header %q", header)
		}
		if row[idx] != want {
			t.Fatalf("%s: expected %q, got %q", header, want, row[idx])
		}
	}
}

func TestExcelWriter_WritesFirstSheet(t *testing.T) {
	t.Parallel()

	table := Table{Headers: []string{"A", "B"}, Rows: [][]string{{"1", "x"}, {"2", "y"}}}

	var buf bytes.Buffer
	if err := (&ExcelWriter{}).Write(&buf, table); err != nil {
		t.Fatalf("write excel: %v", err)
	}

	workbook, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open written workbook: %v", err)
	}
	defer workbook.Close()

	rows, err := workbook.GetRows(workbook.GetSheetName(0))
	if err != nil {
		t.Fatalf("read rows: %v", err)
	}
	if len(rows) != 3 || rows[0][0] != "A" || rows[2][1] != "y" {
		t.Fatalf("unexpected rows: %v", rows)
	}
}

func TestWriteFile_InfersFormat(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	table := Table{Headers: []string{"A"}, Rows: [][]string{{"1"}}}

	if err := WriteFile(filepath.Join(dir, "out.csv"), "", table); err != nil {
		t.Fatalf("write csv file: %v", err)
	}
	if err := WriteFile(filepath.Join(dir, "out.xlsx"), "", table); err != nil {
		t.Fatalf("write xlsx file: %v", err)
	}
	if err := WriteFile(filepath.Join(dir, "out.txt"), "pdf", table); err == nil || !strings.Contains(err.Error(), "unsupported") {
		t.Fatalf("expected unsupported format error, got %v", err)
	}
}

func indexOf(values []string, target string) int {
	for i, value := range values {
		if value == target {
			return i
		}
	}
	return -1
}
