package importer

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/text/encoding/unicode"
)

func TestParseCSV_ReadsHeadersAndRows(t *testing.T) {
	t.Parallel()

	sheet, err := ParseCSV("invno,cust_name\nINV-1,\"Acme, Ltd\"\nINV-2\n")
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(sheet.Headers) != 2 || sheet.Headers[0] != "invno" {
		t.Fatalf("unexpected headers: %v", sheet.Headers)
	}
	if len(sheet.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(sheet.Rows))
	}
	if sheet.Rows[0][1] != "Acme, Ltd" {
		t.Fatalf("unexpected quoted cell: %q", sheet.Rows[0][1])
	}
	if len(sheet.Rows[1]) != 1 {
		t.Fatalf("expected short row to be kept, got %v", sheet.Rows[1])
	}
}

func TestParseCSV_KeepsStrayQuotesLiterally(t *testing.T) {
	t.Parallel()

	sheet, err := ParseCSV("invno,cust_name,inv_date\nINV-1,Acme 12\" Pipes,2024-03-05\nINV-2, \"Beta\" ,2024-03-06\n")
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(sheet.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(sheet.Rows))
	}
	if sheet.Rows[0][1] != `Acme 12" Pipes` {
		t.Fatalf("unexpected cell with stray quote: %q", sheet.Rows[0][1])
	}

	headers := ResolveHeaders(sheet.Headers)
	if got := headers.Field(sheet.Rows[1], "cust_name"); got != "Beta" {
		t.Fatalf("expected padded quoted cell to resolve to Beta, got %q", got)
	}
}

func TestParseCSV_StripsUTF8BOM(t *testing.T) {
	t.Parallel()

	sheet, err := ParseCSV("\ufeffCustomer Name,Tally Name\nAcme,ACME\n")
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if sheet.Headers[0] != "Customer Name" {
		t.Fatalf("expected BOM to be removed, got %q", sheet.Headers[0])
	}
}

func TestParseCSV_EmptyInput(t *testing.T) {
	t.Parallel()

	sheet, err := ParseCSV("")
	if err != nil {
		t.Fatalf("parse empty csv: %v", err)
	}
	if len(sheet.Headers) != 0 || len(sheet.Rows) != 0 {
		t.Fatalf("expected empty sheet, got %+v", sheet)
	}
}

func TestParseCSV_MalformedQuote(t *testing.T) {
	t.Parallel()

	_, err := ParseCSV("invno,cust_name\nINV-1,\"unterminated\n")
	if !errors.Is(err, ErrMalformedCSV) {
		t.Fatalf("expected ErrMalformedCSV, got %v", err)
	}
}

func TestCSVReader_DecodesUTF16WithBOM(t *testing.T) {
	t.Parallel()

	encoder := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
	content, err := encoder.String("invno,cust_name\nINV-1,Acme\n")
	if err != nil {
		t.Fatalf("encode utf16: %v", err)
	}

	path := filepath.Join(t.TempDir(), "sales.csv")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	sheet, err := (&CSVReader{}).Read(path)
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(sheet.Rows) != 1 || sheet.Rows[0][1] != "Acme" {
		t.Fatalf("unexpected rows: %v", sheet.Rows)
	}
}

func TestInferFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path    string
		format  string
		want    string
		wantErr bool
	}{
		{path: "customers.csv", want: "csv"},
		{path: "sales.XLSX", want: "excel"},
		{path: "sales.data", format: "csv", want: "csv"},
		{path: "sales.pdf", wantErr: true},
		{path: "legacy.xls", wantErr: true},
		{path: "macro.xlsm", want: "excel"},
	}

	for _, tc := range tests {
		got, err := InferFormat(tc.path, tc.format)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("expected error for %s", tc.path)
			}
			continue
		}
		if err != nil {
			t.Fatalf("unexpected error for %s: %v", tc.path, err)
		}
		if got != tc.want {
			t.Fatalf("%s: want %q, got %q", tc.path, tc.want, got)
		}
	}
}

func TestLegacyExcelIsRejected(t *testing.T) {
	t.Parallel()

	if _, err := ReadFile("customers.xls", ""); !errors.Is(err, errLegacyExcel) {
		t.Fatalf("expected legacy excel error from inference, got %v", err)
	}
	if _, err := ReaderForFormat("xls"); !errors.Is(err, errLegacyExcel) {
		t.Fatalf("expected legacy excel error from explicit format, got %v", err)
	}
}
