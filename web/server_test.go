package web

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"salereport/app"
	"salereport/importer"
	"salereport/ledger"
	"salereport/storage"

	"github.com/xuri/excelize/v2"
)

func newTestServer(t *testing.T) (*httptest.Server, ledger.Company) {
	t.Helper()

	store, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "web_test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if _, err := store.SeedCompanies([]ledger.CreateCompanyRequest{{Name: "Company A", Key: "company_a"}}); err != nil {
		t.Fatalf("seed companies: %v", err)
	}

	application := app.New(store, app.Options{YearCodes: map[int]string{2024: "Q"}})
	t.Cleanup(func() { _ = application.Close() })

	company, err := application.ResolveCompany("company_a")
	if err != nil {
		t.Fatalf("resolve company: %v", err)
	}

	ts := httptest.NewServer(NewServer(application, nil, nil))
	t.Cleanup(ts.Close)
	return ts, company
}

func doRequest(t *testing.T, method, url, contentType string, body io.Reader) (*http.Response, []byte) {
	t.Helper()

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	return resp, data
}

func TestServer_ImportSalesReportsFromCSVBody(t *testing.T) {
	t.Parallel()

	ts, _ := newTestServer(t)
	csvText := "invno,cust_name,inv_date,inv_val\n" +
		"INV-1,Acme,05/03/2024,\"1,000\"\n" +
		"INV-2,Beta,99/99/2024,10\n" +
		"INV-1,Acme,05/03/2024,\"1,000\"\n"

	resp, body := doRequest(t, http.MethodPost, ts.URL+"/api/companies/company_a/import/sales-reports", "text/csv", strings.NewReader(csvText))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}

	var result importer.Result
	if err := json.Unmarshal(body, &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result.Imported != 1 || result.Skipped != 1 || result.Duplicates != 1 {
		t.Fatalf("unexpected counts: %+v", result)
	}

	resp, body = doRequest(t, http.MethodGet, ts.URL+"/api/companies/company_a/sales-reports?page=1&page_size=10", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}
	var page ledger.SalesReportPage
	if err := json.Unmarshal(body, &page); err != nil {
		t.Fatalf("decode page: %v", err)
	}
	if page.Total != 1 || page.Data[0].InvVal != 1000 || page.Data[0].RECode != "QC" {
		t.Fatalf("unexpected page: %+v", page)
	}
}

func TestServer_ImportCustomersFromExcelUpload(t *testing.T) {
	t.Parallel()

	ts, company := newTestServer(t)

	workbook := excelize.NewFile()
	sheet := workbook.GetSheetName(0)
	rows := [][]any{{"Customer Name", "Tally Name"}, {"Acme", "ACME"}, {"Beta", ""}}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := workbook.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("set sheet row: %v", err)
		}
	}
	var xlsx bytes.Buffer
	if _, err := workbook.WriteTo(&xlsx); err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	_ = workbook.Close()

	var form bytes.Buffer
	mw := multipart.NewWriter(&form)
	part, err := mw.CreateFormFile("file", "customers.xlsx")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(xlsx.Bytes()); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	resp, body := doRequest(t, http.MethodPost, ts.URL+"/api/companies/company_a/import/customers", mw.FormDataContentType(), &form)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}
	var result importer.Result
	if err := json.Unmarshal(body, &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result.Imported != 1 || result.Skipped != 1 {
		t.Fatalf("unexpected counts: %+v", result)
	}

	resp, body = doRequest(t, http.MethodGet, ts.URL+"/api/companies/"+itoa(company.ID)+"/customers?q=acm", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}
	var customers []ledger.Customer
	if err := json.Unmarshal(body, &customers); err != nil {
		t.Fatalf("decode customers: %v", err)
	}
	if len(customers) != 1 || customers[0].TallyName != "ACME" {
		t.Fatalf("unexpected customers: %+v", customers)
	}
}

func TestServer_ErrorStatuses(t *testing.T) {
	t.Parallel()

	ts, company := newTestServer(t)

	tests := []struct {
		name        string
		method      string
		path        string
		contentType string
		body        string
		want        int
	}{
		{name: "unknown company", method: http.MethodGet, path: "/api/companies/nope/customers", want: http.StatusNotFound},
		{name: "malformed csv", method: http.MethodPost, path: "/api/companies/company_a/import/customers", contentType: "text/csv", body: "customer_name,tally_name\n\"Acme,ACME\n", want: http.StatusBadRequest},
		{name: "unknown import kind", method: http.MethodPost, path: "/api/companies/company_a/import/invoices", contentType: "text/csv", body: "a\n1\n", want: http.StatusNotFound},
		{name: "invalid gst", method: http.MethodPost, path: "/api/customers", contentType: "application/json", body: `{"company_id":` + itoa(company.ID) + `,"customer_name":"Acme","tally_name":"ACME","gst_no":"bad"}`, want: http.StatusBadRequest},
		{name: "unknown json field", method: http.MethodPost, path: "/api/customers", contentType: "application/json", body: `{"name":"Acme"}`, want: http.StatusBadRequest},
		{name: "missing customer delete", method: http.MethodDelete, path: "/api/customers/42", want: http.StatusNotFound},
		{name: "invalid id", method: http.MethodDelete, path: "/api/customers/abc", want: http.StatusBadRequest},
		{name: "invalid page", method: http.MethodGet, path: "/api/companies/company_a/sales-reports?page=x", want: http.StatusBadRequest},
		{name: "invalid date filter", method: http.MethodGet, path: "/api/companies/company_a/sales-reports?date_from=2024/01/01", want: http.StatusBadRequest},
		{name: "unsupported export format", method: http.MethodGet, path: "/api/companies/company_a/export/customers?format=pdf", want: http.StatusBadRequest},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			var body io.Reader
			if tc.body != "" {
				body = strings.NewReader(tc.body)
			}
			resp, data := doRequest(t, tc.method, ts.URL+tc.path, tc.contentType, body)
			if resp.StatusCode != tc.want {
				t.Fatalf("expected %d, got %d: %s", tc.want, resp.StatusCode, data)
			}
		})
	}
}

func TestServer_CustomerConflictAndUpdate(t *testing.T) {
	t.Parallel()

	ts, company := newTestServer(t)
	payload := `{"company_id":` + itoa(company.ID) + `,"customer_name":"Acme","tally_name":"ACME"}`

	resp, body := doRequest(t, http.MethodPost, ts.URL+"/api/customers", "application/json", strings.NewReader(payload))
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.StatusCode, body)
	}
	var created createdResponse
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatalf("decode created: %v", err)
	}

	resp, body = doRequest(t, http.MethodPost, ts.URL+"/api/customers", "application/json", strings.NewReader(payload))
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", resp.StatusCode, body)
	}

	resp, body = doRequest(t, http.MethodPatch, ts.URL+"/api/customers/"+itoa(created.ID), "application/json", strings.NewReader(`{"tally_name":"ACME_LEDGER"}`))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}
	var updated updatedResponse
	if err := json.Unmarshal(body, &updated); err != nil {
		t.Fatalf("decode updated: %v", err)
	}
	if !updated.Updated {
		t.Fatalf("expected update to report true")
	}

	resp, body = doRequest(t, http.MethodGet, ts.URL+"/api/companies/company_a/export/customers", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}
	if !strings.Contains(string(body), "Acme,ACME_LEDGER") {
		t.Fatalf("unexpected export: %s", body)
	}
	if got := resp.Header.Get("Content-Disposition"); !strings.Contains(got, "company_a_customers.csv") {
		t.Fatalf("unexpected content disposition: %q", got)
	}
}

func TestTempUploadPattern(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"":               "upload-*",
		"customers.xlsx": "customers-*.xlsx",
		"report":         "report-*",
		".xlsx":          "upload-*.xlsx",
	}
	for input, want := range cases {
		if got := tempUploadPattern(input); got != want {
			t.Fatalf("tempUploadPattern(%q) = %q, want %q", input, got, want)
		}
	}
}

func itoa(value int64) string {
	return strconv.FormatInt(value, 10)
}
