package storage

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"salereport/ledger"
)

func openTestStore(t *testing.T) (*SQLiteStore, int64) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "salereport_test.db")
	store, err := OpenSQLite(dbPath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	companyID, err := store.CreateCompany(ledger.CreateCompanyRequest{Name: "Company A", Key: "company_a"})
	if err != nil {
		t.Fatalf("create company: %v", err)
	}
	return store, companyID
}

func TestSQLiteStore_SeedCompaniesOnlyWhenEmpty(t *testing.T) {
	t.Parallel()

	store, err := OpenSQLite(filepath.Join(t.TempDir(), "seed.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer store.Close()

	seeds := []ledger.CreateCompanyRequest{
		{Name: "Company A", Key: "company_a"},
		{Name: "Company B", Key: "company_b"},
	}
	added, err := store.SeedCompanies(seeds)
	if err != nil {
		t.Fatalf("seed companies: %v", err)
	}
	if added != 2 {
		t.Fatalf("expected 2 seeded companies, got %d", added)
	}

	added, err = store.SeedCompanies(seeds)
	if err != nil {
		t.Fatalf("seed companies again: %v", err)
	}
	if added != 0 {
		t.Fatalf("expected second seed to be a no-op, got %d", added)
	}

	company, found, err := store.GetCompanyByKey("company_b")
	if err != nil || !found {
		t.Fatalf("get company by key: found=%v err=%v", found, err)
	}
	if company.Name != "Company B" {
		t.Fatalf("unexpected company: %+v", company)
	}
}

func TestSQLiteStore_CompanyKeyConflict(t *testing.T) {
	t.Parallel()

	store, _ := openTestStore(t)

	_, err := store.CreateCompany(ledger.CreateCompanyRequest{Name: "Other", Key: "company_a"})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestSQLiteStore_CustomerLifecycle(t *testing.T) {
	t.Parallel()

	store, companyID := openTestStore(t)

	categoryID, err := store.CreateCategory(ledger.CreateCategoryRequest{CompanyID: companyID, Name: "Retail"})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	gst := "27ABCDE1234F1Z5"
	customerID, err := store.CreateCustomer(ledger.CreateCustomerRequest{
		CompanyID:    companyID,
		CustomerName: "Acme Traders",
		TallyName:    "ACME",
		GSTNo:        &gst,
		CategoryID:   &categoryID,
	})
	if err != nil {
		t.Fatalf("create customer: %v", err)
	}

	exists, err := store.CustomerExists(companyID, "Acme Traders")
	if err != nil || !exists {
		t.Fatalf("expected customer to exist: exists=%v err=%v", exists, err)
	}
	exists, err = store.CustomerExists(companyID, "acme traders")
	if err != nil || exists {
		t.Fatalf("expected exact-match existence check: exists=%v err=%v", exists, err)
	}

	if _, err := store.CreateCustomer(ledger.CreateCustomerRequest{CompanyID: companyID, CustomerName: "Acme Traders", TallyName: "X"}); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict for duplicate customer, got %v", err)
	}

	customers, err := store.ListCustomers(companyID)
	if err != nil {
		t.Fatalf("list customers: %v", err)
	}
	if len(customers) != 1 || customers[0].CategoryName == nil || *customers[0].CategoryName != "Retail" {
		t.Fatalf("expected joined category name, got %+v", customers)
	}

	found, err := store.SearchCustomers(companyID, "retail")
	if err != nil {
		t.Fatalf("search customers: %v", err)
	}
	if len(found) != 1 {
		t.Fatalf("expected category search hit, got %d", len(found))
	}

	newTally := "ACME_LEDGER"
	blank := ""
	updated, err := store.UpdateCustomer(customerID, ledger.UpdateCustomerRequest{TallyName: &newTally, GSTNo: &blank})
	if err != nil || !updated {
		t.Fatalf("update customer: updated=%v err=%v", updated, err)
	}
	customer, ok, err := store.GetCustomer(customerID)
	if err != nil || !ok {
		t.Fatalf("get customer: ok=%v err=%v", ok, err)
	}
	if customer.TallyName != "ACME_LEDGER" || customer.GSTNo != nil || customer.CustomerName != "Acme Traders" {
		t.Fatalf("unexpected customer after update: %+v", customer)
	}

	deleted, err := store.DeleteCategory(categoryID)
	if err != nil || !deleted {
		t.Fatalf("delete category: deleted=%v err=%v", deleted, err)
	}
	customer, _, err = store.GetCustomer(customerID)
	if err != nil {
		t.Fatalf("get customer after category delete: %v", err)
	}
	if customer.CategoryID != nil {
		t.Fatalf("expected category_id to be cleared, got %v", *customer.CategoryID)
	}

	deleted, err = store.DeleteCustomer(customerID)
	if err != nil || !deleted {
		t.Fatalf("delete customer: deleted=%v err=%v", deleted, err)
	}
	deleted, err = store.DeleteCustomer(customerID)
	if err != nil || deleted {
		t.Fatalf("expected second delete to report false: deleted=%v err=%v", deleted, err)
	}
}

func TestSQLiteStore_UpdateWithoutFieldsIsNoop(t *testing.T) {
	t.Parallel()

	store, companyID := openTestStore(t)

	updated, err := store.UpdateCompany(companyID, ledger.UpdateCompanyRequest{})
	if err != nil {
		t.Fatalf("update company: %v", err)
	}
	if updated {
		t.Fatalf("expected empty update to report false")
	}

	name := "Renamed"
	updated, err = store.UpdateCompany(999, ledger.UpdateCompanyRequest{Name: &name})
	if err != nil {
		t.Fatalf("update missing company: %v", err)
	}
	if updated {
		t.Fatalf("expected update of missing company to report false")
	}
}

func TestUpdateBuilder_OnlySetColumns(t *testing.T) {
	t.Parallel()

	name := "Acme"
	blank := " "
	var absent *string

	update := newUpdate("customers")
	setIfPresent(update, "customer_name", &name)
	setIfPresent(update, "tally_name", absent)
	update.setNullable("gst_no", &blank)

	query, args := update.build(7)
	if query != "UPDATE customers SET customer_name = ?, gst_no = ? WHERE id = ?;" {
		t.Fatalf("unexpected query: %s", query)
	}
	if len(args) != 3 || args[0] != "Acme" || args[1] != nil || args[2] != int64(7) {
		t.Fatalf("unexpected args: %#v", args)
	}
}

func TestSQLiteStore_PaginateSalesReports(t *testing.T) {
	t.Parallel()

	store, companyID := openTestStore(t)

	reports := []ledger.CreateSalesReportRequest{
		{CompanyID: companyID, InvNo: "INV-1", InvDate: "2024-01-10", CustName: "Acme", InvVal: 100},
		{CompanyID: companyID, InvNo: "INV-2", InvDate: "2024-02-10", CustName: "Beta", InvVal: 250},
		{CompanyID: companyID, InvNo: "INV-3", InvDate: "2024-03-10", CustName: "Acme", InvVal: 900},
		{CompanyID: companyID, InvNo: "INV-4", InvDate: "2024-04-10", CustCode: "ACM", InvVal: 50},
	}
	for _, report := range reports {
		if _, err := store.CreateSalesReport(report); err != nil {
			t.Fatalf("create sales report %s: %v", report.InvNo, err)
		}
	}

	page, total, err := store.PaginateSalesReports(companyID, 1, 2, ledger.SalesReportFilters{})
	if err != nil {
		t.Fatalf("paginate: %v", err)
	}
	if total != 4 || len(page) != 2 || page[0].InvNo != "INV-4" {
		t.Fatalf("unexpected first page: total=%d page=%+v", total, page)
	}

	minAmount := 90.0
	page, total, err = store.PaginateSalesReports(companyID, 1, 10, ledger.SalesReportFilters{
		Customer:  "ac",
		DateFrom:  "2024-01-01",
		DateTo:    "2024-03-31",
		MinAmount: &minAmount,
	})
	if err != nil {
		t.Fatalf("paginate with filters: %v", err)
	}
	if total != 2 || len(page) != 2 || page[0].InvNo != "INV-3" || page[1].InvNo != "INV-1" {
		t.Fatalf("unexpected filtered page: total=%d page=%+v", total, page)
	}

	page, _, err = store.PaginateSalesReports(companyID, 3, 2, ledger.SalesReportFilters{})
	if err != nil {
		t.Fatalf("paginate past end: %v", err)
	}
	if len(page) != 0 {
		t.Fatalf("expected empty page past the end, got %d rows", len(page))
	}

	found, err := store.SearchSalesReports(companyID, "INV-2")
	if err != nil {
		t.Fatalf("search sales reports: %v", err)
	}
	if len(found) != 1 || found[0].IGSTYesNo != "no" {
		t.Fatalf("unexpected search result: %+v", found)
	}
}

func TestSQLiteStore_SearchTreatsWildcardsLiterally(t *testing.T) {
	t.Parallel()

	store, companyID := openTestStore(t)

	for _, name := range []string{"50% OFF Stores", "5000 Traders", "A_B Agencies", "AXB Agencies"} {
		if _, err := store.CreateCustomer(ledger.CreateCustomerRequest{CompanyID: companyID, CustomerName: name, TallyName: name}); err != nil {
			t.Fatalf("create customer %q: %v", name, err)
		}
	}
	for _, invNo := range []string{"INV_1", "INVX1"} {
		if _, err := store.CreateSalesReport(ledger.CreateSalesReportRequest{CompanyID: companyID, InvNo: invNo, InvDate: "2024-01-10"}); err != nil {
			t.Fatalf("create sales report %s: %v", invNo, err)
		}
	}

	tests := []struct {
		term string
		want string
	}{
		{term: "50%", want: "50% OFF Stores"},
		{term: "a_b", want: "A_B Agencies"},
	}
	for _, tt := range tests {
		customers, err := store.SearchCustomers(companyID, tt.term)
		if err != nil {
			t.Fatalf("search customers %q: %v", tt.term, err)
		}
		if len(customers) != 1 || customers[0].CustomerName != tt.want {
			t.Fatalf("search %q: expected only %q, got %+v", tt.term, tt.want, customers)
		}
	}

	reports, err := store.SearchSalesReports(companyID, "INV_")
	if err != nil {
		t.Fatalf("search sales reports: %v", err)
	}
	if len(reports) != 1 || reports[0].InvNo != "INV_1" {
		t.Fatalf("expected only INV_1, got %+v", reports)
	}

	page, total, err := store.PaginateSalesReports(companyID, 1, 10, ledger.SalesReportFilters{Invoice: "v_1"})
	if err != nil {
		t.Fatalf("paginate with invoice filter: %v", err)
	}
	if total != 1 || len(page) != 1 || page[0].InvNo != "INV_1" {
		t.Fatalf("unexpected invoice filter page: total=%d page=%+v", total, page)
	}
}

func TestSQLiteStore_SalesReportUpdateAndConflict(t *testing.T) {
	t.Parallel()

	store, companyID := openTestStore(t)

	id, err := store.CreateSalesReport(ledger.CreateSalesReportRequest{CompanyID: companyID, InvNo: "INV-1", InvDate: "2024-01-10"})
	if err != nil {
		t.Fatalf("create sales report: %v", err)
	}
	if _, err := store.CreateSalesReport(ledger.CreateSalesReportRequest{CompanyID: companyID, InvNo: "INV-1", InvDate: "2024-01-11"}); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	exists, err := store.InvoiceExists(companyID, "INV-1")
	if err != nil || !exists {
		t.Fatalf("expected invoice to exist: exists=%v err=%v", exists, err)
	}

	qty := 12.5
	part := "Bolt"
	updated, err := store.UpdateSalesReport(id, ledger.UpdateSalesReportRequest{Qty: &qty, PartName: &part})
	if err != nil || !updated {
		t.Fatalf("update sales report: updated=%v err=%v", updated, err)
	}
	report, ok, err := store.GetSalesReport(id)
	if err != nil || !ok {
		t.Fatalf("get sales report: ok=%v err=%v", ok, err)
	}
	if report.Qty != 12.5 || report.PartName == nil || *report.PartName != "Bolt" || report.PartCode != nil {
		t.Fatalf("unexpected report after update: %+v", report)
	}
}

func TestSQLiteStore_MigratesLegacyCategoryColumn(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "legacy.db")
	store, err := OpenSQLite(dbPath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	_ = store.Close()

	raw, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("open raw db: %v", err)
	}
	statements := []string{
		`ALTER TABLE customers ADD COLUMN category TEXT;`,
		`INSERT INTO companies (id, name, key) VALUES (1, 'Company A', 'company_a');`,
		`INSERT INTO customers (company_id, customer_name, tally_name, category) VALUES (1, 'Acme', 'ACME', 'Retail');`,
		`INSERT INTO customers (company_id, customer_name, tally_name, category) VALUES (1, 'Beta', 'BETA', 'Retail');`,
		`INSERT INTO customers (company_id, customer_name, tally_name, category) VALUES (1, 'Gamma', 'GAMMA', '');`,
	}
	for _, statement := range statements {
		if _, err := raw.Exec(statement); err != nil {
			_ = raw.Close()
			t.Fatalf("exec %q: %v", statement, err)
		}
	}
	_ = raw.Close()

	store, err = OpenSQLite(dbPath)
	if err != nil {
		t.Fatalf("reopen sqlite: %v", err)
	}
	defer store.Close()

	categories, err := store.ListCategories(1)
	if err != nil {
		t.Fatalf("list categories: %v", err)
	}
	if len(categories) != 1 || categories[0].Name != "Retail" {
		t.Fatalf("expected one migrated category, got %+v", categories)
	}

	customers, err := store.ListCustomers(1)
	if err != nil {
		t.Fatalf("list customers: %v", err)
	}
	for _, customer := range customers {
		switch customer.CustomerName {
		case "Acme", "Beta":
			if customer.CategoryID == nil || *customer.CategoryID != categories[0].ID {
				t.Fatalf("expected %s linked to Retail, got %+v", customer.CustomerName, customer)
			}
		case "Gamma":
			if customer.CategoryID != nil {
				t.Fatalf("expected Gamma to stay uncategorized")
			}
		}
	}
}

func TestSQLiteStore_ClearAllDataKeepsCompanies(t *testing.T) {
	t.Parallel()

	store, companyID := openTestStore(t)

	if _, err := store.CreateCustomer(ledger.CreateCustomerRequest{CompanyID: companyID, CustomerName: "Acme", TallyName: "ACME"}); err != nil {
		t.Fatalf("create customer: %v", err)
	}
	if _, err := store.CreateSalesReport(ledger.CreateSalesReportRequest{CompanyID: companyID, InvNo: "INV-1", InvDate: "2024-01-10"}); err != nil {
		t.Fatalf("create sales report: %v", err)
	}
	if _, err := store.InsertAuditLog(companyID, "import_customers", `{"imported":1}`); err != nil {
		t.Fatalf("insert audit log: %v", err)
	}

	if err := store.ClearAllData(); err != nil {
		t.Fatalf("clear all data: %v", err)
	}

	customers, err := store.ListCustomers(companyID)
	if err != nil || len(customers) != 0 {
		t.Fatalf("expected no customers: %d, err=%v", len(customers), err)
	}
	reports, err := store.ListSalesReports(companyID)
	if err != nil || len(reports) != 0 {
		t.Fatalf("expected no sales reports: %d, err=%v", len(reports), err)
	}
	logs, err := store.ListAuditLogs(companyID, 0)
	if err != nil || len(logs) != 0 {
		t.Fatalf("expected no audit logs: %d, err=%v", len(logs), err)
	}
	companies, err := store.ListCompanies()
	if err != nil || len(companies) != 1 {
		t.Fatalf("expected company to survive: %d, err=%v", len(companies), err)
	}
}

func TestSQLiteStore_AuditLogsNewestFirst(t *testing.T) {
	t.Parallel()

	store, companyID := openTestStore(t)

	for _, action := range []string{"import_customers", "import_sales_reports"} {
		if _, err := store.InsertAuditLog(companyID, action, `{}`); err != nil {
			t.Fatalf("insert audit log: %v", err)
		}
	}

	logs, err := store.ListAuditLogs(companyID, 1)
	if err != nil {
		t.Fatalf("list audit logs: %v", err)
	}
	if len(logs) != 1 || logs[0].UserAction != "import_sales_reports" {
		t.Fatalf("unexpected audit logs: %+v", logs)
	}
}
