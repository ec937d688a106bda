package app

import (
	"encoding/json"
	"fmt"

	"salereport/importer"
	"salereport/output"
)

// ImportCustomersCSV imports customers from raw CSV text and returns the
// outcome counts.
func (a *App) ImportCustomersCSV(companyID int64, csvText string) (*importer.Result, error) {
	sheet, err := importer.ParseCSV(csvText)
	if err != nil {
		return nil, err
	}
	return a.ImportCustomersSheet(companyID, sheet, nil)
}

func (a *App) ImportSalesReportsCSV(companyID int64, csvText string) (*importer.Result, error) {
	sheet, err := importer.ParseCSV(csvText)
	if err != nil {
		return nil, err
	}
	return a.ImportSalesReportsSheet(companyID, sheet, nil)
}

// ImportCustomersSheet runs a customer import under the lock. onRow may be nil.
func (a *App) ImportCustomersSheet(companyID int64, sheet importer.Sheet, onRow func(importer.RowOutcome)) (*importer.Result, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.requireCompany(companyID); err != nil {
		return nil, err
	}

	result, err := importer.ImportCustomers(a.store, companyID, sheet, a.importOptions(onRow))
	return a.finishImport("import_customers", "customer", companyID, result, err)
}

func (a *App) ImportSalesReportsSheet(companyID int64, sheet importer.Sheet, onRow func(importer.RowOutcome)) (*importer.Result, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.requireCompany(companyID); err != nil {
		return nil, err
	}

	result, err := importer.ImportSalesReports(a.store, companyID, sheet, a.importOptions(onRow))
	return a.finishImport("import_sales_reports", "sales_report", companyID, result, err)
}

type importAudit struct {
	BatchID    string `json:"batch_id"`
	RowsRead   int    `json:"rows_read"`
	Imported   int    `json:"imported"`
	Skipped    int    `json:"skipped"`
	Duplicates int    `json:"duplicates"`
	Error      string `json:"error,omitempty"`
}

func (a *App) finishImport(action, resource string, companyID int64, result *importer.Result, importErr error) (*importer.Result, error) {
	if result == nil {
		return nil, importErr
	}

	audit := importAudit{
		BatchID:    result.BatchID,
		RowsRead:   result.RowsRead,
		Imported:   result.Imported,
		Skipped:    result.Skipped,
		Duplicates: result.Duplicates,
	}
	if importErr != nil {
		audit.Error = importErr.Error()
	}

	logger := a.logger.With("action", action, "company_id", companyID, "batch_id", result.BatchID)
	details, err := json.Marshal(audit)
	if err != nil {
		return result, fmt.Errorf("encode audit details: %w", err)
	}
	if _, err := a.store.InsertAuditLog(companyID, action, string(details)); err != nil {
		logger.Error("write audit log", "error", err)
		if importErr == nil {
			return result, err
		}
	}

	if importErr != nil {
		logger.Error("import aborted", "imported", result.Imported, "error", importErr)
		return result, importErr
	}

	logger.Info("import finished",
		"rows", result.RowsRead,
		"imported", result.Imported,
		"skipped", result.Skipped,
		"duplicates", result.Duplicates,
	)
	if result.Imported > 0 {
		a.publish(resource, "import", result.BatchID)
	}
	return result, nil
}

// ExportCustomers returns the customer table of a company.
func (a *App) ExportCustomers(companyID int64) (output.Table, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	customers, err := a.store.ListCustomers(companyID)
	if err != nil {
		return output.Table{}, err
	}
	return output.CustomerTable(customers), nil
}

func (a *App) ExportSalesReports(companyID int64) (output.Table, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	reports, err := a.store.ListSalesReports(companyID)
	if err != nil {
		return output.Table{}, err
	}
	return output.SalesReportTable(reports), nil
}

func (a *App) ExportCustomersCSV(companyID int64) (string, error) {
	table, err := a.ExportCustomers(companyID)
	if err != nil {
		return "", err
	}
	return output.CSVString(table)
}

func (a *App) ExportSalesReportsCSV(companyID int64) (string, error) {
	table, err := a.ExportSalesReports(companyID)
	if err != nil {
		return "", err
	}
	return output.CSVString(table)
}
