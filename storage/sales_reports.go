package storage

import (
	"database/sql"
	"fmt"
	"strings"

	"salereport/ledger"
)

const (
	defaultPageSize = 50
	maxPageSize     = 500
)

const salesReportSelect = `
SELECT
	id,
	company_id,
	cust_code,
	cust_name,
	inv_date,
	re,
	invno,
	part_code,
	part_name,
	tariff,
	qty,
	bas_price,
	ass_val,
	c_gst,
	s_gst,
	igst,
	amot,
	inv_val,
	igst_yes_no,
	percentage,
	created_at
FROM sales_reports
`

// ListSalesReports returns every sales report of a company in invoice date
// order.
func (s *SQLiteStore) ListSalesReports(companyID int64) ([]ledger.SalesReport, error) {
	return s.querySalesReports(salesReportSelect+`WHERE company_id = ? ORDER BY inv_date, id;`, companyID)
}

// PaginateSalesReports returns one page of reports matching filters, newest
// invoice first, together with the total match count. Page is 1-based.
func (s *SQLiteStore) PaginateSalesReports(companyID int64, page, pageSize int, filters ledger.SalesReportFilters) ([]ledger.SalesReport, int, error) {
	page, pageSize = ClampPage(page, pageSize)

	where, args := salesReportWhere(companyID, filters)

	var total int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM sales_reports `+where+`;`, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count sales reports: %w", err)
	}

	pageArgs := append(append([]any{}, args...), pageSize, (page-1)*pageSize)
	reports, err := s.querySalesReports(salesReportSelect+where+` ORDER BY inv_date DESC, id DESC LIMIT ? OFFSET ?;`, pageArgs...)
	if err != nil {
		return nil, 0, err
	}

	return reports, total, nil
}

// ClampPage applies the default and maximum page size and a minimum page of 1.
func ClampPage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

func salesReportWhere(companyID int64, filters ledger.SalesReportFilters) (string, []any) {
	clauses := []string{"company_id = ?"}
	args := []any{companyID}

	if filters.DateFrom != "" {
		clauses = append(clauses, "inv_date >= ?")
		args = append(args, filters.DateFrom)
	}
	if filters.DateTo != "" {
		clauses = append(clauses, "inv_date <= ?")
		args = append(args, filters.DateTo)
	}
	if term := strings.TrimSpace(filters.Customer); term != "" {
		clauses = append(clauses, `(cust_name LIKE ? ESCAPE '\' OR cust_code LIKE ? ESCAPE '\')`)
		args = append(args, likePattern(term), likePattern(term))
	}
	if term := strings.TrimSpace(filters.Invoice); term != "" {
		clauses = append(clauses, `invno LIKE ? ESCAPE '\'`)
		args = append(args, likePattern(term))
	}
	if filters.MinAmount != nil {
		clauses = append(clauses, "inv_val >= ?")
		args = append(args, *filters.MinAmount)
	}
	if filters.MaxAmount != nil {
		clauses = append(clauses, "inv_val <= ?")
		args = append(args, *filters.MaxAmount)
	}

	return "WHERE " + strings.Join(clauses, " AND "), args
}

// SearchSalesReports matches term against invoice number, customer code and
// name, and part code and name.
func (s *SQLiteStore) SearchSalesReports(companyID int64, term string) ([]ledger.SalesReport, error) {
	pattern := likePattern(term)
	return s.querySalesReports(salesReportSelect+`
WHERE company_id = ?
AND (invno LIKE ? ESCAPE '\' OR cust_code LIKE ? ESCAPE '\' OR cust_name LIKE ? ESCAPE '\' OR part_code LIKE ? ESCAPE '\' OR part_name LIKE ? ESCAPE '\')
ORDER BY inv_date DESC, id DESC;`, companyID, pattern, pattern, pattern, pattern, pattern)
}

func (s *SQLiteStore) GetSalesReport(id int64) (ledger.SalesReport, bool, error) {
	reports, err := s.querySalesReports(salesReportSelect+`WHERE id = ?;`, id)
	if err != nil {
		return ledger.SalesReport{}, false, err
	}
	if len(reports) == 0 {
		return ledger.SalesReport{}, false, nil
	}
	return reports[0], true, nil
}

func (s *SQLiteStore) querySalesReports(query string, args ...any) ([]ledger.SalesReport, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sales reports: %w", err)
	}
	defer rows.Close()

	reports := make([]ledger.SalesReport, 0, 256)
	for rows.Next() {
		var (
			report   ledger.SalesReport
			partCode sql.NullString
			partName sql.NullString
			tariff   sql.NullString
		)
		if err := rows.Scan(
			&report.ID,
			&report.CompanyID,
			&report.CustCode,
			&report.CustName,
			&report.InvDate,
			&report.RECode,
			&report.InvNo,
			&partCode,
			&partName,
			&tariff,
			&report.Qty,
			&report.BasPrice,
			&report.AssVal,
			&report.CGST,
			&report.SGST,
			&report.IGST,
			&report.Amot,
			&report.InvVal,
			&report.IGSTYesNo,
			&report.Percentage,
			&report.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan sales report: %w", err)
		}
		report.PartCode = nullStringPtr(partCode)
		report.PartName = nullStringPtr(partName)
		report.Tariff = nullStringPtr(tariff)
		reports = append(reports, report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sales reports: %w", err)
	}

	return reports, nil
}

// InvoiceExists reports whether the company already has a sales report with
// this invoice number.
func (s *SQLiteStore) InvoiceExists(companyID int64, invoiceNo string) (bool, error) {
	var exists int
	err := s.db.QueryRow(
		`SELECT EXISTS(SELECT 1 FROM sales_reports WHERE company_id = ? AND invno = ?);`,
		companyID,
		invoiceNo,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check invoice %q: %w", invoiceNo, err)
	}
	return exists == 1, nil
}

func (s *SQLiteStore) CreateSalesReport(request ledger.CreateSalesReportRequest) (int64, error) {
	const insertStmt = `
INSERT INTO sales_reports (
	company_id,
	cust_code,
	cust_name,
	inv_date,
	re,
	invno,
	part_code,
	part_name,
	tariff,
	qty,
	bas_price,
	ass_val,
	c_gst,
	s_gst,
	igst,
	amot,
	inv_val,
	igst_yes_no,
	percentage
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`

	igstYesNo := request.IGSTYesNo
	if igstYesNo == "" {
		igstYesNo = "no"
	}

	res, err := s.db.Exec(
		insertStmt,
		request.CompanyID,
		request.CustCode,
		request.CustName,
		request.InvDate,
		request.RECode,
		request.InvNo,
		request.PartCode,
		request.PartName,
		request.Tariff,
		request.Qty,
		request.BasPrice,
		request.AssVal,
		request.CGST,
		request.SGST,
		request.IGST,
		request.Amot,
		request.InvVal,
		igstYesNo,
		request.Percentage,
	)
	if err != nil {
		return 0, fmt.Errorf("insert sales report %q: %w", request.InvNo, classify(err))
	}
	return insertedID(res)
}

func (s *SQLiteStore) UpdateSalesReport(id int64, request ledger.UpdateSalesReportRequest) (bool, error) {
	update := newUpdate("sales_reports")
	setIfPresent(update, "cust_code", request.CustCode)
	setIfPresent(update, "cust_name", request.CustName)
	setIfPresent(update, "inv_date", request.InvDate)
	setIfPresent(update, "re", request.RECode)
	setIfPresent(update, "invno", request.InvNo)
	update.setNullable("part_code", request.PartCode)
	update.setNullable("part_name", request.PartName)
	update.setNullable("tariff", request.Tariff)
	setIfPresent(update, "qty", request.Qty)
	setIfPresent(update, "bas_price", request.BasPrice)
	setIfPresent(update, "ass_val", request.AssVal)
	setIfPresent(update, "c_gst", request.CGST)
	setIfPresent(update, "s_gst", request.SGST)
	setIfPresent(update, "igst", request.IGST)
	setIfPresent(update, "amot", request.Amot)
	setIfPresent(update, "inv_val", request.InvVal)
	setIfPresent(update, "igst_yes_no", request.IGSTYesNo)
	setIfPresent(update, "percentage", request.Percentage)
	return update.exec(s, id)
}

func (s *SQLiteStore) DeleteSalesReport(id int64) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM sales_reports WHERE id = ?;`, id)
	if err != nil {
		return false, fmt.Errorf("delete sales report %d: %w", id, err)
	}
	return rowsAffected(res)
}
