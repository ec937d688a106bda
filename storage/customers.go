package storage

import (
	"database/sql"
	"fmt"
	"strings"

	"salereport/ledger"
)

const customerSelect = `
SELECT
	c.id,
	c.company_id,
	c.customer_name,
	c.tally_name,
	c.gst_no,
	c.category_id,
	cat.name,
	c.created_at
FROM customers c
LEFT JOIN categories cat ON c.category_id = cat.id
`

func (s *SQLiteStore) ListCustomers(companyID int64) ([]ledger.Customer, error) {
	return s.queryCustomers(customerSelect+`WHERE c.company_id = ? ORDER BY c.customer_name;`, companyID)
}

// SearchCustomers matches term as a substring of the customer name, tally
// name, GST number or category name.
func (s *SQLiteStore) SearchCustomers(companyID int64, term string) ([]ledger.Customer, error) {
	pattern := likePattern(term)
	return s.queryCustomers(customerSelect+`
WHERE c.company_id = ?
AND (c.customer_name LIKE ? ESCAPE '\' OR c.tally_name LIKE ? ESCAPE '\' OR c.gst_no LIKE ? ESCAPE '\' OR cat.name LIKE ? ESCAPE '\')
ORDER BY c.customer_name;`, companyID, pattern, pattern, pattern, pattern)
}

func (s *SQLiteStore) GetCustomer(id int64) (ledger.Customer, bool, error) {
	customers, err := s.queryCustomers(customerSelect+`WHERE c.id = ?;`, id)
	if err != nil {
		return ledger.Customer{}, false, err
	}
	if len(customers) == 0 {
		return ledger.Customer{}, false, nil
	}
	return customers[0], true, nil
}

func (s *SQLiteStore) queryCustomers(query string, args ...any) ([]ledger.Customer, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query customers: %w", err)
	}
	defer rows.Close()

	customers := make([]ledger.Customer, 0, 64)
	for rows.Next() {
		var (
			customer     ledger.Customer
			gstNo        sql.NullString
			categoryID   sql.NullInt64
			categoryName sql.NullString
		)
		if err := rows.Scan(
			&customer.ID,
			&customer.CompanyID,
			&customer.CustomerName,
			&customer.TallyName,
			&gstNo,
			&categoryID,
			&categoryName,
			&customer.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		customer.GSTNo = nullStringPtr(gstNo)
		customer.CategoryID = nullInt64Ptr(categoryID)
		customer.CategoryName = nullStringPtr(categoryName)
		customers = append(customers, customer)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate customers: %w", err)
	}

	return customers, nil
}

// CustomerExists reports whether the company already has a customer with
// exactly this name.
func (s *SQLiteStore) CustomerExists(companyID int64, customerName string) (bool, error) {
	var exists int
	err := s.db.QueryRow(
		`SELECT EXISTS(SELECT 1 FROM customers WHERE company_id = ? AND customer_name = ?);`,
		companyID,
		customerName,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check customer %q: %w", customerName, err)
	}
	return exists == 1, nil
}

func (s *SQLiteStore) CreateCustomer(request ledger.CreateCustomerRequest) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO customers (company_id, customer_name, tally_name, gst_no, category_id) VALUES (?, ?, ?, ?, ?);`,
		request.CompanyID,
		request.CustomerName,
		request.TallyName,
		request.GSTNo,
		request.CategoryID,
	)
	if err != nil {
		return 0, fmt.Errorf("insert customer %q: %w", request.CustomerName, classify(err))
	}
	return insertedID(res)
}

func (s *SQLiteStore) UpdateCustomer(id int64, request ledger.UpdateCustomerRequest) (bool, error) {
	update := newUpdate("customers")
	setIfPresent(update, "customer_name", request.CustomerName)
	setIfPresent(update, "tally_name", request.TallyName)
	update.setNullable("gst_no", request.GSTNo)
	setIfPresent(update, "category_id", request.CategoryID)
	return update.exec(s, id)
}

func (s *SQLiteStore) DeleteCustomer(id int64) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM customers WHERE id = ?;`, id)
	if err != nil {
		return false, fmt.Errorf("delete customer %d: %w", id, err)
	}
	return rowsAffected(res)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern builds a substring pattern for LIKE ? ESCAPE '\' so that % and _
// in term match literally.
func likePattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}
