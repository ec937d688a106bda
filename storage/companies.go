package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"salereport/ledger"
)

func (s *SQLiteStore) ListCompanies() ([]ledger.Company, error) {
	rows, err := s.db.Query(`SELECT id, name, key, created_at FROM companies ORDER BY name, id;`)
	if err != nil {
		return nil, fmt.Errorf("query companies: %w", err)
	}
	defer rows.Close()

	companies := make([]ledger.Company, 0, 4)
	for rows.Next() {
		var company ledger.Company
		if err := rows.Scan(&company.ID, &company.Name, &company.Key, &company.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		companies = append(companies, company)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate companies: %w", err)
	}

	return companies, nil
}

func (s *SQLiteStore) GetCompany(id int64) (ledger.Company, bool, error) {
	return s.queryCompany(`SELECT id, name, key, created_at FROM companies WHERE id = ?;`, id)
}

func (s *SQLiteStore) GetCompanyByKey(key string) (ledger.Company, bool, error) {
	return s.queryCompany(`SELECT id, name, key, created_at FROM companies WHERE key = ?;`, key)
}

func (s *SQLiteStore) queryCompany(query string, arg any) (ledger.Company, bool, error) {
	var company ledger.Company
	err := s.db.QueryRow(query, arg).Scan(&company.ID, &company.Name, &company.Key, &company.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ledger.Company{}, false, nil
		}
		return ledger.Company{}, false, fmt.Errorf("query company %v: %w", arg, err)
	}
	return company, true, nil
}

func (s *SQLiteStore) CreateCompany(request ledger.CreateCompanyRequest) (int64, error) {
	res, err := s.db.Exec(`INSERT INTO companies (name, key) VALUES (?, ?);`, request.Name, request.Key)
	if err != nil {
		return 0, fmt.Errorf("insert company %q: %w", request.Key, classify(err))
	}
	return insertedID(res)
}

func (s *SQLiteStore) UpdateCompany(id int64, request ledger.UpdateCompanyRequest) (bool, error) {
	update := newUpdate("companies")
	setIfPresent(update, "name", request.Name)
	setIfPresent(update, "key", request.Key)
	return update.exec(s, id)
}
