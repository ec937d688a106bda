package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"salereport/ledger"
)

const categoryColumns = `id, company_id, name, description, created_at`

func scanCategory(scanner interface{ Scan(...any) error }) (ledger.Category, error) {
	var (
		category    ledger.Category
		description sql.NullString
	)
	if err := scanner.Scan(&category.ID, &category.CompanyID, &category.Name, &description, &category.CreatedAt); err != nil {
		return ledger.Category{}, err
	}
	category.Description = nullStringPtr(description)
	return category, nil
}

func (s *SQLiteStore) ListCategories(companyID int64) ([]ledger.Category, error) {
	rows, err := s.db.Query(`SELECT `+categoryColumns+` FROM categories WHERE company_id = ? ORDER BY name;`, companyID)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	categories := make([]ledger.Category, 0, 16)
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}

	return categories, nil
}

func (s *SQLiteStore) GetCategory(id int64) (ledger.Category, bool, error) {
	row := s.db.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE id = ?;`, id)
	category, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ledger.Category{}, false, nil
		}
		return ledger.Category{}, false, fmt.Errorf("query category %d: %w", id, err)
	}
	return category, true, nil
}

// CategoryByName looks up a category by its exact name within a company.
func (s *SQLiteStore) CategoryByName(companyID int64, name string) (ledger.Category, bool, error) {
	row := s.db.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE company_id = ? AND name = ?;`, companyID, name)
	category, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ledger.Category{}, false, nil
		}
		return ledger.Category{}, false, fmt.Errorf("query category %q: %w", name, err)
	}
	return category, true, nil
}

func (s *SQLiteStore) CreateCategory(request ledger.CreateCategoryRequest) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO categories (company_id, name, description) VALUES (?, ?, ?);`,
		request.CompanyID,
		request.Name,
		request.Description,
	)
	if err != nil {
		return 0, fmt.Errorf("insert category %q: %w", request.Name, classify(err))
	}
	return insertedID(res)
}

func (s *SQLiteStore) UpdateCategory(id int64, request ledger.UpdateCategoryRequest) (bool, error) {
	update := newUpdate("categories")
	setIfPresent(update, "name", request.Name)
	update.setNullable("description", request.Description)
	return update.exec(s, id)
}

// DeleteCategory removes a category; customers referencing it keep their
// row with category_id set to NULL.
func (s *SQLiteStore) DeleteCategory(id int64) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM categories WHERE id = ?;`, id)
	if err != nil {
		return false, fmt.Errorf("delete category %d: %w", id, err)
	}
	return rowsAffected(res)
}
