package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"salereport/ledger"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

type SQLiteStore struct {
	db *sql.DB
}

var (
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a natural key (company key, category
	// name, customer name, invoice number) is already taken.
	ErrConflict = errors.New("record already exists")
)

func OpenSQLite(path string) (*SQLiteStore, error) {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	db, err := sql.Open("sqlite", path+sep+"_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// Single writer; callers serialize through app.App.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) ensureSchema() error {
	const schema = `
CREATE TABLE IF NOT EXISTS companies (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	key TEXT NOT NULL UNIQUE,
	created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS categories (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	company_id INTEGER NOT NULL,
	name TEXT NOT NULL,
	description TEXT,
	created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (company_id) REFERENCES companies(id) ON DELETE CASCADE,
	UNIQUE(company_id, name)
);

CREATE TABLE IF NOT EXISTS customers (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	company_id INTEGER NOT NULL,
	customer_name TEXT NOT NULL,
	tally_name TEXT NOT NULL,
	gst_no TEXT,
	category_id INTEGER,
	created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (company_id) REFERENCES companies(id) ON DELETE CASCADE,
	FOREIGN KEY (category_id) REFERENCES categories(id) ON DELETE SET NULL,
	UNIQUE(company_id, customer_name)
);

CREATE TABLE IF NOT EXISTS sales_reports (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	company_id INTEGER NOT NULL,
	cust_code TEXT NOT NULL DEFAULT '',
	cust_name TEXT NOT NULL DEFAULT '',
	inv_date TEXT NOT NULL,
	re TEXT NOT NULL DEFAULT '',
	invno TEXT NOT NULL,
	part_code TEXT,
	part_name TEXT,
	tariff TEXT,
	qty REAL NOT NULL DEFAULT 0,
	bas_price REAL NOT NULL DEFAULT 0,
	ass_val REAL NOT NULL DEFAULT 0,
	c_gst REAL NOT NULL DEFAULT 0,
	s_gst REAL NOT NULL DEFAULT 0,
	igst REAL NOT NULL DEFAULT 0,
	amot REAL NOT NULL DEFAULT 0,
	inv_val REAL NOT NULL DEFAULT 0,
	igst_yes_no TEXT NOT NULL DEFAULT 'no',
	percentage REAL NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (company_id) REFERENCES companies(id) ON DELETE CASCADE,
	UNIQUE(company_id, invno)
);

CREATE TABLE IF NOT EXISTS audit_logs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	company_id INTEGER NOT NULL,
	user_action TEXT NOT NULL,
	details_json TEXT NOT NULL,
	timestamp TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (company_id) REFERENCES companies(id) ON DELETE CASCADE
);
`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if err := s.migrateLegacyCategories(); err != nil {
		return err
	}

	const indexes = `
CREATE INDEX IF NOT EXISTS idx_customers_category ON customers(category_id);
CREATE INDEX IF NOT EXISTS idx_sales_reports_company_date ON sales_reports(company_id, inv_date);
CREATE INDEX IF NOT EXISTS idx_audit_logs_company ON audit_logs(company_id, timestamp);
`
	if _, err := s.db.Exec(indexes); err != nil {
		return fmt.Errorf("create indexes: %w", err)
	}

	return nil
}

func (s *SQLiteStore) tableColumns(table string) (map[string]bool, error) {
	rows, err := s.db.Query(fmt.Sprintf(`PRAGMA table_info(%s);`, table))
	if err != nil {
		return nil, fmt.Errorf("query table info %s: %w", table, err)
	}
	defer rows.Close()

	columns := make(map[string]bool)
	for rows.Next() {
		var (
			cid       int
			name      string
			colType   string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
			return nil, fmt.Errorf("scan table info %s: %w", table, err)
		}
		columns[strings.ToLower(name)] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate table info %s: %w", table, err)
	}

	return columns, nil
}

// migrateLegacyCategories converts the free-text customers.category column
// of older databases into category rows referenced by category_id. The text
// column is left in place; only customers without a category_id are touched.
func (s *SQLiteStore) migrateLegacyCategories() error {
	columns, err := s.tableColumns("customers")
	if err != nil {
		return err
	}
	if !columns["category"] {
		return nil
	}

	if !columns["category_id"] {
		if _, err := s.db.Exec(`ALTER TABLE customers ADD COLUMN category_id INTEGER REFERENCES categories(id) ON DELETE SET NULL;`); err != nil {
			return fmt.Errorf("add category_id column: %w", err)
		}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin category migration: %w", err)
	}

	if _, err := tx.Exec(`
INSERT OR IGNORE INTO categories (company_id, name)
SELECT DISTINCT company_id, TRIM(category)
FROM customers
WHERE category IS NOT NULL AND TRIM(category) != '' AND category_id IS NULL;`); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("migrate legacy categories: %w", err)
	}

	if _, err := tx.Exec(`
UPDATE customers
SET category_id = (
	SELECT cat.id FROM categories cat
	WHERE cat.company_id = customers.company_id AND cat.name = TRIM(customers.category)
)
WHERE category IS NOT NULL AND TRIM(category) != '' AND category_id IS NULL;`); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("link legacy categories: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit category migration: %w", err)
	}
	return nil
}

// SeedCompanies inserts the given companies when the companies table is empty
// and returns how many rows were added.
func (s *SQLiteStore) SeedCompanies(seeds []ledger.CreateCompanyRequest) (int, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM companies;`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count companies: %w", err)
	}
	if count > 0 || len(seeds) == 0 {
		return 0, nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin seed transaction: %w", err)
	}
	for _, seed := range seeds {
		if _, err := tx.Exec(`INSERT INTO companies (name, key) VALUES (?, ?);`, seed.Name, seed.Key); err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("seed company %q: %w", seed.Key, classify(err))
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit seed transaction: %w", err)
	}

	return len(seeds), nil
}

// ClearAllData removes every customer, category, sales report and audit log.
// Companies are kept.
func (s *SQLiteStore) ClearAllData() error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin clear transaction: %w", err)
	}

	for _, table := range []string{"audit_logs", "sales_reports", "customers", "categories"} {
		if _, err := tx.Exec(fmt.Sprintf(`DELETE FROM %s;`, table)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit clear transaction: %w", err)
	}
	return nil
}

// classify maps SQLite constraint violations to ErrConflict.
func classify(err error) error {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return fmt.Errorf("%w: %w", ErrConflict, err)
		}
	}
	return err
}

func rowsAffected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("read affected row count: %w", err)
	}
	return n > 0, nil
}

func insertedID(res sql.Result) (int64, error) {
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read inserted row id: %w", err)
	}
	if id <= 0 {
		return 0, fmt.Errorf("invalid inserted row id %d", id)
	}
	return id, nil
}

func nullStringPtr(value sql.NullString) *string {
	if !value.Valid {
		return nil
	}
	v := value.String
	return &v
}

func nullInt64Ptr(value sql.NullInt64) *int64 {
	if !value.Valid {
		return nil
	}
	v := value.Int64
	return &v
}
