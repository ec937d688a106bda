package storage

import (
	"fmt"
	"strings"
)

// updateBuilder collects SET clauses for a single-row UPDATE. Column names
// come from code only; values are always bound as parameters.
type updateBuilder struct {
	table   string
	columns []string
	args    []any
}

func newUpdate(table string) *updateBuilder {
	return &updateBuilder{table: table}
}

func (b *updateBuilder) set(column string, value any) {
	b.columns = append(b.columns, column+" = ?")
	b.args = append(b.args, value)
}

// setIfPresent adds column only when value is non-nil.
func setIfPresent[T any](b *updateBuilder, column string, value *T) {
	if value != nil {
		b.set(column, *value)
	}
}

// setNullable is setIfPresent for optional text columns: a present but blank
// value clears the column to NULL.
func (b *updateBuilder) setNullable(column string, value *string) {
	if value == nil {
		return
	}
	if strings.TrimSpace(*value) == "" {
		b.set(column, nil)
		return
	}
	b.set(column, *value)
}

func (b *updateBuilder) empty() bool {
	return len(b.columns) == 0
}

func (b *updateBuilder) build(id int64) (string, []any) {
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = ?;", b.table, strings.Join(b.columns, ", "))
	args := make([]any, 0, len(b.args)+1)
	args = append(args, b.args...)
	args = append(args, id)
	return query, args
}

// exec runs the update. It reports false without touching the database when
// no column was set.
func (b *updateBuilder) exec(s *SQLiteStore, id int64) (bool, error) {
	if b.empty() {
		return false, nil
	}

	query, args := b.build(id)
	res, err := s.db.Exec(query, args...)
	if err != nil {
		return false, fmt.Errorf("update %s %d: %w", b.table, id, classify(err))
	}
	return rowsAffected(res)
}
