package storage

import (
	"fmt"

	"salereport/ledger"
)

func (s *SQLiteStore) InsertAuditLog(companyID int64, action, detailsJSON string) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO audit_logs (company_id, user_action, details_json) VALUES (?, ?, ?);`,
		companyID,
		action,
		detailsJSON,
	)
	if err != nil {
		return 0, fmt.Errorf("insert audit log %q: %w", action, err)
	}
	return insertedID(res)
}

// ListAuditLogs returns up to limit entries for a company, newest first.
// A limit <= 0 returns all entries.
func (s *SQLiteStore) ListAuditLogs(companyID int64, limit int) ([]ledger.AuditLog, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.Query(`
SELECT id, company_id, user_action, details_json, timestamp
FROM audit_logs
WHERE company_id = ?
ORDER BY timestamp DESC, id DESC
LIMIT ?;`, companyID, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit logs: %w", err)
	}
	defer rows.Close()

	logs := make([]ledger.AuditLog, 0, 32)
	for rows.Next() {
		var entry ledger.AuditLog
		if err := rows.Scan(&entry.ID, &entry.CompanyID, &entry.UserAction, &entry.DetailsJSON, &entry.Timestamp); err != nil {
			return nil, fmt.Errorf("scan audit log: %w", err)
		}
		logs = append(logs, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit logs: %w", err)
	}

	return logs, nil
}
