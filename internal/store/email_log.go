package store

import (
	"database/sql"
	"fmt"

	"github.com/mediscan/mediscan/internal/model"
)

type EmailLogStore struct {
	db *sql.DB
}

func NewEmailLogStore(db *sql.DB) *EmailLogStore {
	return &EmailLogStore{db: db}
}

// Create records a delivered report email.
func (s *EmailLogStore) Create(userID, reportID int64, recipient, status string) (*model.EmailLog, error) {
	result, err := s.db.Exec(
		`INSERT INTO email_logs (user_id, report_id, recipient_email, status) VALUES (?, ?, ?, ?)`,
		userID, reportID, recipient, status,
	)
	if err != nil {
		return nil, fmt.Errorf("insert email log: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	row := s.db.QueryRow(
		`SELECT id, user_id, report_id, recipient_email, status, sent_at FROM email_logs WHERE id = ?`, id,
	)
	var l model.EmailLog
	if err := row.Scan(&l.ID, &l.UserID, &l.ReportID, &l.RecipientEmail, &l.Status, &l.SentAt); err != nil {
		return nil, fmt.Errorf("get email log: %w", err)
	}
	return &l, nil
}

// ListByReport returns delivery history for a report, newest first.
func (s *EmailLogStore) ListByReport(reportID int64) ([]model.EmailLog, error) {
	rows, err := s.db.Query(
		`SELECT id, user_id, report_id, recipient_email, status, sent_at FROM email_logs WHERE report_id = ? ORDER BY sent_at DESC, id DESC`,
		reportID,
	)
	if err != nil {
		return nil, fmt.Errorf("list email logs: %w", err)
	}
	defer rows.Close()

	var logs []model.EmailLog
	for rows.Next() {
		var l model.EmailLog
		if err := rows.Scan(&l.ID, &l.UserID, &l.ReportID, &l.RecipientEmail, &l.Status, &l.SentAt); err != nil {
			return nil, fmt.Errorf("scan email log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
