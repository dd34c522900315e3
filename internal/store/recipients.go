package store

import (
	"database/sql"
	"fmt"

	"github.com/NElyse/FPA-Project/internal/models"
)

const recipientColumns = "id, full_name, phone, email, location, recipient_type, registered_by, created_at"

func (s *Store) InsertRecipient(r *models.Recipient) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO alert_recipients (full_name, phone, email, location, recipient_type, registered_by)
		VALUES (?, ?, ?, ?, ?, ?)
	`, r.FullName, r.Phone, r.Email, r.Location, r.Type, r.RegisteredBy)
	if err != nil {
		return 0, fmt.Errorf("insert recipient: %w", err)
	}
	return res.LastInsertId()
}

// ListRecipientsByUser returns recipients registered by the user, newest
// first, capped at limit.
func (s *Store) ListRecipientsByUser(userID int64, limit int) ([]models.Recipient, error) {
	rows, err := s.db.Query(`
		SELECT `+recipientColumns+`
		FROM alert_recipients
		WHERE registered_by = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecipients(rows)
}

// ListRecipientsByLocation returns all recipients for a sector. The match is
// a case-sensitive exact comparison.
func (s *Store) ListRecipientsByLocation(location string) ([]models.Recipient, error) {
	rows, err := s.db.Query(`
		SELECT `+recipientColumns+`
		FROM alert_recipients
		WHERE location = ?
	`, location)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecipients(rows)
}

func scanRecipients(rows *sql.Rows) ([]models.Recipient, error) {
	var recipients []models.Recipient
	for rows.Next() {
		var r models.Recipient
		if err := rows.Scan(&r.ID, &r.FullName, &r.Phone, &r.Email, &r.Location,
			&r.Type, &r.RegisteredBy, &r.CreatedAt); err != nil {
			return nil, err
		}
		recipients = append(recipients, r)
	}
	return recipients, rows.Err()
}
