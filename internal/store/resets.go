package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/NElyse/FPA-Project/internal/models"
)

func (s *Store) CreateResetToken(userID int64, token string, createdAt, expiresAt time.Time) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO password_resets (user_id, token, created_at, expires_at)
		VALUES (?, ?, ?, ?)
	`, userID, token, createdAt.UTC(), expiresAt.UTC())
	if err != nil {
		return 0, fmt.Errorf("insert reset token: %w", err)
	}
	return res.LastInsertId()
}

// LatestResetToken returns the most recently created row for the token, so a
// superseding forgot-password request wins over stale rows.
func (s *Store) LatestResetToken(token string) (*models.ResetToken, error) {
	row := s.db.QueryRow(`
		SELECT id, user_id, token, created_at, expires_at
		FROM password_resets
		WHERE token = ?
		ORDER BY created_at DESC
		LIMIT 1
	`, token)

	var rt models.ResetToken
	err := row.Scan(&rt.ID, &rt.UserID, &rt.Token, &rt.CreatedAt, &rt.ExpiresAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rt, nil
}

func (s *Store) DeleteResetToken(token string) error {
	_, err := s.db.Exec("DELETE FROM password_resets WHERE token = ?", token)
	return err
}

// PurgeExpiredResetTokens removes tokens past their expiry. Run periodically.
func (s *Store) PurgeExpiredResetTokens(now time.Time) (int64, error) {
	res, err := s.db.Exec("DELETE FROM password_resets WHERE expires_at < ?", now.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
