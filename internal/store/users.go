package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/NElyse/FPA-Project/internal/models"
)

const userColumns = "id, full_names, email, username, phone, password_hash, role, created_at, updated_at"

func scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.FullNames, &u.Email, &u.Username, &u.Phone,
		&u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// FindUserConflicts returns every unique column (email, username, phone) that
// the given values would collide with, in that order. Rows belonging to
// excludeID are ignored so a user can update their own record.
func (s *Store) FindUserConflicts(email, username, phone string, excludeID int64) ([]string, error) {
	rows, err := s.db.Query(`
		SELECT email, username, phone FROM users
		WHERE (email = ? OR username = ? OR phone = ?) AND id != ?
	`, email, username, phone, excludeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var emailTaken, usernameTaken, phoneTaken bool
	for rows.Next() {
		var e, u, p string
		if err := rows.Scan(&e, &u, &p); err != nil {
			return nil, err
		}
		if email != "" && e == email {
			emailTaken = true
		}
		if username != "" && u == username {
			usernameTaken = true
		}
		if phone != "" && p == phone {
			phoneTaken = true
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var conflicts []string
	if emailTaken {
		conflicts = append(conflicts, "email")
	}
	if usernameTaken {
		conflicts = append(conflicts, "username")
	}
	if phoneTaken {
		conflicts = append(conflicts, "phone")
	}
	return conflicts, nil
}

func (s *Store) CreateUser(u *models.User) (int64, error) {
	now := time.Now().UTC()
	res, err := s.db.Exec(`
		INSERT INTO users (full_names, email, username, phone, password_hash, role, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, u.FullNames, u.Email, u.Username, u.Phone, u.PasswordHash, u.Role, now, now)
	if err != nil {
		return 0, fmt.Errorf("insert user: %w", err)
	}
	return res.LastInsertId()
}

func (s *Store) GetUserByID(id int64) (*models.User, error) {
	row := s.db.QueryRow("SELECT "+userColumns+" FROM users WHERE id = ?", id)
	return scanUser(row)
}

// GetUserByIdentifier looks a user up by email, username, or phone.
func (s *Store) GetUserByIdentifier(identifier string) (*models.User, error) {
	row := s.db.QueryRow(`
		SELECT `+userColumns+` FROM users
		WHERE email = ? OR username = ? OR phone = ?
		LIMIT 1
	`, identifier, identifier, identifier)
	return scanUser(row)
}

func (s *Store) GetUserByEmail(email string) (*models.User, error) {
	row := s.db.QueryRow("SELECT "+userColumns+" FROM users WHERE email = ? LIMIT 1", email)
	return scanUser(row)
}

// UserUpdate carries the optional fields of a profile update. Empty fields
// are left unchanged.
type UserUpdate struct {
	FullNames string
	Email     string
	Username  string
	Phone     string
}

func (u UserUpdate) Empty() bool {
	return u.FullNames == "" && u.Email == "" && u.Username == "" && u.Phone == ""
}

func (s *Store) UpdateUser(id int64, upd UserUpdate) error {
	var sets []string
	var args []any

	if upd.FullNames != "" {
		sets = append(sets, "full_names = ?")
		args = append(args, upd.FullNames)
	}
	if upd.Email != "" {
		sets = append(sets, "email = ?")
		args = append(args, upd.Email)
	}
	if upd.Username != "" {
		sets = append(sets, "username = ?")
		args = append(args, upd.Username)
	}
	if upd.Phone != "" {
		sets = append(sets, "phone = ?")
		args = append(args, upd.Phone)
	}
	if len(sets) == 0 {
		return nil
	}

	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now().UTC(), id)

	res, err := s.db.Exec("UPDATE users SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetUserPassword replaces the stored credential hash.
func (s *Store) SetUserPassword(id int64, passwordHash string) error {
	res, err := s.db.Exec(
		"UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?",
		passwordHash, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("set password: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
