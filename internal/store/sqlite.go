package store

import (
	"database/sql"
	"errors"
	"strings"
)

// ErrNotFound is returned when a referenced row does not exist.
var ErrNotFound = errors.New("not found")

// ConflictError reports which unique columns a write would violate.
type ConflictError struct {
	Fields []string // subset of "email", "username", "phone", in that order
}

func (e *ConflictError) Error() string {
	return "conflicting fields: " + strings.Join(e.Fields, ", ")
}

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Ping reports store connectivity, for the health endpoint.
func (s *Store) Ping() error {
	return s.db.Ping()
}
