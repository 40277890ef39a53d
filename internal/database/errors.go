package database

import (
	"errors"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	// ErrNotFound is returned when an update targets an identity that does not exist.
	ErrNotFound = errors.New("identity record not found")
	// ErrDuplicateKey is returned when an insert collides with an existing uuid or chat_id.
	ErrDuplicateKey = errors.New("identity record already exists")
)

func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	switch sqliteErr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return true
	case sqlite3.SQLITE_CONSTRAINT:
		// connection opened without extended result codes
		return strings.Contains(sqliteErr.Error(), "UNIQUE constraint failed")
	}
	return false
}
