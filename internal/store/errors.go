package store

import (
	"errors"

	"github.com/mattn/go-sqlite3"
)

// Sentinel errors returned (wrapped) by store operations.
// Callers match them with errors.Is.
var (
	ErrDuplicateISBN     = errors.New("a book with this isbn already exists")
	ErrDuplicateEmail    = errors.New("a member with this email already exists")
	ErrBookNotFound      = errors.New("book not found")
	ErrMemberNotFound    = errors.New("member not found")
	ErrNoCopiesAvailable = errors.New("no copies available")
	ErrNoOpenLoan        = errors.New("no open loan for this book and member")
)

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint failure.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}

// nullable maps an empty optional column value to NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
