package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/mustafa861/library/internal/model"
)

// issueDay is the fixed issue date used by loan tests.
var issueDay = time.Date(2024, time.March, 1, 9, 30, 0, 0, time.UTC)

// createTestStore creates a new store in a temporary directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// mustInsertBook inserts a book and fails the test on error.
func mustInsertBook(t *testing.T, s *Store, title, author, isbn string, quantity int) int64 {
	t.Helper()
	id, err := s.InsertBook(context.Background(), model.NewBook{
		Title:    title,
		Author:   author,
		ISBN:     isbn,
		Quantity: quantity,
	})
	if err != nil {
		t.Fatalf("InsertBook(%q) failed: %v", title, err)
	}
	return id
}

// mustInsertMember inserts a member and fails the test on error.
func mustInsertMember(t *testing.T, s *Store, name, email string) int64 {
	t.Helper()
	id, err := s.InsertMember(context.Background(), model.NewMember{
		Name:  name,
		Email: email,
		Phone: "555-0100",
	})
	if err != nil {
		t.Fatalf("InsertMember(%q) failed: %v", name, err)
	}
	return id
}

// countRows returns the number of rows in table.
func countRows(t *testing.T, s *Store, table string) int {
	t.Helper()
	var n int
	if err := s.db.Get(&n, "SELECT COUNT(*) FROM "+table); err != nil {
		t.Fatalf("count %s failed: %v", table, err)
	}
	return n
}

// availableOf reads the available counter of a book.
func availableOf(t *testing.T, s *Store, bookID int64) int {
	t.Helper()
	book, err := s.GetBook(context.Background(), bookID)
	if err != nil {
		t.Fatalf("GetBook(%d) failed: %v", bookID, err)
	}
	return book.Available
}
