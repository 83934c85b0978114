package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/mustafa861/library/internal/model"
)

// InsertBook inserts a book with available = quantity and returns its id.
// A non-empty ISBN that already exists fails with ErrDuplicateISBN and
// leaves the table unchanged.
func (s *Store) InsertBook(ctx context.Context, b model.NewBook) (int64, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO books (title, author, isbn, quantity, available)
		VALUES (?, ?, ?, ?, ?)
	`,
		b.Title,
		b.Author,
		nullable(b.ISBN),
		b.Quantity,
		b.Quantity,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("insert book: %w", ErrDuplicateISBN)
		}
		return 0, fmt.Errorf("insert book: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert book: last insert id: %w", err)
	}
	return id, nil
}

// InsertMember inserts a member and returns its id.
// A non-empty email that already exists fails with ErrDuplicateEmail and
// leaves the table unchanged.
func (s *Store) InsertMember(ctx context.Context, m model.NewMember) (int64, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO members (name, email, phone)
		VALUES (?, ?, ?)
	`,
		m.Name,
		nullable(m.Email),
		m.Phone,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("insert member: %w", ErrDuplicateEmail)
		}
		return 0, fmt.Errorf("insert member: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert member: last insert id: %w", err)
	}
	return id, nil
}

// IssueLoan atomically records an open loan and takes one copy off the shelf.
//
// Fails without writing anything when the book does not exist
// (ErrBookNotFound), the member does not exist (ErrMemberNotFound) or no copy
// is on the shelf (ErrNoCopiesAvailable). Only the calendar date of issued and
// due is persisted.
func (s *Store) IssueLoan(ctx context.Context, bookID, memberID int64, issued, due time.Time) (model.Loan, error) {
	loan := model.Loan{
		BookID:    bookID,
		MemberID:  memberID,
		IssueDate: truncateDate(issued),
		DueDate:   truncateDate(due),
	}

	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		var available int
		err := tx.GetContext(ctx, &available, `SELECT available FROM books WHERE book_id = ?`, bookID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrBookNotFound
		}
		if err != nil {
			return fmt.Errorf("read available: %w", err)
		}
		if available <= 0 {
			return ErrNoCopiesAvailable
		}

		var members int
		err = tx.GetContext(ctx, &members, `SELECT COUNT(*) FROM members WHERE member_id = ?`, memberID)
		if err != nil {
			return fmt.Errorf("read member: %w", err)
		}
		if members == 0 {
			return ErrMemberNotFound
		}

		result, err := tx.ExecContext(ctx, `
			INSERT INTO transactions (book_id, member_id, issue_date, due_date, returned)
			VALUES (?, ?, ?, ?, FALSE)
		`,
			bookID,
			memberID,
			loan.IssueDate.Format(model.DateLayout),
			loan.DueDate.Format(model.DateLayout),
		)
		if err != nil {
			return fmt.Errorf("insert transaction: %w", err)
		}
		loan.ID, err = result.LastInsertId()
		if err != nil {
			return fmt.Errorf("last insert id: %w", err)
		}

		// Guarded decrement: the row must still have a copy on the shelf.
		result, err = tx.ExecContext(ctx, `
			UPDATE books SET available = available - 1
			WHERE book_id = ? AND available > 0
		`, bookID)
		if err != nil {
			return fmt.Errorf("decrement available: %w", err)
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("decrement available: rows affected: %w", err)
		}
		if rowsAffected != 1 {
			return ErrNoCopiesAvailable
		}
		return nil
	})
	if err != nil {
		return model.Loan{}, fmt.Errorf("issue loan: %w", err)
	}

	return loan, nil
}

// ReturnLoan atomically closes one open loan for the pair and puts the copy
// back on the shelf. When several loans are open the oldest (lowest id) is
// closed. With no open loan nothing is written and ErrNoOpenLoan is returned.
func (s *Store) ReturnLoan(ctx context.Context, bookID, memberID int64) (model.Loan, error) {
	var loan model.Loan

	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		err := tx.GetContext(ctx, &loan, `
			SELECT transaction_id, book_id, member_id, issue_date, due_date, returned
			FROM transactions
			WHERE book_id = ? AND member_id = ? AND returned = FALSE
			ORDER BY transaction_id ASC
			LIMIT 1
		`, bookID, memberID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNoOpenLoan
		}
		if err != nil {
			return fmt.Errorf("find open loan: %w", err)
		}

		result, err := tx.ExecContext(ctx, `
			UPDATE transactions SET returned = TRUE
			WHERE transaction_id = ? AND returned = FALSE
		`, loan.ID)
		if err != nil {
			return fmt.Errorf("close loan: %w", err)
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("close loan: rows affected: %w", err)
		}
		if rowsAffected != 1 {
			return ErrNoOpenLoan
		}

		result, err = tx.ExecContext(ctx, `
			UPDATE books SET available = available + 1
			WHERE book_id = ?
		`, bookID)
		if err != nil {
			return fmt.Errorf("increment available: %w", err)
		}
		rowsAffected, err = result.RowsAffected()
		if err != nil {
			return fmt.Errorf("increment available: rows affected: %w", err)
		}
		if rowsAffected != 1 {
			return ErrBookNotFound
		}
		return nil
	})
	if err != nil {
		return model.Loan{}, fmt.Errorf("return loan: %w", err)
	}

	loan.Returned = true
	return loan, nil
}

// truncateDate drops the clock part of t, keeping its calendar date in UTC.
func truncateDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
