package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/mustafa861/library/internal/model"
)

var bookColumns = []any{"book_id", "title", "author", "isbn", "quantity", "available"}

// GetBook returns the book with the given id or ErrBookNotFound.
func (s *Store) GetBook(ctx context.Context, bookID int64) (model.Book, error) {
	query, args, err := dialect.From(tableBooks).
		Select(bookColumns...).
		Where(goqu.C("book_id").Eq(bookID)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return model.Book{}, fmt.Errorf("get book: build query: %w", err)
	}

	var book model.Book
	if err := s.db.GetContext(ctx, &book, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Book{}, fmt.Errorf("get book %d: %w", bookID, ErrBookNotFound)
		}
		return model.Book{}, fmt.Errorf("get book %d: %w", bookID, err)
	}
	return book, nil
}

// GetMember returns the member with the given id or ErrMemberNotFound.
func (s *Store) GetMember(ctx context.Context, memberID int64) (model.Member, error) {
	query, args, err := dialect.From(tableMembers).
		Select("member_id", "name", "email", goqu.COALESCE(goqu.C("phone"), "").As("phone")).
		Where(goqu.C("member_id").Eq(memberID)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return model.Member{}, fmt.Errorf("get member: build query: %w", err)
	}

	var member model.Member
	if err := s.db.GetContext(ctx, &member, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Member{}, fmt.Errorf("get member %d: %w", memberID, ErrMemberNotFound)
		}
		return model.Member{}, fmt.Errorf("get member %d: %w", memberID, err)
	}
	return member, nil
}

// SearchBooks returns books whose title, author or isbn contains keyword.
//
// Matching is a case-sensitive substring test (instr), OR-combined across the
// three columns. SQLite's LIKE folds ASCII case, so it is not used here.
// A NULL isbn never matches. Results are ordered by book id.
func (s *Store) SearchBooks(ctx context.Context, keyword string) ([]model.Book, error) {
	contains := func(col string) goqu.Expression {
		return goqu.Func("instr", goqu.C(col), keyword).Gt(0)
	}

	query, args, err := dialect.From(tableBooks).
		Select(bookColumns...).
		Where(goqu.Or(
			contains("title"),
			contains("author"),
			contains("isbn"),
		)).
		Order(goqu.C("book_id").Asc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("search books: build query: %w", err)
	}

	books := []model.Book{}
	if err := s.db.SelectContext(ctx, &books, query, args...); err != nil {
		return nil, fmt.Errorf("search books: %w", err)
	}
	return books, nil
}

// OpenLoans returns the member's loans with returned = false, joined with
// the book title and ordered by transaction id.
func (s *Store) OpenLoans(ctx context.Context, memberID int64) ([]model.LoanView, error) {
	query, args, err := dialect.From(tableTransactions).
		Join(goqu.T(tableBooks), goqu.On(goqu.I("transactions.book_id").Eq(goqu.I("books.book_id")))).
		Select(
			goqu.I("transactions.transaction_id").As("transaction_id"),
			goqu.I("books.book_id").As("book_id"),
			goqu.I("books.title").As("title"),
			goqu.I("transactions.issue_date").As("issue_date"),
			goqu.I("transactions.due_date").As("due_date"),
		).
		Where(
			goqu.I("transactions.member_id").Eq(memberID),
			goqu.L("transactions.returned = FALSE"),
		).
		Order(goqu.I("transactions.transaction_id").Asc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("open loans: build query: %w", err)
	}

	loans := []model.LoanView{}
	if err := s.db.SelectContext(ctx, &loans, query, args...); err != nil {
		return nil, fmt.Errorf("open loans: %w", err)
	}
	return loans, nil
}

// Report counts titles, copies, members and loans. Open loans due before
// today count as overdue.
func (s *Store) Report(ctx context.Context, today time.Time) (model.Report, error) {
	var report model.Report

	query, args, err := dialect.From(tableBooks).
		Select(
			goqu.COUNT(goqu.Star()).As("titles"),
			goqu.COALESCE(goqu.SUM("quantity"), 0).As("copies"),
			goqu.COALESCE(goqu.SUM("available"), 0).As("available"),
		).
		Prepared(true).
		ToSQL()
	if err != nil {
		return model.Report{}, fmt.Errorf("report: build books query: %w", err)
	}
	if err := s.db.GetContext(ctx, &report, query, args...); err != nil {
		return model.Report{}, fmt.Errorf("report: books: %w", err)
	}

	if report.Members, err = s.count(ctx, dialect.From(tableMembers)); err != nil {
		return model.Report{}, fmt.Errorf("report: members: %w", err)
	}

	open := dialect.From(tableTransactions).Where(goqu.L("returned = FALSE"))
	if report.OpenLoans, err = s.count(ctx, open); err != nil {
		return model.Report{}, fmt.Errorf("report: open loans: %w", err)
	}

	overdue := open.Where(goqu.C("due_date").Lt(today.Format(model.DateLayout)))
	if report.OverdueLoans, err = s.count(ctx, overdue); err != nil {
		return model.Report{}, fmt.Errorf("report: overdue loans: %w", err)
	}

	return report, nil
}

// count runs SELECT COUNT(*) over the given dataset.
func (s *Store) count(ctx context.Context, ds *goqu.SelectDataset) (int, error) {
	query, args, err := ds.Select(goqu.COUNT(goqu.Star())).Prepared(true).ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count query: %w", err)
	}

	var n int
	if err := s.db.GetContext(ctx, &n, query, args...); err != nil {
		return 0, err
	}
	return n, nil
}
