package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mustafa861/library/internal/model"
	"github.com/mustafa861/library/internal/store"
)

// DefaultLoanDays is the lending period applied when none is configured.
const DefaultLoanDays = 14

// Clock supplies the current time for issue dates and overdue checks.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }

// Option configures a Catalog.
type Option func(*Catalog)

// WithClock overrides the clock used for loan dates.
func WithClock(clock Clock) Option {
	return func(c *Catalog) { c.clock = clock }
}

// WithLoanDays overrides the lending period. Values below 1 are ignored.
func WithLoanDays(days int) Option {
	return func(c *Catalog) {
		if days > 0 {
			c.loanDays = days
		}
	}
}

// WithLogger sets the logger for operation diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Catalog) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Catalog records books, members and loans and enforces availability.
type Catalog struct {
	store    *store.Store
	clock    Clock
	loanDays int
	logger   *slog.Logger
}

// Open opens (or creates) the database at path and returns a Catalog that
// owns it. Callers must Close the catalog.
func Open(path string, opts ...Option) (*Catalog, error) {
	st, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	return New(st, opts...), nil
}

// New returns a Catalog over an already opened store. The catalog takes
// ownership: Close closes st.
func New(st *store.Store, opts ...Option) *Catalog {
	c := &Catalog{
		store:    st,
		clock:    SystemClock{},
		loanDays: DefaultLoanDays,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Close releases the store handle.
func (c *Catalog) Close() error {
	return c.store.Close()
}

// LoanDays returns the configured lending period in days.
func (c *Catalog) LoanDays() int {
	return c.loanDays
}

// AddBook adds a title with quantity copies, all initially available.
// Fails with KindConstraintViolation when a non-empty ISBN is already
// catalogued, and with KindInvalidInput for a missing title or author or a
// negative quantity.
func (c *Catalog) AddBook(ctx context.Context, b model.NewBook) (int64, error) {
	const op = "add book"

	b = normalizeBook(b)
	if err := checkInput(op, b); err != nil {
		return 0, err
	}

	id, err := c.store.InsertBook(ctx, b)
	if err != nil {
		c.logger.Debug("add book failed", "title", b.Title, "isbn", b.ISBN, "error", err)
		return 0, classify(op, err)
	}

	c.logger.Debug("book added", "book_id", id, "title", b.Title, "quantity", b.Quantity)
	return id, nil
}

// AddMember registers a member. Fails with KindConstraintViolation when a
// non-empty email is already registered.
func (c *Catalog) AddMember(ctx context.Context, m model.NewMember) (int64, error) {
	const op = "add member"

	m = normalizeMember(m)
	if err := checkInput(op, m); err != nil {
		return 0, err
	}

	id, err := c.store.InsertMember(ctx, m)
	if err != nil {
		c.logger.Debug("add member failed", "name", m.Name, "email", m.Email, "error", err)
		return 0, classify(op, err)
	}

	c.logger.Debug("member added", "member_id", id, "name", m.Name)
	return id, nil
}

// SearchBooks returns the books whose title, author or isbn contains
// keyword (case-sensitive), ordered by id.
func (c *Catalog) SearchBooks(ctx context.Context, keyword string) ([]model.Book, error) {
	books, err := c.store.SearchBooks(ctx, normalizeKeyword(keyword))
	if err != nil {
		return nil, classify("search books", err)
	}
	return books, nil
}

// Book returns a single book by id.
func (c *Catalog) Book(ctx context.Context, bookID int64) (model.Book, error) {
	book, err := c.store.GetBook(ctx, bookID)
	if err != nil {
		return model.Book{}, classify("get book", err)
	}
	return book, nil
}

// Member returns a single member by id.
func (c *Catalog) Member(ctx context.Context, memberID int64) (model.Member, error) {
	member, err := c.store.GetMember(ctx, memberID)
	if err != nil {
		return model.Member{}, classify("get member", err)
	}
	return member, nil
}

// IssueBook lends one copy of the book to the member.
//
// The loan is dated today and due after the loan period. Nothing is written
// when the book or member does not exist or no copy is on the shelf; those
// cases fail with KindNotFoundOrUnavailable.
func (c *Catalog) IssueBook(ctx context.Context, bookID, memberID int64) (model.Loan, error) {
	issued := c.clock.Now()
	due := issued.AddDate(0, 0, c.loanDays)

	loan, err := c.store.IssueLoan(ctx, bookID, memberID, issued, due)
	if err != nil {
		c.logger.Debug("issue failed", "book_id", bookID, "member_id", memberID, "error", err)
		return model.Loan{}, classify("issue book", err)
	}

	c.logger.Debug("book issued",
		"loan_id", loan.ID,
		"book_id", bookID,
		"member_id", memberID,
		"due", loan.DueDate.Format(model.DateLayout),
	)
	return loan, nil
}

// ReturnBook closes the member's oldest open loan of the book and puts the
// copy back on the shelf. With no open loan it fails with
// KindNotFoundOrUnavailable and availability is left untouched.
func (c *Catalog) ReturnBook(ctx context.Context, bookID, memberID int64) (model.Loan, error) {
	loan, err := c.store.ReturnLoan(ctx, bookID, memberID)
	if err != nil {
		c.logger.Debug("return failed", "book_id", bookID, "member_id", memberID, "error", err)
		return model.Loan{}, classify("return book", err)
	}

	c.logger.Debug("book returned", "loan_id", loan.ID, "book_id", bookID, "member_id", memberID)
	return loan, nil
}

// MemberOpenLoans lists the member's loans that have not been returned.
// An unknown member simply has none.
func (c *Catalog) MemberOpenLoans(ctx context.Context, memberID int64) ([]model.LoanView, error) {
	loans, err := c.store.OpenLoans(ctx, memberID)
	if err != nil {
		return nil, classify("member open loans", err)
	}
	return loans, nil
}

// Report summarizes the catalog; open loans due before today are overdue.
func (c *Catalog) Report(ctx context.Context) (model.Report, error) {
	report, err := c.store.Report(ctx, c.clock.Now())
	if err != nil {
		return model.Report{}, classify("report", err)
	}
	return report, nil
}
