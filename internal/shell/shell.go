// Package shell implements the interactive, numbered-menu front end of the
// catalog.
//
// The shell only needs the six catalog operations in Catalog. Every failure
// is turned into a one-line message; nothing a user types can make Run
// return an error other than a read or write failure on the terminal.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/mustafa861/library/internal/model"
)

// Catalog is the subset of the catalog the shell drives.
type Catalog interface {
	AddBook(ctx context.Context, b model.NewBook) (int64, error)
	AddMember(ctx context.Context, m model.NewMember) (int64, error)
	SearchBooks(ctx context.Context, keyword string) ([]model.Book, error)
	IssueBook(ctx context.Context, bookID, memberID int64) (model.Loan, error)
	ReturnBook(ctx context.Context, bookID, memberID int64) (model.Loan, error)
	MemberOpenLoans(ctx context.Context, memberID int64) ([]model.LoanView, error)
}

const menu = `
Library Management System
1. Add Book
2. Add Member
3. Search Books
4. Issue Book
5. Return Book
6. View Member's Books
7. Exit
`

// errQuit ends the session; it never escapes Run.
var errQuit = errors.New("quit")

// inputLine is one line read from the input, or the read error that ended it.
type inputLine struct {
	text string
	err  error
}

// Shell reads menu choices from an input stream and prints results.
type Shell struct {
	catalog Catalog
	in      io.Reader
	out     io.Writer
	logger  *slog.Logger

	lines chan inputLine
	done  chan struct{}
}

// New creates a shell over c. A nil logger means slog.Default(). Every shell
// logs with its own session id.
func New(c Catalog, in io.Reader, out io.Writer, logger *slog.Logger) *Shell {
	if logger == nil {
		logger = slog.Default()
	}
	return &Shell{
		catalog: c,
		in:      in,
		out:     out,
		logger:  logger.With("session", uuid.Must(uuid.NewV7()).String()),
	}
}

// Run shows the menu until the user exits, input ends, or ctx is done.
// Run must be called at most once per Shell.
//
// Input is read on a background goroutine. When ctx is cancelled while that
// goroutine is blocked reading, Run returns at once but the goroutine stays
// parked until the reader delivers another line or fails, then exits.
func (s *Shell) Run(ctx context.Context) error {
	if ctx.Err() != nil {
		return nil
	}

	s.logger.Debug("shell started")
	defer s.logger.Debug("shell stopped")

	s.startReader()
	defer close(s.done)

	for {
		fmt.Fprint(s.out, menu)
		choice, err := s.prompt(ctx, "Enter your choice (1-7): ")
		if err != nil {
			return s.finish(err)
		}

		if err := s.dispatch(ctx, choice); err != nil {
			return s.finish(err)
		}
	}
}

// finish maps end-of-session errors to a clean exit.
func (s *Shell) finish(err error) error {
	if errors.Is(err, errQuit) || errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
		fmt.Fprintln(s.out, "Goodbye!")
		return nil
	}
	return err
}

func (s *Shell) dispatch(ctx context.Context, choice string) error {
	switch choice {
	case "1":
		return s.addBook(ctx)
	case "2":
		return s.addMember(ctx)
	case "3":
		return s.searchBooks(ctx)
	case "4":
		return s.issueBook(ctx)
	case "5":
		return s.returnBook(ctx)
	case "6":
		return s.memberBooks(ctx)
	case "7":
		return errQuit
	}
	fmt.Fprintln(s.out, "Invalid choice. Please try again.")
	return nil
}

func (s *Shell) addBook(ctx context.Context) error {
	var b model.NewBook
	var err error
	if b.Title, err = s.prompt(ctx, "Enter book title: "); err != nil {
		return err
	}
	if b.Author, err = s.prompt(ctx, "Enter author: "); err != nil {
		return err
	}
	if b.ISBN, err = s.prompt(ctx, "Enter ISBN (blank for none): "); err != nil {
		return err
	}
	quantity, ok, err := s.promptInt(ctx, "Enter quantity: ")
	if err != nil || !ok {
		return err
	}
	b.Quantity = int(quantity)

	if _, err := s.catalog.AddBook(ctx, b); err != nil {
		s.logger.Info("add book failed", "error", err)
		fmt.Fprintln(s.out, "Failed to add book.")
		return nil
	}
	fmt.Fprintln(s.out, "Book added successfully!")
	return nil
}

func (s *Shell) addMember(ctx context.Context) error {
	var m model.NewMember
	var err error
	if m.Name, err = s.prompt(ctx, "Enter member name: "); err != nil {
		return err
	}
	if m.Email, err = s.prompt(ctx, "Enter email (blank for none): "); err != nil {
		return err
	}
	if m.Phone, err = s.prompt(ctx, "Enter phone: "); err != nil {
		return err
	}

	if _, err := s.catalog.AddMember(ctx, m); err != nil {
		s.logger.Info("add member failed", "error", err)
		fmt.Fprintln(s.out, "Failed to add member.")
		return nil
	}
	fmt.Fprintln(s.out, "Member added successfully!")
	return nil
}

func (s *Shell) searchBooks(ctx context.Context) error {
	keyword, err := s.prompt(ctx, "Enter search keyword: ")
	if err != nil {
		return err
	}

	books, err := s.catalog.SearchBooks(ctx, keyword)
	if err != nil {
		s.logger.Info("search failed", "error", err)
		fmt.Fprintln(s.out, "Search failed.")
		return nil
	}
	if len(books) == 0 {
		fmt.Fprintln(s.out, "No books found.")
		return nil
	}
	for _, b := range books {
		isbn := "-"
		if b.ISBN != nil {
			isbn = *b.ISBN
		}
		fmt.Fprintf(s.out, "ID: %d, Title: %s, Author: %s, ISBN: %s, Available: %d/%d\n",
			b.ID, b.Title, b.Author, isbn, b.Available, b.Quantity)
	}
	return nil
}

func (s *Shell) issueBook(ctx context.Context) error {
	bookID, memberID, ok, err := s.promptPair(ctx)
	if err != nil || !ok {
		return err
	}

	if _, err := s.catalog.IssueBook(ctx, bookID, memberID); err != nil {
		s.logger.Info("issue failed", "book_id", bookID, "member_id", memberID, "error", err)
		fmt.Fprintln(s.out, "Failed to issue book.")
		return nil
	}
	fmt.Fprintln(s.out, "Book issued successfully!")
	return nil
}

func (s *Shell) returnBook(ctx context.Context) error {
	bookID, memberID, ok, err := s.promptPair(ctx)
	if err != nil || !ok {
		return err
	}

	if _, err := s.catalog.ReturnBook(ctx, bookID, memberID); err != nil {
		s.logger.Info("return failed", "book_id", bookID, "member_id", memberID, "error", err)
		fmt.Fprintln(s.out, "Failed to return book.")
		return nil
	}
	fmt.Fprintln(s.out, "Book returned successfully!")
	return nil
}

func (s *Shell) memberBooks(ctx context.Context) error {
	memberID, ok, err := s.promptInt(ctx, "Enter member ID: ")
	if err != nil || !ok {
		return err
	}

	loans, err := s.catalog.MemberOpenLoans(ctx, memberID)
	if err != nil {
		s.logger.Info("member loans failed", "member_id", memberID, "error", err)
		fmt.Fprintln(s.out, "Failed to fetch member's books.")
		return nil
	}
	if len(loans) == 0 {
		fmt.Fprintln(s.out, "No books currently issued.")
		return nil
	}
	for _, l := range loans {
		fmt.Fprintf(s.out, "Title: %s, Issued: %s, Due: %s\n",
			l.Title, l.IssueDate.Format(model.DateLayout), l.DueDate.Format(model.DateLayout))
	}
	return nil
}

// promptPair asks for a book id and a member id.
func (s *Shell) promptPair(ctx context.Context) (bookID, memberID int64, ok bool, err error) {
	if bookID, ok, err = s.promptInt(ctx, "Enter book ID: "); err != nil || !ok {
		return 0, 0, ok, err
	}
	if memberID, ok, err = s.promptInt(ctx, "Enter member ID: "); err != nil || !ok {
		return 0, 0, ok, err
	}
	return bookID, memberID, true, nil
}

// promptInt reads an integer; ok is false (and a message printed) when the
// line is not a number.
func (s *Shell) promptInt(ctx context.Context, label string) (int64, bool, error) {
	line, err := s.prompt(ctx, label)
	if err != nil {
		return 0, false, err
	}
	n, err := strconv.ParseInt(line, 10, 64)
	if err != nil {
		fmt.Fprintln(s.out, "Please enter a valid number.")
		return 0, false, nil
	}
	return n, true, nil
}

// prompt prints label and returns the next trimmed input line.
func (s *Shell) prompt(ctx context.Context, label string) (string, error) {
	fmt.Fprint(s.out, label)

	select {
	case <-ctx.Done():
		fmt.Fprintln(s.out)
		return "", ctx.Err()
	case l := <-s.lines:
		if l.err != nil {
			// Terminate the dangling prompt line.
			fmt.Fprintln(s.out)
			if errors.Is(l.err, io.EOF) {
				return "", io.EOF
			}
			return "", fmt.Errorf("read input: %w", l.err)
		}
		return strings.TrimSpace(l.text), nil
	}
}

// startReader scans the input on its own goroutine so a blocked terminal
// read never keeps Run from noticing cancellation.
func (s *Shell) startReader() {
	s.lines = make(chan inputLine)
	s.done = make(chan struct{})

	go func() {
		sc := bufio.NewScanner(s.in)
		for sc.Scan() {
			select {
			case s.lines <- inputLine{text: sc.Text()}:
			case <-s.done:
				return
			}
		}
		err := sc.Err()
		if err == nil {
			err = io.EOF
		}
		select {
		case s.lines <- inputLine{err: err}:
		case <-s.done:
		}
	}()
}
