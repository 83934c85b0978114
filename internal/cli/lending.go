package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mustafa861/library/internal/model"
)

// LendingOptions holds flags for the issue and return commands.
type LendingOptions struct {
	*RootOptions
	BookID   int64
	MemberID int64
}

func addLendingFlags(cmd *cobra.Command, opts *LendingOptions) {
	cmd.Flags().Int64Var(&opts.BookID, "book", 0, "book ID (required)")
	cmd.Flags().Int64Var(&opts.MemberID, "member", 0, "member ID (required)")
	_ = cmd.MarkFlagRequired("book")
	_ = cmd.MarkFlagRequired("member")
}

// NewIssueCommand creates the issue command.
func NewIssueCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LendingOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Lend one copy of a book to a member",
		Long: `Lend one copy of a book to a member.

Fails, changing nothing, when the book or member does not exist or no copy
is available. The loan is due after the lending period (LIBRARY_LOAN_DAYS,
14 days by default).

Exit codes:
  0 - Book issued
  1 - Book or member missing, or no copy available
  2 - Command error

Example:
  library issue --book 1 --member 1`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openCatalog(opts.RootOptions, cmd)
			if err != nil {
				return err
			}
			defer closeCatalog(c)

			f := newFormatter(opts.RootOptions, cmd)
			loan, err := c.IssueBook(ctxOrBackground(cmd.Context()), opts.BookID, opts.MemberID)
			if err != nil {
				return f.Failure("Failed to issue book.", err)
			}
			return f.Render(loan, func(w io.Writer) {
				fmt.Fprintf(w, "Book issued successfully! Due %s\n", loan.DueDate.Format(model.DateLayout))
			})
		},
	}
	addLendingFlags(cmd, opts)

	return cmd
}

// NewReturnCommand creates the return command.
func NewReturnCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LendingOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "return",
		Short: "Return a book lent to a member",
		Long: `Close the member's oldest open loan of the book and put the copy back.

Fails, changing nothing, when the member has no open loan of the book.

Exit codes:
  0 - Book returned
  1 - No open loan for this book and member
  2 - Command error

Example:
  library return --book 1 --member 1`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openCatalog(opts.RootOptions, cmd)
			if err != nil {
				return err
			}
			defer closeCatalog(c)

			f := newFormatter(opts.RootOptions, cmd)
			loan, err := c.ReturnBook(ctxOrBackground(cmd.Context()), opts.BookID, opts.MemberID)
			if err != nil {
				return f.Failure("Failed to return book.", err)
			}
			return f.Render(loan, func(w io.Writer) {
				fmt.Fprintln(w, "Book returned successfully!")
			})
		},
	}
	addLendingFlags(cmd, opts)

	return cmd
}

// LoansOptions holds flags for the loans command.
type LoansOptions struct {
	*RootOptions
	MemberID int64
}

// NewLoansCommand creates the loans command.
func NewLoansCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LoansOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "loans",
		Short: "List a member's open loans",
		Long: `List the books a member currently has out, with issue and due dates.

Example:
  library loans --member 1`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openCatalog(opts.RootOptions, cmd)
			if err != nil {
				return err
			}
			defer closeCatalog(c)

			f := newFormatter(opts.RootOptions, cmd)
			loans, err := c.MemberOpenLoans(ctxOrBackground(cmd.Context()), opts.MemberID)
			if err != nil {
				return f.Failure("Failed to fetch member's books.", err)
			}
			return f.Render(loans, func(w io.Writer) { writeLoans(w, loans) })
		},
	}

	cmd.Flags().Int64Var(&opts.MemberID, "member", 0, "member ID (required)")
	_ = cmd.MarkFlagRequired("member")

	return cmd
}

func writeLoans(w io.Writer, loans []model.LoanView) {
	if len(loans) == 0 {
		fmt.Fprintln(w, "No books currently issued.")
		return
	}
	for _, l := range loans {
		fmt.Fprintf(w, "Title: %s, Issued: %s, Due: %s\n",
			l.Title, l.IssueDate.Format(model.DateLayout), l.DueDate.Format(model.DateLayout))
	}
}
