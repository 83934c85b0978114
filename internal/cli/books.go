package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mustafa861/library/internal/model"
)

// AddBookOptions holds flags for the add-book command.
type AddBookOptions struct {
	*RootOptions
	Book model.NewBook
}

// NewAddBookCommand creates the add-book command.
func NewAddBookCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AddBookOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add-book",
		Short: "Add a book to the catalog",
		Long: `Add a book with the given number of copies, all initially available.

The ISBN is optional; when given it must not already be catalogued.

Examples:
  library add-book --title "Python Programming" --author "John Smith" --isbn ISBN123 --quantity 5
  library add-book --title "Zine #4" --author "Anon" --quantity 1`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAddBook(cmd.Context(), opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Book.Title, "title", "", "book title (required)")
	cmd.Flags().StringVar(&opts.Book.Author, "author", "", "book author (required)")
	cmd.Flags().StringVar(&opts.Book.ISBN, "isbn", "", "ISBN (optional, unique)")
	cmd.Flags().IntVar(&opts.Book.Quantity, "quantity", 0, "number of copies owned (required)")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("author")
	_ = cmd.MarkFlagRequired("quantity")

	return cmd
}

func runAddBook(ctx context.Context, opts *AddBookOptions, cmd *cobra.Command) error {
	c, err := openCatalog(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer closeCatalog(c)

	f := newFormatter(opts.RootOptions, cmd)
	id, err := c.AddBook(ctxOrBackground(ctx), opts.Book)
	if err != nil {
		return f.Failure("Failed to add book.", err)
	}

	return f.Render(map[string]int64{"id": id}, func(w io.Writer) {
		fmt.Fprintf(w, "Book added successfully! (id %d)\n", id)
	})
}

// AddMemberOptions holds flags for the add-member command.
type AddMemberOptions struct {
	*RootOptions
	Member model.NewMember
}

// NewAddMemberCommand creates the add-member command.
func NewAddMemberCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AddMemberOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add-member",
		Short: "Register a library member",
		Long: `Register a member. The email is optional; when given it must be unique.

Example:
  library add-member --name "Alice Brown" --email alice@email.com --phone 1234567890`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAddMember(cmd.Context(), opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Member.Name, "name", "", "member name (required)")
	cmd.Flags().StringVar(&opts.Member.Email, "email", "", "email (optional, unique)")
	cmd.Flags().StringVar(&opts.Member.Phone, "phone", "", "phone number")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func runAddMember(ctx context.Context, opts *AddMemberOptions, cmd *cobra.Command) error {
	c, err := openCatalog(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer closeCatalog(c)

	f := newFormatter(opts.RootOptions, cmd)
	id, err := c.AddMember(ctxOrBackground(ctx), opts.Member)
	if err != nil {
		return f.Failure("Failed to add member.", err)
	}

	return f.Render(map[string]int64{"id": id}, func(w io.Writer) {
		fmt.Fprintf(w, "Member added successfully! (id %d)\n", id)
	})
}

// ctxOrBackground returns ctx, or context.Background() when the command was
// executed without one.
func ctxOrBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
