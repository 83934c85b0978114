package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mustafa861/library/internal/model"
)

// NewSearchCommand creates the search command.
func NewSearchCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <keyword>",
		Short: "Search books by title, author or ISBN",
		Long: `List books whose title, author or ISBN contains the keyword.

Matching is a case-sensitive substring test.

Examples:
  library search Python
  library search ISBN --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openCatalog(rootOpts, cmd)
			if err != nil {
				return err
			}
			defer closeCatalog(c)

			f := newFormatter(rootOpts, cmd)
			books, err := c.SearchBooks(ctxOrBackground(cmd.Context()), args[0])
			if err != nil {
				return f.Failure("Search failed.", err)
			}
			return f.Render(books, func(w io.Writer) { writeBooks(w, books) })
		},
	}

	return cmd
}

func writeBooks(w io.Writer, books []model.Book) {
	if len(books) == 0 {
		fmt.Fprintln(w, "No books found.")
		return
	}
	for _, b := range books {
		isbn := "-"
		if b.ISBN != nil {
			isbn = *b.ISBN
		}
		fmt.Fprintf(w, "ID: %d, Title: %s, Author: %s, ISBN: %s, Available: %d/%d\n",
			b.ID, b.Title, b.Author, isbn, b.Available, b.Quantity)
	}
}
