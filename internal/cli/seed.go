package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mustafa861/library/internal/seed"
)

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed <file.yaml>",
		Short: "Load books and members from a YAML file",
		Long: `Load books and members from a YAML seed file.

The whole file is validated before anything is written. Entries whose ISBN
or email already exists are skipped.

Exit codes:
  0 - Seed applied (possibly with skipped duplicates)
  1 - A write failed part way
  2 - Command error (file missing or invalid, database cannot be opened)

Example:
  library seed ./seed.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(rootOpts, cmd)

			file, err := seed.Load(args[0])
			if err != nil {
				return f.fail(ExitCommandError, ErrCodeSeed, "invalid seed file", err)
			}

			c, err := openCatalog(rootOpts, cmd)
			if err != nil {
				return err
			}
			defer closeCatalog(c)

			res, err := seed.Apply(ctxOrBackground(cmd.Context()), c, file, slog.Default())
			if err != nil {
				return f.Failure("Seeding failed.", err)
			}
			return f.Render(res, func(w io.Writer) {
				fmt.Fprintf(w, "Books:   %d added, %d skipped\n", res.BooksAdded, res.BooksSkipped)
				fmt.Fprintf(w, "Members: %d added, %d skipped\n", res.MembersAdded, res.MembersSkipped)
			})
		},
	}

	return cmd
}
