package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// NewReportCommand creates the report command.
func NewReportCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize the catalog",
		Long: `Print counts of titles, copies, members, open loans and overdue loans.

A loan is overdue when it is still open after its due date.

Examples:
  library report
  library report --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openCatalog(rootOpts, cmd)
			if err != nil {
				return err
			}
			defer closeCatalog(c)

			f := newFormatter(rootOpts, cmd)
			report, err := c.Report(ctxOrBackground(cmd.Context()))
			if err != nil {
				return f.Failure("Report failed.", err)
			}
			return f.Render(report, func(w io.Writer) {
				fmt.Fprintln(w, "Catalog Report")
				fmt.Fprintf(w, "  Titles:          %d\n", report.Titles)
				fmt.Fprintf(w, "  Copies owned:    %d\n", report.Copies)
				fmt.Fprintf(w, "  Copies on shelf: %d\n", report.AvailableCopies)
				fmt.Fprintf(w, "  Members:         %d\n", report.Members)
				fmt.Fprintf(w, "  Open loans:      %d\n", report.OpenLoans)
				fmt.Fprintf(w, "  Overdue loans:   %d\n", report.OverdueLoans)
			})
		},
	}

	return cmd
}
